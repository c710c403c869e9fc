package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/photoboard/photoboard/internal/constants"
	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/repository"
)

var (
	ErrCommentNotFound    = errors.New("comment not found")
	ErrCommentTooShort    = errors.New("comment is too short")
	ErrCommentTooLong     = errors.New("comment is too long")
	ErrCommentBlocked     = errors.New("comment contains blocked words")
	ErrParentNotFound     = errors.New("parent comment not found")
	ErrParentMismatch     = errors.New("parent comment belongs to a different photo")
	ErrReplyDepthExceeded = errors.New("replies to replies are not allowed")
)

// blockedWords cause a comment to be rejected outright.
var blockedWords = []string{"spam", "casino", "viagra"}

// CommentService handles comment business logic.
type CommentService struct {
	commentRepo repository.CommentRepository
	photoRepo   repository.PhotoRepository
	authz       *AuthzService
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repository.CommentRepository, photoRepo repository.PhotoRepository, authz *AuthzService) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		photoRepo:   photoRepo,
		authz:       authz,
	}
}

// AddCommentInput represents input for posting a comment.
type AddCommentInput struct {
	PhotoID  uint64
	UserID   uint64
	ParentID *uint64
	Text     string
}

// AddComment posts a comment, optionally as a reply. Threads are one level
// deep: a reply cannot itself be replied to.
func (s *CommentService) AddComment(input AddCommentInput) (*models.Comment, error) {
	text := strings.TrimSpace(input.Text)
	if err := validateCommentText(text); err != nil {
		return nil, err
	}

	if _, err := s.photoRepo.FindByID(input.PhotoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}

	if input.ParentID != nil {
		parent, err := s.commentRepo.FindByID(*input.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to find parent comment: %w", err)
		}
		if parent.PhotoID != input.PhotoID {
			return nil, ErrParentMismatch
		}
		if parent.ParentID != nil {
			return nil, ErrReplyDepthExceeded
		}
	}

	comment := &models.Comment{
		PhotoID:  input.PhotoID,
		UserID:   input.UserID,
		ParentID: input.ParentID,
		Text:     text,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// ListComments returns a photo's top-level comments, newest first, with
// replies attached.
func (s *CommentService) ListComments(photoID uint64) ([]models.Comment, error) {
	if _, err := s.photoRepo.FindByID(photoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}

	comments, err := s.commentRepo.ListByPhoto(photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// UpdateComment edits a comment's text. Allowed for the author or holders of
// can_moderate_comments.
func (s *CommentService) UpdateComment(commentID, actorID uint64, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if err := validateCommentText(text); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	if err := s.requireAuthorOrModerator(comment, actorID); err != nil {
		return nil, err
	}

	comment.Text = text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// DeleteComment removes a comment and its replies. Allowed for the author,
// staff, or holders of can_moderate_comments.
func (s *CommentService) DeleteComment(commentID, actorID uint64) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}

	if err := s.requireAuthorOrModerator(comment, actorID); err != nil {
		return err
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) requireAuthorOrModerator(comment *models.Comment, actorID uint64) error {
	if comment.UserID == actorID {
		return nil
	}

	owner := comment.UserID
	allowed, err := s.authz.IsOwnerOrStaff(actorID, &owner)
	if err != nil {
		return err
	}
	if allowed {
		return nil
	}

	moderator, err := s.authz.HasPermission(actorID, constants.PermModerateComments)
	if err != nil {
		return err
	}
	if !moderator {
		return ErrPermissionDenied
	}
	return nil
}

func validateCommentText(text string) error {
	// Limits count characters, not bytes, so multi-byte scripts measure fairly.
	length := utf8.RuneCountInString(text)
	if length < constants.MinCommentLength {
		return ErrCommentTooShort
	}
	if length > constants.MaxCommentLength {
		return ErrCommentTooLong
	}

	lowered := strings.ToLower(text)
	for _, word := range blockedWords {
		if strings.Contains(lowered, word) {
			return ErrCommentBlocked
		}
	}
	return nil
}
