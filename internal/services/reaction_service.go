package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/repository"
)

var ErrInvalidReaction = errors.New("reaction must be like or dislike")

// ReactionService handles like/dislike business logic.
type ReactionService struct {
	reactionRepo repository.ReactionRepository
	photoRepo    repository.PhotoRepository
}

// NewReactionService creates a new ReactionService.
func NewReactionService(reactionRepo repository.ReactionRepository, photoRepo repository.PhotoRepository) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		photoRepo:    photoRepo,
	}
}

// ReactionResult reports the user's state after reacting plus the new totals.
type ReactionResult struct {
	// Value is nil when the reaction was toggled off.
	Value    *models.ReactionValue
	Likes    int64
	Dislikes int64
}

// React applies a like or dislike. Repeating the current reaction removes it;
// the opposite reaction replaces it.
func (s *ReactionService) React(userID, photoID uint64, kind string) (*ReactionResult, error) {
	var value models.ReactionValue
	switch kind {
	case "like":
		value = models.ReactionLike
	case "dislike":
		value = models.ReactionDislike
	default:
		return nil, ErrInvalidReaction
	}

	if _, err := s.photoRepo.FindByID(photoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}

	reaction, err := s.reactionRepo.Set(userID, photoID, value)
	if err != nil {
		return nil, fmt.Errorf("failed to apply reaction: %w", err)
	}

	likes, dislikes, err := s.reactionRepo.Counts(photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reactions: %w", err)
	}

	result := &ReactionResult{Likes: likes, Dislikes: dislikes}
	if reaction != nil {
		result.Value = &reaction.Value
	}

	return result, nil
}

// Counts returns the like and dislike totals for a photo.
func (s *ReactionService) Counts(photoID uint64) (likes, dislikes int64, err error) {
	if _, err := s.photoRepo.FindByID(photoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrPhotoNotFound
		}
		return 0, 0, fmt.Errorf("failed to find photo: %w", err)
	}

	likes, dislikes, err = s.reactionRepo.Counts(photoID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count reactions: %w", err)
	}
	return likes, dislikes, nil
}
