package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/photoboard/photoboard/internal/dto"
	apierrors "github.com/photoboard/photoboard/internal/errors"
	"github.com/photoboard/photoboard/internal/middleware"
	"github.com/photoboard/photoboard/internal/services"
)

// CommentHandler coordinates comment-related HTTP handlers.
type CommentHandler struct {
	commentService *services.CommentService
	photoService   *services.PhotoService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService, photoService *services.PhotoService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		photoService:   photoService,
	}
}

// ListComments returns a photo's comment thread, newest first.
func (h *CommentHandler) ListComments(c *gin.Context) {
	photo, err := h.photoService.FindPhotoBySlug(c.Param("slug"))
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	comments, err := h.commentService.ListComments(photo.ID)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": dto.ToCommentListDTO(comments)})
}

// AddComment posts a comment or reply on a photo.
func (h *CommentHandler) AddComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	photo, err := h.photoService.FindPhotoBySlug(c.Param("slug"))
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	type AddCommentRequest struct {
		Text     string  `json:"text" binding:"required"`
		ParentID *uint64 `json:"parent_id"`
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.AddComment(services.AddCommentInput{
		PhotoID:  photo.ID,
		UserID:   userID,
		ParentID: req.ParentID,
		Text:     req.Text,
	})
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// UpdateComment edits a comment's text.
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid comment ID")
		return
	}

	type UpdateCommentRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.UpdateComment(commentID, userID, req.Text)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment and its replies.
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid comment ID")
		return
	}

	if err := h.commentService.DeleteComment(commentID, userID); err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrPhotoNotFound),
		errors.Is(err, services.ErrParentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCommentTooShort),
		errors.Is(err, services.ErrCommentTooLong),
		errors.Is(err, services.ErrCommentBlocked),
		errors.Is(err, services.ErrParentMismatch),
		errors.Is(err, services.ErrReplyDepthExceeded):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
