package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/photoboard/photoboard/internal/constants"
	"github.com/photoboard/photoboard/internal/dto"
	apierrors "github.com/photoboard/photoboard/internal/errors"
	"github.com/photoboard/photoboard/internal/middleware"
	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/services"
	"github.com/photoboard/photoboard/internal/utils"
)

// PhotoHandler coordinates photo-related HTTP handlers.
type PhotoHandler struct {
	photoService    *services.PhotoService
	reactionService *services.ReactionService
}

// NewPhotoHandler creates a new PhotoHandler.
func NewPhotoHandler(photoService *services.PhotoService, reactionService *services.ReactionService) *PhotoHandler {
	return &PhotoHandler{
		photoService:    photoService,
		reactionService: reactionService,
	}
}

// ListPhotos returns photos matching the query filters.
func (h *PhotoHandler) ListPhotos(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	input := services.ListPhotosInput{
		Sort:     c.Query("sort"),
		Page:     params.Page,
		PageSize: params.Limit,
	}

	if category := c.Query("category"); category != "" {
		cat := models.PhotoCategory(category)
		input.Category = &cat
	}
	if tag := c.Query("tag"); tag != "" {
		input.TagSlug = &tag
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid year")
			return
		}
		input.Year = &year
	}
	if uploaderStr := c.Query("uploader_id"); uploaderStr != "" {
		uploaderID, err := strconv.ParseUint(uploaderStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid uploader_id")
			return
		}
		input.UploaderID = &uploaderID
	}
	if featuredStr := c.Query("featured"); featuredStr != "" {
		featured, err := strconv.ParseBool(featuredStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid featured flag")
			return
		}
		input.Featured = &featured
	}

	photos, total, err := h.photoService.ListPhotos(input)
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPhotoListResponse(photos, params.Page, params.Limit, total))
}

// CreatePhoto uploads a new photo from a multipart form.
func (h *PhotoHandler) CreatePhoto(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		apierrors.BadRequest(c, "Image file is required")
		return
	}
	if fileHeader.Size > constants.MaxUploadBytes {
		apierrors.BadRequest(c, "Image exceeds the size limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalError(c, "Failed to read upload")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, constants.MaxUploadBytes+1))
	if err != nil {
		apierrors.InternalError(c, "Failed to read upload")
		return
	}

	photo, err := h.photoService.CreatePhoto(c.Request.Context(), services.CreatePhotoInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    models.PhotoCategory(c.PostForm("category")),
		Tags:        c.PostForm("tags"),
		Image:       image,
		ContentType: fileHeader.Header.Get("Content-Type"),
		UploaderID:  userID,
	})
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPhotoDTO(*photo))
}

// GetPhoto returns a photo with navigation context and reaction totals.
// Each request counts as one view.
func (h *PhotoHandler) GetPhoto(c *gin.Context) {
	photo, err := h.photoService.GetPhotoBySlug(c.Param("slug"))
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	sameCategory, _ := strconv.ParseBool(c.DefaultQuery("same_category", "false"))
	prev, next, err := h.photoService.AdjacentPhotos(photo, sameCategory)
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	related, err := h.photoService.RelatedPhotos(photo)
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	likes, dislikes, err := h.reactionService.Counts(photo.ID)
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	relatedItems := make([]dto.PhotoListItem, len(related))
	for i, p := range related {
		relatedItems[i] = dto.ToPhotoListItem(p)
	}

	c.JSON(http.StatusOK, dto.PhotoDetailResponse{
		Photo:   dto.ToPhotoDTO(*photo),
		Prev:    dto.ToPhotoListItemPtr(prev),
		Next:    dto.ToPhotoListItemPtr(next),
		Related: relatedItems,
		Likes:   likes,
		Dislike: dislikes,
	})
}

// UpdatePhoto edits photo metadata.
func (h *PhotoHandler) UpdatePhoto(c *gin.Context) {
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

	type UpdatePhotoRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		Tags        *string `json:"tags"`
	}

	var req UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdatePhotoInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.Category != nil {
		category := models.PhotoCategory(*req.Category)
		input.Category = &category
	}

	updated, err := h.photoService.UpdatePhoto(photo.ID, userID, input)
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPhotoDTO(*updated))
}

// DeletePhoto removes a photo and releases its stored image.
func (h *PhotoHandler) DeletePhoto(c *gin.Context) {
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

	if err := h.photoService.DeletePhoto(c.Request.Context(), photo.ID, userID); err != nil {
		respondPhotoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted"})
}

// SetFeatured marks or unmarks a photo as featured.
func (h *PhotoHandler) SetFeatured(c *gin.Context) {
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

	type FeatureRequest struct {
		Featured *bool `json:"featured" binding:"required"`
	}

	var req FeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.photoService.SetFeatured(photo.ID, userID, *req.Featured)
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPhotoDTO(*updated))
}

// React applies a like or dislike to a photo.
func (h *PhotoHandler) React(c *gin.Context) {
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

	type ReactionRequest struct {
		Reaction string `json:"reaction" binding:"required"`
	}

	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.reactionService.React(userID, photo.ID, req.Reaction)
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"value":    result.Value,
		"likes":    result.Likes,
		"dislikes": result.Dislikes,
	})
}

// Stats returns collection-wide statistics.
func (h *PhotoHandler) Stats(c *gin.Context) {
	stats, err := h.photoService.Stats()
	if err != nil {
		respondPhotoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatsResponse(stats))
}

func respondPhotoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPhotoNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPhotoTitleRequired),
		errors.Is(err, services.ErrPhotoTitleTooLong),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidSortField),
		errors.Is(err, services.ErrImageTooLarge),
		errors.Is(err, services.ErrUnsupportedImage),
		errors.Is(err, services.ErrInvalidReaction):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUploadLimitReached):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrSlugExhausted):
		apierrors.Conflict(c, err.Error())
	case isStorageError(err):
		apierrors.StorageUnavailable(c, "")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
