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
	"github.com/photoboard/photoboard/internal/services"
)

// ProfileHandler coordinates profile-related HTTP handlers.
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile returns a user's profile with their recent uploads.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.profileService.GetProfile(actorID, targetID)
	if err != nil {
		respondProfileError(c, err)
		return
	}

	photos, err := h.profileService.RecentPhotos(targetID, constants.RelatedPhotoLimit)
	if err != nil {
		respondProfileError(c, err)
		return
	}

	resp := dto.ToProfileDTO(*user, actorID == targetID)
	resp.Photos = make([]dto.PhotoListItem, len(photos))
	for i, photo := range photos {
		resp.Photos[i] = dto.ToPhotoListItem(photo)
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateProfile edits profile fields.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	type UpdateProfileRequest struct {
		Bio       *string `json:"bio"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.profileService.UpdateProfile(actorID, targetID, services.UpdateProfileInput{
		Bio:       req.Bio,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user, actorID == targetID))
}

// SetAvatar uploads a new avatar image.
func (h *ProfileHandler) SetAvatar(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		apierrors.BadRequest(c, "Avatar file is required")
		return
	}
	if fileHeader.Size > constants.MaxUploadBytes {
		apierrors.BadRequest(c, "Avatar exceeds the size limit")
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

	profile, err := h.profileService.SetAvatar(c.Request.Context(), actorID, targetID, image, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_key": profile.AvatarKey})
}

func respondProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrImageTooLarge),
		errors.Is(err, services.ErrUnsupportedImage):
		apierrors.BadRequest(c, err.Error())
	case isStorageError(err):
		apierrors.StorageUnavailable(c, "")
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
