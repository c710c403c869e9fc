package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/photoboard/photoboard/internal/constants"
	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/repository"
	"github.com/photoboard/photoboard/internal/storage"
)

// ProfileService handles profile viewing and editing.
type ProfileService struct {
	userRepo  repository.UserRepository
	photoRepo repository.PhotoRepository
	blobs     storage.BlobStorage
	authz     *AuthzService
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repository.UserRepository, photoRepo repository.PhotoRepository, blobs storage.BlobStorage, authz *AuthzService) *ProfileService {
	return &ProfileService{
		userRepo:  userRepo,
		photoRepo: photoRepo,
		blobs:     blobs,
		authz:     authz,
	}
}

// GetProfile returns a user's profile. Users always see their own; other
// profiles need can_view_all_profiles.
func (s *ProfileService) GetProfile(actorID, targetUserID uint64) (*models.User, error) {
	if actorID != targetUserID {
		if err := s.authz.RequirePermission(actorID, constants.PermViewAllProfiles); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.FindByID(targetUserID, "Profile")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Profiles are created on signup, but ensure one exists for accounts
	// that predate that path.
	if user.Profile == nil {
		profile, err := s.userRepo.EnsureProfile(user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure profile: %w", err)
		}
		user.Profile = profile
	}

	return user, nil
}

// UpdateProfileInput represents editable profile fields.
type UpdateProfileInput struct {
	Bio       *string
	FirstName *string
	LastName  *string
}

// UpdateProfile edits a profile. Users edit their own; others need
// can_edit_any_profile.
func (s *ProfileService) UpdateProfile(actorID, targetUserID uint64, input UpdateProfileInput) (*models.User, error) {
	if actorID != targetUserID {
		if err := s.authz.RequirePermission(actorID, constants.PermEditAnyProfile); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.FindByID(targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	profile, err := s.userRepo.EnsureProfile(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.FirstName != nil || input.LastName != nil {
		if err := s.userRepo.Update(user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	if input.Bio != nil {
		profile.Bio = *input.Bio
		if err := s.userRepo.UpdateProfile(profile); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	user.Profile = profile
	return user, nil
}

// SetAvatar validates and stores a new avatar image, releasing the old blob.
func (s *ProfileService) SetAvatar(ctx context.Context, actorID, targetUserID uint64, image []byte, contentType string) (*models.Profile, error) {
	if actorID != targetUserID {
		if err := s.authz.RequirePermission(actorID, constants.PermEditAnyProfile); err != nil {
			return nil, err
		}
	}

	if len(image) > constants.MaxUploadBytes {
		return nil, ErrImageTooLarge
	}
	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, ErrUnsupportedImage
	}

	processed, err := storage.ProcessImage(image, constants.ThumbnailMaxEdge)
	if err != nil {
		if errors.Is(err, storage.ErrNotAnImage) {
			return nil, ErrUnsupportedImage
		}
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	profile, err := s.userRepo.EnsureProfile(targetUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}

	key := fmt.Sprintf("avatars/%s.jpg", uuid.NewString())
	if err := s.blobs.Upload(ctx, key, bytes.NewReader(processed.Thumbnail), "image/jpeg"); err != nil {
		return nil, err
	}

	oldKey := profile.AvatarKey
	profile.AvatarKey = key
	if err := s.userRepo.UpdateProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if oldKey != "" {
		if err := s.blobs.Delete(ctx, oldKey); err != nil {
			log.Warn().Err(err).Str("key", oldKey).Msg("failed to release old avatar")
		}
	}

	return profile, nil
}

// RecentPhotos returns the user's most recent uploads.
func (s *ProfileService) RecentPhotos(userID uint64, limit int) ([]models.Photo, error) {
	if limit <= 0 {
		limit = constants.RelatedPhotoLimit
	}

	photos, _, err := s.photoRepo.List(repository.PhotoFilter{
		UploaderID: &userID,
		Sort:       "-uploaded_at",
		Page:       1,
		PageSize:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	return photos, nil
}
