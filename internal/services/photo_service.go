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
	"github.com/photoboard/photoboard/internal/utils"
)

var (
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrPhotoTitleRequired = errors.New("title is required")
	ErrPhotoTitleTooLong  = errors.New("title is too long")
	ErrInvalidCategory    = errors.New("unknown category")
	ErrInvalidSortField   = errors.New("unknown sort field")
	ErrImageTooLarge      = errors.New("image exceeds the size limit")
	ErrUnsupportedImage   = errors.New("unsupported image type")
	ErrUploadLimitReached = errors.New("upload limit reached")
	ErrSlugExhausted      = errors.New("could not allocate a unique slug")
)

// allowedImageTypes are the content types accepted for photo uploads.
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// maxPhotosPerUser caps uploads for users without can_upload_unlimited.
const maxPhotosPerUser = 20

// PhotoService handles photo business logic.
type PhotoService struct {
	photoRepo repository.PhotoRepository
	tagRepo   repository.TagRepository
	blobs     storage.BlobStorage
	authz     *AuthzService
}

// NewPhotoService creates a new PhotoService.
func NewPhotoService(photoRepo repository.PhotoRepository, tagRepo repository.TagRepository, blobs storage.BlobStorage, authz *AuthzService) *PhotoService {
	return &PhotoService{
		photoRepo: photoRepo,
		tagRepo:   tagRepo,
		blobs:     blobs,
		authz:     authz,
	}
}

// CreatePhotoInput represents input for uploading a photo.
type CreatePhotoInput struct {
	Title       string
	Description string
	Category    models.PhotoCategory
	Tags        string
	Image       []byte
	ContentType string
	UploaderID  uint64
}

// CreatePhoto validates the upload, stores the image and thumbnail, and
// creates the photo record under a unique slug.
func (s *PhotoService) CreatePhoto(ctx context.Context, input CreatePhotoInput) (*models.Photo, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrPhotoTitleRequired
	}
	if len(title) > constants.MaxTitleLength {
		return nil, ErrPhotoTitleTooLong
	}

	category := input.Category
	if category == "" {
		category = models.CategoryOther
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	if len(input.Image) > constants.MaxUploadBytes {
		return nil, ErrImageTooLarge
	}
	if _, ok := allowedImageTypes[input.ContentType]; !ok {
		return nil, ErrUnsupportedImage
	}

	if err := s.checkUploadQuota(input.UploaderID); err != nil {
		return nil, err
	}

	processed, err := storage.ProcessImage(input.Image, constants.ThumbnailMaxEdge)
	if err != nil {
		if errors.Is(err, storage.ErrNotAnImage) {
			return nil, ErrUnsupportedImage
		}
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	objectKey := fmt.Sprintf("photos/%s", uuid.NewString())
	thumbKey := objectKey + "/thumb.jpg"

	if err := s.blobs.Upload(ctx, objectKey, bytes.NewReader(processed.Original), input.ContentType); err != nil {
		return nil, err
	}
	if err := s.blobs.Upload(ctx, thumbKey, bytes.NewReader(processed.Thumbnail), "image/jpeg"); err != nil {
		s.releaseBlob(ctx, objectKey)
		return nil, err
	}

	photo := &models.Photo{
		Title:       title,
		ObjectKey:   objectKey,
		ThumbKey:    thumbKey,
		Description: input.Description,
		Category:    category,
		UploaderID:  &input.UploaderID,
	}

	if err := s.createWithUniqueSlug(photo); err != nil {
		s.releaseBlob(ctx, objectKey)
		s.releaseBlob(ctx, thumbKey)
		return nil, err
	}

	if err := s.SetTags(photo, input.Tags); err != nil {
		// The upload must not leave a half-created photo behind.
		if delErr := s.photoRepo.Delete(photo.ID); delErr != nil {
			log.Warn().Err(delErr).Uint64("photo_id", photo.ID).Msg("failed to remove photo after tag failure")
		}
		s.releaseBlob(ctx, objectKey)
		s.releaseBlob(ctx, thumbKey)
		return nil, err
	}

	return s.photoRepo.FindByID(photo.ID, "Uploader", "Tags")
}

// createWithUniqueSlug inserts the photo, relying on the unique index to
// detect slug collisions and retrying with a numeric suffix. Checking first
// and inserting second would race with concurrent uploads of the same title.
func (s *PhotoService) createWithUniqueSlug(photo *models.Photo) error {
	base := utils.SlugifyTitle(photo.Title)

	for attempt := 0; attempt < constants.MaxSlugAttempts; attempt++ {
		if attempt == 0 {
			photo.Slug = base
		} else {
			photo.Slug = fmt.Sprintf("%s-%d", base, attempt)
		}

		err := s.photoRepo.Create(photo)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create photo: %w", err)
		}
	}

	return ErrSlugExhausted
}

func (s *PhotoService) checkUploadQuota(uploaderID uint64) error {
	unlimited, err := s.authz.HasPermission(uploaderID, constants.PermUploadUnlimited)
	if err != nil {
		return err
	}
	if unlimited {
		return nil
	}

	_, total, err := s.photoRepo.List(repository.PhotoFilter{UploaderID: &uploaderID, Page: 1, PageSize: 1})
	if err != nil {
		return fmt.Errorf("failed to count uploads: %w", err)
	}
	if total >= maxPhotosPerUser {
		return ErrUploadLimitReached
	}
	return nil
}

// GetPhotoBySlug returns a photo and bumps its view counter. The increment
// runs as a single UPDATE so concurrent views never lose counts.
func (s *PhotoService) GetPhotoBySlug(slug string) (*models.Photo, error) {
	photo, err := s.photoRepo.FindBySlug(slug, "Uploader", "Tags")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}

	if err := s.photoRepo.IncrementViewCount(photo.ID); err != nil {
		return nil, fmt.Errorf("failed to count view: %w", err)
	}
	photo.ViewCount++

	return photo, nil
}

// FindPhotoBySlug returns a photo without counting a view. Used by edit and
// reaction paths.
func (s *PhotoService) FindPhotoBySlug(slug string) (*models.Photo, error) {
	photo, err := s.photoRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}
	return photo, nil
}

// ListPhotosInput represents filters for listing photos.
type ListPhotosInput struct {
	Category   *models.PhotoCategory
	TagSlug    *string
	Year       *int
	UploaderID *uint64
	Featured   *bool
	Sort       string
	Page       int
	PageSize   int
}

// ListPhotos returns photos matching all provided filters.
func (s *PhotoService) ListPhotos(input ListPhotosInput) ([]models.Photo, int64, error) {
	if input.Category != nil && !input.Category.Valid() {
		return nil, 0, ErrInvalidCategory
	}
	if _, ok := repository.SortExpression(input.Sort); !ok {
		return nil, 0, ErrInvalidSortField
	}

	photos, total, err := s.photoRepo.List(repository.PhotoFilter{
		Category:   input.Category,
		TagSlug:    input.TagSlug,
		Year:       input.Year,
		UploaderID: input.UploaderID,
		Featured:   input.Featured,
		Sort:       input.Sort,
		Page:       input.Page,
		PageSize:   input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list photos: %w", err)
	}

	return photos, total, nil
}

// AdjacentPhotos returns the previous and next photos by upload time.
// When sameCategory is true, both neighbors come from the photo's category.
func (s *PhotoService) AdjacentPhotos(photo *models.Photo, sameCategory bool) (prev, next *models.Photo, err error) {
	var category *models.PhotoCategory
	if sameCategory {
		category = &photo.Category
	}

	prev, err = s.photoRepo.FindAdjacent(photo.UploadedAt, category, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find previous photo: %w", err)
	}

	next, err = s.photoRepo.FindAdjacent(photo.UploadedAt, category, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find next photo: %w", err)
	}

	return prev, next, nil
}

// RelatedPhotos returns up to RelatedPhotoLimit photos sharing tags with the
// given photo, ordered by shared-tag count and then recency. A photo without
// tags has no related photos.
func (s *PhotoService) RelatedPhotos(photo *models.Photo) ([]models.Photo, error) {
	if len(photo.Tags) == 0 {
		loaded, err := s.photoRepo.FindByID(photo.ID, "Tags")
		if err != nil {
			return nil, fmt.Errorf("failed to load tags: %w", err)
		}
		photo = loaded
	}

	tagIDs := make([]uint64, 0, len(photo.Tags))
	for _, tag := range photo.Tags {
		tagIDs = append(tagIDs, tag.ID)
	}

	related, err := s.photoRepo.FindRelated(photo.ID, tagIDs, constants.RelatedPhotoLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to find related photos: %w", err)
	}

	return related, nil
}

// UpdatePhotoInput represents input for editing a photo. The slug never
// changes after creation, even when the title does.
type UpdatePhotoInput struct {
	Title       *string
	Description *string
	Category    *models.PhotoCategory
	Tags        *string
}

// UpdatePhoto edits a photo's metadata. Only the uploader or staff may edit.
func (s *PhotoService) UpdatePhoto(photoID, actorID uint64, input UpdatePhotoInput) (*models.Photo, error) {
	photo, err := s.photoRepo.FindByID(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}

	allowed, err := s.authz.IsOwnerOrStaff(actorID, photo.UploaderID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrPhotoTitleRequired
		}
		if len(title) > constants.MaxTitleLength {
			return nil, ErrPhotoTitleTooLong
		}
		photo.Title = title
	}
	if input.Description != nil {
		photo.Description = *input.Description
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, ErrInvalidCategory
		}
		photo.Category = *input.Category
	}

	if err := s.photoRepo.Update(photo); err != nil {
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}

	if input.Tags != nil {
		if err := s.SetTags(photo, *input.Tags); err != nil {
			return nil, err
		}
	}

	return s.photoRepo.FindByID(photo.ID, "Uploader", "Tags")
}

// DeletePhoto removes a photo. The database delete commits first; blob
// cleanup failures are logged and do not fail the request.
func (s *PhotoService) DeletePhoto(ctx context.Context, photoID, actorID uint64) error {
	photo, err := s.photoRepo.FindByID(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to find photo: %w", err)
	}

	allowed, err := s.authz.IsOwnerOrStaff(actorID, photo.UploaderID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrPermissionDenied
	}

	if err := s.photoRepo.Delete(photoID); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	s.releaseBlob(ctx, photo.ObjectKey)
	if photo.ThumbKey != "" {
		s.releaseBlob(ctx, photo.ThumbKey)
	}

	return nil
}

// SetFeatured flips the featured flag. Requires can_feature_photos.
func (s *PhotoService) SetFeatured(photoID, actorID uint64, featured bool) (*models.Photo, error) {
	if err := s.authz.RequirePermission(actorID, constants.PermFeaturePhotos); err != nil {
		return nil, err
	}

	photo, err := s.photoRepo.FindByID(photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}

	photo.Featured = featured
	if err := s.photoRepo.Update(photo); err != nil {
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}

	return photo, nil
}

// SetTags replaces the photo's tags from a comma-separated string.
// Names are trimmed, empties dropped, and duplicates collapsed.
func (s *PhotoService) SetTags(photo *models.Photo, tagString string) error {
	names := parseTagNames(tagString)

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.tagRepo.GetOrCreate(name)
		if err != nil {
			return fmt.Errorf("failed to resolve tag %q: %w", name, err)
		}
		tags = append(tags, *tag)
	}

	if err := s.photoRepo.ReplaceTags(photo, tags); err != nil {
		return fmt.Errorf("failed to set tags: %w", err)
	}

	return nil
}

// parseTagNames splits a comma-separated tag string into clean unique names.
func parseTagNames(tagString string) []string {
	parts := strings.Split(tagString, ",")
	seen := make(map[string]struct{}, len(parts))
	names := make([]string, 0, len(parts))

	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" || len(name) > constants.MaxTagLength {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}

	return names
}

// PhotoStatsResult holds the aggregated photo statistics.
type PhotoStatsResult struct {
	Total       int64
	PerCategory map[models.PhotoCategory]CategoryStat
	PerYear     map[int]int64
	Earliest    *models.Photo
	Latest      *models.Photo
}

// CategoryStat pairs a count with its share of the total.
type CategoryStat struct {
	Count      int64
	Percentage float64
}

// Stats aggregates collection-wide statistics. An empty collection yields
// zero counts and zero percentages.
func (s *PhotoService) Stats() (*PhotoStatsResult, error) {
	raw, err := s.photoRepo.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}

	result := &PhotoStatsResult{
		Total:       raw.Total,
		PerCategory: make(map[models.PhotoCategory]CategoryStat),
		PerYear:     raw.PerYear,
	}

	for _, category := range models.Categories() {
		count := raw.PerCategory[category]
		stat := CategoryStat{Count: count}
		if raw.Total > 0 {
			stat.Percentage = float64(count) / float64(raw.Total) * 100
		}
		result.PerCategory[category] = stat
	}

	result.Earliest = raw.Earliest
	result.Latest = raw.Latest

	return result, nil
}

func (s *PhotoService) releaseBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to release blob")
	}
}
