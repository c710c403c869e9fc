package dto

import (
	"time"

	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/services"
)

// TagDTO represents a tag in API responses
type TagDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PhotoDTO represents a photo in API responses
type PhotoDTO struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	Slug        string               `json:"slug"`
	ObjectKey   string               `json:"object_key"`
	ThumbKey    string               `json:"thumb_key,omitempty"`
	Description string               `json:"description"`
	Category    models.PhotoCategory `json:"category"`
	Featured    bool                 `json:"featured"`
	ViewCount   uint64               `json:"view_count"`
	UploadedAt  time.Time            `json:"uploaded_at"`
	Uploader    *UserDTO             `json:"uploader,omitempty"`
	Tags        []TagDTO             `json:"tags"`
}

// PhotoListItem represents a photo in list responses (minimal data)
type PhotoListItem struct {
	ID         uint64               `json:"id"`
	Title      string               `json:"title"`
	Slug       string               `json:"slug"`
	ThumbKey   string               `json:"thumb_key,omitempty"`
	Category   models.PhotoCategory `json:"category"`
	Featured   bool                 `json:"featured"`
	ViewCount  uint64               `json:"view_count"`
	UploadedAt time.Time            `json:"uploaded_at"`
	Uploader   *UserDTO             `json:"uploader,omitempty"`
}

// PhotoListResponse represents a paginated list of photos
type PhotoListResponse struct {
	Photos     []PhotoListItem `json:"photos"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalCount int64           `json:"total_count"`
	TotalPages int             `json:"total_pages"`
}

// PhotoDetailResponse bundles a photo with its navigation context
type PhotoDetailResponse struct {
	Photo   PhotoDTO        `json:"photo"`
	Prev    *PhotoListItem  `json:"prev"`
	Next    *PhotoListItem  `json:"next"`
	Related []PhotoListItem `json:"related"`
	Likes   int64           `json:"likes"`
	Dislike int64           `json:"dislikes"`
}

// CategoryStatDTO represents one category's share of the collection
type CategoryStatDTO struct {
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// StatsResponse represents collection-wide statistics
type StatsResponse struct {
	Total       int64                      `json:"total"`
	PerCategory map[string]CategoryStatDTO `json:"per_category"`
	PerYear     map[int]int64              `json:"per_year"`
	Earliest    *PhotoListItem             `json:"earliest"`
	Latest      *PhotoListItem             `json:"latest"`
}

// ToTagDTO converts a Tag model to TagDTO
func ToTagDTO(tag models.Tag) TagDTO {
	return TagDTO{
		ID:   tag.ID,
		Name: tag.Name,
		Slug: tag.Slug,
	}
}

// ToPhotoDTO converts a Photo model to PhotoDTO
func ToPhotoDTO(photo models.Photo) PhotoDTO {
	dto := PhotoDTO{
		ID:          photo.ID,
		Title:       photo.Title,
		Slug:        photo.Slug,
		ObjectKey:   photo.ObjectKey,
		ThumbKey:    photo.ThumbKey,
		Description: photo.Description,
		Category:    photo.Category,
		Featured:    photo.Featured,
		ViewCount:   photo.ViewCount,
		UploadedAt:  photo.UploadedAt,
		Tags:        make([]TagDTO, 0, len(photo.Tags)),
	}

	if photo.Uploader != nil {
		uploader := ToUserDTO(*photo.Uploader)
		dto.Uploader = &uploader
	}

	for _, tag := range photo.Tags {
		dto.Tags = append(dto.Tags, ToTagDTO(tag))
	}

	return dto
}

// ToPhotoListItem converts a Photo model to PhotoListItem
func ToPhotoListItem(photo models.Photo) PhotoListItem {
	item := PhotoListItem{
		ID:         photo.ID,
		Title:      photo.Title,
		Slug:       photo.Slug,
		ThumbKey:   photo.ThumbKey,
		Category:   photo.Category,
		Featured:   photo.Featured,
		ViewCount:  photo.ViewCount,
		UploadedAt: photo.UploadedAt,
	}

	if photo.Uploader != nil {
		uploader := ToUserDTO(*photo.Uploader)
		item.Uploader = &uploader
	}

	return item
}

// ToPhotoListItemPtr converts an optional photo to an optional list item
func ToPhotoListItemPtr(photo *models.Photo) *PhotoListItem {
	if photo == nil {
		return nil
	}
	item := ToPhotoListItem(*photo)
	return &item
}

// ToPhotoListResponse converts a slice of photos to PhotoListResponse
func ToPhotoListResponse(photos []models.Photo, page, pageSize int, totalCount int64) PhotoListResponse {
	items := make([]PhotoListItem, len(photos))
	for i, photo := range photos {
		items[i] = ToPhotoListItem(photo)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return PhotoListResponse{
		Photos:     items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// ToStatsResponse converts service statistics to the response shape
func ToStatsResponse(stats *services.PhotoStatsResult) StatsResponse {
	resp := StatsResponse{
		Total:       stats.Total,
		PerCategory: make(map[string]CategoryStatDTO, len(stats.PerCategory)),
		PerYear:     stats.PerYear,
		Earliest:    ToPhotoListItemPtr(stats.Earliest),
		Latest:      ToPhotoListItemPtr(stats.Latest),
	}

	for category, stat := range stats.PerCategory {
		resp.PerCategory[string(category)] = CategoryStatDTO{
			Count:      stat.Count,
			Percentage: stat.Percentage,
		}
	}

	return resp
}
