package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/photoboard/photoboard/internal/database"
	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/utils"
)

// GormPhotoRepository is a GORM implementation of PhotoRepository
type GormPhotoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new PhotoRepository
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &GormPhotoRepository{db: db}
}

// Create creates a new photo
func (r *GormPhotoRepository) Create(photo *models.Photo) error {
	return r.db.Create(photo).Error
}

// FindByID finds a photo by ID with optional preloading
func (r *GormPhotoRepository) FindByID(id uint64, preload ...string) (*models.Photo, error) {
	var photo models.Photo
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&photo, id).Error; err != nil {
		return nil, err
	}

	return &photo, nil
}

// FindBySlug finds a photo by slug with optional preloading
func (r *GormPhotoRepository) FindBySlug(slug string, preload ...string) (*models.Photo, error) {
	var photo models.Photo
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("slug = ?", slug).First(&photo).Error; err != nil {
		return nil, err
	}

	return &photo, nil
}

// sortColumns maps the public sort field names to the SQL they order by.
var sortColumns = map[string]string{
	"uploaded_at": "photos.uploaded_at",
	"title":       "photos.title",
	"view_count":  "photos.view_count",
}

// SortExpression resolves a sort field (optionally prefixed with "-" for
// descending order) to an ORDER BY expression. ok is false for unknown fields.
func SortExpression(sort string) (string, bool) {
	if sort == "" {
		return "photos.uploaded_at DESC", true
	}

	field := sort
	desc := false
	if field[0] == '-' {
		desc = true
		field = field[1:]
	}

	column, ok := sortColumns[field]
	if !ok {
		return "", false
	}
	if desc {
		return column + " DESC", true
	}
	return column + " ASC", true
}

// List retrieves photos with filtering and pagination
func (r *GormPhotoRepository) List(filter PhotoFilter) ([]models.Photo, int64, error) {
	var photos []models.Photo

	query := r.db.Model(&models.Photo{})

	if filter.Category != nil {
		query = query.Where("photos.category = ?", *filter.Category)
	}
	if filter.UploaderID != nil {
		query = query.Where("photos.uploader_id = ?", *filter.UploaderID)
	}
	if filter.Featured != nil {
		query = query.Where("photos.featured = ?", *filter.Featured)
	}
	if filter.Year != nil {
		start := time.Date(*filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)
		query = query.Where("photos.uploaded_at >= ? AND photos.uploaded_at < ?", start, end)
	}
	if filter.TagSlug != nil {
		tagSubQuery := r.db.Model(&models.Tag{}).
			Select("1").
			Joins("JOIN photo_tags ON photo_tags.tag_id = tags.id").
			Where("photo_tags.photo_id = photos.id").
			Where("tags.slug = ?", *filter.TagSlug)
		query = query.Where("EXISTS (?)", tagSubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := SortExpression(filter.Sort)
	if !ok {
		order = "photos.uploaded_at DESC"
	}
	listQuery := query.Order(order)

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Uploader").Preload("Tags").Find(&photos).Error; err != nil {
		return nil, 0, err
	}

	return photos, total, nil
}

// Update updates a photo
func (r *GormPhotoRepository) Update(photo *models.Photo) error {
	return r.db.Save(photo).Error
}

// Delete soft deletes a photo and removes its comments and reactions
func (r *GormPhotoRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("photo_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM photo_tags WHERE photo_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Photo{}, id).Error
	})
}

// IncrementViewCount atomically bumps the view counter
func (r *GormPhotoRepository) IncrementViewCount(id uint64) error {
	return r.db.Model(&models.Photo{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// FindAdjacent returns the neighbor photo by upload time
func (r *GormPhotoRepository) FindAdjacent(uploadedAt time.Time, category *models.PhotoCategory, next bool) (*models.Photo, error) {
	var photo models.Photo
	query := r.db.Model(&models.Photo{})

	if category != nil {
		query = query.Where("category = ?", *category)
	}

	if next {
		query = query.Where("uploaded_at > ?", uploadedAt).Order("uploaded_at ASC")
	} else {
		query = query.Where("uploaded_at < ?", uploadedAt).Order("uploaded_at DESC")
	}

	if err := query.First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &photo, nil
}

// FindRelated returns photos sharing tags with the given photo
func (r *GormPhotoRepository) FindRelated(photoID uint64, tagIDs []uint64, limit int) ([]models.Photo, error) {
	if len(tagIDs) == 0 {
		return []models.Photo{}, nil
	}

	var photos []models.Photo
	err := r.db.Model(&models.Photo{}).
		Joins("JOIN photo_tags ON photo_tags.photo_id = photos.id").
		Where("photo_tags.tag_id IN ?", tagIDs).
		Where("photos.id <> ?", photoID).
		Group("photos.id").
		Order("COUNT(photo_tags.tag_id) DESC, MAX(photos.uploaded_at) DESC").
		Limit(limit).
		Find(&photos).Error
	if err != nil {
		return nil, err
	}

	return photos, nil
}

// ReplaceTags sets the photo's tag associations
func (r *GormPhotoRepository) ReplaceTags(photo *models.Photo, tags []models.Tag) error {
	return r.db.Model(photo).Association("Tags").Replace(tags)
}

// Stats aggregates counts over all photos
func (r *GormPhotoRepository) Stats() (PhotoStats, error) {
	stats := PhotoStats{
		PerCategory: make(map[models.PhotoCategory]int64),
		PerYear:     make(map[int]int64),
	}

	if err := r.db.Model(&models.Photo{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	type categoryRow struct {
		Category models.PhotoCategory
		Count    int64
	}
	var categoryRows []categoryRow
	err := r.db.Model(&models.Photo{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Scan(&categoryRows).Error
	if err != nil {
		return stats, err
	}
	for _, row := range categoryRows {
		stats.PerCategory[row.Category] = row.Count
	}

	// Year bucketing happens in Go so the query stays portable across
	// sqlite, mysql and postgres.
	var uploadTimes []time.Time
	if err := r.db.Model(&models.Photo{}).Pluck("uploaded_at", &uploadTimes).Error; err != nil {
		return stats, err
	}
	for _, t := range uploadTimes {
		stats.PerYear[t.Year()]++
	}

	if stats.Total > 0 {
		var earliest, latest models.Photo
		if err := r.db.Order("uploaded_at ASC").First(&earliest).Error; err != nil {
			return stats, err
		}
		if err := r.db.Order("uploaded_at DESC").First(&latest).Error; err != nil {
			return stats, err
		}
		stats.Earliest = &earliest
		stats.Latest = &latest
	}

	return stats, nil
}
