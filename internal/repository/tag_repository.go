package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/utils"
)

// GormTagRepository is a GORM implementation of TagRepository
type GormTagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &GormTagRepository{db: db}
}

// GetOrCreate resolves a tag by the slug its name normalizes to, creating it
// if missing. Matching on slug keeps names like "Go!" and "Go" on one row
// instead of tripping the unique index on the second create.
func (r *GormTagRepository) GetOrCreate(name string) (*models.Tag, error) {
	slug := utils.SlugifyTitle(name)

	var tag models.Tag
	err := r.db.Where("slug = ?", slug).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{Name: name, Slug: slug}
	createErr := r.db.Create(&tag).Error
	if createErr == nil {
		return &tag, nil
	}

	// Lost a race with a concurrent create of the same slug.
	if errors.Is(createErr, gorm.ErrDuplicatedKey) {
		if err := r.db.Where("slug = ?", slug).First(&tag).Error; err == nil {
			return &tag, nil
		}
	}
	return nil, createErr
}

// FindBySlug finds a tag by slug
func (r *GormTagRepository) FindBySlug(slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListWithCounts lists all tags with their photo usage counts
func (r *GormTagRepository) ListWithCounts() ([]TagCount, error) {
	type row struct {
		ID    uint64
		Name  string
		Slug  string
		Count int64
	}

	var rows []row
	err := r.db.Model(&models.Tag{}).
		Select("tags.id, tags.name, tags.slug, COUNT(photo_tags.photo_id) as count").
		Joins("LEFT JOIN photo_tags ON photo_tags.tag_id = tags.id").
		Group("tags.id").
		Order("count DESC, tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make([]TagCount, len(rows))
	for i, r := range rows {
		counts[i] = TagCount{
			Tag:   models.Tag{ID: r.ID, Name: r.Name, Slug: r.Slug},
			Count: r.Count,
		}
	}

	return counts, nil
}
