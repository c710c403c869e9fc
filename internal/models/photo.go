package models

import (
	"time"

	"gorm.io/gorm"
)

type PhotoCategory string

const (
	CategoryNature       PhotoCategory = "nature"
	CategoryPeople       PhotoCategory = "people"
	CategoryArchitecture PhotoCategory = "architecture"
	CategoryAnimals      PhotoCategory = "animals"
	CategoryOther        PhotoCategory = "other"
)

// Categories lists every valid photo category.
func Categories() []PhotoCategory {
	return []PhotoCategory{
		CategoryNature,
		CategoryPeople,
		CategoryArchitecture,
		CategoryAnimals,
		CategoryOther,
	}
}

// Valid reports whether c is a known category.
func (c PhotoCategory) Valid() bool {
	switch c {
	case CategoryNature, CategoryPeople, CategoryArchitecture, CategoryAnimals, CategoryOther:
		return true
	}
	return false
}

type Photo struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string         `gorm:"type:varchar(220);uniqueIndex;not null" json:"slug"`
	ObjectKey   string         `gorm:"type:varchar(512);not null" json:"-"`
	ThumbKey    string         `gorm:"type:varchar(512)" json:"-"`
	Description string         `gorm:"type:text" json:"description"`
	Category    PhotoCategory  `gorm:"type:varchar(20);not null;default:'other'" json:"category"`
	UploaderID  *uint64        `gorm:"index" json:"uploader_id"`
	Featured    bool           `gorm:"not null;default:false" json:"featured"`
	ViewCount   uint64         `gorm:"not null;default:0" json:"view_count"`
	UploadedAt  time.Time      `gorm:"index;not null;autoCreateTime" json:"uploaded_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Uploader *User     `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`
	Tags     []Tag     `gorm:"many2many:photo_tags" json:"tags,omitempty"`
	Comments []Comment `gorm:"foreignKey:PhotoID" json:"comments,omitempty"`
}
