package models

type Tag struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Slug string `gorm:"type:varchar(60);uniqueIndex;not null" json:"slug"`

	// Relations
	Photos []Photo `gorm:"many2many:photo_tags" json:"-"`
}
