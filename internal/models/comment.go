package models

import "time"

type Comment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	PhotoID   uint64    `gorm:"index;not null" json:"photo_id"`
	UserID    uint64    `gorm:"index;not null" json:"user_id"`
	ParentID  *uint64   `gorm:"index" json:"parent_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Photo   Photo     `gorm:"foreignKey:PhotoID" json:"-"`
	User    User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
}
