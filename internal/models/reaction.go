package models

import "time"

// ReactionValue is +1 for a like and -1 for a dislike.
type ReactionValue int

const (
	ReactionLike    ReactionValue = 1
	ReactionDislike ReactionValue = -1
)

// Reaction records a single user's vote on a photo. A user holds at most
// one reaction per photo, enforced by the composite unique index.
type Reaction struct {
	ID        uint64        `gorm:"primarykey" json:"id"`
	UserID    uint64        `gorm:"uniqueIndex:idx_reactions_user_photo;not null" json:"user_id"`
	PhotoID   uint64        `gorm:"uniqueIndex:idx_reactions_user_photo;not null" json:"photo_id"`
	Value     ReactionValue `gorm:"not null" json:"value"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Relations
	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Photo Photo `gorm:"foreignKey:PhotoID" json:"-"`
}
