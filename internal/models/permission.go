package models

// Permission is a named capability that can be granted to users directly
// or through group membership.
type Permission struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Code string `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
}

// Group is a named collection of permissions assignable to users.
type Group struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`

	// Relations
	Permissions []Permission `gorm:"many2many:group_permissions" json:"permissions,omitempty"`
	Users       []User       `gorm:"many2many:user_groups" json:"-"`
}
