package dto

import (
	"github.com/photoboard/photoboard/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsStaff   bool   `json:"is_staff,omitempty"`
}

// ProfileDTO represents a user profile in API responses
type ProfileDTO struct {
	User      UserDTO         `json:"user"`
	Email     string          `json:"email,omitempty"`
	Bio       string          `json:"bio"`
	AvatarKey string          `json:"avatar_key,omitempty"`
	Photos    []PhotoListItem `json:"photos,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsStaff:   user.IsStaff,
	}
}

// ToProfileDTO converts a user with profile to ProfileDTO. includeEmail
// controls whether the email address is exposed.
func ToProfileDTO(user models.User, includeEmail bool) ProfileDTO {
	dto := ProfileDTO{
		User: ToUserDTO(user),
	}
	if includeEmail {
		dto.Email = user.Email
	}
	if user.Profile != nil {
		dto.Bio = user.Profile.Bio
		dto.AvatarKey = user.Profile.AvatarKey
	}
	return dto
}
