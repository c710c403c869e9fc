package repository

import (
	"time"

	"github.com/photoboard/photoboard/internal/models"
)

// PhotoRepository defines the interface for photo data access
type PhotoRepository interface {
	// Create creates a new photo
	Create(photo *models.Photo) error

	// FindByID finds a photo by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Photo, error)

	// FindBySlug finds a photo by slug with optional preloading
	FindBySlug(slug string, preload ...string) (*models.Photo, error)

	// List retrieves photos with filtering and pagination
	List(filter PhotoFilter) ([]models.Photo, int64, error)

	// Update updates a photo
	Update(photo *models.Photo) error

	// Delete soft deletes a photo and its comments and reactions
	Delete(id uint64) error

	// IncrementViewCount atomically bumps the view counter
	IncrementViewCount(id uint64) error

	// FindAdjacent returns the neighbor photo by upload time. When category
	// is non-nil the search is restricted to that category.
	FindAdjacent(uploadedAt time.Time, category *models.PhotoCategory, next bool) (*models.Photo, error)

	// FindRelated returns photos sharing tags with the given photo, ordered
	// by the number of shared tags and then by recency.
	FindRelated(photoID uint64, tagIDs []uint64, limit int) ([]models.Photo, error)

	// ReplaceTags sets the photo's tag associations
	ReplaceTags(photo *models.Photo, tags []models.Tag) error

	// Stats aggregates counts over all photos
	Stats() (PhotoStats, error)
}

// PhotoFilter holds filtering options for listing photos
type PhotoFilter struct {
	Category   *models.PhotoCategory
	TagSlug    *string
	Year       *int
	UploaderID *uint64
	Featured   *bool
	Sort       string
	Page       int
	PageSize   int
}

// PhotoStats holds raw aggregates used by the statistics endpoint
type PhotoStats struct {
	Total       int64
	PerCategory map[models.PhotoCategory]int64
	PerYear     map[int]int64
	Earliest    *models.Photo
	Latest      *models.Photo
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// GetOrCreate finds a tag by name, creating it if missing
	GetOrCreate(name string) (*models.Tag, error)

	// FindBySlug finds a tag by slug
	FindBySlug(slug string) (*models.Tag, error)

	// ListWithCounts lists all tags with their photo usage counts
	ListWithCounts() ([]TagCount, error)
}

// TagCount pairs a tag with the number of photos carrying it
type TagCount struct {
	Tag   models.Tag
	Count int64
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID
	FindByID(id uint64) (*models.Comment, error)

	// ListByPhoto lists top-level comments for a photo, newest first,
	// with their replies and authors preloaded
	ListByPhoto(photoID uint64) ([]models.Comment, error)

	// Update updates a comment
	Update(comment *models.Comment) error

	// Delete deletes a comment and its replies
	Delete(id uint64) error
}

// ReactionRepository defines the interface for reaction data access
type ReactionRepository interface {
	// Set applies like/dislike toggle semantics inside a transaction and
	// reports the user's resulting state (nil when the reaction was removed).
	Set(userID, photoID uint64, value models.ReactionValue) (*models.Reaction, error)

	// Counts returns the like and dislike totals for a photo
	Counts(photoID uint64) (likes int64, dislikes int64, err error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64, preload ...string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// EnsureProfile returns the user's profile, creating an empty one when
	// missing. Safe to call repeatedly.
	EnsureProfile(userID uint64) (*models.Profile, error)

	// FindProfileByUserID finds a profile by owner
	FindProfileByUserID(userID uint64) (*models.Profile, error)

	// UpdateProfile updates a profile
	UpdateProfile(profile *models.Profile) error
}

// RoleRepository defines the interface for group and permission data access
type RoleRepository interface {
	// UserHasPermission reports whether the user holds the permission code,
	// either individually or through any group
	UserHasPermission(userID uint64, code string) (bool, error)

	// ListPermissions lists all known permissions
	ListPermissions() ([]models.Permission, error)

	// ListGroups lists all groups with their permissions
	ListGroups() ([]models.Group, error)

	// FindGroup finds a group by ID with permissions preloaded
	FindGroup(id uint64) (*models.Group, error)

	// FindGroupByName finds a group by name
	FindGroupByName(name string) (*models.Group, error)

	// CreateGroup creates a new group
	CreateGroup(group *models.Group) error

	// FindPermissionByCode finds a permission by code
	FindPermissionByCode(code string) (*models.Permission, error)

	// GrantToGroup attaches a permission to a group
	GrantToGroup(group *models.Group, perm *models.Permission) error

	// RevokeFromGroup detaches a permission from a group
	RevokeFromGroup(group *models.Group, perm *models.Permission) error

	// AddUserToGroup puts a user into a group
	AddUserToGroup(user *models.User, group *models.Group) error

	// RemoveUserFromGroup takes a user out of a group
	RemoveUserFromGroup(user *models.User, group *models.Group) error
}
