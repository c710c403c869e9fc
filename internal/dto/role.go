package dto

import (
	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/repository"
)

// PermissionDTO represents a permission in API responses
type PermissionDTO struct {
	ID   uint64 `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// GroupDTO represents a group in API responses
type GroupDTO struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Permissions []PermissionDTO `json:"permissions"`
}

// TagCountDTO represents a tag with its usage count
type TagCountDTO struct {
	TagDTO
	Count int64 `json:"count"`
}

// TagListResponse represents the tag index with aggregates
type TagListResponse struct {
	Tags     []TagCountDTO `json:"tags"`
	MaxCount int64         `json:"max_count"`
	AvgCount float64       `json:"avg_count"`
}

// ToPermissionDTO converts a Permission model to PermissionDTO
func ToPermissionDTO(perm models.Permission) PermissionDTO {
	return PermissionDTO{
		ID:   perm.ID,
		Code: perm.Code,
		Name: perm.Name,
	}
}

// ToGroupDTO converts a Group model to GroupDTO
func ToGroupDTO(group models.Group) GroupDTO {
	dto := GroupDTO{
		ID:          group.ID,
		Name:        group.Name,
		Permissions: make([]PermissionDTO, 0, len(group.Permissions)),
	}
	for _, perm := range group.Permissions {
		dto.Permissions = append(dto.Permissions, ToPermissionDTO(perm))
	}
	return dto
}

// ToTagCountDTO converts a repository TagCount to TagCountDTO
func ToTagCountDTO(tc repository.TagCount) TagCountDTO {
	return TagCountDTO{
		TagDTO: ToTagDTO(tc.Tag),
		Count:  tc.Count,
	}
}
