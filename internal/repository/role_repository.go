package repository

import (
	"gorm.io/gorm"

	"github.com/photoboard/photoboard/internal/models"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// UserHasPermission reports whether the user holds the permission code.
// Both the direct grant and the group paths hit the database on every call,
// so revocations take effect on the next request.
func (r *GormRoleRepository) UserHasPermission(userID uint64, code string) (bool, error) {
	var direct int64
	err := r.db.Model(&models.Permission{}).
		Joins("JOIN user_permissions ON user_permissions.permission_id = permissions.id").
		Where("user_permissions.user_id = ? AND permissions.code = ?", userID, code).
		Count(&direct).Error
	if err != nil {
		return false, err
	}
	if direct > 0 {
		return true, nil
	}

	var viaGroup int64
	err = r.db.Model(&models.Permission{}).
		Joins("JOIN group_permissions ON group_permissions.permission_id = permissions.id").
		Joins("JOIN user_groups ON user_groups.group_id = group_permissions.group_id").
		Where("user_groups.user_id = ? AND permissions.code = ?", userID, code).
		Count(&viaGroup).Error
	if err != nil {
		return false, err
	}

	return viaGroup > 0, nil
}

// ListPermissions lists all known permissions
func (r *GormRoleRepository) ListPermissions() ([]models.Permission, error) {
	var perms []models.Permission
	if err := r.db.Order("code ASC").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// ListGroups lists all groups with their permissions
func (r *GormRoleRepository) ListGroups() ([]models.Group, error) {
	var groups []models.Group
	if err := r.db.Preload("Permissions").Order("name ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// FindGroup finds a group by ID with permissions preloaded
func (r *GormRoleRepository) FindGroup(id uint64) (*models.Group, error) {
	var group models.Group
	if err := r.db.Preload("Permissions").First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindGroupByName finds a group by name
func (r *GormRoleRepository) FindGroupByName(name string) (*models.Group, error) {
	var group models.Group
	if err := r.db.Where("name = ?", name).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateGroup creates a new group
func (r *GormRoleRepository) CreateGroup(group *models.Group) error {
	return r.db.Create(group).Error
}

// FindPermissionByCode finds a permission by code
func (r *GormRoleRepository) FindPermissionByCode(code string) (*models.Permission, error) {
	var perm models.Permission
	if err := r.db.Where("code = ?", code).First(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

// GrantToGroup attaches a permission to a group
func (r *GormRoleRepository) GrantToGroup(group *models.Group, perm *models.Permission) error {
	return r.db.Model(group).Association("Permissions").Append(perm)
}

// RevokeFromGroup detaches a permission from a group
func (r *GormRoleRepository) RevokeFromGroup(group *models.Group, perm *models.Permission) error {
	return r.db.Model(group).Association("Permissions").Delete(perm)
}

// AddUserToGroup puts a user into a group
func (r *GormRoleRepository) AddUserToGroup(user *models.User, group *models.Group) error {
	return r.db.Model(user).Association("Groups").Append(group)
}

// RemoveUserFromGroup takes a user out of a group
func (r *GormRoleRepository) RemoveUserFromGroup(user *models.User, group *models.Group) error {
	return r.db.Model(user).Association("Groups").Delete(group)
}
