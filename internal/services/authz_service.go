package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/photoboard/photoboard/internal/models"
	"github.com/photoboard/photoboard/internal/repository"
)

var (
	ErrPermissionDenied   = errors.New("permission denied")
	ErrGroupNotFound      = errors.New("group not found")
	ErrGroupNameTaken     = errors.New("group name already exists")
	ErrGroupNameRequired  = errors.New("group name is required")
	ErrPermissionNotFound = errors.New("permission not found")
)

// AuthzService evaluates user permissions and manages groups.
type AuthzService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewAuthzService creates a new AuthzService.
func NewAuthzService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) *AuthzService {
	return &AuthzService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// HasPermission reports whether the user holds the permission, either
// directly or via group membership. Superusers hold every permission.
// The check always hits the database; nothing is cached, so a revocation
// takes effect on the user's next request.
func (s *AuthzService) HasPermission(userID uint64, code string) (bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("failed to find user: %w", err)
	}

	if user.IsSuperuser {
		return true, nil
	}

	has, err := s.roleRepo.UserHasPermission(userID, code)
	if err != nil {
		return false, fmt.Errorf("failed to check permission: %w", err)
	}
	return has, nil
}

// RequirePermission returns ErrPermissionDenied unless the user holds the
// permission.
func (s *AuthzService) RequirePermission(userID uint64, code string) error {
	has, err := s.HasPermission(userID, code)
	if err != nil {
		return err
	}
	if !has {
		return ErrPermissionDenied
	}
	return nil
}

// IsOwnerOrStaff reports whether the actor owns the resource or is staff.
func (s *AuthzService) IsOwnerOrStaff(actorID uint64, ownerID *uint64) (bool, error) {
	if ownerID != nil && *ownerID == actorID {
		return true, nil
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("failed to find user: %w", err)
	}

	return actor.IsStaff || actor.IsSuperuser, nil
}

// ListPermissions lists all known permissions.
func (s *AuthzService) ListPermissions() ([]models.Permission, error) {
	perms, err := s.roleRepo.ListPermissions()
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return perms, nil
}

// ListGroups lists all groups with their permissions.
func (s *AuthzService) ListGroups() ([]models.Group, error) {
	groups, err := s.roleRepo.ListGroups()
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// CreateGroup creates a new empty group.
func (s *AuthzService) CreateGroup(name string) (*models.Group, error) {
	if name == "" {
		return nil, ErrGroupNameRequired
	}

	if _, err := s.roleRepo.FindGroupByName(name); err == nil {
		return nil, ErrGroupNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check group name: %w", err)
	}

	group := &models.Group{Name: name}
	if err := s.roleRepo.CreateGroup(group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

// SetGroupPermission attaches or detaches a permission on a group.
func (s *AuthzService) SetGroupPermission(groupID uint64, code string, grant bool) error {
	group, err := s.roleRepo.FindGroup(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to find group: %w", err)
	}

	perm, err := s.roleRepo.FindPermissionByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPermissionNotFound
		}
		return fmt.Errorf("failed to find permission: %w", err)
	}

	if grant {
		err = s.roleRepo.GrantToGroup(group, perm)
	} else {
		err = s.roleRepo.RevokeFromGroup(group, perm)
	}
	if err != nil {
		return fmt.Errorf("failed to update group permission: %w", err)
	}
	return nil
}

// SetUserGroup adds or removes a user's membership in a group.
func (s *AuthzService) SetUserGroup(userID, groupID uint64, member bool) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	group, err := s.roleRepo.FindGroup(groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return fmt.Errorf("failed to find group: %w", err)
	}

	if member {
		err = s.roleRepo.AddUserToGroup(user, group)
	} else {
		err = s.roleRepo.RemoveUserFromGroup(user, group)
	}
	if err != nil {
		return fmt.Errorf("failed to update group membership: %w", err)
	}
	return nil
}
