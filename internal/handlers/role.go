package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/photoboard/photoboard/internal/dto"
	apierrors "github.com/photoboard/photoboard/internal/errors"
	"github.com/photoboard/photoboard/internal/services"
)

// RoleHandler coordinates group and permission admin handlers. All routes
// require can_manage_user_roles via middleware.
type RoleHandler struct {
	authzService *services.AuthzService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(authzService *services.AuthzService) *RoleHandler {
	return &RoleHandler{authzService: authzService}
}

// ListPermissions returns all known permissions.
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	perms, err := h.authzService.ListPermissions()
	if err != nil {
		apierrors.InternalError(c, "Failed to list permissions")
		return
	}

	dtos := make([]dto.PermissionDTO, len(perms))
	for i, perm := range perms {
		dtos[i] = dto.ToPermissionDTO(perm)
	}
	c.JSON(http.StatusOK, gin.H{"permissions": dtos})
}

// ListGroups returns all groups with their permissions.
func (h *RoleHandler) ListGroups(c *gin.Context) {
	groups, err := h.authzService.ListGroups()
	if err != nil {
		apierrors.InternalError(c, "Failed to list groups")
		return
	}

	dtos := make([]dto.GroupDTO, len(groups))
	for i, group := range groups {
		dtos[i] = dto.ToGroupDTO(group)
	}
	c.JSON(http.StatusOK, gin.H{"groups": dtos})
}

// CreateGroup creates a new empty group.
func (h *RoleHandler) CreateGroup(c *gin.Context) {
	type CreateGroupRequest struct {
		Name string `json:"name" binding:"required,max=150"`
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	group, err := h.authzService.CreateGroup(req.Name)
	if err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGroupDTO(*group))
}

// SetGroupPermission grants or revokes a permission on a group.
func (h *RoleHandler) SetGroupPermission(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid group ID")
		return
	}

	type GroupPermissionRequest struct {
		Code  string `json:"code" binding:"required"`
		Grant *bool  `json:"grant" binding:"required"`
	}

	var req GroupPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authzService.SetGroupPermission(groupID, req.Code, *req.Grant); err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group permissions updated"})
}

// SetUserGroup adds or removes a user from a group.
func (h *RoleHandler) SetUserGroup(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid group ID")
		return
	}

	type UserGroupRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
		Member *bool  `json:"member" binding:"required"`
	}

	var req UserGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.authzService.SetUserGroup(req.UserID, groupID, *req.Member); err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group membership updated"})
}

func respondRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrPermissionNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrGroupNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrGroupNameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
