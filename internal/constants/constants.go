package constants

// Session and context keys
const (
	ContextKeyUserID  = "user_id"
	SessionCookieName = "photoboard_session"
)

// Validation limits
const (
	MinPasswordLength = 8
	MinCommentLength  = 3
	MaxCommentLength  = 2000
	MaxTitleLength    = 200
	MaxTagLength      = 50
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 6
	MaxPageSize     = 50
)

// Photo limits
const (
	MaxUploadBytes    = 10 << 20 // 10 MiB
	ThumbnailMaxEdge  = 480
	RelatedPhotoLimit = 5
	MaxSlugAttempts   = 50
)

// Permission codes
const (
	PermPublishPhotos    = "can_publish_photos"
	PermFeaturePhotos    = "can_feature_photos"
	PermModerateComments = "can_moderate_comments"
	PermViewAllProfiles  = "can_view_all_profiles"
	PermEditAnyProfile   = "can_edit_any_profile"
	PermUploadUnlimited  = "can_upload_unlimited"
	PermManageUserRoles  = "can_manage_user_roles"
)
