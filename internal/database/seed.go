package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/photoboard/photoboard/internal/constants"
	"github.com/photoboard/photoboard/internal/models"
)

var defaultPermissions = []models.Permission{
	{Code: constants.PermPublishPhotos, Name: "Can publish photos without moderation"},
	{Code: constants.PermFeaturePhotos, Name: "Can mark photos as featured"},
	{Code: constants.PermModerateComments, Name: "Can moderate comments"},
	{Code: constants.PermViewAllProfiles, Name: "Can view all user profiles"},
	{Code: constants.PermEditAnyProfile, Name: "Can edit any profile"},
	{Code: constants.PermUploadUnlimited, Name: "Can upload an unlimited number of photos"},
	{Code: constants.PermManageUserRoles, Name: "Can manage user groups and permissions"},
}

var defaultGroups = map[string][]string{
	"Moderators": {
		constants.PermModerateComments,
		constants.PermFeaturePhotos,
		constants.PermViewAllProfiles,
	},
	"Editors": {
		constants.PermPublishPhotos,
		constants.PermFeaturePhotos,
	},
	"VIP": {
		constants.PermUploadUnlimited,
		constants.PermPublishPhotos,
	},
}

// Seed creates the default permissions and groups. It is idempotent and safe
// to run on every startup.
func Seed() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		perms := make(map[string]models.Permission, len(defaultPermissions))
		for _, p := range defaultPermissions {
			var perm models.Permission
			err := tx.Where(models.Permission{Code: p.Code}).
				Attrs(models.Permission{Name: p.Name}).
				FirstOrCreate(&perm).Error
			if err != nil {
				return fmt.Errorf("failed to seed permission %s: %w", p.Code, err)
			}
			perms[perm.Code] = perm
		}

		for name, codes := range defaultGroups {
			var group models.Group
			err := tx.Where(models.Group{Name: name}).FirstOrCreate(&group).Error
			if err != nil {
				return fmt.Errorf("failed to seed group %s: %w", name, err)
			}

			grants := make([]models.Permission, 0, len(codes))
			for _, code := range codes {
				grants = append(grants, perms[code])
			}
			if err := tx.Model(&group).Association("Permissions").Replace(grants); err != nil {
				return fmt.Errorf("failed to grant permissions to group %s: %w", name, err)
			}

			log.Debug().Str("group", name).Int("permissions", len(grants)).Msg("seeded group")
		}

		return nil
	})
}
