package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/photoboard/photoboard/internal/models"
)

// GormReactionRepository is a GORM implementation of ReactionRepository
type GormReactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &GormReactionRepository{db: db}
}

// Set applies like/dislike toggle semantics inside a transaction.
// Repeating the same value removes the reaction; the opposite value flips it.
// The composite unique index backs the transaction up: a concurrent insert of
// the same (user, photo) pair fails with gorm.ErrDuplicatedKey, and the
// transaction is retried once against the now-existing row.
func (r *GormReactionRepository) Set(userID, photoID uint64, value models.ReactionValue) (*models.Reaction, error) {
	var result *models.Reaction

	apply := func() error {
		return r.db.Transaction(func(tx *gorm.DB) error {
			var existing models.Reaction
			err := tx.Where("user_id = ? AND photo_id = ?", userID, photoID).
				First(&existing).Error

			if errors.Is(err, gorm.ErrRecordNotFound) {
				reaction := models.Reaction{
					UserID:  userID,
					PhotoID: photoID,
					Value:   value,
				}
				if err := tx.Create(&reaction).Error; err != nil {
					return err
				}
				result = &reaction
				return nil
			}
			if err != nil {
				return err
			}

			if existing.Value == value {
				result = nil
				return tx.Delete(&existing).Error
			}

			existing.Value = value
			result = &existing
			return tx.Save(&existing).Error
		})
	}

	err := apply()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = apply()
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Counts returns the like and dislike totals for a photo
func (r *GormReactionRepository) Counts(photoID uint64) (int64, int64, error) {
	var likes, dislikes int64

	err := r.db.Model(&models.Reaction{}).
		Where("photo_id = ? AND value = ?", photoID, models.ReactionLike).
		Count(&likes).Error
	if err != nil {
		return 0, 0, err
	}

	err = r.db.Model(&models.Reaction{}).
		Where("photo_id = ? AND value = ?", photoID, models.ReactionDislike).
		Count(&dislikes).Error
	if err != nil {
		return 0, 0, err
	}

	return likes, dislikes, nil
}
