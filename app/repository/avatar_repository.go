package repository

import (
	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"gorm.io/gorm"
)

// avatarRepository implements the AvatarRepository interface
type avatarRepository struct {
	db *gorm.DB
}

// NewAvatarRepository creates a new avatar repository instance
func NewAvatarRepository(db *gorm.DB) AvatarRepository {
	return &avatarRepository{db: db}
}

func (r *avatarRepository) CreateAvatar(avatar *models.Avatar) error {
	return r.db.Create(avatar).Error
}

func (r *avatarRepository) GetAvatarsByUserID(userID uint) ([]models.Avatar, error) {
	var avatars []models.Avatar
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&avatars).Error
	return avatars, err
}

func (r *avatarRepository) GetActiveAvatar(userID uint) (*models.Avatar, error) {
	var avatar models.Avatar
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).First(&avatar).Error
	if err != nil {
		return nil, err
	}
	return &avatar, nil
}

// ActivateAvatar makes one avatar active and deactivates the rest, so a user
// never has two active source images.
func (r *avatarRepository) ActivateAvatar(userID, avatarID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Avatar{}).
			Where("user_id = ?", userID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Avatar{}).
			Where("id = ? AND user_id = ?", avatarID, userID).
			Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *avatarRepository) CreateVoiceClone(clone *models.VoiceClone) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if clone.IsActive {
			if err := tx.Model(&models.VoiceClone{}).
				Where("user_id = ?", clone.UserID).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(clone).Error
	})
}

func (r *avatarRepository) GetVoiceClonesByUserID(userID uint) ([]models.VoiceClone, error) {
	var clones []models.VoiceClone
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&clones).Error
	return clones, err
}

func (r *avatarRepository) GetActiveVoiceClone(userID uint) (*models.VoiceClone, error) {
	var clone models.VoiceClone
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).First(&clone).Error
	if err != nil {
		return nil, err
	}
	return &clone, nil
}
