package repository

import (
	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"gorm.io/gorm"
)

// videoRepository implements the VideoRepository interface
type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository instance
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(video *models.VideoGeneration) error {
	return r.db.Create(video).Error
}

func (r *videoRepository) GetByID(id uint) (*models.VideoGeneration, error) {
	var video models.VideoGeneration
	err := r.db.First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) GetByUserID(userID uint, offset, limit int) ([]models.VideoGeneration, error) {
	var videos []models.VideoGeneration
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&videos).Error
	return videos, err
}

// MarkCompleted finalizes a processing render. Terminal states are never
// overwritten, so a late poll after a failure stays a no-op.
func (r *videoRepository) MarkCompleted(id uint, videoURL string) error {
	return r.db.Model(&models.VideoGeneration{}).
		Where("id = ? AND status = ?", id, models.VideoStatusProcessing).
		Updates(map[string]interface{}{
			"status":    models.VideoStatusCompleted,
			"video_url": videoURL,
		}).Error
}

func (r *videoRepository) MarkFailed(id uint, errMsg string) error {
	return r.db.Model(&models.VideoGeneration{}).
		Where("id = ? AND status = ?", id, models.VideoStatusProcessing).
		Updates(map[string]interface{}{
			"status":    models.VideoStatusFailed,
			"error_msg": errMsg,
		}).Error
}
