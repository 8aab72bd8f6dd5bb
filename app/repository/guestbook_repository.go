package repository

import (
	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"gorm.io/gorm"
)

// guestbookRepository implements the GuestbookRepository interface
type guestbookRepository struct {
	db *gorm.DB
}

// NewGuestbookRepository creates a new guestbook repository instance
func NewGuestbookRepository(db *gorm.DB) GuestbookRepository {
	return &guestbookRepository{db: db}
}

func (r *guestbookRepository) Create(entry *models.GuestbookEntry) error {
	return r.db.Create(entry).Error
}

func (r *guestbookRepository) GetByMemorialID(memorialID uint, offset, limit int) ([]models.GuestbookEntry, error) {
	var entries []models.GuestbookEntry
	err := r.db.Where("memorial_id = ?", memorialID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *guestbookRepository) CountByMemorialID(memorialID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.GuestbookEntry{}).
		Where("memorial_id = ?", memorialID).
		Count(&count).Error
	return count, err
}
