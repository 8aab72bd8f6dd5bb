package repository

import (
	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"gorm.io/gorm"
)

// memoryRepository implements the MemoryRepository interface
type memoryRepository struct {
	db *gorm.DB
}

// NewMemoryRepository creates a new memory repository instance
func NewMemoryRepository(db *gorm.DB) MemoryRepository {
	return &memoryRepository{db: db}
}

func (r *memoryRepository) Create(memory *models.Memory) error {
	return r.db.Create(memory).Error
}

func (r *memoryRepository) GetByID(id uint) (*models.Memory, error) {
	var memory models.Memory
	err := r.db.First(&memory, id).Error
	if err != nil {
		return nil, err
	}
	return &memory, nil
}

func (r *memoryRepository) GetByUserID(userID uint) ([]models.Memory, error) {
	var memories []models.Memory
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&memories).Error
	return memories, err
}

func (r *memoryRepository) GetByUserIDAndCategory(userID uint, category string) ([]models.Memory, error) {
	var memories []models.Memory
	err := r.db.Where("user_id = ? AND category = ?", userID, category).
		Order("created_at ASC").Find(&memories).Error
	return memories, err
}

func (r *memoryRepository) Update(memory *models.Memory) error {
	return r.db.Save(memory).Error
}

func (r *memoryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Memory{}, id).Error
}

func (r *memoryRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Memory{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
