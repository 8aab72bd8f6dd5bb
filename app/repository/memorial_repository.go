package repository

import (
	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"gorm.io/gorm"
)

// memorialRepository implements the MemorialRepository interface
type memorialRepository struct {
	db *gorm.DB
}

// NewMemorialRepository creates a new memorial repository instance
func NewMemorialRepository(db *gorm.DB) MemorialRepository {
	return &memorialRepository{db: db}
}

func (r *memorialRepository) Create(memorial *models.Memorial) error {
	return r.db.Create(memorial).Error
}

func (r *memorialRepository) GetByID(id uint) (*models.Memorial, error) {
	var memorial models.Memorial
	err := r.db.First(&memorial, id).Error
	if err != nil {
		return nil, err
	}
	return &memorial, nil
}

func (r *memorialRepository) GetBySlug(slug string) (*models.Memorial, error) {
	var memorial models.Memorial
	err := r.db.Where("slug = ?", slug).First(&memorial).Error
	if err != nil {
		return nil, err
	}
	return &memorial, nil
}

// GetPublicBySlug only returns the memorial when it is publicly visible.
func (r *memorialRepository) GetPublicBySlug(slug string) (*models.Memorial, error) {
	var memorial models.Memorial
	err := r.db.Where("slug = ? AND is_public = ?", slug, true).First(&memorial).Error
	if err != nil {
		return nil, err
	}
	return &memorial, nil
}

func (r *memorialRepository) GetByUserID(userID uint) ([]models.Memorial, error) {
	var memorials []models.Memorial
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&memorials).Error
	return memorials, err
}

func (r *memorialRepository) Update(memorial *models.Memorial) error {
	return r.db.Save(memorial).Error
}

func (r *memorialRepository) Delete(id uint) error {
	return r.db.Delete(&models.Memorial{}, id).Error
}
