package repository

import (
	"github.com/Dinesh-Bingi/legacy-ai/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// MemorialRepository defines the interface for memorial page operations
type MemorialRepository interface {
	Create(memorial *models.Memorial) error
	GetByID(id uint) (*models.Memorial, error)
	GetBySlug(slug string) (*models.Memorial, error)
	GetPublicBySlug(slug string) (*models.Memorial, error)
	GetByUserID(userID uint) ([]models.Memorial, error)
	Update(memorial *models.Memorial) error
	Delete(id uint) error
}

// MemoryRepository defines the interface for life-story memory operations
type MemoryRepository interface {
	Create(memory *models.Memory) error
	GetByID(id uint) (*models.Memory, error)
	GetByUserID(userID uint) ([]models.Memory, error)
	GetByUserIDAndCategory(userID uint, category string) ([]models.Memory, error)
	Update(memory *models.Memory) error
	Delete(id uint) error
	CountByUserID(userID uint) (int64, error)
}

// AvatarRepository defines the interface for avatar image and voice clone operations
type AvatarRepository interface {
	CreateAvatar(avatar *models.Avatar) error
	GetAvatarsByUserID(userID uint) ([]models.Avatar, error)
	GetActiveAvatar(userID uint) (*models.Avatar, error)
	ActivateAvatar(userID, avatarID uint) error
	CreateVoiceClone(clone *models.VoiceClone) error
	GetVoiceClonesByUserID(userID uint) ([]models.VoiceClone, error)
	GetActiveVoiceClone(userID uint) (*models.VoiceClone, error)
}

// GuestbookRepository defines the interface for guestbook entry operations
type GuestbookRepository interface {
	Create(entry *models.GuestbookEntry) error
	GetByMemorialID(memorialID uint, offset, limit int) ([]models.GuestbookEntry, error)
	CountByMemorialID(memorialID uint) (int64, error)
}

// VideoRepository defines the interface for talking-avatar video generations
type VideoRepository interface {
	Create(video *models.VideoGeneration) error
	GetByID(id uint) (*models.VideoGeneration, error)
	GetByUserID(userID uint, offset, limit int) ([]models.VideoGeneration, error)
	MarkCompleted(id uint, videoURL string) error
	MarkFailed(id uint, errMsg string) error
}

// Repositories bundles all repository implementations
type Repositories struct {
	User      UserRepository
	Memorial  MemorialRepository
	Memory    MemoryRepository
	Avatar    AvatarRepository
	Guestbook GuestbookRepository
	Video     VideoRepository
}
