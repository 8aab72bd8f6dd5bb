package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// NewRepositories creates all repository implementations for the given DB
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Memorial:  NewMemorialRepository(db),
		Memory:    NewMemoryRepository(db),
		Avatar:    NewAvatarRepository(db),
		Guestbook: NewGuestbookRepository(db),
		Video:     NewVideoRepository(db),
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetMemorialRepository returns the memorial repository instance
func (f *Factory) GetMemorialRepository() MemorialRepository {
	return f.GetRepositories().Memorial
}

// GetMemoryRepository returns the memory repository instance
func (f *Factory) GetMemoryRepository() MemoryRepository {
	return f.GetRepositories().Memory
}

// GetAvatarRepository returns the avatar repository instance
func (f *Factory) GetAvatarRepository() AvatarRepository {
	return f.GetRepositories().Avatar
}

// GetGuestbookRepository returns the guestbook repository instance
func (f *Factory) GetGuestbookRepository() GuestbookRepository {
	return f.GetRepositories().Guestbook
}

// GetVideoRepository returns the video repository instance
func (f *Factory) GetVideoRepository() VideoRepository {
	return f.GetRepositories().Video
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory instance
func GetGlobalFactory() *Factory {
	if globalFactory == nil {
		panic("Repository factory not initialized. Call InitializeFactory first.")
	}
	return globalFactory
}

// GetGlobalRepositories returns the global repositories instance
func GetGlobalRepositories() *Repositories {
	return GetGlobalFactory().GetRepositories()
}
