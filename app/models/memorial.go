package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Memorial is the public page for a person's digital legacy. Family and
// friends reach it via its slug without an account.
type Memorial struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Slug        string    `gorm:"type:varchar(191);uniqueIndex" json:"slug"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=3,max=200"`
	Description string    `gorm:"type:text" json:"description" validate:"max=5000"`
	IsPublic    bool      `gorm:"default:true;index" json:"is_public"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Memorial) Validate() error {
	return validator.New().Struct(m)
}

// GenerateSlug builds a URL slug from the memorial title with a short random
// suffix so titles do not have to be globally unique.
func GenerateSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugCleaner.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 60 {
		s = s[:60]
	}
	suffix := uuid.NewString()[:8]
	if s == "" {
		return suffix
	}
	return s + "-" + suffix
}
