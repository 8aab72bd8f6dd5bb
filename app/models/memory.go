package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Memory categories mirror the life-story questionnaire sections.
const (
	MemoryCategoryChildhood = "childhood"
	MemoryCategoryCareer    = "career"
	MemoryCategoryLove      = "love"
	MemoryCategoryStruggles = "struggles"
	MemoryCategoryValues    = "values"
	MemoryCategoryAdvice    = "advice"
)

// Memory is one recorded life-story answer. The full set per user feeds the
// persona prompt for chat and calls.
type Memory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Question  string    `gorm:"type:text;not null" json:"question" validate:"required,max=2000"`
	Answer    string    `gorm:"type:text;not null" json:"answer" validate:"required,max=20000"`
	Category  string    `gorm:"type:varchar(32);not null;index" json:"category" validate:"oneof=childhood career love struggles values advice"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Memory) Validate() error {
	return validator.New().Struct(m)
}
