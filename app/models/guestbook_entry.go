package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	GuestbookTypeMessage = "message"
	GuestbookTypeCandle  = "candle"
	GuestbookTypeFlower  = "flower"
)

// GuestbookEntry is a visitor tribute on a memorial page. Entries are written
// by anonymous visitors, so author identity is just a display name.
type GuestbookEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MemorialID uint      `gorm:"not null;index" json:"memorial_id"`
	AuthorName string    `gorm:"type:varchar(150);not null" json:"author_name" validate:"required,min=1,max=150"`
	Message    string    `gorm:"type:text" json:"message" validate:"max=5000"`
	Type       string    `gorm:"type:varchar(16);not null;default:'message'" json:"type" validate:"oneof=message candle flower"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (g *GuestbookEntry) Validate() error {
	return validator.New().Struct(g)
}
