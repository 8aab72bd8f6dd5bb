package models

import "time"

// Avatar is an uploaded portrait used as the source image for talking-avatar
// videos. At most one avatar per user is active at a time.
type Avatar struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ImageURL  string    `gorm:"type:varchar(500);not null" json:"image_url"`
	IsActive  bool      `gorm:"default:false;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
