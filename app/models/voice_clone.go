package models

import "time"

// VoiceClone links a user to their vendor-side cloned voice. VoiceID is the
// identifier issued by the speech provider; only the active clone is used for
// synthesis.
type VoiceClone struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	VoiceID   string    `gorm:"type:varchar(191);not null;index" json:"voice_id"`
	Name      string    `gorm:"type:varchar(150);not null" json:"name"`
	IsActive  bool      `gorm:"default:false;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
