package models

import "time"

const (
	VideoStatusProcessing = "processing"
	VideoStatusCompleted  = "completed"
	VideoStatusFailed     = "failed"
)

// VideoGeneration tracks one talking-avatar render. TalkID is the vendor-side
// job id that the background poller watches until the video is done.
type VideoGeneration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TalkID    string    `gorm:"type:varchar(191);not null;index" json:"talk_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	AvatarURL string    `gorm:"type:varchar(500)" json:"avatar_url"`
	AudioURL  string    `gorm:"type:varchar(500)" json:"audio_url"`
	VideoURL  string    `gorm:"type:varchar(500)" json:"video_url"`
	Status    string    `gorm:"type:varchar(16);not null;default:'processing';index" json:"status"`
	ErrorMsg  string    `gorm:"type:text" json:"error_msg"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
