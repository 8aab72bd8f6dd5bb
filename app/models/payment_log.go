package models

import "time"

// PaymentLog is the append-only audit trail for the payment domain: every
// inbound vendor event and verification attempt lands here. EventID carries
// the vendor event id (or a payload hash when the vendor sent none) and is
// unique, which makes webhook redelivery a detectable no-op.
type PaymentLog struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       *uint      `gorm:"index" json:"user_id,omitempty"`
	EventID      string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"event_id"`
	EventType    string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	PayloadJSON  string     `gorm:"type:longtext;not null" json:"payload_json"`
	Processed    bool       `gorm:"default:false;index" json:"processed"`
	ProcessedAt  *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ErrorMessage string     `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
