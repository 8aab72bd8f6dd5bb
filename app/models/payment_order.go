package models

import "time"

const (
	OrderStatusCreated = "created"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// PaymentOrder represents one checkout attempt against the payment gateway.
// OrderID is vendor-issued; PaymentID is set when the order is finalized.
// Rows are never deleted, and the status moves created -> paid|failed exactly
// once (transitions are guarded by conditional updates in the repository).
type PaymentOrder struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	OrderID    string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"order_id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	PlanID     string     `gorm:"type:varchar(50);not null" json:"plan_id"`
	Amount     int64      `gorm:"not null" json:"amount"`
	Currency   string     `gorm:"type:varchar(8);not null;default:'INR'" json:"currency"`
	Status     string     `gorm:"type:varchar(16);not null;default:'created';index" json:"status"`
	PaymentID  string     `gorm:"type:varchar(191);default:''" json:"payment_id"`
	VerifiedAt *time.Time `gorm:"type:timestamp;default:null" json:"verified_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsFinal reports whether the order has reached a terminal status.
func (o *PaymentOrder) IsFinal() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusFailed
}
