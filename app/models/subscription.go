package models

import "time"

// Subscription is the entitlement record per user: one logical row, latest
// payment wins. It is upserted on successful payment and flipped to canceled
// on cancellation, always in the same transaction as the user's denormalized
// subscription fields so the two can never diverge.
type Subscription struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	PlanID            string    `gorm:"type:varchar(50);not null;default:'free'" json:"plan_id"`
	RazorpayOrderID   string    `gorm:"type:varchar(191);default:''" json:"razorpay_order_id"`
	RazorpayPaymentID string    `gorm:"type:varchar(191);default:''" json:"razorpay_payment_id"`
	Amount            int64     `gorm:"not null;default:0" json:"amount"`
	Status            string    `gorm:"type:varchar(32);not null;default:'active';index" json:"status"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
