package payments

import (
	"time"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the payment service.
type Repository interface {
	// Transact runs fn against a repository bound to one transaction; every
	// write inside either commits together or not at all.
	Transact(fn func(Repository) error) error

	CreateOrder(order *models.PaymentOrder) error
	GetOrderByOrderID(orderID string) (*models.PaymentOrder, error)
	GetOrderForUser(orderID string, userID uint) (*models.PaymentOrder, error)
	MarkOrderPaid(orderID, paymentID string, verifiedAt time.Time) (bool, error)
	MarkOrderFailed(orderID, paymentID string) (bool, error)

	SetUserEntitlement(userID uint, planID, status string) error
	SetUserSubscriptionStatus(userID uint, status string) error
	UpsertSubscription(sub *models.Subscription) error
	SetSubscriptionStatus(userID uint, status string) error

	CreateLogIfNotExists(log *models.PaymentLog) (bool, *models.PaymentLog, error)
	MarkLogProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payment repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transact(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) CreateOrder(order *models.PaymentOrder) error {
	return r.db.Create(order).Error
}

func (r *gormRepository) GetOrderByOrderID(orderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.db.Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) GetOrderForUser(orderID string, userID uint) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := r.db.Where("order_id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkOrderPaid finalizes an order from created to paid. The update is
// conditional on the current status, so a replayed delivery or a lost race
// affects zero rows and the transition happens exactly once.
func (r *gormRepository) MarkOrderPaid(orderID, paymentID string, verifiedAt time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":      models.OrderStatusPaid,
		"verified_at": &verifiedAt,
	}
	if paymentID != "" {
		updates["payment_id"] = paymentID
	}
	res := r.db.Model(&models.PaymentOrder{}).
		Where("order_id = ? AND status = ?", orderID, models.OrderStatusCreated).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *gormRepository) MarkOrderFailed(orderID, paymentID string) (bool, error) {
	res := r.db.Model(&models.PaymentOrder{}).
		Where("order_id = ? AND status = ?", orderID, models.OrderStatusCreated).
		Updates(map[string]interface{}{
			"status":     models.OrderStatusFailed,
			"payment_id": paymentID,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *gormRepository) SetUserEntitlement(userID uint, planID, status string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"subscription":        planID,
			"subscription_status": status,
		}).Error
}

// SetUserSubscriptionStatus updates only the status copy on the user record,
// used for renewal confirmations that do not change the plan.
func (r *gormRepository) SetUserSubscriptionStatus(userID uint, status string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("subscription_status", status).Error
}

// UpsertSubscription keeps one logical entitlement row per user; the latest
// successful payment wins.
func (r *gormRepository) UpsertSubscription(sub *models.Subscription) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan_id",
			"razorpay_order_id",
			"razorpay_payment_id",
			"amount",
			"status",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("user_id = ?", sub.UserID).First(sub).Error
}

func (r *gormRepository) SetSubscriptionStatus(userID uint, status string) error {
	return r.db.Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Update("status", status).Error
}

// CreateLogIfNotExists inserts an audit row keyed on the vendor event id.
// A conflict means the event was already delivered; the stored row is
// returned either way so callers can tell replay from first delivery.
func (r *gormRepository) CreateLogIfNotExists(log *models.PaymentLog) (bool, *models.PaymentLog, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "event_id"},
		},
		DoNothing: true,
	}).Create(log)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.PaymentLog
	if err := r.db.Where("event_id = ?", log.EventID).First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkLogProcessed(id uint, processingError string) error {
	now := time.Now()
	return r.db.Model(&models.PaymentLog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed":     true,
			"processed_at":  &now,
			"error_message": processingError,
		}).Error
}
