package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/env"
)

const (
	testKeyID         = "rzp_test_key"
	testKeySecret     = "rzp_test_secret"
	testWebhookSecret = "rzp_webhook_secret"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.PaymentOrder{},
		&models.PaymentLog{},
		&models.Subscription{},
	))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// stubGateway records calls instead of hitting the vendor.
type stubGateway struct {
	calls      int
	lastAmount int64
	orderID    string
	err        error
}

func (g *stubGateway) IsConfigured() bool { return true }

func (g *stubGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*RazorpayOrder, error) {
	g.calls++
	g.lastAmount = amount
	if g.err != nil {
		return nil, g.err
	}
	id := g.orderID
	if id == "" {
		id = fmt.Sprintf("order_stub%d", g.calls)
	}
	return &RazorpayOrder{ID: id, Amount: amount, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func newTestService(t *testing.T, db *gorm.DB) (*Service, *stubGateway) {
	t.Helper()
	gw := &stubGateway{}
	return NewService(NewRepository(db), gw, testKeyID), gw
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Name:               "Asha Verma",
		Email:              "asha@example.com",
		Password:           "hashed-password",
		Role:               models.ROLE_USER,
		Status:             models.STATUS_ACTIVE,
		Subscription:       "free",
		SubscriptionStatus: models.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func signWebhook(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func setupWebhookEnv(t *testing.T) {
	t.Helper()
	prev := env.Env
	env.Env = map[string]string{"RAZORPAY_WEBHOOK_SECRET": testWebhookSecret}
	t.Cleanup(func() { env.Env = prev })
}

func TestCreateOrder_PremiumAmountInPaise(t *testing.T) {
	db := newTestDB(t)
	svc, gw := newTestService(t, db)
	user := seedUser(t, db)

	res, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID:    user.ID,
		PlanID:    "premium",
		UserEmail: user.Email,
		UserName:  user.Name,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(129900), gw.lastAmount)
	assert.Equal(t, int64(129900), res.Amount)
	assert.Equal(t, "INR", res.Currency)
	assert.Equal(t, testKeyID, res.Key)
	assert.NotEmpty(t, res.OrderID)

	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", res.OrderID).First(&order).Error)
	assert.Equal(t, models.OrderStatusCreated, order.Status)
	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, "premium", order.PlanID)
	assert.Equal(t, int64(1299), order.Amount)

	var logCount int64
	require.NoError(t, db.Model(&models.PaymentLog{}).
		Where("event_type = ?", EventOrderCreated).Count(&logCount).Error)
	assert.Equal(t, int64(1), logCount)
}

func TestCreateOrder_InvalidPlan(t *testing.T) {
	db := newTestDB(t)
	svc, gw := newTestService(t, db)
	user := seedUser(t, db)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{UserID: user.ID, PlanID: "enterprise"})
	assert.ErrorIs(t, err, ErrInvalidPlan)
	assert.Equal(t, 0, gw.calls)
}

func TestCreateOrder_FreePlanSkipsGateway(t *testing.T) {
	db := newTestDB(t)
	svc, gw := newTestService(t, db)
	user := seedUser(t, db)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{UserID: user.ID, PlanID: "free"})
	assert.ErrorIs(t, err, ErrFreePlanCheckout)
	assert.Equal(t, 0, gw.calls)
}

func createOrderForUser(t *testing.T, svc *Service, userID uint, planID string) string {
	t.Helper()
	res, err := svc.CreateOrder(context.Background(), CreateOrderInput{UserID: userID, PlanID: planID})
	require.NoError(t, err)
	return res.OrderID
}

func TestVerifyPayment_Success(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db)
	user := seedUser(t, db)
	orderID := createOrderForUser(t, svc, user.ID, "premium")

	paymentID := "pay_ver001"
	sig := SignPayment(orderID, paymentID, testKeySecret)

	err := svc.VerifyPayment(context.Background(), VerifyInput{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: sig,
		UserID:    user.ID,
		PlanID:    "premium",
	}, testKeySecret)
	require.NoError(t, err)

	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", orderID).First(&order).Error)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, paymentID, order.PaymentID)
	assert.NotNil(t, order.VerifiedAt)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "premium", updated.Subscription)
	assert.Equal(t, models.SubscriptionStatusActive, updated.SubscriptionStatus)

	var sub models.Subscription
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&sub).Error)
	assert.Equal(t, "premium", sub.PlanID)
	assert.Equal(t, orderID, sub.RazorpayOrderID)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
}

func TestVerifyPayment_BadSignatureMutatesNothing(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db)
	user := seedUser(t, db)
	orderID := createOrderForUser(t, svc, user.ID, "premium")

	err := svc.VerifyPayment(context.Background(), VerifyInput{
		OrderID:   orderID,
		PaymentID: "pay_bad001",
		Signature: "0000000000000000000000000000000000000000000000000000000000000000",
		UserID:    user.ID,
		PlanID:    "premium",
	}, testKeySecret)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", orderID).First(&order).Error)
	assert.Equal(t, models.OrderStatusCreated, order.Status)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "free", updated.Subscription)

	var failLog models.PaymentLog
	require.NoError(t, db.Where("event_type = ?", EventVerificationFailed).First(&failLog).Error)
	assert.False(t, failLog.Processed)
	assert.Contains(t, failLog.PayloadJSON, "provided_signature")
	assert.Contains(t, failLog.PayloadJSON, "expected_signature")
}

func TestVerifyPayment_OrderOwnedByOtherUser(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db)
	owner := seedUser(t, db)
	orderID := createOrderForUser(t, svc, owner.ID, "premium")

	intruder := &models.User{
		Name: "Someone Else", Email: "intruder@example.com", Password: "x",
		Role: models.ROLE_USER, Status: models.STATUS_ACTIVE,
		Subscription: "free", SubscriptionStatus: models.SubscriptionStatusActive,
	}
	require.NoError(t, db.Create(intruder).Error)

	paymentID := "pay_hijack"
	sig := SignPayment(orderID, paymentID, testKeySecret)
	err := svc.VerifyPayment(context.Background(), VerifyInput{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: sig,
		UserID:    intruder.ID,
		PlanID:    "premium",
	}, testKeySecret)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func capturedWebhookBody(orderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q}}}}`, paymentID, orderID))
}

func TestWebhook_PaymentCaptured(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db)
	user := seedUser(t, db)
	orderID := createOrderForUser(t, svc, user.ID, "premium")
	setupWebhookEnv(t)

	body := capturedWebhookBody(orderID, "pay_hook001")
	res, err := svc.HandleWebhookEvent(context.Background(), body, signWebhook(body), "evt_001")
	require.NoError(t, err)
	assert.Equal(t, EventPaymentCaptured, res.Event)
	assert.False(t, res.Duplicate)

	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", orderID).First(&order).Error)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, "pay_hook001", order.PaymentID)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "premium", updated.Subscription)
	assert.Equal(t, models.SubscriptionStatusActive, updated.SubscriptionStatus)

	var stored models.PaymentLog
	require.NoError(t, db.Where("event_id = ?", "evt_001").First(&stored).Error)
	assert.True(t, stored.Processed)
	assert.Empty(t, stored.ErrorMessage)
}

func TestWebhook_ReplayIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db)
	user := seedUser(t, db)
	orderID := createOrderForUser(t, svc, user.ID, "premium")
	setupWebhookEnv(t)

	body := capturedWebhookBody(orderID, "pay_hook002")
	sig := signWebhook(body)

	_, err := svc.HandleWebhookEvent(context.Background(), body, sig, "evt_replay")
	require.NoError(t, err)
	res, err := svc.HandleWebhookEvent(context.Background(), body, sig, "evt_replay")
	require.NoError(t, err)
	assert.True(t, res.Duplicate)

	var subCount int64
	require.NoError(t, db.Model(&models.Subscription{}).Where("user_id = ?", user.ID).Count(&subCount).Error)
	assert.Equal(t, int64(1), subCount)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "premium", updated.Subscription)
}

// flakyRepo fails the next order lookups to simulate a transient database
// error during dispatch.
type flakyRepo struct {
	Repository
	failures int
}

func (r *flakyRepo) GetOrderByOrderID(orderID string) (*models.PaymentOrder, error) {
	if r.failures > 0 {
		r.failures--
		return nil, errors.New("connection reset")
	}
	return r.Repository.GetOrderByOrderID(orderID)
}

func TestWebhook_FailedDispatchIsRetriedOnRedelivery(t *testing.T) {
	db := newTestDB(t)
	repo := &flakyRepo{Repository: NewRepository(db)}
	svc := NewService(repo, &stubGateway{}, testKeyID)
	user := seedUser(t, db)
	orderID := createOrderForUser(t, svc, user.ID, "premium")
	setupWebhookEnv(t)

	body := capturedWebhookBody(orderID, "pay_retry")
	sig := signWebhook(body)

	repo.failures = 1
	_, err := svc.HandleWebhookEvent(context.Background(), body, sig, "evt_retry")
	require.Error(t, err)

	var stored models.PaymentLog
	require.NoError(t, db.Where("event_id = ?", "evt_retry").First(&stored).Error)
	assert.NotEmpty(t, stored.ErrorMessage)

	// The vendor redelivers with the same event id; the stored error means
	// the event runs again instead of short-circuiting as a replay.
	res, err := svc.HandleWebhookEvent(context.Background(), body, sig, "evt_retry")
	require.NoError(t, err)
	assert.False(t, res.Duplicate)

	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", orderID).First(&order).Error)
	assert.Equal(t, models.OrderStatusPaid, order.Status)

	require.NoError(t, db.Where("event_id = ?", "evt_retry").First(&stored).Error)
	assert.True(t, stored.Processed)
	assert.Empty(t, stored.ErrorMessage)

	// Once the event has applied cleanly, redelivery is a replay again.
	res, err = svc.HandleWebhookEvent(context.Background(), body, sig, "evt_retry")
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
}

func TestWebhook_PaymentFailed(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db)
	user := seedUser(t, db)
	orderID := createOrderForUser(t, svc, user.ID, "premium")
	setupWebhookEnv(t)

	body := []byte(fmt.Sprintf(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_fail01","order_id":%q}}}}`, orderID))
	_, err := svc.HandleWebhookEvent(context.Background(), body, signWebhook(body), "evt_fail")
	require.NoError(t, err)

	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", orderID).First(&order).Error)
	assert.Equal(t, models.OrderStatusFailed, order.Status)
	assert.Equal(t, "pay_fail01", order.PaymentID)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "free", updated.Subscription)
}

func TestWebhook_FailedAfterPaidIsNoOp(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db)
	user := seedUser(t, db)
	orderID := createOrderForUser(t, svc, user.ID, "premium")
	setupWebhookEnv(t)

	capture := capturedWebhookBody(orderID, "pay_first")
	_, err := svc.HandleWebhookEvent(context.Background(), capture, signWebhook(capture), "evt_cap")
	require.NoError(t, err)

	fail := []byte(fmt.Sprintf(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_late","order_id":%q}}}}`, orderID))
	_, err = svc.HandleWebhookEvent(context.Background(), fail, signWebhook(fail), "evt_late")
	require.NoError(t, err)

	// Terminal status never moves backward.
	var order models.PaymentOrder
	require.NoError(t, db.Where("order_id = ?", orderID).First(&order).Error)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, "pay_first", order.PaymentID)
}

func TestWebhook_InvalidSignatureRejected(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db)
	setupWebhookEnv(t)

	body := capturedWebhookBody("order_none", "pay_none")
	_, err := svc.HandleWebhookEvent(context.Background(), body, "deadbeef", "evt_bad")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// Untrusted deliveries never reach the audit log.
	var count int64
	require.NoError(t, db.Model(&models.PaymentLog{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestWebhook_SubscriptionCancelled(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db)
	user := seedUser(t, db)
	require.NoError(t, svc.SelectFreePlan(context.Background(), user.ID))
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"subscription": "premium"}).Error)
	setupWebhookEnv(t)

	body := []byte(fmt.Sprintf(`{"event":"subscription.cancelled","payload":{"subscription":{"entity":{"id":"sub_1","notes":{"user_id":"%d"}}}}}`, user.ID))
	_, err := svc.HandleWebhookEvent(context.Background(), body, signWebhook(body), "evt_cancel")
	require.NoError(t, err)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "free", updated.Subscription)
	assert.Equal(t, models.SubscriptionStatusCanceled, updated.SubscriptionStatus)

	var sub models.Subscription
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&sub).Error)
	assert.Equal(t, models.SubscriptionStatusCanceled, sub.Status)
}

func TestWebhook_SubscriptionCharged(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db)
	user := seedUser(t, db)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"subscription": "premium", "subscription_status": models.SubscriptionStatusCanceled}).Error)
	setupWebhookEnv(t)

	body := []byte(fmt.Sprintf(`{"event":"subscription.charged","payload":{"subscription":{"entity":{"id":"sub_1","notes":{"user_id":"%d"}}}}}`, user.ID))
	_, err := svc.HandleWebhookEvent(context.Background(), body, signWebhook(body), "evt_charge")
	require.NoError(t, err)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	// Renewal confirms the status but does not change the plan.
	assert.Equal(t, "premium", updated.Subscription)
	assert.Equal(t, models.SubscriptionStatusActive, updated.SubscriptionStatus)
}

func TestWebhook_UnknownEventLoggedOnly(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db)
	setupWebhookEnv(t)

	body := []byte(`{"event":"refund.created","payload":{}}`)
	res, err := svc.HandleWebhookEvent(context.Background(), body, signWebhook(body), "evt_unknown")
	require.NoError(t, err)
	assert.Equal(t, "refund.created", res.Event)

	var stored models.PaymentLog
	require.NoError(t, db.Where("event_id = ?", "evt_unknown").First(&stored).Error)
	assert.True(t, stored.Processed)
}

func TestSelectFreePlan_NeverCallsGateway(t *testing.T) {
	db := newTestDB(t)
	svc, gw := newTestService(t, db)
	user := seedUser(t, db)

	require.NoError(t, svc.SelectFreePlan(context.Background(), user.ID))
	assert.Equal(t, 0, gw.calls)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "free", updated.Subscription)
	assert.Equal(t, models.SubscriptionStatusActive, updated.SubscriptionStatus)

	var sub models.Subscription
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&sub).Error)
	assert.Equal(t, "free", sub.PlanID)
}

func TestCancelSubscription_NeverCallsGateway(t *testing.T) {
	db := newTestDB(t)
	svc, gw := newTestService(t, db)
	user := seedUser(t, db)
	require.NoError(t, svc.SelectFreePlan(context.Background(), user.ID))

	require.NoError(t, svc.CancelSubscription(context.Background(), user.ID))
	assert.Equal(t, 0, gw.calls)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.Equal(t, "free", updated.Subscription)
	assert.Equal(t, models.SubscriptionStatusCanceled, updated.SubscriptionStatus)
}

func TestCreateOrder_GatewayFailureLeavesNoState(t *testing.T) {
	db := newTestDB(t)
	svc, gw := newTestService(t, db)
	user := seedUser(t, db)
	gw.err = errors.New("gateway unavailable")

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{UserID: user.ID, PlanID: "premium"})
	require.Error(t, err)

	var orderCount int64
	require.NoError(t, db.Model(&models.PaymentOrder{}).Count(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount)
}
