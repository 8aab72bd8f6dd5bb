package payments

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dinesh-Bingi/legacy-ai/app/models"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

var (
	// ErrNotConfigured means gateway credentials are missing; the caller
	// should surface a configuration error, not retry.
	ErrNotConfigured = errors.New("payment gateway is not configured")
	// ErrInvalidPlan means the plan id is not in the catalog.
	ErrInvalidPlan = errors.New("invalid plan selected")
	// ErrFreePlanCheckout means checkout was requested for a zero-price plan.
	ErrFreePlanCheckout = errors.New("free plan does not require checkout")
	// ErrVerificationFailed means the checkout signature did not match.
	ErrVerificationFailed = errors.New("payment verification failed: invalid signature")
	// ErrInvalidSignature means the webhook signature did not match.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrOrderNotFound means no order exists for the (order, user) pair.
	ErrOrderNotFound = errors.New("order not found or unauthorized")
)

// Gateway is the vendor surface the service needs; *RazorpayClient satisfies
// it and tests substitute a stub.
type Gateway interface {
	IsConfigured() bool
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*RazorpayOrder, error)
}

// Service owns the payment order lifecycle: checkout order creation, the
// synchronous verification path and the asynchronous webhook path. All
// multi-row state changes run inside one repository transaction.
type Service struct {
	repo    Repository
	gateway Gateway
	keyID   string
}

// NewService creates a payment service from injected dependencies.
func NewService(repo Repository, gateway Gateway, keyID string) *Service {
	return &Service{repo: repo, gateway: gateway, keyID: keyID}
}

// NewServiceFromDB wires the service with the env-configured gateway client.
func NewServiceFromDB(db *gorm.DB) *Service {
	client := NewRazorpayClientFromEnv()
	return NewService(NewRepository(db), client, client.KeyID)
}

// CreateOrderInput is the checkout request from the client.
type CreateOrderInput struct {
	UserID    uint
	PlanID    string
	UserEmail string
	UserName  string
}

// CreateOrderResult carries everything the client needs to open the hosted
// checkout widget.
type CreateOrderResult struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// CreateOrder creates a vendor order for the plan price in paise, persists
// the local PaymentOrder in status created and appends an order.created
// audit log.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	if in.UserID == 0 {
		return nil, errors.New("user_id is required")
	}
	plan, ok := PlanByID(in.PlanID)
	if !ok {
		return nil, ErrInvalidPlan
	}
	if plan.IsFree() {
		return nil, ErrFreePlanCheckout
	}
	if s.gateway == nil || !s.gateway.IsConfigured() {
		return nil, ErrNotConfigured
	}

	receipt := fmt.Sprintf("legacy_%d_%d", in.UserID, time.Now().Unix())
	notes := map[string]string{
		"user_id":    fmt.Sprintf("%d", in.UserID),
		"plan_id":    plan.ID,
		"plan_name":  plan.Name,
		"user_email": in.UserEmail,
		"user_name":  in.UserName,
		"service":    "legacy_ai",
	}

	order, err := s.gateway.CreateOrder(ctx, plan.AmountMinorUnits(), Currency, receipt, notes)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	payloadJSON, _ := json.Marshal(order)
	err = s.repo.Transact(func(tx Repository) error {
		if err := tx.CreateOrder(&models.PaymentOrder{
			OrderID:  order.ID,
			UserID:   in.UserID,
			PlanID:   plan.ID,
			Amount:   plan.Price,
			Currency: Currency,
			Status:   models.OrderStatusCreated,
		}); err != nil {
			return err
		}
		userID := in.UserID
		created, _, err := tx.CreateLogIfNotExists(&models.PaymentLog{
			UserID:      &userID,
			EventID:     "local:" + EventOrderCreated + ":" + order.ID,
			EventType:   EventOrderCreated,
			PayloadJSON: string(payloadJSON),
			Processed:   true,
		})
		if err != nil {
			return err
		}
		if !created {
			return fmt.Errorf("duplicate order id %s", order.ID)
		}
		return nil
	})
	if err != nil {
		// The vendor order exists but nothing local was committed; the order
		// is unusable without its local row, so surface the failure.
		return nil, fmt.Errorf("failed to store order information: %w", err)
	}

	return &CreateOrderResult{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Key:      s.keyID,
	}, nil
}

// VerifyInput is the post-checkout verification request.
type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
	UserID    uint
	PlanID    string
}

// VerifyPayment is the synchronous verification path: recompute the checkout
// HMAC, reject on mismatch without touching any other state, and on match
// finalize the order and entitlement in one transaction.
func (s *Service) VerifyPayment(ctx context.Context, in VerifyInput, keySecret string) error {
	_ = ctx
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" || in.UserID == 0 {
		return errors.New("missing required payment verification parameters")
	}
	if keySecret == "" {
		return ErrNotConfigured
	}

	if !VerifyPaymentSignature(in.OrderID, in.PaymentID, in.Signature, keySecret) {
		expected := SignPayment(in.OrderID, in.PaymentID, keySecret)
		payload, _ := json.Marshal(map[string]string{
			"order_id":           in.OrderID,
			"payment_id":         in.PaymentID,
			"provided_signature": in.Signature,
			"expected_signature": expected,
		})
		userID := in.UserID
		if _, _, err := s.repo.CreateLogIfNotExists(&models.PaymentLog{
			UserID:       &userID,
			EventID:      "local:" + EventVerificationFailed + ":" + in.OrderID + ":" + in.PaymentID,
			EventType:    EventVerificationFailed,
			PayloadJSON:  string(payload),
			ErrorMessage: "invalid payment signature",
		}); err != nil {
			log.Errorf("[Payments] failed to log verification failure for order %s: %v", in.OrderID, err)
		}
		return ErrVerificationFailed
	}

	// Order lookup is scoped to the caller; absence is authorization failure.
	order, err := s.repo.GetOrderForUser(in.OrderID, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	// The plan comes from the stored order, not from the request body.
	return s.repo.Transact(func(tx Repository) error {
		transitioned, err := tx.MarkOrderPaid(order.OrderID, in.PaymentID, time.Now())
		if err != nil {
			return err
		}
		if !transitioned && order.Status == models.OrderStatusFailed {
			return fmt.Errorf("order %s already failed", order.OrderID)
		}
		if err := tx.SetUserEntitlement(order.UserID, order.PlanID, models.SubscriptionStatusActive); err != nil {
			return fmt.Errorf("failed to activate subscription: %w", err)
		}
		if err := tx.UpsertSubscription(&models.Subscription{
			UserID:            order.UserID,
			PlanID:            order.PlanID,
			RazorpayOrderID:   order.OrderID,
			RazorpayPaymentID: in.PaymentID,
			Amount:            order.Amount,
			Status:            models.SubscriptionStatusActive,
		}); err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]interface{}{
			"order_id":   order.OrderID,
			"payment_id": in.PaymentID,
			"plan_id":    order.PlanID,
			"amount":     order.Amount,
		})
		userID := order.UserID
		_, _, err = tx.CreateLogIfNotExists(&models.PaymentLog{
			UserID:      &userID,
			EventID:     "local:" + EventVerified + ":" + order.OrderID + ":" + in.PaymentID,
			EventType:   EventVerified,
			PayloadJSON: string(payload),
			Processed:   true,
		})
		return err
	})
}

// WebhookResult reports what happened to an inbound delivery.
type WebhookResult struct {
	Event     string
	Duplicate bool
}

// HandleWebhookEvent is the asynchronous reconciliation path. Order of
// operations: verify the body signature, persist the event keyed on its
// vendor event id (replays of cleanly handled events short-circuit here,
// while a delivery whose dispatch previously failed runs again), dispatch by
// type inside one transaction, then flip the exact stored log row to
// processed.
func (s *Service) HandleWebhookEvent(ctx context.Context, body []byte, signatureHeader, eventIDHeader string) (*WebhookResult, error) {
	_ = ctx
	webhookSecret := webhookSecretFromEnv()
	if webhookSecret == "" {
		return nil, ErrNotConfigured
	}
	if !VerifyWebhookSignature(body, signatureHeader, webhookSecret) {
		return nil, ErrInvalidSignature
	}

	event, err := ParseWebhookEvent(body)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}

	eventID := strings.TrimSpace(eventIDHeader)
	if eventID == "" {
		sum := sha256.Sum256(body)
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	created, stored, err := s.repo.CreateLogIfNotExists(&models.PaymentLog{
		EventID:     eventID,
		EventType:   event.Event,
		PayloadJSON: string(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist webhook event: %w", err)
	}
	if !created {
		if stored.ErrorMessage == "" {
			return &WebhookResult{Event: event.Event, Duplicate: true}, nil
		}
		// A non-empty error message means dispatch failed on a prior
		// delivery. The vendor retries with the same event id, so run the
		// event again instead of counting it as a replay.
	}

	dispatchErr := s.dispatch(event)

	errMsg := ""
	if dispatchErr != nil {
		errMsg = dispatchErr.Error()
	}
	if err := s.repo.MarkLogProcessed(stored.ID, errMsg); err != nil {
		log.Errorf("[Payments] failed to mark log %d processed: %v", stored.ID, err)
	}
	if dispatchErr != nil {
		return nil, dispatchErr
	}
	return &WebhookResult{Event: event.Event}, nil
}

func (s *Service) dispatch(event *WebhookEvent) error {
	switch event.Event {
	case EventPaymentCaptured, EventOrderPaid:
		return s.applyOrderPaid(event)
	case EventPaymentFailed:
		return s.applyOrderFailed(event)
	case EventSubscriptionCancelled:
		return s.applySubscriptionCancelled(event)
	case EventSubscriptionCharged:
		return s.applySubscriptionCharged(event)
	default:
		log.Infof("[Payments] ignoring webhook event type %s", event.Event)
		return nil
	}
}

// applyOrderPaid finalizes an order and grants the entitlement. Both
// payment.captured and order.paid land here: any event that finalizes an
// order propagates the payment id when the payload carries one.
func (s *Service) applyOrderPaid(event *WebhookEvent) error {
	if event.OrderID == "" {
		return errors.New("payment event without order id")
	}
	order, err := s.repo.GetOrderByOrderID(event.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Order created elsewhere or vendor test event; nothing to update.
			log.Warnf("[Payments] webhook for unknown order %s", event.OrderID)
			return nil
		}
		return err
	}

	return s.repo.Transact(func(tx Repository) error {
		transitioned, err := tx.MarkOrderPaid(order.OrderID, event.PaymentID, time.Now())
		if err != nil {
			return err
		}
		if !transitioned && order.Status == models.OrderStatusFailed {
			return fmt.Errorf("order %s already failed", order.OrderID)
		}
		if err := tx.SetUserEntitlement(order.UserID, order.PlanID, models.SubscriptionStatusActive); err != nil {
			return err
		}
		return tx.UpsertSubscription(&models.Subscription{
			UserID:            order.UserID,
			PlanID:            order.PlanID,
			RazorpayOrderID:   order.OrderID,
			RazorpayPaymentID: event.PaymentID,
			Amount:            order.Amount,
			Status:            models.SubscriptionStatusActive,
		})
	})
}

func (s *Service) applyOrderFailed(event *WebhookEvent) error {
	if event.OrderID == "" {
		return errors.New("payment event without order id")
	}
	_, err := s.repo.MarkOrderFailed(event.OrderID, event.PaymentID)
	return err
}

func (s *Service) applySubscriptionCancelled(event *WebhookEvent) error {
	if event.NotesUserID == 0 {
		log.Warnf("[Payments] subscription.cancelled without user_id in notes")
		return nil
	}
	return s.repo.Transact(func(tx Repository) error {
		if err := tx.SetUserEntitlement(event.NotesUserID, string(planFree()), models.SubscriptionStatusCanceled); err != nil {
			return err
		}
		return tx.SetSubscriptionStatus(event.NotesUserID, models.SubscriptionStatusCanceled)
	})
}

func (s *Service) applySubscriptionCharged(event *WebhookEvent) error {
	if event.NotesUserID == 0 {
		log.Warnf("[Payments] subscription.charged without user_id in notes")
		return nil
	}
	return s.repo.SetUserSubscriptionStatus(event.NotesUserID, models.SubscriptionStatusActive)
}

// SelectFreePlan grants the free tier without any vendor interaction.
func (s *Service) SelectFreePlan(ctx context.Context, userID uint) error {
	_ = ctx
	if userID == 0 {
		return errors.New("user_id is required")
	}
	return s.repo.Transact(func(tx Repository) error {
		if err := tx.SetUserEntitlement(userID, string(planFree()), models.SubscriptionStatusActive); err != nil {
			return err
		}
		return tx.UpsertSubscription(&models.Subscription{
			UserID: userID,
			PlanID: string(planFree()),
			Status: models.SubscriptionStatusActive,
		})
	})
}

// CancelSubscription flips the local entitlement to free/canceled. No vendor
// cancellation call is made; the entitlement flip is purely local.
func (s *Service) CancelSubscription(ctx context.Context, userID uint) error {
	_ = ctx
	if userID == 0 {
		return errors.New("user_id is required")
	}
	return s.repo.Transact(func(tx Repository) error {
		if err := tx.SetUserEntitlement(userID, string(planFree()), models.SubscriptionStatusCanceled); err != nil {
			return err
		}
		return tx.SetSubscriptionStatus(userID, models.SubscriptionStatusCanceled)
	})
}
