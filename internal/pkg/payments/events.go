package payments

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Webhook event types dispatched by HandleWebhookEvent. Anything else is
// logged and ignored.
const (
	EventPaymentCaptured       = "payment.captured"
	EventPaymentFailed         = "payment.failed"
	EventOrderPaid             = "order.paid"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventSubscriptionCharged   = "subscription.charged"
)

// Event types recorded for the synchronous paths.
const (
	EventOrderCreated       = "order.created"
	EventVerified           = "payment.verified"
	EventVerificationFailed = "payment.verification_failed"
)

// WebhookEvent is the parsed vendor push. Only the fields the dispatcher
// needs are extracted; the raw body is kept verbatim in the audit log.
type WebhookEvent struct {
	Event        string
	PaymentID    string
	OrderID      string
	Subscription string
	NotesUserID  uint
}

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string          `json:"id"`
				OrderID string          `json:"order_id"`
				Notes   json.RawMessage `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"order"`
		Subscription struct {
			Entity struct {
				ID    string          `json:"id"`
				Notes json.RawMessage `json:"notes"`
			} `json:"entity"`
		} `json:"subscription"`
	} `json:"payload"`
}

// ParseWebhookEvent extracts the event type and the entity ids the dispatcher
// acts on. Notes may arrive as an object or an empty array, so user_id is
// pulled out defensively.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if strings.TrimSpace(env.Event) == "" {
		return nil, errors.New("webhook payload has no event type")
	}

	ev := &WebhookEvent{
		Event:        env.Event,
		PaymentID:    env.Payload.Payment.Entity.ID,
		OrderID:      env.Payload.Payment.Entity.OrderID,
		Subscription: env.Payload.Subscription.Entity.ID,
	}
	if ev.OrderID == "" {
		ev.OrderID = env.Payload.Order.Entity.ID
	}
	if userID, ok := notesUserID(env.Payload.Subscription.Entity.Notes); ok {
		ev.NotesUserID = userID
	} else if userID, ok := notesUserID(env.Payload.Payment.Entity.Notes); ok {
		ev.NotesUserID = userID
	}
	return ev, nil
}

func notesUserID(raw json.RawMessage) (uint, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var notes map[string]json.RawMessage
	if err := json.Unmarshal(raw, &notes); err != nil {
		return 0, false
	}
	v, ok := notes["user_id"]
	if !ok {
		return 0, false
	}
	// user_id may be serialized as a number or a string
	var asNum uint
	if err := json.Unmarshal(v, &asNum); err == nil && asNum > 0 {
		return asNum, true
	}
	var asStr string
	if err := json.Unmarshal(v, &asStr); err == nil {
		if n, err := strconv.ParseUint(strings.TrimSpace(asStr), 10, 32); err == nil && n > 0 {
			return uint(n), true
		}
	}
	return 0, false
}
