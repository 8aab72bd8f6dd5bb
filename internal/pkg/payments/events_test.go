package payments

import "testing"

func TestParseWebhookEvent_PaymentCaptured(t *testing.T) {
	raw := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": {
					"id": "pay_abc123",
					"order_id": "order_xyz789",
					"notes": { "user_id": "42", "plan_id": "premium" }
				}
			}
		}
	}`)

	ev, err := ParseWebhookEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Event != EventPaymentCaptured {
		t.Fatalf("event = %q, want %q", ev.Event, EventPaymentCaptured)
	}
	if ev.PaymentID != "pay_abc123" || ev.OrderID != "order_xyz789" {
		t.Fatalf("unexpected ids: payment=%q order=%q", ev.PaymentID, ev.OrderID)
	}
	if ev.NotesUserID != 42 {
		t.Fatalf("notes user id = %d, want 42", ev.NotesUserID)
	}
}

func TestParseWebhookEvent_OrderPaid(t *testing.T) {
	raw := []byte(`{
		"event": "order.paid",
		"payload": {
			"order": { "entity": { "id": "order_xyz789" } }
		}
	}`)

	ev, err := ParseWebhookEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.OrderID != "order_xyz789" {
		t.Fatalf("order id = %q, want order_xyz789", ev.OrderID)
	}
	if ev.PaymentID != "" {
		t.Fatalf("expected no payment id, got %q", ev.PaymentID)
	}
}

func TestParseWebhookEvent_SubscriptionNotes(t *testing.T) {
	raw := []byte(`{
		"event": "subscription.cancelled",
		"payload": {
			"subscription": {
				"entity": { "id": "sub_001", "notes": { "user_id": 7 } }
			}
		}
	}`)

	ev, err := ParseWebhookEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Subscription != "sub_001" {
		t.Fatalf("subscription id = %q, want sub_001", ev.Subscription)
	}
	if ev.NotesUserID != 7 {
		t.Fatalf("notes user id = %d, want 7", ev.NotesUserID)
	}
}

func TestParseWebhookEvent_Invalid(t *testing.T) {
	if _, err := ParseWebhookEvent([]byte(`not-json`)); err == nil {
		t.Fatalf("expected parse error for non-JSON body")
	}
	if _, err := ParseWebhookEvent([]byte(`{"payload":{}}`)); err == nil {
		t.Fatalf("expected error for missing event type")
	}
}

func TestParseWebhookEvent_NotesAsArray(t *testing.T) {
	// Razorpay serializes empty notes as [] instead of {}.
	raw := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": { "id": "pay_1", "order_id": "order_1", "notes": [] }
			}
		}
	}`)

	ev, err := ParseWebhookEvent(raw)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.NotesUserID != 0 {
		t.Fatalf("expected no notes user id, got %d", ev.NotesUserID)
	}
}
