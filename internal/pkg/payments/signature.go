package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignPayment computes the checkout signature the gateway sends back after a
// successful payment: hex(HMAC-SHA256(order_id + "|" + payment_id, keySecret)).
func SignPayment(orderID, paymentID, keySecret string) string {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature checks the signature returned by the checkout widget.
// Comparison is constant time; any single-byte difference in order id, payment
// id or signature fails.
func VerifyPaymentSignature(orderID, paymentID, signature, keySecret string) bool {
	sig := strings.TrimSpace(signature)
	if sig == "" || keySecret == "" {
		return false
	}
	decoded, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hmac.Equal(mac.Sum(nil), decoded)
}

// VerifyWebhookSignature checks the x-razorpay-signature header against the
// raw request body using the webhook-specific secret. This must pass before
// the payload is parsed or logged as a trusted event.
func VerifyWebhookSignature(body []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	if sig == "" || webhookSecret == "" {
		return false
	}
	decoded, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), decoded)
}
