package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/Dinesh-Bingi/legacy-ai/app/repository"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/entitlements"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/env"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/payments"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/session"
	"github.com/Dinesh-Bingi/legacy-ai/internal/pkg/usercontext"
)

// HandlePaymentPlans returns the static subscription catalog.
func HandlePaymentPlans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"plans": payments.Plans})
}

type createOrderRequest struct {
	PlanID string `json:"plan_id"`
}

// HandlePaymentCreateOrder creates a gateway checkout order for a paid plan.
func HandlePaymentCreateOrder(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	result, err := getPaymentService().CreateOrder(c.Context(), payments.CreateOrderInput{
		UserID:    uc.UserID,
		PlanID:    req.PlanID,
		UserEmail: uc.Email,
		UserName:  uc.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidPlan):
			return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_plan", "Unknown plan")
		case errors.Is(err, payments.ErrFreePlanCheckout):
			return jsonError(c, fiber.StatusUnprocessableEntity, "invalid_plan", "The free plan does not require checkout")
		case errors.Is(err, payments.ErrNotConfigured):
			return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Payments are not configured")
		}
		log.Errorf("[Payments] order create for user %d failed: %v", uc.UserID, err)
		return jsonError(c, fiber.StatusBadGateway, "provider_error", "Failed to create payment order")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	PlanID    string `json:"plan_id"`
}

// HandlePaymentVerify is the synchronous post-checkout verification path.
func HandlePaymentVerify(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	err := getPaymentService().VerifyPayment(c.Context(), payments.VerifyInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		UserID:    userID,
		PlanID:    req.PlanID,
	}, env.GetEnv("RAZORPAY_KEY_SECRET", ""))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrVerificationFailed):
			return jsonError(c, fiber.StatusBadRequest, "verification_failed", "Payment verification failed")
		case errors.Is(err, payments.ErrOrderNotFound):
			return jsonError(c, fiber.StatusNotFound, "not_found", "Order not found")
		case errors.Is(err, payments.ErrNotConfigured):
			return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Payments are not configured")
		}
		log.Errorf("[Payments] verify for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to verify payment")
	}

	refreshSessionPlan(c, userID)

	return c.JSON(fiber.Map{"message": "Payment verified"})
}

// HandlePaymentWebhook receives gateway webhook deliveries. The signature is
// checked against the raw body before anything is parsed.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	body := c.BodyRaw()
	signature := c.Get("x-razorpay-signature")
	eventID := c.Get("x-razorpay-event-id")

	result, err := getPaymentService().HandleWebhookEvent(c.Context(), body, signature, eventID)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			return jsonError(c, fiber.StatusUnauthorized, "invalid_signature", "Invalid webhook signature")
		}
		if errors.Is(err, payments.ErrNotConfigured) {
			return jsonError(c, fiber.StatusServiceUnavailable, "service_unavailable", "Payments are not configured")
		}
		log.Errorf("[Payments] webhook processing failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to process webhook")
	}

	return c.JSON(fiber.Map{
		"status":    "ok",
		"event":     result.Event,
		"duplicate": result.Duplicate,
	})
}

// HandlePaymentSelectFree switches the user to the free plan.
func HandlePaymentSelectFree(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	if err := getPaymentService().SelectFreePlan(c.Context(), userID); err != nil {
		log.Errorf("[Payments] free plan select for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to update plan")
	}

	refreshSessionPlan(c, userID)

	return c.JSON(fiber.Map{"message": "Free plan selected"})
}

// HandlePaymentCancel cancels the user's active subscription and drops the
// entitlement back to free.
func HandlePaymentCancel(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	if err := getPaymentService().CancelSubscription(c.Context(), userID); err != nil {
		log.Errorf("[Payments] cancel for user %d failed: %v", userID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to cancel subscription")
	}

	refreshSessionPlan(c, userID)

	return c.JSON(fiber.Map{"message": "Subscription cancelled"})
}

// refreshSessionPlan re-reads the user's entitlement so the cached session
// plan matches what the payment flow just wrote.
func refreshSessionPlan(c *fiber.Ctx, userID uint) {
	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userID)
	if err != nil {
		log.Warnf("[Payments] session plan refresh for user %d failed: %v", userID, err)
		return
	}
	plan := string(entitlements.Normalize(user.Subscription))
	if err := session.SetSessionValue(c, usercontext.KeyUserPlan, plan); err != nil {
		log.Warnf("[Payments] session plan refresh for user %d failed: %v", userID, err)
	}
}
