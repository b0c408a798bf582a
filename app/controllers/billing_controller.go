package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/CourseFox/internal/pkg/billing"
)

const (
	webhookTimeout = 15 * time.Second

	msgSignatureInvalid = "Webhook signature verification failed"
	msgHandlerFailed    = "Webhook handler failed"
)

var billingProcessor *billing.Processor

// InitializeBillingController installs the processor used by the webhook route.
func InitializeBillingController(p *billing.Processor) {
	billingProcessor = p
}

// HandleStripeWebhook answers 200 with an empty body when the event was
// accepted and 400 otherwise. It never answers 5xx.
func HandleStripeWebhook(c *fiber.Ctx) error {
	if billingProcessor == nil {
		fiberlog.Error("[Billing] stripe webhook called before InitializeBillingController")
		return c.Status(fiber.StatusBadRequest).SendString(msgHandlerFailed)
	}

	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := c.Get(billing.SignatureHeader)

	ctx, cancel := context.WithTimeout(c.UserContext(), webhookTimeout)
	defer cancel()

	err := billingProcessor.Process(ctx, rawBody, signature)
	switch {
	case errors.Is(err, billing.ErrSignatureInvalid):
		return c.Status(fiber.StatusBadRequest).SendString(msgSignatureInvalid)
	case err != nil:
		fiberlog.Errorf("[Billing] stripe webhook failed: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString(msgHandlerFailed)
	}

	c.Status(fiber.StatusOK)
	return nil
}

func HandleHealth(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}
