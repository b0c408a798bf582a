package billing

import (
	"fmt"
	"strings"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v79/webhook"
)

// SignatureHeader carries Stripe's "t=...,v1=..." signature.
const SignatureHeader = "Stripe-Signature"

// VerifyStripeWebhookSignature authenticates payload against the endpoint
// secret and decodes it. Every failure, including a malformed body, yields
// ErrSignatureInvalid.
func VerifyStripeWebhookSignature(payload []byte, signatureHeader, webhookSecret string) (ev *TrustedEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			ev, err = nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, r)
		}
		if err != nil {
			fiberlog.Warnf("[Billing] stripe webhook rejected: %v", err)
		}
	}()

	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if sig == "" {
		return nil, fmt.Errorf("%w: missing %s header", ErrSignatureInvalid, SignatureHeader)
	}
	if secret == "" {
		return nil, fmt.Errorf("%w: webhook secret is not configured", ErrSignatureInvalid)
	}

	event, err := webhook.ConstructEventWithOptions(payload, sig, secret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	if strings.TrimSpace(event.ID) == "" || strings.TrimSpace(string(event.Type)) == "" || event.Data == nil {
		return nil, fmt.Errorf("%w: event is missing id, type or data", ErrSignatureInvalid)
	}

	return &TrustedEvent{
		id:        event.ID,
		eventType: string(event.Type),
		payload:   event.Data.Raw,
	}, nil
}
