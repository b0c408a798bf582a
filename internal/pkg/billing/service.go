package billing

import (
	"context"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// Processor verifies and reconciles one provider event per call. It holds no
// mutable state, so a single instance serves all requests.
type Processor struct {
	store    Store
	notifier Notifier
	cfg      Config
}

// NewProcessor wires the store and notifier. notifier may be nil, in which
// case confirmations are skipped.
func NewProcessor(store Store, notifier Notifier, cfg Config) *Processor {
	return &Processor{store: store, notifier: notifier, cfg: cfg}
}

// Process verifies the raw request and dispatches the resulting event.
// Verification failures wrap ErrSignatureInvalid.
func (p *Processor) Process(ctx context.Context, payload []byte, signatureHeader string) error {
	ev, err := VerifyStripeWebhookSignature(payload, signatureHeader, p.cfg.WebhookSecret)
	if err != nil {
		return err
	}
	return p.Dispatch(ctx, ev)
}

// Dispatch routes a verified event to its handler. Unknown types are
// acknowledged.
func (p *Processor) Dispatch(ctx context.Context, ev *TrustedEvent) error {
	switch ev.Type() {
	case EventCheckoutSessionCompleted:
		return p.handleCheckoutCompleted(ctx, ev)
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		return p.handleSubscriptionUpsert(ctx, ev)
	case EventSubscriptionDeleted:
		return p.handleSubscriptionDeleted(ctx, ev)
	default:
		fiberlog.Infof("[Billing] event %s: unhandled type %s", ev.ID(), ev.Type())
		return nil
	}
}
