package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v79"
)

// handleSubscriptionUpsert mirrors an active, invoiced subscription. Lookup
// failures abort the request; store and notification failures are logged
// and swallowed so the provider does not redeliver.
func (p *Processor) handleSubscriptionUpsert(ctx context.Context, ev *TrustedEvent) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(ev.Payload(), &sub); err != nil {
		return fmt.Errorf("%w: subscription: %v", ErrInvalidPayload, err)
	}

	if sub.Status != stripe.SubscriptionStatusActive || sub.LatestInvoice == nil || sub.LatestInvoice.ID == "" {
		fiberlog.Infof("[Billing] event %s (%s): skipping subscription %s (status=%s, invoiced=%t)",
			ev.ID(), ev.Type(), sub.ID, sub.Status, sub.LatestInvoice != nil && sub.LatestInvoice.ID != "")
		return nil
	}

	customerID := customerIDOf(sub.Customer)
	if customerID == "" {
		return fmt.Errorf("%w: customer", ErrMissingRequiredField)
	}
	user, err := p.lookupUser(ctx, customerID)
	if err != nil {
		return err
	}

	in := NormalizedSubscription{
		UserID:                 user.ID,
		ProviderSubscriptionID: strings.TrimSpace(sub.ID),
		Status:                 string(sub.Status),
		PlanType:               planTypeOf(&sub),
		CurrentPeriodStart:     unixTime(sub.CurrentPeriodStart),
		CurrentPeriodEnd:       unixTime(sub.CurrentPeriodEnd),
		CancelAtPeriodEnd:      sub.CancelAtPeriodEnd,
	}
	if err := p.store.UpsertSubscription(ctx, in); err != nil {
		fiberlog.Errorf("[Billing] event %s (%s): upsert subscription %s for user %d failed: %v",
			ev.ID(), ev.Type(), in.ProviderSubscriptionID, user.ID, err)
		return nil
	}
	fiberlog.Infof("[Billing] event %s (%s): synced subscription %s (user=%d plan=%s)",
		ev.ID(), ev.Type(), in.ProviderSubscriptionID, user.ID, in.PlanType)

	if !p.cfg.ShouldNotify() {
		return nil
	}
	if err := p.sendSubscriptionConfirmation(ctx, user.Email, subscriptionView{
		PlanType:          in.PlanType,
		PeriodEnd:         formatDate(in.CurrentPeriodEnd),
		CancelAtPeriodEnd: in.CancelAtPeriodEnd,
		AccountURL:        p.accountURL(),
	}); err != nil {
		fiberlog.Errorf("[Billing] event %s (%s): subscription confirmation for %s failed: %v",
			ev.ID(), ev.Type(), in.ProviderSubscriptionID, err)
	}
	return nil
}

// handleSubscriptionDeleted removes the mirrored subscription. It never fails
// the request.
func (p *Processor) handleSubscriptionDeleted(ctx context.Context, ev *TrustedEvent) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(ev.Payload(), &sub); err != nil {
		fiberlog.Errorf("[Billing] event %s: cannot decode deleted subscription: %v", ev.ID(), err)
		return nil
	}
	subID := strings.TrimSpace(sub.ID)
	if subID == "" {
		fiberlog.Errorf("[Billing] event %s: deleted subscription has no id", ev.ID())
		return nil
	}

	if err := p.store.RemoveSubscription(ctx, subID); err != nil {
		fiberlog.Errorf("[Billing] event %s: remove subscription %s failed: %v", ev.ID(), subID, err)
		return nil
	}
	fiberlog.Infof("[Billing] event %s: removed subscription %s", ev.ID(), subID)
	return nil
}
