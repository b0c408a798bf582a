package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/stripe/stripe-go/v79"

	"github.com/ManuelReschke/CourseFox/app/models"
)

// handleCheckoutCompleted records the course purchase for a completed
// checkout session. Every failure aborts the request.
func (p *Processor) handleCheckoutCompleted(ctx context.Context, ev *TrustedEvent) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(ev.Payload(), &session); err != nil {
		return fmt.Errorf("%w: checkout session: %v", ErrInvalidPayload, err)
	}

	courseID := strings.TrimSpace(session.Metadata[MetadataCourseID])
	if courseID == "" {
		return fmt.Errorf("%w: metadata.%s", ErrMissingRequiredField, MetadataCourseID)
	}
	customerID := customerIDOf(session.Customer)
	if customerID == "" {
		return fmt.Errorf("%w: customer", ErrMissingRequiredField)
	}
	purchaseRef := strings.TrimSpace(session.ID)
	if purchaseRef == "" {
		return fmt.Errorf("%w: id", ErrMissingRequiredField)
	}

	user, err := p.lookupUser(ctx, customerID)
	if err != nil {
		return err
	}

	err = p.store.CreatePurchase(ctx, user.ID, courseID, session.AmountTotal, purchaseRef)
	if errors.Is(err, ErrDuplicatePurchase) {
		fiberlog.Infof("[Billing] event %s: purchase %s already recorded, skipping", ev.ID(), purchaseRef)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create purchase %s: %w", purchaseRef, err)
	}
	fiberlog.Infof("[Billing] event %s: recorded purchase %s (user=%d course=%s amount=%d)",
		ev.ID(), purchaseRef, user.ID, courseID, session.AmountTotal)

	title := strings.TrimSpace(session.Metadata[MetadataTitle])
	if title == "" || !p.cfg.ShouldNotify() {
		return nil
	}
	return p.sendPurchaseConfirmation(ctx, user.Email, purchaseView{
		CourseTitle: title,
		ImageURL:    strings.TrimSpace(session.Metadata[MetadataImageURL]),
		CourseURL:   p.courseURL(courseID),
		Amount:      formatAmount(session.AmountTotal, string(session.Currency)),
	})
}

func (p *Processor) lookupUser(ctx context.Context, customerID string) (*models.User, error) {
	user, err := p.store.LookupUserByBillingCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("lookup customer %s: %w", customerID, err)
	}
	if user == nil || user.ID == 0 {
		return nil, fmt.Errorf("lookup customer %s: %w", customerID, ErrUserNotFound)
	}
	return user, nil
}

func customerIDOf(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.ID)
}
