package billing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ManuelReschke/CourseFox/app/models"
)

// Stripe event types handled by the webhook. Everything else is acknowledged
// without side effects.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventSubscriptionCreated      = "customer.subscription.created"
	EventSubscriptionUpdated      = "customer.subscription.updated"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
)

// Checkout session metadata keys set when the session is created.
const (
	MetadataCourseID = "courseId"
	MetadataTitle    = "title"
	MetadataImageURL = "imageUrl"
)

// TrustedEvent is a provider event whose signature has been verified. It can
// only be obtained from VerifyStripeWebhookSignature.
type TrustedEvent struct {
	id        string
	eventType string
	payload   json.RawMessage
}

func (e *TrustedEvent) ID() string               { return e.id }
func (e *TrustedEvent) Type() string             { return e.eventType }
func (e *TrustedEvent) Payload() json.RawMessage { return e.payload }

// NormalizedSubscription is the provider-agnostic shape written to the store
// when a subscription is created or updated.
type NormalizedSubscription struct {
	UserID                 uint
	ProviderSubscriptionID string
	Status                 string
	PlanType               string
	CurrentPeriodStart     *time.Time
	CurrentPeriodEnd       *time.Time
	CancelAtPeriodEnd      bool
}

// Store is the persistence contract the webhook relies on. Implementations
// must enforce uniqueness of purchase references and subscription ids; the
// webhook itself keeps no state between deliveries.
type Store interface {
	// LookupUserByBillingCustomerID returns ErrUserNotFound when no user is
	// linked to the customer.
	LookupUserByBillingCustomerID(ctx context.Context, customerID string) (*models.User, error)
	// CreatePurchase returns ErrDuplicatePurchase when externalPurchaseID exists.
	CreatePurchase(ctx context.Context, userID uint, courseID string, amount int64, externalPurchaseID string) error
	UpsertSubscription(ctx context.Context, sub NormalizedSubscription) error
	// RemoveSubscription succeeds when no subscription matches.
	RemoveSubscription(ctx context.Context, providerSubscriptionID string) error
}

// Notifier delivers an HTML email.
type Notifier interface {
	Send(ctx context.Context, from, to, subject, htmlBody string) error
}
