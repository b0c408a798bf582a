package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/CourseFox/app/models"
)

const testSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header for payload.
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.", ts.Unix())))
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func eventJSON(t *testing.T, id, eventType string, object map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":     id,
		"object": "event",
		"type":   eventType,
		"data":   map[string]any{"object": object},
	})
	require.NoError(t, err)
	return raw
}

func checkoutSession(id, customer string, metadata map[string]string) map[string]any {
	obj := map[string]any{
		"id":           id,
		"object":       "checkout.session",
		"amount_total": 1999,
		"currency":     "eur",
		"metadata":     metadata,
	}
	if customer != "" {
		obj["customer"] = customer
	}
	return obj
}

func subscriptionObject(id, customer, status, latestInvoice, interval string) map[string]any {
	obj := map[string]any{
		"id":                   id,
		"object":               "subscription",
		"customer":             customer,
		"status":               status,
		"current_period_start": 1767225600, // 2026-01-01
		"current_period_end":   1798761600, // 2027-01-01
		"cancel_at_period_end": false,
		"items": map[string]any{
			"object": "list",
			"data": []any{
				map[string]any{
					"id":     "si_1",
					"object": "subscription_item",
					"price": map[string]any{
						"id":        "price_1",
						"object":    "price",
						"recurring": map[string]any{"interval": interval},
					},
				},
			},
		},
	}
	if latestInvoice != "" {
		obj["latest_invoice"] = latestInvoice
	}
	return obj
}

type purchaseCall struct {
	UserID     uint
	CourseID   string
	Amount     int64
	ExternalID string
}

// fakeStore enforces purchase-reference uniqueness like the real store.
type fakeStore struct {
	users     map[string]*models.User
	lookupErr error
	lookups   int

	purchases []purchaseCall
	createErr error

	upserts   []NormalizedSubscription
	upsertErr error

	removals  []string
	removeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*models.User{
		"cus_1": {ID: 1, Name: "Ada", Email: "a@b.com"},
	}}
}

func (s *fakeStore) LookupUserByBillingCustomerID(_ context.Context, customerID string) (*models.User, error) {
	s.lookups++
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	u, ok := s.users[customerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, customerID)
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) CreatePurchase(_ context.Context, userID uint, courseID string, amount int64, externalID string) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, p := range s.purchases {
		if p.ExternalID == externalID {
			return fmt.Errorf("%w: %s", ErrDuplicatePurchase, externalID)
		}
	}
	s.purchases = append(s.purchases, purchaseCall{UserID: userID, CourseID: courseID, Amount: amount, ExternalID: externalID})
	return nil
}

func (s *fakeStore) UpsertSubscription(_ context.Context, sub NormalizedSubscription) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts = append(s.upserts, sub)
	return nil
}

func (s *fakeStore) RemoveSubscription(_ context.Context, id string) error {
	s.removals = append(s.removals, id)
	return s.removeErr
}

func (s *fakeStore) mutations() int {
	return len(s.purchases) + len(s.upserts) + len(s.removals)
}

type sentMail struct {
	From, To, Subject, Body string
}

type fakeNotifier struct {
	sent []sentMail
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, from, to, subject, body string) error {
	n.sent = append(n.sent, sentMail{From: from, To: to, Subject: subject, Body: body})
	return n.err
}

func testConfig(mode NotifyMode, dev bool) Config {
	return Config{
		WebhookSecret: testSecret,
		AppBaseURL:    "https://courses.example.com",
		MailFrom:      "no-reply@courses.example.com",
		NotifyMode:    mode,
		DevMode:       dev,
	}
}
