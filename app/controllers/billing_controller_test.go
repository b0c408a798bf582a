package controllers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/CourseFox/app/models"
	"github.com/ManuelReschke/CourseFox/internal/pkg/billing"
)

const testWebhookSecret = "whsec_controller_test"

type recordingStore struct {
	purchases []string
	upserts   []string
	removals  []string
	upsertErr error
}

func (s *recordingStore) LookupUserByBillingCustomerID(_ context.Context, customerID string) (*models.User, error) {
	if customerID != "cus_1" {
		return nil, billing.ErrUserNotFound
	}
	return &models.User{ID: 1, Email: "a@b.com"}, nil
}

func (s *recordingStore) CreatePurchase(_ context.Context, userID uint, courseID string, amount int64, ref string) error {
	s.purchases = append(s.purchases, fmt.Sprintf("%d/%s/%d/%s", userID, courseID, amount, ref))
	return nil
}

func (s *recordingStore) UpsertSubscription(_ context.Context, sub billing.NormalizedSubscription) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts = append(s.upserts, sub.ProviderSubscriptionID)
	return nil
}

func (s *recordingStore) RemoveSubscription(_ context.Context, id string) error {
	s.removals = append(s.removals, id)
	return nil
}

func newWebhookApp(t *testing.T, store billing.Store) *fiber.App {
	t.Helper()
	prev := billingProcessor
	t.Cleanup(func() { billingProcessor = prev })

	InitializeBillingController(billing.NewProcessor(store, nil, billing.Config{
		WebhookSecret: testWebhookSecret,
		MailFrom:      "no-reply@localhost",
		NotifyMode:    billing.NotifyNever,
	}))

	app := fiber.New()
	app.Post("/webhooks/stripe", HandleStripeWebhook)
	return app
}

func signedRequest(payload []byte, secret string) *http.Request {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.", ts)))
	mac.Write(payload)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(billing.SignatureHeader, fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

const checkoutPayload = `{"id":"evt_100","object":"event","type":"checkout.session.completed","data":{"object":{"id":"evt_1","object":"checkout.session","customer":"cus_1","amount_total":1999,"currency":"eur","metadata":{"courseId":"c1"}}}}`

func TestHandleStripeWebhook_Success(t *testing.T) {
	store := &recordingStore{}
	app := newWebhookApp(t, store)

	status, body := doRequest(t, app, signedRequest([]byte(checkoutPayload), testWebhookSecret))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body)
	assert.Equal(t, []string{"1/c1/1999/evt_1"}, store.purchases)
}

func TestHandleStripeWebhook_InvalidSignature(t *testing.T) {
	store := &recordingStore{}
	app := newWebhookApp(t, store)

	status, body := doRequest(t, app, signedRequest([]byte(checkoutPayload), "whsec_wrong"))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, msgSignatureInvalid, body)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader([]byte(checkoutPayload)))
	status, body = doRequest(t, app, req)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, msgSignatureInvalid, body)

	assert.Empty(t, store.purchases)
}

func TestHandleStripeWebhook_HandlerFailure(t *testing.T) {
	store := &recordingStore{}
	app := newWebhookApp(t, store)

	payload := `{"id":"evt_101","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_2","object":"checkout.session","customer":"cus_1","metadata":{}}}}`
	status, body := doRequest(t, app, signedRequest([]byte(payload), testWebhookSecret))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, msgHandlerFailed, body)
	assert.Empty(t, store.purchases)
}

func TestHandleStripeWebhook_ContainedFailuresStillSucceed(t *testing.T) {
	store := &recordingStore{upsertErr: errors.New("db unavailable")}
	app := newWebhookApp(t, store)

	upsert := `{"id":"evt_102","object":"event","type":"customer.subscription.updated","data":{"object":{"id":"sub_1","object":"subscription","customer":"cus_1","status":"active","latest_invoice":"in_1"}}}`
	status, _ := doRequest(t, app, signedRequest([]byte(upsert), testWebhookSecret))
	assert.Equal(t, fiber.StatusOK, status)

	deleted := `{"id":"evt_103","object":"event","type":"customer.subscription.deleted","data":{"object":{"id":"sub_unknown","object":"subscription","customer":"cus_1","status":"canceled"}}}`
	status, _ = doRequest(t, app, signedRequest([]byte(deleted), testWebhookSecret))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []string{"sub_unknown"}, store.removals)

	unknown := `{"id":"evt_104","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_1","object":"charge"}}}`
	status, body := doRequest(t, app, signedRequest([]byte(unknown), testWebhookSecret))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body)
}

func TestHandleStripeWebhook_NotInitialized(t *testing.T) {
	prev := billingProcessor
	billingProcessor = nil
	t.Cleanup(func() { billingProcessor = prev })

	app := fiber.New()
	app.Post("/webhooks/stripe", HandleStripeWebhook)

	status, body := doRequest(t, app, signedRequest([]byte(checkoutPayload), testWebhookSecret))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, msgHandlerFailed, body)
}
