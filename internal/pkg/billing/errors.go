package billing

import "errors"

var (
	// ErrSignatureInvalid is returned for any payload that could not be
	// authenticated against the webhook secret. Nothing downstream runs.
	ErrSignatureInvalid = errors.New("webhook signature invalid")

	ErrMissingRequiredField = errors.New("missing required field")
	ErrUserNotFound         = errors.New("no user linked to billing customer")
	ErrInvalidPayload       = errors.New("invalid event payload")

	// ErrDuplicatePurchase is returned by Store.CreatePurchase when the
	// external purchase reference has already been recorded.
	ErrDuplicatePurchase = errors.New("purchase already recorded")
)
