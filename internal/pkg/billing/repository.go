package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ManuelReschke/CourseFox/app/models"
)

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing store backed by GORM.
func NewRepository(db *gorm.DB) Store {
	return &gormRepository{db: db}
}

func (r *gormRepository) LookupUserByBillingCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	id := strings.TrimSpace(customerID)
	if id == "" {
		return nil, fmt.Errorf("%w: empty customer id", ErrUserNotFound)
	}

	var user models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN billing_accounts ON billing_accounts.user_id = users.id").
		Where("billing_accounts.provider = ? AND billing_accounts.provider_account_id = ?", models.BillingProviderStripe, id).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) CreatePurchase(ctx context.Context, userID uint, courseID string, amount int64, externalPurchaseID string) error {
	purchase := &models.Purchase{
		UserID:             userID,
		CourseID:           strings.TrimSpace(courseID),
		Amount:             amount,
		ExternalPurchaseID: strings.TrimSpace(externalPurchaseID),
	}
	if err := purchase.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_purchase_id"}},
		DoNothing: true,
	}).Create(purchase)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrDuplicatePurchase, purchase.ExternalPurchaseID)
	}
	return nil
}

func (r *gormRepository) UpsertSubscription(ctx context.Context, in NormalizedSubscription) error {
	sub := &models.BillingSubscription{
		UserID:                 in.UserID,
		ProviderSubscriptionID: strings.TrimSpace(in.ProviderSubscriptionID),
		Status:                 strings.ToLower(strings.TrimSpace(in.Status)),
		PlanType:               normalizeInterval(in.PlanType),
		CurrentPeriodStart:     in.CurrentPeriodStart,
		CurrentPeriodEnd:       in.CurrentPeriodEnd,
		CancelAtPeriodEnd:      in.CancelAtPeriodEnd,
	}
	if err := sub.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "provider_subscription_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id",
			"status",
			"plan_type",
			"current_period_start",
			"current_period_end",
			"cancel_at_period_end",
			"updated_at",
		}),
	}).Create(sub).Error
}

func (r *gormRepository) RemoveSubscription(ctx context.Context, providerSubscriptionID string) error {
	id := strings.TrimSpace(providerSubscriptionID)
	if id == "" {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("provider_subscription_id = ?", id).
		Delete(&models.BillingSubscription{}).Error
}
