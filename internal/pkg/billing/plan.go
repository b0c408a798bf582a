package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/CourseFox/app/models"
	"github.com/stripe/stripe-go/v79"
)

// planTypeOf derives month|year from the first subscription item.
func planTypeOf(sub *stripe.Subscription) string {
	interval := ""
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0] != nil {
		item := sub.Items.Data[0]
		if item.Price != nil && item.Price.Recurring != nil {
			interval = string(item.Price.Recurring.Interval)
		}
		if interval == "" && item.Plan != nil {
			interval = string(item.Plan.Interval)
		}
	}
	return normalizeInterval(interval)
}

func normalizeInterval(interval string) string {
	switch strings.ToLower(strings.TrimSpace(interval)) {
	case models.BillingIntervalYear:
		return models.BillingIntervalYear
	default:
		return models.BillingIntervalMonth
	}
}

func unixTime(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}

// formatAmount renders minor units, e.g. 1999 "eur" -> "19.99 EUR".
func formatAmount(amount int64, currency string) string {
	cur := strings.ToUpper(strings.TrimSpace(currency))
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
	if cur == "" {
		return s
	}
	return s + " " + cur
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
