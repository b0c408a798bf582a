package billing

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/CourseFox/internal/pkg/env"
)

// NotifyMode controls when confirmation emails are sent after reconciliation.
type NotifyMode string

const (
	// NotifyDevOnly sends confirmations only when APP_ENV=dev.
	NotifyDevOnly NotifyMode = "dev"
	NotifyAlways  NotifyMode = "always"
	NotifyNever   NotifyMode = "never"
)

// Config holds the webhook settings. It is read once at startup.
type Config struct {
	WebhookSecret string     `validate:"required"`
	AppBaseURL    string     `validate:"omitempty,url"`
	MailFrom      string     `validate:"required"`
	NotifyMode    NotifyMode `validate:"oneof=dev always never"`
	DevMode       bool
}

func ConfigFromEnv() (Config, error) {
	base := strings.TrimRight(strings.TrimSpace(env.GetEnv("PUBLIC_DOMAIN", "")), "/")
	from := strings.TrimSpace(env.GetEnv("SMTP_SENDER", ""))
	if from == "" {
		from = "no-reply@localhost"
	}

	cfg := Config{
		WebhookSecret: strings.TrimSpace(env.GetEnv("STRIPE_WEBHOOK_SECRET", "")),
		AppBaseURL:    base,
		MailFrom:      from,
		NotifyMode:    NotifyMode(strings.ToLower(strings.TrimSpace(env.GetEnv("BILLING_NOTIFY_MODE", string(NotifyDevOnly))))),
		DevMode:       env.IsDev(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid billing config: %w", err)
	}
	return nil
}

// ShouldNotify reports whether confirmation emails go out in this deployment.
func (c Config) ShouldNotify() bool {
	switch c.NotifyMode {
	case NotifyAlways:
		return true
	case NotifyNever:
		return false
	default:
		return c.DevMode
	}
}
