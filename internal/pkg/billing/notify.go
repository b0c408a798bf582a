package billing

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

func (p *Processor) sendPurchaseConfirmation(ctx context.Context, to string, v purchaseView) error {
	return p.send(ctx, to, "Your course is ready: "+v.CourseTitle, purchaseConfirmationEmail(v))
}

func (p *Processor) sendSubscriptionConfirmation(ctx context.Context, to string, v subscriptionView) error {
	return p.send(ctx, to, "Your subscription is active", subscriptionConfirmationEmail(v))
}

func (p *Processor) send(ctx context.Context, to, subject string, body templ.Component) error {
	if p.notifier == nil {
		fiberlog.Warnf("[Billing] no notifier configured, not sending %q", subject)
		return nil
	}
	if strings.TrimSpace(to) == "" {
		fiberlog.Warnf("[Billing] recipient has no email address, not sending %q", subject)
		return nil
	}

	var buf bytes.Buffer
	if err := body.Render(ctx, &buf); err != nil {
		return err
	}
	return p.notifier.Send(ctx, p.cfg.MailFrom, to, subject, buf.String())
}

func (p *Processor) courseURL(courseID string) string {
	return p.cfg.AppBaseURL + "/courses/" + url.PathEscape(courseID)
}

func (p *Processor) accountURL() string {
	return p.cfg.AppBaseURL + "/account/billing"
}
