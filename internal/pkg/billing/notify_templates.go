package billing

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

type purchaseView struct {
	CourseTitle string
	ImageURL    string
	CourseURL   string
	Amount      string
}

type subscriptionView struct {
	PlanType          string
	PeriodEnd         string
	CancelAtPeriodEnd bool
	AccountURL        string
}

func purchaseConfirmationEmail(v purchaseView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		e := &htmlWriter{w: w}
		e.raw(`<html><body style="font-family:sans-serif">`)
		e.raw(`<h1>Thank you for your purchase!</h1>`)
		e.raw(`<p>You now have access to <strong>`)
		e.text(v.CourseTitle)
		e.raw(`</strong>.</p>`)
		if v.ImageURL != "" {
			e.raw(`<p><img src="`)
			e.url(v.ImageURL)
			e.raw(`" alt="`)
			e.text(v.CourseTitle)
			e.raw(`" style="max-width:480px"></p>`)
		}
		if v.Amount != "" {
			e.raw(`<p>Amount charged: `)
			e.text(v.Amount)
			e.raw(`</p>`)
		}
		e.raw(`<p><a href="`)
		e.url(v.CourseURL)
		e.raw(`">Start learning</a></p>`)
		e.raw(`</body></html>`)
		return e.err
	})
}

func subscriptionConfirmationEmail(v subscriptionView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		e := &htmlWriter{w: w}
		e.raw(`<html><body style="font-family:sans-serif">`)
		e.raw(`<h1>Your subscription is active</h1>`)
		e.raw(`<p>Billing interval: `)
		e.text(v.PlanType)
		e.raw(`</p>`)
		if v.PeriodEnd != "" {
			if v.CancelAtPeriodEnd {
				e.raw(`<p>Your subscription ends on `)
			} else {
				e.raw(`<p>Next renewal: `)
			}
			e.text(v.PeriodEnd)
			e.raw(`</p>`)
		}
		e.raw(`<p><a href="`)
		e.url(v.AccountURL)
		e.raw(`">Manage your subscription</a></p>`)
		e.raw(`</body></html>`)
		return e.err
	})
}

// htmlWriter keeps the first write error so the templates stay linear.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) url(s string) {
	h.raw(templ.EscapeString(string(templ.URL(s))))
}
