package reporting

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/dataguard/pkg/email"
	"github.com/dmitrymomot/dataguard/pkg/quality"
	"github.com/dmitrymomot/dataguard/pkg/report"
)

// NotificationTag labels outgoing run notifications.
const NotificationTag = "dataguard-run"

// Notifier emails the text report of failed runs.
// With onWarning set, warned runs are reported as well.
type Notifier struct {
	sender     email.EmailSender
	recipients []string
	onWarning  bool
}

func NewNotifier(sender email.EmailSender, cfg email.Config) *Notifier {
	return &Notifier{sender: sender, recipients: cfg.Recipients, onWarning: cfg.NotifyOnWarning}
}

// ShouldNotify reports whether r warrants a message.
func (n *Notifier) ShouldNotify(r *quality.Report) bool {
	switch r.Summary.Status {
	case quality.StatusFailed:
		return true
	case quality.StatusWarned:
		return n.onWarning
	default:
		return false
	}
}

// Subject returns the mail subject for r.
func Subject(r *quality.Report) string {
	return fmt.Sprintf("[dataguard] run %s %s: %d of %d rules failed, %d critical",
		r.RunID.String()[:8], r.Summary.Status, r.Summary.Failed, r.Summary.Total, r.Summary.Critical)
}

func (n *Notifier) Store(ctx context.Context, r *quality.Report) error {
	if r == nil {
		return ErrNilReport
	}
	if len(n.recipients) == 0 || !n.ShouldNotify(r) {
		return nil
	}

	var body bytes.Buffer
	if err := report.NewWriter(report.FormatText, &body).Write(r); err != nil {
		return errors.Join(ErrNotify, err)
	}

	if err := n.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   strings.Join(n.recipients, ","),
		Subject:  Subject(r),
		BodyText: body.String(),
		Tag:      NotificationTag,
	}); err != nil {
		return errors.Join(ErrNotify, err)
	}
	return nil
}
