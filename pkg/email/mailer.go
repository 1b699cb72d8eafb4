package email

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// EmailSender represents an interface for sending emails.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents the parameters for sending an email.
// At least one of BodyText and BodyHTML must be set.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`             // Comma-separated recipient addresses
	Subject  string `json:"subject"`             // Subject of the email
	BodyText string `json:"body_text,omitempty"` // Plain text body
	BodyHTML string `json:"body_html,omitempty"` // HTML body
	Tag      string `json:"tag,omitempty"`       // Optional
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Recipients splits SendTo into trimmed addresses.
func (p SendEmailParams) Recipients() []string {
	var out []string
	for addr := range strings.SplitSeq(p.SendTo, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// Validate checks the params before any provider is called.
func (p SendEmailParams) Validate() error {
	recipients := p.Recipients()
	if len(recipients) == 0 {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	for _, addr := range recipients {
		if !emailRegex.MatchString(addr) {
			return fmt.Errorf("%w: SendTo must be a valid email address: %q", ErrInvalidParams, addr)
		}
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	if strings.TrimSpace(p.BodyText) == "" && strings.TrimSpace(p.BodyHTML) == "" {
		return fmt.Errorf("%w: BodyText or BodyHTML is required", ErrInvalidParams)
	}
	return nil
}
