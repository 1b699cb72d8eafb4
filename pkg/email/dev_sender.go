package email

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender writes each message as an .eml file into a directory instead of
// delivering it, so failure notifications can be inspected locally.
type DevSender struct {
	dir  string
	from string
	now  func() time.Time
}

// NewDevSender returns a sender that stores messages under dir, creating it
// on first use.
func NewDevSender(dir, from string) *DevSender {
	return &DevSender{dir: dir, from: from, now: time.Now}
}

// SendEmail writes <yyyymmdd-hhmmss>_<tag or subject>.eml.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
	}

	now := d.now()
	msg, err := d.message(params, now)
	if err != nil {
		return fmt.Errorf("%w: build message: %w", ErrFailedToSendEmail, err)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create mailbox dir: %w", ErrFailedToSendEmail, err)
	}
	name := cmpOr(params.Tag, params.Subject)
	path := filepath.Join(d.dir, now.UTC().Format("20060102-150405")+"_"+slug(name)+".eml")
	if err := os.WriteFile(path, msg, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrFailedToSendEmail, filepath.Base(path), err)
	}
	return nil
}

func (d *DevSender) message(p SendEmailParams, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&buf, "%s: %s\r\n", k, v) }

	if d.from != "" {
		header("From", d.from)
	}
	header("To", strings.Join(p.Recipients(), ", "))
	header("Subject", p.Subject)
	header("Date", now.Format(time.RFC1123Z))
	if p.Tag != "" {
		header("X-Tag", p.Tag)
	}
	header("MIME-Version", "1.0")

	if p.BodyHTML == "" {
		header("Content-Type", "text/plain; charset=utf-8")
		buf.WriteString("\r\n")
		buf.WriteString(p.BodyText)
		return buf.Bytes(), nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header("Content-Type", "multipart/alternative; boundary="+mw.Boundary())
	buf.WriteString("\r\n")

	parts := []struct{ ctype, content string }{
		{"text/plain; charset=utf-8", p.BodyText},
		{"text/html; charset=utf-8", p.BodyHTML},
	}
	for _, part := range parts {
		if part.content == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.ctype}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	buf.Write(body.Bytes())
	return buf.Bytes(), nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// slug turns a subject into a short file-name-safe token.
func slug(s string) string {
	s = unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "_")
	s = strings.Trim(s, "_")
	if len(s) > 80 {
		s = s[:80]
	}
	if s == "" {
		return "message"
	}
	return s
}

func cmpOr(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
