package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"
)

// PostmarkAPI is the part of *postmark.Client used for delivery.
type PostmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

type postmarkClient struct {
	api    PostmarkAPI
	sender string
}

// NewPostmarkClient creates a Postmark-backed email sender.
// Both tokens and a valid sender address are required.
func NewPostmarkClient(cfg Config) (EmailSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	return NewPostmarkClientWithAPI(
		postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		cfg.SenderEmail,
	)
}

// NewPostmarkClientWithAPI wraps an existing Postmark API client.
func NewPostmarkClientWithAPI(api PostmarkAPI, sender string) (EmailSender, error) {
	if api == nil {
		return nil, fmt.Errorf("%w: postmark client is nil", ErrInvalidConfig)
	}
	if sender == "" {
		return nil, fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	}
	if !emailRegex.MatchString(sender) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	return &postmarkClient{api: api, sender: sender}, nil
}

// MustNewPostmarkClient creates a Postmark client that panics on invalid config.
func MustNewPostmarkClient(cfg Config) EmailSender {
	client, err := NewPostmarkClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// SendEmail implements EmailSender using Postmark's transactional API.
// Notifications are operational mail, so open and link tracking stay off.
func (c *postmarkClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	resp, err := c.api.SendEmail(ctx, postmark.Email{
		From:     c.sender,
		To:       strings.Join(params.Recipients(), ","),
		Subject:  params.Subject,
		Tag:      params.Tag,
		TextBody: params.BodyText,
		HTMLBody: params.BodyHTML,
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}
