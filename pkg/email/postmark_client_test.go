package email_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataguard/pkg/email"
)

type MockPostmarkAPI struct {
	mock.Mock
}

func (m *MockPostmarkAPI) SendEmail(ctx context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(postmark.EmailResponse), args.Error(1)
}

func TestNewPostmarkClient_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config email.Config
		errMsg string
	}{
		{
			name:   "empty server token",
			config: email.Config{PostmarkAccountToken: "a", SenderEmail: "dq@example.com"},
			errMsg: "PostmarkServerToken is required",
		},
		{
			name:   "empty account token",
			config: email.Config{PostmarkServerToken: "s", SenderEmail: "dq@example.com"},
			errMsg: "PostmarkAccountToken is required",
		},
		{
			name:   "missing sender",
			config: email.Config{PostmarkServerToken: "s", PostmarkAccountToken: "a"},
			errMsg: "SenderEmail is required",
		},
		{
			name:   "invalid sender",
			config: email.Config{PostmarkServerToken: "s", PostmarkAccountToken: "a", SenderEmail: "nope"},
			errMsg: "SenderEmail must be a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := email.NewPostmarkClient(tt.config)
			require.Error(t, err)
			assert.Nil(t, client)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewPostmarkClient_Valid(t *testing.T) {
	t.Parallel()

	client, err := email.NewPostmarkClient(email.Config{
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
		SenderEmail:          "dataguard@example.com",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestMustNewPostmarkClient_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { email.MustNewPostmarkClient(email.Config{}) })
}

func TestPostmarkClient_SendEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	params := email.SendEmailParams{
		SendTo:   "a@example.com, b@example.com",
		Subject:  "Run failed",
		BodyText: "body",
		Tag:      "dataguard-run",
	}

	t.Run("delivers", func(t *testing.T) {
		t.Parallel()

		api := &MockPostmarkAPI{}
		api.On("SendEmail", ctx, postmark.Email{
			From:     "dq@example.com",
			To:       "a@example.com,b@example.com",
			Subject:  "Run failed",
			Tag:      "dataguard-run",
			TextBody: "body",
		}).Return(postmark.EmailResponse{}, nil).Once()

		client, err := email.NewPostmarkClientWithAPI(api, "dq@example.com")
		require.NoError(t, err)
		require.NoError(t, client.SendEmail(ctx, params))
		api.AssertExpectations(t)
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()

		api := &MockPostmarkAPI{}
		api.On("SendEmail", ctx, mock.Anything).Return(postmark.EmailResponse{}, errors.New("dial tcp")).Once()

		client, err := email.NewPostmarkClientWithAPI(api, "dq@example.com")
		require.NoError(t, err)
		err = client.SendEmail(ctx, params)
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "dial tcp")
	})

	t.Run("api error code", func(t *testing.T) {
		t.Parallel()

		api := &MockPostmarkAPI{}
		api.On("SendEmail", ctx, mock.Anything).
			Return(postmark.EmailResponse{ErrorCode: 406, Message: "inactive recipient"}, nil).Once()

		client, err := email.NewPostmarkClientWithAPI(api, "dq@example.com")
		require.NoError(t, err)
		err = client.SendEmail(ctx, params)
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "406 - inactive recipient")
	})

	t.Run("invalid params never reach the api", func(t *testing.T) {
		t.Parallel()

		api := &MockPostmarkAPI{}
		client, err := email.NewPostmarkClientWithAPI(api, "dq@example.com")
		require.NoError(t, err)
		err = client.SendEmail(ctx, email.SendEmailParams{SendTo: "a@example.com"})
		assert.ErrorIs(t, err, email.ErrInvalidParams)
		api.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})
}
