package reporting_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataguard/pkg/email"
	"github.com/dmitrymomot/dataguard/pkg/quality"
	"github.com/dmitrymomot/dataguard/svc/reporting"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

func TestNotifier_Store(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := email.Config{Recipients: []string{"oncall@example.com", "data@example.com"}}

	t.Run("failed run is mailed", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		var sent email.SendEmailParams
		sender.On("SendEmail", ctx, mock.Anything).
			Run(func(args mock.Arguments) { sent = args.Get(1).(email.SendEmailParams) }).
			Return(nil).Once()

		require.NoError(t, reporting.NewNotifier(sender, cfg).Store(ctx, failedReport()))
		sender.AssertExpectations(t)

		assert.Equal(t, "oncall@example.com,data@example.com", sent.SendTo)
		assert.Equal(t, "[dataguard] run 6f1c2a4e failed: 1 of 3 rules failed, 1 critical", sent.Subject)
		assert.Equal(t, reporting.NotificationTag, sent.Tag)
		assert.Contains(t, sent.BodyText, "duplicate_emails")
		assert.Contains(t, sent.BodyText, "Result: FAILED")
	})

	t.Run("passed run is not mailed", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		require.NoError(t, reporting.NewNotifier(sender, cfg).Store(ctx, passedReport()))
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("warned run depends on config", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		require.NoError(t, reporting.NewNotifier(sender, cfg).Store(ctx, warnedReport()))
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)

		sender.On("SendEmail", ctx, mock.Anything).Return(nil).Once()
		onWarning := cfg
		onWarning.NotifyOnWarning = true
		require.NoError(t, reporting.NewNotifier(sender, onWarning).Store(ctx, warnedReport()))
		sender.AssertExpectations(t)
	})

	t.Run("no recipients", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		require.NoError(t, reporting.NewNotifier(sender, email.Config{}).Store(ctx, failedReport()))
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("send failure", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		sender.On("SendEmail", ctx, mock.Anything).Return(email.ErrFailedToSendEmail).Once()

		err := reporting.NewNotifier(sender, cfg).Store(ctx, failedReport())
		assert.ErrorIs(t, err, reporting.ErrNotify)
		assert.True(t, errors.Is(err, email.ErrFailedToSendEmail))
	})
}

func TestNotifier_ShouldNotify(t *testing.T) {
	t.Parallel()

	n := reporting.NewNotifier(&MockEmailSender{}, email.Config{})
	tests := []struct {
		status quality.Status
		want   bool
	}{
		{quality.StatusPassed, false},
		{quality.StatusWarned, false},
		{quality.StatusFailed, true},
	}
	for _, tt := range tests {
		r := &quality.Report{Summary: quality.Summary{Status: tt.status}}
		assert.Equal(t, tt.want, n.ShouldNotify(r), tt.status)
	}
}
