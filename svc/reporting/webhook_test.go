package reporting_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dataguard/pkg/quality"
	"github.com/dmitrymomot/dataguard/pkg/webhook"
	"github.com/dmitrymomot/dataguard/svc/reporting"
)

type MockEventSender struct {
	mock.Mock
}

func (m *MockEventSender) Send(ctx context.Context, event any) error {
	return m.Called(ctx, event).Error(0)
}

func TestNewRunEvent(t *testing.T) {
	t.Parallel()

	ev := reporting.NewRunEvent(failedReport())
	assert.Equal(t, reporting.EventRunFailed, ev.Type)
	assert.Equal(t, runID, ev.RunID)
	assert.Equal(t, []quality.RuleID{quality.RuleDuplicateEmails}, ev.Failed)

	assert.Equal(t, reporting.EventRunWarned, reporting.NewRunEvent(warnedReport()).Type)
	assert.Equal(t, reporting.EventRunPassed, reporting.NewRunEvent(passedReport()).Type)
}

func TestWebhookSink_Store(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("only failures skips passed runs", func(t *testing.T) {
		t.Parallel()

		sender := &MockEventSender{}
		sink := reporting.NewWebhookSink(sender, true)
		require.NoError(t, sink.Store(ctx, passedReport()))
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("passed runs posted by default", func(t *testing.T) {
		t.Parallel()

		sender := &MockEventSender{}
		sender.On("Send", ctx, reporting.NewRunEvent(passedReport())).Return(nil).Once()
		require.NoError(t, reporting.NewWebhookSink(sender, false).Store(ctx, passedReport()))
		sender.AssertExpectations(t)
	})

	t.Run("send error wrapped", func(t *testing.T) {
		t.Parallel()

		sender := &MockEventSender{}
		sender.On("Send", ctx, mock.Anything).Return(errors.New("endpoint down")).Once()
		err := reporting.NewWebhookSink(sender, false).Store(ctx, failedReport())
		assert.ErrorIs(t, err, reporting.ErrPublishEvent)
		assert.ErrorContains(t, err, "endpoint down")
	})

	t.Run("nil report", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, reporting.NewWebhookSink(&MockEventSender{}, false).Store(ctx, nil), reporting.ErrNilReport)
	})
}

func TestWebhookSink_SignedDelivery(t *testing.T) {
	t.Parallel()

	const secret = "hook-secret"
	received := make(chan reporting.RunEvent, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		sig, err := webhook.SignatureFromHeader(r.Header)
		require.NoError(t, err)
		if err := webhook.Verify(secret, body, sig, 0, startedAt); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var ev reporting.RunEvent
		require.NoError(t, json.Unmarshal(body, &ev))
		received <- ev
	}))
	defer srv.Close()

	sender, err := webhook.NewSender(webhook.Config{URL: srv.URL, Secret: secret})
	require.NoError(t, err)

	require.NoError(t, reporting.NewWebhookSink(sender, true).Store(context.Background(), failedReport()))
	ev := <-received
	assert.Equal(t, reporting.EventRunFailed, ev.Type)
	assert.Equal(t, runID, ev.RunID)
	assert.Equal(t, 1, ev.Summary.Failed)
}
