package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"loan-ledger/internal/core/domain"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient implements HTTPClient for testing.
type mockHTTPClient struct {
	calls  int
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.calls++
	return m.doFunc(req)
}

func respond(status int) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(""))}
}

func newTestDeliverer(client HTTPClient, maxRetries uint64) *WebhookDeliverer {
	d := NewWebhookDeliverer("https://hooks.example.com/ledger", "whsec", time.Minute,
		NewHMACSignatureService(), client, newTestLogger())
	d.newBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, maxRetries)
	}
	d.now = func() time.Time { return time.Unix(1760000000, 0) }
	return d
}

func testNotification() domain.Notification {
	return domain.Notification{
		MemberID:    "M-1",
		TxnID:       "042117",
		Kind:        domain.KindPayment,
		Amount:      decimal.NewFromInt(500),
		Decision:    domain.DecisionApprove,
		SubmittedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		ResolvedAt:  time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestWebhookDeliverer_Deliver_SignsPayload(t *testing.T) {
	var captured *http.Request
	var body []byte
	client := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		captured = req
		body, _ = io.ReadAll(req.Body)
		return respond(http.StatusOK), nil
	}}
	d := newTestDeliverer(client, 3)

	require.NoError(t, d.Deliver(context.Background(), testNotification()))
	require.NotNil(t, captured)

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	header := captured.Header.Get(HeaderSignature)
	assert.True(t, strings.HasPrefix(header, "t=1760000000,v1="), header)

	sig := NewHMACSignatureService()
	assert.NoError(t, sig.VerifyNotification("whsec", header, body, time.Unix(1760000000, 0), 5*time.Minute))

	var payload NotificationPayload
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, EventResolved, payload.EventType)
	assert.Equal(t, "042117", payload.Data.TxnID)
	assert.True(t, payload.Data.Amount.Equal(decimal.NewFromInt(500)))
}

func TestWebhookDeliverer_Deliver_RetriesServerErrors(t *testing.T) {
	client := &mockHTTPClient{}
	client.doFunc = func(req *http.Request) (*http.Response, error) {
		if client.calls < 3 {
			return respond(http.StatusBadGateway), nil
		}
		return respond(http.StatusAccepted), nil
	}
	d := newTestDeliverer(client, 5)

	require.NoError(t, d.Deliver(context.Background(), testNotification()))
	assert.Equal(t, 3, client.calls)
}

func TestWebhookDeliverer_Deliver_RetriesTransportErrors(t *testing.T) {
	client := &mockHTTPClient{}
	client.doFunc = func(req *http.Request) (*http.Response, error) {
		if client.calls == 1 {
			return nil, errors.New("connection refused")
		}
		return respond(http.StatusOK), nil
	}
	d := newTestDeliverer(client, 5)

	require.NoError(t, d.Deliver(context.Background(), testNotification()))
	assert.Equal(t, 2, client.calls)
}

func TestWebhookDeliverer_Deliver_ClientErrorIsPermanent(t *testing.T) {
	client := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusBadRequest), nil
	}}
	d := newTestDeliverer(client, 5)

	err := d.Deliver(context.Background(), testNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, 1, client.calls)
}

func TestWebhookDeliverer_Deliver_GivesUp(t *testing.T) {
	client := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusServiceUnavailable), nil
	}}
	d := newTestDeliverer(client, 2)

	err := d.Deliver(context.Background(), testNotification())
	require.Error(t, err)
	assert.Equal(t, 3, client.calls)
}

func TestWebhookDeliverer_Deliver_NoURL(t *testing.T) {
	client := &mockHTTPClient{doFunc: func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	}}
	d := NewWebhookDeliverer("", "", time.Minute, NewHMACSignatureService(), client, newTestLogger())

	assert.NoError(t, d.Deliver(context.Background(), testNotification()))
	assert.Zero(t, client.calls)
}
