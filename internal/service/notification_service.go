package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"loan-ledger/internal/core/domain"
	"loan-ledger/internal/core/ports"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Notification delivery headers.
const (
	HeaderSignature = "X-Ledger-Signature"
	EventResolved   = "REQUEST_RESOLVED"
)

// NotificationPayload is the JSON body posted to the webhook endpoint.
type NotificationPayload struct {
	EventType string              `json:"event_type"`
	Data      domain.Notification `json:"data"`
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookDeliverer implements ports.NotificationDeliverer by POSTing signed
// JSON to a single configured endpoint.
type WebhookDeliverer struct {
	url        string
	secret     string
	sigSvc     ports.SignatureService
	httpClient HTTPClient
	newBackOff func() backoff.BackOff
	now        func() time.Time
	log        zerolog.Logger
}

// NewWebhookDeliverer creates a deliverer that retries with exponential
// backoff until maxElapsed has passed.
func NewWebhookDeliverer(
	url, secret string,
	maxElapsed time.Duration,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	log zerolog.Logger,
) *WebhookDeliverer {
	return &WebhookDeliverer{
		url:        url,
		secret:     secret,
		sigSvc:     sigSvc,
		httpClient: httpClient,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = time.Second
			b.MaxElapsedTime = maxElapsed
			return b
		},
		now: time.Now,
		log: log,
	}
}

// Deliver sends n and blocks until it is accepted, rejected permanently, or
// the retry budget is spent.
func (d *WebhookDeliverer) Deliver(ctx context.Context, n domain.Notification) error {
	if d.url == "" {
		d.log.Debug().Str("txn_id", n.TxnID).Msg("notification: no webhook URL configured, skipping")
		return nil
	}

	body, err := json.Marshal(NotificationPayload{EventType: EventResolved, Data: n})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	signature := d.sigSvc.SignNotification(d.secret, d.now().Unix(), body)

	attempt := 0
	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderSignature, signature)

		resp, err := d.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
			return backoff.Permanent(fmt.Errorf("webhook rejected notification: status %d", resp.StatusCode))
		default:
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
	}

	notify := func(err error, wait time.Duration) {
		d.log.Warn().Err(err).
			Str("txn_id", n.TxnID).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("notification: delivery failed, retrying")
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(d.newBackOff(), ctx), notify); err != nil {
		d.log.Error().Err(err).Str("txn_id", n.TxnID).Int("attempts", attempt).Msg("notification: delivery abandoned")
		return err
	}

	d.log.Info().Str("txn_id", n.TxnID).Str("member_id", n.MemberID).Int("attempts", attempt).Msg("notification: delivered")
	return nil
}
