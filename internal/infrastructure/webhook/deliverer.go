package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/usecase/distribution"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
)

// EventMinutesDistributed is the event name of every delivery
const EventMinutesDistributed = "minutes.distributed"

// Payload is the JSON body posted to the webhook
type Payload struct {
	DeliveryID string                   `json:"delivery_id"`
	Event      string                   `json:"event"`
	SessionID  string                   `json:"session_id"`
	Recipients []string                 `json:"recipients"`
	ArchiveURL string                   `json:"archive_url,omitempty"`
	Minutes    entities.MinutesDocument `json:"minutes"`
	SentAt     time.Time                `json:"sent_at"`
}

// StatusError is a non-success response from the webhook receiver
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned %d: %s", e.StatusCode, e.Body)
}

// Deliverer posts committed minutes to an HTTP endpoint that handles the actual mailing
type Deliverer struct {
	url        string
	secret     string
	client     *http.Client
	maxElapsed time.Duration
	logger     *zap.Logger
}

// NewDeliverer creates a webhook deliverer from cfg
func NewDeliverer(cfg *config.DeliveryConfig, logger *zap.Logger) *Deliverer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Deliverer{
		url:        cfg.WebhookURL,
		secret:     cfg.WebhookSecret,
		client:     &http.Client{Timeout: timeout},
		maxElapsed: cfg.MaxRetryElapsed,
		logger:     logger,
	}
}

// Deliver posts the delivery, retrying transport failures and 5xx answers
func (d *Deliverer) Deliver(ctx context.Context, delivery distribution.Delivery) error {
	body, err := json.Marshal(Payload{
		DeliveryID: ulid.Make().String(),
		Event:      EventMinutesDistributed,
		SessionID:  delivery.SessionID,
		Recipients: delivery.Recipients,
		ArchiveURL: delivery.ArchiveURL,
		Minutes:    delivery.Document,
		SentAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode delivery: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = d.maxElapsed
	if bo.MaxElapsedTime <= 0 {
		bo.MaxElapsedTime = 30 * time.Second
	}

	notify := func(err error, wait time.Duration) {
		if d.logger != nil {
			d.logger.Warn("⏳ Webhook delivery failed, retrying",
				zap.String("session_id", delivery.SessionID),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}
	}

	return backoff.RetryNotify(func() error {
		return d.post(ctx, body)
	}, backoff.WithContext(bo, ctx), notify)
}

func (d *Deliverer) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.secret != "" {
		req.Header.Set(SignatureHeader, Sign(d.secret, body))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	statusErr := &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return statusErr
	}
	return backoff.Permanent(statusErr)
}
