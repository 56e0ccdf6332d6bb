package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/usecase/distribution"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
)

func testDelivery() distribution.Delivery {
	return distribution.Delivery{
		SessionID:  "s-1",
		Recipients: []string{"team@example.com"},
		ArchiveURL: "https://archive.example.com/minutes/s-1.json",
		Document: entities.MinutesDocument{
			MeetingTitle: "Weekly Sync",
			MeetingDate:  "2024-03-06",
			Decisions:    []string{"Ship Friday"},
		},
	}
}

func newDeliverer(url string) *Deliverer {
	return NewDeliverer(&config.DeliveryConfig{
		WebhookURL:      url,
		WebhookSecret:   "hook-secret",
		Timeout:         time.Second,
		MaxRetryElapsed: 2 * time.Second,
	}, zap.NewNop())
}

func TestDeliver_SignsPayload(t *testing.T) {
	var received Payload
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !Verify("hook-secret", body, r.Header.Get(SignatureHeader)) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	require.NoError(t, newDeliverer(ts.URL).Deliver(context.Background(), testDelivery()))

	assert.Equal(t, EventMinutesDistributed, received.Event)
	assert.Equal(t, "s-1", received.SessionID)
	assert.Equal(t, []string{"team@example.com"}, received.Recipients)
	assert.Equal(t, "Weekly Sync", received.Minutes.MeetingTitle)
	assert.NotEmpty(t, received.DeliveryID)
}

func TestDeliver_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	require.NoError(t, newDeliverer(ts.URL).Deliver(context.Background(), testDelivery()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestDeliver_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("unknown recipient"))
	}))
	defer ts.Close()

	err := newDeliverer(ts.URL).Deliver(context.Background(), testDelivery())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "unknown recipient", statusErr.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSignature(t *testing.T) {
	payload := []byte(`{"event":"minutes.distributed"}`)
	sig := Sign("secret", payload)

	assert.True(t, Verify("secret", payload, sig))
	assert.False(t, Verify("other", payload, sig))
	assert.False(t, Verify("", payload, sig))
	assert.False(t, Verify("secret", payload, ""))
}
