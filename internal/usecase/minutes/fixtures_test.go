package minutes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/pkg/ai"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
)

const aliceBobTranscript = "Alice: Let's ship Friday. Bob: I'll write the tests by Wednesday."

const aliceBobResponse = `{"attendees":["Alice","Bob"],"agenda":["Ship date"],"summary":"Team agreed to ship Friday.","decisions":["Ship Friday"],"actionItems":[{"id":"1","task":"Write tests","owner":"Bob","deadline":"2024-03-13"}]}`

func aliceBobDocument(title, date string) entities.MinutesDocument {
	return entities.MinutesDocument{
		Attendees:    []string{"Alice", "Bob"},
		Agenda:       []string{"Ship date"},
		Summary:      "Team agreed to ship Friday.",
		Decisions:    []string{"Ship Friday"},
		ActionItems:  []entities.ActionItem{{ID: "1", Task: "Write tests", Owner: "Bob", Deadline: "2024-03-13"}},
		MeetingTitle: title,
		MeetingDate:  date,
	}
}

// chatServer answers every completion call with content, or with status and body when status is not 200
func chatServer(t *testing.T, status int, content string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			w.Write([]byte(content))
			return
		}
		envelope := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(envelope)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func chatClientFor(ts *httptest.Server) *ai.ChatClient {
	return ai.NewChatClient(&config.LLMConfig{BaseURL: ts.URL, Timeout: 5 * time.Second})
}

// staticCredentials is a CredentialSource returning a fixed value
type staticCredentials string

func (s staticCredentials) Get(context.Context) (string, error) {
	if s == "" {
		return "", entities.ErrMissingCredential
	}
	return string(s), nil
}

// simulatedService stands in for the generator: it waits for delay or release,
// then returns doc or err.
type simulatedService struct {
	delay   time.Duration
	release chan struct{}
	entered chan struct{}
	doc     *entities.MinutesDocument
	err     error
	calls   atomic.Int32
}

func (s *simulatedService) Generate(ctx context.Context, req entities.GenerationRequest) (*entities.MinutesDocument, error) {
	s.calls.Add(1)
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	doc := s.doc.Clone()
	doc.ApplyMetadata(req.MeetingTitle, req.MeetingDate, time.Now())
	return &doc, nil
}

// stageRecorder collects every status the controller reports
type stageRecorder struct {
	mu       sync.Mutex
	statuses []entities.ProcessingStatus
}

func (r *stageRecorder) listen(s entities.ProcessingStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

func (r *stageRecorder) stages() []entities.Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Stage, 0, len(r.statuses))
	for _, s := range r.statuses {
		out = append(out, s.Stage)
	}
	return out
}
