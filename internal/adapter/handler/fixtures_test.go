package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/transcript"
	"github.com/johnquangdev/meeting-minutes/internal/usecase/credential"
	"github.com/johnquangdev/meeting-minutes/internal/usecase/distribution"
	minutesUsecase "github.com/johnquangdev/meeting-minutes/internal/usecase/minutes"
	"github.com/johnquangdev/meeting-minutes/pkg/ai"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
	"github.com/johnquangdev/meeting-minutes/pkg/metrics"
	"github.com/johnquangdev/meeting-minutes/pkg/validator"
)

const testTranscript = "Alice: Let's ship Friday. Bob: I'll write the tests by Wednesday."

const testCompletion = `{"attendees":["Alice","Bob"],"agenda":["Ship date"],"summary":"Team agreed to ship Friday.","decisions":["Ship Friday"],"actionItems":[{"id":"1","task":"Write tests","owner":"Bob","deadline":"2024-03-13"}]}`

// envelope mirrors the success and error response shapes
type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Info    string            `json:"info"`
	Details map[string]string `json:"details"`
}

type capturingDeliverer struct {
	mu         sync.Mutex
	deliveries []distribution.Delivery
}

func (d *capturingDeliverer) Deliver(_ context.Context, delivery distribution.Delivery) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deliveries = append(d.deliveries, delivery)
	return nil
}

type testAPI struct {
	e         *echo.Echo
	creds     *credential.Store
	deliverer *capturingDeliverer
	// userPrompts returns the user messages the chat endpoint received
	userPrompts func() []string
}

// newTestAPI wires the full router against a fake chat endpoint
func newTestAPI(t *testing.T, chatStatus int, chatBody string) *testAPI {
	t.Helper()

	var (
		promptsMu sync.Mutex
		prompts   []string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload ai.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil && len(payload.Messages) > 0 {
			promptsMu.Lock()
			prompts = append(prompts, payload.Messages[len(payload.Messages)-1].Content)
			promptsMu.Unlock()
		}
		if chatStatus != http.StatusOK {
			w.WriteHeader(chatStatus)
			w.Write([]byte(chatBody))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": chatBody}},
			},
		})
	}))
	t.Cleanup(ts.Close)

	logger := zap.NewNop()
	m := metrics.New()
	creds := credential.NewStore(cache.NewMemoryStore(), credential.DefaultKey, logger)
	chat := ai.NewChatClient(&config.LLMConfig{BaseURL: ts.URL, Timeout: 5 * time.Second})
	deliverer := &capturingDeliverer{}

	manager := minutesUsecase.NewManager(minutesUsecase.ManagerConfig{
		Service:     minutesUsecase.NewGenerator(chat, creds, logger),
		Distributor: distribution.NewService(deliverer, nil, m, logger),
		Timeout:     5 * time.Second,
		Metrics:     m,
		Logger:      logger,
	})

	e := echo.New()
	e.Validator = validator.New()
	NewRouter(
		&config.Config{Server: config.ServerConfig{Environment: "test"}},
		NewMinutesHandler(manager, transcript.NewLoader(nil, 0), nil, logger),
		NewCredentialHandler(creds, logger),
		m,
	).Setup(e)

	return &testAPI{
		e:         e,
		creds:     creds,
		deliverer: deliverer,
		userPrompts: func() []string {
			promptsMu.Lock()
			defer promptsMu.Unlock()
			return append([]string(nil), prompts...)
		},
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return a.serve(t, req)
}

func (a *testAPI) upload(t *testing.T, path, filename, content string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("meeting_title", "Upload Sync"))
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return a.serve(t, req)
}

func (a *testAPI) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get(echo.HeaderContentType) != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

// createSession returns the id of a fresh session
func (a *testAPI) createSession(t *testing.T) string {
	t.Helper()

	rec, env := a.do(t, http.MethodPost, "/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var session struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotEmpty(t, session.ID)
	return session.ID
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}
