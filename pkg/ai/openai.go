package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-minutes/pkg/config"
)

var (
	// ErrEmptyContent is returned when the completion carries no message content
	ErrEmptyContent = errors.New("no content received from chat completion")
	// ErrInvalidEnvelope is returned when the response body is not a chat completion
	ErrInvalidEnvelope = errors.New("invalid chat completion response")
)

// APIError is a non-success HTTP status from the completions endpoint
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d %s", e.StatusCode, e.Message)
}

// ChatClient is a minimal client for OpenAI-compatible chat completion calls
type ChatClient struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// NewChatClient creates a chat client using values from the provided config.
// Pass a nil config to use the package defaults. A non-nil config always
// supplies the temperature, including 0.
func NewChatClient(cfg *config.LLMConfig) *ChatClient {
	c := &ChatClient{
		baseURL:     "https://api.openai.com",
		model:       "gpt-4.1-2025-04-14",
		temperature: 0.3,
		maxTokens:   2000,
		client:      &http.Client{Timeout: 60 * time.Second},
	}
	if cfg == nil {
		return c
	}
	if cfg.BaseURL != "" {
		c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Model != "" {
		c.model = cfg.Model
	}
	// 0 is a valid temperature; envconfig supplies the default
	c.temperature = cfg.Temperature
	if cfg.MaxTokens > 0 {
		c.maxTokens = cfg.MaxTokens
	}
	if cfg.Timeout > 0 {
		c.client.Timeout = cfg.Timeout
	}
	return c
}

// Message is a single chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the messages with a bearer credential and returns the assistant content.
// Exactly one request is issued per call.
func (c *ChatClient) Complete(ctx context.Context, apiKey string, messages []Message) (string, error) {
	reqBody := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := c.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling chat completions: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}

	var cr ChatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", ErrEmptyContent
	}
	return cr.Choices[0].Message.Content, nil
}

// errorMessage prefers the server-supplied message and falls back to the status text
func errorMessage(status int, body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return http.StatusText(status)
}
