package minutes

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

// ParseMinutes decodes model output into a MinutesDocument.
// The payload must be a single JSON object; anything else is rejected as a whole.
func ParseMinutes(content string) (*entities.MinutesDocument, error) {
	content = extractJSON(content)
	if content == "" {
		return nil, &entities.MalformedResponseError{Reason: "empty content"}
	}
	if !strings.HasPrefix(content, "{") {
		return nil, &entities.MalformedResponseError{Reason: "content is not a JSON object"}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(content)))
	var doc entities.MinutesDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, &entities.MalformedResponseError{Reason: "invalid JSON", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &entities.MalformedResponseError{Reason: "trailing data after JSON object"}
	}

	normalized := doc.Clone()
	normalized.EnsureActionItemIDs()
	return &normalized, nil
}

// extractJSON strips a surrounding markdown code fence if the model added one
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
