package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := ErrGenerationMalformed(stderrors.New("unexpected end of JSON input"))
	assert.Equal(t, "[GENERATION_MALFORMED] Language model returned an unusable document: unexpected end of JSON input", err.Error())

	assert.Equal(t, "[RECIPIENTS_EMPTY] Please add at least one email address", ErrRecipientsEmpty().Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := ErrDBQueryFailed("save minutes", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode)
	assert.Equal(t, "save minutes", err.Details["query"])
}

func TestAppError_Details(t *testing.T) {
	err := ErrIndexOutOfRange("decisions", 4, 2)
	assert.Equal(t, http.StatusUnprocessableEntity, err.HTTPCode)
	assert.Equal(t, map[string]string{"collection": "decisions", "index": "4", "length": "2"}, err.Details)

	state := ErrSessionInvalidState("s-1", "idle", "editing")
	assert.Equal(t, "idle", state.Details["current_state"])
	assert.Equal(t, "editing", state.Details["expected_state"])
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "SESSION_NOT_FOUND", ErrorCode_SESSION_NOT_FOUND.String())
	assert.Equal(t, "UNKNOWN", ErrorCode(42).String())
}
