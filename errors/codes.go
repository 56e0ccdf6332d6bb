package errors

// ErrorCode identifies a failure class in API responses
type ErrorCode int32

const (
	ErrorCode_HTTP_OK          ErrorCode = 0
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1004

	// Credential
	ErrorCode_CREDENTIAL_MISSING ErrorCode = 2000
	ErrorCode_CREDENTIAL_INVALID ErrorCode = 2001
	ErrorCode_CREDENTIAL_STORE   ErrorCode = 2002

	// Generation pipeline
	ErrorCode_GENERATION_IN_PROGRESS      ErrorCode = 3000
	ErrorCode_GENERATION_TRANSPORT        ErrorCode = 3001
	ErrorCode_GENERATION_MALFORMED        ErrorCode = 3002
	ErrorCode_TRANSCRIPT_INVALID          ErrorCode = 3003
	ErrorCode_SESSION_NOT_FOUND           ErrorCode = 3004
	ErrorCode_SESSION_INVALID_STATE       ErrorCode = 3005
	ErrorCode_DOCUMENT_INDEX_OUT_OF_RANGE ErrorCode = 3006

	// Distribution
	ErrorCode_RECIPIENTS_EMPTY ErrorCode = 4000

	// Integrations
	ErrorCode_DB_QUERY_FAILED ErrorCode = 5001
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                     "HTTP_OK",
	ErrorCode_INTERNAL:                    "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:            "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                   "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:             "INVALID_PAYLOAD",
	ErrorCode_CREDENTIAL_MISSING:          "CREDENTIAL_MISSING",
	ErrorCode_CREDENTIAL_INVALID:          "CREDENTIAL_INVALID",
	ErrorCode_CREDENTIAL_STORE:            "CREDENTIAL_STORE",
	ErrorCode_GENERATION_IN_PROGRESS:      "GENERATION_IN_PROGRESS",
	ErrorCode_GENERATION_TRANSPORT:        "GENERATION_TRANSPORT",
	ErrorCode_GENERATION_MALFORMED:        "GENERATION_MALFORMED",
	ErrorCode_TRANSCRIPT_INVALID:          "TRANSCRIPT_INVALID",
	ErrorCode_SESSION_NOT_FOUND:           "SESSION_NOT_FOUND",
	ErrorCode_SESSION_INVALID_STATE:       "SESSION_INVALID_STATE",
	ErrorCode_DOCUMENT_INDEX_OUT_OF_RANGE: "DOCUMENT_INDEX_OUT_OF_RANGE",
	ErrorCode_RECIPIENTS_EMPTY:            "RECIPIENTS_EMPTY",
	ErrorCode_DB_QUERY_FAILED:             "DB_QUERY_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
