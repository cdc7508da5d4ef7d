package relaymcp

import "github.com/google/uuid"

// Header carries the metadata attached to every message exchanged between
// client and server. The client mints CorrelationID and the server echoes
// it back unchanged; it is the sole mechanism for matching a response to
// the call that produced it.
type Header struct {
	CorrelationID uuid.UUID `json:"correlation_id"`
}

// NewHeader mints a header with a fresh correlation id.
func NewHeader() Header {
	return Header{CorrelationID: uuid.New()}
}

// nullHeader is used when a frame cannot be parsed far enough to recover a
// correlation id. uuid.Nil is the all-zero UUID.
func nullHeader() Header {
	return Header{CorrelationID: uuid.Nil}
}

// Error is the standardized error payload carried on an error response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes. This is a closed set the client must recognize.
const (
	ErrCodeValidationError     = "validation_error"
	ErrCodeInvalidJSON         = "invalid_json"
	ErrCodeUnsupportedRequest  = "unsupported_request"
	ErrCodeToolNotFound        = "tool_not_found"
	ErrCodeExecutionError      = "execution_error"
	ErrCodeInternalServerError = "internal_server_error"
)
