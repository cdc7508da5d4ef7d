package relaymcp

import "encoding/json"

// Response statuses, the discriminator tag for ServerMessage.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ToolCallResult is the body of a success response.
type ToolCallResult struct {
	Tool   string      `json:"tool"`
	Result interface{} `json:"result"`
}

// Response is a tagged sum: exactly one of Body / Err is non-nil, matching
// Status. Construct with NewSuccessResponse or NewErrorResponse rather than
// the struct literal so that invariant can't be violated by accident.
type Response struct {
	Header Header
	Status string
	Body   *ToolCallResult
	Err    *Error
}

// NewSuccessResponse builds a success response carrying a tool's result.
func NewSuccessResponse(correlationID Header, tool string, result interface{}) *Response {
	return &Response{
		Header: correlationID,
		Status: StatusSuccess,
		Body:   &ToolCallResult{Tool: tool, Result: result},
	}
}

// NewErrorResponse builds an error response. header may be the null header
// when the failure occurred before a correlation id could be recovered.
func NewErrorResponse(header Header, code, message string) *Response {
	return &Response{
		Header: header,
		Status: StatusError,
		Err:    &Error{Code: code, Message: message},
	}
}

// wireResponse is the exact on-the-wire shape: body/error are both present
// as keys, one always null, so clients can rely on the field existing.
type wireResponse struct {
	Header Header          `json:"header"`
	Status string          `json:"status"`
	Body   *ToolCallResult `json:"body"`
	Error  *Error          `json:"error"`
}

// MarshalJSON implements the wire shape described in spec section 3: body
// and error are both emitted, one of them null, discriminated by status.
func (r *Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireResponse{
		Header: r.Header,
		Status: r.Status,
		Body:   r.Body,
		Error:  r.Err,
	})
}

// UnmarshalJSON parses a response frame as seen by a client: it validates
// that status is one of the two known values and that the payload for that
// status (body for success, error for error) is non-null. The other field
// is not checked; whatever it holds is copied as-is.
func (r *Response) UnmarshalJSON(data []byte) error {
	var w wireResponse
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Status {
	case StatusSuccess:
		if w.Body == nil {
			return errMissingBody
		}
	case StatusError:
		if w.Error == nil {
			return errMissingError
		}
	default:
		return errUnknownStatus
	}
	r.Header = w.Header
	r.Status = w.Status
	r.Body = w.Body
	r.Err = w.Error
	return nil
}
