package relaymcp

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ParseRequest decodes a raw client frame. It returns either a validated
// Request, or an error Response ready to send back as-is.
//
// Two failure tiers exist (spec section 4.1/4.5), and both reply with the
// null correlation id, never the one parsed from the frame: a client that
// sent an invalid request can't be trusted to have sent a meaningful
// header either, so the reply never echoes it back.
//   - the frame isn't valid JSON at all: invalid_json, null header.
//   - the frame is valid JSON but doesn't match the expected shape (missing
//     header, empty tool name, etc): validation_error, null header.
func ParseRequest(data []byte) (*Request, *Response) {
	var w wireRequest
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, NewErrorResponse(nullHeader(), ErrCodeInvalidJSON, "request is not valid JSON")
	}

	if w.Header.CorrelationID == uuid.Nil {
		return nil, NewErrorResponse(nullHeader(), ErrCodeValidationError, "header.correlation_id is required")
	}

	requestType := w.Type
	if requestType == "" {
		requestType = RequestTypeToolCall
	}

	req := &Request{Header: w.Header, Type: requestType}

	if requestType != RequestTypeToolCall {
		// Unknown request types are not a validation failure; the router
		// decides how to respond (unsupported_request), since the header
		// parsed fine.
		return req, nil
	}

	var body ToolCallBody
	if len(w.Body) > 0 {
		if err := json.Unmarshal(w.Body, &body); err != nil {
			return nil, NewErrorResponse(nullHeader(), ErrCodeValidationError, "body does not match tool_call shape")
		}
	}
	if body.Tool == "" {
		return nil, NewErrorResponse(nullHeader(), ErrCodeValidationError, "body.tool is required")
	}
	req.Body = body
	return req, nil
}
