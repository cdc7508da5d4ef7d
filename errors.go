package relaymcp

import "errors"

// Sentinel errors used internally; they never cross the wire directly, but
// are mapped to the error codes in header.go by the component that catches
// them.
var (
	ErrUnknownTool      = errors.New("relaymcp: unknown tool")
	ErrUnknownParameter = errors.New("relaymcp: parameter not found")
	ErrDuplicateTool    = errors.New("relaymcp: tool already registered")
	ErrReservedArgument = errors.New("relaymcp: argument name is reserved for dependency injection")

	errMissingBody    = errors.New("relaymcp: success response missing body")
	errMissingError   = errors.New("relaymcp: error response missing error")
	errUnknownStatus  = errors.New("relaymcp: response status must be \"success\" or \"error\"")
)
