package relaymcp

import (
	"encoding/json"
	"testing"
)

func TestResponseMarshalRoundTrip(t *testing.T) {
	header := NewHeader()
	resp := NewSuccessResponse(header, "ping", "pong")

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Response
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Header.CorrelationID != header.CorrelationID {
		t.Errorf("correlation id mismatch: got %s, want %s", decoded.Header.CorrelationID, header.CorrelationID)
	}
	if decoded.Status != StatusSuccess || decoded.Body == nil || decoded.Err != nil {
		t.Errorf("unexpected decoded response: %+v", decoded)
	}
}

func TestResponseMarshalAlwaysEmitsBothKeys(t *testing.T) {
	resp := NewErrorResponse(nullHeader(), ErrCodeToolNotFound, "no such tool")

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal into map failed: %v", err)
	}
	if _, ok := raw["body"]; !ok {
		t.Error("expected \"body\" key to be present even when null")
	}
	if _, ok := raw["error"]; !ok {
		t.Error("expected \"error\" key to be present")
	}
}

func TestResponseUnmarshalRejectsUnknownStatus(t *testing.T) {
	var r Response
	err := json.Unmarshal([]byte(`{"header":{"correlation_id":"11111111-1111-1111-1111-111111111111"},"status":"pending","body":null,"error":null}`), &r)
	if err != errUnknownStatus {
		t.Fatalf("expected errUnknownStatus, got %v", err)
	}
}

func TestResponseUnmarshalRejectsMissingBody(t *testing.T) {
	var r Response
	err := json.Unmarshal([]byte(`{"header":{"correlation_id":"11111111-1111-1111-1111-111111111111"},"status":"success","body":null,"error":null}`), &r)
	if err != errMissingBody {
		t.Fatalf("expected errMissingBody, got %v", err)
	}
}

func TestResponseUnmarshalRejectsMissingError(t *testing.T) {
	var r Response
	err := json.Unmarshal([]byte(`{"header":{"correlation_id":"11111111-1111-1111-1111-111111111111"},"status":"error","body":null,"error":null}`), &r)
	if err != errMissingError {
		t.Fatalf("expected errMissingError, got %v", err)
	}
}
