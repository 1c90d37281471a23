package rest

import (
	"encoding/json"
	"fmt"
)

// StatusError is a non-2xx response. It carries the status code plus the
// decoded JSON error body when the server sent one, or the raw text when
// it did not.
type StatusError struct {
	Status int
	JSON   json.RawMessage
	Raw    string
}

func (e *StatusError) Error() string {
	if len(e.JSON) > 0 {
		return fmt.Sprintf("remote store error (%d): %s", e.Status, e.JSON)
	}

	return fmt.Sprintf("remote store error (%d): %s", e.Status, e.Raw)
}

// ProtocolError is a success status whose body was not usable JSON.
type ProtocolError struct {
	ContentType string
	Cause       error
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("not a JSON response: %v", e.Cause)
	}

	return fmt.Sprintf("not a JSON response (content-type %q)", e.ContentType)
}

func (e *ProtocolError) Unwrap() error { return e.Cause }
