package api

import (
	"encoding/json"
	"fmt"
	"io"
)

// UserMessage is the generic text shown for any TransportError.
// Details go to the log file.
const UserMessage = "Could not load sales data"

// TransportError is any failure talking to the sales API: network errors,
// timeouts, non-2xx status codes, or undecodable bodies. It is returned
// verbatim; nothing in this package retries.
type TransportError struct {
	Op      string // e.g. "GET /filterable-data/"
	Status  int    // HTTP status, 0 when no response arrived
	Message string // "error" field of the response body, if any
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": transport failure"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 4 << 10

// errorMessage extracts {"error": "..."} from a failed response body,
// falling back to the raw text.
func errorMessage(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return string(raw)
}
