package streamjson

import "fmt"

// LineTooLargeError reports a single line or accumulated buffer that
// exceeded the configured size ceiling. Fatal for the record being
// reconstructed; the stream itself may continue.
type LineTooLargeError struct {
	Actual int
	Limit  int
}

func (e *LineTooLargeError) Error() string {
	return fmt.Sprintf("line size %d bytes exceeds limit of %d bytes", e.Actual, e.Limit)
}

// MalformedJSONError reports content that looked like JSON but failed to
// parse even after end of stream. Preview is truncated to the configured
// preview length.
type MalformedJSONError struct {
	Cause   error
	Preview string
}

func (e *MalformedJSONError) Error() string {
	return fmt.Sprintf("malformed JSON: %s", e.Preview)
}

func (e *MalformedJSONError) Unwrap() error {
	return e.Cause
}
