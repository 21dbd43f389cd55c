package envelope

import "fmt"

// ErrorKind tags what went wrong while pulling apart an envelope.
type ErrorKind string

const (
	ErrBadBase64    ErrorKind = "bad-base64"
	ErrBadJSON      ErrorKind = "bad-json"
	ErrSegmentCount ErrorKind = "segment-count-mismatch"
)

// Error is a typed extraction failure. Callers surface it as a schema
// failure on the document rather than aborting the pass.
type Error struct {
	Kind  ErrorKind
	Where string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("envelope: %s at %s: %v", e.Kind, e.Where, e.Cause)
	}
	return fmt.Sprintf("envelope: %s at %s", e.Kind, e.Where)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind ErrorKind, where string, cause error) *Error {
	return &Error{Kind: kind, Where: where, Cause: cause}
}
