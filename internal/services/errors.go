package services

import "fmt"

// Kind classifies a domain error for the request layer.
type Kind int

const (
	KindInvalidInput Kind = iota
	KindForbidden
	KindInternal
)

// Error is the typed failure services return. Message is safe to surface to
// the caller; Err carries the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func invalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

func forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// internalError hides store detail behind a generic message.
func internalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Database error occurred", Err: err}
}
