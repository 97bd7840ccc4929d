package ollama

import (
	"fmt"

	"github.com/isaacphi/mcp-ollama-link/internal/domain"
	"github.com/pkg/errors"
)

// Error is the failure half of a generation outcome
type Error struct {
	Kind       domain.ErrorKind
	StatusCode int
	Message    string
	cause      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind domain.ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}

func unexpected(cause error) *Error {
	return newError(domain.ErrorKindUnexpected, cause, "Unexpected error while querying Ollama: %v", cause)
}

// KindOf returns the failure kind of err, or ErrorKindUnexpected when err
// did not come from this package
func KindOf(err error) domain.ErrorKind {
	var oerr *Error
	if errors.As(err, &oerr) {
		return oerr.Kind
	}
	return domain.ErrorKindUnexpected
}
