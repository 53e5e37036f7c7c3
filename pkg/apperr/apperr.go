package apperr

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies an error so handlers can map it to an HTTP status
// without inspecting message strings.
type Kind int

const (
	KindValidation Kind = iota // malformed input, caller can correct and retry
	KindState                  // operation illegal in the entity's current state
	KindNotFound
	KindPersistence // datastore failed; outcome of the write is unknown
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func State(format string, args ...interface{}) *Error {
	return &Error{Kind: KindState, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Persistence wraps a failed datastore call. Callers must not assume the
// write was applied or not applied; they should re-query before retrying.
func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Msg: "persistence unavailable", Err: err}
}

// FromDB maps a gorm error to the taxonomy: missing rows become NotFound,
// everything else is a persistence failure.
func FromDB(err error, entity string) *Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("%s not found", entity)
	}
	return Persistence(err)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func IsValidation(err error) bool { k, ok := KindOf(err); return ok && k == KindValidation }
func IsState(err error) bool      { k, ok := KindOf(err); return ok && k == KindState }
func IsNotFound(err error) bool   { k, ok := KindOf(err); return ok && k == KindNotFound }
func IsPersistence(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindPersistence
}

// HTTPStatus returns the status code a handler should respond with.
func HTTPStatus(err error) int {
	switch k, ok := KindOf(err); {
	case !ok:
		return 500
	case k == KindValidation:
		return 400
	case k == KindState:
		return 409
	case k == KindNotFound:
		return 404
	case k == KindPersistence:
		return 503
	default:
		return 500
	}
}
