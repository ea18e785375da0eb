package services

import (
	"errors"
	"fmt"

	"github.com/PauloHFS/inkpress/internal/db"
	"github.com/PauloHFS/inkpress/internal/policies"
)

type ErrorKind int

const (
	KindUnauthenticated ErrorKind = iota + 1
	KindForbidden
	// KindNotFound covers both missing resources and resources the caller
	// may not see.
	KindNotFound
	KindValidation
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a caller error. Anything else returned by a service is an
// internal failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func errNotFound(kind policies.Kind) *Error {
	return newError(KindNotFound, fmt.Sprintf("%s not found", kind))
}

func errValidation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "invalid input", Fields: fields}
}

func errField(field, message string) *Error {
	return errValidation(map[string]string{field: message})
}

// AsError returns the caller error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// storeError maps store sentinels onto caller errors and leaves the rest
// untouched.
func storeError(kind policies.Kind, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrNotFound):
		return errNotFound(kind)
	case errors.Is(err, db.ErrUniqueViolation):
		return newError(KindConflict, fmt.Sprintf("%s already exists", kind))
	}
	return err
}

// denyError turns a Deny into the error the caller is allowed to see.
// Anonymous callers are asked to authenticate; a deny caused by visibility
// is reported as missing.
func denyError(actor policies.Actor, kind policies.Kind, d policies.Decision) *Error {
	switch {
	case d.Reason == policies.ReasonHidden:
		return errNotFound(kind)
	case !actor.Authenticated():
		return newError(KindUnauthenticated, "authentication credentials were not provided")
	}
	return newError(KindForbidden, "you do not have permission to perform this action")
}
