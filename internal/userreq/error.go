// Package userreq defines the typed error that crosses the service boundary
// for user-facing request operations. Every storage failure is converted into
// one of these kinds with a display-ready message; no raw driver error is
// ever returned to the command layer.
package userreq

import (
	"errors"
	"fmt"
)

// Kind classifies a failed request so callers can branch programmatically
// (e.g. an admin UI offering an unlock action on AccountLocked).
type Kind int

const (
	// InvalidDetails covers both a missing username and a wrong password,
	// deliberately indistinguishable so usernames cannot be enumerated.
	InvalidDetails Kind = iota

	// AccountLocked means the strike counter reached the lockout threshold.
	AccountLocked

	// ConnectionError means the store was unreachable; always retryable.
	ConnectionError

	// UserNotFound is returned by admin operations that target a named
	// account which does not exist.
	UserNotFound

	AddUserError
	StrikeAddError
	StrikeResetError
	DeleteUserError
	FetchUsersError
	QuestionSetError
	ReviewError

	// SessionError means credentials were accepted but no access token
	// could be issued.
	SessionError
)

var kindNames = map[Kind]string{
	InvalidDetails:   "InvalidDetails",
	AccountLocked:    "AccountLocked",
	ConnectionError:  "ConnectionError",
	UserNotFound:     "UserNotFound",
	AddUserError:     "AddUserError",
	StrikeAddError:   "StrikeAddError",
	StrikeResetError: "StrikeResetError",
	DeleteUserError:  "DeleteUserError",
	FetchUsersError:  "FetchUsersError",
	QuestionSetError: "QuestionSetError",
	ReviewError:      "ReviewError",
	SessionError:     "SessionError",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error carries a classification and a message suitable for showing verbatim
// in a UI dialog. The wrapped cause, if any, stays server-side.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// New builds an Error with no underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error around an underlying cause. The cause is available
// via errors.Unwrap for logging but is not part of the display message.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is lets errors.Is match against a bare kind sentinel, e.g.
// errors.Is(err, userreq.New(userreq.AccountLocked, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the Kind from err if it is (or wraps) a *Error.
// The second return is false for foreign errors.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
