package service

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a failure the caller can act on. Kind decides the response status.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf reports KindInternal for anything that is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrInternal = newError(KindInternal, "internal server error")

	ErrMissingFields         = newError(KindValidation, "missing fields")
	ErrInvalidEmail          = newError(KindValidation, "invalid email")
	ErrPasswordTooShort      = newError(KindValidation, "password too short")
	ErrPasswordTooLong       = newError(KindValidation, "password too long")
	ErrPasswordMismatch      = newError(KindValidation, "password mismatch")
	ErrDisplayNameTooShort   = newError(KindValidation, "display name too short")
	ErrTitleOrMessageMissing = newError(KindValidation, "title or message missing")

	ErrNoToken            = newError(KindUnauthorized, "no token provided")
	ErrInvalidToken       = newError(KindUnauthorized, "invalid token")
	ErrInvalidCredentials = newError(KindUnauthorized, "invalid credentials")

	ErrOnlyCreatorCanUpdate = newError(KindForbidden, "only creator can update")
	ErrOnlyCreatorCanDelete = newError(KindForbidden, "only creator can delete")

	ErrNoAccount    = newError(KindNotFound, "no account")
	ErrPostNotFound = newError(KindNotFound, "no post with id")

	ErrEmailExists       = newError(KindConflict, "email exists")
	ErrDisplayNameExists = newError(KindConflict, "display name exists")
)
