package accounts

import (
	"errors"

	"recipe-service/database"
	"recipe-service/forms"
)

var (
	// ErrUserNotFound is returned when the addressed user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrPermissionDenied is returned when the actor may not change users
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidCredentials is returned for an unknown user, an inactive
	// user or a wrong password alike
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const (
	MsgUsernameTaken = "User with this Username already exists."
	MsgEmailTaken    = "User with this Email address already exists."

	// MsgPasswordChanged acknowledges a successful password change
	MsgPasswordChanged = "Password changed successfully."
)

// uniqueFieldError turns a store uniqueness violation into a field error so
// that a lost race is reported like any other validation failure
func uniqueFieldError(err error) error {
	var uniqueErr *database.UniqueViolationError
	if !errors.As(err, &uniqueErr) {
		return err
	}
	switch uniqueErr.Field {
	case forms.FieldUsername:
		return forms.Errors{{Field: forms.FieldUsername, Message: MsgUsernameTaken}}
	case forms.FieldEmail:
		return forms.Errors{{Field: forms.FieldEmail, Message: MsgEmailTaken}}
	}
	return forms.Errors{{Field: forms.NonFieldErrors, Message: err.Error()}}
}

func notFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
