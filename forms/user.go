package forms

import (
	"regexp"
	"strings"

	"recipe-service/models"
)

const (
	FieldFirstName            = "first_name"
	FieldLastName             = "last_name"
	FieldEmail                = "email"
	FieldUsername             = "username"
	FieldPassword             = "password"
	FieldPasswordConfirmation = "password_confirmation"
	FieldIsActive             = "is_active"

	maxNameLength     = 100
	maxEmailLength    = 150
	maxUsernameLength = 100
	minPasswordLength = 3
	maxPasswordLength = 32
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

var (
	nameChecks     = []Check{MaxLength(maxNameLength)}
	emailChecks    = []Check{MaxLength(maxEmailLength), Email()}
	usernameChecks = []Check{MaxLength(maxUsernameLength), Pattern(usernamePattern, MsgInvalidUsername)}
	passwordChecks = []Check{MinLength(minPasswordLength), MaxLength(maxPasswordLength)}
)

// UserAdd is the account creation form
type UserAdd struct {
	FirstName            string
	LastName             string
	Email                string
	Username             string
	Password             string
	PasswordConfirmation string
	IsActive             bool
}

// Clean trims text fields, leaves passwords verbatim and validates
func (f UserAdd) Clean() (UserAdd, Errors) {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Username = strings.TrimSpace(f.Username)

	return f, Run(
		Field(FieldFirstName, f.FirstName, false, nameChecks...),
		Field(FieldLastName, f.LastName, false, nameChecks...),
		Field(FieldEmail, f.Email, true, emailChecks...),
		Field(FieldUsername, f.Username, true, usernameChecks...),
		Field(FieldPassword, f.Password, true, passwordChecks...),
		Field(FieldPasswordConfirmation, f.PasswordConfirmation, true, passwordChecks...),
		Confirmation(FieldPassword, f.Password, FieldPasswordConfirmation, f.PasswordConfirmation),
	)
}

// UserChange is the account edit form. Password is whatever the client
// submitted in the read-only password field; Clean always replaces it with
// the stored hash.
type UserChange struct {
	FirstName string
	LastName  string
	Email     string
	Username  string
	Password  string
	IsActive  bool
}

// Clean validates the editable fields and restores the initial password
func (f UserChange) Clean(initialPassword string) (UserChange, Errors) {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Username = strings.TrimSpace(f.Username)
	f.Password = initialPassword

	return f, Run(
		Field(FieldFirstName, f.FirstName, false, nameChecks...),
		Field(FieldLastName, f.LastName, false, nameChecks...),
		Field(FieldEmail, f.Email, true, emailChecks...),
		Field(FieldUsername, f.Username, true, usernameChecks...),
	)
}

// PasswordChange is the explicit password replacement form
type PasswordChange struct {
	Password             string
	PasswordConfirmation string
}

// Clean validates both password fields and their equality
func (f PasswordChange) Clean() (PasswordChange, Errors) {
	return f, Run(
		Field(FieldPassword, f.Password, true, passwordChecks...),
		Field(FieldPasswordConfirmation, f.PasswordConfirmation, true, passwordChecks...),
		Confirmation(FieldPassword, f.Password, FieldPasswordConfirmation, f.PasswordConfirmation),
	)
}

// Mode selects how a REST payload is validated
type Mode int

const (
	// ModeCreate requires every mandatory field and a password
	ModeCreate Mode = iota
	// ModeUpdate requires every mandatory field; the password is optional
	ModeUpdate
	// ModePartial validates only the fields that are present
	ModePartial
)

// UserPayload validates a REST user body
type UserPayload struct {
	models.UserRequest
}

// Clean trims text fields and validates the payload for mode.
// In ModeUpdate and ModePartial an empty password means "unchanged" and is
// accepted without length checks.
func (p UserPayload) Clean(mode Mode) (UserPayload, Errors) {
	p.FirstName = trimmed(p.FirstName)
	p.LastName = trimmed(p.LastName)
	p.Email = trimmed(p.Email)
	p.Username = trimmed(p.Username)

	full := mode != ModePartial
	validators := []Validator{
		OptionalField(FieldFirstName, p.FirstName, false, nameChecks...),
		OptionalField(FieldLastName, p.LastName, false, nameChecks...),
		OptionalField(FieldEmail, p.Email, full, emailChecks...),
		OptionalField(FieldUsername, p.Username, full, usernameChecks...),
	}

	if mode == ModeCreate {
		validators = append(validators,
			OptionalField(FieldPassword, p.Password, true, passwordChecks...),
			OptionalField(FieldPasswordConfirmation, p.PasswordConfirmation, true, MaxLength(maxPasswordLength)),
		)
	} else if p.Password != nil && *p.Password != "" {
		validators = append(validators, Field(FieldPassword, *p.Password, true, passwordChecks...))
	}
	if p.PasswordConfirmation != nil {
		validators = append(validators, serializerConfirmation(p.Password, *p.PasswordConfirmation))
	}

	validators = append(validators, Present(FieldIsActive, !full || p.IsActive != nil))

	return p, Run(validators...)
}

// PasswordChanged reports whether the payload asks for a new password
func (p UserPayload) PasswordChanged() bool {
	return p.Password != nil && *p.Password != ""
}

// serializerConfirmation compares the confirmation with the raw submitted
// password, which may be absent
func serializerConfirmation(password *string, confirmation string) Validator {
	return func(found Errors) []FieldError {
		if found.Has(FieldPasswordConfirmation) {
			return nil
		}
		submitted := ""
		if password != nil {
			submitted = *password
		}
		if confirmation != submitted {
			return []FieldError{{Field: FieldPasswordConfirmation, Message: MsgPasswordMismatch}}
		}
		return nil
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
