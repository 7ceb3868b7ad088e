package models

import "time"

// User represents an account in the system
// Password holds the encoded hash produced by the passwords package, never the plaintext
type User struct {
	ID        int       `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Username  string    `json:"username" db:"username"`
	Password  string    `json:"-" db:"password"` // Encoded hash; omitted from JSON
	IsActive  bool      `json:"is_active" db:"is_active"`
	Created   time.Time `json:"created" db:"created"`
	Modified  time.Time `json:"modified" db:"modified"`
}

// String returns the display name: full name, first name, or username
func (u *User) String() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// UserRequest is the REST body for creating and updating users.
// Pointer fields distinguish "absent" from "empty" so that partial updates
// and the "empty password means unchanged" rule can be told apart.
type UserRequest struct {
	FirstName            *string `json:"first_name,omitempty"`
	LastName             *string `json:"last_name,omitempty"`
	Email                *string `json:"email,omitempty"`
	Username             *string `json:"username,omitempty"`
	Password             *string `json:"password,omitempty"`              // Plaintext; encoded before storage
	PasswordConfirmation *string `json:"password_confirmation,omitempty"` // Plaintext; never stored
	IsActive             *bool   `json:"is_active,omitempty"`
}

// PasswordChangeRequest is the body of POST /users/{id}/password
type PasswordChangeRequest struct {
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// UserQuery filters user listings
type UserQuery struct {
	Search   string // matches first name, last name, username, email
	IsActive *bool
	OrderBy  string // "id" (default) or "name"
	Limit    int
	Offset   int
}
