package admin

import (
	"net/url"
	"strconv"

	"recipe-service/database"
	"recipe-service/forms"
	"recipe-service/models"
	"recipe-service/passwords"
)

// Base carries what every admin page shows around its content
type Base struct {
	Site     Site
	Title    string
	Actor    string
	Messages []string
	Crumbs   []Crumb
}

// Crumb is one breadcrumb link; the last crumb has no URL
type Crumb struct {
	Label string
	URL   string
}

// Field is one input of an admin form
type Field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Checked  bool
	Required bool
	Help     string
	Errors   []string
}

type IndexView struct {
	Base
	Stats     database.Stats
	CanChange bool
}

// UserRow is one line of the user list
type UserRow struct {
	ID        int
	Username  string
	Email     string
	FirstName string
	LastName  string
	IsActive  bool
	Password  string
}

// UserRows converts users for the list, showing only a password preview
func UserRows(users []models.User) []UserRow {
	rows := make([]UserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, UserRow{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			IsActive:  u.IsActive,
			Password:  passwords.Preview(u.Password),
		})
	}
	return rows
}

type UserListView struct {
	Base
	Rows      []UserRow
	Query     string
	IsActive  string
	Page      Page
	CanChange bool
}

// PageURL links to page n keeping the current search and filter
func (v UserListView) PageURL(n int) string {
	q := url.Values{}
	if v.Query != "" {
		q.Set("q", v.Query)
	}
	if v.IsActive != "" {
		q.Set("is_active", v.IsActive)
	}
	q.Set("p", strconv.Itoa(n))
	return "?" + q.Encode()
}

// FilterURL links to the first page with the is_active filter set to value
func (v UserListView) FilterURL(value string) string {
	q := url.Values{}
	if v.Query != "" {
		q.Set("q", v.Query)
	}
	if value != "" {
		q.Set("is_active", value)
	}
	if len(q) == 0 {
		return "?"
	}
	return "?" + q.Encode()
}

// PasswordDisplay is the read-only password block of the user change page
type PasswordDisplay struct {
	Summary passwords.Summary
	Invalid string
}

// NewPasswordDisplay masks encoded; a malformed hash yields a message, not an error
func NewPasswordDisplay(encoded string) PasswordDisplay {
	s, err := passwords.Summarize(encoded)
	if err != nil {
		return PasswordDisplay{Invalid: passwords.InvalidFormatMessage}
	}
	return PasswordDisplay{Summary: s}
}

type UserFormView struct {
	Base
	Action    string
	Fields    []Field
	Errors    []string
	IsAdd     bool
	UserID    int
	Password  PasswordDisplay
	CanChange bool
}

type PasswordChangeView struct {
	Base
	Action   string
	UserID   int
	Username string
	Fields   []Field
	Errors   []string
}

type DeleteView struct {
	Base
	Kind    string
	Name    string
	Action  string
	Cancel  string
	Related []string
}

// ObjectRow is one line of a recipe, step or ingredient list
type ObjectRow struct {
	ID    int
	Cells []string
}

type ObjectListView struct {
	Base
	Kind    string
	Columns []string
	Rows    []ObjectRow
	Query   string
	Page    Page
}

// PageURL links to page n keeping the current search
func (v ObjectListView) PageURL(n int) string {
	q := url.Values{}
	if v.Query != "" {
		q.Set("q", v.Query)
	}
	q.Set("p", strconv.Itoa(n))
	return "?" + q.Encode()
}

// UserAddFields lays out the add form. Passwords are never redisplayed.
func UserAddFields(f forms.UserAdd, errs forms.Errors) []Field {
	return []Field{
		textField(forms.FieldUsername, "Username", f.Username, true, errs,
			"Required. 100 characters or fewer. Lowercase letters, digits and _ only."),
		textField(forms.FieldEmail, "Email address", f.Email, true, errs, ""),
		textField(forms.FieldFirstName, "First name", f.FirstName, false, errs, ""),
		textField(forms.FieldLastName, "Last name", f.LastName, false, errs, ""),
		passwordField(forms.FieldPassword, "Password", errs, ""),
		passwordField(forms.FieldPasswordConfirmation, "Password confirmation", errs,
			"Enter the same password as before, for verification."),
		checkboxField(forms.FieldIsActive, "Active", f.IsActive, errs),
	}
}

// UserChangeFields lays out the change form; the password is shown
// separately as a PasswordDisplay
func UserChangeFields(f forms.UserChange, errs forms.Errors) []Field {
	return []Field{
		textField(forms.FieldUsername, "Username", f.Username, true, errs,
			"Required. 100 characters or fewer. Lowercase letters, digits and _ only."),
		textField(forms.FieldEmail, "Email address", f.Email, true, errs, ""),
		textField(forms.FieldFirstName, "First name", f.FirstName, false, errs, ""),
		textField(forms.FieldLastName, "Last name", f.LastName, false, errs, ""),
		checkboxField(forms.FieldIsActive, "Active", f.IsActive, errs),
	}
}

// PasswordChangeFields lays out the password change form
func PasswordChangeFields(errs forms.Errors) []Field {
	return []Field{
		passwordField(forms.FieldPassword, "Password", errs, ""),
		passwordField(forms.FieldPasswordConfirmation, "Password (again)", errs,
			"Enter the same password as before, for verification."),
	}
}

func textField(name, label, value string, required bool, errs forms.Errors, help string) Field {
	typ := "text"
	if name == forms.FieldEmail {
		typ = "email"
	}
	return Field{Name: name, Label: label, Type: typ, Value: value, Required: required, Help: help, Errors: errs.For(name)}
}

func passwordField(name, label string, errs forms.Errors, help string) Field {
	return Field{Name: name, Label: label, Type: "password", Required: true, Help: help, Errors: errs.For(name)}
}

func checkboxField(name, label string, checked bool, errs forms.Errors) Field {
	return Field{Name: name, Label: label, Type: "checkbox", Checked: checked, Errors: errs.For(name)}
}
