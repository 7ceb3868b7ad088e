package forms

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MsgRequired         = "This field is required."
	MsgInvalidEmail     = "Enter a valid email address."
	MsgInvalidUsername  = "Letters, digits and _ only."
	MsgPasswordMismatch = "The password and your confirmation do not match."
)

// Check validates one value and returns a message, or "" when it passes
type Check func(value string) string

// Validator inspects a form and reports zero or more errors. Validators run
// in order and receive the errors reported before them.
type Validator func(found Errors) []FieldError

// Run executes validators in order and collects every error they report
func Run(validators ...Validator) Errors {
	var errs Errors
	for _, v := range validators {
		errs = append(errs, v(errs)...)
	}
	return errs
}

// Field validates a submitted value. An empty value fails when required and
// skips the checks otherwise; the first failing check is reported.
func Field(field, value string, required bool, checks ...Check) Validator {
	return func(Errors) []FieldError {
		if value == "" {
			if required {
				return []FieldError{{Field: field, Message: MsgRequired}}
			}
			return nil
		}
		for _, check := range checks {
			if msg := check(value); msg != "" {
				return []FieldError{{Field: field, Message: msg}}
			}
		}
		return nil
	}
}

// OptionalField validates a value that may be absent from the request.
// Absent values fail only when required; present values behave like Field.
func OptionalField(field string, value *string, required bool, checks ...Check) Validator {
	if value == nil {
		return func(Errors) []FieldError {
			if required {
				return []FieldError{{Field: field, Message: MsgRequired}}
			}
			return nil
		}
	}
	return Field(field, *value, required, checks...)
}

// Present fails when a non-string value is missing from the request
func Present(field string, present bool) Validator {
	return func(Errors) []FieldError {
		if !present {
			return []FieldError{{Field: field, Message: MsgRequired}}
		}
		return nil
	}
}

// Confirmation reports a mismatch on confirmField when value and
// confirmation differ. It stays silent when either field already failed.
func Confirmation(field, value, confirmField, confirmation string) Validator {
	return func(found Errors) []FieldError {
		if found.Has(field) || found.Has(confirmField) {
			return nil
		}
		if value != confirmation {
			return []FieldError{{Field: confirmField, Message: MsgPasswordMismatch}}
		}
		return nil
	}
}

// MinLength counts characters, not bytes
func MinLength(n int) Check {
	return func(value string) string {
		if l := utf8.RuneCountInString(value); l < n {
			return fmt.Sprintf("Ensure this value has at least %d characters (it has %d).", n, l)
		}
		return ""
	}
}

// MaxLength counts characters, not bytes
func MaxLength(n int) Check {
	return func(value string) string {
		if l := utf8.RuneCountInString(value); l > n {
			return fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", n, l)
		}
		return ""
	}
}

// Pattern fails with message when value does not match re
func Pattern(re *regexp.Regexp, message string) Check {
	return func(value string) string {
		if !re.MatchString(value) {
			return message
		}
		return ""
	}
}

// Email accepts a bare address (no display name) whose domain is a dotted
// host name or localhost
func Email() Check {
	return func(value string) string {
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != value {
			return MsgInvalidEmail
		}
		at := strings.LastIndex(value, "@")
		if at <= 0 {
			return MsgInvalidEmail
		}
		domain := value[at+1:]
		if domain == "localhost" {
			return ""
		}
		if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") || strings.Contains(domain, "..") {
			return MsgInvalidEmail
		}
		return ""
	}
}
