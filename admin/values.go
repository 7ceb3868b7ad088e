package admin

import (
	"net/url"

	"recipe-service/forms"
)

// UserAddFromValues reads a submitted add form
func UserAddFromValues(v url.Values) forms.UserAdd {
	return forms.UserAdd{
		FirstName:            v.Get(forms.FieldFirstName),
		LastName:             v.Get(forms.FieldLastName),
		Email:                v.Get(forms.FieldEmail),
		Username:             v.Get(forms.FieldUsername),
		Password:             v.Get(forms.FieldPassword),
		PasswordConfirmation: v.Get(forms.FieldPasswordConfirmation),
		IsActive:             checked(v, forms.FieldIsActive),
	}
}

// UserChangeFromValues reads a submitted change form, including whatever
// arrived in the password field
func UserChangeFromValues(v url.Values) forms.UserChange {
	return forms.UserChange{
		FirstName: v.Get(forms.FieldFirstName),
		LastName:  v.Get(forms.FieldLastName),
		Email:     v.Get(forms.FieldEmail),
		Username:  v.Get(forms.FieldUsername),
		Password:  v.Get(forms.FieldPassword),
		IsActive:  checked(v, forms.FieldIsActive),
	}
}

// PasswordChangeFromValues reads a submitted password change form
func PasswordChangeFromValues(v url.Values) forms.PasswordChange {
	return forms.PasswordChange{
		Password:             v.Get(forms.FieldPassword),
		PasswordConfirmation: v.Get(forms.FieldPasswordConfirmation),
	}
}

// checked follows HTML checkbox semantics: absent means false
func checked(v url.Values, name string) bool {
	switch v.Get(name) {
	case "on", "true", "1":
		return true
	}
	return false
}
