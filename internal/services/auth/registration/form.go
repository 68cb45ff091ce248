package registration

import (
	"net/url"
	"strings"
)

const (
	// FieldEmail is the form field carrying the identifier.
	FieldEmail = "email"
	// FieldPassword is the form field carrying the secret.
	FieldPassword = "password"
)

// Form is the submitted registration form.
type Form struct {
	Email    string
	Password string
}

// FormFromValues reads the registration fields from submitted form values.
// Missing fields become empty strings and fail validation later.
func FormFromValues(values url.Values) Form {
	return Form{
		Email:    strings.TrimSpace(values.Get(FieldEmail)),
		Password: values.Get(FieldPassword),
	}
}

// Values encodes the form for submission.
func (f Form) Values() url.Values {
	values := url.Values{}
	values.Set(FieldEmail, f.Email)
	values.Set(FieldPassword, f.Password)
	return values
}
