package inputval

import (
	"errors"
	"strings"
)

var (
	// ErrMissingFields means name, email or message was blank.
	ErrMissingFields = errors.New("required fields missing")
	// ErrInvalidEmail means the email failed the format check.
	ErrInvalidEmail = errors.New("invalid email format")
)

// ContactInput is a contact form submission.
type ContactInput struct {
	Name    string `validate:"required,max=200" label:"Name"`
	Email   string `validate:"required,max=254,email" label:"Email"`
	Contact string `validate:"max=100" label:"Contact"`
	Message string `validate:"required,max=5000" label:"Message"`
}

// Trimmed returns a copy with every field trimmed of surrounding space.
func (in ContactInput) Trimmed() ContactInput {
	return ContactInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Contact: strings.TrimSpace(in.Contact),
		Message: strings.TrimSpace(in.Message),
	}
}

// CheckContact validates in. Presence is checked before format: any blank
// required field yields ErrMissingFields, otherwise a bad email yields
// ErrInvalidEmail. Length limits surface as a plain error.
func CheckContact(in ContactInput) error {
	res := Validate(in.Trimmed())
	switch {
	case !res.HasErrors():
		return nil
	case res.Failed("required"):
		return ErrMissingFields
	case res.Failed("email"):
		return ErrInvalidEmail
	default:
		return errors.New(res.First())
	}
}
