// Package validators holds request field checks shared by the handlers
package validators

import (
	"errors"
	"net/mail"
)

var (
	ErrEmailEmpty   = errors.New("Email is required")
	ErrEmailInvalid = errors.New("Email address is invalid")
	ErrEmailTooLong = errors.New("Email address is too long")
)

// EmailValidator accepts a bare address. Display names such as
// "Ada <ada@example.com>" are rejected since the value is stored verbatim.
func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	if len(e) > 254 {
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return ErrEmailInvalid
	}

	return nil
}
