package validators

import "errors"

var (
	ErrPasswordEmpty    = errors.New("Password is required")
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("Password is too long")
)

func PasswordValidator(p string) error {
	switch {
	case p == "":
		return ErrPasswordEmpty
	case len(p) < 8:
		return ErrPasswordTooShort
	case len(p) > 255:
		return ErrPasswordTooLong
	}

	return nil
}
