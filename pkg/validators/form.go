package validators

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
)

var (
	ErrTitleEmpty         = errors.New("Title is required")
	ErrTitleTooLong       = errors.New("Title must be at most 200 characters")
	ErrDescriptionTooLong = errors.New("Description must be at most 500 characters")
	ErrNameEmpty          = errors.New("Name is required")
)

func TitleValidator(t string) error {
	if strings.TrimSpace(t) == "" {
		return ErrTitleEmpty
	}

	if utf8.RuneCountInString(t) > MaxTitleLength {
		return ErrTitleTooLong
	}

	return nil
}

// DescriptionValidator counts characters, not bytes
func DescriptionValidator(d string) error {
	if utf8.RuneCountInString(d) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	return nil
}

func NameValidator(n string) error {
	if strings.TrimSpace(n) == "" {
		return ErrNameEmpty
	}

	return nil
}
