package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailValidator(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"ada@example.com", nil},
		{"", ErrEmailEmpty},
		{"not-an-email", ErrEmailInvalid},
		{"Ada <ada@example.com>", ErrEmailInvalid},
		{strings.Repeat("a", 250) + "@x.io", ErrEmailTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EmailValidator(tt.in))
		})
	}
}

func TestPasswordValidator(t *testing.T) {
	assert.Equal(t, ErrPasswordEmpty, PasswordValidator(""))
	assert.Equal(t, ErrPasswordTooShort, PasswordValidator("short"))
	assert.Equal(t, ErrPasswordTooLong, PasswordValidator(strings.Repeat("x", 256)))
	assert.NoError(t, PasswordValidator("password123"))
}

func TestFormValidators(t *testing.T) {
	assert.Equal(t, ErrTitleEmpty, TitleValidator("  "))
	assert.Equal(t, ErrTitleTooLong, TitleValidator(strings.Repeat("t", 201)))
	assert.NoError(t, TitleValidator("Survey"))

	assert.NoError(t, DescriptionValidator(""))
	assert.NoError(t, DescriptionValidator(strings.Repeat("é", 500)))
	assert.Equal(t, ErrDescriptionTooLong, DescriptionValidator(strings.Repeat("d", 501)))

	assert.Equal(t, ErrNameEmpty, NameValidator(""))
}

func TestQuestionID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want uint
		err  error
	}{
		{"number", `12`, 12, nil},
		{"string", `"12"`, 12, nil},
		{"missing", ``, 0, ErrAnswerMissing},
		{"null", `null`, 0, ErrAnswerMissing},
		{"zero", `0`, 0, ErrQuestionIDInvalid},
		{"negative", `-3`, 0, ErrQuestionIDInvalid},
		{"fraction", `1.5`, 0, ErrQuestionIDInvalid},
		{"word", `"abc"`, 0, ErrQuestionIDInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuestionID([]byte(tt.raw))
			assert.Equal(t, tt.err, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnswerText(t *testing.T) {
	got, err := AnswerText([]byte(`"hello \"world\""`))
	require.NoError(t, err)
	assert.Equal(t, `hello "world"`, got)

	got, err = AnswerText([]byte(`[ "A", "B" ]`))
	require.NoError(t, err)
	assert.Equal(t, `["A","B"]`, got)

	got, err = AnswerText([]byte(`42`))
	require.NoError(t, err)
	assert.Equal(t, "42", got)

	_, err = AnswerText(nil)
	assert.Equal(t, ErrAnswerMissing, err)

	_, err = AnswerText([]byte(`null`))
	assert.Equal(t, ErrAnswerMissing, err)
}

func TestOptionalString(t *testing.T) {
	got, err := OptionalString(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = OptionalString([]byte(`"Ada"`))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", *got)

	_, err = OptionalString([]byte(`7`))
	assert.Equal(t, ErrNotAString, err)
}
