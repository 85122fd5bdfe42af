package validators

import (
	"bytes"
	"errors"
	"strconv"

	json "github.com/goccy/go-json"
)

var (
	ErrAnswerMissing     = errors.New("Each answer must have questionId and answer fields")
	ErrQuestionIDInvalid = errors.New("questionId must be a positive integer")
	ErrNotAString        = errors.New("must be a string")
)

// QuestionID reads an id sent either as a JSON number or as a numeric
// string, since ids are serialized as strings on the way out
func QuestionID(raw []byte) (uint, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, ErrAnswerMissing
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, ErrQuestionIDInvalid
		}
	}

	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrQuestionIDInvalid
	}

	return uint(id), nil
}

// AnswerText turns an answer value into the text that gets stored. Strings
// are kept as is, anything else (checkbox arrays, numbers, booleans) is
// stored as compact JSON.
func AnswerText(raw []byte) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrAnswerMissing
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// OptionalString reads a field that may be absent, null or a string.
// The returned pointer is nil unless a string was sent.
func OptionalString(raw []byte) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] != '"' {
		return nil, ErrNotAString
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, ErrNotAString
	}

	return &s, nil
}
