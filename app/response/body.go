// Package response contains the submission endpoints of a form
package response

import (
	"bitwise74/forms-api/internal/store"
	"bitwise74/forms-api/pkg/fault"
	"bitwise74/forms-api/pkg/validators"
	"bytes"
	"encoding/json"
	"fmt"
)

type answerBody struct {
	QuestionID json.RawMessage `json:"questionId"`
	Answer     json.RawMessage `json:"answer"`
}

// responseBody keeps every field raw so a missing field, a null and a
// wrongly typed value can be told apart
type responseBody struct {
	RespondentName  json.RawMessage `json:"respondentName"`
	RespondentEmail json.RawMessage `json:"respondentEmail"`
	Answers         json.RawMessage `json:"answers"`
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func (b *responseBody) respondent() (name, email *string, err error) {
	name, err = validators.OptionalString(b.RespondentName)
	if err != nil {
		return nil, nil, fault.Validation("Validation failed", fault.Detail{
			Field:   "respondentName",
			Message: "respondentName must be a string",
		})
	}

	email, err = validators.OptionalString(b.RespondentEmail)
	if err != nil {
		return nil, nil, fault.Validation("Validation failed", fault.Detail{
			Field:   "respondentEmail",
			Message: "respondentEmail must be a string",
		})
	}

	return name, email, nil
}

// respondentPatch is respondent for updates, where an explicit null clears
// the stored value and an absent field leaves it alone
func (b *responseBody) respondentPatch() (name, email store.Nullable[string], err error) {
	n, e, err := b.respondent()
	if err != nil {
		return name, email, err
	}

	return nullable(b.RespondentName, n), nullable(b.RespondentEmail, e), nil
}

func nullable(raw json.RawMessage, v *string) store.Nullable[string] {
	if len(bytes.TrimSpace(raw)) == 0 {
		return store.Nullable[string]{}
	}
	if v == nil {
		return store.Null[string]()
	}

	return store.Value(*v)
}

// answers decodes the answers array. The result is nil only when the field
// was absent or null.
func (b *responseBody) answers() ([]store.AnswerInput, error) {
	if isAbsent(b.Answers) {
		return nil, nil
	}

	var raw []answerBody
	if err := json.Unmarshal(b.Answers, &raw); err != nil {
		return nil, fault.Validation("Validation failed", fault.Detail{
			Field:   "answers",
			Message: "Answers must be an array",
		})
	}

	out := make([]store.AnswerInput, 0, len(raw))

	for i, a := range raw {
		id, err := validators.QuestionID(a.QuestionID)
		if err != nil {
			return nil, fault.Validation(validators.ErrAnswerMissing.Error(), fault.Detail{
				Field:   fmt.Sprintf("answers[%d].questionId", i),
				Message: err.Error(),
			})
		}

		text, err := validators.AnswerText(a.Answer)
		if err != nil {
			return nil, fault.Validation(validators.ErrAnswerMissing.Error(), fault.Detail{
				Field:   fmt.Sprintf("answers[%d].answer", i),
				Message: err.Error(),
			})
		}

		out = append(out, store.AnswerInput{QuestionID: id, Answer: text})
	}

	return out, nil
}
