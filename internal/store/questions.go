package store

import (
	"bitwise74/forms-api/internal/model"
	"bitwise74/forms-api/pkg/fault"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type QuestionStore struct {
	db    *gorm.DB
	forms *FormStore
}

func NewQuestionStore(db *gorm.DB) *QuestionStore {
	return &QuestionStore{db: db, forms: NewFormStore(db)}
}

// WithTx returns a store bound to an open transaction
func (s *QuestionStore) WithTx(tx *gorm.DB) *QuestionStore {
	return &QuestionStore{db: tx, forms: s.forms.WithTx(tx)}
}

type QuestionInput struct {
	Text     string
	Type     model.QuestionType
	Required bool
	Options  []string
}

type QuestionPatch struct {
	Text     *string
	Type     *model.QuestionType
	Required *bool
	Options  *[]string
}

// ValidateQuestion checks a fully merged question and drops options on
// types that don't use them
func ValidateQuestion(in *QuestionInput) error {
	var details []fault.Detail

	if strings.TrimSpace(in.Text) == "" {
		details = append(details, fault.Detail{Field: "text", Message: "Question text is required"})
	}

	switch {
	case in.Type == "":
		details = append(details, fault.Detail{Field: "type", Message: "Question type is required"})
	case !in.Type.Valid():
		names := make([]string, len(model.QuestionTypes))
		for i, t := range model.QuestionTypes {
			names[i] = string(t)
		}
		details = append(details, fault.Detail{
			Field:   "type",
			Message: "Question type must be one of: " + strings.Join(names, ", "),
		})
	case in.Type.HasOptions():
		if len(in.Options) == 0 {
			details = append(details, fault.Detail{Field: "options", Message: "Options are required for this question type"})
		}
	default:
		in.Options = nil
	}

	if len(details) > 0 {
		return fault.Validation("Validation failed", details...)
	}

	return nil
}

func (s *QuestionStore) Create(ctx context.Context, formID uint, in QuestionInput) (*model.Question, error) {
	if err := ValidateQuestion(&in); err != nil {
		return nil, err
	}

	q := model.Question{
		FormID:   formID,
		Text:     in.Text,
		Type:     in.Type,
		Required: in.Required,
		Options:  in.Options,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.forms.WithTx(tx).Exists(ctx, formID)
		if err != nil {
			return err
		}
		if !ok {
			return FormNotFound(formID)
		}

		return tx.Create(&q).Error
	})
	if err != nil {
		return nil, fault.Storage("failed to create question", err)
	}

	return &q, nil
}

// Get returns nil if the question doesn't exist under formID
func (s *QuestionStore) Get(ctx context.Context, formID, id uint) (*model.Question, error) {
	var q model.Question

	err := s.db.WithContext(ctx).
		Where("id = ? AND form_id = ?", id, formID).
		First(&q).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fault.Storage("failed to fetch question", err)
	}

	return &q, nil
}

// List returns the questions of a form in creation order
func (s *QuestionStore) List(ctx context.Context, formID uint) ([]model.Question, error) {
	ok, err := s.forms.Exists(ctx, formID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, FormNotFound(formID)
	}

	questions := []model.Question{}

	err = s.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("id asc").
		Find(&questions).
		Error

	return questions, fault.Storage("failed to list questions", err)
}

// BelongsToForm reports whether question id exists and is part of formID
func (s *QuestionStore) BelongsToForm(ctx context.Context, id, formID uint) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).
		Model(&model.Question{}).
		Where("id = ? AND form_id = ?", id, formID).
		Count(&count).
		Error
	if err != nil {
		return false, fault.Storage("failed to check question", err)
	}

	return count > 0, nil
}

// Update applies p to the question. Returns nil if the question doesn't
// exist under formID.
func (s *QuestionStore) Update(ctx context.Context, formID, id uint, p QuestionPatch) (*model.Question, error) {
	var (
		q     model.Question
		found bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND form_id = ?", id, formID).First(&q).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		found = true

		merged := QuestionInput{
			Text:     q.Text,
			Type:     q.Type,
			Required: q.Required,
			Options:  q.Options,
		}
		if p.Text != nil {
			merged.Text = *p.Text
		}
		if p.Type != nil {
			merged.Type = *p.Type
		}
		if p.Required != nil {
			merged.Required = *p.Required
		}
		if p.Options != nil {
			merged.Options = *p.Options
		}

		if err := ValidateQuestion(&merged); err != nil {
			return err
		}

		err = tx.Model(&q).Updates(map[string]any{
			"text":       merged.Text,
			"type":       merged.Type,
			"required":   merged.Required,
			"options":    model.StringSlice(merged.Options),
			"updated_at": time.Now(),
		}).Error
		if err != nil {
			return err
		}

		return tx.First(&q, id).Error
	})
	if err != nil {
		return nil, fault.Storage("failed to update question", err)
	}

	if !found {
		return nil, nil
	}

	return &q, nil
}

// Delete removes the question and every answer given to it. Returns false
// if the question doesn't exist under formID.
func (s *QuestionStore) Delete(ctx context.Context, formID, id uint) (bool, error) {
	found := false

	err := s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		r := tx.Where("question_id IN (SELECT id FROM questions WHERE id = ? AND form_id = ?)", id, formID).
			Delete(&model.AnswerValue{})
		if r.Error != nil {
			return r.Error
		}

		r = tx.Where("id = ? AND form_id = ?", id, formID).Delete(&model.Question{})
		if r.Error != nil {
			return r.Error
		}

		found = r.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fault.Storage("failed to delete question", err)
	}

	return found, nil
}

func questionNotInForm(id uint) error {
	msg := fmt.Sprintf("Question with ID %d not found", id)
	return fault.Validation(msg, fault.Detail{Field: "answers", Message: msg})
}
