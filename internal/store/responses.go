package store

import (
	"bitwise74/forms-api/internal/model"
	"bitwise74/forms-api/pkg/fault"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type AnswerInput struct {
	QuestionID uint
	Answer     string
}

type ResponseInput struct {
	RespondentName  *string
	RespondentEmail *string
	Answers         []AnswerInput
}

// Nullable is a patch value that can be left out, set, or set to null
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Null clears the stored value
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Value sets the stored value to v
func Value[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// ResponsePatch updates a response. Fields that aren't Set are left
// untouched. A non nil Answers replaces the whole answer set, an empty
// slice clears it.
type ResponsePatch struct {
	RespondentName  Nullable[string]
	RespondentEmail Nullable[string]
	Answers         *[]AnswerInput
}

// ResponseStore keeps a response and its answers consistent. Each write
// runs in one transaction together with the question checks, so readers
// only ever see complete answer sets. Once started, a write runs to the
// end even if the caller goes away.
type ResponseStore struct {
	db        *gorm.DB
	forms     *FormStore
	questions *QuestionStore
}

func NewResponseStore(db *gorm.DB) *ResponseStore {
	return &ResponseStore{
		db:        db,
		forms:     NewFormStore(db),
		questions: NewQuestionStore(db),
	}
}

func (s *ResponseStore) Create(ctx context.Context, formID uint, in ResponseInput) (*model.Response, error) {
	ok, err := s.forms.Exists(ctx, formID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, FormNotFound(formID)
	}

	if len(in.Answers) == 0 {
		return nil, fault.Validation("At least one answer is required", fault.Detail{
			Field:   "answers",
			Message: "At least one answer is required",
		})
	}

	var id uint
	ctx = context.WithoutCancel(ctx)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The form may have been removed since the check above
		ok, err := s.forms.WithTx(tx).Exists(ctx, formID)
		if err != nil {
			return err
		}
		if !ok {
			return FormNotFound(formID)
		}

		r := model.Response{
			FormID:          formID,
			RespondentName:  in.RespondentName,
			RespondentEmail: in.RespondentEmail,
		}
		if err := tx.Omit("Answers").Create(&r).Error; err != nil {
			return err
		}
		id = r.ID

		return insertAnswers(ctx, s.questions.WithTx(tx), formID, r.ID, in.Answers)
	})
	if err != nil {
		return nil, fault.Storage("failed to create response", err)
	}

	return s.FindByID(ctx, formID, id)
}

// FindAll returns every response of a form, newest first
func (s *ResponseStore) FindAll(ctx context.Context, formID uint) ([]model.Response, error) {
	ok, err := s.forms.Exists(ctx, formID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, FormNotFound(formID)
	}

	responses := []model.Response{}

	err = s.db.WithContext(ctx).
		Preload("Answers", orderAnswers).
		Where("form_id = ?", formID).
		Order("created_at desc, id desc").
		Find(&responses).
		Error
	if err != nil {
		return nil, fault.Storage("failed to list responses", err)
	}

	for i := range responses {
		if responses[i].Answers == nil {
			responses[i].Answers = []model.AnswerValue{}
		}
	}

	return responses, nil
}

// FindByID returns nil if the response doesn't exist under formID
func (s *ResponseStore) FindByID(ctx context.Context, formID, id uint) (*model.Response, error) {
	r, err := findResponse(s.db.WithContext(ctx), formID, id)
	if err != nil {
		return nil, fault.Storage("failed to fetch response", err)
	}

	return r, nil
}

// Update returns nil if the response doesn't exist under formID
func (s *ResponseStore) Update(ctx context.Context, formID, id uint, p ResponsePatch) (*model.Response, error) {
	var updated *model.Response
	ctx = context.WithoutCancel(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r model.Response
		err := tx.Where("id = ? AND form_id = ?", id, formID).First(&r).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		fields := map[string]any{"updated_at": time.Now()}
		setNullable(fields, "respondent_name", p.RespondentName)
		setNullable(fields, "respondent_email", p.RespondentEmail)

		if err := tx.Model(&r).Updates(fields).Error; err != nil {
			return err
		}

		if p.Answers != nil {
			if err := tx.Where("response_id = ?", r.ID).Delete(&model.AnswerValue{}).Error; err != nil {
				return err
			}

			if err := insertAnswers(ctx, s.questions.WithTx(tx), formID, r.ID, *p.Answers); err != nil {
				return err
			}
		}

		updated, err = findResponse(tx, formID, id)
		return err
	})
	if err != nil {
		return nil, fault.Storage("failed to update response", err)
	}

	return updated, nil
}

// Delete removes the response and its answers. Returns false if the
// response doesn't exist under formID.
func (s *ResponseStore) Delete(ctx context.Context, formID, id uint) (bool, error) {
	found := false

	err := s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.Response{}).
			Where("id = ? AND form_id = ?", id, formID).
			Count(&count).
			Error
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		found = true

		if err := tx.Where("response_id = ?", id).Delete(&model.AnswerValue{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&model.Response{}).Error
	})
	if err != nil {
		return false, fault.Storage("failed to delete response", err)
	}

	return found, nil
}

func setNullable[T any](fields map[string]any, column string, v Nullable[T]) {
	if !v.Set {
		return
	}

	if v.Value == nil {
		fields[column] = nil
	} else {
		fields[column] = *v.Value
	}
}

// insertAnswers writes answers in input order. Every question is checked
// against formID first, any miss aborts the surrounding transaction.
// questions must be bound to that transaction.
func insertAnswers(ctx context.Context, questions *QuestionStore, formID, responseID uint, answers []AnswerInput) error {
	tx := questions.db

	for _, a := range answers {
		ok, err := questions.BelongsToForm(ctx, a.QuestionID, formID)
		if err != nil {
			return err
		}
		if !ok {
			return questionNotInForm(a.QuestionID)
		}

		err = tx.Create(&model.AnswerValue{
			ResponseID: responseID,
			QuestionID: a.QuestionID,
			AnswerText: a.Answer,
		}).Error
		if err != nil {
			return err
		}
	}

	return nil
}

func findResponse(db *gorm.DB, formID, id uint) (*model.Response, error) {
	var r model.Response

	err := db.
		Preload("Answers", orderAnswers).
		Where("id = ? AND form_id = ?", id, formID).
		First(&r).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if r.Answers == nil {
		r.Answers = []model.AnswerValue{}
	}

	return &r, nil
}

func orderAnswers(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}
