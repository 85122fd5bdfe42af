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

// FormSorts maps the accepted sort keys to ORDER BY clauses
var FormSorts = map[string]string{
	"newest": "created_at desc, id desc",
	"oldest": "created_at asc, id asc",
	"az":     "title asc, id asc",
	"za":     "title desc, id desc",
}

type FormStore struct {
	db *gorm.DB
}

func NewFormStore(db *gorm.DB) *FormStore {
	return &FormStore{db: db}
}

// WithTx returns a store bound to an open transaction
func (s *FormStore) WithTx(tx *gorm.DB) *FormStore {
	return &FormStore{db: tx}
}

type FormPatch struct {
	Title       *string
	Description *string
}

type ListOptions struct {
	Page  int // zero based
	Limit int
	Sort  string
}

// FormNotFound is the error returned for a missing form
func FormNotFound(id uint) error {
	return fault.NotFound("Form not found", fault.Detail{
		Message: fmt.Sprintf("Form with ID %d does not exist", id),
	})
}

func (s *FormStore) Create(ctx context.Context, ownerID uint, title, description string) (*model.Form, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fault.Validation("Validation failed", fault.Detail{Field: "title", Message: "Title is required"})
	}

	form := model.Form{
		UserID:      ownerID,
		Title:       title,
		Description: description,
	}

	if err := s.db.WithContext(ctx).Create(&form).Error; err != nil {
		return nil, fault.Storage("failed to create form", err)
	}

	return &form, nil
}

func (s *FormStore) Get(ctx context.Context, id uint) (*model.Form, error) {
	var form model.Form

	err := s.db.WithContext(ctx).First(&form, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, FormNotFound(id)
		}

		return nil, fault.Storage("failed to fetch form", err)
	}

	return &form, nil
}

func (s *FormStore) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).Model(&model.Form{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fault.Storage("failed to check form", err)
	}

	return count > 0, nil
}

func (s *FormStore) ListByOwner(ctx context.Context, ownerID uint, o ListOptions) ([]model.Form, error) {
	order, ok := FormSorts[o.Sort]
	if !ok {
		order = FormSorts["newest"]
	}

	forms := []model.Form{}

	q := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order(order)

	if o.Limit > 0 {
		q = q.Offset(o.Page * o.Limit).Limit(o.Limit)
	}

	if err := q.Find(&forms).Error; err != nil {
		return nil, fault.Storage("failed to list forms", err)
	}

	return forms, nil
}

func (s *FormStore) Update(ctx context.Context, id uint, p FormPatch) (*model.Form, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, fault.Validation("Validation failed", fault.Detail{Field: "title", Message: "Title is required"})
	}

	var form model.Form

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&form, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return FormNotFound(id)
			}
			return err
		}

		fields := map[string]any{"updated_at": time.Now()}
		if p.Title != nil {
			fields["title"] = *p.Title
		}
		if p.Description != nil {
			fields["description"] = *p.Description
		}

		if err := tx.Model(&form).Updates(fields).Error; err != nil {
			return err
		}

		return tx.First(&form, id).Error
	})
	if err != nil {
		return nil, fault.Storage("failed to update form", err)
	}

	return &form, nil
}

// Delete removes the form, its questions, its responses and every answer
// referencing any of them. Returns false if the form doesn't exist.
func (s *FormStore) Delete(ctx context.Context, id uint) (bool, error) {
	found := false

	err := s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Form{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		found = true

		return purgeForms(tx, []uint{id})
	})
	if err != nil {
		return false, fault.Storage("failed to delete form", err)
	}

	return found, nil
}

// purgeForms deletes forms and all their dependents inside tx. The rows are
// removed explicitly so nothing relies on the driver enforcing cascades.
func purgeForms(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	steps := []struct {
		model any
		where string
	}{
		{&model.AnswerValue{}, "response_id IN (SELECT id FROM responses WHERE form_id IN ?)"},
		{&model.AnswerValue{}, "question_id IN (SELECT id FROM questions WHERE form_id IN ?)"},
		{&model.Response{}, "form_id IN ?"},
		{&model.Question{}, "form_id IN ?"},
		{&model.Form{}, "id IN ?"},
	}

	for _, st := range steps {
		if err := tx.Where(st.where, ids).Delete(st.model).Error; err != nil {
			return err
		}
	}

	return nil
}
