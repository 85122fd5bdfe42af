package service

import (
	"bitwise74/forms-api/internal/model"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// ObjectPutter stores a blob under a key
type ObjectPutter interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader) error
}

type FormSource interface {
	Get(ctx context.Context, id uint) (*model.Form, error)
}

type QuestionSource interface {
	List(ctx context.Context, formID uint) ([]model.Question, error)
}

type ResponseSource interface {
	FindAll(ctx context.Context, formID uint) ([]model.Response, error)
}

// FormExport is the document written for each export
type FormExport struct {
	ExportedAt time.Time        `json:"exportedAt"`
	Form       *model.Form      `json:"form"`
	Questions  []model.Question `json:"questions"`
	Responses  []model.Response `json:"responses"`
}

// Exporter snapshots a form with its questions and responses into object
// storage
type Exporter struct {
	putter    ObjectPutter
	forms     FormSource
	questions QuestionSource
	responses ResponseSource
	now       func() time.Time
}

func NewExporter(p ObjectPutter, f FormSource, q QuestionSource, r ResponseSource) *Exporter {
	return &Exporter{
		putter:    p,
		forms:     f,
		questions: q,
		responses: r,
		now:       time.Now,
	}
}

// ExportForm uploads the snapshot and returns its object key. Errors from
// the sources are returned unchanged.
func (e *Exporter) ExportForm(ctx context.Context, formID uint) (string, error) {
	form, err := e.forms.Get(ctx, formID)
	if err != nil {
		return "", err
	}

	questions, err := e.questions.List(ctx, formID)
	if err != nil {
		return "", err
	}

	responses, err := e.responses.FindAll(ctx, formID)
	if err != nil {
		return "", err
	}

	now := e.now().UTC()
	doc := FormExport{
		ExportedAt: now,
		Form:       form,
		Questions:  questions,
		Responses:  responses,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode export, %w", err)
	}

	nonce, err := gonanoid.New(8)
	if err != nil {
		return "", fmt.Errorf("failed to generate export key, %w", err)
	}

	key := fmt.Sprintf("exports/forms/%d/%s-%s.json", formID, now.Format("20060102T150405Z"), nonce)

	if err := e.putter.PutObject(ctx, key, "application/json", bytes.NewReader(body)); err != nil {
		return "", err
	}

	zap.L().Info("Form exported",
		zap.Uint("formID", formID),
		zap.String("key", key),
		zap.Int("responses", len(responses)),
	)

	return key, nil
}
