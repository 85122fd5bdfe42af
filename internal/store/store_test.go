package store

import (
	"bitwise74/forms-api/db"
	"bitwise74/forms-api/internal/model"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	users     *UserStore
	sessions  *SessionStore
	forms     *FormStore
	questions *QuestionStore
	responses *ResponseStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	// db.New refuses to create the file when running in a container
	path := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	gdb, err := db.New(db.Options{
		Driver: db.DriverSQLite,
		DSN:    path,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &fixture{
		db:        gdb,
		users:     NewUserStore(gdb),
		sessions:  NewSessionStore(gdb),
		forms:     NewFormStore(gdb),
		questions: NewQuestionStore(gdb),
		responses: NewResponseStore(gdb),
	}
}

func (f *fixture) user(t *testing.T, email string) *model.User {
	t.Helper()

	u, err := f.users.Create(context.Background(), email, "hash", "Test User")
	require.NoError(t, err)
	return u
}

func (f *fixture) form(t *testing.T, ownerID uint, title string) *model.Form {
	t.Helper()

	form, err := f.forms.Create(context.Background(), ownerID, title, "")
	require.NoError(t, err)
	return form
}

func (f *fixture) question(t *testing.T, formID uint, typ model.QuestionType, options ...string) *model.Question {
	t.Helper()

	q, err := f.questions.Create(context.Background(), formID, QuestionInput{
		Text:    "Question " + string(typ),
		Type:    typ,
		Options: options,
	})
	require.NoError(t, err)
	return q
}

func (f *fixture) count(t *testing.T, m any, where string, args ...any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, f.db.Model(m).Where(where, args...).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }
