package internal

import (
	"bitwise74/forms-api/internal/service"
	"bitwise74/forms-api/internal/store"
	"bitwise74/forms-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB        *gorm.DB
	Argon     *security.ArgonHash
	Tokens    *security.TokenIssuer
	Users     *store.UserStore
	Sessions  *store.SessionStore
	Forms     *store.FormStore
	Questions *store.QuestionStore
	Responses *store.ResponseStore
	// Exporter is nil when object storage is disabled
	Exporter *service.Exporter
}

// NewDeps wires the stores on top of db
func NewDeps(db *gorm.DB, argon *security.ArgonHash, tokens *security.TokenIssuer) *Deps {
	return &Deps{
		DB:        db,
		Argon:     argon,
		Tokens:    tokens,
		Users:     store.NewUserStore(db),
		Sessions:  store.NewSessionStore(db),
		Forms:     store.NewFormStore(db),
		Questions: store.NewQuestionStore(db),
		Responses: store.NewResponseStore(db),
	}
}
