// Package store holds the database accessors. Every multi-row write runs
// in a single gorm transaction.
package store

import (
	"bitwise74/forms-api/internal/model"
	"bitwise74/forms-api/pkg/fault"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, userID uint, token string) error {
	err := s.db.WithContext(ctx).Create(&model.Session{
		Token:  token,
		UserID: userID,
	}).Error

	return fault.Storage("failed to create session", err)
}

// Verify returns the session joined with its user, or nil if the token was
// never stored or has been revoked
func (s *SessionStore) Verify(ctx context.Context, token string) (*model.SessionUser, error) {
	var su model.SessionUser

	err := s.db.WithContext(ctx).
		Table("sessions").
		Select("sessions.token, sessions.user_id, sessions.created_at, users.email, users.name").
		Joins("JOIN users ON users.id = sessions.user_id").
		Where("sessions.token = ?", token).
		Take(&su).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fault.Storage("failed to verify session", err)
	}

	return &su, nil
}

// Delete is idempotent
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	err := s.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.Session{}).
		Error

	return fault.Storage("failed to delete session", err)
}

// DeleteOlderThan removes sessions created before cutoff and returns how
// many were removed
func (s *SessionStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.Session{})

	return r.RowsAffected, fault.Storage("failed to prune sessions", r.Error)
}
