package store

import (
	"bitwise74/forms-api/internal/model"
	"bitwise74/forms-api/pkg/fault"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var errEmailTaken = fault.Conflict("Email already exists")

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// UserPatch carries the fields of a profile update. A nil field is left
// untouched.
type UserPatch struct {
	Email        *string
	Name         *string
	PasswordHash *string
}

func (s *UserStore) Create(ctx context.Context, email, passwordHash, name string) (*model.User, error) {
	user := model.User{
		Email:    email,
		Password: passwordHash,
		Name:     name,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, email, 0)
		if err != nil {
			return err
		}
		if taken {
			return errEmailTaken
		}

		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errEmailTaken
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, fault.Storage("failed to create user", err)
	}

	return &user, nil
}

func (s *UserStore) Get(ctx context.Context, id uint) (*model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.NotFound("User not found", fault.Detail{
				Message: fmt.Sprintf("User with ID %d does not exist", id),
			})
		}

		return nil, fault.Storage("failed to fetch user", err)
	}

	return &user, nil
}

// GetByEmail returns nil if no user has that email
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fault.Storage("failed to fetch user", err)
	}

	return &user, nil
}

func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}

	err := s.db.WithContext(ctx).Order("id asc").Find(&users).Error

	return users, fault.Storage("failed to list users", err)
}

func (s *UserStore) Update(ctx context.Context, id uint, p UserPatch) (*model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fault.NotFound("User not found", fault.Detail{
					Message: fmt.Sprintf("User with ID %d does not exist", id),
				})
			}
			return err
		}

		fields := map[string]any{"updated_at": time.Now()}

		if p.Email != nil && *p.Email != user.Email {
			taken, err := emailTaken(tx, *p.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return errEmailTaken
			}

			fields["email"] = *p.Email
		}

		if p.Name != nil {
			fields["name"] = *p.Name
		}

		if p.PasswordHash != nil {
			fields["password"] = *p.PasswordHash
		}

		if err := tx.Model(&user).Updates(fields).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errEmailTaken
			}
			return err
		}

		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, fault.Storage("failed to update user", err)
	}

	return &user, nil
}

// Delete removes a user along with their sessions, forms and everything
// hanging off those forms. Returns false if the user doesn't exist.
func (s *UserStore) Delete(ctx context.Context, id uint) (bool, error) {
	found := false

	err := s.db.WithContext(context.WithoutCancel(ctx)).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		found = true

		var formIDs []uint
		if err := tx.Model(&model.Form{}).Where("user_id = ?", id).Pluck("id", &formIDs).Error; err != nil {
			return err
		}

		if err := purgeForms(tx, formIDs); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&model.Session{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.User{}, id).Error
	})
	if err != nil {
		return false, fault.Storage("failed to delete user", err)
	}

	return found, nil
}

func emailTaken(tx *gorm.DB, email string, exceptID uint) (bool, error) {
	var count int64

	q := tx.Model(&model.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
