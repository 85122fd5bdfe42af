package db

import (
	"bitwise74/forms-api/internal/model"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const seedAdminMigration = "0001_seed_admin_user"

type PasswordHasher interface {
	GenerateFromPassword(p string) (string, error)
}

type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Seed creates the configured admin account. It runs once per database, so
// an admin deleted later on isn't brought back on the next start.
func Seed(gdb *gorm.DB, h PasswordHasher, o SeedOptions) error {
	if o.AdminEmail == "" || o.AdminPassword == "" {
		return nil
	}

	if o.AdminName == "" {
		o.AdminName = "Admin User"
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		var applied model.Migration
		err := tx.Where("name = ?", seedAdminMigration).First(&applied).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to read migration ledger, %w", err)
		}

		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", o.AdminEmail).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check admin user, %w", err)
		}

		if count == 0 {
			hash, err := h.GenerateFromPassword(o.AdminPassword)
			if err != nil {
				return fmt.Errorf("failed to hash admin password, %w", err)
			}

			if err := tx.Create(&model.User{
				Email:    o.AdminEmail,
				Password: hash,
				Name:     o.AdminName,
			}).Error; err != nil {
				return fmt.Errorf("failed to create admin user, %w", err)
			}

			zap.L().Info("Admin user created", zap.String("email", o.AdminEmail))
		}

		return tx.Create(&model.Migration{Name: seedAdminMigration}).Error
	})
}
