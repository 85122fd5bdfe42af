// Package model defines database models
package model

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // argon2id PHC string
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Sessions []Session `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Forms    []Form    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
