package model

import "time"

// Session is the server side record of an issued bearer token. A token
// without a row here is treated as revoked.
type Session struct {
	Token     string    `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"index"`
}

// SessionUser is a session joined with its owner's public fields
type SessionUser struct {
	Token     string
	UserID    uint
	Email     string
	Name      string
	CreatedAt time.Time
}
