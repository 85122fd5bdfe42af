package model

import "time"

type Form struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id,string"`
	UserID      uint      `gorm:"index;not null" json:"userId,string"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null;default:''" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Questions []Question `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
	Responses []Response `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
}
