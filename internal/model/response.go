package model

import "time"

// Response is one respondent's submission to a form. Answers keep the order
// they were written in.
type Response struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id,string"`
	FormID          uint      `gorm:"index;not null" json:"formId,string"`
	RespondentName  *string   `json:"respondentName"`
	RespondentEmail *string   `json:"respondentEmail"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Answers []AnswerValue `gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE" json:"answers"`
}

type AnswerValue struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	ResponseID uint      `gorm:"index;not null" json:"-"`
	QuestionID uint      `gorm:"index;not null" json:"questionId,string"`
	AnswerText string    `json:"answer"`
	CreatedAt  time.Time `json:"-"`
}
