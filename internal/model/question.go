package model

import (
	"slices"
	"time"
)

type QuestionType string

const (
	ShortText      QuestionType = "shorttext"
	Paragraph      QuestionType = "paragraph"
	MultipleChoice QuestionType = "multiplechoice"
	Checkbox       QuestionType = "checkbox"
	Dropdown       QuestionType = "dropdown"
)

var QuestionTypes = []QuestionType{ShortText, Paragraph, MultipleChoice, Checkbox, Dropdown}

func (t QuestionType) Valid() bool {
	return slices.Contains(QuestionTypes, t)
}

// HasOptions reports whether questions of this type need a list of options
func (t QuestionType) HasOptions() bool {
	return t == MultipleChoice || t == Checkbox || t == Dropdown
}

type Question struct {
	ID        uint         `gorm:"primaryKey;autoIncrement" json:"id,string"`
	FormID    uint         `gorm:"index;not null" json:"formId,string"`
	Text      string       `gorm:"not null" json:"text"`
	Type      QuestionType `gorm:"not null" json:"type"`
	Required  bool         `gorm:"not null;default:false" json:"required"`
	Options   StringSlice  `json:"options,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`

	Answers []AnswerValue `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}
