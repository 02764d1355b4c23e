package model

import (
	"time"

	"gorm.io/gorm"
)

// Question stores choices in fixed columns A-D with optional E and F,
// the shape the question bank has always had. CorrectAnswer is the
// canonical answer key: letters sorted ascending and concatenated,
// "B" or "BD".
type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	CategoryID    uint           `json:"category_id" gorm:"not null;index"`
	Category      Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	QuestionText  string         `json:"question_text" gorm:"type:text;not null"`
	ChoiceA       string         `json:"choice_a" gorm:"not null"`
	ChoiceB       string         `json:"choice_b" gorm:"not null"`
	ChoiceC       string         `json:"choice_c" gorm:"not null"`
	ChoiceD       string         `json:"choice_d" gorm:"not null"`
	ChoiceE       *string        `json:"choice_e,omitempty"`
	ChoiceF       *string        `json:"choice_f,omitempty"`
	CorrectAnswer string         `json:"correct_answer" gorm:"not null"`
	Explanation   string         `json:"explanation,omitempty" gorm:"type:text"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
