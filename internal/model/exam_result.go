package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ExamResult is the write-once record of a completed attempt.
// AnswersData maps question id to the taker's canonical answer string;
// presentation-shuffled letters never reach this table.
type ExamResult struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	UserID         uint           `json:"user_id" gorm:"not null;index"`
	User           User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CategoryID     uint           `json:"category_id" gorm:"not null;index"`
	Category       Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Score          int            `json:"score" gorm:"not null"`
	TotalQuestions int            `json:"total_questions" gorm:"not null"`
	QuestionCount  int            `json:"question_count" gorm:"not null"`
	AnswersData    datatypes.JSON `json:"answers_data" gorm:"type:jsonb"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
