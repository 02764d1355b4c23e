package dto

// ExamStartDTO selects a category and a requested question count. The
// count is clamped to the pool size by the engine, never rejected.
type ExamStartDTO struct {
	CategoryID    uint `json:"category_id" binding:"required"`
	QuestionCount int  `json:"question_count" binding:"required,gt=0"`
}

// SelectChoiceDTO toggles one shown letter on the current question.
type SelectChoiceDTO struct {
	Letter string `json:"letter" binding:"required,oneof=A B C D E F"`
}

// NavigateDTO jumps to a question by zero-based index. Pointer so that
// index 0 survives required-field validation.
type NavigateDTO struct {
	Index *int `json:"index" binding:"required"`
}

type ChoiceDTO struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// TakingQuestionDTO is the current question as shown to the taker.
// It never carries the answer key or the presentation mapping.
type TakingQuestionDTO struct {
	Index    int         `json:"index"`
	Text     string      `json:"text"`
	Choices  []ChoiceDTO `json:"choices"`
	Selected []string    `json:"selected,omitempty"`
}

// AttemptStateDTO is the taking-phase view of an attempt. Answered
// mirrors the answer-overview grid: one flag per question index.
type AttemptStateDTO struct {
	ID             string            `json:"id"`
	CategoryID     uint              `json:"category_id"`
	RequestedCount int               `json:"requested_count"`
	TotalQuestions int               `json:"total_questions"`
	CurrentIndex   int               `json:"current_index"`
	TimeRemaining  int               `json:"time_remaining"`
	Status         string            `json:"status"`
	Answered       []bool            `json:"answered"`
	Question       TakingQuestionDTO `json:"question"`
}

// ReviewQuestionDTO is the post-scoring view of one question: shown
// choices, the taker's shown letters, the shown-correct letters and
// the explanation.
type ReviewQuestionDTO struct {
	Text           string      `json:"text"`
	Choices        []ChoiceDTO `json:"choices"`
	Selected       []string    `json:"selected,omitempty"`
	CorrectLetters string      `json:"correct_letters"`
	Explanation    string      `json:"explanation,omitempty"`
	Correct        bool        `json:"correct"`
}

// AttemptResultDTO is returned from submit and from fetching a
// completed attempt.
type AttemptResultDTO struct {
	ID             string              `json:"id"`
	CategoryID     uint                `json:"category_id"`
	RequestedCount int                 `json:"requested_count"`
	Score          int                 `json:"score"`
	TotalQuestions int                 `json:"total_questions"`
	Percentage     int                 `json:"percentage"`
	Questions      []ReviewQuestionDTO `json:"questions"`
}
