package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// CategorySummaryDTO is used for listing exam categories to users.
type CategorySummaryDTO struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// QuestionAdminDTO is the admin view of a question, answer key included.
type QuestionAdminDTO struct {
	ID            uint      `json:"id"`
	CategoryID    uint      `json:"category_id"`
	CategoryName  string    `json:"category_name,omitempty"`
	QuestionText  string    `json:"question_text"`
	ChoiceA       string    `json:"choice_a"`
	ChoiceB       string    `json:"choice_b"`
	ChoiceC       string    `json:"choice_c"`
	ChoiceD       string    `json:"choice_d"`
	ChoiceE       *string   `json:"choice_e,omitempty"`
	ChoiceF       *string   `json:"choice_f,omitempty"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserResponseDTO never carries the password hash.
type UserResponseDTO struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// ResultSummaryDTO is one row of a user's result history.
type ResultSummaryDTO struct {
	ID             uint      `json:"id"`
	CategoryID     uint      `json:"category_id"`
	CategoryName   string    `json:"category_name,omitempty"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	QuestionCount  int       `json:"question_count"`
	Percentage     int       `json:"percentage"`
	CreatedAt      time.Time `json:"created_at"`
}

// ResultQuestionDTO is one reviewed question of a persisted result:
// the question in canonical choice order, the taker's canonical
// letters, the answer key and the explanation.
type ResultQuestionDTO struct {
	QuestionID    uint        `json:"question_id"`
	Text          string      `json:"text"`
	Choices       []ChoiceDTO `json:"choices"`
	Selected      string      `json:"selected,omitempty"`
	CorrectAnswer string      `json:"correct_answer"`
	Correct       bool        `json:"correct"`
	Explanation   string      `json:"explanation,omitempty"`
}

// ResultDetailDTO adds the per-question review to a history row.
// AnswersData is the raw canonical answer record; Questions joins it
// against the question bank. Questions deleted since the exam was
// taken appear in AnswersData but not in Questions.
type ResultDetailDTO struct {
	ResultSummaryDTO
	Questions   []ResultQuestionDTO `json:"questions"`
	AnswersData map[string]string   `json:"answers_data"`
}

// ResultHistoryDTO is the full results view: the rows plus their
// aggregate stats in one payload.
type ResultHistoryDTO struct {
	Results []ResultSummaryDTO `json:"results"`
	Stats   ResultStatsDTO     `json:"stats"`
}

// ResultStatsDTO aggregates a user's history for the results view.
// Percentages are rounded; an exam passes at 70%.
type ResultStatsDTO struct {
	TotalExams   int `json:"total_exams"`
	AverageScore int `json:"average_score"`
	PassedExams  int `json:"passed_exams"`
	PassRate     int `json:"pass_rate"`
}

// DashboardDTO is the admin landing-page counters.
type DashboardDTO struct {
	Users      int64 `json:"users"`
	Categories int64 `json:"categories"`
	Questions  int64 `json:"questions"`
	Results    int64 `json:"results"`
}
