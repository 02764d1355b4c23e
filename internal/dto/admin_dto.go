package dto

// CategoryCreateDTO is for admins creating or updating a category.
type CategoryCreateDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// QuestionCreateDTO carries one question with its canonical answer key.
// CorrectAnswer is one or more of the available letters, e.g. "B" or
// "BD"; letters beyond D are only valid when the matching choice text
// is provided.
type QuestionCreateDTO struct {
	CategoryID    uint    `json:"category_id" binding:"required"`
	QuestionText  string  `json:"question_text" binding:"required"`
	ChoiceA       string  `json:"choice_a" binding:"required"`
	ChoiceB       string  `json:"choice_b" binding:"required"`
	ChoiceC       string  `json:"choice_c" binding:"required"`
	ChoiceD       string  `json:"choice_d" binding:"required"`
	ChoiceE       *string `json:"choice_e"`
	ChoiceF       *string `json:"choice_f"`
	CorrectAnswer string  `json:"correct_answer" binding:"required"`
	Explanation   string  `json:"explanation,omitempty"`
}

// QuestionImportDTO is the CSV bulk-import payload.
type QuestionImportDTO struct {
	CSV string `json:"csv" binding:"required"`
}

// QuestionImportResultDTO reports how an import went. Skipped rows
// carry one reason each; the import is transactional, so Imported is
// either the full valid set or zero.
type QuestionImportResultDTO struct {
	Imported int      `json:"imported"`
	Skipped  []string `json:"skipped,omitempty"`
}

// UserCreateDTO is for admins provisioning accounts.
type UserCreateDTO struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6"`
	IsAdmin  bool   `json:"is_admin"`
}

// UserUpdateDTO applies only the fields that are present.
type UserUpdateDTO struct {
	Password *string `json:"password" binding:"omitempty,min=6"`
	IsAdmin  *bool   `json:"is_admin"`
}
