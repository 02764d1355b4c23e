package exam

// Choice is one answer option as shown to the taker. Keys are the
// letters A..F, contiguous from A, and at least A..D are present.
type Choice struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question is one multiple-choice item in canonical form, i.e. with
// choices in the order the question bank stores them. CorrectAnswer is
// the canonical answer key: one or more letters, sorted ascending and
// concatenated ("B", "BD", ...). Every letter in CorrectAnswer must be
// a key present in Choices.
type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Choices       []Choice `json:"choices"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// PresentedQuestion is a Question after per-attempt randomization: the
// choice texts are permuted while the letters stay fixed. Mapping is
// the bijection from shown letter to canonical letter, established at
// draw time and immutable for the attempt's lifetime. ShownCorrect is
// the presentation-relative correct answer, derived once from
// (CorrectAnswer, Mapping); it exists for display after scoring, the
// authoritative comparison is always canonical-to-canonical.
type PresentedQuestion struct {
	Question
	Mapping      map[string]string `json:"mapping"`
	ShownCorrect string            `json:"shown_correct"`
}
