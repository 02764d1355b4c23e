package exam

import "github.com/google/uuid"

// Status is the attempt lifecycle state. The only transitions are
// Selecting -> Taking -> Completed; Retake produces a fresh Taking
// attempt rather than reopening a completed one.
type Status string

const (
	StatusSelecting Status = "selecting"
	StatusTaking    Status = "taking"
	StatusCompleted Status = "completed"
)

// Attempt is one exam instance, from question draw to scoring. It is
// owned by a single session at a time and every operation below is
// atomic with respect to it. The struct round-trips through JSON
// without loss, which is what the suspend/resume contract relies on.
type Attempt struct {
	ID             string              `json:"id"`
	UserID         uint                `json:"user_id"`
	CategoryID     uint                `json:"category_id"`
	RequestedCount int                 `json:"requested_count"`
	Questions      []PresentedQuestion `json:"questions"`
	Selected       map[string][]string `json:"selected"`
	CurrentIndex   int                 `json:"current_index"`
	TimeRemaining  int                 `json:"time_remaining"`
	Score          int                 `json:"score"`
	Status         Status              `json:"status"`
}

// ScoreSummary is the write-once record of a completed attempt.
// CanonicalAnswers holds the taker's answers mapped back to canonical
// letters per question id; shown letters are meaningless outside the
// attempt that produced them and are never persisted.
type ScoreSummary struct {
	AttemptID        string            `json:"attempt_id"`
	UserID           uint              `json:"user_id"`
	CategoryID       uint              `json:"category_id"`
	RequestedCount   int               `json:"requested_count"`
	TotalQuestions   int               `json:"total_questions"`
	Score            int               `json:"score"`
	CanonicalAnswers map[string]string `json:"canonical_answers"`
}

// CurrentQuestion returns the question at CurrentIndex.
func (a *Attempt) CurrentQuestion() *PresentedQuestion {
	return &a.Questions[a.CurrentIndex]
}

// SelectChoice toggles membership of a shown letter in the current
// question's answer set. The set stays sorted for deterministic
// comparison, and an emptied set is removed so serialized state stays
// canonical. Multi-select is the normal case, not an exception.
func (a *Attempt) SelectChoice(shownLetter string) error {
	if a.Status != StatusTaking {
		return ErrInvalidState
	}
	qid := a.CurrentQuestion().ID
	selected := a.Selected[qid]

	for i, letter := range selected {
		if letter == shownLetter {
			selected = append(selected[:i], selected[i+1:]...)
			if len(selected) == 0 {
				delete(a.Selected, qid)
			} else {
				a.Selected[qid] = selected
			}
			return nil
		}
	}

	inserted := false
	out := make([]string, 0, len(selected)+1)
	for _, letter := range selected {
		if !inserted && shownLetter < letter {
			out = append(out, shownLetter)
			inserted = true
		}
		out = append(out, letter)
	}
	if !inserted {
		out = append(out, shownLetter)
	}
	a.Selected[qid] = out
	return nil
}

// Navigate jumps to targetIndex. Navigation is unconstrained in both
// directions; answering is never a precondition for moving on.
func (a *Attempt) Navigate(targetIndex int) error {
	if a.Status != StatusTaking {
		return ErrInvalidState
	}
	if targetIndex < 0 || targetIndex >= len(a.Questions) {
		return ErrIndexOutOfRange
	}
	a.CurrentIndex = targetIndex
	return nil
}

// Tick advances the countdown by one second. When the countdown
// reaches zero it clamps at zero and submits the attempt, returning
// the resulting summary; that transition happens exactly once, further
// ticks against a completed attempt are inert and return nil.
func (a *Attempt) Tick() *ScoreSummary {
	if a.Status != StatusTaking {
		return nil
	}
	a.TimeRemaining--
	if a.TimeRemaining > 0 {
		return nil
	}
	a.TimeRemaining = 0
	summary, _ := a.Submit()
	return summary
}

// Submit scores the attempt and completes it. Scoring maps each
// question's selected shown letters back to canonical letters and
// requires exact equality with the canonical answer key; an unanswered
// question compares as the empty string and scores wrong. The
// transition to Completed is one-way.
func (a *Attempt) Submit() (*ScoreSummary, error) {
	if a.Status != StatusTaking {
		return nil, ErrInvalidState
	}

	answers := make(map[string]string, len(a.Questions))
	score := 0
	for i := range a.Questions {
		q := &a.Questions[i]
		canonical := canonicalAnswer(a.Selected[q.ID], q.Mapping)
		answers[q.ID] = canonical
		if canonical == q.CorrectAnswer {
			score++
		}
	}

	a.Score = score
	a.Status = StatusCompleted

	return &ScoreSummary{
		AttemptID:        a.ID,
		UserID:           a.UserID,
		CategoryID:       a.CategoryID,
		RequestedCount:   a.RequestedCount,
		TotalQuestions:   len(a.Questions),
		Score:            score,
		CanonicalAnswers: answers,
	}, nil
}

// Retake starts a fresh attempt over the same drawn questions and the
// same presentation mappings, with answers, position and countdown
// reset. Reusing the mapping is deliberate: re-randomizing underfoot
// would turn the taker's familiarity with the previous run into noise.
func (a *Attempt) Retake() (*Attempt, error) {
	if a.Status != StatusCompleted {
		return nil, ErrInvalidState
	}
	return &Attempt{
		ID:             uuid.NewString(),
		UserID:         a.UserID,
		CategoryID:     a.CategoryID,
		RequestedCount: a.RequestedCount,
		Questions:      a.Questions,
		Selected:       map[string][]string{},
		CurrentIndex:   0,
		TimeRemaining:  DurationFor(a.RequestedCount),
		Status:         StatusTaking,
	}, nil
}
