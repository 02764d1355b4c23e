// Package exam implements the exam-session engine: question selection,
// per-attempt answer-choice randomization with a reversible mapping,
// countdown, multi-select answer recording and exact-set scoring.
// The engine is pure state; persistence and timers live with the caller.
package exam

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyPool       = errors.New("exam: question pool is empty")
	ErrInvalidState    = errors.New("exam: operation not valid for attempt status")
	ErrIndexOutOfRange = errors.New("exam: navigation target out of range")
)

// Countdown buckets. Exactly 20 requested questions gets the short
// exam, every other count gets the long one. This is a compatibility
// table, not a formula.
const (
	shortExamCount   = 20
	shortExamSeconds = 2400
	longExamSeconds  = 6000
)

// DurationFor returns the initial countdown in seconds for a requested
// question count.
func DurationFor(requestedCount int) int {
	if requestedCount == shortExamCount {
		return shortExamSeconds
	}
	return longExamSeconds
}

// Engine draws attempts from question pools. The rand source is
// injected so randomization properties stay testable with a fixed seed.
type Engine struct {
	rng *rand.Rand
}

// NewEngine returns an Engine backed by rng, or a time-seeded source
// when rng is nil.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// StartAttempt draws a new attempt from pool. The pool is shuffled
// (Fisher-Yates), the first min(requestedCount, len(pool)) questions
// become the attempt's presentation order, and each drawn question gets
// an independent choice shuffle with its shown-to-canonical mapping
// recorded. Returns ErrEmptyPool when the pool has no questions; the
// requested count is clamped to the pool size, never an error.
func (e *Engine) StartAttempt(userID, categoryID uint, requestedCount int, pool []Question) (*Attempt, error) {
	if requestedCount <= 0 {
		return nil, fmt.Errorf("exam: requested count must be positive, got %d", requestedCount)
	}
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	shuffled := make([]Question, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	count := requestedCount
	if count > len(shuffled) {
		count = len(shuffled)
	}

	questions := make([]PresentedQuestion, count)
	for i := 0; i < count; i++ {
		questions[i] = e.present(shuffled[i])
	}

	return &Attempt{
		ID:             uuid.NewString(),
		UserID:         userID,
		CategoryID:     categoryID,
		RequestedCount: requestedCount,
		Questions:      questions,
		Selected:       map[string][]string{},
		CurrentIndex:   0,
		TimeRemaining:  DurationFor(requestedCount),
		Status:         StatusTaking,
	}, nil
}

// present permutes the choice texts of q among its letter slots and
// records which canonical letter supplied each shown slot.
func (e *Engine) present(q Question) PresentedQuestion {
	n := len(q.Choices)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	shown := make([]Choice, n)
	mapping := make(map[string]string, n)
	for i, src := range perm {
		shown[i] = Choice{Key: q.Choices[i].Key, Text: q.Choices[src].Text}
		mapping[q.Choices[i].Key] = q.Choices[src].Key
	}

	pq := PresentedQuestion{Question: q, Mapping: mapping}
	pq.Choices = shown
	pq.ShownCorrect = shownCorrect(q.CorrectAnswer, mapping)
	return pq
}

// shownCorrect derives the presentation-relative correct answer: the
// shown letters whose mapped canonical letters make up correctAnswer,
// sorted and concatenated.
func shownCorrect(correctAnswer string, mapping map[string]string) string {
	var letters []string
	for _, canonical := range strings.Split(correctAnswer, "") {
		for shown, mapped := range mapping {
			if mapped == canonical {
				letters = append(letters, shown)
				break
			}
		}
	}
	sort.Strings(letters)
	return strings.Join(letters, "")
}

// canonicalAnswer maps a set of shown letters back through mapping and
// returns the sorted canonical concatenation. Unknown letters map to
// themselves, which can never match a well-formed answer key by
// accident since the mapping covers every letter the question shows.
func canonicalAnswer(selected []string, mapping map[string]string) string {
	mapped := make([]string, 0, len(selected))
	for _, shown := range selected {
		canonical, ok := mapping[shown]
		if !ok {
			canonical = shown
		}
		mapped = append(mapped, canonical)
	}
	sort.Strings(mapped)
	return strings.Join(mapped, "")
}
