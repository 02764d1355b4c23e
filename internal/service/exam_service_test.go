package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/exam"
	"github.com/vuminh/examplatform/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeQuestionRepo struct {
	byCategory map[uint][]model.Question
}

func (f *fakeQuestionRepo) Create(*model.Question) error { return nil }

func (f *fakeQuestionRepo) CreateBatch([]model.Question) error { return nil }

func (f *fakeQuestionRepo) FindByID(uint) (*model.Question, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) FindAll() ([]model.Question, error) { return nil, nil }

func (f *fakeQuestionRepo) FindByCategoryID(categoryID uint) ([]model.Question, error) {
	return f.byCategory[categoryID], nil
}

func (f *fakeQuestionRepo) FindByIDs(ids []uint) ([]model.Question, error) {
	var out []model.Question
	for _, questions := range f.byCategory {
		for _, q := range questions {
			for _, id := range ids {
				if q.ID == id {
					out = append(out, q)
				}
			}
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) Update(*model.Question) error { return nil }

func (f *fakeQuestionRepo) Delete(uint) error { return nil }

func (f *fakeQuestionRepo) Count() (int64, error) { return 0, nil }

// fakeResultRepo records created results under a lock: the countdown
// goroutine writes from outside the test goroutine.
type fakeResultRepo struct {
	mu      sync.Mutex
	created []model.ExamResult
	byID    map[uint]*model.ExamResult
	history []model.ExamResult
}

func (f *fakeResultRepo) Create(result *model.ExamResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *result)
	return nil
}

func (f *fakeResultRepo) FindByID(id uint) (*model.ExamResult, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResultRepo) FindAllByUser(uint) ([]model.ExamResult, error) {
	return f.history, nil
}

func (f *fakeResultRepo) Count() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.created)), nil
}

func (f *fakeResultRepo) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeResultRepo) createdAt(i int) model.ExamResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created[i]
}

type fakeSessionRepo struct {
	mu     sync.Mutex
	byUser map[uint]*model.SavedSession
}

func (f *fakeSessionRepo) Save(session *model.SavedSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byUser == nil {
		f.byUser = map[uint]*model.SavedSession{}
	}
	f.byUser[session.UserID] = session
	return nil
}

func (f *fakeSessionRepo) Load(userID uint) (*model.SavedSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byUser[userID], nil
}

func (f *fakeSessionRepo) Clear(userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byUser, userID)
	return nil
}

func (f *fakeSessionRepo) savedFor(userID uint) *model.SavedSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byUser[userID]
}

func seededPool(n int) []model.Question {
	pool := make([]model.Question, n)
	for i := range pool {
		pool[i] = model.Question{
			CategoryID:    7,
			QuestionText:  fmt.Sprintf("question %d", i),
			ChoiceA:       fmt.Sprintf("a%d", i),
			ChoiceB:       fmt.Sprintf("b%d", i),
			ChoiceC:       fmt.Sprintf("c%d", i),
			ChoiceD:       fmt.Sprintf("d%d", i),
			CorrectAnswer: "A",
		}
		pool[i].ID = uint(i + 1)
	}
	return pool
}

func newTestExamService(pool []model.Question) (ExamService, *fakeResultRepo, *fakeSessionRepo) {
	results := &fakeResultRepo{}
	sessions := &fakeSessionRepo{}
	svc := NewExamService(
		exam.NewEngine(rand.New(rand.NewSource(42))),
		&fakeQuestionRepo{byCategory: map[uint][]model.Question{7: pool}},
		results,
		sessions,
	)
	return svc, results, sessions
}

func TestExamServiceStartAndSubmit(t *testing.T) {
	svc, results, _ := newTestExamService(seededPool(30))
	defer svc.Shutdown()

	state, err := svc.Start(1, dto.ExamStartDTO{CategoryID: 7, QuestionCount: 20})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if state.TotalQuestions != 20 {
		t.Errorf("TotalQuestions = %d, want 20", state.TotalQuestions)
	}
	if state.TimeRemaining != 2400 {
		t.Errorf("TimeRemaining = %d, want 2400", state.TimeRemaining)
	}
	if state.Status != string(exam.StatusTaking) {
		t.Errorf("Status = %q, want %q", state.Status, exam.StatusTaking)
	}

	state, err = svc.SelectChoice(1, state.ID, dto.SelectChoiceDTO{Letter: "B"})
	if err != nil {
		t.Fatalf("SelectChoice: %v", err)
	}
	if !state.Answered[0] {
		t.Error("question 0 should be marked answered after a selection")
	}
	state, err = svc.SelectChoice(1, state.ID, dto.SelectChoiceDTO{Letter: "B"})
	if err != nil {
		t.Fatalf("SelectChoice toggle off: %v", err)
	}
	if state.Answered[0] {
		t.Error("toggling the same letter should clear the answer")
	}

	result, err := svc.Submit(1, state.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.TotalQuestions != 20 {
		t.Errorf("result TotalQuestions = %d, want 20", result.TotalQuestions)
	}
	if results.createdCount() != 1 {
		t.Fatalf("persisted %d results, want 1", results.createdCount())
	}
	if got := results.createdAt(0); got.UserID != 1 || got.CategoryID != 7 || got.TotalQuestions != 20 {
		t.Errorf("persisted result fields wrong: %+v", got)
	}

	if _, err := svc.Submit(1, state.ID); !errors.Is(err, exam.ErrInvalidState) {
		t.Errorf("second Submit error = %v, want ErrInvalidState", err)
	}
}

func TestExamServiceStartEmptyCategory(t *testing.T) {
	svc, _, _ := newTestExamService(nil)
	if _, err := svc.Start(1, dto.ExamStartDTO{CategoryID: 7, QuestionCount: 20}); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("Start with empty pool: error = %v, want ErrNoQuestions", err)
	}
}

func TestExamServiceAttemptIsolation(t *testing.T) {
	svc, _, _ := newTestExamService(seededPool(5))
	defer svc.Shutdown()

	state, err := svc.Start(1, dto.ExamStartDTO{CategoryID: 7, QuestionCount: 5})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.State(2, state.ID); !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("foreign user State error = %v, want ErrAttemptNotFound", err)
	}
	if _, err := svc.State(1, "no-such-attempt"); !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("unknown id State error = %v, want ErrAttemptNotFound", err)
	}
}

func TestExamServiceSuspendResume(t *testing.T) {
	svc, _, sessions := newTestExamService(seededPool(10))
	defer svc.Shutdown()

	state, err := svc.Start(3, dto.ExamStartDTO{CategoryID: 7, QuestionCount: 5})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := svc.SelectChoice(3, state.ID, dto.SelectChoiceDTO{Letter: "C"}); err != nil {
		t.Fatalf("SelectChoice: %v", err)
	}
	idx := 2
	before, err := svc.Navigate(3, state.ID, dto.NavigateDTO{Index: &idx})
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	if err := svc.Suspend(3, state.ID); err != nil {
		t.Fatalf("Suspend: %v", err)
	}
	if sessions.savedFor(3) == nil {
		t.Fatal("Suspend did not persist a session snapshot")
	}
	if _, err := svc.State(3, state.ID); !errors.Is(err, ErrAttemptNotFound) {
		t.Errorf("suspended attempt still live: error = %v", err)
	}

	after, err := svc.Resume(3)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if after.ID != before.ID {
		t.Errorf("Resume attempt id = %q, want %q", after.ID, before.ID)
	}
	if after.CurrentIndex != before.CurrentIndex {
		t.Errorf("Resume CurrentIndex = %d, want %d", after.CurrentIndex, before.CurrentIndex)
	}
	if !after.Answered[0] {
		t.Error("Resume lost the recorded answer on question 0")
	}
	if after.Question.Text != before.Question.Text {
		t.Errorf("Resume question text = %q, want %q", after.Question.Text, before.Question.Text)
	}

	// The snapshot is consumed: a second resume must not rewind the
	// live attempt to it.
	if sessions.savedFor(3) != nil {
		t.Error("Resume left the session snapshot behind")
	}
	if _, err := svc.Resume(3); !errors.Is(err, ErrNoSavedSession) {
		t.Errorf("second Resume error = %v, want ErrNoSavedSession", err)
	}
}

func TestExamServiceResumeWithoutSession(t *testing.T) {
	svc, _, _ := newTestExamService(seededPool(5))
	if _, err := svc.Resume(99); !errors.Is(err, ErrNoSavedSession) {
		t.Fatalf("Resume error = %v, want ErrNoSavedSession", err)
	}
}

func TestExamServiceCountdownForcedSubmit(t *testing.T) {
	svc, results, sessions := newTestExamService(seededPool(4))
	defer svc.Shutdown()

	// Build an attempt with one second left and plant it as a saved
	// session, so resuming arms a countdown that expires immediately.
	engine := exam.NewEngine(rand.New(rand.NewSource(7)))
	modelPool := seededPool(4)
	pool := make([]exam.Question, 0, len(modelPool))
	for i := range modelPool {
		pool = append(pool, toEngineQuestion(&modelPool[i]))
	}
	attempt, err := engine.StartAttempt(8, 7, 4, pool)
	if err != nil {
		t.Fatalf("StartAttempt: %v", err)
	}
	attempt.TimeRemaining = 1

	state, err := json.Marshal(attempt)
	if err != nil {
		t.Fatalf("marshal attempt: %v", err)
	}
	if err := sessions.Save(&model.SavedSession{UserID: 8, State: datatypes.JSON(state)}); err != nil {
		t.Fatalf("save session: %v", err)
	}

	if _, err := svc.Resume(8); err != nil {
		t.Fatalf("Resume: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for results.createdCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if results.createdCount() != 1 {
		t.Fatalf("countdown expiry persisted %d results, want 1", results.createdCount())
	}
	got := results.createdAt(0)
	if got.UserID != 8 || got.CategoryID != 7 || got.TotalQuestions != 4 {
		t.Errorf("forced-submit result fields wrong: %+v", got)
	}
	if sessions.savedFor(8) != nil {
		t.Error("session row should be cleared after the forced submit")
	}

	// The attempt completed exactly once; a manual submit now fails.
	if _, err := svc.Submit(8, attempt.ID); !errors.Is(err, exam.ErrInvalidState) {
		t.Errorf("Submit after expiry error = %v, want ErrInvalidState", err)
	}
}

func TestExamServiceRetake(t *testing.T) {
	svc, results, _ := newTestExamService(seededPool(6))
	defer svc.Shutdown()

	state, err := svc.Start(4, dto.ExamStartDTO{CategoryID: 7, QuestionCount: 6})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	firstQuestion := state.Question.Text
	if _, err := svc.Submit(4, state.ID); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	fresh, err := svc.Retake(4, state.ID)
	if err != nil {
		t.Fatalf("Retake: %v", err)
	}
	if fresh.ID == state.ID {
		t.Error("Retake should mint a new attempt id")
	}
	if fresh.TimeRemaining != exam.DurationFor(6) {
		t.Errorf("Retake TimeRemaining = %d, want %d", fresh.TimeRemaining, exam.DurationFor(6))
	}
	if fresh.Question.Text != firstQuestion {
		t.Errorf("Retake first question = %q, want %q (same presentation)", fresh.Question.Text, firstQuestion)
	}
	if results.createdCount() != 1 {
		t.Errorf("Retake should not persist another result, have %d", results.createdCount())
	}
}
