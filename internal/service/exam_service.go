package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/exam"
	"github.com/vuminh/examplatform/internal/model"
	"github.com/vuminh/examplatform/internal/repository"
	"gorm.io/datatypes"
)

var (
	ErrNoQuestions     = errors.New("category has no questions")
	ErrAttemptNotFound = errors.New("attempt not found")
	ErrNoSavedSession  = errors.New("no saved session to resume")
)

// ExamService owns the live attempts. Exactly one attempt is live per
// user at a time; all mutations of an attempt go through its lock, so
// the countdown goroutine and HTTP handlers never race on it.
type ExamService interface {
	Start(userID uint, req dto.ExamStartDTO) (*dto.AttemptStateDTO, error)
	State(userID uint, attemptID string) (*dto.AttemptStateDTO, error)
	SelectChoice(userID uint, attemptID string, req dto.SelectChoiceDTO) (*dto.AttemptStateDTO, error)
	Navigate(userID uint, attemptID string, req dto.NavigateDTO) (*dto.AttemptStateDTO, error)
	Submit(userID uint, attemptID string) (*dto.AttemptResultDTO, error)
	Retake(userID uint, attemptID string) (*dto.AttemptStateDTO, error)
	Result(userID uint, attemptID string) (*dto.AttemptResultDTO, error)
	Suspend(userID uint, attemptID string) error
	Resume(userID uint) (*dto.AttemptStateDTO, error)
	Shutdown()
}

type liveAttempt struct {
	mu       sync.Mutex
	attempt  *exam.Attempt
	stop     chan struct{}
	stopOnce sync.Once
}

func (la *liveAttempt) stopCountdown() {
	la.stopOnce.Do(func() { close(la.stop) })
}

type examService struct {
	engine       *exam.Engine
	questionRepo repository.QuestionRepository
	resultRepo   repository.ResultRepository
	sessionRepo  repository.SessionRepository

	mu     sync.RWMutex
	live   map[string]*liveAttempt // attempt id -> live attempt
	byUser map[uint]string         // user id -> live attempt id
}

func NewExamService(
	engine *exam.Engine,
	questionRepo repository.QuestionRepository,
	resultRepo repository.ResultRepository,
	sessionRepo repository.SessionRepository,
) ExamService {
	return &examService{
		engine:       engine,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
		sessionRepo:  sessionRepo,
		live:         map[string]*liveAttempt{},
		byUser:       map[uint]string{},
	}
}

func (s *examService) Start(userID uint, req dto.ExamStartDTO) (*dto.AttemptStateDTO, error) {
	questions, err := s.questionRepo.FindByCategoryID(req.CategoryID)
	if err != nil {
		log.Error().Err(err).Uint("categoryID", req.CategoryID).Msg("Start: failed to fetch question pool")
		return nil, fmt.Errorf("error fetching questions for category %d: %w", req.CategoryID, err)
	}

	pool := make([]exam.Question, 0, len(questions))
	for i := range questions {
		pool = append(pool, toEngineQuestion(&questions[i]))
	}

	attempt, err := s.engine.StartAttempt(userID, req.CategoryID, req.QuestionCount, pool)
	if errors.Is(err, exam.ErrEmptyPool) {
		return nil, ErrNoQuestions
	}
	if err != nil {
		return nil, err
	}

	s.register(attempt)
	log.Info().Uint("userID", userID).Str("attemptID", attempt.ID).
		Int("questions", len(attempt.Questions)).Int("seconds", attempt.TimeRemaining).
		Msg("Exam attempt started")
	return buildState(attempt), nil
}

// register installs the attempt as the user's live attempt, replacing
// and stopping any previous one, and arms the countdown. The countdown
// only starts here, after the pool fetch has already succeeded.
func (s *examService) register(attempt *exam.Attempt) {
	la := &liveAttempt{attempt: attempt, stop: make(chan struct{})}

	s.mu.Lock()
	if prevID, ok := s.byUser[attempt.UserID]; ok {
		if prev, ok := s.live[prevID]; ok {
			prev.stopCountdown()
			delete(s.live, prevID)
		}
	}
	s.live[attempt.ID] = la
	s.byUser[attempt.UserID] = attempt.ID
	s.mu.Unlock()

	go s.runCountdown(la)
}

func (s *examService) runCountdown(la *liveAttempt) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-la.stop:
			return
		case <-ticker.C:
			la.mu.Lock()
			summary := la.attempt.Tick()
			la.mu.Unlock()
			if summary != nil {
				log.Info().Str("attemptID", summary.AttemptID).Int("score", summary.Score).
					Msg("Countdown expired, attempt auto-submitted")
				s.recordResult(summary)
				la.stopCountdown()
				return
			}
		}
	}
}

// recordResult persists the score summary. This is a best-effort
// write: a failure is logged and the caller still gets the summary, at
// the cost of a silently missing history row.
func (s *examService) recordResult(summary *exam.ScoreSummary) {
	answers, err := json.Marshal(summary.CanonicalAnswers)
	if err != nil {
		log.Error().Err(err).Str("attemptID", summary.AttemptID).Msg("recordResult: failed to encode answers")
		return
	}
	result := model.ExamResult{
		UserID:         summary.UserID,
		CategoryID:     summary.CategoryID,
		Score:          summary.Score,
		TotalQuestions: summary.TotalQuestions,
		QuestionCount:  summary.RequestedCount,
		AnswersData:    datatypes.JSON(answers),
	}
	if err := s.resultRepo.Create(&result); err != nil {
		log.Error().Err(err).Str("attemptID", summary.AttemptID).Msg("recordResult: failed to persist result")
	}
	if err := s.sessionRepo.Clear(summary.UserID); err != nil {
		log.Warn().Err(err).Uint("userID", summary.UserID).Msg("recordResult: failed to clear saved session")
	}
}

// find returns the caller's live attempt, treating someone else's
// attempt id as not found rather than leaking its existence.
func (s *examService) find(userID uint, attemptID string) (*liveAttempt, error) {
	s.mu.RLock()
	la, ok := s.live[attemptID]
	s.mu.RUnlock()
	if !ok || la.attempt.UserID != userID {
		return nil, ErrAttemptNotFound
	}
	return la, nil
}

func (s *examService) State(userID uint, attemptID string) (*dto.AttemptStateDTO, error) {
	la, err := s.find(userID, attemptID)
	if err != nil {
		return nil, err
	}
	la.mu.Lock()
	defer la.mu.Unlock()
	return buildState(la.attempt), nil
}

func (s *examService) SelectChoice(userID uint, attemptID string, req dto.SelectChoiceDTO) (*dto.AttemptStateDTO, error) {
	la, err := s.find(userID, attemptID)
	if err != nil {
		return nil, err
	}
	la.mu.Lock()
	defer la.mu.Unlock()
	if err := la.attempt.SelectChoice(req.Letter); err != nil {
		return nil, err
	}
	return buildState(la.attempt), nil
}

func (s *examService) Navigate(userID uint, attemptID string, req dto.NavigateDTO) (*dto.AttemptStateDTO, error) {
	la, err := s.find(userID, attemptID)
	if err != nil {
		return nil, err
	}
	la.mu.Lock()
	defer la.mu.Unlock()
	if err := la.attempt.Navigate(*req.Index); err != nil {
		return nil, err
	}
	return buildState(la.attempt), nil
}

func (s *examService) Submit(userID uint, attemptID string) (*dto.AttemptResultDTO, error) {
	la, err := s.find(userID, attemptID)
	if err != nil {
		return nil, err
	}

	la.mu.Lock()
	summary, err := la.attempt.Submit()
	result := buildResult(la.attempt)
	la.mu.Unlock()
	if err != nil {
		return nil, err
	}

	la.stopCountdown()
	s.recordResult(summary)
	log.Info().Str("attemptID", attemptID).Int("score", summary.Score).
		Int("total", summary.TotalQuestions).Msg("Exam attempt submitted")
	return result, nil
}

func (s *examService) Retake(userID uint, attemptID string) (*dto.AttemptStateDTO, error) {
	la, err := s.find(userID, attemptID)
	if err != nil {
		return nil, err
	}

	la.mu.Lock()
	fresh, err := la.attempt.Retake()
	la.mu.Unlock()
	if err != nil {
		return nil, err
	}

	la.stopCountdown()
	s.register(fresh)
	log.Info().Uint("userID", userID).Str("attemptID", fresh.ID).Msg("Exam attempt retaken")
	return buildState(fresh), nil
}

func (s *examService) Result(userID uint, attemptID string) (*dto.AttemptResultDTO, error) {
	la, err := s.find(userID, attemptID)
	if err != nil {
		return nil, err
	}
	la.mu.Lock()
	defer la.mu.Unlock()
	if la.attempt.Status != exam.StatusCompleted {
		return nil, exam.ErrInvalidState
	}
	return buildResult(la.attempt), nil
}

// Suspend captures the attempt into the saved-session row and tears
// down the live entry. The snapshot keeps the presentation mappings, so
// a later Resume reconstructs the exact attempt; re-randomizing here
// would silently invalidate every in-flight answer.
func (s *examService) Suspend(userID uint, attemptID string) error {
	la, err := s.find(userID, attemptID)
	if err != nil {
		return err
	}

	la.mu.Lock()
	if la.attempt.Status != exam.StatusTaking {
		la.mu.Unlock()
		return exam.ErrInvalidState
	}
	state, err := json.Marshal(la.attempt)
	la.mu.Unlock()
	if err != nil {
		return fmt.Errorf("error serializing attempt: %w", err)
	}

	if err := s.sessionRepo.Save(&model.SavedSession{UserID: userID, State: datatypes.JSON(state)}); err != nil {
		log.Error().Err(err).Str("attemptID", attemptID).Msg("Suspend: failed to save session")
		return fmt.Errorf("error saving session: %w", err)
	}

	la.stopCountdown()
	s.mu.Lock()
	delete(s.live, attemptID)
	if s.byUser[userID] == attemptID {
		delete(s.byUser, userID)
	}
	s.mu.Unlock()

	log.Info().Uint("userID", userID).Str("attemptID", attemptID).Msg("Exam attempt suspended")
	return nil
}

func (s *examService) Resume(userID uint) (*dto.AttemptStateDTO, error) {
	saved, err := s.sessionRepo.Load(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Resume: failed to load session")
		return nil, fmt.Errorf("error loading saved session: %w", err)
	}
	if saved == nil {
		return nil, ErrNoSavedSession
	}

	var attempt exam.Attempt
	if err := json.Unmarshal(saved.State, &attempt); err != nil {
		return nil, fmt.Errorf("error decoding saved session: %w", err)
	}
	if attempt.Status != exam.StatusTaking {
		return nil, exam.ErrInvalidState
	}

	s.register(&attempt)
	// The snapshot is consumed by the resume. Left behind, a second
	// resume would rewind the live attempt to the stale snapshot.
	if err := s.sessionRepo.Clear(userID); err != nil {
		log.Warn().Err(err).Uint("userID", userID).Msg("Resume: failed to clear saved session")
	}
	log.Info().Uint("userID", userID).Str("attemptID", attempt.ID).
		Int("seconds", attempt.TimeRemaining).Msg("Exam attempt resumed")
	return buildState(&attempt), nil
}

// Shutdown suspends every live taking attempt and stops its countdown.
// Invoked from the fx OnStop hook so no timer outlives the process and
// no in-flight attempt is lost across a restart.
func (s *examService) Shutdown() {
	s.mu.Lock()
	entries := make([]*liveAttempt, 0, len(s.live))
	for _, la := range s.live {
		entries = append(entries, la)
	}
	s.live = map[string]*liveAttempt{}
	s.byUser = map[uint]string{}
	s.mu.Unlock()

	for _, la := range entries {
		la.stopCountdown()
		la.mu.Lock()
		if la.attempt.Status == exam.StatusTaking {
			if state, err := json.Marshal(la.attempt); err == nil {
				if err := s.sessionRepo.Save(&model.SavedSession{
					UserID: la.attempt.UserID,
					State:  datatypes.JSON(state),
				}); err != nil {
					log.Error().Err(err).Str("attemptID", la.attempt.ID).Msg("Shutdown: failed to save session")
				}
			}
		}
		la.mu.Unlock()
	}
}

// toEngineQuestion flattens the fixed choice columns into the engine's
// variable-length choice list. E and F join only when present and
// non-empty, keeping the letter prefix contiguous.
func toEngineQuestion(q *model.Question) exam.Question {
	choices := []exam.Choice{
		{Key: "A", Text: q.ChoiceA},
		{Key: "B", Text: q.ChoiceB},
		{Key: "C", Text: q.ChoiceC},
		{Key: "D", Text: q.ChoiceD},
	}
	if q.ChoiceE != nil && *q.ChoiceE != "" {
		choices = append(choices, exam.Choice{Key: "E", Text: *q.ChoiceE})
		if q.ChoiceF != nil && *q.ChoiceF != "" {
			choices = append(choices, exam.Choice{Key: "F", Text: *q.ChoiceF})
		}
	}
	return exam.Question{
		ID:            strconv.FormatUint(uint64(q.ID), 10),
		Text:          q.QuestionText,
		Choices:       choices,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
}

func buildState(a *exam.Attempt) *dto.AttemptStateDTO {
	current := a.CurrentQuestion()
	choices := make([]dto.ChoiceDTO, len(current.Choices))
	for i, c := range current.Choices {
		choices[i] = dto.ChoiceDTO{Key: c.Key, Text: c.Text}
	}
	answered := make([]bool, len(a.Questions))
	for i := range a.Questions {
		answered[i] = len(a.Selected[a.Questions[i].ID]) > 0
	}
	return &dto.AttemptStateDTO{
		ID:             a.ID,
		CategoryID:     a.CategoryID,
		RequestedCount: a.RequestedCount,
		TotalQuestions: len(a.Questions),
		CurrentIndex:   a.CurrentIndex,
		TimeRemaining:  a.TimeRemaining,
		Status:         string(a.Status),
		Answered:       answered,
		Question: dto.TakingQuestionDTO{
			Index:    a.CurrentIndex,
			Text:     current.Text,
			Choices:  choices,
			Selected: a.Selected[current.ID],
		},
	}
}

func buildResult(a *exam.Attempt) *dto.AttemptResultDTO {
	questions := make([]dto.ReviewQuestionDTO, len(a.Questions))
	for i := range a.Questions {
		q := &a.Questions[i]
		choices := make([]dto.ChoiceDTO, len(q.Choices))
		for j, c := range q.Choices {
			choices[j] = dto.ChoiceDTO{Key: c.Key, Text: c.Text}
		}
		selected := a.Selected[q.ID]
		questions[i] = dto.ReviewQuestionDTO{
			Text:           q.Text,
			Choices:        choices,
			Selected:       selected,
			CorrectLetters: q.ShownCorrect,
			Explanation:    q.Explanation,
			Correct:        joined(selected) == q.ShownCorrect,
		}
	}
	return &dto.AttemptResultDTO{
		ID:             a.ID,
		CategoryID:     a.CategoryID,
		RequestedCount: a.RequestedCount,
		Score:          a.Score,
		TotalQuestions: len(a.Questions),
		Percentage:     percentage(a.Score, len(a.Questions)),
		Questions:      questions,
	}
}

func joined(letters []string) string {
	out := ""
	for _, l := range letters {
		out += l
	}
	return out
}

func percentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(score) * 100 / float64(total)))
}
