package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/model"
	"github.com/vuminh/examplatform/internal/repository"
)

// An attempt counts as passed at 70% or better.
const passPercentage = 70

var ErrResultNotFound = errors.New("result not found")

type ResultService interface {
	History(userID uint) ([]dto.ResultSummaryDTO, *dto.ResultStatsDTO, error)
	Detail(userID uint, resultID uint) (*dto.ResultDetailDTO, error)
	Dashboard() (*dto.DashboardDTO, error)
}

type resultService struct {
	resultRepo   repository.ResultRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	questionRepo repository.QuestionRepository
}

func NewResultService(
	resultRepo repository.ResultRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	questionRepo repository.QuestionRepository,
) ResultService {
	return &resultService{
		resultRepo:   resultRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		questionRepo: questionRepo,
	}
}

func (s *resultService) History(userID uint) ([]dto.ResultSummaryDTO, *dto.ResultStatsDTO, error) {
	results, err := s.resultRepo.FindAllByUser(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to fetch result history")
		return nil, nil, fmt.Errorf("error fetching results: %w", err)
	}

	summaries := make([]dto.ResultSummaryDTO, 0, len(results))
	stats := dto.ResultStatsDTO{TotalExams: len(results)}
	percentageSum := 0
	for i := range results {
		summary := toResultSummaryDTO(&results[i])
		percentageSum += summary.Percentage
		if summary.Percentage >= passPercentage {
			stats.PassedExams++
		}
		summaries = append(summaries, summary)
	}
	if len(results) > 0 {
		stats.AverageScore = int(math.Round(float64(percentageSum) / float64(len(results))))
		stats.PassRate = int(math.Round(float64(stats.PassedExams) * 100 / float64(len(results))))
	}
	return summaries, &stats, nil
}

func (s *resultService) Detail(userID uint, resultID uint) (*dto.ResultDetailDTO, error) {
	result, err := s.resultRepo.FindByID(resultID)
	if err != nil {
		return nil, ErrResultNotFound
	}
	// A result belongs to the taker alone.
	if result.UserID != userID {
		return nil, ErrResultNotFound
	}

	answers := map[string]string{}
	if len(result.AnswersData) > 0 {
		if err := json.Unmarshal(result.AnswersData, &answers); err != nil {
			log.Error().Err(err).Uint("resultID", resultID).Msg("Failed to decode answers data")
			return nil, fmt.Errorf("error decoding result: %w", err)
		}
	}

	questions, err := s.reviewQuestions(answers)
	if err != nil {
		log.Error().Err(err).Uint("resultID", resultID).Msg("Failed to load questions for result review")
		return nil, fmt.Errorf("error loading result questions: %w", err)
	}

	return &dto.ResultDetailDTO{
		ResultSummaryDTO: toResultSummaryDTO(result),
		Questions:        questions,
		AnswersData:      answers,
	}, nil
}

// reviewQuestions joins the canonical answer record against the
// question bank so the client can render a full review of a past
// result. Entries come back in question-id order; ids whose question
// row has been deleted since are left out.
func (s *resultService) reviewQuestions(answers map[string]string) ([]dto.ResultQuestionDTO, error) {
	ids := make([]uint, 0, len(answers))
	for key := range answers {
		id, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	found, err := s.questionRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*model.Question, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	questions := make([]dto.ResultQuestionDTO, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			continue
		}
		eq := toEngineQuestion(q)
		choices := make([]dto.ChoiceDTO, len(eq.Choices))
		for i, c := range eq.Choices {
			choices[i] = dto.ChoiceDTO{Key: c.Key, Text: c.Text}
		}
		selected := answers[strconv.FormatUint(uint64(id), 10)]
		questions = append(questions, dto.ResultQuestionDTO{
			QuestionID:    id,
			Text:          q.QuestionText,
			Choices:       choices,
			Selected:      selected,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       selected == q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return questions, nil
}

func (s *resultService) Dashboard() (*dto.DashboardDTO, error) {
	var dashboard dto.DashboardDTO
	var err error
	if dashboard.Users, err = s.userRepo.Count(); err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	if dashboard.Categories, err = s.categoryRepo.Count(); err != nil {
		return nil, fmt.Errorf("error counting categories: %w", err)
	}
	if dashboard.Questions, err = s.questionRepo.Count(); err != nil {
		return nil, fmt.Errorf("error counting questions: %w", err)
	}
	if dashboard.Results, err = s.resultRepo.Count(); err != nil {
		return nil, fmt.Errorf("error counting results: %w", err)
	}
	return &dashboard, nil
}

func toResultSummaryDTO(result *model.ExamResult) dto.ResultSummaryDTO {
	percentage := 0
	if result.TotalQuestions > 0 {
		percentage = int(math.Round(float64(result.Score) * 100 / float64(result.TotalQuestions)))
	}
	return dto.ResultSummaryDTO{
		ID:             result.ID,
		CategoryID:     result.CategoryID,
		CategoryName:   result.Category.Name,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		QuestionCount:  result.QuestionCount,
		Percentage:     percentage,
		CreatedAt:      result.CreatedAt,
	}
}
