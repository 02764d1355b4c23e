package service

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/model"
	"github.com/vuminh/examplatform/internal/repository"
)

type QuestionService interface {
	GetAll() ([]dto.QuestionAdminDTO, error)
	Create(req dto.QuestionCreateDTO) (*dto.QuestionAdminDTO, error)
	Update(id uint, req dto.QuestionCreateDTO) (*dto.QuestionAdminDTO, error)
	Delete(id uint) error
	ImportCSV(req dto.QuestionImportDTO) (*dto.QuestionImportResultDTO, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
	categoryRepo repository.CategoryRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository, categoryRepo repository.CategoryRepository) QuestionService {
	return &questionService{questionRepo: questionRepo, categoryRepo: categoryRepo}
}

func (s *questionService) GetAll() ([]dto.QuestionAdminDTO, error) {
	questions, err := s.questionRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch questions")
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	dtos := make([]dto.QuestionAdminDTO, 0, len(questions))
	for i := range questions {
		dtos = append(dtos, toQuestionAdminDTO(&questions[i]))
	}
	return dtos, nil
}

func (s *questionService) Create(req dto.QuestionCreateDTO) (*dto.QuestionAdminDTO, error) {
	question, err := s.buildQuestion(req)
	if err != nil {
		return nil, err
	}
	if err := s.questionRepo.Create(question); err != nil {
		log.Error().Err(err).Uint("categoryID", req.CategoryID).Msg("Failed to create question")
		return nil, fmt.Errorf("error creating question: %w", err)
	}
	resp := toQuestionAdminDTO(question)
	return &resp, nil
}

func (s *questionService) Update(id uint, req dto.QuestionCreateDTO) (*dto.QuestionAdminDTO, error) {
	existing, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("question not found with ID %d: %w", id, err)
	}
	updated, err := s.buildQuestion(req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.questionRepo.Update(updated); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to update question")
		return nil, fmt.Errorf("error updating question: %w", err)
	}
	resp := toQuestionAdminDTO(updated)
	return &resp, nil
}

func (s *questionService) Delete(id uint) error {
	if _, err := s.questionRepo.FindByID(id); err != nil {
		return fmt.Errorf("question not found with ID %d: %w", id, err)
	}
	if err := s.questionRepo.Delete(id); err != nil {
		log.Error().Err(err).Uint("questionID", id).Msg("Failed to delete question")
		return fmt.Errorf("error deleting question: %w", err)
	}
	return nil
}

// ImportCSV bulk-imports questions. Row layout follows the upload
// form: question,choiceA,choiceB,choiceC,choiceD,correct,explanation,categoryId,
// with optional choiceE and choiceF columns between choiceD and the
// answer key (10 columns total). A header line is tolerated. Rows that
// fail validation are skipped with a reason; the surviving rows are
// inserted in one transaction.
func (s *questionService) ImportCSV(req dto.QuestionImportDTO) (*dto.QuestionImportResultDTO, error) {
	rows, skipped, err := parseQuestionsCSV(req.CSV)
	if err != nil {
		return nil, err
	}

	known := map[uint]bool{}
	var questions []model.Question
	for _, row := range rows {
		if !known[row.CategoryID] {
			if _, err := s.categoryRepo.FindByID(row.CategoryID); err != nil {
				skipped = append(skipped, fmt.Sprintf("line %d: unknown category %d", row.Line, row.CategoryID))
				continue
			}
			known[row.CategoryID] = true
		}
		questions = append(questions, row.Question)
	}

	if len(questions) > 0 {
		if err := s.questionRepo.CreateBatch(questions); err != nil {
			log.Error().Err(err).Int("rows", len(questions)).Msg("ImportCSV: batch insert failed")
			return nil, fmt.Errorf("error importing questions: %w", err)
		}
	}
	log.Info().Int("imported", len(questions)).Int("skipped", len(skipped)).Msg("Question CSV import finished")
	return &dto.QuestionImportResultDTO{Imported: len(questions), Skipped: skipped}, nil
}

type csvQuestionRow struct {
	model.Question
	Line int
}

func parseQuestionsCSV(content string) ([]csvQuestionRow, []string, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid CSV: %w", err)
	}

	var rows []csvQuestionRow
	var skipped []string
	for i, record := range records {
		line := i + 1
		if len(record) != 8 && len(record) != 10 {
			if line == 1 {
				continue // header line with a different shape
			}
			skipped = append(skipped, fmt.Sprintf("line %d: expected 8 or 10 columns, got %d", line, len(record)))
			continue
		}

		categoryID, err := strconv.ParseUint(strings.TrimSpace(record[len(record)-1]), 10, 32)
		if err != nil {
			if line == 1 {
				continue // header line
			}
			skipped = append(skipped, fmt.Sprintf("line %d: category id %q is not numeric", line, record[len(record)-1]))
			continue
		}

		q := model.Question{
			QuestionText: strings.TrimSpace(record[0]),
			ChoiceA:      strings.TrimSpace(record[1]),
			ChoiceB:      strings.TrimSpace(record[2]),
			ChoiceC:      strings.TrimSpace(record[3]),
			ChoiceD:      strings.TrimSpace(record[4]),
			CategoryID:   uint(categoryID),
		}
		next := 5
		if len(record) == 10 {
			e := strings.TrimSpace(record[5])
			f := strings.TrimSpace(record[6])
			if e != "" {
				q.ChoiceE = &e
			}
			if f != "" {
				q.ChoiceF = &f
			}
			next = 7
		}
		q.Explanation = strings.TrimSpace(record[next+1])

		if q.QuestionText == "" || q.ChoiceA == "" || q.ChoiceB == "" || q.ChoiceC == "" || q.ChoiceD == "" {
			skipped = append(skipped, fmt.Sprintf("line %d: question text and choices A-D are required", line))
			continue
		}
		if q.ChoiceF != nil && q.ChoiceE == nil {
			skipped = append(skipped, fmt.Sprintf("line %d: choice F requires choice E", line))
			continue
		}

		key, err := normalizeAnswerKey(record[next], choiceCount(&q))
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		q.CorrectAnswer = key

		rows = append(rows, csvQuestionRow{Question: q, Line: line})
	}
	return rows, skipped, nil
}

func (s *questionService) buildQuestion(req dto.QuestionCreateDTO) (*model.Question, error) {
	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return nil, fmt.Errorf("category not found with ID %d: %w", req.CategoryID, err)
	}
	var question model.Question
	if err := copier.Copy(&question, &req); err != nil {
		return nil, fmt.Errorf("error preparing question: %w", err)
	}
	if req.ChoiceF != nil && *req.ChoiceF != "" && (req.ChoiceE == nil || *req.ChoiceE == "") {
		return nil, fmt.Errorf("choice F requires choice E to be present")
	}
	key, err := normalizeAnswerKey(req.CorrectAnswer, choiceCount(&question))
	if err != nil {
		return nil, err
	}
	question.CorrectAnswer = key
	return &question, nil
}

// normalizeAnswerKey canonicalizes an answer key: letters uppercased,
// deduplicated, sorted ascending, every letter within the question's
// contiguous choice range.
func normalizeAnswerKey(raw string, choices int) (string, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	if cleaned == "" {
		return "", fmt.Errorf("answer key is empty")
	}
	seen := map[rune]bool{}
	var letters []string
	for _, r := range cleaned {
		if r < 'A' || r >= rune('A'+choices) {
			return "", fmt.Errorf("answer key letter %q is outside choices A-%c", string(r), 'A'+choices-1)
		}
		if !seen[r] {
			seen[r] = true
			letters = append(letters, string(r))
		}
	}
	sort.Strings(letters)
	return strings.Join(letters, ""), nil
}

func choiceCount(q *model.Question) int {
	count := 4
	if q.ChoiceE != nil && *q.ChoiceE != "" {
		count++
		if q.ChoiceF != nil && *q.ChoiceF != "" {
			count++
		}
	}
	return count
}

func toQuestionAdminDTO(q *model.Question) dto.QuestionAdminDTO {
	return dto.QuestionAdminDTO{
		ID:            q.ID,
		CategoryID:    q.CategoryID,
		CategoryName:  q.Category.Name,
		QuestionText:  q.QuestionText,
		ChoiceA:       q.ChoiceA,
		ChoiceB:       q.ChoiceB,
		ChoiceC:       q.ChoiceC,
		ChoiceD:       q.ChoiceD,
		ChoiceE:       q.ChoiceE,
		ChoiceF:       q.ChoiceF,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		CreatedAt:     q.CreatedAt,
	}
}
