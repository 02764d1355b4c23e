package service

import (
	"errors"
	"testing"

	"github.com/vuminh/examplatform/internal/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeUserRepo struct{}

func (f *fakeUserRepo) Create(*model.User) error { return nil }

func (f *fakeUserRepo) FindByID(uint) (*model.User, error) { return nil, gorm.ErrRecordNotFound }

func (f *fakeUserRepo) FindByUsername(string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindAll() ([]model.User, error) { return nil, nil }

func (f *fakeUserRepo) Update(*model.User) error { return nil }

func (f *fakeUserRepo) Delete(uint) error { return nil }

func (f *fakeUserRepo) Count() (int64, error) { return 0, nil }

type fakeCategoryRepo struct{}

func (f *fakeCategoryRepo) Create(*model.Category) error { return nil }

func (f *fakeCategoryRepo) FindByID(uint) (*model.Category, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCategoryRepo) FindAllWithQuestionCount() ([]struct {
	model.Category
	QuestionCount int
}, error) {
	return nil, nil
}

func (f *fakeCategoryRepo) Update(*model.Category) error { return nil }

func (f *fakeCategoryRepo) Delete(uint) error { return nil }

func (f *fakeCategoryRepo) Count() (int64, error) { return 0, nil }

func newTestResultService(results *fakeResultRepo, questions []model.Question) ResultService {
	return NewResultService(
		results,
		&fakeUserRepo{},
		&fakeCategoryRepo{},
		&fakeQuestionRepo{byCategory: map[uint][]model.Question{7: questions}},
	)
}

func TestResultServiceDetailReview(t *testing.T) {
	questions := seededPool(2)
	questions[1].CorrectAnswer = "AC"

	result := &model.ExamResult{
		UserID:         9,
		CategoryID:     7,
		Score:          1,
		TotalQuestions: 2,
		QuestionCount:  2,
		AnswersData:    datatypes.JSON(`{"1":"A","2":"C"}`),
	}
	result.ID = 5

	svc := newTestResultService(&fakeResultRepo{byID: map[uint]*model.ExamResult{5: result}}, questions)

	detail, err := svc.Detail(9, 5)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if len(detail.Questions) != 2 {
		t.Fatalf("got %d review questions, want 2", len(detail.Questions))
	}

	first := detail.Questions[0]
	if first.QuestionID != 1 || first.Text != "question 0" {
		t.Errorf("first review question wrong: %+v", first)
	}
	if len(first.Choices) != 4 || first.Choices[0].Key != "A" || first.Choices[0].Text != "a0" {
		t.Errorf("first question choices wrong: %+v", first.Choices)
	}
	if first.Selected != "A" || first.CorrectAnswer != "A" || !first.Correct {
		t.Errorf("first question scoring wrong: %+v", first)
	}

	second := detail.Questions[1]
	if second.QuestionID != 2 || second.Selected != "C" || second.CorrectAnswer != "AC" || second.Correct {
		t.Errorf("second question should be reviewed as wrong: %+v", second)
	}
	if second.Explanation != "" {
		t.Errorf("second question explanation = %q, want empty", second.Explanation)
	}

	if detail.AnswersData["2"] != "C" {
		t.Errorf("raw answer record lost: %v", detail.AnswersData)
	}
}

func TestResultServiceDetailSkipsDeletedQuestions(t *testing.T) {
	// Only question 1 survives in the bank; the record references 1 and 3.
	result := &model.ExamResult{
		UserID:         9,
		CategoryID:     7,
		Score:          1,
		TotalQuestions: 2,
		QuestionCount:  2,
		AnswersData:    datatypes.JSON(`{"1":"A","3":"B"}`),
	}
	result.ID = 6

	svc := newTestResultService(&fakeResultRepo{byID: map[uint]*model.ExamResult{6: result}}, seededPool(1))

	detail, err := svc.Detail(9, 6)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if len(detail.Questions) != 1 || detail.Questions[0].QuestionID != 1 {
		t.Fatalf("review questions = %+v, want only question 1", detail.Questions)
	}
	if detail.AnswersData["3"] != "B" {
		t.Error("deleted question's answer should stay in the raw record")
	}
}

func TestResultServiceDetailOwnership(t *testing.T) {
	result := &model.ExamResult{UserID: 9, CategoryID: 7, TotalQuestions: 1, QuestionCount: 1}
	result.ID = 7

	svc := newTestResultService(&fakeResultRepo{byID: map[uint]*model.ExamResult{7: result}}, seededPool(1))

	if _, err := svc.Detail(8, 7); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("foreign user Detail error = %v, want ErrResultNotFound", err)
	}
	if _, err := svc.Detail(9, 99); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("unknown result Detail error = %v, want ErrResultNotFound", err)
	}
}

func TestResultServiceHistoryStats(t *testing.T) {
	history := []model.ExamResult{
		{UserID: 9, CategoryID: 7, Score: 2, TotalQuestions: 2, QuestionCount: 2},
		{UserID: 9, CategoryID: 7, Score: 1, TotalQuestions: 2, QuestionCount: 2},
	}

	svc := newTestResultService(&fakeResultRepo{history: history}, nil)

	summaries, stats, err := svc.History(9)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if summaries[0].Percentage != 100 || summaries[1].Percentage != 50 {
		t.Errorf("percentages = %d/%d, want 100/50", summaries[0].Percentage, summaries[1].Percentage)
	}
	if stats.TotalExams != 2 || stats.PassedExams != 1 {
		t.Errorf("stats counts = %+v, want 2 exams, 1 passed", stats)
	}
	if stats.AverageScore != 75 || stats.PassRate != 50 {
		t.Errorf("stats aggregates = %+v, want average 75, pass rate 50", stats)
	}
}
