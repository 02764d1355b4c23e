package repository

import (
	"github.com/vuminh/examplatform/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	CreateBatch(questions []model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindAll() ([]model.Question, error)
	FindByCategoryID(categoryID uint) ([]model.Question, error)
	FindByIDs(ids []uint) ([]model.Question, error)
	Update(question *model.Question) error
	Delete(id uint) error
	Count() (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) CreateBatch(questions []model.Question) error {
	// One transaction per import so a bad row rolls back the whole batch.
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&questions).Error
	})
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Preload("Category").Order("created_at desc").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByCategoryID(categoryID uint) ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Where("category_id = ?", categoryID).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) FindByIDs(ids []uint) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) Update(question *model.Question) error {
	return r.db.Save(question).Error
}

func (r *questionRepository) Delete(id uint) error {
	return r.db.Delete(&model.Question{}, id).Error
}

func (r *questionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Count(&count).Error
	return count, err
}
