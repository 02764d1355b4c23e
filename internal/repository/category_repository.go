package repository

import (
	"github.com/vuminh/examplatform/internal/model"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindByID(id uint) (*model.Category, error)
	FindAllWithQuestionCount() ([]struct {
		model.Category
		QuestionCount int
	}, error)
	Update(category *model.Category) error
	Delete(id uint) error
	Count() (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAllWithQuestionCount() ([]struct {
	model.Category
	QuestionCount int
}, error) {
	var results []struct {
		model.Category
		QuestionCount int
	}
	err := r.db.Model(&model.Category{}).
		Select("categories.*, (SELECT COUNT(*) FROM questions WHERE questions.category_id = categories.id AND questions.deleted_at IS NULL) as question_count").
		Where("categories.deleted_at IS NULL").
		Order("categories.name ASC").
		Scan(&results).Error
	return results, err
}

func (r *categoryRepository) Update(category *model.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepository) Delete(id uint) error {
	return r.db.Delete(&model.Category{}, id).Error
}

func (r *categoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Count(&count).Error
	return count, err
}
