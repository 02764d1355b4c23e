package repository

import (
	"github.com/vuminh/examplatform/internal/model"
	"gorm.io/gorm"
)

// ResultRepository is append-only from the engine's point of view:
// results are inserted once at submission and never updated.
type ResultRepository interface {
	Create(result *model.ExamResult) error
	FindByID(id uint) (*model.ExamResult, error)
	FindAllByUser(userID uint) ([]model.ExamResult, error)
	Count() (int64, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(result *model.ExamResult) error {
	return r.db.Create(result).Error
}

func (r *resultRepository) FindByID(id uint) (*model.ExamResult, error) {
	var result model.ExamResult
	if err := r.db.Preload("Category").First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) FindAllByUser(userID uint) ([]model.ExamResult, error) {
	var results []model.ExamResult
	err := r.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error
	return results, err
}

func (r *resultRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.ExamResult{}).Count(&count).Error
	return count, err
}
