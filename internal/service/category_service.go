package service

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/model"
	"github.com/vuminh/examplatform/internal/repository"
)

type CategoryService interface {
	GetAll() ([]dto.CategorySummaryDTO, error)
	Create(req dto.CategoryCreateDTO) (*dto.CategorySummaryDTO, error)
	Update(id uint, req dto.CategoryCreateDTO) (*dto.CategorySummaryDTO, error)
	Delete(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) GetAll() ([]dto.CategorySummaryDTO, error) {
	withCount, err := s.categoryRepo.FindAllWithQuestionCount()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch categories with question count")
		return nil, fmt.Errorf("error fetching categories: %w", err)
	}

	dtos := make([]dto.CategorySummaryDTO, 0, len(withCount))
	for _, cwc := range withCount {
		dtos = append(dtos, dto.CategorySummaryDTO{
			ID:            cwc.Category.ID,
			Name:          cwc.Category.Name,
			Description:   cwc.Category.Description,
			QuestionCount: cwc.QuestionCount,
			CreatedAt:     cwc.Category.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *categoryService) Create(req dto.CategoryCreateDTO) (*dto.CategorySummaryDTO, error) {
	category := model.Category{Name: req.Name, Description: req.Description}
	if err := s.categoryRepo.Create(&category); err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("Failed to create category")
		return nil, fmt.Errorf("error creating category: %w", err)
	}
	return &dto.CategorySummaryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}, nil
}

func (s *categoryService) Update(id uint, req dto.CategoryCreateDTO) (*dto.CategorySummaryDTO, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("category not found with ID %d: %w", id, err)
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := s.categoryRepo.Update(category); err != nil {
		log.Error().Err(err).Uint("categoryID", id).Msg("Failed to update category")
		return nil, fmt.Errorf("error updating category: %w", err)
	}
	return &dto.CategorySummaryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}, nil
}

func (s *categoryService) Delete(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		return fmt.Errorf("category not found with ID %d: %w", id, err)
	}
	if err := s.categoryRepo.Delete(id); err != nil {
		log.Error().Err(err).Uint("categoryID", id).Msg("Failed to delete category")
		return fmt.Errorf("error deleting category: %w", err)
	}
	return nil
}
