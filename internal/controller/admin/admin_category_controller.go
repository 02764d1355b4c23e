package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/service"
)

type AdminCategoryController struct {
	categoryService service.CategoryService
}

func NewAdminCategoryController(categoryService service.CategoryService) *AdminCategoryController {
	return &AdminCategoryController{categoryService: categoryService}
}

// GetCategories godoc
// @Summary (Admin) List categories
// @Tags Admin - Categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CategorySummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/categories [get]
func (c *AdminCategoryController) GetCategories(ctx *gin.Context) {
	categories, err := c.categoryService.GetAll()
	if err != nil {
		log.Error().Err(err).Msg("Admin GetCategories: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve categories", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

// CreateCategory godoc
// @Summary (Admin) Create a category
// @Tags Admin - Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body dto.CategoryCreateDTO true "Category name and description"
// @Success 201 {object} dto.CategorySummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Router /admin/categories [post]
func (c *AdminCategoryController) CreateCategory(ctx *gin.Context) {
	var req dto.CategoryCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateCategory: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	categoryResp, err := c.categoryService.Create(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create category", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, categoryResp)
}

// UpdateCategory godoc
// @Summary (Admin) Update a category
// @Tags Admin - Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param category body dto.CategoryCreateDTO true "New name and description"
// @Success 200 {object} dto.CategorySummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /admin/categories/{id} [put]
func (c *AdminCategoryController) UpdateCategory(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid category ID format"})
		return
	}

	var req dto.CategoryCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	categoryResp, err := c.categoryService.Update(uint(id), req)
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to update category", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, categoryResp)
}

// DeleteCategory godoc
// @Summary (Admin) Delete a category
// @Tags Admin - Categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Invalid category ID format"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Router /admin/categories/{id} [delete]
func (c *AdminCategoryController) DeleteCategory(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid category ID format"})
		return
	}

	if err := c.categoryService.Delete(uint(id)); err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to delete category", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}
