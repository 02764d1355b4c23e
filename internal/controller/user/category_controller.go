package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/service"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// GetCategories godoc
// @Summary List exam categories
// @Description Get all categories with their question counts, for the category picker.
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CategorySummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /categories [get]
func (c *CategoryController) GetCategories(ctx *gin.Context) {
	categories, err := c.categoryService.GetAll()
	if err != nil {
		log.Error().Err(err).Msg("GetCategories: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve categories", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, categories)
}
