package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/service"
)

type AdminQuestionController struct {
	questionService service.QuestionService
}

func NewAdminQuestionController(questionService service.QuestionService) *AdminQuestionController {
	return &AdminQuestionController{questionService: questionService}
}

// GetQuestions godoc
// @Summary (Admin) List all questions
// @Description Every question with its answer key and category, for the question-bank screen.
// @Tags Admin - Questions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.QuestionAdminDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions [get]
func (c *AdminQuestionController) GetQuestions(ctx *gin.Context) {
	questions, err := c.questionService.GetAll()
	if err != nil {
		log.Error().Err(err).Msg("Admin GetQuestions: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// CreateQuestion godoc
// @Summary (Admin) Create a question
// @Description Add one question. Choices A-D are required; E and F are optional but F needs E. The answer key may name several letters for multi-select.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body dto.QuestionCreateDTO true "Question data"
// @Success 201 {object} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input or unknown category"
// @Router /admin/questions [post]
func (c *AdminQuestionController) CreateQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateQuestion: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	questionResp, err := c.questionService.Create(req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, questionResp)
}

// UpdateQuestion godoc
// @Summary (Admin) Update a question
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Param question body dto.QuestionCreateDTO true "Updated question data"
// @Success 200 {object} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{id} [put]
func (c *AdminQuestionController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}

	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	questionResp, err := c.questionService.Update(uint(id), req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to update question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, questionResp)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Tags Admin - Questions
// @Security BearerAuth
// @Param id path int true "Question ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Invalid question ID format"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{id} [delete]
func (c *AdminQuestionController) DeleteQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}

	if err := c.questionService.Delete(uint(id)); err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Failed to delete question", Details: []string{err.Error()}})
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ImportQuestions godoc
// @Summary (Admin) Bulk-import questions from CSV
// @Description One transactional import. Rows are question,choiceA..choiceD[,choiceE,choiceF],correctChoice,explanation,categoryId; a header line is tolerated and invalid rows are reported back, not imported.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.QuestionImportDTO true "CSV content"
// @Success 200 {object} dto.QuestionImportResultDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed CSV"
// @Failure 500 {object} dto.ErrorResponse "Import failed"
// @Router /admin/questions/import [post]
func (c *AdminQuestionController) ImportQuestions(ctx *gin.Context) {
	var req dto.QuestionImportDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	importResp, err := c.questionService.ImportCSV(req)
	if err != nil {
		log.Error().Err(err).Msg("Admin ImportQuestions: service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to import questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, importResp)
}
