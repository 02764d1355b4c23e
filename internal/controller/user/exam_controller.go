package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/exam"
	"github.com/vuminh/examplatform/internal/middleware"
	"github.com/vuminh/examplatform/internal/service"
)

type ExamController struct {
	examService service.ExamService
}

func NewExamController(examService service.ExamService) *ExamController {
	return &ExamController{examService: examService}
}

// StartExam godoc
// @Summary Start a new exam attempt
// @Description Draw a randomized attempt from a category's question pool and start the countdown. Replaces any attempt the caller already has live.
// @Tags Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exam body dto.ExamStartDTO true "Category and requested question count"
// @Success 201 {object} dto.AttemptStateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input or category has no questions"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams [post]
func (c *ExamController) StartExam(ctx *gin.Context) {
	var req dto.ExamStartDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	state, err := c.examService.Start(middleware.UserID(ctx), req)
	if err != nil {
		if errors.Is(err, service.ErrNoQuestions) {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Category has no questions"})
			return
		}
		log.Error().Err(err).Uint("categoryID", req.CategoryID).Msg("StartExam: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start exam", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, state)
}

// GetExamState godoc
// @Summary Get the current state of a live attempt
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptStateDTO
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /exams/{id} [get]
func (c *ExamController) GetExamState(ctx *gin.Context) {
	state, err := c.examService.State(middleware.UserID(ctx), ctx.Param("id"))
	if err != nil {
		c.writeExamError(ctx, err, "Failed to fetch exam state")
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// SelectChoice godoc
// @Summary Toggle a choice on the current question
// @Description Select or deselect one shown letter. Selecting an already-selected letter clears it.
// @Tags Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Param choice body dto.SelectChoiceDTO true "Shown letter to toggle"
// @Success 200 {object} dto.AttemptStateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid letter"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already completed"
// @Router /exams/{id}/answers [post]
func (c *ExamController) SelectChoice(ctx *gin.Context) {
	var req dto.SelectChoiceDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	state, err := c.examService.SelectChoice(middleware.UserID(ctx), ctx.Param("id"), req)
	if err != nil {
		c.writeExamError(ctx, err, "Failed to record answer")
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// Navigate godoc
// @Summary Jump to a question by index
// @Tags Exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Param position body dto.NavigateDTO true "Zero-based question index"
// @Success 200 {object} dto.AttemptStateDTO
// @Failure 400 {object} dto.ErrorResponse "Index out of range"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already completed"
// @Router /exams/{id}/position [put]
func (c *ExamController) Navigate(ctx *gin.Context) {
	var req dto.NavigateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	state, err := c.examService.Navigate(middleware.UserID(ctx), ctx.Param("id"), req)
	if err != nil {
		c.writeExamError(ctx, err, "Failed to navigate")
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// SubmitExam godoc
// @Summary Submit an attempt for scoring
// @Description Score the attempt, persist the result, and return the full review.
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt already completed"
// @Router /exams/{id}/submit [post]
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	result, err := c.examService.Submit(middleware.UserID(ctx), ctx.Param("id"))
	if err != nil {
		c.writeExamError(ctx, err, "Failed to submit exam")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// RetakeExam godoc
// @Summary Retake a completed attempt
// @Description Start a fresh attempt over the same questions with the same choice presentation, answers cleared and the clock reset.
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Completed attempt ID"
// @Success 201 {object} dto.AttemptStateDTO
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt not completed yet"
// @Router /exams/{id}/retake [post]
func (c *ExamController) RetakeExam(ctx *gin.Context) {
	state, err := c.examService.Retake(middleware.UserID(ctx), ctx.Param("id"))
	if err != nil {
		c.writeExamError(ctx, err, "Failed to retake exam")
		return
	}
	ctx.JSON(http.StatusCreated, state)
}

// GetExamResult godoc
// @Summary Get the review of a completed live attempt
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt not completed yet"
// @Router /exams/{id}/result [get]
func (c *ExamController) GetExamResult(ctx *gin.Context) {
	result, err := c.examService.Result(middleware.UserID(ctx), ctx.Param("id"))
	if err != nil {
		c.writeExamError(ctx, err, "Failed to fetch exam result")
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// SuspendExam godoc
// @Summary Suspend a live attempt
// @Description Snapshot the attempt, including remaining time and answers, and stop its countdown. One snapshot per user; a new one overwrites the old.
// @Tags Exams
// @Security BearerAuth
// @Param id path string true "Attempt ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Failure 409 {object} dto.ErrorResponse "Attempt not in the taking phase"
// @Router /exams/{id}/suspend [post]
func (c *ExamController) SuspendExam(ctx *gin.Context) {
	if err := c.examService.Suspend(middleware.UserID(ctx), ctx.Param("id")); err != nil {
		c.writeExamError(ctx, err, "Failed to suspend exam")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ResumeExam godoc
// @Summary Resume the caller's suspended attempt
// @Description Restore the snapshot exactly as suspended, with the same questions, presentation, answers and remaining time, and restart the countdown.
// @Tags Exams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AttemptStateDTO
// @Failure 404 {object} dto.ErrorResponse "No saved session"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exams/resume [post]
func (c *ExamController) ResumeExam(ctx *gin.Context) {
	state, err := c.examService.Resume(middleware.UserID(ctx))
	if err != nil {
		if errors.Is(err, service.ErrNoSavedSession) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "No saved session to resume"})
			return
		}
		log.Error().Err(err).Msg("ResumeExam: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to resume exam", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// writeExamError maps engine and service errors onto status codes.
func (c *ExamController) writeExamError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Attempt not found"})
	case errors.Is(err, exam.ErrInvalidState):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Operation not valid for the attempt's current status"})
	case errors.Is(err, exam.ErrIndexOutOfRange):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Question index out of range"})
	default:
		log.Error().Err(err).Str("attemptID", ctx.Param("id")).Msg(fallback)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: fallback, Details: []string{err.Error()}})
	}
}
