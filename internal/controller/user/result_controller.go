package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/middleware"
	"github.com/vuminh/examplatform/internal/service"
)

type ResultController struct {
	resultService service.ResultService
}

func NewResultController(resultService service.ResultService) *ResultController {
	return &ResultController{resultService: resultService}
}

// GetHistory godoc
// @Summary Get the caller's result history
// @Description All persisted results for the caller, newest first, plus aggregate stats (70% pass threshold).
// @Tags Results
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ResultHistoryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /results [get]
func (c *ResultController) GetHistory(ctx *gin.Context) {
	results, stats, err := c.resultService.History(middleware.UserID(ctx))
	if err != nil {
		log.Error().Err(err).Msg("GetHistory: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve results", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, dto.ResultHistoryDTO{Results: results, Stats: *stats})
}

// GetResultDetail godoc
// @Summary Get one persisted result
// @Description One result with a full per-question review (text, choices, the taker's answer vs the key, explanation) plus the raw canonical answer record. Only the owner can fetch it.
// @Tags Results
// @Produce json
// @Security BearerAuth
// @Param id path int true "Result ID"
// @Success 200 {object} dto.ResultDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid result ID format"
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Router /results/{id} [get]
func (c *ResultController) GetResultDetail(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid result ID format"})
		return
	}

	detail, err := c.resultService.Detail(middleware.UserID(ctx), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrResultNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Result not found"})
			return
		}
		log.Error().Err(err).Uint64("resultID", id).Msg("GetResultDetail: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve result", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}
