package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vuminh/examplatform/internal/dto"
	"github.com/vuminh/examplatform/internal/service"
)

type AdminDashboardController struct {
	resultService service.ResultService
}

func NewAdminDashboardController(resultService service.ResultService) *AdminDashboardController {
	return &AdminDashboardController{resultService: resultService}
}

// GetDashboard godoc
// @Summary (Admin) Get dashboard counters
// @Description Totals of users, categories, questions and recorded results.
// @Tags Admin - Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/dashboard [get]
func (c *AdminDashboardController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.resultService.Dashboard()
	if err != nil {
		log.Error().Err(err).Msg("Admin GetDashboard: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve dashboard", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, dashboard)
}
