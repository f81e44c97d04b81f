package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facultydesk/leave-api/internal/models"
	appErrors "github.com/facultydesk/leave-api/pkg/errors"
	"github.com/facultydesk/leave-api/pkg/response"
)

type dashboardService interface {
	Compute(ctx context.Context, actor models.Actor) (*models.DashboardStats, error)
}

// DashboardHandler serves on-demand dashboard statistics.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats godoc
// @Summary Dashboard statistics for the calling actor
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	stats, err := h.service.Compute(c.Request.Context(), claims.Actor())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
