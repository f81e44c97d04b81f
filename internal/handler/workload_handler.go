package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/facultydesk/leave-api/internal/dto"
	"github.com/facultydesk/leave-api/internal/models"
	appErrors "github.com/facultydesk/leave-api/pkg/errors"
	"github.com/facultydesk/leave-api/pkg/response"
)

type workloadService interface {
	Create(ctx context.Context, actor models.Actor, req dto.CreateWorkloadRequest) (*models.WorkloadAssignment, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.WorkloadDetail, error)
	List(ctx context.Context, actor models.Actor, query dto.WorkloadQuery) ([]models.WorkloadDetail, error)
	Respond(ctx context.Context, actor models.Actor, id string, req dto.RespondWorkloadRequest) (*models.WorkloadDetail, error)
}

// WorkloadHandler exposes REST endpoints for workload assignments.
type WorkloadHandler struct {
	service workloadService
}

// NewWorkloadHandler constructs the handler.
func NewWorkloadHandler(service workloadService) *WorkloadHandler {
	return &WorkloadHandler{service: service}
}

// Create godoc
// @Summary Assign workload coverage for a leave
// @Tags Workloads
// @Accept json
// @Produce json
// @Param payload body dto.CreateWorkloadRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /workloads [post]
func (h *WorkloadHandler) Create(c *gin.Context) {
	var req dto.CreateWorkloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid assignment payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	assignment, err := h.service.Create(c.Request.Context(), claims.Actor(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// List godoc
// @Summary List visible workload assignments
// @Tags Workloads
// @Produce json
// @Param leave_id query string false "Parent leave ID"
// @Param view query string false "received or issued (faculty only)"
// @Param status query string false "Comma separated statuses"
// @Success 200 {object} response.Envelope
// @Router /workloads [get]
func (h *WorkloadHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	query := dto.WorkloadQuery{
		LeaveID: strings.TrimSpace(c.Query("leave_id")),
		View:    strings.ToLower(strings.TrimSpace(c.Query("view"))),
		Limit:   intQuery(c, "limit"),
		Offset:  intQuery(c, "offset"),
	}
	if rawStatus := c.Query("status"); rawStatus != "" {
		parts := strings.Split(rawStatus, ",")
		statuses := make([]models.WorkloadStatus, 0, len(parts))
		for _, part := range parts {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			statuses = append(statuses, models.WorkloadStatus(part))
		}
		query.Status = statuses
	}
	assignments, err := h.service.List(c.Request.Context(), claims.Actor(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Get godoc
// @Summary Get workload assignment detail
// @Tags Workloads
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /workloads/{id} [get]
func (h *WorkloadHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	assignment, err := h.service.Get(c.Request.Context(), claims.Actor(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Respond godoc
// @Summary Accept or reject a pending assignment
// @Tags Workloads
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body dto.RespondWorkloadRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /workloads/{id}/respond [patch]
func (h *WorkloadHandler) Respond(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.RespondWorkloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}
	assignment, err := h.service.Respond(c.Request.Context(), claims.Actor(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}
