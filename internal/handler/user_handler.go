package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facultydesk/leave-api/internal/models"
	appErrors "github.com/facultydesk/leave-api/pkg/errors"
	"github.com/facultydesk/leave-api/pkg/response"
)

type userLister interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
}

// UserHandler exposes the faculty directory used to pick assignees.
type UserHandler struct {
	users userLister
}

// NewUserHandler constructs the handler.
func NewUserHandler(users userLister) *UserHandler {
	return &UserHandler{users: users}
}

// ListFaculty godoc
// @Summary List active faculty in the caller's department
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users/faculty [get]
func (h *UserHandler) ListFaculty(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	active := true
	filter := models.UserFilter{
		Role:   models.RoleFaculty,
		Active: &active,
		Limit:  intQuery(c, "limit"),
		Offset: intQuery(c, "offset"),
	}
	// admins see every department, everyone else only their own
	if claims.Role != models.RoleAdmin {
		filter.Department = claims.Department
	}
	users, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list faculty"))
		return
	}
	infos := make([]models.UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, models.UserInfo{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Role:       user.Role,
			Department: user.Department,
		})
	}
	response.JSON(c, http.StatusOK, infos, nil)
}
