package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"miniblog/internal/app"
	"miniblog/internal/transport/http/response"
)

type DashboardHandler struct {
	dashboardService *app.DashboardService
}

func NewDashboardHandler(dashboardService *app.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	stats, err := h.dashboardService.Stats(userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			log.Printf("dashboard stats failed: %v", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "dashboard stats failed")
		}
		return
	}

	response.OK(c, stats)
}
