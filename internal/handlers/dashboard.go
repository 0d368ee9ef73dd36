package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/services"
)

type DashboardHandler struct {
	log              *logger.Logger
	dashboardService services.DashboardService
}

func NewDashboardHandler(log *logger.Logger, dashboardService services.DashboardService) *DashboardHandler {
	handlerLog := log.With("handler", "DashboardHandler")
	return &DashboardHandler{log: handlerLog, dashboardService: dashboardService}
}

func (dh *DashboardHandler) Personal(c *gin.Context) {
	dashboard, err := dh.dashboardService.Personal(c.Request.Context(), caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, dashboard)
}

func (dh *DashboardHandler) Employee(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	dashboard, err := dh.dashboardService.Personal(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, dashboard)
}

func (dh *DashboardHandler) Team(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	dashboard, err := dh.dashboardService.Team(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, dashboard)
}

func (dh *DashboardHandler) Organization(c *gin.Context) {
	dashboard, err := dh.dashboardService.Organization(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, dashboard)
}
