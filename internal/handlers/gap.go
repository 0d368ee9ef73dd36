package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/services"
)

type GapHandler struct {
	log        *logger.Logger
	gapService services.GapAnalysisService
}

func NewGapHandler(log *logger.Logger, gapService services.GapAnalysisService) *GapHandler {
	handlerLog := log.With("handler", "GapHandler")
	return &GapHandler{log: handlerLog, gapService: gapService}
}

// targetRole reads the optional targetRoleId query parameter. Absent means
// the employee's assigned role.
func targetRole(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("targetRoleId")
	if raw == "" {
		return nil, true
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		RespondValidation(c, errors.New("invalid targetRoleId"))
		return nil, false
	}
	return &parsed, true
}

func (gh *GapHandler) Analysis(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	targetRoleID, ok := targetRole(c)
	if !ok {
		return
	}
	result, err := gh.gapService.GetGapAnalysis(c.Request.Context(), id, targetRoleID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (gh *GapHandler) List(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	unresolvedOnly := c.DefaultQuery("unresolvedOnly", "true") != "false"
	gaps, err := gh.gapService.ListGaps(c.Request.Context(), id, unresolvedOnly)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gaps)
}

func (gh *GapHandler) Recalculate(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	targetRoleID, ok := targetRole(c)
	if !ok {
		return
	}
	summary, err := gh.gapService.RecalculateGaps(c.Request.Context(), id, targetRoleID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, summary)
}

func (gh *GapHandler) BulkRecalculate(c *gin.Context) {
	summary, err := gh.gapService.BulkRecalculate(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, summary)
}
