package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/services"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type EmployeeHandler struct {
	log             *logger.Logger
	employeeService services.EmployeeService
}

func NewEmployeeHandler(log *logger.Logger, employeeService services.EmployeeService) *EmployeeHandler {
	handlerLog := log.With("handler", "EmployeeHandler")
	return &EmployeeHandler{log: handlerLog, employeeService: employeeService}
}

func (eh *EmployeeHandler) List(c *gin.Context) {
	req := bindPaging(c)

	var filter services.EmployeeFilter
	if raw := c.Query("teamId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondValidation(c, err)
			return
		}
		filter.TeamID = &id
	}
	if raw := c.Query("jobRoleId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondValidation(c, err)
			return
		}
		filter.JobRoleID = &id
	}

	result, err := eh.employeeService.List(c.Request.Context(), req, filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (eh *EmployeeHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	employee, err := eh.employeeService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, employee)
}

func (eh *EmployeeHandler) Profile(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	profile, err := eh.employeeService.GetProfile(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, profile)
}

func (eh *EmployeeHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var patch services.EmployeePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondValidation(c, err)
		return
	}
	updated, err := eh.employeeService.Update(c.Request.Context(), id, patch, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (eh *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := eh.employeeService.Delete(c.Request.Context(), id, caller(c).EmployeeID); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "employee deleted")
}

type selfAssessRequest struct {
	SkillID uuid.UUID              `json:"skillId" binding:"required"`
	Level   types.ProficiencyLevel `json:"level"`
}

func (eh *EmployeeHandler) SelfAssess(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req selfAssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	record, err := eh.employeeService.SelfAssessSkill(c.Request.Context(), id, req.SkillID, req.Level)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, record)
}

func (eh *EmployeeHandler) RemoveSkill(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	skillID, ok := pathUUID(c, "skillId")
	if !ok {
		return
	}
	if err := eh.employeeService.RemoveSkill(c.Request.Context(), id, skillID, caller(c).EmployeeID); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "skill removed")
}

func (eh *EmployeeHandler) SkillHistory(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var skillID *uuid.UUID
	if raw := c.Query("skillId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			RespondValidation(c, err)
			return
		}
		skillID = &parsed
	}
	history, err := eh.employeeService.SkillHistory(c.Request.Context(), id, skillID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, history)
}
