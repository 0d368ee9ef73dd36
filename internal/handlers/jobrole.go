package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/services"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type JobRoleHandler struct {
	log            *logger.Logger
	jobRoleService services.JobRoleService
}

func NewJobRoleHandler(log *logger.Logger, jobRoleService services.JobRoleService) *JobRoleHandler {
	handlerLog := log.With("handler", "JobRoleHandler")
	return &JobRoleHandler{log: handlerLog, jobRoleService: jobRoleService}
}

func (jh *JobRoleHandler) Create(c *gin.Context) {
	var role types.JobRole
	if err := c.ShouldBindJSON(&role); err != nil {
		RespondValidation(c, err)
		return
	}
	created, err := jh.jobRoleService.Create(c.Request.Context(), &role, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (jh *JobRoleHandler) List(c *gin.Context) {
	result, err := jh.jobRoleService.List(c.Request.Context(), bindPaging(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (jh *JobRoleHandler) Dropdown(c *gin.Context) {
	items, err := jh.jobRoleService.Dropdown(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, items)
}

func (jh *JobRoleHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	role, err := jh.jobRoleService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, role)
}

func (jh *JobRoleHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var role types.JobRole
	if err := c.ShouldBindJSON(&role); err != nil {
		RespondValidation(c, err)
		return
	}
	role.ID = id
	updated, err := jh.jobRoleService.Update(c.Request.Context(), &role, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (jh *JobRoleHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := jh.jobRoleService.Delete(c.Request.Context(), id, caller(c).EmployeeID); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "job role deleted")
}

func (jh *JobRoleHandler) Requirements(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	requirements, err := jh.jobRoleService.Requirements(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, requirements)
}

func (jh *JobRoleHandler) SetRequirement(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var input services.RequirementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondValidation(c, err)
		return
	}
	result, err := jh.jobRoleService.SetRequirement(c.Request.Context(), id, input, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (jh *JobRoleHandler) RemoveRequirement(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	skillID, ok := pathUUID(c, "skillId")
	if !ok {
		return
	}
	if err := jh.jobRoleService.RemoveRequirement(c.Request.Context(), id, skillID, caller(c).EmployeeID); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "requirement removed")
}
