package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/services"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type SystemEnumHandler struct {
	log         *logger.Logger
	enumService services.SystemEnumService
}

func NewSystemEnumHandler(log *logger.Logger, enumService services.SystemEnumService) *SystemEnumHandler {
	handlerLog := log.With("handler", "SystemEnumHandler")
	return &SystemEnumHandler{log: handlerLog, enumService: enumService}
}

func (eh *SystemEnumHandler) Types(c *gin.Context) {
	RespondOK(c, eh.enumService.Types(c.Request.Context()))
}

func (eh *SystemEnumHandler) ListByType(c *gin.Context) {
	enumType := c.Param("type")
	includeInactive := c.Query("includeInactive") == "true"
	values, err := eh.enumService.ListByType(c.Request.Context(), enumType, includeInactive)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, values)
}

func (eh *SystemEnumHandler) Create(c *gin.Context) {
	var value types.SystemEnumValue
	if err := c.ShouldBindJSON(&value); err != nil {
		RespondValidation(c, err)
		return
	}
	created, err := eh.enumService.Create(c.Request.Context(), &value, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (eh *SystemEnumHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var value types.SystemEnumValue
	if err := c.ShouldBindJSON(&value); err != nil {
		RespondValidation(c, err)
		return
	}
	value.ID = id
	updated, err := eh.enumService.Update(c.Request.Context(), &value, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (eh *SystemEnumHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := eh.enumService.Delete(c.Request.Context(), id, caller(c).EmployeeID); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "enum value deleted")
}

func (eh *SystemEnumHandler) ListProficiencyLevels(c *gin.Context) {
	levels, err := eh.enumService.ListProficiencyLevels(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, levels)
}

func (eh *SystemEnumHandler) SaveProficiencyLevel(c *gin.Context) {
	var def types.ProficiencyLevelDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		RespondValidation(c, err)
		return
	}
	saved, err := eh.enumService.SaveProficiencyLevel(c.Request.Context(), &def, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, saved)
}
