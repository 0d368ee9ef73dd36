package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/services"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type AssessmentHandler struct {
	log           *logger.Logger
	assessService services.AssessmentService
}

func NewAssessmentHandler(log *logger.Logger, assessService services.AssessmentService) *AssessmentHandler {
	handlerLog := log.With("handler", "AssessmentHandler")
	return &AssessmentHandler{log: handlerLog, assessService: assessService}
}

type templateRequest struct {
	Template  types.TestTemplate `json:"template"`
	Questions []*types.Question  `json:"questions"`
}

func (ah *AssessmentHandler) CreateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	actor := caller(c).EmployeeID
	created, err := ah.assessService.CreateTemplate(c.Request.Context(), &req.Template, req.Questions, &actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, created)
}

type generateTemplateRequest struct {
	SkillID       uuid.UUID              `json:"skillId" binding:"required"`
	Level         types.ProficiencyLevel `json:"level"`
	QuestionCount int                    `json:"questionCount"`
}

func (ah *AssessmentHandler) GenerateTemplate(c *gin.Context) {
	var req generateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	actor := caller(c).EmployeeID
	created, err := ah.assessService.GenerateTemplate(c.Request.Context(), req.SkillID, req.Level, req.QuestionCount, &actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (ah *AssessmentHandler) GetTemplate(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	tmpl, err := ah.assessService.GetTemplate(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, tmpl)
}

func (ah *AssessmentHandler) ListTemplates(c *gin.Context) {
	req := bindPaging(c)

	var skillID *uuid.UUID
	if raw := c.Query("skillId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			RespondValidation(c, err)
			return
		}
		skillID = &parsed
	}

	result, err := ah.assessService.ListTemplates(c.Request.Context(), req, skillID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ah *AssessmentHandler) UpdateTemplate(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	req.Template.ID = id
	actor := caller(c).EmployeeID
	updated, err := ah.assessService.UpdateTemplate(c.Request.Context(), &req.Template, req.Questions, &actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (ah *AssessmentHandler) DeleteTemplate(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor := caller(c).EmployeeID
	if err := ah.assessService.DeleteTemplate(c.Request.Context(), id, &actor); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "template deleted")
}

type startAssessmentRequest struct {
	TemplateID uuid.UUID `json:"templateId" binding:"required"`
}

func (ah *AssessmentHandler) Start(c *gin.Context) {
	var req startAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	assessment, err := ah.assessService.Start(c.Request.Context(), caller(c).EmployeeID, req.TemplateID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, assessment)
}

type submitAssessmentRequest struct {
	Answers []services.AnswerInput `json:"answers" binding:"required"`
}

func (ah *AssessmentHandler) Submit(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req submitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	actor := caller(c).EmployeeID
	assessment, err := ah.assessService.Submit(c.Request.Context(), id, req.Answers, &actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assessment)
}

type managerAssessmentRequest struct {
	EmployeeID uuid.UUID              `json:"employeeId" binding:"required"`
	SkillID    uuid.UUID              `json:"skillId" binding:"required"`
	Level      types.ProficiencyLevel `json:"level"`
}

func (ah *AssessmentHandler) RecordManagerAssessment(c *gin.Context) {
	var req managerAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	record, err := ah.assessService.RecordManagerAssessment(c.Request.Context(), req.EmployeeID, req.SkillID, req.Level, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, record)
}

func (ah *AssessmentHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	assessment, err := ah.assessService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assessment)
}

func (ah *AssessmentHandler) ListByEmployee(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	result, err := ah.assessService.ListByEmployee(c.Request.Context(), id, bindPaging(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}
