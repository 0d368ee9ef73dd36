package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/services"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type SkillHandler struct {
	log          *logger.Logger
	skillService services.SkillService
}

func NewSkillHandler(log *logger.Logger, skillService services.SkillService) *SkillHandler {
	handlerLog := log.With("handler", "SkillHandler")
	return &SkillHandler{log: handlerLog, skillService: skillService}
}

func (sh *SkillHandler) CreateDomain(c *gin.Context) {
	var domain types.SkillDomain
	if err := c.ShouldBindJSON(&domain); err != nil {
		RespondValidation(c, err)
		return
	}
	created, err := sh.skillService.CreateDomain(c.Request.Context(), &domain, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (sh *SkillHandler) ListDomains(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true"
	domains, err := sh.skillService.ListDomains(c.Request.Context(), includeInactive)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, domains)
}

func (sh *SkillHandler) UpdateDomain(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var domain types.SkillDomain
	if err := c.ShouldBindJSON(&domain); err != nil {
		RespondValidation(c, err)
		return
	}
	domain.ID = id
	updated, err := sh.skillService.UpdateDomain(c.Request.Context(), &domain, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (sh *SkillHandler) DeleteDomain(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := sh.skillService.DeleteDomain(c.Request.Context(), id, caller(c).EmployeeID); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "domain deleted")
}

func (sh *SkillHandler) CreateSubcategory(c *gin.Context) {
	var sub types.SkillSubcategory
	if err := c.ShouldBindJSON(&sub); err != nil {
		RespondValidation(c, err)
		return
	}
	created, err := sh.skillService.CreateSubcategory(c.Request.Context(), &sub, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (sh *SkillHandler) ListSubcategories(c *gin.Context) {
	var domainID *uuid.UUID
	if raw := c.Query("domainId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			RespondValidation(c, err)
			return
		}
		domainID = &parsed
	}
	subs, err := sh.skillService.ListSubcategories(c.Request.Context(), domainID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, subs)
}

func (sh *SkillHandler) UpdateSubcategory(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var sub types.SkillSubcategory
	if err := c.ShouldBindJSON(&sub); err != nil {
		RespondValidation(c, err)
		return
	}
	sub.ID = id
	updated, err := sh.skillService.UpdateSubcategory(c.Request.Context(), &sub, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (sh *SkillHandler) DeleteSubcategory(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := sh.skillService.DeleteSubcategory(c.Request.Context(), id, caller(c).EmployeeID); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "subcategory deleted")
}

func (sh *SkillHandler) Create(c *gin.Context) {
	var skill types.Skill
	if err := c.ShouldBindJSON(&skill); err != nil {
		RespondValidation(c, err)
		return
	}
	created, err := sh.skillService.CreateSkill(c.Request.Context(), &skill, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (sh *SkillHandler) List(c *gin.Context) {
	req := bindPaging(c)

	var filter services.SkillFilter
	if raw := c.Query("subcategoryId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			RespondValidation(c, err)
			return
		}
		filter.SubcategoryID = &parsed
	}
	if raw := c.Query("category"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			RespondValidation(c, err)
			return
		}
		category := types.SkillCategory(v)
		filter.Category = &category
	}

	result, err := sh.skillService.ListSkills(c.Request.Context(), req, filter)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (sh *SkillHandler) Dropdown(c *gin.Context) {
	items, err := sh.skillService.SkillDropdown(c.Request.Context(), bindPaging(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, items)
}

func (sh *SkillHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	skill, err := sh.skillService.GetSkill(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, skill)
}

func (sh *SkillHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var skill types.Skill
	if err := c.ShouldBindJSON(&skill); err != nil {
		RespondValidation(c, err)
		return
	}
	skill.ID = id
	updated, err := sh.skillService.UpdateSkill(c.Request.Context(), &skill, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (sh *SkillHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := sh.skillService.DeleteSkill(c.Request.Context(), id, caller(c).EmployeeID); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "skill deleted")
}

func (sh *SkillHandler) LevelDefinitions(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	defs, err := sh.skillService.ListLevelDefinitions(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, defs)
}

func (sh *SkillHandler) SaveLevelDefinition(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var def types.SkillLevelDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		RespondValidation(c, err)
		return
	}
	def.SkillID = id
	saved, err := sh.skillService.SaveLevelDefinition(c.Request.Context(), &def, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, saved)
}
