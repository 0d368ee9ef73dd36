package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/services"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type LearningPathHandler struct {
	log             *logger.Logger
	pathService     services.LearningPathService
	resourceService services.LearningResourceService
}

func NewLearningPathHandler(
	log *logger.Logger,
	pathService services.LearningPathService,
	resourceService services.LearningResourceService,
) *LearningPathHandler {
	handlerLog := log.With("handler", "LearningPathHandler")
	return &LearningPathHandler{
		log:             handlerLog,
		pathService:     pathService,
		resourceService: resourceService,
	}
}

func (lh *LearningPathHandler) GenerateForGap(c *gin.Context) {
	gapID, ok := pathUUID(c, "gapId")
	if !ok {
		return
	}
	actor := caller(c).EmployeeID
	path, err := lh.pathService.GenerateForGap(c.Request.Context(), gapID, &actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, path)
}

func (lh *LearningPathHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	path, err := lh.pathService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, path)
}

func (lh *LearningPathHandler) ListByEmployee(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	paths, err := lh.pathService.ListByEmployee(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, paths)
}

type pathStatusRequest struct {
	Status types.LearningPathStatus `json:"status" binding:"required"`
}

func (lh *LearningPathHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req pathStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	path, err := lh.pathService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, path)
}

type itemStatusRequest struct {
	Status types.LearningItemStatus `json:"status" binding:"required"`
}

func (lh *LearningPathHandler) UpdateItemStatus(c *gin.Context) {
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}
	var req itemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	path, err := lh.pathService.UpdateItemStatus(c.Request.Context(), itemID, req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, path)
}

func (lh *LearningPathHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor := caller(c).EmployeeID
	if err := lh.pathService.Delete(c.Request.Context(), id, &actor); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "learning path deleted")
}

func (lh *LearningPathHandler) Recommendations(c *gin.Context) {
	gapID, ok := pathUUID(c, "gapId")
	if !ok {
		return
	}
	recs, err := lh.pathService.Recommendations(c.Request.Context(), gapID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, recs)
}

type resourceRequest struct {
	Resource types.LearningResource       `json:"resource"`
	Skills   []services.SkillMappingInput `json:"skills"`
}

func (lh *LearningPathHandler) CreateResource(c *gin.Context) {
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	actor := caller(c).EmployeeID
	created, err := lh.resourceService.Create(c.Request.Context(), &req.Resource, req.Skills, &actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (lh *LearningPathHandler) GetResource(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	resource, err := lh.resourceService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, resource)
}

func (lh *LearningPathHandler) ListResources(c *gin.Context) {
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

	result, err := lh.resourceService.List(c.Request.Context(), req, skillID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (lh *LearningPathHandler) UpdateResource(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondValidation(c, err)
		return
	}
	req.Resource.ID = id
	actor := caller(c).EmployeeID
	updated, err := lh.resourceService.Update(c.Request.Context(), &req.Resource, req.Skills, &actor)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (lh *LearningPathHandler) DeleteResource(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor := caller(c).EmployeeID
	if err := lh.resourceService.Delete(c.Request.Context(), id, &actor); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "resource deleted")
}
