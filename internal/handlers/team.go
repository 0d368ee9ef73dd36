package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/services"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type TeamHandler struct {
	log         *logger.Logger
	teamService services.TeamService
}

func NewTeamHandler(log *logger.Logger, teamService services.TeamService) *TeamHandler {
	handlerLog := log.With("handler", "TeamHandler")
	return &TeamHandler{log: handlerLog, teamService: teamService}
}

func (th *TeamHandler) Create(c *gin.Context) {
	var team types.Team
	if err := c.ShouldBindJSON(&team); err != nil {
		RespondValidation(c, err)
		return
	}
	created, err := th.teamService.Create(c.Request.Context(), &team, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (th *TeamHandler) List(c *gin.Context) {
	result, err := th.teamService.List(c.Request.Context(), bindPaging(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (th *TeamHandler) Dropdown(c *gin.Context) {
	items, err := th.teamService.Dropdown(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, items)
}

func (th *TeamHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	team, err := th.teamService.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, team)
}

func (th *TeamHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var team types.Team
	if err := c.ShouldBindJSON(&team); err != nil {
		RespondValidation(c, err)
		return
	}
	team.ID = id
	updated, err := th.teamService.Update(c.Request.Context(), &team, caller(c).EmployeeID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (th *TeamHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := th.teamService.Delete(c.Request.Context(), id, caller(c).EmployeeID); err != nil {
		RespondError(c, err)
		return
	}
	RespondMessage(c, "team deleted")
}

func (th *TeamHandler) Members(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	members, err := th.teamService.Members(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, members)
}
