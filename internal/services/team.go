package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/apierr"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

// DropdownItem is the minimal shape select inputs need.
type DropdownItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code,omitempty"`
}

type TeamService interface {
	Create(ctx context.Context, team *types.Team, by uuid.UUID) (*types.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*types.Team, error)
	List(ctx context.Context, req paging.Request) (*paging.Result[*types.Team], error)
	Dropdown(ctx context.Context) ([]DropdownItem, error)
	Update(ctx context.Context, team *types.Team, by uuid.UUID) (*types.Team, error)
	Delete(ctx context.Context, teamID uuid.UUID, by uuid.UUID) error
	Members(ctx context.Context, teamID uuid.UUID) ([]*types.Employee, error)
}

type teamService struct {
	db           *gorm.DB
	log          *logger.Logger
	teamRepo     repos.TeamRepo
	employeeRepo repos.EmployeeRepo
}

func NewTeamService(db *gorm.DB, log *logger.Logger, teamRepo repos.TeamRepo, employeeRepo repos.EmployeeRepo) TeamService {
	serviceLog := log.With("service", "TeamService")
	return &teamService{db: db, log: serviceLog, teamRepo: teamRepo, employeeRepo: employeeRepo}
}

func (ts *teamService) Create(ctx context.Context, team *types.Team, by uuid.UUID) (*types.Team, error) {
	if strings.TrimSpace(team.Name) == "" {
		return nil, apierr.Validation("team name is required")
	}
	if team.ParentTeamID != nil {
		if _, err := ts.teamRepo.GetByID(ctx, nil, *team.ParentTeamID); err != nil {
			if apierr.IsNotFound(err) {
				return nil, apierr.Validation("parent team does not exist")
			}
			return nil, err
		}
	}
	team.IsActive = true
	team.CreatedBy = &by
	return ts.teamRepo.Create(ctx, nil, team)
}

func (ts *teamService) GetByID(ctx context.Context, teamID uuid.UUID) (*types.Team, error) {
	team, err := ts.teamRepo.GetByID(ctx, nil, teamID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("team")
		}
		return nil, err
	}
	return team, nil
}

func (ts *teamService) List(ctx context.Context, req paging.Request) (*paging.Result[*types.Team], error) {
	req.Normalize()
	items, total, err := ts.teamRepo.List(ctx, nil, req)
	if err != nil {
		return nil, err
	}
	return paging.NewResult(items, total, req), nil
}

func (ts *teamService) Dropdown(ctx context.Context) ([]DropdownItem, error) {
	teams, err := ts.teamRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	items := make([]DropdownItem, 0, len(teams))
	for _, team := range teams {
		items = append(items, DropdownItem{ID: team.ID, Name: team.Name})
	}
	return items, nil
}

func (ts *teamService) Update(ctx context.Context, team *types.Team, by uuid.UUID) (*types.Team, error) {
	existing, err := ts.GetByID(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(team.Name) == "" {
		return nil, apierr.Validation("team name is required")
	}
	if team.ParentTeamID != nil && *team.ParentTeamID == team.ID {
		return nil, apierr.Validation("a team cannot be its own parent")
	}
	existing.Name = team.Name
	existing.Description = team.Description
	existing.ParentTeamID = team.ParentTeamID
	existing.TeamLeadID = team.TeamLeadID
	existing.IsActive = team.IsActive
	existing.UpdatedBy = &by
	return ts.teamRepo.Update(ctx, nil, existing)
}

// Delete refuses while members remain; a team with people in it is moved, not
// removed.
func (ts *teamService) Delete(ctx context.Context, teamID uuid.UUID, by uuid.UUID) error {
	hasMembers, err := ts.teamRepo.HasMembers(ctx, nil, teamID)
	if err != nil {
		return err
	}
	if hasMembers {
		return apierr.Conflict("team still has members; reassign them first")
	}
	if err := ts.teamRepo.SoftDelete(ctx, nil, teamID, &by); err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("team")
		}
		return err
	}
	return nil
}

func (ts *teamService) Members(ctx context.Context, teamID uuid.UUID) ([]*types.Employee, error) {
	if _, err := ts.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	return ts.employeeRepo.ListByTeam(ctx, nil, teamID)
}
