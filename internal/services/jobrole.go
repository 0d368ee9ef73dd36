package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/apierr"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

// RequirementInput is one career-ladder entry for a role.
type RequirementInput struct {
	SkillID       uuid.UUID               `json:"skillId" binding:"required"`
	MinimumLevel  types.ProficiencyLevel  `json:"minimumLevel"`
	ExpectedLevel *types.ProficiencyLevel `json:"expectedLevel,omitempty"`
	ExpertLevel   *types.ProficiencyLevel `json:"expertLevel,omitempty"`
	IsMandatory   bool                    `json:"isMandatory"`
	Priority      int                     `json:"priority"`
}

// RequirementResult pairs the stored requirement with any validation
// warnings. Anomalous inputs are stored and flagged, never silently fixed.
type RequirementResult struct {
	Requirement *types.RoleSkillRequirement `json:"requirement"`
	Warnings    []string                    `json:"warnings,omitempty"`
}

type JobRoleService interface {
	Create(ctx context.Context, role *types.JobRole, by uuid.UUID) (*types.JobRole, error)
	GetByID(ctx context.Context, roleID uuid.UUID) (*types.JobRole, error)
	List(ctx context.Context, req paging.Request) (*paging.Result[*types.JobRole], error)
	Dropdown(ctx context.Context) ([]DropdownItem, error)
	Update(ctx context.Context, role *types.JobRole, by uuid.UUID) (*types.JobRole, error)
	Delete(ctx context.Context, roleID uuid.UUID, by uuid.UUID) error

	Requirements(ctx context.Context, roleID uuid.UUID) ([]*types.RoleSkillRequirement, error)
	SetRequirement(ctx context.Context, roleID uuid.UUID, input RequirementInput, by uuid.UUID) (*RequirementResult, error)
	RemoveRequirement(ctx context.Context, roleID, skillID uuid.UUID, by uuid.UUID) error
}

type jobRoleService struct {
	db          *gorm.DB
	log         *logger.Logger
	jobRoleRepo repos.JobRoleRepo
	skillRepo   repos.SkillRepo
}

func NewJobRoleService(db *gorm.DB, log *logger.Logger, jobRoleRepo repos.JobRoleRepo, skillRepo repos.SkillRepo) JobRoleService {
	serviceLog := log.With("service", "JobRoleService")
	return &jobRoleService{db: db, log: serviceLog, jobRoleRepo: jobRoleRepo, skillRepo: skillRepo}
}

func (js *jobRoleService) Create(ctx context.Context, role *types.JobRole, by uuid.UUID) (*types.JobRole, error) {
	if strings.TrimSpace(role.Name) == "" {
		return nil, apierr.Validation("role name is required")
	}
	if strings.TrimSpace(role.Code) == "" {
		return nil, apierr.Validation("role code is required")
	}
	role.Code = strings.ToUpper(strings.TrimSpace(role.Code))
	if role.LevelInHierarchy < 1 {
		role.LevelInHierarchy = 1
	}
	role.IsActive = true
	role.CreatedBy = &by
	return js.jobRoleRepo.Create(ctx, nil, role)
}

func (js *jobRoleService) GetByID(ctx context.Context, roleID uuid.UUID) (*types.JobRole, error) {
	role, err := js.jobRoleRepo.GetWithRequirements(ctx, nil, roleID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("job role")
		}
		return nil, err
	}
	return role, nil
}

func (js *jobRoleService) List(ctx context.Context, req paging.Request) (*paging.Result[*types.JobRole], error) {
	req.Normalize()
	items, total, err := js.jobRoleRepo.List(ctx, nil, req)
	if err != nil {
		return nil, err
	}
	return paging.NewResult(items, total, req), nil
}

func (js *jobRoleService) Dropdown(ctx context.Context) ([]DropdownItem, error) {
	roles, err := js.jobRoleRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	items := make([]DropdownItem, 0, len(roles))
	for _, role := range roles {
		items = append(items, DropdownItem{ID: role.ID, Name: role.Name, Code: role.Code})
	}
	return items, nil
}

func (js *jobRoleService) Update(ctx context.Context, role *types.JobRole, by uuid.UUID) (*types.JobRole, error) {
	existing, err := js.jobRoleRepo.GetByID(ctx, nil, role.ID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("job role")
		}
		return nil, err
	}
	if strings.TrimSpace(role.Name) == "" {
		return nil, apierr.Validation("role name is required")
	}
	existing.Name = role.Name
	existing.Description = role.Description
	existing.ParentRoleID = role.ParentRoleID
	existing.LevelInHierarchy = role.LevelInHierarchy
	existing.IsActive = role.IsActive
	existing.UpdatedBy = &by
	return js.jobRoleRepo.Update(ctx, nil, existing)
}

func (js *jobRoleService) Delete(ctx context.Context, roleID uuid.UUID, by uuid.UUID) error {
	if err := js.jobRoleRepo.SoftDelete(ctx, nil, roleID, &by); err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("job role")
		}
		return err
	}
	return nil
}

func (js *jobRoleService) Requirements(ctx context.Context, roleID uuid.UUID) ([]*types.RoleSkillRequirement, error) {
	if _, err := js.jobRoleRepo.GetByID(ctx, nil, roleID); err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("job role")
		}
		return nil, err
	}
	return js.jobRoleRepo.ListRequirements(ctx, nil, roleID)
}

// SetRequirement creates or updates one (role, skill) ladder entry.
// MinimumLevel is the authoritative floor; level ordering anomalies are
// stored as submitted and returned as warnings.
func (js *jobRoleService) SetRequirement(ctx context.Context, roleID uuid.UUID, input RequirementInput, by uuid.UUID) (*RequirementResult, error) {
	if !input.MinimumLevel.Valid() {
		return nil, apierr.Validation("invalid minimum level")
	}
	if input.ExpectedLevel != nil && !input.ExpectedLevel.Valid() {
		return nil, apierr.Validation("invalid expected level")
	}
	if input.ExpertLevel != nil && !input.ExpertLevel.Valid() {
		return nil, apierr.Validation("invalid expert level")
	}
	if _, err := js.jobRoleRepo.GetByID(ctx, nil, roleID); err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("job role")
		}
		return nil, err
	}
	if _, err := js.skillRepo.GetByID(ctx, nil, input.SkillID); err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("skill")
		}
		return nil, err
	}

	var warnings []string
	if input.ExpectedLevel != nil && *input.ExpectedLevel < input.MinimumLevel {
		warnings = append(warnings, fmt.Sprintf(
			"expected level %s is below minimum level %s; gap analysis uses the minimum",
			input.ExpectedLevel.String(), input.MinimumLevel.String()))
	}
	if input.ExpertLevel != nil && input.ExpectedLevel != nil && *input.ExpertLevel < *input.ExpectedLevel {
		warnings = append(warnings, fmt.Sprintf(
			"expert level %s is below expected level %s",
			input.ExpertLevel.String(), input.ExpectedLevel.String()))
	}

	requirement := &types.RoleSkillRequirement{
		JobRoleID:     roleID,
		SkillID:       input.SkillID,
		MinimumLevel:  input.MinimumLevel,
		ExpectedLevel: input.ExpectedLevel,
		ExpertLevel:   input.ExpertLevel,
		IsMandatory:   input.IsMandatory,
		Priority:      input.Priority,
	}
	if requirement.Priority <= 0 {
		requirement.Priority = 100
	}
	requirement.CreatedBy = &by
	requirement.UpdatedBy = &by

	if _, err := js.jobRoleRepo.UpsertRequirement(ctx, nil, requirement); err != nil {
		return nil, fmt.Errorf("upsert requirement: %w", err)
	}
	for _, w := range warnings {
		js.log.Warn("requirement stored with anomaly", "job_role_id", roleID, "skill_id", input.SkillID, "warning", w)
	}
	return &RequirementResult{Requirement: requirement, Warnings: warnings}, nil
}

func (js *jobRoleService) RemoveRequirement(ctx context.Context, roleID, skillID uuid.UUID, by uuid.UUID) error {
	if err := js.jobRoleRepo.DeleteRequirement(ctx, nil, roleID, skillID, &by); err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("role skill requirement")
		}
		return err
	}
	return nil
}
