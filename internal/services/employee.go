package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/apierr"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

// EmployeeProfile is the full profile view: the employee plus their skills,
// open gaps and readiness against their current role.
type EmployeeProfile struct {
	Employee       *types.Employee        `json:"employee"`
	Skills         []*types.EmployeeSkill `json:"skills"`
	OpenGaps       []*types.SkillGap      `json:"openGaps"`
	ReadinessScore *float64               `json:"readinessScore,omitempty"`
}

// EmployeeFilter narrows employee listings beyond the shared paging request.
type EmployeeFilter struct {
	TeamID    *uuid.UUID
	JobRoleID *uuid.UUID
}

type EmployeeService interface {
	GetByID(ctx context.Context, employeeID uuid.UUID) (*types.Employee, error)
	GetProfile(ctx context.Context, employeeID uuid.UUID) (*EmployeeProfile, error)
	List(ctx context.Context, req paging.Request, filter EmployeeFilter) (*paging.Result[*types.Employee], error)
	Update(ctx context.Context, employeeID uuid.UUID, patch EmployeePatch, by uuid.UUID) (*types.Employee, error)
	Delete(ctx context.Context, employeeID uuid.UUID, by uuid.UUID) error

	SelfAssessSkill(ctx context.Context, employeeID, skillID uuid.UUID, level types.ProficiencyLevel) (*types.EmployeeSkill, error)
	RemoveSkill(ctx context.Context, employeeID, skillID uuid.UUID, by uuid.UUID) error
	SkillHistory(ctx context.Context, employeeID uuid.UUID, skillID *uuid.UUID) ([]*types.EmployeeSkillHistory, error)
}

// EmployeePatch carries the mutable profile fields; nil means unchanged.
type EmployeePatch struct {
	FullName          *string                 `json:"fullName,omitempty"`
	AvatarURL         *string                 `json:"avatarUrl,omitempty"`
	TeamID            *uuid.UUID              `json:"teamId,omitempty"`
	JobRoleID         *uuid.UUID              `json:"jobRoleId,omitempty"`
	ManagerID         *uuid.UUID              `json:"managerId,omitempty"`
	SystemRole        *types.UserRole         `json:"systemRole,omitempty"`
	Status            *types.EmploymentStatus `json:"status,omitempty"`
	YearsOfExperience *int                    `json:"yearsOfExperience,omitempty"`
}

type employeeService struct {
	db           *gorm.DB
	log          *logger.Logger
	employeeRepo repos.EmployeeRepo
	empSkillRepo repos.EmployeeSkillRepo
	gapRepo      repos.SkillGapRepo
	skillRepo    repos.SkillRepo
	gapService   GapAnalysisService
}

func NewEmployeeService(
	db *gorm.DB,
	log *logger.Logger,
	employeeRepo repos.EmployeeRepo,
	empSkillRepo repos.EmployeeSkillRepo,
	gapRepo repos.SkillGapRepo,
	skillRepo repos.SkillRepo,
	gapService GapAnalysisService,
) EmployeeService {
	serviceLog := log.With("service", "EmployeeService")
	return &employeeService{
		db:           db,
		log:          serviceLog,
		employeeRepo: employeeRepo,
		empSkillRepo: empSkillRepo,
		gapRepo:      gapRepo,
		skillRepo:    skillRepo,
		gapService:   gapService,
	}
}

func (es *employeeService) GetByID(ctx context.Context, employeeID uuid.UUID) (*types.Employee, error) {
	employee, err := es.employeeRepo.GetByID(ctx, nil, employeeID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("employee")
		}
		return nil, err
	}
	return employee, nil
}

func (es *employeeService) GetProfile(ctx context.Context, employeeID uuid.UUID) (*EmployeeProfile, error) {
	employee, err := es.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	skills, err := es.empSkillRepo.GetByEmployee(ctx, nil, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	gaps, err := es.gapRepo.ListByEmployee(ctx, nil, employeeID, true)
	if err != nil {
		return nil, fmt.Errorf("load gaps: %w", err)
	}

	profile := &EmployeeProfile{
		Employee: employee,
		Skills:   skills,
		OpenGaps: gaps,
	}
	if employee.JobRoleID != nil {
		score, rErr := es.gapService.ReadinessScore(ctx, employeeID)
		if rErr != nil {
			es.log.Warn("readiness computation failed", "employee_id", employeeID, "error", rErr)
		} else {
			profile.ReadinessScore = &score
		}
	}
	return profile, nil
}

func (es *employeeService) List(ctx context.Context, req paging.Request, filter EmployeeFilter) (*paging.Result[*types.Employee], error) {
	req.Normalize()
	items, total, err := es.employeeRepo.List(ctx, nil, req, filter.TeamID, filter.JobRoleID)
	if err != nil {
		return nil, err
	}
	return paging.NewResult(items, total, req), nil
}

func (es *employeeService) Update(ctx context.Context, employeeID uuid.UUID, patch EmployeePatch, by uuid.UUID) (*types.Employee, error) {
	employee, err := es.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	roleChanged := false
	if patch.FullName != nil {
		if strings.TrimSpace(*patch.FullName) == "" {
			return nil, apierr.Validation("full name cannot be empty")
		}
		employee.FullName = *patch.FullName
	}
	if patch.AvatarURL != nil {
		employee.AvatarURL = *patch.AvatarURL
	}
	if patch.TeamID != nil {
		employee.TeamID = patch.TeamID
	}
	if patch.JobRoleID != nil {
		if employee.JobRoleID == nil || *employee.JobRoleID != *patch.JobRoleID {
			roleChanged = true
		}
		employee.JobRoleID = patch.JobRoleID
	}
	if patch.ManagerID != nil {
		if *patch.ManagerID == employeeID {
			return nil, apierr.Validation("an employee cannot manage themselves")
		}
		employee.ManagerID = patch.ManagerID
	}
	if patch.SystemRole != nil {
		employee.SystemRole = *patch.SystemRole
	}
	if patch.Status != nil {
		employee.Status = *patch.Status
		if *patch.Status == types.EmploymentResigned || *patch.Status == types.EmploymentTerminated {
			now := time.Now().UTC()
			employee.LeaveDate = &now
		}
	}
	if patch.YearsOfExperience != nil {
		if *patch.YearsOfExperience < 0 {
			return nil, apierr.Validation("years of experience cannot be negative")
		}
		employee.YearsOfExperience = *patch.YearsOfExperience
	}
	employee.UpdatedBy = &by

	if _, err := es.employeeRepo.Update(ctx, nil, employee); err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}

	// A role change invalidates every previously computed gap baseline.
	if roleChanged {
		if _, rErr := es.gapService.RecalculateGaps(ctx, employeeID, nil); rErr != nil {
			es.log.Warn("gap recalculation after role change failed", "employee_id", employeeID, "error", rErr)
		}
	}
	return es.GetByID(ctx, employeeID)
}

func (es *employeeService) Delete(ctx context.Context, employeeID uuid.UUID, by uuid.UUID) error {
	if err := es.employeeRepo.SoftDelete(ctx, nil, employeeID, &by); err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("employee")
		}
		return err
	}
	es.log.Info("employee deleted", "employee_id", employeeID)
	return nil
}

// SelfAssessSkill records the employee's own level claim. It moves
// CurrentLevel only when the skill has never been validated by a test or a
// manager; validated levels outrank self-assessment.
func (es *employeeService) SelfAssessSkill(ctx context.Context, employeeID, skillID uuid.UUID, level types.ProficiencyLevel) (*types.EmployeeSkill, error) {
	if !level.Valid() {
		return nil, apierr.Validation("invalid proficiency level")
	}
	if _, err := es.skillRepo.GetByID(ctx, nil, skillID); err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("skill")
		}
		return nil, err
	}

	now := time.Now().UTC()
	var record *types.EmployeeSkill
	err := es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := es.empSkillRepo.GetByEmployeeAndSkill(ctx, tx, employeeID, skillID)
		if err != nil && !apierr.IsNotFound(err) {
			return err
		}
		fromLevel := types.LevelNone
		record = &types.EmployeeSkill{EmployeeID: employeeID, SkillID: skillID}
		if current != nil {
			fromLevel = current.CurrentLevel
			record = current
		}
		record.SelfAssessedLevel = &level
		record.LastAssessedAt = &now
		record.UpdatedBy = &employeeID
		if !record.IsValidated {
			record.CurrentLevel = level
		}
		if _, err := es.empSkillRepo.Upsert(ctx, tx, record); err != nil {
			return err
		}
		if record.CurrentLevel != fromLevel {
			return es.empSkillRepo.AppendHistory(ctx, tx, &types.EmployeeSkillHistory{
				EmployeeID:   employeeID,
				SkillID:      skillID,
				FromLevel:    fromLevel,
				ToLevel:      record.CurrentLevel,
				ChangeReason: "Self assessment",
				ChangedAt:    now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, rErr := es.gapService.RecalculateGaps(ctx, employeeID, nil); rErr != nil {
		es.log.Warn("gap recalculation after self assessment failed", "employee_id", employeeID, "error", rErr)
	}
	return record, nil
}

func (es *employeeService) RemoveSkill(ctx context.Context, employeeID, skillID uuid.UUID, by uuid.UUID) error {
	if err := es.empSkillRepo.SoftDelete(ctx, nil, employeeID, skillID, &by); err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("employee skill")
		}
		return err
	}
	return nil
}

func (es *employeeService) SkillHistory(ctx context.Context, employeeID uuid.UUID, skillID *uuid.UUID) ([]*types.EmployeeSkillHistory, error) {
	return es.empSkillRepo.ListHistory(ctx, nil, employeeID, skillID)
}
