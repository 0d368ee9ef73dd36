package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/apierr"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

// GapDetail is one required skill in a gap analysis view. Met requirements
// carry IsMet and a zero gap; unmet ones carry the shortfall and a priority.
type GapDetail struct {
	SkillID       uuid.UUID              `json:"skillId"`
	SkillName     string                 `json:"skillName"`
	CurrentLevel  types.ProficiencyLevel `json:"currentLevel"`
	RequiredLevel types.ProficiencyLevel `json:"requiredLevel"`
	GapSize       int                    `json:"gapSize"`
	Priority      types.GapPriority      `json:"priority,omitempty"`
	IsMandatory   bool                   `json:"isMandatory"`
	IsMet         bool                   `json:"isMet"`
}

// GapAnalysisResult is the on-demand comparison of an employee against a
// role's requirements (the assigned role, or a prospective target role). It is
// computed fresh; persisting is Recalculate's job.
type GapAnalysisResult struct {
	EmployeeID       uuid.UUID      `json:"employeeId"`
	JobRoleID        uuid.UUID      `json:"jobRoleId"`
	JobRoleName      string         `json:"jobRoleName"`
	Gaps             []GapDetail    `json:"gaps"`
	MetCount         int            `json:"metCount"`
	TotalCount       int            `json:"totalCount"`
	CountsByPriority map[string]int `json:"countsByPriority"`
	ReadinessScore   float64        `json:"readinessScore"`
}

// RecalcSummary reports what one recalculation run changed.
type RecalcSummary struct {
	EmployeeID uuid.UUID `json:"employeeId"`
	Created    int       `json:"created"`
	Updated    int       `json:"updated"`
	Resolved   int       `json:"resolved"`
}

// BulkRecalcSummary aggregates a fleet-wide recalculation. A failing employee
// never aborts the rest; failures are reported per employee.
type BulkRecalcSummary struct {
	Processed int                  `json:"processed"`
	Failed    int                  `json:"failed"`
	Created   int                  `json:"created"`
	Updated   int                  `json:"updated"`
	Resolved  int                  `json:"resolved"`
	Failures  map[uuid.UUID]string `json:"failures,omitempty"`
}

type GapAnalysisService interface {
	GetGapAnalysis(ctx context.Context, employeeID uuid.UUID, targetRoleID *uuid.UUID) (*GapAnalysisResult, error)
	RecalculateGaps(ctx context.Context, employeeID uuid.UUID, targetRoleID *uuid.UUID) (*RecalcSummary, error)
	BulkRecalculate(ctx context.Context) (*BulkRecalcSummary, error)
	ListGaps(ctx context.Context, employeeID uuid.UUID, unresolvedOnly bool) ([]*types.SkillGap, error)
	ReadinessScore(ctx context.Context, employeeID uuid.UUID) (float64, error)
}

type gapAnalysisService struct {
	db           *gorm.DB
	log          *logger.Logger
	employeeRepo repos.EmployeeRepo
	jobRoleRepo  repos.JobRoleRepo
	empSkillRepo repos.EmployeeSkillRepo
	gapRepo      repos.SkillGapRepo
	advisor      AIAdvisor
	bulkWorkers  int
}

func NewGapAnalysisService(
	db *gorm.DB,
	log *logger.Logger,
	employeeRepo repos.EmployeeRepo,
	jobRoleRepo repos.JobRoleRepo,
	empSkillRepo repos.EmployeeSkillRepo,
	gapRepo repos.SkillGapRepo,
	advisor AIAdvisor,
	bulkWorkers int,
) GapAnalysisService {
	serviceLog := log.With("service", "GapAnalysisService")
	if bulkWorkers <= 0 {
		bulkWorkers = 8
	}
	return &gapAnalysisService{
		db:           db,
		log:          serviceLog,
		employeeRepo: employeeRepo,
		jobRoleRepo:  jobRoleRepo,
		empSkillRepo: empSkillRepo,
		gapRepo:      gapRepo,
		advisor:      advisor,
		bulkWorkers:  bulkWorkers,
	}
}

// classifyPriority ranks a gap. Any unmet mandatory requirement is at least
// High; three or more levels short on a mandatory skill is Critical.
func classifyPriority(gapSize int, mandatory bool) types.GapPriority {
	if mandatory {
		if gapSize >= 3 {
			return types.PriorityCritical
		}
		return types.PriorityHigh
	}
	if gapSize >= 2 {
		return types.PriorityMedium
	}
	return types.PriorityLow
}

// requiredLevel returns the authoritative floor for a requirement.
// MinimumLevel always wins; an ExpectedLevel below it is a data anomaly and
// only logged.
func (gs *gapAnalysisService) requiredLevel(req *types.RoleSkillRequirement) types.ProficiencyLevel {
	if req.ExpectedLevel != nil && *req.ExpectedLevel < req.MinimumLevel {
		gs.log.Warn("expected level below minimum, using minimum",
			"job_role_id", req.JobRoleID, "skill_id", req.SkillID,
			"expected", int(*req.ExpectedLevel), "minimum", int(req.MinimumLevel))
	}
	return req.MinimumLevel
}

type gapInputs struct {
	employee     *types.Employee
	roleID       uuid.UUID
	roleName     string
	requirements []*types.RoleSkillRequirement
	levels       map[uuid.UUID]types.ProficiencyLevel
}

// loadInputs resolves the role to analyze against: the explicit target role
// when given, the employee's assigned role otherwise.
func (gs *gapAnalysisService) loadInputs(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, targetRoleID *uuid.UUID) (*gapInputs, error) {
	employee, err := gs.employeeRepo.GetByID(ctx, tx, employeeID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("employee")
		}
		return nil, fmt.Errorf("load employee: %w", err)
	}

	inputs := &gapInputs{employee: employee}
	switch {
	case targetRoleID != nil:
		role, roleErr := gs.jobRoleRepo.GetByID(ctx, tx, *targetRoleID)
		if roleErr != nil {
			if apierr.IsNotFound(roleErr) {
				return nil, apierr.NotFound("job role")
			}
			return nil, fmt.Errorf("load target role: %w", roleErr)
		}
		inputs.roleID = role.ID
		inputs.roleName = role.Name
	case employee.JobRoleID == nil:
		return nil, apierr.Validation("employee has no job role assigned")
	default:
		inputs.roleID = *employee.JobRoleID
		if employee.JobRole != nil {
			inputs.roleName = employee.JobRole.Name
		}
	}

	inputs.requirements, err = gs.jobRoleRepo.ListRequirements(ctx, tx, inputs.roleID)
	if err != nil {
		return nil, fmt.Errorf("load role requirements: %w", err)
	}

	skills, err := gs.empSkillRepo.GetByEmployee(ctx, tx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee skills: %w", err)
	}
	inputs.levels = make(map[uuid.UUID]types.ProficiencyLevel, len(skills))
	for _, s := range skills {
		inputs.levels[s.SkillID] = s.CurrentLevel
	}
	return inputs, nil
}

func (gs *gapAnalysisService) GetGapAnalysis(ctx context.Context, employeeID uuid.UUID, targetRoleID *uuid.UUID) (*GapAnalysisResult, error) {
	inputs, err := gs.loadInputs(ctx, nil, employeeID, targetRoleID)
	if err != nil {
		return nil, err
	}

	result := &GapAnalysisResult{
		EmployeeID:       employeeID,
		JobRoleID:        inputs.roleID,
		JobRoleName:      inputs.roleName,
		TotalCount:       len(inputs.requirements),
		Gaps:             []GapDetail{},
		CountsByPriority: map[string]int{},
	}
	for _, p := range []types.GapPriority{types.PriorityLow, types.PriorityMedium, types.PriorityHigh, types.PriorityCritical} {
		result.CountsByPriority[p.String()] = 0
	}

	var met []GapDetail
	for _, req := range inputs.requirements {
		required := gs.requiredLevel(req)
		current := inputs.levels[req.SkillID]
		gapSize := int(required) - int(current)
		detail := GapDetail{
			SkillID:       req.SkillID,
			CurrentLevel:  current,
			RequiredLevel: required,
			IsMandatory:   req.IsMandatory,
		}
		if req.Skill != nil {
			detail.SkillName = req.Skill.Name
		}
		if gapSize <= 0 {
			detail.IsMet = true
			result.MetCount++
			met = append(met, detail)
			continue
		}
		detail.GapSize = gapSize
		detail.Priority = classifyPriority(gapSize, req.IsMandatory)
		result.CountsByPriority[detail.Priority.String()]++
		result.Gaps = append(result.Gaps, detail)
	}

	sort.SliceStable(result.Gaps, func(i, j int) bool {
		if result.Gaps[i].Priority != result.Gaps[j].Priority {
			return result.Gaps[i].Priority > result.Gaps[j].Priority
		}
		return result.Gaps[i].GapSize > result.Gaps[j].GapSize
	})
	result.Gaps = append(result.Gaps, met...)

	// An empty requirement set means there is nothing to fall short of.
	if result.TotalCount == 0 {
		result.ReadinessScore = 1.0
	} else {
		result.ReadinessScore = float64(result.MetCount) / float64(result.TotalCount)
	}
	return result, nil
}

func (gs *gapAnalysisService) RecalculateGaps(ctx context.Context, employeeID uuid.UUID, targetRoleID *uuid.UUID) (*RecalcSummary, error) {
	summary := &RecalcSummary{EmployeeID: employeeID}

	err := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inputs, err := gs.loadInputs(ctx, tx, employeeID, targetRoleID)
		if err != nil {
			return err
		}
		roleID := inputs.roleID
		now := time.Now().UTC()

		for _, req := range inputs.requirements {
			required := gs.requiredLevel(req)
			current := inputs.levels[req.SkillID]
			gapSize := int(required) - int(current)

			existing, getErr := gs.gapRepo.GetByTuple(ctx, tx, employeeID, req.SkillID, roleID)
			if getErr != nil && !apierr.IsNotFound(getErr) {
				return fmt.Errorf("load gap: %w", getErr)
			}

			if gapSize <= 0 {
				if existing != nil && existing.ResolvedAt == nil {
					if err := gs.gapRepo.Resolve(ctx, tx, existing.ID, now); err != nil {
						return fmt.Errorf("resolve gap: %w", err)
					}
					summary.Resolved++
				}
				continue
			}

			gap := &types.SkillGap{
				EmployeeID:    employeeID,
				SkillID:       req.SkillID,
				JobRoleID:     roleID,
				CurrentLevel:  current,
				RequiredLevel: required,
				GapSize:       gapSize,
				Priority:      classifyPriority(gapSize, req.IsMandatory),
				IdentifiedAt:  now,
			}
			if existing == nil && req.Skill != nil {
				// Annotation only happens on first sight of a gap; the
				// advisor never blocks recalculation.
				if insight, aErr := gs.advisor.AnalyzeGap(ctx, req.Skill.Name, gap); aErr == nil {
					gap.AiAnalysis = insight.Analysis
					gap.AiRecommendation = insight.Recommendation
				}
			}
			if _, err := gs.gapRepo.Upsert(ctx, tx, gap); err != nil {
				return fmt.Errorf("upsert gap: %w", err)
			}
			if existing == nil {
				summary.Created++
			} else {
				summary.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	gs.log.Info("gap recalculation finished",
		"employee_id", employeeID,
		"created", summary.Created, "updated", summary.Updated, "resolved", summary.Resolved)
	return summary, nil
}

func (gs *gapAnalysisService) BulkRecalculate(ctx context.Context) (*BulkRecalcSummary, error) {
	employees, err := gs.employeeRepo.ListActiveWithRole(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	summary := &BulkRecalcSummary{Failures: map[uuid.UUID]string{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(gs.bulkWorkers)
	for _, employee := range employees {
		emp := employee
		g.Go(func() error {
			one, runErr := gs.RecalculateGaps(gctx, emp.ID, nil)
			mu.Lock()
			defer mu.Unlock()
			if runErr != nil {
				summary.Failed++
				summary.Failures[emp.ID] = runErr.Error()
				gs.log.Warn("bulk recalculation failed for employee", "employee_id", emp.ID, "error", runErr)
				return nil
			}
			summary.Processed++
			summary.Created += one.Created
			summary.Updated += one.Updated
			summary.Resolved += one.Resolved
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(summary.Failures) == 0 {
		summary.Failures = nil
	}

	gs.log.Info("bulk gap recalculation finished",
		"processed", summary.Processed, "failed", summary.Failed,
		"created", summary.Created, "updated", summary.Updated, "resolved", summary.Resolved)
	return summary, nil
}

func (gs *gapAnalysisService) ListGaps(ctx context.Context, employeeID uuid.UUID, unresolvedOnly bool) ([]*types.SkillGap, error) {
	return gs.gapRepo.ListByEmployee(ctx, nil, employeeID, unresolvedOnly)
}

func (gs *gapAnalysisService) ReadinessScore(ctx context.Context, employeeID uuid.UUID) (float64, error) {
	result, err := gs.GetGapAnalysis(ctx, employeeID, nil)
	if err != nil {
		return 0, err
	}
	return result.ReadinessScore, nil
}
