package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/apierr"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/cache"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

const dashboardTTL = 5 * time.Minute

// PersonalDashboard is one employee's home view.
type PersonalDashboard struct {
	EmployeeID        uuid.UUID        `json:"employeeId"`
	SkillCount        int              `json:"skillCount"`
	ValidatedCount    int              `json:"validatedCount"`
	OpenGaps          int              `json:"openGaps"`
	GapsByPriority    map[string]int64 `json:"gapsByPriority"`
	ReadinessScore    *float64         `json:"readinessScore,omitempty"`
	ActivePaths       int64            `json:"activePaths"`
	RecentAssessments int64            `json:"recentAssessments"`
}

// MatrixCell is one (member, skill) entry of a team skill matrix.
type MatrixCell struct {
	SkillID uuid.UUID              `json:"skillId"`
	Level   types.ProficiencyLevel `json:"level"`
}

// MatrixRow is one team member's levels across the matrix skills.
type MatrixRow struct {
	EmployeeID uuid.UUID    `json:"employeeId"`
	FullName   string       `json:"fullName"`
	JobRole    string       `json:"jobRole,omitempty"`
	Cells      []MatrixCell `json:"cells"`
}

// TeamDashboard aggregates a team: headcount, readiness, gap pressure and the
// member-by-skill matrix.
type TeamDashboard struct {
	TeamID           uuid.UUID            `json:"teamId"`
	TeamName         string               `json:"teamName"`
	MemberCount      int                  `json:"memberCount"`
	AverageReadiness float64              `json:"averageReadiness"`
	GapsByPriority   map[string]int64     `json:"gapsByPriority"`
	SkillNames       map[uuid.UUID]string `json:"skillNames"`
	Matrix           []MatrixRow          `json:"matrix"`
}

// GroupShare is one bucket of a percentage breakdown.
type GroupShare struct {
	Name       string  `json:"name"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// OrgDashboard is the company-wide rollup.
type OrgDashboard struct {
	ActiveEmployees         int64                      `json:"activeEmployees"`
	Teams                   int                        `json:"teams"`
	TeamDistribution        []GroupShare               `json:"teamDistribution"`
	RoleDistribution        []GroupShare               `json:"roleDistribution"`
	ProficiencyDistribution map[string]int64           `json:"proficiencyDistribution"`
	TopSkills               []repos.SkillPopularityRow `json:"topSkills"`
	DomainCoverage          []repos.DomainCoverageRow  `json:"domainCoverage"`
	GapsByPriority          map[string]int64           `json:"gapsByPriority"`
	TopGapSkills            []repos.GapSkillCount      `json:"topGapSkills"`
	ActiveLearningPaths     int64                      `json:"activeLearningPaths"`
	AssessmentsLast30d      int64                      `json:"assessmentsLast30Days"`
}

type DashboardService interface {
	Personal(ctx context.Context, employeeID uuid.UUID) (*PersonalDashboard, error)
	Team(ctx context.Context, teamID uuid.UUID) (*TeamDashboard, error)
	Organization(ctx context.Context) (*OrgDashboard, error)
}

type dashboardService struct {
	db           *gorm.DB
	log          *logger.Logger
	cache        cache.Cache
	employeeRepo repos.EmployeeRepo
	teamRepo     repos.TeamRepo
	empSkillRepo repos.EmployeeSkillRepo
	gapRepo      repos.SkillGapRepo
	pathRepo     repos.LearningPathRepo
	assessRepo   repos.AssessmentRepo
	gapService   GapAnalysisService
}

func NewDashboardService(
	db *gorm.DB,
	log *logger.Logger,
	c cache.Cache,
	employeeRepo repos.EmployeeRepo,
	teamRepo repos.TeamRepo,
	empSkillRepo repos.EmployeeSkillRepo,
	gapRepo repos.SkillGapRepo,
	pathRepo repos.LearningPathRepo,
	assessRepo repos.AssessmentRepo,
	gapService GapAnalysisService,
) DashboardService {
	serviceLog := log.With("service", "DashboardService")
	return &dashboardService{
		db:           db,
		log:          serviceLog,
		cache:        c,
		employeeRepo: employeeRepo,
		teamRepo:     teamRepo,
		empSkillRepo: empSkillRepo,
		gapRepo:      gapRepo,
		pathRepo:     pathRepo,
		assessRepo:   assessRepo,
		gapService:   gapService,
	}
}

func priorityCounts(counts map[types.GapPriority]int64) map[string]int64 {
	out := map[string]int64{}
	for _, p := range []types.GapPriority{types.PriorityLow, types.PriorityMedium, types.PriorityHigh, types.PriorityCritical} {
		out[p.String()] = counts[p]
	}
	return out
}

// groupShares turns headcount buckets into a percentage breakdown against the
// given total, rounded to one decimal place.
func groupShares(rows []repos.GroupCount, total int64) []GroupShare {
	out := make([]GroupShare, 0, len(rows))
	for _, row := range rows {
		share := GroupShare{Name: row.Name, Count: row.Count}
		if total > 0 {
			share.Percentage = math.Round(float64(row.Count)/float64(total)*1000) / 10
		}
		out = append(out, share)
	}
	return out
}

// levelCounts keys a proficiency distribution by level name, with every level
// present even when empty.
func levelCounts(counts map[types.ProficiencyLevel]int64) map[string]int64 {
	out := map[string]int64{}
	for l := types.LevelNone; l <= types.LevelSetStrategy; l++ {
		out[l.String()] = counts[l]
	}
	return out
}

// matrixCells flattens one member's levels into a skill-ordered row, so the
// pivot serializes the same way on every request.
func matrixCells(levels map[uuid.UUID]types.ProficiencyLevel) []MatrixCell {
	cells := make([]MatrixCell, 0, len(levels))
	for skillID, level := range levels {
		cells = append(cells, MatrixCell{SkillID: skillID, Level: level})
	}
	sort.Slice(cells, func(i, j int) bool {
		return cells[i].SkillID.String() < cells[j].SkillID.String()
	})
	return cells
}

func (ds *dashboardService) Personal(ctx context.Context, employeeID uuid.UUID) (*PersonalDashboard, error) {
	key := "dashboard:personal:" + employeeID.String()
	var cached PersonalDashboard
	if hit, _ := ds.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	employee, err := ds.employeeRepo.GetByID(ctx, nil, employeeID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("employee")
		}
		return nil, err
	}

	skills, err := ds.empSkillRepo.GetByEmployee(ctx, nil, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load skills: %w", err)
	}
	validated := 0
	for _, s := range skills {
		if s.IsValidated {
			validated++
		}
	}

	gaps, err := ds.gapRepo.ListByEmployee(ctx, nil, employeeID, true)
	if err != nil {
		return nil, fmt.Errorf("load gaps: %w", err)
	}
	byPriority, err := ds.gapRepo.CountUnresolvedByPriority(ctx, nil, []uuid.UUID{employeeID})
	if err != nil {
		return nil, fmt.Errorf("count gaps: %w", err)
	}
	activePaths, err := ds.pathRepo.CountActiveByEmployees(ctx, nil, []uuid.UUID{employeeID})
	if err != nil {
		return nil, fmt.Errorf("count paths: %w", err)
	}
	recentAssessments, err := ds.assessRepo.CountCompletedSince(ctx, nil, []uuid.UUID{employeeID}, 30)
	if err != nil {
		return nil, fmt.Errorf("count assessments: %w", err)
	}

	dashboard := &PersonalDashboard{
		EmployeeID:        employeeID,
		SkillCount:        len(skills),
		ValidatedCount:    validated,
		OpenGaps:          len(gaps),
		GapsByPriority:    priorityCounts(byPriority),
		ActivePaths:       activePaths,
		RecentAssessments: recentAssessments,
	}
	if employee.JobRoleID != nil {
		if score, rErr := ds.gapService.ReadinessScore(ctx, employeeID); rErr == nil {
			dashboard.ReadinessScore = &score
		}
	}

	_ = ds.cache.Set(ctx, key, dashboard, dashboardTTL)
	return dashboard, nil
}

func (ds *dashboardService) Team(ctx context.Context, teamID uuid.UUID) (*TeamDashboard, error) {
	key := "dashboard:team:" + teamID.String()
	var cached TeamDashboard
	if hit, _ := ds.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	team, err := ds.teamRepo.GetByID(ctx, nil, teamID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("team")
		}
		return nil, err
	}
	members, err := ds.employeeRepo.ListByTeam(ctx, nil, teamID)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}

	memberIDs := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}

	byPriority, err := ds.gapRepo.CountUnresolvedByPriority(ctx, nil, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("count gaps: %w", err)
	}
	levels, err := ds.empSkillRepo.LevelsForEmployees(ctx, nil, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("load skill matrix: %w", err)
	}
	gaps, err := ds.gapRepo.ListUnresolvedByEmployees(ctx, nil, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("load team gaps: %w", err)
	}

	skillNames := map[uuid.UUID]string{}
	for _, gap := range gaps {
		if gap.Skill != nil {
			skillNames[gap.SkillID] = gap.Skill.Name
		}
	}

	dashboard := &TeamDashboard{
		TeamID:         teamID,
		TeamName:       team.Name,
		MemberCount:    len(members),
		GapsByPriority: priorityCounts(byPriority),
		SkillNames:     skillNames,
		Matrix:         []MatrixRow{},
	}

	var readinessSum float64
	var readinessCount int
	for _, member := range members {
		row := MatrixRow{EmployeeID: member.ID, FullName: member.FullName, Cells: matrixCells(levels[member.ID])}
		if member.JobRole != nil {
			row.JobRole = member.JobRole.Name
		}
		dashboard.Matrix = append(dashboard.Matrix, row)

		if member.JobRoleID != nil {
			if score, rErr := ds.gapService.ReadinessScore(ctx, member.ID); rErr == nil {
				readinessSum += score
				readinessCount++
			}
		}
	}
	if readinessCount > 0 {
		dashboard.AverageReadiness = readinessSum / float64(readinessCount)
	}

	_ = ds.cache.Set(ctx, key, dashboard, dashboardTTL)
	return dashboard, nil
}

func (ds *dashboardService) Organization(ctx context.Context) (*OrgDashboard, error) {
	key := "dashboard:org"
	var cached OrgDashboard
	if hit, _ := ds.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	activeEmployees, err := ds.employeeRepo.CountActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}
	teams, err := ds.teamRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	byTeam, err := ds.employeeRepo.CountActiveByTeam(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count by team: %w", err)
	}
	byRole, err := ds.employeeRepo.CountActiveByRole(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count by role: %w", err)
	}
	topSkills, err := ds.empSkillRepo.SkillPopularity(ctx, nil, 10)
	if err != nil {
		return nil, fmt.Errorf("skill popularity: %w", err)
	}
	byLevel, err := ds.empSkillRepo.LevelDistribution(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("level distribution: %w", err)
	}
	domains, err := ds.empSkillRepo.DomainCoverage(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("domain coverage: %w", err)
	}
	byPriority, err := ds.gapRepo.CountUnresolvedByPriority(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("count gaps: %w", err)
	}
	topGaps, err := ds.gapRepo.TopGapSkills(ctx, nil, 10)
	if err != nil {
		return nil, fmt.Errorf("top gap skills: %w", err)
	}
	activePaths, err := ds.pathRepo.CountActiveByEmployees(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("count paths: %w", err)
	}
	assessments, err := ds.assessRepo.CountCompletedSince(ctx, nil, nil, 30)
	if err != nil {
		return nil, fmt.Errorf("count assessments: %w", err)
	}

	dashboard := &OrgDashboard{
		ActiveEmployees:         activeEmployees,
		Teams:                   len(teams),
		TeamDistribution:        groupShares(byTeam, activeEmployees),
		RoleDistribution:        groupShares(byRole, activeEmployees),
		ProficiencyDistribution: levelCounts(byLevel),
		TopSkills:               topSkills,
		DomainCoverage:          domains,
		GapsByPriority:          priorityCounts(byPriority),
		TopGapSkills:            topGaps,
		ActiveLearningPaths:     activePaths,
		AssessmentsLast30d:      assessments,
	}

	_ = ds.cache.Set(ctx, key, dashboard, dashboardTTL)
	return dashboard, nil
}
