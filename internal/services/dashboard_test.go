package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type fakeTeamRepo struct {
	teams map[uuid.UUID]*types.Team
}

func (f *fakeTeamRepo) Create(ctx context.Context, tx *gorm.DB, team *types.Team) (*types.Team, error) {
	return nil, errNotWired
}
func (f *fakeTeamRepo) GetByID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) (*types.Team, error) {
	team, ok := f.teams[teamID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return team, nil
}
func (f *fakeTeamRepo) List(ctx context.Context, tx *gorm.DB, req paging.Request) ([]*types.Team, int64, error) {
	return nil, 0, errNotWired
}
func (f *fakeTeamRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Team, error) {
	out := make([]*types.Team, 0, len(f.teams))
	for _, team := range f.teams {
		out = append(out, team)
	}
	return out, nil
}
func (f *fakeTeamRepo) Update(ctx context.Context, tx *gorm.DB, team *types.Team) (*types.Team, error) {
	return nil, errNotWired
}
func (f *fakeTeamRepo) SoftDelete(ctx context.Context, tx *gorm.DB, teamID uuid.UUID, by *uuid.UUID) error {
	return errNotWired
}
func (f *fakeTeamRepo) HasMembers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) (bool, error) {
	return false, errNotWired
}

type fakeAssessmentRepo struct {
	completedSince int64
}

func (f *fakeAssessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) (*types.Assessment, error) {
	return nil, errNotWired
}
func (f *fakeAssessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error) {
	return nil, errNotWired
}
func (f *fakeAssessmentRepo) GetWithResponses(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error) {
	return nil, errNotWired
}
func (f *fakeAssessmentRepo) ListByEmployee(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, req paging.Request) ([]*types.Assessment, int64, error) {
	return nil, 0, errNotWired
}
func (f *fakeAssessmentRepo) Update(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) (*types.Assessment, error) {
	return nil, errNotWired
}
func (f *fakeAssessmentRepo) CreateResponses(ctx context.Context, tx *gorm.DB, responses []*types.AssessmentResponse) error {
	return errNotWired
}
func (f *fakeAssessmentRepo) CountCompletedSince(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID, days int) (int64, error) {
	return f.completedSince, nil
}

// missCache never hits, so every dashboard read recomputes.
type missCache struct{}

func (missCache) Get(ctx context.Context, key string, dest any) (bool, error) { return false, nil }
func (missCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}
func (missCache) Invalidate(ctx context.Context, pattern string) error { return nil }
func (missCache) Close() error                                         { return nil }

type fakeGapService struct {
	readiness map[uuid.UUID]float64
}

func (f *fakeGapService) GetGapAnalysis(ctx context.Context, employeeID uuid.UUID, targetRoleID *uuid.UUID) (*GapAnalysisResult, error) {
	return nil, errNotWired
}
func (f *fakeGapService) RecalculateGaps(ctx context.Context, employeeID uuid.UUID, targetRoleID *uuid.UUID) (*RecalcSummary, error) {
	return nil, errNotWired
}
func (f *fakeGapService) BulkRecalculate(ctx context.Context) (*BulkRecalcSummary, error) {
	return nil, errNotWired
}
func (f *fakeGapService) ListGaps(ctx context.Context, employeeID uuid.UUID, unresolvedOnly bool) ([]*types.SkillGap, error) {
	return nil, errNotWired
}
func (f *fakeGapService) ReadinessScore(ctx context.Context, employeeID uuid.UUID) (float64, error) {
	score, ok := f.readiness[employeeID]
	if !ok {
		return 0, errNotWired
	}
	return score, nil
}

type dashboardFixture struct {
	svc          DashboardService
	employeeRepo *fakeEmployeeRepo
	teamRepo     *fakeTeamRepo
	empSkillRepo *fakeEmployeeSkillRepo
	gapRepo      *fakeSkillGapRepo
	pathRepo     *fakeLearningPathRepo
	assessRepo   *fakeAssessmentRepo
}

func newDashboardFixture(t *testing.T) *dashboardFixture {
	t.Helper()
	f := &dashboardFixture{
		employeeRepo: &fakeEmployeeRepo{employees: map[uuid.UUID]*types.Employee{}},
		teamRepo:     &fakeTeamRepo{teams: map[uuid.UUID]*types.Team{}},
		empSkillRepo: &fakeEmployeeSkillRepo{skills: map[uuid.UUID][]*types.EmployeeSkill{}},
		gapRepo:      newFakeSkillGapRepo(),
		pathRepo:     newFakeLearningPathRepo(),
		assessRepo:   &fakeAssessmentRepo{},
	}
	f.svc = NewDashboardService(nil, mustTestLogger(t), missCache{}, f.employeeRepo, f.teamRepo,
		f.empSkillRepo, f.gapRepo, f.pathRepo, f.assessRepo, &fakeGapService{readiness: map[uuid.UUID]float64{}})
	return f
}

func TestOrganizationDashboardRollups(t *testing.T) {
	f := newDashboardFixture(t)

	for i := 0; i < 4; i++ {
		emp := &types.Employee{Status: types.EmploymentActive}
		emp.ID = uuid.New()
		f.employeeRepo.employees[emp.ID] = emp
		f.employeeRepo.active = append(f.employeeRepo.active, emp)
	}
	f.employeeRepo.teamCounts = []repos.GroupCount{
		{Name: "Platform", Count: 3},
		{Name: "Data", Count: 1},
	}
	f.employeeRepo.roleCounts = []repos.GroupCount{
		{Name: "Backend Engineer", Count: 4},
	}

	platform := &types.Team{Name: "Platform"}
	platform.ID = uuid.New()
	data := &types.Team{Name: "Data"}
	data.ID = uuid.New()
	f.teamRepo.teams[platform.ID] = platform
	f.teamRepo.teams[data.ID] = data

	goSkill := uuid.New()
	f.empSkillRepo.popularity = []repos.SkillPopularityRow{
		{SkillID: goSkill, SkillName: "Go Programming", EmployeeCount: 3, AverageLevel: 3.5},
	}
	f.empSkillRepo.levelDist = map[types.ProficiencyLevel]int64{
		types.LevelFollow: 2,
		types.LevelApply:  5,
	}
	f.empSkillRepo.coverage = []repos.DomainCoverageRow{
		{DomainName: "Development", SkillCount: 4, EmployeeCount: 3, AverageLevel: 2.8},
	}

	gap := &types.SkillGap{EmployeeID: f.employeeRepo.active[0].ID, SkillID: goSkill, JobRoleID: uuid.New(), Priority: types.PriorityHigh}
	gap.ID = uuid.New()
	f.gapRepo.gaps[gapKey{gap.EmployeeID, gap.SkillID, gap.JobRoleID}] = gap
	f.gapRepo.topSkills = []repos.GapSkillCount{{SkillID: goSkill, SkillName: "Go Programming", GapCount: 1}}

	f.pathRepo.activeCount = 2
	f.assessRepo.completedSince = 6

	dashboard, err := f.svc.Organization(context.Background())
	if err != nil {
		t.Fatalf("Organization: %v", err)
	}
	if dashboard.ActiveEmployees != 4 || dashboard.Teams != 2 {
		t.Fatalf("headcount: want employees=4 teams=2 got %d/%d", dashboard.ActiveEmployees, dashboard.Teams)
	}
	if len(dashboard.TeamDistribution) != 2 {
		t.Fatalf("team distribution: want=2 buckets got=%d", len(dashboard.TeamDistribution))
	}
	if got := dashboard.TeamDistribution[0]; got.Name != "Platform" || got.Count != 3 || got.Percentage != 75.0 {
		t.Fatalf("team share: want Platform 3 (75%%) got %+v", got)
	}
	if got := dashboard.RoleDistribution[0]; got.Name != "Backend Engineer" || got.Percentage != 100.0 {
		t.Fatalf("role share: want Backend Engineer 100%% got %+v", got)
	}
	if dashboard.ProficiencyDistribution["Apply"] != 5 || dashboard.ProficiencyDistribution["Follow"] != 2 {
		t.Fatalf("proficiency distribution: got %v", dashboard.ProficiencyDistribution)
	}
	if _, ok := dashboard.ProficiencyDistribution["SetStrategy"]; !ok {
		t.Fatalf("every level should appear in the distribution, even empty ones")
	}
	if len(dashboard.TopSkills) != 1 || dashboard.TopSkills[0].SkillName != "Go Programming" {
		t.Fatalf("top skills: got %+v", dashboard.TopSkills)
	}
	if len(dashboard.DomainCoverage) != 1 || dashboard.DomainCoverage[0].DomainName != "Development" {
		t.Fatalf("domain coverage: got %+v", dashboard.DomainCoverage)
	}
	if dashboard.GapsByPriority["High"] != 1 {
		t.Fatalf("gap priority rollup: want High=1 got %v", dashboard.GapsByPriority)
	}
	if dashboard.ActiveLearningPaths != 2 || dashboard.AssessmentsLast30d != 6 {
		t.Fatalf("activity counters: got paths=%d assessments=%d", dashboard.ActiveLearningPaths, dashboard.AssessmentsLast30d)
	}
}

func TestGroupSharesPercentages(t *testing.T) {
	rows := []repos.GroupCount{
		{Name: "Platform", Count: 1},
		{Name: "Data", Count: 2},
	}

	shares := groupShares(rows, 3)
	if shares[0].Percentage != 33.3 {
		t.Fatalf("share of 1/3: want=33.3 got=%v", shares[0].Percentage)
	}
	if shares[1].Percentage != 66.7 {
		t.Fatalf("share of 2/3: want=66.7 got=%v", shares[1].Percentage)
	}

	// A zero total must not divide; counts stay, percentages stay zero.
	empty := groupShares(rows, 0)
	if empty[0].Percentage != 0 || empty[0].Count != 1 {
		t.Fatalf("zero total: want count=1 percentage=0 got %+v", empty[0])
	}
}

func TestMatrixCellsAreSortedBySkill(t *testing.T) {
	levels := map[uuid.UUID]types.ProficiencyLevel{}
	for i := 0; i < 8; i++ {
		levels[uuid.New()] = types.LevelApply
	}

	cells := matrixCells(levels)
	if len(cells) != 8 {
		t.Fatalf("cells: want=8 got=%d", len(cells))
	}
	sorted := sort.SliceIsSorted(cells, func(i, j int) bool {
		return cells[i].SkillID.String() < cells[j].SkillID.String()
	})
	if !sorted {
		t.Fatalf("cells must be ordered by skill id")
	}
}
