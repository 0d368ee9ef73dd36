package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(func() { log.Sync() })
	return log
}

func mustTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	return db
}

func level(l types.ProficiencyLevel) *types.ProficiencyLevel { return &l }

var errNotWired = errors.New("not wired in this test")

type fakeEmployeeRepo struct {
	employees  map[uuid.UUID]*types.Employee
	active     []*types.Employee
	teamCounts []repos.GroupCount
	roleCounts []repos.GroupCount
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return emp, nil
}
func (f *fakeEmployeeRepo) ListActiveWithRole(ctx context.Context, tx *gorm.DB) ([]*types.Employee, error) {
	return f.active, nil
}
func (f *fakeEmployeeRepo) Create(ctx context.Context, tx *gorm.DB, e *types.Employee) (*types.Employee, error) {
	return nil, errNotWired
}
func (f *fakeEmployeeRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.Employee, error) {
	return nil, errNotWired
}
func (f *fakeEmployeeRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	return false, errNotWired
}
func (f *fakeEmployeeRepo) List(ctx context.Context, tx *gorm.DB, req paging.Request, teamID, jobRoleID *uuid.UUID) ([]*types.Employee, int64, error) {
	return nil, 0, errNotWired
}
func (f *fakeEmployeeRepo) ListByTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.Employee, error) {
	return nil, errNotWired
}
func (f *fakeEmployeeRepo) ListByManager(ctx context.Context, tx *gorm.DB, managerID uuid.UUID) ([]*types.Employee, error) {
	return nil, errNotWired
}
func (f *fakeEmployeeRepo) Update(ctx context.Context, tx *gorm.DB, e *types.Employee) (*types.Employee, error) {
	return nil, errNotWired
}
func (f *fakeEmployeeRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID, by *uuid.UUID) error {
	return errNotWired
}
func (f *fakeEmployeeRepo) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	return int64(len(f.active)), nil
}
func (f *fakeEmployeeRepo) CountActiveByTeam(ctx context.Context, tx *gorm.DB) ([]repos.GroupCount, error) {
	return f.teamCounts, nil
}
func (f *fakeEmployeeRepo) CountActiveByRole(ctx context.Context, tx *gorm.DB) ([]repos.GroupCount, error) {
	return f.roleCounts, nil
}

type fakeJobRoleRepo struct {
	roles        map[uuid.UUID]*types.JobRole
	requirements map[uuid.UUID][]*types.RoleSkillRequirement
}

func (f *fakeJobRoleRepo) ListRequirements(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) ([]*types.RoleSkillRequirement, error) {
	return f.requirements[roleID], nil
}
func (f *fakeJobRoleRepo) Create(ctx context.Context, tx *gorm.DB, r *types.JobRole) (*types.JobRole, error) {
	return nil, errNotWired
}
func (f *fakeJobRoleRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.JobRole, error) {
	role, ok := f.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}
func (f *fakeJobRoleRepo) GetWithRequirements(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.JobRole, error) {
	return nil, errNotWired
}
func (f *fakeJobRoleRepo) List(ctx context.Context, tx *gorm.DB, req paging.Request) ([]*types.JobRole, int64, error) {
	return nil, 0, errNotWired
}
func (f *fakeJobRoleRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.JobRole, error) {
	return nil, errNotWired
}
func (f *fakeJobRoleRepo) Update(ctx context.Context, tx *gorm.DB, r *types.JobRole) (*types.JobRole, error) {
	return nil, errNotWired
}
func (f *fakeJobRoleRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID, by *uuid.UUID) error {
	return errNotWired
}
func (f *fakeJobRoleRepo) UpsertRequirement(ctx context.Context, tx *gorm.DB, req *types.RoleSkillRequirement) (*types.RoleSkillRequirement, error) {
	return nil, errNotWired
}
func (f *fakeJobRoleRepo) DeleteRequirement(ctx context.Context, tx *gorm.DB, roleID, skillID uuid.UUID, by *uuid.UUID) error {
	return errNotWired
}

type fakeEmployeeSkillRepo struct {
	skills     map[uuid.UUID][]*types.EmployeeSkill
	popularity []repos.SkillPopularityRow
	levelDist  map[types.ProficiencyLevel]int64
	coverage   []repos.DomainCoverageRow
}

func (f *fakeEmployeeSkillRepo) GetByEmployee(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID) ([]*types.EmployeeSkill, error) {
	return f.skills[employeeID], nil
}
func (f *fakeEmployeeSkillRepo) GetByEmployeeAndSkill(ctx context.Context, tx *gorm.DB, employeeID, skillID uuid.UUID) (*types.EmployeeSkill, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeSkillRepo) Upsert(ctx context.Context, tx *gorm.DB, s *types.EmployeeSkill) (*types.EmployeeSkill, error) {
	return nil, errNotWired
}
func (f *fakeEmployeeSkillRepo) SoftDelete(ctx context.Context, tx *gorm.DB, employeeID, skillID uuid.UUID, by *uuid.UUID) error {
	return errNotWired
}
func (f *fakeEmployeeSkillRepo) AppendHistory(ctx context.Context, tx *gorm.DB, entry *types.EmployeeSkillHistory) error {
	return errNotWired
}
func (f *fakeEmployeeSkillRepo) ListHistory(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, skillID *uuid.UUID) ([]*types.EmployeeSkillHistory, error) {
	return nil, errNotWired
}
func (f *fakeEmployeeSkillRepo) LevelsForEmployees(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]types.ProficiencyLevel, error) {
	out := map[uuid.UUID]map[uuid.UUID]types.ProficiencyLevel{}
	for _, id := range employeeIDs {
		for _, s := range f.skills[id] {
			if out[id] == nil {
				out[id] = map[uuid.UUID]types.ProficiencyLevel{}
			}
			out[id][s.SkillID] = s.CurrentLevel
		}
	}
	return out, nil
}
func (f *fakeEmployeeSkillRepo) SkillPopularity(ctx context.Context, tx *gorm.DB, limit int) ([]repos.SkillPopularityRow, error) {
	return f.popularity, nil
}
func (f *fakeEmployeeSkillRepo) LevelDistribution(ctx context.Context, tx *gorm.DB) (map[types.ProficiencyLevel]int64, error) {
	return f.levelDist, nil
}
func (f *fakeEmployeeSkillRepo) DomainCoverage(ctx context.Context, tx *gorm.DB) ([]repos.DomainCoverageRow, error) {
	return f.coverage, nil
}

type gapKey struct {
	employeeID uuid.UUID
	skillID    uuid.UUID
	roleID     uuid.UUID
}

type fakeSkillGapRepo struct {
	gaps      map[gapKey]*types.SkillGap
	topSkills []repos.GapSkillCount
}

func newFakeSkillGapRepo() *fakeSkillGapRepo {
	return &fakeSkillGapRepo{gaps: map[gapKey]*types.SkillGap{}}
}

func (f *fakeSkillGapRepo) GetByTuple(ctx context.Context, tx *gorm.DB, employeeID, skillID, roleID uuid.UUID) (*types.SkillGap, error) {
	gap, ok := f.gaps[gapKey{employeeID, skillID, roleID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return gap, nil
}
func (f *fakeSkillGapRepo) Upsert(ctx context.Context, tx *gorm.DB, gap *types.SkillGap) (*types.SkillGap, error) {
	key := gapKey{gap.EmployeeID, gap.SkillID, gap.JobRoleID}
	if existing, ok := f.gaps[key]; ok {
		existing.CurrentLevel = gap.CurrentLevel
		existing.RequiredLevel = gap.RequiredLevel
		existing.GapSize = gap.GapSize
		existing.Priority = gap.Priority
		existing.ResolvedAt = nil
		return existing, nil
	}
	if gap.ID == uuid.Nil {
		gap.ID = uuid.New()
	}
	f.gaps[key] = gap
	return gap, nil
}
func (f *fakeSkillGapRepo) Resolve(ctx context.Context, tx *gorm.DB, gapID uuid.UUID, at time.Time) error {
	for _, gap := range f.gaps {
		if gap.ID == gapID {
			resolved := at
			gap.ResolvedAt = &resolved
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
func (f *fakeSkillGapRepo) GetByID(ctx context.Context, tx *gorm.DB, gapID uuid.UUID) (*types.SkillGap, error) {
	for _, gap := range f.gaps {
		if gap.ID == gapID {
			return gap, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeSkillGapRepo) ListByEmployee(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, unresolvedOnly bool) ([]*types.SkillGap, error) {
	var out []*types.SkillGap
	for _, gap := range f.gaps {
		if gap.EmployeeID != employeeID {
			continue
		}
		if unresolvedOnly && gap.ResolvedAt != nil {
			continue
		}
		out = append(out, gap)
	}
	return out, nil
}
func (f *fakeSkillGapRepo) MarkAddressed(ctx context.Context, tx *gorm.DB, gapID uuid.UUID, at time.Time) error {
	return errNotWired
}
func (f *fakeSkillGapRepo) ListUnresolvedByEmployees(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID) ([]*types.SkillGap, error) {
	return nil, errNotWired
}
func (f *fakeSkillGapRepo) CountUnresolvedByPriority(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID) (map[types.GapPriority]int64, error) {
	out := map[types.GapPriority]int64{}
	for _, gap := range f.gaps {
		if gap.ResolvedAt != nil {
			continue
		}
		out[gap.Priority]++
	}
	return out, nil
}
func (f *fakeSkillGapRepo) TopGapSkills(ctx context.Context, tx *gorm.DB, limit int) ([]repos.GapSkillCount, error) {
	return f.topSkills, nil
}

func TestClassifyPriority(t *testing.T) {
	cases := []struct {
		name      string
		gapSize   int
		mandatory bool
		want      types.GapPriority
	}{
		{"mandatory three levels short", 3, true, types.PriorityCritical},
		{"mandatory five levels short", 5, true, types.PriorityCritical},
		{"mandatory two levels short", 2, true, types.PriorityHigh},
		{"mandatory one level short", 1, true, types.PriorityHigh},
		{"optional two levels short", 2, false, types.PriorityMedium},
		{"optional three levels short", 3, false, types.PriorityMedium},
		{"optional one level short", 1, false, types.PriorityLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyPriority(tc.gapSize, tc.mandatory)
			if got != tc.want {
				t.Fatalf("classifyPriority(%d, %v): want=%v got=%v", tc.gapSize, tc.mandatory, tc.want, got)
			}
		})
	}
}

func newGapFixture(t *testing.T) (*gapAnalysisService, *fakeEmployeeRepo, *fakeJobRoleRepo, *fakeEmployeeSkillRepo, *fakeSkillGapRepo) {
	t.Helper()
	log := mustTestLogger(t)
	employeeRepo := &fakeEmployeeRepo{employees: map[uuid.UUID]*types.Employee{}}
	jobRoleRepo := &fakeJobRoleRepo{
		roles:        map[uuid.UUID]*types.JobRole{},
		requirements: map[uuid.UUID][]*types.RoleSkillRequirement{},
	}
	empSkillRepo := &fakeEmployeeSkillRepo{skills: map[uuid.UUID][]*types.EmployeeSkill{}}
	gapRepo := newFakeSkillGapRepo()
	svc := NewGapAnalysisService(mustTestDB(t), log, employeeRepo, jobRoleRepo, empSkillRepo, gapRepo, NewTemplateAdvisor(log), 2)
	return svc.(*gapAnalysisService), employeeRepo, jobRoleRepo, empSkillRepo, gapRepo
}

func addEmployee(employeeRepo *fakeEmployeeRepo, roleID uuid.UUID) *types.Employee {
	emp := &types.Employee{JobRoleID: &roleID, JobRole: &types.JobRole{Name: "Backend Engineer"}, Status: types.EmploymentActive}
	emp.ID = uuid.New()
	employeeRepo.employees[emp.ID] = emp
	return emp
}

func requirement(roleID, skillID uuid.UUID, minimum types.ProficiencyLevel, mandatory bool) *types.RoleSkillRequirement {
	return &types.RoleSkillRequirement{
		JobRoleID:    roleID,
		SkillID:      skillID,
		MinimumLevel: minimum,
		IsMandatory:  mandatory,
		Skill:        &types.Skill{Name: "Go Programming"},
	}
}

func TestGetGapAnalysisOrderingAndReadiness(t *testing.T) {
	svc, employeeRepo, jobRoleRepo, empSkillRepo, _ := newGapFixture(t)
	roleID := uuid.New()
	emp := addEmployee(employeeRepo, roleID)

	metSkill := uuid.New()
	minorSkill := uuid.New()
	criticalSkill := uuid.New()
	jobRoleRepo.requirements[roleID] = []*types.RoleSkillRequirement{
		requirement(roleID, metSkill, types.LevelApply, false),
		requirement(roleID, minorSkill, types.LevelAssist, false),
		requirement(roleID, criticalSkill, types.LevelEnsureAdvise, true),
	}
	empSkillRepo.skills[emp.ID] = []*types.EmployeeSkill{
		{EmployeeID: emp.ID, SkillID: metSkill, CurrentLevel: types.LevelApply},
		{EmployeeID: emp.ID, SkillID: minorSkill, CurrentLevel: types.LevelFollow},
		{EmployeeID: emp.ID, SkillID: criticalSkill, CurrentLevel: types.LevelFollow},
	}

	result, err := svc.GetGapAnalysis(context.Background(), emp.ID, nil)
	if err != nil {
		t.Fatalf("GetGapAnalysis: %v", err)
	}
	if result.TotalCount != 3 || result.MetCount != 1 {
		t.Fatalf("counts: want total=3 met=1 got total=%d met=%d", result.TotalCount, result.MetCount)
	}
	if len(result.Gaps) != 3 {
		t.Fatalf("every required skill should be listed: want=3 got=%d", len(result.Gaps))
	}
	if result.Gaps[0].SkillID != criticalSkill {
		t.Fatalf("highest priority gap should sort first, got skill %s", result.Gaps[0].SkillID)
	}
	if result.Gaps[0].Priority != types.PriorityCritical {
		t.Fatalf("mandatory 4-level gap priority: want=%v got=%v", types.PriorityCritical, result.Gaps[0].Priority)
	}
	last := result.Gaps[2]
	if !last.IsMet || last.SkillID != metSkill || last.GapSize != 0 {
		t.Fatalf("met requirement should sort last with a zero gap, got %+v", last)
	}
	if result.CountsByPriority["Critical"] != 1 || result.CountsByPriority["Low"] != 1 {
		t.Fatalf("severity counts: want Critical=1 Low=1 got %v", result.CountsByPriority)
	}
	if result.CountsByPriority["High"] != 0 || result.CountsByPriority["Medium"] != 0 {
		t.Fatalf("empty severities should still be counted: got %v", result.CountsByPriority)
	}
	want := 1.0 / 3.0
	if result.ReadinessScore < want-1e-9 || result.ReadinessScore > want+1e-9 {
		t.Fatalf("readiness: want=%v got=%v", want, result.ReadinessScore)
	}
}

func TestGetGapAnalysisAgainstTargetRole(t *testing.T) {
	svc, employeeRepo, jobRoleRepo, empSkillRepo, _ := newGapFixture(t)
	currentRoleID := uuid.New()
	emp := addEmployee(employeeRepo, currentRoleID)

	target := &types.JobRole{Name: "Staff Engineer"}
	target.ID = uuid.New()
	jobRoleRepo.roles[target.ID] = target

	currentSkill := uuid.New()
	targetSkill := uuid.New()
	jobRoleRepo.requirements[currentRoleID] = []*types.RoleSkillRequirement{
		requirement(currentRoleID, currentSkill, types.LevelApply, true),
	}
	jobRoleRepo.requirements[target.ID] = []*types.RoleSkillRequirement{
		requirement(target.ID, targetSkill, types.LevelInitiate, true),
	}
	empSkillRepo.skills[emp.ID] = []*types.EmployeeSkill{
		{EmployeeID: emp.ID, SkillID: currentSkill, CurrentLevel: types.LevelApply},
	}

	result, err := svc.GetGapAnalysis(context.Background(), emp.ID, &target.ID)
	if err != nil {
		t.Fatalf("GetGapAnalysis with target role: %v", err)
	}
	if result.JobRoleID != target.ID {
		t.Fatalf("analysis should run against the target role: want=%s got=%s", target.ID, result.JobRoleID)
	}
	if result.JobRoleName != "Staff Engineer" {
		t.Fatalf("role name: want=%q got=%q", "Staff Engineer", result.JobRoleName)
	}
	if len(result.Gaps) != 1 || result.Gaps[0].SkillID != targetSkill {
		t.Fatalf("gaps should come from the target role's requirements, got %+v", result.Gaps)
	}
}

func TestGetGapAnalysisUnknownTargetRoleNotFound(t *testing.T) {
	svc, employeeRepo, _, _, _ := newGapFixture(t)
	emp := addEmployee(employeeRepo, uuid.New())

	missing := uuid.New()
	if _, err := svc.GetGapAnalysis(context.Background(), emp.ID, &missing); err == nil {
		t.Fatalf("unknown target role should be a not-found error")
	}
}

func TestRecalculateGapsPersistsAgainstTargetRole(t *testing.T) {
	svc, employeeRepo, jobRoleRepo, _, gapRepo := newGapFixture(t)
	emp := addEmployee(employeeRepo, uuid.New())

	target := &types.JobRole{Name: "Engineering Manager"}
	target.ID = uuid.New()
	jobRoleRepo.roles[target.ID] = target

	skillID := uuid.New()
	jobRoleRepo.requirements[target.ID] = []*types.RoleSkillRequirement{
		requirement(target.ID, skillID, types.LevelEnable, true),
	}

	summary, err := svc.RecalculateGaps(context.Background(), emp.ID, &target.ID)
	if err != nil {
		t.Fatalf("RecalculateGaps with target role: %v", err)
	}
	if summary.Created != 1 {
		t.Fatalf("created: want=1 got=%d", summary.Created)
	}
	if gapRepo.gaps[gapKey{emp.ID, skillID, target.ID}] == nil {
		t.Fatalf("gap should be keyed by the target role")
	}
}

func TestGetGapAnalysisNoRequirementsIsFullyReady(t *testing.T) {
	svc, employeeRepo, _, _, _ := newGapFixture(t)
	roleID := uuid.New()
	emp := addEmployee(employeeRepo, roleID)

	result, err := svc.GetGapAnalysis(context.Background(), emp.ID, nil)
	if err != nil {
		t.Fatalf("GetGapAnalysis: %v", err)
	}
	if result.ReadinessScore != 1.0 {
		t.Fatalf("readiness with no requirements: want=1.0 got=%v", result.ReadinessScore)
	}
	if len(result.Gaps) != 0 {
		t.Fatalf("gaps with no requirements: want=0 got=%d", len(result.Gaps))
	}
}

func TestGetGapAnalysisWithoutRoleFails(t *testing.T) {
	svc, employeeRepo, _, _, _ := newGapFixture(t)
	emp := &types.Employee{}
	emp.ID = uuid.New()
	employeeRepo.employees[emp.ID] = emp

	if _, err := svc.GetGapAnalysis(context.Background(), emp.ID, nil); err == nil {
		t.Fatalf("expected error for employee without a job role")
	}
}

func TestRecalculateGapsCreatesUpdatesAndResolves(t *testing.T) {
	svc, employeeRepo, jobRoleRepo, empSkillRepo, gapRepo := newGapFixture(t)
	roleID := uuid.New()
	emp := addEmployee(employeeRepo, roleID)

	skillID := uuid.New()
	jobRoleRepo.requirements[roleID] = []*types.RoleSkillRequirement{
		requirement(roleID, skillID, types.LevelEnable, true),
	}
	empSkillRepo.skills[emp.ID] = []*types.EmployeeSkill{
		{EmployeeID: emp.ID, SkillID: skillID, CurrentLevel: types.LevelFollow},
	}

	first, err := svc.RecalculateGaps(context.Background(), emp.ID, nil)
	if err != nil {
		t.Fatalf("first recalculation: %v", err)
	}
	if first.Created != 1 || first.Updated != 0 || first.Resolved != 0 {
		t.Fatalf("first run: want created=1 got %+v", first)
	}
	stored := gapRepo.gaps[gapKey{emp.ID, skillID, roleID}]
	if stored == nil {
		t.Fatalf("gap was not persisted")
	}
	if stored.AiAnalysis == "" || stored.AiRecommendation == "" {
		t.Fatalf("new gap should carry advisor annotation")
	}

	// Employee improves one level but still falls short: same row updates.
	empSkillRepo.skills[emp.ID][0].CurrentLevel = types.LevelAssist
	second, err := svc.RecalculateGaps(context.Background(), emp.ID, nil)
	if err != nil {
		t.Fatalf("second recalculation: %v", err)
	}
	if second.Created != 0 || second.Updated != 1 {
		t.Fatalf("second run: want updated=1 got %+v", second)
	}
	if stored.GapSize != 2 {
		t.Fatalf("updated gap size: want=2 got=%d", stored.GapSize)
	}

	// Requirement met: the open gap resolves.
	empSkillRepo.skills[emp.ID][0].CurrentLevel = types.LevelEnable
	third, err := svc.RecalculateGaps(context.Background(), emp.ID, nil)
	if err != nil {
		t.Fatalf("third recalculation: %v", err)
	}
	if third.Resolved != 1 {
		t.Fatalf("third run: want resolved=1 got %+v", third)
	}
	if stored.ResolvedAt == nil {
		t.Fatalf("resolved gap should carry a resolution timestamp")
	}
}

func TestBulkRecalculateIsolatesFailures(t *testing.T) {
	svc, employeeRepo, jobRoleRepo, empSkillRepo, _ := newGapFixture(t)
	roleID := uuid.New()
	healthy := addEmployee(employeeRepo, roleID)

	// No job role assigned: this employee's recalculation must fail without
	// aborting the batch.
	broken := &types.Employee{Status: types.EmploymentActive}
	broken.ID = uuid.New()
	employeeRepo.employees[broken.ID] = broken

	skillID := uuid.New()
	jobRoleRepo.requirements[roleID] = []*types.RoleSkillRequirement{
		requirement(roleID, skillID, types.LevelApply, true),
	}
	empSkillRepo.skills[healthy.ID] = []*types.EmployeeSkill{
		{EmployeeID: healthy.ID, SkillID: skillID, CurrentLevel: types.LevelNone},
	}
	employeeRepo.active = []*types.Employee{healthy, broken}

	summary, err := svc.BulkRecalculate(context.Background())
	if err != nil {
		t.Fatalf("BulkRecalculate: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("processed: want=1 got=%d", summary.Processed)
	}
	if summary.Failed != 1 {
		t.Fatalf("failed: want=1 got=%d", summary.Failed)
	}
	if _, ok := summary.Failures[broken.ID]; !ok {
		t.Fatalf("failures map should name the broken employee")
	}
	if summary.Created != 1 {
		t.Fatalf("created: want=1 got=%d", summary.Created)
	}
}

func TestRequiredLevelUsesMinimumWhenExpectedIsLower(t *testing.T) {
	svc, _, _, _, _ := newGapFixture(t)
	req := requirement(uuid.New(), uuid.New(), types.LevelEnable, true)
	req.ExpectedLevel = level(types.LevelAssist)

	if got := svc.requiredLevel(req); got != types.LevelEnable {
		t.Fatalf("requiredLevel: want=%v got=%v", types.LevelEnable, got)
	}
}

func TestRecalculateGapsRerunWithoutChangesInsertsNothing(t *testing.T) {
	svc, employeeRepo, jobRoleRepo, empSkillRepo, gapRepo := newGapFixture(t)
	roleID := uuid.New()
	emp := addEmployee(employeeRepo, roleID)

	skillID := uuid.New()
	jobRoleRepo.requirements[roleID] = []*types.RoleSkillRequirement{
		requirement(roleID, skillID, types.LevelEnable, true),
	}
	empSkillRepo.skills[emp.ID] = []*types.EmployeeSkill{
		{EmployeeID: emp.ID, SkillID: skillID, CurrentLevel: types.LevelFollow},
	}

	if _, err := svc.RecalculateGaps(context.Background(), emp.ID, nil); err != nil {
		t.Fatalf("first recalculation: %v", err)
	}

	// Nothing moved underneath: the rerun must touch the existing row only.
	rerun, err := svc.RecalculateGaps(context.Background(), emp.ID, nil)
	if err != nil {
		t.Fatalf("rerun: %v", err)
	}
	if rerun.Created != 0 || rerun.Updated != 1 || rerun.Resolved != 0 {
		t.Fatalf("rerun without changes: want created=0 updated=1 resolved=0 got %+v", rerun)
	}
	if len(gapRepo.gaps) != 1 {
		t.Fatalf("tuple must stay unique across reruns: want=1 row got=%d", len(gapRepo.gaps))
	}
}
