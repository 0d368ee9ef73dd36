package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

func matchFor(resourceID uuid.UUID, to types.ProficiencyLevel, hours int, active bool) *types.LearningResourceSkill {
	return &types.LearningResourceSkill{
		LearningResourceID: resourceID,
		ToLevel:            to,
		LearningResource: &types.LearningResource{
			Audit:          types.Audit{ID: resourceID},
			Title:          "resource",
			EstimatedHours: hours,
			IsActive:       active,
			Type:           types.ResourceCourse,
		},
	}
}

func TestAssemblePathItemsOrdersByLevelThenEffort(t *testing.T) {
	a := matchFor(uuid.New(), types.LevelEnable, 20, true)
	b := matchFor(uuid.New(), types.LevelAssist, 10, true)
	c := matchFor(uuid.New(), types.LevelAssist, 5, true)

	items, total := assemblePathItems([]*types.LearningResourceSkill{a, b, c})
	if len(items) != 3 {
		t.Fatalf("items: want=3 got=%d", len(items))
	}
	if *items[0].LearningResourceID != c.LearningResourceID {
		t.Fatalf("cheapest low-level resource should come first")
	}
	if *items[1].LearningResourceID != b.LearningResourceID {
		t.Fatalf("same-level resources should order by estimated hours")
	}
	if *items[2].LearningResourceID != a.LearningResourceID {
		t.Fatalf("higher target level should come last")
	}
	if total != 35 {
		t.Fatalf("total hours: want=35 got=%d", total)
	}
	for i, item := range items {
		if item.DisplayOrder != i+1 {
			t.Fatalf("display order at %d: want=%d got=%d", i, i+1, item.DisplayOrder)
		}
	}
}

func TestAssemblePathItemsSkipsDuplicatesAndInactive(t *testing.T) {
	dupID := uuid.New()
	matches := []*types.LearningResourceSkill{
		matchFor(dupID, types.LevelAssist, 5, true),
		matchFor(dupID, types.LevelApply, 5, true),
		matchFor(uuid.New(), types.LevelApply, 8, false),
	}

	items, total := assemblePathItems(matches)
	if len(items) != 1 {
		t.Fatalf("items: want=1 got=%d", len(items))
	}
	if total != 5 {
		t.Fatalf("total hours: want=5 got=%d", total)
	}
}

func TestAssemblePathItemsCapsLength(t *testing.T) {
	var matches []*types.LearningResourceSkill
	for i := 0; i < maxPathItems+3; i++ {
		matches = append(matches, matchFor(uuid.New(), types.LevelApply, 2, true))
	}

	items, _ := assemblePathItems(matches)
	if len(items) != maxPathItems {
		t.Fatalf("items: want=%d got=%d", maxPathItems, len(items))
	}
}

func TestGenericPathItemsFallbackPlan(t *testing.T) {
	items := genericPathItems("Go Programming", types.LevelEnable)
	if len(items) != 3 {
		t.Fatalf("fallback items: want=3 got=%d", len(items))
	}
	total := 0
	for _, item := range items {
		total += item.EstimatedHours
	}
	if total != 40 {
		t.Fatalf("fallback hours: want=40 got=%d", total)
	}
	if items[0].ItemType != types.ResourceCourse || items[1].ItemType != types.ResourceProject || items[2].ItemType != types.ResourceMentorship {
		t.Fatalf("fallback plan should be course, project, mentorship")
	}
	last := items[len(items)-1]
	if last.TargetLevelAfter == nil || *last.TargetLevelAfter != types.LevelEnable {
		t.Fatalf("final step should target the required level")
	}
}

type fakeLearningPathRepo struct {
	paths       map[uuid.UUID]*types.EmployeeLearningPath
	items       map[uuid.UUID]*types.LearningPathItem
	activeCount int64
}

func newFakeLearningPathRepo() *fakeLearningPathRepo {
	return &fakeLearningPathRepo{
		paths: map[uuid.UUID]*types.EmployeeLearningPath{},
		items: map[uuid.UUID]*types.LearningPathItem{},
	}
}

func (f *fakeLearningPathRepo) Create(ctx context.Context, tx *gorm.DB, path *types.EmployeeLearningPath) (*types.EmployeeLearningPath, error) {
	if path.ID == uuid.Nil {
		path.ID = uuid.New()
	}
	f.paths[path.ID] = path
	return path, nil
}
func (f *fakeLearningPathRepo) GetByID(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) (*types.EmployeeLearningPath, error) {
	path, ok := f.paths[pathID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	path.Items = path.Items[:0]
	for _, item := range f.items {
		if item.LearningPathID == pathID {
			path.Items = append(path.Items, *item)
		}
	}
	return path, nil
}
func (f *fakeLearningPathRepo) ListByEmployee(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID) ([]*types.EmployeeLearningPath, error) {
	return nil, errNotWired
}
func (f *fakeLearningPathRepo) Update(ctx context.Context, tx *gorm.DB, path *types.EmployeeLearningPath) (*types.EmployeeLearningPath, error) {
	f.paths[path.ID] = path
	return path, nil
}
func (f *fakeLearningPathRepo) SoftDelete(ctx context.Context, tx *gorm.DB, pathID uuid.UUID, by *uuid.UUID) error {
	return errNotWired
}
func (f *fakeLearningPathRepo) GetItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.LearningPathItem, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}
func (f *fakeLearningPathRepo) UpdateItem(ctx context.Context, tx *gorm.DB, item *types.LearningPathItem) (*types.LearningPathItem, error) {
	f.items[item.ID] = item
	return item, nil
}
func (f *fakeLearningPathRepo) CountActiveByEmployees(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID) (int64, error) {
	return f.activeCount, nil
}
func (f *fakeLearningPathRepo) SaveRecommendations(ctx context.Context, tx *gorm.DB, recs []*types.LearningRecommendation) error {
	return nil
}
func (f *fakeLearningPathRepo) ListRecommendations(ctx context.Context, tx *gorm.DB, gapID uuid.UUID) ([]*types.LearningRecommendation, error) {
	return nil, errNotWired
}

func newPathFixture(t *testing.T) (LearningPathService, *fakeLearningPathRepo) {
	t.Helper()
	log := mustTestLogger(t)
	pathRepo := newFakeLearningPathRepo()
	svc := NewLearningPathService(mustTestDB(t), log, newFakeSkillGapRepo(), nil, pathRepo, NewTemplateAdvisor(log))
	return svc, pathRepo
}

func seedPath(repo *fakeLearningPathRepo, status types.LearningPathStatus, itemStatuses ...types.LearningItemStatus) *types.EmployeeLearningPath {
	path := &types.EmployeeLearningPath{Status: status, TargetLevel: types.LevelApply, EmployeeID: uuid.New()}
	path.ID = uuid.New()
	repo.paths[path.ID] = path
	for i, s := range itemStatuses {
		item := &types.LearningPathItem{LearningPathID: path.ID, DisplayOrder: i + 1, Status: s}
		item.ID = uuid.New()
		repo.items[item.ID] = item
	}
	return path
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	svc, repo := newPathFixture(t)
	path := seedPath(repo, types.PathSuggested)

	if _, err := svc.UpdateStatus(context.Background(), path.ID, types.PathCompleted); err == nil {
		t.Fatalf("suggested -> completed should be rejected")
	}

	updated, err := svc.UpdateStatus(context.Background(), path.ID, types.PathApproved)
	if err != nil {
		t.Fatalf("suggested -> approved: %v", err)
	}
	if updated.Status != types.PathApproved {
		t.Fatalf("status: want=%v got=%v", types.PathApproved, updated.Status)
	}
}

func TestUpdateStatusCompletionStampsPath(t *testing.T) {
	svc, repo := newPathFixture(t)
	path := seedPath(repo, types.PathInProgress)

	updated, err := svc.UpdateStatus(context.Background(), path.ID, types.PathCompleted)
	if err != nil {
		t.Fatalf("in-progress -> completed: %v", err)
	}
	if updated.ProgressPercentage != 100 {
		t.Fatalf("progress: want=100 got=%d", updated.ProgressPercentage)
	}
	if updated.ActualCompletionDate == nil {
		t.Fatalf("completion date should be set")
	}
}

func TestUpdateItemStatusRecomputesProgressAndCompletesPath(t *testing.T) {
	svc, repo := newPathFixture(t)
	path := seedPath(repo, types.PathInProgress,
		types.ItemCompleted, types.ItemInProgress, types.ItemSkipped)

	var pending *types.LearningPathItem
	for _, item := range repo.items {
		if item.Status == types.ItemInProgress {
			pending = item
		}
	}
	if pending == nil {
		t.Fatalf("fixture should contain an in-progress item")
	}

	updated, err := svc.UpdateItemStatus(context.Background(), pending.ID, types.ItemCompleted)
	if err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}
	// Both countable items done, the skipped one is excluded: path completes.
	if updated.Status != types.PathCompleted {
		t.Fatalf("path status: want=%v got=%v", types.PathCompleted, updated.Status)
	}
	if updated.ProgressPercentage != 100 {
		t.Fatalf("progress: want=100 got=%d", updated.ProgressPercentage)
	}
	if pending.CompletedAt == nil || pending.CompletedAt.After(time.Now().Add(time.Minute)) {
		t.Fatalf("item completion timestamp should be set")
	}
	if path.ID != updated.ID {
		t.Fatalf("updated path identity mismatch")
	}
}

func TestUpdateItemStatusBumpsApprovedPathToInProgress(t *testing.T) {
	svc, repo := newPathFixture(t)
	seedPath(repo, types.PathApproved, types.ItemNotStarted, types.ItemNotStarted)

	var first *types.LearningPathItem
	for _, item := range repo.items {
		first = item
		break
	}

	updated, err := svc.UpdateItemStatus(context.Background(), first.ID, types.ItemInProgress)
	if err != nil {
		t.Fatalf("UpdateItemStatus: %v", err)
	}
	if updated.Status != types.PathInProgress {
		t.Fatalf("path status: want=%v got=%v", types.PathInProgress, updated.Status)
	}
	if first.StartedAt == nil {
		t.Fatalf("started timestamp should be set when an item begins")
	}
}
