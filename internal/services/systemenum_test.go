package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type fakeSystemEnumRepo struct {
	values map[uuid.UUID]*types.SystemEnumValue
}

func newFakeSystemEnumRepo() *fakeSystemEnumRepo {
	return &fakeSystemEnumRepo{values: map[uuid.UUID]*types.SystemEnumValue{}}
}

func (f *fakeSystemEnumRepo) ListByType(ctx context.Context, tx *gorm.DB, enumType string, includeInactive bool) ([]*types.SystemEnumValue, error) {
	var out []*types.SystemEnumValue
	for _, v := range f.values {
		if v.EnumType != enumType {
			continue
		}
		if !includeInactive && !v.IsActive {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
func (f *fakeSystemEnumRepo) GetByID(ctx context.Context, tx *gorm.DB, valueID uuid.UUID) (*types.SystemEnumValue, error) {
	v, ok := f.values[valueID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}
func (f *fakeSystemEnumRepo) Create(ctx context.Context, tx *gorm.DB, value *types.SystemEnumValue) (*types.SystemEnumValue, error) {
	for _, v := range f.values {
		if v.EnumType == value.EnumType && v.Value == value.Value {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	if value.ID == uuid.Nil {
		value.ID = uuid.New()
	}
	f.values[value.ID] = value
	return value, nil
}
func (f *fakeSystemEnumRepo) Update(ctx context.Context, tx *gorm.DB, value *types.SystemEnumValue) (*types.SystemEnumValue, error) {
	f.values[value.ID] = value
	return value, nil
}
func (f *fakeSystemEnumRepo) SoftDelete(ctx context.Context, tx *gorm.DB, valueID uuid.UUID, by *uuid.UUID) error {
	v, ok := f.values[valueID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.SoftDelete(by)
	delete(f.values, valueID)
	return nil
}
func (f *fakeSystemEnumRepo) ListProficiencyLevels(ctx context.Context, tx *gorm.DB) ([]*types.ProficiencyLevelDefinition, error) {
	return nil, errNotWired
}
func (f *fakeSystemEnumRepo) SaveProficiencyLevel(ctx context.Context, tx *gorm.DB, def *types.ProficiencyLevelDefinition) (*types.ProficiencyLevelDefinition, error) {
	return def, nil
}

func newEnumFixture(t *testing.T) (SystemEnumService, *fakeSystemEnumRepo) {
	t.Helper()
	repo := newFakeSystemEnumRepo()
	return NewSystemEnumService(nil, mustTestLogger(t), repo), repo
}

func seedEnumValue(repo *fakeSystemEnumRepo, enumType string, value int, system bool) *types.SystemEnumValue {
	v := &types.SystemEnumValue{EnumType: enumType, Value: value, Code: "X", Name: "X", IsActive: true, IsSystem: system}
	v.ID = uuid.New()
	repo.values[v.ID] = v
	return v
}

func TestSystemEnumCreateForcesNonSystem(t *testing.T) {
	svc, _ := newEnumFixture(t)

	created, err := svc.Create(context.Background(), &types.SystemEnumValue{
		EnumType: types.EnumGapPriority, Value: 9, Code: "BLOCKER", Name: "Blocker", IsSystem: true,
	}, uuid.New())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.IsSystem {
		t.Fatalf("admin-created enum values must never be system values")
	}
	if !created.IsActive {
		t.Fatalf("new enum values should start active")
	}
}

func TestSystemEnumCreateRejectsUnknownTypeAndDuplicates(t *testing.T) {
	svc, repo := newEnumFixture(t)

	if _, err := svc.Create(context.Background(), &types.SystemEnumValue{
		EnumType: "NotAThing", Value: 1, Code: "A", Name: "A",
	}, uuid.New()); err == nil {
		t.Fatalf("unknown enum type should be rejected")
	}

	seedEnumValue(repo, types.EnumGapPriority, 5, false)
	if _, err := svc.Create(context.Background(), &types.SystemEnumValue{
		EnumType: types.EnumGapPriority, Value: 5, Code: "B", Name: "B",
	}, uuid.New()); err == nil {
		t.Fatalf("duplicate value within an enum type should conflict")
	}
}

func TestSystemEnumUpdateProtectsSystemRows(t *testing.T) {
	svc, repo := newEnumFixture(t)
	system := seedEnumValue(repo, types.EnumGapPriority, 4, true)

	changed := *system
	changed.Value = 40
	if _, err := svc.Update(context.Background(), &changed, uuid.New()); err == nil {
		t.Fatalf("changing the numeric value of a system row should be rejected")
	}

	deactivated := *system
	deactivated.IsActive = false
	if _, err := svc.Update(context.Background(), &deactivated, uuid.New()); err == nil {
		t.Fatalf("deactivating a system row should be rejected")
	}

	renamed := *system
	renamed.Name = "Severe"
	updated, err := svc.Update(context.Background(), &renamed, uuid.New())
	if err != nil {
		t.Fatalf("renaming a system row: %v", err)
	}
	if updated.Name != "Severe" {
		t.Fatalf("display fields of system rows should be editable")
	}
}

func TestSystemEnumDeleteProtectsSystemRows(t *testing.T) {
	svc, repo := newEnumFixture(t)
	system := seedEnumValue(repo, types.EnumUserRole, 1, true)
	custom := seedEnumValue(repo, types.EnumUserRole, 9, false)

	if err := svc.Delete(context.Background(), system.ID, uuid.New()); err == nil {
		t.Fatalf("deleting a system row should be rejected")
	}
	if err := svc.Delete(context.Background(), custom.ID, uuid.New()); err != nil {
		t.Fatalf("deleting a custom row: %v", err)
	}
}

func TestSaveProficiencyLevelValidatesBounds(t *testing.T) {
	svc, _ := newEnumFixture(t)
	by := uuid.New()

	if _, err := svc.SaveProficiencyLevel(context.Background(), &types.ProficiencyLevelDefinition{Level: 8, LevelName: "Beyond"}, by); err == nil {
		t.Fatalf("level above 7 should be rejected")
	}
	if _, err := svc.SaveProficiencyLevel(context.Background(), &types.ProficiencyLevelDefinition{Level: 3, LevelName: "  "}, by); err == nil {
		t.Fatalf("blank level name should be rejected")
	}
	if _, err := svc.SaveProficiencyLevel(context.Background(), &types.ProficiencyLevelDefinition{Level: 3, LevelName: "Apply"}, by); err != nil {
		t.Fatalf("valid definition should save: %v", err)
	}
}
