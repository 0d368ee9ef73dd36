package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type SkillGapRepo interface {
	ListByEmployee(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, unresolvedOnly bool) ([]*types.SkillGap, error)
	GetByID(ctx context.Context, tx *gorm.DB, gapID uuid.UUID) (*types.SkillGap, error)
	GetByTuple(ctx context.Context, tx *gorm.DB, employeeID, skillID, roleID uuid.UUID) (*types.SkillGap, error)
	Upsert(ctx context.Context, tx *gorm.DB, gap *types.SkillGap) (*types.SkillGap, error)
	Resolve(ctx context.Context, tx *gorm.DB, gapID uuid.UUID, at time.Time) error
	MarkAddressed(ctx context.Context, tx *gorm.DB, gapID uuid.UUID, at time.Time) error
	ListUnresolvedByEmployees(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID) ([]*types.SkillGap, error)
	CountUnresolvedByPriority(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID) (map[types.GapPriority]int64, error)
	TopGapSkills(ctx context.Context, tx *gorm.DB, limit int) ([]GapSkillCount, error)
}

// GapSkillCount is one row of the org-wide "most common gaps" rollup.
type GapSkillCount struct {
	SkillID   uuid.UUID `json:"skillId"`
	SkillName string    `json:"skillName"`
	GapCount  int64     `json:"gapCount"`
}

type skillGapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillGapRepo(db *gorm.DB, baseLog *logger.Logger) SkillGapRepo {
	repoLog := baseLog.With("repo", "SkillGapRepo")
	return &skillGapRepo{db: db, log: repoLog}
}

func (sgr *skillGapRepo) ListByEmployee(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, unresolvedOnly bool) ([]*types.SkillGap, error) {
	transaction := tx
	if transaction == nil {
		transaction = sgr.db
	}

	q := notDeleted(transaction.WithContext(ctx)).
		Preload("Skill").
		Where("employee_id = ?", employeeID)
	if unresolvedOnly {
		q = q.Where("resolved_at IS NULL")
	}

	var results []*types.SkillGap
	if err := q.Order("priority DESC, gap_size DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sgr *skillGapRepo) GetByID(ctx context.Context, tx *gorm.DB, gapID uuid.UUID) (*types.SkillGap, error) {
	transaction := tx
	if transaction == nil {
		transaction = sgr.db
	}

	var result types.SkillGap
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("Skill").
		Where("id = ?", gapID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sgr *skillGapRepo) GetByTuple(ctx context.Context, tx *gorm.DB, employeeID, skillID, roleID uuid.UUID) (*types.SkillGap, error) {
	transaction := tx
	if transaction == nil {
		transaction = sgr.db
	}

	var result types.SkillGap
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("employee_id = ? AND skill_id = ? AND job_role_id = ?", employeeID, skillID, roleID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// Upsert writes one gap row per (employee, skill, role) tuple. Recalculation
// runs this for every requirement; the ON CONFLICT path carries updated
// levels, priority and resolution timestamps onto the existing row, so
// repeated runs with unchanged inputs are idempotent.
func (sgr *skillGapRepo) Upsert(ctx context.Context, tx *gorm.DB, gap *types.SkillGap) (*types.SkillGap, error) {
	transaction := tx
	if transaction == nil {
		transaction = sgr.db
	}

	if err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "skill_id"}, {Name: "job_role_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: "is_deleted", Value: false},
		}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_level", "required_level", "gap_size", "priority",
			"resolved_at", "updated_at", "updated_by",
		}),
	}).Create(gap).Error; err != nil {
		return nil, err
	}
	return gap, nil
}

func (sgr *skillGapRepo) Resolve(ctx context.Context, tx *gorm.DB, gapID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = sgr.db
	}

	return notDeleted(transaction.WithContext(ctx).Model(&types.SkillGap{})).
		Where("id = ?", gapID).
		Updates(map[string]any{"resolved_at": at, "updated_at": at}).Error
}

func (sgr *skillGapRepo) MarkAddressed(ctx context.Context, tx *gorm.DB, gapID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = sgr.db
	}

	return notDeleted(transaction.WithContext(ctx).Model(&types.SkillGap{})).
		Where("id = ?", gapID).
		Updates(map[string]any{"is_addressed": true, "addressed_at": at, "updated_at": at}).Error
}

func (sgr *skillGapRepo) ListUnresolvedByEmployees(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID) ([]*types.SkillGap, error) {
	transaction := tx
	if transaction == nil {
		transaction = sgr.db
	}

	var results []*types.SkillGap
	if len(employeeIDs) == 0 {
		return results, nil
	}

	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("Skill").
		Where("employee_id IN ?", employeeIDs).
		Where("resolved_at IS NULL").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sgr *skillGapRepo) CountUnresolvedByPriority(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID) (map[types.GapPriority]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sgr.db
	}

	out := map[types.GapPriority]int64{}

	q := notDeleted(transaction.WithContext(ctx).Model(&types.SkillGap{})).
		Where("resolved_at IS NULL")
	if employeeIDs != nil {
		if len(employeeIDs) == 0 {
			return out, nil
		}
		q = q.Where("employee_id IN ?", employeeIDs)
	}

	var rows []struct {
		Priority types.GapPriority
		Count    int64
	}
	if err := q.
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Priority] = row.Count
	}
	return out, nil
}

func (sgr *skillGapRepo) TopGapSkills(ctx context.Context, tx *gorm.DB, limit int) ([]GapSkillCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = sgr.db
	}
	if limit <= 0 {
		limit = 10
	}

	var rows []GapSkillCount
	if err := transaction.WithContext(ctx).
		Model(&types.SkillGap{}).
		Select(`skill_gap.skill_id, skill.name AS skill_name, COUNT(*) AS gap_count`).
		Joins(`JOIN skill ON skill.id = skill_gap.skill_id`).
		Where("skill_gap.is_deleted = ? AND skill_gap.resolved_at IS NULL", false).
		Group("skill_gap.skill_id, skill.name").
		Order("gap_count DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
