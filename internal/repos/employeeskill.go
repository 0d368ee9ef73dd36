package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type EmployeeSkillRepo interface {
	GetByEmployee(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID) ([]*types.EmployeeSkill, error)
	GetByEmployeeAndSkill(ctx context.Context, tx *gorm.DB, employeeID, skillID uuid.UUID) (*types.EmployeeSkill, error)
	Upsert(ctx context.Context, tx *gorm.DB, skill *types.EmployeeSkill) (*types.EmployeeSkill, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, employeeID, skillID uuid.UUID, deletedBy *uuid.UUID) error
	AppendHistory(ctx context.Context, tx *gorm.DB, entry *types.EmployeeSkillHistory) error
	ListHistory(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, skillID *uuid.UUID) ([]*types.EmployeeSkillHistory, error)
	LevelsForEmployees(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]types.ProficiencyLevel, error)
	SkillPopularity(ctx context.Context, tx *gorm.DB, limit int) ([]SkillPopularityRow, error)
	LevelDistribution(ctx context.Context, tx *gorm.DB) (map[types.ProficiencyLevel]int64, error)
	DomainCoverage(ctx context.Context, tx *gorm.DB) ([]DomainCoverageRow, error)
}

// SkillPopularityRow is one skill of the org-wide popularity rollup, ranked
// by how many employees hold it.
type SkillPopularityRow struct {
	SkillID       uuid.UUID `json:"skillId"`
	SkillName     string    `json:"skillName"`
	EmployeeCount int64     `json:"employeeCount"`
	AverageLevel  float64   `json:"averageLevel"`
}

// DomainCoverageRow aggregates assessed skills under one taxonomy domain.
type DomainCoverageRow struct {
	DomainID      uuid.UUID `json:"domainId"`
	DomainName    string    `json:"domainName"`
	SkillCount    int64     `json:"skillCount"`
	EmployeeCount int64     `json:"employeeCount"`
	AverageLevel  float64   `json:"averageLevel"`
}

type employeeSkillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmployeeSkillRepo(db *gorm.DB, baseLog *logger.Logger) EmployeeSkillRepo {
	repoLog := baseLog.With("repo", "EmployeeSkillRepo")
	return &employeeSkillRepo{db: db, log: repoLog}
}

func (esr *employeeSkillRepo) GetByEmployee(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID) ([]*types.EmployeeSkill, error) {
	transaction := tx
	if transaction == nil {
		transaction = esr.db
	}

	var results []*types.EmployeeSkill
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("Skill").
		Where("employee_id = ?", employeeID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (esr *employeeSkillRepo) GetByEmployeeAndSkill(ctx context.Context, tx *gorm.DB, employeeID, skillID uuid.UUID) (*types.EmployeeSkill, error) {
	transaction := tx
	if transaction == nil {
		transaction = esr.db
	}

	var result types.EmployeeSkill
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("employee_id = ? AND skill_id = ?", employeeID, skillID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// Upsert keeps one live row per (employee, skill). Concurrent writers for the
// same pair collapse onto one row through the partial unique index.
func (esr *employeeSkillRepo) Upsert(ctx context.Context, tx *gorm.DB, skill *types.EmployeeSkill) (*types.EmployeeSkill, error) {
	transaction := tx
	if transaction == nil {
		transaction = esr.db
	}

	if err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "skill_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: "is_deleted", Value: false},
		}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_level", "self_assessed_level", "manager_assessed_level",
			"test_validated_level", "evidence", "last_assessed_at",
			"last_assessment_id", "is_validated", "updated_at", "updated_by",
		}),
	}).Create(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

func (esr *employeeSkillRepo) SoftDelete(ctx context.Context, tx *gorm.DB, employeeID, skillID uuid.UUID, deletedBy *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = esr.db
	}

	var skill types.EmployeeSkill
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("employee_id = ? AND skill_id = ?", employeeID, skillID).
		First(&skill).Error; err != nil {
		return err
	}
	skill.SoftDelete(deletedBy)
	return transaction.WithContext(ctx).Save(&skill).Error
}

func (esr *employeeSkillRepo) AppendHistory(ctx context.Context, tx *gorm.DB, entry *types.EmployeeSkillHistory) error {
	transaction := tx
	if transaction == nil {
		transaction = esr.db
	}

	return transaction.WithContext(ctx).Create(entry).Error
}

func (esr *employeeSkillRepo) ListHistory(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, skillID *uuid.UUID) ([]*types.EmployeeSkillHistory, error) {
	transaction := tx
	if transaction == nil {
		transaction = esr.db
	}

	q := transaction.WithContext(ctx).
		Where("employee_id = ?", employeeID)
	if skillID != nil {
		q = q.Where("skill_id = ?", *skillID)
	}

	var results []*types.EmployeeSkillHistory
	if err := q.Order("changed_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// LevelsForEmployees loads current levels for a set of employees in one
// query, keyed employee -> skill -> level. Used by the team matrix.
func (esr *employeeSkillRepo) LevelsForEmployees(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID) (map[uuid.UUID]map[uuid.UUID]types.ProficiencyLevel, error) {
	transaction := tx
	if transaction == nil {
		transaction = esr.db
	}

	out := map[uuid.UUID]map[uuid.UUID]types.ProficiencyLevel{}
	if len(employeeIDs) == 0 {
		return out, nil
	}

	var rows []*types.EmployeeSkill
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("employee_id IN ?", employeeIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		m, ok := out[row.EmployeeID]
		if !ok {
			m = map[uuid.UUID]types.ProficiencyLevel{}
			out[row.EmployeeID] = m
		}
		m[row.SkillID] = row.CurrentLevel
	}
	return out, nil
}

func (esr *employeeSkillRepo) SkillPopularity(ctx context.Context, tx *gorm.DB, limit int) ([]SkillPopularityRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = esr.db
	}
	if limit <= 0 {
		limit = 10
	}

	var rows []SkillPopularityRow
	if err := transaction.WithContext(ctx).
		Model(&types.EmployeeSkill{}).
		Select(`employee_skill.skill_id, skill.name AS skill_name,
			COUNT(DISTINCT employee_skill.employee_id) AS employee_count,
			AVG(employee_skill.current_level) AS average_level`).
		Joins(`JOIN skill ON skill.id = employee_skill.skill_id`).
		Where("employee_skill.is_deleted = ?", false).
		Group("employee_skill.skill_id, skill.name").
		Order("employee_count DESC, average_level DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (esr *employeeSkillRepo) LevelDistribution(ctx context.Context, tx *gorm.DB) (map[types.ProficiencyLevel]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = esr.db
	}

	var rows []struct {
		CurrentLevel types.ProficiencyLevel
		Count        int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.EmployeeSkill{}).
		Select("current_level, COUNT(*) AS count").
		Where("is_deleted = ?", false).
		Group("current_level").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[types.ProficiencyLevel]int64, len(rows))
	for _, row := range rows {
		out[row.CurrentLevel] = row.Count
	}
	return out, nil
}

func (esr *employeeSkillRepo) DomainCoverage(ctx context.Context, tx *gorm.DB) ([]DomainCoverageRow, error) {
	transaction := tx
	if transaction == nil {
		transaction = esr.db
	}

	var rows []DomainCoverageRow
	if err := transaction.WithContext(ctx).
		Model(&types.EmployeeSkill{}).
		Select(`skill_domain.id AS domain_id, skill_domain.name AS domain_name,
			COUNT(DISTINCT employee_skill.skill_id) AS skill_count,
			COUNT(DISTINCT employee_skill.employee_id) AS employee_count,
			AVG(employee_skill.current_level) AS average_level`).
		Joins(`JOIN skill ON skill.id = employee_skill.skill_id`).
		Joins(`JOIN skill_subcategory ON skill_subcategory.id = skill.subcategory_id`).
		Joins(`JOIN skill_domain ON skill_domain.id = skill_subcategory.skill_domain_id`).
		Where("employee_skill.is_deleted = ?", false).
		Group("skill_domain.id, skill_domain.name").
		Order("skill_count DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
