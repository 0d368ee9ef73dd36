package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type JobRoleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, role *types.JobRole) (*types.JobRole, error)
	GetByID(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) (*types.JobRole, error)
	GetWithRequirements(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) (*types.JobRole, error)
	List(ctx context.Context, tx *gorm.DB, req paging.Request) ([]*types.JobRole, int64, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.JobRole, error)
	Update(ctx context.Context, tx *gorm.DB, role *types.JobRole) (*types.JobRole, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, roleID uuid.UUID, deletedBy *uuid.UUID) error
	ListRequirements(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) ([]*types.RoleSkillRequirement, error)
	UpsertRequirement(ctx context.Context, tx *gorm.DB, req *types.RoleSkillRequirement) (*types.RoleSkillRequirement, error)
	DeleteRequirement(ctx context.Context, tx *gorm.DB, roleID, skillID uuid.UUID, deletedBy *uuid.UUID) error
}

type jobRoleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRoleRepo(db *gorm.DB, baseLog *logger.Logger) JobRoleRepo {
	repoLog := baseLog.With("repo", "JobRoleRepo")
	return &jobRoleRepo{db: db, log: repoLog}
}

func (jr *jobRoleRepo) Create(ctx context.Context, tx *gorm.DB, role *types.JobRole) (*types.JobRole, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	if err := transaction.WithContext(ctx).Create(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

func (jr *jobRoleRepo) GetByID(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) (*types.JobRole, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var result types.JobRole
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", roleID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (jr *jobRoleRepo) GetWithRequirements(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) (*types.JobRole, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var result types.JobRole
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("SkillRequirements", "is_deleted = ?", false).
		Preload("SkillRequirements.Skill").
		Where("id = ?", roleID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

var jobRoleSortable = map[string]string{
	"name":             "name",
	"code":             "code",
	"levelInHierarchy": "level_in_hierarchy",
	"createdAt":        "created_at",
}

func (jr *jobRoleRepo) List(ctx context.Context, tx *gorm.DB, req paging.Request) ([]*types.JobRole, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	q := notDeleted(transaction.WithContext(ctx).Model(&types.JobRole{}))
	if req.SearchTerm != "" {
		like := "%" + req.SearchTerm + "%"
		q = q.Where("name ILIKE ? OR code ILIKE ?", like, like)
	}
	if !req.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}

	return pagedList[*types.JobRole](q, req, orderClause(req, jobRoleSortable, "level_in_hierarchy"))
}

func (jr *jobRoleRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.JobRole, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var results []*types.JobRole
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("is_active = ?", true).
		Order("level_in_hierarchy ASC, name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (jr *jobRoleRepo) Update(ctx context.Context, tx *gorm.DB, role *types.JobRole) (*types.JobRole, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	if err := transaction.WithContext(ctx).Save(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

func (jr *jobRoleRepo) SoftDelete(ctx context.Context, tx *gorm.DB, roleID uuid.UUID, deletedBy *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var role types.JobRole
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", roleID).
		First(&role).Error; err != nil {
		return err
	}
	role.SoftDelete(deletedBy)
	return transaction.WithContext(ctx).Save(&role).Error
}

func (jr *jobRoleRepo) ListRequirements(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) ([]*types.RoleSkillRequirement, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var results []*types.RoleSkillRequirement
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("Skill").
		Where("job_role_id = ?", roleID).
		Order("priority ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpsertRequirement keeps one live row per (role, skill); a second write for
// the same pair updates the levels in place via the partial unique index.
func (jr *jobRoleRepo) UpsertRequirement(ctx context.Context, tx *gorm.DB, req *types.RoleSkillRequirement) (*types.RoleSkillRequirement, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	if err := transaction.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "job_role_id"}, {Name: "skill_id"}},
		TargetWhere: clause.Where{Exprs: []clause.Expression{
			clause.Eq{Column: "is_deleted", Value: false},
		}},
		DoUpdates: clause.AssignmentColumns([]string{
			"minimum_level", "expected_level", "expert_level",
			"is_mandatory", "priority", "updated_at", "updated_by",
		}),
	}).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (jr *jobRoleRepo) DeleteRequirement(ctx context.Context, tx *gorm.DB, roleID, skillID uuid.UUID, deletedBy *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}

	var req types.RoleSkillRequirement
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("job_role_id = ? AND skill_id = ?", roleID, skillID).
		First(&req).Error; err != nil {
		return err
	}
	req.SoftDelete(deletedBy)
	return transaction.WithContext(ctx).Save(&req).Error
}
