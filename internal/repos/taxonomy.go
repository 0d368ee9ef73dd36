package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type SkillRepo interface {
	CreateDomain(ctx context.Context, tx *gorm.DB, domain *types.SkillDomain) (*types.SkillDomain, error)
	GetDomain(ctx context.Context, tx *gorm.DB, domainID uuid.UUID) (*types.SkillDomain, error)
	ListDomains(ctx context.Context, tx *gorm.DB, includeInactive bool) ([]*types.SkillDomain, error)
	UpdateDomain(ctx context.Context, tx *gorm.DB, domain *types.SkillDomain) (*types.SkillDomain, error)
	SoftDeleteDomain(ctx context.Context, tx *gorm.DB, domainID uuid.UUID, deletedBy *uuid.UUID) error

	CreateSubcategory(ctx context.Context, tx *gorm.DB, sub *types.SkillSubcategory) (*types.SkillSubcategory, error)
	GetSubcategory(ctx context.Context, tx *gorm.DB, subID uuid.UUID) (*types.SkillSubcategory, error)
	ListSubcategories(ctx context.Context, tx *gorm.DB, domainID *uuid.UUID) ([]*types.SkillSubcategory, error)
	UpdateSubcategory(ctx context.Context, tx *gorm.DB, sub *types.SkillSubcategory) (*types.SkillSubcategory, error)
	SoftDeleteSubcategory(ctx context.Context, tx *gorm.DB, subID uuid.UUID, deletedBy *uuid.UUID) error

	Create(ctx context.Context, tx *gorm.DB, skill *types.Skill) (*types.Skill, error)
	GetByID(ctx context.Context, tx *gorm.DB, skillID uuid.UUID) (*types.Skill, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, skillIDs []uuid.UUID) ([]*types.Skill, error)
	List(ctx context.Context, tx *gorm.DB, req paging.Request, subcategoryID *uuid.UUID, category *types.SkillCategory) ([]*types.Skill, int64, error)
	Update(ctx context.Context, tx *gorm.DB, skill *types.Skill) (*types.Skill, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, skillID uuid.UUID, deletedBy *uuid.UUID) error
	IsReferenced(ctx context.Context, tx *gorm.DB, skillID uuid.UUID) (bool, error)

	ListLevelDefinitions(ctx context.Context, tx *gorm.DB, skillID uuid.UUID) ([]*types.SkillLevelDefinition, error)
	SaveLevelDefinition(ctx context.Context, tx *gorm.DB, def *types.SkillLevelDefinition) (*types.SkillLevelDefinition, error)
}

type skillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillRepo(db *gorm.DB, baseLog *logger.Logger) SkillRepo {
	repoLog := baseLog.With("repo", "SkillRepo")
	return &skillRepo{db: db, log: repoLog}
}

func (sr *skillRepo) CreateDomain(ctx context.Context, tx *gorm.DB, domain *types.SkillDomain) (*types.SkillDomain, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Create(domain).Error; err != nil {
		return nil, err
	}
	return domain, nil
}

func (sr *skillRepo) GetDomain(ctx context.Context, tx *gorm.DB, domainID uuid.UUID) (*types.SkillDomain, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.SkillDomain
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("Subcategories", "is_deleted = ?", false).
		Where("id = ?", domainID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *skillRepo) ListDomains(ctx context.Context, tx *gorm.DB, includeInactive bool) ([]*types.SkillDomain, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	q := notDeleted(transaction.WithContext(ctx)).
		Preload("Subcategories", "is_deleted = ?", false)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var results []*types.SkillDomain
	if err := q.Order("display_order ASC, name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *skillRepo) UpdateDomain(ctx context.Context, tx *gorm.DB, domain *types.SkillDomain) (*types.SkillDomain, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Save(domain).Error; err != nil {
		return nil, err
	}
	return domain, nil
}

func (sr *skillRepo) SoftDeleteDomain(ctx context.Context, tx *gorm.DB, domainID uuid.UUID, deletedBy *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var domain types.SkillDomain
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", domainID).
		First(&domain).Error; err != nil {
		return err
	}
	domain.SoftDelete(deletedBy)
	return transaction.WithContext(ctx).Save(&domain).Error
}

func (sr *skillRepo) CreateSubcategory(ctx context.Context, tx *gorm.DB, sub *types.SkillSubcategory) (*types.SkillSubcategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (sr *skillRepo) GetSubcategory(ctx context.Context, tx *gorm.DB, subID uuid.UUID) (*types.SkillSubcategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.SkillSubcategory
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", subID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *skillRepo) ListSubcategories(ctx context.Context, tx *gorm.DB, domainID *uuid.UUID) ([]*types.SkillSubcategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	q := notDeleted(transaction.WithContext(ctx))
	if domainID != nil {
		q = q.Where("skill_domain_id = ?", *domainID)
	}

	var results []*types.SkillSubcategory
	if err := q.Order("display_order ASC, name ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *skillRepo) UpdateSubcategory(ctx context.Context, tx *gorm.DB, sub *types.SkillSubcategory) (*types.SkillSubcategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Save(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (sr *skillRepo) SoftDeleteSubcategory(ctx context.Context, tx *gorm.DB, subID uuid.UUID, deletedBy *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var sub types.SkillSubcategory
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", subID).
		First(&sub).Error; err != nil {
		return err
	}
	sub.SoftDelete(deletedBy)
	return transaction.WithContext(ctx).Save(&sub).Error
}

func (sr *skillRepo) Create(ctx context.Context, tx *gorm.DB, skill *types.Skill) (*types.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Create(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

func (sr *skillRepo) GetByID(ctx context.Context, tx *gorm.DB, skillID uuid.UUID) (*types.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.Skill
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("Subcategory").
		Preload("LevelDefinitions", "is_deleted = ?", false).
		Where("id = ?", skillID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *skillRepo) GetByIDs(ctx context.Context, tx *gorm.DB, skillIDs []uuid.UUID) ([]*types.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.Skill
	if len(skillIDs) == 0 {
		return results, nil
	}

	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id IN ?", skillIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

var skillSortable = map[string]string{
	"name":         "name",
	"code":         "code",
	"displayOrder": "display_order",
	"createdAt":    "created_at",
}

func (sr *skillRepo) List(ctx context.Context, tx *gorm.DB, req paging.Request, subcategoryID *uuid.UUID, category *types.SkillCategory) ([]*types.Skill, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	q := notDeleted(transaction.WithContext(ctx).Model(&types.Skill{})).
		Preload("Subcategory")
	if req.SearchTerm != "" {
		like := "%" + req.SearchTerm + "%"
		q = q.Where("name ILIKE ? OR code ILIKE ?", like, like)
	}
	if subcategoryID != nil {
		q = q.Where("subcategory_id = ?", *subcategoryID)
	}
	if category != nil {
		q = q.Where("category = ?", *category)
	}
	if !req.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}

	return pagedList[*types.Skill](q, req, orderClause(req, skillSortable, "display_order"))
}

func (sr *skillRepo) Update(ctx context.Context, tx *gorm.DB, skill *types.Skill) (*types.Skill, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Save(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

func (sr *skillRepo) SoftDelete(ctx context.Context, tx *gorm.DB, skillID uuid.UUID, deletedBy *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var skill types.Skill
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", skillID).
		First(&skill).Error; err != nil {
		return err
	}
	skill.SoftDelete(deletedBy)
	return transaction.WithContext(ctx).Save(&skill).Error
}

// IsReferenced reports whether any live employee skill or role requirement
// points at the skill. Referenced skills deactivate instead of deleting.
func (sr *skillRepo) IsReferenced(ctx context.Context, tx *gorm.DB, skillID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64
	if err := notDeleted(transaction.WithContext(ctx).Model(&types.EmployeeSkill{})).
		Where("skill_id = ?", skillID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := notDeleted(transaction.WithContext(ctx).Model(&types.RoleSkillRequirement{})).
		Where("skill_id = ?", skillID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sr *skillRepo) ListLevelDefinitions(ctx context.Context, tx *gorm.DB, skillID uuid.UUID) ([]*types.SkillLevelDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.SkillLevelDefinition
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("skill_id = ?", skillID).
		Order("level ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *skillRepo) SaveLevelDefinition(ctx context.Context, tx *gorm.DB, def *types.SkillLevelDefinition) (*types.SkillLevelDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if err := transaction.WithContext(ctx).Save(def).Error; err != nil {
		return nil, err
	}
	return def, nil
}
