package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type LearningResourceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, resource *types.LearningResource) (*types.LearningResource, error)
	GetByID(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (*types.LearningResource, error)
	List(ctx context.Context, tx *gorm.DB, req paging.Request, skillID *uuid.UUID) ([]*types.LearningResource, int64, error)
	Update(ctx context.Context, tx *gorm.DB, resource *types.LearningResource) (*types.LearningResource, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, deletedBy *uuid.UUID) error
	SetSkills(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, skills []*types.LearningResourceSkill, by *uuid.UUID) error
	MatchForGap(ctx context.Context, tx *gorm.DB, skillID uuid.UUID, current, target types.ProficiencyLevel) ([]*types.LearningResourceSkill, error)
}

type learningResourceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningResourceRepo(db *gorm.DB, baseLog *logger.Logger) LearningResourceRepo {
	repoLog := baseLog.With("repo", "LearningResourceRepo")
	return &learningResourceRepo{db: db, log: repoLog}
}

func (lr *learningResourceRepo) Create(ctx context.Context, tx *gorm.DB, resource *types.LearningResource) (*types.LearningResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	if err := transaction.WithContext(ctx).Create(resource).Error; err != nil {
		return nil, err
	}
	return resource, nil
}

func (lr *learningResourceRepo) GetByID(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID) (*types.LearningResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var result types.LearningResource
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("TargetSkills", "is_deleted = ?", false).
		Where("id = ?", resourceID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

var resourceSortable = map[string]string{
	"title":          "title",
	"estimatedHours": "estimated_hours",
	"createdAt":      "created_at",
}

func (lr *learningResourceRepo) List(ctx context.Context, tx *gorm.DB, req paging.Request, skillID *uuid.UUID) ([]*types.LearningResource, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	q := notDeleted(transaction.WithContext(ctx).Model(&types.LearningResource{}))
	if req.SearchTerm != "" {
		like := "%" + req.SearchTerm + "%"
		q = q.Where("title ILIKE ? OR provider ILIKE ?", like, like)
	}
	if skillID != nil {
		q = q.Where(`id IN (
			SELECT learning_resource_id FROM learning_resource_skill
			WHERE skill_id = ? AND is_deleted = false)`, *skillID)
	}
	if !req.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}

	return pagedList[*types.LearningResource](q, req, orderClause(req, resourceSortable, "title"))
}

func (lr *learningResourceRepo) Update(ctx context.Context, tx *gorm.DB, resource *types.LearningResource) (*types.LearningResource, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	if err := transaction.WithContext(ctx).Save(resource).Error; err != nil {
		return nil, err
	}
	return resource, nil
}

func (lr *learningResourceRepo) SoftDelete(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, deletedBy *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var resource types.LearningResource
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", resourceID).
		First(&resource).Error; err != nil {
		return err
	}
	resource.SoftDelete(deletedBy)
	return transaction.WithContext(ctx).Save(&resource).Error
}

func (lr *learningResourceRepo) SetSkills(ctx context.Context, tx *gorm.DB, resourceID uuid.UUID, skills []*types.LearningResourceSkill, by *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	run := func(t *gorm.DB) error {
		if err := notDeleted(t.Model(&types.LearningResourceSkill{})).
			Where("learning_resource_id = ?", resourceID).
			Updates(map[string]any{"is_deleted": true, "deleted_by": by}).Error; err != nil {
			return err
		}
		if len(skills) == 0 {
			return nil
		}
		for _, s := range skills {
			s.LearningResourceID = resourceID
		}
		return t.Create(&skills).Error
	}

	if tx != nil {
		return run(transaction.WithContext(ctx))
	}
	return transaction.WithContext(ctx).Transaction(run)
}

// MatchForGap finds resource mappings for one skill whose level range covers
// the climb from current to target. Matching is inclusive on both ends.
func (lr *learningResourceRepo) MatchForGap(ctx context.Context, tx *gorm.DB, skillID uuid.UUID, current, target types.ProficiencyLevel) ([]*types.LearningResourceSkill, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var results []*types.LearningResourceSkill
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("LearningResource").
		Where("skill_id = ?", skillID).
		Where("from_level <= ? AND to_level >= ?", target, current).
		Order("to_level ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type LearningPathRepo interface {
	Create(ctx context.Context, tx *gorm.DB, path *types.EmployeeLearningPath) (*types.EmployeeLearningPath, error)
	GetByID(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) (*types.EmployeeLearningPath, error)
	ListByEmployee(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID) ([]*types.EmployeeLearningPath, error)
	Update(ctx context.Context, tx *gorm.DB, path *types.EmployeeLearningPath) (*types.EmployeeLearningPath, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, pathID uuid.UUID, deletedBy *uuid.UUID) error
	GetItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.LearningPathItem, error)
	UpdateItem(ctx context.Context, tx *gorm.DB, item *types.LearningPathItem) (*types.LearningPathItem, error)
	CountActiveByEmployees(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID) (int64, error)
	SaveRecommendations(ctx context.Context, tx *gorm.DB, recs []*types.LearningRecommendation) error
	ListRecommendations(ctx context.Context, tx *gorm.DB, gapID uuid.UUID) ([]*types.LearningRecommendation, error)
}

type learningPathRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningPathRepo(db *gorm.DB, baseLog *logger.Logger) LearningPathRepo {
	repoLog := baseLog.With("repo", "LearningPathRepo")
	return &learningPathRepo{db: db, log: repoLog}
}

func (lpr *learningPathRepo) Create(ctx context.Context, tx *gorm.DB, path *types.EmployeeLearningPath) (*types.EmployeeLearningPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = lpr.db
	}

	if err := transaction.WithContext(ctx).Create(path).Error; err != nil {
		return nil, err
	}
	return path, nil
}

func (lpr *learningPathRepo) GetByID(ctx context.Context, tx *gorm.DB, pathID uuid.UUID) (*types.EmployeeLearningPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = lpr.db
	}

	var result types.EmployeeLearningPath
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("TargetSkill").
		Preload("Items", func(q *gorm.DB) *gorm.DB {
			return q.Where("is_deleted = ?", false).Order("display_order ASC")
		}).
		Where("id = ?", pathID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (lpr *learningPathRepo) ListByEmployee(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID) ([]*types.EmployeeLearningPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = lpr.db
	}

	var results []*types.EmployeeLearningPath
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("TargetSkill").
		Preload("Items", func(q *gorm.DB) *gorm.DB {
			return q.Where("is_deleted = ?", false).Order("display_order ASC")
		}).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (lpr *learningPathRepo) Update(ctx context.Context, tx *gorm.DB, path *types.EmployeeLearningPath) (*types.EmployeeLearningPath, error) {
	transaction := tx
	if transaction == nil {
		transaction = lpr.db
	}

	if err := transaction.WithContext(ctx).Save(path).Error; err != nil {
		return nil, err
	}
	return path, nil
}

func (lpr *learningPathRepo) SoftDelete(ctx context.Context, tx *gorm.DB, pathID uuid.UUID, deletedBy *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lpr.db
	}

	var path types.EmployeeLearningPath
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", pathID).
		First(&path).Error; err != nil {
		return err
	}
	path.SoftDelete(deletedBy)
	return transaction.WithContext(ctx).Save(&path).Error
}

func (lpr *learningPathRepo) GetItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.LearningPathItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = lpr.db
	}

	var result types.LearningPathItem
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", itemID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (lpr *learningPathRepo) UpdateItem(ctx context.Context, tx *gorm.DB, item *types.LearningPathItem) (*types.LearningPathItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = lpr.db
	}

	if err := transaction.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (lpr *learningPathRepo) CountActiveByEmployees(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lpr.db
	}

	q := notDeleted(transaction.WithContext(ctx).Model(&types.EmployeeLearningPath{})).
		Where("status IN ?", []types.LearningPathStatus{types.PathApproved, types.PathInProgress})
	if employeeIDs != nil {
		if len(employeeIDs) == 0 {
			return 0, nil
		}
		q = q.Where("employee_id IN ?", employeeIDs)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (lpr *learningPathRepo) SaveRecommendations(ctx context.Context, tx *gorm.DB, recs []*types.LearningRecommendation) error {
	transaction := tx
	if transaction == nil {
		transaction = lpr.db
	}

	if len(recs) == 0 {
		return nil
	}
	for _, rec := range recs {
		if rec.GeneratedAt.IsZero() {
			rec.GeneratedAt = time.Now().UTC()
		}
	}
	return transaction.WithContext(ctx).Create(&recs).Error
}

func (lpr *learningPathRepo) ListRecommendations(ctx context.Context, tx *gorm.DB, gapID uuid.UUID) ([]*types.LearningRecommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = lpr.db
	}

	var results []*types.LearningRecommendation
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("skill_gap_id = ?", gapID).
		Order("display_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
