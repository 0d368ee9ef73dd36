package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type TestTemplateRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tmpl *types.TestTemplate) (*types.TestTemplate, error)
	GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.TestTemplate, error)
	GetWithQuestions(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.TestTemplate, error)
	List(ctx context.Context, tx *gorm.DB, req paging.Request, skillID *uuid.UUID) ([]*types.TestTemplate, int64, error)
	Update(ctx context.Context, tx *gorm.DB, tmpl *types.TestTemplate) (*types.TestTemplate, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, templateID uuid.UUID, deletedBy *uuid.UUID) error
	HasAssessments(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (bool, error)
	ReplaceQuestions(ctx context.Context, tx *gorm.DB, templateID uuid.UUID, questions []*types.Question, by *uuid.UUID) error
}

type testTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTestTemplateRepo(db *gorm.DB, baseLog *logger.Logger) TestTemplateRepo {
	repoLog := baseLog.With("repo", "TestTemplateRepo")
	return &testTemplateRepo{db: db, log: repoLog}
}

func (tr *testTemplateRepo) Create(ctx context.Context, tx *gorm.DB, tmpl *types.TestTemplate) (*types.TestTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Create(tmpl).Error; err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (tr *testTemplateRepo) GetByID(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.TestTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var result types.TestTemplate
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", templateID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *testTemplateRepo) GetWithQuestions(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (*types.TestTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var result types.TestTemplate
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("Questions", func(q *gorm.DB) *gorm.DB {
			return q.Where("is_deleted = ?", false).Order("display_order ASC")
		}).
		Where("id = ?", templateID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

var templateSortable = map[string]string{
	"title":     "title",
	"createdAt": "created_at",
}

func (tr *testTemplateRepo) List(ctx context.Context, tx *gorm.DB, req paging.Request, skillID *uuid.UUID) ([]*types.TestTemplate, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	q := notDeleted(transaction.WithContext(ctx).Model(&types.TestTemplate{}))
	if req.SearchTerm != "" {
		q = q.Where("title ILIKE ?", "%"+req.SearchTerm+"%")
	}
	if skillID != nil {
		q = q.Where("skill_id = ?", *skillID)
	}
	if !req.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}

	return pagedList[*types.TestTemplate](q, req, orderClause(req, templateSortable, "created_at"))
}

func (tr *testTemplateRepo) Update(ctx context.Context, tx *gorm.DB, tmpl *types.TestTemplate) (*types.TestTemplate, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Save(tmpl).Error; err != nil {
		return nil, err
	}
	return tmpl, nil
}

func (tr *testTemplateRepo) SoftDelete(ctx context.Context, tx *gorm.DB, templateID uuid.UUID, deletedBy *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var tmpl types.TestTemplate
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", templateID).
		First(&tmpl).Error; err != nil {
		return err
	}
	tmpl.SoftDelete(deletedBy)
	return transaction.WithContext(ctx).Save(&tmpl).Error
}

func (tr *testTemplateRepo) HasAssessments(ctx context.Context, tx *gorm.DB, templateID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	if err := notDeleted(transaction.WithContext(ctx).Model(&types.Assessment{})).
		Where("test_template_id = ?", templateID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReplaceQuestions soft-deletes the current question set and writes the new
// one. Completed assessments keep their answered question rows because the
// delete is logical.
func (tr *testTemplateRepo) ReplaceQuestions(ctx context.Context, tx *gorm.DB, templateID uuid.UUID, questions []*types.Question, by *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	run := func(t *gorm.DB) error {
		if err := notDeleted(t.Model(&types.Question{})).
			Where("test_template_id = ?", templateID).
			Updates(map[string]any{"is_deleted": true, "deleted_by": by}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i, q := range questions {
			q.TestTemplateID = templateID
			q.DisplayOrder = i + 1
		}
		return t.Create(&questions).Error
	}

	if tx != nil {
		return run(transaction.WithContext(ctx))
	}
	return transaction.WithContext(ctx).Transaction(run)
}

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) (*types.Assessment, error)
	GetByID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error)
	GetWithResponses(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error)
	ListByEmployee(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, req paging.Request) ([]*types.Assessment, int64, error)
	Update(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) (*types.Assessment, error)
	CreateResponses(ctx context.Context, tx *gorm.DB, responses []*types.AssessmentResponse) error
	CountCompletedSince(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID, days int) (int64, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	repoLog := baseLog.With("repo", "AssessmentRepo")
	return &assessmentRepo{db: db, log: repoLog}
}

func (ar *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(ctx).Create(assessment).Error; err != nil {
		return nil, err
	}
	return assessment, nil
}

func (ar *assessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.Assessment
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", assessmentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *assessmentRepo) GetWithResponses(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.Assessment
	if err := notDeleted(transaction.WithContext(ctx)).
		Preload("Responses").
		Preload("TestTemplate").
		Where("id = ?", assessmentID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

var assessmentSortable = map[string]string{
	"createdAt":   "created_at",
	"completedAt": "completed_at",
	"score":       "score",
}

func (ar *assessmentRepo) ListByEmployee(ctx context.Context, tx *gorm.DB, employeeID uuid.UUID, req paging.Request) ([]*types.Assessment, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	q := notDeleted(transaction.WithContext(ctx).Model(&types.Assessment{})).
		Where("employee_id = ?", employeeID)

	return pagedList[*types.Assessment](q, req, orderClause(req, assessmentSortable, "created_at"))
}

func (ar *assessmentRepo) Update(ctx context.Context, tx *gorm.DB, assessment *types.Assessment) (*types.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if err := transaction.WithContext(ctx).Save(assessment).Error; err != nil {
		return nil, err
	}
	return assessment, nil
}

func (ar *assessmentRepo) CreateResponses(ctx context.Context, tx *gorm.DB, responses []*types.AssessmentResponse) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(responses) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&responses).Error
}

func (ar *assessmentRepo) CountCompletedSince(ctx context.Context, tx *gorm.DB, employeeIDs []uuid.UUID, days int) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	q := notDeleted(transaction.WithContext(ctx).Model(&types.Assessment{})).
		Where("status = ?", types.AssessmentCompleted).
		Where("completed_at >= now() - make_interval(days => ?)", days)
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
