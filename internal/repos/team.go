package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type TeamRepo interface {
	Create(ctx context.Context, tx *gorm.DB, team *types.Team) (*types.Team, error)
	GetByID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) (*types.Team, error)
	List(ctx context.Context, tx *gorm.DB, req paging.Request) ([]*types.Team, int64, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Team, error)
	Update(ctx context.Context, tx *gorm.DB, team *types.Team) (*types.Team, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, teamID uuid.UUID, deletedBy *uuid.UUID) error
	HasMembers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) (bool, error)
}

type teamRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeamRepo(db *gorm.DB, baseLog *logger.Logger) TeamRepo {
	repoLog := baseLog.With("repo", "TeamRepo")
	return &teamRepo{db: db, log: repoLog}
}

func (tr *teamRepo) Create(ctx context.Context, tx *gorm.DB, team *types.Team) (*types.Team, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Create(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

func (tr *teamRepo) GetByID(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) (*types.Team, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var result types.Team
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", teamID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

var teamSortable = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
}

func (tr *teamRepo) List(ctx context.Context, tx *gorm.DB, req paging.Request) ([]*types.Team, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	q := notDeleted(transaction.WithContext(ctx).Model(&types.Team{}))
	if req.SearchTerm != "" {
		q = q.Where("name ILIKE ?", "%"+req.SearchTerm+"%")
	}
	if !req.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}

	return pagedList[*types.Team](q, req, orderClause(req, teamSortable, "name"))
}

func (tr *teamRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Team, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Team
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *teamRepo) Update(ctx context.Context, tx *gorm.DB, team *types.Team) (*types.Team, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if err := transaction.WithContext(ctx).Save(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

func (tr *teamRepo) SoftDelete(ctx context.Context, tx *gorm.DB, teamID uuid.UUID, deletedBy *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var team types.Team
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", teamID).
		First(&team).Error; err != nil {
		return err
	}
	team.SoftDelete(deletedBy)
	return transaction.WithContext(ctx).Save(&team).Error
}

func (tr *teamRepo) HasMembers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	if err := notDeleted(transaction.WithContext(ctx).Model(&types.Employee{})).
		Where("team_id = ?", teamID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
