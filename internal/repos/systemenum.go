package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type SystemEnumRepo interface {
	ListByType(ctx context.Context, tx *gorm.DB, enumType string, includeInactive bool) ([]*types.SystemEnumValue, error)
	GetByID(ctx context.Context, tx *gorm.DB, valueID uuid.UUID) (*types.SystemEnumValue, error)
	Create(ctx context.Context, tx *gorm.DB, value *types.SystemEnumValue) (*types.SystemEnumValue, error)
	Update(ctx context.Context, tx *gorm.DB, value *types.SystemEnumValue) (*types.SystemEnumValue, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, valueID uuid.UUID, deletedBy *uuid.UUID) error

	ListProficiencyLevels(ctx context.Context, tx *gorm.DB) ([]*types.ProficiencyLevelDefinition, error)
	SaveProficiencyLevel(ctx context.Context, tx *gorm.DB, def *types.ProficiencyLevelDefinition) (*types.ProficiencyLevelDefinition, error)
}

type systemEnumRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSystemEnumRepo(db *gorm.DB, baseLog *logger.Logger) SystemEnumRepo {
	repoLog := baseLog.With("repo", "SystemEnumRepo")
	return &systemEnumRepo{db: db, log: repoLog}
}

func (ser *systemEnumRepo) ListByType(ctx context.Context, tx *gorm.DB, enumType string, includeInactive bool) ([]*types.SystemEnumValue, error) {
	transaction := tx
	if transaction == nil {
		transaction = ser.db
	}

	q := notDeleted(transaction.WithContext(ctx)).
		Where("enum_type = ?", enumType)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var results []*types.SystemEnumValue
	if err := q.Order("display_order ASC, value ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ser *systemEnumRepo) GetByID(ctx context.Context, tx *gorm.DB, valueID uuid.UUID) (*types.SystemEnumValue, error) {
	transaction := tx
	if transaction == nil {
		transaction = ser.db
	}

	var result types.SystemEnumValue
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", valueID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ser *systemEnumRepo) Create(ctx context.Context, tx *gorm.DB, value *types.SystemEnumValue) (*types.SystemEnumValue, error) {
	transaction := tx
	if transaction == nil {
		transaction = ser.db
	}

	if err := transaction.WithContext(ctx).Create(value).Error; err != nil {
		return nil, err
	}
	return value, nil
}

func (ser *systemEnumRepo) Update(ctx context.Context, tx *gorm.DB, value *types.SystemEnumValue) (*types.SystemEnumValue, error) {
	transaction := tx
	if transaction == nil {
		transaction = ser.db
	}

	if err := transaction.WithContext(ctx).Save(value).Error; err != nil {
		return nil, err
	}
	return value, nil
}

func (ser *systemEnumRepo) SoftDelete(ctx context.Context, tx *gorm.DB, valueID uuid.UUID, deletedBy *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ser.db
	}

	var value types.SystemEnumValue
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("id = ?", valueID).
		First(&value).Error; err != nil {
		return err
	}
	value.SoftDelete(deletedBy)
	return transaction.WithContext(ctx).Save(&value).Error
}

func (ser *systemEnumRepo) ListProficiencyLevels(ctx context.Context, tx *gorm.DB) ([]*types.ProficiencyLevelDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = ser.db
	}

	var results []*types.ProficiencyLevelDefinition
	if err := notDeleted(transaction.WithContext(ctx)).
		Where("is_active = ?", true).
		Order("level ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ser *systemEnumRepo) SaveProficiencyLevel(ctx context.Context, tx *gorm.DB, def *types.ProficiencyLevelDefinition) (*types.ProficiencyLevelDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = ser.db
	}

	if err := transaction.WithContext(ctx).Save(def).Error; err != nil {
		return nil, err
	}
	return def, nil
}
