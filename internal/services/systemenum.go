package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/apierr"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

type SystemEnumService interface {
	Types(ctx context.Context) []string
	ListByType(ctx context.Context, enumType string, includeInactive bool) ([]*types.SystemEnumValue, error)
	Create(ctx context.Context, value *types.SystemEnumValue, by uuid.UUID) (*types.SystemEnumValue, error)
	Update(ctx context.Context, value *types.SystemEnumValue, by uuid.UUID) (*types.SystemEnumValue, error)
	Delete(ctx context.Context, valueID uuid.UUID, by uuid.UUID) error

	ListProficiencyLevels(ctx context.Context) ([]*types.ProficiencyLevelDefinition, error)
	SaveProficiencyLevel(ctx context.Context, def *types.ProficiencyLevelDefinition, by uuid.UUID) (*types.ProficiencyLevelDefinition, error)
}

type systemEnumService struct {
	db       *gorm.DB
	log      *logger.Logger
	enumRepo repos.SystemEnumRepo
}

func NewSystemEnumService(db *gorm.DB, log *logger.Logger, enumRepo repos.SystemEnumRepo) SystemEnumService {
	serviceLog := log.With("service", "SystemEnumService")
	return &systemEnumService{db: db, log: serviceLog, enumRepo: enumRepo}
}

func knownEnumType(enumType string) bool {
	for _, t := range types.SystemEnumTypes {
		if t == enumType {
			return true
		}
	}
	return false
}

func (ses *systemEnumService) Types(ctx context.Context) []string {
	return types.SystemEnumTypes
}

func (ses *systemEnumService) ListByType(ctx context.Context, enumType string, includeInactive bool) ([]*types.SystemEnumValue, error) {
	if !knownEnumType(enumType) {
		return nil, apierr.NotFound("enum type")
	}
	return ses.enumRepo.ListByType(ctx, nil, enumType, includeInactive)
}

func (ses *systemEnumService) Create(ctx context.Context, value *types.SystemEnumValue, by uuid.UUID) (*types.SystemEnumValue, error) {
	if !knownEnumType(value.EnumType) {
		return nil, apierr.Validation("unknown enum type")
	}
	if strings.TrimSpace(value.Code) == "" || strings.TrimSpace(value.Name) == "" {
		return nil, apierr.Validation("code and name are required")
	}
	// Admin-created values are never system values; only seeding marks rows
	// as system.
	value.IsSystem = false
	value.IsActive = true
	value.CreatedBy = &by

	created, err := ses.enumRepo.Create(ctx, nil, value)
	if err != nil {
		if apierr.IsUniqueViolation(err) {
			return nil, apierr.Conflict("an entry with this value already exists for the enum type")
		}
		return nil, err
	}
	return created, nil
}

func (ses *systemEnumService) Update(ctx context.Context, value *types.SystemEnumValue, by uuid.UUID) (*types.SystemEnumValue, error) {
	existing, err := ses.enumRepo.GetByID(ctx, nil, value.ID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("enum value")
		}
		return nil, err
	}
	// System rows back computation logic: display fields may change, the
	// value itself and its active state may not.
	if existing.IsSystem {
		if value.Value != existing.Value {
			return nil, apierr.Conflict("system enum values cannot change their numeric value")
		}
		if !value.IsActive {
			return nil, apierr.Conflict("system enum values cannot be deactivated")
		}
	}
	existing.Code = value.Code
	existing.Name = value.Name
	existing.NameVi = value.NameVi
	existing.Description = value.Description
	existing.DescriptionVi = value.DescriptionVi
	existing.Color = value.Color
	existing.Icon = value.Icon
	existing.DisplayOrder = value.DisplayOrder
	existing.IsActive = value.IsActive
	existing.Metadata = value.Metadata
	existing.UpdatedBy = &by
	return ses.enumRepo.Update(ctx, nil, existing)
}

func (ses *systemEnumService) Delete(ctx context.Context, valueID uuid.UUID, by uuid.UUID) error {
	existing, err := ses.enumRepo.GetByID(ctx, nil, valueID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("enum value")
		}
		return err
	}
	if existing.IsSystem {
		return apierr.Conflict("system enum values cannot be deleted")
	}
	return ses.enumRepo.SoftDelete(ctx, nil, valueID, &by)
}

func (ses *systemEnumService) ListProficiencyLevels(ctx context.Context) ([]*types.ProficiencyLevelDefinition, error) {
	return ses.enumRepo.ListProficiencyLevels(ctx, nil)
}

func (ses *systemEnumService) SaveProficiencyLevel(ctx context.Context, def *types.ProficiencyLevelDefinition, by uuid.UUID) (*types.ProficiencyLevelDefinition, error) {
	if def.Level < 0 || def.Level > 7 {
		return nil, apierr.Validation("level must be between 0 and 7")
	}
	if strings.TrimSpace(def.LevelName) == "" {
		return nil, apierr.Validation("level name is required")
	}
	def.UpdatedBy = &by
	if def.ID == uuid.Nil {
		def.CreatedBy = &by
	}
	saved, err := ses.enumRepo.SaveProficiencyLevel(ctx, nil, def)
	if err != nil {
		if apierr.IsUniqueViolation(err) {
			return nil, apierr.Conflict("a definition for this level already exists")
		}
		return nil, err
	}
	return saved, nil
}
