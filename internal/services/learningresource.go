package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/apierr"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

// SkillMappingInput links a catalog resource to a skill with the level
// range the resource is able to bridge.
type SkillMappingInput struct {
	SkillID   uuid.UUID              `json:"skillId" binding:"required"`
	FromLevel types.ProficiencyLevel `json:"fromLevel"`
	ToLevel   types.ProficiencyLevel `json:"toLevel"`
}

type LearningResourceService interface {
	Create(ctx context.Context, resource *types.LearningResource, mappings []SkillMappingInput, by *uuid.UUID) (*types.LearningResource, error)
	GetByID(ctx context.Context, resourceID uuid.UUID) (*types.LearningResource, error)
	List(ctx context.Context, req paging.Request, skillID *uuid.UUID) (*paging.Result[*types.LearningResource], error)
	Update(ctx context.Context, resource *types.LearningResource, mappings []SkillMappingInput, by *uuid.UUID) (*types.LearningResource, error)
	Delete(ctx context.Context, resourceID uuid.UUID, by *uuid.UUID) error
}

type learningResourceService struct {
	db           *gorm.DB
	log          *logger.Logger
	resourceRepo repos.LearningResourceRepo
	skillRepo    repos.SkillRepo
}

func NewLearningResourceService(
	db *gorm.DB,
	log *logger.Logger,
	resourceRepo repos.LearningResourceRepo,
	skillRepo repos.SkillRepo,
) LearningResourceService {
	serviceLog := log.With("service", "LearningResourceService")
	return &learningResourceService{
		db:           db,
		log:          serviceLog,
		resourceRepo: resourceRepo,
		skillRepo:    skillRepo,
	}
}

func (ls *learningResourceService) validateMappings(ctx context.Context, mappings []SkillMappingInput) ([]*types.LearningResourceSkill, error) {
	skills := make([]*types.LearningResourceSkill, 0, len(mappings))
	for _, m := range mappings {
		if m.FromLevel < types.LevelNone || m.ToLevel > types.LevelSetStrategy {
			return nil, apierr.Validation("skill mapping levels must be between 0 and 7")
		}
		if m.FromLevel > m.ToLevel {
			return nil, apierr.Validation("skill mapping fromLevel cannot exceed toLevel")
		}
		if _, err := ls.skillRepo.GetByID(ctx, nil, m.SkillID); err != nil {
			if apierr.IsNotFound(err) {
				return nil, apierr.NotFound("skill")
			}
			return nil, err
		}
		skills = append(skills, &types.LearningResourceSkill{
			SkillID:   m.SkillID,
			FromLevel: m.FromLevel,
			ToLevel:   m.ToLevel,
		})
	}
	return skills, nil
}

func (ls *learningResourceService) Create(ctx context.Context, resource *types.LearningResource, mappings []SkillMappingInput, by *uuid.UUID) (*types.LearningResource, error) {
	if strings.TrimSpace(resource.Title) == "" {
		return nil, apierr.Validation("resource title is required")
	}
	if resource.EstimatedHours < 0 {
		return nil, apierr.Validation("estimated hours cannot be negative")
	}
	skills, err := ls.validateMappings(ctx, mappings)
	if err != nil {
		return nil, err
	}

	resource.IsActive = true
	resource.CreatedBy = by
	resource.UpdatedBy = by

	err = ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ls.resourceRepo.Create(ctx, tx, resource); err != nil {
			return fmt.Errorf("create resource: %w", err)
		}
		if len(skills) > 0 {
			if err := ls.resourceRepo.SetSkills(ctx, tx, resource.ID, skills, by); err != nil {
				return fmt.Errorf("set resource skills: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ls.resourceRepo.GetByID(ctx, nil, resource.ID)
}

func (ls *learningResourceService) GetByID(ctx context.Context, resourceID uuid.UUID) (*types.LearningResource, error) {
	resource, err := ls.resourceRepo.GetByID(ctx, nil, resourceID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("learning resource")
		}
		return nil, err
	}
	return resource, nil
}

func (ls *learningResourceService) List(ctx context.Context, req paging.Request, skillID *uuid.UUID) (*paging.Result[*types.LearningResource], error) {
	req.Normalize()
	items, total, err := ls.resourceRepo.List(ctx, nil, req, skillID)
	if err != nil {
		return nil, err
	}
	return paging.NewResult(items, total, req), nil
}

func (ls *learningResourceService) Update(ctx context.Context, resource *types.LearningResource, mappings []SkillMappingInput, by *uuid.UUID) (*types.LearningResource, error) {
	existing, err := ls.resourceRepo.GetByID(ctx, nil, resource.ID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("learning resource")
		}
		return nil, err
	}
	if strings.TrimSpace(resource.Title) == "" {
		return nil, apierr.Validation("resource title is required")
	}
	skills, err := ls.validateMappings(ctx, mappings)
	if err != nil {
		return nil, err
	}

	existing.Title = resource.Title
	existing.Description = resource.Description
	existing.Type = resource.Type
	existing.URL = resource.URL
	existing.Provider = resource.Provider
	existing.EstimatedHours = resource.EstimatedHours
	existing.Difficulty = resource.Difficulty
	existing.IsInternal = resource.IsInternal
	existing.IsFree = resource.IsFree
	existing.Tags = resource.Tags
	existing.IsActive = resource.IsActive
	existing.UpdatedBy = by

	err = ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ls.resourceRepo.Update(ctx, tx, existing); err != nil {
			return fmt.Errorf("update resource: %w", err)
		}
		if mappings != nil {
			if err := ls.resourceRepo.SetSkills(ctx, tx, existing.ID, skills, by); err != nil {
				return fmt.Errorf("set resource skills: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ls.resourceRepo.GetByID(ctx, nil, existing.ID)
}

func (ls *learningResourceService) Delete(ctx context.Context, resourceID uuid.UUID, by *uuid.UUID) error {
	if err := ls.resourceRepo.SoftDelete(ctx, nil, resourceID, by); err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("learning resource")
		}
		return err
	}
	return nil
}
