package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/apierr"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

// SkillFilter narrows skill listings.
type SkillFilter struct {
	SubcategoryID *uuid.UUID
	Category      *types.SkillCategory
}

type SkillService interface {
	CreateDomain(ctx context.Context, domain *types.SkillDomain, by uuid.UUID) (*types.SkillDomain, error)
	ListDomains(ctx context.Context, includeInactive bool) ([]*types.SkillDomain, error)
	UpdateDomain(ctx context.Context, domain *types.SkillDomain, by uuid.UUID) (*types.SkillDomain, error)
	DeleteDomain(ctx context.Context, domainID uuid.UUID, by uuid.UUID) error

	CreateSubcategory(ctx context.Context, sub *types.SkillSubcategory, by uuid.UUID) (*types.SkillSubcategory, error)
	ListSubcategories(ctx context.Context, domainID *uuid.UUID) ([]*types.SkillSubcategory, error)
	UpdateSubcategory(ctx context.Context, sub *types.SkillSubcategory, by uuid.UUID) (*types.SkillSubcategory, error)
	DeleteSubcategory(ctx context.Context, subID uuid.UUID, by uuid.UUID) error

	CreateSkill(ctx context.Context, skill *types.Skill, by uuid.UUID) (*types.Skill, error)
	GetSkill(ctx context.Context, skillID uuid.UUID) (*types.Skill, error)
	ListSkills(ctx context.Context, req paging.Request, filter SkillFilter) (*paging.Result[*types.Skill], error)
	SkillDropdown(ctx context.Context, req paging.Request) ([]DropdownItem, error)
	UpdateSkill(ctx context.Context, skill *types.Skill, by uuid.UUID) (*types.Skill, error)
	DeleteSkill(ctx context.Context, skillID uuid.UUID, by uuid.UUID) error

	SaveLevelDefinition(ctx context.Context, def *types.SkillLevelDefinition, by uuid.UUID) (*types.SkillLevelDefinition, error)
	ListLevelDefinitions(ctx context.Context, skillID uuid.UUID) ([]*types.SkillLevelDefinition, error)
}

type skillService struct {
	db        *gorm.DB
	log       *logger.Logger
	skillRepo repos.SkillRepo
}

func NewSkillService(db *gorm.DB, log *logger.Logger, skillRepo repos.SkillRepo) SkillService {
	serviceLog := log.With("service", "SkillService")
	return &skillService{db: db, log: serviceLog, skillRepo: skillRepo}
}

func (ss *skillService) CreateDomain(ctx context.Context, domain *types.SkillDomain, by uuid.UUID) (*types.SkillDomain, error) {
	if strings.TrimSpace(domain.Name) == "" || strings.TrimSpace(domain.Code) == "" {
		return nil, apierr.Validation("domain name and code are required")
	}
	domain.Code = strings.ToUpper(strings.TrimSpace(domain.Code))
	domain.IsActive = true
	domain.CreatedBy = &by
	return ss.skillRepo.CreateDomain(ctx, nil, domain)
}

func (ss *skillService) ListDomains(ctx context.Context, includeInactive bool) ([]*types.SkillDomain, error) {
	return ss.skillRepo.ListDomains(ctx, nil, includeInactive)
}

func (ss *skillService) UpdateDomain(ctx context.Context, domain *types.SkillDomain, by uuid.UUID) (*types.SkillDomain, error) {
	existing, err := ss.skillRepo.GetDomain(ctx, nil, domain.ID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("skill domain")
		}
		return nil, err
	}
	existing.Name = domain.Name
	existing.Description = domain.Description
	existing.DisplayOrder = domain.DisplayOrder
	existing.IsActive = domain.IsActive
	existing.UpdatedBy = &by
	return ss.skillRepo.UpdateDomain(ctx, nil, existing)
}

func (ss *skillService) DeleteDomain(ctx context.Context, domainID uuid.UUID, by uuid.UUID) error {
	domain, err := ss.skillRepo.GetDomain(ctx, nil, domainID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("skill domain")
		}
		return err
	}
	if len(domain.Subcategories) > 0 {
		return apierr.Conflict("domain still has subcategories")
	}
	return ss.skillRepo.SoftDeleteDomain(ctx, nil, domainID, &by)
}

func (ss *skillService) CreateSubcategory(ctx context.Context, sub *types.SkillSubcategory, by uuid.UUID) (*types.SkillSubcategory, error) {
	if strings.TrimSpace(sub.Name) == "" || strings.TrimSpace(sub.Code) == "" {
		return nil, apierr.Validation("subcategory name and code are required")
	}
	if _, err := ss.skillRepo.GetDomain(ctx, nil, sub.SkillDomainID); err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.Validation("skill domain does not exist")
		}
		return nil, err
	}
	sub.Code = strings.ToUpper(strings.TrimSpace(sub.Code))
	sub.IsActive = true
	sub.CreatedBy = &by
	return ss.skillRepo.CreateSubcategory(ctx, nil, sub)
}

func (ss *skillService) ListSubcategories(ctx context.Context, domainID *uuid.UUID) ([]*types.SkillSubcategory, error) {
	return ss.skillRepo.ListSubcategories(ctx, nil, domainID)
}

func (ss *skillService) UpdateSubcategory(ctx context.Context, sub *types.SkillSubcategory, by uuid.UUID) (*types.SkillSubcategory, error) {
	existing, err := ss.skillRepo.GetSubcategory(ctx, nil, sub.ID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("skill subcategory")
		}
		return nil, err
	}
	existing.Name = sub.Name
	existing.Description = sub.Description
	existing.DisplayOrder = sub.DisplayOrder
	existing.IsActive = sub.IsActive
	existing.UpdatedBy = &by
	return ss.skillRepo.UpdateSubcategory(ctx, nil, existing)
}

func (ss *skillService) DeleteSubcategory(ctx context.Context, subID uuid.UUID, by uuid.UUID) error {
	if err := ss.skillRepo.SoftDeleteSubcategory(ctx, nil, subID, &by); err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("skill subcategory")
		}
		return err
	}
	return nil
}

func (ss *skillService) CreateSkill(ctx context.Context, skill *types.Skill, by uuid.UUID) (*types.Skill, error) {
	if strings.TrimSpace(skill.Name) == "" || strings.TrimSpace(skill.Code) == "" {
		return nil, apierr.Validation("skill name and code are required")
	}
	if _, err := ss.skillRepo.GetSubcategory(ctx, nil, skill.SubcategoryID); err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.Validation("skill subcategory does not exist")
		}
		return nil, err
	}
	skill.Code = strings.ToUpper(strings.TrimSpace(skill.Code))
	skill.IsActive = true
	skill.CreatedBy = &by
	return ss.skillRepo.Create(ctx, nil, skill)
}

func (ss *skillService) GetSkill(ctx context.Context, skillID uuid.UUID) (*types.Skill, error) {
	skill, err := ss.skillRepo.GetByID(ctx, nil, skillID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("skill")
		}
		return nil, err
	}
	return skill, nil
}

func (ss *skillService) ListSkills(ctx context.Context, req paging.Request, filter SkillFilter) (*paging.Result[*types.Skill], error) {
	req.Normalize()
	items, total, err := ss.skillRepo.List(ctx, nil, req, filter.SubcategoryID, filter.Category)
	if err != nil {
		return nil, err
	}
	return paging.NewResult(items, total, req), nil
}

func (ss *skillService) SkillDropdown(ctx context.Context, req paging.Request) ([]DropdownItem, error) {
	req.Normalize()
	req.PageSize = 100
	skills, _, err := ss.skillRepo.List(ctx, nil, req, nil, nil)
	if err != nil {
		return nil, err
	}
	items := make([]DropdownItem, 0, len(skills))
	for _, skill := range skills {
		items = append(items, DropdownItem{ID: skill.ID, Name: skill.Name, Code: skill.Code})
	}
	return items, nil
}

func (ss *skillService) UpdateSkill(ctx context.Context, skill *types.Skill, by uuid.UUID) (*types.Skill, error) {
	existing, err := ss.skillRepo.GetByID(ctx, nil, skill.ID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("skill")
		}
		return nil, err
	}
	existing.Name = skill.Name
	existing.Description = skill.Description
	existing.Category = skill.Category
	existing.SkillType = skill.SkillType
	existing.DisplayOrder = skill.DisplayOrder
	existing.IsActive = skill.IsActive
	existing.IsCompanySpecific = skill.IsCompanySpecific
	existing.Tags = skill.Tags
	existing.ApplicableLevels = skill.ApplicableLevels
	existing.UpdatedBy = &by
	return ss.skillRepo.Update(ctx, nil, existing)
}

// DeleteSkill deactivates instead of deleting when the skill is still
// referenced by employee records or role requirements.
func (ss *skillService) DeleteSkill(ctx context.Context, skillID uuid.UUID, by uuid.UUID) error {
	skill, err := ss.skillRepo.GetByID(ctx, nil, skillID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("skill")
		}
		return err
	}
	referenced, err := ss.skillRepo.IsReferenced(ctx, nil, skillID)
	if err != nil {
		return err
	}
	if referenced {
		skill.IsActive = false
		skill.UpdatedBy = &by
		_, err = ss.skillRepo.Update(ctx, nil, skill)
		if err == nil {
			ss.log.Info("skill deactivated instead of deleted", "skill_id", skillID)
		}
		return err
	}
	return ss.skillRepo.SoftDelete(ctx, nil, skillID, &by)
}

func (ss *skillService) SaveLevelDefinition(ctx context.Context, def *types.SkillLevelDefinition, by uuid.UUID) (*types.SkillLevelDefinition, error) {
	if !def.Level.Valid() {
		return nil, apierr.Validation("invalid proficiency level")
	}
	if strings.TrimSpace(def.Description) == "" {
		return nil, apierr.Validation("level description is required")
	}
	if _, err := ss.skillRepo.GetByID(ctx, nil, def.SkillID); err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("skill")
		}
		return nil, err
	}
	def.UpdatedBy = &by
	if def.ID == uuid.Nil {
		def.CreatedBy = &by
	}
	return ss.skillRepo.SaveLevelDefinition(ctx, nil, def)
}

func (ss *skillService) ListLevelDefinitions(ctx context.Context, skillID uuid.UUID) ([]*types.SkillLevelDefinition, error) {
	return ss.skillRepo.ListLevelDefinitions(ctx, nil, skillID)
}
