package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/db"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/utils"
)

type skillEntry struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    int    `yaml:"category"`
	SkillType   int    `yaml:"skillType"`
}

type subcategoryEntry struct {
	Code        string       `yaml:"code"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Skills      []skillEntry `yaml:"skills"`
}

type domainEntry struct {
	Code          string             `yaml:"code"`
	Name          string             `yaml:"name"`
	Description   string             `yaml:"description"`
	Subcategories []subcategoryEntry `yaml:"subcategories"`
}

type levelEntry struct {
	Level       int    `yaml:"level"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Autonomy    string `yaml:"autonomy"`
	Influence   string `yaml:"influence"`
	Color       string `yaml:"color"`
}

type enumEntry struct {
	Value       int    `yaml:"value"`
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
}

type resourceEntry struct {
	Title          string `yaml:"title"`
	Description    string `yaml:"description"`
	Type           int    `yaml:"type"`
	URL            string `yaml:"url"`
	Provider       string `yaml:"provider"`
	EstimatedHours int    `yaml:"estimatedHours"`
	Difficulty     int    `yaml:"difficulty"`
	IsFree         bool   `yaml:"isFree"`
}

type catalog struct {
	Domains           []domainEntry          `yaml:"domains"`
	ProficiencyLevels []levelEntry           `yaml:"proficiencyLevels"`
	SystemEnums       map[string][]enumEntry `yaml:"systemEnums"`
	LearningResources []resourceEntry        `yaml:"learningResources"`
}

func main() {
	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	catalogPath := utils.GetEnv("SEED_FILE", "seed/catalog.yaml", log)
	raw, err := os.ReadFile(catalogPath)
	if err != nil {
		log.Error("Could not read seed catalog", "path", catalogPath, "error", err)
		os.Exit(1)
	}
	var cat catalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		log.Error("Could not parse seed catalog", "path", catalogPath, "error", err)
		os.Exit(1)
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	err = thePG.Transaction(func(tx *gorm.DB) error {
		if err := seedTaxonomy(tx, log, cat.Domains); err != nil {
			return err
		}
		if err := seedProficiencyLevels(tx, log, cat.ProficiencyLevels); err != nil {
			return err
		}
		if err := seedSystemEnums(tx, log, cat.SystemEnums); err != nil {
			return err
		}
		return seedLearningResources(tx, log, cat.LearningResources)
	})
	if err != nil {
		log.Error("Seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("Seed completed",
		"domains", len(cat.Domains),
		"proficiency_levels", len(cat.ProficiencyLevels),
		"enum_types", len(cat.SystemEnums),
		"learning_resources", len(cat.LearningResources),
	)
}

func seedTaxonomy(tx *gorm.DB, log *logger.Logger, domains []domainEntry) error {
	for order, d := range domains {
		domain := types.SkillDomain{}
		err := tx.Where("code = ? AND is_deleted = false", d.Code).First(&domain).Error
		if err == gorm.ErrRecordNotFound {
			domain = types.SkillDomain{Code: d.Code, Name: d.Name, Description: d.Description, DisplayOrder: order, IsActive: true}
			domain.Version = 1
			domain.IsCurrent = true
			if err := tx.Create(&domain).Error; err != nil {
				return fmt.Errorf("create domain %s: %w", d.Code, err)
			}
			log.Info("Seeded skill domain", "code", d.Code)
		} else if err != nil {
			return fmt.Errorf("lookup domain %s: %w", d.Code, err)
		}

		for subOrder, s := range d.Subcategories {
			sub := types.SkillSubcategory{}
			err := tx.Where("code = ? AND is_deleted = false", s.Code).First(&sub).Error
			if err == gorm.ErrRecordNotFound {
				sub = types.SkillSubcategory{SkillDomainID: domain.ID, Code: s.Code, Name: s.Name, Description: s.Description, DisplayOrder: subOrder, IsActive: true}
				sub.Version = 1
				sub.IsCurrent = true
				if err := tx.Create(&sub).Error; err != nil {
					return fmt.Errorf("create subcategory %s: %w", s.Code, err)
				}
			} else if err != nil {
				return fmt.Errorf("lookup subcategory %s: %w", s.Code, err)
			}

			for skillOrder, sk := range s.Skills {
				var count int64
				if err := tx.Model(&types.Skill{}).
					Where("code = ? AND is_deleted = false", sk.Code).
					Count(&count).Error; err != nil {
					return fmt.Errorf("lookup skill %s: %w", sk.Code, err)
				}
				if count > 0 {
					continue
				}
				skill := types.Skill{
					SubcategoryID: sub.ID,
					Code:          sk.Code,
					Name:          sk.Name,
					Description:   sk.Description,
					Category:      types.SkillCategory(sk.Category),
					SkillType:     types.SkillType(sk.SkillType),
					DisplayOrder:  skillOrder,
					IsActive:      true,
				}
				if skill.Category == 0 {
					skill.Category = types.CategoryTechnical
				}
				if skill.SkillType == 0 {
					skill.SkillType = types.SkillTypeCore
				}
				skill.Version = 1
				skill.IsCurrent = true
				if err := tx.Create(&skill).Error; err != nil {
					return fmt.Errorf("create skill %s: %w", sk.Code, err)
				}
			}
		}
	}
	return nil
}

func seedProficiencyLevels(tx *gorm.DB, log *logger.Logger, levels []levelEntry) error {
	for _, l := range levels {
		def := types.ProficiencyLevelDefinition{}
		err := tx.Where("level = ? AND is_deleted = false", l.Level).First(&def).Error
		if err == gorm.ErrRecordNotFound {
			def = types.ProficiencyLevelDefinition{
				Level:        l.Level,
				LevelName:    l.Name,
				Description:  l.Description,
				Autonomy:     l.Autonomy,
				Influence:    l.Influence,
				Color:        l.Color,
				DisplayOrder: l.Level,
				IsActive:     true,
			}
			if err := tx.Create(&def).Error; err != nil {
				return fmt.Errorf("create proficiency level %d: %w", l.Level, err)
			}
			log.Info("Seeded proficiency level", "level", l.Level, "name", l.Name)
		} else if err != nil {
			return fmt.Errorf("lookup proficiency level %d: %w", l.Level, err)
		}
	}
	return nil
}

func seedSystemEnums(tx *gorm.DB, log *logger.Logger, enums map[string][]enumEntry) error {
	for enumType, entries := range enums {
		for _, e := range entries {
			var count int64
			if err := tx.Model(&types.SystemEnumValue{}).
				Where("enum_type = ? AND value = ? AND is_deleted = false", enumType, e.Value).
				Count(&count).Error; err != nil {
				return fmt.Errorf("lookup enum %s/%d: %w", enumType, e.Value, err)
			}
			if count > 0 {
				continue
			}
			value := types.SystemEnumValue{
				EnumType:     enumType,
				Value:        e.Value,
				Code:         e.Code,
				Name:         e.Name,
				Description:  e.Description,
				Color:        e.Color,
				DisplayOrder: e.Value,
				IsActive:     true,
				IsSystem:     true,
			}
			if err := tx.Create(&value).Error; err != nil {
				return fmt.Errorf("create enum %s/%d: %w", enumType, e.Value, err)
			}
		}
		log.Info("Seeded enum type", "enum_type", enumType, "values", len(entries))
	}
	return nil
}

func seedLearningResources(tx *gorm.DB, log *logger.Logger, resources []resourceEntry) error {
	for _, r := range resources {
		var count int64
		if err := tx.Model(&types.LearningResource{}).
			Where("title = ? AND is_deleted = false", r.Title).
			Count(&count).Error; err != nil {
			return fmt.Errorf("lookup resource %q: %w", r.Title, err)
		}
		if count > 0 {
			continue
		}
		resource := types.LearningResource{
			Title:          r.Title,
			Description:    r.Description,
			Type:           types.LearningResourceType(r.Type),
			URL:            r.URL,
			Provider:       r.Provider,
			EstimatedHours: r.EstimatedHours,
			Difficulty:     types.DifficultyLevel(r.Difficulty),
			IsFree:         r.IsFree,
			IsActive:       true,
		}
		if resource.Type == 0 {
			resource.Type = types.ResourceCourse
		}
		if resource.Difficulty == 0 {
			resource.Difficulty = types.DifficultyBeginner
		}
		if err := tx.Create(&resource).Error; err != nil {
			return fmt.Errorf("create resource %q: %w", r.Title, err)
		}
		log.Info("Seeded learning resource", "title", r.Title)
	}
	return nil
}
