package types

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SkillDomain is the top-level taxonomy grouping (SFIA categories).
type SkillDomain struct {
	Audit
	Versioned
	Code         string `gorm:"not null;index;column:code" json:"code"`
	Name         string `gorm:"not null;column:name" json:"name"`
	Description  string `gorm:"column:description" json:"description,omitempty"`
	DisplayOrder int    `gorm:"not null;default:0" json:"displayOrder"`
	IsActive     bool   `gorm:"not null;default:true" json:"isActive"`

	Subcategories []SkillSubcategory `gorm:"foreignKey:SkillDomainID" json:"subcategories,omitempty"`
}

func (SkillDomain) TableName() string { return "skill_domain" }

type SkillSubcategory struct {
	Audit
	Versioned
	SkillDomainID uuid.UUID `gorm:"type:uuid;not null;index" json:"skillDomainId"`
	Code          string    `gorm:"not null;index;column:code" json:"code"`
	Name          string    `gorm:"not null;column:name" json:"name"`
	Description   string    `gorm:"column:description" json:"description,omitempty"`
	DisplayOrder  int       `gorm:"not null;default:0" json:"displayOrder"`
	IsActive      bool      `gorm:"not null;default:true" json:"isActive"`

	SkillDomain *SkillDomain `gorm:"foreignKey:SkillDomainID" json:"skillDomain,omitempty"`
	Skills      []Skill      `gorm:"foreignKey:SubcategoryID" json:"skills,omitempty"`
}

func (SkillSubcategory) TableName() string { return "skill_subcategory" }

// Skill is a single assessable capability. ApplicableLevels narrows the 0-7
// ladder to the levels that make sense for this skill.
type Skill struct {
	Audit
	Versioned
	SubcategoryID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"subcategoryId"`
	Code              string         `gorm:"not null;index;column:code" json:"code"`
	Name              string         `gorm:"not null;column:name" json:"name"`
	Description       string         `gorm:"column:description" json:"description,omitempty"`
	Category          SkillCategory  `gorm:"not null;default:1" json:"category"`
	SkillType         SkillType      `gorm:"not null;default:1" json:"skillType"`
	DisplayOrder      int            `gorm:"not null;default:0" json:"displayOrder"`
	IsActive          bool           `gorm:"not null;default:true" json:"isActive"`
	IsCompanySpecific bool           `gorm:"not null;default:false" json:"isCompanySpecific"`
	Tags              datatypes.JSON `json:"tags,omitempty"`
	ApplicableLevels  datatypes.JSON `json:"applicableLevels,omitempty"`

	Subcategory      *SkillSubcategory      `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
	LevelDefinitions []SkillLevelDefinition `gorm:"foreignKey:SkillID" json:"levelDefinitions,omitempty"`
}

func (Skill) TableName() string { return "skill" }

// SkillLevelDefinition is the behavioral anchor for one proficiency level of
// one skill. This is what makes assessments objective.
type SkillLevelDefinition struct {
	Audit
	SkillID              uuid.UUID        `gorm:"type:uuid;not null;index" json:"skillId"`
	Level                ProficiencyLevel `gorm:"not null" json:"level"`
	CustomLevelName      string           `gorm:"column:custom_level_name" json:"customLevelName,omitempty"`
	Description          string           `gorm:"not null;column:description" json:"description"`
	Autonomy             string           `gorm:"column:autonomy" json:"autonomy,omitempty"`
	Influence            string           `gorm:"column:influence" json:"influence,omitempty"`
	Complexity           string           `gorm:"column:complexity" json:"complexity,omitempty"`
	BusinessSkills       string           `gorm:"column:business_skills" json:"businessSkills,omitempty"`
	Knowledge            string           `gorm:"column:knowledge" json:"knowledge,omitempty"`
	BehavioralIndicators datatypes.JSON   `json:"behavioralIndicators,omitempty"`
	EvidenceExamples     datatypes.JSON   `json:"evidenceExamples,omitempty"`
}

func (SkillLevelDefinition) TableName() string { return "skill_level_definition" }

// ProficiencyLevelDefinition is the admin-editable description of one rung
// of the shared 0-7 ladder.
type ProficiencyLevelDefinition struct {
	Audit
	Level                int            `gorm:"not null;uniqueIndex:uq_proficiency_level,where:is_deleted = false" json:"level"`
	LevelName            string         `gorm:"not null;column:level_name" json:"levelName"`
	Description          string         `gorm:"column:description" json:"description,omitempty"`
	Autonomy             string         `gorm:"column:autonomy" json:"autonomy,omitempty"`
	Influence            string         `gorm:"column:influence" json:"influence,omitempty"`
	Complexity           string         `gorm:"column:complexity" json:"complexity,omitempty"`
	Knowledge            string         `gorm:"column:knowledge" json:"knowledge,omitempty"`
	BusinessSkills       string         `gorm:"column:business_skills" json:"businessSkills,omitempty"`
	BehavioralIndicators datatypes.JSON `json:"behavioralIndicators,omitempty"`
	Color                string         `gorm:"column:color" json:"color,omitempty"`
	DisplayOrder         int            `gorm:"not null;default:0" json:"displayOrder"`
	IsActive             bool           `gorm:"not null;default:true" json:"isActive"`
}

func (ProficiencyLevelDefinition) TableName() string { return "proficiency_level_definition" }
