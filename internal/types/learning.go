package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SkillGap is the derived record of one shortfall for one
// (employee, skill, role) tuple. The partial unique index makes concurrent
// recalculation safe: the database, not the service, resolves insert races.
type SkillGap struct {
	Audit
	EmployeeID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_skill_gap,where:is_deleted = false" json:"employeeId"`
	SkillID          uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_skill_gap,where:is_deleted = false" json:"skillId"`
	JobRoleID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uq_skill_gap,where:is_deleted = false" json:"jobRoleId"`
	CurrentLevel     ProficiencyLevel `gorm:"not null" json:"currentLevel"`
	RequiredLevel    ProficiencyLevel `gorm:"not null" json:"requiredLevel"`
	GapSize          int              `gorm:"not null" json:"gapSize"`
	Priority         GapPriority      `gorm:"not null" json:"priority"`
	IsAddressed      bool             `gorm:"not null;default:false" json:"isAddressed"`
	AiAnalysis       string           `gorm:"column:ai_analysis" json:"aiAnalysis,omitempty"`
	AiRecommendation string           `gorm:"column:ai_recommendation" json:"aiRecommendation,omitempty"`
	IdentifiedAt     time.Time        `gorm:"not null;default:now()" json:"identifiedAt"`
	AddressedAt      *time.Time       `json:"addressedAt,omitempty"`
	ResolvedAt       *time.Time       `json:"resolvedAt,omitempty"`

	Skill *Skill `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
}

func (SkillGap) TableName() string { return "skill_gap" }

// LearningResource is a course, book, certification or similar.
type LearningResource struct {
	Audit
	Title          string               `gorm:"not null;column:title" json:"title"`
	Description    string               `gorm:"column:description" json:"description,omitempty"`
	Type           LearningResourceType `gorm:"not null;default:1" json:"type"`
	URL            string               `gorm:"column:url" json:"url,omitempty"`
	Provider       string               `gorm:"column:provider" json:"provider,omitempty"`
	EstimatedHours int                  `gorm:"not null;default:0" json:"estimatedHours"`
	Difficulty     DifficultyLevel      `gorm:"not null;default:1" json:"difficulty"`
	IsInternal     bool                 `gorm:"not null;default:false" json:"isInternal"`
	IsFree         bool                 `gorm:"not null;default:false" json:"isFree"`
	Tags           datatypes.JSON       `json:"tags,omitempty"`
	IsActive       bool                 `gorm:"not null;default:true" json:"isActive"`

	TargetSkills []LearningResourceSkill `gorm:"foreignKey:LearningResourceID" json:"targetSkills,omitempty"`
}

func (LearningResource) TableName() string { return "learning_resource" }

// LearningResourceSkill maps a resource to a skill with the level range it
// covers.
type LearningResourceSkill struct {
	Audit
	LearningResourceID uuid.UUID        `gorm:"type:uuid;not null;index" json:"learningResourceId"`
	SkillID            uuid.UUID        `gorm:"type:uuid;not null;index" json:"skillId"`
	FromLevel          ProficiencyLevel `gorm:"not null" json:"fromLevel"`
	ToLevel            ProficiencyLevel `gorm:"not null" json:"toLevel"`

	LearningResource *LearningResource `gorm:"foreignKey:LearningResourceID" json:"learningResource,omitempty"`
}

func (LearningResourceSkill) TableName() string { return "learning_resource_skill" }

// EmployeeLearningPath is an ordered plan toward one target skill level.
type EmployeeLearningPath struct {
	Audit
	EmployeeID           uuid.UUID          `gorm:"type:uuid;not null;index" json:"employeeId"`
	SkillGapID           *uuid.UUID         `gorm:"type:uuid" json:"skillGapId,omitempty"`
	TargetSkillID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"targetSkillId"`
	Title                string             `gorm:"not null;column:title" json:"title"`
	Description          string             `gorm:"column:description" json:"description,omitempty"`
	CurrentLevel         *ProficiencyLevel  `json:"currentLevel,omitempty"`
	TargetLevel          ProficiencyLevel   `gorm:"not null" json:"targetLevel"`
	Status               LearningPathStatus `gorm:"not null;default:1" json:"status"`
	TargetCompletionDate *time.Time         `json:"targetCompletionDate,omitempty"`
	ActualCompletionDate *time.Time         `json:"actualCompletionDate,omitempty"`
	EstimatedTotalHours  int                `gorm:"not null;default:0" json:"estimatedTotalHours"`
	IsAiGenerated        bool               `gorm:"not null;default:false" json:"isAiGenerated"`
	AiRationale          string             `gorm:"column:ai_rationale" json:"aiRationale,omitempty"`
	ProgressPercentage   int                `gorm:"not null;default:0" json:"progressPercentage"`
	LastActivityAt       *time.Time         `json:"lastActivityAt,omitempty"`

	TargetSkill *Skill             `gorm:"foreignKey:TargetSkillID" json:"targetSkill,omitempty"`
	Items       []LearningPathItem `gorm:"foreignKey:LearningPathID" json:"items,omitempty"`
}

func (EmployeeLearningPath) TableName() string { return "employee_learning_path" }

// LearningPathItem is one step of a path. Ordering is DisplayOrder only;
// there is no dependency graph.
type LearningPathItem struct {
	Audit
	LearningPathID     uuid.UUID            `gorm:"type:uuid;not null;index" json:"learningPathId"`
	LearningResourceID *uuid.UUID           `gorm:"type:uuid" json:"learningResourceId,omitempty"`
	Title              string               `gorm:"not null;column:title" json:"title"`
	Description        string               `gorm:"column:description" json:"description,omitempty"`
	ItemType           LearningResourceType `gorm:"not null;default:1" json:"itemType"`
	DisplayOrder       int                  `gorm:"not null;default:0" json:"displayOrder"`
	EstimatedHours     int                  `gorm:"not null;default:0" json:"estimatedHours"`
	TargetLevelAfter   *ProficiencyLevel    `json:"targetLevelAfter,omitempty"`
	ExternalURL        string               `gorm:"column:external_url" json:"externalUrl,omitempty"`
	Status             LearningItemStatus   `gorm:"not null;default:1" json:"status"`
	StartedAt          *time.Time           `json:"startedAt,omitempty"`
	CompletedAt        *time.Time           `json:"completedAt,omitempty"`
	Notes              string               `gorm:"column:notes" json:"notes,omitempty"`
}

func (LearningPathItem) TableName() string { return "learning_path_item" }

// LearningRecommendation is an advisor-produced suggestion attached to a gap.
type LearningRecommendation struct {
	Audit
	SkillGapID         uuid.UUID            `gorm:"type:uuid;not null;index" json:"skillGapId"`
	SkillID            uuid.UUID            `gorm:"type:uuid;not null" json:"skillId"`
	SkillName          string               `gorm:"not null;column:skill_name" json:"skillName"`
	RecommendationType LearningResourceType `gorm:"not null;default:1" json:"recommendationType"`
	Title              string               `gorm:"not null;column:title" json:"title"`
	Description        string               `gorm:"column:description" json:"description,omitempty"`
	URL                string               `gorm:"column:url" json:"url,omitempty"`
	EstimatedHours     int                  `gorm:"not null;default:0" json:"estimatedHours"`
	Rationale          string               `gorm:"column:rationale" json:"rationale,omitempty"`
	DisplayOrder       int                  `gorm:"not null;default:0" json:"displayOrder"`
	Provider           string               `gorm:"column:provider" json:"provider,omitempty"`
	GeneratedAt        time.Time            `gorm:"not null;default:now()" json:"generatedAt"`
}

func (LearningRecommendation) TableName() string { return "learning_recommendation" }
