package types

import "gorm.io/datatypes"

// SystemEnumValue is one entry of an admin-editable enum catalog. Rows with
// IsSystem set are required by computation logic and cannot be deleted or
// deactivated.
type SystemEnumValue struct {
	Audit
	EnumType      string         `gorm:"not null;index;uniqueIndex:uq_system_enum,where:is_deleted = false;column:enum_type" json:"enumType"`
	Value         int            `gorm:"not null;uniqueIndex:uq_system_enum,where:is_deleted = false" json:"value"`
	Code          string         `gorm:"not null;column:code" json:"code"`
	Name          string         `gorm:"not null;column:name" json:"name"`
	NameVi        string         `gorm:"column:name_vi" json:"nameVi,omitempty"`
	Description   string         `gorm:"column:description" json:"description,omitempty"`
	DescriptionVi string         `gorm:"column:description_vi" json:"descriptionVi,omitempty"`
	Color         string         `gorm:"column:color" json:"color,omitempty"`
	Icon          string         `gorm:"column:icon" json:"icon,omitempty"`
	DisplayOrder  int            `gorm:"not null;default:0" json:"displayOrder"`
	IsActive      bool           `gorm:"not null;default:true" json:"isActive"`
	IsSystem      bool           `gorm:"not null;default:false" json:"isSystem"`
	Metadata      datatypes.JSON `json:"metadata,omitempty"`
}

func (SystemEnumValue) TableName() string { return "system_enum_value" }

// Enum types the catalog recognizes.
const (
	EnumSkillCategory        = "SkillCategory"
	EnumSkillType            = "SkillType"
	EnumAssessmentType       = "AssessmentType"
	EnumAssessmentStatus     = "AssessmentStatus"
	EnumQuestionType         = "QuestionType"
	EnumDifficultyLevel      = "DifficultyLevel"
	EnumGapPriority          = "GapPriority"
	EnumLearningResourceType = "LearningResourceType"
	EnumLearningPathStatus   = "LearningPathStatus"
	EnumEmploymentStatus     = "EmploymentStatus"
	EnumUserRole             = "UserRole"
)

var SystemEnumTypes = []string{
	EnumSkillCategory,
	EnumSkillType,
	EnumAssessmentType,
	EnumAssessmentStatus,
	EnumQuestionType,
	EnumDifficultyLevel,
	EnumGapPriority,
	EnumLearningResourceType,
	EnumLearningPathStatus,
	EnumEmploymentStatus,
	EnumUserRole,
}
