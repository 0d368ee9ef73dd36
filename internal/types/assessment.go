package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TestTemplate is versioned: completed assessments must keep referencing the
// template snapshot they were taken against.
type TestTemplate struct {
	Audit
	Versioned
	Title          string           `gorm:"not null;column:title" json:"title"`
	Description    string           `gorm:"column:description" json:"description,omitempty"`
	SkillID        *uuid.UUID       `gorm:"type:uuid;index" json:"skillId,omitempty"`
	Type           AssessmentType   `gorm:"not null;default:4" json:"type"`
	TargetLevel    ProficiencyLevel `gorm:"not null;default:3" json:"targetLevel"`
	TimeLimitMin   int              `gorm:"not null;default:30" json:"timeLimitMinutes"`
	PassingScore   float64          `gorm:"not null;default:70" json:"passingScore"`
	IsActive       bool             `gorm:"not null;default:true" json:"isActive"`

	Questions []Question `gorm:"foreignKey:TestTemplateID" json:"questions,omitempty"`
}

func (TestTemplate) TableName() string { return "test_template" }

type Question struct {
	Audit
	TestTemplateID uuid.UUID        `gorm:"type:uuid;not null;index" json:"testTemplateId"`
	Type           QuestionType     `gorm:"not null;default:1" json:"type"`
	Text           string           `gorm:"not null;column:text" json:"text"`
	Options        datatypes.JSON   `json:"options,omitempty"`
	ExpectedAnswer string           `gorm:"column:expected_answer" json:"-"`
	Points         float64          `gorm:"not null;default:1" json:"points"`
	TargetLevel    ProficiencyLevel `gorm:"not null;default:3" json:"targetLevel"`
	DisplayOrder   int              `gorm:"not null;default:0" json:"displayOrder"`
}

func (Question) TableName() string { return "question" }

type Assessment struct {
	Audit
	EmployeeID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"employeeId"`
	TestTemplateID *uuid.UUID       `gorm:"type:uuid;index" json:"testTemplateId,omitempty"`
	SkillID        *uuid.UUID       `gorm:"type:uuid;index" json:"skillId,omitempty"`
	Title          string           `gorm:"column:title" json:"title,omitempty"`
	Type           AssessmentType   `gorm:"not null;default:4" json:"type"`
	Status         AssessmentStatus `gorm:"not null;default:1" json:"status"`
	Score          *float64         `json:"score,omitempty"`
	MaxScore       *float64         `json:"maxScore,omitempty"`
	ResultingLevel *ProficiencyLevel `json:"resultingLevel,omitempty"`
	StartedAt      *time.Time       `json:"startedAt,omitempty"`
	CompletedAt    *time.Time       `json:"completedAt,omitempty"`

	Employee     *Employee     `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	TestTemplate *TestTemplate `gorm:"foreignKey:TestTemplateID" json:"testTemplate,omitempty"`
	Responses    []AssessmentResponse `gorm:"foreignKey:AssessmentID" json:"responses,omitempty"`
}

func (Assessment) TableName() string { return "assessment" }

type AssessmentResponse struct {
	Audit
	AssessmentID  uuid.UUID `gorm:"type:uuid;not null;index" json:"assessmentId"`
	QuestionID    uuid.UUID `gorm:"type:uuid;not null" json:"questionId"`
	Answer        string    `gorm:"column:answer" json:"answer"`
	PointsAwarded float64   `gorm:"not null;default:0" json:"pointsAwarded"`
	IsCorrect     *bool     `json:"isCorrect,omitempty"`
	AiFeedback    string    `gorm:"column:ai_feedback" json:"aiFeedback,omitempty"`
}

func (AssessmentResponse) TableName() string { return "assessment_response" }
