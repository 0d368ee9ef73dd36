package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Employee is the central profile record. It owns its EmployeeSkill and
// SkillGap rows; deleting an employee cascades to both.
type Employee struct {
	Audit
	Email        string           `gorm:"uniqueIndex;not null;column:email" json:"email"`
	PasswordHash string           `gorm:"not null;column:password_hash" json:"-"`
	FullName     string           `gorm:"not null;column:full_name" json:"fullName"`
	AvatarURL    string           `gorm:"column:avatar_url" json:"avatarUrl,omitempty"`
	TeamID       *uuid.UUID       `gorm:"type:uuid;index" json:"teamId,omitempty"`
	JobRoleID    *uuid.UUID       `gorm:"type:uuid;index" json:"jobRoleId,omitempty"`
	ManagerID    *uuid.UUID       `gorm:"type:uuid" json:"managerId,omitempty"`
	SystemRole   UserRole         `gorm:"not null;default:1" json:"systemRole"`
	Status       EmploymentStatus `gorm:"not null;default:1" json:"status"`
	JoinDate     *time.Time       `json:"joinDate,omitempty"`
	LeaveDate    *time.Time       `json:"leaveDate,omitempty"`
	YearsOfExperience int         `gorm:"not null;default:0" json:"yearsOfExperience"`

	Team    *Team    `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	JobRole *JobRole `gorm:"foreignKey:JobRoleID" json:"jobRole,omitempty"`
	Skills  []EmployeeSkill `gorm:"foreignKey:EmployeeID" json:"skills,omitempty"`
}

func (Employee) TableName() string { return "employee" }

// Team supports a simple hierarchy through ParentTeamID.
type Team struct {
	Audit
	Name         string     `gorm:"not null;column:name" json:"name"`
	Description  string     `gorm:"column:description" json:"description,omitempty"`
	ParentTeamID *uuid.UUID `gorm:"type:uuid" json:"parentTeamId,omitempty"`
	TeamLeadID   *uuid.UUID `gorm:"type:uuid" json:"teamLeadId,omitempty"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
}

func (Team) TableName() string { return "team" }

// JobRole is versioned so historical gap records can reference the
// requirement set as it existed when they were computed.
type JobRole struct {
	Audit
	Versioned
	Code             string     `gorm:"not null;index;column:code" json:"code"`
	Name             string     `gorm:"not null;column:name" json:"name"`
	Description      string     `gorm:"column:description" json:"description,omitempty"`
	ParentRoleID     *uuid.UUID `gorm:"type:uuid" json:"parentRoleId,omitempty"`
	LevelInHierarchy int        `gorm:"not null;default:1" json:"levelInHierarchy"`
	IsActive         bool       `gorm:"not null;default:true" json:"isActive"`

	SkillRequirements []RoleSkillRequirement `gorm:"foreignKey:JobRoleID" json:"skillRequirements,omitempty"`
}

func (JobRole) TableName() string { return "job_role" }

// RoleSkillRequirement defines the career-ladder mapping for one role and
// one skill. MinimumLevel is the authoritative floor; ExpectedLevel below
// the minimum is a data anomaly surfaced as a validation warning, never
// applied.
type RoleSkillRequirement struct {
	Audit
	JobRoleID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uq_role_skill_req,where:is_deleted = false" json:"jobRoleId"`
	SkillID       uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uq_role_skill_req,where:is_deleted = false" json:"skillId"`
	MinimumLevel  ProficiencyLevel  `gorm:"not null" json:"minimumLevel"`
	ExpectedLevel *ProficiencyLevel `json:"expectedLevel,omitempty"`
	ExpertLevel   *ProficiencyLevel `json:"expertLevel,omitempty"`
	IsMandatory   bool              `gorm:"not null;default:false" json:"isMandatory"`
	Priority      int               `gorm:"not null;default:100" json:"priority"`

	Skill *Skill `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
}

func (RoleSkillRequirement) TableName() string { return "role_skill_requirement" }

// EmployeeSkill is the authoritative per-(employee, skill) level record.
// CurrentLevel moves when an assessment completes; every change appends an
// EmployeeSkillHistory row.
type EmployeeSkill struct {
	Audit
	EmployeeID           uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uq_employee_skill,where:is_deleted = false" json:"employeeId"`
	SkillID              uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uq_employee_skill,where:is_deleted = false" json:"skillId"`
	CurrentLevel         ProficiencyLevel  `gorm:"not null;default:0" json:"currentLevel"`
	SelfAssessedLevel    *ProficiencyLevel `json:"selfAssessedLevel,omitempty"`
	ManagerAssessedLevel *ProficiencyLevel `json:"managerAssessedLevel,omitempty"`
	TestValidatedLevel   *ProficiencyLevel `json:"testValidatedLevel,omitempty"`
	Evidence             datatypes.JSON    `json:"evidence,omitempty"`
	LastAssessedAt       *time.Time        `json:"lastAssessedAt,omitempty"`
	LastAssessmentID     *uuid.UUID        `gorm:"type:uuid" json:"lastAssessmentId,omitempty"`
	IsValidated          bool              `gorm:"not null;default:false" json:"isValidated"`

	Skill *Skill `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
}

func (EmployeeSkill) TableName() string { return "employee_skill" }

// EmployeeSkillHistory is an append-only log of level changes. Rows are
// never updated or deleted.
type EmployeeSkillHistory struct {
	Audit
	EmployeeID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"employeeId"`
	SkillID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"skillId"`
	FromLevel    ProficiencyLevel `gorm:"not null" json:"fromLevel"`
	ToLevel      ProficiencyLevel `gorm:"not null" json:"toLevel"`
	ChangeReason string           `gorm:"not null;column:change_reason" json:"changeReason"`
	AssessmentID *uuid.UUID       `gorm:"type:uuid" json:"assessmentId,omitempty"`
	ChangedAt    time.Time        `gorm:"not null;default:now()" json:"changedAt"`
}

func (EmployeeSkillHistory) TableName() string { return "employee_skill_history" }
