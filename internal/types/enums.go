package types

// ProficiencyLevel is the 0-7 SFIA ladder used across every skill.
type ProficiencyLevel int

const (
	LevelNone ProficiencyLevel = iota
	LevelFollow
	LevelAssist
	LevelApply
	LevelEnable
	LevelEnsureAdvise
	LevelInitiate
	LevelSetStrategy
)

func (p ProficiencyLevel) String() string {
	switch p {
	case LevelNone:
		return "None"
	case LevelFollow:
		return "Follow"
	case LevelAssist:
		return "Assist"
	case LevelApply:
		return "Apply"
	case LevelEnable:
		return "Enable"
	case LevelEnsureAdvise:
		return "EnsureAdvise"
	case LevelInitiate:
		return "Initiate"
	case LevelSetStrategy:
		return "SetStrategy"
	default:
		return "Unknown"
	}
}

func (p ProficiencyLevel) Valid() bool {
	return p >= LevelNone && p <= LevelSetStrategy
}

// GapPriority ranks how urgent a skill gap is.
type GapPriority int

const (
	PriorityLow GapPriority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (g GapPriority) String() string {
	switch g {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

type SkillCategory int

const (
	CategoryTechnical SkillCategory = iota + 1
	CategoryProfessional
	CategoryDomain
	CategoryLeadership
	CategoryTools
)

func (c SkillCategory) String() string {
	switch c {
	case CategoryTechnical:
		return "Technical"
	case CategoryProfessional:
		return "Professional"
	case CategoryDomain:
		return "Domain"
	case CategoryLeadership:
		return "Leadership"
	case CategoryTools:
		return "Tools"
	default:
		return "Unknown"
	}
}

// SkillType classifies skills for the T-shaped model.
type SkillType int

const (
	SkillTypeCore SkillType = iota + 1
	SkillTypeSpecialty
	SkillTypeAdjacent
)

func (t SkillType) String() string {
	switch t {
	case SkillTypeCore:
		return "Core"
	case SkillTypeSpecialty:
		return "Specialty"
	case SkillTypeAdjacent:
		return "Adjacent"
	default:
		return "Unknown"
	}
}

type AssessmentType int

const (
	AssessmentSelf AssessmentType = iota + 1
	AssessmentManager
	AssessmentPeer
	AssessmentQuiz
	AssessmentCodingTest
	AssessmentCaseStudy
	AssessmentRoleBasedTest
	AssessmentSituationalJudgment
)

func (t AssessmentType) String() string {
	switch t {
	case AssessmentSelf:
		return "SelfAssessment"
	case AssessmentManager:
		return "ManagerAssessment"
	case AssessmentPeer:
		return "PeerAssessment"
	case AssessmentQuiz:
		return "Quiz"
	case AssessmentCodingTest:
		return "CodingTest"
	case AssessmentCaseStudy:
		return "CaseStudy"
	case AssessmentRoleBasedTest:
		return "RoleBasedTest"
	case AssessmentSituationalJudgment:
		return "SituationalJudgment"
	default:
		return "Unknown"
	}
}

type AssessmentStatus int

const (
	AssessmentDraft AssessmentStatus = iota + 1
	AssessmentPending
	AssessmentInProgress
	AssessmentCompleted
	AssessmentReviewed
	AssessmentDisputed
	AssessmentResolved
)

func (s AssessmentStatus) String() string {
	switch s {
	case AssessmentDraft:
		return "Draft"
	case AssessmentPending:
		return "Pending"
	case AssessmentInProgress:
		return "InProgress"
	case AssessmentCompleted:
		return "Completed"
	case AssessmentReviewed:
		return "Reviewed"
	case AssessmentDisputed:
		return "Disputed"
	case AssessmentResolved:
		return "Resolved"
	default:
		return "Unknown"
	}
}

type QuestionType int

const (
	QuestionMultipleChoice QuestionType = iota + 1
	QuestionMultipleAnswer
	QuestionTrueFalse
	QuestionShortAnswer
	QuestionLongAnswer
	QuestionCodingChallenge
	QuestionCaseStudy
	QuestionBehavioralAnchored
)

func (t QuestionType) String() string {
	switch t {
	case QuestionMultipleChoice:
		return "MultipleChoice"
	case QuestionMultipleAnswer:
		return "MultipleAnswer"
	case QuestionTrueFalse:
		return "TrueFalse"
	case QuestionShortAnswer:
		return "ShortAnswer"
	case QuestionLongAnswer:
		return "LongAnswer"
	case QuestionCodingChallenge:
		return "CodingChallenge"
	case QuestionCaseStudy:
		return "CaseStudy"
	case QuestionBehavioralAnchored:
		return "BehavioralAnchored"
	default:
		return "Unknown"
	}
}

type UserRole int

const (
	RoleEmployee UserRole = iota + 1
	RoleTeamLead
	RoleManager
	RoleAdmin
)

func (r UserRole) String() string {
	switch r {
	case RoleEmployee:
		return "Employee"
	case RoleTeamLead:
		return "TeamLead"
	case RoleManager:
		return "Manager"
	case RoleAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

type EmploymentStatus int

const (
	EmploymentActive EmploymentStatus = iota + 1
	EmploymentOnLeave
	EmploymentResigned
	EmploymentTerminated
)

func (s EmploymentStatus) String() string {
	switch s {
	case EmploymentActive:
		return "Active"
	case EmploymentOnLeave:
		return "OnLeave"
	case EmploymentResigned:
		return "Resigned"
	case EmploymentTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

type LearningResourceType int

const (
	ResourceCourse LearningResourceType = iota + 1
	ResourceBook
	ResourceVideo
	ResourceArticle
	ResourceWorkshop
	ResourceCertification
	ResourceProject
	ResourceMentorship
	ResourceSeminar
)

func (t LearningResourceType) String() string {
	switch t {
	case ResourceCourse:
		return "Course"
	case ResourceBook:
		return "Book"
	case ResourceVideo:
		return "Video"
	case ResourceArticle:
		return "Article"
	case ResourceWorkshop:
		return "Workshop"
	case ResourceCertification:
		return "Certification"
	case ResourceProject:
		return "Project"
	case ResourceMentorship:
		return "Mentorship"
	case ResourceSeminar:
		return "Seminar"
	default:
		return "Unknown"
	}
}

type LearningPathStatus int

const (
	PathSuggested LearningPathStatus = iota + 1
	PathApproved
	PathInProgress
	PathCompleted
	PathPaused
	PathCancelled
)

func (s LearningPathStatus) String() string {
	switch s {
	case PathSuggested:
		return "Suggested"
	case PathApproved:
		return "Approved"
	case PathInProgress:
		return "InProgress"
	case PathCompleted:
		return "Completed"
	case PathPaused:
		return "Paused"
	case PathCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

type LearningItemStatus int

const (
	ItemNotStarted LearningItemStatus = iota + 1
	ItemInProgress
	ItemCompleted
	ItemSkipped
)

func (s LearningItemStatus) String() string {
	switch s {
	case ItemNotStarted:
		return "NotStarted"
	case ItemInProgress:
		return "InProgress"
	case ItemCompleted:
		return "Completed"
	case ItemSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

type DifficultyLevel int

const (
	DifficultyBeginner DifficultyLevel = iota + 1
	DifficultyIntermediate
	DifficultyAdvanced
	DifficultyExpert
)

func (d DifficultyLevel) String() string {
	switch d {
	case DifficultyBeginner:
		return "Beginner"
	case DifficultyIntermediate:
		return "Intermediate"
	case DifficultyAdvanced:
		return "Advanced"
	case DifficultyExpert:
		return "Expert"
	default:
		return "Unknown"
	}
}
