package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/apierr"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/repos"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

// AnswerInput is one submitted answer keyed to its question.
type AnswerInput struct {
	QuestionID uuid.UUID `json:"questionId" binding:"required"`
	Answer     string    `json:"answer"`
}

type AssessmentService interface {
	CreateTemplate(ctx context.Context, tmpl *types.TestTemplate, questions []*types.Question, by *uuid.UUID) (*types.TestTemplate, error)
	GenerateTemplate(ctx context.Context, skillID uuid.UUID, level types.ProficiencyLevel, count int, by *uuid.UUID) (*types.TestTemplate, error)
	GetTemplate(ctx context.Context, templateID uuid.UUID) (*types.TestTemplate, error)
	ListTemplates(ctx context.Context, req paging.Request, skillID *uuid.UUID) (*paging.Result[*types.TestTemplate], error)
	UpdateTemplate(ctx context.Context, tmpl *types.TestTemplate, questions []*types.Question, by *uuid.UUID) (*types.TestTemplate, error)
	DeleteTemplate(ctx context.Context, templateID uuid.UUID, by *uuid.UUID) error

	Start(ctx context.Context, employeeID, templateID uuid.UUID) (*types.Assessment, error)
	Submit(ctx context.Context, assessmentID uuid.UUID, answers []AnswerInput, by *uuid.UUID) (*types.Assessment, error)
	RecordManagerAssessment(ctx context.Context, employeeID, skillID uuid.UUID, level types.ProficiencyLevel, by uuid.UUID) (*types.EmployeeSkill, error)
	GetByID(ctx context.Context, assessmentID uuid.UUID) (*types.Assessment, error)
	ListByEmployee(ctx context.Context, employeeID uuid.UUID, req paging.Request) (*paging.Result[*types.Assessment], error)
}

type assessmentService struct {
	db           *gorm.DB
	log          *logger.Logger
	templateRepo repos.TestTemplateRepo
	assessRepo   repos.AssessmentRepo
	empSkillRepo repos.EmployeeSkillRepo
	skillRepo    repos.SkillRepo
	advisor      AIAdvisor
	gapService   GapAnalysisService
}

func NewAssessmentService(
	db *gorm.DB,
	log *logger.Logger,
	templateRepo repos.TestTemplateRepo,
	assessRepo repos.AssessmentRepo,
	empSkillRepo repos.EmployeeSkillRepo,
	skillRepo repos.SkillRepo,
	advisor AIAdvisor,
	gapService GapAnalysisService,
) AssessmentService {
	serviceLog := log.With("service", "AssessmentService")
	return &assessmentService{
		db:           db,
		log:          serviceLog,
		templateRepo: templateRepo,
		assessRepo:   assessRepo,
		empSkillRepo: empSkillRepo,
		skillRepo:    skillRepo,
		advisor:      advisor,
		gapService:   gapService,
	}
}

func (as *assessmentService) CreateTemplate(ctx context.Context, tmpl *types.TestTemplate, questions []*types.Question, by *uuid.UUID) (*types.TestTemplate, error) {
	if strings.TrimSpace(tmpl.Title) == "" {
		return nil, apierr.Validation("template title is required")
	}
	if tmpl.PassingScore < 0 || tmpl.PassingScore > 100 {
		return nil, apierr.Validation("passing score must be between 0 and 100")
	}
	tmpl.CreatedBy = by

	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := as.templateRepo.Create(ctx, tx, tmpl); err != nil {
			return err
		}
		return as.templateRepo.ReplaceQuestions(ctx, tx, tmpl.ID, questions, by)
	})
	if err != nil {
		return nil, err
	}
	return as.templateRepo.GetWithQuestions(ctx, nil, tmpl.ID)
}

// GenerateTemplate builds a template whose questions come from the advisor.
func (as *assessmentService) GenerateTemplate(ctx context.Context, skillID uuid.UUID, level types.ProficiencyLevel, count int, by *uuid.UUID) (*types.TestTemplate, error) {
	if !level.Valid() {
		return nil, apierr.Validation("invalid proficiency level")
	}
	skill, err := as.skillRepo.GetByID(ctx, nil, skillID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("skill")
		}
		return nil, err
	}

	generated, err := as.advisor.GenerateQuestions(ctx, skill.Name, level, count)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	questions := make([]*types.Question, 0, len(generated))
	for _, g := range generated {
		q := &types.Question{
			Type:           g.Type,
			Text:           g.Text,
			ExpectedAnswer: g.ExpectedAnswer,
			Points:         g.Points,
			TargetLevel:    level,
		}
		if len(g.Options) > 0 {
			raw, mErr := json.Marshal(g.Options)
			if mErr != nil {
				return nil, fmt.Errorf("marshal options: %w", mErr)
			}
			q.Options = datatypes.JSON(raw)
		}
		questions = append(questions, q)
	}

	tmpl := &types.TestTemplate{
		Title:        fmt.Sprintf("%s assessment (%s)", skill.Name, level.String()),
		Description:  fmt.Sprintf("Generated assessment for %s at level %s.", skill.Name, level.String()),
		SkillID:      &skill.ID,
		Type:         types.AssessmentRoleBasedTest,
		TargetLevel:  level,
		PassingScore: 70,
		IsActive:     true,
	}
	return as.CreateTemplate(ctx, tmpl, questions, by)
}

func (as *assessmentService) GetTemplate(ctx context.Context, templateID uuid.UUID) (*types.TestTemplate, error) {
	tmpl, err := as.templateRepo.GetWithQuestions(ctx, nil, templateID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("test template")
		}
		return nil, err
	}
	return tmpl, nil
}

func (as *assessmentService) ListTemplates(ctx context.Context, req paging.Request, skillID *uuid.UUID) (*paging.Result[*types.TestTemplate], error) {
	req.Normalize()
	items, total, err := as.templateRepo.List(ctx, nil, req, skillID)
	if err != nil {
		return nil, err
	}
	return paging.NewResult(items, total, req), nil
}

// UpdateTemplate bumps the version when a template already has completed
// assessments so those keep pointing at the snapshot they were taken against.
func (as *assessmentService) UpdateTemplate(ctx context.Context, tmpl *types.TestTemplate, questions []*types.Question, by *uuid.UUID) (*types.TestTemplate, error) {
	existing, err := as.templateRepo.GetByID(ctx, nil, tmpl.ID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("test template")
		}
		return nil, err
	}

	taken, err := as.templateRepo.HasAssessments(ctx, nil, tmpl.ID)
	if err != nil {
		return nil, err
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if taken {
			now := time.Now().UTC()
			existing.IsCurrent = false
			existing.EffectiveTo = &now
			if _, err := as.templateRepo.Update(ctx, tx, existing); err != nil {
				return err
			}
			tmpl.ID = uuid.Nil
			tmpl.Version = existing.Version + 1
			tmpl.EffectiveFrom = now
			tmpl.IsCurrent = true
			tmpl.CreatedBy = by
			if _, err := as.templateRepo.Create(ctx, tx, tmpl); err != nil {
				return err
			}
		} else {
			tmpl.Version = existing.Version
			tmpl.UpdatedBy = by
			if _, err := as.templateRepo.Update(ctx, tx, tmpl); err != nil {
				return err
			}
		}
		if questions != nil {
			return as.templateRepo.ReplaceQuestions(ctx, tx, tmpl.ID, questions, by)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return as.templateRepo.GetWithQuestions(ctx, nil, tmpl.ID)
}

func (as *assessmentService) DeleteTemplate(ctx context.Context, templateID uuid.UUID, by *uuid.UUID) error {
	if err := as.templateRepo.SoftDelete(ctx, nil, templateID, by); err != nil {
		if apierr.IsNotFound(err) {
			return apierr.NotFound("test template")
		}
		return err
	}
	return nil
}

func (as *assessmentService) Start(ctx context.Context, employeeID, templateID uuid.UUID) (*types.Assessment, error) {
	tmpl, err := as.templateRepo.GetWithQuestions(ctx, nil, templateID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("test template")
		}
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, apierr.Validation("test template is not active")
	}
	if len(tmpl.Questions) == 0 {
		return nil, apierr.Validation("test template has no questions")
	}

	now := time.Now().UTC()
	assessment := &types.Assessment{
		EmployeeID:     employeeID,
		TestTemplateID: &tmpl.ID,
		SkillID:        tmpl.SkillID,
		Title:          tmpl.Title,
		Type:           tmpl.Type,
		Status:         types.AssessmentInProgress,
		StartedAt:      &now,
	}
	assessment.CreatedBy = &employeeID
	if _, err := as.assessRepo.Create(ctx, nil, assessment); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	return assessment, nil
}

// Submit grades all answers, completes the assessment, maps the percentage
// score to a validated level, moves the employee's skill record and appends a
// history row, then recalculates the employee's gaps.
func (as *assessmentService) Submit(ctx context.Context, assessmentID uuid.UUID, answers []AnswerInput, by *uuid.UUID) (*types.Assessment, error) {
	assessment, err := as.assessRepo.GetByID(ctx, nil, assessmentID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("assessment")
		}
		return nil, err
	}
	if assessment.Status != types.AssessmentInProgress {
		return nil, apierr.Validation("assessment is not in progress")
	}
	if assessment.TestTemplateID == nil {
		return nil, apierr.Validation("assessment has no template")
	}

	tmpl, err := as.templateRepo.GetWithQuestions(ctx, nil, *assessment.TestTemplateID)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}

	answerByQuestion := make(map[uuid.UUID]string, len(answers))
	for _, a := range answers {
		answerByQuestion[a.QuestionID] = a.Answer
	}

	var score, maxScore float64
	responses := make([]*types.AssessmentResponse, 0, len(tmpl.Questions))
	for _, q := range tmpl.Questions {
		maxScore += q.Points
		answer := answerByQuestion[q.ID]
		resp := &types.AssessmentResponse{
			AssessmentID: assessmentID,
			QuestionID:   q.ID,
			Answer:       answer,
		}
		resp.CreatedBy = by

		switch q.Type {
		case types.QuestionMultipleChoice, types.QuestionMultipleAnswer, types.QuestionTrueFalse, types.QuestionShortAnswer:
			correct := q.ExpectedAnswer != "" &&
				strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.ExpectedAnswer))
			resp.IsCorrect = &correct
			if correct {
				resp.PointsAwarded = q.Points
			}
		default:
			graded, gErr := as.advisor.GradeAnswer(ctx, q.Text, q.ExpectedAnswer, answer, q.Points)
			if gErr != nil {
				return nil, fmt.Errorf("grade answer: %w", gErr)
			}
			resp.PointsAwarded = graded.PointsAwarded
			resp.AiFeedback = graded.Feedback
		}
		score += resp.PointsAwarded
		responses = append(responses, resp)
	}

	var percentage float64
	if maxScore > 0 {
		percentage = score / maxScore * 100
	}
	resulting := resultingLevel(percentage, tmpl.TargetLevel, tmpl.PassingScore)

	now := time.Now().UTC()
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.assessRepo.CreateResponses(ctx, tx, responses); err != nil {
			return fmt.Errorf("store responses: %w", err)
		}
		assessment.Status = types.AssessmentCompleted
		assessment.Score = &score
		assessment.MaxScore = &maxScore
		assessment.ResultingLevel = &resulting
		assessment.CompletedAt = &now
		assessment.UpdatedBy = by
		if _, err := as.assessRepo.Update(ctx, tx, assessment); err != nil {
			return fmt.Errorf("complete assessment: %w", err)
		}
		if assessment.SkillID == nil {
			return nil
		}
		return as.applyValidatedLevel(ctx, tx, assessment, resulting, now)
	})
	if err != nil {
		return nil, err
	}

	// Recalculation is best-effort here; the next scheduled run will catch
	// up if it fails.
	if _, rErr := as.gapService.RecalculateGaps(ctx, assessment.EmployeeID, nil); rErr != nil {
		as.log.Warn("post-assessment gap recalculation failed",
			"employee_id", assessment.EmployeeID, "error", rErr)
	}

	as.log.Info("assessment completed",
		"assessment_id", assessmentID, "score", score, "max_score", maxScore,
		"resulting_level", resulting.String())
	return as.assessRepo.GetWithResponses(ctx, nil, assessmentID)
}

// resultingLevel maps a percentage score to a validated proficiency level.
// Failing the passing score caps the result one level under the target.
func resultingLevel(percentage float64, target types.ProficiencyLevel, passingScore float64) types.ProficiencyLevel {
	if percentage < passingScore {
		if target > types.LevelNone {
			if percentage >= passingScore/2 {
				return target - 1
			}
			return types.LevelNone
		}
		return types.LevelNone
	}
	if percentage >= 90 && target < types.LevelSetStrategy {
		return target + 1
	}
	return target
}

func (as *assessmentService) applyValidatedLevel(ctx context.Context, tx *gorm.DB, assessment *types.Assessment, level types.ProficiencyLevel, now time.Time) error {
	skillID := *assessment.SkillID
	current, err := as.empSkillRepo.GetByEmployeeAndSkill(ctx, tx, assessment.EmployeeID, skillID)
	if err != nil && !apierr.IsNotFound(err) {
		return fmt.Errorf("load employee skill: %w", err)
	}

	fromLevel := types.LevelNone
	record := &types.EmployeeSkill{
		EmployeeID: assessment.EmployeeID,
		SkillID:    skillID,
	}
	if current != nil {
		fromLevel = current.CurrentLevel
		record = current
	}

	record.TestValidatedLevel = &level
	record.LastAssessedAt = &now
	record.LastAssessmentID = &assessment.ID
	record.IsValidated = true
	// Test results only raise the current level, never lower it; a bad day
	// does not erase demonstrated ability.
	if level > record.CurrentLevel {
		record.CurrentLevel = level
	}
	if _, err := as.empSkillRepo.Upsert(ctx, tx, record); err != nil {
		return fmt.Errorf("upsert employee skill: %w", err)
	}

	if record.CurrentLevel != fromLevel {
		entry := &types.EmployeeSkillHistory{
			EmployeeID:   assessment.EmployeeID,
			SkillID:      skillID,
			FromLevel:    fromLevel,
			ToLevel:      record.CurrentLevel,
			ChangeReason: fmt.Sprintf("Validated by %s assessment", assessment.Type.String()),
			AssessmentID: &assessment.ID,
			ChangedAt:    now,
		}
		if err := as.empSkillRepo.AppendHistory(ctx, tx, entry); err != nil {
			return fmt.Errorf("append skill history: %w", err)
		}
	}
	return nil
}

// RecordManagerAssessment writes a manager's level judgment directly, without
// a test. It moves CurrentLevel the same way a validated test does.
func (as *assessmentService) RecordManagerAssessment(ctx context.Context, employeeID, skillID uuid.UUID, level types.ProficiencyLevel, by uuid.UUID) (*types.EmployeeSkill, error) {
	if !level.Valid() {
		return nil, apierr.Validation("invalid proficiency level")
	}

	now := time.Now().UTC()
	var record *types.EmployeeSkill
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := as.empSkillRepo.GetByEmployeeAndSkill(ctx, tx, employeeID, skillID)
		if err != nil && !apierr.IsNotFound(err) {
			return err
		}
		fromLevel := types.LevelNone
		record = &types.EmployeeSkill{EmployeeID: employeeID, SkillID: skillID}
		if current != nil {
			fromLevel = current.CurrentLevel
			record = current
		}
		record.ManagerAssessedLevel = &level
		record.LastAssessedAt = &now
		record.UpdatedBy = &by
		if level > record.CurrentLevel {
			record.CurrentLevel = level
		}
		if _, err := as.empSkillRepo.Upsert(ctx, tx, record); err != nil {
			return err
		}
		if record.CurrentLevel != fromLevel {
			return as.empSkillRepo.AppendHistory(ctx, tx, &types.EmployeeSkillHistory{
				EmployeeID:   employeeID,
				SkillID:      skillID,
				FromLevel:    fromLevel,
				ToLevel:      record.CurrentLevel,
				ChangeReason: "Manager assessment",
				ChangedAt:    now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, rErr := as.gapService.RecalculateGaps(ctx, employeeID, nil); rErr != nil {
		as.log.Warn("post-assessment gap recalculation failed", "employee_id", employeeID, "error", rErr)
	}
	return record, nil
}

func (as *assessmentService) GetByID(ctx context.Context, assessmentID uuid.UUID) (*types.Assessment, error) {
	assessment, err := as.assessRepo.GetWithResponses(ctx, nil, assessmentID)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, apierr.NotFound("assessment")
		}
		return nil, err
	}
	return assessment, nil
}

func (as *assessmentService) ListByEmployee(ctx context.Context, employeeID uuid.UUID, req paging.Request) (*paging.Result[*types.Assessment], error) {
	req.Normalize()
	items, total, err := as.assessRepo.ListByEmployee(ctx, nil, employeeID, req)
	if err != nil {
		return nil, err
	}
	return paging.NewResult(items, total, req), nil
}
