package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/logger"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
	"github.com/skillmatrixhq/skillmatrix-backend/internal/utils"
)

// GeneratedQuestion is one advisor-produced test question before it is
// persisted.
type GeneratedQuestion struct {
	Type           types.QuestionType `json:"type"`
	Text           string             `json:"text"`
	Options        []string           `json:"options,omitempty"`
	ExpectedAnswer string             `json:"expectedAnswer,omitempty"`
	Points         float64            `json:"points"`
}

// GradedAnswer is the advisor's verdict for one free-text answer.
type GradedAnswer struct {
	PointsAwarded float64 `json:"pointsAwarded"`
	Feedback      string  `json:"feedback"`
}

// GapInsight is the advisor's commentary for one skill gap.
type GapInsight struct {
	Analysis       string `json:"analysis"`
	Recommendation string `json:"recommendation"`
}

// AIAdvisor produces assessment questions, grades free-text answers and
// annotates skill gaps. The default implementation is deterministic and
// template based; an external model can be plugged in through configuration
// without touching any caller.
type AIAdvisor interface {
	GenerateQuestions(ctx context.Context, skillName string, level types.ProficiencyLevel, count int) ([]GeneratedQuestion, error)
	GradeAnswer(ctx context.Context, questionText, expectedAnswer, answer string, maxPoints float64) (GradedAnswer, error)
	AnalyzeGap(ctx context.Context, skillName string, gap *types.SkillGap) (GapInsight, error)
}

type templateAdvisor struct {
	log *logger.Logger
}

// NewTemplateAdvisor returns the deterministic advisor used when no external
// model endpoint is configured.
func NewTemplateAdvisor(log *logger.Logger) AIAdvisor {
	return &templateAdvisor{log: log.With("service", "TemplateAdvisor")}
}

func (ta *templateAdvisor) GenerateQuestions(ctx context.Context, skillName string, level types.ProficiencyLevel, count int) ([]GeneratedQuestion, error) {
	if count <= 0 {
		count = 5
	}
	questions := make([]GeneratedQuestion, 0, count)
	stems := []string{
		"Describe a situation where you applied %s at the %s level.",
		"What are the most common mistakes practitioners make with %s, and how do you avoid them at the %s level?",
		"Explain the core concepts of %s someone operating at the %s level must master.",
		"How would you coach a colleague one level below you in %s? Target level: %s.",
		"Walk through how you would evaluate the quality of %s work delivered at the %s level.",
	}
	for i := 0; i < count; i++ {
		stem := stems[i%len(stems)]
		questions = append(questions, GeneratedQuestion{
			Type:   types.QuestionLongAnswer,
			Text:   fmt.Sprintf(stem, skillName, level.String()),
			Points: 10,
		})
	}
	return questions, nil
}

func (ta *templateAdvisor) GradeAnswer(ctx context.Context, questionText, expectedAnswer, answer string, maxPoints float64) (GradedAnswer, error) {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return GradedAnswer{PointsAwarded: 0, Feedback: "No answer provided."}, nil
	}
	if expectedAnswer != "" && strings.EqualFold(strings.TrimSpace(expectedAnswer), trimmed) {
		return GradedAnswer{PointsAwarded: maxPoints, Feedback: "Answer matches the expected response."}, nil
	}
	// Length-banded heuristic grading. Longer substantive answers score
	// higher; the ceiling without an exact match is 80% of the points.
	words := len(strings.Fields(trimmed))
	var ratio float64
	switch {
	case words >= 100:
		ratio = 0.8
	case words >= 50:
		ratio = 0.6
	case words >= 20:
		ratio = 0.4
	default:
		ratio = 0.2
	}
	return GradedAnswer{
		PointsAwarded: maxPoints * ratio,
		Feedback:      fmt.Sprintf("Answer recorded (%d words). A reviewer can adjust the provisional score.", words),
	}, nil
}

func (ta *templateAdvisor) AnalyzeGap(ctx context.Context, skillName string, gap *types.SkillGap) (GapInsight, error) {
	var analysis string
	switch {
	case gap.GapSize >= 3:
		analysis = fmt.Sprintf("Critical gap in %s: current level %s is %d levels below the required %s. Sustained, structured development is needed.",
			skillName, gap.CurrentLevel.String(), gap.GapSize, gap.RequiredLevel.String())
	case gap.GapSize == 2:
		analysis = fmt.Sprintf("Significant gap in %s: two levels below the required %s. Targeted training plus applied practice should close it within two quarters.",
			skillName, gap.RequiredLevel.String())
	case gap.GapSize == 1:
		analysis = fmt.Sprintf("Minor gap in %s: one level below the required %s. On-the-job exposure with light mentoring is usually enough.",
			skillName, gap.RequiredLevel.String())
	default:
		analysis = fmt.Sprintf("%s meets the required level %s.", skillName, gap.RequiredLevel.String())
	}

	var recommendation string
	switch {
	case gap.GapSize >= 3:
		recommendation = fmt.Sprintf("Enroll in a foundational %s course, assign a mentor, and schedule a reassessment in 90 days.", skillName)
	case gap.GapSize == 2:
		recommendation = fmt.Sprintf("Complete an intermediate %s course and take ownership of a stretch task applying it.", skillName)
	case gap.GapSize == 1:
		recommendation = fmt.Sprintf("Pair with a stronger practitioner on %s work and self-assess again next cycle.", skillName)
	default:
		recommendation = "No action required."
	}
	return GapInsight{Analysis: analysis, Recommendation: recommendation}, nil
}

type httpAdvisor struct {
	log      *logger.Logger
	client   *http.Client
	baseURL  string
	apiKey   string
	fallback AIAdvisor
}

// NewAIAdvisorFromEnv wires the HTTP advisor when AI_ADVISOR_URL is set and
// falls back to the template advisor otherwise. HTTP failures degrade to the
// template output so assessment and gap flows never block on the model.
func NewAIAdvisorFromEnv(log *logger.Logger) AIAdvisor {
	baseURL := utils.GetEnv("AI_ADVISOR_URL", "", log)
	tmpl := NewTemplateAdvisor(log)
	if strings.TrimSpace(baseURL) == "" {
		return tmpl
	}
	timeout := utils.GetEnvAsInt("AI_ADVISOR_TIMEOUT_SECONDS", 30, log)
	return &httpAdvisor{
		log:      log.With("service", "HTTPAdvisor"),
		client:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   utils.GetEnv("AI_ADVISOR_API_KEY", "", log),
		fallback: tmpl,
	}
}

func (ha *httpAdvisor) post(ctx context.Context, path string, payload, dest any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ha.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if ha.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+ha.apiKey)
	}
	resp, err := ha.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("advisor returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func (ha *httpAdvisor) GenerateQuestions(ctx context.Context, skillName string, level types.ProficiencyLevel, count int) ([]GeneratedQuestion, error) {
	var out []GeneratedQuestion
	err := ha.post(ctx, "/v1/questions", map[string]any{
		"skill": skillName,
		"level": level.String(),
		"count": count,
	}, &out)
	if err != nil {
		ha.log.Warn("question generation failed, using template advisor", "error", err)
		return ha.fallback.GenerateQuestions(ctx, skillName, level, count)
	}
	return out, nil
}

func (ha *httpAdvisor) GradeAnswer(ctx context.Context, questionText, expectedAnswer, answer string, maxPoints float64) (GradedAnswer, error) {
	var out GradedAnswer
	err := ha.post(ctx, "/v1/grade", map[string]any{
		"question":       questionText,
		"expectedAnswer": expectedAnswer,
		"answer":         answer,
		"maxPoints":      maxPoints,
	}, &out)
	if err != nil {
		ha.log.Warn("grading failed, using template advisor", "error", err)
		return ha.fallback.GradeAnswer(ctx, questionText, expectedAnswer, answer, maxPoints)
	}
	if out.PointsAwarded < 0 {
		out.PointsAwarded = 0
	}
	if out.PointsAwarded > maxPoints {
		out.PointsAwarded = maxPoints
	}
	return out, nil
}

func (ha *httpAdvisor) AnalyzeGap(ctx context.Context, skillName string, gap *types.SkillGap) (GapInsight, error) {
	var out GapInsight
	err := ha.post(ctx, "/v1/analyze-gap", map[string]any{
		"skill":         skillName,
		"currentLevel":  gap.CurrentLevel.String(),
		"requiredLevel": gap.RequiredLevel.String(),
		"gapSize":       gap.GapSize,
		"priority":      gap.Priority.String(),
	}, &out)
	if err != nil {
		ha.log.Warn("gap analysis failed, using template advisor", "error", err)
		return ha.fallback.AnalyzeGap(ctx, skillName, gap)
	}
	return out, nil
}
