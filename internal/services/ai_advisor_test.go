package services

import (
	"context"
	"strings"
	"testing"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

func TestTemplateAdvisorGeneratesRequestedQuestionCount(t *testing.T) {
	advisor := NewTemplateAdvisor(mustTestLogger(t))

	questions, err := advisor.GenerateQuestions(context.Background(), "Go Programming", types.LevelApply, 7)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(questions) != 7 {
		t.Fatalf("questions: want=7 got=%d", len(questions))
	}
	for i, q := range questions {
		if !strings.Contains(q.Text, "Go Programming") {
			t.Fatalf("question %d should mention the skill: %q", i, q.Text)
		}
		if q.Points <= 0 {
			t.Fatalf("question %d should carry points", i)
		}
	}

	fallback, err := advisor.GenerateQuestions(context.Background(), "SQL", types.LevelAssist, 0)
	if err != nil {
		t.Fatalf("GenerateQuestions with zero count: %v", err)
	}
	if len(fallback) != 5 {
		t.Fatalf("default question count: want=5 got=%d", len(fallback))
	}
}

func TestTemplateAdvisorGradingBands(t *testing.T) {
	advisor := NewTemplateAdvisor(mustTestLogger(t))
	ctx := context.Background()

	empty, err := advisor.GradeAnswer(ctx, "q", "", "   ", 10)
	if err != nil {
		t.Fatalf("GradeAnswer empty: %v", err)
	}
	if empty.PointsAwarded != 0 {
		t.Fatalf("empty answer: want=0 got=%v", empty.PointsAwarded)
	}

	exact, err := advisor.GradeAnswer(ctx, "q", "Paris", "  paris ", 10)
	if err != nil {
		t.Fatalf("GradeAnswer exact: %v", err)
	}
	if exact.PointsAwarded != 10 {
		t.Fatalf("exact match: want=10 got=%v", exact.PointsAwarded)
	}

	short, err := advisor.GradeAnswer(ctx, "q", "", "a short answer", 10)
	if err != nil {
		t.Fatalf("GradeAnswer short: %v", err)
	}
	if short.PointsAwarded != 2 {
		t.Fatalf("short answer band: want=2 got=%v", short.PointsAwarded)
	}

	long, err := advisor.GradeAnswer(ctx, "q", "", strings.Repeat("word ", 120), 10)
	if err != nil {
		t.Fatalf("GradeAnswer long: %v", err)
	}
	if long.PointsAwarded != 8 {
		t.Fatalf("long answer ceiling without match: want=8 got=%v", long.PointsAwarded)
	}
}

func TestTemplateAdvisorGapInsightTracksSeverity(t *testing.T) {
	advisor := NewTemplateAdvisor(mustTestLogger(t))
	ctx := context.Background()

	critical := &types.SkillGap{GapSize: 4, CurrentLevel: types.LevelFollow, RequiredLevel: types.LevelEnsureAdvise}
	insight, err := advisor.AnalyzeGap(ctx, "Go Programming", critical)
	if err != nil {
		t.Fatalf("AnalyzeGap: %v", err)
	}
	if !strings.Contains(insight.Analysis, "Critical gap") {
		t.Fatalf("4-level gap analysis should be critical: %q", insight.Analysis)
	}
	if insight.Recommendation == "" {
		t.Fatalf("recommendation should not be empty")
	}

	minor := &types.SkillGap{GapSize: 1, CurrentLevel: types.LevelAssist, RequiredLevel: types.LevelApply}
	insight, err = advisor.AnalyzeGap(ctx, "Go Programming", minor)
	if err != nil {
		t.Fatalf("AnalyzeGap minor: %v", err)
	}
	if !strings.Contains(insight.Analysis, "Minor gap") {
		t.Fatalf("1-level gap analysis should be minor: %q", insight.Analysis)
	}
}
