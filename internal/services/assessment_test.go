package services

import (
	"testing"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/types"
)

func TestResultingLevel(t *testing.T) {
	cases := []struct {
		name       string
		percentage float64
		target     types.ProficiencyLevel
		passing    float64
		want       types.ProficiencyLevel
	}{
		{"pass at target", 75, types.LevelApply, 70, types.LevelApply},
		{"pass exactly at threshold", 70, types.LevelApply, 70, types.LevelApply},
		{"excellent raises one level", 92, types.LevelApply, 70, types.LevelEnable},
		{"excellent capped at ladder top", 95, types.LevelSetStrategy, 70, types.LevelSetStrategy},
		{"near miss drops one level", 40, types.LevelApply, 70, types.LevelAssist},
		{"deep miss yields none", 20, types.LevelApply, 70, types.LevelNone},
		{"near miss at level one yields none", 40, types.LevelFollow, 70, types.LevelNone},
		{"fail against level none stays none", 10, types.LevelNone, 70, types.LevelNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resultingLevel(tc.percentage, tc.target, tc.passing)
			if got != tc.want {
				t.Fatalf("resultingLevel(%v, %v, %v): want=%v got=%v",
					tc.percentage, tc.target, tc.passing, tc.want, got)
			}
		})
	}
}
