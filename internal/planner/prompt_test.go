package planner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NarumiKomaba/trainnote/internal/domain"
)

func samplePromptInput() PromptInput {
	return PromptInput{
		DateKey: "2026-01-10",
		Pattern: domain.TrainingPattern{
			ID:          "p1",
			Name:        "ジム脚の日",
			Type:        domain.PatternTraining,
			Description: "quads and hamstrings",
			Tags:        []string{"legs"},
		},
		Equipment: []domain.Equipment{
			{ID: "eq-1", Name: "レッグプレス", Unit: domain.UnitKg, Note: "5kg刻み"},
		},
		Preference: domain.PreferenceNormal,
		GoalText:   "bigger squat",
		RecentLogs: []domain.WorkoutLog{{DateKey: "2026-01-08", PatternID: "p1"}},
	}
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	in := samplePromptInput()
	require.Equal(t, BuildPrompt(in), BuildPrompt(in))
}

func TestBuildPromptEmbedsContextSections(t *testing.T) {
	prompt := BuildPrompt(samplePromptInput())

	require.Contains(t, prompt, `dateKey: "2026-01-10"`)
	require.Contains(t, prompt, "# Pattern")
	require.Contains(t, prompt, `"name": "ジム脚の日"`)
	require.Contains(t, prompt, "# Allowed equipment list")
	require.Contains(t, prompt, `"name": "レッグプレス"`)
	require.Contains(t, prompt, `preference: "normal"`)
	require.Contains(t, prompt, `goalText: "bigger squat"`)
	require.Contains(t, prompt, "# Recent workout logs (latest first)")
	require.Contains(t, prompt, "# Output JSON Schema")
	require.Contains(t, prompt, `"patternId": "p1"`)
	require.NotContains(t, prompt, "availableTimeMin")
}

func TestBuildPromptIncludesAvailableTime(t *testing.T) {
	in := samplePromptInput()
	in.AvailableTimeMin = 45

	prompt := BuildPrompt(in)
	require.Contains(t, prompt, "availableTimeMin: 45")
}

func TestBuildStrictPromptAppendsConstraints(t *testing.T) {
	base := BuildPrompt(samplePromptInput())
	strict := BuildStrictPrompt(base)

	require.True(t, strings.HasPrefix(strict, base))
	require.Contains(t, strict, "# Strict output requirements")
	require.Contains(t, strict, "MUST return 5-8 items")
}

func TestBuildRepairPromptCarriesSchemaAndInput(t *testing.T) {
	prompt := BuildRepairPrompt("p1", "{broken")

	require.Contains(t, prompt, "JSON repair tool")
	require.Contains(t, prompt, `"patternId": "p1"`)
	require.Contains(t, prompt, "{broken")
	// The repair prompt carries only schema and input, not planning context.
	require.NotContains(t, prompt, "# Requirements")
}
