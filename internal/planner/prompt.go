package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/NarumiKomaba/trainnote/internal/domain"
)

// PromptInput is the full planning context embedded into one generation prompt.
type PromptInput struct {
	DateKey          string
	Pattern          domain.TrainingPattern
	Equipment        []domain.Equipment
	Preference       domain.Preference
	GoalText         string
	AvailableTimeMin int
	RecentLogs       []domain.WorkoutLog
}

type promptPattern struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type promptEquipment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Unit string `json:"unit"`
	Note string `json:"note"`
}

// BuildPrompt renders the planning instruction for the generation service.
// The output is deterministic for identical inputs: no timestamps, no
// randomness, stable JSON field order.
func BuildPrompt(in PromptInput) string {
	pattern := promptPattern{
		ID:          in.Pattern.ID,
		Name:        in.Pattern.Name,
		Type:        string(in.Pattern.Type),
		Description: in.Pattern.Description,
		Tags:        in.Pattern.Tags,
	}
	if pattern.Tags == nil {
		pattern.Tags = []string{}
	}

	equipment := make([]promptEquipment, 0, len(in.Equipment))
	for _, e := range in.Equipment {
		equipment = append(equipment, promptEquipment{
			ID:   e.ID,
			Name: e.Name,
			Unit: string(e.Unit),
			Note: e.Note,
		})
	}

	logs := in.RecentLogs
	if logs == nil {
		logs = []domain.WorkoutLog{}
	}

	var b strings.Builder
	b.WriteString("You are a personal training planner.\n")
	b.WriteString("Return ONLY JSON that matches the schema exactly.\n\n")

	fmt.Fprintf(&b, "# Today\ndateKey: %q\n\n", in.DateKey)
	fmt.Fprintf(&b, "# Pattern\npattern = %s\n\n", mustIndentJSON(pattern))
	fmt.Fprintf(&b, "# Allowed equipment list (use only these if possible)\nequipment = %s\n\n", mustIndentJSON(equipment))
	fmt.Fprintf(&b, "# User preference\npreference: %q  // easy|normal|hard\n\n", string(in.Preference))
	fmt.Fprintf(&b, "# Goal (free text)\ngoalText: %s\n\n", mustJSON(in.GoalText))
	if in.AvailableTimeMin > 0 {
		fmt.Fprintf(&b, "# Available time\navailableTimeMin: %d\n\n", in.AvailableTimeMin)
	}
	fmt.Fprintf(&b, "# Recent workout logs (latest first)\nrecentLogs: %s\n\n", mustIndentJSON(logs))

	b.WriteString(`# Requirements
- Propose a practical plan for TODAY based on pattern and recent logs.
- Keep it short (5-8 items max).
- For stretch/recovery patterns, use durationMin instead of weight.
- Use equipment names from the provided equipment list whenever possible.
- If an exercise is not in the equipment list, replace it with the closest equipment-based exercise.
- Use equipmentId when it clearly matches an equipment item; otherwise set null.
- Provide a brief reason per item.
- Avoid unsafe advice. If user seems overtrained (many skips / high difficulty), lower intensity.
`)

	fmt.Fprintf(&b, "\n# Output JSON Schema\n%s", outputSchema(in.Pattern.ID))
	return strings.TrimSpace(b.String())
}

// strictSuffix is appended on the single regeneration pass triggered by the
// quality gate.
const strictSuffix = `
# Strict output requirements
- MUST return 5-8 items.
- For training items, reps and sets must be numbers (not null).
- For cardio/stretch items, durationMin must be a number (not null).
- Avoid returning a single-item plan.`

// BuildStrictPrompt appends the strict constraints to an existing prompt.
func BuildStrictPrompt(prompt string) string {
	return strings.TrimSpace(prompt + "\n" + strictSuffix)
}

// BuildRepairPrompt asks the generation service to fix broken output, carrying
// only the target schema and the offending text.
func BuildRepairPrompt(patternID, raw string) string {
	var b strings.Builder
	b.WriteString("You are a JSON repair tool.\n")
	b.WriteString("Return ONLY valid JSON that matches the provided schema.\n\n")
	fmt.Fprintf(&b, "# Schema\n%s\n\n", outputSchema(patternID))
	fmt.Fprintf(&b, "# Input (fix to valid JSON only)\n%s", raw)
	return strings.TrimSpace(b.String())
}

func outputSchema(patternID string) string {
	return fmt.Sprintf(`{
  "dateKey": "YYYY-MM-DD",
  "patternId": %q,
  "theme": "string",
  "items": [
    {
      "name": "string",
      "equipmentId": "string|null",
      "weight": "number|null",
      "reps": "number|null",
      "sets": "number|null",
      "durationMin": "number|null",
      "note": "string|null",
      "reason": "string|null"
    }
  ]
}`, patternID)
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}

func mustIndentJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(data)
}
