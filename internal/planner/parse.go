package planner

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/NarumiKomaba/trainnote/internal/observability"
)

// ParsedPlan is the loosely validated plan object extracted from generated
// text. Items stays raw until the quality gate decodes it, because the model
// may return anything there.
type ParsedPlan struct {
	DateKey   string          `json:"dateKey"`
	PatternID string          `json:"patternId"`
	Theme     string          `json:"theme"`
	Items     json.RawMessage `json:"items"`
}

var (
	fencedJSONPattern    = regexp.MustCompile("(?i)```json\\s*([\\s\\S]*?)```")
	fencedBlockPattern   = regexp.MustCompile("```([\\s\\S]*?)```")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

	errNoJSONObject = errors.New("no JSON object found in text")
)

// CleanJSONText strips markdown code fences and trailing commas, the two most
// common formatting defects in generated JSON.
func CleanJSONText(input string) string {
	cleaned := strings.TrimSpace(input)
	cleaned = fencedJSONPattern.ReplaceAllString(cleaned, "$1")
	cleaned = fencedBlockPattern.ReplaceAllString(cleaned, "$1")
	cleaned = trailingCommaPattern.ReplaceAllString(cleaned, "$1")
	return strings.TrimSpace(cleaned)
}

// parseDirect cleans the text and attempts a straight unmarshal.
func parseDirect(raw string) (*ParsedPlan, error) {
	var plan ParsedPlan
	if err := json.Unmarshal([]byte(CleanJSONText(raw)), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// parseExtracted retries the parse on the substring spanning the first '{' to
// the last '}', discarding surrounding prose.
func parseExtracted(raw string) (*ParsedPlan, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, errNoJSONObject
	}
	return parseDirect(raw[start : end+1])
}

// Pipeline escalates through parse stages, issuing at most one repair call
// against the generation service per top-level attempt.
type Pipeline struct {
	gen TextGenerator
	log *zap.Logger
}

// NewPipeline constructs a Pipeline.
func NewPipeline(gen TextGenerator, log *zap.Logger) *Pipeline {
	return &Pipeline{gen: gen, log: log}
}

// Parse extracts a plan object from raw generated text. Stages, in order:
// direct cleanup+parse, brace-substring extraction, then (when allowRepair)
// one repair round-trip through the generation service. Every stage is
// attempted at most once; exhaustion returns a ParseError carrying the
// original raw text.
func (p *Pipeline) Parse(ctx context.Context, rawText, patternID string, allowRepair bool) (*ParsedPlan, error) {
	plan, firstErr := parseDirect(rawText)
	if firstErr == nil {
		return plan, nil
	}

	plan, err := parseExtracted(rawText)
	if err == nil {
		return plan, nil
	}

	if allowRepair {
		observability.RecordParseRepair()
		p.log.Info("requesting JSON repair", zap.String("pattern_id", patternID))

		repairText, genErr := p.gen.GenerateText(ctx, BuildRepairPrompt(patternID, rawText))
		if genErr != nil {
			return nil, &UpstreamError{Err: genErr}
		}
		plan, err = parseDirect(repairText)
		if err == nil {
			return plan, nil
		}
		p.log.Warn("JSON repair response still unparseable",
			zap.String("pattern_id", patternID),
			zap.Error(err))
	}

	observability.RecordParseFailure()
	return nil, &ParseError{Raw: rawText, Err: firstErr}
}
