// Package planner generates, validates, and persists the daily workout plan.
package planner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/NarumiKomaba/trainnote/internal/domain"
	"github.com/NarumiKomaba/trainnote/internal/observability"
)

const (
	recentLogWindow     = 30
	equipmentFetchLimit = 200
	providerName        = "gemini"
)

// TextGenerator is the generation-service client the planner depends on.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Store is the subset of persistence the planner reads and writes.
type Store interface {
	GetPlan(ctx context.Context, userID, dateKey string) (*domain.DailyPlan, error)
	SavePlan(ctx context.Context, userID string, plan domain.DailyPlan) error
	GetSettings(ctx context.Context, userID string) (*domain.UserSettings, error)
	GetPattern(ctx context.Context, userID, patternID string) (*domain.TrainingPattern, error)
	GetEquipmentByIDs(ctx context.Context, userID string, ids []string) ([]domain.Equipment, error)
	ListEquipment(ctx context.Context, userID string, limit int) ([]domain.Equipment, error)
	ListRecentWorkoutLogs(ctx context.Context, userID string, limit int) ([]domain.WorkoutLog, error)
}

// Service is the daily plan orchestrator.
type Service struct {
	store    Store
	gen      TextGenerator
	pipeline *Pipeline
	log      *zap.Logger
}

// NewService constructs the orchestrator.
func NewService(store Store, gen TextGenerator, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		gen:      gen,
		pipeline: NewPipeline(gen, log),
		log:      log,
	}
}

// GenerateInput is the orchestrator entry payload for one (user, date) request.
type GenerateInput struct {
	DateKey          string
	Force            bool
	AvailableTimeMin int
}

// planState enumerates the terminal branches of a plan request.
type planState int

const (
	stateCached planState = iota + 1
	stateRest
	statePatternMissing
	stateGenerating
)

// resolution carries the documents gathered while resolving the state.
type resolution struct {
	existing  *domain.DailyPlan
	settings  *domain.UserSettings
	pattern   *domain.TrainingPattern
	patternID string
}

// resolveState decides which branch a request takes: an existing plan short-
// circuits (unless forced), an unassigned weekday is a rest day, a dangling
// pattern id is an error, anything else generates.
func (s *Service) resolveState(ctx context.Context, userID string, in GenerateInput) (planState, resolution, error) {
	existing, err := s.store.GetPlan(ctx, userID, in.DateKey)
	if err != nil {
		return 0, resolution{}, err
	}
	if existing != nil && !in.Force {
		return stateCached, resolution{existing: existing}, nil
	}

	settings, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return 0, resolution{}, err
	}

	dayOfWeek, err := domain.DayOfWeek(in.DateKey)
	if err != nil {
		return 0, resolution{}, fmt.Errorf("invalid date key %q: %w", in.DateKey, err)
	}

	rule := domain.RuleForDay(settings, dayOfWeek)
	if rule == nil || rule.PatternID == nil {
		return stateRest, resolution{settings: settings}, nil
	}

	pattern, err := s.store.GetPattern(ctx, userID, *rule.PatternID)
	if err != nil {
		return 0, resolution{}, err
	}
	if pattern == nil {
		return statePatternMissing, resolution{patternID: *rule.PatternID}, nil
	}

	return stateGenerating, resolution{settings: settings, pattern: pattern}, nil
}

// GeneratePlan returns the daily plan for the date, generating and persisting
// one when needed. The persisted plan is only written after every
// transformation stage succeeds.
func (s *Service) GeneratePlan(ctx context.Context, userID string, in GenerateInput) (*domain.DailyPlan, error) {
	state, res, err := s.resolveState(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	switch state {
	case stateCached:
		observability.RecordGeneration("cached")
		return res.existing, nil

	case stateRest:
		plan := domain.DailyPlan{
			DateKey:   in.DateKey,
			PatternID: domain.RestPatternID,
			Theme:     domain.RestTheme,
			Items:     []domain.PlanItem{},
			CreatedAt: time.Now().UnixMilli(),
			ModelInfo: &domain.ModelInfo{Provider: providerName, Model: s.gen.Model()},
		}
		if err := s.store.SavePlan(ctx, userID, plan); err != nil {
			return nil, err
		}
		observability.RecordGeneration("rest")
		return &plan, nil

	case statePatternMissing:
		observability.RecordGeneration("failed")
		return nil, fmt.Errorf("%w: %s", domain.ErrPatternNotFound, res.patternID)

	default:
		return s.generate(ctx, userID, in, res)
	}
}

func (s *Service) generate(ctx context.Context, userID string, in GenerateInput, res resolution) (*domain.DailyPlan, error) {
	start := time.Now()
	pattern := *res.pattern

	var equipment []domain.Equipment
	var err error
	if len(pattern.AllowedEquipmentIDs) > 0 {
		equipment, err = s.store.GetEquipmentByIDs(ctx, userID, pattern.AllowedEquipmentIDs)
	} else {
		equipment, err = s.store.ListEquipment(ctx, userID, equipmentFetchLimit)
	}
	if err != nil {
		return nil, err
	}

	recentLogs, err := s.store.ListRecentWorkoutLogs(ctx, userID, recentLogWindow)
	if err != nil {
		return nil, err
	}

	preference := domain.PreferenceNormal
	goalText := ""
	availableTime := in.AvailableTimeMin
	if res.settings != nil {
		if res.settings.Preference != "" {
			preference = res.settings.Preference
		}
		goalText = res.settings.GoalText
		if availableTime <= 0 {
			availableTime = res.settings.AvailableTimeMin
		}
	}

	prompt := BuildPrompt(PromptInput{
		DateKey:          in.DateKey,
		Pattern:          pattern,
		Equipment:        equipment,
		Preference:       preference,
		GoalText:         goalText,
		AvailableTimeMin: availableTime,
		RecentLogs:       recentLogs,
	})

	s.log.Info("generating daily plan",
		zap.String("user_id", userID),
		zap.String("date_key", in.DateKey),
		zap.String("pattern_id", pattern.ID),
		zap.Int("equipment_count", len(equipment)))

	parsed, items, accepted, err := s.attempt(ctx, prompt, pattern.ID)
	if err != nil {
		observability.RecordGeneration("failed")
		return nil, err
	}
	if !accepted {
		observability.RecordRegeneration()
		s.log.Info("plan below acceptance, regenerating with strict constraints",
			zap.String("user_id", userID),
			zap.String("date_key", in.DateKey),
			zap.String("pattern_id", pattern.ID))

		parsed, items, accepted, err = s.attempt(ctx, BuildStrictPrompt(prompt), pattern.ID)
		if err != nil {
			observability.RecordGeneration("failed")
			return nil, err
		}
		if !accepted {
			observability.RecordGeneration("failed")
			return nil, &QualityError{ItemCount: len(items)}
		}
	}

	allowed := AllowedEquipmentIDs(pattern, equipment)
	items = ReconcileEquipment(items, equipment, allowed)

	theme := parsed.Theme
	if theme == "" {
		theme = pattern.Name
	}

	plan := domain.DailyPlan{
		DateKey:   in.DateKey,
		PatternID: pattern.ID,
		Theme:     theme,
		Items:     items,
		CreatedAt: time.Now().UnixMilli(),
		ModelInfo: &domain.ModelInfo{Provider: providerName, Model: s.gen.Model()},
	}
	if err := s.store.SavePlan(ctx, userID, plan); err != nil {
		return nil, err
	}

	observability.RecordGeneration("generated")
	observability.ObserveGenerationDuration(time.Since(start))
	return &plan, nil
}

// attempt runs one full generate→parse→gate cycle.
func (s *Service) attempt(ctx context.Context, prompt, patternID string) (*ParsedPlan, []domain.PlanItem, bool, error) {
	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, nil, false, &UpstreamError{Err: err}
	}

	parsed, err := s.pipeline.Parse(ctx, text, patternID, true)
	if err != nil {
		return nil, nil, false, err
	}

	items, accepted := EvaluatePlan(parsed)
	return parsed, items, accepted, nil
}
