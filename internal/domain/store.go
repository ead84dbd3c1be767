package domain

import "context"

// EquipmentStore persists the user's equipment catalog.
type EquipmentStore interface {
	CreateEquipment(ctx context.Context, userID string, equipment Equipment) error
	ListEquipment(ctx context.Context, userID string, limit int) ([]Equipment, error)
	// GetEquipmentByIDs returns the equipment that exist among ids, preserving
	// the order of ids. Missing ids are silently dropped.
	GetEquipmentByIDs(ctx context.Context, userID string, ids []string) ([]Equipment, error)
	DeleteEquipment(ctx context.Context, userID, equipmentID string) error
}

// PatternStore persists training patterns.
type PatternStore interface {
	CreatePattern(ctx context.Context, userID string, pattern TrainingPattern) error
	UpdatePattern(ctx context.Context, userID string, pattern TrainingPattern) error
	ListPatterns(ctx context.Context, userID string, limit int) ([]TrainingPattern, error)
	// GetPattern returns (nil, nil) when the pattern does not exist.
	GetPattern(ctx context.Context, userID, patternID string) (*TrainingPattern, error)
}

// SettingsStore persists the single settings document per user.
type SettingsStore interface {
	// GetSettings returns (nil, nil) when the user has no settings yet.
	GetSettings(ctx context.Context, userID string) (*UserSettings, error)
	SaveSettings(ctx context.Context, userID string, settings UserSettings) error
}

// PlanStore persists daily plans keyed by (user, date).
type PlanStore interface {
	// GetPlan returns (nil, nil) when no plan exists for the date.
	GetPlan(ctx context.Context, userID, dateKey string) (*DailyPlan, error)
	SavePlan(ctx context.Context, userID string, plan DailyPlan) error
}

// WorkoutLogStore persists workout logs keyed by (user, date).
type WorkoutLogStore interface {
	UpsertWorkoutLog(ctx context.Context, userID string, log WorkoutLog) error
	ListRecentWorkoutLogs(ctx context.Context, userID string, limit int) ([]WorkoutLog, error)
}

// StampStore persists derived stamps keyed by (user, date).
type StampStore interface {
	UpsertStamp(ctx context.Context, userID string, stamp Stamp) error
	ListStampsInRange(ctx context.Context, userID, startDate, endDate string) ([]Stamp, error)
	ListRecentStamps(ctx context.Context, userID string, limit int) ([]Stamp, error)
}

// Store aggregates every per-user collection the service reads and writes.
type Store interface {
	EquipmentStore
	PatternStore
	SettingsStore
	PlanStore
	WorkoutLogStore
	StampStore
}
