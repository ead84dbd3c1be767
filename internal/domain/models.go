// Package domain defines the documents and business rules of the workout tracker.
package domain

// EquipmentUnit is the measurement unit attached to a piece of equipment.
type EquipmentUnit string

const (
	UnitKg    EquipmentUnit = "kg"
	UnitReps  EquipmentUnit = "reps"
	UnitMin   EquipmentUnit = "min"
	UnitSec   EquipmentUnit = "sec"
	UnitLevel EquipmentUnit = "level"
	UnitNone  EquipmentUnit = "none"
)

// PatternType classifies a training pattern.
type PatternType string

const (
	PatternTraining PatternType = "training"
	PatternStretch  PatternType = "stretch"
	PatternRecovery PatternType = "recovery"
	PatternCustom   PatternType = "custom"
)

// Preference steers overall plan intensity.
type Preference string

const (
	PreferenceEasy   Preference = "easy"
	PreferenceNormal Preference = "normal"
	PreferenceHard   Preference = "hard"
)

// StampType is the single-day completion indicator derived from a workout log.
type StampType string

const (
	StampDone    StampType = "done"
	StampPartial StampType = "partial"
	StampSkipped StampType = "skipped"
)

// RestPatternID is the sentinel pattern id stored on rest-day plans.
const RestPatternID = "rest"

// RestTheme is the theme stored on rest-day plans.
const RestTheme = "休養日"

// Equipment is a user-owned piece of training equipment.
type Equipment struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Unit      EquipmentUnit `json:"unit"`
	Note      string        `json:"note,omitempty"`
	CreatedAt int64         `json:"createdAt"`
}

// TrainingPattern is a reusable workout template.
type TrainingPattern struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Type                PatternType `json:"type"`
	Description         string      `json:"description,omitempty"`
	AllowedEquipmentIDs []string    `json:"allowedEquipmentIds"`
	Tags                []string    `json:"tags,omitempty"`
	CreatedAt           int64       `json:"createdAt"`
}

// WeeklyRule maps a day of week (0=Sunday..6=Saturday) to a pattern.
// A nil PatternID marks a rest day.
type WeeklyRule struct {
	DayOfWeek int     `json:"dayOfWeek"`
	PatternID *string `json:"patternId"`
}

// UserSettings holds the weekly schedule and planning preferences for one user.
type UserSettings struct {
	UID              string       `json:"uid"`
	WeeklyRules      []WeeklyRule `json:"weeklyRules"`
	Preference       Preference   `json:"preference"`
	GoalText         string       `json:"goalText"`
	AvailableTimeMin int          `json:"availableTimeMin,omitempty"`
	UpdatedAt        int64        `json:"updatedAt"`
}

// PlanItem is one exercise entry in a daily plan. Numeric fields are nullable
// because the generator only fills the ones that apply: strength items carry
// weight/reps/sets, duration-based items carry durationMin.
type PlanItem struct {
	Name        string   `json:"name"`
	EquipmentID *string  `json:"equipmentId"`
	Weight      *float64 `json:"weight"`
	Reps        *float64 `json:"reps"`
	Sets        *float64 `json:"sets"`
	DurationMin *float64 `json:"durationMin"`
	Note        *string  `json:"note"`
	Reason      *string  `json:"reason"`
}

// ModelInfo records which generator produced a plan.
type ModelInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// DailyPlan is the generated plan for one calendar date. At most one exists
// per (user, date).
type DailyPlan struct {
	DateKey   string     `json:"dateKey"`
	PatternID string     `json:"patternId"`
	Theme     string     `json:"theme"`
	Items     []PlanItem `json:"items"`
	CreatedAt int64      `json:"createdAt"`
	ModelInfo *ModelInfo `json:"modelInfo,omitempty"`
}

// WorkoutResultItem is a plan item as actually logged, plus the completion flag.
type WorkoutResultItem struct {
	PlanItem
	Done bool `json:"done"`
}

// WorkoutLog is the as-logged workout for one date. One per (user, date), upserted.
type WorkoutLog struct {
	DateKey   string              `json:"dateKey"`
	PatternID string              `json:"patternId"`
	PlanID    string              `json:"planId,omitempty"`
	Items     []WorkoutResultItem `json:"items"`
	Completed bool                `json:"completed"`
	CreatedAt int64               `json:"createdAt"`
	UpdatedAt int64               `json:"updatedAt"`
}

// Stamp is the derived completion indicator for one date, rewritten on every
// workout save.
type Stamp struct {
	DateKey   string    `json:"dateKey"`
	StampType StampType `json:"stampType"`
	UpdatedAt int64     `json:"updatedAt"`
}

// ValidUnit reports whether u is a known equipment unit.
func ValidUnit(u EquipmentUnit) bool {
	switch u {
	case UnitKg, UnitReps, UnitMin, UnitSec, UnitLevel, UnitNone:
		return true
	}
	return false
}

// ValidPatternType reports whether t is a known pattern type.
func ValidPatternType(t PatternType) bool {
	switch t {
	case PatternTraining, PatternStretch, PatternRecovery, PatternCustom:
		return true
	}
	return false
}

// ValidPreference reports whether p is a known intensity preference.
func ValidPreference(p Preference) bool {
	switch p {
	case PreferenceEasy, PreferenceNormal, PreferenceHard:
		return true
	}
	return false
}
