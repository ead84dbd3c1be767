package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NarumiKomaba/trainnote/internal/domain"
)

const (
	maxNameLength        = 60
	maxNoteLength        = 500
	maxDescriptionLength = 2000
	maxAllowedEquipment  = 300
	maxTags              = 30
)

// CreateEquipmentRequest is the payload for POST /v1/equipment.
type CreateEquipmentRequest struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
	Note string `json:"note"`
}

// Validate ensures request correctness.
func (r CreateEquipmentRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	if !domain.ValidUnit(domain.EquipmentUnit(r.Unit)) {
		return fmt.Errorf("unknown unit %q", r.Unit)
	}
	if len([]rune(r.Note)) > maxNoteLength {
		return fmt.Errorf("note must be at most %d characters", maxNoteLength)
	}
	return nil
}

// PatternRequest is the payload for POST /v1/patterns and PUT /v1/patterns/{id}.
type PatternRequest struct {
	Name                string   `json:"name"`
	Type                string   `json:"type"`
	Description         string   `json:"description"`
	AllowedEquipmentIDs []string `json:"allowedEquipmentIds"`
	Tags                []string `json:"tags"`
}

// Validate ensures request correctness.
func (r PatternRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return fmt.Errorf("name must be at most %d characters", maxNameLength)
	}
	if !domain.ValidPatternType(domain.PatternType(r.Type)) {
		return fmt.Errorf("unknown pattern type %q", r.Type)
	}
	if len([]rune(r.Description)) > maxDescriptionLength {
		return fmt.Errorf("description must be at most %d characters", maxDescriptionLength)
	}
	if len(r.AllowedEquipmentIDs) > maxAllowedEquipment {
		return fmt.Errorf("allowedEquipmentIds must have at most %d entries", maxAllowedEquipment)
	}
	for _, id := range r.AllowedEquipmentIDs {
		if strings.TrimSpace(id) == "" {
			return errors.New("allowedEquipmentIds must not contain empty ids")
		}
	}
	if len(r.Tags) > maxTags {
		return fmt.Errorf("tags must have at most %d entries", maxTags)
	}
	return nil
}

// SaveSettingsRequest is the payload for PUT /v1/settings.
type SaveSettingsRequest struct {
	WeeklyRules      []WeeklyRuleRequest `json:"weeklyRules"`
	Preference       string              `json:"preference"`
	GoalText         string              `json:"goalText"`
	AvailableTimeMin int                 `json:"availableTimeMin"`
}

// WeeklyRuleRequest maps one weekday to a pattern; a null patternId marks a
// rest day.
type WeeklyRuleRequest struct {
	DayOfWeek int     `json:"dayOfWeek"`
	PatternID *string `json:"patternId"`
}

// Validate ensures request correctness.
func (r SaveSettingsRequest) Validate() error {
	if !domain.ValidPreference(domain.Preference(r.Preference)) {
		return fmt.Errorf("unknown preference %q", r.Preference)
	}
	for _, rule := range r.WeeklyRules {
		if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
			return fmt.Errorf("dayOfWeek %d out of range", rule.DayOfWeek)
		}
		if rule.PatternID != nil && strings.TrimSpace(*rule.PatternID) == "" {
			return errors.New("patternId must be null or non-empty")
		}
	}
	if r.AvailableTimeMin < 0 {
		return errors.New("availableTimeMin must not be negative")
	}
	return nil
}

func (r SaveSettingsRequest) toInput() domain.SaveSettingsInput {
	rules := make([]domain.WeeklyRule, 0, len(r.WeeklyRules))
	for _, rule := range r.WeeklyRules {
		rules = append(rules, domain.WeeklyRule{DayOfWeek: rule.DayOfWeek, PatternID: rule.PatternID})
	}
	return domain.SaveSettingsInput{
		WeeklyRules:      rules,
		Preference:       domain.Preference(r.Preference),
		GoalText:         r.GoalText,
		AvailableTimeMin: r.AvailableTimeMin,
	}
}

// GeneratePlanRequest is the payload for POST /v1/plans/generate.
type GeneratePlanRequest struct {
	DateKey          string `json:"dateKey"`
	Force            bool   `json:"force"`
	AvailableTimeMin int    `json:"availableTimeMin"`
}

// Validate ensures request correctness.
func (r GeneratePlanRequest) Validate() error {
	if !domain.ValidDateKey(r.DateKey) {
		return fmt.Errorf("invalid dateKey %q", r.DateKey)
	}
	if r.AvailableTimeMin < 0 {
		return errors.New("availableTimeMin must not be negative")
	}
	return nil
}

// SaveWorkoutRequest is the payload for POST /v1/workouts.
type SaveWorkoutRequest struct {
	DateKey   string                     `json:"dateKey"`
	PatternID string                     `json:"patternId"`
	PlanID    string                     `json:"planId"`
	Items     []domain.WorkoutResultItem `json:"items"`
	Completed bool                       `json:"completed"`
}

// Validate ensures request correctness.
func (r SaveWorkoutRequest) Validate() error {
	if !domain.ValidDateKey(r.DateKey) {
		return fmt.Errorf("invalid dateKey %q", r.DateKey)
	}
	if strings.TrimSpace(r.PatternID) == "" {
		return errors.New("patternId is required")
	}
	for _, item := range r.Items {
		if strings.TrimSpace(item.Name) == "" {
			return errors.New("every item needs a name")
		}
	}
	return nil
}
