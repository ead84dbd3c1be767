package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	equipmentListLimit = 300
	patternListLimit   = 200
)

// Service orchestrates the CRUD and logging workflows around the store.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateEquipmentInput captures the payload from the API layer.
type CreateEquipmentInput struct {
	Name string
	Unit EquipmentUnit
	Note string
}

// CreateEquipment stores a new equipment document with a fresh id.
func (s *Service) CreateEquipment(ctx context.Context, userID string, input CreateEquipmentInput) (Equipment, error) {
	equipment := Equipment{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		Unit:      input.Unit,
		Note:      strings.TrimSpace(input.Note),
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.store.CreateEquipment(ctx, userID, equipment); err != nil {
		return Equipment{}, err
	}
	return equipment, nil
}

// ListEquipment returns the user's equipment, newest first.
func (s *Service) ListEquipment(ctx context.Context, userID string) ([]Equipment, error) {
	return s.store.ListEquipment(ctx, userID, equipmentListLimit)
}

// DeleteEquipment removes one equipment document.
func (s *Service) DeleteEquipment(ctx context.Context, userID, equipmentID string) error {
	return s.store.DeleteEquipment(ctx, userID, equipmentID)
}

// PatternInput captures the pattern payload from the API layer.
type PatternInput struct {
	Name                string
	Type                PatternType
	Description         string
	AllowedEquipmentIDs []string
	Tags                []string
}

// CreatePattern stores a new training pattern with a fresh id.
func (s *Service) CreatePattern(ctx context.Context, userID string, input PatternInput) (TrainingPattern, error) {
	pattern := TrainingPattern{
		ID:                  uuid.NewString(),
		Name:                input.Name,
		Type:                input.Type,
		Description:         input.Description,
		AllowedEquipmentIDs: emptyIfNil(input.AllowedEquipmentIDs),
		Tags:                emptyIfNil(input.Tags),
		CreatedAt:           time.Now().UnixMilli(),
	}
	if err := s.store.CreatePattern(ctx, userID, pattern); err != nil {
		return TrainingPattern{}, err
	}
	return pattern, nil
}

// UpdatePattern replaces the mutable fields of an existing pattern.
func (s *Service) UpdatePattern(ctx context.Context, userID, patternID string, input PatternInput) (TrainingPattern, error) {
	existing, err := s.store.GetPattern(ctx, userID, patternID)
	if err != nil {
		return TrainingPattern{}, err
	}
	if existing == nil {
		return TrainingPattern{}, ErrPatternNotFound
	}

	existing.Name = input.Name
	existing.Type = input.Type
	existing.Description = input.Description
	existing.AllowedEquipmentIDs = emptyIfNil(input.AllowedEquipmentIDs)
	existing.Tags = emptyIfNil(input.Tags)

	if err := s.store.UpdatePattern(ctx, userID, *existing); err != nil {
		return TrainingPattern{}, err
	}
	return *existing, nil
}

// ListPatterns returns the user's patterns, newest first.
func (s *Service) ListPatterns(ctx context.Context, userID string) ([]TrainingPattern, error) {
	return s.store.ListPatterns(ctx, userID, patternListLimit)
}

// GetSettings returns the user's settings, or nil when never saved.
func (s *Service) GetSettings(ctx context.Context, userID string) (*UserSettings, error) {
	return s.store.GetSettings(ctx, userID)
}

// SaveSettingsInput captures the settings payload from the API layer.
type SaveSettingsInput struct {
	WeeklyRules      []WeeklyRule
	Preference       Preference
	GoalText         string
	AvailableTimeMin int
}

// SaveSettings normalizes the weekly rules and upserts the settings document.
func (s *Service) SaveSettings(ctx context.Context, userID string, input SaveSettingsInput) (UserSettings, error) {
	settings := UserSettings{
		UID:              userID,
		WeeklyRules:      NormalizeWeeklyRules(input.WeeklyRules),
		Preference:       input.Preference,
		GoalText:         input.GoalText,
		AvailableTimeMin: input.AvailableTimeMin,
		UpdatedAt:        time.Now().UnixMilli(),
	}
	if err := s.store.SaveSettings(ctx, userID, settings); err != nil {
		return UserSettings{}, err
	}
	return settings, nil
}

// SaveWorkoutInput captures the as-logged workout from the API layer.
type SaveWorkoutInput struct {
	DateKey   string
	PatternID string
	PlanID    string
	Items     []WorkoutResultItem
	Completed bool
}

// SaveWorkout upserts the workout log for the date and rewrites the derived stamp.
func (s *Service) SaveWorkout(ctx context.Context, userID string, input SaveWorkoutInput) (StampType, error) {
	now := time.Now().UnixMilli()

	log := WorkoutLog{
		DateKey:   input.DateKey,
		PatternID: input.PatternID,
		PlanID:    input.PlanID,
		Items:     input.Items,
		Completed: input.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if log.Items == nil {
		log.Items = []WorkoutResultItem{}
	}
	if err := s.store.UpsertWorkoutLog(ctx, userID, log); err != nil {
		return "", err
	}

	stampType := DeriveStampType(input.Items)
	stamp := Stamp{DateKey: input.DateKey, StampType: stampType, UpdatedAt: now}
	if err := s.store.UpsertStamp(ctx, userID, stamp); err != nil {
		return "", err
	}
	return stampType, nil
}

// ListStamps returns stamps within [startDate, endDate], ascending by date.
func (s *Service) ListStamps(ctx context.Context, userID, startDate, endDate string) ([]Stamp, error) {
	return s.store.ListStampsInRange(ctx, userID, startDate, endDate)
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
