package domain

import (
	"context"
	"sort"
)

// memStore is an in-memory Store used by the unit tests in this package.
type memStore struct {
	equipment map[string][]Equipment
	patterns  map[string][]TrainingPattern
	settings  map[string]*UserSettings
	plans     map[string]map[string]DailyPlan
	logs      map[string]map[string]WorkoutLog
	stamps    map[string]map[string]Stamp
}

func newMemStore() *memStore {
	return &memStore{
		equipment: make(map[string][]Equipment),
		patterns:  make(map[string][]TrainingPattern),
		settings:  make(map[string]*UserSettings),
		plans:     make(map[string]map[string]DailyPlan),
		logs:      make(map[string]map[string]WorkoutLog),
		stamps:    make(map[string]map[string]Stamp),
	}
}

func (m *memStore) CreateEquipment(_ context.Context, userID string, e Equipment) error {
	m.equipment[userID] = append([]Equipment{e}, m.equipment[userID]...)
	return nil
}

func (m *memStore) ListEquipment(_ context.Context, userID string, limit int) ([]Equipment, error) {
	list := m.equipment[userID]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *memStore) GetEquipmentByIDs(_ context.Context, userID string, ids []string) ([]Equipment, error) {
	byID := make(map[string]Equipment)
	for _, e := range m.equipment[userID] {
		byID[e.ID] = e
	}
	out := make([]Equipment, 0, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) DeleteEquipment(_ context.Context, userID, equipmentID string) error {
	list := m.equipment[userID]
	for i, e := range list {
		if e.ID == equipmentID {
			m.equipment[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrEquipmentNotFound
}

func (m *memStore) CreatePattern(_ context.Context, userID string, p TrainingPattern) error {
	m.patterns[userID] = append([]TrainingPattern{p}, m.patterns[userID]...)
	return nil
}

func (m *memStore) UpdatePattern(_ context.Context, userID string, p TrainingPattern) error {
	list := m.patterns[userID]
	for i := range list {
		if list[i].ID == p.ID {
			list[i] = p
			return nil
		}
	}
	return ErrPatternNotFound
}

func (m *memStore) ListPatterns(_ context.Context, userID string, limit int) ([]TrainingPattern, error) {
	list := m.patterns[userID]
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *memStore) GetPattern(_ context.Context, userID, patternID string) (*TrainingPattern, error) {
	for _, p := range m.patterns[userID] {
		if p.ID == patternID {
			copied := p
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetSettings(_ context.Context, userID string) (*UserSettings, error) {
	return m.settings[userID], nil
}

func (m *memStore) SaveSettings(_ context.Context, userID string, s UserSettings) error {
	m.settings[userID] = &s
	return nil
}

func (m *memStore) GetPlan(_ context.Context, userID, dateKey string) (*DailyPlan, error) {
	plan, ok := m.plans[userID][dateKey]
	if !ok {
		return nil, nil
	}
	return &plan, nil
}

func (m *memStore) SavePlan(_ context.Context, userID string, plan DailyPlan) error {
	if m.plans[userID] == nil {
		m.plans[userID] = make(map[string]DailyPlan)
	}
	m.plans[userID][plan.DateKey] = plan
	return nil
}

func (m *memStore) UpsertWorkoutLog(_ context.Context, userID string, log WorkoutLog) error {
	if m.logs[userID] == nil {
		m.logs[userID] = make(map[string]WorkoutLog)
	}
	m.logs[userID][log.DateKey] = log
	return nil
}

func (m *memStore) ListRecentWorkoutLogs(_ context.Context, userID string, limit int) ([]WorkoutLog, error) {
	out := make([]WorkoutLog, 0, len(m.logs[userID]))
	for _, log := range m.logs[userID] {
		out = append(out, log)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateKey > out[j].DateKey })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) UpsertStamp(_ context.Context, userID string, stamp Stamp) error {
	if m.stamps[userID] == nil {
		m.stamps[userID] = make(map[string]Stamp)
	}
	m.stamps[userID][stamp.DateKey] = stamp
	return nil
}

func (m *memStore) ListStampsInRange(_ context.Context, userID, startDate, endDate string) ([]Stamp, error) {
	out := make([]Stamp, 0)
	for _, stamp := range m.stamps[userID] {
		if stamp.DateKey >= startDate && stamp.DateKey <= endDate {
			out = append(out, stamp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateKey < out[j].DateKey })
	return out, nil
}

func (m *memStore) ListRecentStamps(_ context.Context, userID string, limit int) ([]Stamp, error) {
	out := make([]Stamp, 0, len(m.stamps[userID]))
	for _, stamp := range m.stamps[userID] {
		out = append(out, stamp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateKey > out[j].DateKey })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
