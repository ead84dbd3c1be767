package domain

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	dashboardStampWindow = 100
	dashboardLogWindow   = 60
)

// HabitPoint is one day in the habit series. StampType is "none" for days
// without a stamp.
type HabitPoint struct {
	DateKey   string `json:"dateKey"`
	StampType string `json:"stampType"`
}

// SeriesPoint is one measurement in an equipment weight series.
type SeriesPoint struct {
	DateKey string  `json:"dateKey"`
	Value   float64 `json:"value"`
}

// DashboardSummary carries the display-ready headline figures.
type DashboardSummary struct {
	CompletionRate string `json:"completionRate"`
	Streak         string `json:"streak"`
	MaxWeight      string `json:"maxWeight"`
}

// DashboardReport is the aggregate view backing the dashboard page.
type DashboardReport struct {
	Summary         DashboardSummary         `json:"summary"`
	HabitSeries     []HabitPoint             `json:"habitSeries"`
	EquipmentSeries map[string][]SeriesPoint `json:"equipmentSeries"`
}

// Dashboard assembles habit, streak, and load-progression statistics for the
// seven days ending at now.
func (s *Service) Dashboard(ctx context.Context, userID string, now time.Time) (*DashboardReport, error) {
	last7 := make([]string, 7)
	for i := 0; i < 7; i++ {
		last7[i] = FormatDateKey(now.AddDate(0, 0, -(6 - i)))
	}

	weekStamps, err := s.store.ListStampsInRange(ctx, userID, last7[0], last7[6])
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]StampType, len(weekStamps))
	for _, stamp := range weekStamps {
		byDate[stamp.DateKey] = stamp.StampType
	}

	habitSeries := make([]HabitPoint, 0, 7)
	doneCount := 0
	for _, dateKey := range last7 {
		stampType := "none"
		if st, ok := byDate[dateKey]; ok {
			stampType = string(st)
		}
		if stampType == string(StampDone) {
			doneCount++
		}
		habitSeries = append(habitSeries, HabitPoint{DateKey: dateKey, StampType: stampType})
	}
	completionRate := int(math.Round(float64(doneCount) / 7 * 100))

	recentStamps, err := s.store.ListRecentStamps(ctx, userID, dashboardStampWindow)
	if err != nil {
		return nil, err
	}
	streak := currentStreak(recentStamps, now)

	equipment, err := s.store.ListEquipment(ctx, userID, equipmentListLimit)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(equipment))
	for _, e := range equipment {
		names[e.ID] = e.Name
	}

	logs, err := s.store.ListRecentWorkoutLogs(ctx, userID, dashboardLogWindow)
	if err != nil {
		return nil, err
	}

	series := make(map[string][]SeriesPoint)
	maxWeight := 0.0
	for _, log := range logs {
		for _, item := range log.Items {
			if item.EquipmentID == nil || item.Weight == nil {
				continue
			}
			if *item.Weight > maxWeight {
				maxWeight = *item.Weight
			}
			name, ok := names[*item.EquipmentID]
			if !ok {
				name = *item.EquipmentID
			}
			series[name] = append(series[name], SeriesPoint{DateKey: log.DateKey, Value: *item.Weight})
		}
	}

	// Collapse to the max value per date, ascending by date.
	for name, points := range series {
		best := make(map[string]float64)
		for _, p := range points {
			if p.Value > best[p.DateKey] {
				best[p.DateKey] = p.Value
			}
		}
		collapsed := make([]SeriesPoint, 0, len(best))
		for dateKey, value := range best {
			collapsed = append(collapsed, SeriesPoint{DateKey: dateKey, Value: value})
		}
		sort.Slice(collapsed, func(i, j int) bool { return collapsed[i].DateKey < collapsed[j].DateKey })
		series[name] = collapsed
	}

	return &DashboardReport{
		Summary: DashboardSummary{
			CompletionRate: fmt.Sprintf("%d%%", completionRate),
			Streak:         fmt.Sprintf("%d日", streak),
			MaxWeight:      fmt.Sprintf("%gkg", maxWeight),
		},
		HabitSeries:     habitSeries,
		EquipmentSeries: series,
	}, nil
}

// currentStreak counts consecutive days with a done or partial stamp, ending
// today or yesterday.
func currentStreak(stamps []Stamp, now time.Time) int {
	active := make(map[string]bool, len(stamps))
	for _, stamp := range stamps {
		if stamp.StampType == StampDone || stamp.StampType == StampPartial {
			active[stamp.DateKey] = true
		}
	}

	start := now
	if !active[FormatDateKey(start)] {
		start = now.AddDate(0, 0, -1)
		if !active[FormatDateKey(start)] {
			return 0
		}
	}

	streak := 0
	for current := start; active[FormatDateKey(current)]; current = current.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}
