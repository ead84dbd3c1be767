package domain

// NormalizeWeeklyRules returns exactly seven rules, one per day of week in
// order 0..6. The first supplied rule for a day wins; days without a rule get
// a nil pattern id. Normalization is idempotent.
func NormalizeWeeklyRules(rules []WeeklyRule) []WeeklyRule {
	normalized := make([]WeeklyRule, 7)
	for i := 0; i < 7; i++ {
		normalized[i] = WeeklyRule{DayOfWeek: i, PatternID: nil}
		for _, r := range rules {
			if r.DayOfWeek == i {
				normalized[i].PatternID = r.PatternID
				break
			}
		}
	}
	return normalized
}

// RuleForDay returns the weekly rule covering the given day of week, or nil
// when settings are absent or carry no rule for that day.
func RuleForDay(settings *UserSettings, dayOfWeek int) *WeeklyRule {
	if settings == nil {
		return nil
	}
	for i := range settings.WeeklyRules {
		if settings.WeeklyRules[i].DayOfWeek == dayOfWeek {
			return &settings.WeeklyRules[i]
		}
	}
	return nil
}
