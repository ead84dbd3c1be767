package domain

import (
	"regexp"
	"time"
)

const dateKeyLayout = "2006-01-02"

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDateKey reports whether s is a YYYY-MM-DD calendar date.
func ValidDateKey(s string) bool {
	if !dateKeyPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(dateKeyLayout, s)
	return err == nil
}

// DayOfWeek returns the weekday (0=Sunday..6=Saturday) of a date key.
func DayOfWeek(dateKey string) (int, error) {
	t, err := time.Parse(dateKeyLayout, dateKey)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// FormatDateKey renders a time as a date key.
func FormatDateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}
