// Package events defines the payloads published through the outbox.
package events

// PlanGenerated is emitted whenever a daily plan is persisted, including rest
// days and forced regenerations.
type PlanGenerated struct {
	UserID    string `json:"user_id"`
	DateKey   string `json:"date_key"`
	PatternID string `json:"pattern_id"`
	Theme     string `json:"theme"`
	ItemCount int    `json:"item_count"`
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// WorkoutLogged is emitted whenever a workout log is saved for a date.
type WorkoutLogged struct {
	UserID    string `json:"user_id"`
	DateKey   string `json:"date_key"`
	PatternID string `json:"pattern_id"`
	ItemCount int    `json:"item_count"`
	DoneCount int    `json:"done_count"`
	Completed bool   `json:"completed"`
	UpdatedAt int64  `json:"updated_at"`
}
