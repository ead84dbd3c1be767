// Package postgres provides the Postgres-backed store. Documents are stored
// as JSONB payloads alongside typed key columns, and plan/workout writes
// record outbox events inside the same transaction.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NarumiKomaba/trainnote/internal/domain"
	"github.com/NarumiKomaba/trainnote/internal/events"
)

// Store implements domain.Store on top of pgx.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CreateEquipment inserts a catalog entry.
func (s *Store) CreateEquipment(ctx context.Context, userID string, equipment domain.Equipment) error {
	doc, err := json.Marshal(equipment)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO equipment (user_id, equipment_id, doc, created_at) VALUES ($1,$2,$3,$4)`,
		userID, equipment.ID, doc, equipment.CreatedAt)
	return err
}

// ListEquipment returns the catalog ordered by creation time, newest first.
func (s *Store) ListEquipment(ctx context.Context, userID string, limit int) ([]domain.Equipment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM equipment WHERE user_id=$1 ORDER BY created_at DESC, equipment_id LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocs[domain.Equipment](rows)
}

// GetEquipmentByIDs returns the equipment that exist among ids, preserving
// the order of ids.
func (s *Store) GetEquipmentByIDs(ctx context.Context, userID string, ids []string) ([]domain.Equipment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT equipment_id, doc FROM equipment WHERE user_id=$1 AND equipment_id = ANY($2)`,
		userID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]domain.Equipment)
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		var e domain.Equipment
		if err := json.Unmarshal(doc, &e); err != nil {
			return nil, err
		}
		byID[id] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Equipment, 0, len(byID))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// DeleteEquipment removes a catalog entry.
func (s *Store) DeleteEquipment(ctx context.Context, userID, equipmentID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM equipment WHERE user_id=$1 AND equipment_id=$2`,
		userID, equipmentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrEquipmentNotFound, equipmentID)
	}
	return nil
}

// CreatePattern inserts a training pattern.
func (s *Store) CreatePattern(ctx context.Context, userID string, pattern domain.TrainingPattern) error {
	doc, err := json.Marshal(pattern)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO patterns (user_id, pattern_id, doc, created_at) VALUES ($1,$2,$3,$4)`,
		userID, pattern.ID, doc, pattern.CreatedAt)
	return err
}

// UpdatePattern overwrites an existing pattern document.
func (s *Store) UpdatePattern(ctx context.Context, userID string, pattern domain.TrainingPattern) error {
	doc, err := json.Marshal(pattern)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE patterns SET doc=$3 WHERE user_id=$1 AND pattern_id=$2`,
		userID, pattern.ID, doc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPatternNotFound, pattern.ID)
	}
	return nil
}

// ListPatterns returns patterns ordered by creation time, newest first.
func (s *Store) ListPatterns(ctx context.Context, userID string, limit int) ([]domain.TrainingPattern, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM patterns WHERE user_id=$1 ORDER BY created_at DESC, pattern_id LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocs[domain.TrainingPattern](rows)
}

// GetPattern returns (nil, nil) when the pattern does not exist.
func (s *Store) GetPattern(ctx context.Context, userID, patternID string) (*domain.TrainingPattern, error) {
	return getDoc[domain.TrainingPattern](ctx, s.pool,
		`SELECT doc FROM patterns WHERE user_id=$1 AND pattern_id=$2`, userID, patternID)
}

// GetSettings returns (nil, nil) when the user has no settings yet.
func (s *Store) GetSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	return getDoc[domain.UserSettings](ctx, s.pool,
		`SELECT doc FROM user_settings WHERE user_id=$1`, userID)
}

// SaveSettings upserts the single settings document per user.
func (s *Store) SaveSettings(ctx context.Context, userID string, settings domain.UserSettings) error {
	doc, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, doc, updated_at) VALUES ($1,$2,$3)
		 ON CONFLICT (user_id) DO UPDATE SET doc=EXCLUDED.doc, updated_at=EXCLUDED.updated_at`,
		userID, doc, settings.UpdatedAt)
	return err
}

// GetPlan returns (nil, nil) when no plan exists for the date.
func (s *Store) GetPlan(ctx context.Context, userID, dateKey string) (*domain.DailyPlan, error) {
	return getDoc[domain.DailyPlan](ctx, s.pool,
		`SELECT doc FROM daily_plans WHERE user_id=$1 AND date_key=$2`, userID, dateKey)
}

// SavePlan upserts the plan for its date and records a plan.generated outbox
// event in the same transaction.
func (s *Store) SavePlan(ctx context.Context, userID string, plan domain.DailyPlan) error {
	doc, err := json.Marshal(plan)
	if err != nil {
		return err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO daily_plans (user_id, date_key, doc, created_at) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id, date_key) DO UPDATE SET doc=EXCLUDED.doc, created_at=EXCLUDED.created_at`,
		userID, plan.DateKey, doc, plan.CreatedAt)
	if err != nil {
		return err
	}

	payload := events.PlanGenerated{
		UserID:    userID,
		DateKey:   plan.DateKey,
		PatternID: plan.PatternID,
		Theme:     plan.Theme,
		ItemCount: len(plan.Items),
		CreatedAt: plan.CreatedAt,
	}
	if plan.ModelInfo != nil {
		payload.Provider = plan.ModelInfo.Provider
		payload.Model = plan.ModelInfo.Model
	}
	if err = insertOutbox(ctx, tx, userID, "plan", plan.DateKey, "plan.generated", payload); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

// UpsertWorkoutLog upserts the log for its date and records a workout.logged
// outbox event in the same transaction.
func (s *Store) UpsertWorkoutLog(ctx context.Context, userID string, log domain.WorkoutLog) error {
	doc, err := json.Marshal(log)
	if err != nil {
		return err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO workout_logs (user_id, date_key, doc, updated_at) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id, date_key) DO UPDATE SET doc=EXCLUDED.doc, updated_at=EXCLUDED.updated_at`,
		userID, log.DateKey, doc, log.UpdatedAt)
	if err != nil {
		return err
	}

	done := 0
	for _, item := range log.Items {
		if item.Done {
			done++
		}
	}
	payload := events.WorkoutLogged{
		UserID:    userID,
		DateKey:   log.DateKey,
		PatternID: log.PatternID,
		ItemCount: len(log.Items),
		DoneCount: done,
		Completed: log.Completed,
		UpdatedAt: log.UpdatedAt,
	}
	if err = insertOutbox(ctx, tx, userID, "workout", log.DateKey, "workout.logged", payload); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

// ListRecentWorkoutLogs returns logs ordered by date, newest first.
func (s *Store) ListRecentWorkoutLogs(ctx context.Context, userID string, limit int) ([]domain.WorkoutLog, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM workout_logs WHERE user_id=$1 ORDER BY date_key DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocs[domain.WorkoutLog](rows)
}

// UpsertStamp rewrites the stamp for its date.
func (s *Store) UpsertStamp(ctx context.Context, userID string, stamp domain.Stamp) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO stamps (user_id, date_key, stamp_type, updated_at) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id, date_key) DO UPDATE SET stamp_type=EXCLUDED.stamp_type, updated_at=EXCLUDED.updated_at`,
		userID, stamp.DateKey, string(stamp.StampType), stamp.UpdatedAt)
	return err
}

// ListStampsInRange returns stamps with startDate <= dateKey <= endDate in
// ascending date order.
func (s *Store) ListStampsInRange(ctx context.Context, userID, startDate, endDate string) ([]domain.Stamp, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT date_key, stamp_type, updated_at FROM stamps
		 WHERE user_id=$1 AND date_key >= $2 AND date_key <= $3
		 ORDER BY date_key`,
		userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStamps(rows)
}

// ListRecentStamps returns the latest stamps, newest first.
func (s *Store) ListRecentStamps(ctx context.Context, userID string, limit int) ([]domain.Stamp, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT date_key, stamp_type, updated_at FROM stamps
		 WHERE user_id=$1 ORDER BY date_key DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStamps(rows)
}

func scanStamps(rows pgx.Rows) ([]domain.Stamp, error) {
	var out []domain.Stamp
	for rows.Next() {
		var st domain.Stamp
		var stampType string
		if err := rows.Scan(&st.DateKey, &stampType, &st.UpdatedAt); err != nil {
			return nil, err
		}
		st.StampType = domain.StampType(stampType)
		out = append(out, st)
	}
	return out, rows.Err()
}

func getDoc[T any](ctx context.Context, pool *pgxpool.Pool, query string, args ...any) (*T, error) {
	var doc []byte
	err := pool.QueryRow(ctx, query, args...).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func scanDocs[T any](rows pgx.Rows) ([]T, error) {
	var out []T
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var item T
		if err := json.Unmarshal(doc, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic         string
	SchemaSubject string
}

var eventCatalog = map[string]EventMetadata{
	"plan.generated": {
		Topic:         "plan_events",
		SchemaSubject: "plan_events-value",
	},
	"workout.logged": {
		Topic:         "workout_events",
		SchemaSubject: "workout_events-value",
	},
}

func insertOutbox(ctx context.Context, tx pgx.Tx, userID, aggregateType, aggregateID, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta := eventCatalog[eventType]
	if meta.Topic == "" {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	dedupeKey := fmt.Sprintf("%s:%s:%s", userID, aggregateID, eventType)

	const stmt = `INSERT INTO outbox (user_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err = tx.Exec(ctx, stmt,
		userID,
		aggregateType,
		aggregateID,
		eventType,
		meta.Topic,
		meta.SchemaSubject,
		userID,
		body,
		dedupeKey,
	)
	return err
}
