//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/NarumiKomaba/trainnote/internal/domain"
)

func setupStore(t *testing.T, ctx context.Context) *Store {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("trainnote"),
		postgrescontainer.WithUsername("trainnote"),
		postgrescontainer.WithPassword("trainnote"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, Migrate(ctx, pool))
	return NewStore(pool)
}

func TestStoreEquipmentRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t, ctx)
	userID := uuid.NewString()

	first := domain.Equipment{ID: uuid.NewString(), Name: "Leg press", Unit: domain.UnitKg, CreatedAt: 1000}
	second := domain.Equipment{ID: uuid.NewString(), Name: "Treadmill", Unit: domain.UnitMin, CreatedAt: 2000}
	require.NoError(t, store.CreateEquipment(ctx, userID, first))
	require.NoError(t, store.CreateEquipment(ctx, userID, second))

	listed, err := store.ListEquipment(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, "Treadmill", listed[0].Name, "newest first")

	// GetEquipmentByIDs preserves id order and drops missing ids.
	byIDs, err := store.GetEquipmentByIDs(ctx, userID, []string{second.ID, "missing", first.ID})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)
	require.Equal(t, second.ID, byIDs[0].ID)
	require.Equal(t, first.ID, byIDs[1].ID)

	require.NoError(t, store.DeleteEquipment(ctx, userID, first.ID))
	require.ErrorIs(t, store.DeleteEquipment(ctx, userID, first.ID), domain.ErrEquipmentNotFound)
	listed, err = store.ListEquipment(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// Other users never see the catalog.
	other, err := store.ListEquipment(ctx, uuid.NewString(), 10)
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestStorePatternLifecycle(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t, ctx)
	userID := uuid.NewString()

	pattern := domain.TrainingPattern{
		ID:        uuid.NewString(),
		Name:      "Leg day",
		Type:      domain.PatternTraining,
		CreatedAt: time.Now().UnixMilli(),
	}
	require.NoError(t, store.CreatePattern(ctx, userID, pattern))

	got, err := store.GetPattern(ctx, userID, pattern.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Leg day", got.Name)

	pattern.Name = "Leg day v2"
	require.NoError(t, store.UpdatePattern(ctx, userID, pattern))
	got, err = store.GetPattern(ctx, userID, pattern.ID)
	require.NoError(t, err)
	require.Equal(t, "Leg day v2", got.Name)

	missing := pattern
	missing.ID = uuid.NewString()
	require.ErrorIs(t, store.UpdatePattern(ctx, userID, missing), domain.ErrPatternNotFound)

	got, err = store.GetPattern(ctx, userID, "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestStoreSettingsUpsert(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t, ctx)
	userID := uuid.NewString()

	got, err := store.GetSettings(ctx, userID)
	require.NoError(t, err)
	require.Nil(t, got)

	settings := domain.UserSettings{UID: userID, GoalText: "goal one", UpdatedAt: 1}
	require.NoError(t, store.SaveSettings(ctx, userID, settings))
	settings.GoalText = "goal two"
	settings.UpdatedAt = 2
	require.NoError(t, store.SaveSettings(ctx, userID, settings))

	got, err = store.GetSettings(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, "goal two", got.GoalText)
}

func TestStorePlanWritesOutboxEvent(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t, ctx)
	userID := uuid.NewString()

	plan := domain.DailyPlan{
		DateKey:   "2026-01-10",
		PatternID: "p1",
		Theme:     "Leg strength",
		Items:     []domain.PlanItem{{Name: "Squat"}},
		CreatedAt: time.Now().UnixMilli(),
	}
	require.NoError(t, store.SavePlan(ctx, userID, plan))

	got, err := store.GetPlan(ctx, userID, plan.DateKey)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "Leg strength", got.Theme)

	var count int
	err = store.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM outbox WHERE user_id=$1 AND event_type='plan.generated' AND published_at IS NULL`,
		userID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestStoreWorkoutLogAndStamps(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t, ctx)
	userID := uuid.NewString()

	log := domain.WorkoutLog{
		DateKey:   "2026-01-10",
		PatternID: "p1",
		Items:     []domain.WorkoutResultItem{{PlanItem: domain.PlanItem{Name: "Squat"}, Done: true}},
		Completed: true,
		UpdatedAt: time.Now().UnixMilli(),
	}
	require.NoError(t, store.UpsertWorkoutLog(ctx, userID, log))
	require.NoError(t, store.UpsertWorkoutLog(ctx, userID, log))

	logs, err := store.ListRecentWorkoutLogs(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1, "same date upserts, not duplicates")

	var count int
	err = store.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM outbox WHERE user_id=$1 AND event_type='workout.logged'`,
		userID).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 2, count, "every save emits an event")

	stamps := []domain.Stamp{
		{DateKey: "2026-01-08", StampType: domain.StampDone, UpdatedAt: 1},
		{DateKey: "2026-01-09", StampType: domain.StampSkipped, UpdatedAt: 2},
		{DateKey: "2026-01-10", StampType: domain.StampPartial, UpdatedAt: 3},
	}
	for _, st := range stamps {
		require.NoError(t, store.UpsertStamp(ctx, userID, st))
	}
	require.NoError(t, store.UpsertStamp(ctx, userID, domain.Stamp{DateKey: "2026-01-10", StampType: domain.StampDone, UpdatedAt: 4}))

	inRange, err := store.ListStampsInRange(ctx, userID, "2026-01-09", "2026-01-10")
	require.NoError(t, err)
	require.Len(t, inRange, 2)
	require.Equal(t, "2026-01-09", inRange[0].DateKey)
	require.Equal(t, domain.StampDone, inRange[1].StampType, "stamp rewritten on upsert")

	recent, err := store.ListRecentStamps(ctx, userID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "2026-01-10", recent[0].DateKey)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
