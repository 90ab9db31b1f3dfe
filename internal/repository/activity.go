package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
)

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) UpsertBatch(ctx context.Context, athleteID int64, activities []models.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO activities (id, athlete_id, name, type, distance, total_elevation_gain,
			moving_time, kudos_count, start_date, start_unix, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			athlete_id = excluded.athlete_id,
			name = excluded.name,
			type = excluded.type,
			distance = excluded.distance,
			total_elevation_gain = excluded.total_elevation_gain,
			moving_time = excluded.moving_time,
			kudos_count = excluded.kudos_count,
			start_date = excluded.start_date,
			start_unix = excluded.start_unix,
			synced_at = excluded.synced_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	syncedAt := time.Now().Unix()
	for _, a := range activities {
		var startUnix sql.NullInt64
		if t, err := a.StartTime(); err == nil {
			startUnix = sql.NullInt64{Int64: t.Unix(), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			a.ID, athleteID, a.Name, a.Type,
			nullFloat(a.Distance), nullFloat(a.TotalElevationGain), nullFloat(a.MovingTime),
			nullInt(a.KudosCount), a.StartDate, startUnix, syncedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert activity %d: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit activities: %w", err)
	}
	return nil
}

func (r *activityRepository) GetByAthleteAndRange(ctx context.Context, athleteID int64, from, to time.Time) ([]models.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, distance, total_elevation_gain, moving_time, kudos_count, start_date
		FROM activities
		WHERE athlete_id = ?
		  AND ((start_unix >= ? AND start_unix < ?) OR start_unix IS NULL)
		ORDER BY start_unix IS NULL, start_unix, id`,
		athleteID, from.Unix(), to.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	activities := make([]models.Activity, 0)
	for rows.Next() {
		var (
			a                               models.Activity
			distance, elevation, movingTime sql.NullFloat64
			kudos                           sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &distance, &elevation, &movingTime, &kudos, &a.StartDate); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.Distance = fromNullFloat(distance)
		a.TotalElevationGain = fromNullFloat(elevation)
		a.MovingTime = fromNullFloat(movingTime)
		if kudos.Valid {
			a.KudosCount = models.NewNullableInt(kudos.Int64)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}
	return activities, nil
}

func (r *activityRepository) CountByAthlete(ctx context.Context, athleteID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities WHERE athlete_id = ?`, athleteID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return n, nil
}

func nullFloat(v models.NullableFloat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Value, Valid: v.Valid}
}

func nullInt(v models.NullableInt) sql.NullInt64 {
	return sql.NullInt64{Int64: v.Value, Valid: v.Valid}
}

// fromNullFloat maps SQL NULL back to an absent value so the stats engine
// still reports it as missing.
func fromNullFloat(v sql.NullFloat64) models.NullableFloat {
	if !v.Valid {
		return models.NullableFloat{}
	}
	return models.NewNullableFloat(v.Float64)
}
