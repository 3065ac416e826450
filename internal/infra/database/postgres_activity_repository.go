package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"routine_bot/internal/domain/activity"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// ErrActivityNotFound is returned when no activity instance with the given
// id belongs to the given user.
var ErrActivityNotFound = fmt.Errorf("activity instance not found")

const dateLayout = "2006-01-02"

type PostgresActivityRepository struct {
	db  *sql.DB
	loc *time.Location
}

// NewPostgresActivityRepository builds the repository. loc is the anchor
// timezone used to materialize DATE columns as local midnights.
func NewPostgresActivityRepository(db *sql.DB, loc *time.Location) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db, loc: loc}
}

// BulkInsert stores all instances inside one transaction so a failing write
// leaves no partial day behind. IDs and creation times are assigned from the
// database.
func (r *PostgresActivityRepository) BulkInsert(ctx context.Context, instances []*activity.Instance) error {
	if len(instances) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for activity insert: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	stmt, err := txn.PrepareContext(ctx, `INSERT INTO daily_activities (user_id, date, category, name, scheduled_time, completed, notes)
                                         VALUES ($1, $2, $3, $4, $5, FALSE, $6)
                                         RETURNING id, created_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for activity insert: %w", err)
	}
	defer stmt.Close()

	for _, inst := range instances {
		err := stmt.QueryRowContext(ctx,
			inst.UserID, inst.Date.Format(dateLayout), inst.Category, inst.Name, inst.ScheduledTime, inst.Notes,
		).Scan(&inst.ID, &inst.CreatedAt)
		if err != nil {
			return fmt.Errorf("error inserting activity (user %d, %s at %s): %w",
				inst.UserID, inst.Category, inst.ScheduledTime, err)
		}
	}

	return txn.Commit()
}

// Complete marks the instance done. The first completion time sticks; repeat
// calls affect the row but change nothing, so the operation is idempotent.
func (r *PostgresActivityRepository) Complete(ctx context.Context, id int64, userID int64, at time.Time) error {
	query := `UPDATE daily_activities
               SET completed = TRUE,
                   completion_time = CASE WHEN completed THEN completion_time ELSE $1 END
               WHERE id = $2 AND user_id = $3`

	res, err := r.db.ExecContext(ctx, query, at, id, userID)
	if err != nil {
		return fmt.Errorf("error completing activity %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking completion of activity %d: %w", id, err)
	}
	if affected == 0 {
		return ErrActivityNotFound
	}
	return nil
}

func (r *PostgresActivityRepository) ListForDate(ctx context.Context, userID int64, date time.Time) ([]*activity.Instance, error) {
	query := `SELECT id, user_id, date, category, name, scheduled_time, completed, completion_time, notes, created_at
               FROM daily_activities
               WHERE user_id = $1 AND date = $2
               ORDER BY scheduled_time, id`
	rows, err := r.db.QueryContext(ctx, query, userID, date.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("error listing activities for date: %w", err)
	}
	defer rows.Close()
	return r.scanInstances(rows)
}

func (r *PostgresActivityRepository) ListForDateRange(ctx context.Context, userID int64, start, end time.Time) ([]*activity.Instance, error) {
	query := `SELECT id, user_id, date, category, name, scheduled_time, completed, completion_time, notes, created_at
               FROM daily_activities
               WHERE user_id = $1 AND date BETWEEN $2 AND $3
               ORDER BY date, scheduled_time, id`
	rows, err := r.db.QueryContext(ctx, query, userID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("error listing activities for date range: %w", err)
	}
	defer rows.Close()
	return r.scanInstances(rows)
}

func (r *PostgresActivityRepository) scanInstances(rows *sql.Rows) ([]*activity.Instance, error) {
	instances := make([]*activity.Instance, 0)
	for rows.Next() {
		inst := &activity.Instance{}
		var date time.Time
		if err := rows.Scan(
			&inst.ID, &inst.UserID, &date, &inst.Category, &inst.Name,
			&inst.ScheduledTime, &inst.Completed, &inst.CompletionTime, &inst.Notes, &inst.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning activity row: %w", err)
		}
		// DATE columns come back as UTC midnights; rebuild in the anchor zone.
		inst.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, r.loc)
		instances = append(instances, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return instances, nil
}
