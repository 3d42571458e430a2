package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hallbook/internal/apperrors"
	"hallbook/internal/database"
	"hallbook/internal/models"
)

type ScheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// lockHall serializes writers on one hall. All schedule mutations and the
// approval transaction take this lock first, so a check-then-write sequence
// always observes the previous writer's committed rows.
func lockHall(ctx context.Context, tx *sql.Tx, hallID int64) error {
	var locked int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM wedding_halls WHERE id = $1 FOR UPDATE`, hallID).Scan(&locked)
	if err == sql.ErrNoRows {
		return fmt.Errorf("hall %d: %w", hallID, apperrors.ErrNotFound)
	}
	return err
}

// consumeAvailable deletes the Available rows the new range covers, so a
// write over a pre-populated grid slot replaces the grid row instead of
// colliding with it. Runs inside the caller's transaction, after the hall
// lock. excludeID protects the row being updated from deleting itself.
func consumeAvailable(ctx context.Context, tx *sql.Tx, hallID int64, date, start, end string, excludeID int64) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM schedules
		WHERE wedding_hall_id = $1 AND date = $2
		  AND start_time < $4 AND $3 < end_time
		  AND status = 'Available'
		  AND id <> $5`,
		hallID, date, start, end, excludeID)
	return err
}

// existsOverlap runs the half-open interval intersection test inside the
// caller's transaction: existing.start < end AND start < existing.end.
// excludeID skips one row so an update can check against everything but
// itself; zero never matches a real id.
func existsOverlap(ctx context.Context, tx *sql.Tx, hallID int64, date, start, end string, excludeID int64) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM schedules
			WHERE wedding_hall_id = $1 AND date = $2
			  AND start_time < $4 AND $3 < end_time
			  AND id <> $5
		)`

	err := tx.QueryRowContext(ctx, query, hallID, date, start, end, excludeID).Scan(&exists)
	return exists, err
}

func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockHall(ctx, tx, schedule.WeddingHallID); err != nil {
		return err
	}

	if err := consumeAvailable(ctx, tx, schedule.WeddingHallID, schedule.Date, schedule.StartTime, schedule.EndTime, 0); err != nil {
		return err
	}

	overlap, err := existsOverlap(ctx, tx, schedule.WeddingHallID, schedule.Date, schedule.StartTime, schedule.EndTime, 0)
	if err != nil {
		return err
	}
	if overlap {
		return fmt.Errorf("slot %s %s-%s already taken: %w",
			schedule.Date, schedule.StartTime, schedule.EndTime, apperrors.ErrConflict)
	}

	insertQuery := `
		INSERT INTO schedules (wedding_hall_id, date, start_time, end_time, status, created_by_user_id, event_type, event_name, event_owner)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowContext(ctx, insertQuery,
		schedule.WeddingHallID,
		schedule.Date,
		schedule.StartTime,
		schedule.EndTime,
		schedule.Status,
		schedule.CreatedByUserID,
		schedule.EventType,
		schedule.EventName,
		schedule.EventOwner,
	).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// CreateBatch inserts pre-built rows in one transaction. Used for the
// availability grid written at hall creation; no overlap checks, the grid
// generator spaces its slots.
func (r *ScheduleRepository) CreateBatch(ctx context.Context, schedules []models.Schedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO schedules (wedding_hall_id, date, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)`

	for _, s := range schedules {
		if _, err := tx.ExecContext(ctx, insertQuery,
			s.WeddingHallID, s.Date, s.StartTime, s.EndTime, s.Status); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule := &models.Schedule{}
	query := `
		SELECT id, wedding_hall_id, date, start_time, end_time, status, created_by_user_id,
		       event_type, event_name, event_owner, created_at, updated_at
		FROM schedules
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&schedule.ID,
		&schedule.WeddingHallID,
		&schedule.Date,
		&schedule.StartTime,
		&schedule.EndTime,
		&schedule.Status,
		&schedule.CreatedByUserID,
		&schedule.EventType,
		&schedule.EventName,
		&schedule.EventOwner,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return schedule, err
}

func (r *ScheduleRepository) ListByHall(ctx context.Context, hallID int64, date *string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	var args []interface{}

	query := `
		SELECT id, wedding_hall_id, date, start_time, end_time, status, created_by_user_id,
		       event_type, event_name, event_owner, created_at, updated_at
		FROM schedules
		WHERE wedding_hall_id = $1`
	args = append(args, hallID)

	if date != nil {
		query += ` AND date = $2`
		args = append(args, *date)
	}

	query += ` ORDER BY date, start_time`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Schedule
		err := rows.Scan(
			&s.ID,
			&s.WeddingHallID,
			&s.Date,
			&s.StartTime,
			&s.EndTime,
			&s.Status,
			&s.CreatedByUserID,
			&s.EventType,
			&s.EventName,
			&s.EventOwner,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}

func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockHall(ctx, tx, schedule.WeddingHallID); err != nil {
		return err
	}

	if err := consumeAvailable(ctx, tx, schedule.WeddingHallID, schedule.Date, schedule.StartTime, schedule.EndTime, schedule.ID); err != nil {
		return err
	}

	overlap, err := existsOverlap(ctx, tx, schedule.WeddingHallID, schedule.Date, schedule.StartTime, schedule.EndTime, schedule.ID)
	if err != nil {
		return err
	}
	if overlap {
		return fmt.Errorf("slot %s %s-%s already taken: %w",
			schedule.Date, schedule.StartTime, schedule.EndTime, apperrors.ErrConflict)
	}

	updateQuery := `
		UPDATE schedules
		SET date = $1, start_time = $2, end_time = $3, status = $4,
		    event_type = $5, event_name = $6, event_owner = $7, updated_at = NOW()
		WHERE id = $8`

	result, err := tx.ExecContext(ctx, updateQuery,
		schedule.Date,
		schedule.StartTime,
		schedule.EndTime,
		schedule.Status,
		schedule.EventType,
		schedule.EventName,
		schedule.EventOwner,
		schedule.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("schedule %d: %w", schedule.ID, apperrors.ErrNotFound)
	}

	return tx.Commit()
}

func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("schedule %d: %w", id, apperrors.ErrNotFound)
	}

	return nil
}

// DeleteAll wipes every schedule row and reports how many were removed.
func (r *ScheduleRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedules`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
