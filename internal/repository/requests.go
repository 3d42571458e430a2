package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hallbook/internal/apperrors"
	"hallbook/internal/database"
	"hallbook/internal/models"
)

type RequestRepository struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, request *models.Request) error {
	query := `
		INSERT INTO requests (wedding_hall_id, created_by_user_id, message, status, event_type, event_name, event_owner, event_date, event_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		request.WeddingHallID,
		request.CreatedByUserID,
		request.Message,
		request.Status,
		request.EventType,
		request.EventName,
		request.EventOwner,
		request.EventDate,
		request.EventTime,
	).Scan(&request.ID, &request.CreatedAt)
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	request := &models.Request{}
	query := `
		SELECT id, wedding_hall_id, created_by_user_id, message, status,
		       event_type, event_name, event_owner, event_date, event_time, created_at
		FROM requests
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&request.ID,
		&request.WeddingHallID,
		&request.CreatedByUserID,
		&request.Message,
		&request.Status,
		&request.EventType,
		&request.EventName,
		&request.EventOwner,
		&request.EventDate,
		&request.EventTime,
		&request.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return request, err
}

func (r *RequestRepository) List(ctx context.Context, hallID *int64, status *string) ([]models.Request, error) {
	var requests []models.Request
	var args []interface{}
	argIndex := 1

	query := `
		SELECT id, wedding_hall_id, created_by_user_id, message, status,
		       event_type, event_name, event_owner, event_date, event_time, created_at
		FROM requests
		WHERE 1=1`

	if hallID != nil {
		query += fmt.Sprintf(" AND wedding_hall_id = $%d", argIndex)
		args = append(args, *hallID)
		argIndex++
	}

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var request models.Request
		err := rows.Scan(
			&request.ID,
			&request.WeddingHallID,
			&request.CreatedByUserID,
			&request.Message,
			&request.Status,
			&request.EventType,
			&request.EventName,
			&request.EventOwner,
			&request.EventDate,
			&request.EventTime,
			&request.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}

func (r *RequestRepository) Update(ctx context.Context, request *models.Request) error {
	query := `
		UPDATE requests
		SET message = $1, event_type = $2, event_name = $3, event_owner = $4,
		    event_date = $5, event_time = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		request.Message,
		request.EventType,
		request.EventName,
		request.EventOwner,
		request.EventDate,
		request.EventTime,
		request.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("request %d: %w", request.ID, apperrors.ErrNotFound)
	}

	return nil
}

// lockPending locks the request row and verifies it still awaits a decision.
func lockPending(ctx context.Context, tx *sql.Tx, requestID int64) error {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT status FROM requests WHERE id = $1 FOR UPDATE`, requestID).Scan(&status)
	if err == sql.ErrNoRows {
		return fmt.Errorf("request %d: %w", requestID, apperrors.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if status != models.RequestPending {
		return fmt.Errorf("request %d is %s: %w", requestID, status, apperrors.ErrConflict)
	}
	return nil
}

// Approve converts a pending request into a reserved schedule. Everything
// happens in one transaction: the request row lock prevents a double
// decision on the same request, and the hall row lock serializes approvals
// per hall so the overlap check sees any concurrently committed schedule.
// On conflict nothing is written and the request stays Pending.
func (r *RequestRepository) Approve(ctx context.Context, requestID int64, schedule *models.Schedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockPending(ctx, tx, requestID); err != nil {
		return err
	}

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

	if _, err := tx.ExecContext(ctx,
		`UPDATE requests SET status = $1 WHERE id = $2`, models.RequestAnswered, requestID); err != nil {
		return err
	}

	return tx.Commit()
}

// Reject moves a pending request to the Rejected terminal state. A non-empty
// annotation is appended to the stored message inside the same transaction.
func (r *RequestRepository) Reject(ctx context.Context, requestID int64, annotation string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockPending(ctx, tx, requestID); err != nil {
		return err
	}

	if annotation != "" {
		_, err = tx.ExecContext(ctx,
			`UPDATE requests SET status = $1, message = message || $2 WHERE id = $3`,
			models.RequestRejected, annotation, requestID)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE requests SET status = $1 WHERE id = $2`,
			models.RequestRejected, requestID)
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Answer marks a pending request answered without any schedule side effect.
func (r *RequestRepository) Answer(ctx context.Context, requestID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockPending(ctx, tx, requestID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE requests SET status = $1 WHERE id = $2`, models.RequestAnswered, requestID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("request %d: %w", id, apperrors.ErrNotFound)
	}

	return nil
}
