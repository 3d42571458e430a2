package repository

import (
	"context"
	"fmt"

	"hallbook/internal/database"
	"hallbook/internal/models"
)

type HallAccessRepository struct {
	db *database.DB
}

func NewHallAccessRepository(db *database.DB) *HallAccessRepository {
	return &HallAccessRepository{db: db}
}

// HasAccess reports whether a grant exists for the (hall, user) pair.
func (r *HallAccessRepository) HasAccess(ctx context.Context, hallID, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM hall_access WHERE hall_id = $1 AND user_id = $2)`

	err := r.db.QueryRowContext(ctx, query, hallID, userID).Scan(&exists)
	return exists, err
}

func (r *HallAccessRepository) ListByHall(ctx context.Context, hallID int64) ([]models.HallAccess, error) {
	var grants []models.HallAccess
	query := `
		SELECT id, hall_id, user_id, created_at
		FROM hall_access
		WHERE hall_id = $1
		ORDER BY user_id ASC`

	rows, err := r.db.QueryContext(ctx, query, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var grant models.HallAccess
		if err := rows.Scan(&grant.ID, &grant.HallID, &grant.UserID, &grant.CreatedAt); err != nil {
			return nil, err
		}
		grants = append(grants, grant)
	}

	return grants, rows.Err()
}

// ReplaceForHall rewrites the hall's grants wholesale: every existing row is
// deleted, then one row per user id is inserted. The hall row is locked for
// the duration so two resyncs of the same hall cannot interleave, while
// read-only HasAccess queries proceed unblocked. The unique constraint plus
// ON CONFLICT keeps the result free of duplicate pairs.
func (r *HallAccessRepository) ReplaceForHall(ctx context.Context, hallID int64, userIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var locked int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM wedding_halls WHERE id = $1 FOR UPDATE`, hallID).Scan(&locked)
	if err != nil {
		return fmt.Errorf("failed to lock hall %d: %w", hallID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM hall_access WHERE hall_id = $1`, hallID); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO hall_access (hall_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (hall_id, user_id) DO NOTHING`
	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx, insertQuery, hallID, userID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *HallAccessRepository) DeleteForHall(ctx context.Context, hallID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM hall_access WHERE hall_id = $1`, hallID)
	return err
}
