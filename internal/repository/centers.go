package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hallbook/internal/database"
	"hallbook/internal/models"
)

type CenterRepository struct {
	db *database.DB
}

func NewCenterRepository(db *database.DB) *CenterRepository {
	return &CenterRepository{db: db}
}

func (r *CenterRepository) Create(ctx context.Context, center *models.Center) error {
	query := `
		INSERT INTO centers (name, address, description, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		center.Name,
		center.Address,
		center.Description,
		center.ImageURL,
	).Scan(&center.ID, &center.CreatedAt)
}

func (r *CenterRepository) GetByID(ctx context.Context, id int64) (*models.Center, error) {
	center := &models.Center{}
	query := `
		SELECT id, name, address, description, image_url, created_at
		FROM centers
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&center.ID,
		&center.Name,
		&center.Address,
		&center.Description,
		&center.ImageURL,
		&center.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return center, err
}

func (r *CenterRepository) List(ctx context.Context) ([]models.Center, error) {
	var centers []models.Center
	query := `
		SELECT id, name, address, description, image_url, created_at
		FROM centers
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var center models.Center
		err := rows.Scan(
			&center.ID,
			&center.Name,
			&center.Address,
			&center.Description,
			&center.ImageURL,
			&center.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		centers = append(centers, center)
	}

	return centers, rows.Err()
}

func (r *CenterRepository) Update(ctx context.Context, center *models.Center) error {
	query := `
		UPDATE centers
		SET name = $1, address = $2, description = $3, image_url = $4
		WHERE id = $5`

	_, err := r.db.ExecContext(ctx, query,
		center.Name,
		center.Address,
		center.Description,
		center.ImageURL,
		center.ID,
	)

	return err
}

func (r *CenterRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM centers WHERE id = $1`, id)
	return err
}

// GetEditorIDs returns the explicit center-level editor grants.
func (r *CenterRepository) GetEditorIDs(ctx context.Context, centerID int64) ([]int64, error) {
	var ids []int64
	query := `SELECT user_id FROM center_editors WHERE center_id = $1 ORDER BY user_id`

	rows, err := r.db.QueryContext(ctx, query, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// ReplaceEditorIDs rewrites the center's editor set wholesale. The center
// row is locked so two concurrent rewrites cannot interleave.
func (r *CenterRepository) ReplaceEditorIDs(ctx context.Context, centerID int64, userIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var locked int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM centers WHERE id = $1 FOR UPDATE`, centerID).Scan(&locked)
	if err != nil {
		return fmt.Errorf("failed to lock center %d: %w", centerID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM center_editors WHERE center_id = $1`, centerID); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO center_editors (center_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (center_id, user_id) DO NOTHING`
	for _, userID := range userIDs {
		if _, err := tx.ExecContext(ctx, insertQuery, centerID, userID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
