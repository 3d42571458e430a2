package repository

import (
	"context"
	"database/sql"

	"hallbook/internal/database"
	"hallbook/internal/models"
)

type HallRepository struct {
	db *database.DB
}

func NewHallRepository(db *database.DB) *HallRepository {
	return &HallRepository{db: db}
}

func (r *HallRepository) Create(ctx context.Context, hall *models.WeddingHall) error {
	query := `
		INSERT INTO wedding_halls (center_id, name, address, capacity, description, image_url, technical_details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		hall.CenterID,
		hall.Name,
		hall.Address,
		hall.Capacity,
		hall.Description,
		hall.ImageURL,
		hall.TechnicalDetails,
	).Scan(&hall.ID, &hall.CreatedAt, &hall.UpdatedAt)
}

func (r *HallRepository) GetByID(ctx context.Context, id int64) (*models.WeddingHall, error) {
	hall := &models.WeddingHall{}
	query := `
		SELECT id, center_id, name, address, capacity, description, image_url, technical_details, created_at, updated_at
		FROM wedding_halls
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&hall.ID,
		&hall.CenterID,
		&hall.Name,
		&hall.Address,
		&hall.Capacity,
		&hall.Description,
		&hall.ImageURL,
		&hall.TechnicalDetails,
		&hall.CreatedAt,
		&hall.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return hall, err
}

// ListByCenterID returns the halls belonging to a center. Callers must
// reject a zero center id before calling; a zero id would match every
// unassigned hall.
func (r *HallRepository) ListByCenterID(ctx context.Context, centerID int64) ([]models.WeddingHall, error) {
	query := `
		SELECT id, center_id, name, address, capacity, description, image_url, technical_details, created_at, updated_at
		FROM wedding_halls
		WHERE center_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, centerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHalls(rows)
}

func (r *HallRepository) List(ctx context.Context) ([]models.WeddingHall, error) {
	query := `
		SELECT id, center_id, name, address, capacity, description, image_url, technical_details, created_at, updated_at
		FROM wedding_halls
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHalls(rows)
}

func scanHalls(rows *sql.Rows) ([]models.WeddingHall, error) {
	var halls []models.WeddingHall
	for rows.Next() {
		var hall models.WeddingHall
		err := rows.Scan(
			&hall.ID,
			&hall.CenterID,
			&hall.Name,
			&hall.Address,
			&hall.Capacity,
			&hall.Description,
			&hall.ImageURL,
			&hall.TechnicalDetails,
			&hall.CreatedAt,
			&hall.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		halls = append(halls, hall)
	}
	return halls, rows.Err()
}

func (r *HallRepository) Update(ctx context.Context, hall *models.WeddingHall) error {
	query := `
		UPDATE wedding_halls
		SET center_id = $1, name = $2, address = $3, capacity = $4, description = $5,
		    image_url = $6, technical_details = $7, updated_at = NOW()
		WHERE id = $8`

	_, err := r.db.ExecContext(ctx, query,
		hall.CenterID,
		hall.Name,
		hall.Address,
		hall.Capacity,
		hall.Description,
		hall.ImageURL,
		hall.TechnicalDetails,
		hall.ID,
	)

	return err
}

func (r *HallRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM wedding_halls WHERE id = $1`, id)
	return err
}
