package repository

import (
	"context"

	"hallbook/internal/database"
	"hallbook/internal/models"
)

type MessageRepository struct {
	db *database.DB
}

func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (request_id, sender_user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		message.RequestID,
		message.SenderUserID,
		message.Content,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *MessageRepository) ListByRequestID(ctx context.Context, requestID int64) ([]models.Message, error) {
	var messages []models.Message
	query := `
		SELECT id, request_id, sender_user_id, content, created_at
		FROM messages
		WHERE request_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var message models.Message
		err := rows.Scan(
			&message.ID,
			&message.RequestID,
			&message.SenderUserID,
			&message.Content,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

func (r *MessageRepository) DeleteByRequestID(ctx context.Context, requestID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE request_id = $1`, requestID)
	return err
}
