package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/conversation-service/internal/domain"
)

type postgresMessageRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMessageRepository instantiates the pgx-backed repository.
func NewPostgresMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &postgresMessageRepository{pool: pool}
}

func (r *postgresMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	const query = `
        INSERT INTO messages (id, conversation_id, channel, direction, sender_type, sender_id,
            content, content_type, status, created_at, seq)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
            (SELECT COALESCE(MAX(seq),0)+1 FROM messages WHERE conversation_id=$2))`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.ConversationID,
		message.Channel,
		message.Direction,
		message.SenderType,
		message.SenderID,
		message.Content,
		message.ContentType,
		message.Status,
		message.CreatedAt,
	)
	return err
}

func (r *postgresMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	const query = `
        SELECT id, conversation_id, channel, direction, sender_type, sender_id,
               content, content_type, status, created_at
        FROM messages WHERE conversation_id=$1 ORDER BY seq`
	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var message domain.Message
		if err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.Channel,
			&message.Direction,
			&message.SenderType,
			&message.SenderID,
			&message.Content,
			&message.ContentType,
			&message.Status,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

func (r *postgresMessageRepository) CountByConversation(ctx context.Context, conversationID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages WHERE conversation_id=$1`, conversationID).Scan(&count)
	return count, err
}
