package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/conversation-service/internal/domain"
)

type postgresConversationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresConversationRepository instantiates the pgx-backed repository.
func NewPostgresConversationRepository(pool *pgxpool.Pool) ConversationRepository {
	return &postgresConversationRepository{pool: pool}
}

const conversationColumns = `id, customer_id, state, severity, sentiment, intent, current_channel,
    channels_used, assigned_agent_id, assigned_team_id, subject, tags,
    sla_first_response_due_at, sla_resolution_due_at, sla_breached, resolution_id,
    message_count, created_at, updated_at, last_message_at, resolved_at`

func (r *postgresConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) error {
	const query = `
        INSERT INTO conversations (id, customer_id, state, severity, sentiment, intent, current_channel,
            channels_used, assigned_agent_id, assigned_team_id, subject, tags,
            sla_first_response_due_at, sla_resolution_due_at, sla_breached, resolution_id,
            message_count, created_at, updated_at, last_message_at, resolved_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`
	_, err := r.pool.Exec(ctx, query,
		conversation.ID,
		conversation.CustomerID,
		conversation.State,
		conversation.Severity,
		conversation.Sentiment,
		conversation.Intent,
		conversation.CurrentChannel,
		conversation.ChannelsUsed,
		conversation.AssignedAgentID,
		conversation.AssignedTeamID,
		conversation.Subject,
		conversation.Tags,
		conversation.SLA.FirstResponseDueAt,
		conversation.SLA.ResolutionDueAt,
		conversation.SLA.Breached,
		conversation.ResolutionID,
		conversation.MessageCount,
		conversation.CreatedAt,
		conversation.UpdatedAt,
		conversation.LastMessageAt,
		conversation.ResolvedAt,
	)
	return err
}

func (r *postgresConversationRepository) Update(ctx context.Context, conversation *domain.Conversation) error {
	const query = `
        UPDATE conversations SET state=$1, severity=$2, sentiment=$3, intent=$4, current_channel=$5,
            channels_used=$6, assigned_agent_id=$7, assigned_team_id=$8, subject=$9, tags=$10,
            resolution_id=$11, message_count=$12, updated_at=$13, last_message_at=$14, resolved_at=$15
        WHERE id=$16`
	cmd, err := r.pool.Exec(ctx, query,
		conversation.State,
		conversation.Severity,
		conversation.Sentiment,
		conversation.Intent,
		conversation.CurrentChannel,
		conversation.ChannelsUsed,
		conversation.AssignedAgentID,
		conversation.AssignedTeamID,
		conversation.Subject,
		conversation.Tags,
		conversation.ResolutionID,
		conversation.MessageCount,
		conversation.UpdatedAt,
		conversation.LastMessageAt,
		conversation.ResolvedAt,
		conversation.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresConversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE id=$1`, conversationColumns)
	row := r.pool.QueryRow(ctx, query, id)
	conversation, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return conversation, nil
}

func (r *postgresConversationRepository) ListWithFilter(ctx context.Context, filter ConversationFilter) ([]domain.Conversation, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.States) > 0 {
		placeholders := make([]string, len(filter.States))
		for i, state := range filter.States {
			args = append(args, state)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("state IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Severities) > 0 {
		placeholders := make([]string, len(filter.Severities))
		for i, severity := range filter.Severities {
			args = append(args, severity)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("severity IN (%s)", strings.Join(placeholders, ",")))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM conversations WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	number, size := filter.Page.Normalize()
	// Severity sorts by fixed rank, unknown values last; creation order
	// breaks ties.
	query := fmt.Sprintf(`SELECT %s FROM conversations WHERE %s
        ORDER BY CASE severity WHEN 'P0' THEN 0 WHEN 'P1' THEN 1 WHEN 'P2' THEN 2 WHEN 'P3' THEN 3 ELSE 4 END, created_at
        LIMIT %d OFFSET %d`, conversationColumns, where, size, (number-1)*size)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Conversation
	for rows.Next() {
		conversation, err := scanConversation(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *conversation)
	}
	return result, total, rows.Err()
}

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var conversation domain.Conversation
	if err := row.Scan(
		&conversation.ID,
		&conversation.CustomerID,
		&conversation.State,
		&conversation.Severity,
		&conversation.Sentiment,
		&conversation.Intent,
		&conversation.CurrentChannel,
		&conversation.ChannelsUsed,
		&conversation.AssignedAgentID,
		&conversation.AssignedTeamID,
		&conversation.Subject,
		&conversation.Tags,
		&conversation.SLA.FirstResponseDueAt,
		&conversation.SLA.ResolutionDueAt,
		&conversation.SLA.Breached,
		&conversation.ResolutionID,
		&conversation.MessageCount,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
		&conversation.LastMessageAt,
		&conversation.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &conversation, nil
}
