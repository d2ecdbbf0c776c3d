package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/conversation-service/internal/domain"
)

type postgresAgentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAgentRepository instantiates the pgx-backed repository.
func NewPostgresAgentRepository(pool *pgxpool.Pool) AgentRepository {
	return &postgresAgentRepository{pool: pool}
}

func (r *postgresAgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	const query = `
        INSERT INTO agents (id, name, email, role, password_hash, team_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (email) DO NOTHING`
	_, err := r.pool.Exec(ctx, query,
		agent.ID,
		agent.Name,
		agent.Email,
		agent.Role,
		agent.PasswordHash,
		agent.TeamID,
		agent.CreatedAt,
	)
	return err
}

func (r *postgresAgentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	const query = `
        SELECT id, name, email, role, password_hash, team_id, created_at FROM agents WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *postgresAgentRepository) GetByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	const query = `
        SELECT id, name, email, role, password_hash, team_id, created_at FROM agents WHERE LOWER(email)=LOWER($1)`
	return r.fetchSingle(ctx, query, email)
}

func (r *postgresAgentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Agent, error) {
	var agent domain.Agent
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&agent.ID,
		&agent.Name,
		&agent.Email,
		&agent.Role,
		&agent.PasswordHash,
		&agent.TeamID,
		&agent.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &agent, nil
}
