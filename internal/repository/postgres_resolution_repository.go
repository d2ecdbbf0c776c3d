package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/conversation-service/internal/domain"
)

type postgresResolutionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresResolutionRepository instantiates the pgx-backed repository.
// The timeline is stored as a JSONB column to keep the append-only sequence
// in one row with the record it belongs to.
func NewPostgresResolutionRepository(pool *pgxpool.Pool) ResolutionRepository {
	return &postgresResolutionRepository{pool: pool}
}

const resolutionColumns = `id, conversation_id, customer_id, title, description, issue_type, priority,
    status, assigned_team_id, assigned_engineer_id, root_cause, affected_systems, timeline,
    created_at, updated_at, resolved_at`

func (r *postgresResolutionRepository) Create(ctx context.Context, resolution *domain.Resolution) error {
	timeline, err := json.Marshal(resolution.Timeline)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO resolutions (id, conversation_id, customer_id, title, description, issue_type, priority,
            status, assigned_team_id, assigned_engineer_id, root_cause, affected_systems, timeline,
            created_at, updated_at, resolved_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err = r.pool.Exec(ctx, query,
		resolution.ID,
		resolution.ConversationID,
		resolution.CustomerID,
		resolution.Title,
		resolution.Description,
		resolution.IssueType,
		resolution.Priority,
		resolution.Status,
		resolution.AssignedTeamID,
		resolution.AssignedEngineerID,
		resolution.RootCause,
		resolution.AffectedSystems,
		timeline,
		resolution.CreatedAt,
		resolution.UpdatedAt,
		resolution.ResolvedAt,
	)
	return err
}

func (r *postgresResolutionRepository) Update(ctx context.Context, resolution *domain.Resolution) error {
	timeline, err := json.Marshal(resolution.Timeline)
	if err != nil {
		return err
	}
	const query = `
        UPDATE resolutions SET title=$1, description=$2, issue_type=$3, priority=$4, status=$5,
            assigned_team_id=$6, assigned_engineer_id=$7, root_cause=$8, affected_systems=$9,
            timeline=$10, updated_at=$11, resolved_at=$12
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		resolution.Title,
		resolution.Description,
		resolution.IssueType,
		resolution.Priority,
		resolution.Status,
		resolution.AssignedTeamID,
		resolution.AssignedEngineerID,
		resolution.RootCause,
		resolution.AffectedSystems,
		timeline,
		resolution.UpdatedAt,
		resolution.ResolvedAt,
		resolution.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresResolutionRepository) GetByID(ctx context.Context, id string) (*domain.Resolution, error) {
	query := `SELECT ` + resolutionColumns + ` FROM resolutions WHERE id=$1`
	resolution, err := scanResolution(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return resolution, nil
}

func (r *postgresResolutionRepository) List(ctx context.Context, page Page) ([]domain.Resolution, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM resolutions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	number, size := page.Normalize()
	query := `SELECT ` + resolutionColumns + ` FROM resolutions ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, size, (number-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	resolutions := []domain.Resolution{}
	for rows.Next() {
		resolution, err := scanResolution(rows)
		if err != nil {
			return nil, 0, err
		}
		resolutions = append(resolutions, *resolution)
	}
	return resolutions, total, rows.Err()
}

func scanResolution(row pgx.Row) (*domain.Resolution, error) {
	var resolution domain.Resolution
	var timeline []byte
	if err := row.Scan(
		&resolution.ID,
		&resolution.ConversationID,
		&resolution.CustomerID,
		&resolution.Title,
		&resolution.Description,
		&resolution.IssueType,
		&resolution.Priority,
		&resolution.Status,
		&resolution.AssignedTeamID,
		&resolution.AssignedEngineerID,
		&resolution.RootCause,
		&resolution.AffectedSystems,
		&timeline,
		&resolution.CreatedAt,
		&resolution.UpdatedAt,
		&resolution.ResolvedAt,
	); err != nil {
		return nil, err
	}
	if len(timeline) > 0 {
		if err := json.Unmarshal(timeline, &resolution.Timeline); err != nil {
			return nil, err
		}
	}
	return &resolution, nil
}
