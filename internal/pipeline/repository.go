package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrStageNotFound = errors.New("pipeline stage not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListStages(ctx context.Context, organizationID uuid.UUID) ([]Stage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, organization_id, name, color, position, created_at
		FROM pipeline_stages
		WHERE organization_id = $1
		ORDER BY position, created_at
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	stages := make([]Stage, 0)
	for rows.Next() {
		var stage Stage
		if err := rows.Scan(&stage.ID, &stage.OrganizationID, &stage.Name, &stage.Color, &stage.Position, &stage.CreatedAt); err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, rows.Err()
}

func (r *Repository) CreateStage(ctx context.Context, organizationID uuid.UUID, name, color string, position int) (Stage, error) {
	var stage Stage
	err := r.pool.QueryRow(ctx, `
		INSERT INTO pipeline_stages (organization_id, name, color, position)
		VALUES ($1, $2, $3, $4)
		RETURNING id, organization_id, name, color, position, created_at
	`, organizationID, name, color, position).Scan(
		&stage.ID, &stage.OrganizationID, &stage.Name, &stage.Color, &stage.Position, &stage.CreatedAt,
	)
	if err != nil {
		return Stage{}, fmt.Errorf("create stage: %w", err)
	}
	return stage, nil
}

func (r *Repository) UpdateStage(ctx context.Context, id, organizationID uuid.UUID, name, color *string, position *int) (Stage, error) {
	var stage Stage
	err := r.pool.QueryRow(ctx, `
		UPDATE pipeline_stages SET
			name = COALESCE($1, name),
			color = COALESCE($2, color),
			position = COALESCE($3, position)
		WHERE id = $4 AND organization_id = $5
		RETURNING id, organization_id, name, color, position, created_at
	`, name, color, position, id, organizationID).Scan(
		&stage.ID, &stage.OrganizationID, &stage.Name, &stage.Color, &stage.Position, &stage.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Stage{}, ErrStageNotFound
	}
	if err != nil {
		return Stage{}, fmt.Errorf("update stage: %w", err)
	}
	return stage, nil
}

func (r *Repository) DeleteStage(ctx context.Context, id, organizationID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM pipeline_stages WHERE id = $1 AND organization_id = $2
	`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStageNotFound
	}
	return nil
}

func (r *Repository) CountLeadsInStage(ctx context.Context, id, organizationID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM leads WHERE stage_id = $1 AND organization_id = $2
	`, id, organizationID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count leads in stage: %w", err)
	}
	return count, nil
}

// DefaultStageID returns the first stage by position, seeding the default
// pipeline for organizations that have none yet.
func (r *Repository) DefaultStageID(ctx context.Context, organizationID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM pipeline_stages
		WHERE organization_id = $1
		ORDER BY position, created_at
		LIMIT 1
	`, organizationID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("default stage: %w", err)
	}

	if err := r.SeedDefaultStages(ctx, organizationID); err != nil {
		return uuid.Nil, err
	}
	return r.DefaultStageID(ctx, organizationID)
}

func (r *Repository) StageBelongsToOrganization(ctx context.Context, stageID, organizationID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pipeline_stages WHERE id = $1 AND organization_id = $2
		)
	`, stageID, organizationID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("stage lookup: %w", err)
	}
	return exists, nil
}

func (r *Repository) SeedDefaultStages(ctx context.Context, organizationID uuid.UUID) error {
	batch := &pgx.Batch{}
	for i, stage := range defaultStages {
		batch.Queue(`
			INSERT INTO pipeline_stages (organization_id, name, color, position)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING
		`, organizationID, stage.name, stage.color, i)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range defaultStages {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("seed default stages: %w", err)
		}
	}
	return nil
}
