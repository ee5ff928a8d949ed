package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Scoring queries are kept as constants so the tenant-scope tests can
// assert on the SQL without a live database.
const (
	scoringInputQuery = `
		SELECT l.source, ps.name AS stage_name, l.priority, l.value,
			l.contact_email, l.contact_phone, l.created_at
		FROM leads l
		LEFT JOIN pipeline_stages ps ON l.stage_id = ps.id
		WHERE l.id = $1 AND l.organization_id = $2
	`

	engagementStatsQuery = `
		SELECT
			(SELECT COUNT(*) FROM lead_activities la WHERE la.lead_id = $1) AS activity_count,
			(SELECT MAX(la.created_at) FROM lead_activities la WHERE la.lead_id = $1) AS last_activity_at,
			(SELECT COUNT(*) FROM call_logs cl WHERE cl.lead_id = $1 AND cl.organization_id = $2) AS call_count
	`

	saveScoreQuery = `
		UPDATE leads
		SET lead_score = $1, last_activity_at = $2, updated_at = NOW()
		WHERE id = $3 AND organization_id = $4
	`

	listLeadIDsQuery = `
		SELECT id FROM leads WHERE organization_id = $1 ORDER BY created_at
	`
)

// ScoringInput carries the lead attributes the score is computed from.
type ScoringInput struct {
	Source       *string
	StageName    *string
	Priority     *string
	Value        *float64
	ContactEmail *string
	ContactPhone *string
	CreatedAt    time.Time
}

// EngagementStats aggregates the lead's activity and call history.
type EngagementStats struct {
	ActivityCount  int
	LastActivityAt *time.Time
	CallCount      int
}

func (r *Repository) GetForScoring(ctx context.Context, leadID uuid.UUID, organizationID uuid.UUID) (ScoringInput, error) {
	var input ScoringInput
	err := r.pool.QueryRow(ctx, scoringInputQuery, leadID, organizationID).Scan(
		&input.Source, &input.StageName, &input.Priority, &input.Value,
		&input.ContactEmail, &input.ContactPhone, &input.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ScoringInput{}, ErrNotFound
	}
	if err != nil {
		return ScoringInput{}, fmt.Errorf("get lead for scoring: %w", err)
	}
	return input, nil
}

func (r *Repository) GetEngagementStats(ctx context.Context, leadID uuid.UUID, organizationID uuid.UUID) (EngagementStats, error) {
	var stats EngagementStats
	err := r.pool.QueryRow(ctx, engagementStatsQuery, leadID, organizationID).Scan(
		&stats.ActivityCount, &stats.LastActivityAt, &stats.CallCount,
	)
	if err != nil {
		return EngagementStats{}, fmt.Errorf("get engagement stats: %w", err)
	}
	return stats, nil
}

// SaveScore persists the computed score together with the timestamp of the
// most recent activity, or clears it when the lead has none.
func (r *Repository) SaveScore(ctx context.Context, leadID uuid.UUID, organizationID uuid.UUID, score int, lastActivityAt *time.Time) error {
	tag, err := r.pool.Exec(ctx, saveScoreQuery, score, lastActivityAt, leadID, organizationID)
	if err != nil {
		return fmt.Errorf("save lead score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListLeadIDs(ctx context.Context, organizationID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, listLeadIDsQuery, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list lead ids: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
