package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const scoreDistributionQuery = `
	SELECT
		COUNT(*) FILTER (WHERE lead_score >= 70) AS hot,
		COUNT(*) FILTER (WHERE lead_score >= 40 AND lead_score < 70) AS warm,
		COUNT(*) FILTER (WHERE lead_score < 40) AS cold,
		COUNT(*) AS total,
		COALESCE(AVG(lead_score), 0) AS average
	FROM leads
	WHERE organization_id = $1
`

const stageScoreQuery = `
	SELECT ps.name, COUNT(l.id), COALESCE(AVG(l.lead_score), 0)
	FROM pipeline_stages ps
	LEFT JOIN leads l ON l.stage_id = ps.id AND l.organization_id = ps.organization_id
	WHERE ps.organization_id = $1
	GROUP BY ps.id, ps.name, ps.position
	ORDER BY ps.position
`

type ScoreDistribution struct {
	Hot     int     `json:"hot"`
	Warm    int     `json:"warm"`
	Cold    int     `json:"cold"`
	Total   int     `json:"total"`
	Average float64 `json:"average"`
}

type StageScore struct {
	Stage        string  `json:"stage"`
	LeadCount    int     `json:"leadCount"`
	AverageScore float64 `json:"averageScore"`
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ScoreDistribution(ctx context.Context, organizationID uuid.UUID) (ScoreDistribution, error) {
	var dist ScoreDistribution
	err := r.pool.QueryRow(ctx, scoreDistributionQuery, organizationID).Scan(
		&dist.Hot, &dist.Warm, &dist.Cold, &dist.Total, &dist.Average,
	)
	if err != nil {
		return ScoreDistribution{}, fmt.Errorf("score distribution: %w", err)
	}
	return dist, nil
}

func (r *Repository) StageScores(ctx context.Context, organizationID uuid.UUID) ([]StageScore, error) {
	rows, err := r.pool.Query(ctx, stageScoreQuery, organizationID)
	if err != nil {
		return nil, fmt.Errorf("stage scores: %w", err)
	}
	defer rows.Close()

	scores := make([]StageScore, 0)
	for rows.Next() {
		var score StageScore
		if err := rows.Scan(&score.Stage, &score.LeadCount, &score.AverageScore); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}
