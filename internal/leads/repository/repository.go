package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                uuid.UUID
	OrganizationID    uuid.UUID
	Title             string
	Value             *float64
	StageID           *uuid.UUID
	StageName         *string
	Status            string
	Source            *string
	Priority          *string
	AssignedTo        *uuid.UUID
	ContactName       *string
	ContactEmail      *string
	ContactPhone      *string
	Company           *string
	Notes             *string
	ExpectedCloseDate *time.Time
	LeadScore         int
	LastActivityAt    *time.Time
	CreatedBy         *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

const leadColumns = `l.id, l.organization_id, l.title, l.value, l.stage_id, ps.name AS stage_name,
	l.status, l.source, l.priority, l.assigned_to, l.contact_name, l.contact_email, l.contact_phone,
	l.company, l.notes, l.expected_close_date, l.lead_score, l.last_activity_at, l.created_by,
	l.created_at, l.updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.OrganizationID, &lead.Title, &lead.Value, &lead.StageID, &lead.StageName,
		&lead.Status, &lead.Source, &lead.Priority, &lead.AssignedTo, &lead.ContactName,
		&lead.ContactEmail, &lead.ContactPhone, &lead.Company, &lead.Notes, &lead.ExpectedCloseDate,
		&lead.LeadScore, &lead.LastActivityAt, &lead.CreatedBy, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

type CreateLeadParams struct {
	OrganizationID    uuid.UUID
	Title             string
	Value             *float64
	StageID           uuid.UUID
	Status            string
	Source            *string
	Priority          *string
	AssignedTo        *uuid.UUID
	ContactName       *string
	ContactEmail      *string
	ContactPhone      *string
	Company           *string
	Notes             *string
	ExpectedCloseDate *time.Time
	CreatedBy         uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			organization_id, title, value, stage_id, status, source, priority,
			assigned_to, contact_name, contact_email, contact_phone, company,
			notes, expected_close_date, created_by
		) VALUES ($1, $2, COALESCE($3, 0), $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`,
		params.OrganizationID, params.Title, params.Value, params.StageID, params.Status,
		params.Source, params.Priority, params.AssignedTo, params.ContactName,
		params.ContactEmail, params.ContactPhone, params.Company, params.Notes,
		params.ExpectedCloseDate, params.CreatedBy,
	).Scan(&id)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return r.GetByID(ctx, id, params.OrganizationID)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, organizationID uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads l
		LEFT JOIN pipeline_stages ps ON l.stage_id = ps.id
		WHERE l.id = $1 AND l.organization_id = $2
	`, id, organizationID)
	return scanLead(row)
}

type UpdateLeadParams struct {
	Title             *string
	Value             *float64
	StageID           *uuid.UUID
	Status            *string
	Source            *string
	Priority          *string
	AssignedTo        *uuid.UUID
	ContactName       *string
	ContactEmail      *string
	ContactPhone      *string
	Company           *string
	Notes             *string
	ExpectedCloseDate *time.Time
}

// Update applies a partial update: nil fields keep their current value.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, organizationID uuid.UUID, params UpdateLeadParams) (Lead, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET
			title = COALESCE($1, title),
			value = COALESCE($2, value),
			stage_id = COALESCE($3, stage_id),
			status = COALESCE($4, status),
			source = COALESCE($5, source),
			priority = COALESCE($6, priority),
			assigned_to = COALESCE($7, assigned_to),
			contact_name = COALESCE($8, contact_name),
			contact_email = COALESCE($9, contact_email),
			contact_phone = COALESCE($10, contact_phone),
			company = COALESCE($11, company),
			notes = COALESCE($12, notes),
			expected_close_date = COALESCE($13, expected_close_date),
			updated_at = NOW()
		WHERE id = $14 AND organization_id = $15
	`,
		params.Title, params.Value, params.StageID, params.Status, params.Source,
		params.Priority, params.AssignedTo, params.ContactName, params.ContactEmail,
		params.ContactPhone, params.Company, params.Notes, params.ExpectedCloseDate,
		id, organizationID,
	)
	if err != nil {
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Lead{}, ErrNotFound
	}

	return r.GetByID(ctx, id, organizationID)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID, organizationID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM leads WHERE id = $1 AND organization_id = $2
	`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ScoreTier bounds come from the scoring engine's category thresholds.
const (
	hotScoreFloor  = 70
	warmScoreFloor = 40
)

type ListLeadsParams struct {
	OrganizationID uuid.UUID
	Search         string
	Status         string
	StageID        *uuid.UUID
	AssignedTo     *uuid.UUID
	ScoreCategory  string // "hot", "warm", "cold" or empty
	SortByScore    bool
	Limit          int
	Offset         int
}

func (r *Repository) List(ctx context.Context, params ListLeadsParams) ([]Lead, int, error) {
	where := []string{"l.organization_id = $1"}
	args := []interface{}{params.OrganizationID}

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(l.title ILIKE $%d OR l.contact_name ILIKE $%d OR l.company ILIKE $%d)", n, n, n))
	}
	if params.Status != "" {
		args = append(args, params.Status)
		where = append(where, fmt.Sprintf("l.status = $%d", len(args)))
	}
	if params.StageID != nil {
		args = append(args, *params.StageID)
		where = append(where, fmt.Sprintf("l.stage_id = $%d", len(args)))
	}
	if params.AssignedTo != nil {
		args = append(args, *params.AssignedTo)
		where = append(where, fmt.Sprintf("l.assigned_to = $%d", len(args)))
	}
	switch params.ScoreCategory {
	case "hot":
		where = append(where, fmt.Sprintf("l.lead_score >= %d", hotScoreFloor))
	case "warm":
		where = append(where, fmt.Sprintf("l.lead_score >= %d AND l.lead_score < %d", warmScoreFloor, hotScoreFloor))
	case "cold":
		where = append(where, fmt.Sprintf("l.lead_score < %d", warmScoreFloor))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM leads l WHERE " + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	orderBy := "l.created_at DESC"
	if params.SortByScore {
		orderBy = "l.lead_score DESC, l.created_at DESC"
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT %s
		FROM leads l
		LEFT JOIN pipeline_stages ps ON l.stage_id = ps.id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, orderBy, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}
