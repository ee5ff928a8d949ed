package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type CallLog struct {
	ID              uuid.UUID
	OrganizationID  uuid.UUID
	UserID          uuid.UUID
	LeadID          uuid.UUID
	PhoneNumber     *string
	CallType        string
	DurationSeconds *int
	Outcome         *string
	Notes           *string
	CalledAt        time.Time
	CreatedAt       time.Time
}

type CreateCallLogParams struct {
	OrganizationID  uuid.UUID
	UserID          uuid.UUID
	LeadID          uuid.UUID
	PhoneNumber     *string
	CallType        string
	DurationSeconds *int
	Outcome         *string
	Notes           *string
	CalledAt        time.Time
}

func (r *Repository) CreateCallLog(ctx context.Context, params CreateCallLogParams) (CallLog, error) {
	var call CallLog
	err := r.pool.QueryRow(ctx, `
		INSERT INTO call_logs (
			organization_id, user_id, lead_id, phone_number, call_type,
			duration_seconds, outcome, notes, called_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, organization_id, user_id, lead_id, phone_number, call_type,
			duration_seconds, outcome, notes, called_at, created_at
	`,
		params.OrganizationID, params.UserID, params.LeadID, params.PhoneNumber,
		params.CallType, params.DurationSeconds, params.Outcome, params.Notes, params.CalledAt,
	).Scan(
		&call.ID, &call.OrganizationID, &call.UserID, &call.LeadID, &call.PhoneNumber,
		&call.CallType, &call.DurationSeconds, &call.Outcome, &call.Notes,
		&call.CalledAt, &call.CreatedAt,
	)
	if err != nil {
		return CallLog{}, fmt.Errorf("create call log: %w", err)
	}
	return call, nil
}

func (r *Repository) ListCallLogs(ctx context.Context, leadID uuid.UUID, organizationID uuid.UUID) ([]CallLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, organization_id, user_id, lead_id, phone_number, call_type,
			duration_seconds, outcome, notes, called_at, created_at
		FROM call_logs
		WHERE lead_id = $1 AND organization_id = $2
		ORDER BY called_at DESC
	`, leadID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list call logs: %w", err)
	}
	defer rows.Close()

	calls := make([]CallLog, 0)
	for rows.Next() {
		var call CallLog
		if err := rows.Scan(
			&call.ID, &call.OrganizationID, &call.UserID, &call.LeadID, &call.PhoneNumber,
			&call.CallType, &call.DurationSeconds, &call.Outcome, &call.Notes,
			&call.CalledAt, &call.CreatedAt,
		); err != nil {
			return nil, err
		}
		calls = append(calls, call)
	}
	return calls, rows.Err()
}
