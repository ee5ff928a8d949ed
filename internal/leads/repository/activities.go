package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Activity struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	UserID      *uuid.UUID
	Type        string
	Description *string
	CreatedAt   time.Time
}

func (r *Repository) AddActivity(ctx context.Context, leadID uuid.UUID, userID uuid.UUID, activityType string, description string) (Activity, error) {
	var activity Activity
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_activities (lead_id, user_id, type, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lead_id, user_id, type, description, created_at
	`, leadID, userID, activityType, description).Scan(
		&activity.ID, &activity.LeadID, &activity.UserID, &activity.Type,
		&activity.Description, &activity.CreatedAt,
	)
	if err != nil {
		return Activity{}, fmt.Errorf("add lead activity: %w", err)
	}
	return activity, nil
}

func (r *Repository) ListActivities(ctx context.Context, leadID uuid.UUID, organizationID uuid.UUID) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT la.id, la.lead_id, la.user_id, la.type, la.description, la.created_at
		FROM lead_activities la
		JOIN leads l ON la.lead_id = l.id
		WHERE la.lead_id = $1 AND l.organization_id = $2
		ORDER BY la.created_at DESC
	`, leadID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list lead activities: %w", err)
	}
	defer rows.Close()

	activities := make([]Activity, 0)
	for rows.Next() {
		var activity Activity
		if err := rows.Scan(
			&activity.ID, &activity.LeadID, &activity.UserID, &activity.Type,
			&activity.Description, &activity.CreatedAt,
		); err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}
