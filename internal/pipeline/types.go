package pipeline

import (
	"time"

	"github.com/google/uuid"
)

type Stage struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	Color          string
	Position       int
	CreatedAt      time.Time
}

type CreateStageRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Color    *string `json:"color" validate:"omitempty,hexcolor"`
	Position *int    `json:"position" validate:"omitempty,gte=0"`
}

type UpdateStageRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color    *string `json:"color" validate:"omitempty,hexcolor"`
	Position *int    `json:"position" validate:"omitempty,gte=0"`
}

type StageResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

func toStageResponse(stage Stage) StageResponse {
	return StageResponse{
		ID:        stage.ID,
		Name:      stage.Name,
		Color:     stage.Color,
		Position:  stage.Position,
		CreatedAt: stage.CreatedAt,
	}
}

// defaultStage is one of the stages seeded for a fresh organization.
type defaultStage struct {
	name  string
	color string
}

var defaultStages = []defaultStage{
	{"New", "#7C3AED"},
	{"Contacted", "#3B82F6"},
	{"Qualified", "#06B6D4"},
	{"Proposal", "#F59E0B"},
	{"Negotiation", "#F97316"},
	{"Won", "#10B981"},
	{"Lost", "#6B7280"},
}
