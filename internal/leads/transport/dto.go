// Package transport defines the request and response payloads for the
// leads HTTP API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	Title             string     `json:"title" validate:"required,max=255"`
	Value             *float64   `json:"value" validate:"omitempty,gte=0"`
	StageID           *uuid.UUID `json:"stageId"`
	Source            *string    `json:"source" validate:"omitempty,max=50"`
	Priority          *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo        *uuid.UUID `json:"assignedTo"`
	ContactName       *string    `json:"contactName" validate:"omitempty,max=255"`
	ContactEmail      *string    `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone      *string    `json:"contactPhone" validate:"omitempty,max=30"`
	Company           *string    `json:"company" validate:"omitempty,max=255"`
	Notes             *string    `json:"notes"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
}

type UpdateLeadRequest struct {
	Title             *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Value             *float64   `json:"value" validate:"omitempty,gte=0"`
	StageID           *uuid.UUID `json:"stageId"`
	Status            *string    `json:"status" validate:"omitempty,oneof=new active won lost"`
	Source            *string    `json:"source" validate:"omitempty,max=50"`
	Priority          *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo        *uuid.UUID `json:"assignedTo"`
	ContactName       *string    `json:"contactName" validate:"omitempty,max=255"`
	ContactEmail      *string    `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone      *string    `json:"contactPhone" validate:"omitempty,max=30"`
	Company           *string    `json:"company" validate:"omitempty,max=255"`
	Notes             *string    `json:"notes"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
}

type ListLeadsQuery struct {
	Search        string     `form:"search"`
	Status        string     `form:"status" validate:"omitempty,oneof=new active won lost"`
	StageID       *uuid.UUID `form:"stageId"`
	AssignedTo    *uuid.UUID `form:"assignedTo"`
	ScoreCategory string     `form:"scoreCategory" validate:"omitempty,oneof=hot warm cold"`
	Sort          string     `form:"sort" validate:"omitempty,oneof=score created"`
	Page          int        `form:"page" validate:"omitempty,gte=1"`
	PageSize      int        `form:"pageSize" validate:"omitempty,gte=1,lte=100"`
}

type LeadResponse struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Value             *float64   `json:"value"`
	StageID           *uuid.UUID `json:"stageId"`
	StageName         *string    `json:"stageName"`
	Status            string     `json:"status"`
	Source            *string    `json:"source"`
	Priority          *string    `json:"priority"`
	AssignedTo        *uuid.UUID `json:"assignedTo"`
	ContactName       *string    `json:"contactName"`
	ContactEmail      *string    `json:"contactEmail"`
	ContactPhone      *string    `json:"contactPhone"`
	Company           *string    `json:"company"`
	Notes             *string    `json:"notes"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
	Score             int        `json:"score"`
	ScoreCategory     string     `json:"scoreCategory"`
	ScoreColor        string     `json:"scoreColor"`
	LastActivityAt    *time.Time `json:"lastActivityAt"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

type ListLeadsResponse struct {
	Items    []LeadResponse `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

type AddActivityRequest struct {
	Type        string  `json:"type" validate:"required,oneof=note email meeting task status_change"`
	Description *string `json:"description"`
}

type ActivityResponse struct {
	ID          uuid.UUID  `json:"id"`
	LeadID      uuid.UUID  `json:"leadId"`
	UserID      *uuid.UUID `json:"userId"`
	Type        string     `json:"type"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type LogCallRequest struct {
	PhoneNumber     *string    `json:"phoneNumber" validate:"omitempty,max=30"`
	CallType        string     `json:"callType" validate:"required,oneof=inbound outbound"`
	DurationSeconds *int       `json:"durationSeconds" validate:"omitempty,gte=0"`
	Outcome         *string    `json:"outcome" validate:"omitempty,oneof=connected voicemail no_answer busy wrong_number"`
	Notes           *string    `json:"notes"`
	CalledAt        *time.Time `json:"calledAt"`
}

type CallLogResponse struct {
	ID              uuid.UUID  `json:"id"`
	LeadID          uuid.UUID  `json:"leadId"`
	UserID          uuid.UUID  `json:"userId"`
	PhoneNumber     *string    `json:"phoneNumber"`
	CallType        string     `json:"callType"`
	DurationSeconds *int       `json:"durationSeconds"`
	Outcome         *string    `json:"outcome"`
	Notes           *string    `json:"notes"`
	CalledAt        time.Time  `json:"calledAt"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// RescoreResponse reports the result of recalculating one lead's score.
type RescoreResponse struct {
	LeadID        uuid.UUID `json:"leadId"`
	Score         *int      `json:"score"`
	ScoreCategory *string   `json:"scoreCategory"`
	ScoreColor    *string   `json:"scoreColor"`
	Skipped       bool      `json:"skipped"`
	SkipReason    string    `json:"skipReason,omitempty"`
}

// BulkRescoreSummary counts leads per score category after a bulk run.
type BulkRescoreSummary struct {
	Hot  int `json:"hot"`
	Warm int `json:"warm"`
	Cold int `json:"cold"`
}

type BulkRescoreResponse struct {
	TotalProcessed int                `json:"totalProcessed"`
	TotalUpdated   int                `json:"totalUpdated"`
	TotalSkipped   int                `json:"totalSkipped"`
	Summary        BulkRescoreSummary `json:"summary"`
	Results        []RescoreResponse  `json:"results"`
}
