package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"traxomni_backend/internal/events"
	"traxomni_backend/internal/leads/repository"
	"traxomni_backend/internal/leads/scoring"
	"traxomni_backend/internal/leads/transport"
	"traxomni_backend/platform/apperr"
	"traxomni_backend/platform/logger"
	"traxomni_backend/platform/phone"
	"traxomni_backend/platform/validator"
)

// StageDirectory resolves pipeline stages for leads. Implemented by the
// pipeline module's repository.
type StageDirectory interface {
	DefaultStageID(ctx context.Context, organizationID uuid.UUID) (uuid.UUID, error)
	StageBelongsToOrganization(ctx context.Context, stageID, organizationID uuid.UUID) (bool, error)
}

type Service struct {
	repo        *repository.Repository
	scorer      *scoring.Service
	stages      StageDirectory
	bus         events.Bus
	validate    *validator.Validator
	phoneRegion string
	log         *logger.Logger
}

func New(
	repo *repository.Repository,
	scorer *scoring.Service,
	stages StageDirectory,
	bus events.Bus,
	validate *validator.Validator,
	phoneRegion string,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		scorer:      scorer,
		stages:      stages,
		bus:         bus,
		validate:    validate,
		phoneRegion: phoneRegion,
		log:         log,
	}
}

func (s *Service) Create(ctx context.Context, organizationID, userID uuid.UUID, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return transport.LeadResponse{}, apperr.Validation(err.Error())
	}

	stageID, err := s.resolveStage(ctx, req.StageID, organizationID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		OrganizationID:    organizationID,
		Title:             req.Title,
		Value:             req.Value,
		StageID:           stageID,
		Status:            "new",
		Source:            req.Source,
		Priority:          req.Priority,
		AssignedTo:        req.AssignedTo,
		ContactName:       req.ContactName,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      s.normalizePhone(req.ContactPhone),
		Company:           req.Company,
		Notes:             req.Notes,
		ExpectedCloseDate: req.ExpectedCloseDate,
		CreatedBy:         userID,
	})
	if err != nil {
		s.log.DatabaseError("leads.create", err)
		return transport.LeadResponse{}, apperr.Internal("failed to create lead")
	}

	if _, err := s.repo.AddActivity(ctx, lead.ID, userID, "status_change", "Lead created"); err != nil {
		s.log.DatabaseError("leads.create_activity", err)
	}

	source := ""
	if req.Source != nil {
		source = *req.Source
	}
	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		TenantID:  organizationID,
		Source:    source,
	})

	return toLeadResponse(lead), nil
}

func (s *Service) Get(ctx context.Context, leadID, organizationID uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID, organizationID)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err, "leads.get", s.log)
	}
	return toLeadResponse(lead), nil
}

func (s *Service) List(ctx context.Context, organizationID uuid.UUID, query transport.ListLeadsQuery) (transport.ListLeadsResponse, error) {
	if err := s.validate.Struct(query); err != nil {
		return transport.ListLeadsResponse{}, apperr.Validation(err.Error())
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	leads, total, err := s.repo.List(ctx, repository.ListLeadsParams{
		OrganizationID: organizationID,
		Search:         query.Search,
		Status:         query.Status,
		StageID:        query.StageID,
		AssignedTo:     query.AssignedTo,
		ScoreCategory:  query.ScoreCategory,
		SortByScore:    query.Sort == "score",
		Limit:          pageSize,
		Offset:         (page - 1) * pageSize,
	})
	if err != nil {
		s.log.DatabaseError("leads.list", err)
		return transport.ListLeadsResponse{}, apperr.Internal("failed to list leads")
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toLeadResponse(lead))
	}

	return transport.ListLeadsResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *Service) Update(ctx context.Context, leadID, organizationID, userID uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return transport.LeadResponse{}, apperr.Validation(err.Error())
	}

	current, err := s.repo.GetByID(ctx, leadID, organizationID)
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err, "leads.update", s.log)
	}

	if req.StageID != nil {
		ok, err := s.stages.StageBelongsToOrganization(ctx, *req.StageID, organizationID)
		if err != nil {
			s.log.DatabaseError("leads.update_stage_check", err)
			return transport.LeadResponse{}, apperr.Internal("failed to update lead")
		}
		if !ok {
			return transport.LeadResponse{}, apperr.Validation("unknown pipeline stage")
		}
	}

	lead, err := s.repo.Update(ctx, leadID, organizationID, repository.UpdateLeadParams{
		Title:             req.Title,
		Value:             req.Value,
		StageID:           req.StageID,
		Status:            req.Status,
		Source:            req.Source,
		Priority:          req.Priority,
		AssignedTo:        req.AssignedTo,
		ContactName:       req.ContactName,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      s.normalizePhone(req.ContactPhone),
		Company:           req.Company,
		Notes:             req.Notes,
		ExpectedCloseDate: req.ExpectedCloseDate,
	})
	if err != nil {
		return transport.LeadResponse{}, mapRepoError(err, "leads.update", s.log)
	}

	change := "user_update"
	stageMoved := req.StageID != nil && (current.StageID == nil || *current.StageID != *req.StageID)
	if stageMoved {
		change = "stage_move"
		description := "Moved to stage " + stageName(lead)
		if _, err := s.repo.AddActivity(ctx, lead.ID, userID, "status_change", description); err != nil {
			s.log.DatabaseError("leads.update_activity", err)
		}
	}

	s.bus.Publish(ctx, events.LeadDataChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		TenantID:  organizationID,
		Change:    change,
	})

	return toLeadResponse(lead), nil
}

func (s *Service) Delete(ctx context.Context, leadID, organizationID uuid.UUID) error {
	if err := s.repo.Delete(ctx, leadID, organizationID); err != nil {
		return mapRepoError(err, "leads.delete", s.log)
	}
	return nil
}

func (s *Service) AddActivity(ctx context.Context, leadID, organizationID, userID uuid.UUID, req transport.AddActivityRequest) (transport.ActivityResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return transport.ActivityResponse{}, apperr.Validation(err.Error())
	}

	// Confirm the lead belongs to the caller before writing through it.
	if _, err := s.repo.GetByID(ctx, leadID, organizationID); err != nil {
		return transport.ActivityResponse{}, mapRepoError(err, "leads.add_activity", s.log)
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}
	activity, err := s.repo.AddActivity(ctx, leadID, userID, req.Type, description)
	if err != nil {
		s.log.DatabaseError("leads.add_activity", err)
		return transport.ActivityResponse{}, apperr.Internal("failed to record activity")
	}

	s.bus.Publish(ctx, events.LeadDataChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		TenantID:  organizationID,
		Change:    "activity",
	})

	return toActivityResponse(activity), nil
}

func (s *Service) ListActivities(ctx context.Context, leadID, organizationID uuid.UUID) ([]transport.ActivityResponse, error) {
	activities, err := s.repo.ListActivities(ctx, leadID, organizationID)
	if err != nil {
		s.log.DatabaseError("leads.list_activities", err)
		return nil, apperr.Internal("failed to list activities")
	}
	responses := make([]transport.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, toActivityResponse(activity))
	}
	return responses, nil
}

func (s *Service) LogCall(ctx context.Context, leadID, organizationID, userID uuid.UUID, req transport.LogCallRequest) (transport.CallLogResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return transport.CallLogResponse{}, apperr.Validation(err.Error())
	}

	if _, err := s.repo.GetByID(ctx, leadID, organizationID); err != nil {
		return transport.CallLogResponse{}, mapRepoError(err, "leads.log_call", s.log)
	}

	calledAt := time.Now()
	if req.CalledAt != nil {
		calledAt = *req.CalledAt
	}

	call, err := s.repo.CreateCallLog(ctx, repository.CreateCallLogParams{
		OrganizationID:  organizationID,
		UserID:          userID,
		LeadID:          leadID,
		PhoneNumber:     s.normalizePhone(req.PhoneNumber),
		CallType:        req.CallType,
		DurationSeconds: req.DurationSeconds,
		Outcome:         req.Outcome,
		Notes:           req.Notes,
		CalledAt:        calledAt,
	})
	if err != nil {
		s.log.DatabaseError("leads.log_call", err)
		return transport.CallLogResponse{}, apperr.Internal("failed to log call")
	}

	outcome := ""
	if req.Outcome != nil {
		outcome = *req.Outcome
	}
	s.bus.Publish(ctx, events.CallLogged{
		BaseEvent: events.NewBaseEvent(),
		CallID:    call.ID,
		LeadID:    leadID,
		TenantID:  organizationID,
		Outcome:   outcome,
	})

	return toCallResponse(call), nil
}

func (s *Service) ListCalls(ctx context.Context, leadID, organizationID uuid.UUID) ([]transport.CallLogResponse, error) {
	calls, err := s.repo.ListCallLogs(ctx, leadID, organizationID)
	if err != nil {
		s.log.DatabaseError("leads.list_calls", err)
		return nil, apperr.Internal("failed to list calls")
	}
	responses := make([]transport.CallLogResponse, 0, len(calls))
	for _, call := range calls {
		responses = append(responses, toCallResponse(call))
	}
	return responses, nil
}

// RecalculateScore rescores a single lead on demand.
func (s *Service) RecalculateScore(ctx context.Context, leadID, organizationID uuid.UUID) (transport.RescoreResponse, error) {
	outcome := s.scorer.Recalculate(ctx, leadID, organizationID)
	if outcome.Reason == scoring.SkipNotFound {
		return transport.RescoreResponse{}, apperr.NotFound("lead not found")
	}
	return toRescoreResponse(leadID, outcome), nil
}

// RecalculateAllScores rescores every lead in the organization and reports
// per-lead outcomes plus a category summary.
func (s *Service) RecalculateAllScores(ctx context.Context, organizationID uuid.UUID) (transport.BulkRescoreResponse, error) {
	results, err := s.scorer.RecalculateAll(ctx, organizationID)
	if err != nil {
		s.log.DatabaseError("leads.recalculate_all", err)
		return transport.BulkRescoreResponse{}, apperr.Internal("failed to recalculate scores")
	}

	response := transport.BulkRescoreResponse{
		TotalProcessed: len(results),
		Results:        make([]transport.RescoreResponse, 0, len(results)),
	}
	for _, result := range results {
		response.Results = append(response.Results, toRescoreResponse(result.LeadID, result.Outcome))
		if result.Skipped() {
			response.TotalSkipped++
			continue
		}
		response.TotalUpdated++
		switch scoring.Category(*result.Score) {
		case scoring.CategoryHot:
			response.Summary.Hot++
		case scoring.CategoryWarm:
			response.Summary.Warm++
		default:
			response.Summary.Cold++
		}
	}

	s.log.Info("bulk lead rescore finished",
		"organization_id", organizationID.String(),
		"processed", response.TotalProcessed,
		"updated", response.TotalUpdated,
		"skipped", response.TotalSkipped,
	)
	return response, nil
}

func (s *Service) resolveStage(ctx context.Context, stageID *uuid.UUID, organizationID uuid.UUID) (uuid.UUID, error) {
	if stageID != nil {
		ok, err := s.stages.StageBelongsToOrganization(ctx, *stageID, organizationID)
		if err != nil {
			s.log.DatabaseError("leads.stage_check", err)
			return uuid.Nil, apperr.Internal("failed to resolve pipeline stage")
		}
		if !ok {
			return uuid.Nil, apperr.Validation("unknown pipeline stage")
		}
		return *stageID, nil
	}

	defaultID, err := s.stages.DefaultStageID(ctx, organizationID)
	if err != nil {
		s.log.DatabaseError("leads.default_stage", err)
		return uuid.Nil, apperr.Internal("failed to resolve pipeline stage")
	}
	return defaultID, nil
}

func (s *Service) normalizePhone(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*input, s.phoneRegion)
	return &normalized
}

func mapRepoError(err error, operation string, log *logger.Logger) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	log.DatabaseError(operation, err)
	return apperr.Internal("operation failed")
}

func stageName(lead repository.Lead) string {
	if lead.StageName != nil {
		return *lead.StageName
	}
	return "unknown"
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	category := scoring.Category(lead.LeadScore)
	return transport.LeadResponse{
		ID:                lead.ID,
		Title:             lead.Title,
		Value:             lead.Value,
		StageID:           lead.StageID,
		StageName:         lead.StageName,
		Status:            lead.Status,
		Source:            lead.Source,
		Priority:          lead.Priority,
		AssignedTo:        lead.AssignedTo,
		ContactName:       lead.ContactName,
		ContactEmail:      lead.ContactEmail,
		ContactPhone:      lead.ContactPhone,
		Company:           lead.Company,
		Notes:             lead.Notes,
		ExpectedCloseDate: lead.ExpectedCloseDate,
		Score:             lead.LeadScore,
		ScoreCategory:     category,
		ScoreColor:        scoring.Color(category),
		LastActivityAt:    lead.LastActivityAt,
		CreatedAt:         lead.CreatedAt,
		UpdatedAt:         lead.UpdatedAt,
	}
}

func toActivityResponse(activity repository.Activity) transport.ActivityResponse {
	return transport.ActivityResponse{
		ID:          activity.ID,
		LeadID:      activity.LeadID,
		UserID:      activity.UserID,
		Type:        activity.Type,
		Description: activity.Description,
		CreatedAt:   activity.CreatedAt,
	}
}

func toCallResponse(call repository.CallLog) transport.CallLogResponse {
	return transport.CallLogResponse{
		ID:              call.ID,
		LeadID:          call.LeadID,
		UserID:          call.UserID,
		PhoneNumber:     call.PhoneNumber,
		CallType:        call.CallType,
		DurationSeconds: call.DurationSeconds,
		Outcome:         call.Outcome,
		Notes:           call.Notes,
		CalledAt:        call.CalledAt,
		CreatedAt:       call.CreatedAt,
	}
}

func toRescoreResponse(leadID uuid.UUID, outcome scoring.Outcome) transport.RescoreResponse {
	if outcome.Skipped() {
		return transport.RescoreResponse{
			LeadID:     leadID,
			Skipped:    true,
			SkipReason: string(outcome.Reason),
		}
	}
	category := scoring.Category(*outcome.Score)
	color := scoring.Color(category)
	return transport.RescoreResponse{
		LeadID:        leadID,
		Score:         outcome.Score,
		ScoreCategory: &category,
		ScoreColor:    &color,
	}
}
