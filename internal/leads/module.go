// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"context"

	"traxomni_backend/internal/events"
	apphttp "traxomni_backend/internal/http"
	"traxomni_backend/internal/leads/handler"
	"traxomni_backend/internal/leads/repository"
	"traxomni_backend/internal/leads/scoring"
	"traxomni_backend/internal/leads/service"
	"traxomni_backend/internal/scheduler"
	"traxomni_backend/platform/config"
	"traxomni_backend/platform/logger"
	"traxomni_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	scorer  *scoring.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
// rescore may be nil; score recomputation then runs in-process instead of
// through the background queue.
func NewModule(
	pool *pgxpool.Pool,
	eventBus events.Bus,
	val *validator.Validator,
	cfg *config.Config,
	stages service.StageDirectory,
	rescore scheduler.RescoreScheduler,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	scorer := scoring.NewService(repo, scoring.DefaultWeights(), cfg.GetScoringBatchParallelism(), log)
	svc := service.New(repo, scorer, stages, eventBus, val, cfg.PhoneDefaultRegion, log)

	m := &Module{
		handler: handler.New(svc, log),
		service: svc,
		scorer:  scorer,
	}

	// Every event that changes score inputs triggers a rescore of the lead.
	rescoreLead := func(ctx context.Context, leadID, tenantID uuid.UUID) error {
		if rescore != nil {
			err := rescore.ScheduleLeadRescore(ctx, scheduler.LeadRescorePayload{
				LeadID:         leadID.String(),
				OrganizationID: tenantID.String(),
			})
			if err == nil {
				return nil
			}
			log.Error("failed to enqueue lead rescore, falling back to in-process",
				"error", err, "leadId", leadID)
		}

		go func() {
			outcome := scorer.Recalculate(context.Background(), leadID, tenantID)
			if outcome.Reason == scoring.SkipStoreError {
				log.Error("in-process lead rescore failed", "leadId", leadID)
			}
		}()
		return nil
	}

	eventBus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadCreated)
		if !ok {
			return nil
		}
		return rescoreLead(ctx, e.LeadID, e.TenantID)
	}))

	eventBus.Subscribe(events.LeadDataChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadDataChanged)
		if !ok {
			return nil
		}
		return rescoreLead(ctx, e.LeadID, e.TenantID)
	}))

	eventBus.Subscribe(events.CallLogged{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.CallLogged)
		if !ok {
			return nil
		}
		return rescoreLead(ctx, e.LeadID, e.TenantID)
	}))

	return m
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Scorer returns the scoring engine for external use.
func (m *Module) Scorer() *scoring.Service {
	return m.scorer
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected, ctx.BulkRateLimiter)
}
