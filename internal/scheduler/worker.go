package scheduler

import (
	"context"
	"fmt"

	"traxomni_backend/internal/leads/repository"
	"traxomni_backend/internal/leads/scoring"
	"traxomni_backend/platform/config"
	"traxomni_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	scorer *scoring.Service
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, scoringCfg config.ScoringConfig, pool *pgxpool.Pool, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		scorer: scoring.NewService(
			repository.New(pool),
			scoring.DefaultWeights(),
			scoringCfg.GetScoringBatchParallelism(),
			log,
		),
		log: log,
	}

	mux.HandleFunc(TaskLeadRescore, w.handleLeadRescore)
	mux.HandleFunc(TaskLeadRescoreAll, w.handleLeadRescoreAll)

	return w, nil
}

func (w *Worker) handleLeadRescore(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadRescorePayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	orgID, err := uuid.Parse(payload.OrganizationID)
	if err != nil {
		return err
	}

	outcome := w.scorer.Recalculate(ctx, leadID, orgID)
	if outcome.Reason == scoring.SkipStoreError {
		// Transient storage failures are retried by asynq.
		return fmt.Errorf("rescore lead %s: storage error", leadID)
	}
	return nil
}

func (w *Worker) handleLeadRescoreAll(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadRescoreAllPayload(task)
	if err != nil {
		return err
	}

	orgID, err := uuid.Parse(payload.OrganizationID)
	if err != nil {
		return err
	}

	results, err := w.scorer.RecalculateAll(ctx, orgID)
	if err != nil {
		return err
	}

	skipped := 0
	for _, result := range results {
		if result.Skipped() {
			skipped++
		}
	}
	w.log.Info("background rescore finished",
		"organization_id", orgID.String(),
		"processed", len(results),
		"skipped", skipped,
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
