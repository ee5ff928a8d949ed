package scoring

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"traxomni_backend/internal/leads/repository"
	"traxomni_backend/platform/logger"
)

// Store is the slice of the leads repository the scorer needs.
type Store interface {
	GetForScoring(ctx context.Context, leadID uuid.UUID, organizationID uuid.UUID) (repository.ScoringInput, error)
	GetEngagementStats(ctx context.Context, leadID uuid.UUID, organizationID uuid.UUID) (repository.EngagementStats, error)
	SaveScore(ctx context.Context, leadID uuid.UUID, organizationID uuid.UUID, score int, lastActivityAt *time.Time) error
	ListLeadIDs(ctx context.Context, organizationID uuid.UUID) ([]uuid.UUID, error)
}

// SkipReason explains why a lead produced no score.
type SkipReason string

const (
	SkipNotFound   SkipReason = "not_found"
	SkipStoreError SkipReason = "store_error"
)

// Outcome is the result of scoring a single lead. Either Score is set, or
// Reason says why the lead was skipped.
type Outcome struct {
	Score  *int
	Reason SkipReason
}

func (o Outcome) Skipped() bool {
	return o.Score == nil
}

// LeadScore pairs a lead with its recalculation outcome.
type LeadScore struct {
	LeadID uuid.UUID
	Outcome
}

type Service struct {
	store       Store
	weights     Weights
	parallelism int
	now         func() time.Time
	log         *logger.Logger
}

func NewService(store Store, weights Weights, parallelism int, log *logger.Logger) *Service {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Service{
		store:       store,
		weights:     weights,
		parallelism: parallelism,
		now:         time.Now,
		log:         log,
	}
}

// WithClock overrides the time source. Tests use this to pin recency math.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Weights() Weights {
	return s.weights
}

// Recalculate recomputes and persists one lead's score. It never fails the
// caller: a missing lead or a storage problem is reported as a skip so bulk
// runs keep going.
func (s *Service) Recalculate(ctx context.Context, leadID uuid.UUID, organizationID uuid.UUID) Outcome {
	input, err := s.store.GetForScoring(ctx, leadID, organizationID)
	if err != nil {
		return s.skip(leadID, organizationID, err)
	}

	stats, err := s.store.GetEngagementStats(ctx, leadID, organizationID)
	if err != nil {
		return s.skip(leadID, organizationID, err)
	}

	score := s.compute(input, stats)

	if err := s.store.SaveScore(ctx, leadID, organizationID, score, stats.LastActivityAt); err != nil {
		return s.skip(leadID, organizationID, err)
	}

	s.log.ScoreComputed(leadID.String(), organizationID.String(), score)
	return Outcome{Score: &score}
}

func (s *Service) skip(leadID, organizationID uuid.UUID, err error) Outcome {
	if errors.Is(err, repository.ErrNotFound) {
		return Outcome{Reason: SkipNotFound}
	}
	s.log.Error("lead score recalculation failed",
		"lead_id", leadID.String(),
		"organization_id", organizationID.String(),
		"error", err,
	)
	return Outcome{Reason: SkipStoreError}
}

// RecalculateAll rescores every lead in the organization with a bounded
// number of concurrent workers. Individual failures are recorded per lead
// and do not stop the run.
func (s *Service) RecalculateAll(ctx context.Context, organizationID uuid.UUID) ([]LeadScore, error) {
	ids, err := s.store.ListLeadIDs(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	results := make([]LeadScore, len(ids))

	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for i, id := range ids {
		g.Go(func() error {
			results[i] = LeadScore{LeadID: id, Outcome: s.Recalculate(ctx, id, organizationID)}
			return nil
		})
	}
	g.Wait()

	return results, nil
}

func (s *Service) compute(input repository.ScoringInput, stats repository.EngagementStats) int {
	score := s.weights.sourcePoints(input.Source)
	score += s.weights.stagePoints(input.StageName)
	score += s.weights.priorityPoints(input.Priority)
	score += s.weights.valuePoints(input.Value)
	score += s.weights.activityPoints(stats.ActivityCount)
	score += s.weights.callPoints(stats.CallCount)
	if stats.LastActivityAt != nil {
		ageDays := int(s.now().Sub(*stats.LastActivityAt).Hours() / 24)
		score += s.weights.recencyPoints(ageDays)
	}
	score += s.weights.contactPoints(input.ContactEmail, input.ContactPhone)
	return clampScore(score)
}
