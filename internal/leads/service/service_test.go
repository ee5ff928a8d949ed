package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"traxomni_backend/internal/leads/repository"
	"traxomni_backend/internal/leads/scoring"
	"traxomni_backend/platform/logger"
)

// scoreStore is a canned scoring.Store whose leads land in known categories.
type scoreStore struct {
	mu    sync.Mutex
	org   uuid.UUID
	leads map[uuid.UUID]repository.ScoringInput
	saved map[uuid.UUID]int
}

func (f *scoreStore) GetForScoring(_ context.Context, leadID, organizationID uuid.UUID) (repository.ScoringInput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	input, ok := f.leads[leadID]
	if !ok || organizationID != f.org {
		return repository.ScoringInput{}, repository.ErrNotFound
	}
	return input, nil
}

func (f *scoreStore) GetEngagementStats(_ context.Context, _, _ uuid.UUID) (repository.EngagementStats, error) {
	return repository.EngagementStats{}, nil
}

func (f *scoreStore) SaveScore(_ context.Context, leadID, _ uuid.UUID, score int, _ *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[leadID] = score
	return nil
}

func (f *scoreStore) ListLeadIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(f.leads))
	for id := range f.leads {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestRecalculateAllScoresSummarizesCategories(t *testing.T) {
	org := uuid.New()
	store := &scoreStore{
		org:   org,
		leads: make(map[uuid.UUID]repository.ScoringInput),
		saved: make(map[uuid.UUID]int),
	}

	str := func(s string) *string { return &s }
	now := time.Now()

	// referral 30 + won 100 + defaults 15 clamps to 100: hot.
	store.leads[uuid.New()] = repository.ScoringInput{
		Source: str("referral"), StageName: str("won"), CreatedAt: now,
	}
	// website 25 + new 10 + defaults 15 = 50: warm.
	store.leads[uuid.New()] = repository.ScoringInput{
		Source: str("website"), StageName: str("new"), CreatedAt: now,
	}
	// manual 5 + lost 0 + defaults 15 = 20: cold.
	store.leads[uuid.New()] = repository.ScoringInput{
		Source: str("manual"), StageName: str("lost"), CreatedAt: now,
	}

	log := logger.New("test")
	scorer := scoring.NewService(store, scoring.DefaultWeights(), 2, log)
	svc := New(nil, scorer, nil, nil, nil, "US", log)

	result, err := svc.RecalculateAllScores(context.Background(), org)
	if err != nil {
		t.Fatalf("RecalculateAllScores: %v", err)
	}

	if result.TotalProcessed != 3 || result.TotalUpdated != 3 || result.TotalSkipped != 0 {
		t.Errorf("processed=%d updated=%d skipped=%d, want 3/3/0",
			result.TotalProcessed, result.TotalUpdated, result.TotalSkipped)
	}
	if result.Summary.Hot != 1 || result.Summary.Warm != 1 || result.Summary.Cold != 1 {
		t.Errorf("summary = %+v, want one lead per category", result.Summary)
	}
	if len(result.Results) != 3 {
		t.Errorf("got %d per-lead results, want 3", len(result.Results))
	}
}

func TestRecalculateAllScoresCountsSkips(t *testing.T) {
	org := uuid.New()
	store := &scoreStore{
		org:   uuid.New(), // every lookup misses: foreign tenant
		leads: map[uuid.UUID]repository.ScoringInput{uuid.New(): {}},
		saved: make(map[uuid.UUID]int),
	}

	log := logger.New("test")
	scorer := scoring.NewService(store, scoring.DefaultWeights(), 1, log)
	svc := New(nil, scorer, nil, nil, nil, "US", log)

	result, err := svc.RecalculateAllScores(context.Background(), org)
	if err != nil {
		t.Fatalf("RecalculateAllScores: %v", err)
	}
	if result.TotalSkipped != 1 || result.TotalUpdated != 0 {
		t.Errorf("skipped=%d updated=%d, want 1 skipped and 0 updated", result.TotalSkipped, result.TotalUpdated)
	}
	if result.Summary.Hot+result.Summary.Warm+result.Summary.Cold != 0 {
		t.Errorf("skipped leads must not be counted in the summary: %+v", result.Summary)
	}
}
