package scoring

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"traxomni_backend/internal/leads/repository"
	"traxomni_backend/platform/logger"
)

type fakeStore struct {
	mu    sync.Mutex
	org   uuid.UUID
	leads map[uuid.UUID]repository.ScoringInput
	stats map[uuid.UUID]repository.EngagementStats
	saved map[uuid.UUID]int

	failSave bool
}

func newFakeStore(org uuid.UUID) *fakeStore {
	return &fakeStore{
		org:   org,
		leads: make(map[uuid.UUID]repository.ScoringInput),
		stats: make(map[uuid.UUID]repository.EngagementStats),
		saved: make(map[uuid.UUID]int),
	}
}

func (f *fakeStore) GetForScoring(_ context.Context, leadID, organizationID uuid.UUID) (repository.ScoringInput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	input, ok := f.leads[leadID]
	if !ok || organizationID != f.org {
		return repository.ScoringInput{}, repository.ErrNotFound
	}
	return input, nil
}

func (f *fakeStore) GetEngagementStats(_ context.Context, leadID, organizationID uuid.UUID) (repository.EngagementStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats[leadID], nil
}

func (f *fakeStore) SaveScore(_ context.Context, leadID, organizationID uuid.UUID, score int, _ *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errors.New("connection reset")
	}
	if organizationID != f.org {
		return repository.ErrNotFound
	}
	f.saved[leadID] = score
	return nil
}

func (f *fakeStore) ListLeadIDs(_ context.Context, organizationID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(f.leads))
	for id := range f.leads {
		ids = append(ids, id)
	}
	return ids, nil
}

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore) *Service {
	svc := NewService(store, DefaultWeights(), 4, logger.New("test"))
	return svc.WithClock(func() time.Time { return testNow })
}

func TestRecalculateBaselineLead(t *testing.T) {
	org := uuid.New()
	store := newFakeStore(org)
	leadID := uuid.New()

	// No source, stage, priority, value, activity or contact data: every
	// factor falls back to its default.
	store.leads[leadID] = repository.ScoringInput{CreatedAt: testNow}

	outcome := newTestService(store).Recalculate(context.Background(), leadID, org)
	if outcome.Skipped() {
		t.Fatalf("expected a score, got skip reason %q", outcome.Reason)
	}
	if *outcome.Score != 30 {
		t.Errorf("baseline score = %d, want 30", *outcome.Score)
	}
	if store.saved[leadID] != 30 {
		t.Errorf("persisted score = %d, want 30", store.saved[leadID])
	}
}

func TestRecalculateClampsToUpperBound(t *testing.T) {
	org := uuid.New()
	store := newFakeStore(org)
	leadID := uuid.New()

	store.leads[leadID] = repository.ScoringInput{
		Source:       strPtr("referral"),
		StageName:    strPtr("won"),
		Priority:     strPtr("high"),
		Value:        floatPtr(60000),
		ContactEmail: strPtr("buyer@example.com"),
		ContactPhone: strPtr("+14155550100"),
		CreatedAt:    testNow.Add(-30 * 24 * time.Hour),
	}
	store.stats[leadID] = repository.EngagementStats{
		ActivityCount:  12,
		CallCount:      9,
		LastActivityAt: timePtr(testNow.Add(-2 * time.Hour)),
	}

	outcome := newTestService(store).Recalculate(context.Background(), leadID, org)
	if outcome.Skipped() {
		t.Fatalf("expected a score, got skip reason %q", outcome.Reason)
	}
	if *outcome.Score != 100 {
		t.Errorf("score = %d, want 100", *outcome.Score)
	}
	if Category(*outcome.Score) != CategoryHot {
		t.Errorf("category = %q, want hot", Category(*outcome.Score))
	}
}

func TestHighValueLeadClampsWithoutEngagement(t *testing.T) {
	org := uuid.New()
	store := newFakeStore(org)
	leadID := uuid.New()

	// referral 30 + won 100 + high 20 + value 35 = 185 before clamping,
	// with no activities, calls or contact info contributing.
	store.leads[leadID] = repository.ScoringInput{
		Source:    strPtr("referral"),
		StageName: strPtr("won"),
		Priority:  strPtr("high"),
		Value:     floatPtr(1000000),
		CreatedAt: testNow,
	}

	outcome := newTestService(store).Recalculate(context.Background(), leadID, org)
	if outcome.Skipped() {
		t.Fatalf("expected a score, got skip reason %q", outcome.Reason)
	}
	if *outcome.Score != 100 {
		t.Errorf("score = %d, want 100", *outcome.Score)
	}
	if Category(*outcome.Score) != CategoryHot {
		t.Errorf("category = %q, want hot", Category(*outcome.Score))
	}
}

func TestRecalculateClampsToLowerBound(t *testing.T) {
	org := uuid.New()
	store := newFakeStore(org)
	leadID := uuid.New()

	store.leads[leadID] = repository.ScoringInput{
		Source:    strPtr("manual"),
		StageName: strPtr("lost"),
		Priority:  strPtr("low"),
		Value:     floatPtr(0),
		CreatedAt: testNow.Add(-90 * 24 * time.Hour),
	}
	store.stats[leadID] = repository.EngagementStats{
		LastActivityAt: timePtr(testNow.Add(-60 * 24 * time.Hour)),
	}

	outcome := newTestService(store).Recalculate(context.Background(), leadID, org)
	if outcome.Skipped() {
		t.Fatalf("expected a score, got skip reason %q", outcome.Reason)
	}
	// manual 5 + lost 0 + low 5 + value 5 - stale 10 = 5
	if *outcome.Score != 5 {
		t.Errorf("score = %d, want 5", *outcome.Score)
	}
	if *outcome.Score < 0 {
		t.Errorf("score %d below lower bound", *outcome.Score)
	}
}

func TestRecalculateIsDeterministic(t *testing.T) {
	org := uuid.New()
	store := newFakeStore(org)
	leadID := uuid.New()

	store.leads[leadID] = repository.ScoringInput{
		Source:    strPtr("website"),
		StageName: strPtr("qualified"),
		Priority:  strPtr("medium"),
		Value:     floatPtr(5000),
		CreatedAt: testNow.Add(-10 * 24 * time.Hour),
	}
	store.stats[leadID] = repository.EngagementStats{
		ActivityCount:  3,
		CallCount:      2,
		LastActivityAt: timePtr(testNow.Add(-2 * 24 * time.Hour)),
	}

	svc := newTestService(store)
	first := svc.Recalculate(context.Background(), leadID, org)
	second := svc.Recalculate(context.Background(), leadID, org)
	if first.Skipped() || second.Skipped() {
		t.Fatal("expected both runs to produce a score")
	}
	if *first.Score != *second.Score {
		t.Errorf("scores differ between runs: %d vs %d", *first.Score, *second.Score)
	}
}

func TestRecalculateWrongTenantIsNotFound(t *testing.T) {
	org := uuid.New()
	store := newFakeStore(org)
	leadID := uuid.New()
	store.leads[leadID] = repository.ScoringInput{CreatedAt: testNow}

	outcome := newTestService(store).Recalculate(context.Background(), leadID, uuid.New())
	if !outcome.Skipped() || outcome.Reason != SkipNotFound {
		t.Fatalf("expected not_found skip, got %+v", outcome)
	}
	if len(store.saved) != 0 {
		t.Errorf("score was persisted for a foreign tenant")
	}
}

func TestRecalculateStoreFailureSkips(t *testing.T) {
	org := uuid.New()
	store := newFakeStore(org)
	leadID := uuid.New()
	store.leads[leadID] = repository.ScoringInput{CreatedAt: testNow}
	store.failSave = true

	outcome := newTestService(store).Recalculate(context.Background(), leadID, org)
	if !outcome.Skipped() || outcome.Reason != SkipStoreError {
		t.Fatalf("expected store_error skip, got %+v", outcome)
	}
}

func TestEngagementPointsSaturate(t *testing.T) {
	org := uuid.New()
	store := newFakeStore(org)
	busy := uuid.New()
	quiet := uuid.New()

	store.leads[busy] = repository.ScoringInput{CreatedAt: testNow}
	store.leads[quiet] = repository.ScoringInput{CreatedAt: testNow}
	store.stats[busy] = repository.EngagementStats{ActivityCount: 50, CallCount: 50}
	store.stats[quiet] = repository.EngagementStats{ActivityCount: 6, CallCount: 5}

	svc := newTestService(store)
	busyScore := svc.Recalculate(context.Background(), busy, org)
	quietScore := svc.Recalculate(context.Background(), quiet, org)
	if busyScore.Skipped() || quietScore.Skipped() {
		t.Fatal("expected scores for both leads")
	}
	// 6 activities and 5 calls already hit both caps, so the extreme lead
	// earns nothing extra.
	if *busyScore.Score != *quietScore.Score {
		t.Errorf("saturated scores differ: %d vs %d", *busyScore.Score, *quietScore.Score)
	}
}

func TestRecencyTiers(t *testing.T) {
	tests := []struct {
		name string
		age  time.Duration
		want int
	}{
		{"same day", 6 * time.Hour, 30 + 20},
		{"two days", 2 * 24 * time.Hour, 30 + 15},
		{"five days", 5 * 24 * time.Hour, 30 + 10},
		{"ten days", 10 * 24 * time.Hour, 30 + 5},
		{"fifteen days", 15 * 24 * time.Hour, 30 - 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org := uuid.New()
			store := newFakeStore(org)
			leadID := uuid.New()
			store.leads[leadID] = repository.ScoringInput{CreatedAt: testNow.Add(-30 * 24 * time.Hour)}
			store.stats[leadID] = repository.EngagementStats{
				LastActivityAt: timePtr(testNow.Add(-tt.age)),
			}

			outcome := newTestService(store).Recalculate(context.Background(), leadID, org)
			if outcome.Skipped() {
				t.Fatalf("expected a score, got skip reason %q", outcome.Reason)
			}
			if *outcome.Score != tt.want {
				t.Errorf("score = %d, want %d", *outcome.Score, tt.want)
			}
		})
	}
}

func TestBlankContactFieldsEarnNothing(t *testing.T) {
	org := uuid.New()
	store := newFakeStore(org)
	leadID := uuid.New()
	store.leads[leadID] = repository.ScoringInput{
		ContactEmail: strPtr("   "),
		ContactPhone: strPtr(""),
		CreatedAt:    testNow,
	}

	outcome := newTestService(store).Recalculate(context.Background(), leadID, org)
	if outcome.Skipped() {
		t.Fatalf("expected a score, got skip reason %q", outcome.Reason)
	}
	if *outcome.Score != 30 {
		t.Errorf("score = %d, want 30 (blank contacts must not count)", *outcome.Score)
	}
}

func TestRecalculateAllToleratesMissingLeads(t *testing.T) {
	org := uuid.New()
	store := newFakeStore(org)

	present1 := uuid.New()
	present2 := uuid.New()
	store.leads[present1] = repository.ScoringInput{CreatedAt: testNow}
	store.leads[present2] = repository.ScoringInput{Source: strPtr("referral"), CreatedAt: testNow}

	svc := newTestService(store)

	// Simulate a lead deleted between listing and scoring.
	missing := uuid.New()
	results := []LeadScore{
		{LeadID: present1, Outcome: svc.Recalculate(context.Background(), present1, org)},
		{LeadID: missing, Outcome: svc.Recalculate(context.Background(), missing, org)},
		{LeadID: present2, Outcome: svc.Recalculate(context.Background(), present2, org)},
	}

	scored, skipped := 0, 0
	for _, r := range results {
		if r.Skipped() {
			skipped++
			if r.Reason != SkipNotFound {
				t.Errorf("lead %s: skip reason %q, want not_found", r.LeadID, r.Reason)
			}
		} else {
			scored++
		}
	}
	if scored != 2 || skipped != 1 {
		t.Errorf("scored=%d skipped=%d, want 2 scored and 1 skipped", scored, skipped)
	}
	if len(store.saved) != 2 {
		t.Errorf("persisted %d scores, want 2", len(store.saved))
	}
}

func TestRecalculateAllScoresEveryLead(t *testing.T) {
	org := uuid.New()
	store := newFakeStore(org)
	for i := 0; i < 25; i++ {
		store.leads[uuid.New()] = repository.ScoringInput{CreatedAt: testNow}
	}

	results, err := newTestService(store).RecalculateAll(context.Background(), org)
	if err != nil {
		t.Fatalf("RecalculateAll: %v", err)
	}
	if len(results) != 25 {
		t.Fatalf("got %d results, want 25", len(results))
	}
	for _, r := range results {
		if r.Skipped() {
			t.Errorf("lead %s unexpectedly skipped: %s", r.LeadID, r.Reason)
		}
	}
	if len(store.saved) != 25 {
		t.Errorf("persisted %d scores, want 25", len(store.saved))
	}
}
