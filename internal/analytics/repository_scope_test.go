package analytics

import (
	"strings"
	"testing"
)

func TestAnalyticsQueriesAreTenantScoped(t *testing.T) {
	queries := map[string]string{
		"scoreDistributionQuery": scoreDistributionQuery,
		"stageScoreQuery":        stageScoreQuery,
	}
	for name, query := range queries {
		if !strings.Contains(query, "organization_id = $1") {
			t.Errorf("%s is missing an organization_id filter:\n%s", name, query)
		}
	}
}

func TestScoreDistributionBucketsMatchCategories(t *testing.T) {
	// Buckets must line up with the scoring thresholds: hot at 70, warm at 40.
	for _, fragment := range []string{"lead_score >= 70", "lead_score >= 40 AND lead_score < 70", "lead_score < 40"} {
		if !strings.Contains(scoreDistributionQuery, fragment) {
			t.Errorf("scoreDistributionQuery missing bucket %q", fragment)
		}
	}
}
