package repository

import (
	"strings"
	"testing"
)

// Every scoring query that reads or writes lead rows must be scoped to the
// caller's organization so one tenant can never touch another tenant's leads.
func TestScoringQueriesAreTenantScoped(t *testing.T) {
	queries := map[string]string{
		"scoringInputQuery": scoringInputQuery,
		"saveScoreQuery":    saveScoreQuery,
		"listLeadIDsQuery":  listLeadIDsQuery,
	}

	for name, query := range queries {
		if !strings.Contains(query, "organization_id") {
			t.Errorf("%s is missing an organization_id filter:\n%s", name, query)
		}
	}
}

func TestEngagementStatsCallsAreTenantScoped(t *testing.T) {
	// Activities join through the lead row; call logs carry their own
	// organization column and must filter on it directly.
	if !strings.Contains(engagementStatsQuery, "cl.organization_id = $2") {
		t.Errorf("engagementStatsQuery does not scope call_logs by organization:\n%s", engagementStatsQuery)
	}
}

func TestSaveScoreWritesScoreAndActivityTimestamp(t *testing.T) {
	for _, fragment := range []string{"lead_score = $1", "last_activity_at = $2", "updated_at = NOW()"} {
		if !strings.Contains(saveScoreQuery, fragment) {
			t.Errorf("saveScoreQuery missing %q:\n%s", fragment, saveScoreQuery)
		}
	}
}
