package scoring

import "testing"

func TestCategoryBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, CategoryCold},
		{39, CategoryCold},
		{40, CategoryWarm},
		{69, CategoryWarm},
		{70, CategoryHot},
		{100, CategoryHot},
	}
	for _, tt := range tests {
		if got := Category(tt.score); got != tt.want {
			t.Errorf("Category(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{CategoryHot, "#EF4444"},
		{CategoryWarm, "#F59E0B"},
		{CategoryCold, "#6B7280"},
		{"unknown", "#6B7280"},
	}
	for _, tt := range tests {
		if got := Color(tt.category); got != tt.want {
			t.Errorf("Color(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestValueTierBoundaries(t *testing.T) {
	w := DefaultWeights()
	tests := []struct {
		value float64
		want  int
	}{
		{0, 5},
		{999.99, 5},
		{1000, 15},
		{9999, 15},
		{10000, 25},
		{49999.99, 25},
		{50000, 35},
		{250000, 35},
	}
	for _, tt := range tests {
		if got := w.valuePoints(&tt.value); got != tt.want {
			t.Errorf("valuePoints(%v) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestUnknownSourceFallsBack(t *testing.T) {
	w := DefaultWeights()
	if got := w.sourcePoints(strPtr("carrier_pigeon")); got != w.SourceDefault {
		t.Errorf("unknown source = %d, want default %d", got, w.SourceDefault)
	}
	if got := w.sourcePoints(nil); got != w.SourceDefault {
		t.Errorf("nil source = %d, want default %d", got, w.SourceDefault)
	}
	if got := w.sourcePoints(strPtr("  Referral ")); got != 30 {
		t.Errorf("referral with padding = %d, want 30", got)
	}
}

func TestStageMatchingIsCaseInsensitive(t *testing.T) {
	w := DefaultWeights()
	if got := w.stagePoints(strPtr("Negotiation")); got != 80 {
		t.Errorf("stagePoints(Negotiation) = %d, want 80", got)
	}
	if got := w.stagePoints(strPtr("Custom Stage")); got != w.StageDefault {
		t.Errorf("unknown stage = %d, want default %d", got, w.StageDefault)
	}
}
