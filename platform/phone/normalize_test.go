package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{"national US number", "(415) 555-2671", "US", "+14155552671"},
		{"already E164", "+14155552671", "US", "+14155552671"},
		{"foreign prefix wins over region", "+31612345678", "US", "+31612345678"},
		{"whitespace trimmed", "  +14155552671  ", "US", "+14155552671"},
		{"garbage passes through", "not-a-number", "US", "not-a-number"},
		{"empty input", "", "US", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeE164(tt.input, tt.region); got != tt.want {
				t.Errorf("NormalizeE164(%q, %q) = %q, want %q", tt.input, tt.region, got, tt.want)
			}
		})
	}
}
