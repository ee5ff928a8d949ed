package scoring

import "strings"

const (
	CategoryHot  = "hot"
	CategoryWarm = "warm"
	CategoryCold = "cold"

	hotThreshold  = 70
	warmThreshold = 40
)

// Category buckets a score into hot, warm or cold.
func Category(score int) string {
	switch {
	case score >= hotThreshold:
		return CategoryHot
	case score >= warmThreshold:
		return CategoryWarm
	default:
		return CategoryCold
	}
}

// Color returns the UI hex color for a score category.
func Color(category string) string {
	switch category {
	case CategoryHot:
		return "#EF4444"
	case CategoryWarm:
		return "#F59E0B"
	default:
		return "#6B7280"
	}
}

// ValueTier awards Points when the deal value is at least Min. Tiers are
// evaluated highest Min first.
type ValueTier struct {
	Min    float64
	Points int
}

// RecencyTier awards Points when the last activity is at most MaxAgeDays old.
// Tiers are evaluated in order.
type RecencyTier struct {
	MaxAgeDays int
	Points     int
}

// Weights holds every tunable input of the score formula. Build one with
// DefaultWeights and treat it as immutable once handed to a Service.
type Weights struct {
	Source          map[string]int
	SourceDefault   int
	Stage           map[string]int
	StageDefault    int
	Priority        map[string]int
	PriorityDefault int

	ValueTiers   []ValueTier
	ValueDefault int

	ActivityPoints int
	ActivityCap    int
	CallPoints     int
	CallCap        int

	Recency      []RecencyTier
	StalePenalty int

	ContactBothBonus   int
	ContactSingleBonus int
}

func DefaultWeights() Weights {
	return Weights{
		Source: map[string]int{
			"referral":  30,
			"website":   25,
			"linkedin":  20,
			"facebook":  18,
			"instagram": 18,
			"google":    15,
			"email":     12,
			"cold_call": 10,
			"manual":    5,
		},
		SourceDefault: 5,
		Stage: map[string]int{
			"won":         100,
			"negotiation": 80,
			"proposal":    60,
			"qualified":   40,
			"contacted":   20,
			"new":         10,
			"lost":        0,
		},
		StageDefault: 10,
		Priority: map[string]int{
			"high":   20,
			"medium": 10,
			"low":    5,
		},
		PriorityDefault: 10,
		ValueTiers: []ValueTier{
			{Min: 50000, Points: 35},
			{Min: 10000, Points: 25},
			{Min: 1000, Points: 15},
			{Min: 0, Points: 5},
		},
		ValueDefault:   5,
		ActivityPoints: 5,
		ActivityCap:    30,
		CallPoints:     8,
		CallCap:        40,
		Recency: []RecencyTier{
			{MaxAgeDays: 1, Points: 20},
			{MaxAgeDays: 3, Points: 15},
			{MaxAgeDays: 7, Points: 10},
			{MaxAgeDays: 14, Points: 5},
		},
		StalePenalty:       -10,
		ContactBothBonus:   10,
		ContactSingleBonus: 5,
	}
}

func (w Weights) sourcePoints(source *string) int {
	if source == nil {
		return w.SourceDefault
	}
	if points, ok := w.Source[strings.ToLower(strings.TrimSpace(*source))]; ok {
		return points
	}
	return w.SourceDefault
}

func (w Weights) stagePoints(stageName *string) int {
	if stageName == nil {
		return w.StageDefault
	}
	if points, ok := w.Stage[strings.ToLower(strings.TrimSpace(*stageName))]; ok {
		return points
	}
	return w.StageDefault
}

func (w Weights) priorityPoints(priority *string) int {
	if priority == nil {
		return w.PriorityDefault
	}
	if points, ok := w.Priority[strings.ToLower(strings.TrimSpace(*priority))]; ok {
		return points
	}
	return w.PriorityDefault
}

func (w Weights) valuePoints(value *float64) int {
	if value == nil {
		return w.ValueDefault
	}
	for _, tier := range w.ValueTiers {
		if *value >= tier.Min {
			return tier.Points
		}
	}
	return w.ValueDefault
}

func (w Weights) activityPoints(count int) int {
	return capped(count*w.ActivityPoints, w.ActivityCap)
}

func (w Weights) callPoints(count int) int {
	return capped(count*w.CallPoints, w.CallCap)
}

func (w Weights) recencyPoints(ageDays int) int {
	for _, tier := range w.Recency {
		if ageDays <= tier.MaxAgeDays {
			return tier.Points
		}
	}
	return w.StalePenalty
}

func (w Weights) contactPoints(email, phone *string) int {
	hasEmail := present(email)
	hasPhone := present(phone)
	switch {
	case hasEmail && hasPhone:
		return w.ContactBothBonus
	case hasEmail || hasPhone:
		return w.ContactSingleBonus
	default:
		return 0
	}
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func capped(points, max int) int {
	if points > max {
		return max
	}
	return points
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
