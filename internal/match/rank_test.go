package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConverter() *Converter {
	return NewConverter("USD", map[string]float64{"EUR": 1.08, "GBP": 1.27})
}

func TestRank_ScoreDescending(t *testing.T) {
	results := []MatchResult{
		{ScholarshipID: "low", Score: 40, DaysRemaining: 20},
		{ScholarshipID: "high", Score: 90, DaysRemaining: 20},
		{ScholarshipID: "mid", Score: 70, DaysRemaining: 20},
	}
	ranked := Rank(results, testConverter())
	assert.Equal(t, "high", ranked[0].ScholarshipID)
	assert.Equal(t, "mid", ranked[1].ScholarshipID)
	assert.Equal(t, "low", ranked[2].ScholarshipID)
}

func TestRank_UrgencyBreaksScoreTie(t *testing.T) {
	// Both score 82; A closes in 10 days, B in 40 -> [A, B].
	results := []MatchResult{
		{ScholarshipID: "B", Score: 82, DaysRemaining: 40},
		{ScholarshipID: "A", Score: 82, DaysRemaining: 10},
	}
	ranked := Rank(results, testConverter())
	assert.Equal(t, "A", ranked[0].ScholarshipID)
	assert.Equal(t, "B", ranked[1].ScholarshipID)
}

func TestRank_ExpiredSortLastRegardlessOfScore(t *testing.T) {
	results := []MatchResult{
		{ScholarshipID: "expired-high", Score: 100, DaysRemaining: -3},
		{ScholarshipID: "open-low", Score: 10, DaysRemaining: 5},
		{ScholarshipID: "closing-today", Score: 95, DaysRemaining: 0},
	}
	ranked := Rank(results, testConverter())
	assert.Equal(t, "open-low", ranked[0].ScholarshipID)
	// daysRemaining <= 0 counts as expired; within the expired tail the same
	// score-descending order applies.
	assert.Equal(t, "expired-high", ranked[1].ScholarshipID)
	assert.Equal(t, "closing-today", ranked[2].ScholarshipID)
}

func TestRank_AwardBreaksFullTie(t *testing.T) {
	results := []MatchResult{
		{ScholarshipID: "small", Score: 80, DaysRemaining: 15, AwardAmount: 100000, Currency: "USD"},
		{ScholarshipID: "big-eur", Score: 80, DaysRemaining: 15, AwardAmount: 500000, Currency: "EUR"},
	}
	ranked := Rank(results, testConverter())
	assert.Equal(t, "big-eur", ranked[0].ScholarshipID)
}

func TestRank_UnknownCurrencyTreatedAsEqual(t *testing.T) {
	// JPY has no configured rate: the award tie-break is unavailable, so the
	// original catalog order decides.
	results := []MatchResult{
		{ScholarshipID: "first", Score: 80, DaysRemaining: 15, AwardAmount: 100, Currency: "JPY"},
		{ScholarshipID: "second", Score: 80, DaysRemaining: 15, AwardAmount: 999999, Currency: "USD"},
	}
	ranked := Rank(results, testConverter())
	assert.Equal(t, "first", ranked[0].ScholarshipID)
	assert.Equal(t, "second", ranked[1].ScholarshipID)
}

func TestRank_StableOnIdenticalKeys(t *testing.T) {
	results := []MatchResult{
		{ScholarshipID: "one", Score: 50, DaysRemaining: 10, AwardAmount: 100, Currency: "USD"},
		{ScholarshipID: "two", Score: 50, DaysRemaining: 10, AwardAmount: 100, Currency: "USD"},
		{ScholarshipID: "three", Score: 50, DaysRemaining: 10, AwardAmount: 100, Currency: "USD"},
	}
	ranked := Rank(results, testConverter())
	assert.Equal(t, "one", ranked[0].ScholarshipID)
	assert.Equal(t, "two", ranked[1].ScholarshipID)
	assert.Equal(t, "three", ranked[2].ScholarshipID)
}

func TestFilters_MinScore(t *testing.T) {
	results := []MatchResult{
		{ScholarshipID: "a", Score: 80},
		{ScholarshipID: "b", Score: 30},
	}
	out := Filters{MinScore: 50}.Apply(results)
	assert.Len(t, out, 1)
	assert.Equal(t, "a", out[0].ScholarshipID)
}

func TestFilters_FullyEligibleOnly(t *testing.T) {
	results := []MatchResult{
		{ScholarshipID: "full", EligibleCount: 3, TotalCount: 3},
		{ScholarshipID: "partial", Score: 100, EligibleCount: 2, TotalCount: 3},
	}
	out := Filters{FullyEligibleOnly: true}.Apply(results)
	assert.Len(t, out, 1)
	assert.Equal(t, "full", out[0].ScholarshipID)
}

func TestFilters_ClosingSoonOnly(t *testing.T) {
	results := []MatchResult{
		{ScholarshipID: "soon", ClosingSoon: true},
		{ScholarshipID: "later"},
	}
	out := Filters{ClosingSoonOnly: true}.Apply(results)
	assert.Len(t, out, 1)
	assert.Equal(t, "soon", out[0].ScholarshipID)
}

func TestFilters_Compose(t *testing.T) {
	results := []MatchResult{
		{ScholarshipID: "keep", Score: 90, EligibleCount: 2, TotalCount: 2, ClosingSoon: true},
		{ScholarshipID: "low", Score: 10, EligibleCount: 2, TotalCount: 2, ClosingSoon: true},
		{ScholarshipID: "partial", Score: 90, EligibleCount: 1, TotalCount: 2, ClosingSoon: true},
		{ScholarshipID: "far", Score: 90, EligibleCount: 2, TotalCount: 2},
	}
	out := Filters{MinScore: 50, FullyEligibleOnly: true, ClosingSoonOnly: true}.Apply(results)
	assert.Len(t, out, 1)
	assert.Equal(t, "keep", out[0].ScholarshipID)
}
