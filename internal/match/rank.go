package match

import "sort"

// Filters narrow a scored catalog before ranking. All predicates compose.
type Filters struct {
	MinScore          int  `json:"min_score,omitempty"`
	FullyEligibleOnly bool `json:"fully_eligible_only,omitempty"`
	ClosingSoonOnly   bool `json:"closing_soon_only,omitempty"`
}

// Apply returns the results passing every filter, preserving input order.
func (f Filters) Apply(results []MatchResult) []MatchResult {
	out := make([]MatchResult, 0, len(results))
	for _, r := range results {
		if r.Score < f.MinScore {
			continue
		}
		if f.FullyEligibleOnly && !r.FullyEligible() {
			continue
		}
		if f.ClosingSoonOnly && !r.ClosingSoon {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Rank sorts results in place and returns them. Key order: open deadlines
// before passed ones regardless of score, then score descending, then
// days-remaining ascending (more urgent first), then award amount normalized
// to the reference currency descending. Ties beyond that keep the original
// catalog order — the sort is stable so identical inputs always yield
// identical output order.
func Rank(results []MatchResult, conv *Converter) []MatchResult {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]

		aExpired := a.DaysRemaining <= 0
		bExpired := b.DaysRemaining <= 0
		if aExpired != bExpired {
			return !aExpired
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.DaysRemaining != b.DaysRemaining {
			return a.DaysRemaining < b.DaysRemaining
		}

		av, aok := conv.Normalize(a.AwardAmount, a.Currency)
		bv, bok := conv.Normalize(b.AwardAmount, b.Currency)
		if aok && bok && av != bv {
			return av > bv
		}
		return false
	})
	return results
}
