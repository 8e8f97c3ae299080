package match

import "math"

// DefaultMaxReasons caps the matched-criterion labels carried for display.
const DefaultMaxReasons = 3

// MatchResult is the explainable outcome of scoring one scholarship against
// one profile. Created fresh per scoring run, never persisted.
type MatchResult struct {
	ScholarshipID string   `json:"scholarship_id"`
	Score         int      `json:"score"` // 0-100
	Reasons       []string `json:"reasons,omitempty"`
	EligibleCount int      `json:"eligible_count"`
	TotalCount    int      `json:"total_count"`
	DaysRemaining int      `json:"days_remaining"`
	ClosingSoon   bool     `json:"closing_soon"`
	AwardAmount   int64    `json:"award_amount"`
	Currency      string   `json:"currency"`
}

// FullyEligible reports whether every criterion matched.
func (r MatchResult) FullyEligible() bool {
	return r.TotalCount > 0 && r.EligibleCount == r.TotalCount
}

// Score converts evaluated criteria into a 0-100 score with up to maxReasons
// matched-criterion labels. Zero criteria scores 0 (undefined eligibility is
// no match, not an error). Truncating reasons never alters the counts.
func Score(evaluated []EvaluatedCriterion, maxReasons int) (score int, reasons []string, eligible, total int) {
	total = len(evaluated)
	if total == 0 {
		return 0, nil, 0, 0
	}
	if maxReasons <= 0 {
		maxReasons = DefaultMaxReasons
	}

	for _, ec := range evaluated {
		if !ec.Matched {
			continue
		}
		eligible++
		if len(reasons) < maxReasons {
			reasons = append(reasons, ec.Criterion.Label)
		}
	}

	score = int(math.Round(100 * float64(eligible) / float64(total)))
	return score, reasons, eligible, total
}
