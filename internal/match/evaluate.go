// Package match implements deterministic scholarship scoring and ranking.
// Every function takes its inputs (including the clock) explicitly and holds
// no state, so identical inputs always produce identical output.
package match

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gradlift/scholar-cli/internal/model"
)

// EvaluatedCriterion pairs a criterion with its per-profile outcome.
type EvaluatedCriterion struct {
	Criterion model.Criterion `json:"criterion"`
	Matched   bool            `json:"matched"`
}

// ValidateCriteria rejects criteria the evaluator cannot interpret. Scoring
// surfaces this immediately to the caller; evaluation itself never errors.
func ValidateCriteria(criteria []model.Criterion) error {
	for _, c := range criteria {
		if c.Attribute == "" {
			return &model.ValidationError{Reason: fmt.Sprintf("criterion %q: empty attribute", c.Key)}
		}
		switch c.Operator {
		case model.OpEquals, model.OpOneOf, model.OpMin, model.OpMax, model.OpFlag:
		default:
			return &model.ValidationError{Reason: fmt.Sprintf("criterion %q: unknown operator %q", c.Key, c.Operator)}
		}
	}
	return nil
}

// Evaluate checks each criterion against the profile independently. A missing
// or unreadable attribute evaluates to unmatched — fail-closed, never an
// error. Output is the same length and order as the input criteria.
func Evaluate(profile model.Profile, criteria []model.Criterion) []EvaluatedCriterion {
	out := make([]EvaluatedCriterion, len(criteria))
	for i, c := range criteria {
		out[i] = EvaluatedCriterion{Criterion: c, Matched: evaluateOne(profile, c)}
	}
	return out
}

func evaluateOne(profile model.Profile, c model.Criterion) bool {
	switch c.Operator {
	case model.OpEquals:
		v, ok := profile.Attr(c.Attribute)
		return ok && strings.EqualFold(v, c.Value)
	case model.OpOneOf:
		v, ok := profile.Attr(c.Attribute)
		if !ok {
			return false
		}
		for _, cand := range strings.Split(c.Value, "|") {
			if strings.EqualFold(v, strings.TrimSpace(cand)) {
				return true
			}
		}
		return false
	case model.OpMin:
		v, ok := profile.Number(c.Attribute)
		threshold, terr := parseNumber(c.Value)
		return ok && terr && v >= threshold
	case model.OpMax:
		v, ok := profile.Number(c.Attribute)
		threshold, terr := parseNumber(c.Value)
		return ok && terr && v <= threshold
	case model.OpFlag:
		v, ok := profile.Flag(c.Attribute)
		return ok && v
	}
	return false
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}
