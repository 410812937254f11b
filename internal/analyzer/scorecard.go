package analyzer

import (
	"strings"

	"github.com/newthinker/fisher/internal/core"
)

// Scorecard accumulates raw points, details and facts for one category.
// The zero value is ready to use.
type Scorecard struct {
	raw     float64
	details []string
	facts   []core.Fact
}

// Award adds points for a computed metric and records it as a fact.
// Zero points still record the fact.
func (s *Scorecard) Award(points float64, code string, value float64, detail string) {
	s.raw += points
	s.facts = append(s.facts, core.Fact{Code: code, Value: value, Points: points})
	s.details = append(s.details, detail)
}

// Note records a detail for a check that could not be computed
func (s *Scorecard) Note(detail string) {
	s.details = append(s.details, detail)
}

// Raw returns the points awarded so far
func (s *Scorecard) Raw() float64 {
	return s.raw
}

// Result normalizes the raw score onto 0-10 given the highest attainable raw score
func (s *Scorecard) Result(maxRaw float64) core.CategoryResult {
	score := 0.0
	if maxRaw > 0 {
		score = min(core.MaxScore, s.raw/maxRaw*core.MaxScore)
	}
	return core.CategoryResult{
		Score:   score,
		Details: strings.Join(s.details, "; "),
		Facts:   s.facts,
	}
}

// Degraded is the result for a category that had nothing to score
func Degraded(score float64, detail string) core.CategoryResult {
	return core.CategoryResult{Score: score, Details: detail}
}
