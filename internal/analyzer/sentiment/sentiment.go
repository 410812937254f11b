// Package sentiment scores company news by the share of headlines carrying
// negative keywords.
package sentiment

import (
	"fmt"
	"strings"

	"github.com/newthinker/fisher/internal/analyzer"
	"github.com/newthinker/fisher/internal/core"
)

// NeutralScore is returned when there is no news to read
const NeutralScore = 5.0

// DefaultNegativeKeywords are matched case-insensitively as substrings of a title
var DefaultNegativeKeywords = []string{
	"lawsuit",
	"fraud",
	"negative",
	"downturn",
	"decline",
	"investigation",
	"recall",
}

// Analyzer implements the sentiment category
type Analyzer struct {
	keywords []string
}

// New creates a sentiment analyzer. With no keywords it uses DefaultNegativeKeywords.
func New(keywords ...string) *Analyzer {
	if len(keywords) == 0 {
		keywords = DefaultNegativeKeywords
	}
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return &Analyzer{keywords: lowered}
}

func (a *Analyzer) Category() core.Category { return core.CategorySentiment }

func (a *Analyzer) Analyze(in analyzer.Input) core.CategoryResult {
	if len(in.News) == 0 {
		return analyzer.Degraded(NeutralScore, "No news data; defaulting to neutral sentiment")
	}

	negative := 0
	for _, n := range in.News {
		if a.IsNegative(n.Title) {
			negative++
		}
	}
	total := len(in.News)
	ratio := float64(negative) / float64(total)

	var score float64
	var detail string
	switch {
	case ratio > 0.3:
		score = 3
		detail = fmt.Sprintf("High proportion of negative headlines: %d/%d", negative, total)
	case ratio > 0:
		score = 6
		detail = fmt.Sprintf("Some negative headlines: %d/%d", negative, total)
	default:
		score = 8
		detail = "Mostly positive/neutral headlines"
	}

	return core.CategoryResult{
		Score:   score,
		Details: detail,
		Facts:   []core.Fact{{Code: "negative_ratio", Value: ratio, Points: score}},
	}
}

// IsNegative reports whether title contains any negative keyword
func (a *Analyzer) IsNegative(title string) bool {
	lower := strings.ToLower(title)
	for _, k := range a.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
