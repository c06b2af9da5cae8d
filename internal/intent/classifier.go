package intent

import (
	"context"
	"strings"

	"vpaura/backend/internal/model"
)

// Classifier guesses which workflow should answer a query.
type Classifier interface {
	Classify(ctx context.Context, query string) (model.WorkflowType, float64, error)
}

// KeywordClassifier scores workflows by how many of their phrases occur in
// the query. One hit gives 0.75, two or more give 1.0. A tie for the best
// score, or no hit at all, yields the default workflow.
type KeywordClassifier struct {
	rules Rules
}

func NewKeywordClassifier(rules Rules) *KeywordClassifier {
	workflows := make(map[model.WorkflowType]Rule, len(rules.Workflows))
	for t, rule := range rules.Workflows {
		lowered := make([]string, len(rule.Keywords))
		for i, kw := range rule.Keywords {
			lowered[i] = strings.ToLower(strings.TrimSpace(kw))
		}
		workflows[t] = Rule{Keywords: lowered}
	}
	rules.Workflows = workflows
	return &KeywordClassifier{rules: rules}
}

func (c *KeywordClassifier) Classify(_ context.Context, query string) (model.WorkflowType, float64, error) {
	q := strings.ToLower(query)

	best := c.rules.Default
	bestHits := 0
	tied := false
	for _, t := range c.rules.types() {
		hits := 0
		for _, kw := range c.rules.Workflows[t].Keywords {
			if strings.Contains(q, kw) {
				hits++
			}
		}
		switch {
		case hits > bestHits:
			best, bestHits, tied = t, hits, false
		case hits == bestHits && hits > 0:
			tied = true
		}
	}

	if bestHits == 0 || tied {
		return c.rules.Default, clamp(c.rules.DefaultConfidence), nil
	}
	return best, clamp(0.5 + 0.25*float64(bestHits)), nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
