package intent

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"vpaura/backend/internal/model"
)

// Rule lists the phrases that point a query at one workflow.
type Rule struct {
	Keywords []string `yaml:"keywords"`
}

// Rules configure the keyword classifier.
type Rules struct {
	// Default is returned when no rule matches or the best match is ambiguous.
	Default model.WorkflowType `yaml:"default"`
	// DefaultConfidence is the confidence reported for the default.
	DefaultConfidence float64                     `yaml:"default_confidence"`
	Workflows         map[model.WorkflowType]Rule `yaml:"workflows"`
}

// DefaultRules is used when no rules file is configured.
func DefaultRules() Rules {
	return Rules{
		Default:           model.WorkflowChat,
		DefaultConfidence: 0.5,
		Workflows: map[model.WorkflowType]Rule{
			model.WorkflowGraph: {Keywords: []string{
				"relationship", "related to", "connected to", "connection between",
				"who knows", "who works", "reports to", "linked to", "network of", "graph",
			}},
			model.WorkflowRAG: {Keywords: []string{
				"document", "my notes", "my files", "according to", "knowledge base",
				"uploaded", "in the report", "policy", "manual", "handbook",
			}},
		},
	}
}

// LoadRules reads rules from a YAML file. Missing fields keep their defaults.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("could not read intent rules: %w", err)
	}
	rules := DefaultRules()
	var fromFile Rules
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return Rules{}, fmt.Errorf("could not parse intent rules %s: %w", path, err)
	}
	if fromFile.Default != "" {
		rules.Default = fromFile.Default
	}
	if fromFile.DefaultConfidence != 0 {
		rules.DefaultConfidence = fromFile.DefaultConfidence
	}
	if len(fromFile.Workflows) > 0 {
		rules.Workflows = fromFile.Workflows
	}
	return rules, rules.validate()
}

func (r Rules) validate() error {
	if r.DefaultConfidence < 0 || r.DefaultConfidence > 1 {
		return fmt.Errorf("default_confidence must be within [0, 1], got %v", r.DefaultConfidence)
	}
	for t, rule := range r.Workflows {
		for _, kw := range rule.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("workflow %q has an empty keyword", t)
			}
		}
	}
	return nil
}

// types returns the workflow types in name order so ties resolve the same
// way on every run.
func (r Rules) types() []model.WorkflowType {
	out := make([]model.WorkflowType, 0, len(r.Workflows))
	for t := range r.Workflows {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
