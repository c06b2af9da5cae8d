package guardrail

import (
	"context"
	"fmt"
	"log/slog"
)

// Stage names the side of a model call a verdict applies to.
type Stage string

const (
	StageInput  Stage = "input"
	StageOutput Stage = "output"
)

// Result is the verdict of a safety evaluation.
type Result struct {
	Safe       bool     `json:"safe"`
	Blocked    bool     `json:"blocked"`
	Reason     string   `json:"reason,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// Pass is the verdict returned when nothing objected.
func Pass() Result {
	return Result{Safe: true}
}

// Block builds an unsafe verdict.
func Block(reason string, categories ...string) Result {
	return Result{Safe: false, Blocked: true, Reason: reason, Categories: categories}
}

// Check is a pluggable content policy applied to model input and output.
type Check interface {
	Name() string
	ValidateInput(ctx context.Context, text string) (Result, error)
	ValidateOutput(ctx context.Context, text string) (Result, error)
}

// Validator runs an ordered list of checks and stops at the first unsafe
// verdict. A disabled validator approves everything.
type Validator struct {
	enabled bool
	checks  []Check
}

func NewValidator(enabled bool, checks ...Check) *Validator {
	return &Validator{enabled: enabled, checks: checks}
}

// Enabled reports whether checks are evaluated at all.
func (v *Validator) Enabled() bool {
	return v != nil && v.enabled
}

func (v *Validator) ValidateInput(ctx context.Context, text string) Result {
	return v.run(ctx, StageInput, text)
}

func (v *Validator) ValidateOutput(ctx context.Context, text string) Result {
	return v.run(ctx, StageOutput, text)
}

func (v *Validator) run(ctx context.Context, stage Stage, text string) Result {
	if !v.Enabled() {
		return Pass()
	}
	for _, check := range v.checks {
		var (
			res Result
			err error
		)
		if stage == StageInput {
			res, err = check.ValidateInput(ctx, text)
		} else {
			res, err = check.ValidateOutput(ctx, text)
		}
		if err != nil {
			// A check that cannot decide blocks the text.
			slog.WarnContext(ctx, "Guardrail check failed", "check", check.Name(), "stage", stage, "error", err)
			return Block(fmt.Sprintf("%s check failed: %v", check.Name(), err))
		}
		if !res.Safe {
			res.Blocked = true
			slog.InfoContext(ctx, "Guardrail blocked text", "check", check.Name(), "stage", stage, "reason", res.Reason)
			return res
		}
	}
	return Pass()
}
