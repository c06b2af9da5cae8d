package llm

import (
	"fmt"

	"vpaura/backend/internal/guardrail"
)

// Outcome is the terminal state of a single attempt.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeRetryableFailure  Outcome = "retryable_failure"
	OutcomeFallbackTriggered Outcome = "fallback_triggered"
	OutcomeDegraded          Outcome = "degraded"
	OutcomeFatal             Outcome = "fatal"
)

// Attempt records one pass through validate, invoke, validate.
type Attempt struct {
	Index   int
	Model   string
	Input   guardrail.Result
	Output  guardrail.Result
	Err     error
	Outcome Outcome
}

// InvocationError is returned when every attempt failed outside production.
type InvocationError struct {
	Attempts []Attempt
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("model invocation failed after %d attempt(s): %v", len(e.Attempts), e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }
