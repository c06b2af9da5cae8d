package intent

import (
	"context"
	"fmt"
	"log/slog"

	"vpaura/backend/internal/model"
	"vpaura/backend/internal/workflow"
)

// Router picks a workflow for a query. Classifications below the confidence
// threshold fall back to the chat workflow.
type Router struct {
	classifier Classifier
	registry   *workflow.Registry
	threshold  float64
	fallback   model.WorkflowType
}

func NewRouter(classifier Classifier, registry *workflow.Registry, threshold float64) *Router {
	return &Router{
		classifier: classifier,
		registry:   registry,
		threshold:  threshold,
		fallback:   model.WorkflowChat,
	}
}

// RouteResult is the outcome of Route.
type RouteResult struct {
	Decision model.RoutingDecision
	Result   *workflow.Result
}

// DetectIntent classifies query. A classifier failure is reported as the
// fallback workflow with zero confidence.
func (r *Router) DetectIntent(ctx context.Context, query string) (model.WorkflowType, float64) {
	detected, confidence, err := r.classifier.Classify(ctx, query)
	if err != nil {
		slog.WarnContext(ctx, "Intent classification failed, using default workflow", "error", err)
		return r.fallback, 0
	}
	return detected, clamp(confidence)
}

// Decide applies the threshold. Confidence equal to the threshold passes.
func (r *Router) Decide(detected model.WorkflowType, confidence float64) model.RoutingDecision {
	d := model.RoutingDecision{
		Detected:   detected,
		Confidence: confidence,
		Threshold:  r.threshold,
	}
	if confidence < r.threshold {
		d.Routed = r.fallback
		d.AutoRouted = false
		return d
	}
	d.Routed = detected
	d.AutoRouted = true
	return d
}

// Resolve detects, decides and looks up the workflow for query. A routed
// type with no registered workflow falls back to chat.
func (r *Router) Resolve(ctx context.Context, query string) (model.RoutingDecision, workflow.Workflow, error) {
	detected, confidence := r.DetectIntent(ctx, query)
	decision := r.Decide(detected, confidence)
	if decision.AutoRouted {
		slog.InfoContext(ctx, "Auto-routed query", "workflow", decision.Routed, "confidence", confidence)
	} else {
		slog.WarnContext(ctx, "Low intent confidence, defaulting to chat workflow",
			"detected", detected, "confidence", confidence, "threshold", r.threshold)
	}

	w, err := r.registry.Get(decision.Routed)
	if err != nil && decision.Routed != r.fallback {
		slog.WarnContext(ctx, "Routed workflow not registered, defaulting to chat", "workflow", decision.Routed)
		decision.Routed = r.fallback
		decision.AutoRouted = false
		w, err = r.registry.Get(r.fallback)
	}
	if err != nil {
		return decision, nil, fmt.Errorf("could not resolve workflow: %w", err)
	}
	return decision, w, nil
}

// Route resolves the workflow for in.Query and runs it to completion.
func (r *Router) Route(ctx context.Context, in workflow.Input) (*RouteResult, error) {
	decision, w, err := r.Resolve(ctx, in.Query)
	if err != nil {
		return nil, err
	}
	metadata := make(map[string]any, len(in.Metadata)+3)
	for k, v := range in.Metadata {
		metadata[k] = v
	}
	in.Metadata = metadata
	in.Metadata["workflow"] = string(decision.Routed)
	in.Metadata["auto_routed"] = decision.AutoRouted
	in.Metadata["confidence"] = decision.Confidence

	res, err := w.Execute(ctx, in)
	if err != nil {
		return nil, err
	}
	return &RouteResult{Decision: decision, Result: res}, nil
}
