package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"vpaura/backend/internal/llm"
	"vpaura/backend/internal/model"
	"vpaura/backend/internal/repository"
)

// ErrorResponse is what a workflow answers when one of its nodes failed.
const ErrorResponse = "I apologize, but I encountered an error. Please try again."

// Input is everything a workflow needs for one turn.
type Input struct {
	Query        string
	SessionID    int64
	UserID       int64
	History      []*model.Message
	SystemPrompt string
	Metadata     map[string]any
}

// Result is the outcome of a blocking run. Node failures are reported in
// Error with ErrorResponse as the Response.
type Result struct {
	Workflow model.WorkflowType
	Response string
	Error    string
	Nodes    []string
}

// Workflow is one processing variant the router can dispatch to.
// ExecuteStream sends response tokens to out and always closes it.
type Workflow interface {
	Type() model.WorkflowType
	Execute(ctx context.Context, in Input) (*Result, error)
	ExecuteStream(ctx context.Context, in Input, out chan<- string) error
}

// Invoker is the model access a workflow needs. *llm.Invoker implements it.
type Invoker interface {
	Invoke(ctx context.Context, messages []llm.Message) (*llm.Result, error)
	Stream(ctx context.Context, messages []llm.Message, out chan<- string) (*llm.Result, error)
}

// Checkpointer persists per-session workflow state after each turn and
// returns the latest one. Load returns repository.ErrNotFound when the
// session has none.
type Checkpointer interface {
	Save(ctx context.Context, cp *model.Checkpoint) error
	Load(ctx context.Context, sessionID int64) (*model.Checkpoint, error)
}

// Registry maps workflow types to their single shared instance.
type Registry struct {
	workflows map[model.WorkflowType]Workflow
}

func NewRegistry(workflows ...Workflow) *Registry {
	r := &Registry{workflows: make(map[model.WorkflowType]Workflow, len(workflows))}
	for _, w := range workflows {
		r.Register(w)
	}
	return r
}

func (r *Registry) Register(w Workflow) {
	r.workflows[w.Type()] = w
}

func (r *Registry) Get(t model.WorkflowType) (Workflow, error) {
	w, ok := r.workflows[t]
	if !ok {
		return nil, fmt.Errorf("no workflow registered for %q", t)
	}
	return w, nil
}

// Types lists the registered workflow types in name order.
func (r *Registry) Types() []model.WorkflowType {
	types := make([]model.WorkflowType, 0, len(r.workflows))
	for t := range r.workflows {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// runner holds what every workflow variant shares.
type runner struct {
	kind         model.WorkflowType
	invoker      Invoker
	checkpoints  Checkpointer
	systemPrompt string
}

func (r *runner) Type() model.WorkflowType { return r.kind }

// finish turns a graph run into a Result, capturing node failures. Only
// cancellation escapes as an error.
func (r *runner) finish(ctx context.Context, in Input, nodes []string, response string, state map[string]string, err error) (*Result, error) {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		slog.ErrorContext(ctx, "Workflow node failed", "workflow", r.kind, "session_id", in.SessionID, "nodes", nodes, "error", err)
		return &Result{Workflow: r.kind, Response: ErrorResponse, Error: err.Error(), Nodes: nodes}, nil
	}
	r.checkpoint(ctx, in, nodes, state)
	return &Result{Workflow: r.kind, Response: response, Nodes: nodes}, nil
}

func (r *runner) checkpoint(ctx context.Context, in Input, nodes []string, state map[string]string) {
	if r.checkpoints == nil || in.SessionID == 0 {
		return
	}
	cp := &model.Checkpoint{
		SessionID: in.SessionID,
		Workflow:  r.kind,
		Turn:      len(in.History)/2 + 1,
		Nodes:     nodes,
		State:     state,
		UpdatedAt: time.Now().UTC(),
	}
	if err := r.checkpoints.Save(context.WithoutCancel(ctx), cp); err != nil {
		slog.WarnContext(ctx, "Failed to save workflow checkpoint", "workflow", r.kind, "session_id", in.SessionID, "error", err)
	}
}

// previous returns the session's latest checkpoint if this workflow wrote
// it, or nil.
func (r *runner) previous(ctx context.Context, in Input) *model.Checkpoint {
	if r.checkpoints == nil || in.SessionID == 0 {
		return nil
	}
	cp, err := r.checkpoints.Load(ctx, in.SessionID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.WarnContext(ctx, "Failed to load workflow checkpoint", "workflow", r.kind, "session_id", in.SessionID, "error", err)
		}
		return nil
	}
	if cp.Workflow != r.kind {
		return nil
	}
	return cp
}

// messages builds the prompt: system prompt, prior turns, then the query.
func (r *runner) messages(in Input, extraSystem ...string) []llm.Message {
	system := in.SystemPrompt
	if system == "" {
		system = r.systemPrompt
	}
	msgs := make([]llm.Message, 0, len(in.History)+len(extraSystem)+2)
	if system != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	}
	for _, extra := range extraSystem {
		if extra != "" {
			msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: extra})
		}
	}
	for _, h := range in.History {
		role := llm.RoleUser
		if h.Role == model.RoleAssistant {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: h.Content})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: in.Query})
}

// answer calls the model in blocking or streaming mode depending on out.
func (r *runner) answer(ctx context.Context, msgs []llm.Message, out chan<- string) (string, error) {
	var (
		res *llm.Result
		err error
	)
	if out != nil {
		res, err = r.invoker.Stream(ctx, msgs, out)
	} else {
		res, err = r.invoker.Invoke(ctx, msgs)
	}
	if err != nil {
		return "", err
	}
	return res.Content, nil
}
