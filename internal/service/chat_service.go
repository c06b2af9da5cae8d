package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	app_errors "vpaura/backend/internal/errors"
	"vpaura/backend/internal/intent"
	"vpaura/backend/internal/llm"
	"vpaura/backend/internal/model"
	"vpaura/backend/internal/repository"
	"vpaura/backend/internal/workflow"
)

const (
	sessionNameLength = 50
	chatErrorResponse = "I apologize, but I encountered an error processing your request."
)

// Router resolves and runs the workflow for a query. *intent.Router
// implements it.
type Router interface {
	Route(ctx context.Context, in workflow.Input) (*intent.RouteResult, error)
	Resolve(ctx context.Context, query string) (model.RoutingDecision, workflow.Workflow, error)
}

// CompletionInvoker is the model access used by bare completions.
// *llm.Invoker implements it.
type CompletionInvoker interface {
	Invoke(ctx context.Context, messages []llm.Message) (*llm.Result, error)
	Config() llm.InvokerConfig
}

// PromptSource supplies the current system prompt.
type PromptSource interface {
	SystemPrompt() string
}

type staticPrompt string

func (p staticPrompt) SystemPrompt() string { return string(p) }

type ChatService struct {
	users        repository.UserRepository
	sessions     repository.SessionRepository
	messages     repository.MessageRepository
	router       Router
	invoker      CompletionInvoker
	prompts      PromptSource
	historyLimit int
}

type ChatServiceOption func(*ChatService)

// WithPromptSource makes the service read the system prompt from p on every
// turn instead of using the fixed one.
func WithPromptSource(p PromptSource) ChatServiceOption {
	return func(s *ChatService) {
		if p != nil {
			s.prompts = p
		}
	}
}

func NewChatService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
	router Router,
	invoker CompletionInvoker,
	historyLimit int,
	systemPrompt string,
	opts ...ChatServiceOption,
) *ChatService {
	s := &ChatService{
		users:        users,
		sessions:     sessions,
		messages:     messages,
		router:       router,
		invoker:      invoker,
		prompts:      staticPrompt(systemPrompt),
		historyLimit: historyLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// turn is the per-request state shared by Chat and ChatStream.
type turn struct {
	session    *model.Session
	isNew      bool
	userMsgID  int64
	history    []*model.Message
	sessionRef string
}

func (s *ChatService) resolveUser(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: user %d", app_errors.ErrNotFound, userID)
		}
		return fmt.Errorf("%w: could not get user: %w", app_errors.ErrDatabase, err)
	}
	return nil
}

func (s *ChatService) resolveSession(ctx context.Context, req *model.ChatRequest, userID int64) (*model.Session, bool, error) {
	if req.SessionID.IsZero() {
		session := &model.Session{Name: truncate(req.Query, sessionNameLength), UserID: userID}
		if err := s.sessions.Create(ctx, session); err != nil {
			return nil, false, fmt.Errorf("%w: could not create session: %w", app_errors.ErrDatabase, err)
		}
		slog.InfoContext(ctx, "Created session", "session_id", session.ID, "user_id", userID)
		return session, true, nil
	}

	id, err := req.SessionID.Int64()
	if err != nil {
		return nil, false, fmt.Errorf("%w: invalid session ID format %q", app_errors.ErrNotFound, string(req.SessionID))
	}
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, fmt.Errorf("%w: session %d", app_errors.ErrNotFound, id)
		}
		return nil, false, fmt.Errorf("%w: could not get session: %w", app_errors.ErrDatabase, err)
	}
	if session.UserID != userID {
		return nil, false, fmt.Errorf("%w: session %d", app_errors.ErrNotFound, id)
	}
	return session, false, nil
}

// begin resolves the user and session, stores the user message and loads
// the history that precedes it.
func (s *ChatService) begin(ctx context.Context, req *model.ChatRequest, userID int64) (*turn, error) {
	if err := s.resolveUser(ctx, userID); err != nil {
		return nil, err
	}
	session, isNew, err := s.resolveSession(ctx, req, userID)
	if err != nil {
		return nil, err
	}

	userMsg := &model.Message{SessionID: session.ID, Role: model.RoleUser, Content: req.Query}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("%w: could not save user message: %w", app_errors.ErrDatabase, err)
	}

	recent, err := s.messages.ListBySession(ctx, session.ID, s.historyLimit+1)
	if err != nil {
		return nil, fmt.Errorf("%w: could not load history: %w", app_errors.ErrDatabase, err)
	}
	history := make([]*model.Message, 0, len(recent))
	for _, m := range recent {
		if m.ID != userMsg.ID {
			history = append(history, m)
		}
	}
	if len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}

	return &turn{
		session:    session,
		isNew:      isNew,
		userMsgID:  userMsg.ID,
		history:    history,
		sessionRef: strconv.FormatInt(session.ID, 10),
	}, nil
}

func (s *ChatService) input(req *model.ChatRequest, userID int64, t *turn) workflow.Input {
	return workflow.Input{
		Query:        req.Query,
		SessionID:    t.session.ID,
		UserID:       userID,
		History:      t.history,
		SystemPrompt: s.prompts.SystemPrompt(),
		Metadata:     map[string]any{"session_id": t.sessionRef},
	}
}

func (s *ChatService) saveAssistant(ctx context.Context, sessionID int64, content string) error {
	msg := &model.Message{SessionID: sessionID, Role: model.RoleAssistant, Content: content}
	if err := s.messages.Create(ctx, msg); err != nil {
		return fmt.Errorf("%w: could not save assistant message: %w", app_errors.ErrDatabase, err)
	}
	return nil
}

// Chat runs one atomic turn: resolve the session, store the user message,
// route to a workflow and store its answer. Not-found and database failures
// are returned; any other failure is reported inside the response.
func (s *ChatService) Chat(ctx context.Context, req *model.ChatRequest, userID int64) (*model.ChatResponse, error) {
	slog.InfoContext(ctx, "Chat request", "user_id", userID, "query", truncate(req.Query, sessionNameLength))

	t, err := s.begin(ctx, req, userID)
	if err != nil {
		return nil, err
	}

	routed, err := s.router.Route(ctx, s.input(req, userID, t))
	if err != nil {
		if errors.Is(err, app_errors.ErrNotFound) || errors.Is(err, app_errors.ErrDatabase) {
			return nil, err
		}
		slog.ErrorContext(ctx, "Chat turn failed", "session_id", t.session.ID, "error", err)
		// Keep the user message paired with an assistant turn.
		if err := s.saveAssistant(context.WithoutCancel(ctx), t.session.ID, chatErrorResponse); err != nil {
			return nil, err
		}
		msg := err.Error()
		resp := &model.ChatResponse{
			Query:        req.Query,
			Response:     chatErrorResponse,
			SessionID:    &t.sessionRef,
			IsNewSession: t.isNew,
			Error:        &msg,
		}
		if t.isNew {
			resp.SessionName = &t.session.Name
		}
		return resp, nil
	}

	// The answer is persisted even if the caller went away after the
	// workflow finished.
	if err := s.saveAssistant(context.WithoutCancel(ctx), t.session.ID, routed.Result.Response); err != nil {
		return nil, err
	}

	agentType := string(routed.Decision.Routed)
	confidence := routed.Decision.Confidence
	resp := &model.ChatResponse{
		Query:        req.Query,
		Response:     routed.Result.Response,
		AgentType:    &agentType,
		Confidence:   &confidence,
		SessionID:    &t.sessionRef,
		IsNewSession: t.isNew,
	}
	if t.isNew {
		resp.SessionName = &t.session.Name
	}
	if routed.Result.Error != "" {
		resp.Error = &routed.Result.Error
	}
	return resp, nil
}

// ChatStream runs one streaming turn. It sends chunk events while the
// workflow produces tokens, then exactly one done or error event, and always
// closes out. The assistant message is stored only after a complete stream.
func (s *ChatService) ChatStream(ctx context.Context, req *model.ChatRequest, userID int64, out chan<- model.StreamEvent) {
	defer close(out)

	send := func(ev model.StreamEvent) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	fail := func(err error) {
		slog.ErrorContext(ctx, "Chat stream failed", "user_id", userID, "error", err)
		ev := model.StreamEvent{
			Type:     model.EventError,
			Content:  err.Error(),
			Metadata: map[string]any{"error_type": errorType(err)},
		}
		if ctx.Err() != nil {
			// Best effort: the consumer may already be gone.
			select {
			case out <- ev:
			default:
			}
			return
		}
		send(ev)
	}

	t, err := s.begin(ctx, req, userID)
	if err != nil {
		fail(err)
		return
	}

	decision, w, err := s.router.Resolve(ctx, req.Query)
	if err != nil {
		fail(err)
		return
	}
	agentType := string(decision.Routed)

	tokens := make(chan string)
	var full strings.Builder
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.ExecuteStream(gctx, s.input(req, userID, t), tokens)
	})
	g.Go(func() error {
		for tok := range tokens {
			full.WriteString(tok)
			if !send(model.StreamEvent{
				Type:     model.EventChunk,
				Content:  tok,
				Metadata: map[string]any{"agent_type": agentType},
			}) {
				// Keep draining so the producer can finish and close tokens.
				for range tokens {
				}
				return ctx.Err()
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		fail(err)
		return
	}

	if err := s.saveAssistant(ctx, t.session.ID, full.String()); err != nil {
		fail(err)
		return
	}

	var sessionName any
	if t.isNew {
		sessionName = t.session.Name
	}
	send(model.StreamEvent{
		Type: model.EventDone,
		Metadata: map[string]any{
			"session_id":     t.sessionRef,
			"session_name":   sessionName,
			"is_new_session": t.isNew,
			"agent_type":     agentType,
			"confidence":     decision.Confidence,
		},
	})
}

// Completion is a bare guarded model call outside any session. Guardrail
// rejections are reported in the response rather than as an error.
func (s *ChatService) Completion(ctx context.Context, req *model.CompletionRequest) (*model.CompletionResponse, error) {
	slog.InfoContext(ctx, "Completion request", "query", truncate(req.Query, sessionNameLength))

	modelName := s.invoker.Config().Model
	res, err := s.invoker.Invoke(ctx, []llm.Message{{Role: llm.RoleUser, Content: req.Query}})
	if err != nil {
		if errors.Is(err, app_errors.ErrSafetyBlocked) {
			reason := blockReason(err)
			return &model.CompletionResponse{
				Content: reason,
				Model:   modelName,
				GuardrailResult: model.GuardrailVerdict{
					Valid:   false,
					Blocked: true,
					Reason:  &reason,
				},
			}, nil
		}
		slog.ErrorContext(ctx, "Completion failed", "error", err)
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	usage := res.Usage
	if usage == nil {
		usage = &model.Usage{}
	}
	return &model.CompletionResponse{
		Content:         res.Content,
		Model:           res.Model,
		Usage:           usage,
		GuardrailResult: model.GuardrailVerdict{Valid: true},
	}, nil
}

// blockReason prefers the guardrail's own reason over the wrapped error text.
func blockReason(err error) string {
	var invErr *llm.InvocationError
	if errors.As(err, &invErr) {
		for i := len(invErr.Attempts) - 1; i >= 0; i-- {
			a := invErr.Attempts[i]
			if a.Input.Blocked && a.Input.Reason != "" {
				return a.Input.Reason
			}
			if a.Output.Blocked && a.Output.Reason != "" {
				return a.Output.Reason
			}
		}
	}
	return err.Error()
}

func errorType(err error) string {
	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		return "NotFound"
	case errors.Is(err, app_errors.ErrDatabase):
		return "Database"
	case errors.Is(err, app_errors.ErrSafetyBlocked):
		return "SafetyBlocked"
	case errors.Is(err, app_errors.ErrInvocation):
		return "Invocation"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Canceled"
	default:
		return "Internal"
	}
}

// truncate shortens a string to a specified number of runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
