package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"vpaura/backend/internal/llm"
	"vpaura/backend/internal/model"
)

// maxQueryAttempts bounds generate_query/validate round trips.
const maxQueryAttempts = 3

// GraphStore is a read-only knowledge graph.
type GraphStore interface {
	Schema(ctx context.Context) (string, error)
	Query(ctx context.Context, query string) ([]map[string]any, error)
}

type graphState struct {
	in         Input
	out        chan<- string
	plan       string
	prior      string
	schema     string
	query      string
	validation string
	valid      bool
	attempts   int
	rows       []map[string]any
	note       string
	response   string
}

// GraphWorkflow answers questions about connected data by planning, writing
// and validating a read-only graph query, running it, and summarizing the
// rows. Without a store it answers from the model alone.
type GraphWorkflow struct {
	runner
	store GraphStore
	graph *graph[graphState]
}

func NewGraphWorkflow(invoker Invoker, store GraphStore, checkpoints Checkpointer, systemPrompt string) *GraphWorkflow {
	w := &GraphWorkflow{
		runner: runner{
			kind:         model.WorkflowGraph,
			invoker:      invoker,
			checkpoints:  checkpoints,
			systemPrompt: systemPrompt,
		},
		store: store,
	}
	w.graph = newGraph[graphState]("plan", 2+3*maxQueryAttempts).
		addNode("plan", w.planNode, w.afterPlan, "generate_query", "answer").
		addNode("generate_query", w.generateQueryNode, to[graphState]("validate"), "validate").
		addNode("validate", w.validateNode, w.afterValidate, "generate_query", "execute", "answer").
		addNode("execute", w.executeNode, to[graphState]("answer"), "answer").
		addNode("answer", w.answerNode, to[graphState](end), end).
		mustCompile()
	return w
}

func (w *GraphWorkflow) ask(ctx context.Context, instruction, content string) (string, error) {
	res, err := w.invoker.Invoke(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: instruction},
		{Role: llm.RoleUser, Content: content},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Content), nil
}

func (w *GraphWorkflow) planNode(ctx context.Context, s *graphState) error {
	if w.store == nil {
		s.note = "The knowledge graph is not available. Answer from general knowledge and say that live data could not be consulted."
		return nil
	}
	schema, err := w.store.Schema(ctx)
	if err != nil {
		return fmt.Errorf("could not load graph schema: %w", err)
	}
	s.schema = schema
	if prev := w.previous(ctx, s.in); prev != nil && prev.State["query"] != "" {
		s.prior = fmt.Sprintf("\n\nPrevious lookup in this conversation:\nPlan: %s\nQuery: %s", prev.State["plan"], prev.State["query"])
	}

	plan, err := w.ask(ctx,
		"You plan graph database lookups. In at most two sentences, state which entities and relationships are needed to answer the question. Reuse the previous lookup when the question follows up on it.",
		fmt.Sprintf("Schema:\n%s%s\n\nQuestion: %s", schema, s.prior, s.in.Query))
	if err != nil {
		return err
	}
	s.plan = plan
	return nil
}

func (w *GraphWorkflow) afterPlan(s *graphState) string {
	if w.store == nil {
		return "answer"
	}
	return "generate_query"
}

var codeFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

func (w *GraphWorkflow) generateQueryNode(ctx context.Context, s *graphState) error {
	s.attempts++
	prompt := fmt.Sprintf("Schema:\n%s%s\n\nPlan: %s\n\nQuestion: %s", s.schema, s.prior, s.plan, s.in.Query)
	if s.validation != "" {
		prompt += fmt.Sprintf("\n\nThe previous query was rejected: %s\nPrevious query: %s", s.validation, s.query)
	}
	q, err := w.ask(ctx, "Write a single read-only graph query that answers the question. Reply with the query only.", prompt)
	if err != nil {
		return err
	}
	if m := codeFence.FindStringSubmatch(q); m != nil {
		q = m[1]
	}
	s.query = strings.TrimSpace(q)
	return nil
}

var writeClause = regexp.MustCompile(`(?i)\b(CREATE|MERGE|DELETE|DETACH|SET|REMOVE|DROP|LOAD\s+CSV|CALL\s+dbms)\b`)

func (w *GraphWorkflow) validateNode(_ context.Context, s *graphState) error {
	s.valid = false
	switch {
	case s.query == "":
		s.validation = "the query is empty"
	case writeClause.MatchString(s.query):
		s.validation = "the query modifies data; only read-only queries are allowed"
	case !strings.Contains(strings.ToUpper(s.query), "RETURN"):
		s.validation = "the query has no RETURN clause"
	default:
		s.valid = true
		s.validation = ""
	}
	return nil
}

func (w *GraphWorkflow) afterValidate(s *graphState) string {
	if s.valid {
		return "execute"
	}
	if s.attempts < maxQueryAttempts {
		return "generate_query"
	}
	s.note = fmt.Sprintf("No valid query could be written after %d attempts (%s). Explain that the data could not be looked up.", s.attempts, s.validation)
	return "answer"
}

func (w *GraphWorkflow) executeNode(ctx context.Context, s *graphState) error {
	rows, err := w.store.Query(ctx, s.query)
	if err != nil {
		return fmt.Errorf("graph query failed: %w", err)
	}
	s.rows = rows
	return nil
}

func (w *GraphWorkflow) answerNode(ctx context.Context, s *graphState) error {
	var grounding string
	if s.note != "" {
		grounding = s.note
	} else {
		rows, err := json.Marshal(s.rows)
		if err != nil {
			return fmt.Errorf("could not encode query results: %w", err)
		}
		grounding = fmt.Sprintf("Answer using only these query results.\nQuery: %s\nResults: %s", s.query, rows)
	}
	text, err := w.answer(ctx, w.messages(s.in, grounding), s.out)
	if err != nil {
		return err
	}
	s.response = text
	return nil
}

func (s *graphState) checkpointState() map[string]string {
	state := map[string]string{"attempts": fmt.Sprint(s.attempts)}
	if s.query != "" {
		state["query"] = s.query
	}
	if s.plan != "" {
		state["plan"] = s.plan
	}
	if s.prior != "" {
		state["follow_up"] = "true"
	}
	return state
}

func (w *GraphWorkflow) Execute(ctx context.Context, in Input) (*Result, error) {
	s := &graphState{in: in}
	nodes, err := w.graph.run(ctx, s)
	return w.finish(ctx, in, nodes, s.response, s.checkpointState(), err)
}

func (w *GraphWorkflow) ExecuteStream(ctx context.Context, in Input, out chan<- string) error {
	defer close(out)
	s := &graphState{in: in, out: out}
	nodes, err := w.graph.run(ctx, s)
	if err != nil {
		return err
	}
	w.checkpoint(ctx, in, nodes, s.checkpointState())
	return nil
}
