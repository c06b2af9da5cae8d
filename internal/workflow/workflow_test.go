package workflow_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vpaura/backend/internal/llm"
	"vpaura/backend/internal/model"
	"vpaura/backend/internal/repository"
	mock_repo "vpaura/backend/internal/repository/mocks"
	"vpaura/backend/internal/workflow"
)

// scriptedInvoker answers each call with the next scripted reply and records
// the prompts it received.
type scriptedInvoker struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   [][]llm.Message
}

func (s *scriptedInvoker) next(msgs []llm.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, msgs)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", errors.New("no scripted reply left")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r, nil
}

func (s *scriptedInvoker) Invoke(_ context.Context, msgs []llm.Message) (*llm.Result, error) {
	text, err := s.next(msgs)
	if err != nil {
		return nil, err
	}
	return &llm.Result{Content: text, Model: "test"}, nil
}

func (s *scriptedInvoker) Stream(ctx context.Context, msgs []llm.Message, out chan<- string) (*llm.Result, error) {
	text, err := s.next(msgs)
	if err != nil {
		return nil, err
	}
	for _, tok := range strings.SplitAfter(text, " ") {
		select {
		case out <- tok:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &llm.Result{Content: text, Model: "test"}, nil
}

func lastPrompt(s *scriptedInvoker) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}

func collect(t *testing.T, run func(chan<- string) error) (string, error) {
	t.Helper()
	out := make(chan string)
	errCh := make(chan error, 1)
	go func() { errCh <- run(out) }()
	var sb strings.Builder
	for tok := range out {
		sb.WriteString(tok)
	}
	return sb.String(), <-errCh
}

func TestChatWorkflow_Execute(t *testing.T) {
	ctx := context.Background()
	history := []*model.Message{
		{Role: model.RoleUser, Content: "Hi"},
		{Role: model.RoleAssistant, Content: "Hello!"},
	}
	in := workflow.Input{Query: "What is the capital of France?", SessionID: 4, UserID: 1, History: history}

	t.Run("Success", func(t *testing.T) {
		inv := &scriptedInvoker{replies: []string{"Paris."}}
		checkpoints := mock_repo.NewMockCheckpointStore(t)
		checkpoints.On("Save", mock.Anything, mock.MatchedBy(func(cp *model.Checkpoint) bool {
			return cp.SessionID == 4 && cp.Workflow == model.WorkflowChat && cp.Turn == 2
		})).Return(nil).Once()

		w := workflow.NewChatWorkflow(inv, checkpoints, "Be brief.")
		res, err := w.Execute(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, "Paris.", res.Response)
		assert.Empty(t, res.Error)
		assert.Equal(t, []string{"chat"}, res.Nodes)

		prompt := lastPrompt(inv)
		require.Len(t, prompt, 4)
		assert.Equal(t, llm.Message{Role: llm.RoleSystem, Content: "Be brief."}, prompt[0])
		assert.Equal(t, llm.RoleAssistant, prompt[2].Role)
		assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: in.Query}, prompt[3])
	})

	t.Run("Failure - Model error is captured in the result", func(t *testing.T) {
		inv := &scriptedInvoker{err: errors.New("provider down")}
		checkpoints := mock_repo.NewMockCheckpointStore(t)

		w := workflow.NewChatWorkflow(inv, checkpoints, "")
		res, err := w.Execute(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, workflow.ErrorResponse, res.Response)
		assert.Contains(t, res.Error, "provider down")
		checkpoints.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Cancellation propagates", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		w := workflow.NewChatWorkflow(&scriptedInvoker{}, nil, "")

		_, err := w.Execute(canceled, in)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Success - Checkpoint failure is not fatal", func(t *testing.T) {
		checkpoints := mock_repo.NewMockCheckpointStore(t)
		checkpoints.On("Save", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

		w := workflow.NewChatWorkflow(&scriptedInvoker{replies: []string{"ok"}}, checkpoints, "")
		res, err := w.Execute(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, "ok", res.Response)
	})
}

func TestChatWorkflow_ExecuteStream(t *testing.T) {
	ctx := context.Background()
	in := workflow.Input{Query: "hello", SessionID: 2}

	t.Run("Success", func(t *testing.T) {
		checkpoints := mock_repo.NewMockCheckpointStore(t)
		checkpoints.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
		w := workflow.NewChatWorkflow(&scriptedInvoker{replies: []string{"Hi there friend"}}, checkpoints, "")

		text, err := collect(t, func(out chan<- string) error { return w.ExecuteStream(ctx, in, out) })

		require.NoError(t, err)
		assert.Equal(t, "Hi there friend", text)
	})

	t.Run("Failure - Error is returned and channel closed", func(t *testing.T) {
		w := workflow.NewChatWorkflow(&scriptedInvoker{err: errors.New("boom")}, nil, "")

		text, err := collect(t, func(out chan<- string) error { return w.ExecuteStream(ctx, in, out) })

		assert.ErrorContains(t, err, "boom")
		assert.Empty(t, text)
	})
}

type fakeGraphStore struct {
	queries []string
	rows    []map[string]any
	err     error
}

func (f *fakeGraphStore) Schema(context.Context) (string, error) {
	return "(:Person)-[:LIVES_IN]->(:City)", nil
}

func (f *fakeGraphStore) Query(_ context.Context, q string) ([]map[string]any, error) {
	f.queries = append(f.queries, q)
	return f.rows, f.err
}

func TestGraphWorkflow(t *testing.T) {
	ctx := context.Background()
	in := workflow.Input{Query: "Who lives in Paris?", SessionID: 9}

	t.Run("Success - Retries an invalid query", func(t *testing.T) {
		store := &fakeGraphStore{rows: []map[string]any{{"name": "Ada"}}}
		inv := &scriptedInvoker{replies: []string{
			"Find people linked to Paris by LIVES_IN.",
			"MATCH (p:Person) DETACH DELETE p",
			"```cypher\nMATCH (p:Person)-[:LIVES_IN]->(:City {name:'Paris'}) RETURN p.name AS name\n```",
			"Ada lives in Paris.",
		}}
		checkpoints := mock_repo.NewMockCheckpointStore(t)
		checkpoints.On("Load", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound).Once()
		checkpoints.On("Save", mock.Anything, mock.MatchedBy(func(cp *model.Checkpoint) bool {
			return cp.Workflow == model.WorkflowGraph && cp.State["attempts"] == "2" && cp.State["follow_up"] == ""
		})).Return(nil).Once()

		w := workflow.NewGraphWorkflow(inv, store, checkpoints, "")
		res, err := w.Execute(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, "Ada lives in Paris.", res.Response)
		assert.Equal(t, []string{"plan", "generate_query", "validate", "generate_query", "validate", "execute", "answer"}, res.Nodes)
		require.Len(t, store.queries, 1)
		assert.True(t, strings.HasPrefix(store.queries[0], "MATCH (p:Person)-[:LIVES_IN]"))
		assert.Contains(t, lastPrompt(inv)[0].Content, `"name":"Ada"`)
	})

	t.Run("Success - Follow-up reuses the previous lookup", func(t *testing.T) {
		store := &fakeGraphStore{rows: []map[string]any{{"name": "Ada"}, {"name": "Grace"}}}
		inv := &scriptedInvoker{replies: []string{
			"Widen the previous lookup to every city.",
			"MATCH (p:Person)-[:LIVES_IN]->(c:City) RETURN p.name AS name",
			"Ada and Grace.",
		}}
		checkpoints := mock_repo.NewMockCheckpointStore(t)
		checkpoints.On("Load", mock.Anything, int64(9)).Return(&model.Checkpoint{
			SessionID: 9,
			Workflow:  model.WorkflowGraph,
			State: map[string]string{
				"plan":  "Find people linked to Paris by LIVES_IN.",
				"query": "MATCH (p:Person)-[:LIVES_IN]->(:City {name:'Paris'}) RETURN p.name AS name",
			},
		}, nil).Once()
		checkpoints.On("Save", mock.Anything, mock.MatchedBy(func(cp *model.Checkpoint) bool {
			return cp.State["follow_up"] == "true"
		})).Return(nil).Once()

		w := workflow.NewGraphWorkflow(inv, store, checkpoints, "")
		res, err := w.Execute(ctx, workflow.Input{Query: "And in any city?", SessionID: 9})

		require.NoError(t, err)
		assert.Equal(t, "Ada and Grace.", res.Response)
		inv.mu.Lock()
		planPrompt := inv.calls[0][1].Content
		queryPrompt := inv.calls[1][1].Content
		inv.mu.Unlock()
		assert.Contains(t, planPrompt, "{name:'Paris'}")
		assert.Contains(t, queryPrompt, "Previous lookup in this conversation")
	})

	t.Run("Success - Checkpoint from another workflow is ignored", func(t *testing.T) {
		store := &fakeGraphStore{}
		inv := &scriptedInvoker{replies: []string{"plan", "MATCH (n) RETURN n", "Nothing found."}}
		checkpoints := mock_repo.NewMockCheckpointStore(t)
		checkpoints.On("Load", mock.Anything, int64(9)).Return(&model.Checkpoint{
			SessionID: 9,
			Workflow:  model.WorkflowRAG,
			State:     map[string]string{"query": "unrelated"},
		}, nil).Once()
		checkpoints.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

		w := workflow.NewGraphWorkflow(inv, store, checkpoints, "")
		_, err := w.Execute(ctx, in)

		require.NoError(t, err)
		inv.mu.Lock()
		defer inv.mu.Unlock()
		assert.NotContains(t, inv.calls[0][1].Content, "Previous lookup")
	})

	t.Run("Success - Gives up after three invalid queries", func(t *testing.T) {
		store := &fakeGraphStore{}
		inv := &scriptedInvoker{replies: []string{"plan", "CREATE (x)", "CREATE (y)", "CREATE (z)", "Sorry, I could not look that up."}}

		w := workflow.NewGraphWorkflow(inv, store, nil, "")
		res, err := w.Execute(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, "Sorry, I could not look that up.", res.Response)
		assert.Empty(t, store.queries)
		assert.Equal(t, "answer", res.Nodes[len(res.Nodes)-1])
	})

	t.Run("Success - No store answers directly", func(t *testing.T) {
		inv := &scriptedInvoker{replies: []string{"I cannot check live data right now."}}

		w := workflow.NewGraphWorkflow(inv, nil, nil, "")
		res, err := w.Execute(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, []string{"plan", "answer"}, res.Nodes)
		assert.Equal(t, "I cannot check live data right now.", res.Response)
	})

	t.Run("Failure - Store error is captured", func(t *testing.T) {
		store := &fakeGraphStore{err: errors.New("graph offline")}
		inv := &scriptedInvoker{replies: []string{"plan", "MATCH (n) RETURN n"}}

		w := workflow.NewGraphWorkflow(inv, store, nil, "")
		res, err := w.Execute(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, workflow.ErrorResponse, res.Response)
		assert.Contains(t, res.Error, "graph offline")
	})
}

func TestRAGWorkflow(t *testing.T) {
	ctx := context.Background()
	in := workflow.Input{Query: "Which museums are in Paris?", SessionID: 3, UserID: 7}

	t.Run("Success - Streams an answer grounded on the best documents", func(t *testing.T) {
		searcher := mock_repo.NewMockDocumentRepository(t)
		searcher.On("Search", mock.Anything, int64(7), []string{"museums", "paris"}, 10).Return([]*model.Document{
			{ID: 1, Title: "Recipes", Content: "Paris style bread."},
			{ID: 2, Title: "Paris museums", Content: "The Louvre and Orsay museums."},
		}, nil).Once()
		checkpoints := mock_repo.NewMockCheckpointStore(t)
		checkpoints.On("Save", mock.Anything, mock.MatchedBy(func(cp *model.Checkpoint) bool {
			return cp.State["documents"] == "2,1"
		})).Return(nil).Once()
		inv := &scriptedInvoker{replies: []string{"The Louvre and Orsay."}}

		w := workflow.NewRAGWorkflow(inv, searcher, checkpoints, "")
		text, err := collect(t, func(out chan<- string) error { return w.ExecuteStream(ctx, in, out) })

		require.NoError(t, err)
		assert.Equal(t, "The Louvre and Orsay.", text)
		grounding := lastPrompt(inv)[0].Content
		assert.Less(t, strings.Index(grounding, "Paris museums"), strings.Index(grounding, "Recipes"))
	})

	t.Run("Success - No documents still answers", func(t *testing.T) {
		searcher := mock_repo.NewMockDocumentRepository(t)
		searcher.On("Search", mock.Anything, int64(7), mock.Anything, 10).Return([]*model.Document{}, nil).Once()
		inv := &scriptedInvoker{replies: []string{"I found nothing."}}

		w := workflow.NewRAGWorkflow(inv, searcher, nil, "")
		res, err := w.Execute(ctx, in)

		require.NoError(t, err)
		assert.Equal(t, "I found nothing.", res.Response)
		assert.Contains(t, lastPrompt(inv)[0].Content, "No reference documents matched")
	})
}

func TestRegistry(t *testing.T) {
	chat := workflow.NewChatWorkflow(&scriptedInvoker{}, nil, "")
	rag := workflow.NewRAGWorkflow(&scriptedInvoker{}, nil, nil, "")
	reg := workflow.NewRegistry(chat, rag)

	w, err := reg.Get(model.WorkflowRAG)
	require.NoError(t, err)
	assert.Equal(t, model.WorkflowRAG, w.Type())

	_, err = reg.Get(model.WorkflowGraph)
	assert.Error(t, err)
	assert.Equal(t, []model.WorkflowType{model.WorkflowChat, model.WorkflowRAG}, reg.Types())
}
