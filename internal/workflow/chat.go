package workflow

import (
	"context"

	"vpaura/backend/internal/model"
)

type chatState struct {
	in       Input
	out      chan<- string
	response string
}

// ChatWorkflow answers directly from the model with the session history.
type ChatWorkflow struct {
	runner
	graph *graph[chatState]
}

func NewChatWorkflow(invoker Invoker, checkpoints Checkpointer, systemPrompt string) *ChatWorkflow {
	w := &ChatWorkflow{runner: runner{
		kind:         model.WorkflowChat,
		invoker:      invoker,
		checkpoints:  checkpoints,
		systemPrompt: systemPrompt,
	}}
	w.graph = newGraph[chatState]("chat", 1).
		addNode("chat", w.chatNode, to[chatState](end), end).
		mustCompile()
	return w
}

func (w *ChatWorkflow) chatNode(ctx context.Context, s *chatState) error {
	text, err := w.answer(ctx, w.messages(s.in), s.out)
	if err != nil {
		return err
	}
	s.response = text
	return nil
}

func (w *ChatWorkflow) Execute(ctx context.Context, in Input) (*Result, error) {
	s := &chatState{in: in}
	nodes, err := w.graph.run(ctx, s)
	return w.finish(ctx, in, nodes, s.response, nil, err)
}

func (w *ChatWorkflow) ExecuteStream(ctx context.Context, in Input, out chan<- string) error {
	defer close(out)
	s := &chatState{in: in, out: out}
	nodes, err := w.graph.run(ctx, s)
	if err != nil {
		return err
	}
	w.checkpoint(ctx, in, nodes, nil)
	return nil
}
