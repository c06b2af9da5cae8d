package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	count int
	trace []string
}

func TestGraph_Run(t *testing.T) {
	ctx := context.Background()
	inc := func(_ context.Context, s *counterState) error {
		s.count++
		return nil
	}

	g := newGraph[counterState]("inc", 10).
		addNode("inc", inc, func(s *counterState) string {
			if s.count < 3 {
				return "inc"
			}
			return "done"
		}, "inc", "done").
		addNode("done", func(_ context.Context, s *counterState) error {
			s.trace = append(s.trace, "done")
			return nil
		}, to[counterState](end), end)
	require.NoError(t, g.compile())

	s := &counterState{}
	visited, err := g.run(ctx, s)

	require.NoError(t, err)
	assert.Equal(t, []string{"inc", "inc", "inc", "done"}, visited)
	assert.Equal(t, 3, s.count)
}

func TestGraph_Compile(t *testing.T) {
	noop := func(context.Context, *counterState) error { return nil }

	t.Run("Failure - Missing entry", func(t *testing.T) {
		g := newGraph[counterState]("start", 5)
		assert.ErrorContains(t, g.compile(), "entry node")
	})

	t.Run("Failure - Undefined target", func(t *testing.T) {
		g := newGraph[counterState]("a", 5).addNode("a", noop, to[counterState]("b"), "b")
		assert.ErrorContains(t, g.compile(), `undefined node "b"`)
	})

	t.Run("Failure - Run before compile", func(t *testing.T) {
		g := newGraph[counterState]("a", 5).addNode("a", noop, to[counterState](end), end)
		_, err := g.run(context.Background(), &counterState{})
		assert.Error(t, err)
	})
}

func TestGraph_StepLimitAndErrors(t *testing.T) {
	ctx := context.Background()
	loop := newGraph[counterState]("a", 4).
		addNode("a", func(context.Context, *counterState) error { return nil }, to[counterState]("a"), "a").
		mustCompile()

	visited, err := loop.run(ctx, &counterState{})
	assert.ErrorContains(t, err, "exceeded 4 steps")
	assert.Len(t, visited, 4)

	boom := errors.New("boom")
	failing := newGraph[counterState]("a", 4).
		addNode("a", func(context.Context, *counterState) error { return boom }, to[counterState](end), end).
		mustCompile()
	_, err = failing.run(ctx, &counterState{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "node a")

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	visited, err = failing.run(canceled, &counterState{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, visited)
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"museums", "paris"}, keywords("What are the museums in Paris? Museums!"))
	assert.Empty(t, keywords("is it ok?"))
}
