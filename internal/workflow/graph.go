package workflow

import (
	"context"
	"fmt"
)

// end is the transition target that stops a graph run.
const end = ""

type node[S any] struct {
	run     func(ctx context.Context, s *S) error
	next    func(s *S) string
	targets []string
}

// graph is a set of named nodes over a typed state S. Transitions are plain
// functions of the state.
type graph[S any] struct {
	entry    string
	nodes    map[string]*node[S]
	maxSteps int
	compiled bool
}

func newGraph[S any](entry string, maxSteps int) *graph[S] {
	return &graph[S]{entry: entry, nodes: make(map[string]*node[S]), maxSteps: maxSteps}
}

// addNode registers a node. targets lists every name next may return.
func (g *graph[S]) addNode(name string, run func(context.Context, *S) error, next func(*S) string, targets ...string) *graph[S] {
	g.nodes[name] = &node[S]{run: run, next: next, targets: targets}
	return g
}

// to is a fixed transition.
func to[S any](name string) func(*S) string {
	return func(*S) string { return name }
}

func (g *graph[S]) compile() error {
	if _, ok := g.nodes[g.entry]; !ok {
		return fmt.Errorf("graph entry node %q is not defined", g.entry)
	}
	for name, n := range g.nodes {
		for _, target := range n.targets {
			if target == end {
				continue
			}
			if _, ok := g.nodes[target]; !ok {
				return fmt.Errorf("node %q transitions to undefined node %q", name, target)
			}
		}
	}
	g.compiled = true
	return nil
}

func (g *graph[S]) mustCompile() *graph[S] {
	if err := g.compile(); err != nil {
		panic(err)
	}
	return g
}

// run executes nodes from the entry until a transition returns end. It
// returns the names of the nodes visited, in order.
func (g *graph[S]) run(ctx context.Context, s *S) ([]string, error) {
	if !g.compiled {
		return nil, fmt.Errorf("graph is not compiled")
	}
	var visited []string
	current := g.entry
	for steps := 0; current != end; steps++ {
		if steps >= g.maxSteps {
			return visited, fmt.Errorf("graph exceeded %d steps", g.maxSteps)
		}
		if err := ctx.Err(); err != nil {
			return visited, err
		}
		n, ok := g.nodes[current]
		if !ok {
			return visited, fmt.Errorf("undefined node %q", current)
		}
		visited = append(visited, current)
		if err := n.run(ctx, s); err != nil {
			return visited, fmt.Errorf("node %s: %w", current, err)
		}
		current = n.next(s)
	}
	return visited, nil
}
