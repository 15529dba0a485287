package buildgraph

import (
	"container/heap"
	"fmt"
	"strings"

	oerrors "github.com/graphforge/forge/internal/errors"
)

// CyclicDependencyError reports a dependency cycle. Cycle lists the
// participants in edge order; the last one depends on the first.
type CyclicDependencyError struct {
	Cycle []GraphTarget
}

func (e *CyclicDependencyError) Error() string {
	parts := make([]string, 0, len(e.Cycle)+1)
	for _, t := range e.Cycle {
		parts = append(parts, t.String())
	}
	if len(e.Cycle) > 0 {
		parts = append(parts, e.Cycle[0].String())
	}
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(parts, " -> "))
}

func (e *CyclicDependencyError) Unwrap() error { return oerrors.ErrCycle }

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// TopologicalSort orders the given targets and everything they transitively
// depend on so that every target comes after all of its direct dependencies.
// An empty subset means every target. Independent targets keep index order.
func (g *Graph) TopologicalSort(subset []GraphTarget) ([]GraphTarget, error) {
	include, err := g.closure(subset)
	if err != nil {
		return nil, err
	}

	remaining := make([]int, len(g.targets))
	dependents := make([][]int, len(g.targets))
	total := 0
	for i := range g.targets {
		if !include[i] {
			continue
		}
		total++
		remaining[i] = len(g.deps[i])
		for _, j := range g.deps[i] {
			dependents[j] = append(dependents[j], i)
		}
	}

	ready := &intMinHeap{}
	for i := range g.targets {
		if include[i] && remaining[i] == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]GraphTarget, 0, total)
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		out = append(out, g.targets[i].ID())
		for _, d := range dependents[i] {
			remaining[d]--
			if remaining[d] == 0 {
				heap.Push(ready, d)
			}
		}
	}

	if len(out) != total {
		return nil, &CyclicDependencyError{Cycle: g.findCycle(include)}
	}
	return out, nil
}

// closure marks the subset and everything reachable from it.
func (g *Graph) closure(subset []GraphTarget) ([]bool, error) {
	include := make([]bool, len(g.targets))
	if len(subset) == 0 {
		for i := range include {
			include[i] = true
		}
		return include, nil
	}

	var stack []int
	for _, id := range subset {
		i, ok := g.index[id]
		if !ok {
			return nil, oerrors.NewNotFoundError(fmt.Sprintf("target %s is not in the graph", id), id.Project, "")
		}
		if !include[i] {
			include[i] = true
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, j := range g.deps[i] {
			if !include[j] {
				include[j] = true
				stack = append(stack, j)
			}
		}
	}
	return include, nil
}

// FindCycle returns one dependency cycle, or nil if the graph is acyclic.
func (g *Graph) FindCycle() []GraphTarget {
	include := make([]bool, len(g.targets))
	for i := range include {
		include[i] = true
	}
	return g.findCycle(include)
}

// findCycle runs a DFS in index order and returns the first cycle witness.
func (g *Graph) findCycle(include []bool) []GraphTarget {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(g.targets))
	var path []int
	var cycle []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		path = append(path, u)
		for _, v := range g.deps[u] {
			if !include[v] {
				continue
			}
			switch color[v] {
			case white:
				if dfs(v) {
					return true
				}
			case gray:
				for k, p := range path {
					if p == v {
						cycle = append([]int(nil), path[k:]...)
						break
					}
				}
				return true
			}
		}
		path = path[:len(path)-1]
		color[u] = black
		return false
	}

	for i := range g.targets {
		if include[i] && color[i] == white && dfs(i) {
			break
		}
	}

	if len(cycle) == 0 {
		return nil
	}
	out := make([]GraphTarget, len(cycle))
	for k, i := range cycle {
		out[k] = g.targets[i].ID()
	}
	return out
}
