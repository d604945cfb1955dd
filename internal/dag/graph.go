// Package dag implements the dependency graph that orders generation work.
//
// Nodes are registered with the keys they depend on. A dependency may name a
// key that has not been added yet; such edges are queued and resolved by
// Finalize, which also rejects cycles. The topological order is deterministic:
// among nodes that are ready at the same time, the one added first wins.
package dag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Rana718/knockoff/internal/errs"
)

type Node[K comparable, V any] struct {
	Key   K
	Index int
	Value V
}

type edge[K comparable] struct {
	dependent  K
	dependency K
}

type Graph[K comparable, V any] struct {
	nodes     []*Node[K, V]
	index     map[K]int
	deps      []map[int]struct{}
	queue     []edge[K]
	finalized bool
}

func New[K comparable, V any]() *Graph[K, V] {
	return &Graph[K, V]{index: make(map[K]int)}
}

// AddNode registers key with value and records an edge to every dependsOn key.
func (g *Graph[K, V]) AddNode(key K, value V, dependsOn ...K) (*Node[K, V], error) {
	if _, exists := g.index[key]; exists {
		return nil, fmt.Errorf("%w: %v", errs.ErrDuplicateNode, key)
	}
	n := &Node[K, V]{Key: key, Index: len(g.nodes), Value: value}
	g.nodes = append(g.nodes, n)
	g.deps = append(g.deps, make(map[int]struct{}))
	g.index[key] = n.Index
	g.finalized = false

	for _, d := range dependsOn {
		g.AddDependency(key, d)
	}
	return n, nil
}

// AddDependency records that dependent needs dependency built first. Either
// side may be unknown until Finalize.
func (g *Graph[K, V]) AddDependency(dependent, dependency K) {
	g.finalized = false
	if !g.link(dependent, dependency) {
		g.queue = append(g.queue, edge[K]{dependent: dependent, dependency: dependency})
	}
}

func (g *Graph[K, V]) link(dependent, dependency K) bool {
	to, ok := g.index[dependent]
	if !ok {
		return false
	}
	from, ok := g.index[dependency]
	if !ok {
		return false
	}
	g.deps[to][from] = struct{}{}
	return true
}

// Finalize resolves queued edges and checks the graph is acyclic. Calling it
// again without structural changes is a no-op.
func (g *Graph[K, V]) Finalize() error {
	if g.finalized {
		return nil
	}

	var missing []string
	remaining := g.queue[:0]
	for _, e := range g.queue {
		if g.link(e.dependent, e.dependency) {
			continue
		}
		remaining = append(remaining, e)
		if _, ok := g.index[e.dependent]; !ok {
			missing = append(missing, fmt.Sprintf("%v", e.dependent))
		} else {
			missing = append(missing, fmt.Sprintf("%v (required by %v)", e.dependency, e.dependent))
		}
	}
	g.queue = remaining
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errs.ErrDependencyNotFound, strings.Join(missing, ", "))
	}

	if _, err := g.order(); err != nil {
		return err
	}
	g.finalized = true
	return nil
}

// TopologicalOrder finalizes the graph if needed and returns every node with
// each one placed after all of its dependencies.
func (g *Graph[K, V]) TopologicalOrder() ([]*Node[K, V], error) {
	if err := g.Finalize(); err != nil {
		return nil, err
	}
	return g.order()
}

// order is Kahn's algorithm with the ready list kept sorted by insertion index.
func (g *Graph[K, V]) order() ([]*Node[K, V], error) {
	n := len(g.nodes)
	indeg := make([]int, n)
	out := make([][]int, n)
	for i := 0; i < n; i++ {
		for d := range g.deps[i] {
			indeg[i]++
			out[d] = append(out[d], i)
		}
	}
	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]*Node[K, V], 0, n)
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		order = append(order, g.nodes[i])
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		var stuck []string
		for i := 0; i < n; i++ {
			if indeg[i] > 0 {
				stuck = append(stuck, fmt.Sprintf("%v", g.nodes[i].Key))
			}
		}
		return nil, fmt.Errorf("%w: involving %s", errs.ErrCyclicGraph, strings.Join(stuck, ", "))
	}
	return order, nil
}

func (g *Graph[K, V]) Get(key K) (*Node[K, V], bool) {
	i, ok := g.index[key]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Nodes returns every node in insertion order.
func (g *Graph[K, V]) Nodes() []*Node[K, V] {
	out := make([]*Node[K, V], len(g.nodes))
	copy(out, g.nodes)
	return out
}

func (g *Graph[K, V]) Len() int { return len(g.nodes) }

// DependenciesOf returns the resolved dependencies of key in insertion order.
func (g *Graph[K, V]) DependenciesOf(key K) ([]K, error) {
	i, ok := g.index[key]
	if !ok {
		return nil, fmt.Errorf("%w: %v", errs.ErrDependencyNotFound, key)
	}
	idx := make([]int, 0, len(g.deps[i]))
	for d := range g.deps[i] {
		idx = append(idx, d)
	}
	sort.Ints(idx)
	keys := make([]K, len(idx))
	for j, d := range idx {
		keys[j] = g.nodes[d].Key
	}
	return keys, nil
}
