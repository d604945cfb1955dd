package dag

import (
	"errors"
	"testing"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(nodes []*Node[string, int]) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key
	}
	return out
}

func TestTopologicalOrderRespectsEdges(t *testing.T) {
	g := New[string, int]()
	_, err := g.AddNode("products", 0, "product")
	require.NoError(t, err)
	_, err = g.AddNode("product", 1, "dates", "colors")
	require.NoError(t, err)
	_, err = g.AddNode("dates", 2)
	require.NoError(t, err)
	_, err = g.AddNode("colors", 3)
	require.NoError(t, err)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"dates", "colors", "product", "products"}, keys(order))
}

func TestTiesBrokenByInsertionOrder(t *testing.T) {
	g := New[string, int]()
	for _, k := range []string{"c", "a", "b"} {
		_, err := g.AddNode(k, 0)
		require.NoError(t, err)
	}
	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, keys(order))

	again, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, keys(order), keys(again))
}

func TestDuplicateNode(t *testing.T) {
	g := New[string, int]()
	_, err := g.AddNode("a", 0)
	require.NoError(t, err)

	_, err = g.AddNode("a", 1)
	assert.True(t, errors.Is(err, errs.ErrDuplicateNode))
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
	assert.Equal(t, 1, g.Len())
}

func TestForwardReferenceResolvedAtFinalize(t *testing.T) {
	g := New[string, int]()
	_, err := g.AddNode("b", 0, "a")
	require.NoError(t, err)
	_, err = g.AddNode("a", 0)
	require.NoError(t, err)

	require.NoError(t, g.Finalize())
	deps, err := g.DependenciesOf("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, deps)
}

func TestMissingDependency(t *testing.T) {
	g := New[string, int]()
	_, err := g.AddNode("b", 0, "ghost")
	require.NoError(t, err)

	err = g.Finalize()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrDependencyNotFound))
	assert.ErrorContains(t, err, "ghost")

	_, err = g.TopologicalOrder()
	assert.True(t, errors.Is(err, errs.ErrDependencyNotFound))
}

func TestCycleDetected(t *testing.T) {
	g := New[string, int]()
	_, _ = g.AddNode("a", 0, "b")
	_, _ = g.AddNode("b", 0, "a")
	_, _ = g.AddNode("c", 0)

	err := g.Finalize()
	assert.True(t, errors.Is(err, errs.ErrCyclicGraph))

	_, err = g.TopologicalOrder()
	assert.True(t, errors.Is(err, errs.ErrCyclicGraph))
}

func TestSelfEdgeIsCycle(t *testing.T) {
	g := New[string, int]()
	_, _ = g.AddNode("a", 0, "a")
	assert.True(t, errors.Is(g.Finalize(), errs.ErrCyclicGraph))
}

func TestDuplicateEdgesCollapse(t *testing.T) {
	g := New[string, int]()
	_, _ = g.AddNode("a", 0)
	_, _ = g.AddNode("b", 0, "a", "a")
	g.AddDependency("b", "a")

	deps, err := g.DependenciesOf("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, deps)
}

func TestFinalizeIdempotent(t *testing.T) {
	g := New[string, int]()
	_, _ = g.AddNode("a", 0)
	require.NoError(t, g.Finalize())
	require.NoError(t, g.Finalize())
}

func TestGetAndNodes(t *testing.T) {
	g := New[string, string]()
	_, _ = g.AddNode("x", "first")
	_, _ = g.AddNode("y", "second")

	n, ok := g.Get("y")
	require.True(t, ok)
	assert.Equal(t, "second", n.Value)
	assert.Equal(t, 1, n.Index)

	_, ok = g.Get("z")
	assert.False(t, ok)
	assert.Len(t, g.Nodes(), 2)
}

func TestEmptyGraph(t *testing.T) {
	g := New[string, int]()
	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Empty(t, order)
}
