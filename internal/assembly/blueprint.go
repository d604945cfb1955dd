package assembly

import (
	"fmt"

	"github.com/Rana718/knockoff/internal/dag"
	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

// Blueprint is a finalized, acyclic graph of nodes.
type Blueprint struct {
	AttemptLimit int
	graph        *dag.Graph[NodeID, *Node]
}

// Get returns the node with the given identity.
func (b *Blueprint) Get(kind Kind, name string) (*Node, error) {
	n, ok := b.graph.Get(NodeID{Kind: kind, Name: name})
	if !ok {
		return nil, fmt.Errorf("%w: %s:%s", errs.ErrDependencyNotFound, kind, name)
	}
	return n.Value, nil
}

// Nodes returns every node in declaration order.
func (b *Blueprint) Nodes() []*Node {
	nodes := b.graph.Nodes()
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Value
	}
	return out
}

// Order returns the nodes in build order.
func (b *Blueprint) Order() ([]*Node, error) {
	order, err := b.graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	out := make([]*Node, len(order))
	for i, n := range order {
		out[i] = n.Value
	}
	return out, nil
}

// DependenciesOf returns the nodes id waits for.
func (b *Blueprint) DependenciesOf(id NodeID) ([]NodeID, error) {
	return b.graph.DependenciesOf(id)
}

// Builder turns node declarations into a Blueprint. Declarations may
// reference nodes declared later; those references are checked by Build.
type Builder struct {
	registry *Registry
	graph    *dag.Graph[NodeID, *Node]
}

func NewBuilder(registry *Registry) *Builder {
	return &Builder{registry: registry, graph: dag.New[NodeID, *Node]()}
}

// FromConfig builds a Blueprint from a parsed configuration.
func FromConfig(cfg *Config, registry *Registry) (*Blueprint, error) {
	b := NewBuilder(registry)
	for _, nc := range cfg.DAG {
		if err := b.Add(nc); err != nil {
			return nil, err
		}
	}
	bp, err := b.Build()
	if err != nil {
		return nil, err
	}
	bp.AttemptLimit = cfg.AttemptLimit
	return bp, nil
}

// Add registers one node declaration and its edges.
func (b *Builder) Add(nc NodeConfig) error {
	switch Kind(nc.Type) {
	case KindPart:
		return b.addPart(nc)
	case KindTable:
		return b.addTable(nc)
	case KindPrototype:
		return b.addPrototype(nc)
	case KindComponent:
		return fmt.Errorf("%w: component %q must be declared inside a prototype", errs.ErrConfiguration, nc.Name)
	default:
		return fmt.Errorf("%w: node type %q not recognized", errs.ErrConfiguration, nc.Type)
	}
}

// Build resolves queued references and rejects cycles.
func (b *Builder) Build() (*Blueprint, error) {
	if err := b.graph.Finalize(); err != nil {
		return nil, err
	}
	return &Blueprint{graph: b.graph}, nil
}

func (b *Builder) checkStrategy(kind Kind, n *Node) error {
	strategy := n.Strategy()
	var err error
	if kind == KindComponent {
		_, err = b.registry.Component(strategy)
	} else {
		_, err = b.registry.LoadStrategy(kind, strategy)
	}
	if err != nil {
		return fmt.Errorf("%w %q for %s: %w", errs.ErrUnrecognizedStrategy, strategy, n.ID, err)
	}
	if strategy == "io" {
		name := n.Source.String("reader", "")
		if _, err := b.registry.Reader(name); err != nil {
			return fmt.Errorf("%w: reader %q for %s: %w", errs.ErrUnrecognizedStrategy, name, n.ID, err)
		}
	}
	return nil
}

func (b *Builder) add(n *Node) error {
	added, err := b.graph.AddNode(n.ID, n)
	if err != nil {
		return err
	}
	n.Index = added.Index
	return nil
}

// link adds an edge from n to every reference in refs.
func (b *Builder) link(n *Node, refs []string) error {
	for _, ref := range refs {
		dep, err := ParseDependency(ref)
		if err != nil {
			return fmt.Errorf("%s: %w", n.ID, err)
		}
		b.graph.AddDependency(n.ID, dep.NodeID())
	}
	return nil
}

func (b *Builder) addPart(nc NodeConfig) error {
	n := &Node{ID: NodeID{Kind: KindPart, Name: nc.Name}, Source: nc.Source}
	if err := b.checkStrategy(KindPart, n); err != nil {
		return err
	}
	if err := b.add(n); err != nil {
		return err
	}
	deps, err := n.Dependencies()
	if err != nil {
		return err
	}
	return b.link(n, deps)
}

func (b *Builder) addTable(nc NodeConfig) error {
	sink := nc.Sink
	if sink == nil {
		sink = types.Params{"strategy": "noop"}
	}
	n := &Node{
		ID:     NodeID{Kind: KindTable, Name: nc.Name},
		Source: nc.Source,
		Sink:   sink,
		Table:  nc.Table,
	}
	if n.Table == "" {
		n.Table = nc.Name
	}
	if err := b.checkStrategy(KindTable, n); err != nil {
		return err
	}
	sinkName := sink.String("strategy", "noop")
	if _, err := b.registry.Sink(sinkName); err != nil {
		return fmt.Errorf("%w: sink %q for %s: %w", errs.ErrUnrecognizedStrategy, sinkName, n.ID, err)
	}
	if err := b.add(n); err != nil {
		return err
	}

	if n.Strategy() == "knockoff" {
		prototype := n.Source.Map("kwargs").String("prototype", "")
		if prototype == "" {
			return fmt.Errorf("%w: %s needs kwargs.prototype", errs.ErrConfiguration, n.ID)
		}
		b.graph.AddDependency(n.ID, NodeID{Kind: KindPrototype, Name: prototype})
	}
	deps, err := n.Dependencies()
	if err != nil {
		return err
	}
	return b.link(n, deps)
}

func (b *Builder) addPrototype(nc NodeConfig) error {
	n := &Node{
		ID:     NodeID{Kind: KindPrototype, Name: nc.Name},
		Source: nc.Source,
		Unique: nc.Unique,
	}
	if err := b.checkStrategy(KindPrototype, n); err != nil {
		return err
	}
	if err := b.add(n); err != nil {
		return err
	}

	if n.Strategy() == "components" {
		components := n.Source.List("components")
		if len(components) == 0 {
			return fmt.Errorf("%w: %s declares no components", errs.ErrConfiguration, n.ID)
		}
		for _, raw := range components {
			c, err := b.addComponent(n, raw)
			if err != nil {
				return err
			}
			n.Components = append(n.Components, c)
		}
	}

	deps, err := n.Dependencies()
	if err != nil {
		return err
	}
	return b.link(n, deps)
}

func (b *Builder) addComponent(prototype *Node, raw any) (*Node, error) {
	cfg, ok := types.AsParams(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s has a malformed component %v", errs.ErrConfiguration, prototype.ID, raw)
	}
	name := cfg.String("name", "")
	if name == "" {
		return nil, fmt.Errorf("%w: %s has a component without a name", errs.ErrConfiguration, prototype.ID)
	}
	c := &Node{
		ID:        NodeID{Kind: KindComponent, Name: prototype.ID.Name + "." + name},
		Source:    cfg.Map("source"),
		Component: name,
	}
	if err := b.checkStrategy(KindComponent, c); err != nil {
		return nil, err
	}
	if err := b.add(c); err != nil {
		return nil, err
	}
	b.graph.AddDependency(prototype.ID, c.ID)

	deps, err := c.Dependencies()
	if err != nil {
		return nil, err
	}
	if err := b.link(c, deps); err != nil {
		return nil, err
	}
	return c, nil
}
