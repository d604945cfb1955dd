package assembly

import (
	"fmt"
	"regexp"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/factory"
	"github.com/Rana718/knockoff/internal/types"
)

type Kind string

const (
	KindPart      Kind = "part"
	KindTable     Kind = "table"
	KindPrototype Kind = "prototype"
	KindComponent Kind = "component"
)

// NodeID identifies a node by kind and name. Component names are qualified
// by their prototype: "product.sku".
type NodeID struct {
	Kind Kind
	Name string
}

func (id NodeID) String() string { return string(id.Kind) + ":" + id.Name }

// Node is one unit of generation. Its data slot is filled exactly once by
// the Assembler; reading it never triggers a build.
type Node struct {
	ID     NodeID
	Index  int
	Source types.Params
	// Sink is the dump configuration of table nodes.
	Sink types.Params
	// Table is the destination name of table nodes, defaulting to the node name.
	Table  string
	Unique [][]string
	// Components of a prototype built with the components strategy, in
	// declared order.
	Components []*Node
	// Component is the unqualified name of a component node.
	Component string

	data   *types.Table
	stream factory.Stream
	built  bool
}

func (n *Node) Strategy() string { return n.Source.String("strategy", "") }

// Dependencies returns the raw dependency references of the node's source.
func (n *Node) Dependencies() ([]string, error) {
	return n.Source.Strings("dependencies")
}

func (n *Node) Built() bool { return n.built }

func (n *Node) Data() (*types.Table, error) {
	if !n.built || n.data == nil {
		return nil, fmt.Errorf("%s: %w", n.ID, errs.ErrNotBuilt)
	}
	return n.data, nil
}

// Stream returns the value stream of a component node. Components resolved
// by their prototype, such as knockoff and function components, have none.
func (n *Node) Stream() (factory.Stream, error) {
	if !n.built {
		return nil, fmt.Errorf("%s: %w", n.ID, errs.ErrNotBuilt)
	}
	if n.stream == nil {
		return nil, fmt.Errorf("%w: %s has no value stream", errs.ErrConfiguration, n.ID)
	}
	return n.stream, nil
}

var dependencyPattern = regexp.MustCompile(`^(part|component|prototype):([A-Za-z0-9_-]+)\.?([A-Za-z0-9_-]*)$`)

// Dependency is a parsed "<kind>:<name>[.<field>]" reference.
type Dependency struct {
	Raw   string
	Kind  Kind
	Name  string
	Field string
}

func ParseDependency(s string) (Dependency, error) {
	m := dependencyPattern.FindStringSubmatch(s)
	if m == nil {
		return Dependency{}, fmt.Errorf("%w: %q", errs.ErrPatternMismatch, s)
	}
	return Dependency{Raw: s, Kind: Kind(m[1]), Name: m[2], Field: m[3]}, nil
}

// NodeID returns the referenced node. A component reference names its
// prototype and component, so the field is part of the identity.
func (d Dependency) NodeID() NodeID {
	if d.Kind == KindComponent && d.Field != "" {
		return NodeID{Kind: d.Kind, Name: d.Name + "." + d.Field}
	}
	return NodeID{Kind: d.Kind, Name: d.Name}
}

// Column returns the referenced field, or the first column of t.
func (d Dependency) Column(t *types.Table) (string, error) {
	if d.Kind == KindComponent {
		return "", fmt.Errorf("%w: %s does not reference tabular data", errs.ErrConfiguration, d.Raw)
	}
	if d.Field != "" {
		if !t.HasColumn(d.Field) {
			return "", fmt.Errorf("%w: %s has no column %q", errs.ErrConfiguration, d.NodeID(), d.Field)
		}
		return d.Field, nil
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%w: %s has no columns", errs.ErrConfiguration, d.NodeID())
	}
	return t.Columns[0], nil
}
