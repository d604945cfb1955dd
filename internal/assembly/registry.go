package assembly

import (
	"context"
	"fmt"
	"sort"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/factory"
	"github.com/Rana718/knockoff/internal/random"
	"github.com/Rana718/knockoff/internal/reader"
	"github.com/Rana718/knockoff/internal/types"
)

// LoadStrategy materializes the data of a part, prototype or table node.
type LoadStrategy func(ctx context.Context, a *Assembler, n *Node) (*types.Table, error)

// ComponentStrategy prepares the value stream of a component node. A nil
// stream means the owning prototype resolves the component per record.
type ComponentStrategy func(ctx context.Context, a *Assembler, n *Node) (factory.Stream, error)

// Sink persists or exports a finished table.
type Sink interface {
	Dump(ctx context.Context, table string, data *types.Table) error
}

// SinkFactory builds a sink from a table node's sink configuration.
type SinkFactory func(params types.Params) (Sink, error)

// Function computes a component value from constants and resolved values.
// src is the running Assembler's source, so functions that draw random
// values follow the run's seed.
type Function func(src *random.Source, args []any, kwargs map[string]any) (any, error)

const (
	NamespacePart      = "part"
	NamespacePrototype = "prototype"
	NamespaceTable     = "table"
	NamespaceComponent = "component"
	NamespaceSink      = "sink"
	NamespaceReader    = "reader"
	NamespaceFunction  = "function"
)

// Registry maps strategy names to implementations per namespace. It is
// built explicitly and passed to the blueprint builder and assembler.
type Registry struct {
	parts      map[string]LoadStrategy
	prototypes map[string]LoadStrategy
	tables     map[string]LoadStrategy
	components map[string]ComponentStrategy
	sinks      map[string]SinkFactory
	readers    map[string]reader.Reader
	functions  map[string]Function
}

func NewRegistry() *Registry {
	return &Registry{
		parts:      make(map[string]LoadStrategy),
		prototypes: make(map[string]LoadStrategy),
		tables:     make(map[string]LoadStrategy),
		components: make(map[string]ComponentStrategy),
		sinks:      make(map[string]SinkFactory),
		readers:    make(map[string]reader.Reader),
		functions:  make(map[string]Function),
	}
}

func (r *Registry) RegisterPart(name string, s LoadStrategy)      { r.parts[name] = s }
func (r *Registry) RegisterPrototype(name string, s LoadStrategy) { r.prototypes[name] = s }
func (r *Registry) RegisterTable(name string, s LoadStrategy)     { r.tables[name] = s }

func (r *Registry) RegisterComponent(name string, s ComponentStrategy) { r.components[name] = s }
func (r *Registry) RegisterSink(name string, f SinkFactory)            { r.sinks[name] = f }
func (r *Registry) RegisterReader(name string, rd reader.Reader)       { r.readers[name] = rd }
func (r *Registry) RegisterFunction(name string, fn Function)          { r.functions[name] = fn }

// LoadStrategy returns the strategy for a part, prototype or table node.
func (r *Registry) LoadStrategy(kind Kind, name string) (LoadStrategy, error) {
	var m map[string]LoadStrategy
	switch kind {
	case KindPart:
		m = r.parts
	case KindPrototype:
		m = r.prototypes
	case KindTable:
		m = r.tables
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrNoEntryPointGroup, kind)
	}
	s, ok := m[name]
	if !ok {
		return nil, errs.NewResourceNotFound(string(kind), name)
	}
	return s, nil
}

func (r *Registry) Component(name string) (ComponentStrategy, error) {
	s, ok := r.components[name]
	if !ok {
		return nil, errs.NewResourceNotFound(NamespaceComponent, name)
	}
	return s, nil
}

func (r *Registry) Sink(name string) (SinkFactory, error) {
	f, ok := r.sinks[name]
	if !ok {
		return nil, errs.NewResourceNotFound(NamespaceSink, name)
	}
	return f, nil
}

func (r *Registry) Reader(name string) (reader.Reader, error) {
	rd, ok := r.readers[name]
	if !ok {
		return nil, errs.NewResourceNotFound(NamespaceReader, name)
	}
	return rd, nil
}

func (r *Registry) Function(name string) (Function, error) {
	fn, ok := r.functions[name]
	if !ok {
		return nil, errs.NewResourceNotFound(NamespaceFunction, name)
	}
	return fn, nil
}

// Names lists the registered names of a namespace in sorted order.
func (r *Registry) Names(namespace string) ([]string, error) {
	var names []string
	switch namespace {
	case NamespacePart:
		names = keys(r.parts)
	case NamespacePrototype:
		names = keys(r.prototypes)
	case NamespaceTable:
		names = keys(r.tables)
	case NamespaceComponent:
		names = keys(r.components)
	case NamespaceSink:
		names = keys(r.sinks)
	case NamespaceReader:
		names = keys(r.readers)
	case NamespaceFunction:
		names = keys(r.functions)
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrNoEntryPointGroup, namespace)
	}
	return names, nil
}

// Namespaces lists every namespace a registry serves.
func Namespaces() []string {
	return []string{
		NamespacePart, NamespacePrototype, NamespaceTable, NamespaceComponent,
		NamespaceSink, NamespaceReader, NamespaceFunction,
	}
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
