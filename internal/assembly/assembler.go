package assembly

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/random"
	"github.com/Rana718/knockoff/internal/types"
	"github.com/Rana718/knockoff/internal/utils"
)

type Options struct {
	Source *random.Source
	Logger *zap.Logger
	// AttemptLimit is used when neither the blueprint nor the environment
	// sets one.
	AttemptLimit int
}

// Assembler builds every node of a blueprint in dependency order.
type Assembler struct {
	blueprint    *Blueprint
	registry     *Registry
	src          *random.Source
	log          *zap.Logger
	attemptLimit int
}

func NewAssembler(bp *Blueprint, registry *Registry, opts Options) *Assembler {
	src := opts.Source
	if src == nil {
		src = random.ConfigureDeterminism(0)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{
		blueprint:    bp,
		registry:     registry,
		src:          src,
		log:          log,
		attemptLimit: utils.ResolveAttemptLimit(bp.AttemptLimit, opts.AttemptLimit),
	}
}

func (a *Assembler) Blueprint() *Blueprint { return a.blueprint }

func (a *Assembler) Source() *random.Source { return a.src }

func (a *Assembler) AttemptLimit() int { return a.attemptLimit }

func (a *Assembler) Registry() *Registry { return a.registry }

// Run visits nodes in topological order. Nodes already built are skipped, so
// a second Run is a no-op. The context is checked between nodes.
func (a *Assembler) Run(ctx context.Context) error {
	order, err := a.blueprint.Order()
	if err != nil {
		return err
	}
	for _, n := range order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if n.built {
			continue
		}
		a.log.Debug("visiting node",
			zap.String("node", n.ID.String()),
			zap.String("strategy", n.Strategy()))
		if err := a.visit(ctx, n); err != nil {
			return fmt.Errorf("failed to build %s: %w", n.ID, err)
		}
	}
	return nil
}

func (a *Assembler) visit(ctx context.Context, n *Node) error {
	if n.ID.Kind == KindComponent {
		strategy, err := a.registry.Component(n.Strategy())
		if err != nil {
			return err
		}
		stream, err := strategy(ctx, a, n)
		if err != nil {
			return err
		}
		n.stream = stream
		n.built = true
		return nil
	}

	strategy, err := a.registry.LoadStrategy(n.ID.Kind, n.Strategy())
	if err != nil {
		return err
	}
	data, err := strategy(ctx, a, n)
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%w: strategy %q returned no data", errs.ErrConfiguration, n.Strategy())
	}
	if n.ID.Kind == KindTable {
		data.Name = n.Table
		if err := a.dump(ctx, n, data); err != nil {
			return err
		}
	}
	n.data = data
	n.built = true
	a.log.Debug("node built",
		zap.String("node", n.ID.String()),
		zap.Int("rows", data.Len()))
	return nil
}

func (a *Assembler) dump(ctx context.Context, n *Node, data *types.Table) error {
	name := n.Sink.String("strategy", "noop")
	newSink, err := a.registry.Sink(name)
	if err != nil {
		return err
	}
	sink, err := newSink(n.Sink)
	if err != nil {
		return fmt.Errorf("failed to configure sink %q: %w", name, err)
	}
	if err := sink.Dump(ctx, n.Table, data); err != nil {
		return fmt.Errorf("sink %q: %w", name, err)
	}
	return nil
}

// Node returns a built node referenced by a dependency string.
func (a *Assembler) Node(ref string) (*Node, Dependency, error) {
	dep, err := ParseDependency(ref)
	if err != nil {
		return nil, dep, err
	}
	id := dep.NodeID()
	n, err := a.blueprint.Get(id.Kind, id.Name)
	if err != nil {
		return nil, dep, err
	}
	return n, dep, nil
}

// Dependency returns the data of a referenced, already built node.
func (a *Assembler) Dependency(ref string) (*types.Table, Dependency, error) {
	n, dep, err := a.Node(ref)
	if err != nil {
		return nil, dep, err
	}
	data, err := n.Data()
	if err != nil {
		return nil, dep, err
	}
	return data, dep, nil
}

// Tables returns the built table nodes in declaration order.
func (a *Assembler) Tables() []*Node {
	var out []*Node
	for _, n := range a.blueprint.Nodes() {
		if n.ID.Kind == KindTable && n.built {
			out = append(out, n)
		}
	}
	return out
}
