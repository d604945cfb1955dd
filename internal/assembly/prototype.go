package assembly

import (
	"context"
	"fmt"
	"sort"

	"github.com/Rana718/knockoff/internal/constraint"
	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/factory"
	"github.com/Rana718/knockoff/internal/types"
	"github.com/Rana718/knockoff/internal/utils"
)

// componentPlan is how one component gets its value for a candidate record.
type componentPlan struct {
	name     string
	strategy string
	refs     []Dependency
	fn       Function
	args     []types.Params
	kwargs   []types.Params
	stream   factory.Stream
}

// loadComponents assembles number records from the prototype's components,
// retrying candidates that collide with a unique constraint. The attempt
// budget is shared by every record of the prototype.
func loadComponents(_ context.Context, a *Assembler, n *Node) (*types.Table, error) {
	number, err := n.Source.Int("number", 0)
	if err != nil {
		return nil, err
	}
	if number <= 0 {
		return nil, fmt.Errorf("%w: %s needs a positive number", errs.ErrConfiguration, n.ID)
	}
	constraints, err := prototypeConstraints(n)
	if err != nil {
		return nil, err
	}
	plans, err := a.planComponents(n)
	if err != nil {
		return nil, err
	}
	sources, err := a.sampledNodes(plans)
	if err != nil {
		return nil, err
	}

	columns := make([]string, len(plans))
	for i, p := range plans {
		columns[i] = p.name
	}
	out := types.NewTable(n.ID.Name, columns)

	limit := a.attemptLimit
	used := 0
	candidate := func() (types.Record, bool, error) {
		used++
		rec, err := a.candidate(plans, sources)
		if err != nil {
			return nil, false, err
		}
		return rec, constraint.CheckAll(constraints, rec), nil
	}
	for out.Len() < number {
		remaining := limit - used
		if remaining <= 0 {
			return nil, errs.AttemptLimit(n.ID.String(), limit)
		}
		rec, ok, err := utils.RetryUntil(remaining, candidate)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errs.AttemptLimit(n.ID.String(), limit)
		}
		constraint.AddAll(constraints, rec)
		out.Append(rec)
	}
	return out, nil
}

// prototypeConstraints merges the node's unique declarations with those in
// its source. A bare string names a single-column constraint.
func prototypeConstraints(n *Node) ([]constraint.Constraint, error) {
	var cs []constraint.Constraint
	for _, keys := range n.Unique {
		cs = append(cs, constraint.NewUnique(keys...))
	}
	for _, item := range n.Source.List("unique") {
		switch v := item.(type) {
		case string:
			cs = append(cs, constraint.NewUnique(v))
		case []any:
			keys, err := types.Params{"keys": v}.Strings("keys")
			if err != nil {
				return nil, fmt.Errorf("%s: %w", n.ID, err)
			}
			cs = append(cs, constraint.NewUnique(keys...))
		default:
			return nil, fmt.Errorf("%w: %s has a malformed unique entry %v", errs.ErrConfiguration, n.ID, item)
		}
	}
	return cs, nil
}

func (a *Assembler) planComponents(n *Node) ([]*componentPlan, error) {
	plans := make([]*componentPlan, 0, len(n.Components))
	for _, c := range n.Components {
		p := &componentPlan{name: c.Component, strategy: c.Strategy()}
		refs, err := c.Dependencies()
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			dep, err := ParseDependency(ref)
			if err != nil {
				return nil, err
			}
			if dep.Kind == KindComponent {
				return nil, fmt.Errorf("%w: %s cannot sample component %s", errs.ErrConfiguration, c.ID, ref)
			}
			p.refs = append(p.refs, dep)
		}

		switch p.strategy {
		case "knockoff":
			if len(p.refs) != 1 {
				return nil, fmt.Errorf("%w: %s needs exactly one dependency", errs.ErrConfiguration, c.ID)
			}
		case "function":
			if p.fn, err = a.registry.Function(c.Source.String("function", "")); err != nil {
				return nil, fmt.Errorf("%s: %w", c.ID, err)
			}
			if p.args, err = inputs(c, "input_args"); err != nil {
				return nil, err
			}
			if p.kwargs, err = inputs(c, "input_kwargs"); err != nil {
				return nil, err
			}
		default:
			if p.stream, err = c.Stream(); err != nil {
				return nil, err
			}
		}
		plans = append(plans, p)
	}
	return plans, nil
}

func inputs(c *Node, key string) ([]types.Params, error) {
	var out []types.Params
	for _, item := range c.Source.List(key) {
		in, ok := types.AsParams(item)
		if !ok {
			return nil, fmt.Errorf("%w: %s has a malformed %s entry %v", errs.ErrConfiguration, c.ID, key, item)
		}
		switch in.String("type", "") {
		case "constant", "dependency", "component":
		default:
			return nil, fmt.Errorf("%w: %s %s type %q must be constant, dependency or component",
				errs.ErrConfiguration, c.ID, key, in.String("type", ""))
		}
		if key == "input_kwargs" && in.String("key", "") == "" {
			return nil, fmt.Errorf("%w: %s input_kwargs entry needs a key", errs.ErrConfiguration, c.ID)
		}
		out = append(out, in)
	}
	return out, nil
}

// sampledNodes returns the distinct nodes referenced by the plans, ordered
// by kind then name.
func (a *Assembler) sampledNodes(plans []*componentPlan) ([]*Node, error) {
	seen := make(map[NodeID]bool)
	var nodes []*Node
	for _, p := range plans {
		for _, dep := range p.refs {
			id := dep.NodeID()
			if seen[id] {
				continue
			}
			seen[id] = true
			node, err := a.blueprint.Get(id.Kind, id.Name)
			if err != nil {
				return nil, err
			}
			data, err := node.Data()
			if err != nil {
				return nil, err
			}
			if data.Len() == 0 {
				return nil, fmt.Errorf("%w: %s has no rows to sample", errs.ErrConfiguration, id)
			}
			nodes = append(nodes, node)
		}
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].ID.Kind != nodes[j].ID.Kind {
			return nodes[i].ID.Kind < nodes[j].ID.Kind
		}
		return nodes[i].ID.Name < nodes[j].ID.Name
	})
	return nodes, nil
}

// candidate samples one row per referenced node, then resolves components in
// declared order.
func (a *Assembler) candidate(plans []*componentPlan, sources []*Node) (types.Record, error) {
	rows := make(map[NodeID]types.Record, len(sources))
	for _, node := range sources {
		data := node.data
		rows[node.ID] = data.Rows[a.src.Intn(data.Len())]
	}
	value := func(dep Dependency) (any, error) {
		node, _ := a.blueprint.Get(dep.Kind, dep.Name)
		column, err := dep.Column(node.data)
		if err != nil {
			return nil, err
		}
		return rows[dep.NodeID()][column], nil
	}

	rec := make(types.Record, len(plans))
	for _, p := range plans {
		switch p.strategy {
		case "knockoff":
			v, err := value(p.refs[0])
			if err != nil {
				return nil, err
			}
			rec[p.name] = v
		case "function":
			resolve := func(in types.Params) (any, error) {
				switch in.String("type", "") {
				case "constant":
					return in["value"], nil
				case "component":
					name := in.String("value", "")
					v, ok := rec[name]
					if !ok {
						return nil, fmt.Errorf("%w: component %q is not resolved before %q", errs.ErrConfiguration, name, p.name)
					}
					return v, nil
				default:
					ref := in.String("value", "")
					for _, dep := range p.refs {
						if dep.Raw == ref {
							return value(dep)
						}
					}
					return nil, fmt.Errorf("%w: %q is not a dependency of component %q", errs.ErrDependencyNotFound, ref, p.name)
				}
			}
			args := make([]any, 0, len(p.args))
			for _, in := range p.args {
				v, err := resolve(in)
				if err != nil {
					return nil, err
				}
				args = append(args, v)
			}
			kwargs := make(map[string]any, len(p.kwargs))
			for _, in := range p.kwargs {
				v, err := resolve(in)
				if err != nil {
					return nil, err
				}
				kwargs[in.String("key", "")] = v
			}
			v, err := p.fn(a.src, args, kwargs)
			if err != nil {
				return nil, fmt.Errorf("component %q: %w", p.name, err)
			}
			rec[p.name] = v
		default:
			v, err := p.stream()
			if err != nil {
				return nil, fmt.Errorf("component %q: %w", p.name, err)
			}
			rec[p.name] = v
		}
	}
	return rec, nil
}
