package assembly

import (
	"context"
	"fmt"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/types"
)

// loadKnockoff takes the rows of the prototype named in kwargs, optionally
// projected onto kwargs.columns.
func loadKnockoff(_ context.Context, a *Assembler, n *Node) (*types.Table, error) {
	kwargs := n.Source.Map("kwargs")
	name := kwargs.String("prototype", "")
	if name == "" {
		return nil, fmt.Errorf("%w: %s needs kwargs.prototype", errs.ErrConfiguration, n.ID)
	}
	proto, err := a.blueprint.Get(KindPrototype, name)
	if err != nil {
		return nil, err
	}
	data, err := proto.Data()
	if err != nil {
		return nil, err
	}
	columns, err := kwargs.Strings("columns")
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		columns = data.Columns
	}
	return data.Project(columns)
}
