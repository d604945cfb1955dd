package factory

import (
	"github.com/shopspring/decimal"

	"github.com/Rana718/knockoff/internal/random"
	"github.com/Rana718/knockoff/internal/types"
)

// ValueFunc produces a value for a column that has no explicit factory.
type ValueFunc func() (any, error)

// DefaultTypeFactories returns the type-keyed fallback factories drawing
// from src.
func DefaultTypeFactories(src *random.Source) map[types.ColumnType]ValueFunc {
	f := src.Faker()
	return map[types.ColumnType]ValueFunc{
		types.TypeInt: func() (any, error) {
			return f.IntRange(0, 9999), nil
		},
		types.TypeFloat: func() (any, error) {
			return f.Float64Range(0, 10000), nil
		},
		types.TypeDecimal: func() (any, error) {
			return decimal.NewFromFloat(f.Price(0, 10000)).Round(2), nil
		},
		types.TypeString: func() (any, error) {
			return f.LetterN(12), nil
		},
		types.TypeBool: func() (any, error) {
			return f.Bool(), nil
		},
		types.TypeDatetime: func() (any, error) {
			return f.DateRange(defaultMinDate, defaultMaxDate).UTC(), nil
		},
		types.TypeDate: func() (any, error) {
			return f.DateRange(defaultMinDate, defaultMaxDate).UTC().Format("2006-01-02"), nil
		},
		types.TypeUUID: func() (any, error) {
			u, err := src.UUID()
			if err != nil {
				return nil, err
			}
			return u.String(), nil
		},
		types.TypeJSON: func() (any, error) {
			return "{}", nil
		},
	}
}
