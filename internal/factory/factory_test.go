package factory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/knockoff/internal/errs"
	"github.com/Rana718/knockoff/internal/random"
	"github.com/Rana718/knockoff/internal/types"
)

func TestColumnFactoryReceivesKwargs(t *testing.T) {
	f := Column("full", func(kw map[string]any) (any, error) {
		return kw["first"].(string) + " " + kw["last"].(string), nil
	}, "first", "last")

	assert.Equal(t, []string{"first", "last"}, f.DependsOn())
	assert.Equal(t, []string{"full"}, f.Produces())

	rec, err := f.Produce(map[string]any{"first": "Ada", "last": "Lovelace"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", rec["full"])
}

func TestCollectionsReshapes(t *testing.T) {
	f := Collections(func(map[string]any) (types.Record, error) {
		return types.Record{"a": 1, "b": 2, "c": 3}, nil
	}, CollectionOptions{
		Columns: []string{"a", "b", "c"},
		Rename:  map[string]string{"a": "alpha"},
		Drop:    []string{"c"},
	})

	assert.Equal(t, []string{"alpha", "b"}, f.Produces())
	rec, err := f.Produce(nil)
	require.NoError(t, err)
	assert.Equal(t, types.Record{"alpha": 1, "b": 2}, rec)
}

func TestCollectionsMissingColumn(t *testing.T) {
	f := Collections(func(map[string]any) (types.Record, error) {
		return types.Record{"a": 1}, nil
	}, CollectionOptions{Columns: []string{"a", "z"}})

	_, err := f.Produce(nil)
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
}

func TestAutoincrement(t *testing.T) {
	s := Autoincrement(5, 0)
	for want := 5; want < 8; want++ {
		v, err := s()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestChoiceWeighted(t *testing.T) {
	src := random.ConfigureDeterminism(1)
	s, err := Choice(src, []any{"never", "always"}, []float64{0, 1})
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		v, _ := s()
		assert.Equal(t, "always", v)
	}

	_, err = Choice(src, []any{"a"}, []float64{1, 2})
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
	_, err = Choice(src, nil, nil)
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
}

func TestFakerLookup(t *testing.T) {
	src := random.ConfigureDeterminism(3)
	s, err := Faker(src, "int", types.Params{"min": 1, "max": 3})
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		v, err := s()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v.(int), 1)
		assert.LessOrEqual(t, v.(int), 3)
	}

	_, err = Faker(src, "not_a_method", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrResourceNotFound))
	var re *errs.ResourceError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "faker", re.Namespace)
	assert.Equal(t, "not_a_method", re.Key)
}

func TestFakerDeterministic(t *testing.T) {
	a, _ := Faker(random.ConfigureDeterminism(11), "name", nil)
	b, _ := Faker(random.ConfigureDeterminism(11), "name", nil)
	for i := 0; i < 5; i++ {
		va, _ := a()
		vb, _ := b()
		assert.Equal(t, va, vb)
	}
}

func TestFakerMethodsSorted(t *testing.T) {
	names := FakerMethods()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestGuessMethod(t *testing.T) {
	cases := map[string]string{
		"user_email":   "email",
		"first_name":   "first_name",
		"name":         "name",
		"filename":     "",
		"homepage_url": "url",
		"amount":       "",
	}
	for col, want := range cases {
		assert.Equal(t, want, GuessMethod(col), col)
	}
}

func TestDefaultTypeFactories(t *testing.T) {
	defaults := DefaultTypeFactories(random.ConfigureDeterminism(5))
	for _, ct := range []types.ColumnType{
		types.TypeInt, types.TypeFloat, types.TypeDecimal, types.TypeString,
		types.TypeBool, types.TypeDatetime, types.TypeDate, types.TypeUUID, types.TypeJSON,
	} {
		fn, ok := defaults[ct]
		require.True(t, ok, string(ct))
		_, err := fn()
		require.NoError(t, err, string(ct))
	}
	v, _ := defaults[types.TypeDecimal]()
	_, ok := v.(decimal.Decimal)
	assert.True(t, ok)
}

func TestSamplerReadsSourceLazily(t *testing.T) {
	tbl := types.NewTable("colors", []string{"color"})
	tbl.Append(types.Record{"color": "red"})
	tbl.Append(types.Record{"color": "blue"})

	src := random.ConfigureDeterminism(9)
	f := TableSampler(src, Static(tbl), CollectionOptions{})
	for i := 0; i < 10; i++ {
		rec, err := f.Produce(nil)
		require.NoError(t, err)
		assert.Contains(t, []any{"red", "blue"}, rec["color"])
	}
}

type unbuilt struct{}

func (unbuilt) Data() (*types.Table, error) { return nil, errs.ErrNotBuilt }

func TestSamplerUnbuiltSource(t *testing.T) {
	f := TableSampler(random.ConfigureDeterminism(1), unbuilt{}, CollectionOptions{})
	_, err := f.Produce(nil)
	assert.True(t, errors.Is(err, errs.ErrNotBuilt))
}

func TestRowsCyclerWraps(t *testing.T) {
	tbl := types.NewTable("n", []string{"n"})
	tbl.Append(types.Record{"n": 1})
	tbl.Append(types.Record{"n": 2})

	f := RowsCycler(Static(tbl), CollectionOptions{Rename: map[string]string{"n": "m"}})
	var got []any
	for i := 0; i < 3; i++ {
		rec, err := f.Produce(nil)
		require.NoError(t, err)
		got = append(got, rec["m"])
	}
	assert.Equal(t, []any{1, 2, 1}, got)
}
