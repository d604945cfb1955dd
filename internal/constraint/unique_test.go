package constraint

import (
	"testing"

	"github.com/Rana718/knockoff/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestUniqueCheckAddReset(t *testing.T) {
	u := NewUnique("a", "b")
	r := types.Record{"a": 1, "b": "x", "c": true}

	assert.True(t, u.Check(r))
	u.Add(r)
	assert.False(t, u.Check(r))

	// non-key columns do not participate
	assert.False(t, u.Check(types.Record{"a": 1, "b": "x", "c": false}))
	assert.True(t, u.Check(types.Record{"a": 2, "b": "x"}))

	u.Reset()
	assert.True(t, u.Check(r))
}

func TestUniqueKeyEncodingIsInjective(t *testing.T) {
	u := NewUnique("a", "b")
	u.Add(types.Record{"a": "x\x1fstring=y", "b": "z"})
	assert.True(t, u.Check(types.Record{"a": "x", "b": "y\x1fstring=z"}))

	u.Add(types.Record{"a": "1:a", "b": "b"})
	assert.True(t, u.Check(types.Record{"a": "1", "b": "a:b"}))
	assert.False(t, u.Check(types.Record{"a": "1:a", "b": "b"}))
}

func TestUniqueDistinguishesTypes(t *testing.T) {
	u := NewUnique("id")
	u.Add(types.Record{"id": 1})
	assert.True(t, u.Check(types.Record{"id": "1"}))
	assert.False(t, u.Check(types.Record{"id": 1}))
}

func TestUniqueMissingKeyProjectsNil(t *testing.T) {
	u := NewUnique("id")
	u.Add(types.Record{})
	assert.False(t, u.Check(types.Record{"id": nil}))
}

func TestAddIsUnconditional(t *testing.T) {
	u := NewUnique("id")
	r := types.Record{"id": 5}
	u.Add(r)
	u.Add(r)
	assert.False(t, u.Check(r))
	u.Reset()
	assert.True(t, u.Check(r))
}

func TestCheckAll(t *testing.T) {
	a, b := NewUnique("a"), NewUnique("b")
	cs := []Constraint{a, b}
	AddAll(cs, types.Record{"a": 1, "b": 1})

	assert.False(t, CheckAll(cs, types.Record{"a": 2, "b": 1}))
	assert.True(t, CheckAll(cs, types.Record{"a": 2, "b": 2}))

	ResetAll(cs)
	assert.True(t, CheckAll(cs, types.Record{"a": 1, "b": 1}))
}
