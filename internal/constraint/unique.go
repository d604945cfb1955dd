package constraint

import (
	"fmt"
	"strings"

	"github.com/Rana718/knockoff/internal/types"
)

// Constraint accepts or rejects candidate records.
type Constraint interface {
	Check(record types.Record) bool
	Add(record types.Record)
	Reset()
}

// Unique rejects records whose projection onto Keys was already added.
// Keys missing from a record project as nil.
type Unique struct {
	keys []string
	seen map[string]struct{}
}

func NewUnique(keys ...string) *Unique {
	k := make([]string, len(keys))
	copy(k, keys)
	return &Unique{keys: k, seen: make(map[string]struct{})}
}

func (u *Unique) Check(record types.Record) bool {
	_, taken := u.seen[u.project(record)]
	return !taken
}

func (u *Unique) Add(record types.Record) {
	u.seen[u.project(record)] = struct{}{}
}

func (u *Unique) Reset() {
	u.seen = make(map[string]struct{})
}

func (u *Unique) String() string {
	return fmt.Sprintf("unique(%s)", strings.Join(u.keys, ", "))
}

// project encodes the key tuple with value types so 1 and "1" stay distinct.
// Each value is length-prefixed, so no value can spill into its neighbour.
func (u *Unique) project(record types.Record) string {
	var b strings.Builder
	for _, k := range u.keys {
		v := fmt.Sprint(record[k])
		fmt.Fprintf(&b, "%T:%d:%s", record[k], len(v), v)
	}
	return b.String()
}

// CheckAll reports whether every constraint accepts record.
func CheckAll(cs []Constraint, record types.Record) bool {
	for _, c := range cs {
		if !c.Check(record) {
			return false
		}
	}
	return true
}

func AddAll(cs []Constraint, record types.Record) {
	for _, c := range cs {
		c.Add(record)
	}
}

func ResetAll(cs []Constraint) {
	for _, c := range cs {
		c.Reset()
	}
}
