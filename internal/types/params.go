package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rana718/knockoff/internal/errs"
)

// Params is a decoded strategy argument mapping, as produced by yaml.v3.
type Params map[string]any

func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Params) String(key, defaultValue string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return defaultValue
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func (p Params) Int(key string, defaultValue int) (int, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return defaultValue, nil
	}
	n, ok := ToInt(v)
	if !ok {
		return 0, fmt.Errorf("%w: %q must be an integer, got %T", errs.ErrConfiguration, key, v)
	}
	return n, nil
}

func (p Params) Float(key string, defaultValue float64) (float64, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return defaultValue, nil
	}
	f, ok := ToFloat(v)
	if !ok {
		return 0, fmt.Errorf("%w: %q must be a number, got %T", errs.ErrConfiguration, key, v)
	}
	return f, nil
}

func (p Params) Bool(key string, defaultValue bool) bool {
	switch v := p[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// List returns the value at key as a slice; a scalar becomes a one-element list.
func (p Params) List(key string) []any {
	switch v := p[key].(type) {
	case nil:
		return nil
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}

func (p Params) Strings(key string) ([]string, error) {
	items := p.List(key)
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %q must be a list of strings, got %T", errs.ErrConfiguration, key, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// Map returns the nested mapping at key, or an empty Params.
func (p Params) Map(key string) Params {
	if m, ok := AsParams(p[key]); ok {
		return m
	}
	return Params{}
}

// AsParams converts decoded mappings to Params.
func AsParams(v any) (Params, bool) {
	switch m := v.(type) {
	case Params:
		return m, true
	case map[string]any:
		return Params(m), true
	case Record:
		return Params(m), true
	case map[any]any:
		out := make(Params, len(m))
		for k, val := range m {
			out[fmt.Sprintf("%v", k)] = val
		}
		return out, true
	}
	return nil, false
}

func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err == nil {
			return i, true
		}
	}
	return 0, false
}

func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err == nil {
			return f, true
		}
	}
	return 0, false
}
