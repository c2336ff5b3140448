// Package query implements composable search query nodes.
//
// Every node has a registry name and a parameter map and serializes to {name: params}.
// Nodes combine with Add, And, Or and Not; Add and Or fold into an existing bool node in place
// and return that same node, so callers holding it observe the change.
package query

import (
	"encoding/json"
	"maps"
	"reflect"
)

// Params holds query parameters as they appear on the wire.
type Params map[string]any

// Query is a named, parameterized query node.
type Query interface {
	// Name is the registry key of the node's kind.
	Name() string
	// Params returns the node parameters. Callers must not modify the result.
	Params() Params
	// ToDict returns the wire form {name: params}.
	ToDict() map[string]any
}

// Equal reports whether a and b are structurally equal: same name and deep-equal params.
// A bool node whose only clause is a single must clause compares equal to that clause.
func Equal(a, b Query) bool {
	a, b = canonical(a), canonical(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Name() != b.Name() {
		return false
	}
	return valuesEqual(map[string]any(a.Params()), map[string]any(b.Params()))
}

func canonical(q Query) Query {
	for {
		b, ok := q.(*BoolQuery)
		if !ok || len(b.must) != 1 || len(b.should) != 0 || len(b.mustNot) != 0 || len(b.extra) != 0 {
			return q
		}
		q = b.must[0]
	}
}

func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case Query:
		bv, ok := b.(Query)
		return ok && Equal(av, bv)
	case []Query:
		bv, ok := b.([]Query)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	}

	if am, ok := asMap(a); ok {
		bm, ok := asMap(b)
		if !ok || len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !valuesEqual(av, bv) {
				return false
			}
		}
		return true
	}

	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Params:
		return m, true
	case map[string]any:
		return m, true
	}
	return nil, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// serialize converts nested query nodes inside a parameter value into wire form.
func serialize(v any) any {
	switch val := v.(type) {
	case Query:
		return val.ToDict()
	case []Query:
		out := make([]any, len(val))
		for i, q := range val {
			out[i] = q.ToDict()
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = serialize(item)
		}
		return out
	}
	if m, ok := asMap(v); ok {
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = serialize(item)
		}
		return out
	}
	return v
}

func serializeParams(p Params) map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = serialize(v)
	}
	return out
}

func cloneParams(p Params) Params {
	if p == nil {
		return Params{}
	}
	return maps.Clone(p)
}

func marshal(q Query) ([]byte, error) {
	return json.Marshal(q.ToDict()) //nolint:wrapcheck // plain map encoding
}
