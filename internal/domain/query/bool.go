package query

import (
	"fmt"
	"maps"
	"slices"

	"github.com/kailas-cloud/esdsl/internal/domain"
)

// Clause keys of a bool query.
const (
	ClauseMust    = "must"
	ClauseShould  = "should"
	ClauseMustNot = "must_not"
)

// Clauses groups the three clause sequences of a bool query.
type Clauses struct {
	Must    []Query
	Should  []Query
	MustNot []Query
}

// BoolQuery is the compound query with ordered must, should and must_not clauses.
// Add and Or may append to its clauses in place.
type BoolQuery struct {
	must    []Query
	should  []Query
	mustNot []Query
	// extra holds non-clause params such as minimum_should_match or boost.
	extra Params
}

// Bool creates a bool query from already built clauses.
func Bool(c Clauses) *BoolQuery {
	return &BoolQuery{
		must:    slices.Clone(c.Must),
		should:  slices.Clone(c.Should),
		mustNot: slices.Clone(c.MustNot),
	}
}

// NewBool creates a bool query from wire params using the default registry.
// Clause entries may be built queries or single-key wire mappings.
func NewBool(params Params) (*BoolQuery, error) {
	return newBool(defaultRegistry, params)
}

func newBool(r *Registry, params Params) (*BoolQuery, error) {
	b := &BoolQuery{}
	for key, v := range params {
		var dst *[]Query
		switch key {
		case ClauseMust:
			dst = &b.must
		case ClauseShould:
			dst = &b.should
		case ClauseMustNot:
			dst = &b.mustNot
		default:
			if b.extra == nil {
				b.extra = Params{}
			}
			b.extra[key] = v
			continue
		}
		clauses, err := r.clauses(key, v)
		if err != nil {
			return nil, err
		}
		*dst = clauses
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// clauses coerces a clause value (a list or a single entry) into query nodes.
func (r *Registry) clauses(key string, v any) ([]Query, error) {
	var items []any
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []Query:
		return slices.Clone(val), nil
	case []any:
		items = val
	case []map[string]any:
		items = make([]any, len(val))
		for i, m := range val {
			items[i] = m
		}
	default:
		items = []any{val}
	}

	out := make([]Query, 0, len(items))
	for i, item := range items {
		q, err := r.Build(item, nil)
		if err != nil {
			return nil, fmt.Errorf("bool.%s[%d]: %w", key, i, err)
		}
		out = append(out, q)
	}
	return out, nil
}

// Name returns "bool".
func (b *BoolQuery) Name() string { return KindBool }

// Must returns the must clauses.
func (b *BoolQuery) Must() []Query { return b.must }

// Should returns the should clauses.
func (b *BoolQuery) Should() []Query { return b.should }

// MustNot returns the must_not clauses.
func (b *BoolQuery) MustNot() []Query { return b.mustNot }

// IsShouldOnly reports whether must and must_not are both empty.
func (b *BoolQuery) IsShouldOnly() bool { return len(b.must) == 0 && len(b.mustNot) == 0 }

// Params returns the non-empty clause sequences plus any extra params.
func (b *BoolQuery) Params() Params {
	p := make(Params, len(b.extra)+3)
	maps.Copy(p, b.extra)
	if len(b.must) > 0 {
		p[ClauseMust] = b.must
	}
	if len(b.should) > 0 {
		p[ClauseShould] = b.should
	}
	if len(b.mustNot) > 0 {
		p[ClauseMustNot] = b.mustNot
	}
	return p
}

// ToDict returns {"bool": {...}} with only the non-empty clause sequences.
func (b *BoolQuery) ToDict() map[string]any {
	return map[string]any{KindBool: serializeParams(b.Params())}
}

// MarshalJSON encodes the wire form.
func (b *BoolQuery) MarshalJSON() ([]byte, error) { return marshal(b) }

func (b *BoolQuery) validate() error {
	for _, group := range [][]Query{b.must, b.should, b.mustNot} {
		for _, q := range group {
			if q == nil {
				return fmt.Errorf("%w: nil clause in bool query", domain.ErrInvalidQuery)
			}
		}
	}
	return nil
}
