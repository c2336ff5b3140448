package query

import (
	"fmt"
	"maps"
	"slices"

	"github.com/kailas-cloud/esdsl/internal/domain"
)

// Add folds two queries together ("+").
//
// match_all on either side yields the other operand. Otherwise a bool operand absorbs the other
// one into its must clauses in place and is returned (the left one when both are bool; the right
// bool is appended as a single clause). Two non-bool operands produce a new bool(must=[l, r]).
func Add(left, right Query) Query {
	if isMatchAll(left) {
		return right
	}
	if isMatchAll(right) {
		return left
	}
	if b, ok := left.(*BoolQuery); ok {
		b.must = append(b.must, snapshotIfSame(b, right))
		return b
	}
	if b, ok := right.(*BoolQuery); ok {
		b.must = append(b.must, left)
		return b
	}
	return &BoolQuery{must: []Query{left, right}}
}

// AddValue is Add for operands that need not be queries.
// match_all on either side yields the other operand whatever its type; any other
// combination requires both operands to be queries.
func AddValue(left, right any) (any, error) {
	if isMatchAll(left) {
		return right, nil
	}
	if isMatchAll(right) {
		return left, nil
	}
	lq, lok := left.(Query)
	rq, rok := right.(Query)
	if !lok || !rok {
		return nil, fmt.Errorf("%w: cannot add %T and %T", domain.ErrInvalidQuery, left, right)
	}
	return Add(lq, rq), nil
}

// And combines two queries with AND ("&").
//
// match_all is the identity. Two bool operands produce a new bool whose clause sequences are the
// left sequences followed by the right ones. Anything else produces a new bool(must=[l, r]).
func And(left, right Query) Query {
	if isMatchAll(left) {
		return right
	}
	if isMatchAll(right) {
		return left
	}
	lb, lok := left.(*BoolQuery)
	rb, rok := right.(*BoolQuery)
	if lok && rok {
		extra := maps.Clone(lb.extra)
		if len(rb.extra) > 0 {
			if extra == nil {
				extra = Params{}
			}
			maps.Copy(extra, rb.extra)
		}
		return &BoolQuery{
			must:    slices.Concat(lb.must, rb.must),
			should:  slices.Concat(lb.should, rb.should),
			mustNot: slices.Concat(lb.mustNot, rb.mustNot),
			extra:   extra,
		}
	}
	return &BoolQuery{must: []Query{left, right}}
}

// Or combines two queries with OR ("|").
//
// match_all absorbs: the match_all operand is returned. A should-only bool (no must and no
// must_not clauses) absorbs the other operand into its should clauses in place and is returned,
// the left one when both qualify. Anything else produces a new bool(should=[l, r]).
func Or(left, right Query) Query {
	if isMatchAll(left) {
		return left
	}
	if isMatchAll(right) {
		return right
	}
	if b, ok := left.(*BoolQuery); ok && b.IsShouldOnly() {
		b.should = append(b.should, snapshotIfSame(b, right))
		return b
	}
	if b, ok := right.(*BoolQuery); ok && b.IsShouldOnly() {
		b.should = append(b.should, left)
		return b
	}
	return &BoolQuery{should: []Query{left, right}}
}

// snapshotIfSame returns a copy of b when other is b itself, so a bool never contains itself.
func snapshotIfSame(b *BoolQuery, other Query) Query {
	if ob, ok := other.(*BoolQuery); ok && ob == b {
		return &BoolQuery{
			must:    slices.Clone(b.must),
			should:  slices.Clone(b.should),
			mustNot: slices.Clone(b.mustNot),
			extra:   maps.Clone(b.extra),
		}
	}
	return other
}

// Not inverts a query ("~").
//
// A bool gets a new bool with must and must_not swapped; anything else is wrapped in
// bool(must_not=[q]). Not(Not(q)) is Equal to q.
func Not(q Query) Query {
	if b, ok := q.(*BoolQuery); ok {
		return &BoolQuery{
			must:    slices.Clone(b.mustNot),
			should:  slices.Clone(b.should),
			mustNot: slices.Clone(b.must),
			extra:   maps.Clone(b.extra),
		}
	}
	return &BoolQuery{mustNot: []Query{q}}
}
