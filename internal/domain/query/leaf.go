package query

// Names of the built-in query kinds.
const (
	KindMatch       = "match"
	KindMatchAll    = "match_all"
	KindMatchPhrase = "match_phrase"
	KindMultiMatch  = "multi_match"
	KindTerm        = "term"
	KindTerms       = "terms"
	KindRange       = "range"
	KindPrefix      = "prefix"
	KindWildcard    = "wildcard"
	KindExists      = "exists"
	KindIDs         = "ids"
	KindBool        = "bool"
)

// LeafQuery is a query kind whose params are passed through verbatim.
type LeafQuery struct {
	name   string
	params Params
}

// NewLeaf creates a leaf node of kind name with a copy of params.
func NewLeaf(name string, params Params) *LeafQuery {
	return &LeafQuery{name: name, params: cloneParams(params)}
}

// Name returns the kind name.
func (q *LeafQuery) Name() string { return q.name }

// Params returns the parameters.
func (q *LeafQuery) Params() Params { return q.params }

// ToDict returns {name: params}.
func (q *LeafQuery) ToDict() map[string]any {
	return map[string]any{q.name: serializeParams(q.params)}
}

// MarshalJSON encodes the wire form.
func (q *LeafQuery) MarshalJSON() ([]byte, error) { return marshal(q) }

// Match creates a match query, e.g. Match(Params{"title": "python"}).
func Match(p Params) *LeafQuery { return NewLeaf(KindMatch, p) }

// MatchPhrase creates a match_phrase query.
func MatchPhrase(p Params) *LeafQuery { return NewLeaf(KindMatchPhrase, p) }

// MultiMatch creates a multi_match query.
func MultiMatch(p Params) *LeafQuery { return NewLeaf(KindMultiMatch, p) }

// Term creates a term query.
func Term(p Params) *LeafQuery { return NewLeaf(KindTerm, p) }

// Terms creates a terms query.
func Terms(p Params) *LeafQuery { return NewLeaf(KindTerms, p) }

// Range creates a range query.
func Range(p Params) *LeafQuery { return NewLeaf(KindRange, p) }

// Prefix creates a prefix query.
func Prefix(p Params) *LeafQuery { return NewLeaf(KindPrefix, p) }

// Wildcard creates a wildcard query.
func Wildcard(p Params) *LeafQuery { return NewLeaf(KindWildcard, p) }

// Exists creates an exists query for field.
func Exists(field string) *LeafQuery { return NewLeaf(KindExists, Params{"field": field}) }

// IDs creates an ids query.
func IDs(ids ...string) *LeafQuery {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return NewLeaf(KindIDs, Params{"values": values})
}

// MatchAllQuery matches every document. It is the identity of And and Add
// and the absorbing element of Or.
type MatchAllQuery struct {
	params Params
}

// MatchAll creates a match_all query.
func MatchAll() *MatchAllQuery { return &MatchAllQuery{params: Params{}} }

// Name returns "match_all".
func (q *MatchAllQuery) Name() string { return KindMatchAll }

// Params returns the parameters (normally empty; "boost" is allowed).
func (q *MatchAllQuery) Params() Params { return q.params }

// ToDict returns {"match_all": params}.
func (q *MatchAllQuery) ToDict() map[string]any {
	return map[string]any{KindMatchAll: serializeParams(q.params)}
}

// MarshalJSON encodes the wire form.
func (q *MatchAllQuery) MarshalJSON() ([]byte, error) { return marshal(q) }

func isMatchAll(v any) bool {
	_, ok := v.(*MatchAllQuery)
	return ok
}
