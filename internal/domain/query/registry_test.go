package query

import (
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/esdsl/internal/domain"
)

func TestRegistry_BuiltinsRegistered(t *testing.T) {
	for _, name := range []string{KindMatch, KindMatchAll, KindBool, KindTerm, KindRange} {
		if _, ok := Lookup(name); !ok {
			t.Errorf("%q not registered", name)
		}
	}
	if !slices.Contains(Kinds(), KindMatch) {
		t.Errorf("Kinds() = %v, missing match", Kinds())
	}
}

func TestRegistry_RegisterCustomKind(t *testing.T) {
	r := NewRegistry()
	r.Register("my_query", func(p Params) (Query, error) { return NewLeaf("my_query", p), nil })

	q, err := r.Build("my_query", Params{"x": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Name() != "my_query" {
		t.Errorf("name = %q, want my_query", q.Name())
	}

	if _, err := Q("my_query", nil); !errors.Is(err, domain.ErrUnknownQueryKind) {
		t.Errorf("default registry sees custom kind: err = %v", err)
	}
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register(KindMatch, func(p Params) (Query, error) { return NewLeaf("replaced", p), nil })

	q, err := r.Build(KindMatch, Params{"f": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Name() != "replaced" {
		t.Errorf("name = %q, want replaced", q.Name())
	}
}

func TestQ_PassesQueryThrough(t *testing.T) {
	q := Match(Params{"f": "value1"})

	got, err := Q(q, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Query(q) {
		t.Error("Q(q) did not return the same node")
	}
}

func TestQ_ConstructsByName(t *testing.T) {
	q, err := Q("match", Params{"f": "value"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := q.(*LeafQuery); !ok || q.Name() != KindMatch {
		t.Fatalf("q = %T %q, want match leaf", q, q.Name())
	}
	if !valuesEqual(q.Params(), Params{"f": "value"}) {
		t.Errorf("params = %v, want f=value", q.Params())
	}
}

func TestQ_ConstructsFromDict(t *testing.T) {
	fromDict, err := Q(map[string]any{"match": map[string]any{"f": "value"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromName := MustQ("match", Params{"f": "value"})

	if !Equal(fromDict, fromName) {
		t.Errorf("dict = %v, name = %v", fromDict.ToDict(), fromName.ToDict())
	}
}

func TestQ_ConstructsCompoundFromDict(t *testing.T) {
	q, err := Q(map[string]any{
		"bool": map[string]any{
			"must": []any{map[string]any{"match": map[string]any{"f": "value"}}},
		},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Bool(Clauses{Must: []Query{Match(Params{"f": "value"})}})
	if _, ok := q.(*BoolQuery); !ok {
		t.Fatalf("q = %T, want *BoolQuery", q)
	}
	if !Equal(q, want) {
		t.Errorf("q = %v, want %v", q.ToDict(), want.ToDict())
	}
}

func TestQ_MatchAllFromDict(t *testing.T) {
	q, err := Q(map[string]any{"match_all": map[string]any{}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := q.(*MatchAllQuery); !ok {
		t.Errorf("q = %T, want *MatchAllQuery", q)
	}

	q, err = Q(map[string]any{"match_all": nil}, nil)
	if err != nil {
		t.Fatalf("null body: unexpected error: %v", err)
	}
	if !Equal(q, MatchAll()) {
		t.Errorf("q = %v, want match_all", q.ToDict())
	}
}

func TestQ_Errors(t *testing.T) {
	tests := []struct {
		name   string
		arg    any
		params Params
		want   error
	}{
		{"dict and params", map[string]any{"match": map[string]any{"f": "value"}}, Params{"f": "value"}, domain.ErrAmbiguousConstruction},
		{"query and params", Match(Params{"f": 1}), Params{"f": 2}, domain.ErrAmbiguousConstruction},
		{"empty dict", map[string]any{}, nil, domain.ErrAmbiguousConstruction},
		{"two keys", map[string]any{"match": map[string]any{}, "term": map[string]any{}}, nil, domain.ErrAmbiguousConstruction},
		{"empty dict and params", map[string]any{}, Params{"f": 1}, domain.ErrAmbiguousConstruction},
		{"unknown name", "nope", Params{"f": 1}, domain.ErrUnknownQueryKind},
		{"unknown dict key", map[string]any{"nope": map[string]any{}}, nil, domain.ErrUnknownQueryKind},
		{"non-object body", map[string]any{"match": "value"}, nil, domain.ErrInvalidQuery},
		{"unsupported arg", 42, nil, domain.ErrInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Q(tt.arg, tt.params)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if q != nil {
				t.Errorf("q = %v, want nil", q)
			}
		})
	}
}

func TestFromJSON(t *testing.T) {
	q, err := FromJSON([]byte(`{"bool":{"should":[{"term":{"n":42}}]}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Bool(Clauses{Should: []Query{Term(Params{"n": 42})}})
	if !Equal(q, want) {
		t.Errorf("q = %v, want %v", q.ToDict(), want.ToDict())
	}

	if _, err := FromJSON([]byte(`{`)); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("malformed json: err = %v, want ErrInvalidQuery", err)
	}
}
