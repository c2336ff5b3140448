package query

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/kailas-cloud/esdsl/internal/domain"
)

// Constructor builds a node of one kind from its params.
type Constructor func(params Params) (Query, error)

// Registry maps kind names to constructors. Lookups are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Constructor
}

// NewRegistry creates a registry holding the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]Constructor)}
	for _, name := range []string{
		KindMatch, KindMatchPhrase, KindMultiMatch,
		KindTerm, KindTerms, KindRange,
		KindPrefix, KindWildcard, KindExists, KindIDs,
	} {
		r.Register(name, leafConstructor(name))
	}
	r.Register(KindMatchAll, func(p Params) (Query, error) {
		return &MatchAllQuery{params: cloneParams(p)}, nil
	})
	r.Register(KindBool, func(p Params) (Query, error) {
		return newBool(r, p)
	})
	return r
}

func leafConstructor(name string) Constructor {
	return func(p Params) (Query, error) { return NewLeaf(name, p), nil }
}

// Register binds name to c. A previous binding for name is replaced.
func (r *Registry) Register(name string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[name] = c
}

// Lookup returns the constructor bound to name.
func (r *Registry) Lookup(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.kinds[name]
	return c, ok
}

// Names returns the registered kind names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build constructs a query node. arg may be:
//   - a built Query, returned unchanged (params must be empty);
//   - a wire mapping with exactly one key {name: params} (params must be empty);
//   - a kind name, constructed with params.
func (r *Registry) Build(arg any, params Params) (Query, error) {
	switch a := arg.(type) {
	case Query:
		if len(params) > 0 {
			return nil, fmt.Errorf("%w: %s query given together with params", domain.ErrAmbiguousConstruction, a.Name())
		}
		return a, nil
	case string:
		return r.construct(a, params)
	case Params:
		return r.fromDict(a, params)
	case map[string]any:
		return r.fromDict(a, params)
	default:
		return nil, fmt.Errorf("%w: cannot build a query from %T", domain.ErrInvalidQuery, arg)
	}
}

func (r *Registry) fromDict(d map[string]any, params Params) (Query, error) {
	if len(params) > 0 {
		return nil, fmt.Errorf("%w: wire mapping given together with params", domain.ErrAmbiguousConstruction)
	}
	if len(d) != 1 {
		return nil, fmt.Errorf("%w: wire mapping must have exactly one key, got %d",
			domain.ErrAmbiguousConstruction, len(d))
	}
	var name string
	var body any
	for k, v := range d {
		name, body = k, v
	}
	if _, ok := r.Lookup(name); !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownQueryKind, name)
	}
	p, ok := asParamsBody(body)
	if !ok {
		return nil, fmt.Errorf("%w: body of %q must be an object, got %T", domain.ErrInvalidQuery, name, body)
	}
	return r.construct(name, p)
}

func (r *Registry) construct(name string, params Params) (Query, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownQueryKind, name)
	}
	q, err := c(cloneParams(params))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return q, nil
}

func asParamsBody(body any) (Params, bool) {
	if body == nil {
		return Params{}, true
	}
	m, ok := asMap(body)
	return m, ok
}

// defaultRegistry is the process-wide registry used by Q and Register.
var defaultRegistry = NewRegistry()

// Register binds name to c in the process-wide registry, replacing any previous binding.
func Register(name string, c Constructor) { defaultRegistry.Register(name, c) }

// Lookup returns the constructor bound to name in the process-wide registry.
func Lookup(name string) (Constructor, bool) { return defaultRegistry.Lookup(name) }

// Kinds returns the kind names known to the process-wide registry.
func Kinds() []string { return defaultRegistry.Names() }

// Q builds a query node through the process-wide registry, see Registry.Build.
func Q(arg any, params Params) (Query, error) { return defaultRegistry.Build(arg, params) }

// MustQ is like Q but panics on error.
func MustQ(arg any, params Params) Query {
	q, err := Q(arg, params)
	if err != nil {
		panic(err)
	}
	return q
}

// FromJSON decodes a wire-format query.
func FromJSON(data []byte) (Query, error) {
	var d map[string]any
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return Q(d, nil)
}
