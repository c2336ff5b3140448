package domain

import "errors"

var (
	// ErrAmbiguousConstruction signals conflicting query construction modes.
	ErrAmbiguousConstruction = errors.New("ambiguous query construction")
	// ErrUnknownQueryKind signals a query name absent from the registry.
	ErrUnknownQueryKind = errors.New("unknown query kind")
	// ErrInvalidQuery signals a known query kind with a malformed body.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSchema signals a schema definition that cannot be compiled.
	ErrInvalidSchema = errors.New("invalid schema")
)
