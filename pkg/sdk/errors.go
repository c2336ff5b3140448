package esdsl

import "github.com/kailas-cloud/esdsl/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrAmbiguousConstruction = domain.ErrAmbiguousConstruction
	ErrUnknownQueryKind      = domain.ErrUnknownQueryKind
	ErrInvalidQuery          = domain.ErrInvalidQuery
	ErrNotFound              = domain.ErrNotFound
	ErrInvalidSchema         = domain.ErrInvalidSchema
)
