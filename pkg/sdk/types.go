package esdsl

import (
	"github.com/kailas-cloud/esdsl/internal/domain/document"
	"github.com/kailas-cloud/esdsl/internal/domain/mapping"
	domquery "github.com/kailas-cloud/esdsl/internal/domain/query"
	queryuc "github.com/kailas-cloud/esdsl/internal/usecase/query"
)

type (
	// Query is a node of the query algebra.
	Query = domquery.Query
	// Params holds query parameters.
	Params = domquery.Params
	// Registry maps query kinds to constructors.
	Registry = domquery.Registry
	// Mapping is the field tree of a document type.
	Mapping = mapping.Mapping
	// DocType describes a declared document type.
	DocType = document.DocType
	// Document is an instance of a DocType.
	Document = document.Document
	// Op is a query algebra operation.
	Op = queryuc.Op
)

// Query algebra operations accepted by Combine.
const (
	OpAdd = queryuc.OpAdd
	OpAnd = queryuc.OpAnd
	OpOr  = queryuc.OpOr
	OpNot = queryuc.OpNot
)

// NewRegistry returns a registry with the built-in query kinds.
func NewRegistry() *Registry { return domquery.NewRegistry() }

// HealthStatus represents the aggregated health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component → "ok"/"error"
}
