package query

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/esdsl/internal/domain"
	domquery "github.com/kailas-cloud/esdsl/internal/domain/query"
	logpkg "github.com/kailas-cloud/esdsl/internal/logger"
	"github.com/kailas-cloud/esdsl/internal/metrics"
)

// Op is a query algebra operation.
type Op string

// Supported operations.
const (
	OpAdd Op = "add"
	OpAnd Op = "and"
	OpOr  Op = "or"
	OpNot Op = "not"
)

// ParseOp validates an operation name.
func ParseOp(s string) (Op, error) {
	switch op := Op(s); op {
	case OpAdd, OpAnd, OpOr, OpNot:
		return op, nil
	default:
		return "", fmt.Errorf("%w: unknown operation %q", domain.ErrInvalidQuery, s)
	}
}

// Service builds and combines queries arriving in wire format.
type Service struct {
	registry *domquery.Registry
}

// New creates a Service over registry.
func New(registry *domquery.Registry) *Service {
	return &Service{registry: registry}
}

// Kinds returns the registered query kinds.
func (s *Service) Kinds() []string { return s.registry.Names() }

// Compile builds a query node from its wire form.
func (s *Service) Compile(ctx context.Context, raw map[string]any) (domquery.Query, error) {
	q, err := s.registry.Build(raw, nil)
	kind := s.kindOf(raw)
	if err != nil {
		metrics.QueriesBuiltTotal.WithLabelValues(kind, errorStatus(err)).Inc()
		logpkg.FromContext(ctx).Warn("Query rejected",
			zap.String("kind", kind),
			zap.Error(err),
		)
		return nil, fmt.Errorf("compile query: %w", err)
	}
	metrics.QueriesBuiltTotal.WithLabelValues(kind, "ok").Inc()
	return q, nil
}

// Combine compiles both operands and applies op. right is ignored for OpNot.
func (s *Service) Combine(ctx context.Context, op Op, left, right map[string]any) (domquery.Query, error) {
	l, err := s.Compile(ctx, left)
	if err != nil {
		return nil, fmt.Errorf("left operand: %w", err)
	}
	if op == OpNot {
		out := domquery.Not(l)
		recordOp(op, l, nil, out)
		return out, nil
	}

	r, err := s.Compile(ctx, right)
	if err != nil {
		return nil, fmt.Errorf("right operand: %w", err)
	}

	var out domquery.Query
	switch op {
	case OpAdd:
		out = domquery.Add(l, r)
	case OpAnd:
		out = domquery.And(l, r)
	case OpOr:
		out = domquery.Or(l, r)
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", domain.ErrInvalidQuery, op)
	}
	recordOp(op, l, r, out)

	logpkg.FromContext(ctx).Debug("Queries combined",
		zap.String("op", string(op)),
		zap.String("left", l.Name()),
		zap.String("right", r.Name()),
		zap.String("result", out.Name()),
	)
	return out, nil
}

// recordOp labels whether op returned one of its operands (match_all identity or an in-place
// fold) or allocated a new node.
func recordOp(op Op, l, r, out domquery.Query) {
	result := "new"
	if out == l || (r != nil && out == r) {
		result = "reused"
	}
	metrics.QueryOpsTotal.WithLabelValues(string(op), result).Inc()
}

func (s *Service) kindOf(raw map[string]any) string {
	if len(raw) != 1 {
		return "invalid"
	}
	for name := range raw {
		if _, ok := s.registry.Lookup(name); ok {
			return name
		}
	}
	return "unknown"
}

func errorStatus(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownQueryKind):
		return "unknown_kind"
	case errors.Is(err, domain.ErrAmbiguousConstruction):
		return "ambiguous"
	default:
		return "invalid"
	}
}
