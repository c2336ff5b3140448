package health

import (
	"context"
	"slices"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Kinds every registry must provide for the combinators to work.
var requiredKinds = []string{"bool", "match_all"}

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	schemas SchemaSource
	queries KindLister
}

// New creates a Service. schemas can be nil when no catalog is configured.
func New(schemas SchemaSource, queries KindLister) *Service {
	return &Service{schemas: schemas, queries: queries}
}

// Check runs health checks against all components.
func (s *Service) Check(_ context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.schemas != nil {
		if s.schemas.Len() == 0 {
			checks["schemas"] = CheckError
		} else {
			checks["schemas"] = CheckOK
		}
	}

	checks["queries"] = CheckOK
	kinds := s.queries.Kinds()
	for _, k := range requiredKinds {
		if !slices.Contains(kinds, k) {
			checks["queries"] = CheckError
			break
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
