package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esdsl/internal/domain"
	"github.com/kailas-cloud/esdsl/internal/domain/mapping"
	domquery "github.com/kailas-cloud/esdsl/internal/domain/query"
	healthuc "github.com/kailas-cloud/esdsl/internal/usecase/health"
	queryuc "github.com/kailas-cloud/esdsl/internal/usecase/query"
	schemauc "github.com/kailas-cloud/esdsl/internal/usecase/schema"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeUnauthorized     = "unauthorized"
	CodeNotFound         = "not_found"
	CodeAmbiguous        = "ambiguous_construction"
	CodeUnknownQueryKind = "unknown_query_kind"
	CodeInvalidQuery     = "invalid_query"
	CodeInvalidSchema    = "invalid_schema"
	CodeInternalError    = "internal_error"
)

const defaultMaxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// QueryRequest is the body of POST /queries/compile.
type QueryRequest struct {
	Query map[string]any `json:"query"`
}

// CombineRequest is the body of POST /queries/combine.
type CombineRequest struct {
	Op    string         `json:"op"`
	Left  map[string]any `json:"left"`
	Right map[string]any `json:"right"`
}

// QueryResponse wraps a compiled query.
type QueryResponse struct {
	Query domquery.Query `json:"query"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the DSL over HTTP.
type Server struct {
	catalog       *schemauc.Catalog
	queries       *queryuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog *schemauc.Catalog,
	queries *queryuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalog:      catalog,
		queries:      queries,
		health:       health,
		logger:       logger,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrAmbiguousConstruction, http.StatusBadRequest, CodeAmbiguous),
		sentinelHandler(domain.ErrUnknownQueryKind, http.StatusBadRequest, CodeUnknownQueryKind),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery),
		sentinelHandler(domain.ErrInvalidSchema, http.StatusBadRequest, CodeInvalidSchema),
	}
	return s
}

// WithMaxBodyBytes limits request bodies. Non-positive values keep the default.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/mappings", s.ListMappings)
	r.Get("/mappings/{name}", s.GetMapping)
	r.Post("/documents/{name}", s.CreateDocument)
	r.Post("/queries/compile", s.CompileQuery)
	r.Post("/queries/combine", s.CombineQueries)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// ListMappings handles GET /mappings.
func (s *Server) ListMappings(w http.ResponseWriter, _ *http.Request) {
	types := s.catalog.All()
	items := make([]mapping.Mapping, len(types))
	for i, t := range types {
		items[i] = t.Mapping()
	}
	writeJSON(w, http.StatusOK, items)
}

// GetMapping handles GET /mappings/{name}.
func (s *Server) GetMapping(w http.ResponseWriter, r *http.Request) {
	t, err := s.catalog.Get(chi.URLParam(r, "name"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t.Mapping())
}

// CreateDocument handles POST /documents/{name}.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	t, err := s.catalog.Get(chi.URLParam(r, "name"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var source map[string]any
	if !s.decode(w, r, &source) {
		return
	}

	writeJSON(w, http.StatusOK, t.FromSource(source).ToDict())
}

// CompileQuery handles POST /queries/compile.
func (s *Server) CompileQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !s.decode(w, r, &req) {
		return
	}

	q, err := s.queries.Compile(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QueryResponse{Query: q})
}

// CombineQueries handles POST /queries/combine.
func (s *Server) CombineQueries(w http.ResponseWriter, r *http.Request) {
	var req CombineRequest
	if !s.decode(w, r, &req) {
		return
	}

	op, err := queryuc.ParseOp(req.Op)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	q, err := s.queries.Combine(r.Context(), op, req.Left, req.Right)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QueryResponse{Query: q})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// sentinelHandler maps a sentinel to a status and code. The wrapped error text is returned
// because it names the offending kind or field and never carries internals.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err, err.Error()) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
