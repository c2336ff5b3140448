package esdsl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kailas-cloud/esdsl/internal/config"
	"github.com/kailas-cloud/esdsl/internal/domain"
	domquery "github.com/kailas-cloud/esdsl/internal/domain/query"
	healthuc "github.com/kailas-cloud/esdsl/internal/usecase/health"
	queryuc "github.com/kailas-cloud/esdsl/internal/usecase/query"
	schemauc "github.com/kailas-cloud/esdsl/internal/usecase/schema"
)

// Internal interfaces, swapped out in tests.
type queryUseCase interface {
	Compile(ctx context.Context, raw map[string]any) (domquery.Query, error)
	Combine(ctx context.Context, op queryuc.Op, left, right map[string]any) (domquery.Query, error)
	Kinds() []string
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the esdsl SDK entry point. It is safe for concurrent use.
type Client struct {
	catalog *schemauc.Catalog
	queries queryUseCase
	health  healthUseCase
	obs     *observer
}

// New compiles the configured schemas and creates a Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	schemas, err := loadSchemas(cfg)
	if err != nil {
		return nil, err
	}
	catalog, err := schemauc.Compile(schemas)
	if err != nil {
		return nil, fmt.Errorf("esdsl: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	registry := cfg.registry
	if registry == nil {
		registry = domquery.NewRegistry()
	}
	querySvc := queryuc.New(registry)

	return &Client{
		catalog: catalog,
		queries: querySvc,
		health:  healthuc.New(catalog, querySvc),
		obs:     obs,
	}, nil
}

func loadSchemas(cfg *clientConfig) ([]config.SchemaConfig, error) {
	data := cfg.schemaYAML
	if cfg.configPath != "" {
		var err error
		data, err = os.ReadFile(filepath.Clean(cfg.configPath))
		if err != nil {
			return nil, fmt.Errorf("esdsl: read config: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, nil
	}

	schemas, err := config.ParseSchemas(data)
	if err != nil {
		return nil, fmt.Errorf("esdsl: %w: %w", domain.ErrInvalidSchema, err)
	}
	return schemas, nil
}

// DocType returns a document type by declared name or doc_type.
func (c *Client) DocType(name string) (*DocType, error) {
	t, err := c.catalog.Get(name)
	if err != nil {
		return nil, fmt.Errorf("esdsl: %w", err)
	}
	return t, nil
}

// DocTypes returns all document types in declaration order.
func (c *Client) DocTypes() []*DocType { return c.catalog.All() }

// Mapping returns the mapping of a document type.
func (c *Client) Mapping(name string) (Mapping, error) {
	t, err := c.DocType(name)
	if err != nil {
		return Mapping{}, err
	}
	return t.Mapping(), nil
}

// NewDocument creates a document of the named type backed by source.
// Nested maps in source are wrapped into documents on first access.
func (c *Client) NewDocument(name string, source map[string]any) (*Document, error) {
	t, err := c.DocType(name)
	if err != nil {
		return nil, err
	}
	return t.FromSource(source), nil
}

// Kinds returns the query kinds the client can build.
func (c *Client) Kinds() []string { return c.queries.Kinds() }

// Compile builds a query from its wire form.
func (c *Client) Compile(ctx context.Context, raw map[string]any) (q Query, err error) {
	start := time.Now()
	defer func() { c.obs.observe(ctx, opCompile, noAlgebraOp, start, err) }()

	q, err = c.queries.Compile(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("esdsl: %w", err)
	}
	return q, nil
}

// CompileJSON decodes and builds a wire-format query.
func (c *Client) CompileJSON(ctx context.Context, data []byte) (Query, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("esdsl: %w: %w", domain.ErrInvalidQuery, err)
	}
	return c.Compile(ctx, raw)
}

// Combine applies op to two wire-format queries. right is ignored for OpNot.
// An op outside OpAdd, OpAnd, OpOr and OpNot fails with ErrInvalidQuery.
func (c *Client) Combine(ctx context.Context, op Op, left, right map[string]any) (q Query, err error) {
	start := time.Now()
	label := noAlgebraOp
	defer func() { c.obs.observe(ctx, opCombine, label, start, err) }()

	op, err = queryuc.ParseOp(string(op))
	if err != nil {
		return nil, fmt.Errorf("esdsl: %w", err)
	}
	label = string(op)

	q, err = c.queries.Combine(ctx, op, left, right)
	if err != nil {
		return nil, fmt.Errorf("esdsl: %w", err)
	}
	return q, nil
}

// Health reports whether schemas are loaded and the registry is usable.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
