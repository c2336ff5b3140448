package esdsl

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	schemaYAML []byte
	configPath string
	registry   *Registry

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSchemaYAML declares document types from a YAML document with a top-level "schemas" list.
func WithSchemaYAML(data []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.schemaYAML = data
	})
}

// WithConfigFile reads schemas from an esdsl service config file.
// Takes precedence over WithSchemaYAML.
func WithConfigFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.configPath = path
	})
}

// WithRegistry replaces the built-in query registry, e.g. one extended with custom kinds.
func WithRegistry(r *Registry) Option {
	return optionFunc(func(c *clientConfig) {
		c.registry = r
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
