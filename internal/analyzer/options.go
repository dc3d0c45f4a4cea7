package analyzer

import (
	"log/slog"

	"github.com/orizon-lang/goanalyzer/internal/logs"
)

// Option configures a single Analyze call.
type Option func(*config)

type config struct {
	verbose bool
	trace   func(production string)
	logger  *slog.Logger
}

func newConfig(opts []Option) config {
	cfg := config{logger: logs.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithVerbose records every recognized production in Report.Productions.
func WithVerbose(verbose bool) Option {
	return func(c *config) {
		c.verbose = verbose
	}
}

// WithLogger sets the logger receiving one debug record per call.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTrace passes every recognized production to trace as it happens.
func WithTrace(trace func(production string)) Option {
	return func(c *config) {
		c.trace = trace
	}
}
