package extension

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/xraph/sandbox"
	"github.com/xraph/sandbox/plugin"
)

// Option configures the sandbox Forge extension.
type Option func(*Extension)

// WithEngineOption passes a sandbox.Option through to the engine.
func WithEngineOption(opt sandbox.Option) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, opt)
	}
}

// WithPlugin registers a sandbox plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.engineOpts = append(e.engineOpts, sandbox.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithOpeningBalance sets the wallet's starting balance in USD cents.
func WithOpeningBalance(cents int64) Option {
	return func(e *Extension) { e.config.OpeningBalance = cents }
}

// WithDisableTools skips building the tool surface.
func WithDisableTools() Option {
	return func(e *Extension) { e.config.DisableTools = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithMetricsRegisterer registers the sandbox metrics with reg instead of
// a private registry.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(e *Extension) { e.registerer = reg }
}
