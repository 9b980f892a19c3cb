// Package extension provides the Forge extension adapter for the sandbox.
//
// It implements the forge.Extension interface to integrate the sandbox
// engine and its tool surface into a Forge application with DI
// registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.sandbox" or "sandbox" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/sandbox"
	"github.com/xraph/sandbox/observability"
	"github.com/xraph/sandbox/tools"
	"github.com/xraph/sandbox/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "sandbox"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Sandboxed marketplace for SMS numbers, eSIMs and mobile proxies"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts the sandbox engine as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *sandbox.Engine
	toolbox    *tools.Toolbox
	metrics    *observability.MetricsExtension
	registerer prometheus.Registerer
	engineOpts []sandbox.Option
	started    bool
}

// New creates a new sandbox Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying engine.
// This is nil until Register is called.
func (e *Extension) Engine() *sandbox.Engine { return e.engine }

// Toolbox returns the tool surface, nil until Register is called or when
// tools are disabled.
func (e *Extension) Toolbox() *tools.Toolbox { return e.toolbox }

// Metrics returns the metrics plugin, nil until Register is called.
func (e *Extension) Metrics() *observability.MetricsExtension { return e.metrics }

// Registerer returns where the sandbox metrics are registered. Unless
// WithMetricsRegisterer was given it is a private *prometheus.Registry.
func (e *Extension) Registerer() prometheus.Registerer { return e.registerer }

// Register implements [forge.Extension]. It loads configuration,
// builds the engine and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	if err := e.build(); err != nil {
		return err
	}

	if err := vessel.Provide(fapp.Container(), func() (*sandbox.Engine, error) {
		return e.engine, nil
	}); err != nil {
		return err
	}
	if e.toolbox == nil {
		return nil
	}
	return vessel.Provide(fapp.Container(), func() (*tools.Toolbox, error) {
		return e.toolbox, nil
	})
}

// build constructs the engine and toolbox from the resolved config.
func (e *Extension) build() error {
	if e.registerer == nil {
		e.registerer = prometheus.NewRegistry()
	}
	e.metrics = observability.NewMetricsExtension(observability.NewPrometheusFactory(e.registerer))

	opts := make([]sandbox.Option, 0, len(e.engineOpts)+2)
	opts = append(opts,
		sandbox.WithOpeningBalance(types.USD(e.config.OpeningBalance)),
		sandbox.WithPlugin(e.metrics),
	)
	opts = append(opts, e.engineOpts...)
	e.engine = sandbox.New(opts...)

	if e.config.DisableTools {
		return nil
	}
	tb, err := tools.New(e.engine)
	if err != nil {
		return fmt.Errorf("sandbox: build tools: %w", err)
	}
	e.toolbox = tb
	return nil
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("sandbox: extension not initialized")
	}
	if err := e.engine.Start(ctx); err != nil {
		return err
	}
	e.started = true
	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil && e.started {
		e.started = false
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("sandbox: engine not initialized")
	}
	if !e.started {
		return errors.New("sandbox: engine not started")
	}
	_, err := e.engine.Balance(ctx)
	return err
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("sandbox: configuration is required but not found in config files; " +
				"ensure 'extensions.sandbox' or 'sandbox' key exists in your config")
		}
		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	if e.config.OpeningBalance < 0 {
		return fmt.Errorf("sandbox: opening balance must not be negative, got %d", e.config.OpeningBalance)
	}

	e.Logger().Debug("sandbox: configuration loaded",
		forge.F("opening_balance", e.config.OpeningBalance),
		forge.F("disable_tools", e.config.DisableTools),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()

	for _, key := range []string{"extensions.sandbox", "sandbox"} {
		if !cm.IsSet(key) {
			continue
		}
		var cfg Config
		if err := cm.Bind(key, &cfg); err == nil {
			e.Logger().Debug("sandbox: loaded config from file", forge.F("key", key))
			return cfg, true
		}
		e.Logger().Warn("sandbox: failed to bind config",
			forge.F("key", key),
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	if cfg.OpeningBalance == 0 {
		cfg.OpeningBalance = DefaultConfig().OpeningBalance
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML takes precedence; programmatic values fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	if programmaticConfig.DisableTools {
		yamlConfig.DisableTools = true
	}
	if yamlConfig.OpeningBalance == 0 && programmaticConfig.OpeningBalance != 0 {
		yamlConfig.OpeningBalance = programmaticConfig.OpeningBalance
	}
	return mergeWithDefaults(yamlConfig)
}
