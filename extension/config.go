package extension

// Config holds the sandbox extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.sandbox" or "sandbox" keys).
type Config struct {
	// OpeningBalance is the wallet's starting balance in USD cents
	// (default: 5000).
	OpeningBalance int64 `json:"opening_balance" mapstructure:"opening_balance" yaml:"opening_balance"`

	// DisableTools skips building the tool surface.
	DisableTools bool `json:"disable_tools" mapstructure:"disable_tools" yaml:"disable_tools"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{OpeningBalance: 5000}
}
