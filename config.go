package quorumpart

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the configuration for a Balancer instance.
//
// All duration fields accept standard Go duration strings like "30s", "5m"
// when loaded from YAML via gopkg.in/yaml.v3.
type Config struct {
	// OwnerID uniquely identifies this process within the fleet. Must be
	// non-empty and must persist for the lifetime of this Balancer
	// instance — changing it mid-lifetime would make the instance unable
	// to recognize its own prior holdings on the next tick.
	OwnerID string `yaml:"ownerId"`

	// Namespace, Hub, and ConsumerGroup form the scoping tuple every
	// ownership record lives under. All three must be non-empty.
	Namespace     string `yaml:"namespace"`
	Hub           string `yaml:"hub"`
	ConsumerGroup string `yaml:"consumerGroup"`

	// ExpirationWindow is how long a record can go unrenewed before it is
	// considered an orphan, claimable by any instance.
	//
	// Default: 30 seconds.
	ExpirationWindow time.Duration `yaml:"expirationWindow"`

	// TickInterval is documentation-only metadata: the Balancer's tick
	// pipeline is agnostic to tick cadence and never reads this field;
	// ValidateWithWarnings only compares it with ExpirationWindow to warn
	// about slow recovery. It exists so a driver loading Config from YAML has a natural place to
	// configure its own timer alongside the fields the Balancer does use.
	//
	// Recommended: roughly one third of ExpirationWindow.
	TickInterval time.Duration `yaml:"tickInterval"`
}

// DefaultConfig returns a Config with sensible defaults for everything
// except the fields that must be supplied by the caller: OwnerID,
// Namespace, Hub, and ConsumerGroup.
func DefaultConfig() Config {
	return Config{
		ExpirationWindow: 30 * time.Second,
		TickInterval:     10 * time.Second,
	}
}

// SetDefaults fills in missing configuration values with production
// defaults, in place. Identity and scope fields are left untouched: there
// is no sensible default for OwnerID, Namespace, Hub, or ConsumerGroup.
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.ExpirationWindow == 0 {
		cfg.ExpirationWindow = defaults.ExpirationWindow
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = defaults.TickInterval
	}
}

// Validate checks configuration constraints and returns an error describing
// the first violation found, or nil if the configuration is usable.
//
// These are the precondition errors that are fatal at construction time:
// empty owner id, empty scope tuple, non-positive expiration window.
func (cfg *Config) Validate() error {
	if cfg.OwnerID == "" {
		return fmt.Errorf("%w", ErrEmptyOwnerID)
	}
	if cfg.Namespace == "" || cfg.Hub == "" || cfg.ConsumerGroup == "" {
		return fmt.Errorf("%w", ErrEmptyScope)
	}
	if cfg.ExpirationWindow <= 0 {
		return fmt.Errorf("%w", ErrInvalidExpirationWindow)
	}

	return nil
}

// ValidateWithWarnings runs Validate and additionally logs advisory
// warnings for values that are legal but not recommended: clock skew across
// the fleet should stay small compared to ExpirationWindow.
func (cfg *Config) ValidateWithWarnings(logger Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.ExpirationWindow < 5*time.Second {
		logger.Warn(
			"expiration window is very short relative to typical clock skew",
			"expirationWindow", cfg.ExpirationWindow,
			"recommended", "30s or higher in production",
		)
	}
	if cfg.TickInterval > 0 && cfg.TickInterval > cfg.ExpirationWindow/2 {
		logger.Warn(
			"tick interval is large relative to expiration window, recovery will be slow",
			"tickInterval", cfg.TickInterval,
			"expirationWindow", cfg.ExpirationWindow,
			"recommended", "roughly ExpirationWindow/3",
		)
	}

	return nil
}

// LoadConfig reads a YAML file at path into a Config, fills in missing
// fields with production defaults, and validates the result.
func LoadConfig(path string, logger Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	SetDefaults(&cfg)

	if err := cfg.ValidateWithWarnings(logger); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// TestConfig returns a configuration tuned for fast test execution: a short
// expiration window so recovery scenarios don't need a real-time sleep of
// tens of seconds per assertion.
func TestConfig(ownerID, namespace, hub, consumerGroup string) Config {
	cfg := DefaultConfig()
	cfg.OwnerID = ownerID
	cfg.Namespace = namespace
	cfg.Hub = hub
	cfg.ConsumerGroup = consumerGroup
	cfg.ExpirationWindow = 200 * time.Millisecond
	cfg.TickInterval = 50 * time.Millisecond

	return cfg
}
