// Package config loads and validates the application configuration from a
// YAML file, environment variables and flag overrides via viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/windmouse-cli/internal/windmouse"
)

// Config is the whole application configuration.
type Config struct {
	Logger   LoggerConfig            `mapstructure:"logger" yaml:"logger"`
	Physics  windmouse.PhysicsConfig `mapstructure:"physics" yaml:"physics"`
	Movement MovementConfig          `mapstructure:"movement" yaml:"movement"`
	Driver   DriverConfig            `mapstructure:"driver" yaml:"driver"`
}

// LoggerConfig controls the zap logger setup.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"` // "console" or "json"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`

	// File sink, rotated by lumberjack. Disabled when LogFile is empty.
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"` // days
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// MovementConfig carries the per-call pacing defaults.
type MovementConfig struct {
	TickDelay    time.Duration `mapstructure:"tick_delay" yaml:"tick_delay"`
	StepDuration time.Duration `mapstructure:"step_duration" yaml:"step_duration"`
	HoldButton   string        `mapstructure:"hold_button" yaml:"hold_button"`
}

// DriverConfig configures the platform driver backends.
type DriverConfig struct {
	CDP    CDPConfig    `mapstructure:"cdp" yaml:"cdp"`
	Remote RemoteConfig `mapstructure:"remote" yaml:"remote"`
}

// CDPConfig configures the Chrome DevTools Protocol driver.
type CDPConfig struct {
	// DevtoolsURL attaches to a running browser (ws://host:port/...).
	// Empty launches a local headless instance.
	DevtoolsURL string  `mapstructure:"devtools_url" yaml:"devtools_url"`
	Jitter      float64 `mapstructure:"jitter" yaml:"jitter"`
}

// RemoteConfig configures the websocket cursor-agent driver.
type RemoteConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// SetDefaults registers every default on the given viper instance. Values
// from the config file, WINDMOUSE_* environment variables and bound flags
// win over these.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "windmouse")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)

	v.SetDefault("physics.gravity_magnitude", windmouse.DefaultGravityMagnitude)
	v.SetDefault("physics.wind_magnitude", windmouse.DefaultWindMagnitude)
	v.SetDefault("physics.max_step", windmouse.DefaultMaxStep)
	v.SetDefault("physics.damped_distance", windmouse.DefaultDampedDistance)

	v.SetDefault("movement.tick_delay", 8*time.Millisecond)
	v.SetDefault("movement.step_duration", 4*time.Millisecond)
	v.SetDefault("movement.hold_button", string(windmouse.ButtonNone))

	v.SetDefault("driver.cdp.jitter", 1.5)
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks everything that can be rejected before side effects.
func (c *Config) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	if _, err := ParseHoldButton(c.Movement.HoldButton); err != nil {
		return err
	}
	if c.Movement.TickDelay < 0 {
		return fmt.Errorf("config: movement.tick_delay must be >= 0, got %v", c.Movement.TickDelay)
	}
	if c.Movement.StepDuration < 0 {
		return fmt.Errorf("config: movement.step_duration must be >= 0, got %v", c.Movement.StepDuration)
	}
	return nil
}

// ParseHoldButton maps a config/flag string to a HoldMouseButton.
func ParseHoldButton(s string) (windmouse.HoldMouseButton, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(windmouse.ButtonNone):
		return windmouse.ButtonNone, nil
	case string(windmouse.ButtonLeft):
		return windmouse.ButtonLeft, nil
	case string(windmouse.ButtonRight):
		return windmouse.ButtonRight, nil
	case string(windmouse.ButtonMiddle):
		return windmouse.ButtonMiddle, nil
	default:
		return windmouse.ButtonNone, fmt.Errorf("config: unknown hold button %q (want none, left, right or middle)", s)
	}
}
