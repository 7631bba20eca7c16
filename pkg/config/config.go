package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/errors"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/interval"
	"github.com/shopspring/decimal"
)

// Config represents the application configuration.
type Config struct {
	App     AppConfig     `envPrefix:"APP_"`
	Rule    RuleConfig    `envPrefix:"RULE_"`
	Builder BuilderConfig `envPrefix:"BUILDER_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"trade-aggregation"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// RuleConfig selects the aggregation rule and its parameters.
type RuleConfig struct {
	Kind            rulev1.Kind           `env:"KIND" envDefault:"time"`
	Interval        string                `env:"INTERVAL" envDefault:"1m"`
	Origin          time.Time             `env:"ORIGIN"`
	VolumeThreshold decimal.Decimal       `env:"VOLUME_THRESHOLD" envDefault:"100"`
	OrderingPolicy  rulev1.OrderingPolicy `env:"ORDERING_POLICY" envDefault:"reject"`
}

// BuilderConfig holds driver-side policies.
type BuilderConfig struct {
	// FillGaps materializes one empty bar per aligned window skipped by a data gap.
	FillGaps bool `env:"FILL_GAPS" envDefault:"false"`
	// SkipOutOfOrder logs and drops events rejected with an ordering violation instead
	// of failing the stream.
	SkipOutOfOrder bool `env:"SKIP_OUT_OF_ORDER" envDefault:"false"`
	// MaxFillBars bounds the empty bars materialized for one gap.
	MaxFillBars int64 `env:"MAX_FILL_BARS" envDefault:"10000"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	baseErr := errors.NewBaseError()

	ruleErr := c.Rule.Validate()
	if ruleErr != nil {
		baseErr.AddErrorDetails(ruleErr.GetDetails()...)
	}

	if !baseErr.HasDetails() {
		return nil
	}
	return baseErr
}

// Validate checks the rule settings that matter for Kind.
func (c RuleConfig) Validate() *errors.BaseError {
	baseErr := errors.NewBaseError()

	if !c.Kind.IsValid() {
		baseErr.AddErrorDetails(errors.NewErrorDetails(
			fmt.Sprintf("unknown rule kind %q", c.Kind), errors.ConfigurationError, "kind"))
	}
	if !c.OrderingPolicy.IsValid() {
		baseErr.AddErrorDetails(errors.NewErrorDetails(
			fmt.Sprintf("unknown ordering policy %q", c.OrderingPolicy), errors.ConfigurationError, "ordering_policy"))
	}

	switch c.Kind {
	case rulev1.KindTime, rulev1.KindAlignedTime:
		iv, err := interval.Parse(c.Interval)
		if err != nil {
			baseErr.AddErrorDetails(errors.NewErrorDetails(err.Error(), errors.ConfigurationError, "interval"))
			break
		}
		if c.Kind != rulev1.KindAlignedTime {
			break
		}
		// aligned windows live on the millisecond clock of the feed
		if iv.Duration%time.Millisecond != 0 {
			baseErr.AddErrorDetails(errors.NewErrorDetails(
				fmt.Sprintf("interval %s is not a whole number of milliseconds", iv.Duration),
				errors.ConfigurationError, "interval"))
		}
		if c.Origin.Nanosecond()%int(time.Millisecond) != 0 {
			baseErr.AddErrorDetails(errors.NewErrorDetails(
				fmt.Sprintf("origin %s is misaligned with the millisecond clock", c.Origin.Format(time.RFC3339Nano)),
				errors.ConfigurationError, "origin"))
		}
	case rulev1.KindVolume:
		if !c.VolumeThreshold.IsPositive() {
			baseErr.AddErrorDetails(errors.NewErrorDetails(
				fmt.Sprintf("volume threshold must be positive, got %s", c.VolumeThreshold),
				errors.ConfigurationError, "volume_threshold"))
		}
	}

	if !baseErr.HasDetails() {
		return nil
	}
	baseErr.PrependFields("rule.")
	return baseErr
}
