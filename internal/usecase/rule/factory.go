package rule

import (
	"github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule"
	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/config"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/interval"
)

// New builds the rule described by cfg. Each call returns an independent instance.
func New(cfg config.RuleConfig) (rule.Rule, error) {
	opts := []Option{WithOrderingPolicy(cfg.OrderingPolicy)}

	switch cfg.Kind {
	case rulev1.KindTime:
		iv, err := interval.Parse(cfg.Interval)
		if err != nil {
			return nil, configError("interval", "%s", err.Error())
		}
		r, err := NewTimeRule(iv.Duration, opts...)
		if err != nil {
			return nil, err
		}
		return r, nil
	case rulev1.KindAlignedTime:
		iv, err := interval.Parse(cfg.Interval)
		if err != nil {
			return nil, configError("interval", "%s", err.Error())
		}
		r, err := NewAlignedTimeRule(iv.Duration, append(opts, WithOrigin(cfg.Origin))...)
		if err != nil {
			return nil, err
		}
		return r, nil
	case rulev1.KindVolume:
		r, err := NewVolumeRule(cfg.VolumeThreshold, opts...)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, configError("kind", "unknown rule kind %q", cfg.Kind)
	}
}

// Factory creates a fresh rule per call.
type Factory func() (rule.Rule, error)

// NewFactory returns a Factory for cfg, used by drivers that keep one rule per partition.
func NewFactory(cfg config.RuleConfig) Factory {
	return func() (rule.Rule, error) {
		return New(cfg)
	}
}
