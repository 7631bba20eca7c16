package rule

import (
	"time"

	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/interval"
)

// Option configures a rule at construction time.
type Option func(*options)

type options struct {
	policy rulev1.OrderingPolicy
	origin time.Time
}

func defaultOptions() options {
	return options{
		policy: rulev1.OrderingReject,
		origin: interval.Epoch,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithOrderingPolicy sets how time based rules treat events stamped before the open
// bar's anchor. The volume rule ignores it.
func WithOrderingPolicy(policy rulev1.OrderingPolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithOrigin sets the alignment origin of an AlignedTimeRule. A zero origin keeps the
// Unix epoch.
func WithOrigin(origin time.Time) Option {
	return func(o *options) {
		if !origin.IsZero() {
			o.origin = origin
		}
	}
}

func (o options) validate() error {
	if !o.policy.IsValid() {
		return configError("ordering_policy", "unknown ordering policy %q", o.policy)
	}
	return nil
}
