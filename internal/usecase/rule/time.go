package rule

import (
	"time"

	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	"github.com/shopspring/decimal"
)

// TimeRule closes a bar once D has elapsed since the bar's first event. The event that
// reaches anchor+D is part of the bar it closes.
type TimeRule struct {
	duration time.Duration
	policy   rulev1.OrderingPolicy

	open        bool
	anchor      time.Time
	accumulated decimal.Decimal
	events      int64
}

// NewTimeRule creates a TimeRule for duration d.
func NewTimeRule(d time.Duration, opts ...Option) (*TimeRule, error) {
	if d <= 0 {
		return nil, configError("duration", "duration must be positive, got %s", d)
	}
	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}

	r := &TimeRule{duration: d, policy: o.policy}
	r.Reset()
	return r, nil
}

// Duration returns the configured bar duration.
func (r *TimeRule) Duration() time.Duration {
	return r.duration
}

// Kind implements rule.Rule.
func (r *TimeRule) Kind() rulev1.Kind {
	return rulev1.KindTime
}

// Evaluate implements rule.Rule.
func (r *TimeRule) Evaluate(event rulev1.Event) ([]rulev1.Decision, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if !r.open {
		r.open = true
		r.anchor = event.Timestamp
		r.add(event)
		return []rulev1.Decision{rulev1.NewContinue(event.Volume)}, nil
	}

	if event.Timestamp.Before(r.anchor) {
		if r.policy == rulev1.OrderingReject {
			return nil, orderingViolation(event, r.anchor)
		}
		r.add(event)
		return []rulev1.Decision{rulev1.NewContinue(event.Volume)}, nil
	}

	if event.Timestamp.Sub(r.anchor) >= r.duration {
		r.Reset()
		return []rulev1.Decision{rulev1.NewClose(event.Volume)}, nil
	}

	r.add(event)
	return []rulev1.Decision{rulev1.NewContinue(event.Volume)}, nil
}

func (r *TimeRule) add(event rulev1.Event) {
	r.accumulated = r.accumulated.Add(event.Volume)
	r.events++
}

// Reset implements rule.Rule.
func (r *TimeRule) Reset() {
	r.open = false
	r.anchor = time.Time{}
	r.accumulated = decimal.Zero
	r.events = 0
}

// CurrentState implements rule.Rule.
func (r *TimeRule) CurrentState() rulev1.Snapshot {
	s := rulev1.Snapshot{
		Kind:        rulev1.KindTime,
		Open:        r.open,
		Accumulated: r.accumulated,
		Events:      r.events,
	}
	if r.open {
		s.Anchor = r.anchor
		s.Threshold = r.anchor.Add(r.duration)
	}
	return s
}
