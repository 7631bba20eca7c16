package rule

import (
	"time"

	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/interval"
	"github.com/shopspring/decimal"
)

// AlignedTimeRule closes bars on the boundaries origin + k*D. Bar edges depend on the
// event timestamps only, so two instances fed the same stream agree on every edge no
// matter when each of them started.
//
// An event at or after the open window's end closes that window without contributing
// to it and opens the window it falls into. When whole windows were skipped, only the
// closed window is reported, with the number of skipped windows alongside.
type AlignedTimeRule struct {
	interval interval.Interval
	origin   time.Time
	policy   rulev1.OrderingPolicy

	open        bool
	window      interval.Window
	accumulated decimal.Decimal
	events      int64
}

// NewAlignedTimeRule creates an AlignedTimeRule for duration d. Windows are expressed on
// a millisecond clock: d and the origin must both be whole milliseconds.
func NewAlignedTimeRule(d time.Duration, opts ...Option) (*AlignedTimeRule, error) {
	if d <= 0 {
		return nil, configError("duration", "duration must be positive, got %s", d)
	}
	if d%time.Millisecond != 0 {
		return nil, configError("duration", "duration %s is not a whole number of milliseconds", d)
	}

	o := applyOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.origin.Nanosecond()%int(time.Millisecond) != 0 {
		return nil, configError("origin", "origin %s is misaligned with the millisecond clock", o.origin.Format(time.RFC3339Nano))
	}

	r := &AlignedTimeRule{
		interval: interval.FromDuration(d),
		origin:   o.origin,
		policy:   o.policy,
	}
	r.Reset()
	return r, nil
}

// Interval returns the configured interval.
func (r *AlignedTimeRule) Interval() interval.Interval {
	return r.interval
}

// Origin returns the alignment origin.
func (r *AlignedTimeRule) Origin() time.Time {
	return r.origin
}

// WindowOf returns the aligned window t belongs to. It does not touch rule state.
func (r *AlignedTimeRule) WindowOf(t time.Time) interval.Window {
	return r.interval.GetWindow(t, r.origin)
}

// Kind implements rule.Rule.
func (r *AlignedTimeRule) Kind() rulev1.Kind {
	return rulev1.KindAlignedTime
}

// Evaluate implements rule.Rule.
func (r *AlignedTimeRule) Evaluate(event rulev1.Event) ([]rulev1.Decision, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	if !r.open {
		r.openAt(event)
		return []rulev1.Decision{rulev1.NewContinue(event.Volume)}, nil
	}

	if event.Timestamp.Before(r.window.Start) {
		if r.policy == rulev1.OrderingReject {
			return nil, orderingViolation(event, r.window.Start)
		}
		r.add(event)
		return []rulev1.Decision{rulev1.NewContinue(event.Volume)}, nil
	}

	if event.Timestamp.Before(r.window.End) {
		r.add(event)
		return []rulev1.Decision{rulev1.NewContinue(event.Volume)}, nil
	}

	closed := r.window
	skipped := r.interval.WindowsBetween(closed.Start, event.Timestamp, r.origin)
	r.openAt(event)

	return []rulev1.Decision{rulev1.NewCloseAndOpen(closed, skipped, event.Volume)}, nil
}

func (r *AlignedTimeRule) openAt(event rulev1.Event) {
	r.open = true
	r.window = r.WindowOf(event.Timestamp)
	r.accumulated = decimal.Zero
	r.events = 0
	r.add(event)
}

func (r *AlignedTimeRule) add(event rulev1.Event) {
	r.accumulated = r.accumulated.Add(event.Volume)
	r.events++
}

// Reset implements rule.Rule.
func (r *AlignedTimeRule) Reset() {
	r.open = false
	r.window = interval.Window{}
	r.accumulated = decimal.Zero
	r.events = 0
}

// CurrentState implements rule.Rule.
func (r *AlignedTimeRule) CurrentState() rulev1.Snapshot {
	return rulev1.Snapshot{
		Kind:        rulev1.KindAlignedTime,
		Open:        r.open,
		Anchor:      r.window.Start,
		Threshold:   r.window.End,
		Accumulated: r.accumulated,
		Events:      r.events,
	}
}
