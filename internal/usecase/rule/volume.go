package rule

import (
	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	"github.com/shopspring/decimal"
)

// VolumeRule closes a bar as soon as its traded volume reaches the threshold V. An event
// that overshoots is split: the part that fills the bar up to exactly V closes it and
// the leftover opens the next bar. A leftover of V or more is split again within the
// same Evaluate call, so every closed bar holds exactly V.
//
// Timestamps play no part in the decision, so out-of-order events are accepted.
type VolumeRule struct {
	threshold decimal.Decimal

	accumulated decimal.Decimal
	events      int64
}

// NewVolumeRule creates a VolumeRule for threshold v.
func NewVolumeRule(v decimal.Decimal, opts ...Option) (*VolumeRule, error) {
	if !v.IsPositive() {
		return nil, configError("threshold", "volume threshold must be positive, got %s", v)
	}
	if err := applyOptions(opts).validate(); err != nil {
		return nil, err
	}

	r := &VolumeRule{threshold: v}
	r.Reset()
	return r, nil
}

// Threshold returns V.
func (r *VolumeRule) Threshold() decimal.Decimal {
	return r.threshold
}

// Kind implements rule.Rule.
func (r *VolumeRule) Kind() rulev1.Kind {
	return rulev1.KindVolume
}

// Evaluate implements rule.Rule.
func (r *VolumeRule) Evaluate(event rulev1.Event) ([]rulev1.Decision, error) {
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	volume := event.Volume
	remaining := r.threshold.Sub(r.accumulated)

	switch volume.Cmp(remaining) {
	case -1:
		r.accumulated = r.accumulated.Add(volume)
		r.events++
		return []rulev1.Decision{rulev1.NewContinue(volume)}, nil
	case 0:
		r.Reset()
		return []rulev1.Decision{rulev1.NewClose(volume)}, nil
	}

	take := remaining
	carry := volume.Sub(remaining)
	decisions := make([]rulev1.Decision, 0, 2)

	for carry.GreaterThanOrEqual(r.threshold) {
		decisions = append(decisions, rulev1.NewCloseAndCarry(take, carry))
		take = r.threshold
		carry = carry.Sub(r.threshold)
	}

	if carry.IsZero() {
		r.Reset()
		return append(decisions, rulev1.NewClose(take)), nil
	}

	r.accumulated = carry
	r.events = 1
	return append(decisions, rulev1.NewCloseAndCarry(take, carry)), nil
}

// Reset implements rule.Rule.
func (r *VolumeRule) Reset() {
	r.accumulated = decimal.Zero
	r.events = 0
}

// CurrentState implements rule.Rule.
func (r *VolumeRule) CurrentState() rulev1.Snapshot {
	return rulev1.Snapshot{
		Kind:        rulev1.KindVolume,
		Open:        r.events > 0,
		Accumulated: r.accumulated,
		Limit:       r.threshold,
		Events:      r.events,
	}
}
