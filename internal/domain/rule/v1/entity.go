package v1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is a single trade observation fed into a rule. Price is opaque to the rules;
// only the timestamp (time rules) and the volume (volume rule) drive decisions.
type Event struct {
	Timestamp time.Time       `json:"timestamp"`
	Symbol    string          `json:"symbol"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
	Side      string          `json:"side,omitempty"` // "buy" or "sell"
}

// Kind names a rule family.
type Kind string

const (
	// KindTime closes bars a fixed duration after their first event.
	KindTime Kind = "time"
	// KindAlignedTime closes bars on fixed clock boundaries measured from an origin.
	KindAlignedTime Kind = "aligned_time"
	// KindVolume closes bars once the traded volume reaches a threshold.
	KindVolume Kind = "volume"
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is one of the known rule kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindTime, KindAlignedTime, KindVolume:
		return true
	}
	return false
}

// OrderingPolicy decides what time based rules do with an event stamped before the
// anchor of the open bar.
type OrderingPolicy string

const (
	// OrderingReject returns an ordering_violation error and leaves the rule untouched.
	OrderingReject OrderingPolicy = "reject"
	// OrderingAccept keeps the late event in the currently open bar.
	OrderingAccept OrderingPolicy = "accept"
)

// IsValid reports whether p is a known policy.
func (p OrderingPolicy) IsValid() bool {
	return p == OrderingReject || p == OrderingAccept
}
