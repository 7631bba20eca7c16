package v1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is a read-only copy of a rule's open-bar accumulation.
type Snapshot struct {
	Kind Kind
	// Open is false right after construction, Reset or a Close.
	Open bool
	// Anchor is the opening timestamp of the bar (time rule) or its window start
	// (aligned rule). Zero for the volume rule.
	Anchor time.Time
	// Threshold is the timestamp at which the open bar closes (time rules).
	Threshold time.Time
	// Accumulated is the volume accounted to the open bar.
	Accumulated decimal.Decimal
	// Limit is the configured volume threshold (volume rule).
	Limit decimal.Decimal
	// Events counts the events that contributed to the open bar.
	Events int64
}
