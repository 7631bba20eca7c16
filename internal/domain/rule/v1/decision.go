package v1

import (
	"fmt"

	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/interval"
	"github.com/shopspring/decimal"
)

// DecisionKind tells the driver what to do with the open bar for one step of an event.
type DecisionKind int

const (
	// Continue: the event's Volume belongs to the open bar, which stays open.
	Continue DecisionKind = iota
	// Close: the event's Volume belongs to the open bar, which closes after it.
	Close
	// CloseAndCarry: Volume closes the open bar and Carry opens the next one with the
	// same event's price and timestamp.
	CloseAndCarry
	// CloseAndOpen: the open bar closes with no contribution from the event; the whole
	// event (Carry) opens the next bar.
	CloseAndOpen
)

var decisionKindNames = map[DecisionKind]string{
	Continue:      "continue",
	Close:         "close",
	CloseAndCarry: "close_and_carry",
	CloseAndOpen:  "close_and_open",
}

// String implements fmt.Stringer.
func (k DecisionKind) String() string {
	if name, ok := decisionKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("decision_kind(%d)", int(k))
}

// Decision is the outcome of one step of Rule.Evaluate. A single event yields one
// decision, except for a volume split that overshoots the threshold several times.
type Decision struct {
	Kind DecisionKind
	// Volume is the part of the event that belongs to the bar this decision is about.
	Volume decimal.Decimal
	// Carry is the part of the event that is not accounted for in that bar.
	Carry decimal.Decimal
	// Window is the aligned window of the bar being closed (aligned rule only).
	Window interval.Window
	// Skipped counts the wholly empty aligned windows between the closed bar and the
	// window the event opened.
	Skipped int64
}

// Closes reports whether the decision finalizes the open bar.
func (d Decision) Closes() bool {
	return d.Kind != Continue
}

// NewContinue returns a Continue decision for vol.
func NewContinue(vol decimal.Decimal) Decision {
	return Decision{Kind: Continue, Volume: vol}
}

// NewClose returns a Close decision for vol.
func NewClose(vol decimal.Decimal) Decision {
	return Decision{Kind: Close, Volume: vol}
}

// NewCloseAndCarry returns a split decision.
func NewCloseAndCarry(vol, carry decimal.Decimal) Decision {
	return Decision{Kind: CloseAndCarry, Volume: vol, Carry: carry}
}

// NewCloseAndOpen returns a boundary crossing decision for an aligned window.
func NewCloseAndOpen(closed interval.Window, skipped int64, carry decimal.Decimal) Decision {
	return Decision{Kind: CloseAndOpen, Window: closed, Skipped: skipped, Carry: carry}
}
