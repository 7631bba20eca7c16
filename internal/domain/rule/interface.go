package rule

import (
	v1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/rule_mock.go -package=mock

// Rule decides where one bar ends and the next begins. Implementations are stateful
// and not safe for concurrent use: each instance aggregates exactly one stream.
type Rule interface {
	// Evaluate consumes one event and returns, in order, the decisions the driver has to
	// apply. On error the rule state is left unchanged.
	Evaluate(event v1.Event) ([]v1.Decision, error)
	// Reset discards any open-bar state. Calling it repeatedly is harmless.
	Reset()
	// CurrentState returns a snapshot of the open bar without mutating the rule.
	CurrentState() v1.Snapshot
	// Kind returns the rule family.
	Kind() v1.Kind
}
