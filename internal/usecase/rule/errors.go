package rule

import (
	"fmt"
	"time"

	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/errors"
)

// Sentinels for errors.Is. Every error returned by this package is an
// *errors.ErrorDetails carrying one of these codes.
var (
	ErrInvalidConfig     = errors.NewErrorDetails("invalid rule configuration", errors.ConfigurationError, "")
	ErrOrderingViolation = errors.NewErrorDetails("event timestamp is earlier than the open bar anchor", errors.OrderingViolation, "")
	ErrInvalidEvent      = errors.NewErrorDetails("invalid event", errors.InvalidEventError, "")
)

func configError(field, format string, args ...any) error {
	return errors.NewErrorDetails(fmt.Sprintf(format, args...), errors.ConfigurationError, field)
}

func validateEvent(event rulev1.Event) error {
	if event.Timestamp.IsZero() {
		return errors.NewErrorDetailsWithObject(
			"event timestamp is missing", errors.InvalidEventError, "timestamp", event)
	}
	if event.Volume.IsNegative() {
		return errors.NewErrorDetailsWithObject(
			fmt.Sprintf("event volume must not be negative, got %s", event.Volume),
			errors.InvalidEventError, "volume", event,
		)
	}
	return nil
}

func orderingViolation(event rulev1.Event, anchor time.Time) error {
	return errors.NewErrorDetailsWithObject(
		fmt.Sprintf("event at %s is earlier than bar anchor %s",
			event.Timestamp.Format(time.RFC3339Nano), anchor.Format(time.RFC3339Nano)),
		errors.OrderingViolation, "timestamp", event,
	)
}
