package rule

import (
	"testing"
	"time"

	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func at(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func sec(s int64) time.Time {
	return time.Unix(s, 0).UTC()
}

func newEvent(ts time.Time, volume string) rulev1.Event {
	return rulev1.Event{
		Timestamp: ts,
		Symbol:    "BTCUSDT",
		Price:     decimal.NewFromInt(10000),
		Volume:    decimal.RequireFromString(volume),
	}
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func kinds(decisions []rulev1.Decision) []rulev1.DecisionKind {
	out := make([]rulev1.DecisionKind, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, d.Kind)
	}
	return out
}
