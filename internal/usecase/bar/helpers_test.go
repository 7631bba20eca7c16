package bar

import (
	"testing"
	"time"

	barv1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/bar/v1"
	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func at(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func trade(symbol string, ms int64, price, volume string) rulev1.Event {
	return rulev1.Event{
		Timestamp: at(ms),
		Symbol:    symbol,
		Price:     dec(price),
		Volume:    dec(volume),
		Side:      "buy",
	}
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func totalVolume(bars []*barv1.Bar) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bars {
		total = total.Add(b.Volume)
	}
	return total
}
