package v1

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar represents one aggregated OHLCV bar.
type Bar struct {
	ID         string          `json:"id"`
	Symbol     string          `json:"symbol"`
	Rule       string          `json:"rule"`
	OpenTime   time.Time       `json:"open_time"`
	CloseTime  time.Time       `json:"close_time"`
	Open       decimal.Decimal `json:"open"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Close      decimal.Decimal `json:"close"`
	Volume     decimal.Decimal `json:"volume"`
	TradeCount int64           `json:"trade_count"`

	// WindowStart and WindowEnd are set for bars closed on an aligned window.
	WindowStart *time.Time `json:"window_start,omitempty"`
	WindowEnd   *time.Time `json:"window_end,omitempty"`

	// Partial marks a bar emitted by a forced flush rather than by the rule.
	Partial bool `json:"partial,omitempty"`
	// Empty marks a filler bar for an aligned window without trades.
	Empty bool `json:"empty,omitempty"`
}

// Add records one trade of volume at price.
func (b *Bar) Add(ts time.Time, price, volume decimal.Decimal) {
	if b.TradeCount == 0 {
		b.Open, b.High, b.Low = price, price, price
		b.OpenTime = ts
	}
	if price.GreaterThan(b.High) {
		b.High = price
	}
	if price.LessThan(b.Low) {
		b.Low = price
	}
	b.Close = price
	b.CloseTime = ts
	b.Volume = b.Volume.Add(volume)
	b.TradeCount++
}

// Copy returns a shallow copy that does not share the window pointers.
func (b *Bar) Copy() *Bar {
	c := *b
	if b.WindowStart != nil {
		start := *b.WindowStart
		c.WindowStart = &start
	}
	if b.WindowEnd != nil {
		end := *b.WindowEnd
		c.WindowEnd = &end
	}
	return &c
}
