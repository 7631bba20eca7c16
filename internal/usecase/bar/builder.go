package bar

import (
	"context"
	"fmt"
	"time"

	barv1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/bar/v1"
	"github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule"
	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/errors"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/interval"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/logger"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/util"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Options holds driver policies that are not the rule's concern.
type Options struct {
	// FillGaps emits one empty bar, priced at the previous close, for every aligned
	// window a data gap skipped.
	FillGaps bool
	// SkipOutOfOrder logs and drops events the rule rejected for arriving before the
	// open bar's anchor, instead of returning the error.
	SkipOutOfOrder bool
	// MaxFillBars bounds the empty bars emitted for a single gap. Larger gaps are logged
	// and left unfilled. Zero means DefaultMaxFillBars.
	MaxFillBars int64
}

// DefaultMaxFillBars is the gap filling bound used when Options.MaxFillBars is zero.
const DefaultMaxFillBars int64 = 10000

// Builder owns the OHLCV accumulation of one stream and applies the decisions of its
// rule to it. It is not safe for concurrent use.
type Builder struct {
	symbol string
	rule   rule.Rule
	logger logger.Interface
	opts   Options

	current   *barv1.Bar
	lastClose decimal.Decimal
	hasClose  bool
}

// NewBuilder creates a Builder for symbol driven by r. r must not be shared.
func NewBuilder(symbol string, r rule.Rule, logger logger.Interface, opts Options) *Builder {
	if opts.MaxFillBars <= 0 {
		opts.MaxFillBars = DefaultMaxFillBars
	}
	return &Builder{
		symbol: symbol,
		rule:   r,
		logger: logger,
		opts:   opts,
	}
}

// Push feeds one event and returns the bars it completed, oldest first.
func (b *Builder) Push(ctx context.Context, event rulev1.Event) ([]*barv1.Bar, error) {
	decisions, err := b.rule.Evaluate(event)
	if err != nil {
		fields := []logger.Field{
			{Key: "action", Value: "evaluate_event"},
			{Key: "symbol", Value: b.symbol},
			{Key: "timestamp", Value: event.Timestamp.Format(time.RFC3339Nano)},
			{Key: "volume", Value: event.Volume.String()},
		}
		if b.opts.SkipOutOfOrder && errors.HasCode(err, errors.OrderingViolation) {
			b.logger.WarnContext(ctx, "skipping out of order event", fields...)
			return nil, nil
		}
		b.logger.ErrorContext(ctx, err, fields...)
		return nil, errors.TracerFromError(err)
	}

	var bars []*barv1.Bar
	for i, d := range decisions {
		last := i == len(decisions)-1

		switch d.Kind {
		case rulev1.Continue:
			b.openBar().Add(event.Timestamp, event.Price, d.Volume)
		case rulev1.Close:
			b.openBar().Add(event.Timestamp, event.Price, d.Volume)
			bars = append(bars, b.emit(ctx, interval.Window{}, false))
			b.rule.Reset()
		case rulev1.CloseAndCarry:
			b.openBar().Add(event.Timestamp, event.Price, d.Volume)
			bars = append(bars, b.emit(ctx, interval.Window{}, false))
			if last {
				b.openBar().Add(event.Timestamp, event.Price, d.Carry)
			}
		case rulev1.CloseAndOpen:
			if b.current != nil {
				bars = append(bars, b.emit(ctx, d.Window, false))
			}
			if b.opts.FillGaps {
				bars = append(bars, b.emptyBars(ctx, d.Window, d.Skipped)...)
			}
			b.openBar().Add(event.Timestamp, event.Price, d.Carry)
		default:
			err := errors.NewTracerf("unknown decision kind %s", d.Kind)
			b.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "apply_decision"})
			return bars, err
		}
	}

	return bars, nil
}

// Flush emits the open bar, if any, as a partial bar and resets the rule. Use it at end
// of stream or before a restart.
func (b *Builder) Flush(ctx context.Context) *barv1.Bar {
	if b.current == nil {
		b.rule.Reset()
		return nil
	}

	var window interval.Window
	if state := b.rule.CurrentState(); state.Kind == rulev1.KindAlignedTime && state.Open {
		window = interval.Window{Start: state.Anchor, End: state.Threshold}
	}

	bar := b.emit(ctx, window, true)
	b.rule.Reset()
	return bar
}

// Current returns a copy of the open bar (nil when none) and the rule snapshot.
func (b *Builder) Current() (*barv1.Bar, rulev1.Snapshot) {
	var current *barv1.Bar
	if b.current != nil {
		current = b.current.Copy()
	}
	return current, b.rule.CurrentState()
}

// Symbol returns the stream this builder aggregates.
func (b *Builder) Symbol() string {
	return b.symbol
}

func (b *Builder) openBar() *barv1.Bar {
	if b.current == nil {
		b.current = &barv1.Bar{
			Symbol: b.symbol,
			Rule:   b.rule.Kind().String(),
			Volume: decimal.Zero,
		}
	}
	return b.current
}

func (b *Builder) emit(ctx context.Context, window interval.Window, partial bool) *barv1.Bar {
	bar := b.current
	b.current = nil

	bar.ID = ulid.Make().String()
	bar.Partial = partial
	if !window.IsZero() {
		bar.WindowStart = util.TimePointer(window.Start)
		bar.WindowEnd = util.TimePointer(window.End)
	}

	b.lastClose = bar.Close
	b.hasClose = true

	b.logger.DebugContext(util.WithStreamID(ctx, b.symbol), "bar closed",
		logger.Field{Key: "id", Value: bar.ID},
		logger.Field{Key: "rule", Value: bar.Rule},
		logger.Field{Key: "open_time", Value: bar.OpenTime.Format(time.RFC3339Nano)},
		logger.Field{Key: "close_time", Value: bar.CloseTime.Format(time.RFC3339Nano)},
		logger.Field{Key: "volume", Value: bar.Volume.String()},
		logger.Field{Key: "trade_count", Value: bar.TradeCount},
		logger.Field{Key: "partial", Value: partial},
	)

	return bar
}

// emptyBars materializes the windows skipped between closed and the newly opened one.
func (b *Builder) emptyBars(ctx context.Context, closed interval.Window, skipped int64) []*barv1.Bar {
	if skipped <= 0 || !b.hasClose {
		return nil
	}
	if skipped > b.opts.MaxFillBars {
		b.logger.WarnContext(util.WithStreamID(ctx, b.symbol), "gap too large to fill",
			logger.Field{Key: "from", Value: closed.End.Format(time.RFC3339Nano)},
			logger.Field{Key: "skipped", Value: skipped},
			logger.Field{Key: "max_fill_bars", Value: b.opts.MaxFillBars},
		)
		return nil
	}

	step := closed.End.Sub(closed.Start)
	bars := make([]*barv1.Bar, 0, skipped)
	for k := int64(0); k < skipped; k++ {
		start := closed.End.Add(time.Duration(k) * step)
		end := start.Add(step)
		bars = append(bars, &barv1.Bar{
			ID:          ulid.Make().String(),
			Symbol:      b.symbol,
			Rule:        b.rule.Kind().String(),
			OpenTime:    start,
			CloseTime:   start,
			Open:        b.lastClose,
			High:        b.lastClose,
			Low:         b.lastClose,
			Close:       b.lastClose,
			Volume:      decimal.Zero,
			WindowStart: util.TimePointer(start),
			WindowEnd:   util.TimePointer(end),
			Empty:       true,
		})
	}

	b.logger.DebugContext(util.WithStreamID(ctx, b.symbol), "filled empty windows",
		logger.Field{Key: "from", Value: closed.End.Format(time.RFC3339Nano)},
		logger.Field{Key: "count", Value: skipped},
	)
	return bars
}

// String implements fmt.Stringer for debugging.
func (b *Builder) String() string {
	return fmt.Sprintf("Builder(%s, %s)", b.symbol, b.rule.Kind())
}
