package bar

import (
	"context"
	"sort"

	barv1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/bar/v1"
	"github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule"
	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/errors"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/logger"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/util"
)

// Router partitions events by symbol. Every symbol gets its own Builder and its own
// rule instance, so partitions never share bar state.
type Router struct {
	newRule  func() (rule.Rule, error)
	logger   logger.Interface
	opts     Options
	builders map[string]*Builder
}

// NewRouter creates a Router building one rule per symbol with newRule.
func NewRouter(newRule func() (rule.Rule, error), logger logger.Interface, opts Options) *Router {
	return &Router{
		newRule:  newRule,
		logger:   logger,
		opts:     opts,
		builders: make(map[string]*Builder),
	}
}

// Push routes event to the builder of its symbol.
func (r *Router) Push(ctx context.Context, event rulev1.Event) ([]*barv1.Bar, error) {
	ctx = util.WithStreamID(ctx, event.Symbol)

	builder, err := r.builder(ctx, event.Symbol)
	if err != nil {
		return nil, err
	}
	return builder.Push(ctx, event)
}

// FlushAll flushes every partition, in symbol order, and returns the partial bars.
func (r *Router) FlushAll(ctx context.Context) []*barv1.Bar {
	var bars []*barv1.Bar
	for _, symbol := range r.Symbols() {
		if bar := r.builders[symbol].Flush(util.WithStreamID(ctx, symbol)); bar != nil {
			bars = append(bars, bar)
		}
	}
	return bars
}

// Symbols returns the known partitions, sorted.
func (r *Router) Symbols() []string {
	symbols := make([]string, 0, len(r.builders))
	for symbol := range r.builders {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Builder returns the builder of symbol, if it exists.
func (r *Router) Builder(symbol string) (*Builder, bool) {
	b, ok := r.builders[symbol]
	return b, ok
}

func (r *Router) builder(ctx context.Context, symbol string) (*Builder, error) {
	if b, ok := r.builders[symbol]; ok {
		return b, nil
	}

	ru, err := r.newRule()
	if err != nil {
		r.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "create_rule"})
		return nil, errors.TracerFromError(err)
	}

	b := NewBuilder(symbol, ru, r.logger, r.opts)
	r.builders[symbol] = b

	r.logger.InfoContext(ctx, "new partition",
		logger.Field{Key: "symbol", Value: symbol},
		logger.Field{Key: "rule", Value: ru.Kind().String()},
	)
	return b, nil
}
