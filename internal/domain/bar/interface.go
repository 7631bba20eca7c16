package bar

import (
	"context"

	barv1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/bar/v1"
	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
)

//go:generate mockgen -source=interface.go -destination=mock/bar_mock.go -package=mock

// Usecase turns events into bars for one or more streams.
type Usecase interface {
	Push(ctx context.Context, event rulev1.Event) ([]*barv1.Bar, error)
	FlushAll(ctx context.Context) []*barv1.Bar
}
