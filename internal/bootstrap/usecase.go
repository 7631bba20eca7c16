package bootstrap

import (
	barDomain "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/bar"
	barUc "github.com/muhammadchandra19/exchange/trade-aggregation/internal/usecase/bar"
	ruleUc "github.com/muhammadchandra19/exchange/trade-aggregation/internal/usecase/rule"
)

// Usecase holds the use cases of the pipeline.
type Usecase struct {
	RuleFactory ruleUc.Factory
	BarUsecase  barDomain.Usecase
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() {
	b.Usecase.RuleFactory = ruleUc.NewFactory(b.Config.Rule)
	b.Usecase.BarUsecase = barUc.NewRouter(b.Usecase.RuleFactory, b.Logger, barUc.Options{
		FillGaps:       b.Config.Builder.FillGaps,
		SkipOutOfOrder: b.Config.Builder.SkipOutOfOrder,
		MaxFillBars:    b.Config.Builder.MaxFillBars,
	})
}
