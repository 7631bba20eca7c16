package bar

import (
	"context"
	"testing"
	"time"

	barv1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/bar/v1"
	ruleMock "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/mock"
	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	ruleUc "github.com/muhammadchandra19/exchange/trade-aggregation/internal/usecase/rule"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/errors"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/interval"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/logger"
	loggerMock "github.com/muhammadchandra19/exchange/trade-aggregation/pkg/logger/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBuilder_Push(t *testing.T) {
	testCases := []struct {
		name     string
		kind     rulev1.Kind
		opts     Options
		events   []rulev1.Event
		mockFn   func(r *ruleMock.MockRule, l *loggerMock.MockInterface)
		assertFn func(t *testing.T, b *Builder, bars []*barv1.Bar, err error)
	}{
		{
			name: "continue accumulates into the open bar",
			kind: rulev1.KindVolume,
			events: []rulev1.Event{
				trade("BTCUSDT", 0, "100", "1"),
				trade("BTCUSDT", 10, "105", "2"),
			},
			mockFn: func(r *ruleMock.MockRule, l *loggerMock.MockInterface) {
				gomock.InOrder(
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewContinue(dec("1"))}, nil),
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewContinue(dec("2"))}, nil),
				)
				r.EXPECT().CurrentState().Return(rulev1.Snapshot{Kind: rulev1.KindVolume, Open: true})
			},
			assertFn: func(t *testing.T, b *Builder, bars []*barv1.Bar, err error) {
				require.NoError(t, err)
				assert.Empty(t, bars)

				current, state := b.Current()
				require.NotNil(t, current)
				assert.True(t, state.Open)
				assertDecimal(t, "3", current.Volume)
				assert.Equal(t, int64(2), current.TradeCount)
				assert.Equal(t, at(0), current.OpenTime)
				assert.Equal(t, at(10), current.CloseTime)
			},
		},
		{
			name: "close emits the bar and resets the rule",
			kind: rulev1.KindTime,
			events: []rulev1.Event{
				trade("BTCUSDT", 0, "100", "1"),
				trade("BTCUSDT", 20, "90", "1"),
				trade("BTCUSDT", 60000, "110", "2"),
			},
			mockFn: func(r *ruleMock.MockRule, l *loggerMock.MockInterface) {
				gomock.InOrder(
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewContinue(dec("1"))}, nil),
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewContinue(dec("1"))}, nil),
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewClose(dec("2"))}, nil),
				)
				r.EXPECT().Reset().Times(1)
			},
			assertFn: func(t *testing.T, b *Builder, bars []*barv1.Bar, err error) {
				require.NoError(t, err)
				require.Len(t, bars, 1)

				bar := bars[0]
				assert.NotEmpty(t, bar.ID)
				assert.Equal(t, "BTCUSDT", bar.Symbol)
				assert.Equal(t, "time", bar.Rule)
				assertDecimal(t, "100", bar.Open)
				assertDecimal(t, "110", bar.High)
				assertDecimal(t, "90", bar.Low)
				assertDecimal(t, "110", bar.Close)
				assertDecimal(t, "4", bar.Volume)
				assert.Equal(t, int64(3), bar.TradeCount)
				assert.Equal(t, at(0), bar.OpenTime)
				assert.Equal(t, at(60000), bar.CloseTime)
				assert.Nil(t, bar.WindowStart)
				assert.False(t, bar.Partial)

				current, _ := b.Current()
				assert.Nil(t, current)
			},
		},
		{
			name: "split emits zero duration bars from one event",
			kind: rulev1.KindVolume,
			events: []rulev1.Event{
				trade("BTCUSDT", 0, "100", "5"),
				trade("BTCUSDT", 10, "101", "25"),
			},
			mockFn: func(r *ruleMock.MockRule, l *loggerMock.MockInterface) {
				gomock.InOrder(
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewContinue(dec("5"))}, nil),
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{
						rulev1.NewCloseAndCarry(dec("5"), dec("20")),
						rulev1.NewCloseAndCarry(dec("10"), dec("10")),
						rulev1.NewClose(dec("10")),
					}, nil),
				)
				r.EXPECT().Reset().Times(1)
			},
			assertFn: func(t *testing.T, b *Builder, bars []*barv1.Bar, err error) {
				require.NoError(t, err)
				require.Len(t, bars, 3)

				assertDecimal(t, "10", bars[0].Volume)
				assert.Equal(t, int64(2), bars[0].TradeCount)
				assertDecimal(t, "100", bars[0].Open)
				assertDecimal(t, "101", bars[0].Close)

				for _, bar := range bars[1:] {
					assertDecimal(t, "10", bar.Volume)
					assert.Equal(t, int64(1), bar.TradeCount)
					assert.Equal(t, at(10), bar.OpenTime)
					assert.Equal(t, bar.OpenTime, bar.CloseTime)
				}
				assert.NotEqual(t, bars[1].ID, bars[2].ID)

				current, _ := b.Current()
				assert.Nil(t, current)
			},
		},
		{
			name: "carry opens the next bar",
			kind: rulev1.KindVolume,
			events: []rulev1.Event{
				trade("BTCUSDT", 0, "100", "8"),
				trade("BTCUSDT", 10, "102", "5"),
			},
			mockFn: func(r *ruleMock.MockRule, l *loggerMock.MockInterface) {
				gomock.InOrder(
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewContinue(dec("8"))}, nil),
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{
						rulev1.NewCloseAndCarry(dec("2"), dec("3")),
					}, nil),
				)
				r.EXPECT().CurrentState().Return(rulev1.Snapshot{Kind: rulev1.KindVolume, Open: true})
			},
			assertFn: func(t *testing.T, b *Builder, bars []*barv1.Bar, err error) {
				require.NoError(t, err)
				require.Len(t, bars, 1)
				assertDecimal(t, "10", bars[0].Volume)

				current, _ := b.Current()
				require.NotNil(t, current)
				assertDecimal(t, "3", current.Volume)
				assertDecimal(t, "102", current.Open)
				assert.Equal(t, int64(1), current.TradeCount)
				assert.Equal(t, at(10), current.OpenTime)
			},
		},
		{
			name: "close and open fills skipped windows",
			kind: rulev1.KindAlignedTime,
			opts: Options{FillGaps: true},
			events: []rulev1.Event{
				trade("BTCUSDT", 100, "100", "1"),
				trade("BTCUSDT", 3500, "120", "2"),
			},
			mockFn: func(r *ruleMock.MockRule, l *loggerMock.MockInterface) {
				gomock.InOrder(
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewContinue(dec("1"))}, nil),
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{
						rulev1.NewCloseAndOpen(interval.Window{Start: at(0), End: at(1000)}, 2, dec("2")),
					}, nil),
				)
			},
			assertFn: func(t *testing.T, b *Builder, bars []*barv1.Bar, err error) {
				require.NoError(t, err)
				require.Len(t, bars, 3)

				closed := bars[0]
				assertDecimal(t, "1", closed.Volume)
				require.NotNil(t, closed.WindowStart)
				assert.Equal(t, at(0), *closed.WindowStart)
				assert.Equal(t, at(1000), *closed.WindowEnd)
				assert.False(t, closed.Empty)

				for i, bar := range bars[1:] {
					start := at(int64(1000 * (i + 1)))
					assert.True(t, bar.Empty)
					assert.Equal(t, "aligned_time", bar.Rule)
					assertDecimal(t, "0", bar.Volume)
					assertDecimal(t, "100", bar.Open)
					assertDecimal(t, "100", bar.Close)
					assert.Equal(t, int64(0), bar.TradeCount)
					assert.Equal(t, start, *bar.WindowStart)
					assert.Equal(t, start.Add(time.Second), *bar.WindowEnd)
				}
			},
		},
		{
			name: "close and open without gap filling",
			kind: rulev1.KindAlignedTime,
			events: []rulev1.Event{
				trade("BTCUSDT", 100, "100", "1"),
				trade("BTCUSDT", 3500, "120", "2"),
			},
			mockFn: func(r *ruleMock.MockRule, l *loggerMock.MockInterface) {
				gomock.InOrder(
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewContinue(dec("1"))}, nil),
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{
						rulev1.NewCloseAndOpen(interval.Window{Start: at(0), End: at(1000)}, 2, dec("2")),
					}, nil),
				)
				r.EXPECT().CurrentState().Return(rulev1.Snapshot{Kind: rulev1.KindAlignedTime, Open: true})
			},
			assertFn: func(t *testing.T, b *Builder, bars []*barv1.Bar, err error) {
				require.NoError(t, err)
				require.Len(t, bars, 1)
				assertDecimal(t, "1", bars[0].Volume)

				current, _ := b.Current()
				require.NotNil(t, current)
				assertDecimal(t, "2", current.Volume)
				assertDecimal(t, "120", current.Open)
				assert.Equal(t, at(3500), current.OpenTime)
			},
		},
		{
			name: "gap above the fill bound is left unfilled",
			kind: rulev1.KindAlignedTime,
			opts: Options{FillGaps: true, MaxFillBars: 3},
			events: []rulev1.Event{
				trade("BTCUSDT", 100, "100", "1"),
				trade("BTCUSDT", 10500, "120", "2"),
			},
			mockFn: func(r *ruleMock.MockRule, l *loggerMock.MockInterface) {
				gomock.InOrder(
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewContinue(dec("1"))}, nil),
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{
						rulev1.NewCloseAndOpen(interval.Window{Start: at(0), End: at(1000)}, 9, dec("2")),
					}, nil),
				)
				l.EXPECT().WarnContext(gomock.Any(), "gap too large to fill", gomock.Any()).Times(1)
			},
			assertFn: func(t *testing.T, b *Builder, bars []*barv1.Bar, err error) {
				require.NoError(t, err)
				require.Len(t, bars, 1)
				assert.False(t, bars[0].Empty)
				assertDecimal(t, "1", bars[0].Volume)
			},
		},
		{
			name: "gap at the fill bound is filled",
			kind: rulev1.KindAlignedTime,
			opts: Options{FillGaps: true, MaxFillBars: 3},
			events: []rulev1.Event{
				trade("BTCUSDT", 100, "100", "1"),
				trade("BTCUSDT", 4500, "120", "2"),
			},
			mockFn: func(r *ruleMock.MockRule, l *loggerMock.MockInterface) {
				gomock.InOrder(
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewContinue(dec("1"))}, nil),
					r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{
						rulev1.NewCloseAndOpen(interval.Window{Start: at(0), End: at(1000)}, 3, dec("2")),
					}, nil),
				)
			},
			assertFn: func(t *testing.T, b *Builder, bars []*barv1.Bar, err error) {
				require.NoError(t, err)
				require.Len(t, bars, 4)
				for _, bar := range bars[1:] {
					assert.True(t, bar.Empty)
				}
			},
		},
		{
			name: "evaluate error is returned",
			kind: rulev1.KindTime,
			events: []rulev1.Event{
				trade("BTCUSDT", 0, "100", "1"),
			},
			mockFn: func(r *ruleMock.MockRule, l *loggerMock.MockInterface) {
				r.EXPECT().Evaluate(gomock.Any()).
					Return(nil, errors.NewErrorDetails("too early", errors.OrderingViolation, "timestamp"))
				l.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)
			},
			assertFn: func(t *testing.T, b *Builder, bars []*barv1.Bar, err error) {
				require.Error(t, err)
				assert.Empty(t, bars)
				assert.True(t, errors.HasCode(err, errors.OrderingViolation))
			},
		},
		{
			name: "out of order event is skipped",
			kind: rulev1.KindTime,
			opts: Options{SkipOutOfOrder: true},
			events: []rulev1.Event{
				trade("BTCUSDT", 0, "100", "1"),
			},
			mockFn: func(r *ruleMock.MockRule, l *loggerMock.MockInterface) {
				r.EXPECT().Evaluate(gomock.Any()).
					Return(nil, errors.NewErrorDetails("too early", errors.OrderingViolation, "timestamp"))
				l.EXPECT().WarnContext(gomock.Any(), "skipping out of order event", gomock.Any()).Times(1)
			},
			assertFn: func(t *testing.T, b *Builder, bars []*barv1.Bar, err error) {
				assert.NoError(t, err)
				assert.Empty(t, bars)
			},
		},
		{
			name: "invalid event is not skipped",
			kind: rulev1.KindTime,
			opts: Options{SkipOutOfOrder: true},
			events: []rulev1.Event{
				trade("BTCUSDT", 0, "100", "1"),
			},
			mockFn: func(r *ruleMock.MockRule, l *loggerMock.MockInterface) {
				r.EXPECT().Evaluate(gomock.Any()).
					Return(nil, errors.NewErrorDetails("negative volume", errors.InvalidEventError, "volume"))
				l.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)
			},
			assertFn: func(t *testing.T, b *Builder, bars []*barv1.Bar, err error) {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.InvalidEventError))
			},
		},
		{
			name: "unknown decision kind",
			kind: rulev1.KindTime,
			events: []rulev1.Event{
				trade("BTCUSDT", 0, "100", "1"),
			},
			mockFn: func(r *ruleMock.MockRule, l *loggerMock.MockInterface) {
				r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{{Kind: rulev1.DecisionKind(42)}}, nil)
				l.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)
			},
			assertFn: func(t *testing.T, b *Builder, bars []*barv1.Bar, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "decision_kind(42)")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			r := ruleMock.NewMockRule(ctrl)
			l := loggerMock.NewMockInterface(ctrl)
			r.EXPECT().Kind().Return(tc.kind).AnyTimes()
			l.EXPECT().DebugContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
			tc.mockFn(r, l)

			b := NewBuilder("BTCUSDT", r, l, tc.opts)

			var (
				bars []*barv1.Bar
				err  error
			)
			for _, event := range tc.events {
				var out []*barv1.Bar
				out, err = b.Push(context.Background(), event)
				bars = append(bars, out...)
				if err != nil {
					break
				}
			}

			tc.assertFn(t, b, bars, err)
		})
	}
}

func TestBuilder_Flush(t *testing.T) {
	testCases := []struct {
		name     string
		kind     rulev1.Kind
		events   []rulev1.Event
		mockFn   func(r *ruleMock.MockRule)
		assertFn func(t *testing.T, bar *barv1.Bar)
	}{
		{
			name: "nothing open",
			kind: rulev1.KindVolume,
			mockFn: func(r *ruleMock.MockRule) {
				r.EXPECT().Reset().Times(1)
			},
			assertFn: func(t *testing.T, bar *barv1.Bar) {
				assert.Nil(t, bar)
			},
		},
		{
			name: "partial volume bar",
			kind: rulev1.KindVolume,
			events: []rulev1.Event{
				trade("BTCUSDT", 0, "100", "4"),
			},
			mockFn: func(r *ruleMock.MockRule) {
				r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewContinue(dec("4"))}, nil)
				r.EXPECT().CurrentState().Return(rulev1.Snapshot{Kind: rulev1.KindVolume, Open: true})
				r.EXPECT().Reset().Times(1)
			},
			assertFn: func(t *testing.T, bar *barv1.Bar) {
				require.NotNil(t, bar)
				assert.True(t, bar.Partial)
				assertDecimal(t, "4", bar.Volume)
				assert.Nil(t, bar.WindowStart)
			},
		},
		{
			name: "partial aligned bar keeps its window",
			kind: rulev1.KindAlignedTime,
			events: []rulev1.Event{
				trade("BTCUSDT", 1500, "100", "4"),
			},
			mockFn: func(r *ruleMock.MockRule) {
				r.EXPECT().Evaluate(gomock.Any()).Return([]rulev1.Decision{rulev1.NewContinue(dec("4"))}, nil)
				r.EXPECT().CurrentState().Return(rulev1.Snapshot{
					Kind:      rulev1.KindAlignedTime,
					Open:      true,
					Anchor:    at(1000),
					Threshold: at(2000),
				})
				r.EXPECT().Reset().Times(1)
			},
			assertFn: func(t *testing.T, bar *barv1.Bar) {
				require.NotNil(t, bar)
				assert.True(t, bar.Partial)
				require.NotNil(t, bar.WindowStart)
				assert.Equal(t, at(1000), *bar.WindowStart)
				assert.Equal(t, at(2000), *bar.WindowEnd)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			r := ruleMock.NewMockRule(ctrl)
			r.EXPECT().Kind().Return(tc.kind).AnyTimes()
			tc.mockFn(r)

			b := NewBuilder("BTCUSDT", r, logger.NewNop(), Options{})
			for _, event := range tc.events {
				_, err := b.Push(context.Background(), event)
				require.NoError(t, err)
			}

			bar := b.Flush(context.Background())
			tc.assertFn(t, bar)

			current, _ := b.Current()
			assert.Nil(t, current)
		})
	}
}

func TestBuilder_VolumeRuleConservesVolume(t *testing.T) {
	r, err := ruleUc.NewVolumeRule(dec("10"))
	require.NoError(t, err)

	b := NewBuilder("ETHUSDT", r, logger.NewNop(), Options{})
	events := []rulev1.Event{
		trade("ETHUSDT", 0, "2000", "3"),
		trade("ETHUSDT", 1, "2001", "4.5"),
		trade("ETHUSDT", 2, "1999", "27.25"),
		trade("ETHUSDT", 3, "2002", "0"),
		trade("ETHUSDT", 4, "2003", "5.25"),
		trade("ETHUSDT", 5, "2004", "2.5"),
	}

	var bars []*barv1.Bar
	for _, event := range events {
		out, err := b.Push(context.Background(), event)
		require.NoError(t, err)
		bars = append(bars, out...)
	}

	require.Len(t, bars, 4)
	for _, bar := range bars {
		assertDecimal(t, "10", bar.Volume)
	}

	last := b.Flush(context.Background())
	require.NotNil(t, last)
	assertDecimal(t, "2.5", last.Volume)
	assert.True(t, last.Partial)

	bars = append(bars, last)
	assertDecimal(t, "42.5", totalVolume(bars))
}

func TestBuilder_TimeRuleEndToEnd(t *testing.T) {
	r, err := ruleUc.NewTimeRule(time.Second)
	require.NoError(t, err)

	b := NewBuilder("BTCUSDT", r, logger.NewNop(), Options{})

	var bars []*barv1.Bar
	for _, event := range []rulev1.Event{
		trade("BTCUSDT", 0, "100", "1"),
		trade("BTCUSDT", 500, "101", "1"),
		trade("BTCUSDT", 1000, "102", "1"),
		trade("BTCUSDT", 1200, "103", "1"),
	} {
		out, err := b.Push(context.Background(), event)
		require.NoError(t, err)
		bars = append(bars, out...)
	}

	require.Len(t, bars, 1)
	assertDecimal(t, "3", bars[0].Volume)
	assert.Equal(t, at(1000), bars[0].CloseTime)

	current, state := b.Current()
	require.NotNil(t, current)
	assert.True(t, state.Open)
	assert.Equal(t, at(1200), state.Anchor)
	assertDecimal(t, "1", current.Volume)
}
