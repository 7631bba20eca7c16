package replay

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	barDomain "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/bar"
	barv1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/bar/v1"
	rulev1 "github.com/muhammadchandra19/exchange/trade-aggregation/internal/domain/rule/v1"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/errors"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/logger"
	"github.com/segmentio/encoding/json"
	"golang.org/x/sync/errgroup"
)

const (
	eventBufferSize = 256
	maxLineSize     = 1 << 20
)

// Stats summarizes one replay run.
type Stats struct {
	Lines  int64
	Events int64
	Bars   int64
}

// Replayer feeds newline delimited JSON events through a bar usecase and writes the
// resulting bars as JSON lines.
type Replayer struct {
	usecase barDomain.Usecase
	logger  logger.Interface
}

// New creates a Replayer.
func New(usecase barDomain.Usecase, logger logger.Interface) *Replayer {
	return &Replayer{
		usecase: usecase,
		logger:  logger,
	}
}

// Run reads events from in until EOF or until ctx is cancelled, then flushes the open
// bars of every stream. Interruption is not an error: events already decoded are still
// pushed, then partial bars are written. Lines not yet read are left unread.
func (r *Replayer) Run(ctx context.Context, in io.Reader, out io.Writer) (Stats, error) {
	var (
		stats  Stats
		held   []rulev1.Event
		events = make(chan rulev1.Event, eventBufferSize)
		enc    = json.NewEncoder(out)
	)

	g, gctx := errgroup.WithContext(ctx)

	// a blocked read on stdin only returns once the file is closed
	if c, ok := in.(io.Closer); ok {
		stop := context.AfterFunc(gctx, func() { _ = c.Close() })
		defer stop()
	}

	g.Go(func() error {
		defer close(events)
		return r.read(gctx, in, events, &stats, &held)
	})
	g.Go(func() error {
		return r.process(gctx, events, enc, &stats)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return stats, err
	}

	flushCtx := context.WithoutCancel(ctx)
	if err := r.drain(flushCtx, events, held, enc, &stats); err != nil {
		return stats, err
	}

	bars := r.usecase.FlushAll(flushCtx)
	if err := r.write(enc, bars, &stats); err != nil {
		r.logger.ErrorContext(flushCtx, err, logger.Field{Key: "action", Value: "write_flushed_bars"})
		return stats, err
	}

	return stats, nil
}

// read decodes lines into events. An event decoded while ctx is being cancelled is
// appended to held instead of being lost.
func (r *Replayer) read(ctx context.Context, in io.Reader, events chan<- rulev1.Event, stats *Stats, held *[]rulev1.Event) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		stats.Lines++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var event rulev1.Event
		if err := json.Unmarshal(line, &event); err != nil {
			return errors.NewErrorDetailsWithObject(
				fmt.Sprintf("line %d: %s", stats.Lines, err), errors.InvalidEventError, "line", string(line))
		}

		select {
		case events <- event:
		case <-ctx.Done():
			*held = append(*held, event)
			return ctx.Err()
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return errors.TracerFromError(err)
	}
	return nil
}

func (r *Replayer) process(ctx context.Context, events <-chan rulev1.Event, enc *json.Encoder, stats *Stats) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := r.push(ctx, event, enc, stats); err != nil {
				return err
			}
		}
	}
}

// drain pushes what the reader handed over but the processor never consumed. events
// must be closed.
func (r *Replayer) drain(ctx context.Context, events <-chan rulev1.Event, held []rulev1.Event, enc *json.Encoder, stats *Stats) error {
	for event := range events {
		if err := r.push(ctx, event, enc, stats); err != nil {
			return err
		}
	}
	for _, event := range held {
		if err := r.push(ctx, event, enc, stats); err != nil {
			return err
		}
	}
	return nil
}

func (r *Replayer) push(ctx context.Context, event rulev1.Event, enc *json.Encoder, stats *Stats) error {
	stats.Events++

	bars, err := r.usecase.Push(ctx, event)
	if err != nil {
		return err
	}
	if err := r.write(enc, bars, stats); err != nil {
		r.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "write_bars"})
		return err
	}
	return nil
}

func (r *Replayer) write(enc *json.Encoder, bars []*barv1.Bar, stats *Stats) error {
	for _, bar := range bars {
		if err := enc.Encode(bar); err != nil {
			return errors.TracerFromError(err)
		}
		stats.Bars++
	}
	return nil
}
