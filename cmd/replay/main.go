package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadchandra19/exchange/trade-aggregation/internal/app/replay"
	"github.com/muhammadchandra19/exchange/trade-aggregation/internal/bootstrap"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/config"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/logger"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/util"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}

	log, err = bootstrap.NewLogger(cfg.App)
	if err != nil {
		panic(err)
	}
}

func main() {
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = util.WithRunID(ctx, "")

	b := &bootstrap.Bootstrap{}
	app := b.Init(bootstrap.BootstrapConfig{Config: cfg, Logger: log})

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	log.InfoContext(ctx, "replay started",
		logger.Field{Key: "rule", Value: cfg.Rule.Kind.String()},
		logger.Field{Key: "interval", Value: cfg.Rule.Interval},
		logger.Field{Key: "volume_threshold", Value: cfg.Rule.VolumeThreshold.String()},
	)

	stats, err := replay.New(app.Usecase.BarUsecase, log).Run(ctx, os.Stdin, out)
	if err != nil {
		log.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "replay"})
		_ = out.Flush()
		_ = log.Sync()
		os.Exit(1)
	}

	log.InfoContext(ctx, "replay finished",
		logger.Field{Key: "events", Value: stats.Events},
		logger.Field{Key: "bars", Value: stats.Bars},
	)
}
