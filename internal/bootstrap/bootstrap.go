package bootstrap

import (
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/config"
	"github.com/muhammadchandra19/exchange/trade-aggregation/pkg/logger"
)

// Bootstrap wires the aggregation pipeline together.
type Bootstrap struct {
	Config  *config.Config
	Logger  logger.Interface
	Usecase Usecase
}

// BootstrapConfig is the config for the bootstrap.
type BootstrapConfig struct {
	Config *config.Config
	Logger logger.Interface
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(cfg BootstrapConfig) Bootstrap {
	b.Config = cfg.Config
	b.Logger = cfg.Logger

	b.registerUsecase()

	return *b
}

// NewLogger builds the application logger from cfg. Logs go to stderr so stdout stays
// free for emitted bars.
func NewLogger(cfg config.AppConfig) (*logger.Logger, error) {
	return logger.NewLogger(
		logger.WithLoggingLevel(logger.Level(cfg.LogLevel)),
		logger.WithOutputPaths([]string{"stderr"}),
		logger.WithTimeKey("timestamp"),
	)
}
