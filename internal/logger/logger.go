package logger

import (
	"context"

	"anchor-sync/internal/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewLogger builds the console logger and tees warnings into app_logs
func NewLogger(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB) (*zap.Logger, error) {

	// 1. Setup Base Config (Console/JSON)
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	// 2. Async DB Writer
	dbWriter := NewDBLogWriter(db, cfg)

	// 3. Tee core: console plus app_logs
	finalCore := NewDBCore(baseLogger.Core(), dbWriter)
	logger := zap.New(finalCore, zap.AddCaller())

	// registered after the database, so it stops first and drains into an open pool
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			return dbWriter.Close(ctx)
		},
	})

	return logger, nil
}
