package app

import (
	"anchor-sync/internal/config"
	"anchor-sync/internal/connectors"
	"anchor-sync/internal/database"
	"anchor-sync/internal/features/anchor"
	"anchor-sync/internal/features/notification"
	"anchor-sync/internal/features/order"
	"anchor-sync/internal/features/report"
	"anchor-sync/internal/features/sync"
	"anchor-sync/internal/features/webhook"
	"anchor-sync/internal/logger"
	"anchor-sync/internal/middleware"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Core provides everything the sync pipeline needs, without the HTTP facade.
// Both the API server and the one-shot job binary build on it.
var Core = fx.Options(
	// Tables migrated on startup
	fx.Supply(database.Models{
		&anchor.Anchor{},
		&order.Order{},
		&sync.SyncLog{},
		&report.DailyReport{},
		&logger.AppLog{},
	}),
	fx.Provide(
		// Load Config
		config.LoadConfig,

		// Initialize Database
		database.NewDatabase,
		database.NewLocker,

		// Initialize Logger
		logger.NewLogger,

		// Initialize Repository
		anchor.NewAnchorRepository,
		order.NewOrderRepository,
		report.NewReportRepository,
		sync.NewSyncLogRepository,

		// Upstream and outbound channels
		connectors.NewWalletConnector,
		webhook.NewWebhookService,

		// Initialize Service
		anchor.NewAnchorService,
		order.NewOrderService,
		order.NewPersister,
		report.NewReportService,
		notification.NewNotificationService,
		sync.NewSyncService,

		// Interface Adapters
		func(w *connectors.WalletConnector) connectors.OrderSource { return w },
		func(s anchor.AnchorService) middleware.PasswordResolver { return s },
	),
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),
)
