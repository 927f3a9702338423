package main

import (
	"context"
	"fmt"
	"log"

	"anchor-sync/internal/app"
	common_api "anchor-sync/internal/common/api"
	"anchor-sync/internal/config"
	"anchor-sync/internal/features/anchor"
	cron_feature "anchor-sync/internal/features/cron"
	"anchor-sync/internal/features/order"
	"anchor-sync/internal/features/report"
	"anchor-sync/internal/features/sync"
	"anchor-sync/internal/features/system"
	"anchor-sync/internal/middleware"

	_ "anchor-sync/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		},
	})

	// Use custom CORS middleware
	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for i, route := range routes {
		log.Printf("Setting up route %d: %T\n", i+1, route)
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// StartScheduler runs the fleet sync on its cron schedule for the lifetime of the app
func StartScheduler(lc fx.Lifecycle, cronService cron_feature.CronService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return cronService.InitializeScheduler(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return cronService.StopScheduler()
		},
	})
}

// @title           Anchor Sync API
// @version         1.0
// @description     Syncs anchor wallet orders into a relational store and serves reports over them.

// @host            localhost:3000
// @BasePath        /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	fxApp := fx.New(
		app.Core,
		fx.Provide(
			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Scheduler
			cron_feature.NewCronService,

			// Initialize Controller
			anchor.NewAnchorController,
			order.NewOrderController,
			report.NewReportController,
			sync.NewSyncController,
			cron_feature.NewCronController,

			// Initialize API Routes
			AsRoute(anchor.NewAnchorApi),
			AsRoute(order.NewOrderApi),
			AsRoute(report.NewReportApi),
			AsRoute(sync.NewSyncApi),
			AsRoute(cron_feature.NewCronApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartScheduler,
		),
	)

	fxApp.Run()
}
