package main

import (
	"context"
	"log"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"pipedesk/config"
	controller "pipedesk/controllers"
	"pipedesk/lead"
	"pipedesk/middleware"
	"pipedesk/routes"
	"pipedesk/store"
	"pipedesk/utils"
	"pipedesk/worker"
)

func main() {
	// Initialize logger
	logger := log.New(os.Stdout, "PIPEDESK: ", log.Ldate|log.Ltime|log.Lshortfile)

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize redis connection (change feed for the real-time store)
	if err := config.ConnectRedis(); err != nil {
		logger.Fatalf("Failed to connect to redis: %v", err)
	}

	if config.AppConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         config.AppConfig.SentryDSN,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			logger.Printf("Sentry initialization failed: %v", err)
		}
	}

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = config.AppConfig.AllowedOrigins
	app.Use(middleware.CORS(corsConfig))

	// Structured logger for the store adapter and sync worker
	syncLogger := logrus.New()
	syncLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Wire the lead engine on top of the store
	leadStore := store.NewGormStore(config.DB, config.RDB, syncLogger)
	cache := lead.NewCache()
	hub := lead.NewHub()
	manager := lead.NewManager(leadStore, cache, log.New(os.Stdout, "LEAD: ", log.LstdFlags))
	projects := utils.NewProjectService(config.DB, leadStore, log.New(os.Stdout, "PROJECT: ", log.LstdFlags))
	converter := lead.NewOrchestrator(projects, log.New(os.Stdout, "CONVERT: ", log.LstdFlags))
	intake := lead.NewIntake(leadStore)

	// Prime the cache before serving
	if err := manager.Refresh(context.Background()); err != nil {
		logger.Printf("Initial lead load failed, serving empty snapshot: %v", err)
	}

	// Start the subscription consumer
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	syncWorker := worker.NewSyncWorker(leadStore, cache, hub, syncLogger)
	go syncWorker.Start(ctx)

	// Setup routes
	leadController := controller.NewLeadController(leadStore, cache, hub, manager, converter, intake, log.New(os.Stdout, "LEAD: ", log.LstdFlags))
	routes.SetupRoutes(app, leadController)

	// Health check endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "running",
			"version": "1.0.0",
		})
	})

	// Start server
	logger.Printf("🚀 Server starting on port %s", config.AppConfig.ServerPort)
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
