package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Abraxas-365/certmailer/pkg/campaign"
	"github.com/Abraxas-365/certmailer/pkg/campaign/campaignapi"
	"github.com/Abraxas-365/certmailer/pkg/config"
	"github.com/Abraxas-365/certmailer/pkg/errx"
	"github.com/Abraxas-365/certmailer/pkg/errx/errxfiber"
	"github.com/Abraxas-365/certmailer/pkg/fsx"
	"github.com/Abraxas-365/certmailer/pkg/logx"
	"github.com/Abraxas-365/certmailer/pkg/notifx"
	"github.com/Abraxas-365/certmailer/pkg/recipients"
	"github.com/Abraxas-365/certmailer/pkg/suggest"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

func main() {
	// 1. Configuration (.env first, so the logger sees LOG_* from it)
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}
	logx.SetDefaultLogger(logx.NewLogger(logx.LoadFromEnv()))

	logx.Info("Starting certmailer API server...")

	// 2. Dependency container
	container := NewContainer(cfg)
	defer container.Cleanup()

	// 3. Fiber app
	app := newApp(container)

	// 4. Serve with graceful shutdown
	startServer(app, cfg.Server.Port)
}

func newApp(container *Container) *fiber.App {
	cfg := container.Config

	app := fiber.New(fiber.Config{
		AppName:               "certmailer",
		DisableStartupMessage: true,
		ErrorHandler:          errxfiber.ErrorHandler(cfg.Debug),
		BodyLimit:             cfg.Server.BodyLimitMB * 1024 * 1024,
		IdleTimeout:           120 * time.Second,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))

	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods:  "GET, POST, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${reqHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	app.Get("/health", healthCheckHandler(container))
	app.Get("/", infoHandler(cfg))
	app.Get("/api/v1/docs", apiDocsHandler)

	// /api/v1/recipients/preview, /api/v1/campaigns, /api/v1/campaigns/stored
	container.Campaign.Handlers.RegisterRoutes(app)
	// /api/v1/suggestions
	container.Suggest.Handlers.RegisterRoutes(app)

	app.Use(notFoundHandler)

	printRouteSummary()
	return app
}

func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := fiber.Map{
			"status":    "healthy",
			"service":   "certmailer",
			"version":   container.Config.Server.Version,
			"transport": container.Config.Notifx.Provider,
			"storage":   container.Config.Storage.Mode,
		}

		if c.QueryBool("check_storage", false) {
			if _, err := container.FileSystem.Exists(c.UserContext(), ".health-check"); err != nil {
				health["status"] = "degraded"
				health["storage_error"] = err.Error()
			}
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

func infoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     "certmailer",
			"version":     cfg.Server.Version,
			"description": "Bulk personalized email with per-recipient certificates",
			"features": []string{
				"CSV and Excel recipient lists",
				"Certificate matching by recipient name",
				"Retry and pacing per message",
				"Per-run send log",
				"AI-assisted email drafting",
			},
			"endpoints": fiber.Map{
				"docs":   "/api/v1/docs",
				"health": "/health",
			},
		})
	}
}

func apiDocsHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"api_version": "v1",
		"endpoints": fiber.Map{
			"recipients": fiber.Map{
				"preview": "POST /api/v1/recipients/preview (multipart: recipients)",
			},
			"campaigns": fiber.Map{
				"send":   "POST /api/v1/campaigns (multipart: recipients, certificates[], attachments[], sender, password, subject, body, require_attachment)",
				"stored": "POST /api/v1/campaigns/stored (JSON: recipients_path, certificates_dir, attachments_dir, sender, password, template)",
			},
			"suggestions": fiber.Map{
				"generate": "POST /api/v1/suggestions (JSON: prompt, mode=draft|polish)",
			},
		},
		"errors": errx.Catalog(
			campaign.ErrRegistry,
			campaignapi.ErrRegistry,
			recipients.ErrRegistry,
			fsx.ErrRegistry,
			notifx.ErrRegistry,
			suggest.ErrRegistry,
		),
	})
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": c.GetRespHeader(fiber.HeaderXRequestID),
	})
}

func printRouteSummary() {
	logx.Info("Route Summary:")
	logx.Info("   - Recipients: /api/v1/recipients/preview")
	logx.Info("   - Campaigns: /api/v1/campaigns, /api/v1/campaigns/stored")
	logx.Info("   - Suggestions: /api/v1/suggestions")
	logx.Info("   - Health: /health")
}

func startServer(app *fiber.App, port string) {
	go func() {
		logx.Info(strings.Repeat("=", 60))
		logx.Infof("Server listening on port %s", port)
		logx.Infof("API Docs: http://localhost:%s/api/v1/docs", port)
		logx.Info(strings.Repeat("=", 60))

		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(app)
}

// gracefulShutdown waits for a signal. In-flight campaigns see their request
// context cancelled and stop between recipients.
func gracefulShutdown(app *fiber.App) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logx.Infof("Received signal: %v", sig)
	logx.Info("Shutting down gracefully...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
}
