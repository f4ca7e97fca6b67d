package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/shopweave/plugin-engine/internal/config"
	"github.com/shopweave/plugin-engine/internal/database"
	"github.com/shopweave/plugin-engine/internal/handlers"
	"github.com/shopweave/plugin-engine/internal/middleware"
	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/services"
	"github.com/shopweave/plugin-engine/internal/types"

	_ "github.com/shopweave/plugin-engine/docs/api" // Swagger docs
)

// @title Plugin Engine API
// @version 1.0.0
// @description Plugin runtime and slot composition service for multi-tenant storefronts
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/shopweave/plugin-engine

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

// coreNavigation is the platform-owned navigation skeleton, seeded at boot.
var coreNavigation = []models.NavigationItem{
	{Key: "dashboard", Label: "Dashboard", Route: "/admin", Icon: "home", OrderPosition: 1, IsCore: true, IsVisible: true},
	{Key: "catalog", Label: "Catalog", Route: "/admin/catalog", Icon: "box", OrderPosition: 2, IsCore: true, IsVisible: true},
	{Key: "orders", Label: "Orders", Route: "/admin/orders", Icon: "cart", OrderPosition: 3, IsCore: true, IsVisible: true},
	{Key: "design", Label: "Design", Route: "/admin/design", Icon: "brush", OrderPosition: 4, IsCore: true, IsVisible: true},
	{Key: "plugins", Label: "Plugins", Route: "/admin/plugins", Icon: "puzzle", OrderPosition: 5, IsCore: true, IsVisible: true},
	{Key: "settings", Label: "Settings", Route: "/admin/settings", Icon: "gear", OrderPosition: 6, IsCore: true, IsVisible: true},
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.ConnectWithRetry(cfg, 60*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Wire services
	widgets := services.NewWidgetRegistry()
	artifacts := services.NewCodeArtifactStore(db)
	navigation := services.NewNavigationRegistry(db)
	plugins := services.NewPluginRegistry(db, widgets, artifacts, navigation)
	slots := services.NewSlotConfigurationStore(db)

	if err := navigation.SeedCore(coreNavigation); err != nil {
		log.Fatalf("Failed to seed core navigation: %v", err)
	}

	count, err := widgets.RebuildFromStore(artifacts)
	if err != nil {
		log.Fatalf("Failed to rebuild widget registry: %v", err)
	}
	log.Printf("Widget registry rebuilt: %d widgets", count)

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to access sql handle: %v", err)
	}
	runtime, err := services.NewControllerRuntime(sqlDB, cfg.ControllerPoolSize,
		time.Duration(cfg.ControllerTimeoutMs)*time.Millisecond)
	if err != nil {
		log.Fatalf("Failed to create controller runtime: %v", err)
	}
	defer runtime.Close()

	resolver := services.NewCompositionResolver(slots, widgets, artifacts, plugins, runtime, cfg.Production())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("pluginengine")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(services.HealthCheck(cfg, db, widgets))
	})

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	pluginHandler := &handlers.PluginHandler{Registry: plugins, Artifacts: artifacts}
	navHandler := &handlers.NavigationHandler{Registry: navigation}
	layoutHandler := &handlers.LayoutHandler{Slots: slots}
	resolveHandler := &handlers.ResolveHandler{Resolver: resolver}

	// Plugin registry routes (public GET, operator mutations)
	api.Post("/plugins", middleware.AuthOperator(cfg), pluginHandler.RegisterPlugin)
	api.Get("/plugins/:pluginId", pluginHandler.GetPlugin)
	api.Patch("/plugins/:pluginId/status", middleware.AuthOperator(cfg), pluginHandler.SetPluginStatus)
	api.Post("/plugins/:pluginId/artifacts", middleware.AuthOperator(cfg), pluginHandler.PutArtifacts)
	api.Get("/plugins/:pluginId/artifacts", pluginHandler.ListArtifacts)
	api.Delete("/plugins/:pluginId/artifacts", middleware.AuthOperator(cfg), pluginHandler.DeleteArtifacts)

	// Navigation routes
	api.Put("/navigation", middleware.AuthOperator(cfg), navHandler.UpsertItem)
	api.Get("/navigation/tree", navHandler.GetTree)
	api.Delete("/navigation/:key", middleware.AuthOperator(cfg), navHandler.RemoveItem)

	// Store-scoped routes
	stores := api.Group("/stores/:storeId", middleware.TenantMiddleware())
	stores.Get("/layout/:pageType/draft", middleware.AuthOperator(cfg), layoutHandler.GetDraft)
	stores.Post("/layout/:pageType/draft", middleware.AuthOperator(cfg), layoutHandler.SaveDraft)
	stores.Post("/layout/:pageType/publish", middleware.AuthOperator(cfg), layoutHandler.Publish)
	stores.Post("/layout/:pageType/slots/:slotId/custom", middleware.AuthOperator(cfg), layoutHandler.MarkCustom)
	stores.Delete("/layout/:pageType/slots/:slotId", middleware.AuthOperator(cfg), layoutHandler.DeleteSlot)
	stores.Get("/resolve/:pageType", resolveHandler.ResolvePage)
	stores.Post("/controllers/:pluginId/:controllerName", middleware.AuthOperator(cfg), resolveHandler.InvokeController)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"
	staleWrite := false

	if de, ok := types.AsDomainError(err); ok {
		code = de.HTTPStatus()
		message = de.Message
		errorType = de.Code
		staleWrite = de.Code == types.CodeStaleWrite
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":     code,
		"message":    message,
		"ok":         false,
		"staleWrite": staleWrite,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"url":        c.OriginalURL(),
		"type":       errorType,
	})
}
