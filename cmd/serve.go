package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"ceiba/core/config"
	"ceiba/core/logger"
	"ceiba/core/storage"
	"ceiba/core/warehouse/mysqlmeta"
	"ceiba/feature/dataset"
	"ceiba/feature/dataset/archive"
	datasetsync "ceiba/feature/dataset/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sync HTTP server",
	Long:  `Starts the HTTP server exposing the dataset sync endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to the warehouse
		store, err := mysqlmeta.New(cfg.Warehouse)
		if err != nil {
			logg.Fatal("Warehouse connection failed", zap.Error(err))
		}

		// 4. Connect to archive storage (optional)
		var archiver *archive.Archiver
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional archive storage connection failed", zap.Error(err))
		} else {
			archiver = archive.New(client, cfg.Storage.Bucket, logg)
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})

		api := app.Group("/api")
		if cfg.Server.ApiKey != "" {
			api.Use(func(c *fiber.Ctx) error {
				if c.Get("X-Api-Key") != cfg.Server.ApiKey {
					return c.SendStatus(fiber.StatusUnauthorized)
				}
				return c.Next()
			})
		}

		service := dataset.NewService(datasetsync.NewSyncer(store, logg), archiver, logg)
		dataset.NewHandler(service).RegisterRoutes(api)

		// 6. Start server with graceful shutdown
		go func() {
			logg.Info("Server listening", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed", zap.Error(err))
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logg.Info("Shutting down server")
		if err := app.Shutdown(); err != nil {
			logg.Error("Server shutdown failed", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
