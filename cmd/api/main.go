package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/hsu-leads-ocr/internal/config"
	"alfredoptarigan/hsu-leads-ocr/internal/handlers"
	"alfredoptarigan/hsu-leads-ocr/internal/repositories"
	"alfredoptarigan/hsu-leads-ocr/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	config.SetupLogger(cfg.Log, "leads-ocr-api")
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid configuration")
	}
	log.Info().Msg("✅ Config loaded successfully")

	runRepo := repositories.NewRunRepository()

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize Gemini AI")
	}
	log.Info().Str("model", cfg.Gemini.Model).Msg("✅ Gemini AI initialized successfully")

	// Pipeline components are stateless apart from the orchestrator, which is per run.
	rasterizer := services.NewRasterizer(services.NewPDFInspector(), services.RasterOptions{
		Scale:   cfg.Raster.Scale,
		Quality: cfg.Raster.Quality,
	})
	collector := services.NewImageCollector(rasterizer)
	extractor := services.NewExtractionClient(geminiService)
	runService := services.NewRunService(runRepo, func() *services.Orchestrator {
		return services.NewOrchestrator(collector, extractor)
	})
	fileService := services.NewFileService(cfg.Storage.MaxFileSize)
	log.Info().Msg("✅ Services initialized successfully")

	worker := services.NewWorker(runRepo, runService, cfg.Worker.Concurrency, cfg.Worker.RunRetention)
	worker.Start(context.Background())

	extractHandler := handlers.NewExtractHandler(runRepo, fileService, worker, cfg.Storage.MaxFiles)
	resultHandler := handlers.NewResultHandler(runRepo)

	// The body carries every file of a batch.
	bodyLimit := cfg.Storage.MaxFileSize * int64(max(cfg.Storage.MaxFiles, 1))

	app := fiber.New(fiber.Config{
		AppName:      "HSU Leads OCR API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(bodyLimit),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.SetupRoutes(app, extractHandler, resultHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("❌ Server forced to shutdown")
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("🚀 Server starting")

	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start server")
	}
}
