package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, extractHandler *ExtractHandler, resultHandler *ResultHandler) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/extract", extractHandler.HandleExtract)
	api.Get("/runs/:id", resultHandler.HandleGetRun)
	api.Get("/runs/:id/csv", resultHandler.HandleExportCSV)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "HSU Leads OCR API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/extract",
				"GET /api/v1/runs/:id",
				"GET /api/v1/runs/:id/csv",
			},
		})
	})
}

// ErrorHandler renders every returned error as {"error", "code"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
