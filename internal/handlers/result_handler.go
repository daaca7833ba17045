package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
	"alfredoptarigan/hsu-leads-ocr/internal/repositories"
	"alfredoptarigan/hsu-leads-ocr/internal/services"
)

type ResultHandler struct {
	runRepo repositories.RunRepository
}

func NewResultHandler(runRepo repositories.RunRepository) *ResultHandler {
	return &ResultHandler{
		runRepo: runRepo,
	}
}

// HandleGetRun handles GET /runs/:id
func (h *ResultHandler) HandleGetRun(c *fiber.Ctx) error {
	run, err := h.findRun(c)
	if err != nil {
		return err
	}

	response := models.RunResponse{
		ID:       run.ID.String(),
		Status:   string(run.Status),
		Progress: run.Progress,
		Files:    run.FileNames,
	}

	if run.Status == models.StateSucceeded {
		records := run.Records
		if records == nil {
			records = []models.StudentRecord{}
		}
		response.Result = &models.RunData{
			Count:   len(records),
			Records: records,
		}
	}

	if run.Status == models.StateFailed {
		response.Error = &models.RunErrorData{
			Kind:    string(run.ErrorKind),
			Message: run.ErrorMessage,
		}
	}

	return c.JSON(response)
}

// HandleExportCSV handles GET /runs/:id/csv
func (h *ResultHandler) HandleExportCSV(c *fiber.Ctx) error {
	run, err := h.findRun(c)
	if err != nil {
		return err
	}

	if run.Status != models.StateSucceeded {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "Run has no result to export",
			"status": string(run.Status),
		})
	}

	c.Set(fiber.HeaderContentType, services.CSVContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", services.CSVFileName))
	return c.Send(services.EncodeCSV(run.Records))
}

func (h *ResultHandler) findRun(c *fiber.Ctx) (*models.Run, error) {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid run ID format")
	}

	run, err := h.runRepo.FindByID(runID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Run not found")
	}

	return run, nil
}
