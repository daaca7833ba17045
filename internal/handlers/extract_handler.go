package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
	"alfredoptarigan/hsu-leads-ocr/internal/repositories"
	"alfredoptarigan/hsu-leads-ocr/internal/services"
)

const filesField = "files"

type ExtractHandler struct {
	runRepo     repositories.RunRepository
	fileService services.FileService
	worker      services.Worker
	maxFiles    int
}

func NewExtractHandler(
	runRepo repositories.RunRepository,
	fileService services.FileService,
	worker services.Worker,
	maxFiles int,
) *ExtractHandler {
	return &ExtractHandler{
		runRepo:     runRepo,
		fileService: fileService,
		worker:      worker,
		maxFiles:    maxFiles,
	}
}

// HandleExtract handles POST /extract. Files are read into memory and handed to the
// worker; the response carries the run ID to poll.
func (h *ExtractHandler) HandleExtract(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	uploads := form.File[filesField]
	if len(uploads) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": models.KindNoFilesSelected.UserMessage(),
			"kind":  string(models.KindNoFilesSelected),
		})
	}

	if h.maxFiles > 0 && len(uploads) > h.maxFiles {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Too many files. Max files per request: %d", h.maxFiles),
		})
	}

	files := make([]models.InputFile, 0, len(uploads))
	names := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		file, err := h.fileService.ReadUpload(upload)
		if err != nil {
			status := fiber.StatusInternalServerError
			if errors.Is(err, services.ErrFileTooLarge) {
				status = fiber.StatusBadRequest
			}
			return c.Status(status).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		files = append(files, file)
		names = append(names, file.Name)
	}

	run := &models.Run{
		ID:        uuid.New(),
		Status:    models.StateQueued,
		FileNames: names,
		CreatedAt: time.Now(),
	}

	if err := h.runRepo.Create(run); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create extraction run",
		})
	}

	if !h.worker.EnqueueJob(models.ExtractionJob{RunID: run.ID, Files: files}) {
		_ = h.runRepo.UpdateError(run.ID, models.KindUnclassified, "The server is shutting down. Please try again later.")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Server is shutting down",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(models.ExtractResponse{
		ID:     run.ID.String(),
		Status: string(models.StateQueued),
		Files:  names,
	})
}
