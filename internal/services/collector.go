package services

import (
	"github.com/rs/zerolog/log"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
)

// ImageCollector turns an ordered batch of files into one ordered image sequence.
type ImageCollector interface {
	Collect(files []models.InputFile, onProgress func(models.ExtractionProgress)) ([]models.ImagePart, error)
}

type imageCollector struct {
	rasterizer Rasterizer
}

func NewImageCollector(rasterizer Rasterizer) ImageCollector {
	return &imageCollector{rasterizer: rasterizer}
}

// Collect processes files one at a time, in order. Files that are neither PDFs nor images
// are skipped without an error. Rasterization errors are returned as they are.
func (c *imageCollector) Collect(files []models.InputFile, onProgress func(models.ExtractionProgress)) ([]models.ImagePart, error) {
	if onProgress == nil {
		onProgress = func(models.ExtractionProgress) {}
	}

	var parts []models.ImagePart
	totalFiles := len(files)

	for index, file := range files {
		progress := models.ExtractionProgress{
			FileIndex: index,
			FileCount: totalFiles,
			FileName:  file.Name,
		}

		switch file.Kind() {
		case models.FileKindPDF:
			progress.Stage = models.StageConvertingPDF
			pages, err := c.rasterizer.RasterizePDF(file, func(current, total int) {
				progress.CurrentPage = current
				progress.TotalPages = total
				onProgress(progress)
			})
			if err != nil {
				return nil, err
			}
			parts = append(parts, pages...)

		case models.FileKindImage:
			progress.Stage = models.StagePreparingImage
			onProgress(progress)
			parts = append(parts, c.rasterizer.RasterizeImage(file))

		default:
			// Unsupported files are skipped, not failed. Only the log records them.
			log.Warn().
				Str("file", file.Name).
				Str("mime_type", file.MimeType).
				Msg("⚠️ Skipping unsupported file type")
		}
	}

	if len(parts) == 0 {
		return nil, models.NewExtractionError(models.KindEmptyResult, nil)
	}

	return parts, nil
}
