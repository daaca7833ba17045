package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
)

const (
	baseDPI       = 72.0
	jpegMediaType = "image/jpeg"
)

// Rasterizer turns input files into images for the extraction service.
type Rasterizer interface {
	// RasterizePDF renders every page in order. onPage is called with (0, total) before
	// the first page and with (i, total) before page i is rendered.
	RasterizePDF(file models.InputFile, onPage func(current, total int)) ([]models.ImagePart, error)
	// RasterizeImage passes an image file through unchanged.
	RasterizeImage(file models.InputFile) models.ImagePart
}

// PageSource is an opened paged document. *fitz.Document satisfies it.
type PageSource interface {
	NumPage() int
	ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error)
	Close() error
}

type PageSourceOpener func(content []byte) (PageSource, error)

// OpenFitzDocument opens PDF bytes with MuPDF.
func OpenFitzDocument(content []byte) (PageSource, error) {
	doc, err := fitz.NewFromMemory(content)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

type RasterOptions struct {
	Scale   float64
	Quality float64
}

func (o RasterOptions) DPI() float64 {
	return baseDPI * o.Scale
}

// JPEGQuality maps the (0, 1] quality onto the 1..100 range image/jpeg expects.
func (o RasterOptions) JPEGQuality() int {
	q := int(math.Round(o.Quality * 100))
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

type fitzRasterizer struct {
	inspector PDFInspector
	open      PageSourceOpener
	opts      RasterOptions
}

func NewRasterizer(inspector PDFInspector, opts RasterOptions) Rasterizer {
	return NewRasterizerWithOpener(inspector, OpenFitzDocument, opts)
}

// NewRasterizerWithOpener allows swapping the document backend. inspector may be nil.
func NewRasterizerWithOpener(inspector PDFInspector, open PageSourceOpener, opts RasterOptions) Rasterizer {
	return &fitzRasterizer{
		inspector: inspector,
		open:      open,
		opts:      opts,
	}
}

func (r *fitzRasterizer) RasterizePDF(file models.InputFile, onPage func(current, total int)) ([]models.ImagePart, error) {
	if onPage == nil {
		onPage = func(int, int) {}
	}

	// The preflight is informational. MuPDF repairs documents the inspector rejects,
	// so only open and render failures count as parse errors.
	if r.inspector != nil {
		content, err := r.inspector.Inspect(file.Content)
		if err != nil {
			log.Warn().Err(err).Str("file", file.Name).Msg("⚠️ PDF preflight failed, rendering anyway")
		} else {
			log.Debug().
				Str("file", file.Name).
				Int("pages", content.PageCount).
				Bool("text_layer", content.HasTextLayer).
				Msg("📄 PDF preflight passed")
		}
	}

	doc, err := r.open(file.Content)
	if err != nil {
		return nil, models.DocumentParseError(file.Name, fmt.Errorf("failed to open PDF: %w", err))
	}
	defer doc.Close()

	totalPages := doc.NumPage()
	onPage(0, totalPages)

	dpi := r.opts.DPI()
	encodeOpts := &jpeg.Options{Quality: r.opts.JPEGQuality()}
	parts := make([]models.ImagePart, 0, totalPages)

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		onPage(pageNum, totalPages)

		img, err := doc.ImageDPI(pageNum-1, dpi)
		if err != nil {
			return nil, models.DocumentParseError(file.Name, fmt.Errorf("failed to render page %d: %w", pageNum, err))
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, encodeOpts); err != nil {
			return nil, models.DocumentParseError(file.Name, fmt.Errorf("failed to encode page %d as JPEG: %w", pageNum, err))
		}

		parts = append(parts, models.ImagePart{
			MimeType: jpegMediaType,
			Data:     buf.Bytes(),
		})
	}

	log.Info().Str("file", file.Name).Int("pages", len(parts)).Msg("🖼️ PDF rasterized")
	return parts, nil
}

func (r *fitzRasterizer) RasterizeImage(file models.InputFile) models.ImagePart {
	return models.ImagePart{
		MimeType: file.MimeType,
		Data:     file.Content,
	}
}
