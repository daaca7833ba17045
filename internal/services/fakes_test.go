package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"google.golang.org/genai"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
)

// fakeRasterizer renders each PDF as pages[name] parts tagged "name#page".
type fakeRasterizer struct {
	pages  map[string]int
	failOn map[string]error
	calls  []string
}

func (f *fakeRasterizer) RasterizePDF(file models.InputFile, onPage func(current, total int)) ([]models.ImagePart, error) {
	f.calls = append(f.calls, file.Name)
	if err := f.failOn[file.Name]; err != nil {
		return nil, err
	}

	total := f.pages[file.Name]
	onPage(0, total)
	parts := make([]models.ImagePart, 0, total)
	for i := 1; i <= total; i++ {
		onPage(i, total)
		parts = append(parts, models.ImagePart{MimeType: jpegMediaType, Data: []byte(fmt.Sprintf("%s#%d", file.Name, i))})
	}
	return parts, nil
}

func (f *fakeRasterizer) RasterizeImage(file models.InputFile) models.ImagePart {
	f.calls = append(f.calls, file.Name)
	return models.ImagePart{MimeType: file.MimeType, Data: file.Content}
}

// fakePageSource is an in-memory paged document.
type fakePageSource struct {
	pages      int
	failPage   int
	renderedAt []int
	dpis       []float64
	closed     bool
}

func (f *fakePageSource) NumPage() int { return f.pages }

func (f *fakePageSource) ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error) {
	if f.failPage > 0 && pageNumber+1 == f.failPage {
		return nil, errors.New("render failed")
	}
	f.renderedAt = append(f.renderedAt, pageNumber)
	f.dpis = append(f.dpis, dpi)
	return image.NewRGBA(image.Rect(0, 0, 8, 8)), nil
}

func (f *fakePageSource) Close() error {
	f.closed = true
	return nil
}

type fakeInspector struct {
	err   error
	calls int
}

func (f *fakeInspector) Inspect(content []byte) (*PDFContent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &PDFContent{PageCount: 1}, nil
}

// fakeGemini records the request and replies with a canned response.
type fakeGemini struct {
	response string
	err      error

	mu     sync.Mutex
	parts  []*genai.Part
	schema *genai.Schema
	calls  int
}

func (f *fakeGemini) GenerateStructured(ctx context.Context, parts []*genai.Part, schema *genai.Schema) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.parts = parts
	f.schema = schema
	return f.response, f.err
}

type fakeCollector struct {
	parts  []models.ImagePart
	err    error
	events []models.ExtractionProgress
}

func (f *fakeCollector) Collect(files []models.InputFile, onProgress func(models.ExtractionProgress)) ([]models.ImagePart, error) {
	for _, e := range f.events {
		onProgress(e)
	}
	return f.parts, f.err
}

type fakeExtractor struct {
	records []models.StudentRecord
	err     error
	started chan struct{}
	release chan struct{}
	got     []models.ImagePart
}

func (f *fakeExtractor) Extract(ctx context.Context, parts []models.ImagePart) ([]models.StudentRecord, error) {
	f.got = parts
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.records, f.err
}

func pdfFile(name string) models.InputFile {
	return models.InputFile{Name: name, MimeType: models.MimeTypePDF, Content: []byte("%PDF-1.7")}
}

func imageFile(name, mimeType string) models.InputFile {
	return models.InputFile{Name: name, MimeType: mimeType, Content: []byte("img:" + name)}
}
