package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFInspector reads document metadata before rendering. Its parser is stricter than
// MuPDF, so a failed inspection does not mean the document cannot be rendered.
type PDFInspector interface {
	Inspect(content []byte) (*PDFContent, error)
}

type PDFContent struct {
	PageCount    int
	HasTextLayer bool
}

type pdfInspector struct{}

func NewPDFInspector() PDFInspector {
	return &pdfInspector{}
}

// Inspect opens the PDF from memory. Encrypted documents that cannot be opened with an
// empty password, truncated files and files without a PDF header are rejected.
func (p *pdfInspector) Inspect(content []byte) (result *PDFContent, err error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	totalPage := r.NumPage()
	return &PDFContent{
		PageCount:    totalPage,
		HasTextLayer: hasTextLayer(r),
	}, nil
}

// hasTextLayer only looks at the first page. Scanned forms usually have none.
func hasTextLayer(r *pdf.Reader) bool {
	if r.NumPage() == 0 {
		return false
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return false
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return false
	}
	return strings.TrimSpace(text) != ""
}
