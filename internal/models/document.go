package models

import (
	"fmt"
	"strings"
)

type FileKind string

const (
	FileKindPDF         FileKind = "pdf"
	FileKindImage       FileKind = "image"
	FileKindUnsupported FileKind = "unsupported"
)

const MimeTypePDF = "application/pdf"

// InputFile is one user-selected document. It is never modified once read.
type InputFile struct {
	Name     string
	MimeType string
	Content  []byte
}

func (f InputFile) Kind() FileKind {
	return KindOf(f.MimeType)
}

// KindOf classifies a declared media type.
func KindOf(mimeType string) FileKind {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case mimeType == MimeTypePDF:
		return FileKindPDF
	case strings.HasPrefix(mimeType, "image/"):
		return FileKindImage
	default:
		return FileKindUnsupported
	}
}

// AcceptedFiles drops every file that is neither a PDF nor an image.
func AcceptedFiles(files []InputFile) []InputFile {
	accepted := make([]InputFile, 0, len(files))
	for _, f := range files {
		if f.Kind() != FileKindUnsupported {
			accepted = append(accepted, f)
		}
	}
	return accepted
}

// ImagePart is one image sent inline to the extraction service.
type ImagePart struct {
	MimeType string
	Data     []byte
}

type ProgressStage string

const (
	StageConvertingPDF  ProgressStage = "converting_pdf"
	StagePreparingImage ProgressStage = "preparing_image"
)

// ExtractionProgress describes where a collection pass currently is.
// CurrentPage and TotalPages are only meaningful for StageConvertingPDF.
type ExtractionProgress struct {
	FileIndex   int
	FileCount   int
	FileName    string
	Stage       ProgressStage
	CurrentPage int
	TotalPages  int
}

// Prefix identifies the file inside a multi-file batch. Single-file batches get no prefix.
func (p ExtractionProgress) Prefix() string {
	if p.FileCount <= 1 {
		return ""
	}
	return fmt.Sprintf("[%d/%d] %s: ", p.FileIndex+1, p.FileCount, p.FileName)
}

func (p ExtractionProgress) Message() string {
	switch p.Stage {
	case StageConvertingPDF:
		return fmt.Sprintf("%sConverting PDF... Page %d of %d", p.Prefix(), p.CurrentPage, p.TotalPages)
	case StagePreparingImage:
		return p.Prefix() + "Preparing image..."
	default:
		return p.Prefix()
	}
}
