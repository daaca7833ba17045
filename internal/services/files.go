package services

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
)

var ErrFileTooLarge = errors.New("file too large")

// FileService reads uploaded or local files into memory. Nothing is written to disk.
type FileService interface {
	ReadUpload(file *multipart.FileHeader) (models.InputFile, error)
	ReadLocal(path string) (models.InputFile, error)
	// ExpandPaths replaces every directory with the PDFs and images directly inside it.
	ExpandPaths(paths []string) ([]string, error)
}

type fileService struct {
	maxFileSize int64
}

func NewFileService(maxFileSize int64) FileService {
	return &fileService{maxFileSize: maxFileSize}
}

func (s *fileService) ReadUpload(file *multipart.FileHeader) (models.InputFile, error) {
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return models.InputFile{}, fmt.Errorf("%s: %w (max %d bytes)", file.Filename, ErrFileTooLarge, s.maxFileSize)
	}

	src, err := file.Open()
	if err != nil {
		return models.InputFile{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	content, err := s.readAll(src, file.Filename)
	if err != nil {
		return models.InputFile{}, err
	}

	return models.InputFile{
		Name:     file.Filename,
		MimeType: ResolveMimeType(file.Filename, file.Header.Get("Content-Type")),
		Content:  content,
	}, nil
}

func (s *fileService) ReadLocal(path string) (models.InputFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.InputFile{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	content, err := s.readAll(f, path)
	if err != nil {
		return models.InputFile{}, err
	}

	return models.InputFile{
		Name:     filepath.Base(path),
		MimeType: ResolveMimeType(path, ""),
		Content:  content,
	}, nil
}

func (s *fileService) ExpandPaths(paths []string) ([]string, error) {
	var expanded []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", p, err)
		}
		if !info.IsDir() {
			expanded = append(expanded, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		var inDir []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if models.KindOf(ResolveMimeType(entry.Name(), "")) == models.FileKindUnsupported {
				continue
			}
			inDir = append(inDir, filepath.Join(p, entry.Name()))
		}
		sort.Strings(inDir)
		expanded = append(expanded, inDir...)
	}
	return expanded, nil
}

func (s *fileService) readAll(r io.Reader, name string) ([]byte, error) {
	if s.maxFileSize <= 0 {
		return io.ReadAll(r)
	}
	content, err := io.ReadAll(io.LimitReader(r, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(content)) > s.maxFileSize {
		return nil, fmt.Errorf("%s: %w (max %d bytes)", name, ErrFileTooLarge, s.maxFileSize)
	}
	return content, nil
}

// ResolveMimeType prefers the declared type and falls back to the file extension.
func ResolveMimeType(name, declared string) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
			return mediaType
		}
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return "application/octet-stream"
	}
	if mediaType, _, err := mime.ParseMediaType(mime.TypeByExtension(ext)); err == nil {
		return mediaType
	}
	return "application/octet-stream"
}
