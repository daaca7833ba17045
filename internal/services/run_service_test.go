package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
	"alfredoptarigan/hsu-leads-ocr/internal/repositories"
)

// progressLog wraps a repository to observe intermediate progress writes.
type progressLog struct {
	repositories.RunRepository

	mu     sync.Mutex
	states []models.PipelineState
}

func (p *progressLog) UpdateProgress(id uuid.UUID, status models.PipelineState, progress string) error {
	p.mu.Lock()
	p.states = append(p.states, status)
	p.mu.Unlock()
	return p.RunRepository.UpdateProgress(id, status, progress)
}

func newQueuedRun(t *testing.T, repo repositories.RunRepository) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, repo.Create(&models.Run{ID: id, Status: models.StateQueued, FileNames: []string{"a.pdf"}}))
	return id
}

func TestRunService_RecordsResult(t *testing.T) {
	repo := &progressLog{RunRepository: repositories.NewRunRepository()}
	id := newQueuedRun(t, repo)
	want := []models.StudentRecord{{HoTen: "A"}}

	svc := NewRunService(repo, func() *Orchestrator {
		return NewOrchestrator(&fakeCollector{parts: jpegParts(1)}, &fakeExtractor{records: want})
	})

	err := svc.ProcessRun(context.Background(), models.ExtractionJob{RunID: id, Files: []models.InputFile{pdfFile("a.pdf")}})
	require.NoError(t, err)

	run, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, models.StateSucceeded, run.Status)
	assert.Equal(t, want, run.Records)
	assert.Empty(t, run.ErrorKind)

	assert.NotContains(t, repo.states, models.StateIdle)
	assert.NotContains(t, repo.states, models.StateSucceeded)
	assert.Contains(t, repo.states, models.StateCollecting)
	assert.Contains(t, repo.states, models.StateExtracting)
}

func TestRunService_RecordsError(t *testing.T) {
	repo := repositories.NewRunRepository()
	id := newQueuedRun(t, repo)

	svc := NewRunService(repo, func() *Orchestrator {
		return NewOrchestrator(&fakeCollector{err: models.DocumentParseError("a.pdf", errors.New("bad xref"))}, &fakeExtractor{})
	})

	err := svc.ProcessRun(context.Background(), models.ExtractionJob{RunID: id, Files: []models.InputFile{pdfFile("a.pdf")}})
	assert.Equal(t, models.KindDocumentParse, models.KindOfError(err))

	run, findErr := repo.FindByID(id)
	require.NoError(t, findErr)
	assert.Equal(t, models.StateFailed, run.Status)
	assert.Equal(t, models.KindDocumentParse, run.ErrorKind)
	assert.Contains(t, run.ErrorMessage, "a.pdf")
	assert.NotContains(t, run.ErrorMessage, "bad xref")
}

func TestRunService_UnknownRun(t *testing.T) {
	svc := NewRunService(repositories.NewRunRepository(), func() *Orchestrator {
		return NewOrchestrator(&fakeCollector{parts: jpegParts(1)}, &fakeExtractor{})
	})

	err := svc.ProcessRun(context.Background(), models.ExtractionJob{RunID: uuid.New(), Files: []models.InputFile{pdfFile("a.pdf")}})

	assert.ErrorIs(t, err, repositories.ErrRunNotFound)
}
