package repositories

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
)

var ErrRunNotFound = errors.New("run not found")

type RunRepository interface {
	Create(run *models.Run) error
	FindByID(id uuid.UUID) (*models.Run, error)
	UpdateProgress(id uuid.UUID, status models.PipelineState, progress string) error
	UpdateResult(id uuid.UUID, records []models.StudentRecord) error
	UpdateError(id uuid.UUID, kind models.ErrorKind, errorMsg string) error
	DeleteOlderThan(cutoff time.Time) int
}

// runRepository keeps runs in process memory only. Runs do not survive a restart.
type runRepository struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*models.Run
	now  func() time.Time
}

func NewRunRepository() RunRepository {
	return &runRepository{
		runs: make(map[uuid.UUID]*models.Run),
		now:  time.Now,
	}
}

func (r *runRepository) Create(run *models.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.ID]; exists {
		return fmt.Errorf("failed to create run: duplicate id %s", run.ID)
	}

	now := r.now()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	run.UpdatedAt = now

	stored := *run
	r.runs[run.ID] = &stored
	return nil
}

func (r *runRepository) FindByID(id uuid.UUID) (*models.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}

	found := *run
	return &found, nil
}

func (r *runRepository) UpdateProgress(id uuid.UUID, status models.PipelineState, progress string) error {
	return r.update(id, func(run *models.Run) {
		run.Status = status
		run.Progress = progress
	})
}

func (r *runRepository) UpdateResult(id uuid.UUID, records []models.StudentRecord) error {
	return r.update(id, func(run *models.Run) {
		run.Status = models.StateSucceeded
		run.Progress = ""
		run.Records = records
		run.ErrorKind = ""
		run.ErrorMessage = ""
	})
}

func (r *runRepository) UpdateError(id uuid.UUID, kind models.ErrorKind, errorMsg string) error {
	return r.update(id, func(run *models.Run) {
		run.Status = models.StateFailed
		run.Progress = ""
		run.Records = nil
		run.ErrorKind = kind
		run.ErrorMessage = errorMsg
	})
}

// DeleteOlderThan drops finished runs last updated before cutoff and reports how many.
func (r *runRepository) DeleteOlderThan(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, run := range r.runs {
		if run.Status.Terminal() && run.UpdatedAt.Before(cutoff) {
			delete(r.runs, id)
			deleted++
		}
	}
	return deleted
}

func (r *runRepository) update(id uuid.UUID, mutate func(run *models.Run)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return ErrRunNotFound
	}

	mutate(run)
	run.UpdatedAt = r.now()
	return nil
}
