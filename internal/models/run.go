package models

import (
	"time"

	"github.com/google/uuid"
)

// PipelineState is the orchestrator state. StateQueued only applies to server runs
// waiting for a free worker.
type PipelineState string

const (
	StateQueued     PipelineState = "queued"
	StateIdle       PipelineState = "idle"
	StateValidating PipelineState = "validating"
	StateCollecting PipelineState = "collecting"
	StateExtracting PipelineState = "extracting"
	StateSucceeded  PipelineState = "succeeded"
	StateFailed     PipelineState = "failed"
)

func (s PipelineState) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// PipelineResult is the outcome of one run: records or an error, never both.
type PipelineResult struct {
	Records []StudentRecord
	Err     error
}

func (r PipelineResult) Succeeded() bool {
	return r.Err == nil
}

// Run tracks one server-side extraction run.
type Run struct {
	ID           uuid.UUID
	Status       PipelineState
	Progress     string
	FileNames    []string
	Records      []StudentRecord
	ErrorKind    ErrorKind
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ExtractionJob is what the worker pulls off its queue. Files stay in memory only.
type ExtractionJob struct {
	RunID uuid.UUID
	Files []InputFile
}
