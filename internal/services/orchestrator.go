package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
)

// ErrRunInProgress is returned by Run when the orchestrator is already busy.
var ErrRunInProgress = errors.New("an extraction run is already in progress")

const progressStarting = "Starting process..."

// Snapshot is what subscribers see after every change.
type Snapshot struct {
	State    models.PipelineState
	Loading  bool
	Progress string
	// Detail is set while files are being collected.
	Detail *models.ExtractionProgress
	// Result holds the outcome of the last finished run until the next run starts.
	Result *models.PipelineResult
}

// Orchestrator drives one run at a time through
// Idle → Validating → Collecting → Extracting → Succeeded | Failed → Idle.
type Orchestrator struct {
	collector ImageCollector
	extractor RecordExtractor

	mu          sync.Mutex
	running     bool
	snapshot    Snapshot
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

func NewOrchestrator(collector ImageCollector, extractor RecordExtractor) *Orchestrator {
	return &Orchestrator{
		collector:   collector,
		extractor:   extractor,
		snapshot:    Snapshot{State: models.StateIdle},
		subscribers: make(map[int]func(Snapshot)),
	}
}

// Subscribe registers fn for every snapshot change. fn runs on the goroutine calling Run.
func (o *Orchestrator) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextSubID
	o.nextSubID++
	o.subscribers[id] = fn

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subscribers, id)
	}
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot
}

// Run executes the whole pipeline for files. The context is only used for the
// extraction request. Loading and progress are always cleared when Run returns,
// and a panic in a stage is reported as an unclassified failure.
func (o *Orchestrator) Run(ctx context.Context, files []models.InputFile) (result models.PipelineResult) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return models.PipelineResult{Err: ErrRunInProgress}
	}
	o.running = true
	o.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			result = models.PipelineResult{
				Err: models.NewExtractionError(models.KindUnclassified, fmt.Errorf("panic: %v", r)),
			}
		}
		o.finish(result)
	}()

	o.update(func(s *Snapshot) {
		*s = Snapshot{State: models.StateValidating}
	})

	if len(files) == 0 {
		return models.PipelineResult{Err: models.NewExtractionError(models.KindNoFilesSelected, nil)}
	}

	o.update(func(s *Snapshot) {
		s.State = models.StateCollecting
		s.Loading = true
		s.Progress = progressStarting
	})

	parts, err := o.collector.Collect(files, func(p models.ExtractionProgress) {
		if p.Stage == models.StageConvertingPDF && p.TotalPages == 0 {
			return
		}
		detail := p
		o.update(func(s *Snapshot) {
			s.Progress = p.Message()
			s.Detail = &detail
		})
	})
	if err != nil {
		return models.PipelineResult{Err: asExtractionError(err)}
	}
	if len(parts) == 0 {
		return models.PipelineResult{Err: models.NewExtractionError(models.KindEmptyResult, nil)}
	}

	o.update(func(s *Snapshot) {
		s.State = models.StateExtracting
		s.Progress = analyzingMessage(len(parts))
		s.Detail = nil
	})

	records, err := o.extractor.Extract(ctx, parts)
	if err != nil {
		return models.PipelineResult{Err: asExtractionError(err)}
	}

	return models.PipelineResult{Records: records}
}

func (o *Orchestrator) finish(result models.PipelineResult) {
	terminal := models.StateSucceeded
	if result.Err != nil {
		terminal = models.StateFailed
		var extractionErr *models.ExtractionError
		if errors.As(result.Err, &extractionErr) {
			log.Warn().Str("kind", string(extractionErr.Kind)).Msg("❌ Extraction run failed: " + extractionErr.Detail())
		}
	} else {
		log.Info().Int("records", len(result.Records)).Msg("✅ Extraction run succeeded")
	}

	o.update(func(s *Snapshot) {
		s.State = terminal
		s.Loading = false
		s.Progress = ""
		s.Detail = nil
		s.Result = &result
	})
	o.update(func(s *Snapshot) {
		s.State = models.StateIdle
	})

	o.mu.Lock()
	o.running = false
	o.mu.Unlock()
}

func (o *Orchestrator) update(mutate func(s *Snapshot)) {
	o.mu.Lock()
	mutate(&o.snapshot)
	snap := o.snapshot
	subs := make([]func(Snapshot), 0, len(o.subscribers))
	for _, fn := range o.subscribers {
		subs = append(subs, fn)
	}
	o.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func asExtractionError(err error) error {
	var extractionErr *models.ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr
	}
	return models.NewExtractionError(models.KindUnclassified, err)
}

func analyzingMessage(count int) string {
	pageText := fmt.Sprintf("%d pages/images", count)
	if count == 1 {
		pageText = "1 image"
	}
	return fmt.Sprintf("Analyzing your document(s) (%s) with Gemini...", pageText)
}
