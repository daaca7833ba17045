package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
	"alfredoptarigan/hsu-leads-ocr/internal/repositories"
)

const runAbandonedMessage = "The server shut down before this run started. Please try again."

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(job models.ExtractionJob) bool
}

type worker struct {
	runRepo       repositories.RunRepository
	runService    RunService
	jobQueue      chan models.ExtractionJob
	concurrency   int
	retention     time.Duration
	sweepInterval time.Duration
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
}

func NewWorker(
	runRepo repositories.RunRepository,
	runService RunService,
	concurrency int,
	retention time.Duration,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &worker{
		runRepo:       runRepo,
		runService:    runService,
		jobQueue:      make(chan models.ExtractionJob, 100),
		concurrency:   concurrency,
		retention:     retention,
		sweepInterval: time.Minute,
		stopChan:      make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Info().Int("concurrency", w.concurrency).Msg("🚀 Starting worker")

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	if w.retention > 0 {
		w.wg.Add(1)
		go w.pruneExpiredRuns()
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Info().Msg("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		w.failPendingJobs()
		log.Info().Msg("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker. It reports false when the worker is stopped.
func (w *worker) EnqueueJob(job models.ExtractionJob) bool {
	select {
	case <-w.stopChan:
		log.Warn().Str("run_id", job.RunID.String()).Msg("⚠️ Worker stopped, cannot enqueue run")
		return false
	default:
	}

	select {
	case w.jobQueue <- job:
		log.Info().Str("run_id", job.RunID.String()).Msg("📥 Run enqueued")
		return true
	case <-w.stopChan:
		log.Warn().Str("run_id", job.RunID.String()).Msg("⚠️ Worker stopped, cannot enqueue run")
		return false
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Debug().Int("worker", workerID).Msg("👷 Worker stopped")
			return
		case job := <-w.jobQueue:
			w.processJob(ctx, workerID, job)
		}
	}
}

func (w *worker) processJob(ctx context.Context, workerID int, job models.ExtractionJob) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Int("worker", workerID).Str("run_id", job.RunID.String()).Msgf("💥 Run panicked: %v", r)
			_ = w.runRepo.UpdateError(job.RunID, models.KindUnclassified, models.KindUnclassified.UserMessage())
		}
	}()

	log.Info().Int("worker", workerID).Str("run_id", job.RunID.String()).Msg("👷 Processing run")
	if err := w.runService.ProcessRun(ctx, job); err != nil {
		log.Warn().Int("worker", workerID).Str("run_id", job.RunID.String()).Msg("❌ Run failed: " + err.Error())
	}
}

func (w *worker) pruneExpiredRuns() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			if n := w.runRepo.DeleteOlderThan(time.Now().Add(-w.retention)); n > 0 {
				log.Info().Int("runs", n).Msg("🧹 Pruned expired runs")
			}
		}
	}
}

// failPendingJobs marks runs still waiting in the queue as failed so they do not stay queued.
func (w *worker) failPendingJobs() {
	for {
		select {
		case job := <-w.jobQueue:
			log.Warn().Str("run_id", job.RunID.String()).Msg("⚠️ Dropping queued run on shutdown")
			if err := w.runRepo.UpdateError(job.RunID, models.KindUnclassified, runAbandonedMessage); err != nil {
				log.Warn().Err(err).Str("run_id", job.RunID.String()).Msg("⚠️ Failed to record dropped run")
			}
		default:
			return
		}
	}
}
