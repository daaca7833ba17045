package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"alfredoptarigan/hsu-leads-ocr/internal/models"
	"alfredoptarigan/hsu-leads-ocr/internal/repositories"
)

// RunService executes queued extraction jobs and records their progress.
type RunService interface {
	ProcessRun(ctx context.Context, job models.ExtractionJob) error
}

type runService struct {
	runRepo     repositories.RunRepository
	newPipeline func() *Orchestrator
}

// NewRunService builds a fresh Orchestrator per job, so runs never share state.
func NewRunService(runRepo repositories.RunRepository, newPipeline func() *Orchestrator) RunService {
	return &runService{
		runRepo:     runRepo,
		newPipeline: newPipeline,
	}
}

func (s *runService) ProcessRun(ctx context.Context, job models.ExtractionJob) error {
	log.Info().Str("run_id", job.RunID.String()).Int("files", len(job.Files)).Msg("🔄 Starting extraction run")

	pipeline := s.newPipeline()
	unsubscribe := pipeline.Subscribe(func(snap Snapshot) {
		// Terminal states are written together with their result below.
		if snap.State == models.StateIdle || snap.State.Terminal() {
			return
		}
		if err := s.runRepo.UpdateProgress(job.RunID, snap.State, snap.Progress); err != nil {
			log.Warn().Err(err).Str("run_id", job.RunID.String()).Msg("⚠️ Failed to record progress")
		}
	})
	defer unsubscribe()

	result := pipeline.Run(ctx, job.Files)

	if result.Err != nil {
		kind := models.KindOfError(result.Err)
		if err := s.runRepo.UpdateError(job.RunID, kind, result.Err.Error()); err != nil {
			return fmt.Errorf("failed to save run error: %w", err)
		}
		return result.Err
	}

	if err := s.runRepo.UpdateResult(job.RunID, result.Records); err != nil {
		return fmt.Errorf("failed to save run result: %w", err)
	}

	log.Info().Str("run_id", job.RunID.String()).Int("records", len(result.Records)).Msg("✅ Extraction run completed")
	return nil
}
