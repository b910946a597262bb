package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SyncRetryWorker periodically re-syncs bills whose last accounting sync failed
type SyncRetryWorker struct {
	syncService *SyncService
	logger      zerolog.Logger
	schedule    string
	maxAttempts int32
	batchSize   int32
	runTimeout  time.Duration
	cron        *cron.Cron
	mu          sync.Mutex
	running     bool
}

// SyncRetryWorkerConfig holds configuration for the sync retry worker
type SyncRetryWorkerConfig struct {
	Schedule    string // Cron spec, e.g. "@every 15m" or "*/10 * * * *"
	MaxAttempts int    // Bills that failed this many times are left for the operator
	BatchSize   int    // Bills retried per run
}

// DefaultSyncRetryWorkerConfig returns sensible defaults
func DefaultSyncRetryWorkerConfig() SyncRetryWorkerConfig {
	return SyncRetryWorkerConfig{
		Schedule:    "@every 15m",
		MaxAttempts: 5,
		BatchSize:   50,
	}
}

// NewSyncRetryWorker creates a new sync retry worker
func NewSyncRetryWorker(syncService *SyncService, logger zerolog.Logger, config SyncRetryWorkerConfig) *SyncRetryWorker {
	defaults := DefaultSyncRetryWorkerConfig()
	if config.Schedule == "" {
		config.Schedule = defaults.Schedule
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaults.MaxAttempts
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}

	return &SyncRetryWorker{
		syncService: syncService,
		logger:      logger.With().Str("component", "sync_retry_worker").Logger(),
		schedule:    config.Schedule,
		maxAttempts: int32(config.MaxAttempts),
		batchSize:   int32(config.BatchSize),
		runTimeout:  5 * time.Minute,
	}
}

// Start schedules the retry sweep. Runs never overlap; a run that is still going when the
// next one is due causes that one to be skipped.
func (w *SyncRetryWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(w.schedule, func() { w.runScheduled(ctx) }); err != nil {
		return fmt.Errorf("unable to schedule sync retry worker: %w", err)
	}

	w.cron = c
	w.running = true
	c.Start()

	w.logger.Info().
		Str("schedule", w.schedule).
		Int32("max_attempts", w.maxAttempts).
		Int32("batch_size", w.batchSize).
		Msg("Starting sync retry worker")
	return nil
}

// Stop stops scheduling and waits for a run in progress to finish
func (w *SyncRetryWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	c := w.cron
	w.running = false
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping sync retry worker")
	<-c.Stop().Done()
	w.logger.Info().Msg("Sync retry worker stopped")
}

// runScheduled is the cron job body
func (w *SyncRetryWorker) runScheduled(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, w.runTimeout)
	defer cancel()

	if _, err := w.RunOnce(runCtx); err != nil {
		w.logger.Error().Err(err).Msg("Sync retry run failed")
	}
}

// RunOnce retries one batch of failed syncs immediately
func (w *SyncRetryWorker) RunOnce(ctx context.Context) (*RetrySummary, error) {
	startTime := time.Now()
	summary, err := w.syncService.RetryFailed(ctx, w.maxAttempts, w.batchSize)
	if err != nil {
		return nil, err
	}

	if summary.Attempted > 0 {
		w.logger.Info().
			Int("attempted", summary.Attempted).
			Int("synced", summary.Synced).
			Int("failed", summary.Failed).
			Dur("elapsed", time.Since(startTime)).
			Msg("Completed sync retry run")
	}
	return summary, nil
}

// IsRunning returns whether the worker is currently scheduled
func (w *SyncRetryWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
