package service

import (
	"context"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"mixes-tracker/internal/cache"
	"mixes-tracker/internal/constants"
	"mixes-tracker/internal/sync"
)

// SyncService runs the reconciliation pipeline and keeps the report cache
// coherent with it.
type SyncService struct {
	syncer *sync.Syncer
	cache  *cache.ReportCache
	logger zerolog.Logger
}

func NewSyncService(syncer *sync.Syncer, reportCache *cache.ReportCache, logger zerolog.Logger) *SyncService {
	return &SyncService{syncer: syncer, cache: reportCache, logger: logger}
}

// Run executes one sync pass. Cached reports are invalidated whenever new
// logs were persisted, even if the run aborted partway: those logs are
// permanent.
func (s *SyncService) Run(ctx context.Context) (sync.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.SyncTimeout)
	defer cancel()

	runID, err := gonanoid.New()
	if err != nil {
		return sync.Result{}, err
	}
	runLogger := s.logger.With().Str("run_id", runID).Logger()

	result, runErr := s.syncer.Run(runLogger.WithContext(ctx))
	result.RunID = runID

	if result.Persisted > 0 && s.cache != nil {
		if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
			runLogger.Warn().Err(err).Msg("failed to invalidate report cache")
		}
	}

	if runErr != nil {
		runLogger.Error().Err(runErr).Int("persisted", result.Persisted).Msg("sync run aborted")
		return result, runErr
	}
	return result, nil
}
