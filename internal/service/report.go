package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"mixes-tracker/internal/cache"
	"mixes-tracker/internal/class"
	"mixes-tracker/internal/constants"
	"mixes-tracker/internal/domain"
	"mixes-tracker/internal/repository"
	"mixes-tracker/internal/steamid"
)

// ReportService serves per-class performance reports, cached in Redis when
// a cache is configured.
type ReportService struct {
	stats  *repository.StatsRepository
	cache  *cache.ReportCache
	logger zerolog.Logger
}

func NewReportService(stats *repository.StatsRepository, reportCache *cache.ReportCache, logger zerolog.Logger) *ReportService {
	return &ReportService{stats: stats, cache: reportCache, logger: logger}
}

// ClassPerformance returns the player's most recent performances on one
// class, newest first, at most limit rows.
func (s *ReportService) ClassPerformance(ctx context.Context, steamText, classText string, limit int) ([]domain.ClassPerformance, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	id, err := steamid.Parse(steamText)
	if err != nil {
		return nil, fmt.Errorf("invalid steam id: %w", err)
	}
	cls, err := class.Parse(classText)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = constants.ReportLimitDefault
	}
	if limit > constants.ReportLimitMax {
		limit = constants.ReportLimitMax
	}

	if s.cache != nil {
		if report, ok := s.cache.GetClassPerformance(ctx, id, cls, limit); ok {
			s.logger.Debug().Str("steam_id", id.ID64String()).Str("class", cls.String()).Msg("serving cached report")
			return report, nil
		}
	}

	report, err := s.stats.ClassPerformance(ctx, id, cls, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("steam_id", id.ID64String()).Msg("failed to query class performance")
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetClassPerformance(ctx, id, cls, limit, report)
	}

	s.logger.Info().
		Str("steam_id", id.ID64String()).
		Str("class", cls.String()).
		Int("rows", len(report)).
		Msg("class performance report served")
	return report, nil
}
