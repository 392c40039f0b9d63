// Package sync implements the incremental log-discovery pipeline: search the
// archive per tracked player, drop already-stored logs, admit the remainder
// by participation ratio, download, normalize and persist. Each run
// recomputes against the live set of known ids, so a log id is persisted at
// most once no matter how often the pipeline runs.
package sync

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"mixes-tracker/internal/api"
	"mixes-tracker/internal/constants"
	"mixes-tracker/internal/domain"
	"mixes-tracker/internal/performance"
	"mixes-tracker/internal/steamid"
)

// Fetcher is the read side of the upstream archive.
type Fetcher interface {
	SearchPlayerLogs(ctx context.Context, id steamid.SteamID, title string, limit int) ([]api.LogSummary, error)
	DownloadLog(ctx context.Context, logID uint32) (*api.RawLog, error)
}

// Roster lists the tracked players.
type Roster interface {
	TrackedIDs(ctx context.Context) ([]steamid.SteamID, error)
}

// LogStore is the persistence side of the pipeline. SaveLog must enforce
// uniqueness of the log id.
type LogStore interface {
	KnownLogIDs(ctx context.Context) ([]uint32, error)
	SaveLog(ctx context.Context, log *domain.Log) error
}

// Result summarizes one sync run.
type Result struct {
	TrackedPlayers int    `json:"tracked_players"`
	Candidates     int    `json:"candidates"`
	Admitted       int    `json:"admitted"`
	Persisted      int    `json:"persisted"`
	RunID          string `json:"run_id,omitempty"`
}

type Syncer struct {
	fetcher     Fetcher
	roster      Roster
	store       LogStore
	policy      AdmissionPolicy
	searchLimit int
	logger      zerolog.Logger
}

func NewSyncer(fetcher Fetcher, roster Roster, store LogStore, policy AdmissionPolicy, searchLimit int, logger zerolog.Logger) *Syncer {
	return &Syncer{
		fetcher:     fetcher,
		roster:      roster,
		store:       store,
		policy:      policy,
		searchLimit: searchLimit,
		logger:      logger,
	}
}

// Run executes one full reconciliation pass. An unrecovered error aborts the
// remaining work; logs persisted before the failure stay persisted, and the
// next run picks up from the stored state.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	if s.policy.MinRatio < 0 || s.policy.MinRatio > 1 {
		return Result{}, fmt.Errorf("min ratio must be within [0,1], got %v", s.policy.MinRatio)
	}

	ids, err := s.roster.TrackedIDs(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list tracked players: %w", err)
	}

	known, err := s.store.KnownLogIDs(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list known log ids: %w", err)
	}

	result := Result{TrackedPlayers: len(ids)}
	s.logger.Info().Int("tracked_players", len(ids)).Int("known_logs", len(known)).Msg("sync run started")

	perUser := make(map[steamid.SteamID][]api.LogSummary, len(ids))
	for _, id := range ids {
		summaries, err := s.fetcher.SearchPlayerLogs(ctx, id, "", s.searchLimit)
		if err != nil {
			return result, fmt.Errorf("failed to search logs for %s: %w", id.ID64String(), err)
		}
		fresh := RemoveKnown(summaries, known)
		result.Candidates += len(fresh)
		perUser[id] = fresh
	}

	admitted := s.policy.Admit(BuildTally(perUser))
	result.Admitted = len(admitted)
	s.logger.Info().Int("candidates", result.Candidates).Int("admitted", len(admitted)).Msg("logs admitted")

	persisted, err := s.downloadAndPersist(ctx, admitted)
	result.Persisted = persisted
	if err != nil {
		return result, err
	}

	s.logger.Info().Int("persisted", persisted).Msg("sync run completed")
	return result, nil
}

// downloadAndPersist downloads admitted logs one by one (the fetcher paces
// the calls) and persists them in parallel across distinct log ids.
func (s *Syncer) downloadAndPersist(ctx context.Context, admitted []api.LogSummary) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.PersistWorkers)

	var persisted atomic.Int64
	var runErr error
	for _, summary := range admitted {
		if gctx.Err() != nil {
			break
		}

		raw, err := s.fetcher.DownloadLog(gctx, summary.ID)
		if err != nil {
			runErr = fmt.Errorf("failed to download log %d: %w", summary.ID, err)
			break
		}

		log, err := buildLog(summary, raw)
		if err != nil {
			runErr = fmt.Errorf("failed to extract log %d: %w", summary.ID, err)
			break
		}

		g.Go(func() error {
			if err := s.store.SaveLog(gctx, log); err != nil {
				return fmt.Errorf("failed to persist log %d: %w", log.LogID, err)
			}
			persisted.Add(1)
			s.logger.Debug().Uint32("log_id", log.LogID).Str("map", log.Map).Msg("log persisted")
			return nil
		})
	}

	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	return int(persisted.Load()), runErr
}

// buildLog normalizes one downloaded match document into its persistent
// form: the score is derived once, then every player record is extracted
// into typed performance entries.
func buildLog(summary api.LogSummary, raw *api.RawLog) (*domain.Log, error) {
	score, err := performance.ScoreFromLog(raw)
	if err != nil {
		return nil, err
	}

	performances := make(map[steamid.SteamID][]performance.Entry, len(raw.Players))
	for idText, player := range raw.Players {
		id, err := steamid.Parse(idText)
		if err != nil {
			return nil, fmt.Errorf("player id %q: %w", idText, err)
		}
		entries, err := performance.Extract(score, &player)
		if err != nil {
			return nil, fmt.Errorf("player %s: %w", idText, err)
		}
		performances[id] = entries
	}

	return &domain.Log{
		LogID:        summary.ID,
		PlayedAt:     summary.PlayedAt,
		Map:          summary.Map,
		PlayerCount:  summary.PlayerCount,
		DurationSecs: raw.Info.TotalLength,
		Performances: performances,
	}, nil
}
