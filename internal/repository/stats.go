package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"mixes-tracker/internal/class"
	"mixes-tracker/internal/domain"
	"mixes-tracker/internal/performance"
	"mixes-tracker/internal/steamid"
)

// StatsRepository serves per-class performance reports.
type StatsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewStatsRepository(db *sql.DB, logger zerolog.Logger) *StatsRepository {
	return &StatsRepository{db: db, logger: logger}
}

// ClassPerformance returns the player's most recent performances on the
// given class, newest log first, at most limit rows. Damage and kill numbers
// are specific to the class; the round data spans each whole log.
func (r *StatsRepository) ClassPerformance(ctx context.Context, id steamid.SteamID, cls class.Class, limit int) ([]domain.ClassPerformance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.log_id, l.played_at, l.map,
		       s.won_rounds, s.num_rounds,
		       s.kills, s.assists, s.deaths,
		       s.damage, s.damage_taken, s.time_played_secs
		FROM stats s
		JOIN logs l ON l.log_id = s.log_id
		WHERE s.steam_id = ? AND s.kind = ? AND s.class = ?
		ORDER BY s.log_id DESC
		LIMIT ?`,
		int64(id.ID64()), int(performance.KindClass), int64(cls), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query class performance: %w", err)
	}
	defer rows.Close()

	var report []domain.ClassPerformance
	for rows.Next() {
		row := domain.ClassPerformance{Class: cls, ClassName: cls.String()}
		var logID int64
		if err := rows.Scan(
			&logID, &row.PlayedAt, &row.Map,
			&row.WonRounds, &row.NumRounds,
			&row.Kills, &row.Assists, &row.Deaths,
			&row.Damage, &row.DamageTaken, &row.TimePlayedSecs,
		); err != nil {
			return nil, err
		}
		row.LogID = uint32(logID)
		report = append(report, row)
	}
	return report, rows.Err()
}
