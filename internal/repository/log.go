package repository

import (
	"context"
	"database/sql"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"mixes-tracker/internal/class"
	"mixes-tracker/internal/domain"
	"mixes-tracker/internal/performance"
)

// LogRepository persists downloaded logs and their normalized stats rows.
type LogRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewLogRepository(db *sql.DB, logger zerolog.Logger) *LogRepository {
	return &LogRepository{db: db, logger: logger}
}

// KnownLogIDs lists every stored log id, sorted descending, the order the
// deduplication scan expects.
func (r *LogRepository) KnownLogIDs(ctx context.Context) ([]uint32, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT log_id FROM logs ORDER BY log_id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query known log ids: %w", err)
	}
	defer rows.Close()

	var ids []uint32
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, uint32(id))
	}
	return ids, rows.Err()
}

// SaveLog writes one log and all of its per-player stats rows in a single
// transaction. The log id is the primary key, so a second write of the same
// id fails instead of duplicating data.
func (r *LogRepository) SaveLog(ctx context.Context, log *domain.Log) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO logs (log_id, played_at, map, player_count, length_secs) VALUES (?, ?, ?, ?, ?)",
		int64(log.LogID), log.PlayedAt, log.Map, log.PlayerCount, log.DurationSecs,
	); err != nil {
		return fmt.Errorf("failed to insert log %d: %w", log.LogID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO stats (
		id, log_id, steam_id, kind, class,
		won_rounds, num_rounds, damage, healing, damage_taken,
		kills, assists, deaths, medkits, medkits_hp,
		ubers, drops, avg_uber_length, time_played_secs
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare stats insert: %w", err)
	}
	defer stmt.Close()

	for playerID, entries := range log.Performances {
		for _, entry := range entries {
			rowID, err := gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate stats row id: %w", err)
			}
			row := statsRow(entry)
			if _, err := stmt.ExecContext(ctx,
				rowID, int64(log.LogID), int64(playerID.ID64()), int(entry.Kind), row.class,
				entry.Generic.WonRounds, entry.Generic.NumRounds, row.damage, row.healing, entry.Generic.DamageTaken,
				row.kills, row.assists, row.deaths, row.medkits, row.medkitsHP,
				row.ubers, row.drops, row.avgUberLength, row.timePlayedSecs,
			); err != nil {
				return fmt.Errorf("failed to insert stats row for %s in log %d: %w",
					playerID.ID64String(), log.LogID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit log %d: %w", log.LogID, err)
	}

	r.logger.Debug().Uint32("log_id", log.LogID).Int("players", len(log.Performances)).Msg("log saved")
	return nil
}

type flatStats struct {
	class          sql.NullInt64
	damage         int
	healing        int
	kills          int
	assists        int
	deaths         int
	medkits        int
	medkitsHP      int
	ubers          int
	drops          int
	avgUberLength  float64
	timePlayedSecs int
}

// statsRow flattens one tagged performance entry onto the stats columns.
func statsRow(entry performance.Entry) flatStats {
	var row flatStats
	switch entry.Kind {
	case performance.KindOverall:
		row.damage = entry.Overall.Damage
		row.kills = entry.Overall.Kills
		row.deaths = entry.Overall.Deaths
		row.medkits = entry.Overall.Medkits
		row.medkitsHP = entry.Overall.MedkitsHP
	case performance.KindClass:
		row.class = sql.NullInt64{Int64: int64(entry.Class.Class), Valid: true}
		row.damage = entry.Class.Damage
		row.kills = entry.Class.Kills
		row.assists = entry.Class.Assists
		row.deaths = entry.Class.Deaths
		row.timePlayedSecs = entry.Class.TimePlayedSecs
	case performance.KindMedic:
		row.class = sql.NullInt64{Int64: int64(class.Medic), Valid: true}
		row.healing = entry.Medic.Healing
		row.deaths = entry.Medic.Deaths
		row.ubers = entry.Medic.Ubers
		row.drops = entry.Medic.Drops
		row.avgUberLength = entry.Medic.AvgUberLengthSecs
		row.timePlayedSecs = entry.Medic.TimePlayedSecs
	}
	return row
}
