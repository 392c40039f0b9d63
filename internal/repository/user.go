package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"mixes-tracker/internal/steamid"
)

// UserRepository manages the roster of tracked players.
type UserRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewUserRepository(db *sql.DB, logger zerolog.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Add registers a player to be tracked. It returns false when a user with
// the same steam id or discord id already exists.
func (r *UserRepository) Add(ctx context.Context, id steamid.SteamID, discordID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE steam_id = ? OR discord_id = ?",
		int64(id.ID64()), int64(discordID),
	).Scan(&one)
	if err == nil {
		r.logger.Debug().Str("steam_id", id.ID64String()).Msg("user already tracked")
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to check for existing user: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO users (steam_id, discord_id) VALUES (?, ?)",
		int64(id.ID64()), int64(discordID),
	); err != nil {
		return false, fmt.Errorf("failed to insert user: %w", err)
	}

	r.logger.Info().Str("steam_id", id.ID64String()).Uint64("discord_id", discordID).Msg("user added")
	return true, nil
}

// Remove deletes a tracked player. It returns false when the id was not
// tracked; stored stats are kept.
func (r *UserRepository) Remove(ctx context.Context, id steamid.SteamID) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE steam_id = ?", int64(id.ID64()))
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// TrackedIDs lists the steam ids of every tracked player. A stored id that
// no longer decodes is data corruption and surfaces as an error rather than
// being skipped.
func (r *UserRepository) TrackedIDs(ctx context.Context) ([]steamid.SteamID, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT steam_id FROM users ORDER BY steam_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var ids []steamid.SteamID
	for rows.Next() {
		var raw int64
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := steamid.FromID64(uint64(raw))
		if err != nil {
			return nil, fmt.Errorf("corrupt roster entry %d: %w", raw, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
