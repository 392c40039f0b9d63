package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"mixes-tracker/internal/constants"
	"mixes-tracker/internal/repository"
	"mixes-tracker/internal/steamid"
)

// RosterService manages the set of tracked players. Identifiers arrive in
// any of the textual steam id forms.
type RosterService struct {
	users  *repository.UserRepository
	logger zerolog.Logger
}

func NewRosterService(users *repository.UserRepository, logger zerolog.Logger) *RosterService {
	return &RosterService{users: users, logger: logger}
}

// AddUser parses the steam id text and registers the player. The returned
// bool is false when the player (or discord id) is already tracked.
func (s *RosterService) AddUser(ctx context.Context, steamText string, discordID uint64) (steamid.SteamID, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	id, err := steamid.Parse(steamText)
	if err != nil {
		return steamid.SteamID{}, false, fmt.Errorf("invalid steam id: %w", err)
	}

	added, err := s.users.Add(ctx, id, discordID)
	if err != nil {
		s.logger.Error().Err(err).Str("steam_id", id.ID64String()).Msg("failed to add user")
		return steamid.SteamID{}, false, err
	}
	return id, added, nil
}

// RemoveUser unregisters a player; their already-stored stats are kept.
func (s *RosterService) RemoveUser(ctx context.Context, steamText string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	id, err := steamid.Parse(steamText)
	if err != nil {
		return false, fmt.Errorf("invalid steam id: %w", err)
	}

	removed, err := s.users.Remove(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("steam_id", id.ID64String()).Msg("failed to remove user")
		return false, err
	}
	return removed, nil
}
