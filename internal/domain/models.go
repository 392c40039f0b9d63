package domain

import (
	"time"

	"mixes-tracker/internal/class"
	"mixes-tracker/internal/performance"
	"mixes-tracker/internal/steamid"
)

// User is one tracked roster member, keyed by steam id with an external
// discord reference.
type User struct {
	SteamID   steamid.SteamID
	DiscordID uint64
	CreatedAt time.Time
}

// Log is a fully downloaded match, normalized for persistence. It is owned by
// the sync run that assembled it until handed to the store, which writes each
// log id at most once.
type Log struct {
	LogID        uint32
	PlayedAt     time.Time
	Map          string
	PlayerCount  int
	DurationSecs int
	Performances map[steamid.SteamID][]performance.Entry
}

// ClassPerformance is one row of a per-class report: what a player did on one
// class during one log. The round data spans the whole log, not only the time
// on that class.
type ClassPerformance struct {
	LogID          uint32      `json:"log_id"`
	PlayedAt       time.Time   `json:"played_at"`
	Map            string      `json:"map"`
	Class          class.Class `json:"-"`
	ClassName      string      `json:"class"`
	WonRounds      int         `json:"won_rounds"`
	NumRounds      int         `json:"num_rounds"`
	Kills          int         `json:"kills"`
	Assists        int         `json:"assists"`
	Deaths         int         `json:"deaths"`
	Damage         int         `json:"damage"`
	DamageTaken    int         `json:"damage_taken"`
	TimePlayedSecs int         `json:"time_played_secs"`
}
