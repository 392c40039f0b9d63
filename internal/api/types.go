package api

import "time"

// LogSummary is the lightweight match metadata returned by the archive's
// search endpoint. It is never mutated after creation; the discovery pipeline
// filters on it before deciding which logs to download in full.
type LogSummary struct {
	ID          uint32
	PlayedAt    time.Time
	Map         string
	PlayerCount int
}

type searchResponse struct {
	Success bool          `json:"success"`
	Error   string        `json:"error"`
	Results int           `json:"results"`
	Logs    []searchEntry `json:"logs"`
}

type searchEntry struct {
	ID      uint32 `json:"id"`
	Date    int64  `json:"date"`
	Map     string `json:"map"`
	Players int    `json:"players"`
}

// RawLog is the full match document as served by the archive's per-id
// download endpoint. Zero-valued counters are omitted upstream, so every
// numeric field decodes to 0 when absent.
type RawLog struct {
	Success bool                 `json:"success"`
	Error   string               `json:"error"`
	Info    RawInfo              `json:"info"`
	Teams   map[string]RawTeam   `json:"teams"`
	Players map[string]RawPlayer `json:"players"`
	Names   map[string]string    `json:"names"`
}

type RawInfo struct {
	Map         string `json:"map"`
	TotalLength int    `json:"total_length"`
	Date        int64  `json:"date"`
}

type RawTeam struct {
	Score int `json:"score"`
}

type RawPlayer struct {
	Team        string          `json:"team"`
	Kills       int             `json:"kills"`
	Assists     int             `json:"assists"`
	Deaths      int             `json:"deaths"`
	Damage      int             `json:"dmg"`
	DamageTaken int             `json:"dt"`
	Medkits     int             `json:"medkits"`
	MedkitsHP   int             `json:"medkits_hp"`
	Healing     int             `json:"heal"`
	Ubers       int             `json:"ubers"`
	Drops       int             `json:"drops"`
	ClassStats  []RawClassStats `json:"class_stats"`
	MedicStats  *RawMedicStats  `json:"medicstats"`
}

type RawClassStats struct {
	Type      string `json:"type"`
	Kills     int    `json:"kills"`
	Assists   int    `json:"assists"`
	Deaths    int    `json:"deaths"`
	Damage    int    `json:"dmg"`
	TotalTime int    `json:"total_time"`
}

type RawMedicStats struct {
	AvgUberLength float64 `json:"avg_uber_length"`
}
