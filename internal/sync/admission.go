package sync

import (
	"sort"

	"mixes-tracker/internal/api"
	"mixes-tracker/internal/steamid"
)

// AdmissionPolicy decides which discovered logs are worth downloading.
type AdmissionPolicy struct {
	// MinRatio is the minimum fraction of a log's players that must belong to
	// the tracked roster, within [0,1]. 0 admits every log passing the player
	// window, 1 only logs where every participant is tracked.
	MinRatio float64
	// MinPlayers and MaxPlayers bound the player count inclusively, selecting
	// the intended game format.
	MinPlayers int
	MaxPlayers int
}

// Tally counts, per log id, under how many tracked players' search results
// the log appeared. One LogSummary per id is retained.
type Tally struct {
	Summary     api.LogSummary
	Occurrences int
}

// BuildTally merges the per-user deduplicated search results into a tally
// keyed by log id, incrementing once per tracked player whose own results
// contained that id.
func BuildTally(perUser map[steamid.SteamID][]api.LogSummary) map[uint32]*Tally {
	tallies := make(map[uint32]*Tally)
	for _, summaries := range perUser {
		for _, summary := range summaries {
			if t, ok := tallies[summary.ID]; ok {
				t.Occurrences++
			} else {
				tallies[summary.ID] = &Tally{Summary: summary, Occurrences: 1}
			}
		}
	}
	return tallies
}

// Admit keeps the tallied logs whose player count lies within the policy's
// window and whose participation ratio reaches MinRatio. A player count of
// zero is never admitted. The result is ordered descending by log id.
func (p AdmissionPolicy) Admit(tallies map[uint32]*Tally) []api.LogSummary {
	admitted := make([]api.LogSummary, 0, len(tallies))
	for _, t := range tallies {
		count := t.Summary.PlayerCount
		if count <= 0 || count < p.MinPlayers || count > p.MaxPlayers {
			continue
		}
		if float64(t.Occurrences)/float64(count) >= p.MinRatio {
			admitted = append(admitted, t.Summary)
		}
	}

	sort.Slice(admitted, func(i, j int) bool { return admitted[i].ID > admitted[j].ID })
	return admitted
}
