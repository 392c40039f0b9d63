package sync

import "mixes-tracker/internal/api"

// RemoveKnown filters out of candidates every summary whose id is already
// stored. Both inputs must be sorted descending by id; the scan is a single
// two-pointer merge over the pair, linear in the combined length, and neither
// sequence needs to be a subset of the other. Relative order is preserved.
func RemoveKnown(candidates []api.LogSummary, knownIDs []uint32) []api.LogSummary {
	kept := make([]api.LogSummary, 0, len(candidates))

	i, j := 0, 0
	for i < len(candidates) && j < len(knownIDs) {
		switch {
		case candidates[i].ID == knownIDs[j]:
			// Already stored, drop it.
			i++
			j++
		case candidates[i].ID > knownIDs[j]:
			// Sorted descending: a greater candidate id cannot occur further
			// down knownIDs, so it is new.
			kept = append(kept, candidates[i])
			i++
		default:
			// A lesser candidate id may still match a smaller known id.
			j++
		}
	}

	return append(kept, candidates[i:]...)
}
