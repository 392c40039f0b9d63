// Package performance turns one raw per-player match record into typed
// performance entries. A player yields one overall entry, one entry per class
// they occupied during the log, and a medic entry when the healing statistics
// block is present.
package performance

import (
	"fmt"

	"mixes-tracker/internal/api"
	"mixes-tracker/internal/class"
)

// Kind discriminates the closed set of entry shapes.
type Kind uint8

const (
	KindOverall Kind = iota
	KindClass
	KindMedic
)

func (k Kind) String() string {
	switch k {
	case KindOverall:
		return "overall"
	case KindClass:
		return "class"
	case KindMedic:
		return "medic"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Generic is the sub-record shared by every entry of one (player, log) pair.
// It is computed once from the match score and the player's team assignment
// and is identical across all entries of that pair.
type Generic struct {
	WonRounds   int
	NumRounds   int
	DamageTaken int
}

// Overall aggregates the player's stats across the whole log.
type Overall struct {
	Damage    int
	Kills     int
	Deaths    int
	Medkits   int
	MedkitsHP int
}

// ClassStats covers the time the player spent on one particular class.
type ClassStats struct {
	Class          class.Class
	Kills          int
	Assists        int
	Deaths         int
	Damage         int
	TimePlayedSecs int
}

// MedicStats covers the healing game, present only for players with a
// medicstats block.
type MedicStats struct {
	Healing           int
	AvgUberLengthSecs float64
	Ubers             int
	Drops             int
	Deaths            int
	TimePlayedSecs    int
}

// Entry is a tagged variant over the three shapes. Exactly one of the
// variant pointers matching Kind is set; Generic is always populated.
type Entry struct {
	Kind    Kind
	Generic Generic
	Overall *Overall
	Class   *ClassStats
	Medic   *MedicStats
}

// Extract normalizes one player's raw record within one log. It always emits
// exactly one overall entry, one class entry per class_stats element, and a
// medic entry iff both the medicstats block and a medic class block exist.
// Counters the archive omitted have already decoded to zero.
func Extract(score Score, raw *api.RawPlayer) ([]Entry, error) {
	team, err := ParseTeam(raw.Team)
	if err != nil {
		return nil, err
	}

	won := score.ForTeam(team)
	lost := score.ForTeam(team.Other())
	generic := Generic{
		WonRounds:   won,
		NumRounds:   won + lost,
		DamageTaken: raw.DamageTaken,
	}

	entries := make([]Entry, 0, len(raw.ClassStats)+2)
	entries = append(entries, Entry{
		Kind:    KindOverall,
		Generic: generic,
		Overall: &Overall{
			Damage:    raw.Damage,
			Kills:     raw.Kills,
			Deaths:    raw.Deaths,
			Medkits:   raw.Medkits,
			MedkitsHP: raw.MedkitsHP,
		},
	})

	var medicBlock *api.RawClassStats
	for i, cs := range raw.ClassStats {
		played, err := class.Parse(cs.Type)
		if err != nil {
			return nil, err
		}
		if played == class.Medic {
			medicBlock = &raw.ClassStats[i]
		}
		entries = append(entries, Entry{
			Kind:    KindClass,
			Generic: generic,
			Class: &ClassStats{
				Class:          played,
				Kills:          cs.Kills,
				Assists:        cs.Assists,
				Deaths:         cs.Deaths,
				Damage:         cs.Damage,
				TimePlayedSecs: cs.TotalTime,
			},
		})
	}

	if raw.MedicStats != nil && medicBlock != nil {
		entries = append(entries, Entry{
			Kind:    KindMedic,
			Generic: generic,
			Medic: &MedicStats{
				Healing:           raw.Healing,
				AvgUberLengthSecs: raw.MedicStats.AvgUberLength,
				Ubers:             raw.Ubers,
				Drops:             raw.Drops,
				Deaths:            medicBlock.Deaths,
				TimePlayedSecs:    medicBlock.TotalTime,
			},
		})
	}

	return entries, nil
}
