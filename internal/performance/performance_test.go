package performance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixes-tracker/internal/api"
	"mixes-tracker/internal/class"
)

func TestScoreFromLog(t *testing.T) {
	raw := &api.RawLog{Teams: map[string]api.RawTeam{
		"Red":  {Score: 3},
		"Blue": {Score: 2},
	}}

	score, err := ScoreFromLog(raw)
	require.NoError(t, err)
	assert.Equal(t, 3, score.ForTeam(TeamRed))
	assert.Equal(t, 2, score.ForTeam(TeamBlue))
}

func TestScoreFromLogMissingTeam(t *testing.T) {
	_, err := ScoreFromLog(&api.RawLog{Teams: map[string]api.RawTeam{"Red": {Score: 3}}})
	require.Error(t, err)

	_, err = ScoreFromLog(&api.RawLog{Teams: map[string]api.RawTeam{"Blu": {}, "Red": {}}})
	require.Error(t, err)
}

func TestParseTeam(t *testing.T) {
	for input, want := range map[string]Team{
		"Red": TeamRed, "red": TeamRed, " RED ": TeamRed,
		"Blue": TeamBlue, "blue": TeamBlue,
	} {
		team, err := ParseTeam(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, team, input)
	}

	_, err := ParseTeam("Spectator")
	require.Error(t, err)
}

func TestExtractScoutPlayer(t *testing.T) {
	score := NewScore(3, 2)
	raw := &api.RawPlayer{
		Team:        "Red",
		Kills:       4,
		Deaths:      2,
		Damage:      500,
		DamageTaken: 300,
		ClassStats: []api.RawClassStats{
			{Type: "scout", Kills: 4, Assists: 1, Deaths: 2, Damage: 500, TotalTime: 1700},
		},
	}

	entries, err := Extract(score, raw)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	overall := entries[0]
	assert.Equal(t, KindOverall, overall.Kind)
	assert.Equal(t, Generic{WonRounds: 3, NumRounds: 5, DamageTaken: 300}, overall.Generic)
	require.NotNil(t, overall.Overall)
	assert.Equal(t, Overall{Damage: 500, Kills: 4, Deaths: 2}, *overall.Overall)
	assert.Nil(t, overall.Class)
	assert.Nil(t, overall.Medic)

	scout := entries[1]
	assert.Equal(t, KindClass, scout.Kind)
	assert.Equal(t, overall.Generic, scout.Generic)
	require.NotNil(t, scout.Class)
	assert.Equal(t, ClassStats{
		Class:          class.Scout,
		Kills:          4,
		Assists:        1,
		Deaths:         2,
		Damage:         500,
		TimePlayedSecs: 1700,
	}, *scout.Class)
}

func TestExtractBlueTeamGeneric(t *testing.T) {
	entries, err := Extract(NewScore(3, 2), &api.RawPlayer{Team: "Blue"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, Generic{WonRounds: 2, NumRounds: 5}, entries[0].Generic)
}

func TestExtractMedic(t *testing.T) {
	raw := &api.RawPlayer{
		Team:    "Blue",
		Healing: 21000,
		Ubers:   7,
		Drops:   1,
		Medkits: 3,
		ClassStats: []api.RawClassStats{
			{Type: "medic", Deaths: 4, TotalTime: 1800},
		},
		MedicStats: &api.RawMedicStats{AvgUberLength: 7.5},
	}

	entries, err := Extract(NewScore(1, 4), raw)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	medic := entries[2]
	assert.Equal(t, KindMedic, medic.Kind)
	require.NotNil(t, medic.Medic)
	assert.Equal(t, MedicStats{
		Healing:           21000,
		AvgUberLengthSecs: 7.5,
		Ubers:             7,
		Drops:             1,
		Deaths:            4,
		TimePlayedSecs:    1800,
	}, *medic.Medic)
}

func TestExtractNoMedicEntryWithoutMedicStats(t *testing.T) {
	// A medic class block alone is not enough.
	raw := &api.RawPlayer{
		Team:       "Red",
		ClassStats: []api.RawClassStats{{Type: "medic", TotalTime: 1800}},
	}

	entries, err := Extract(NewScore(2, 2), raw)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEqual(t, KindMedic, e.Kind)
	}
}

func TestExtractNoMedicEntryWithoutMedicClassBlock(t *testing.T) {
	// The inverse: a medicstats block with no medic class time.
	raw := &api.RawPlayer{
		Team:       "Red",
		ClassStats: []api.RawClassStats{{Type: "scout", TotalTime: 1800}},
		MedicStats: &api.RawMedicStats{AvgUberLength: 6},
	}

	entries, err := Extract(NewScore(2, 2), raw)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEqual(t, KindMedic, e.Kind)
	}
}

func TestExtractMultiClass(t *testing.T) {
	raw := &api.RawPlayer{
		Team: "Red",
		ClassStats: []api.RawClassStats{
			{Type: "soldier", TotalTime: 1000},
			{Type: "pyro", TotalTime: 700},
		},
	}

	entries, err := Extract(NewScore(0, 5), raw)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, class.Soldier, entries[1].Class.Class)
	assert.Equal(t, class.Pyro, entries[2].Class.Class)
}

func TestExtractUnknownTeamOrClass(t *testing.T) {
	_, err := Extract(NewScore(1, 1), &api.RawPlayer{Team: "Spectator"})
	require.Error(t, err)

	_, err = Extract(NewScore(1, 1), &api.RawPlayer{
		Team:       "Red",
		ClassStats: []api.RawClassStats{{Type: "civilian"}},
	})
	require.Error(t, err)
}

func TestOmittedCountersDecodeToZero(t *testing.T) {
	var raw api.RawPlayer
	require.NoError(t, json.Unmarshal([]byte(`{"team":"Red","kills":4}`), &raw))

	assert.Equal(t, 4, raw.Kills)
	assert.Zero(t, raw.Damage)
	assert.Zero(t, raw.DamageTaken)
	assert.Nil(t, raw.MedicStats)
}
