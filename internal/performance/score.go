package performance

import (
	"fmt"
	"strings"

	"mixes-tracker/internal/api"
)

// Team is one of the two sides of a match.
type Team uint8

const (
	TeamRed Team = iota
	TeamBlue
)

func (t Team) Other() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

func (t Team) String() string {
	if t == TeamRed {
		return "Red"
	}
	return "Blue"
}

func ParseTeam(s string) (Team, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return TeamRed, nil
	case "blue":
		return TeamBlue, nil
	default:
		return 0, fmt.Errorf("unknown team %q", s)
	}
}

// Score holds the rounds won by each team, derived once per log. Each
// player's won/lost round tally follows from a team lookup against it.
type Score struct {
	red  int
	blue int
}

func NewScore(red, blue int) Score {
	return Score{red: red, blue: blue}
}

// ScoreFromLog reads the team scores out of a raw match document.
func ScoreFromLog(raw *api.RawLog) (Score, error) {
	red, ok := raw.Teams["Red"]
	if !ok {
		return Score{}, fmt.Errorf("log document is missing the Red team score")
	}
	blue, ok := raw.Teams["Blue"]
	if !ok {
		return Score{}, fmt.Errorf("log document is missing the Blue team score")
	}
	return Score{red: red.Score, blue: blue.Score}, nil
}

func (s Score) ForTeam(t Team) int {
	if t == TeamRed {
		return s.red
	}
	return s.blue
}
