// Package class enumerates the nine TF2 classes as spelled by the logs.tf
// API and as stored in the stats table.
package class

import "fmt"

type Class uint8

const (
	Demoman Class = iota
	Engineer
	Heavy
	Medic
	Pyro
	Scout
	Sniper
	Soldier
	Spy
)

// UnknownClassError is returned when a class string does not match the
// all-lowercase spelling used by the logs.tf API.
type UnknownClassError struct {
	Class string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("unknown class %q", e.Class)
}

func Parse(s string) (Class, error) {
	switch s {
	case "demoman":
		return Demoman, nil
	case "engineer":
		return Engineer, nil
	case "heavy", "heavyweapons":
		return Heavy, nil
	case "medic":
		return Medic, nil
	case "pyro":
		return Pyro, nil
	case "scout":
		return Scout, nil
	case "sniper":
		return Sniper, nil
	case "soldier":
		return Soldier, nil
	case "spy":
		return Spy, nil
	default:
		return 0, &UnknownClassError{Class: s}
	}
}

func (c Class) String() string {
	switch c {
	case Demoman:
		return "demoman"
	case Engineer:
		return "engineer"
	case Heavy:
		return "heavy"
	case Medic:
		return "medic"
	case Pyro:
		return "pyro"
	case Scout:
		return "scout"
	case Sniper:
		return "sniper"
	case Soldier:
		return "soldier"
	case Spy:
		return "spy"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}
