package relay

import (
	"fmt"
	"time"

	"gregoryjjb/valve/gpio"
)

type Phase int

const (
	// PhaseIdle is the state after initialization, before the first cycle.
	PhaseIdle Phase = iota
	PhaseOn
	PhaseOff
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseOn:
		return "on"
	case PhaseOff:
		return "off"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*p = PhaseIdle
	case "on":
		*p = PhaseOn
	case "off":
		*p = PhaseOff
	default:
		return fmt.Errorf("invalid phase %q", text)
	}
	return nil
}

// Next is unconditional: idle and off both lead to on.
func (p Phase) Next() Phase {
	if p == PhaseOn {
		return PhaseOff
	}
	return PhaseOn
}

// Transition describes one level change on the relay pin. Cycle counts the
// ON phases entered so far and is zero during the idle phase.
type Transition struct {
	Phase Phase      `json:"phase"`
	Level gpio.Level `json:"level"`
	At    time.Time  `json:"at"`
	Cycle uint64     `json:"cycle"`
}
