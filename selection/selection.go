// Package selection decides which protocol a rebind starts, from the stick
// positions at that moment and the last protocol used.
package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/protocol"
)

// Policy resolves the protocol for a rebind. Implementations are pure.
type Policy interface {
	Resolve(f ppm.Frame, persisted protocol.Selector) protocol.Selector
}

// Static always selects the same protocol regardless of sticks.
type Static protocol.Selector

func (s Static) Resolve(ppm.Frame, protocol.Selector) protocol.Selector {
	return protocol.Selector(s)
}

// Direction is the side of centre a stick must be held at.
type Direction uint8

const (
	Below Direction = iota // under ppm.MinCommand
	Above                  // over ppm.MaxCommand
)

func (d Direction) String() string {
	if d == Above {
		return "high"
	}
	return "low"
}

var ErrInvalidGesture = errors.New("invalid gesture")

// Condition is one stick held to one side.
type Condition struct {
	Channel   int
	Direction Direction
}

// Match reports false for a channel outside the frame.
func (c Condition) Match(f ppm.Frame) bool {
	if c.Channel < 0 || c.Channel >= ppm.NumChannels {
		return false
	}
	if c.Direction == Above {
		return f.High(c.Channel)
	}
	return f.Low(c.Channel)
}

func (c Condition) String() string {
	return ppm.ChannelName(c.Channel) + "-" + c.Direction.String()
}

// ParseCondition reads the String form, e.g. "elevator-low".
func ParseCondition(s string) (Condition, error) {
	name, dir, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "-")
	if !ok {
		return Condition{}, fmt.Errorf("%w: %q", ErrInvalidGesture, s)
	}
	ch, ok := ppm.ChannelByName(name)
	if !ok {
		return Condition{}, fmt.Errorf("%w: unknown channel %q", ErrInvalidGesture, name)
	}
	switch dir {
	case "low":
		return Condition{ch, Below}, nil
	case "high":
		return Condition{ch, Above}, nil
	}
	return Condition{}, fmt.Errorf("%w: direction %q", ErrInvalidGesture, dir)
}

// Rule selects Protocol when every condition holds.
type Rule struct {
	Conditions []Condition
	Protocol   protocol.Selector
}

func (r Rule) Match(f ppm.Frame) bool {
	for _, c := range r.Conditions {
		if !c.Match(f) {
			return false
		}
	}
	return len(r.Conditions) > 0
}

// Table is an ordered gesture table; the first matching rule wins.
type Table []Rule

// Resolve falls back to the persisted selector, clamped, when no rule
// matches.
func (t Table) Resolve(f ppm.Frame, persisted protocol.Selector) protocol.Selector {
	for _, r := range t {
		if r.Match(f) {
			return r.Protocol
		}
	}
	return protocol.Clamp(uint8(persisted))
}

// Validate rejects rules that could never be told apart from the fallback.
func (t Table) Validate() error {
	for i, r := range t {
		if len(r.Conditions) == 0 {
			return fmt.Errorf("%w: rule %d has no conditions", ErrInvalidGesture, i)
		}
		if !r.Protocol.Valid() {
			return fmt.Errorf("%w: rule %d selects %s", ErrInvalidGesture, i, r.Protocol)
		}
		for _, c := range r.Conditions {
			if c.Channel < 0 || c.Channel >= ppm.NumChannels {
				return fmt.Errorf("%w: rule %d channel %d", ErrInvalidGesture, i, c.Channel)
			}
		}
	}
	return nil
}

func when(conds ...Condition) []Condition { return conds }

// DefaultTable is the stock stick-gesture map, in precedence order.
func DefaultTable() Table {
	var (
		rudderHigh   = Condition{ppm.Rudder, Above}
		aileronLow   = Condition{ppm.Aileron, Below}
		aileronHigh  = Condition{ppm.Aileron, Above}
		elevatorLow  = Condition{ppm.Elevator, Below}
		elevatorHigh = Condition{ppm.Elevator, Above}
	)
	return Table{
		{when(rudderHigh, aileronLow), protocol.H83D},
		{when(elevatorLow, aileronHigh), protocol.YD829},
		{when(elevatorLow, aileronLow), protocol.SymaX5C1},
		{when(elevatorHigh, aileronHigh), protocol.Bayang},
		{when(elevatorHigh, aileronLow), protocol.H7},
		{when(elevatorHigh), protocol.V2x2},
		{when(elevatorLow), protocol.CG023},
		{when(aileronHigh), protocol.CX10Blue},
		{when(aileronLow), protocol.CX10Green},
	}
}

// RenewGesture reports whether the sticks ask for a fresh transmitter id
// (rudder held left).
func RenewGesture(f ppm.Frame) bool { return f.Low(ppm.Rudder) }
