/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package protocol

import (
	"fmt"

	"slotdeck/pkg/spec"
)

type rule struct {
	min, max int
	usage    string
	build    func(Message) (Command, error)
}

// anyCount lifts the upper bound; /dump ignores whatever it is sent.
const anyCount = -1

var rules = map[string]rule{
	spec.AddrLoad: {2, 2, "/load slot:int path:string", func(m Message) (Command, error) {
		slot, err := m.Int(0)
		if err != nil {
			return nil, err
		}
		path, err := m.Str(1)
		if err != nil {
			return nil, err
		}
		return Load{Slot: slot, Path: path}, nil
	}},
	spec.AddrLoadFolder: {1, 1, "/loadfolder path:string", func(m Message) (Command, error) {
		path, err := m.Str(0)
		if err != nil {
			return nil, err
		}
		return LoadFolder{Path: path}, nil
	}},
	spec.AddrPlay: {1, 6, "/play slot:int [speed:float=1] [skipsecs:float=0] [paused:int=0] [stopWhenFinished:int=1] [stopPrevious:int=0]", buildPlay},
	spec.AddrStop: {0, 1, "/stop [slot:int]", func(m Message) (Command, error) {
		slot, err := optionalSlot(m, 0)
		if err != nil {
			return nil, err
		}
		return Stop{Slot: slot}, nil
	}},
	spec.AddrPause: {1, 1, "/pause status:int", func(m Message) (Command, error) {
		status, err := m.Int(0)
		if err != nil {
			return nil, err
		}
		return Pause{Paused: status != 0}, nil
	}},
	spec.AddrSetSpeed: {1, 1, "/setspeed speed:float", func(m Message) (Command, error) {
		speed, err := m.Float(0)
		if err != nil {
			return nil, err
		}
		return SetSpeed{Speed: speed}, nil
	}},
	spec.AddrScrub: {1, 2, "/scrub relpos:float [slot:int]", func(m Message) (Command, error) {
		pos, err := m.Float(0)
		if err != nil {
			return nil, err
		}
		slot, err := optionalSlot(m, 1)
		if err != nil {
			return nil, err
		}
		return Scrub{Pos: pos, Slot: slot}, nil
	}},
	spec.AddrScrubAbs: {1, 2, "/scrubabs abstime:float [slot:int]", func(m Message) (Command, error) {
		t, err := m.Float(0)
		if err != nil {
			return nil, err
		}
		slot, err := optionalSlot(m, 1)
		if err != nil {
			return nil, err
		}
		return ScrubAbs{Time: t, Slot: slot}, nil
	}},
	spec.AddrSetPos: {1, 1, "/setpos relpos:float", func(m Message) (Command, error) {
		pos, err := m.Float(0)
		if err != nil {
			return nil, err
		}
		return SetPos{Pos: pos}, nil
	}},
	spec.AddrSetTime: {1, 1, "/settime abstime:float", func(m Message) (Command, error) {
		t, err := m.Float(0)
		if err != nil {
			return nil, err
		}
		return SetTime{Time: t}, nil
	}},
	spec.AddrDump: {0, anyCount, "/dump", func(Message) (Command, error) {
		return Dump{}, nil
	}},
	spec.AddrQuit: {0, 0, "/quit", func(Message) (Command, error) {
		return Quit{}, nil
	}},
	spec.AddrResize: {2, 2, "/resize width:int height:int", func(m Message) (Command, error) {
		w, err := m.Int(0)
		if err != nil {
			return nil, err
		}
		h, err := m.Int(1)
		if err != nil {
			return nil, err
		}
		return Resize{Width: w, Height: h}, nil
	}},
}

// Parse validates a message against its address' arity and argument types
// and returns the typed command.
func Parse(m Message) (Command, error) {
	r, ok := rules[m.Address]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAddress, m.Address)
	}
	n := len(m.Args)
	if n < r.min || (r.max != anyCount && n > r.max) {
		return nil, fmt.Errorf("%w: %s expects %s arguments, got %d (syntax: %s)",
			ErrArgCount, m.Address, arity(r), n, r.usage)
	}
	cmd, err := r.build(m)
	if err != nil {
		return nil, fmt.Errorf("%w (syntax: %s)", err, r.usage)
	}
	return cmd, nil
}

// Usage returns the syntax line of an address, or "" if it is unknown.
func Usage(addr string) string {
	return rules[addr].usage
}

func buildPlay(m Message) (Command, error) {
	slot, err := m.Int(0)
	if err != nil {
		return nil, err
	}
	p := DefaultPlay(slot)
	n := m.NumArgs()
	if n >= 2 {
		if p.Speed, err = m.Float(1); err != nil {
			return nil, err
		}
	}
	if n >= 3 {
		if p.Skip, err = m.Float(2); err != nil {
			return nil, err
		}
	}
	if n >= 4 {
		if p.Paused, err = flag(m, 3); err != nil {
			return nil, err
		}
	}
	if n >= 5 {
		if p.StopWhenFinished, err = flag(m, 4); err != nil {
			return nil, err
		}
	}
	if n >= 6 {
		if p.StopPrevious, err = flag(m, 5); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func flag(m Message, i int) (bool, error) {
	v, err := m.Int(i)
	return v != 0, err
}

func optionalSlot(m Message, i int) (OptionalSlot, error) {
	if i >= m.NumArgs() {
		return OptionalSlot{}, nil
	}
	v, err := m.Int(i)
	if err != nil {
		return OptionalSlot{}, err
	}
	return SlotOf(v), nil
}

func arity(r rule) string {
	switch {
	case r.max == anyCount:
		return fmt.Sprintf("at least %d", r.min)
	case r.min == r.max:
		return fmt.Sprintf("%d", r.min)
	default:
		return fmt.Sprintf("%d-%d", r.min, r.max)
	}
}
