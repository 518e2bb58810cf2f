/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package deck

import (
	"math"

	"slotdeck/internal/protocol"
	"slotdeck/pkg/spec"
)

// Tick advances every stacked slot by one frame tick and reports the
// current slot's position. Finished slots pause, and hide when they were
// started with stopWhenFinished, but stay on the stack.
func (d *Deck) Tick() {
	for _, idx := range d.stack.Items() {
		s := &d.slots[idx]
		if !s.loaded {
			continue
		}
		if s.clip.Finished() {
			if !s.paused {
				d.logger.Debug().Int("slot", idx).Msg("clip finished")
			}
			s.paused = true
			s.clip.SetPaused(true)
			if s.stopWhenFinished {
				s.visible = false
			}
			continue
		}
		if !s.paused {
			s.clip.Update()
		}
	}
	d.report()
}

func (d *Deck) report() {
	if d.sink == nil {
		return
	}
	idx, ok := d.stack.Current()
	if !ok || !d.slots[idx].loaded {
		return
	}
	s := &d.slots[idx]
	t := s.clip.Position() * s.duration
	if t < 0 {
		return
	}
	if d.last.valid &&
		d.last.address == spec.AddrPlay &&
		d.last.slot == idx &&
		math.Abs(d.last.time-t) <= spec.TelemetryEpsilon {
		return
	}
	d.send(protocol.NewMessage(spec.AddrPlay, idx, t, s.duration))
}
