/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package deck

type SlotInfo struct {
	Index            int     `json:"slot"`
	Path             string  `json:"path"`
	Duration         float64 `json:"duration"`
	Speed            float64 `json:"speed"`
	Paused           bool    `json:"paused"`
	StopWhenFinished bool    `json:"stop_when_finished"`
	Visible          bool    `json:"visible"`
	Position         float64 `json:"position"`
}

// Snapshot is a read-only copy of the deck, safe to hand to other
// goroutines.
type Snapshot struct {
	NumSlots   int        `json:"num_slots"`
	Loaded     []SlotInfo `json:"loaded"`
	Stack      []int      `json:"stack"`
	Current    int        `json:"current"`
	HasCurrent bool       `json:"has_current"`
	Viewport   [2]int     `json:"viewport"`
	Draw       Rect       `json:"draw"`
}

// Dump lists the loaded slots. It changes nothing.
func (d *Deck) Dump() []SlotInfo {
	var out []SlotInfo
	for i := range d.slots {
		if d.slots[i].loaded {
			out = append(out, d.info(i))
		}
	}
	return out
}

// Slot reports a single slot; ok is false for an empty or invalid slot.
func (d *Deck) Slot(idx int) (SlotInfo, bool) {
	if !d.inRange(idx) || !d.slots[idx].loaded {
		return SlotInfo{}, false
	}
	return d.info(idx), true
}

func (d *Deck) info(idx int) SlotInfo {
	s := &d.slots[idx]
	return SlotInfo{
		Index:            idx,
		Path:             s.path,
		Duration:         s.duration,
		Speed:            s.speed,
		Paused:           s.paused,
		StopWhenFinished: s.stopWhenFinished,
		Visible:          s.visible,
		Position:         s.clip.Position(),
	}
}

func (d *Deck) Snapshot() Snapshot {
	cur, ok := d.stack.Current()
	return Snapshot{
		NumSlots:   len(d.slots),
		Loaded:     d.Dump(),
		Stack:      d.stack.Items(),
		Current:    cur,
		HasCurrent: ok,
		Viewport:   [2]int{d.viewW, d.viewH},
		Draw:       d.rect,
	}
}
