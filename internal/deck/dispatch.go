/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package deck

import (
	"fmt"
	"math"

	"slotdeck/internal/protocol"
	"slotdeck/pkg/spec"
)

// Drain dispatches queued messages in order. A bad message is logged and
// dropped; the rest still run.
func (d *Deck) Drain(msgs []protocol.Message) {
	for _, m := range msgs {
		if err := d.Dispatch(m); err != nil {
			d.logger.Error().Err(err).Str("addr", m.Address).Msg("command dropped")
		}
	}
}

// Dispatch parses and applies one message.
func (d *Deck) Dispatch(m protocol.Message) error {
	cmd, err := protocol.Parse(m)
	if err != nil {
		return err
	}
	return d.Apply(cmd)
}

// Apply runs one command. It either applies all of its effects or none.
func (d *Deck) Apply(cmd protocol.Command) error {
	var err error
	switch c := cmd.(type) {
	case protocol.Load:
		_, err = d.Load(c.Slot, c.Path)
	case protocol.LoadFolder:
		err = d.LoadFolder(c.Path)
	case protocol.Play:
		err = d.Play(c)
	case protocol.Stop:
		err = d.Stop(c.Slot)
	case protocol.Pause:
		err = d.Pause(c.Paused)
	case protocol.SetSpeed:
		err = d.SetSpeed(c.Speed)
	case protocol.Scrub:
		err = d.Scrub(c.Pos, c.Slot)
	case protocol.ScrubAbs:
		err = d.ScrubAbs(c.Time, c.Slot)
	case protocol.SetPos:
		err = d.SetPos(c.Pos)
	case protocol.SetTime:
		err = d.SetTime(c.Time)
	case protocol.Dump:
		for _, info := range d.Dump() {
			d.logger.Info().Int("slot", info.Index).Str("path", info.Path).Float64("duration", info.Duration).Msg("loaded clip")
		}
	case protocol.Quit:
		d.logger.Info().Msg("quit requested")
		if d.onQuit != nil {
			d.onQuit()
		}
	case protocol.Resize:
		err = d.Resize(c.Width, c.Height)
	default:
		err = fmt.Errorf("%w: %s", protocol.ErrUnknownAddress, cmd.Address())
	}
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Address(), err)
	}
	return nil
}

// Play starts slot from p.Skip seconds. A skip outside the clip aborts the
// command before anything changes.
func (d *Deck) Play(p protocol.Play) error {
	s, err := d.loadedSlot(p.Slot)
	if err != nil {
		return err
	}
	rel := p.Skip / s.duration
	if !(rel >= 0 && rel < 1) {
		return fmt.Errorf("%w: skip %gs, duration %gs", ErrSeekOutOfBounds, p.Skip, s.duration)
	}

	if p.StopPrevious {
		if prev, ok := d.stack.Current(); ok {
			d.stop(prev)
		}
	}

	s.speed = p.Speed
	s.paused = p.Paused
	s.stopWhenFinished = p.StopWhenFinished
	s.clip.SetSpeed(p.Speed)
	s.clip.SetPaused(p.Paused)
	s.clip.SeekFrame(int(math.Floor(rel * float64(s.clip.TotalFrames()))))
	s.visible = true
	d.stack.Push(p.Slot)
	d.recomputeGeometry()

	d.logger.Info().
		Int("slot", p.Slot).
		Float64("speed", p.Speed).
		Float64("skip", p.Skip).
		Bool("paused", p.Paused).
		Bool("stop_when_finished", p.StopWhenFinished).
		Float64("rel_pos", rel).
		Msg("play")
	return nil
}

// Stop halts a slot, or the current one, and takes it off the stack. With
// nothing stacked and no slot given it does nothing.
func (d *Deck) Stop(o protocol.OptionalSlot) error {
	if !o.Valid {
		if _, ok := d.stack.Current(); !ok {
			return nil
		}
	}
	idx, err := d.resolve(o)
	if err != nil {
		return err
	}
	if _, err := d.loadedSlot(idx); err != nil {
		return err
	}
	d.stop(idx)
	return nil
}

func (d *Deck) stop(idx int) {
	s := &d.slots[idx]
	s.paused = true
	s.clip.SetPaused(true)
	s.visible = false
	d.stack.Remove(idx)
	d.recomputeGeometry()
	d.send(protocol.NewMessage(spec.AddrStop, idx))
	d.logger.Info().Int("slot", idx).Msg("stop")
}

func (d *Deck) Pause(paused bool) error {
	s, idx, err := d.current()
	if err != nil {
		return err
	}
	s.paused = paused
	s.clip.SetPaused(paused)
	d.logger.Info().Int("slot", idx).Bool("paused", paused).Msg("pause")
	return nil
}

func (d *Deck) SetSpeed(speed float64) error {
	s, idx, err := d.current()
	if err != nil {
		return err
	}
	s.speed = speed
	s.clip.SetSpeed(speed)
	d.logger.Info().Int("slot", idx).Float64("speed", speed).Msg("setspeed")
	return nil
}

// Scrub seeks a slot by relative position. Targeting another slot than the
// current one stops the current slot and brings the target up paused.
func (d *Deck) Scrub(pos float64, o protocol.OptionalSlot) error {
	idx, err := d.resolve(o)
	if err != nil {
		return err
	}
	s, err := d.loadedSlot(idx)
	if err != nil {
		return err
	}
	d.switchTo(idx)
	d.seekRel(s, pos)
	return nil
}

func (d *Deck) ScrubAbs(t float64, o protocol.OptionalSlot) error {
	idx, err := d.resolve(o)
	if err != nil {
		return err
	}
	s, err := d.loadedSlot(idx)
	if err != nil {
		return err
	}
	d.switchTo(idx)
	d.seekRel(s, t/s.duration)
	return nil
}

func (d *Deck) SetPos(pos float64) error {
	s, _, err := d.current()
	if err != nil {
		return err
	}
	d.seekRel(s, pos)
	return nil
}

func (d *Deck) SetTime(t float64) error {
	s, _, err := d.current()
	if err != nil {
		return err
	}
	d.seekRel(s, t/s.duration)
	return nil
}

func (d *Deck) switchTo(idx int) {
	if cur, ok := d.stack.Current(); ok && cur == idx {
		return
	}
	if cur, ok := d.stack.Current(); ok && d.slots[cur].loaded {
		d.stop(cur)
	}
	s := &d.slots[idx]
	s.paused = true
	s.speed = 0
	s.clip.SetPaused(true)
	s.clip.SetSpeed(0)
	s.visible = true
	d.stack.Push(idx)
	d.recomputeGeometry()
}

// seekRel clamps to [0, totalFrames-1].
func (d *Deck) seekRel(s *slot, rel float64) {
	total := s.clip.TotalFrames()
	var frame int
	switch {
	case math.IsNaN(rel) || rel <= 0:
		frame = 0
	case rel >= 1:
		frame = total - 1
	default:
		frame = min(int(rel*float64(total)), total-1)
	}
	frame = max(frame, 0)
	s.clip.SeekFrame(frame)
	d.logger.Debug().Str("path", s.path).Int("frame", frame).Int("total", total).Msg("seek")
}

func (d *Deck) current() (*slot, int, error) {
	idx, ok := d.stack.Current()
	if !ok {
		return nil, 0, ErrNoCurrentSlot
	}
	s, err := d.loadedSlot(idx)
	if err != nil {
		return nil, 0, err
	}
	return s, idx, nil
}
