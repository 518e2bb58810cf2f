/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package deck

import (
	"errors"
	"fmt"

	"slotdeck/internal/protocol"
	"slotdeck/pkg/spec"

	"github.com/rs/zerolog"
)

type Options struct {
	Slots  int
	Open   Opener
	Sink   Sink // nil disables telemetry
	Width  int
	Height int
	Logger zerolog.Logger
	OnQuit func()
}

type slot struct {
	loaded           bool
	path             string
	duration         float64
	speed            float64
	paused           bool
	stopWhenFinished bool
	visible          bool
	clip             Clip
}

// sent remembers the last telemetry message for deduplication.
type sent struct {
	valid   bool
	address string
	slot    int
	time    float64
}

type Deck struct {
	slots  []slot
	stack  Stack
	open   Opener
	sink   Sink
	logger zerolog.Logger
	onQuit func()

	viewW, viewH int
	rect         Rect
	last         sent
}

func New(opts Options) (*Deck, error) {
	if opts.Open == nil {
		return nil, errors.New("deck: no clip opener")
	}
	if opts.Slots <= 0 {
		opts.Slots = spec.DefaultSlots
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = spec.DefaultWidth, spec.DefaultHeight
	}
	d := &Deck{
		slots:  make([]slot, opts.Slots),
		open:   opts.Open,
		sink:   opts.Sink,
		logger: opts.Logger,
		onQuit: opts.OnQuit,
		viewW:  opts.Width,
		viewH:  opts.Height,
	}
	d.recomputeGeometry()
	return d, nil
}

func (d *Deck) NumSlots() int { return len(d.slots) }

func (d *Deck) Current() (int, bool) { return d.stack.Current() }

func (d *Deck) Stack() []int { return d.stack.Items() }

func (d *Deck) Geometry() Rect { return d.rect }

// Load opens path into slot, replacing and closing any previous clip. A
// failed load leaves the slot as it was.
func (d *Deck) Load(idx int, path string) (float64, error) {
	if !d.inRange(idx) {
		return 0, fmt.Errorf("%w: %d (slots: %d)", ErrInvalidSlot, idx, len(d.slots))
	}
	clip, err := d.open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	dur := clip.Duration()
	if dur < spec.MinClipDuration {
		if err := clip.Close(); err != nil {
			d.logger.Warn().Err(err).Int("slot", idx).Str("path", path).Msg("close failed")
		}
		return 0, fmt.Errorf("%w: %s (duration %g)", ErrClipTooShort, path, dur)
	}

	s := &d.slots[idx]
	if s.clip != nil {
		d.logger.Info().Int("slot", idx).Str("previous", s.path).Msg("slot already loaded, closing old clip")
		if err := s.clip.Close(); err != nil {
			d.logger.Warn().Err(err).Int("slot", idx).Msg("close failed")
		}
	}

	clip.SetPaused(true)
	*s = slot{
		loaded:           true,
		path:             path,
		duration:         dur,
		speed:            1,
		paused:           true,
		stopWhenFinished: true,
		visible:          s.visible,
		clip:             clip,
	}
	d.logger.Info().Int("slot", idx).Str("path", path).Float64("duration", dur).Msg("clip loaded")

	d.send(protocol.NewMessage(spec.AddrClipInfo, idx, path, dur))
	if cur, ok := d.stack.Current(); ok && cur == idx {
		d.recomputeGeometry()
	}
	return dur, nil
}

// Resize sets the viewport and refits the current clip.
func (d *Deck) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, w, h)
	}
	d.viewW, d.viewH = w, h
	d.recomputeGeometry()
	return nil
}

// Close releases every clip.
func (d *Deck) Close() error {
	var errs []error
	for i := range d.slots {
		if c := d.slots[i].clip; c != nil {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("slot %d: %w", i, err))
			}
			d.slots[i] = slot{}
		}
	}
	d.stack = Stack{}
	return errors.Join(errs...)
}

func (d *Deck) inRange(idx int) bool { return idx >= 0 && idx < len(d.slots) }

// loadedSlot resolves idx to a loaded slot.
func (d *Deck) loadedSlot(idx int) (*slot, error) {
	if !d.inRange(idx) {
		return nil, fmt.Errorf("%w: %d (slots: %d)", ErrInvalidSlot, idx, len(d.slots))
	}
	s := &d.slots[idx]
	if !s.loaded {
		return nil, fmt.Errorf("%w: %d", ErrSlotNotLoaded, idx)
	}
	return s, nil
}

// resolve maps an optional slot argument onto a slot index, falling back
// to the current slot.
func (d *Deck) resolve(o protocol.OptionalSlot) (int, error) {
	if o.Valid {
		return o.Index, nil
	}
	cur, ok := d.stack.Current()
	if !ok {
		return 0, ErrNoCurrentSlot
	}
	return cur, nil
}

func (d *Deck) recomputeGeometry() {
	d.rect = Rect{Width: d.viewW, Height: d.viewH}
	cur, ok := d.stack.Current()
	if !ok || !d.slots[cur].loaded {
		return
	}
	w, h := d.slots[cur].clip.Size()
	d.rect = Fit(d.viewW, d.viewH, w, h)
	d.logger.Debug().Int("slot", cur).Interface("rect", d.rect).Msg("geometry")
}

func (d *Deck) send(m protocol.Message) {
	if d.sink == nil {
		return
	}
	if err := d.sink.Send(m); err != nil {
		d.logger.Warn().Err(err).Str("addr", m.Address).Msg("telemetry send failed")
	}
	d.last = sent{valid: true, address: m.Address}
	if len(m.Args) > 0 {
		d.last.slot, _ = m.Int(0)
	}
	if m.Address == spec.AddrPlay && len(m.Args) > 1 {
		d.last.time, _ = m.Float(1)
	}
}
