/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package deck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slotdeck/internal/protocol"

	"github.com/rs/zerolog"
)

type fakeClip struct {
	path   string
	dur    float64
	frames int
	w, h   int

	frame   int
	speed   float64
	paused  bool
	closed  bool
	updates int
	nudge   float64 // added to Position

	closeErr error
}

func (c *fakeClip) Path() string           { return c.path }
func (c *fakeClip) Duration() float64      { return c.dur }
func (c *fakeClip) TotalFrames() int       { return c.frames }
func (c *fakeClip) Size() (int, int)       { return c.w, c.h }
func (c *fakeClip) SeekFrame(frame int)    { c.frame = frame }
func (c *fakeClip) SetSpeed(speed float64) { c.speed = speed }
func (c *fakeClip) SetPaused(paused bool)  { c.paused = paused }
func (c *fakeClip) Finished() bool         { return c.frame >= c.frames-1 }
func (c *fakeClip) Close() error           { c.closed = true; return c.closeErr }
func (c *fakeClip) Position() float64 {
	return float64(c.frame)/float64(c.frames) + c.nudge
}

func (c *fakeClip) Update() {
	c.updates++
	if c.frame < c.frames-1 {
		c.frame++
	}
}

// library opens fake clips whose shape depends on the file name:
// "short" gives a sub-millisecond clip, "missing" fails, "43" is 640x480.
type library struct {
	opened []*fakeClip
	byPath map[string]*fakeClip
}

func (l *library) open(path string) (Clip, error) {
	base := filepath.Base(path)
	if strings.Contains(base, "missing") {
		return nil, os.ErrNotExist
	}
	c := &fakeClip{path: path, dur: 10, frames: 250, w: 1920, h: 1080, speed: 1}
	if strings.Contains(base, "short") {
		c.dur = 0.0005
	}
	if strings.Contains(base, "43") {
		c.w, c.h = 640, 480
	}
	if l.byPath == nil {
		l.byPath = map[string]*fakeClip{}
	}
	l.opened = append(l.opened, c)
	l.byPath[path] = c
	return c, nil
}

type recordSink struct {
	msgs []protocol.Message
}

func (r *recordSink) Send(m protocol.Message) error {
	r.msgs = append(r.msgs, m)
	return nil
}

func (r *recordSink) count(addr string) int {
	n := 0
	for _, m := range r.msgs {
		if m.Address == addr {
			n++
		}
	}
	return n
}

func (r *recordSink) lastOf(addr string) (protocol.Message, bool) {
	for i := len(r.msgs) - 1; i >= 0; i-- {
		if r.msgs[i].Address == addr {
			return r.msgs[i], true
		}
	}
	return protocol.Message{}, false
}

func newTestDeck(t *testing.T) (*Deck, *library, *recordSink) {
	t.Helper()
	lib := &library{}
	sink := &recordSink{}
	d, err := New(Options{
		Slots:  100,
		Open:   lib.open,
		Sink:   sink,
		Width:  1280,
		Height: 720,
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, lib, sink
}

func mustLoad(t *testing.T, d *Deck, slot int, path string) {
	t.Helper()
	if _, err := d.Load(slot, path); err != nil {
		t.Fatalf("Load(%d, %s): %v", slot, path, err)
	}
}

func mustPlay(t *testing.T, d *Deck, p protocol.Play) {
	t.Helper()
	if err := d.Play(p); err != nil {
		t.Fatalf("Play(%+v): %v", p, err)
	}
}
