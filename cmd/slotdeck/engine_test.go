/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"slotdeck/internal/deck"
	"slotdeck/internal/protocol"

	"github.com/rs/zerolog"
)

type stubClip struct {
	path   string
	frame  int
	paused bool
}

func (c *stubClip) Path() string          { return c.path }
func (c *stubClip) Duration() float64     { return 4 }
func (c *stubClip) TotalFrames() int      { return 100 }
func (c *stubClip) Size() (int, int)      { return 640, 360 }
func (c *stubClip) SeekFrame(frame int)   { c.frame = frame }
func (c *stubClip) SetSpeed(float64)      {}
func (c *stubClip) SetPaused(paused bool) { c.paused = paused }
func (c *stubClip) Position() float64     { return float64(c.frame) / 100 }
func (c *stubClip) Finished() bool        { return c.frame >= 99 }
func (c *stubClip) Close() error          { return nil }
func (c *stubClip) Update() {
	if !c.paused && c.frame < 99 {
		c.frame++
	}
}

func newTestEngine(t *testing.T, onQuit func()) (*engine, *protocol.Inbox) {
	t.Helper()
	d, err := deck.New(deck.Options{
		Slots:  8,
		Open:   func(path string) (deck.Clip, error) { return &stubClip{path: path}, nil },
		Logger: zerolog.Nop(),
		OnQuit: onQuit,
	})
	if err != nil {
		t.Fatalf("deck.New: %v", err)
	}
	inbox := protocol.NewInbox(16)
	return &engine{
		deck:   d,
		inbox:  inbox,
		state:  &published{},
		period: time.Millisecond,
		logger: zerolog.Nop(),
	}, inbox
}

func push(t *testing.T, inbox *protocol.Inbox, lines ...string) {
	t.Helper()
	for _, line := range lines {
		m, err := protocol.ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine(%q): %v", line, err)
		}
		inbox.Push(m)
	}
}

func TestEngine_StepAppliesAndPublishes(t *testing.T) {
	e, inbox := newTestEngine(t, nil)
	push(t, inbox, "/load 2 a.mp4", "/play 2", "/play 9", "/setspeed 2")

	e.step()
	st := e.state.status().(status)
	if !st.HasCurrent || st.Current != 2 || st.Ticks != 1 {
		t.Fatalf("status %+v", st)
	}
	if len(st.Loaded) != 1 || st.Loaded[0].Speed != 2 || st.Loaded[0].Position != 0.01 {
		t.Fatalf("loaded %+v", st.Loaded)
	}
	if st.Draw.Width != 1280 || st.Draw.Height != 720 {
		t.Fatalf("draw %+v", st.Draw)
	}

	e.step()
	if st := e.state.status().(status); st.Ticks != 2 || st.Loaded[0].Position != 0.02 {
		t.Fatalf("status after second tick %+v", st)
	}
}

func TestEngine_RunLoadsFolderAndQuits(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"001_intro.mp4", "003_loop.mov", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e, inbox := newTestEngine(t, cancel)
	e.folder = dir
	push(t, inbox, "/play 3", "/quit")

	done := make(chan error, 1)
	go func() { done <- e.run(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop on /quit")
	}

	st := e.state.status().(status)
	if len(st.Loaded) != 2 || st.Loaded[0].Index != 1 || st.Loaded[1].Index != 3 {
		t.Fatalf("loaded %+v", st.Loaded)
	}
	if !st.HasCurrent || st.Current != 3 {
		t.Fatalf("current %d %v", st.Current, st.HasCurrent)
	}
}

func TestTickPeriod(t *testing.T) {
	if tickPeriod(0) != time.Second/60 || tickPeriod(25) != 40*time.Millisecond {
		t.Fatal("tickPeriod")
	}
}

func TestParseFlags(t *testing.T) {
	cli, manual, err := parseFlags([]string{"-n", "12", "-o", "9998", "-r", "0", "-m"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if !manual || cli.Slots != 12 || !cli.SlotsSet || cli.Out != "9998" || !cli.OutSet {
		t.Fatalf("cli %+v manual %v", cli, manual)
	}
	if !cli.FrameRateSet || cli.PortSet || cli.ConfigSet || cli.Port != 30003 {
		t.Fatalf("set flags %+v", cli)
	}

	if _, _, err := parseFlags([]string{"-n", "x"}, io.Discard); err == nil {
		t.Fatal("bad -n accepted")
	}
	if _, _, err := parseFlags([]string{"extra"}, io.Discard); err == nil {
		t.Fatal("positional argument accepted")
	}
}
