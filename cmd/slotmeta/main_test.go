/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slotdeck/internal/deck"

	"github.com/rs/zerolog"
)

type stubClip struct {
	path string
	w, h int
}

func (c *stubClip) Path() string      { return c.path }
func (c *stubClip) Duration() float64 { return 75.5 }
func (c *stubClip) TotalFrames() int  { return 1887 }
func (c *stubClip) Size() (int, int)  { return c.w, c.h }
func (c *stubClip) SeekFrame(int)     {}
func (c *stubClip) SetSpeed(float64)  {}
func (c *stubClip) SetPaused(bool)    {}
func (c *stubClip) Position() float64 { return 0 }
func (c *stubClip) Finished() bool    { return false }
func (c *stubClip) Update()           {}
func (c *stubClip) Close() error      { return nil }

func open(path string) (deck.Clip, error) {
	if strings.Contains(path, "broken") {
		return nil, errors.New("no video stream")
	}
	if strings.HasSuffix(path, ".wav") {
		return &stubClip{path: path}, nil
	}
	return &stubClip{path: path, w: 1920, h: 1080}, nil
}

func clipDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), make([]byte, 2048), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestInspect(t *testing.T) {
	dir := clipDir(t, "002_intro.mp4", "010_cue.wav", "readme.txt", "200_far.mp4")
	rows, err := inspect(dir, 100, open, zerolog.Nop())
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if len(rows) != 2 || rows[0].Index != 2 || rows[1].Index != 10 {
		t.Fatalf("rows %+v", rows)
	}
	if rows[0].Width != 1920 || rows[0].Frames != 1887 || rows[0].FileSize != 2048 {
		t.Fatalf("video row %+v", rows[0])
	}

	var out bytes.Buffer
	printTable(&out, dir, rows)
	for _, want := range []string{"002_intro.mp4", "1920x1080", "01:15.500", "audio", "2.00 KB"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("table missing %q:\n%s", want, out.String())
		}
	}
}

func TestInspect_KeepsRowsBeforeFailure(t *testing.T) {
	dir := clipDir(t, "001_a.mp4", "002_broken.mp4", "003_c.mp4")
	rows, err := inspect(dir, 100, open, zerolog.Nop())
	if err == nil {
		t.Fatal("inspect ignored a load failure")
	}
	if len(rows) != 1 || rows[0].Index != 1 {
		t.Fatalf("rows %+v", rows)
	}
}

func TestFormatSize(t *testing.T) {
	for in, want := range map[int64]string{512: "512 B", 2048: "2.00 KB", 5 << 20: "5.00 MB"} {
		if got := formatSize(in); got != want {
			t.Fatalf("formatSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var quiet bytes.Buffer
	logger := newLogger(false, &quiet)
	logger.Info().Msg("clip loaded")
	logger.Warn().Msg("skipping file")
	if strings.Contains(quiet.String(), "clip loaded") || !strings.Contains(quiet.String(), "skipping file") {
		t.Fatalf("quiet logger wrote %q", quiet.String())
	}

	var loud bytes.Buffer
	loudLogger := newLogger(true, &loud)
	loudLogger.Debug().Msg("opening")
	if !strings.Contains(loud.String(), "opening") {
		t.Fatalf("debug logger wrote %q", loud.String())
	}
}
