/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package media

import (
	"time"
)

// VideoClip is a headless video: it keeps a frame cursor that follows the
// wall clock at the clip's frame rate times its speed. Drawing is left to
// whatever display consumes the deck state.
type VideoClip struct {
	path string
	info Info
	now  func() time.Time

	cursor float64 // frames
	speed  float64
	paused bool
	last   time.Time
}

func newVideoClip(path string, info Info, now func() time.Time) *VideoClip {
	return &VideoClip{path: path, info: info, now: now, speed: 1, paused: true, last: now()}
}

func (v *VideoClip) Path() string           { return v.path }
func (v *VideoClip) Duration() float64      { return v.info.Duration }
func (v *VideoClip) TotalFrames() int       { return v.info.Frames }
func (v *VideoClip) Size() (int, int)       { return v.info.Width, v.info.Height }
func (v *VideoClip) SetSpeed(speed float64) { v.speed = speed }
func (v *VideoClip) Close() error           { return nil }
func (v *VideoClip) Frame() int             { return int(v.cursor) }
func (v *VideoClip) Position() float64      { return v.cursor / float64(v.info.Frames) }
func (v *VideoClip) Finished() bool         { return v.cursor >= v.lastFrame() }
func (v *VideoClip) lastFrame() float64     { return float64(v.info.Frames - 1) }

func (v *VideoClip) SetPaused(paused bool) {
	if v.paused && !paused {
		v.last = v.now()
	}
	v.paused = paused
}

func (v *VideoClip) SeekFrame(frame int) {
	v.cursor = clamp(float64(frame), 0, v.lastFrame())
	v.last = v.now()
}

// Update moves the cursor by the time elapsed since the previous update.
func (v *VideoClip) Update() {
	t := v.now()
	if !v.paused {
		dt := t.Sub(v.last).Seconds()
		v.cursor = clamp(v.cursor+dt*v.info.FPS*v.speed, 0, v.lastFrame())
	}
	v.last = t
}

func clamp(x, lo, hi float64) float64 {
	return min(max(x, lo), hi)
}
