/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package media

import (
	"path/filepath"
	"strings"

	"slotdeck/pkg/audioengine"
	"slotdeck/pkg/spec"

	"github.com/faiface/beep"
	"github.com/rs/zerolog"
)

// AudioClip is a sound cue mixed on an audio output. Frames are a nominal
// 25 per second so cues can be scrubbed like video.
type AudioClip struct {
	path   string
	out    audioengine.Output
	logger zerolog.Logger

	src      beep.StreamSeekCloser
	format   beep.Format
	resample *beep.Resampler
	ctrl     *beep.Ctrl

	speed    float64
	paused   bool
	duration float64
	frames   int
}

func openAudio(path string, out audioengine.Output, logger zerolog.Logger) (*AudioClip, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		if _, err := audioengine.ProbeWAV(path); err != nil {
			return nil, err
		}
	}
	src, format, err := audioengine.Decode(path)
	if err != nil {
		return nil, err
	}

	dur := format.SampleRate.D(src.Len()).Seconds()
	c := &AudioClip{
		path:     path,
		out:      out,
		logger:   logger,
		src:      src,
		format:   format,
		speed:    1,
		paused:   true,
		duration: dur,
		frames:   max(int(dur*spec.AudioFrameRate), 1),
	}
	c.resample = beep.ResampleRatio(spec.ResampleQuality,
		audioengine.Ratio(1, format.SampleRate, out.SampleRate()),
		&audioengine.Padded{Source: src})
	c.ctrl = &beep.Ctrl{Streamer: c.resample, Paused: true}

	if err := out.Play(c.ctrl); err != nil {
		src.Close()
		return nil, err
	}
	return c, nil
}

func (c *AudioClip) Path() string      { return c.path }
func (c *AudioClip) Duration() float64 { return c.duration }
func (c *AudioClip) TotalFrames() int  { return c.frames }
func (c *AudioClip) Size() (int, int)  { return 0, 0 }

// Update does nothing: the output pulls samples on its own clock.
func (c *AudioClip) Update() {}

func (c *AudioClip) SeekFrame(frame int) {
	c.out.Lock()
	defer c.out.Unlock()
	n := c.src.Len()
	sample := int(float64(frame) / float64(c.frames) * float64(n))
	if err := c.src.Seek(min(max(sample, 0), n)); err != nil {
		c.logger.Warn().Err(err).Str("path", c.path).Int("frame", frame).Msg("seek failed")
	}
}

// SetSpeed changes the resampling ratio. Audio cannot run backwards, so a
// speed of zero or below holds the cue.
func (c *AudioClip) SetSpeed(speed float64) {
	c.out.Lock()
	defer c.out.Unlock()
	c.speed = speed
	if speed > 0 {
		c.resample.SetRatio(audioengine.Ratio(speed, c.format.SampleRate, c.out.SampleRate()))
	}
	c.ctrl.Paused = c.paused || speed <= 0
}

func (c *AudioClip) SetPaused(paused bool) {
	c.out.Lock()
	defer c.out.Unlock()
	c.paused = paused
	c.ctrl.Paused = paused || c.speed <= 0
}

func (c *AudioClip) Position() float64 {
	c.out.Lock()
	defer c.out.Unlock()
	return float64(c.src.Position()) / float64(max(c.src.Len(), 1))
}

func (c *AudioClip) Finished() bool {
	c.out.Lock()
	defer c.out.Unlock()
	return c.src.Position() >= c.src.Len()
}

func (c *AudioClip) Close() error {
	c.out.Lock()
	c.ctrl.Streamer = nil
	c.out.Unlock()
	return c.src.Close()
}
