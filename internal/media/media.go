/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package media opens the clips a deck plays: headless video clips timed
// from ffprobe metadata and audio cues mixed on the speaker.
package media

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"slotdeck/internal/deck"
	"slotdeck/pkg/audioengine"
	"slotdeck/pkg/spec"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
)

const defaultProbeTimeout = 10 * time.Second

type Library struct {
	Probe        Prober             // defaults to FFProbe
	Audio        audioengine.Output // nil refuses audio cues
	Now          func() time.Time   // defaults to time.Now
	ProbeTimeout time.Duration
	Logger       zerolog.Logger
}

// Open implements deck.Opener.
func (l *Library) Open(path string) (deck.Clip, error) {
	full, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	if IsAudio(full) {
		if l.Audio == nil {
			return nil, fmt.Errorf("%s: no audio output configured", path)
		}
		c, err := openAudio(full, l.Audio, l.Logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	probe := l.Probe
	if probe == nil {
		probe = FFProbe
	}
	timeout := l.ProbeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	info, err := probe(ctx, full)
	if err != nil {
		return nil, err
	}
	now := l.Now
	if now == nil {
		now = time.Now
	}
	return newVideoClip(full, info, now), nil
}

// IsAudio reports whether path is played as an audio cue.
func IsAudio(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return slices.Contains(spec.AudioExtensions, ext)
}
