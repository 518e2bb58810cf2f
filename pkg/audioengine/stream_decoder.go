/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package audioengine decodes audio cue files and mixes them on the speaker.
package audioengine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// Decode opens a wav or mp3 file as a seekable stream. Closing the stream
// closes the file.
func Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		s, format, err = wav.Decode(f)
	case ".mp3":
		s, format, err = mp3.Decode(f)
	default:
		err = fmt.Errorf("unsupported audio format %q", ext)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, format, nil
}

// Padded plays its source and then silence forever, so a seek back after
// the end resumes the source.
type Padded struct {
	Source beep.StreamSeeker
}

func (p *Padded) Stream(samples [][2]float64) (int, bool) {
	n := 0
	if p.Source.Position() < p.Source.Len() {
		n, _ = p.Source.Stream(samples)
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (p *Padded) Err() error { return p.Source.Err() }

// Ratio is the resampling ratio that plays src at speed on a dst device.
func Ratio(speed float64, src, dst beep.SampleRate) float64 {
	return speed * float64(src) / float64(dst)
}
