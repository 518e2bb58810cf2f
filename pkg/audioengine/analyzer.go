/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package audioengine

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// WAVInfo is what the RIFF header says about a wav file.
type WAVInfo struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int
	Duration   time.Duration
}

// ProbeWAV reads the header of a wav file without decoding samples.
func ProbeWAV(path string) (WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return WAVInfo{}, fmt.Errorf("invalid WAV file: %s", path)
	}
	if err := dec.FwdToPCM(); err != nil {
		return WAVInfo{}, fmt.Errorf("wav %s: %w", path, err)
	}
	format := dec.Format()
	bitDepth := int(dec.SampleBitDepth())
	if format == nil || bitDepth == 0 || format.NumChannels == 0 || format.SampleRate == 0 {
		return WAVInfo{}, fmt.Errorf("incomplete WAV header: %s", path)
	}
	bytesPerFrame := ((bitDepth-1)/8 + 1) * format.NumChannels
	frames := int(dec.PCMLen()) / bytesPerFrame
	return WAVInfo{
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		BitDepth:   bitDepth,
		Frames:     frames,
		Duration:   time.Duration(float64(frames) / float64(format.SampleRate) * float64(time.Second)),
	}, nil
}
