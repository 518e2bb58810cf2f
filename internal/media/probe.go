/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Info is the metadata of a video file.
type Info struct {
	Width    int
	Height   int
	FPS      float64
	Frames   int
	Duration float64 // seconds
}

// Prober reads clip metadata.
type Prober func(ctx context.Context, path string) (Info, error)

// FFProbe runs ffprobe on path.
func FFProbe(ctx context.Context, path string) (Info, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && len(ee.Stderr) > 0 {
			return Info{}, fmt.Errorf("ffprobe %s: %s", path, strings.TrimSpace(string(ee.Stderr)))
		}
		return Info{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbe(out)
}

func parseProbe(data []byte) (Info, error) {
	if !gjson.ValidBytes(data) {
		return Info{}, fmt.Errorf("unexpected ffprobe output")
	}
	video := gjson.GetBytes(data, `streams.#(codec_type=="video")`)
	if !video.Exists() {
		return Info{}, fmt.Errorf("no video stream")
	}

	fps := parseRate(video.Get("r_frame_rate").String())
	if fps <= 0 {
		fps = parseRate(video.Get("avg_frame_rate").String())
	}
	dur := video.Get("duration").Float()
	if dur <= 0 {
		dur = gjson.GetBytes(data, "format.duration").Float()
	}
	if fps <= 0 || dur <= 0 {
		return Info{}, fmt.Errorf("could not determine fps or duration")
	}

	frames := int(video.Get("nb_frames").Int())
	if frames <= 0 {
		frames = int(dur * fps)
	}
	return Info{
		Width:    int(video.Get("width").Int()),
		Height:   int(video.Get("height").Int()),
		FPS:      fps,
		Frames:   max(frames, 1),
		Duration: dur,
	}, nil
}

// parseRate reads ffprobe rationals such as "30000/1001".
func parseRate(s string) float64 {
	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !ok {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
