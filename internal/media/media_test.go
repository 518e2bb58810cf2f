/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package media

import (
	"bytes"
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"slotdeck/internal/deck"
	"slotdeck/pkg/audioengine"

	"github.com/faiface/beep"
	"github.com/rs/zerolog"
)

const probeJSON = `{
  "streams": [
    {"index": 0, "codec_type": "audio", "sample_rate": "48000", "duration": "10.020000"},
    {"index": 1, "codec_type": "video", "width": 1920, "height": 1080,
     "r_frame_rate": "30000/1001", "avg_frame_rate": "30000/1001",
     "duration": "10.010000", "nb_frames": "300"}
  ],
  "format": {"filename": "a.mp4", "duration": "10.020000"}
}`

func TestParseProbe(t *testing.T) {
	info, err := parseProbe([]byte(probeJSON))
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if info.Width != 1920 || info.Height != 1080 || info.Frames != 300 {
		t.Fatalf("info = %+v", info)
	}
	if math.Abs(info.FPS-29.97) > 0.01 || info.Duration != 10.01 {
		t.Fatalf("fps %g duration %g", info.FPS, info.Duration)
	}
}

func TestParseProbe_Fallbacks(t *testing.T) {
	data := `{"streams":[{"codec_type":"video","width":640,"height":480,
		"r_frame_rate":"0/0","avg_frame_rate":"25/1"}],
		"format":{"duration":"4.000000"}}`
	info, err := parseProbe([]byte(data))
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if info.FPS != 25 || info.Duration != 4 || info.Frames != 100 {
		t.Fatalf("info = %+v", info)
	}
}

func TestParseProbe_Errors(t *testing.T) {
	for _, data := range []string{
		`not json`,
		`{"streams":[{"codec_type":"audio"}]}`,
		`{"streams":[{"codec_type":"video","r_frame_rate":"25/1"}]}`,
	} {
		if _, err := parseProbe([]byte(data)); err == nil {
			t.Fatalf("parseProbe(%s) succeeded", data)
		}
	}
}

func TestParseRate(t *testing.T) {
	for in, want := range map[string]float64{"25/1": 25, "24": 24, "0/0": 0, "x/1": 0, "": 0} {
		if got := parseRate(in); got != want {
			t.Fatalf("parseRate(%q) = %g, want %g", in, got, want)
		}
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestVideoClip_FollowsClock(t *testing.T) {
	clk := &clock{t: time.Unix(1000, 0)}
	v := newVideoClip("a.mp4", Info{Width: 4, Height: 3, FPS: 25, Frames: 250, Duration: 10}, clk.now)

	clk.advance(time.Second)
	v.Update()
	if v.Frame() != 0 {
		t.Fatalf("paused clip moved to %d", v.Frame())
	}

	v.SetPaused(false)
	clk.advance(time.Second)
	v.Update()
	if v.Frame() != 25 || v.Position() != 0.1 {
		t.Fatalf("frame %d position %g", v.Frame(), v.Position())
	}

	v.SetSpeed(2)
	clk.advance(time.Second)
	v.Update()
	if v.Frame() != 75 {
		t.Fatalf("frame %d, want 75", v.Frame())
	}

	v.SetPaused(true)
	clk.advance(5 * time.Second)
	v.Update()
	v.SetPaused(false)
	clk.advance(time.Second)
	v.Update()
	if v.Frame() != 125 {
		t.Fatalf("frame %d, want 125", v.Frame())
	}

	v.SetSpeed(-10)
	clk.advance(time.Second)
	v.Update()
	if v.Frame() != 0 {
		t.Fatalf("frame %d, want 0", v.Frame())
	}
}

func TestVideoClip_SeekAndFinish(t *testing.T) {
	clk := &clock{t: time.Unix(0, 0)}
	v := newVideoClip("a.mp4", Info{FPS: 25, Frames: 250, Duration: 10}, clk.now)
	v.SeekFrame(100)
	if v.Frame() != 100 || v.Finished() {
		t.Fatalf("frame %d finished %v", v.Frame(), v.Finished())
	}
	v.SeekFrame(1000)
	if v.Frame() != 249 || !v.Finished() {
		t.Fatalf("frame %d finished %v", v.Frame(), v.Finished())
	}
	v.SeekFrame(-5)
	if v.Frame() != 0 {
		t.Fatalf("frame %d, want 0", v.Frame())
	}
}

func writeCue(t *testing.T, name string, frames int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := audioengine.WriteSilence(path, 8000, frames); err != nil {
		t.Fatalf("WriteSilence: %v", err)
	}
	return path
}

func TestAudioClip(t *testing.T) {
	out := audioengine.NewNull(8000)
	lib := &Library{Audio: out}
	clip, err := lib.Open(writeCue(t, "cue.wav", 16000))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer clip.Close()

	if clip.Duration() != 2 || clip.TotalFrames() != 50 {
		t.Fatalf("duration %g frames %d", clip.Duration(), clip.TotalFrames())
	}
	if w, h := clip.Size(); w != 0 || h != 0 {
		t.Fatalf("size %dx%d", w, h)
	}

	out.Pull(4000)
	if clip.Position() != 0 {
		t.Fatalf("paused cue moved to %g", clip.Position())
	}

	clip.SetPaused(false)
	out.Pull(4000)
	if p := clip.Position(); p < 0.24 || p > 0.27 {
		t.Fatalf("position %g, want about 0.25", p)
	}

	clip.SetSpeed(0)
	before := clip.Position()
	out.Pull(4000)
	if clip.Position() != before {
		t.Fatal("cue moved at speed 0")
	}

	clip.SeekFrame(25)
	if clip.Position() != 0.5 {
		t.Fatalf("position %g after seek, want 0.5", clip.Position())
	}
	clip.SeekFrame(50)
	if !clip.Finished() {
		t.Fatal("cue not finished at its last frame")
	}
	clip.SeekFrame(0)
	if clip.Finished() {
		t.Fatal("cue still finished after seeking back")
	}
}

// brokenSource fails every seek.
type brokenSource struct {
	beep.StreamSeekCloser
}

func (brokenSource) Len() int       { return 1000 }
func (brokenSource) Seek(int) error { return errors.New("stream closed") }

func TestAudioClip_SeekFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	c := &AudioClip{
		path:   "cue.wav",
		out:    audioengine.NewNull(8000),
		logger: zerolog.New(&buf),
		src:    brokenSource{},
		frames: 50,
	}
	c.SeekFrame(10)

	out := buf.String()
	if !strings.Contains(out, `"level":"warn"`) || !strings.Contains(out, "stream closed") {
		t.Fatalf("seek failure not logged: %s", out)
	}
}

func TestLibrary_Open(t *testing.T) {
	var probed string
	lib := &Library{
		Probe: func(_ context.Context, path string) (Info, error) {
			probed = path
			if filepath.Base(path) == "bad.mp4" {
				return Info{}, errors.New("no video stream")
			}
			return Info{Width: 1280, Height: 720, FPS: 50, Frames: 500, Duration: 10}, nil
		},
	}

	clip, err := lib.Open("/clips/a.mkv")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var _ deck.Clip = clip
	if probed != "/clips/a.mkv" || clip.TotalFrames() != 500 || clip.Path() != "/clips/a.mkv" {
		t.Fatalf("probed %q, clip %+v", probed, clip)
	}

	if _, err := lib.Open("/clips/bad.mp4"); err == nil {
		t.Fatal("Open of an unprobeable file succeeded")
	}
	if _, err := lib.Open("/clips/cue.mp3"); err == nil {
		t.Fatal("audio cue opened without an output")
	}
}

func TestIsAudio(t *testing.T) {
	if !IsAudio("a.WAV") || !IsAudio("/x/b.mp3") || IsAudio("c.mp4") {
		t.Fatal("IsAudio misclassified")
	}
}
