/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"slotdeck/internal/deck"
	"slotdeck/internal/logging"
	"slotdeck/internal/media"
	"slotdeck/pkg/audioengine"
	"slotdeck/pkg/spec"

	"github.com/rs/zerolog"
)

const (
	app_name      = "SlotMeta"
	general_usage = "Usage: ./slotmeta -folder <clip folder> [-n slots] [-jsondump]"
)

// row is one slot as /loadfolder would fill it.
type row struct {
	deck.SlotInfo
	Width    int   `json:"width"`
	Height   int   `json:"height"`
	Frames   int   `json:"frames"`
	FileSize int64 `json:"file_size"`
}

func main() {
	folder := flag.String("folder", "", "folder of NNN_descr.ext clips")
	slots := flag.Int("n", spec.DefaultSlots, "number of slots")
	jsonDump := flag.Bool("jsondump", false, "print the result as JSON")
	debug := flag.Bool("d", false, "debug logging")
	flag.Parse()

	if *folder == "" {
		fmt.Printf("\n%s %d.%d\n", app_name, spec.VersionMajor, spec.VersionMinor)
		fmt.Println(general_usage)
		return
	}

	logger := newLogger(*debug, os.Stderr)
	lib := &media.Library{Audio: audioengine.NewNull(spec.AudioDeviceRate), Logger: logger}
	rows, err := inspect(*folder, *slots, lib.Open, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[!] %v\n", err)
	}

	if *jsonDump {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(rows)
	} else {
		printTable(os.Stdout, *folder, rows)
	}
	if err != nil {
		os.Exit(1)
	}
}

// inspect loads folder into a scratch deck. Rows loaded before a failure
// are still returned.
// newLogger keeps the table clean: only warnings reach w unless debug is set.
func newLogger(debug bool, w io.Writer) zerolog.Logger {
	logger := logging.New(debug, w)
	if !debug {
		logger = logger.Level(zerolog.WarnLevel)
	}
	return logger
}

func inspect(folder string, slots int, open deck.Opener, logger zerolog.Logger) ([]row, error) {
	type shape struct{ w, h, frames int }
	shapes := map[string]shape{}
	d, err := deck.New(deck.Options{
		Slots: slots,
		Open: func(path string) (deck.Clip, error) {
			c, err := open(path)
			if err != nil {
				return nil, err
			}
			w, h := c.Size()
			shapes[path] = shape{w, h, c.TotalFrames()}
			return c, nil
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	defer d.Close()

	loadErr := d.LoadFolder(folder)

	var rows []row
	for _, info := range d.Dump() {
		r := row{SlotInfo: info}
		s := shapes[info.Path]
		r.Width, r.Height, r.Frames = s.w, s.h, s.frames
		if st, err := os.Stat(info.Path); err == nil {
			r.FileSize = st.Size()
		}
		rows = append(rows, r)
	}
	return rows, loadErr
}

func printTable(w io.Writer, folder string, rows []row) {
	fmt.Fprintln(w, strings.Repeat("=", 75))
	fmt.Fprintf(w, " FOLDER        : %s\n", folder)
	fmt.Fprintf(w, " CLIPS         : %d\n", len(rows))
	fmt.Fprintln(w, strings.Repeat("-", 75))
	fmt.Fprintf(w, " %-4s | %-28s | %-9s | %-9s | %-10s\n", "SLOT", "FILE", "DURATION", "SIZE", "FILE SIZE")
	fmt.Fprintln(w, strings.Repeat("-", 75))
	for _, r := range rows {
		size := "audio"
		if r.Width > 0 {
			size = fmt.Sprintf("%dx%d", r.Width, r.Height)
		}
		mins := int(r.Duration) / 60
		sec := r.Duration - float64(mins*60)
		fmt.Fprintf(w, " %4d | %-28s | %02d:%06.3f | %-9s | %s\n",
			r.Index, filepath.Base(r.Path), mins, sec, size, formatSize(r.FileSize))
	}
	fmt.Fprintln(w, strings.Repeat("=", 75))
}

// formatSize renders b in binary units.
func formatSize(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
