/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package deck

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", n, err)
		}
	}
	return dir
}

func TestLoadFolder_AbortsOnMalformedName(t *testing.T) {
	d, _, _ := newTestDeck(t)
	dir := writeFiles(t, "002_intro.mp4", "not_a_number_x.mp4")

	err := d.LoadFolder(dir)
	if !errors.Is(err, ErrMalformedFolderEntry) {
		t.Fatalf("err = %v, want ErrMalformedFolderEntry", err)
	}
	info, ok := d.Slot(2)
	if !ok || info.Path != filepath.Join(dir, "002_intro.mp4") {
		t.Fatalf("slot 2 = %+v, %v", info, ok)
	}
}

func TestLoadFolder_NoUnderscore(t *testing.T) {
	d, lib, _ := newTestDeck(t)
	long := strings.Repeat("1", 120) + "_x.mp4"
	for _, name := range []string{"intro.mp4", long} {
		dir := writeFiles(t, name)
		if err := d.LoadFolder(dir); !errors.Is(err, ErrMalformedFolderEntry) {
			t.Fatalf("%s: err = %v, want ErrMalformedFolderEntry", name, err)
		}
	}
	if len(lib.opened) != 0 {
		t.Fatalf("opened %d clips", len(lib.opened))
	}
}

func TestLoadFolder_FiltersAndSkips(t *testing.T) {
	d, _, _ := newTestDeck(t)
	dir := writeFiles(t,
		"000_cue.wav",
		"001_a.MOV",
		"150_out_of_range.mp4",
		"99999999999999999999_huge.mp4",
		"readme.txt",
		"notes_draft.doc",
	)
	if err := os.Mkdir(filepath.Join(dir, "003_dir.mp4"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := d.LoadFolder(dir); err != nil {
		t.Fatalf("LoadFolder: %v", err)
	}
	got := d.Dump()
	if len(got) != 2 || got[0].Index != 0 || got[1].Index != 1 {
		t.Fatalf("Dump() = %+v", got)
	}
}

func TestLoadFolder_Overwrite(t *testing.T) {
	d, lib, _ := newTestDeck(t)
	mustLoad(t, d, 4, "old.mp4")
	dir := writeFiles(t, "004_new.mkv")
	if err := d.LoadFolder(dir); err != nil {
		t.Fatalf("LoadFolder: %v", err)
	}
	info, _ := d.Slot(4)
	if filepath.Base(info.Path) != "004_new.mkv" || !lib.byPath["old.mp4"].closed {
		t.Fatalf("slot 4 = %+v", info)
	}
}

func TestLoadFolder_LoadFailureAborts(t *testing.T) {
	d, _, _ := newTestDeck(t)
	dir := writeFiles(t, "001_ok.mp4", "002_short.mp4", "003_later.mp4")
	if err := d.LoadFolder(dir); !errors.Is(err, ErrClipTooShort) {
		t.Fatalf("err = %v, want ErrClipTooShort", err)
	}
	if _, ok := d.Slot(1); !ok {
		t.Fatal("slot 1 unloaded by a later failure")
	}
	if _, ok := d.Slot(3); ok {
		t.Fatal("batch continued after a failed load")
	}
}

func TestLoadFolder_MissingDir(t *testing.T) {
	d, _, _ := newTestDeck(t)
	if err := d.LoadFolder(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}

func TestIsClipFile(t *testing.T) {
	for name, want := range map[string]bool{
		"a.mp4": true, "a.MKV": true, "b.ogv": true, "c.wav": true, "d.mp3": true,
		"e.txt": false, "noext": false, "f.mp4.bak": false,
	} {
		if got := IsClipFile(name); got != want {
			t.Fatalf("IsClipFile(%q) = %v, want %v", name, got, want)
		}
	}
}
