/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package deck

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"slotdeck/pkg/spec"

	"github.com/mitchellh/go-homedir"
)

// LoadFolder loads every NNN_description.ext clip of dir into slot NNN, in
// name order. A malformed name or a failed load stops the batch; clips
// loaded before that stay loaded.
func (d *Deck) LoadFolder(dir string) error {
	dir, err := homedir.Expand(dir)
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.IsDir() || !IsClipFile(e.Name()) {
			continue
		}
		name := e.Name()
		idx, ok, err := slotPrefix(name)
		if err != nil {
			return err
		}
		if !ok || !d.inRange(idx) {
			d.logger.Warn().Str("file", name).Int("slots", len(d.slots)).Msg("loadfolder: slot out of range, skipped")
			continue
		}
		if d.slots[idx].loaded {
			d.logger.Info().
				Int("slot", idx).
				Str("new", name).
				Str("previous", d.slots[idx].path).
				Msg("loadfolder: overwriting loaded slot")
		}
		path := filepath.Join(dir, name)
		if _, err := d.Load(idx, path); err != nil {
			return fmt.Errorf("loadfolder %s: %w", dir, err)
		}
	}
	return nil
}

// IsClipFile reports whether name has one of the recognized clip extensions.
func IsClipFile(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return slices.Contains(spec.VideoExtensions, ext) || slices.Contains(spec.AudioExtensions, ext)
}

// slotPrefix parses the NNN of NNN_description. ok is false when the number
// does not fit an int.
func slotPrefix(name string) (idx int, ok bool, err error) {
	delim := strings.IndexByte(name, '_')
	if delim < 0 || delim >= spec.MaxSlotPrefix {
		return 0, false, fmt.Errorf("%w: %q, expected NNN_description.ext", ErrMalformedFolderEntry, name)
	}
	prefix := name[:delim]
	if prefix == "" || strings.Trim(prefix, "0123456789") != "" {
		return 0, false, fmt.Errorf("%w: %q, prefix %q is not a slot number", ErrMalformedFolderEntry, name, prefix)
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}
