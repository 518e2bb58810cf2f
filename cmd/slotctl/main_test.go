/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestTranslate(t *testing.T) {
	cases := []struct {
		in   string
		send string
		act  action
	}{
		{"  ", "", actSkip},
		{"d", "/dump", actSend},
		{"Q", "", actQuit},
		{"help", "", actHelp},
		{" /play 3 1.5 ", "/play 3 1.5", actSend},
		{"status", "status", actSend},
	}
	for _, tc := range cases {
		send, act := translate(tc.in)
		if send != tc.send || act != tc.act {
			t.Fatalf("translate(%q) = %q, %d", tc.in, send, act)
		}
	}
}

func TestCopyReplies(t *testing.T) {
	var out bytes.Buffer
	copyReplies(strings.NewReader("OK\nEVENT /play 3 1.25 10.0\nERR CONTROL_LOCKED\n"), &out)
	want := "OK\n<< /play 3 1.25 10.0\nERR CONTROL_LOCKED\n"
	if out.String() != want {
		t.Fatalf("got %q", out.String())
	}
}
