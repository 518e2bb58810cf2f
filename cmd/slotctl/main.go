/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"slotdeck/pkg/spec"

	"github.com/chzyer/readline"
	"github.com/mitchellh/go-homedir"
)

const app_name = "SlotCtl"

type action int

const (
	actSend action = iota
	actSkip
	actHelp
	actQuit
)

// translate maps console shortcuts onto socket lines.
func translate(line string) (string, action) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return "", actSkip
	case "q", "quit", "exit":
		return "", actQuit
	case "help", "?":
		return "", actHelp
	case "d":
		return spec.AddrDump, actSend
	}
	return line, actSend
}

func main() {
	socket := flag.String("socket", spec.DefaultSocket, "slotdeck control socket")
	flag.Parse()

	fmt.Printf("\n%s V.%d.%d\n", app_name, spec.VersionMajor, spec.VersionMinor)
	conn, err := net.Dial("unix", *socket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", *socket, err)
		os.Exit(1)
	}
	defer conn.Close()

	history, _ := homedir.Expand("~/.slotctl_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "deck> ",
		HistoryFile:     history,
		InterruptPrompt: "^C",
		EOFPrompt:       "q",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Println(`Type a message such as "/play 3", "d" to dump, "help" for the reference, "q" to leave`)

	go func() {
		copyReplies(conn, rl.Stdout())
		fmt.Fprintln(rl.Stdout(), "SOCKET CLOSED")
		rl.Close()
	}()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return
		}
		send, act := translate(line)
		switch act {
		case actSkip:
			continue
		case actQuit:
			fmt.Println("Bye.")
			return
		case actHelp:
			fmt.Fprint(rl.Stdout(), spec.Manual)
			continue
		}
		if _, err := fmt.Fprintln(conn, send); err != nil {
			fmt.Fprintln(os.Stderr, "WRITE ERROR:", err)
			return
		}
	}
}

// copyReplies prints server replies; telemetry arrives as EVENT lines.
func copyReplies(r io.Reader, w io.Writer) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if ev, ok := strings.CutPrefix(line, "EVENT "); ok {
			fmt.Fprintln(w, "<<", ev)
			continue
		}
		fmt.Fprintln(w, line)
	}
}
