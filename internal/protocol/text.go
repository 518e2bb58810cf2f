/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

package protocol

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseLine turns a text line such as `/play 3 1.5 "my clip"` into a Message.
// Bare tokens that parse as integers become int, other numeric tokens become
// float64, double-quoted tokens are always strings.
func ParseLine(line string) (Message, error) {
	toks, err := tokenize(strings.TrimSpace(line))
	if err != nil {
		return Message{}, err
	}
	if len(toks) == 0 {
		return Message{}, fmt.Errorf("empty line")
	}
	if toks[0].quoted || !strings.HasPrefix(toks[0].text, "/") {
		return Message{}, fmt.Errorf("address must start with '/': %q", toks[0].text)
	}

	m := Message{Address: toks[0].text, Args: make([]any, 0, len(toks)-1)}
	for _, t := range toks[1:] {
		m.Args = append(m.Args, typedToken(t))
	}
	return m, nil
}

// FormatLine is the inverse of ParseLine.
func FormatLine(m Message) string {
	var b strings.Builder
	b.WriteString(m.Address)
	for _, a := range m.Args {
		b.WriteByte(' ')
		switch x := a.(type) {
		case int:
			b.WriteString(strconv.Itoa(x))
		case float64:
			s := strconv.FormatFloat(x, 'g', -1, 64)
			// keep floats floats when read back
			if !strings.ContainsAny(s, ".eEnN") {
				s += ".0"
			}
			b.WriteString(s)
		case string:
			if needsQuote(x) {
				b.WriteString(strconv.Quote(x))
			} else {
				b.WriteString(x)
			}
		default:
			b.WriteString(strconv.Quote(fmt.Sprint(x)))
		}
	}
	return b.String()
}

type token struct {
	text   string
	quoted bool
}

func tokenize(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		if s[i] == ' ' || s[i] == '\t' {
			i++
			continue
		}
		if s[i] == '"' {
			end := i + 1
			for end < len(s) && s[end] != '"' {
				if s[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(s) {
				return nil, fmt.Errorf("unterminated quote at offset %d", i)
			}
			text, err := strconv.Unquote(s[i : end+1])
			if err != nil {
				return nil, fmt.Errorf("bad quoted string at offset %d: %w", i, err)
			}
			toks = append(toks, token{text: text, quoted: true})
			i = end + 1
			continue
		}
		end := i
		for end < len(s) && s[end] != ' ' && s[end] != '\t' {
			end++
		}
		toks = append(toks, token{text: s[i:end]})
		i = end
	}
	return toks, nil
}

func typedToken(t token) any {
	if t.quoted {
		return t.text
	}
	if n, err := strconv.ParseInt(t.text, 10, 64); err == nil {
		return int(n)
	}
	if looksNumeric(t.text) {
		if f, err := strconv.ParseFloat(t.text, 64); err == nil {
			return f
		}
	}
	return t.text
}

// looksNumeric rejects words like "inf" or "nan" that ParseFloat would accept.
func looksNumeric(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func needsQuote(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\"") {
		return true
	}
	return typedToken(token{text: s}) != any(s)
}
