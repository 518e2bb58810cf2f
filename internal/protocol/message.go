/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the SlotDeck project.
 * This code is provided "as is", without warranty of any kind.
 */

// Package protocol holds the transport-neutral control messages of the deck:
// the Message type every transport produces, the typed Command union built
// from it, and the Inbox that hands messages over to the engine goroutine.
package protocol

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownAddress = errors.New("unknown address")
	ErrArgCount       = errors.New("wrong number of arguments")
	ErrArgType        = errors.New("wrong argument type")
)

// Message is an address plus positional arguments. Arguments are kept in
// their canonical Go form: int, float64 or string. Transports convert on
// the way in and out.
type Message struct {
	Address string
	Args    []any
}

func NewMessage(addr string, args ...any) Message {
	m := Message{Address: addr, Args: make([]any, 0, len(args))}
	for _, a := range args {
		m.Args = append(m.Args, Canonical(a))
	}
	return m
}

// Canonical folds the numeric types transports decode into int or float64.
// Booleans become 0/1. Anything else is returned untouched.
func Canonical(v any) any {
	switch x := v.(type) {
	case int:
		return x
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return int(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		return x
	default:
		return v
	}
}

func (m Message) NumArgs() int { return len(m.Args) }

// Int returns argument i as an int. Floats are accepted only when integral.
func (m Message) Int(i int) (int, error) {
	if i >= len(m.Args) {
		return 0, fmt.Errorf("%w: %s has no argument %d", ErrArgCount, m.Address, i)
	}
	switch x := m.Args[i].(type) {
	case int:
		return x, nil
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return int(x), nil
		}
		return 0, fmt.Errorf("%w: %s arg %d: expected int, got float %v", ErrArgType, m.Address, i, x)
	default:
		return 0, fmt.Errorf("%w: %s arg %d: expected int, got %T", ErrArgType, m.Address, i, m.Args[i])
	}
}

// Float returns argument i as a float64. Ints widen.
func (m Message) Float(i int) (float64, error) {
	if i >= len(m.Args) {
		return 0, fmt.Errorf("%w: %s has no argument %d", ErrArgCount, m.Address, i)
	}
	switch x := m.Args[i].(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("%w: %s arg %d: expected float, got %T", ErrArgType, m.Address, i, m.Args[i])
	}
}

// Str returns argument i as a string. Numbers never convert.
func (m Message) Str(i int) (string, error) {
	if i >= len(m.Args) {
		return "", fmt.Errorf("%w: %s has no argument %d", ErrArgCount, m.Address, i)
	}
	s, ok := m.Args[i].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s arg %d: expected string, got %T", ErrArgType, m.Address, i, m.Args[i])
	}
	return s, nil
}

func (m Message) String() string { return FormatLine(m) }
