// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tqv

import (
	"fmt"
	"time"
)

// Kind is the kind of a bus transaction.
//
type Kind int

// Transaction kinds.
const (
	KindRead Kind = iota
	KindWrite
	KindReset
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	case KindReset:
		return "reset"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Transaction is a completed bus transaction. Start and End are simulated
// times.
//
type Transaction struct {
	Seq     uint64
	Kind    Kind
	Address uint8
	Data    uint8
	Start   time.Duration
	End     time.Duration
}

func (t Transaction) String() string {
	switch t.Kind {
	case KindReset:
		return fmt.Sprintf("#%d %v reset", t.Seq, t.Start)
	case KindRead:
		return fmt.Sprintf("#%d %v read  [0x%02X] -> 0x%02X", t.Seq, t.Start, t.Address, t.Data)
	}
	return fmt.Sprintf("#%d %v write [0x%02X] <- 0x%02X", t.Seq, t.Start, t.Address, t.Data)
}

// An Observer is notified of every completed transaction.
//
type Observer interface {
	Observe(t Transaction)
}

// ObserverFunc adapts a function to the Observer interface.
//
type ObserverFunc func(t Transaction)

// Observe implements Observer.
//
func (f ObserverFunc) Observe(t Transaction) { f(t) }
