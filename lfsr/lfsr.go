// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package lfsr is the golden reference model of the 8 bits LFSR peripheral:
// its next state function and its register map.
//
// The feedback bit is the XOR of state bits 7, 5, 4 and 3. On each shift the
// state moves one bit to the left and the feedback bit enters at bit 0:
//
//	feedback = q[7] ^ q[5] ^ q[4] ^ q[3]
//	q        = {q[6:0], feedback}
//
package lfsr

// Register map.
const (
	RegState = 0x00 // read: current state
	RegShift = 0x00 // write: shift once, data ignored
	RegLoad  = 0x01 // write: load data as the new state
)

// Hardware constants.
const (
	ResetValue = 0xAA // state after reset
	TestSeed   = 0x14 // seed used by the directed scenarios
)

// Taps lists the state bits XORed into the feedback bit.
var Taps = [...]uint{7, 5, 4, 3}

// Feedback returns the feedback bit (0 or 1) computed from state s.
//
func Feedback(s uint8) uint8 {
	var fb uint8
	for _, t := range Taps {
		fb ^= s >> t
	}
	return fb & 1
}

// Next returns the state following s after one shift.
//
func Next(s uint8) uint8 {
	return s<<1 | Feedback(s)
}

// Sequence returns the n states following seed.
//
func Sequence(seed uint8, n int) []uint8 {
	if n <= 0 {
		return nil
	}
	out := make([]uint8, n)
	s := seed
	for i := range out {
		s = Next(s)
		out[i] = s
	}
	return out
}

// Period returns the number of shifts needed for the state to come back to
// seed. The all zeros state is a fixed point and has a period of 1.
//
func Period(seed uint8) int {
	s := Next(seed)
	n := 1
	for s != seed {
		s = Next(s)
		n++
	}
	return n
}
