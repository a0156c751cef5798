// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides the library of parts the LFSR peripheral is built
// from: logic gates, multiplexers, flip flops and I/O probes.
//
package hwlib

import (
	"strconv"

	"github.com/db47h/lfsrbench/hwsim"
)

// common pin names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
)

// bus expands names into bus pin names.
func bus(bits int, names ...string) []string {
	b := make([]string, 0, len(names)*bits)
	for _, n := range names {
		for j := 0; j < bits; j++ {
			b = append(b, hwsim.BusPinName(n, j))
		}
	}
	return b
}

var notGate = &hwsim.PartSpec{
	Name:    "NOT",
	Inputs:  hwsim.Inputs{pIn},
	Outputs: hwsim.Outputs{pOut},
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		in, out := s.Pin(pIn), s.Pin(pOut)
		return []hwsim.Component{
			func(c *hwsim.Circuit) { c.Set(out, !c.Get(in)) },
		}
	},
}

// Not returns a NOT gate.
//
//	Inputs: in
//	Outputs: out
//	Function: out = !in
//
func Not(w string) hwsim.Part { return notGate.NewPart(w) }

type gate func(a, b bool) bool

func (g gate) mount(s *hwsim.Socket) []hwsim.Component {
	a, b, out := s.Pin(pA), s.Pin(pB), s.Pin(pOut)
	return []hwsim.Component{
		func(c *hwsim.Circuit) { c.Set(out, g(c.Get(a), c.Get(b))) },
	}
}

func newGate(name string, fn func(a, b bool) bool) *hwsim.PartSpec {
	return &hwsim.PartSpec{
		Name:    name,
		Inputs:  hwsim.Inputs{pA, pB},
		Outputs: hwsim.Outputs{pOut},
		Mount:   gate(fn).mount,
	}
}

var (
	and  = newGate("AND", func(a, b bool) bool { return a && b })
	nand = newGate("NAND", func(a, b bool) bool { return !(a && b) })
	or   = newGate("OR", func(a, b bool) bool { return a || b })
	nor  = newGate("NOR", func(a, b bool) bool { return !(a || b) })
	xor  = newGate("XOR", func(a, b bool) bool { return a != b })
	xnor = newGate("XNOR", func(a, b bool) bool { return a == b })
)

// And returns a AND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a && b
//
func And(w string) hwsim.Part { return and.NewPart(w) }

// Nand returns a NAND gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = !(a && b)
//
func Nand(w string) hwsim.Part { return nand.NewPart(w) }

// Or returns a OR gate.
//
func Or(w string) hwsim.Part { return or.NewPart(w) }

// Nor returns a NOR gate.
//
func Nor(w string) hwsim.Part { return nor.NewPart(w) }

// Xor returns a XOR gate.
//
//	Inputs: a, b
//	Outputs: out
//	Function: out = a != b
//
func Xor(w string) hwsim.Part { return xor.NewPart(w) }

// Xnor returns a XNOR gate.
//
func Xnor(w string) hwsim.Part { return xnor.NewPart(w) }

type gateN struct {
	bits int
	fn   func(bool, bool) bool
}

func (g *gateN) mount(s *hwsim.Socket) []hwsim.Component {
	a, b, out := s.Bus(pA, g.bits), s.Bus(pB, g.bits), s.Bus(pOut, g.bits)
	return []hwsim.Component{
		func(c *hwsim.Circuit) {
			for i := range a {
				c.Set(out[i], g.fn(c.Get(a[i]), c.Get(b[i])))
			}
		},
	}
}

// GateN returns a N-bits logic gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i] = f(a[i], b[i]) }
//
func GateN(name string, bits int, f func(bool, bool) bool) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    name + strconv.Itoa(bits),
		Inputs:  bus(bits, pA, pB),
		Outputs: bus(bits, pOut),
		Mount:   (&gateN{bits, f}).mount,
	}).NewPart
}

var (
	and8 = GateN("AND", 8, func(a, b bool) bool { return a && b })
	xor8 = GateN("XOR", 8, func(a, b bool) bool { return a != b })
)

// And8 returns a 8 bits AND gate.
//
//	Inputs: a[8], b[8]
//	Outputs: out[8]
//	Function: for i := range out { out[i] = a[i] && b[i] }
//
func And8(w string) hwsim.Part { return and8(w) }

// Xor8 returns a 8 bits XOR gate.
//
func Xor8(w string) hwsim.Part { return xor8(w) }
