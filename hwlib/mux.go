// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/lfsrbench/hwsim"
)

var mux = &hwsim.PartSpec{
	Name:    "MUX",
	Inputs:  hwsim.Inputs{pA, pB, pSel},
	Outputs: hwsim.Outputs{pOut},
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		a, b, sel, out := s.Pin(pA), s.Pin(pB), s.Pin(pSel), s.Pin(pOut)
		return []hwsim.Component{func(c *hwsim.Circuit) {
			if c.Get(sel) {
				c.Set(out, c.Get(b))
			} else {
				c.Set(out, c.Get(a))
			}
		}}
	},
}

// Mux returns a multiplexer.
//
//	Inputs: a, b, sel
//	Outputs: out
//	Function: if sel == 0 { out = a } else { out = b }
//
func Mux(w string) hwsim.Part { return mux.NewPart(w) }

// MuxN returns a N-bits Mux.
//
//	Inputs: a[bits], b[bits], sel
//	Outputs: out[bits]
//	Function: for i := range out { if sel == 0 { out[i] = a[i] } else { out[i] = b[i] } }
//
func MuxN(bits int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "MUX" + strconv.Itoa(bits),
		Inputs:  append(bus(bits, pA, pB), pSel),
		Outputs: bus(bits, pOut),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			a, b, sel := s.Bus(pA, bits), s.Bus(pB, bits), s.Pin(pSel)
			o := s.Bus(pOut, bits)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					src := a
					if c.Get(sel) {
						src = b
					}
					for i := range o {
						c.Set(o[i], c.Get(src[i]))
					}
				}}
		}}).NewPart
}

var mux8 = MuxN(8)

// Mux8 returns a 8-bits Mux.
//
func Mux8(w string) hwsim.Part { return mux8(w) }
