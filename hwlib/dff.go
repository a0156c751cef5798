// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/lfsrbench/hwsim"
)

var dff = &hwsim.PartSpec{
	Name:    "DFF",
	Inputs:  hwsim.Inputs{pIn},
	Outputs: hwsim.Outputs{pOut},
	Mount: func(s *hwsim.Socket) []hwsim.Component {
		in, out := s.Pin(pIn), s.Pin(pOut)
		var cur bool
		return []hwsim.Component{
			func(c *hwsim.Circuit) {
				// raising edge?
				if c.AtTick() {
					cur = c.Get(in)
				}
				c.Set(out, cur)
			}}
	}}

// DFF returns a clocked data flip flop.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
//
func DFF(w string) hwsim.Part { return dff.NewPart(w) }

// DFFN returns a N-bits edge triggered register.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: for i := range out { out[i](t) = in[i](t-1) }
//
func DFFN(bits int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "DFF" + strconv.Itoa(bits),
		Inputs:  bus(bits, pIn),
		Outputs: bus(bits, pOut),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Bus(pIn, bits), s.Bus(pOut, bits)
			cur := make([]bool, bits)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					if c.AtTick() {
						for i, p := range in {
							cur[i] = c.Get(p)
						}
					}
					for i, p := range out {
						c.Set(p, cur[i])
					}
				}}
		}}).NewPart
}

var dff8 = DFFN(8)

// DFF8 returns a 8-bits register.
//
func DFF8(w string) hwsim.Part { return dff8(w) }
