// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"sort"

	"github.com/pkg/errors"
)

type chip struct {
	PartSpec
	parts []Part
	// alias maps secondary wires of a fanned-out output to the wire that
	// actually holds the signal.
	alias map[string]string
}

func (c *chip) wire(s *Socket, name string) int {
	if a, ok := c.alias[name]; ok {
		name = a
	}
	return s.PinOrNew(name)
}

func (c *chip) mount(s *Socket) []Component {
	var cs []Component
	for _, p := range c.parts {
		conns := make(map[string][]string, len(p.Conns))
		for _, cn := range p.Conns {
			conns[cn.PP] = cn.CP
		}
		sub := newSocket(s.c)
		for k, priv := range p.Pinout {
			if priv == "" {
				continue
			}
			switch cp, ok := conns[k]; {
			case ok:
				sub.m[priv] = c.wire(s, cp[0])
			case p.isInput(k):
				// unconnected inputs are grounded.
				sub.m[priv] = cstFalse
			default:
				sub.m[priv] = s.c.allocPin()
			}
		}
		cs = append(cs, p.Mount(sub)...)
	}
	return cs
}

// Chip composes existing parts into a new part packaged into a chip. The pin
// names specified as inputs and outputs (see ParseIOSpec) will be the inputs
// and outputs of the chip.
//
// An Xor gate could be created like this:
//
//	xor, err := Chip("XOR", "a, b", "out",
//		hwlib.Nand("a=a, b=b, out=nandAB"),
//		hwlib.Nand("a=a, b=nandAB, out=w0"),
//		hwlib.Nand("a=b, b=nandAB, out=w1"),
//		hwlib.Nand("a=w0, b=w1, out=out"),
//	)
//
// The returned NewPartFn can be used to compose the new part with others into
// other chips.
//
// Chip checks that every wire read by a part is driven by exactly one source
// (a chip input, a constant or a part output) and that every chip output is
// driven.
//
func Chip(name string, inputs string, outputs string, parts ...Part) (NewPartFn, error) {
	ins, err := ParseIOSpec(inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "chip %s inputs", name)
	}
	outs, err := ParseIOSpec(outputs)
	if err != nil {
		return nil, errors.Wrapf(err, "chip %s outputs", name)
	}

	isOut := make(map[string]bool, len(outs))
	for _, o := range outs {
		isOut[o] = true
	}
	drivers := map[string]string{False: "constant", True: "constant", Clk: "clock"}
	for _, i := range ins {
		if isOut[i] {
			return nil, errors.Errorf("chip %s: pin %s is both an input and an output", name, i)
		}
		drivers[i] = "chip input"
	}
	readers := make(map[string]string)
	alias := make(map[string]string)

	for _, p := range parts {
		if p.PartSpec == nil {
			return nil, errors.Errorf("chip %s: nil part", name)
		}
		for _, cn := range p.Conns {
			where := p.Name + "." + cn.PP
			if _, ok := p.Pinout[cn.PP]; !ok {
				return nil, errors.Errorf("chip %s: invalid pin name %s for part %s", name, cn.PP, p.Name)
			}
			switch {
			case p.isInput(cn.PP):
				if len(cn.CP) != 1 {
					return nil, errors.Errorf("chip %s: input pin %s connected to more than one wire", name, where)
				}
				if _, ok := readers[cn.CP[0]]; !ok {
					readers[cn.CP[0]] = where
				}
			case p.isOutput(cn.PP):
				canon := cn.CP[0]
				n := 0
				for _, w := range cn.CP {
					if d, ok := drivers[w]; ok {
						return nil, errors.Errorf("chip %s: output %s drives %s, already driven by %s", name, where, w, d)
					}
					drivers[w] = where
					if isOut[w] {
						canon = w
						n++
					}
				}
				if n > 1 {
					return nil, errors.Errorf("chip %s: output %s fans out to more than one chip output", name, where)
				}
				for _, w := range cn.CP {
					if w != canon {
						alias[w] = canon
					}
				}
			default:
				return nil, errors.Errorf("chip %s: pin %s is neither an input nor an output", name, where)
			}
		}
	}

	// sorted for stable error messages.
	wires := make([]string, 0, len(readers))
	for w := range readers {
		wires = append(wires, w)
	}
	sort.Strings(wires)
	for _, w := range wires {
		if _, ok := drivers[w]; !ok {
			return nil, errors.Errorf("chip %s: pin %s (read by %s) not connected to any output", name, w, readers[w])
		}
	}
	for _, o := range outs {
		if _, ok := drivers[o]; !ok {
			return nil, errors.Errorf("chip %s: output pin %s not connected", name, o)
		}
	}

	c := &chip{
		PartSpec: PartSpec{
			Name:    name,
			Inputs:  ins,
			Outputs: outs,
		},
		parts: parts,
		alias: alias,
	}
	c.PartSpec.Mount = c.mount
	return c.PartSpec.NewPart, nil
}
