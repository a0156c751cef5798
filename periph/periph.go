// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package periph implements the LFSR peripheral as a gate-level hwsim chip.
//
// The peripheral sits on a byte wide register bus:
//
//	Inputs:  rst_n, address[4], data_in[8], data_write
//	Outputs: data_out[8]
//
// On the raising edge of the clock, with rst_n low the state is set to the
// reset value. Otherwise, if data_write is high, a write to address 0 shifts
// the state once (data_in is ignored) and a write to address 1 loads data_in.
// data_out shows the state while address is 0 and reads 0 at any other
// address.
//
package periph

import (
	"strconv"
	"strings"

	"github.com/db47h/lfsrbench/hwlib"
	"github.com/db47h/lfsrbench/hwsim"
	"github.com/db47h/lfsrbench/lfsr"
	"github.com/pkg/errors"
)

// Pin names.
const (
	PinReset     = "rst_n"
	PinAddress   = "address"
	PinDataIn    = "data_in"
	PinDataWrite = "data_write"
	PinDataOut   = "data_out"

	AddressBits = 4
	DataBits    = 8
)

// MinStepsPerCycle is the minimum number of simulation steps per clock cycle
// needed for the deepest path of the chip (address decode to the state
// register input) to settle within one cycle.
const MinStepsPerCycle = 16

var (
	inputs  = "rst_n, address[4], data_in[8], data_write"
	outputs = "data_out[8]"
)

// Feedback returns the feedback network: a XOR tree over the LFSR taps.
//
//	Inputs: q[8]
//	Outputs: out
//	Function: out = q[7] ^ q[5] ^ q[4] ^ q[3]
//
func Feedback() (hwsim.NewPartFn, error) {
	t := lfsr.Taps
	return hwsim.Chip("FEEDBACK", "q[8]", "out",
		hwlib.Xor("a=q["+itoa(t[0])+"], b=q["+itoa(t[1])+"], out=x0"),
		hwlib.Xor("a=q["+itoa(t[2])+"], b=q["+itoa(t[3])+"], out=x1"),
		hwlib.Xor("a=x0, b=x1, out=out"),
	)
}

// decoder returns the address decoder. sel0 is high for address 0, sel1 for
// address 1.
func decoder() (hwsim.NewPartFn, error) {
	return hwsim.Chip("DECODE", "address[4]", "sel0, sel1",
		hwlib.Or("a=address[1], b=address[2], out=o12"),
		hwlib.Or("a=o12, b=address[3], out=hi"),
		hwlib.Or("a=hi, b=address[0], out=any"),
		hwlib.Not("in=any, out=sel0"),
		hwlib.Not("in=hi, out=nhi"),
		hwlib.And("a=address[0], b=nhi, out=sel1"),
	)
}

// constBus returns the connections wiring bus pins to the bits of v.
func constBus(bus string, bits int, v uint64) string {
	var b strings.Builder
	for i := 0; i < bits; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(hwsim.BusPinName(bus, i))
		if v&(1<<uint(i)) != 0 {
			b.WriteString("=" + hwsim.True)
		} else {
			b.WriteString("=" + hwsim.False)
		}
	}
	return b.String()
}

// New returns the LFSR peripheral chip with the given reset value.
//
func New(resetValue uint8) (hwsim.NewPartFn, error) {
	fb, err := Feedback()
	if err != nil {
		return nil, errors.Wrap(err, "feedback network")
	}
	dec, err := decoder()
	if err != nil {
		return nil, errors.Wrap(err, "address decoder")
	}
	return hwsim.Chip("LFSR8", inputs, outputs,
		dec("address[0..3]=address[0..3], sel0=sel0, sel1=sel1"),
		hwlib.And("a=data_write, b=sel0, out=shift"),
		hwlib.And("a=data_write, b=sel1, out=load"),
		fb("q[0..7]=q[0..7], out=fb"),
		// next state: reset ? resetValue : load ? data_in : shift ? {q[6:0], fb} : q
		hwlib.Mux8("a[0..7]=q[0..7], b[0]=fb, b[1..7]=q[0..6], sel=shift, out[0..7]=shifted[0..7]"),
		hwlib.Mux8("a[0..7]=shifted[0..7], b[0..7]=data_in[0..7], sel=load, out[0..7]=loaded[0..7]"),
		hwlib.Mux8(constBus("a", DataBits, uint64(resetValue))+", b[0..7]=loaded[0..7], sel=rst_n, out[0..7]=d[0..7]"),
		hwlib.DFF8("in[0..7]=d[0..7], out[0..7]=q[0..7]"),
		hwlib.Mux8("a[0..7]=false, b[0..7]=q[0..7], sel=sel0, out[0..7]=data_out[0..7]"),
	)
}

// behavioral is a single component model of the peripheral. d is the
// register input, latched on the raising edge like the DFF8 in the
// gate-level chip.
type behavioral struct {
	RstN    int              `hw:"in,rst_n"`
	Address [AddressBits]int `hw:"in"`
	DataIn  [DataBits]int    `hw:"in,data_in"`
	Write   int              `hw:"in,data_write"`
	DataOut [DataBits]int    `hw:"out,data_out"`

	reset uint8
	q, d  uint8
}

func (b *behavioral) Update(c *hwsim.Circuit) {
	if c.AtTick() {
		b.q = b.d
	}
	a := hwlib.Uint64(c, b.Address[:])
	we := c.Get(b.Write)
	switch {
	case !c.Get(b.RstN):
		b.d = b.reset
	case we && a == lfsr.RegLoad:
		b.d = uint8(hwlib.Uint64(c, b.DataIn[:]))
	case we && a == lfsr.RegShift:
		b.d = lfsr.Next(b.q)
	default:
		b.d = b.q
	}
	if a == lfsr.RegState {
		hwlib.SetUint64(c, b.DataOut[:], uint64(b.q))
	} else {
		hwlib.SetUint64(c, b.DataOut[:], 0)
	}
}

// Behavioral returns a single component model of the peripheral with the
// same pins and timing as the chip returned by New.
//
func Behavioral(resetValue uint8) hwsim.NewPartFn {
	sp := hwsim.MakePart(&behavioral{reset: resetValue})
	sp.Name = "LFSR8_BEHAVIORAL"
	return sp.NewPart
}

func itoa(i uint) string { return strconv.Itoa(int(i)) }
