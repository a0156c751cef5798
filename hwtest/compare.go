// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/lfsrbench/hwlib"
	"github.com/db47h/lfsrbench/hwsim"
)

// maxExhaustive is the input count above which ComparePart switches from
// exhaustive to random testing.
const maxExhaustive = 12

func connString(prefix string, pins []string) string {
	var b strings.Builder
	for _, n := range pins {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n)
		b.WriteRune('=')
		b.WriteString(prefix)
		b.WriteString(n)
	}
	return b.String()
}

// ComparePart takes two parts and compares their outputs given the same
// inputs, one clock cycle at a time. Both parts must have the same
// Input/Output interface. Parts with up to 12 inputs are tested exhaustively,
// others with 4096 random input vectors.
//
func ComparePart(t testing.TB, spc uint, part1 hwsim.NewPartFn, part2 hwsim.NewPartFn) {
	t.Helper()

	ps1, ps2 := part1(""), part2("")
	if len(ps1.Inputs) != len(ps2.Inputs) || len(ps1.Outputs) != len(ps2.Outputs) {
		t.Fatalf("%s and %s have different interfaces", ps1.Name, ps2.Name)
	}
	for i := range ps1.Inputs {
		if ps1.Inputs[i] != ps2.Inputs[i] {
			t.Fatalf("ps1.Inputs[%d] = %q != ps2.Inputs[%d] = %q", i, ps1.Inputs[i], i, ps2.Inputs[i])
		}
	}
	for i := range ps1.Outputs {
		if ps1.Outputs[i] != ps2.Outputs[i] {
			t.Fatalf("ps1.Outputs[%d] = %q != ps2.Outputs[%d] = %q", i, ps1.Outputs[i], i, ps2.Outputs[i])
		}
	}

	inputs := make([]bool, len(ps1.Inputs))
	outputs := make([][2]bool, len(ps1.Outputs))

	var parts hwsim.Parts
	for i, n := range ps1.Inputs {
		in := &inputs[i]
		parts = append(parts, hwlib.Input(func() bool { return *in })("out=in_"+n))
	}
	ins := connString("in_", ps1.Inputs)
	sep := ""
	if ins != "" && len(ps1.Outputs) > 0 {
		sep = ","
	}
	parts = append(parts,
		part1(ins+sep+connString("o1_", ps1.Outputs)),
		part2(ins+sep+connString("o2_", ps2.Outputs)))
	for i, o := range ps1.Outputs {
		out := &outputs[i]
		parts = append(parts,
			hwlib.Output(func(b bool) { out[0] = b })("in=o1_"+o),
			hwlib.Output(func(b bool) { out[1] = b })("in=o2_"+o))
	}

	c, err := hwsim.NewCircuit(0, spc, parts...)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	check := func() {
		t.Helper()
		c.TickTock()
		for o, out := range outputs {
			if out[0] != out[1] {
				var b strings.Builder
				for i, n := range ps1.Inputs {
					if i > 0 {
						b.WriteString(", ")
					}
					fmt.Fprintf(&b, "%s=%v", n, inputs[i])
				}
				t.Fatalf("\nExpected %s => %s=%v\nGot %v", b.String(), ps1.Outputs[o], out[0], out[1])
			}
		}
	}

	start := time.Now()
	if len(inputs) <= maxExhaustive {
		for v := 0; v < 1<<uint(len(inputs)); v++ {
			for bit := range inputs {
				inputs[bit] = v&(1<<uint(bit)) != 0
			}
			check()
		}
	} else {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for i := 0; i < 1<<maxExhaustive; i++ {
			for bit := range inputs {
				inputs[bit] = rnd.Int63()&(1<<62) != 0
			}
			check()
		}
	}

	elapsed := time.Since(start)
	t.Logf("%d components. %d steps in %v. %d clock cycles => %.2f Hz",
		c.Size(), c.Steps(), elapsed, c.Cycles(), float64(c.Cycles())/elapsed.Seconds())
}
