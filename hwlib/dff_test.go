package hwlib_test

import (
	"math/rand"
	"testing"

	"github.com/db47h/lfsrbench/hwlib"
	"github.com/db47h/lfsrbench/hwsim"
	"github.com/db47h/lfsrbench/hwtest"
)

func randBool() bool {
	return rand.Int63()&(1<<62) != 0
}

func TestDFF(t *testing.T) {
	var in, out uint64

	dff4, err := hwsim.Chip("DFF4", "in[4]", "out[4]",
		hwlib.DFF("in=in[0], out=out[0]"),
		hwlib.DFF("in=in[1], out=out[1]"),
		hwlib.DFF("in=in[2], out=out[2]"),
		hwlib.DFF("in=in[3], out=out[3]"),
	)
	if err != nil {
		t.Fatal(err)
	}

	c, err := hwsim.NewCircuit(0, testSPC,
		hwlib.InputN(4, func() uint64 { return in })("out[0..3]=in[0..3]"),
		dff4("in[0..3]=in[0..3], out[0..3]=out[0..3]"),
		hwlib.OutputN(4, func(o uint64) { out = o })("in[0..3]=out[0..3]"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	// the value present at the end of a cycle is sampled on the next raising
	// edge.
	var prev uint64
	for i := 15; i >= 0; i-- {
		in = uint64(i)
		c.TickTock()
		if prev != out {
			t.Fatalf("bad output for input %d: expected out = %d, got %d", in, prev, out)
		}
		prev = uint64(i)
	}

	// changes during the second half of a cycle are not missed.
	in = 5
	c.Tick()
	in = 9
	c.Tock()
	c.TickTock()
	if out != 9 {
		t.Fatalf("expected out = 9, got %d", out)
	}

	hwtest.ComparePart(t, testSPC, hwlib.DFFN(4), dff4)
}

func TestDFF8(t *testing.T) {
	dff4 := hwlib.DFFN(4)
	dff8, err := hwsim.Chip("myDFF8", "in[8]", "out[8]",
		dff4("in[0..3]=in[0..3], out[0..3]=out[0..3]"),
		dff4("in[0..3]=in[4..7], out[0..3]=out[4..7]"),
	)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, testSPC, hwlib.DFF8, dff8)
}

func Test_bit_register(t *testing.T) {
	reg, err := hwsim.Chip("BitReg", "in, load", "out",
		hwlib.Mux("a=out, b=in, sel=load, out=muxOut"),
		hwlib.DFF("in=muxOut, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}

	var in, load, out bool

	c, err := hwsim.NewCircuit(0, testSPC,
		hwlib.Input(func() bool { return in })("out=dffI"),
		hwlib.Input(func() bool { return load })("out=dffLD"),
		reg("in=dffI, load=dffLD, out=dffO"),
		hwlib.Output(func(b bool) { out = b })("in=dffO"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	p := false
	for i := 0; i < 1000; i++ {
		in = randBool()
		load = randBool()
		c.TickTock()
		if p != out {
			t.Fatalf("cycle %d: expected %v, got %v", i, p, out)
		}
		if load {
			p = in
		}
	}
}
