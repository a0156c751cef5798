package hwlib_test

import (
	"testing"

	"github.com/db47h/lfsrbench/hwlib"
	"github.com/db47h/lfsrbench/hwsim"
	"github.com/db47h/lfsrbench/hwtest"
)

func TestMuxN(t *testing.T) {
	m, err := hwsim.Chip("myMux4", "a[4], b[4], sel", "out[4]",
		hwlib.Mux("a=a[0], b=b[0], sel=sel, out=out[0]"),
		hwlib.Mux("a=a[1], b=b[1], sel=sel, out=out[1]"),
		hwlib.Mux("a=a[2], b=b[2], sel=sel, out=out[2]"),
		hwlib.Mux("a=a[3], b=b[3], sel=sel, out=out[3]"),
	)
	if err != nil {
		t.Fatal(err)
	}

	hwtest.ComparePart(t, testSPC, hwlib.MuxN(4), m)
}

func TestMux8(t *testing.T) {
	mux4 := hwlib.MuxN(4)
	m, err := hwsim.Chip("myMux8", "a[8], b[8], sel", "out[8]",
		mux4("a[0..3]=a[0..3], b[0..3]=b[0..3], sel=sel, out[0..3]=out[0..3]"),
		mux4("a[0..3]=a[4..7], b[0..3]=b[4..7], sel=sel, out[0..3]=out[4..7]"),
	)
	if err != nil {
		t.Fatal(err)
	}

	hwtest.ComparePart(t, testSPC, hwlib.Mux8, m)
}
