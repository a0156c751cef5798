// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package testbench

import (
	"context"
	"fmt"
	"strings"

	"github.com/db47h/lfsrbench/lfsr"
	"github.com/pkg/errors"
)

// Scenario names.
const (
	ScenarioReset        = "reset"
	ScenarioLoad         = "load"
	ScenarioSequence     = "sequence"
	ScenarioReadStable   = "read_stable"
	ScenarioShiftPayload = "shift_payload"
)

// A MismatchError reports an observed register value that differs from the
// expected one.
//
type MismatchError struct {
	Scenario  string
	What      string
	Iteration int // 1-based shift index, 0 outside of a shift sequence
	Expected  uint8
	Actual    uint8
}

func (e *MismatchError) Error() string {
	if e.Iteration > 0 {
		return fmt.Sprintf("%s: %s mismatch on cycle %d: expected 0x%02X, got 0x%02X",
			e.Scenario, e.What, e.Iteration, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: %s mismatch: expected 0x%02X, got 0x%02X",
		e.Scenario, e.What, e.Expected, e.Actual)
}

// IsMismatch returns true if the cause of err is a *MismatchError.
//
func IsMismatch(err error) bool {
	_, ok := errors.Cause(err).(*MismatchError)
	return ok
}

// A Scenario is a named check run against a fresh fixture.
//
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, f *Fixture) error
}

var scenarios = []Scenario{
	{ScenarioReset, "state register reads the reset value after reset", CheckReset},
	{ScenarioLoad, "a seed written to the load address becomes the state", CheckLoad},
	{ScenarioSequence, "shifts from the seed follow the reference model", CheckSequence},
	{ScenarioReadStable, "reading the state register does not change it", CheckReadStable},
	{ScenarioShiftPayload, "the data written with a shift is ignored", CheckShiftPayload},
}

// Scenarios returns all scenarios in run order.
//
func Scenarios() []Scenario {
	return append([]Scenario(nil), scenarios...)
}

// Lookup returns the named scenarios, in the order given. With no names, it
// returns all scenarios.
//
func Lookup(names ...string) ([]Scenario, error) {
	if len(names) == 0 {
		return Scenarios(), nil
	}
	out := make([]Scenario, 0, len(names))
	var unknown []string
L:
	for _, n := range names {
		for _, s := range scenarios {
			if s.Name == n {
				out = append(out, s)
				continue L
			}
		}
		unknown = append(unknown, n)
	}
	if len(unknown) > 0 {
		return nil, errors.Errorf("unknown scenario(s): %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

func readState(ctx context.Context, f *Fixture) (uint8, error) {
	v, err := f.Regs.ReadReg(ctx, lfsr.RegState)
	return v, errors.Wrap(err, "read state register")
}

func load(ctx context.Context, f *Fixture, v uint8) error {
	return errors.Wrapf(f.Regs.WriteReg(ctx, lfsr.RegLoad, v), "load 0x%02X", v)
}

func shift(ctx context.Context, f *Fixture, payload uint8) error {
	return errors.Wrap(f.Regs.WriteReg(ctx, lfsr.RegShift, payload), "shift")
}

// CheckReset checks that the state register reads the reset value.
//
func CheckReset(ctx context.Context, f *Fixture) error {
	v, err := readState(ctx, f)
	if err != nil {
		return err
	}
	if v != f.Params.ResetValue {
		return &MismatchError{Scenario: ScenarioReset, What: "reset value", Expected: f.Params.ResetValue, Actual: v}
	}
	f.Log.Printf("reset value verified: 0x%02X", v)
	return nil
}

// CheckLoad checks that writing the seed to the load address replaces the
// state.
//
func CheckLoad(ctx context.Context, f *Fixture) error {
	seed := f.Params.Seed
	if err := load(ctx, f, seed); err != nil {
		return err
	}
	v, err := readState(ctx, f)
	if err != nil {
		return err
	}
	if v != seed {
		return &MismatchError{Scenario: ScenarioLoad, What: "loaded value", Expected: seed, Actual: v}
	}
	f.Log.Printf("loaded value 0x%02X", v)
	return nil
}

// CheckSequence loads the seed, then shifts Params.Length times, checking
// each new state against lfsr.Next applied to the previous one. It stops at
// the first mismatch.
//
func CheckSequence(ctx context.Context, f *Fixture) error {
	if err := load(ctx, f, f.Params.Seed); err != nil {
		return err
	}
	cur, err := readState(ctx, f)
	if err != nil {
		return err
	}
	f.Log.Printf("starting sequence from seed 0x%02X", cur)
	for i := 1; i <= f.Params.Length; i++ {
		exp := lfsr.Next(cur)
		if err = shift(ctx, f, 0); err != nil {
			return errors.Wrapf(err, "cycle %d", i)
		}
		v, err := readState(ctx, f)
		if err != nil {
			return errors.Wrapf(err, "cycle %d", i)
		}
		if v != exp {
			return &MismatchError{Scenario: ScenarioSequence, What: "state", Iteration: i, Expected: exp, Actual: v}
		}
		cur = v
	}
	f.Log.Printf("sequence verified for %d cycles", f.Params.Length)
	return nil
}

// CheckReadStable checks that two consecutive reads of the state register
// return the same value, after reset and after a load.
//
func CheckReadStable(ctx context.Context, f *Fixture) error {
	check := func(when string) error {
		a, err := readState(ctx, f)
		if err != nil {
			return err
		}
		b, err := readState(ctx, f)
		if err != nil {
			return err
		}
		if a != b {
			return &MismatchError{Scenario: ScenarioReadStable, What: "second read " + when, Expected: a, Actual: b}
		}
		return nil
	}
	if err := check("after reset"); err != nil {
		return err
	}
	if err := load(ctx, f, f.Params.Seed); err != nil {
		return err
	}
	if err := check("after load"); err != nil {
		return err
	}
	f.Log.Print("reads are side effect free")
	return nil
}

// CheckShiftPayload checks that a shift with a non-zero payload gives the
// same state as a shift with a zero payload.
//
func CheckShiftPayload(ctx context.Context, f *Fixture) error {
	shiftFromSeed := func(payload uint8) (uint8, error) {
		if err := load(ctx, f, f.Params.Seed); err != nil {
			return 0, err
		}
		if err := shift(ctx, f, payload); err != nil {
			return 0, err
		}
		return readState(ctx, f)
	}
	zero, err := shiftFromSeed(0x00)
	if err != nil {
		return err
	}
	if exp := lfsr.Next(f.Params.Seed); zero != exp {
		return &MismatchError{Scenario: ScenarioShiftPayload, What: "state after shift", Expected: exp, Actual: zero}
	}
	ones, err := shiftFromSeed(0xFF)
	if err != nil {
		return err
	}
	if ones != zero {
		return &MismatchError{Scenario: ScenarioShiftPayload, What: "state after shift with payload 0xFF", Expected: zero, Actual: ones}
	}
	f.Log.Printf("shift payload ignored: 0x%02X", ones)
	return nil
}
