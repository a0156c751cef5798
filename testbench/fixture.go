// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package testbench implements the directed verification scenarios of the
// LFSR peripheral and the runner that executes them.
//
// Each scenario runs against its own Fixture: a register accessor brought to
// a known state (clock running, reset done) and discarded at the end of the
// scenario.
//
package testbench

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/db47h/lfsrbench/lfsr"
	"github.com/db47h/lfsrbench/tqv"
	"github.com/pkg/errors"
)

// RegisterAccessor is the register interface scenarios drive. Both operations
// block until the bus transaction has completed.
//
type RegisterAccessor interface {
	ReadReg(ctx context.Context, addr uint8) (uint8, error)
	WriteReg(ctx context.Context, addr, data uint8) error
}

// Params are the constants the scenarios check against.
//
type Params struct {
	ResetValue uint8 // expected state after reset
	Seed       uint8 // seed loaded by the load and sequence scenarios
	Length     int   // number of shifts checked by the sequence scenario
}

// DefaultParams returns the hardware defined parameters.
//
func DefaultParams() Params {
	return Params{
		ResetValue: lfsr.ResetValue,
		Seed:       lfsr.TestSeed,
		Length:     50,
	}
}

// A Fixture is the per-scenario test context.
//
type Fixture struct {
	Regs   RegisterAccessor
	Params Params
	Log    *log.Logger
	// Now returns the simulated time. May be nil.
	Now func() time.Duration
	// Closer releases the device. May be nil.
	Closer io.Closer
}

// Close releases the fixture's device.
//
func (f *Fixture) Close() error {
	if f.Closer == nil {
		return nil
	}
	return f.Closer.Close()
}

func (f *Fixture) simTime() time.Duration {
	if f.Now == nil {
		return 0
	}
	return f.Now()
}

// Setup returns a fresh fixture for the named scenario.
//
type Setup func(ctx context.Context, scenario string) (*Fixture, error)

// DeviceSetup returns a Setup that opens a new simulated device for each
// scenario. If observer is not nil, it is called to get the transaction
// observer of each scenario's device.
//
func DeviceSetup(opts tqv.Options, params Params, logger *log.Logger, observer func(scenario string) tqv.Observer) Setup {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return func(ctx context.Context, scenario string) (*Fixture, error) {
		o := opts
		if observer != nil {
			o.Observer = observer(scenario)
		}
		d, err := tqv.Open(ctx, o)
		if err != nil {
			return nil, errors.Wrap(err, "open device")
		}
		clk := d.Clock()
		logger.Printf("clock %v (%.2f MHz), reset done at %v", clk.Period(), clk.Frequency()/1e6, clk.Now())
		return &Fixture{
			Regs:   d,
			Params: params,
			Log:    logger,
			Now:    clk.Now,
			Closer: d,
		}, nil
	}
}
