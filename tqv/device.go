// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package tqv is the register access adapter of the LFSR peripheral. It runs
// the peripheral in a hwsim circuit, generates its clock and translates
// register reads and writes into pin activity spanning whole clock cycles.
//
package tqv

import (
	"context"
	"time"

	"github.com/db47h/lfsrbench/hwlib"
	"github.com/db47h/lfsrbench/hwsim"
	"github.com/db47h/lfsrbench/lfsr"
	"github.com/db47h/lfsrbench/periph"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Defaults.
const (
	DefaultClockPeriod = 100 * time.Nanosecond // 10 MHz
	DefaultResetCycles = 10
)

// Options configures a Device.
//
type Options struct {
	// Value of the LFSR after reset.
	ResetValue uint8
	// Simulated clock period.
	ClockPeriod time.Duration
	// Number of clock cycles rst_n is held low during reset.
	ResetCycles int
	// Number of simulation worker goroutines (see hwsim.NewCircuit).
	Workers int
	// Simulation steps per clock cycle. Values lower than
	// periph.MinStepsPerCycle are raised to that value.
	StepsPerCycle uint
	// Run the single component behavioral model of the peripheral instead of
	// the gate-level chip.
	Behavioral bool
	// Optional transaction observer.
	Observer Observer
}

// DefaultOptions returns the default device options.
//
func DefaultOptions() Options {
	return Options{
		ResetValue:    lfsr.ResetValue,
		ClockPeriod:   DefaultClockPeriod,
		ResetCycles:   DefaultResetCycles,
		Workers:       1,
		StepsPerCycle: periph.MinStepsPerCycle,
	}
}

// Device is a simulated LFSR peripheral with its clock running.
//
// A Device is not safe for concurrent use: transactions are strictly
// sequential and each one returns once its effect is visible.
//
type Device struct {
	opts    Options
	circuit *hwsim.Circuit
	clock   *Clock
	cancel  context.CancelFunc
	g       *errgroup.Group
	seq     uint64

	// pin states. Only accessed while the clock task is idle.
	rstN, we  bool
	addr, din uint8
	dout      uint8
}

// Open builds the circuit, starts the clock task and resets the device.
//
func Open(ctx context.Context, opts Options) (*Device, error) {
	if opts.ClockPeriod <= 0 {
		return nil, errors.Errorf("invalid clock period %v", opts.ClockPeriod)
	}
	if opts.ResetCycles < 1 {
		return nil, errors.Errorf("invalid reset cycle count %d", opts.ResetCycles)
	}
	if opts.StepsPerCycle < periph.MinStepsPerCycle {
		opts.StepsPerCycle = periph.MinStepsPerCycle
	}

	var dut hwsim.NewPartFn
	if opts.Behavioral {
		dut = periph.Behavioral(opts.ResetValue)
	} else {
		var err error
		if dut, err = periph.New(opts.ResetValue); err != nil {
			return nil, errors.Wrap(err, "build peripheral")
		}
	}

	d := &Device{opts: opts}
	c, err := hwsim.NewCircuit(opts.Workers, opts.StepsPerCycle,
		hwlib.Input(func() bool { return d.rstN })("out=rst_n"),
		hwlib.Input(func() bool { return d.we })("out=we"),
		hwlib.InputN(periph.AddressBits, func() uint64 { return uint64(d.addr) })("out[0..3]=addr[0..3]"),
		hwlib.InputN(periph.DataBits, func() uint64 { return uint64(d.din) })("out[0..7]=din[0..7]"),
		dut("rst_n=rst_n, address[0..3]=addr[0..3], data_in[0..7]=din[0..7], data_write=we, data_out[0..7]=dout[0..7]"),
		hwlib.OutputN(periph.DataBits, func(v uint64) { d.dout = uint8(v) })("in[0..7]=dout[0..7]"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "build circuit")
	}
	d.circuit = c
	d.clock = NewClock(c, opts.ClockPeriod)

	ctx, d.cancel = context.WithCancel(ctx)
	d.g, ctx = errgroup.WithContext(ctx)
	d.g.Go(func() error { return d.clock.Run(ctx) })

	if err := d.Reset(ctx); err != nil {
		d.Close()
		return nil, errors.Wrap(err, "reset")
	}
	return d, nil
}

// Close stops the clock task and releases the circuit.
//
func (d *Device) Close() error {
	d.cancel()
	err := d.g.Wait()
	d.circuit.Dispose()
	return err
}

// Clock returns the device clock.
//
func (d *Device) Clock() *Clock { return d.clock }

// Options returns the options the device was opened with.
//
func (d *Device) Options() Options { return d.opts }

// Reset holds rst_n low for the configured number of cycles, then releases it
// for one cycle.
//
func (d *Device) Reset(ctx context.Context) error {
	start := d.clock.Now()
	d.rstN, d.we = false, false
	if err := d.clock.Cycles(ctx, d.opts.ResetCycles); err != nil {
		return err
	}
	d.rstN = true
	if err := d.clock.Cycles(ctx, 1); err != nil {
		return err
	}
	d.observe(KindReset, 0, 0, start)
	return nil
}

func checkAddress(addr uint8) error {
	if addr >= 1<<periph.AddressBits {
		return errors.Errorf("address 0x%02X out of range", addr)
	}
	return nil
}

// ReadReg drives addr on the bus for one clock cycle and returns data_out.
//
func (d *Device) ReadReg(ctx context.Context, addr uint8) (uint8, error) {
	if err := checkAddress(addr); err != nil {
		return 0, err
	}
	start := d.clock.Now()
	d.addr, d.we = addr, false
	if err := d.clock.Cycles(ctx, 1); err != nil {
		return 0, errors.Wrapf(err, "read 0x%02X", addr)
	}
	v := d.dout
	d.observe(KindRead, addr, v, start)
	return v, nil
}

// WriteReg writes data at addr. data_write is held high for exactly one
// raising edge, followed by an idle cycle so that the result is visible when
// WriteReg returns.
//
func (d *Device) WriteReg(ctx context.Context, addr, data uint8) error {
	if err := checkAddress(addr); err != nil {
		return err
	}
	start := d.clock.Now()
	d.addr, d.din, d.we = addr, data, true
	err := d.clock.Cycles(ctx, 1)
	d.we = false
	if err != nil {
		return errors.Wrapf(err, "write 0x%02X", addr)
	}
	if err = d.clock.Cycles(ctx, 1); err != nil {
		return errors.Wrapf(err, "write 0x%02X", addr)
	}
	d.observe(KindWrite, addr, data, start)
	return nil
}

func (d *Device) observe(k Kind, addr, data uint8, start time.Duration) {
	d.seq++
	if d.opts.Observer == nil {
		return
	}
	d.opts.Observer.Observe(Transaction{
		Seq:     d.seq,
		Kind:    k,
		Address: addr,
		Data:    data,
		Start:   start,
		End:     d.clock.Now(),
	})
}
