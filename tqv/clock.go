// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package tqv

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/db47h/lfsrbench/hwsim"
	"github.com/pkg/errors"
)

// ErrClockStopped is returned when waiting on a clock whose task is no longer
// running.
var ErrClockStopped = errors.New("clock stopped")

type clockReq struct {
	ctx  context.Context
	n    int
	done chan error
}

// A Clock is the clock generation task of a circuit.
//
// The clock task and its users are cooperatively scheduled: the circuit only
// advances while a user is waiting in Cycles, so pin states driven by the user
// never change while the circuit is running.
//
type Clock struct {
	c       *hwsim.Circuit
	period  time.Duration
	reqs    chan clockReq
	stopped chan struct{}
	cycles  atomic.Uint64
}

// NewClock returns a new clock for circuit c with the given simulated period.
// The clock does not run until Run is called.
//
func NewClock(c *hwsim.Circuit, period time.Duration) *Clock {
	return &Clock{
		c:       c,
		period:  period,
		reqs:    make(chan clockReq),
		stopped: make(chan struct{}),
	}
}

// Run runs the clock task until ctx is done. It must be called only once.
//
func (k *Clock) Run(ctx context.Context) error {
	defer close(k.stopped)
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-k.reqs:
			var err error
			for i := 0; i < r.n; i++ {
				if err = r.ctx.Err(); err != nil {
					break
				}
				k.c.TickTock()
				k.cycles.Add(1)
			}
			r.done <- err
		}
	}
}

// Cycles waits for n clock cycles. Cancelling ctx aborts the wait at the next
// clock cycle boundary.
//
func (k *Clock) Cycles(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	r := clockReq{ctx: ctx, n: n, done: make(chan error, 1)}
	select {
	case k.reqs <- r:
	case <-k.stopped:
		return ErrClockStopped
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "wait for clock")
	}
	if err := <-r.done; err != nil {
		return errors.Wrap(err, "wait for clock")
	}
	return nil
}

// Period returns the simulated clock period.
//
func (k *Clock) Period() time.Duration { return k.period }

// Frequency returns the clock frequency in Hz.
//
func (k *Clock) Frequency() float64 {
	return float64(time.Second) / float64(k.period)
}

// Count returns the number of elapsed clock cycles.
//
func (k *Clock) Count() uint64 { return k.cycles.Load() }

// Now returns the simulated time.
//
func (k *Clock) Now() time.Duration {
	return time.Duration(k.cycles.Load()) * k.period
}
