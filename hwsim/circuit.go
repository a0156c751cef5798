// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// Circuit is a runnable circuit simulation.
//
// Each simulation step, every component reads pin states from the previous
// step and writes the new states. Signals therefore take one step to cross a
// built-in part, and a clock cycle must last longer than the deepest
// combinational path of the circuit.
//
type Circuit struct {
	s0    []bool // wire states frame #0
	s1    []bool // wire states frame #1
	cs    []Component
	count int  // wire count
	tpc   uint // steps per clock cycle
	tick  uint

	wc   []chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// stepsPerCycle indicates how many simulation steps to run per clock cycle
// (the Clk signal, not wall clock). It is rounded up to the next power of two,
// with a minimum of 2.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, stepsPerCycle uint, parts ...Part) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	if stepsPerCycle < 2 {
		stepsPerCycle = 2
	}
	stepsPerCycle--
	stepsPerCycle |= stepsPerCycle >> 1
	stepsPerCycle |= stepsPerCycle >> 2
	stepsPerCycle |= stepsPerCycle >> 4
	stepsPerCycle |= stepsPerCycle >> 8
	stepsPerCycle |= stepsPerCycle >> 16
	stepsPerCycle++

	// new circuit with room for constant value pins.
	cc := &Circuit{count: cstCount, tpc: stepsPerCycle}
	wrap, err := Chip("CIRCUIT", "", "", parts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create circuit")
	}
	ups := wrap("").Mount(newSocket(cc))
	ups = append(ups, updClock)
	cc.cs = ups
	cc.s0 = make([]bool, cc.count)
	cc.s1 = make([]bool, cc.count)
	cc.s0[cstTrue], cc.s1[cstTrue] = true, true
	cc.s0[cstClk], cc.s1[cstClk] = true, true

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}
	size := (len(ups) + workers - 1) / workers
	for len(ups) > 0 {
		if size > len(ups) {
			size = len(ups)
		}
		wc := make(chan struct{}, 1)
		cc.wc = append(cc.wc, wc)
		go worker(cc, ups[:size], wc)
		ups = ups[size:]
	}

	return cc, nil
}

func updClock(c *Circuit) {
	if c.s0[cstFalse] || !c.s0[cstTrue] {
		panic("true or false constants have been overwritten")
	}

	// update clock signal
	tick := c.tick + 1
	switch {
	case tick&(c.tpc-1) == 0:
		c.s1[cstClk] = true
	case tick&(c.tpc/2-1) == 0:
		c.s1[cstClk] = false
	default:
		c.s1[cstClk] = c.s0[cstClk]
	}
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines. It is safe to call Dispose more than once.
//
func (c *Circuit) Dispose() {
	c.once.Do(func() {
		c.wg.Add(len(c.wc))
		for _, wc := range c.wc {
			close(wc)
		}
		c.wg.Wait()
	})
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Steps returns the value of the step counter.
//
func (c *Circuit) Steps() uint {
	return c.tick
}

// SPC returns the steps per clock cycle value.
//
func (c *Circuit) SPC() uint {
	return c.tpc
}

// Cycles returns the number of completed clock cycles.
//
func (c *Circuit) Cycles() uint {
	return c.tick / c.tpc
}

// AtTick returns true if the current step is at the beginning of a clock cycle
// (raising edge of Clk).
//
func (c *Circuit) AtTick() bool {
	return c.tick&(c.tpc-1) == 0
}

// AtTock returns true if the current step is at the beginning of the second
// half of a clock cycle (falling edge of Clk).
//
func (c *Circuit) AtTock() bool {
	return (c.tick+c.tpc/2)&(c.tpc-1) == 0
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// Toggle toggles the state of pin n.
//
func (c *Circuit) Toggle(n int) {
	c.s1[n] = !c.s0[n]
}

// Step advances the simulation by one step.
//
func (c *Circuit) Step() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}

	c.wg.Wait()
	c.tick++
	c.s0, c.s1 = c.s1, c.s0
}

// Tick runs the simulation until the beginning of the next half clock cycle.
//
func (c *Circuit) Tick() {
	for c.Get(cstClk) {
		c.Step()
	}
}

// Tock runs the simulation until the beginning of the next clock cycle.
// Once Tock returns, the output of clocked components should have stabilized.
//
func (c *Circuit) Tock() {
	for !c.Get(cstClk) {
		c.Step()
	}
}

// TickTock runs the simulation for a whole clock cycle.
//
func (c *Circuit) TickTock() {
	c.Tick()
	c.Tock()
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }
