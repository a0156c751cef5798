// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package testbench

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Result is the outcome of one scenario.
//
type Result struct {
	Scenario string
	Err      error         // nil if the scenario passed
	Wall     time.Duration // wall clock duration, setup included
	Sim      time.Duration // simulated time at the end of the scenario
}

// Passed returns true if the scenario passed.
//
func (r *Result) Passed() bool { return r.Err == nil }

// Report aggregates scenario results.
//
type Report struct {
	Results []Result
}

// Failed returns the number of failed scenarios.
//
func (r *Report) Failed() int {
	n := 0
	for i := range r.Results {
		if !r.Results[i].Passed() {
			n++
		}
	}
	return n
}

func (r *Report) String() string {
	var b strings.Builder
	for i := range r.Results {
		res := &r.Results[i]
		if res.Passed() {
			fmt.Fprintf(&b, "PASS %-14s sim %-10v wall %v\n", res.Scenario, res.Sim, res.Wall.Round(time.Microsecond))
		} else {
			fmt.Fprintf(&b, "FAIL %-14s %v\n", res.Scenario, res.Err)
		}
	}
	fmt.Fprintf(&b, "%d scenario(s), %d failed\n", len(r.Results), r.Failed())
	return b.String()
}

// Runner runs scenarios one after the other, each with its own fixture.
// A failed scenario does not prevent the next ones from running.
//
type Runner struct {
	Setup Setup
	Log   *log.Logger
	// OnResult, if not nil, is called after each scenario.
	OnResult func(Result)
}

// Run runs the given scenarios and returns the report.
//
func (r *Runner) Run(ctx context.Context, scenarios ...Scenario) *Report {
	logger := r.Log
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	rep := &Report{Results: make([]Result, 0, len(scenarios))}
	for _, s := range scenarios {
		logger.Printf("=== RUN   %s", s.Name)
		res := r.runOne(ctx, s, logger)
		if res.Passed() {
			logger.Printf("--- PASS: %s (sim %v)", s.Name, res.Sim)
		} else {
			logger.Printf("--- FAIL: %s: %v", s.Name, res.Err)
		}
		if r.OnResult != nil {
			r.OnResult(res)
		}
		rep.Results = append(rep.Results, res)
	}
	return rep
}

func (r *Runner) runOne(ctx context.Context, s Scenario, logger *log.Logger) (res Result) {
	res.Scenario = s.Name
	start := time.Now()
	defer func() { res.Wall = time.Since(start) }()

	f, err := r.Setup(ctx, s.Name)
	if err != nil {
		res.Err = errors.Wrap(err, "setup")
		return res
	}
	if f.Log == nil {
		f.Log = logger
	}
	defer func() {
		res.Sim = f.simTime()
		if err := f.Close(); err != nil && res.Err == nil {
			res.Err = errors.Wrap(err, "teardown")
		}
	}()
	defer func() {
		if p := recover(); p != nil {
			res.Err = errors.Errorf("panic: %v", p)
		}
	}()

	res.Err = s.Run(ctx, f)
	return res
}
