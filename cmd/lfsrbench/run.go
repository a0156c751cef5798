// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/db47h/lfsrbench/config"
	"github.com/db47h/lfsrbench/lfsr"
	"github.com/db47h/lfsrbench/testbench"
	"github.com/db47h/lfsrbench/tqv"
	"github.com/db47h/lfsrbench/trace"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// value of --trace without argument: record to a new database.
const autoTrace = "auto"

var runFlags struct {
	seed          uint8
	length        int
	period        time.Duration
	resetCycles   int
	workers       int
	stepsPerCycle uint
	behavioral    bool
	trace         string
	dutReset      uint8
	format        string
	verbose       bool
}

var runCmd = &cobra.Command{
	Use:   "run [scenario...]",
	Short: "Run verification scenarios.",
	Long: `Run the named scenarios, or all of them, each against a freshly ` +
		`reset simulated peripheral. Scenarios run in the order given and a ` +
		`failure does not stop the next ones.`,
	RunE: runScenarios,
}

func init() {
	rootCmd.AddCommand(runCmd)
	f := runCmd.Flags()
	f.Uint8Var(&runFlags.seed, "seed", lfsr.TestSeed, "seed loaded by the load and sequence scenarios")
	f.IntVar(&runFlags.length, "length", 50, "number of shifts checked by the sequence scenario")
	f.DurationVar(&runFlags.period, "period", tqv.DefaultClockPeriod, "simulated clock period")
	f.IntVar(&runFlags.resetCycles, "reset-cycles", tqv.DefaultResetCycles, "clock cycles rst_n is held low")
	f.IntVar(&runFlags.workers, "workers", 1, "simulation worker goroutines, 0 for GOMAXPROCS")
	f.UintVar(&runFlags.stepsPerCycle, "steps-per-cycle", 16, "simulation steps per clock cycle")
	f.BoolVar(&runFlags.behavioral, "behavioral", false, "simulate the behavioral model instead of the gate-level chip")
	f.StringVar(&runFlags.trace, "trace", "", "record transactions to this SQLite database")
	f.Lookup("trace").NoOptDefVal = autoTrace
	f.Uint8Var(&runFlags.dutReset, "dut-reset", lfsr.ResetValue, "reset value of the simulated peripheral")
	f.StringVar(&runFlags.format, "format", formatText, "report format: text or yaml")
	f.BoolVarP(&runFlags.verbose, "verbose", "v", false, "log scenario progress")
	_ = f.MarkHidden("dut-reset")
}

// loadConfig loads the configuration and applies the flags set on the command
// line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if f.Changed("seed") {
		cfg.Seed = runFlags.seed
	}
	if f.Changed("length") {
		cfg.Length = runFlags.length
	}
	if f.Changed("period") {
		cfg.ClockPeriod = runFlags.period
	}
	if f.Changed("reset-cycles") {
		cfg.ResetCycles = runFlags.resetCycles
	}
	if f.Changed("workers") {
		cfg.Workers = runFlags.workers
	}
	if f.Changed("steps-per-cycle") {
		cfg.StepsPerCycle = runFlags.stepsPerCycle
	}
	if f.Changed("behavioral") {
		cfg.Behavioral = runFlags.behavioral
	}
	if f.Changed("trace") {
		cfg.TraceDB = runFlags.trace
	}
	return cfg, cfg.Validate()
}

func openTrace(path string) (*trace.Recorder, error) {
	if path == autoTrace {
		return trace.New("")
	}
	return trace.Append(path)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	scenarios, err := testbench.Lookup(args...)
	if err != nil {
		return err
	}
	if f := runFlags.format; f != formatText && f != formatYAML {
		return errors.Errorf("unknown report format %q", f)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return errors.Wrap(err, "configuration")
	}

	opts := cfg.DeviceOptions()
	opts.ResetValue = runFlags.dutReset

	logger := log.New(os.Stderr, "", log.Lmicroseconds)
	if !runFlags.verbose {
		logger.SetOutput(io.Discard)
	}
	runner := &testbench.Runner{Log: logger}

	var observer func(string) tqv.Observer
	if cfg.TraceDB != "" {
		rec, err := openTrace(cfg.TraceDB)
		if err != nil {
			return errors.Wrap(err, "trace")
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Printf("trace: %v", err)
			}
		}()
		log.Printf("recording to %v", rec)
		observer = rec.Observer
		runner.OnResult = rec.RecordResult
	}
	runner.Setup = testbench.DeviceSetup(opts, cfg.Params(), logger, observer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep := runner.Run(ctx, scenarios...)
	if rep.Failed() > 0 {
		exitCode = 1
	}
	return writeReport(cmd.OutOrStdout(), runFlags.format, rep)
}
