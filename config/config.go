// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config holds the testbench run configuration.
//
// Values start from the hardware defaults and are overridden, in order, by
// variables set in an optional .env file and by the process environment:
//
//	LFSR_SEED             seed of the load and sequence scenarios (0x14)
//	LFSR_SEQUENCE_LENGTH  number of shifts checked (50)
//	LFSR_CLOCK_PERIOD     simulated clock period (100ns)
//	LFSR_RESET_CYCLES     cycles rst_n is held low (10)
//	LFSR_WORKERS          simulation worker goroutines (1)
//	LFSR_STEPS_PER_CYCLE  simulation steps per clock cycle (16)
//	LFSR_BEHAVIORAL       simulate the behavioral model (false)
//	LFSR_TRACE_DB         SQLite trace database, empty to disable
//
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/db47h/lfsrbench/periph"
	"github.com/db47h/lfsrbench/testbench"
	"github.com/db47h/lfsrbench/tqv"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// DefaultEnvFile is loaded by Load when no file name is given, if it exists.
const DefaultEnvFile = ".env"

// Environment variable names.
const (
	EnvSeed          = "LFSR_SEED"
	EnvLength        = "LFSR_SEQUENCE_LENGTH"
	EnvClockPeriod   = "LFSR_CLOCK_PERIOD"
	EnvResetCycles   = "LFSR_RESET_CYCLES"
	EnvWorkers       = "LFSR_WORKERS"
	EnvStepsPerCycle = "LFSR_STEPS_PER_CYCLE"
	EnvBehavioral    = "LFSR_BEHAVIORAL"
	EnvTraceDB       = "LFSR_TRACE_DB"
)

// Config is a testbench run configuration.
//
type Config struct {
	Seed          uint8
	Length        int
	ClockPeriod   time.Duration
	ResetCycles   int
	Workers       int
	StepsPerCycle uint
	Behavioral    bool
	TraceDB       string
}

// Default returns the default configuration.
//
func Default() Config {
	p := testbench.DefaultParams()
	o := tqv.DefaultOptions()
	return Config{
		Seed:          p.Seed,
		Length:        p.Length,
		ClockPeriod:   o.ClockPeriod,
		ResetCycles:   o.ResetCycles,
		Workers:       o.Workers,
		StepsPerCycle: o.StepsPerCycle,
	}
}

// Load returns the default configuration overridden by the variables in
// envFile and in the environment. Variables already set in the environment
// take precedence over the file. If envFile is empty, DefaultEnvFile is read
// if present.
//
func Load(envFile string) (Config, error) {
	file := map[string]string{}
	if envFile == "" {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			envFile = DefaultEnvFile
		}
	}
	if envFile != "" {
		var err error
		if file, err = godotenv.Read(envFile); err != nil {
			return Config{}, errors.Wrapf(err, "read %s", envFile)
		}
	}
	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	})
}

// FromLookup returns the default configuration overridden by the variables
// returned by lookup.
//
func FromLookup(lookup func(key string) (string, bool)) (Config, error) {
	c := Default()
	var err error
	set := func(key string, parse func(string) error) {
		if err != nil {
			return
		}
		if v, ok := lookup(key); ok && v != "" {
			err = errors.Wrapf(parse(v), "%s=%q", key, v)
		}
	}
	set(EnvSeed, func(v string) error {
		n, err := strconv.ParseUint(v, 0, 8)
		c.Seed = uint8(n)
		return err
	})
	set(EnvLength, func(v string) (err error) {
		c.Length, err = strconv.Atoi(v)
		return err
	})
	set(EnvClockPeriod, func(v string) (err error) {
		c.ClockPeriod, err = time.ParseDuration(v)
		return err
	})
	set(EnvResetCycles, func(v string) (err error) {
		c.ResetCycles, err = strconv.Atoi(v)
		return err
	})
	set(EnvWorkers, func(v string) (err error) {
		c.Workers, err = strconv.Atoi(v)
		return err
	})
	set(EnvStepsPerCycle, func(v string) error {
		n, err := strconv.ParseUint(v, 0, 32)
		c.StepsPerCycle = uint(n)
		return err
	})
	set(EnvBehavioral, func(v string) (err error) {
		c.Behavioral, err = strconv.ParseBool(v)
		return err
	})
	set(EnvTraceDB, func(v string) error {
		c.TraceDB = v
		return nil
	})
	if err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// Validate checks that the configuration values are usable.
//
func (c *Config) Validate() error {
	switch {
	case c.Length < 1:
		return errors.Errorf("invalid sequence length %d", c.Length)
	case c.ClockPeriod <= 0:
		return errors.Errorf("invalid clock period %v", c.ClockPeriod)
	case c.ResetCycles < 1:
		return errors.Errorf("invalid reset cycle count %d", c.ResetCycles)
	case c.Workers < 0:
		return errors.Errorf("invalid worker count %d", c.Workers)
	case c.StepsPerCycle != 0 && c.StepsPerCycle < periph.MinStepsPerCycle:
		return errors.Errorf("steps per cycle must be at least %d, got %d", periph.MinStepsPerCycle, c.StepsPerCycle)
	}
	return nil
}

// Params returns the scenario parameters.
//
func (c *Config) Params() testbench.Params {
	p := testbench.DefaultParams()
	p.Seed = c.Seed
	p.Length = c.Length
	return p
}

// DeviceOptions returns the simulated device options.
//
func (c *Config) DeviceOptions() tqv.Options {
	o := tqv.DefaultOptions()
	o.ClockPeriod = c.ClockPeriod
	o.ResetCycles = c.ResetCycles
	o.Workers = c.Workers
	o.StepsPerCycle = c.StepsPerCycle
	o.Behavioral = c.Behavioral
	return o
}
