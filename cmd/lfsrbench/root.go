// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"github.com/db47h/lfsrbench/config"
	"github.com/spf13/cobra"
)

// exitCode is the process exit status once the command has completed.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "lfsrbench",
	Short: "Verification testbench of an 8 bits LFSR peripheral.",
	Long: `lfsrbench drives a simulated 8 bits LFSR peripheral through its register ` +
		`interface and checks its behavior against a reference model.

Settings are read from the environment (LFSR_* variables), optionally loaded ` +
		`from a .env file, and overridden by command line flags.`,
	SilenceUsage: true,
}

var envFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "",
		"load LFSR_* variables from this file (default "+config.DefaultEnvFile+" if present)")
}
