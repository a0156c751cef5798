// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/db47h/lfsrbench/lfsr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var modelFlags struct {
	seed  uint8
	count int
}

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Print the reference state sequence.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if modelFlags.count < 0 {
			return errors.Errorf("invalid count %d", modelFlags.count)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "seed 0x%02X, period %d\n", modelFlags.seed, lfsr.Period(modelFlags.seed))
		for i, s := range lfsr.Sequence(modelFlags.seed, modelFlags.count) {
			fmt.Fprintf(w, "%4d  0x%02X  %08b\n", i+1, s, s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.Flags().Uint8Var(&modelFlags.seed, "seed", lfsr.TestSeed, "initial state")
	modelCmd.Flags().IntVarP(&modelFlags.count, "count", "n", 50, "number of states to print")
}
