// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/db47h/lfsrbench/trace"
	"github.com/spf13/cobra"
)

var traceFlags struct {
	run      string
	scenario string
	results  bool
}

var traceCmd = &cobra.Command{
	Use:   "trace <db>",
	Short: "Dump the transactions recorded in a trace database.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := trace.OpenReader(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		w := cmd.OutOrStdout()
		q := trace.Query{RunID: traceFlags.run, Scenario: traceFlags.scenario}
		if traceFlags.results {
			res, err := r.Results(q)
			if err != nil {
				return err
			}
			for _, rr := range res {
				status := "PASS"
				if !rr.Passed {
					status = "FAIL"
				}
				fmt.Fprintf(w, "%s %s %-14s sim %-10v %s\n", rr.RunID, status, rr.Scenario, rr.Sim, rr.Error)
			}
			return nil
		}

		txs, err := r.Transactions(q)
		if err != nil {
			return err
		}
		for _, t := range txs {
			fmt.Fprintf(w, "%s %-14s %v\n", t.RunID, t.Scenario, t.Transaction)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().StringVar(&traceFlags.run, "run", "", "only show this run ID")
	traceCmd.Flags().StringVar(&traceFlags.scenario, "scenario", "", "only show this scenario")
	traceCmd.Flags().BoolVar(&traceFlags.results, "results", false, "show scenario results instead of transactions")
}
