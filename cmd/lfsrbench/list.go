// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/db47h/lfsrbench/testbench"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the verification scenarios.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range testbench.Scenarios() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", s.Name, s.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
