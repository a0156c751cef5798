// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command lfsrbench runs the LFSR peripheral verification scenarios against
// a gate-level simulation of the peripheral.
//
//	lfsrbench run                  # run all scenarios
//	lfsrbench run reset sequence   # run selected scenarios
//	lfsrbench run --trace=run.db   # record bus transactions
//	lfsrbench model --count 10     # print the reference sequence
//	lfsrbench list                 # list scenarios
//	lfsrbench trace run.db         # dump a recorded trace
//
// The exit status is 1 if a scenario failed, 2 on usage or setup errors.
//
package main

import (
	"log"

	"github.com/tebeka/atexit"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("lfsrbench: ")
	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(2)
	}
	atexit.Exit(exitCode)
}
