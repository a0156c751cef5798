// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/db47h/lfsrbench/testbench"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Report formats.
const (
	formatText = "text"
	formatYAML = "yaml"
)

type yamlResult struct {
	Scenario string `yaml:"scenario"`
	Passed   bool   `yaml:"passed"`
	Error    string `yaml:"error,omitempty"`
	Sim      string `yaml:"sim"`
	Wall     string `yaml:"wall"`
}

type yamlReport struct {
	Scenarios int          `yaml:"scenarios"`
	Failed    int          `yaml:"failed"`
	Results   []yamlResult `yaml:"results"`
}

func writeReport(w io.Writer, format string, rep *testbench.Report) error {
	switch format {
	case formatText:
		_, err := fmt.Fprint(w, rep)
		return err
	case formatYAML:
		doc := yamlReport{Scenarios: len(rep.Results), Failed: rep.Failed()}
		for i := range rep.Results {
			r := &rep.Results[i]
			yr := yamlResult{
				Scenario: r.Scenario,
				Passed:   r.Passed(),
				Sim:      r.Sim.String(),
				Wall:     r.Wall.Round(time.Microsecond).String(),
			}
			if r.Err != nil {
				yr.Error = r.Err.Error()
			}
			doc.Results = append(doc.Results, yr)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&doc); err != nil {
			return errors.Wrap(err, "encode report")
		}
		return enc.Close()
	}
	return errors.Errorf("unknown report format %q", format)
}
