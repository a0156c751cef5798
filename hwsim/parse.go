// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Connection connects a part pin (PP) to one or more pins in its container
// (CP). Only outputs may be connected to more than one container pin.
//
type Connection struct {
	PP string
	CP []string
}

// BusPinName returns the name of pin i in bus.
//
func BusPinName(bus string, i int) string {
	return bus + "[" + strconv.Itoa(i) + "]"
}

// ParseIOSpec parses a pin specification string and returns individual pin
// names, expanding bus declarations to individual pin names:
//
//	ParseIOSpec("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
//
func ParseIOSpec(names string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(names, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			if strings.TrimSpace(names) == "" {
				return nil, nil
			}
			return nil, errors.Errorf("in %q: empty pin name", names)
		}
		i := strings.IndexByte(f, '[')
		if i < 0 {
			if !validName(f) {
				return nil, errors.Errorf("in %q: invalid pin name %q", names, f)
			}
			out = append(out, f)
			continue
		}
		bus := f[:i]
		if !validName(bus) {
			return nil, errors.Errorf("in %q: invalid bus name %q", names, bus)
		}
		if !strings.HasSuffix(f, "]") {
			return nil, errors.Errorf("in %q: missing close bracket", names)
		}
		n, err := strconv.Atoi(f[i+1 : len(f)-1])
		if err != nil || n <= 0 {
			return nil, errors.Errorf("in %q: invalid bus size for %q", names, bus)
		}
		for j := 0; j < n; j++ {
			out = append(out, BusPinName(bus, j))
		}
	}
	return out, nil
}

// ParseConnections parses a connection string of the form
//
//	"partPin=containerPin, bus[0..3]=wire[4..7], in[0..7]=false"
//
// Ranges on both sides must have the same size, unless one side is a single
// pin: a single part pin connected to a range fans out to every pin in the
// range, and a part range connected to a single pin has all its pins
// connected to that pin.
//
func ParseConnections(conns string) ([]Connection, error) {
	if strings.TrimSpace(conns) == "" {
		return nil, nil
	}
	var out []Connection
	seen := make(map[string]bool)
	for _, c := range strings.Split(conns, ",") {
		kv := strings.Split(c, "=")
		if len(kv) != 2 {
			return nil, errors.Errorf("in %q: malformed connection %q", conns, strings.TrimSpace(c))
		}
		k, v := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		ks, err := expandRange(k)
		if err != nil {
			return nil, errors.Wrapf(err, "in %q", conns)
		}
		vs, err := expandRange(v)
		if err != nil {
			return nil, errors.Wrapf(err, "in %q", conns)
		}
		var cs []Connection
		switch {
		case len(ks) == len(vs):
			for i := range ks {
				cs = append(cs, Connection{ks[i], []string{vs[i]}})
			}
		case len(ks) == 1:
			cs = append(cs, Connection{ks[0], vs})
		case len(vs) == 1:
			for _, k := range ks {
				cs = append(cs, Connection{k, vs})
			}
		default:
			return nil, errors.Errorf("in %q: pin count mismatch in %s=%s", conns, k, v)
		}
		for _, c := range cs {
			if seen[c.PP] {
				return nil, errors.Errorf("in %q: pin %s connected twice", conns, c.PP)
			}
			seen[c.PP] = true
		}
		out = append(out, cs...)
	}
	return out, nil
}

func expandRange(name string) ([]string, error) {
	if name == "" {
		return nil, errors.New("empty pin name")
	}
	i := strings.IndexByte(name, '[')
	if i < 0 {
		if !validName(name) {
			return nil, errors.Errorf("invalid pin name %q", name)
		}
		return []string{name}, nil
	}
	bus := name[:i]
	if !validName(bus) {
		return nil, errors.Errorf("invalid bus name %q", bus)
	}
	if !strings.HasSuffix(name, "]") {
		return nil, errors.Errorf("no terminating ] in %q", name)
	}
	idx := name[i+1 : len(name)-1]
	j := strings.Index(idx, "..")
	if j < 0 {
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 {
			return nil, errors.Errorf("invalid pin index in %q", name)
		}
		return []string{BusPinName(bus, n)}, nil
	}
	start, err := strconv.Atoi(idx[:j])
	if err != nil {
		return nil, errors.Wrapf(err, "bus range start in %q", name)
	}
	end, err := strconv.Atoi(idx[j+2:])
	if err != nil {
		return nil, errors.Wrapf(err, "bus range end in %q", name)
	}
	if start < 0 || end < start {
		return nil, errors.Errorf("invalid bus range in %q", name)
	}
	r := make([]string, 0, end-start+1)
	for n := start; n <= end; n++ {
		r = append(r, BusPinName(bus, n))
	}
	return r, nil
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
