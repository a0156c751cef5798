// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

// A Component is a piece of logic mounted in a circuit. It is called once per
// simulation step and must only read pins with Get and write pins with Set.
//
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query the socket for
// assigned pin numbers and return closures around these pin numbers.
//
// For example, a Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name:    "Not",
//		Inputs:  Inputs{"in"},
//		Outputs: Outputs{"out"},
//		Mount: func(s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func(c *Circuit) { c.Set(out, !c.Get(in)) },
//			}
//		}}
//
type MountFn func(s *Socket) []Component

// Inputs is a list of input pin names. Buses must be expanded (see ParseIOSpec).
//
type Inputs []string

// Outputs is a list of output pin names. Buses must be expanded.
//
type Outputs []string

// A PartSpec wraps a part specification (its blueprint).
//
// Custom parts are implemented by creating a PartSpec, then using its NewPart
// method as a NewPartFn:
//
//	var notGate = notSpec.NewPart
//
//	c, _ := Chip("dummy", "a, b", "c, d",
//		notGate("in=a, out=c"),
//		notGate("in=b, out=d"),
//	)
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Must be distinct pin names.
	Inputs Inputs
	// Output pin names. Must be distinct pin names.
	Outputs Outputs
	// Pinout maps the input and output pin names (public interface) of a part
	// to internal (private) names. If nil, Inputs and Outputs are mapped one to
	// one. Most custom parts should leave it nil.
	Pinout map[string]string

	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string is malformed.
//
func (p *PartSpec) NewPart(connections string) Part {
	conns, err := ParseConnections(connections)
	if err != nil {
		panic(err)
	}
	if p.Pinout == nil {
		p.Pinout = make(map[string]string, len(p.Inputs)+len(p.Outputs))
		for _, i := range p.Inputs {
			p.Pinout[i] = i
		}
		for _, o := range p.Outputs {
			p.Pinout[o] = o
		}
	}
	return Part{p, conns}
}

func (p *PartSpec) isInput(name string) bool {
	for _, i := range p.Inputs {
		if i == name {
			return true
		}
	}
	return false
}

func (p *PartSpec) isOutput(name string) bool {
	for _, o := range p.Outputs {
		if o == name {
			return true
		}
	}
	return false
}

// A NewPartFn is a function that takes a connection configuration and returns
// a new Part. See ParseConnections for the syntax of the configuration string.
//
type NewPartFn func(c string) Part

// A Part wraps a part specification together with its connections within a
// host chip.
//
type Part struct {
	*PartSpec
	Conns []Connection
}

// Parts is a list of parts.
//
type Parts []Part
