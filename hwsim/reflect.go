// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Updater is the interface that custom parts built with MakePart must
// implement. Update is called once per simulation step.
//
type Updater interface {
	Update(c *Circuit)
}

// pinField describes a struct field holding a pin number or a bus.
type pinField struct {
	index int
	name  string
	input bool
	bus   bool
	bits  int
}

// MakePart wraps an Updater into a part specification. Pins are identified by
// field tags: `hw:"in"` for inputs and `hw:"out"` for outputs. The pin name
// is the field name in lowercase unless given in the tag: `hw:"in,rst_n"`.
// Pin fields must be of type int, buses of type [N]int with bit 0 as the
// least significant bit. Pins are declared in field order.
//
// Each mounted instance is a copy of *t, so untagged fields of t serve as
// per-part parameters. t may be a nil pointer.
//
// MakePart panics if the type of t is not a pointer to a struct or if a
// tagged field is invalid.
//
func MakePart(t Updater) *PartSpec {
	typ := reflect.TypeOf(t)
	if typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		panic(errors.Errorf("unsupported type %v for MakePart", typ))
	}
	typ = typ.Elem()

	fields := pinFields(typ)
	sp := &PartSpec{Name: typ.Name()}
	for _, f := range fields {
		pins := []string{f.name}
		if f.bus {
			pins = pins[:0]
			for i := 0; i < f.bits; i++ {
				pins = append(pins, BusPinName(f.name, i))
			}
		}
		if f.input {
			sp.Inputs = append(sp.Inputs, pins...)
		} else {
			sp.Outputs = append(sp.Outputs, pins...)
		}
	}

	tmpl := reflect.ValueOf(t)
	sp.Mount = func(s *Socket) []Component {
		v := reflect.New(typ)
		if !tmpl.IsNil() {
			v.Elem().Set(tmpl.Elem())
		}
		e := v.Elem()
		for _, f := range fields {
			fv := e.Field(f.index)
			if !f.bus {
				fv.SetInt(int64(s.Pin(f.name)))
				continue
			}
			for i := 0; i < f.bits; i++ {
				fv.Index(i).SetInt(int64(s.Pin(BusPinName(f.name, i))))
			}
		}
		return []Component{v.Interface().(Updater).Update}
	}
	return sp
}

func pinFields(typ reflect.Type) []pinField {
	var fields []pinField
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag, ok := f.Tag.Lookup("hw")
		if !ok {
			continue
		}
		pf := pinField{index: i, name: strings.ToLower(f.Name)}
		tv := strings.SplitN(tag, ",", 2)
		if len(tv) == 2 && tv[1] != "" {
			pf.name = tv[1]
		}
		switch tv[0] {
		case "in":
			pf.input = true
		case "out":
		default:
			panic(errors.Errorf("unsupported tag %q for field %s in %s", tag, f.Name, typ.Name()))
		}
		if f.PkgPath != "" {
			panic(errors.Errorf("unexported pin field %s in %s", f.Name, typ.Name()))
		}
		switch ft := f.Type; {
		case ft.Kind() == reflect.Int:
		case ft.Kind() == reflect.Array && ft.Elem().Kind() == reflect.Int:
			pf.bus, pf.bits = true, ft.Len()
		default:
			panic(errors.Errorf("unsupported type %v for field %s in %s", ft, f.Name, typ.Name()))
		}
		fields = append(fields, pf)
	}
	return fields
}
