package encoder

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/valuetree/internal/kind"
	"github.com/mcncl/valuetree/internal/object"
)

// Dump renders f as an indented listing with one line per value:
//
//	root <ObjectElement>
//	  name <String> = "sensor1"
//	  tags <ObjectArray of String> (2)
//	    [0] <String> = "a"
func (e *Encoder) Dump(f *object.Field) (string, error) {
	var sb strings.Builder
	if err := e.dumpField(&sb, f, 0); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (e *Encoder) pad(depth int) string {
	indent := e.indent
	if indent <= 0 {
		indent = 2
	}
	return strings.Repeat(" ", depth*indent)
}

func (e *Encoder) dumpField(sb *strings.Builder, f *object.Field, depth int) error {
	pad := e.pad(depth)
	t := f.Type()

	if f.IsNull() {
		fmt.Fprintf(sb, "%s%s <%s> = null\n", pad, f.Name(), t)
		return nil
	}

	switch {
	case t == kind.ObjectString:
		s, err := f.ValueString()
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "%s%s <%s> = %s\n", pad, f.Name(), t, strconv.Quote(s))
	case t.IsNumber():
		n, err := f.ValueNumber()
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "%s%s <%s> = %s\n", pad, f.Name(), t, n)
	case t == kind.ObjectBytes:
		raw, err := f.ValueBytes()
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "%s%s <%s> = %s%s\n", pad, f.Name(), t, e.prefix, base64.StdEncoding.EncodeToString(raw))
	case t == kind.ObjectBoolean:
		v, err := f.ValueBoolean()
		if err != nil {
			return err
		}
		fmt.Fprintf(sb, "%s%s <%s> = %t\n", pad, f.Name(), t, v)
	case t == kind.ObjectObjectArray:
		a, err := f.ValueArray()
		if err != nil {
			return err
		}
		return e.dumpArray(sb, f.Name(), a, depth)
	default:
		el, err := f.ValueElement()
		if err != nil {
			return err
		}
		return e.dumpElement(sb, f.Name(), el, depth)
	}
	return nil
}

func (e *Encoder) dumpArray(sb *strings.Builder, name string, a *object.Array, depth int) error {
	fmt.Fprintf(sb, "%s%s <%s of %s> (%d)\n", e.pad(depth), name, kind.ObjectObjectArray, a.Type(), a.Len())
	for i := 0; i < a.Len(); i++ {
		if err := e.dumpItem(sb, a, i, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// dumpItem lists nested arrays and elements in place; only leaves go
// through a field.
func (e *Encoder) dumpItem(sb *strings.Builder, a *object.Array, i, depth int) error {
	typ, err := a.TypeAt(i)
	if err != nil {
		return err
	}
	switch typ {
	case kind.ObjectObjectArray:
		v, err := a.GetArray(i)
		if err != nil {
			return err
		}
		return e.dumpArray(sb, itemName(i), v, depth)
	case kind.ObjectObjectElement:
		v, err := a.GetElement(i)
		if err != nil {
			return err
		}
		return e.dumpElement(sb, itemName(i), v, depth)
	}
	item, err := Item(a, i)
	if err != nil {
		return err
	}
	return e.dumpField(sb, item, depth)
}

func (e *Encoder) dumpElement(sb *strings.Builder, name string, el *object.Element, depth int) error {
	fmt.Fprintf(sb, "%s%s <%s>\n", e.pad(depth), name, kind.ObjectObjectElement)
	for _, child := range el.Fields() {
		if err := e.dumpField(sb, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
