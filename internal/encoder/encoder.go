// Package encoder renders value trees as JSON and as an annotated listing
// that shows every kind.
package encoder

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/mcncl/valuetree/internal/config"
	"github.com/mcncl/valuetree/internal/errors"
	"github.com/mcncl/valuetree/internal/kind"
	"github.com/mcncl/valuetree/internal/number"
	"github.com/mcncl/valuetree/internal/object"
)

// Encoder is responsible for rendering value trees
type Encoder struct {
	prefix string
	indent int
}

// NewEncoder creates a new Encoder instance with default settings
func NewEncoder() *Encoder {
	return NewEncoderWithConfig(config.NewConfig())
}

// NewEncoderWithConfig creates an Encoder that uses the configured byte
// prefix and indent
func NewEncoderWithConfig(cfg *config.Config) *Encoder {
	return &Encoder{
		prefix: cfg.Bytes.Prefix,
		indent: cfg.Output.Indent,
	}
}

// JSON renders the value of f as a JSON document. Numbers use their
// canonical text, with whole floats written as "2.0". Bytes become prefixed
// base64 strings and non-finite floats become strings.
func (e *Encoder) JSON(f *object.Field) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.writeField(&buf, f, 0); err != nil {
		return nil, err
	}
	if e.indent > 0 {
		buf.WriteByte('\n')
	}

	out := buf.Bytes()
	if !sonic.ConfigStd.Valid(out) {
		return nil, errors.NewEncodeError(fmt.Sprintf("field %q did not encode to valid JSON", f.Name()), nil)
	}
	return out, nil
}

func (e *Encoder) writeField(buf *bytes.Buffer, f *object.Field, depth int) error {
	if f.IsNull() {
		buf.WriteString("null")
		return nil
	}

	switch t := f.Type(); {
	case t == kind.ObjectString:
		s, err := f.ValueString()
		if err != nil {
			return err
		}
		return writeString(buf, s)
	case t.IsNumber():
		n, err := f.ValueNumber()
		if err != nil {
			return err
		}
		return writeNumber(buf, f.Name(), n)
	case t == kind.ObjectBytes:
		raw, err := f.ValueBytes()
		if err != nil {
			return err
		}
		return writeString(buf, e.prefix+base64.StdEncoding.EncodeToString(raw))
	case t == kind.ObjectBoolean:
		v, err := f.ValueBoolean()
		if err != nil {
			return err
		}
		fmt.Fprint(buf, v)
		return nil
	case t == kind.ObjectObjectArray:
		a, err := f.ValueArray()
		if err != nil {
			return err
		}
		return e.writeArray(buf, a, depth)
	default:
		el, err := f.ValueElement()
		if err != nil {
			return err
		}
		return e.writeElement(buf, el, depth)
	}
}

func (e *Encoder) writeElement(buf *bytes.Buffer, el *object.Element, depth int) error {
	if el.Len() == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteByte('{')
	for i, f := range el.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		e.newline(buf, depth+1)
		if err := writeString(buf, f.Name()); err != nil {
			return err
		}
		buf.WriteByte(':')
		if e.indent > 0 {
			buf.WriteByte(' ')
		}
		if err := e.writeField(buf, f, depth+1); err != nil {
			return err
		}
	}
	e.newline(buf, depth)
	buf.WriteByte('}')
	return nil
}

func (e *Encoder) writeArray(buf *bytes.Buffer, a *object.Array, depth int) error {
	if a.Len() == 0 {
		buf.WriteString("[]")
		return nil
	}
	buf.WriteByte('[')
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		e.newline(buf, depth+1)
		if err := e.writeItem(buf, a, i, depth+1); err != nil {
			return err
		}
	}
	e.newline(buf, depth)
	buf.WriteByte(']')
	return nil
}

// writeItem renders nested arrays and elements in place; only leaves go
// through a field.
func (e *Encoder) writeItem(buf *bytes.Buffer, a *object.Array, i, depth int) error {
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
		return e.writeArray(buf, v, depth)
	case kind.ObjectObjectElement:
		v, err := a.GetElement(i)
		if err != nil {
			return err
		}
		return e.writeElement(buf, v, depth)
	}
	item, err := Item(a, i)
	if err != nil {
		return err
	}
	return e.writeField(buf, item, depth)
}

func (e *Encoder) newline(buf *bytes.Buffer, depth int) {
	if e.indent <= 0 {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", depth*e.indent))
}

func writeString(buf *bytes.Buffer, s string) error {
	quoted, err := sonic.ConfigStd.Marshal(s)
	if err != nil {
		return errors.NewEncodeError(fmt.Sprintf("cannot encode string %q", s), err)
	}
	buf.Write(quoted)
	return nil
}

func writeNumber(buf *bytes.Buffer, name string, n number.Number) error {
	switch n.Type() {
	case kind.NumberFloat, kind.NumberDouble:
		d, _ := n.Double()
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return writeString(buf, n.String())
		}
		// Whole floats keep a fraction so they read back as floats.
		text := n.String()
		if !strings.ContainsAny(text, ".eE") {
			text += ".0"
		}
		buf.WriteString(text)
		return nil
	case kind.NumberBigInteger, kind.NumberBigDecimal:
		// Text no accessor can parse would not be a JSON number either.
		if _, err := n.Long(); err != nil {
			return errors.NewEncodeError(fmt.Sprintf("field %q holds %s", name, n.Type()), err)
		}
	}
	buf.WriteString(n.String())
	return nil
}

// Item returns item i of a as a field named by its index, so array items
// and element fields can be rendered the same way. Nested arrays and
// elements are copied into the field.
func Item(a *object.Array, i int) (*object.Field, error) {
	typ, err := a.TypeAt(i)
	if err != nil {
		return nil, err
	}
	name := itemName(i)

	switch {
	case typ == kind.ObjectString:
		s, err := a.GetString(i)
		if err != nil {
			return nil, err
		}
		return object.NewStringField(name, s), nil
	case typ.IsNumber():
		n, err := a.GetNumber(i)
		if err != nil {
			return nil, err
		}
		return object.NewNumberField(name, n)
	case typ == kind.ObjectBytes:
		raw, err := a.GetBytes(i)
		if err != nil {
			return nil, err
		}
		return object.NewBytesField(name, raw), nil
	case typ == kind.ObjectBoolean:
		v, err := a.GetBoolean(i)
		if err != nil {
			return nil, err
		}
		return object.NewBooleanField(name, v), nil
	case typ == kind.ObjectObjectArray:
		v, err := a.GetArray(i)
		if err != nil {
			return nil, err
		}
		return object.NewArrayField(name, v), nil
	default:
		v, err := a.GetElement(i)
		if err != nil {
			return nil, err
		}
		return object.NewElementField(name, v), nil
	}
}

func itemName(i int) string {
	return fmt.Sprintf("[%d]", i)
}
