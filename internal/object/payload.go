package object

import (
	"fmt"

	"github.com/mcncl/valuetree/internal/errors"
	"github.com/mcncl/valuetree/internal/kind"
	"github.com/mcncl/valuetree/internal/number"
)

// payload is one owned value in the tree. A nil payload is a null value.
// Each implementation reports its own kind and knows how to deep-copy
// itself.
type payload interface {
	kind() kind.ObjectType
	clone() payload
}

type textValue string

func (textValue) kind() kind.ObjectType { return kind.ObjectString }
func (v textValue) clone() payload      { return v }

type numberValue struct{ n number.Number }

func (v numberValue) kind() kind.ObjectType { return kind.ObjectType(v.n.Type()) }
func (v numberValue) clone() payload        { return numberValue{v.n.Copy()} }

type bytesValue []byte

func (bytesValue) kind() kind.ObjectType { return kind.ObjectBytes }
func (v bytesValue) clone() payload      { return bytesValue(cloneBytes(v)) }

type boolValue bool

func (boolValue) kind() kind.ObjectType { return kind.ObjectBoolean }
func (v boolValue) clone() payload      { return v }

func (*Array) kind() kind.ObjectType   { return kind.ObjectObjectArray }
func (a *Array) clone() payload        { return a.Copy() }
func (*Element) kind() kind.ObjectType { return kind.ObjectObjectElement }
func (e *Element) clone() payload      { return e.Copy() }

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func newNumber(n number.Number) (payload, error) {
	if _, err := n.Type().ObjectType(); err != nil {
		return nil, err
	}
	return numberValue{n}, nil
}

// fromValue copies a boundary value into a payload.
func fromValue(v Value) (payload, error) {
	if v == nil {
		return nil, errors.NewNullError("no value")
	}
	t := v.Type()
	switch {
	case t == kind.ValueString:
		s, err := v.ValueString()
		if err != nil {
			return nil, err
		}
		return textValue(s), nil
	case t.Kind().IsNumber():
		n, err := v.ValueNumber()
		if err != nil {
			return nil, err
		}
		return newNumber(n)
	case t == kind.ValueBytes:
		b, err := v.ValueBytes()
		if err != nil {
			return nil, err
		}
		return bytesValue(cloneBytes(b)), nil
	case t == kind.ValueBoolean:
		b, err := v.ValueBoolean()
		if err != nil {
			return nil, err
		}
		return boolValue(b), nil
	case t == kind.ValueObjectArray:
		a, err := v.ValueArray()
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, errors.NewNullError("value holds no array")
		}
		return a.Copy(), nil
	default:
		return nil, errors.NewConversionError(fmt.Sprintf("value type %s", t))
	}
}

func mismatch(where string, have, want fmt.Stringer) error {
	return errors.NewTypeMismatchError(fmt.Sprintf("%s is %s, not %s", where, have, want))
}
