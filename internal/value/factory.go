package value

import (
	"fmt"

	"github.com/mcncl/valuetree/internal/errors"
	"github.com/mcncl/valuetree/internal/kind"
	"github.com/mcncl/valuetree/internal/number"
	"github.com/mcncl/valuetree/internal/object"
)

// Factory creates boundary values without exposing their concrete type.
// Everything handed in is copied.
type Factory interface {
	CreateString(v string) object.Value
	CreateBytes(v []byte) object.Value
	CreateByte(v int8) object.Value
	CreateShort(v int16) object.Value
	CreateInteger(v int32) object.Value
	CreateLong(v int64) object.Value
	CreateFloat(v float32) object.Value
	CreateDouble(v float64) object.Value
	CreateBigInteger(text string) object.Value
	CreateBigDecimal(text string) object.Value
	CreateNumber(n number.Number) (object.Value, error)
	CreateBoolean(v bool) object.Value
	CreateArray(a *object.Array) (object.Value, error)
	Copy(v object.Value) (object.Value, error)
}

type factory struct{}

// NewFactory returns the default Factory, which builds *Data values.
func NewFactory() Factory {
	return factory{}
}

func (factory) CreateString(v string) object.Value {
	return &Data{typ: kind.ValueString, text: v}
}

func (factory) CreateBytes(v []byte) object.Value {
	raw := make([]byte, len(v))
	copy(raw, v)
	return &Data{typ: kind.ValueBytes, raw: raw}
}

func (f factory) CreateByte(v int8) object.Value      { return f.number(number.FromByte(v)) }
func (f factory) CreateShort(v int16) object.Value    { return f.number(number.FromShort(v)) }
func (f factory) CreateInteger(v int32) object.Value  { return f.number(number.FromInteger(v)) }
func (f factory) CreateLong(v int64) object.Value     { return f.number(number.FromLong(v)) }
func (f factory) CreateFloat(v float32) object.Value  { return f.number(number.FromFloat(v)) }
func (f factory) CreateDouble(v float64) object.Value { return f.number(number.FromDouble(v)) }

// CreateBigInteger keeps text as given; it is parsed when read.
func (f factory) CreateBigInteger(text string) object.Value {
	return f.number(number.BigInteger(text))
}

// CreateBigDecimal keeps text as given; it is parsed when read.
func (f factory) CreateBigDecimal(text string) object.Value {
	return f.number(number.BigDecimal(text))
}

func (f factory) CreateNumber(n number.Number) (object.Value, error) {
	if _, err := n.Type().ValueType(); err != nil {
		return nil, err
	}
	return f.number(n), nil
}

func (factory) CreateBoolean(v bool) object.Value {
	return &Data{typ: kind.ValueBoolean, flag: v}
}

// CreateArray stores a deep copy of a.
func (factory) CreateArray(a *object.Array) (object.Value, error) {
	if a == nil {
		return nil, errors.NewNullError("array value")
	}
	return &Data{typ: kind.ValueObjectArray, arr: a.Copy()}, nil
}

// Copy builds an independent value with the same type and payload as v.
func (f factory) Copy(v object.Value) (object.Value, error) {
	if v == nil {
		return nil, errors.NewNullError("no value")
	}
	typ := v.Type()
	switch {
	case typ == kind.ValueString:
		s, err := v.ValueString()
		if err != nil {
			return nil, err
		}
		return f.CreateString(s), nil
	case typ.Kind().IsNumber():
		n, err := v.ValueNumber()
		if err != nil {
			return nil, err
		}
		return f.CreateNumber(n)
	case typ == kind.ValueBytes:
		b, err := v.ValueBytes()
		if err != nil {
			return nil, err
		}
		return f.CreateBytes(b), nil
	case typ == kind.ValueBoolean:
		b, err := v.ValueBoolean()
		if err != nil {
			return nil, err
		}
		return f.CreateBoolean(b), nil
	case typ == kind.ValueObjectArray:
		a, err := v.ValueArray()
		if err != nil {
			return nil, err
		}
		return f.CreateArray(a)
	default:
		return nil, errors.NewConversionError(fmt.Sprintf("value type %s cannot be copied", typ))
	}
}

func (factory) number(n number.Number) *Data {
	return &Data{typ: kind.ValueType(n.Type()), num: n}
}
