package kind

import (
	"fmt"

	"github.com/mcncl/valuetree/internal/errors"
)

// NumberType tags the variant held by a number.
type NumberType Kind

const (
	NumberByte       = NumberType(Byte)
	NumberShort      = NumberType(Short)
	NumberInteger    = NumberType(Integer)
	NumberLong       = NumberType(Long)
	NumberBigInteger = NumberType(BigInteger)
	NumberFloat      = NumberType(Float)
	NumberDouble     = NumberType(Double)
	NumberBigDecimal = NumberType(BigDecimal)
)

// ValueType tags a value handed across the module boundary. It has no
// element or any kind.
type ValueType Kind

const (
	ValueString      = ValueType(String)
	ValueByte        = ValueType(Byte)
	ValueShort       = ValueType(Short)
	ValueInteger     = ValueType(Integer)
	ValueLong        = ValueType(Long)
	ValueBigInteger  = ValueType(BigInteger)
	ValueFloat       = ValueType(Float)
	ValueDouble      = ValueType(Double)
	ValueBigDecimal  = ValueType(BigDecimal)
	ValueBytes       = ValueType(Bytes)
	ValueBoolean     = ValueType(Boolean)
	ValueObjectArray = ValueType(ObjectArray)
)

// ObjectType tags fields, arrays and the items of an Any array.
type ObjectType Kind

const (
	ObjectString        = ObjectType(String)
	ObjectByte          = ObjectType(Byte)
	ObjectShort         = ObjectType(Short)
	ObjectInteger       = ObjectType(Integer)
	ObjectLong          = ObjectType(Long)
	ObjectBigInteger    = ObjectType(BigInteger)
	ObjectFloat         = ObjectType(Float)
	ObjectDouble        = ObjectType(Double)
	ObjectBigDecimal    = ObjectType(BigDecimal)
	ObjectBytes         = ObjectType(Bytes)
	ObjectBoolean       = ObjectType(Boolean)
	ObjectObjectArray   = ObjectType(ObjectArray)
	ObjectObjectElement = ObjectType(ObjectElement)
	ObjectAny           = ObjectType(Any)
)

// Kind returns the kind the tag projects.
func (t NumberType) Kind() Kind { return Kind(t) }
func (t ValueType) Kind() Kind  { return Kind(t) }
func (t ObjectType) Kind() Kind { return Kind(t) }

func (t NumberType) String() string { return Kind(t).String() }
func (t ValueType) String() string  { return Kind(t).String() }
func (t ObjectType) String() string { return Kind(t).String() }

// Valid reports the eight numeric kinds.
func (t NumberType) Valid() bool {
	return Kind(t).IsNumber()
}

// Valid reports the kinds a boundary value can hold: everything except
// ObjectElement and Any.
func (t ValueType) Valid() bool {
	k := Kind(t)
	switch {
	case k.IsNumber():
		return true
	case k == String, k == Bytes, k == Boolean, k == ObjectArray:
		return true
	default:
		return false
	}
}

// Valid reports whether t names any kind.
func (t ObjectType) Valid() bool {
	return Kind(t).Valid()
}

func (t ObjectType) IsNumber() bool { return Kind(t).IsNumber() }
func (t ObjectType) IsSimple() bool { return Kind(t).IsSimple() }

// ObjectType maps a number type into the tree's tag space.
func (t NumberType) ObjectType() (ObjectType, error) {
	if !t.Valid() {
		return 0, unsupported("number", Kind(t), "object")
	}
	return ObjectType(t), nil
}

// ValueType maps a number type into the boundary tag space.
func (t NumberType) ValueType() (ValueType, error) {
	if !t.Valid() {
		return 0, unsupported("number", Kind(t), "value")
	}
	return ValueType(t), nil
}

// ObjectType maps a boundary tag into the tree's tag space.
func (t ValueType) ObjectType() (ObjectType, error) {
	if !t.Valid() {
		return 0, unsupported("value", Kind(t), "object")
	}
	return ObjectType(t), nil
}

// NumberType fails for boundary tags that are not numeric.
func (t ValueType) NumberType() (NumberType, error) {
	if !t.Valid() || !Kind(t).IsNumber() {
		return 0, unsupported("value", Kind(t), "number")
	}
	return NumberType(t), nil
}

// ValueType fails for ObjectElement and Any, which never cross the boundary
// on their own.
func (t ObjectType) ValueType() (ValueType, error) {
	if !t.Valid() || !ValueType(t).Valid() {
		return 0, unsupported("object", Kind(t), "value")
	}
	return ValueType(t), nil
}

// NumberType fails for object tags that are not numeric.
func (t ObjectType) NumberType() (NumberType, error) {
	if !t.Valid() || !Kind(t).IsNumber() {
		return 0, unsupported("object", Kind(t), "number")
	}
	return NumberType(t), nil
}

// ParseObjectType parses a kind name as an ObjectType.
func ParseObjectType(name string) (ObjectType, error) {
	k, err := Parse(name)
	if err != nil {
		return 0, err
	}
	return ObjectType(k), nil
}

func unsupported(from string, k Kind, to string) error {
	return errors.NewConversionError(fmt.Sprintf("%s type %s has no %s type", from, k, to))
}
