package object

import (
	"fmt"

	"github.com/mcncl/valuetree/internal/errors"
	"github.com/mcncl/valuetree/internal/kind"
	"github.com/mcncl/valuetree/internal/number"
)

// Field is a named slot in an Element. It carries a kind even when its
// value is null, so a null field still says what it may hold.
type Field struct {
	name  string
	typ   kind.ObjectType
	value payload
}

// NewField returns a null field of the given kind.
func NewField(name string, typ kind.ObjectType) (*Field, error) {
	f := &Field{name: name}
	if err := f.SetNull(typ); err != nil {
		return nil, err
	}
	return f, nil
}

func NewStringField(name, value string) *Field {
	f := &Field{name: name}
	f.SetString(value)
	return f
}

func NewNumberField(name string, value number.Number) (*Field, error) {
	f := &Field{name: name}
	if err := f.SetNumber(value); err != nil {
		return nil, err
	}
	return f, nil
}

func NewBytesField(name string, value []byte) *Field {
	f := &Field{name: name}
	f.SetBytes(value)
	return f
}

func NewBooleanField(name string, value bool) *Field {
	f := &Field{name: name}
	f.SetBoolean(value)
	return f
}

// NewArrayField stores a copy of value; a nil array gives a null field.
func NewArrayField(name string, value *Array) *Field {
	f := &Field{name: name}
	f.SetArray(value)
	return f
}

// NewElementField stores a copy of value; a nil element gives a null field.
func NewElementField(name string, value *Element) *Field {
	f := &Field{name: name}
	f.SetElement(value)
	return f
}

func (f *Field) Name() string        { return f.name }
func (f *Field) SetName(name string) { f.name = name }
func (f *Field) Type() kind.ObjectType {
	return f.typ
}

func (f *Field) IsNull() bool {
	return f.value == nil
}

// IsSimple reports whether the field holds neither an array nor an element.
func (f *Field) IsSimple() bool {
	return f.typ.IsSimple()
}

// SetNull drops the value and fixes the kind for later writes. Any is not
// a field kind.
func (f *Field) SetNull(typ kind.ObjectType) error {
	if !typ.Valid() || typ == kind.ObjectAny {
		return errors.NewConversionError(fmt.Sprintf("field %q cannot be declared %s", f.name, typ))
	}
	f.typ = typ
	f.value = nil
	return nil
}

func (f *Field) SetString(value string) {
	f.set(textValue(value))
}

// SetNumber fails, leaving the field unchanged, when value has no valid
// number type.
func (f *Field) SetNumber(value number.Number) error {
	p, err := newNumber(value)
	if err != nil {
		return err
	}
	f.set(p)
	return nil
}

// SetBytes stores a copy of value.
func (f *Field) SetBytes(value []byte) {
	if value == nil {
		value = []byte{}
	}
	f.set(bytesValue(cloneBytes(value)))
}

func (f *Field) SetBoolean(value bool) {
	f.set(boolValue(value))
}

// SetArray stores a deep copy of value; nil makes the field a null array.
func (f *Field) SetArray(value *Array) {
	if value == nil {
		f.typ, f.value = kind.ObjectObjectArray, nil
		return
	}
	f.set(value.Copy())
}

// SetElement stores a deep copy of value; nil makes the field a null
// element.
func (f *Field) SetElement(value *Element) {
	if value == nil {
		f.typ, f.value = kind.ObjectObjectElement, nil
		return
	}
	f.set(value.Copy())
}

// SetField copies the kind and value of other, keeping this field's name.
func (f *Field) SetField(other *Field) {
	f.typ = other.typ
	if other.value == nil {
		f.value = nil
		return
	}
	f.value = other.value.clone()
}

// SetValue copies a boundary value into the field.
func (f *Field) SetValue(v Value) error {
	p, err := fromValue(v)
	if err != nil {
		return err
	}
	f.set(p)
	return nil
}

func (f *Field) set(p payload) {
	f.typ = p.kind()
	f.value = p
}

// Copy returns a deep copy of the field.
func (f *Field) Copy() *Field {
	c := &Field{name: f.name}
	c.SetField(f)
	return c
}

func (f *Field) ValueString() (string, error) {
	if err := f.expect(kind.ObjectString); err != nil {
		return "", err
	}
	return string(f.value.(textValue)), nil
}

// ValueNumber succeeds for every numeric kind.
func (f *Field) ValueNumber() (number.Number, error) {
	if !f.typ.IsNumber() {
		return number.Number{}, mismatch(f.where(), f.typ, numericKinds{})
	}
	if f.value == nil {
		return number.Number{}, errors.NewNullError(f.where())
	}
	return f.value.(numberValue).n, nil
}

// ValueBytes returns a copy of the stored bytes.
func (f *Field) ValueBytes() ([]byte, error) {
	if err := f.expect(kind.ObjectBytes); err != nil {
		return nil, err
	}
	return cloneBytes(f.value.(bytesValue)), nil
}

func (f *Field) BytesCount() (int, error) {
	if err := f.expect(kind.ObjectBytes); err != nil {
		return 0, err
	}
	return len(f.value.(bytesValue)), nil
}

func (f *Field) ValueBoolean() (bool, error) {
	if err := f.expect(kind.ObjectBoolean); err != nil {
		return false, err
	}
	return bool(f.value.(boolValue)), nil
}

// ValueArray returns the stored array itself; changes made through it
// change the field.
func (f *Field) ValueArray() (*Array, error) {
	if err := f.expect(kind.ObjectObjectArray); err != nil {
		return nil, err
	}
	return f.value.(*Array), nil
}

// ValueElement returns the stored element itself; changes made through it
// change the field.
func (f *Field) ValueElement() (*Element, error) {
	if err := f.expect(kind.ObjectObjectElement); err != nil {
		return nil, err
	}
	return f.value.(*Element), nil
}

func (f *Field) expect(want kind.ObjectType) error {
	if f.typ != want {
		return mismatch(f.where(), f.typ, want)
	}
	if f.value == nil {
		return errors.NewNullError(f.where())
	}
	return nil
}

func (f *Field) where() string {
	return fmt.Sprintf("field %q", f.name)
}

type numericKinds struct{}

func (numericKinds) String() string { return "a number" }
