// Package value holds the concrete boundary values that cross between a host
// and the value tree, the factory that creates them, and messages.
package value

import (
	"fmt"

	"github.com/mcncl/valuetree/internal/errors"
	"github.com/mcncl/valuetree/internal/kind"
	"github.com/mcncl/valuetree/internal/number"
	"github.com/mcncl/valuetree/internal/object"
)

// Data is an immutable boundary value. Exactly one payload is meaningful,
// selected by Type.
type Data struct {
	typ  kind.ValueType
	text string
	num  number.Number
	raw  []byte
	flag bool
	arr  *object.Array
}

var _ object.Value = (*Data)(nil)

func (d *Data) Type() kind.ValueType {
	return d.typ
}

func (d *Data) ValueString() (string, error) {
	if err := d.expect(d.typ == kind.ValueString, kind.ValueString); err != nil {
		return "", err
	}
	return d.text, nil
}

// ValueNumber succeeds for every numeric type.
func (d *Data) ValueNumber() (number.Number, error) {
	if _, err := d.typ.NumberType(); err != nil {
		return number.Number{}, errors.NewTypeMismatchError(fmt.Sprintf("value is %s, not a number", d.typ))
	}
	return d.num, nil
}

// ValueBytes returns a copy of the bytes.
func (d *Data) ValueBytes() ([]byte, error) {
	if err := d.expect(d.typ == kind.ValueBytes, kind.ValueBytes); err != nil {
		return nil, err
	}
	out := make([]byte, len(d.raw))
	copy(out, d.raw)
	return out, nil
}

func (d *Data) BytesCount() (int, error) {
	if err := d.expect(d.typ == kind.ValueBytes, kind.ValueBytes); err != nil {
		return 0, err
	}
	return len(d.raw), nil
}

func (d *Data) ValueBoolean() (bool, error) {
	if err := d.expect(d.typ == kind.ValueBoolean, kind.ValueBoolean); err != nil {
		return false, err
	}
	return d.flag, nil
}

// ValueArray returns the array held by the value. Callers that keep it
// should Copy it.
func (d *Data) ValueArray() (*object.Array, error) {
	if err := d.expect(d.typ == kind.ValueObjectArray, kind.ValueObjectArray); err != nil {
		return nil, err
	}
	return d.arr, nil
}

// String renders the payload for logs and the CLI.
func (d *Data) String() string {
	switch {
	case d.typ == kind.ValueString:
		return d.text
	case d.typ.Kind().IsNumber():
		return d.num.String()
	case d.typ == kind.ValueBytes:
		return fmt.Sprintf("%d bytes", len(d.raw))
	case d.typ == kind.ValueBoolean:
		return fmt.Sprint(d.flag)
	case d.typ == kind.ValueObjectArray:
		return fmt.Sprintf("array of %s (%d)", d.arr.Type(), d.arr.Len())
	default:
		return d.typ.String()
	}
}

func (d *Data) expect(ok bool, want kind.ValueType) error {
	if ok {
		return nil
	}
	return errors.NewTypeMismatchError(fmt.Sprintf("value is %s, not %s", d.typ, want))
}

// FromField exposes a field's current content as a boundary value. Null
// fields and elements have no boundary form.
func FromField(f *object.Field) (*Data, error) {
	if f.IsNull() {
		return nil, errors.NewNullError(fmt.Sprintf("field %q", f.Name()))
	}
	typ, err := f.Type().ValueType()
	if err != nil {
		return nil, err
	}
	d := &Data{typ: typ}
	switch {
	case typ == kind.ValueString:
		d.text, err = f.ValueString()
	case typ.Kind().IsNumber():
		d.num, err = f.ValueNumber()
	case typ == kind.ValueBytes:
		d.raw, err = f.ValueBytes()
	case typ == kind.ValueBoolean:
		d.flag, err = f.ValueBoolean()
	case typ == kind.ValueObjectArray:
		var a *object.Array
		a, err = f.ValueArray()
		if err == nil {
			d.arr = a.Copy()
		}
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}
