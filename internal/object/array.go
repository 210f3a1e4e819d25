package object

import (
	"fmt"
	"slices"

	"github.com/mcncl/valuetree/internal/errors"
	"github.com/mcncl/valuetree/internal/kind"
	"github.com/mcncl/valuetree/internal/number"
)

// Array is an ordered sequence of values sharing a declared kind. An array
// declared Any accepts values of every kind and tags each one with its
// own; a homogeneous array accepts only its declared kind.
//
// Each item is a single payload that reports its own kind and, for bytes,
// its own length, so there are no side tables to keep in step.
type Array struct {
	typ   kind.ObjectType
	items []payload
}

func NewArray(typ kind.ObjectType) (*Array, error) {
	if !typ.Valid() {
		return nil, errors.NewConversionError(fmt.Sprintf("array cannot be declared %s", typ))
	}
	return &Array{typ: typ}, nil
}

// MustNewArray is NewArray for kinds known to be valid.
func MustNewArray(typ kind.ObjectType) *Array {
	a, err := NewArray(typ)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Array) Len() int {
	return len(a.items)
}

// Type returns the declared kind.
func (a *Array) Type() kind.ObjectType {
	return a.typ
}

// TypeAt returns the kind of item i: the declared kind for a homogeneous
// array, the item's own tag for an Any array.
func (a *Array) TypeAt(i int) (kind.ObjectType, error) {
	if i < 0 || i >= len(a.items) {
		return 0, errors.NewIndexError(i, len(a.items))
	}
	return a.items[i].kind(), nil
}

// IsSimple holds when the array cannot reach a nested array or element.
func (a *Array) IsSimple() bool {
	if a.typ != kind.ObjectAny {
		return a.typ.IsSimple()
	}
	for _, p := range a.items {
		if !p.kind().IsSimple() {
			return false
		}
	}
	return true
}

func (a *Array) AddString(v string) error { return a.insert(len(a.items), textValue(v)) }
func (a *Array) AddBytes(v []byte) error  { return a.InsertBytes(len(a.items), v) }
func (a *Array) AddBoolean(v bool) error  { return a.insert(len(a.items), boolValue(v)) }

func (a *Array) AddNumber(v number.Number) error {
	return a.InsertNumber(len(a.items), v)
}

// AddArray appends a deep copy of v.
func (a *Array) AddArray(v *Array) error {
	return a.InsertArray(len(a.items), v)
}

// AddElement appends a deep copy of v.
func (a *Array) AddElement(v *Element) error {
	return a.InsertElement(len(a.items), v)
}

// AddValue appends a copy of a boundary value.
func (a *Array) AddValue(v Value) error {
	return a.InsertValue(len(a.items), v)
}

// InsertString places v at index i, shifting later items right. i may equal
// Len.
func (a *Array) InsertString(i int, v string) error {
	return a.insert(i, textValue(v))
}

func (a *Array) InsertNumber(i int, v number.Number) error {
	p, err := newNumber(v)
	if err != nil {
		return err
	}
	return a.insert(i, p)
}

func (a *Array) InsertBytes(i int, v []byte) error {
	if v == nil {
		v = []byte{}
	}
	return a.insert(i, bytesValue(cloneBytes(v)))
}

func (a *Array) InsertBoolean(i int, v bool) error {
	return a.insert(i, boolValue(v))
}

func (a *Array) InsertArray(i int, v *Array) error {
	if v == nil {
		return errors.NewNullError("array items cannot be null")
	}
	if err := a.check(i, kind.ObjectObjectArray); err != nil {
		return err
	}
	return a.insert(i, v.Copy())
}

func (a *Array) InsertElement(i int, v *Element) error {
	if v == nil {
		return errors.NewNullError("array items cannot be null")
	}
	if err := a.check(i, kind.ObjectObjectElement); err != nil {
		return err
	}
	return a.insert(i, v.Copy())
}

func (a *Array) InsertValue(i int, v Value) error {
	p, err := fromValue(v)
	if err != nil {
		return err
	}
	return a.insert(i, p)
}

// check validates an insertion without touching the array.
func (a *Array) check(i int, k kind.ObjectType) error {
	if a.typ != kind.ObjectAny && a.typ != k {
		return mismatch(fmt.Sprintf("array of %s", a.typ), k, a.typ)
	}
	if i < 0 || i > len(a.items) {
		return errors.NewIndexError(i, len(a.items))
	}
	return nil
}

func (a *Array) insert(i int, p payload) error {
	if err := a.check(i, p.kind()); err != nil {
		return err
	}
	a.items = slices.Insert(a.items, i, p)
	return nil
}

// Remove drops item i, shifting later items left.
func (a *Array) Remove(i int) error {
	if i < 0 || i >= len(a.items) {
		return errors.NewIndexError(i, len(a.items))
	}
	a.items = slices.Delete(a.items, i, i+1)
	return nil
}

func (a *Array) GetString(i int) (string, error) {
	p, err := a.at(i, kind.ObjectString)
	if err != nil {
		return "", err
	}
	return string(p.(textValue)), nil
}

// GetNumber succeeds for items of every numeric kind.
func (a *Array) GetNumber(i int) (number.Number, error) {
	if a.typ != kind.ObjectAny && !a.typ.IsNumber() {
		return number.Number{}, mismatch(fmt.Sprintf("array of %s", a.typ), a.typ, numericKinds{})
	}
	if i < 0 || i >= len(a.items) {
		return number.Number{}, errors.NewIndexError(i, len(a.items))
	}
	nv, ok := a.items[i].(numberValue)
	if !ok {
		return number.Number{}, mismatch(fmt.Sprintf("item %d", i), a.items[i].kind(), numericKinds{})
	}
	return nv.n, nil
}

// GetBytes returns a copy of the stored bytes.
func (a *Array) GetBytes(i int) ([]byte, error) {
	p, err := a.at(i, kind.ObjectBytes)
	if err != nil {
		return nil, err
	}
	return cloneBytes(p.(bytesValue)), nil
}

func (a *Array) BytesCount(i int) (int, error) {
	p, err := a.at(i, kind.ObjectBytes)
	if err != nil {
		return 0, err
	}
	return len(p.(bytesValue)), nil
}

func (a *Array) GetBoolean(i int) (bool, error) {
	p, err := a.at(i, kind.ObjectBoolean)
	if err != nil {
		return false, err
	}
	return bool(p.(boolValue)), nil
}

// GetArray returns the stored array itself, not a copy.
func (a *Array) GetArray(i int) (*Array, error) {
	p, err := a.at(i, kind.ObjectObjectArray)
	if err != nil {
		return nil, err
	}
	return p.(*Array), nil
}

// GetElement returns the stored element itself, not a copy.
func (a *Array) GetElement(i int) (*Element, error) {
	p, err := a.at(i, kind.ObjectObjectElement)
	if err != nil {
		return nil, err
	}
	return p.(*Element), nil
}

func (a *Array) at(i int, want kind.ObjectType) (payload, error) {
	if a.typ != kind.ObjectAny && a.typ != want {
		return nil, mismatch(fmt.Sprintf("array of %s", a.typ), a.typ, want)
	}
	if i < 0 || i >= len(a.items) {
		return nil, errors.NewIndexError(i, len(a.items))
	}
	p := a.items[i]
	if p.kind() != want {
		return nil, mismatch(fmt.Sprintf("item %d", i), p.kind(), want)
	}
	return p, nil
}

// Copy returns a deep copy with the same declared kind and item tags.
func (a *Array) Copy() *Array {
	c := &Array{typ: a.typ, items: make([]payload, len(a.items))}
	for i, p := range a.items {
		c.items[i] = p.clone()
	}
	return c
}
