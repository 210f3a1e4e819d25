package object

import (
	"slices"
	"strings"

	"github.com/mcncl/valuetree/internal/errors"
)

// Element is an ordered record of fields. Names need not be unique; the
// lookups return the first match in insertion order.
type Element struct {
	fields []*Field
}

// NewElement copies each given field into a new element. Nil fields are
// skipped.
func NewElement(fields ...*Field) *Element {
	e := &Element{fields: make([]*Field, 0, len(fields))}
	for _, f := range fields {
		if f != nil {
			e.fields = append(e.fields, f.Copy())
		}
	}
	return e
}

// Fields returns the element's own field slice. Fields reached through it
// are live; use Append, Insert and Remove to change the sequence.
func (e *Element) Fields() []*Field {
	return e.fields
}

func (e *Element) Len() int {
	return len(e.fields)
}

func (e *Element) Field(i int) (*Field, error) {
	if i < 0 || i >= len(e.fields) {
		return nil, errors.NewIndexError(i, len(e.fields))
	}
	return e.fields[i], nil
}

// Append stores a copy of f at the end and returns the stored field.
func (e *Element) Append(f *Field) *Field {
	c := f.Copy()
	e.fields = append(e.fields, c)
	return c
}

// Insert stores a copy of f at index i, shifting later fields right.
func (e *Element) Insert(i int, f *Field) (*Field, error) {
	if i < 0 || i > len(e.fields) {
		return nil, errors.NewIndexError(i, len(e.fields))
	}
	c := f.Copy()
	e.fields = slices.Insert(e.fields, i, c)
	return c, nil
}

func (e *Element) Remove(i int) error {
	if i < 0 || i >= len(e.fields) {
		return errors.NewIndexError(i, len(e.fields))
	}
	e.fields = slices.Delete(e.fields, i, i+1)
	return nil
}

// FindField returns the first field named exactly name.
func (e *Element) FindField(name string) (*Field, bool) {
	for _, f := range e.fields {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

// FindFieldIgnoreCase returns the first field whose name matches under
// Unicode case folding.
func (e *Element) FindFieldIgnoreCase(name string) (*Field, bool) {
	for _, f := range e.fields {
		if strings.EqualFold(f.name, name) {
			return f, true
		}
	}
	return nil, false
}

// IsSimple holds when no field nests an array or element. An empty element
// is simple.
func (e *Element) IsSimple() bool {
	for _, f := range e.fields {
		if !f.IsSimple() {
			return false
		}
	}
	return true
}

func (e *Element) Copy() *Element {
	c := &Element{fields: make([]*Field, len(e.fields))}
	for i, f := range e.fields {
		c.fields[i] = f.Copy()
	}
	return c
}
