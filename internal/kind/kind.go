// Package kind holds the single closed set of value kinds carried by the
// value tree, and the three tag spaces derived from it.
//
// NumberType, ValueType and ObjectType are projections of Kind. A kind has
// the same identity in every space it belongs to.
package kind

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/valuetree/internal/errors"
)

// Kind identifies the type of a value. The zero Kind is Invalid.
type Kind uint8

const (
	Invalid Kind = iota
	String
	Byte
	Short
	Integer
	Long
	BigInteger
	Float
	Double
	BigDecimal
	Bytes
	Boolean
	ObjectArray
	ObjectElement
	Any
)

var kindNames = map[Kind]string{
	String:        "String",
	Byte:          "Byte",
	Short:         "Short",
	Integer:       "Integer",
	Long:          "Long",
	BigInteger:    "BigInteger",
	Float:         "Float",
	Double:        "Double",
	BigDecimal:    "BigDecimal",
	Bytes:         "Bytes",
	Boolean:       "Boolean",
	ObjectArray:   "ObjectArray",
	ObjectElement: "ObjectElement",
	Any:           "Any",
}

// byName is keyed by the snake_case form of each name.
var byName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames)+4)
	for k, name := range kindNames {
		m[strcase.ToSnake(name)] = k
	}
	m["int"] = Integer
	m["bool"] = Boolean
	m["array"] = ObjectArray
	m["element"] = ObjectElement
	return m
}()

// String returns the kind's name, as used in listings and errors.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("<invalid kind %d>", uint8(k))
}

// MarshalText writes the kind's name. Invalid kinds fail.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, errors.NewConversionError(k.String())
	}
	return []byte(k.String()), nil
}

// UnmarshalText reads a kind name in any casing Parse accepts.
func (k *Kind) UnmarshalText(d []byte) error {
	kk, err := Parse(string(d))
	if err != nil {
		return err
	}
	*k = kk
	return nil
}

// Parse accepts a kind name in any common casing: "BigInteger",
// "big_integer", "big-integer" and "biginteger" are all BigInteger.
func Parse(name string) (Kind, error) {
	if k, ok := byName[strcase.ToSnake(name)]; ok {
		return k, nil
	}
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return k, nil
		}
	}
	return Invalid, errors.NewConversionError(fmt.Sprintf("unknown kind %q", name))
}

// Kinds lists every valid kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		String, Byte, Short, Integer, Long, BigInteger, Float, Double,
		BigDecimal, Bytes, Boolean, ObjectArray, ObjectElement, Any,
	}
}

// Valid reports whether k is one of the kinds listed by Kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// IsNumber reports the eight numeric kinds.
func (k Kind) IsNumber() bool {
	switch k {
	case Byte, Short, Integer, Long, BigInteger, Float, Double, BigDecimal:
		return true
	default:
		return false
	}
}

// IsSimple reports whether a value of this kind holds no nested tree.
func (k Kind) IsSimple() bool {
	return k != ObjectArray && k != ObjectElement
}
