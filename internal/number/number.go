// Package number implements the numeric variant carried by the value tree.
//
// A Number holds exactly one of eight kinds. The fixed-width kinds keep a
// binary payload; BigInteger and BigDecimal keep their decimal literal text
// and only parse it when a fixed-width view is requested. Every accessor
// is defined for every kind: integer targets narrow with two's complement
// truncation, floating targets convert.
package number

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/mcncl/valuetree/internal/errors"
	"github.com/mcncl/valuetree/internal/kind"
)

// Number is immutable. Copying the struct copies the payload.
type Number struct {
	typ  kind.NumberType
	i    int64   // Byte, Short, Integer, Long
	f    float64 // Float, Double
	text string  // BigInteger, BigDecimal
}

// FromByte returns a Byte number.
func FromByte(v int8) Number { return Number{typ: kind.NumberByte, i: int64(v)} }

// FromShort returns a Short number.
func FromShort(v int16) Number { return Number{typ: kind.NumberShort, i: int64(v)} }

// FromInteger returns an Integer number.
func FromInteger(v int32) Number { return Number{typ: kind.NumberInteger, i: int64(v)} }

// FromLong returns a Long number.
func FromLong(v int64) Number { return Number{typ: kind.NumberLong, i: v} }

// FromFloat returns a Float number. NaN and the infinities are kept.
func FromFloat(v float32) Number { return Number{typ: kind.NumberFloat, f: float64(v)} }

// FromDouble returns a Double number. NaN and the infinities are kept.
func FromDouble(v float64) Number {
	return Number{typ: kind.NumberDouble, f: v}
}

// BigInteger stores text as given. It is parsed only by the accessors.
func BigInteger(text string) Number {
	return Number{typ: kind.NumberBigInteger, text: text}
}

// BigDecimal stores text as given. It is parsed only by the accessors.
func BigDecimal(text string) Number {
	return Number{typ: kind.NumberBigDecimal, text: text}
}

// New builds a number of the given type from its text form. Fixed-width
// types must parse and fit; big types keep the text verbatim.
func New(typ kind.NumberType, text string) (Number, error) {
	switch typ {
	case kind.NumberByte, kind.NumberShort, kind.NumberInteger, kind.NumberLong:
		v, err := strconv.ParseInt(strings.TrimSpace(text), 10, bitSize(typ))
		if err != nil {
			return Number{}, errors.NewParseError(fmt.Sprintf("%q is not a %s: %v", text, typ, err), nil)
		}
		return Number{typ: typ, i: v}, nil
	case kind.NumberFloat, kind.NumberDouble:
		v, err := strconv.ParseFloat(strings.TrimSpace(text), bitSize(typ))
		if err != nil {
			return Number{}, errors.NewParseError(fmt.Sprintf("%q is not a %s: %v", text, typ, err), nil)
		}
		return Number{typ: typ, f: v}, nil
	case kind.NumberBigInteger, kind.NumberBigDecimal:
		return Number{typ: typ, text: text}, nil
	default:
		return Number{}, errors.NewConversionError(fmt.Sprintf("number type %s", typ))
	}
}

func bitSize(typ kind.NumberType) int {
	switch typ {
	case kind.NumberByte:
		return 8
	case kind.NumberShort:
		return 16
	case kind.NumberInteger, kind.NumberFloat:
		return 32
	default:
		return 64
	}
}

// Type reports which variant the number holds. The zero Number has an
// invalid type.
func (n Number) Type() kind.NumberType {
	return n.typ
}

// Byte returns the low 8 bits of Long.
func (n Number) Byte() (int8, error) {
	v, err := n.Long()
	return int8(v), err
}

// Short returns the low 16 bits of Long.
func (n Number) Short() (int16, error) {
	v, err := n.Long()
	return int16(v), err
}

// Int returns the low 32 bits of Long.
func (n Number) Int() (int32, error) {
	v, err := n.Long()
	return int32(v), err
}

// Long is the widest integer view; the narrower accessors truncate it.
func (n Number) Long() (int64, error) {
	switch n.typ {
	case kind.NumberByte, kind.NumberShort, kind.NumberInteger, kind.NumberLong:
		return n.i, nil
	case kind.NumberFloat, kind.NumberDouble:
		return floatToLong(n.f), nil
	case kind.NumberBigInteger:
		b, err := n.bigInt()
		if err != nil {
			return 0, err
		}
		return lowBits(b), nil
	case kind.NumberBigDecimal:
		f, err := n.bigFloat()
		if err != nil {
			return 0, err
		}
		b, _ := f.Int(nil)
		return lowBits(b), nil
	default:
		return 0, errors.NewConversionError("number has no type")
	}
}

// Float rounds Double to the nearest float32.
func (n Number) Float() (float32, error) {
	v, err := n.Double()
	return float32(v), err
}

// Double converts the number to float64. Big kinds round to the nearest
// float64 and fail only when their text does not parse.
func (n Number) Double() (float64, error) {
	switch n.typ {
	case kind.NumberByte, kind.NumberShort, kind.NumberInteger, kind.NumberLong:
		return float64(n.i), nil
	case kind.NumberFloat, kind.NumberDouble:
		return n.f, nil
	case kind.NumberBigInteger:
		b, err := n.bigInt()
		if err != nil {
			return 0, err
		}
		f, _ := new(big.Float).SetInt(b).Float64()
		return f, nil
	case kind.NumberBigDecimal:
		f, err := n.bigFloat()
		if err != nil {
			return 0, err
		}
		v, _ := f.Float64()
		return v, nil
	default:
		return 0, errors.NewConversionError("number has no type")
	}
}

// String renders the canonical text form.
func (n Number) String() string {
	switch n.typ {
	case kind.NumberByte, kind.NumberShort, kind.NumberInteger, kind.NumberLong:
		return strconv.FormatInt(n.i, 10)
	case kind.NumberFloat:
		return strconv.FormatFloat(n.f, 'g', -1, 32)
	case kind.NumberDouble:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	case kind.NumberBigInteger, kind.NumberBigDecimal:
		return n.text
	default:
		return ""
	}
}

// Equal reports whether both numbers hold the same variant and payload.
// Big kinds compare by text.
func (n Number) Equal(o Number) bool {
	return n == o
}

// Copy returns an independent number. Numbers share nothing, so this is
// the receiver itself.
func (n Number) Copy() Number {
	return n
}

func (n Number) bigInt() (*big.Int, error) {
	b, ok := new(big.Int).SetString(strings.TrimSpace(n.text), 10)
	if !ok {
		return nil, errors.NewParseError(fmt.Sprintf("%q is not an integer", n.text), nil)
	}
	return b, nil
}

func (n Number) bigFloat() (*big.Float, error) {
	f, _, err := big.ParseFloat(strings.TrimSpace(n.text), 10, 256, big.ToZero)
	if err != nil {
		return nil, errors.NewParseError(fmt.Sprintf("%q is not a decimal", n.text), errors.ErrNumberFormat)
	}
	if f.IsInf() {
		return nil, errors.NewParseError(fmt.Sprintf("%q is not finite", n.text), errors.ErrNumberFormat)
	}
	return f, nil
}

var mask64 = new(big.Int).SetUint64(math.MaxUint64)

// lowBits keeps the low 64 bits of b in two's complement.
func lowBits(b *big.Int) int64 {
	return int64(new(big.Int).And(b, mask64).Uint64())
}

// floatToLong truncates toward zero and keeps the low 64 bits of the
// integer part, the same narrowing BigDecimal gets. NaN and the infinities
// have no integer part and become zero.
func floatToLong(f float64) int64 {
	switch {
	case math.IsNaN(f), math.IsInf(f, 0):
		return 0
	case f >= -(1<<63) && f < 1<<63:
		return int64(f)
	default:
		b, _ := new(big.Float).SetFloat64(f).Int(nil)
		return lowBits(b)
	}
}
