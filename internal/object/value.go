package object

import (
	"github.com/mcncl/valuetree/internal/kind"
	"github.com/mcncl/valuetree/internal/number"
)

// Value is the read-only view of a value handed across the module
// boundary. Every accessor except the one matching Type fails with a type
// mismatch.
type Value interface {
	Type() kind.ValueType
	ValueString() (string, error)
	ValueNumber() (number.Number, error)
	ValueBytes() ([]byte, error)
	BytesCount() (int, error)
	ValueBoolean() (bool, error)
	ValueArray() (*Array, error)
}
