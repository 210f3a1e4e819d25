package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/valuetree/internal/config"
	"github.com/mcncl/valuetree/internal/errors"
	"github.com/mcncl/valuetree/internal/kind"
	"github.com/mcncl/valuetree/internal/object"
	"github.com/mcncl/valuetree/internal/parser"
	"github.com/mcncl/valuetree/internal/schema"
)

func build(t *testing.T, b *Builder, doc string) *object.Field {
	t.Helper()
	ir, err := parser.ParseString(doc)
	require.NoError(t, err)
	f, err := b.Build(ir, "")
	require.NoError(t, err)
	return f
}

func root(t *testing.T, f *object.Field) *object.Element {
	t.Helper()
	e, err := f.ValueElement()
	require.NoError(t, err)
	return e
}

func member(t *testing.T, e *object.Element, name string) *object.Field {
	t.Helper()
	f, ok := e.FindField(name)
	require.True(t, ok, "field %q", name)
	return f
}

func TestBuild_InfersKinds(t *testing.T) {
	f := build(t, NewBuilder(), `{
		"name": "sensor1",
		"value": 23.5,
		"active": true,
		"count": 12,
		"total": 5000000000,
		"huge": 123456789012345678901234567890,
		"raw": "base64:aGVsbG8=",
		"missing": null,
		"meta": {"unit": "C"}
	}`)

	assert.Equal(t, DefaultRootName, f.Name())
	e := root(t, f)

	tests := []struct {
		name string
		want kind.ObjectType
	}{
		{"name", kind.ObjectString},
		{"value", kind.ObjectDouble},
		{"active", kind.ObjectBoolean},
		{"count", kind.ObjectInteger},
		{"total", kind.ObjectLong},
		{"huge", kind.ObjectBigInteger},
		{"raw", kind.ObjectBytes},
		{"missing", kind.ObjectString},
		{"meta", kind.ObjectObjectElement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, member(t, e, tt.name).Type())
		})
	}

	raw, err := member(t, e, "raw").ValueBytes()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(raw))
	assert.True(t, member(t, e, "missing").IsNull())

	n, err := member(t, e, "value").ValueNumber()
	require.NoError(t, err)
	d, err := n.Double()
	require.NoError(t, err)
	assert.Equal(t, 23.5, d)
}

func TestBuild_KeepsOrderAndDuplicates(t *testing.T) {
	e := root(t, build(t, NewBuilder(), `{"b": 1, "a": 2, "b": 3}`))
	require.Equal(t, 3, e.Len())

	var names []string
	for _, f := range e.Fields() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"b", "a", "b"}, names)

	n, err := member(t, e, "b").ValueNumber()
	require.NoError(t, err)
	assert.Equal(t, "1", n.String())
}

func TestBuild_Arrays(t *testing.T) {
	e := root(t, build(t, NewBuilder(), `{
		"ints": [1, 2, 3],
		"widened": [1, 5000000000],
		"mixed": ["a", true, 1],
		"empty": [],
		"objects": [{"id": 1}, {"id": 2}],
		"nested": [[1], [2, 3]]
	}`))

	tests := []struct {
		name     string
		declared kind.ObjectType
		length   int
	}{
		{"ints", kind.ObjectInteger, 3},
		{"widened", kind.ObjectLong, 2},
		{"mixed", kind.ObjectAny, 3},
		{"empty", kind.ObjectAny, 0},
		{"objects", kind.ObjectObjectElement, 2},
		{"nested", kind.ObjectObjectArray, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := member(t, e, tt.name).ValueArray()
			require.NoError(t, err)
			assert.Equal(t, tt.declared, a.Type())
			assert.Equal(t, tt.length, a.Len())
		})
	}

	mixed, err := member(t, e, "mixed").ValueArray()
	require.NoError(t, err)
	typ, err := mixed.TypeAt(2)
	require.NoError(t, err)
	assert.Equal(t, kind.ObjectInteger, typ)

	widened, err := member(t, e, "widened").ValueArray()
	require.NoError(t, err)
	typ, err = widened.TypeAt(0)
	require.NoError(t, err)
	assert.Equal(t, kind.ObjectLong, typ)
}

func TestBuild_RootArray(t *testing.T) {
	f := build(t, NewBuilder(), `["x", "y"]`)
	a, err := f.ValueArray()
	require.NoError(t, err)
	assert.Equal(t, kind.ObjectString, a.Type())
	assert.Equal(t, 2, a.Len())
}

func TestBuild_Config(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Numbers.IntegerKind = config.IntegerLong
	cfg.Numbers.DecimalKind = config.DecimalBigDecimal
	cfg.Arrays.PreferAny = true
	cfg.Naming.FieldCase = config.CaseSnake
	cfg.Kinds = []config.KindMapping{{Pattern: "^port$", Kind: "short"}}
	require.NoError(t, cfg.Validate())

	e := root(t, build(t, NewBuilderWithConfig(cfg), `{"deviceId": 7, "price": 0.1, "port": 8080, "tags": ["a"]}`))

	id := member(t, e, "device_id")
	assert.Equal(t, kind.ObjectLong, id.Type())

	price := member(t, e, "price")
	assert.Equal(t, kind.ObjectBigDecimal, price.Type())
	n, err := price.ValueNumber()
	require.NoError(t, err)
	assert.Equal(t, "0.1", n.String())

	assert.Equal(t, kind.ObjectShort, member(t, e, "port").Type())

	tags, err := member(t, e, "tags").ValueArray()
	require.NoError(t, err)
	assert.Equal(t, kind.ObjectAny, tags.Type())
}

func TestBuild_SchemaHints(t *testing.T) {
	s, err := schema.ParseString(`{
		"properties": {
			"id": {"type": "integer", "format": "int64"},
			"level": {"type": "integer", "format": "int8"},
			"note": {"type": "string"},
			"readings": {"type": "array", "items": {"type": "number", "format": "float"}},
			"blob": {"type": "string", "format": "byte"}
		}
	}`)
	require.NoError(t, err)
	hints, err := s.Hints()
	require.NoError(t, err)

	b := NewBuilder().WithHints(hints)
	e := root(t, build(t, b, `{"id": 1, "level": 3, "note": null, "readings": [1, 2.5], "blob": "aGk="}`))

	assert.Equal(t, kind.ObjectLong, member(t, e, "id").Type())
	assert.Equal(t, kind.ObjectByte, member(t, e, "level").Type())

	note := member(t, e, "note")
	assert.True(t, note.IsNull())
	assert.Equal(t, kind.ObjectString, note.Type())

	readings, err := member(t, e, "readings").ValueArray()
	require.NoError(t, err)
	assert.Equal(t, kind.ObjectFloat, readings.Type())
	n, err := readings.GetNumber(1)
	require.NoError(t, err)
	v, err := n.Float()
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), v)

	blob, err := member(t, e, "blob").ValueBytes()
	require.NoError(t, err)
	assert.Equal(t, "hi", string(blob))
}

func TestBuild_Errors(t *testing.T) {
	hinted := func(h map[string]kind.ObjectType) *Builder {
		return NewBuilder().WithHints(h)
	}

	tests := []struct {
		name    string
		builder *Builder
		doc     string
		wantErr error
		wantMsg string
	}{
		{"null in array", NewBuilder(), `{"a": [1, null]}`, errors.ErrNullValue, "a[1]"},
		{"byte overflow", hinted(map[string]kind.ObjectType{"n": kind.ObjectByte}), `{"n": 300}`, errors.ErrNumberFormat, "at n"},
		{"integer from decimal", hinted(map[string]kind.ObjectType{"n": kind.ObjectInteger}), `{"n": 1.5}`, errors.ErrNumberFormat, "at n"},
		{"boolean from string", hinted(map[string]kind.ObjectType{"b": kind.ObjectBoolean}), `{"b": "yes"}`, errors.ErrTypeMismatch, "at b"},
		{"element from array", hinted(map[string]kind.ObjectType{"m": kind.ObjectObjectElement}), `{"m": [1]}`, errors.ErrTypeMismatch, "at m"},
		{"bad base64 forced to bytes", hinted(map[string]kind.ObjectType{"raw": kind.ObjectBytes}), `{"raw": "base64:***"}`, errors.ErrTypeMismatch, "at raw"},
		{"bad base64 item forced to bytes", hinted(map[string]kind.ObjectType{"raw[]": kind.ObjectBytes}), `{"raw": ["base64:AQ==", "plain"]}`, errors.ErrTypeMismatch, "at raw[]"},
		{"required null", NewBuilder().WithNonNullable(map[string]bool{"meta.id": true}), `{"meta": {"id": null}}`, errors.ErrNullValue, "at meta.id"},
		{"bad big integer", hinted(map[string]kind.ObjectType{"n": kind.ObjectBigInteger}), `{"n": 1.5}`, errors.ErrNumberFormat, "at n"},
		{"nested path", hinted(map[string]kind.ObjectType{"a.b[]": kind.ObjectString}), `{"a": {"b": ["x", 2]}}`, errors.ErrTypeMismatch, "at a.b[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ir, err := parser.ParseString(tt.doc)
			require.NoError(t, err)
			_, err = tt.builder.Build(ir, "doc")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errors.ErrorTypeBuild, appErr.Type)
		})
	}
}

func TestBuild_BytesPrefixNeedsBase64(t *testing.T) {
	e := root(t, build(t, NewBuilder(), `{
		"note": "base64:not base64!",
		"empty": "base64:",
		"raw": "base64:AQID",
		"list": ["base64:AQ==", "base64:??"]
	}`))

	tests := []struct {
		name string
		want kind.ObjectType
	}{
		{"note", kind.ObjectString},
		{"empty", kind.ObjectBytes},
		{"raw", kind.ObjectBytes},
		{"list", kind.ObjectObjectArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, member(t, e, tt.name).Type())
		})
	}

	note, err := member(t, e, "note").ValueString()
	require.NoError(t, err)
	assert.Equal(t, "base64:not base64!", note)

	list, err := member(t, e, "list").ValueArray()
	require.NoError(t, err)
	assert.Equal(t, kind.ObjectAny, list.Type())
	typ, err := list.TypeAt(1)
	require.NoError(t, err)
	assert.Equal(t, kind.ObjectString, typ)
}

func TestBuild_NumbersPastDoubleRange(t *testing.T) {
	e := root(t, build(t, NewBuilder(), `{"big": 1e400, "tiny": -2.5e-400, "list": [1e400, 2e400]}`))

	big := member(t, e, "big")
	assert.Equal(t, kind.ObjectBigDecimal, big.Type())
	n, err := big.ValueNumber()
	require.NoError(t, err)
	assert.Equal(t, "1e400", n.String())

	// Underflow rounds to zero without a range error.
	assert.Equal(t, kind.ObjectDouble, member(t, e, "tiny").Type())

	list, err := member(t, e, "list").ValueArray()
	require.NoError(t, err)
	assert.Equal(t, kind.ObjectBigDecimal, list.Type())
}

func TestBuild_NonNullable(t *testing.T) {
	s, err := schema.ParseString(`{
		"type": "object",
		"required": ["id", "note"],
		"properties": {
			"id": {"type": "integer"},
			"note": {"type": ["string", "null"]},
			"extra": {"type": "string"}
		}
	}`)
	require.NoError(t, err)
	nonNull, err := s.NonNullable()
	require.NoError(t, err)
	b := NewBuilder().WithNonNullable(nonNull)

	e := root(t, build(t, b, `{"id": 1, "note": null, "extra": null}`))
	assert.True(t, member(t, e, "note").IsNull())
	assert.True(t, member(t, e, "extra").IsNull())

	ir, err := parser.ParseString(`{"id": null}`)
	require.NoError(t, err)
	_, err = b.Build(ir, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNullValue)
	assert.Contains(t, err.Error(), "at id")
}

func TestBuild_LeavesAreIndependentOfDocument(t *testing.T) {
	ir, err := parser.ParseYAML([]byte("blob: !!binary AQID\nlist: [!!binary BAU=]\n"))
	require.NoError(t, err)
	f, err := NewBuilder().Build(ir, "")
	require.NoError(t, err)

	// The tree owns its bytes; scribbling on the document leaves it alone.
	for _, m := range ir.Root.Members {
		switch m.Key {
		case "blob":
			m.Value.Bytes[0] = 0xff
		case "list":
			m.Value.Items[0].Bytes[0] = 0xff
		}
	}

	e := root(t, f)
	raw, err := member(t, e, "blob").ValueBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)

	list, err := member(t, e, "list").ValueArray()
	require.NoError(t, err)
	item, err := list.GetBytes(0)
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5}, item)
}

func TestBuild_YAMLBinary(t *testing.T) {
	ir, err := parser.ParseYAML([]byte("blob: !!binary aGk=\nlist: [1, 2]\n"))
	require.NoError(t, err)
	f, err := NewBuilder().Build(ir, "cfg")
	require.NoError(t, err)
	assert.Equal(t, "cfg", f.Name())

	e := root(t, f)
	assert.Equal(t, kind.ObjectBytes, member(t, e, "blob").Type())
}
