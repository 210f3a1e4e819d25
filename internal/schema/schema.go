// Package schema reads JSON Schema documents and turns their type and format
// annotations into kind hints for the tree builder
package schema

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/mcncl/valuetree/internal/kind"
)

// ItemsSuffix marks the path of an array's items in a hint map.
// "readings[]" is the declared kind of the readings array,
// "readings[].unit" a property of each of its elements.
const ItemsSuffix = "[]"

// SchemaType handles JSON Schema type field which can be string or array of strings
type SchemaType struct {
	Types []string
}

// UnmarshalJSON handles both string and array forms of type
func (st *SchemaType) UnmarshalJSON(data []byte) error {
	var s string
	if err := sonic.Unmarshal(data, &s); err == nil {
		st.Types = []string{s}
		return nil
	}

	var arr []string
	if err := sonic.Unmarshal(data, &arr); err == nil {
		st.Types = arr
		return nil
	}

	return fmt.Errorf("type must be string or array of strings")
}

// Primary returns the first type that is not "null", or "null" when that is
// the only type
func (st SchemaType) Primary() string {
	for _, t := range st.Types {
		if t != "null" {
			return t
		}
	}
	if len(st.Types) > 0 {
		return st.Types[0]
	}
	return ""
}

// IsNullable returns true if "null" is one of the allowed types
func (st SchemaType) IsNullable() bool {
	for _, t := range st.Types {
		if t == "null" {
			return true
		}
	}
	return false
}

// Schema represents the parts of a JSON Schema document that carry kinds
// and nullability
type Schema struct {
	Ref string `json:"$ref,omitempty"`

	Type   SchemaType `json:"type,omitempty"`
	Format string     `json:"format,omitempty"`

	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Items      *Schema            `json:"items,omitempty"`

	Nullable bool `json:"nullable,omitempty"`

	AllOf []*Schema `json:"allOf,omitempty"`

	// Definitions for $ref resolution
	Definitions map[string]*Schema `json:"definitions,omitempty"`
	Defs        map[string]*Schema `json:"$defs,omitempty"` // JSON Schema draft 2019-09+
}

// ParseFile reads and parses a JSON Schema from a file
func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	return ParseBytes(data)
}

// ParseBytes parses JSON Schema from bytes
func ParseBytes(data []byte) (*Schema, error) {
	var schema Schema
	if err := sonic.ConfigStd.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to parse JSON Schema: %w", err)
	}

	return &schema, nil
}

// ParseString parses JSON Schema from a string
func ParseString(s string) (*Schema, error) {
	return ParseBytes([]byte(s))
}

// AllowsNull reports whether a null satisfies the schema. A schema without
// a type accepts anything.
func (s *Schema) AllowsNull() bool {
	return s.Nullable || len(s.Type.Types) == 0 || s.Type.IsNullable()
}

// Hints walks the schema and returns the kind it prescribes for each field
// path. Paths with no kind-bearing annotation are absent.
func (s *Schema) Hints() (map[string]kind.ObjectType, error) {
	w, err := s.walkAll()
	if err != nil {
		return nil, err
	}
	return w.hints, nil
}

// NonNullable returns the field paths that are required by their parent
// object and whose schema does not allow null.
func (s *Schema) NonNullable() (map[string]bool, error) {
	w, err := s.walkAll()
	if err != nil {
		return nil, err
	}
	return w.nonNull, nil
}

func (s *Schema) walkAll() (*walker, error) {
	w := &walker{
		definitions: make(map[string]*Schema),
		hints:       make(map[string]kind.ObjectType),
		nonNull:     make(map[string]bool),
		visiting:    make(map[string]bool),
	}
	for k, v := range s.Definitions {
		w.definitions[k] = v
	}
	for k, v := range s.Defs {
		w.definitions[k] = v
	}

	if err := w.walk(s, "", false); err != nil {
		return nil, err
	}
	return w, nil
}

type walker struct {
	definitions map[string]*Schema
	hints       map[string]kind.ObjectType
	nonNull     map[string]bool
	visiting    map[string]bool
}

// walk records hints for s and everything below it. required is set when
// the parent object lists path's field as required.
func (w *walker) walk(s *Schema, path string, required bool) error {
	// "properties": {"a": null} and the like decode to nil.
	if s == nil {
		return nil
	}
	if s.Ref != "" {
		if w.visiting[s.Ref] {
			// Recursive definitions stop at the first repeat.
			return nil
		}
		def, err := w.resolveRef(s.Ref)
		if err != nil {
			return err
		}
		w.visiting[s.Ref] = true
		defer delete(w.visiting, s.Ref)
		return w.walk(def, path, required)
	}

	if len(s.AllOf) > 0 {
		merged, err := w.mergeAllOf(s.AllOf)
		if err != nil {
			return err
		}
		return w.walk(merged, path, required)
	}

	typ, ok := KindOf(s)
	if ok && path != "" {
		w.hints[path] = typ
	}
	if required && path != "" && !s.AllowsNull() {
		w.nonNull[path] = true
	}

	switch {
	case len(s.Properties) > 0:
		for name, prop := range s.Properties {
			if err := w.walk(prop, join(path, name), slices.Contains(s.Required, name)); err != nil {
				return err
			}
		}
	case s.Items != nil:
		if err := w.walk(s.Items, path+ItemsSuffix, false); err != nil {
			return err
		}
	}
	return nil
}

// KindOf maps a schema's type and format to a kind. Integers and numbers
// without a recognised format have no fixed kind.
func KindOf(s *Schema) (kind.ObjectType, bool) {
	if s == nil {
		return 0, false
	}
	schemaType := s.Type.Primary()
	if schemaType == "" {
		switch {
		case len(s.Properties) > 0:
			schemaType = "object"
		case s.Items != nil:
			schemaType = "array"
		}
	}

	switch schemaType {
	case "string":
		switch s.Format {
		case "byte", "binary", "base64":
			return kind.ObjectBytes, true
		default:
			return kind.ObjectString, true
		}
	case "integer":
		switch s.Format {
		case "int8":
			return kind.ObjectByte, true
		case "int16":
			return kind.ObjectShort, true
		case "int32":
			return kind.ObjectInteger, true
		case "int64":
			return kind.ObjectLong, true
		case "big-integer":
			return kind.ObjectBigInteger, true
		}
	case "number":
		switch s.Format {
		case "float":
			return kind.ObjectFloat, true
		case "double":
			return kind.ObjectDouble, true
		case "decimal", "big-decimal":
			return kind.ObjectBigDecimal, true
		case "big-integer":
			return kind.ObjectBigInteger, true
		}
	case "boolean":
		return kind.ObjectBoolean, true
	case "object":
		return kind.ObjectObjectElement, true
	case "array":
		return kind.ObjectObjectArray, true
	}
	return 0, false
}

// resolveRef resolves a local $ref to its schema
func (w *walker) resolveRef(ref string) (*Schema, error) {
	for _, prefix := range []string{"#/definitions/", "#/$defs/"} {
		if !strings.HasPrefix(ref, prefix) {
			continue
		}
		defName := strings.TrimPrefix(ref, prefix)
		if defSchema, ok := w.definitions[defName]; ok {
			return defSchema, nil
		}
		return nil, fmt.Errorf("unresolved $ref: %s", ref)
	}

	// External refs not supported yet
	return nil, fmt.Errorf("external $ref not supported: %s", ref)
}

// mergeAllOf merges the properties of every allOf branch into one object
// schema
func (w *walker) mergeAllOf(schemas []*Schema) (*Schema, error) {
	merged := &Schema{
		Properties: make(map[string]*Schema),
		Type:       SchemaType{Types: []string{"object"}},
	}

	for _, s := range schemas {
		if s == nil {
			continue
		}
		resolved := s
		if s.Ref != "" {
			def, err := w.resolveRef(s.Ref)
			if err != nil {
				return nil, err
			}
			resolved = def
		}
		if resolved == nil {
			continue
		}

		for k, v := range resolved.Properties {
			merged.Properties[k] = v
		}
		merged.Required = append(merged.Required, resolved.Required...)
	}

	return merged, nil
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
