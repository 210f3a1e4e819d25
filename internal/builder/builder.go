// Package builder turns a parsed document into a value tree, inferring a
// kind for every value unless a schema hint or a configured mapping fixes it.
package builder

import (
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/valuetree/internal/config"
	"github.com/mcncl/valuetree/internal/errors"
	"github.com/mcncl/valuetree/internal/kind"
	"github.com/mcncl/valuetree/internal/models"
	"github.com/mcncl/valuetree/internal/number"
	"github.com/mcncl/valuetree/internal/object"
	"github.com/mcncl/valuetree/internal/schema"
	"github.com/mcncl/valuetree/internal/value"
)

// DefaultRootName names the root field when none is given.
const DefaultRootName = "root"

// Builder converts documents into value trees
type Builder struct {
	config  *config.Config
	values  value.Factory
	hints   map[string]kind.ObjectType
	nonNull map[string]bool
}

// NewBuilder creates a Builder with the default configuration.
func NewBuilder() *Builder {
	return NewBuilderWithConfig(config.NewConfig())
}

// NewBuilderWithConfig creates a Builder with custom configuration.
func NewBuilderWithConfig(cfg *config.Config) *Builder {
	return &Builder{
		config:  cfg,
		values:  value.NewFactory(),
		hints:   make(map[string]kind.ObjectType),
		nonNull: make(map[string]bool),
	}
}

// WithHints sets kinds by document path, as produced by schema.Hints.
func (b *Builder) WithHints(hints map[string]kind.ObjectType) *Builder {
	b.hints = hints
	return b
}

// WithNonNullable rejects a null at any of the given paths, as produced by
// schema.NonNullable.
func (b *Builder) WithNonNullable(paths map[string]bool) *Builder {
	b.nonNull = paths
	return b
}

// Build converts the document into a field named rootName holding its root
// value.
func (b *Builder) Build(ir models.IntermediateRepresentation, rootName string) (*object.Field, error) {
	if rootName == "" {
		rootName = DefaultRootName
	}
	if ir.Root == nil {
		return object.NewField(rootName, kind.ObjectString)
	}

	f := &object.Field{}
	f.SetName(rootName)
	if err := b.fill(f, ir.Root, "", ""); err != nil {
		return nil, err
	}
	return f, nil
}

// fill stores n into f. key is the document key n was found under, used for
// configured mappings.
func (b *Builder) fill(f *object.Field, n *models.Node, path, key string) error {
	want, forced := b.forced(path, key)
	return b.fillAs(f, n, path, want, forced)
}

// fillAs stores n into f at kind want, or at its inferred kind when the kind
// is not forced.
func (b *Builder) fillAs(f *object.Field, n *models.Node, path string, want kind.ObjectType, forced bool) error {
	if n.Type == models.NullNode {
		if b.nonNull[path] {
			return b.fail(path, errors.NewNullError("field is required and not nullable"))
		}
		if !forced {
			want = kind.ObjectString
		}
		if err := f.SetNull(want); err != nil {
			return b.fail(path, err)
		}
		return nil
	}

	if !forced {
		var err error
		want, err = b.infer(n)
		if err != nil {
			return b.fail(path, err)
		}
	}

	switch want {
	case kind.ObjectObjectElement:
		e, err := b.element(n, path)
		if err != nil {
			return err
		}
		f.SetElement(e)
	case kind.ObjectObjectArray:
		a, err := b.array(n, path)
		if err != nil {
			return err
		}
		f.SetArray(a)
	default:
		v, err := b.leaf(n, path, want)
		if err != nil {
			return err
		}
		if err := f.SetValue(v); err != nil {
			return b.fail(path, err)
		}
	}
	return nil
}

// leaf creates the value of a node that holds no other values.
func (b *Builder) leaf(n *models.Node, path string, want kind.ObjectType) (object.Value, error) {
	switch want {
	case kind.ObjectString:
		if n.Type != models.StringNode {
			return nil, b.mismatch(path, n, want)
		}
		return b.values.CreateString(n.Text), nil
	case kind.ObjectBytes:
		raw, err := b.bytes(n)
		if err != nil {
			return nil, b.fail(path, err)
		}
		return b.values.CreateBytes(raw), nil
	case kind.ObjectBoolean:
		if n.Type != models.BoolNode {
			return nil, b.mismatch(path, n, want)
		}
		return b.values.CreateBoolean(n.Bool), nil
	default:
		num, err := b.number(n, want)
		if err != nil {
			return nil, b.fail(path, err)
		}
		v, err := b.values.CreateNumber(num)
		if err != nil {
			return nil, b.fail(path, err)
		}
		return v, nil
	}
}

func (b *Builder) element(n *models.Node, path string) (*object.Element, error) {
	if n.Type != models.ObjectNode {
		return nil, b.mismatch(path, n, kind.ObjectObjectElement)
	}
	e := object.NewElement()
	for _, m := range n.Members {
		f := e.Append(&object.Field{})
		f.SetName(b.config.GetFieldName(m.Key))
		if err := b.fill(f, m.Value, join(path, m.Key), m.Key); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (b *Builder) array(n *models.Node, path string) (*object.Array, error) {
	if n.Type != models.ArrayNode {
		return nil, b.mismatch(path, n, kind.ObjectObjectArray)
	}
	itemPath := path + schema.ItemsSuffix

	declared, forced := b.hints[itemPath]
	if !forced {
		var err error
		declared, err = b.declaredKind(n)
		if err != nil {
			return nil, b.fail(path, err)
		}
	}

	a, err := object.NewArray(declared)
	if err != nil {
		return nil, b.fail(path, err)
	}
	for i, item := range n.Items {
		if item.Type == models.NullNode {
			return nil, b.fail(fmt.Sprintf("%s[%d]", path, i), errors.NewNullError("arrays cannot hold null"))
		}
		if err := b.addItem(a, item, itemPath); err != nil {
			return nil, b.fail(fmt.Sprintf("%s[%d]", path, i), err)
		}
	}
	return a, nil
}

// addItem appends n to a at a's declared kind, or at n's inferred kind when
// a holds Any.
func (b *Builder) addItem(a *object.Array, n *models.Node, itemPath string) error {
	want := a.Type()
	if want == kind.ObjectAny {
		var err error
		want, err = b.infer(n)
		if err != nil {
			return b.fail(itemPath, err)
		}
	}

	switch want {
	case kind.ObjectObjectElement:
		e, err := b.element(n, itemPath)
		if err != nil {
			return err
		}
		return a.AddElement(e)
	case kind.ObjectObjectArray:
		nested, err := b.array(n, itemPath)
		if err != nil {
			return err
		}
		return a.AddArray(nested)
	default:
		v, err := b.leaf(n, itemPath, want)
		if err != nil {
			return err
		}
		return a.AddValue(v)
	}
}

// declaredKind picks an array's kind from its items: the shared kind when
// there is one, the widest integer kind when all are integers, otherwise Any.
func (b *Builder) declaredKind(n *models.Node) (kind.ObjectType, error) {
	if b.config.Arrays.PreferAny {
		return kind.ObjectAny, nil
	}
	if len(n.Items) == 0 {
		return b.config.EmptyArrayKind()
	}

	var declared kind.ObjectType
	for i, item := range n.Items {
		if item.Type == models.NullNode {
			return kind.ObjectAny, nil
		}
		k, err := b.infer(item)
		if err != nil {
			return 0, err
		}
		switch {
		case i == 0:
			declared = k
		case k == declared:
		case integerRank(k) > 0 && integerRank(declared) > 0:
			if integerRank(k) > integerRank(declared) {
				declared = k
			}
		default:
			return kind.ObjectAny, nil
		}
	}
	return declared, nil
}

func integerRank(k kind.ObjectType) int {
	switch k {
	case kind.ObjectInteger:
		return 1
	case kind.ObjectLong:
		return 2
	case kind.ObjectBigInteger:
		return 3
	default:
		return 0
	}
}

// infer chooses a kind for a non-null node from its content alone.
func (b *Builder) infer(n *models.Node) (kind.ObjectType, error) {
	switch n.Type {
	case models.StringNode:
		if b.isBytesText(n.Text) {
			return kind.ObjectBytes, nil
		}
		return kind.ObjectString, nil
	case models.BytesNode:
		return kind.ObjectBytes, nil
	case models.BoolNode:
		return kind.ObjectBoolean, nil
	case models.ObjectNode:
		return kind.ObjectObjectElement, nil
	case models.ArrayNode:
		return kind.ObjectObjectArray, nil
	case models.NumberNode:
		return b.numberKind(n.Text), nil
	default:
		return 0, errors.NewConversionError(fmt.Sprintf("document node %s", n.Type))
	}
}

func (b *Builder) numberKind(text string) kind.ObjectType {
	if isIntegerText(text) {
		v, err := strconv.ParseInt(text, 10, 64)
		switch {
		case err != nil:
			return kind.ObjectBigInteger
		case b.config.Numbers.IntegerKind == config.IntegerLong:
			return kind.ObjectLong
		case int64(int32(v)) == v:
			return kind.ObjectInteger
		default:
			return kind.ObjectLong
		}
	}
	if b.config.Numbers.DecimalKind == config.DecimalBigDecimal && isDecimalText(text) {
		return kind.ObjectBigDecimal
	}
	// Past the float64 range only BigDecimal keeps the value.
	if _, err := strconv.ParseFloat(text, 64); stderrors.Is(err, strconv.ErrRange) {
		return kind.ObjectBigDecimal
	}
	return kind.ObjectDouble
}

// number parses n's text as the given numeric kind.
func (b *Builder) number(n *models.Node, want kind.ObjectType) (number.Number, error) {
	typ, err := want.NumberType()
	if err != nil {
		return number.Number{}, err
	}
	if n.Type != models.NumberNode {
		return number.Number{}, errors.NewTypeMismatchError(fmt.Sprintf("%s is not a number", n.Type))
	}
	num, err := number.New(typ, n.Text)
	if err != nil {
		return number.Number{}, err
	}
	// Big kinds keep their text unparsed; reject text no accessor could read.
	if _, err := num.Long(); err != nil {
		return number.Number{}, err
	}
	return num, nil
}

func (b *Builder) bytes(n *models.Node) ([]byte, error) {
	switch n.Type {
	case models.BytesNode:
		return n.Bytes, nil
	case models.StringNode:
		text := strings.TrimPrefix(n.Text, b.config.Bytes.Prefix)
		raw, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, errors.NewTypeMismatchError(fmt.Sprintf("%q is not base64", n.Text))
		}
		return raw, nil
	default:
		return nil, errors.NewTypeMismatchError(fmt.Sprintf("%s is not bytes", n.Type))
	}
}

// isBytesText reports text carrying the configured prefix followed by
// valid base64. Anything else stays a string.
func (b *Builder) isBytesText(text string) bool {
	prefix := b.config.Bytes.Prefix
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(text, prefix))
	return err == nil
}

// forced returns a kind fixed for path by a schema hint, else by a mapping
// on the field's key.
func (b *Builder) forced(path, key string) (kind.ObjectType, bool) {
	if k, ok := b.hints[path]; ok {
		return k, true
	}
	if key == "" {
		return 0, false
	}
	return b.config.FindKindMapping(key)
}

func (b *Builder) mismatch(path string, n *models.Node, want kind.ObjectType) error {
	return b.fail(path, errors.NewTypeMismatchError(fmt.Sprintf("document %s cannot be %s", n.Type, want)))
}

// fail wraps a tree error with the path it happened at. Errors already
// wrapped further down pass through.
func (b *Builder) fail(path string, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Type == errors.ErrorTypeBuild {
		return err
	}
	if path == "" {
		path = "document root"
	}
	return errors.NewBuildError(fmt.Sprintf("at %s", path), err)
}

func isIntegerText(text string) bool {
	if text == "" {
		return false
	}
	s := strings.TrimPrefix(strings.TrimPrefix(text, "-"), "+")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isDecimalText reports finite decimal text, which BigDecimal can hold.
func isDecimalText(text string) bool {
	_, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return false
	}
	lower := strings.ToLower(text)
	return !strings.Contains(lower, "inf") && !strings.Contains(lower, "nan")
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
