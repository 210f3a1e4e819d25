package parser

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/valuetree/internal/errors"
	"github.com/mcncl/valuetree/internal/models"
)

// Parse reads a JSON document from an io.Reader into an
// IntermediateRepresentation
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses a JSON document. Object members keep document order and
// duplicate keys; numbers keep their source text.
func ParseBytes(data []byte) (models.IntermediateRepresentation, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.IntermediateRepresentation{}, errors.NewParseError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	if !gjson.ValidBytes(data) {
		return models.IntermediateRepresentation{}, errors.NewParseError("input is not a single valid JSON document", errors.ErrInvalidJSON)
	}

	root := fromJSON(gjson.ParseBytes(data))
	return models.IntermediateRepresentation{
		Root:        root,
		RootIsArray: root.Type == models.ArrayNode,
		Format:      models.FormatJSON,
	}, nil
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseBytes([]byte(jsonString))
}

func fromJSON(r gjson.Result) *models.Node {
	switch r.Type {
	case gjson.String:
		return &models.Node{Type: models.StringNode, Text: r.Str}
	case gjson.Number:
		return &models.Node{Type: models.NumberNode, Text: r.Raw}
	case gjson.True, gjson.False:
		return &models.Node{Type: models.BoolNode, Bool: r.Bool()}
	case gjson.JSON:
		if r.IsArray() {
			n := &models.Node{Type: models.ArrayNode}
			r.ForEach(func(_, value gjson.Result) bool {
				n.Items = append(n.Items, fromJSON(value))
				return true
			})
			return n
		}
		n := &models.Node{Type: models.ObjectNode}
		r.ForEach(func(key, value gjson.Result) bool {
			n.Members = append(n.Members, models.Member{Key: key.Str, Value: fromJSON(value)})
			return true
		})
		return n
	default:
		return &models.Node{Type: models.NullNode}
	}
}

// Select returns the raw JSON found at a gjson path, so a sub-document can
// be parsed on its own.
func Select(data []byte, path string) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.NewParseError("input is not a single valid JSON document", errors.ErrInvalidJSON)
	}
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return nil, errors.NewInputError(fmt.Sprintf("nothing at path %q", path), errors.ErrPathNotFound)
	}
	return []byte(res.Raw), nil
}

// ParseYAML parses a single YAML document. !!binary scalars become bytes.
func ParseYAML(data []byte) (models.IntermediateRepresentation, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.IntermediateRepresentation{}, errors.NewParseError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return models.IntermediateRepresentation{}, errors.NewParseError(fmt.Sprintf("YAML syntax error: %v", err), errors.ErrInvalidYAML)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return models.IntermediateRepresentation{}, errors.NewParseError("input holds no YAML document", errors.ErrEmptyInput)
	}

	root, err := fromYAML(doc.Content[0])
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}
	return models.IntermediateRepresentation{
		Root:        root,
		RootIsArray: root.Type == models.ArrayNode,
		Format:      models.FormatYAML,
	}, nil
}

func fromYAML(y *yaml.Node) (*models.Node, error) {
	switch y.Kind {
	case yaml.AliasNode:
		return fromYAML(y.Alias)
	case yaml.MappingNode:
		n := &models.Node{Type: models.ObjectNode}
		for i := 0; i+1 < len(y.Content); i += 2 {
			key, value := y.Content[i], y.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, yamlError(key, "mapping keys must be scalars")
			}
			v, err := fromYAML(value)
			if err != nil {
				return nil, err
			}
			n.Members = append(n.Members, models.Member{Key: key.Value, Value: v})
		}
		return n, nil
	case yaml.SequenceNode:
		n := &models.Node{Type: models.ArrayNode}
		for _, item := range y.Content {
			v, err := fromYAML(item)
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, v)
		}
		return n, nil
	case yaml.ScalarNode:
		return fromScalar(y)
	default:
		return nil, yamlError(y, "unsupported node")
	}
}

func fromScalar(y *yaml.Node) (*models.Node, error) {
	switch y.ShortTag() {
	case "!!null":
		return &models.Node{Type: models.NullNode}, nil
	case "!!bool":
		var b bool
		if err := y.Decode(&b); err != nil {
			return nil, yamlError(y, err.Error())
		}
		return &models.Node{Type: models.BoolNode, Bool: b}, nil
	case "!!int":
		text := strings.ReplaceAll(y.Value, "_", "")
		if i, err := strconv.ParseInt(text, 0, 64); err == nil {
			text = strconv.FormatInt(i, 10)
		}
		return &models.Node{Type: models.NumberNode, Text: text}, nil
	case "!!float":
		text := y.Value
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			var f float64
			if err := y.Decode(&f); err != nil {
				return nil, yamlError(y, err.Error())
			}
			text = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return &models.Node{Type: models.NumberNode, Text: text}, nil
	case "!!binary":
		raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(y.Value), ""))
		if err != nil {
			return nil, yamlError(y, "invalid !!binary value")
		}
		return &models.Node{Type: models.BytesNode, Bytes: raw}, nil
	default:
		return &models.Node{Type: models.StringNode, Text: y.Value}, nil
	}
}

func yamlError(y *yaml.Node, msg string) error {
	return errors.NewParseError(fmt.Sprintf("line %d: %s", y.Line, msg), errors.ErrInvalidYAML)
}

// ParseFile parses a JSON or YAML file, chosen by extension
func ParseFile(filePath string) (models.IntermediateRepresentation, error) {
	data, err := ReadFile(filePath)
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}
	if IsYAMLPath(filePath) {
		return ParseYAML(data)
	}
	return ParseBytes(data)
}

// IsYAMLPath reports whether a path has a YAML extension
func IsYAMLPath(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yml", ".yaml":
		return true
	default:
		return false
	}
}

// ReadFile reads a whole input file, mapping the common failures to input
// errors
func ReadFile(filePath string) ([]byte, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}
	return data, nil
}
