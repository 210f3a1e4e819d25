package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/valuetree/internal/kind"
)

// Config represents the complete configuration for valuetree
type Config struct {
	Numbers NumbersConfig `yaml:"numbers"`
	Arrays  ArraysConfig  `yaml:"arrays"`
	Bytes   BytesConfig   `yaml:"bytes"`
	Naming  NamingConfig  `yaml:"naming"`
	Kinds   []KindMapping `yaml:"kinds"`
	Output  OutputConfig  `yaml:"output"`
	Dev     DevConfig     `yaml:"dev"`
}

// NumbersConfig controls which number kinds document numbers become
type NumbersConfig struct {
	// IntegerKind is "auto" (Integer, Long or BigInteger by magnitude) or
	// "long" (Long unless it overflows)
	IntegerKind string `yaml:"integer_kind"`
	// DecimalKind is "double" or "big_decimal"
	DecimalKind string `yaml:"decimal_kind"`
}

// ArraysConfig controls array handling
type ArraysConfig struct {
	PreferAny bool   `yaml:"prefer_any"`
	EmptyKind string `yaml:"empty_kind"`
}

// BytesConfig controls how byte fields appear in text documents
type BytesConfig struct {
	Prefix string `yaml:"prefix"`
}

// NamingConfig controls field naming
type NamingConfig struct {
	FieldCase     string            `yaml:"field_case"`
	FieldMappings map[string]string `yaml:"field_mappings"`
}

// KindMapping forces the kind of fields whose name matches Pattern
type KindMapping struct {
	Pattern string `yaml:"pattern"`
	Kind    string `yaml:"kind"`

	// compiled (not serialized)
	regex *regexp.Regexp
	typ   kind.ObjectType
}

// OutputConfig controls rendering
type OutputConfig struct {
	Color  string `yaml:"color"`
	Indent int    `yaml:"indent"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

const (
	IntegerAuto = "auto"
	IntegerLong = "long"

	DecimalDouble     = "double"
	DecimalBigDecimal = "big_decimal"

	CaseNone       = "none"
	CaseSnake      = "snake"
	CaseCamel      = "camel"
	CaseLowerCamel = "lower_camel"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Numbers: NumbersConfig{
			IntegerKind: IntegerAuto,
			DecimalKind: DecimalDouble,
		},
		Arrays: ArraysConfig{
			PreferAny: false,
			EmptyKind: "any",
		},
		Bytes: BytesConfig{
			Prefix: "base64:",
		},
		Naming: NamingConfig{
			FieldCase:     CaseNone,
			FieldMappings: make(map[string]string),
		},
		Kinds: []KindMapping{},
		Output: OutputConfig{
			Color:  ColorAuto,
			Indent: 2,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".valuetree.yml", ".valuetree.yaml", "valuetree.yml", "valuetree.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks enumerated settings and compiles kind mappings
func (c *Config) Validate() error {
	switch c.Numbers.IntegerKind {
	case IntegerAuto, IntegerLong:
	default:
		return fmt.Errorf("invalid numbers.integer_kind %q (want %s or %s)", c.Numbers.IntegerKind, IntegerAuto, IntegerLong)
	}

	switch c.Numbers.DecimalKind {
	case DecimalDouble, DecimalBigDecimal:
	default:
		return fmt.Errorf("invalid numbers.decimal_kind %q (want %s or %s)", c.Numbers.DecimalKind, DecimalDouble, DecimalBigDecimal)
	}

	switch c.Naming.FieldCase {
	case CaseNone, CaseSnake, CaseCamel, CaseLowerCamel:
	default:
		return fmt.Errorf("invalid naming.field_case %q", c.Naming.FieldCase)
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid output.color %q", c.Output.Color)
	}

	if c.Output.Indent < 0 {
		return fmt.Errorf("invalid output.indent %d", c.Output.Indent)
	}

	if _, err := c.EmptyArrayKind(); err != nil {
		return fmt.Errorf("invalid arrays.empty_kind: %w", err)
	}

	return c.compilePatterns()
}

// compilePatterns compiles all kind mapping patterns in the config
func (c *Config) compilePatterns() error {
	for i := range c.Kinds {
		mapping := &c.Kinds[i]
		regex, err := regexp.Compile(mapping.Pattern)
		if err != nil {
			return fmt.Errorf("invalid kind mapping pattern '%s': %w", mapping.Pattern, err)
		}
		typ, err := kind.ParseObjectType(mapping.Kind)
		if err != nil {
			return fmt.Errorf("invalid kind mapping kind '%s': %w", mapping.Kind, err)
		}
		if typ == kind.ObjectAny {
			return fmt.Errorf("kind mapping '%s' cannot force %s", mapping.Pattern, typ)
		}
		mapping.regex = regex
		mapping.typ = typ
	}
	return nil
}

// MatchesField checks if this kind mapping matches the given field name
func (km *KindMapping) MatchesField(fieldName string) bool {
	if km.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(km.Pattern)
		if err != nil {
			return false
		}
		km.regex = regex
	}
	return km.regex.MatchString(fieldName)
}

// ObjectType returns the kind this mapping forces
func (km *KindMapping) ObjectType() (kind.ObjectType, error) {
	if km.typ.Valid() {
		return km.typ, nil
	}
	return kind.ParseObjectType(km.Kind)
}

// GetFieldName returns the tree field name for a document key, applying
// naming rules
func (c *Config) GetFieldName(key string) string {
	// Check custom mappings first
	if mapped, exists := c.Naming.FieldMappings[key]; exists {
		return mapped
	}

	switch c.Naming.FieldCase {
	case CaseSnake:
		return strcase.ToSnake(key)
	case CaseCamel:
		return strcase.ToCamel(key)
	case CaseLowerCamel:
		return strcase.ToLowerCamel(key)
	default:
		return key
	}
}

// FindKindMapping finds the kind forced by the first mapping that matches
// the field name
func (c *Config) FindKindMapping(fieldName string) (kind.ObjectType, bool) {
	for i := range c.Kinds {
		mapping := &c.Kinds[i]
		if !mapping.MatchesField(fieldName) {
			continue
		}
		typ, err := mapping.ObjectType()
		if err != nil {
			continue
		}
		return typ, true
	}
	return 0, false
}

// EmptyArrayKind is the declared kind given to arrays with no items
func (c *Config) EmptyArrayKind() (kind.ObjectType, error) {
	return kind.ParseObjectType(c.Arrays.EmptyKind)
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath, cliColor string, cliDebug bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	// Apply CLI overrides only if they're not the default values
	if cliColor != "" && cliColor != ColorAuto {
		cfg.Output.Color = cliColor
	}
	if cliDebug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
