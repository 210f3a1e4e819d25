package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mcncl/valuetree/internal/builder"
	"github.com/mcncl/valuetree/internal/config"
	"github.com/mcncl/valuetree/internal/differ"
	"github.com/mcncl/valuetree/internal/encoder"
	"github.com/mcncl/valuetree/internal/errors"
	"github.com/mcncl/valuetree/internal/formatter"
	"github.com/mcncl/valuetree/internal/models"
	"github.com/mcncl/valuetree/internal/object"
	"github.com/mcncl/valuetree/internal/parser"
	"github.com/mcncl/valuetree/internal/schema"
)

// CLI defines the command-line interface
var CLI struct {
	Input    string `help:"Path to input JSON or YAML file. If not specified, reads from stdin." short:"i" type:"path"`
	Output   string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Format   string `help:"Format of stdin input." short:"f" default:"json" enum:"json,yaml"`
	Path     string `help:"gjson path selecting part of a JSON document, e.g. 'devices.0'." short:"p"`
	Schema   string `help:"JSON Schema file fixing the kind of matching fields." short:"s" type:"path"`
	Config   string `help:"Path to config file. Defaults to .valuetree.yml found upward from the working directory." short:"c" type:"path"`
	RootName string `help:"Name for the root field." short:"r" default:"root"`
	Color    string `help:"Color output: auto, always or never." default:"auto"`
	Debug    bool   `help:"Enable debug logging." short:"d"`

	Inspect struct{} `cmd:"" default:"1" help:"Print the value tree with the kind of every value."`
	Encode  struct {
		Indent int `help:"Indent width; 0 prints compact JSON. Defaults to output.indent from config." default:"-1"`
	} `cmd:"" help:"Print the value tree as canonical JSON."`
	Diff struct {
		Other string `arg:"" help:"Document to compare the input against." type:"path"`
	} `cmd:"" help:"Compare the value trees of two documents, kinds included."`
	Version struct{} `cmd:"" help:"Show version information."`
}

// Context holds the runtime context
type Context struct {
	Debug   bool
	Config  *config.Config
	Command string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Changed is set by diff when the trees differ.
	Changed bool
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("valuetree"),
		kong.Description("Inspect JSON and YAML documents as typed value trees"),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage has already been shown by kong.UsageOnError()
		os.Exit(1)
	}

	command := strings.Fields(kctx.Command())[0]
	if command == "version" {
		fmt.Printf("valuetree version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	ctx := &Context{Debug: cfg.Dev.Debug, Config: cfg, Command: command}
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: valuetree --help\n")
		os.Exit(1)
	}
	if ctx.Changed {
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config, or the one found
// upward from the working directory, and applies CLI overrides.
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(path, CLI.Color, CLI.Debug)
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// run executes the selected command
func run(ctx *Context) error {
	if ctx.Config == nil {
		ctx.Config = config.NewConfig()
	}
	cfg := ctx.Config

	tree, err := buildTree(ctx, CLI.Input)
	if err != nil {
		return err
	}

	var out string
	switch ctx.Command {
	case "", "inspect":
		dump, err := encoder.NewEncoderWithConfig(cfg).Dump(tree)
		if err != nil {
			return err
		}
		out = newFormatter(cfg).FormatDump(dump)
	case "encode":
		encCfg := *cfg
		if CLI.Encode.Indent >= 0 {
			encCfg.Output.Indent = CLI.Encode.Indent
		}
		data, err := encoder.NewEncoderWithConfig(&encCfg).JSON(tree)
		if err != nil {
			return err
		}
		out = string(data)
	case "diff":
		other, err := buildTree(ctx, CLI.Diff.Other)
		if err != nil {
			return err
		}
		diff, changed, err := differ.NewDiffer(encoder.NewEncoderWithConfig(cfg)).Diff(tree, other)
		if err != nil {
			return err
		}
		ctx.Changed = changed
		ctx.debugf("trees differ: %t", changed)
		out = newFormatter(cfg).FormatDiff(diff)
	default:
		return errors.NewInputError(fmt.Sprintf("unknown command %q", ctx.Command), nil)
	}

	return writeOutput(ctx, out)
}

// buildTree reads the document at path, or stdin when path is empty, and
// builds its value tree.
func buildTree(ctx *Context, path string) (*object.Field, error) {
	ir, err := parseInput(ctx, path)
	if err != nil {
		return nil, err
	}

	b := builder.NewBuilderWithConfig(ctx.Config)
	if CLI.Schema != "" {
		s, err := schema.ParseFile(CLI.Schema)
		if err != nil {
			return nil, errors.NewInputError(fmt.Sprintf("failed to load schema '%s'", CLI.Schema), err)
		}
		hints, err := s.Hints()
		if err != nil {
			return nil, errors.NewInputError(fmt.Sprintf("failed to read schema '%s'", CLI.Schema), err)
		}
		nonNull, err := s.NonNullable()
		if err != nil {
			return nil, errors.NewInputError(fmt.Sprintf("failed to read schema '%s'", CLI.Schema), err)
		}
		ctx.debugf("schema %s fixes %d paths, %d not nullable", CLI.Schema, len(hints), len(nonNull))
		b.WithHints(hints).WithNonNullable(nonNull)
	}

	tree, err := b.Build(ir, CLI.RootName)
	if err != nil {
		return nil, err
	}
	ctx.debugf("built %s <%s> from %s input", tree.Name(), tree.Type(), ir.Format)
	return tree, nil
}

// parseInput reads a JSON or YAML document from path or stdin
func parseInput(ctx *Context, path string) (models.IntermediateRepresentation, error) {
	var (
		data   []byte
		isYAML bool
		err    error
	)

	if path != "" {
		data, err = parser.ReadFile(path)
		if err != nil {
			return models.IntermediateRepresentation{}, err
		}
		isYAML = parser.IsYAMLPath(path)
		ctx.debugf("read %d bytes from %s", len(data), path)
	} else {
		data, err = readStdin(ctx)
		if err != nil {
			return models.IntermediateRepresentation{}, err
		}
		isYAML = CLI.Format == models.FormatYAML
		ctx.debugf("read %d bytes from stdin", len(data))
	}

	if CLI.Path != "" {
		if isYAML {
			return models.IntermediateRepresentation{}, errors.NewInputError("--path applies to JSON input only", nil)
		}
		data, err = parser.Select(data, CLI.Path)
		if err != nil {
			return models.IntermediateRepresentation{}, err
		}
		ctx.debugf("selected %q", CLI.Path)
	}

	if isYAML {
		return parser.ParseYAML(data)
	}
	return parser.ParseBytes(data)
}

func readStdin(ctx *Context) ([]byte, error) {
	in := ctx.Stdin
	if in == nil {
		stdinInfo, err := os.Stdin.Stat()
		if err != nil {
			return nil, errors.NewInputError("failed to access stdin", err)
		}
		// Nothing piped in
		if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
			return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
		in = os.Stdin
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return data, nil
}

// newFormatter colors output only when it goes to a terminal, unless the
// color mode says otherwise.
func newFormatter(cfg *config.Config) *formatter.Formatter {
	out := os.Stdout
	if CLI.Output != "" {
		out = nil
	}
	return formatter.NewFormatter(formatter.ColorEnabled(cfg.Output.Color, out))
}

// writeOutput writes the result to file or stdout
func writeOutput(ctx *Context, out string) error {
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(out), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(ctx.stderr(), "Output written to %s\n", CLI.Output)
		return nil
	}

	stdout := ctx.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	if _, err := io.WriteString(stdout, out); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

func (ctx *Context) stderr() io.Writer {
	if ctx.Stderr != nil {
		return ctx.Stderr
	}
	return os.Stderr
}

func (ctx *Context) debugf(format string, args ...interface{}) {
	if !ctx.Debug {
		return
	}
	fmt.Fprintf(ctx.stderr(), "[debug] "+format+"\n", args...)
}
