package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/valuetree/internal/config"
	"github.com/mcncl/valuetree/internal/errors"
)

// resetCLI restores CLI after the test and sets the defaults kong would.
func resetCLI(t *testing.T) {
	t.Helper()
	original := CLI
	t.Cleanup(func() { CLI = original })

	CLI.Input = ""
	CLI.Output = ""
	CLI.Format = "json"
	CLI.Path = ""
	CLI.Schema = ""
	CLI.RootName = "root"
	CLI.Color = config.ColorNever
	CLI.Encode.Indent = -1
	CLI.Diff.Other = ""
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newContext(command string) (*Context, *bytes.Buffer) {
	cfg := config.NewConfig()
	cfg.Output.Color = config.ColorNever
	var stdout bytes.Buffer
	return &Context{Config: cfg, Command: command, Stdout: &stdout, Stderr: &bytes.Buffer{}}, &stdout
}

func TestRun_Inspect(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeFile(t, "sensor.json", `{"name": "sensor1", "value": 23.5, "tags": ["a"]}`)
	CLI.RootName = "sensor"

	ctx, stdout := newContext("inspect")
	require.NoError(t, run(ctx))

	assert.Equal(t, `sensor <ObjectElement>
  name <String> = "sensor1"
  value <Double> = 23.5
  tags <ObjectArray of String> (1)
    [0] <String> = "a"
`, stdout.String())
}

func TestRun_Encode(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeFile(t, "doc.yaml", "name: sensor1\nraw: !!binary aGk=\ncount: 0x10\n")
	CLI.Encode.Indent = 0

	ctx, stdout := newContext("encode")
	require.NoError(t, run(ctx))
	assert.Equal(t, `{"name":"sensor1","raw":"base64:aGk=","count":16}`+"\n", stdout.String())
}

func TestRun_EncodeIndentFromConfig(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeFile(t, "doc.json", `{"a": 1}`)

	ctx, stdout := newContext("encode")
	ctx.Config.Output.Indent = 4
	require.NoError(t, run(ctx))
	assert.Equal(t, "{\n    \"a\": 1\n}\n", stdout.String())
}

func TestRun_Diff(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeFile(t, "a.json", `{"id": 1, "name": "x"}`)
	CLI.Diff.Other = writeFile(t, "b.json", `{"id": 5000000000, "name": "x"}`)

	ctx, stdout := newContext("diff")
	require.NoError(t, run(ctx))
	assert.True(t, ctx.Changed)
	assert.Equal(t, `  root <ObjectElement>
-   id <Integer> = 1
+   id <Long> = 5000000000
    name <String> = "x"
`, stdout.String())
}

func TestRun_DiffSame(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeFile(t, "a.json", `{"id": 1}`)
	CLI.Diff.Other = writeFile(t, "b.yml", "id: 1\n")

	ctx, _ := newContext("diff")
	require.NoError(t, run(ctx))
	assert.False(t, ctx.Changed)
}

func TestRun_WithPath(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeFile(t, "doc.json", `{"devices": [{"id": 1}, {"id": 2}]}`)
	CLI.Path = "devices.1"
	CLI.Encode.Indent = 0

	ctx, stdout := newContext("encode")
	require.NoError(t, run(ctx))
	assert.Equal(t, `{"id":2}`+"\n", stdout.String())
}

func TestRun_WithSchema(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeFile(t, "doc.json", `{"id": 1, "level": 3}`)
	CLI.Schema = writeFile(t, "schema.json", `{"properties": {
		"id": {"type": "integer", "format": "int64"},
		"level": {"type": "integer", "format": "int8"}
	}}`)

	ctx, stdout := newContext("inspect")
	require.NoError(t, run(ctx))
	assert.Contains(t, stdout.String(), "id <Long> = 1")
	assert.Contains(t, stdout.String(), "level <Byte> = 3")
}

func TestRun_SchemaRejectsRequiredNull(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"required null", `{"id": null}`, true},
		{"nullable null", `{"id": 1, "note": null}`, false},
		{"null property schema", `{"id": 1, "other": 2}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetCLI(t)
			CLI.Input = writeFile(t, "doc.json", tt.doc)
			CLI.Schema = writeFile(t, "schema.json", `{
				"type": "object",
				"required": ["id", "note"],
				"properties": {
					"id": {"type": "integer"},
					"note": {"type": "string", "nullable": true},
					"other": null
				}
			}`)

			ctx, _ := newContext("inspect")
			err := run(ctx)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrNullValue)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRun_WithOutputFile(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeFile(t, "doc.json", `{"id": 1}`)
	CLI.Output = filepath.Join(t.TempDir(), "out.json")
	CLI.Encode.Indent = 0

	ctx, stdout := newContext("encode")
	require.NoError(t, run(ctx))
	assert.Empty(t, stdout.String())

	content, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`+"\n", string(content))
}

func TestRun_Debug(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeFile(t, "doc.json", `{"id": 1}`)

	ctx, _ := newContext("inspect")
	ctx.Debug = true
	var stderr bytes.Buffer
	ctx.Stderr = &stderr
	require.NoError(t, run(ctx))
	assert.Contains(t, stderr.String(), "[debug] built root <ObjectElement> from json input")
}

func TestParseInput_FromStdin(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
	}{
		{"json", "json", `{"name": "Alice", "id": 42}`},
		{"yaml", "yaml", "name: Alice\nid: 42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetCLI(t)
			CLI.Format = tt.format

			ctx, _ := newContext("inspect")
			ctx.Stdin = strings.NewReader(tt.input)
			ir, err := parseInput(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, tt.format, ir.Format)
			require.NotNil(t, ir.Root)
			assert.Len(t, ir.Root.Members, 2)
		})
	}
}

func TestParseInput_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, ctx *Context)
		wantErr error
	}{
		{
			name:    "empty stdin",
			setup:   func(t *testing.T, ctx *Context) { ctx.Stdin = strings.NewReader("  \n") },
			wantErr: errors.ErrEmptyInput,
		},
		{
			name:    "invalid JSON",
			setup:   func(t *testing.T, ctx *Context) { ctx.Stdin = strings.NewReader(`{"a": }`) },
			wantErr: errors.ErrInvalidJSON,
		},
		{
			name: "path not found",
			setup: func(t *testing.T, ctx *Context) {
				ctx.Stdin = strings.NewReader(`{"a": 1}`)
				CLI.Path = "b"
			},
			wantErr: errors.ErrPathNotFound,
		},
		{
			name: "path on YAML",
			setup: func(t *testing.T, ctx *Context) {
				ctx.Stdin = strings.NewReader("a: 1\n")
				CLI.Format = "yaml"
				CLI.Path = "a"
			},
			wantErr: &errors.AppError{Type: errors.ErrorTypeInput},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetCLI(t)
			ctx, _ := newContext("inspect")
			tt.setup(t, ctx)

			_, err := parseInput(ctx, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseInput_NonExistentFile(t *testing.T) {
	resetCLI(t)
	ctx, _ := newContext("inspect")

	_, err := parseInput(ctx, "/non/existent/file.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
}

func TestRun_BuildError(t *testing.T) {
	resetCLI(t)
	CLI.Input = writeFile(t, "doc.json", `{"readings": [1, null]}`)

	ctx, _ := newContext("inspect")
	err := run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNullValue)
	assert.Contains(t, errors.UserFriendlyError(err), "Build error: at readings[1]")
}

func TestWriteOutput_FileError(t *testing.T) {
	resetCLI(t)
	CLI.Output = "/non/existent/dir/output.txt"

	ctx, _ := newContext("inspect")
	err := writeOutput(ctx, "x")
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeOutput, appErr.Type)
}

func TestLoadConfig(t *testing.T) {
	resetCLI(t)
	CLI.Config = writeFile(t, ".valuetree.yml", "numbers:\n  integer_kind: long\noutput:\n  indent: 3\n")
	CLI.Color = config.ColorAlways
	CLI.Debug = true

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.IntegerLong, cfg.Numbers.IntegerKind)
	assert.Equal(t, 3, cfg.Output.Indent)
	assert.Equal(t, config.ColorAlways, cfg.Output.Color)
	assert.True(t, cfg.Dev.Debug)

	CLI.Config = writeFile(t, "bad.yml", "output:\n  color: sometimes\n")
	_, err = loadConfig()
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeConfig, appErr.Type)
}
