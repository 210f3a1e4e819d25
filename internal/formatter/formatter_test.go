package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/valuetree/internal/config"
)

const dump = `root <ObjectElement>
  name <String> = "sensor1"
  value <Double> = 23.5
  active <Boolean> = true
  missing <Long> = null
  tags <ObjectArray of String> (1)
    [0] <String> = "a"
`

func TestFormatDump_Disabled(t *testing.T) {
	formatter := NewFormatter(false)
	assert.False(t, formatter.Enabled())
	assert.Equal(t, dump, formatter.FormatDump(dump))
}

func TestFormatDump_Enabled(t *testing.T) {
	formatter := NewFormatter(true)
	formatted := formatter.FormatDump(dump)

	assert.NotEqual(t, dump, formatted)
	assert.Contains(t, formatted, "\x1b[")
	assert.Equal(t, strings.Count(dump, "\n"), strings.Count(formatted, "\n"))

	// Coloring only adds escape sequences.
	assert.Equal(t, dump, stripANSI(formatted))
}

func TestFormatDump_UnknownLines(t *testing.T) {
	formatter := NewFormatter(true)
	assert.Equal(t, "plain text", formatter.FormatDump("plain text"))
}

func TestFormatDump_NamesWithAngleBrackets(t *testing.T) {
	formatter := NewFormatter(true)

	tests := []struct {
		name  string
		line  string
		field string
		tag   string
	}{
		{"plain", `  a <String> = "v"`, "a", "<String>"},
		{"name with a tag of its own", `  a <x> <String> = "v"`, "a <x>", "<String>"},
		{"name holding a kind tag", `key <Long> <ObjectElement>`, "key <Long>", "<ObjectElement>"},
		{"array name", `  list <y> <ObjectArray of Integer> (2)`, "list <y>", "<ObjectArray of Integer>"},
		{"value holding a tag", `  n <String> = "<Long> x"`, "n", "<String>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatted := formatter.FormatDump(tt.line)
			assert.Equal(t, tt.line, stripANSI(formatted))
			assert.Contains(t, formatted, formatter.name(tt.field)+" "+formatter.tag(tt.tag))
		})
	}

	// Tags that name no kind are not dump lines.
	assert.Equal(t, "a <x>", formatter.FormatDump("a <x>"))
}

func TestFormatDiff(t *testing.T) {
	diff := "  root <ObjectElement>\n-   value <Integer> = 1\n+   value <Long> = 1\n"

	assert.Equal(t, diff, NewFormatter(false).FormatDiff(diff))

	formatted := NewFormatter(true).FormatDiff(diff)
	lines := strings.Split(formatted, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "  root <ObjectElement>", lines[0])
	assert.Contains(t, lines[1], "\x1b[")
	assert.Contains(t, lines[2], "\x1b[")
	assert.Equal(t, diff, stripANSI(formatted))
}

func TestColorEnabled(t *testing.T) {
	file, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer file.Close()

	tests := []struct {
		name string
		mode string
		out  *os.File
		want bool
	}{
		{"always", config.ColorAlways, file, true},
		{"never", config.ColorNever, file, false},
		{"auto on a regular file", config.ColorAuto, file, false},
		{"auto without output", config.ColorAuto, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorEnabled(tt.mode, tt.out))
		})
	}
}

func stripANSI(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
