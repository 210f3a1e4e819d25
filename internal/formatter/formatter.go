package formatter

import (
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mcncl/valuetree/internal/config"
	"github.com/mcncl/valuetree/internal/differ"
	"github.com/mcncl/valuetree/internal/kind"
)

// dumpLine splits a dump line into indent, name, kind and the rest. The tag
// must name a kind and be followed by a value, a count or nothing, so a name
// holding " <...>" stays whole.
var dumpLine = func() *regexp.Regexp {
	var names []string
	for _, k := range kind.Kinds() {
		names = append(names, regexp.QuoteMeta(k.String()))
	}
	kinds := "(?:" + strings.Join(names, "|") + ")"
	return regexp.MustCompile(`^(\s*)(.*?) <(` + kinds + `(?: of ` + kinds + `)?)>((?: = .*| \(\d+\))?)$`)
}()

// Formatter colors dump and diff listings for a terminal
type Formatter struct {
	enabled bool

	name    func(a ...interface{}) string
	tag     func(a ...interface{}) string
	null    func(a ...interface{}) string
	str     func(a ...interface{}) string
	num     func(a ...interface{}) string
	boolean func(a ...interface{}) string
	bytes   func(a ...interface{}) string
	count   func(a ...interface{}) string
	insert  func(a ...interface{}) string
	remove  func(a ...interface{}) string
}

// NewFormatter creates a Formatter. A disabled formatter returns its input
// unchanged.
func NewFormatter(enabled bool) *Formatter {
	sprint := func(c *color.Color) func(a ...interface{}) string {
		if enabled {
			c.EnableColor()
		}
		return c.SprintFunc()
	}
	return &Formatter{
		enabled: enabled,
		name:    sprint(color.New(color.FgHiWhite, color.Bold)),
		tag:     sprint(color.RGB(74, 92, 138)),
		null:    sprint(color.RGB(168, 0, 196)),
		str:     sprint(color.RGB(8, 196, 16)),
		num:     sprint(color.RGB(128, 216, 236)),
		boolean: sprint(color.New(color.FgCyan)),
		bytes:   sprint(color.New(color.FgYellow)),
		count:   sprint(color.New(color.Faint)),
		insert:  sprint(color.New(color.FgGreen)),
		remove:  sprint(color.New(color.FgRed)),
	}
}

// ColorEnabled resolves a color mode against the output file: always and
// never are fixed, auto colors only terminals.
func ColorEnabled(mode string, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if out == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
}

// Enabled reports whether output is colored.
func (f *Formatter) Enabled() bool {
	return f.enabled
}

// FormatDump colors each line of an encoder dump by the kind it shows.
func (f *Formatter) FormatDump(dump string) string {
	if !f.enabled {
		return dump
	}
	lines := strings.Split(dump, "\n")
	for i, line := range lines {
		lines[i] = f.formatLine(line)
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) formatLine(line string) string {
	m := dumpLine.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	indent, name, kindName, rest := m[1], m[2], m[3], m[4]

	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString(f.name(name))
	sb.WriteString(" ")
	sb.WriteString(f.tag("<" + kindName + ">"))

	value, hasValue := strings.CutPrefix(rest, " = ")
	switch {
	case !hasValue:
		if rest != "" {
			sb.WriteString(f.count(rest))
		}
	case value == "null":
		sb.WriteString(" = ")
		sb.WriteString(f.null(value))
	default:
		sb.WriteString(" = ")
		sb.WriteString(f.valueColor(kindName)(value))
	}
	return sb.String()
}

func (f *Formatter) valueColor(kindName string) func(a ...interface{}) string {
	switch kindName {
	case "String":
		return f.str
	case "Boolean":
		return f.boolean
	case "Bytes":
		return f.bytes
	default:
		return f.num
	}
}

// FormatDiff colors inserted and deleted lines of a differ listing.
func (f *Formatter) FormatDiff(diff string) string {
	if !f.enabled {
		return diff
	}
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, differ.PrefixInsert):
			lines[i] = f.insert(line)
		case strings.HasPrefix(line, differ.PrefixDelete):
			lines[i] = f.remove(line)
		}
	}
	return strings.Join(lines, "\n")
}
