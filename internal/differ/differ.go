// Package differ compares two value trees line by line over their dumps, so
// a change of kind shows up even when the JSON text would be the same.
package differ

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/mcncl/valuetree/internal/encoder"
	"github.com/mcncl/valuetree/internal/object"
)

// Line prefixes in a diff listing.
const (
	PrefixEqual  = "  "
	PrefixInsert = "+ "
	PrefixDelete = "- "
)

// Differ compares value trees
type Differ struct {
	encoder *encoder.Encoder
}

// NewDiffer creates a Differ that dumps trees with enc.
func NewDiffer(enc *encoder.Encoder) *Differ {
	if enc == nil {
		enc = encoder.NewEncoder()
	}
	return &Differ{encoder: enc}
}

// Diff lists the dump lines of a and b, each prefixed by whether it is
// shared, only in b, or only in a. It reports whether the trees differ.
func (d *Differ) Diff(a, b *object.Field) (string, bool, error) {
	from, err := d.encoder.Dump(a)
	if err != nil {
		return "", false, err
	}
	to, err := d.encoder.Dump(b)
	if err != nil {
		return "", false, err
	}
	out, changed := Lines(from, to)
	return out, changed, nil
}

// Lines diffs two texts by whole lines.
func Lines(from, to string) (string, bool) {
	dmp := diffpatch.New()
	fromChars, toChars, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(fromChars, toChars, false), lines)

	var sb strings.Builder
	changed := false
	for _, diff := range diffs {
		prefix := PrefixEqual
		switch diff.Type {
		case diffpatch.DiffInsert:
			prefix = PrefixInsert
			changed = true
		case diffpatch.DiffDelete:
			prefix = PrefixDelete
			changed = true
		}
		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String(), changed
}
