package fleet

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffOp classifies a line of a rewrite diff.
type DiffOp int

const (
	DiffEqual DiffOp = iota
	DiffInsert
	DiffDelete
)

// DiffLine is one line of a rewrite diff.
type DiffLine struct {
	Op   DiffOp
	Text string
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Diff returns the line diff from Before to After. Replaced runs are
// reported as deletions followed by insertions.
func (r *Rewrite) Diff() []DiffLine {
	a, b := splitLines(r.Before), splitLines(r.After)

	var out []DiffLine
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'e':
			for _, l := range a[op.I1:op.I2] {
				out = append(out, DiffLine{Op: DiffEqual, Text: l})
			}
		case 'd', 'r', 'i':
			for _, l := range a[op.I1:op.I2] {
				out = append(out, DiffLine{Op: DiffDelete, Text: l})
			}
			for _, l := range b[op.J1:op.J2] {
				out = append(out, DiffLine{Op: DiffInsert, Text: l})
			}
		}
	}
	return out
}

// UnifiedDiff renders the rewrite as a unified diff with three lines of
// context. It is empty when nothing changes.
func (r *Rewrite) UnifiedDiff() (string, error) {
	if !r.Changed() {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(r.Before),
		B:        difflib.SplitLines(r.After),
		FromFile: r.Path,
		ToFile:   r.Path + " (" + r.Name + ")",
		Context:  3,
	})
}
