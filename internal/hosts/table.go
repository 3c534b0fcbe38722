package hosts

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Table is the ordered sequence of lines of a hosts file.
type Table struct {
	lines []Line
}

// Parse reads a whole hosts file. The first malformed line aborts the parse.
// Trailing blank lines are dropped.
func Parse(r io.Reader) (*Table, error) {
	t := &Table{}

	br := bufio.NewReader(r)

	n := 0
	for {
		s, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("failed to read hosts table: %w", readErr)
		}
		if s == "" {
			break
		}

		n++
		s = strings.TrimSuffix(s, "\n")
		s = strings.TrimSuffix(s, "\r")

		line, err := ParseLine(s)
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Line = n
			}
			return nil, err
		}
		t.lines = append(t.lines, line)

		if readErr == io.EOF {
			break
		}
	}

	for len(t.lines) > 0 && t.lines[len(t.lines)-1].IsEmpty() {
		t.lines = t.lines[:len(t.lines)-1]
	}

	return t, nil
}

// ParseString parses a hosts file held in memory.
func ParseString(s string) (*Table, error) {
	return Parse(strings.NewReader(s))
}

// ParseBytes parses a hosts file held in memory.
func ParseBytes(b []byte) (*Table, error) {
	return Parse(bytes.NewReader(b))
}

// String serializes the table. Every line, the last included, ends with a
// newline.
func (t *Table) String() string {
	var sb strings.Builder
	for _, l := range t.lines {
		l.writeTo(&sb)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteTo writes the serialized table to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.String())
	return int64(n), err
}

// Len returns the number of lines.
func (t *Table) Len() int {
	return len(t.lines)
}

// Lines returns a deep copy of the lines in file order.
func (t *Table) Lines() []Line {
	out := make([]Line, len(t.lines))
	for i, l := range t.lines {
		if l.Entry != nil {
			l.Entry = &Entry{
				Addr:    l.Entry.Addr,
				Aliases: slices.Clone(l.Entry.Aliases),
			}
		}
		out[i] = l
	}
	return out
}
