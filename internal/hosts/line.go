// Package hosts parses, edits and serializes hosts(5) tables.
//
// A Table keeps every physical line of the file so that comments, blank
// lines and unrelated entries survive a load-edit-save cycle. Data lines are
// re-serialized with single spaces between tokens.
package hosts

import (
	"fmt"
	"net/netip"
	"strings"
	"unicode"
)

// Entry associates an address with one or more aliases.
type Entry struct {
	Addr    netip.Addr
	Aliases []string
}

// Line is one physical line of a hosts table.
type Line struct {
	// Entry is nil when the line carries no address.
	Entry *Entry
	// Comment is the text after the first '#', left-trimmed.
	Comment    string
	HasComment bool
}

// FormatError reports a line whose data segment is not an address followed
// by at least one alias.
type FormatError struct {
	Line   int // 1-based; 0 when parsing a single line
	Text   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("%s: %q", e.Reason, e.Text)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ParseLine parses a single line without its newline terminator.
func ParseLine(s string) (Line, error) {
	var l Line

	data := s
	if i := strings.IndexByte(s, '#'); i >= 0 {
		data = s[:i]
		l.Comment = strings.TrimLeftFunc(s[i+1:], unicode.IsSpace)
		l.HasComment = true
	}

	if strings.TrimSpace(data) == "" {
		return l, nil
	}

	entry, err := parseEntry(data)
	if err != nil {
		return Line{}, err
	}
	l.Entry = entry
	return l, nil
}

func parseEntry(s string) (*Entry, error) {
	s = strings.TrimSpace(s)

	sep := strings.IndexFunc(s, unicode.IsSpace)
	if sep < 0 {
		return nil, &FormatError{Text: s, Reason: "no alias after address"}
	}

	addr, err := ParseAddr(s[:sep])
	if err != nil {
		return nil, &FormatError{Text: s, Reason: "invalid address", Err: err}
	}

	// s is trimmed and sep points at whitespace, so at least one alias follows.
	return &Entry{
		Addr:    addr,
		Aliases: strings.Fields(s[sep:]),
	}, nil
}

// ParseAddr parses a textual IPv4 or IPv6 literal. Zoned IPv6 addresses are
// rejected.
func ParseAddr(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	if addr.Zone() != "" {
		return netip.Addr{}, fmt.Errorf("zoned address %q is not allowed", s)
	}
	return addr, nil
}

// IsEmpty reports whether the line is blank.
func (l Line) IsEmpty() bool {
	return l.Entry == nil && !l.HasComment
}

// String serializes the line without a newline terminator.
func (l Line) String() string {
	var sb strings.Builder
	l.writeTo(&sb)
	return sb.String()
}

func (l Line) writeTo(sb *strings.Builder) {
	if l.Entry != nil {
		sb.WriteString(l.Entry.Addr.String())
		for _, alias := range l.Entry.Aliases {
			sb.WriteByte(' ')
			sb.WriteString(alias)
		}
	}
	if l.HasComment {
		if l.Entry != nil {
			sb.WriteString("  ")
		}
		sb.WriteString("# ")
		sb.WriteString(l.Comment)
	}
}

func commentLine(text string) Line {
	return Line{Comment: text, HasComment: true}
}
