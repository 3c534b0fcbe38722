package hosts

import (
	"net/netip"
	"slices"
)

// Sentinel is the comment text that marks the managed region.
const Sentinel = "ISUCON Servers"

// AddEntry maps alias to addr inside the managed region.
//
// The first line elsewhere in the table carrying alias loses it (and is
// removed if no aliases remain). A new line is then inserted at the end of
// the contiguous block following the sentinel comment, creating the
// sentinel at the end of the table when missing. Only the first occurrence
// of alias is removed; later duplicates are left untouched.
func (t *Table) AddEntry(addr netip.Addr, alias string) {
	t.removeAlias(alias)

	i := t.region()
	for i < len(t.lines) && !t.lines[i].IsEmpty() {
		i++
	}

	t.lines = slices.Insert(t.lines, i, Line{
		Entry: &Entry{Addr: addr, Aliases: []string{alias}},
	})
}

// removeAlias drops alias from the first data line that has it.
func (t *Table) removeAlias(alias string) bool {
	for i, l := range t.lines {
		if l.Entry == nil {
			continue
		}
		j := slices.Index(l.Entry.Aliases, alias)
		if j < 0 {
			continue
		}
		l.Entry.Aliases = slices.Delete(l.Entry.Aliases, j, j+1)
		if len(l.Entry.Aliases) == 0 {
			t.lines = slices.Delete(t.lines, i, i+1)
		}
		return true
	}
	return false
}

// region returns the index of the sentinel line, appending one if needed.
func (t *Table) region() int {
	if i := t.sentinel(); i >= 0 {
		return i
	}
	if n := len(t.lines); n > 0 && !t.lines[n-1].IsEmpty() {
		t.lines = append(t.lines, Line{})
	}
	t.lines = append(t.lines, commentLine(Sentinel))
	return len(t.lines) - 1
}

func (t *Table) sentinel() int {
	return slices.IndexFunc(t.lines, func(l Line) bool {
		return l.HasComment && l.Comment == Sentinel
	})
}

// Lookup returns the address of the first line carrying alias.
func (t *Table) Lookup(alias string) (netip.Addr, bool) {
	for _, l := range t.lines {
		if l.Entry != nil && slices.Contains(l.Entry.Aliases, alias) {
			return l.Entry.Addr, true
		}
	}
	return netip.Addr{}, false
}

// Managed returns the entries of the managed region in order. It returns nil
// when the table has no sentinel.
func (t *Table) Managed() []Entry {
	i := t.sentinel()
	if i < 0 {
		return nil
	}

	var entries []Entry
	for _, l := range t.lines[i:] {
		if l.IsEmpty() {
			break
		}
		if l.Entry != nil {
			entries = append(entries, Entry{
				Addr:    l.Entry.Addr,
				Aliases: slices.Clone(l.Entry.Aliases),
			})
		}
	}
	return entries
}
