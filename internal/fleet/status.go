package fleet

import (
	"fmt"
	"net/netip"

	"github.com/isuhosts/isuhosts/internal/hosts"
)

// State describes how applying a rewrite affects one alias.
type State string

const (
	StateUnchanged State = "unchanged"
	StateUpdated   State = "updated"
	StateAdded     State = "added"
)

// AliasStatus compares one managed alias before and after a rewrite.
type AliasStatus struct {
	Alias string
	// Current is the invalid Addr when the alias is absent from the file.
	Current netip.Addr
	Planned netip.Addr
	State   State
}

// Status lists every alias of the planned managed region in file order,
// each with the address the current file gives it.
func (r *Rewrite) Status() ([]AliasStatus, error) {
	if r.Table == nil {
		return nil, fmt.Errorf("no planned table for %s", r.Name)
	}

	current, err := hosts.ParseString(r.Before)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.Path, err)
	}

	var out []AliasStatus
	for _, e := range r.Table.Managed() {
		for _, alias := range e.Aliases {
			st := AliasStatus{Alias: alias, Planned: e.Addr, State: StateAdded}
			if addr, ok := current.Lookup(alias); ok {
				st.Current = addr
				st.State = StateUpdated
				if addr == e.Addr {
					st.State = StateUnchanged
				}
			}
			out = append(out, st)
		}
	}
	return out, nil
}
