package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewrite_Diff(t *testing.T) {
	rw := &Rewrite{
		Path:   "config/is2/etc/hosts",
		Name:   "is1",
		Before: "127.0.0.1 localhost\n\n10.0.0.2 is2\n",
		After:  "127.0.0.1 localhost\n\n\n# ISUCON Servers\n10.0.0.1 is1\n10.0.0.2 is2\n",
	}

	lines := rw.Diff()

	var inserted, deleted, equal []string
	for _, l := range lines {
		switch l.Op {
		case DiffInsert:
			inserted = append(inserted, l.Text)
		case DiffDelete:
			deleted = append(deleted, l.Text)
		case DiffEqual:
			equal = append(equal, l.Text)
		}
	}

	assert.Contains(t, equal, "127.0.0.1 localhost")
	assert.Contains(t, inserted, "# ISUCON Servers")
	assert.Contains(t, inserted, "10.0.0.1 is1")
	assert.Empty(t, deleted)
	assert.Equal(t, 6, len(equal)+len(inserted))
}

func TestRewrite_Diff_Replacement(t *testing.T) {
	rw := &Rewrite{
		Before: "# ISUCON Servers\n10.0.0.1 is1\n",
		After:  "# ISUCON Servers\n10.0.0.9 is1\n",
	}

	assert.Equal(t, []DiffLine{
		{Op: DiffEqual, Text: "# ISUCON Servers"},
		{Op: DiffDelete, Text: "10.0.0.1 is1"},
		{Op: DiffInsert, Text: "10.0.0.9 is1"},
	}, rw.Diff())
}

func TestRewrite_Diff_EmptyBefore(t *testing.T) {
	rw := &Rewrite{After: "# ISUCON Servers\n10.0.0.1 is1\n"}

	assert.Equal(t, []DiffLine{
		{Op: DiffInsert, Text: "# ISUCON Servers"},
		{Op: DiffInsert, Text: "10.0.0.1 is1"},
	}, rw.Diff())
}

func TestRewrite_UnifiedDiff(t *testing.T) {
	rw := &Rewrite{
		Path:   "config/is2/etc/hosts",
		Name:   "is1",
		Before: "127.0.0.1 localhost\n",
		After:  "127.0.0.1 localhost\n\n# ISUCON Servers\n10.0.0.1 is1\n",
	}

	out, err := rw.UnifiedDiff()
	require.NoError(t, err)
	assert.Contains(t, out, "--- config/is2/etc/hosts")
	assert.Contains(t, out, "+++ config/is2/etc/hosts (is1)")
	assert.Contains(t, out, "+# ISUCON Servers")
	assert.Contains(t, out, "+10.0.0.1 is1")

	rw.After = rw.Before
	out, err = rw.UnifiedDiff()
	require.NoError(t, err)
	assert.Empty(t, out)
}
