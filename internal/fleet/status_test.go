package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewrite_Status(t *testing.T) {
	base := t.TempDir()
	writeTree(t, base, "127.0.0.1 localhost\n\n# ISUCON Servers\n10.0.0.1 is1\n10.0.0.9 is2\n", "is1")

	f := New(Options{Peers: addrs("10.0.0.1", "10.0.0.2", "10.0.0.3"), BasePath: base, Prefix: "is", IndexOffset: 0})

	rw, err := f.Plan(1)
	require.NoError(t, err)

	status, err := rw.Status()
	require.NoError(t, err)
	require.Len(t, status, 3)

	assert.Equal(t, "is1", status[0].Alias)
	assert.Equal(t, StateUnchanged, status[0].State)
	assert.Equal(t, "10.0.0.1", status[0].Current.String())

	assert.Equal(t, "is2", status[1].Alias)
	assert.Equal(t, StateUpdated, status[1].State)
	assert.Equal(t, "10.0.0.9", status[1].Current.String())
	assert.Equal(t, "10.0.0.2", status[1].Planned.String())

	assert.Equal(t, "is3", status[2].Alias)
	assert.Equal(t, StateAdded, status[2].State)
	assert.False(t, status[2].Current.IsValid())
}

func TestRewrite_Status_NoTable(t *testing.T) {
	_, err := (&Rewrite{Name: "is1"}).Status()
	assert.Error(t, err)
}
