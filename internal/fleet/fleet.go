// Package fleet rewrites the hosts file of every server in a fleet so that
// each server resolves each peer by a generated hostname.
package fleet

import (
	"fmt"
	"io"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/isuhosts/isuhosts/internal/config"
	"github.com/isuhosts/isuhosts/internal/hosts"
	"github.com/isuhosts/isuhosts/internal/logging"
)

// hostsRel is the hosts file location inside a server directory.
const hostsRel = "etc/hosts"

var (
	loopback4 = netip.AddrFrom4([4]byte{127, 0, 0, 1})
	loopback6 = netip.IPv6Loopback()
)

// Options describes one fleet run.
type Options struct {
	Peers    []netip.Addr
	BasePath string
	Prefix   string
	// IndexOffset maps server i to directory <Prefix><i+IndexOffset>.
	IndexOffset int
	// LoopbackSelf maps a server's own alias to the loopback address.
	LoopbackSelf bool
	// BackupDir disables backups when empty.
	BackupDir string
	// MaxBackups per server; zero or less keeps every backup.
	MaxBackups int
}

// OptionsFromConfig converts a validated configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	addrs, err := cfg.Addrs()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Peers:        addrs,
		BasePath:     cfg.BasePath,
		Prefix:       cfg.HostnamePrefix,
		IndexOffset:  cfg.IndexOffset,
		LoopbackSelf: cfg.LoopbackSelf,
		BackupDir:    cfg.Backup.Dir,
		MaxBackups:   cfg.Backup.Max,
	}, nil
}

// Fleet plans and applies hosts rewrites.
type Fleet struct {
	opts Options
	now  func() time.Time
}

// New creates a fleet for opts.
func New(opts Options) *Fleet {
	return &Fleet{
		opts: opts,
		now:  time.Now,
	}
}

// Len returns the number of servers.
func (f *Fleet) Len() int {
	return len(f.opts.Peers)
}

// HostName returns the alias of server i (1-based).
func (f *Fleet) HostName(i int) string {
	return f.opts.Prefix + strconv.Itoa(i)
}

// HostDir returns the directory name of server i (1-based).
func (f *Fleet) HostDir(i int) string {
	return f.opts.Prefix + strconv.Itoa(i+f.opts.IndexOffset)
}

// HostPath returns the hosts file path of server i (1-based).
func (f *Fleet) HostPath(i int) string {
	return filepath.Join(f.opts.BasePath, f.HostDir(i), hostsRel)
}

func (f *Fleet) checkIndex(i int) error {
	if i < 1 || i > f.Len() {
		return fmt.Errorf("server index %d out of range [1, %d]", i, f.Len())
	}
	return nil
}

// peerAddr returns the address server target should use for peer.
func (f *Fleet) peerAddr(target, peer int) netip.Addr {
	addr := f.opts.Peers[peer-1]
	if !f.opts.LoopbackSelf || target != peer {
		return addr
	}
	if addr.Is6() && !addr.Is4In6() {
		return loopback6
	}
	return loopback4
}

// Rewrite is the planned new content of one server's hosts file.
type Rewrite struct {
	Index  int
	Name   string
	Path   string
	Before string
	After  string
	Mode   fs.FileMode
	// Table is the planned table; After is its serialized form.
	Table *hosts.Table
}

// Changed reports whether applying the rewrite would modify the file.
func (r *Rewrite) Changed() bool {
	return r.Before != r.After
}

// Plan loads server i's hosts file and maps every peer alias into it.
func (f *Fleet) Plan(i int) (*Rewrite, error) {
	if err := f.checkIndex(i); err != nil {
		return nil, err
	}

	path := f.HostPath(i)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hosts file: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hosts file: %w", err)
	}

	table, err := hosts.ParseBytes(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for j := 1; j <= f.Len(); j++ {
		table.AddEntry(f.peerAddr(i, j), f.HostName(j))
	}

	logging.Debug("planned hosts rewrite", "server", f.HostName(i), "path", path, "lines", table.Len())

	return &Rewrite{
		Index:  i,
		Name:   f.HostName(i),
		Path:   path,
		Before: string(content),
		After:  table.String(),
		Mode:   info.Mode().Perm(),
		Table:  table,
	}, nil
}

// PlanAll plans every server in order, stopping at the first failure.
func (f *Fleet) PlanAll() ([]*Rewrite, error) {
	rewrites := make([]*Rewrite, 0, f.Len())
	for i := 1; i <= f.Len(); i++ {
		rw, err := f.Plan(i)
		if err != nil {
			return nil, err
		}
		rewrites = append(rewrites, rw)
	}
	return rewrites, nil
}

// Apply writes a planned rewrite, backing up the previous content first.
// It reports whether the file was written.
func (f *Fleet) Apply(rw *Rewrite) (bool, error) {
	if !rw.Changed() {
		logging.Debug("hosts file unchanged", "server", rw.Name, "path", rw.Path)
		return false, nil
	}

	if err := checkWritable(rw.Path); err != nil {
		return false, fmt.Errorf("hosts file not writable: %w", err)
	}

	if f.opts.BackupDir != "" {
		if err := f.createBackup(rw.Index, rw.Before); err != nil {
			return false, fmt.Errorf("failed to create backup: %w", err)
		}
	}

	if err := writeAtomic(rw.Path, rw.After, rw.Mode); err != nil {
		return false, fmt.Errorf("failed to write hosts file: %w", err)
	}

	logging.Info("hosts file rewritten", "server", rw.Name, "path", rw.Path)
	return true, nil
}

// ApplyAll applies rewrites in order, stopping at the first failure. It
// returns the number of files written.
func (f *Fleet) ApplyAll(rewrites []*Rewrite) (int, error) {
	written := 0
	for _, rw := range rewrites {
		ok, err := f.Apply(rw)
		if err != nil {
			return written, err
		}
		if ok {
			written++
		}
	}
	return written, nil
}

// Print writes the planned table of every rewrite to w, back to back.
func Print(w io.Writer, rewrites []*Rewrite) error {
	for _, rw := range rewrites {
		if rw.Table == nil {
			return fmt.Errorf("no planned table for %s", rw.Name)
		}
		if _, err := rw.Table.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

func writeAtomic(path, content string, mode fs.FileMode) error {
	if mode == 0 {
		mode = 0644
	}

	// Write to temp file first
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, []byte(content), mode); err != nil {
		return err
	}
	// WriteFile is subject to the umask.
	if err := os.Chmod(tmpFile, mode); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return nil
}
