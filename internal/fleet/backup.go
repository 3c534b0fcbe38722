package fleet

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/isuhosts/isuhosts/internal/hosts"
	"github.com/isuhosts/isuhosts/internal/logging"
)

const (
	backupPrefix = "hosts."
	backupSuffix = ".bak"
	// Sortable and unique within a millisecond.
	backupStamp = "20060102-150405.000"
)

// BackupInfo holds information about a backup file.
type BackupInfo struct {
	Name      string
	Timestamp int64
	Size      int64
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix)
}

// backupDir returns the backup directory of server i.
func (f *Fleet) backupDir(i int) string {
	return filepath.Join(f.opts.BackupDir, f.HostDir(i))
}

func (f *Fleet) createBackup(i int, content string) error {
	dir := f.backupDir(i)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := backupPrefix + f.now().Format(backupStamp) + backupSuffix
	backupPath := filepath.Join(dir, name)

	if err := os.WriteFile(backupPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	logging.Debug("backup created", "server", f.HostName(i), "path", backupPath)

	if err := f.cleanupBackups(dir); err != nil {
		logging.Warn("failed to cleanup backups", "dir", dir, "error", err)
	}

	return nil
}

func (f *Fleet) cleanupBackups(dir string) error {
	if f.opts.MaxBackups <= 0 {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var backups []os.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && isBackupName(entry.Name()) {
			backups = append(backups, entry)
		}
	}

	if len(backups) <= f.opts.MaxBackups {
		return nil
	}

	// Newest first; names embed the timestamp.
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Name() > backups[j].Name()
	})

	for _, b := range backups[f.opts.MaxBackups:] {
		if err := os.Remove(filepath.Join(dir, b.Name())); err != nil {
			return err
		}
	}

	return nil
}

// ListBackups returns the backups of server i, newest first.
func (f *Fleet) ListBackups(i int) ([]BackupInfo, error) {
	if err := f.checkIndex(i); err != nil {
		return nil, err
	}
	if f.opts.BackupDir == "" {
		return nil, fmt.Errorf("backups are disabled")
	}

	entries, err := os.ReadDir(f.backupDir(i))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !isBackupName(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Name:      entry.Name(),
			Timestamp: info.ModTime().Unix(),
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Name > backups[j].Name
	})

	return backups, nil
}

// Restore replaces server i's hosts file with the named backup. The current
// file is backed up first. A backup that no longer parses is refused.
func (f *Fleet) Restore(i int, name string) error {
	if err := f.checkIndex(i); err != nil {
		return err
	}
	if f.opts.BackupDir == "" {
		return fmt.Errorf("backups are disabled")
	}

	// Validate backup name to prevent path traversal
	if filepath.Base(name) != name || !isBackupName(name) {
		return fmt.Errorf("invalid backup name: %q", name)
	}

	content, err := os.ReadFile(filepath.Join(f.backupDir(i), name))
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if _, err := hosts.ParseBytes(content); err != nil {
		return fmt.Errorf("backup %s is not a valid hosts table: %w", name, err)
	}

	path := f.HostPath(i)
	current, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read hosts file: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read hosts file: %w", err)
	}

	if err := checkWritable(path); err != nil {
		return fmt.Errorf("hosts file not writable: %w", err)
	}

	if err := f.createBackup(i, string(current)); err != nil {
		return fmt.Errorf("failed to create backup before restore: %w", err)
	}

	if err := writeAtomic(path, string(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	logging.Info("hosts file restored", "server", f.HostName(i), "path", path, "backup", name)
	return nil
}
