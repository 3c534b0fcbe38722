//go:build unix

package fleet

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// checkWritable fails early when the file or its directory (needed for the
// temp file and rename) cannot be written by this process.
func checkWritable(path string) error {
	if err := unix.Access(path, unix.W_OK); err != nil {
		return fmt.Errorf("access %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("access %s: %w", dir, err)
	}
	return nil
}
