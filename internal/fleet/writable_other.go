//go:build !unix

package fleet

// checkWritable is a no-op where access(2) is unavailable; the write itself
// reports the error.
func checkWritable(string) error {
	return nil
}
