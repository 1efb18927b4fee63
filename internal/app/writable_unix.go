//go:build unix

package app

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// checkWritable reports an error unless the current process may create
// entries in dir.
func checkWritable(dir string) error {
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("access %s: %w", dir, err)
	}
	return nil
}
