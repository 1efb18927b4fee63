//go:build !unix

package app

import (
	"fmt"
	"os"
)

// checkWritable reports an error unless a file can be created in dir.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".mapgw-probe-*")
	if err != nil {
		return fmt.Errorf("create in %s: %w", dir, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
