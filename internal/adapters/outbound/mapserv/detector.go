package mapserv

import (
	"os/exec"

	"github.com/sufield/mapgw/internal/ports"
)

// BinaryDetector reports the local binding as present when its binary can
// be found.
type BinaryDetector struct {
	Binary string
}

// Available looks the binary up on PATH, or checks it directly when it
// contains a path separator.
func (d BinaryDetector) Available() bool {
	binary := d.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	_, err := exec.LookPath(binary)
	return err == nil
}

var _ ports.BindingDetector = BinaryDetector{}
