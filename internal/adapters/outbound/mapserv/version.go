package mapserv

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/sufield/mapgw/internal/ports"
)

var versionPattern = regexp.MustCompile(`MapServer version (\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion extracts the version from `mapserv -v` output and encodes it
// as major*10000 + minor*100 + revision.
func ParseVersion(output string) (int, error) {
	match := versionPattern.FindStringSubmatch(output)
	if match == nil {
		return 0, fmt.Errorf("%w: no version in %q", ports.ErrEngineOutput, firstLine(output))
	}
	major, _ := strconv.Atoi(match[1])
	minor, _ := strconv.Atoi(match[2])
	revision := 0
	if match[3] != "" {
		revision, _ = strconv.Atoi(match[3])
	}
	return major*10000 + minor*100 + revision, nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
