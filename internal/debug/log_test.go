package debug

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLog resets the logger and redirects the standard logger for one test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	l = nopLogger{}
	once = sync.Once{}

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(prev)
		l = nopLogger{}
		once = sync.Once{}
	})
	return &buf
}

func TestLogger_Disabled(t *testing.T) {
	buf := captureLog(t)

	InitLogger(Options{})
	logger := GetLogger()
	logger.Debug("Should not appear")
	logger.Debugf("Should not appear: %s", "test")

	assert.Zero(t, buf.Len())
	assert.IsType(t, nopLogger{}, logger)
}

func TestLogger_Enabled(t *testing.T) {
	buf := captureLog(t)

	InitLogger(Options{Enabled: true})
	GetLogger().Debugf("map %s rendered in %dms", "world", 42)

	output := buf.String()
	assert.Contains(t, output, Prefix)
	assert.Contains(t, output, "map world rendered in 42ms")
	assert.IsType(t, &stdLogger{}, GetLogger())
}

func TestLogger_DebugFormatting(t *testing.T) {
	buf := captureLog(t)
	InitLogger(Options{Enabled: true})
	buf.Reset()

	GetLogger().Debug("Key:", "value", "number:", 42)
	assert.Contains(t, buf.String(), "[DEBUG]")
	assert.Contains(t, buf.String(), "Key:value")
}

func TestLogger_OnceInitialization(t *testing.T) {
	buf := captureLog(t)

	InitLogger(Options{Enabled: true})
	InitLogger(Options{Enabled: true})
	InitLogger(Options{})

	assert.Equal(t, 1, strings.Count(buf.String(), "Debug logging enabled"))
	assert.IsType(t, &stdLogger{}, GetLogger())
}

func TestLogger_File(t *testing.T) {
	buf := captureLog(t)
	path := filepath.Join(t.TempDir(), "debug.log")

	InitLogger(Options{Enabled: true, File: path})
	GetLogger().Debugf("probe %s -> %d", "http://localhost/cgi-bin/mapserv", 200)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), Prefix)
	assert.Contains(t, string(data), "probe http://localhost/cgi-bin/mapserv -> 200")
	assert.Zero(t, buf.Len(), "debug output stays out of the standard log")
}

func TestLogger_FileUnavailable(t *testing.T) {
	buf := captureLog(t)

	InitLogger(Options{Enabled: true, File: filepath.Join(t.TempDir(), "missing", "debug.log")})
	GetLogger().Debug("still logged")

	assert.Contains(t, buf.String(), "debug file")
	assert.Contains(t, buf.String(), "still logged")
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	captureLog(t)
	InitLogger(Options{Enabled: true})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			GetLogger().Debugf("Message %d", n)
		}(i)
	}
	wg.Wait()
}

func BenchmarkLogger_Disabled(b *testing.B) {
	l = nopLogger{}
	logger := GetLogger()
	for i := 0; i < b.N; i++ {
		logger.Debugf("Benchmark message %d", i)
	}
}
