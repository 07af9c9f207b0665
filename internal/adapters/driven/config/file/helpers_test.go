package file

import (
	"bytes"
	"os"
	"testing"

	"github.com/custodia-labs/formflow/internal/logger"
)

// captureLog redirects logger output for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}
