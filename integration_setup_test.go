//go:build integration

package man2pdf

// Notes:
// - Integration test setup: requires a real man(1); tests skip when missing
// - Chrome tests additionally skip unless a browser can be launched
// - testTimeout bounds every conversion

import (
	"os/exec"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Configuration
// ---------------------------------------------------------------------------

// testTimeout is the standard timeout for integration test operations.
const testTimeout = 30 * time.Second

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// requireMan skips the test when man is not installed or has no page for ls.
func requireMan(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("man"); err != nil {
		t.Skip("man not installed")
	}
	if err := exec.Command("man", "-w", "ls").Run(); err != nil { // #nosec G204 -- fixed arguments
		t.Skip("no manual page for ls installed")
	}
}

// newIntegrationConverter creates a converter writing to a temp dir.
func newIntegrationConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	opts = append([]Option{WithOutputDir(t.TempDir()), WithTimeout(testTimeout)}, opts...)
	c, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}
