package cli

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/ksyq12/keystone-wsgi/internal/driver"
	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func init() {
	color.NoColor = true
}

// useDeps installs d for the duration of the test
func useDeps(t *testing.T, d *Dependencies) {
	t.Helper()
	old := deps
	deps = d
	t.Cleanup(func() { deps = old })
}

// captureOutput redirects command output into the returned buffer
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	output.SetOutput(&buf)
	t.Cleanup(func() { output.SetOutput(nil) })
	return &buf
}

// setFlags resets every local flag of cmd to its default, then sets the
// given ones; the package globals are restored after the test
func setFlags(t *testing.T, cmd *cobra.Command, values map[string]string) {
	t.Helper()
	reset := func() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		jsonOutput = false
		configPath = ""
	}
	reset()
	t.Cleanup(reset)

	for name, value := range values {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("failed to set --%s=%s: %v", name, value, err)
		}
	}
}

// newMockApache returns an in-memory driver with the Debian layout
func newMockApache() *driver.MockDriver {
	return driver.NewMockDriver("apache", "/etc/apache2/sites-available", "/etc/apache2/sites-enabled")
}
