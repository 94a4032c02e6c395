package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	// Disable color for tests
	color.NoColor = true
}

// capture redirects output for the duration of f
func capture(f func()) string {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(nil)
	f()
	return buf.String()
}

func TestJSON(t *testing.T) {
	t.Run("struct", func(t *testing.T) {
		type vhost struct {
			Name string `json:"name"`
			Port int    `json:"port"`
		}

		got := capture(func() {
			_ = JSON(vhost{Name: "keystone_wsgi", Port: 80})
		})

		var result vhost
		if err := json.Unmarshal([]byte(got), &result); err != nil {
			t.Fatalf("JSON output is invalid: %v", err)
		}
		if result.Name != "keystone_wsgi" || result.Port != 80 {
			t.Errorf("unexpected result %+v", result)
		}
		if !strings.Contains(got, "\n  \"name\"") {
			t.Errorf("expected indented output, got %s", got)
		}
	})

	t.Run("fragment newlines survive", func(t *testing.T) {
		fragment := "WSGIProcessGroup keystone\n\n<Location \"/keystone\">\n  SSLRequireSSL\n</Location>\n"
		got := capture(func() {
			_ = JSON(map[string]string{"fragment": fragment})
		})

		var result map[string]string
		if err := json.Unmarshal([]byte(got), &result); err != nil {
			t.Fatalf("JSON output is invalid: %v", err)
		}
		if result["fragment"] != fragment {
			t.Errorf("fragment changed in JSON round trip: %q", result["fragment"])
		}
	})

	t.Run("empty object", func(t *testing.T) {
		got := capture(func() {
			_ = JSON(map[string]interface{}{})
		})
		if !strings.Contains(got, "{}") {
			t.Errorf("expected empty object, got %s", got)
		}
	})
}

func TestTable(t *testing.T) {
	t.Run("basic table", func(t *testing.T) {
		got := capture(func() {
			Table([]string{"NAME", "PORT", "ENABLED"}, [][]string{
				{"keystone_wsgi", "80", "yes"},
				{"keystone_wsgi_ssl", "443", "yes"},
			})
		})

		lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), got)
		}
		if lines[0] != "NAME               PORT  ENABLED" {
			t.Errorf("unexpected header %q", lines[0])
		}
		if lines[1] != "-----------------  ----  -------" {
			t.Errorf("unexpected separator %q", lines[1])
		}
		if lines[2] != "keystone_wsgi      80    yes" {
			t.Errorf("unexpected row %q", lines[2])
		}
	})

	t.Run("empty headers", func(t *testing.T) {
		got := capture(func() {
			Table([]string{}, [][]string{{"data"}})
		})
		if got != "" {
			t.Errorf("expected no output for empty headers, got %s", got)
		}
	})

	t.Run("uneven columns", func(t *testing.T) {
		got := capture(func() {
			Table([]string{"COL1", "COL2", "COL3"}, [][]string{
				{"a", "b"},
				{"x", "y", "z", "w"},
			})
		})
		if strings.Contains(got, "w") {
			t.Error("extra columns should be ignored")
		}
		if !strings.Contains(got, "a     b") {
			t.Errorf("missing cells should pad: %s", got)
		}
	})
}

func TestBlock(t *testing.T) {
	got := capture(func() {
		Block("keystone_wsgi (port 80)", "WSGIProcessGroup keystone\n")
	})
	if got != "# keystone_wsgi (port 80)\nWSGIProcessGroup keystone\n" {
		t.Errorf("unexpected block %q", got)
	}

	got = capture(func() {
		Block("t", "no newline")
	})
	if got != "# t\nno newline\n" {
		t.Errorf("unexpected block %q", got)
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(string, ...interface{})
		prefix string
	}{
		{"success", Success, "✓ "},
		{"error", Error, "✗ "},
		{"warn", Warn, "! "},
		{"info", Info, "→ "},
		{"print", Print, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capture(func() {
				tt.fn("vhost %s on port %d", "keystone_wsgi", 80)
			})
			want := tt.prefix + "vhost keystone_wsgi on port 80\n"
			if got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})
	}
}
