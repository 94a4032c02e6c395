package executor

import (
	"errors"
	"testing"
)

func TestSystemExecutor_Execute(t *testing.T) {
	exec := NewSystemExecutor()

	t.Run("echo command", func(t *testing.T) {
		output, err := exec.Execute("echo", "hello")
		if err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
		if string(output) != "hello\n" {
			t.Errorf("expected 'hello\\n', got '%s'", string(output))
		}
	})

	t.Run("nonexistent command", func(t *testing.T) {
		if _, err := exec.Execute("nonexistent-command-xyz-12345"); err == nil {
			t.Error("expected error for nonexistent command")
		}
	})
}

func TestSystemExecutor_LookPath(t *testing.T) {
	exec := NewSystemExecutor()

	path, err := exec.LookPath("sh")
	if err != nil {
		t.Fatalf("LookPath failed: %v", err)
	}
	if path == "" {
		t.Error("expected non-empty path")
	}

	if _, err := exec.LookPath("nonexistent-command-xyz-12345"); err == nil {
		t.Error("expected error for nonexistent command")
	}
}

func TestFirstAvailable(t *testing.T) {
	mock := &MockExecutor{
		LookPathFunc: func(file string) (string, error) {
			if file == "apachectl" {
				return "/usr/sbin/apachectl", nil
			}
			return "", errors.New("not found")
		},
	}

	got, err := FirstAvailable(mock, "apache2ctl", "apachectl")
	if err != nil {
		t.Fatalf("FirstAvailable failed: %v", err)
	}
	if got != "apachectl" {
		t.Errorf("expected apachectl, got %s", got)
	}

	if _, err := FirstAvailable(mock, "httpd", "apache2"); err == nil {
		t.Error("expected error when no candidate exists")
	}
}

func TestMockExecutor(t *testing.T) {
	t.Run("default behavior", func(t *testing.T) {
		mock := &MockExecutor{}
		output, err := mock.Execute("apachectl", "configtest")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if string(output) != "" {
			t.Errorf("expected empty output, got '%s'", string(output))
		}
		if len(mock.Calls) != 1 || mock.Calls[0].Name != "apachectl" {
			t.Errorf("unexpected calls: %v", mock.Calls)
		}

		path, _ := mock.LookPath("apachectl")
		if path != "/usr/sbin/apachectl" {
			t.Errorf("expected /usr/sbin/apachectl, got %s", path)
		}
	})

	t.Run("custom function", func(t *testing.T) {
		mock := &MockExecutor{
			ExecuteFunc: func(name string, args ...string) ([]byte, error) {
				return []byte("Syntax error"), errors.New("exit status 1")
			},
		}
		output, err := mock.Execute("apachectl", "configtest")
		if err == nil {
			t.Error("expected error")
		}
		if string(output) != "Syntax error" {
			t.Errorf("expected 'Syntax error', got '%s'", string(output))
		}
	})

	t.Run("command lines", func(t *testing.T) {
		mock := &MockExecutor{}
		_, _ = mock.Execute("systemctl", "reload", "apache2")
		_, _ = mock.Execute("apachectl")

		lines := mock.CommandLines()
		if len(lines) != 2 || lines[0] != "systemctl reload apache2" || lines[1] != "apachectl" {
			t.Errorf("unexpected command lines: %q", lines)
		}
	})
}
