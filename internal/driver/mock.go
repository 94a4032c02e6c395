package driver

import (
	"sort"

	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
)

// MockDriver is an in-memory test double for the Driver interface
type MockDriver struct {
	name  string
	paths Paths

	// Files and Enabled hold the simulated web server state
	Files   map[string]string
	Enabled map[string]bool
	Modules map[string]bool

	// Function mocks - set these to customize behavior
	WriteFunc         func(name, content string) error
	RemoveFunc        func(name string) error
	EnableFunc        func(name string) error
	EnsureDocrootFunc func(path, owner, group string) error
	ModuleLoadedFunc  func(module string) (bool, error)
	IsEnabledFunc     func(name string) (bool, error)
	TestFunc          func() error
	ReloadFunc        func() error

	// Call tracking - check these to verify interactions
	WriteCalls         []WriteCall
	RemoveCalls        []string
	EnableCalls        []string
	DisableCalls       []string
	EnsureDocrootCalls []string
	TestCalls          int
	ReloadCalls        int
}

// WriteCall records arguments passed to Write
type WriteCall struct {
	Name    string
	Content string
}

// NewMockDriver creates a MockDriver with empty state and wsgi_module loaded
func NewMockDriver(name, availableDir, enabledDir string) *MockDriver {
	return &MockDriver{
		name: name,
		paths: Paths{
			Available: availableDir,
			Enabled:   enabledDir,
		},
		Files:   make(map[string]string),
		Enabled: make(map[string]bool),
		Modules: map[string]bool{"wsgi_module": true},
	}
}

// Name returns the driver name
func (m *MockDriver) Name() string {
	return m.name
}

// Paths returns the configured paths
func (m *MockDriver) Paths() Paths {
	return m.paths
}

// Write records the call and stores the content
func (m *MockDriver) Write(name, content string) error {
	m.WriteCalls = append(m.WriteCalls, WriteCall{Name: name, Content: content})
	if m.WriteFunc != nil {
		if err := m.WriteFunc(name, content); err != nil {
			return err
		}
	}
	m.Files[name] = content
	return nil
}

// Read returns the stored content
func (m *MockDriver) Read(name string) (string, error) {
	content, ok := m.Files[name]
	if !ok {
		return "", kerrors.NotFound(name)
	}
	return content, nil
}

// Remove records the call and drops the stored file
func (m *MockDriver) Remove(name string) error {
	m.RemoveCalls = append(m.RemoveCalls, name)
	if m.RemoveFunc != nil {
		if err := m.RemoveFunc(name); err != nil {
			return err
		}
	}
	if _, ok := m.Files[name]; !ok {
		return kerrors.NotFound(name)
	}
	delete(m.Files, name)
	delete(m.Enabled, name)
	return nil
}

// Enable records the call and marks the vhost enabled
func (m *MockDriver) Enable(name string) error {
	m.EnableCalls = append(m.EnableCalls, name)
	if m.EnableFunc != nil {
		if err := m.EnableFunc(name); err != nil {
			return err
		}
	}
	if _, ok := m.Files[name]; !ok {
		return kerrors.NotFound(name)
	}
	m.Enabled[name] = true
	return nil
}

// Disable records the call and marks the vhost disabled
func (m *MockDriver) Disable(name string) error {
	m.DisableCalls = append(m.DisableCalls, name)
	delete(m.Enabled, name)
	return nil
}

// List returns the stored vhost names, sorted
func (m *MockDriver) List() ([]string, error) {
	names := make([]string, 0, len(m.Files))
	for name := range m.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// IsEnabled reports the simulated enabled state
func (m *MockDriver) IsEnabled(name string) (bool, error) {
	if m.IsEnabledFunc != nil {
		return m.IsEnabledFunc(name)
	}
	return m.Enabled[name], nil
}

// EnsureDocroot records the call and invokes the mock function if set
func (m *MockDriver) EnsureDocroot(path, owner, group string) error {
	m.EnsureDocrootCalls = append(m.EnsureDocrootCalls, path)
	if m.EnsureDocrootFunc != nil {
		return m.EnsureDocrootFunc(path, owner, group)
	}
	return nil
}

// ModuleLoaded consults Modules unless the mock function is set
func (m *MockDriver) ModuleLoaded(module string) (bool, error) {
	if m.ModuleLoadedFunc != nil {
		return m.ModuleLoadedFunc(module)
	}
	return m.Modules[module], nil
}

// Test records the call and invokes the mock function if set
func (m *MockDriver) Test() error {
	m.TestCalls++
	if m.TestFunc != nil {
		return m.TestFunc()
	}
	return nil
}

// Reload records the call and invokes the mock function if set
func (m *MockDriver) Reload() error {
	m.ReloadCalls++
	if m.ReloadFunc != nil {
		return m.ReloadFunc()
	}
	return nil
}

// Reset clears all call tracking, keeping the simulated state
func (m *MockDriver) Reset() {
	m.WriteCalls = nil
	m.RemoveCalls = nil
	m.EnableCalls = nil
	m.DisableCalls = nil
	m.EnsureDocrootCalls = nil
	m.TestCalls = 0
	m.ReloadCalls = 0
}
