package cli

import (
	"github.com/ksyq12/keystone-wsgi/internal/config"
	"github.com/ksyq12/keystone-wsgi/internal/driver"
	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
	"github.com/ksyq12/keystone-wsgi/internal/executor"
	"github.com/ksyq12/keystone-wsgi/internal/input"
	"github.com/ksyq12/keystone-wsgi/internal/platform"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg       *config.Config
	LoadErr   error
	SaveErr   error
	SaveCalls int
	SavePaths []string
	LoadPaths []string
}

func (m *MockConfigLoader) Load(path string) (*config.Config, error) {
	m.LoadPaths = append(m.LoadPaths, path)
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
	}
	return m.Cfg, nil
}

func (m *MockConfigLoader) Save(cfg *config.Config, path string) error {
	m.SaveCalls++
	m.SavePaths = append(m.SavePaths, path)
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Cfg = cfg
	return nil
}

// MockFactsDetector is a test double for FactsDetector
type MockFactsDetector struct {
	Facts *platform.Facts
	Err   error
	Calls int
}

func (m *MockFactsDetector) Detect() (*platform.Facts, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Facts != nil {
		return m.Facts, nil
	}
	return DebianFacts(), nil
}

// DebianFacts returns the facts of a 42-processor Debian host
func DebianFacts() *platform.Facts {
	return &platform.Facts{
		FQDN:           "some.host.tld",
		ProcessorCount: 42,
		OSFamily:       platform.FamilyDebian,
		OSRelease:      "12",
	}
}

// RedHatFacts returns the facts of a 42-processor RedHat 6 host
func RedHatFacts() *platform.Facts {
	return &platform.Facts{
		FQDN:           "some.host.tld",
		ProcessorCount: 42,
		OSFamily:       platform.FamilyRedHat,
		OSRelease:      "6",
	}
}

// MockDriverFactory is a test double for DriverFactory
type MockDriverFactory struct {
	Driver     driver.Driver
	Err        error
	Families   []platform.Family
	PathsCalls []driver.Paths
}

func (m *MockDriverFactory) Create(family platform.Family, paths driver.Paths) (driver.Driver, error) {
	m.Families = append(m.Families, family)
	m.PathsCalls = append(m.PathsCalls, paths)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Driver != nil {
		return m.Driver, nil
	}
	// Return a default mock driver if none provided
	return driver.NewMockDriver("apache", paths.Available, paths.Enabled), nil
}

// MockRootChecker is a test double for RootChecker
type MockRootChecker struct {
	IsRoot bool
	Calls  int
}

func (m *MockRootChecker) RequireRoot() error {
	m.Calls++
	if !m.IsRoot {
		return kerrors.ErrRootRequired
	}
	return nil
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults
func NewMockDeps() *MockDependenciesBuilder {
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			ConfigLoader:  &MockConfigLoader{Cfg: config.New()},
			FactsDetector: &MockFactsDetector{},
			DriverFactory: &MockDriverFactory{},
			RootChecker:   &MockRootChecker{IsRoot: true},
			StdinReader:   input.NewStringReader("y\n"),
			Executor:      &executor.MockExecutor{},
		},
	}
}

// WithConfig sets the config for the mock
func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithConfigLoader sets a custom config loader
func (b *MockDependenciesBuilder) WithConfigLoader(loader ConfigLoader) *MockDependenciesBuilder {
	b.deps.ConfigLoader = loader
	return b
}

// WithFacts sets the detected host facts
func (b *MockDependenciesBuilder) WithFacts(facts *platform.Facts) *MockDependenciesBuilder {
	b.deps.FactsDetector = &MockFactsDetector{Facts: facts}
	return b
}

// WithFactsError sets an error for fact detection
func (b *MockDependenciesBuilder) WithFactsError(err error) *MockDependenciesBuilder {
	b.deps.FactsDetector = &MockFactsDetector{Err: err}
	return b
}

// WithDriver sets the driver for the mock
func (b *MockDependenciesBuilder) WithDriver(drv driver.Driver) *MockDependenciesBuilder {
	b.deps.DriverFactory = &MockDriverFactory{Driver: drv}
	return b
}

// WithDriverFactory sets a custom driver factory
func (b *MockDependenciesBuilder) WithDriverFactory(factory DriverFactory) *MockDependenciesBuilder {
	b.deps.DriverFactory = factory
	return b
}

// WithRootAccess sets whether root access is available
func (b *MockDependenciesBuilder) WithRootAccess(isRoot bool) *MockDependenciesBuilder {
	b.deps.RootChecker = &MockRootChecker{IsRoot: isRoot}
	return b
}

// WithStdinInput sets the answers read from stdin
func (b *MockDependenciesBuilder) WithStdinInput(answers ...string) *MockDependenciesBuilder {
	b.deps.StdinReader = input.NewStringReader(answers...)
	return b
}

// WithExecutor sets the command executor
func (b *MockDependenciesBuilder) WithExecutor(exec executor.CommandExecutor) *MockDependenciesBuilder {
	b.deps.Executor = exec
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}
