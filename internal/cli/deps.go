package cli

import (
	"os"

	"github.com/ksyq12/keystone-wsgi/internal/config"
	"github.com/ksyq12/keystone-wsgi/internal/driver"
	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
	"github.com/ksyq12/keystone-wsgi/internal/executor"
	"github.com/ksyq12/keystone-wsgi/internal/input"
	"github.com/ksyq12/keystone-wsgi/internal/platform"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader  ConfigLoader
	FactsDetector FactsDetector
	DriverFactory DriverFactory
	RootChecker   RootChecker
	StdinReader   StdinReader
	Executor      executor.CommandExecutor
}

// ConfigLoader handles configuration loading and saving. An empty path
// means the default location.
type ConfigLoader interface {
	Load(path string) (*config.Config, error)
	Save(cfg *config.Config, path string) error
}

// FactsDetector gathers host facts
type FactsDetector interface {
	Detect() (*platform.Facts, error)
}

// DriverFactory creates the Apache driver for an OS family
type DriverFactory interface {
	Create(family platform.Family, paths driver.Paths) (driver.Driver, error)
}

// RootChecker checks root privileges
type RootChecker interface {
	RequireRoot() error
}

// StdinReader reads operator answers
type StdinReader = input.Reader

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ConfigLoader:  &realConfigLoader{},
	FactsDetector: &realFactsDetector{},
	DriverFactory: &realDriverFactory{},
	RootChecker:   &realRootChecker{},
	StdinReader:   input.NewStdinReader(),
	Executor:      executor.NewSystemExecutor(),
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

type realConfigLoader struct{}

func (r *realConfigLoader) Load(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func (r *realConfigLoader) Save(cfg *config.Config, path string) error {
	if path == "" {
		return cfg.Save()
	}
	return cfg.SaveTo(path)
}

type realFactsDetector struct{}

func (r *realFactsDetector) Detect() (*platform.Facts, error) {
	facts, err := platform.DetectFacts()
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodePlatform, "failed to detect host facts", err)
	}
	return facts, nil
}

type realDriverFactory struct{}

func (r *realDriverFactory) Create(family platform.Family, paths driver.Paths) (driver.Driver, error) {
	return driver.NewApacheWithExecutor(paths, family.ServiceName(), deps.Executor), nil
}

type realRootChecker struct{}

func (r *realRootChecker) RequireRoot() error {
	if os.Geteuid() != 0 {
		return kerrors.ErrRootRequired
	}
	return nil
}
