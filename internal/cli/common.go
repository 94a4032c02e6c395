package cli

import (
	"fmt"

	"github.com/ksyq12/keystone-wsgi/internal/config"
	"github.com/ksyq12/keystone-wsgi/internal/driver"
	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
	"github.com/ksyq12/keystone-wsgi/internal/logger"
	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/ksyq12/keystone-wsgi/internal/platform"
	"github.com/ksyq12/keystone-wsgi/internal/template"
	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
	"github.com/spf13/pflag"
)

var noReload bool

// plan is a resolved generation: parameters, facts and the descriptors they yield
type plan struct {
	cfg         *config.Config
	facts       *platform.Facts
	input       wsgi.Input
	descriptors []wsgi.Descriptor
}

// loadConfig loads the config file named by --config
func loadConfig() (*config.Config, error) {
	cfg, err := deps.ConfigLoader.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// detectFacts gathers host facts
func detectFacts() (*platform.Facts, error) {
	facts, err := deps.FactsDetector.Detect()
	if err != nil {
		return nil, err
	}
	logger.DebugFields("detected host facts", logger.Fields{
		"fqdn":          facts.FQDN,
		"processors":    facts.ProcessorCount,
		"osfamily":      facts.OSFamily,
		"os_release":    facts.OSRelease,
		"ssl_directive": facts.OSFamily.SSLDirective(),
	})
	return facts, nil
}

// buildPlan loads the config, applies flag overrides, validates and generates
func buildPlan(flags *pflag.FlagSet) (*plan, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	applyParamFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	facts, err := detectFacts()
	if err != nil {
		return nil, err
	}

	in := cfg.Input(facts.HostFacts())
	p := &plan{
		cfg:         cfg,
		facts:       facts,
		input:       in,
		descriptors: wsgi.Generate(in),
	}
	logger.Debug("generated %d vhost descriptor(s)", len(p.descriptors))
	return p, nil
}

// newDriver returns the Apache driver for the detected family, honoring
// path overrides from the config
func newDriver(cfg *config.Config, facts *platform.Facts) (driver.Driver, error) {
	paths := driver.Paths{
		Available: cfg.Paths.Available,
		Enabled:   cfg.Paths.Enabled,
	}
	if cfg.Paths.IsZero() {
		detected, err := platform.PathsFor(facts.OSFamily)
		if err != nil {
			return nil, kerrors.Wrap(kerrors.ErrCodePlatform, "failed to resolve apache paths", err)
		}
		paths = driver.Paths{Available: detected.Available, Enabled: detected.Enabled}
	}

	drv, err := deps.DriverFactory.Create(facts.OSFamily, paths)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeDriver, "failed to create apache driver", err)
	}
	logger.Debug("using %s driver (available=%s enabled=%s)", drv.Name(), paths.Available, paths.Enabled)
	return drv, nil
}

// renderVhostFile renders the complete vhost file for a descriptor
func renderVhostFile(p *plan, d wsgi.Descriptor) (string, error) {
	content, err := template.RenderVhost(template.VhostData{
		Name:       d.Name,
		ServerName: d.ServerName,
		Port:       d.Port,
		DocRoot:    d.DocRoot,
		LogDir:     logDir(p.cfg, p.facts),
		SSL:        d.SSL,
		SSLCert:    p.cfg.SSLCert,
		SSLKey:     p.cfg.SSLKey,
		Fragment:   d.Fragment,
	})
	if err != nil {
		return "", kerrors.WrapVhost(kerrors.ErrCodeInternal, d.Name, "failed to render vhost", err)
	}
	return content, nil
}

// logDir returns the Apache log directory, honoring the config override
func logDir(cfg *config.Config, facts *platform.Facts) string {
	if cfg.LogDir != "" {
		return cfg.LogDir
	}
	return facts.OSFamily.LogDir()
}

// requireRoot checks root privileges
func requireRoot() error {
	return deps.RootChecker.RequireRoot()
}

// testAndReload tests config and reloads the web server
// If rollback is provided, it will be called on test failure
func testAndReload(drv driver.Driver, reload bool, rollback func() error) error {
	output.Info("Testing configuration...")
	if err := drv.Test(); err != nil {
		if rollback != nil {
			if rbErr := rollback(); rbErr != nil {
				output.Warn("Rollback failed: %v", rbErr)
			} else {
				output.Warn("Configuration test failed, previous vhosts restored")
			}
		}
		return fmt.Errorf("configuration test failed: %w", err)
	}

	if reload {
		output.Info("Reloading %s...", drv.Name())
		if err := drv.Reload(); err != nil {
			return fmt.Errorf("failed to reload %s: %w", drv.Name(), err)
		}
	}

	return nil
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}

// yesNo formats a bool for tables
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
