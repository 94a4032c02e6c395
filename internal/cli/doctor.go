package cli

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ksyq12/keystone-wsgi/internal/config"
	"github.com/ksyq12/keystone-wsgi/internal/driver"
	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
	"github.com/ksyq12/keystone-wsgi/internal/executor"
	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/ksyq12/keystone-wsgi/internal/platform"
	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on Apache and the Keystone vhosts.

Checks:
  - Apache installation and service state
  - mod_wsgi (wsgi_module) loaded
  - Config file and parameter validity
  - Apache configuration syntax
  - Keystone vhost files, docroot and SSL certificates

Examples:
  keystone-wsgi doctor
  keystone-wsgi doctor --json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// Check statuses
const (
	checkSuccess = "success"
	checkWarning = "warning"
	checkError   = "error"
)

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// VhostCheck represents the diagnosis of one managed vhost
type VhostCheck struct {
	Name    string        `json:"name"`
	Enabled bool          `json:"enabled"`
	Checks  []CheckResult `json:"checks"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	SystemRequirements []CheckResult `json:"system_requirements"`
	Configuration      []CheckResult `json:"configuration"`
	Vhosts             []VhostCheck  `json:"vhosts"`
}

// HasErrors reports whether any check failed
func (r *DoctorReport) HasErrors() bool {
	for _, c := range r.SystemRequirements {
		if c.Status == checkError {
			return true
		}
	}
	for _, c := range r.Configuration {
		if c.Status == checkError {
			return true
		}
	}
	for _, v := range r.Vhosts {
		for _, c := range v.Checks {
			if c.Status == checkError {
				return true
			}
		}
	}
	return false
}

var apacheVersionPattern = regexp.MustCompile(`Apache/(\d+\.\d+\.\d+)`)

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	facts, err := detectFacts()
	if err != nil {
		return err
	}
	drv, err := newDriver(cfg, facts)
	if err != nil {
		return err
	}

	report := &DoctorReport{}
	report.SystemRequirements = checkSystemRequirements(deps.Executor, drv, facts.OSFamily)

	var p *plan
	report.Configuration, p = checkConfiguration(drv, cfg, facts)
	report.Vhosts = checkVhosts(drv, p)

	if jsonOutput {
		if err := output.JSON(report); err != nil {
			return err
		}
	} else {
		displayDoctorResults(report)
	}

	if report.HasErrors() {
		return errDoctorFailed
	}
	return nil
}

var errDoctorFailed = fmt.Errorf("diagnostics found errors")

func checkSystemRequirements(exec executor.CommandExecutor, drv driver.Driver, family platform.Family) []CheckResult {
	results := []CheckResult{}

	ctl, err := executor.FirstAvailable(exec, "apache2ctl", "apachectl")
	if err != nil {
		results = append(results, CheckResult{Status: checkError, Message: "Apache not installed"})
	} else {
		version := "unknown"
		if out, err := exec.Execute(ctl, "-v"); err == nil {
			if matches := apacheVersionPattern.FindStringSubmatch(string(out)); len(matches) >= 2 {
				version = matches[1]
			}
		}
		results = append(results, CheckResult{
			Status:  checkSuccess,
			Message: fmt.Sprintf("Apache installed (%s)", version),
		})
	}

	service := family.ServiceName()
	if out, err := exec.Execute("systemctl", "is-active", service); err == nil && strings.TrimSpace(string(out)) == "active" {
		results = append(results, CheckResult{Status: checkSuccess, Message: fmt.Sprintf("%s running", service)})
	} else {
		results = append(results, CheckResult{Status: checkWarning, Message: fmt.Sprintf("%s not running", service)})
	}

	loaded, err := drv.ModuleLoaded(wsgi.RequiredModule)
	switch {
	case err != nil:
		results = append(results, CheckResult{Status: checkWarning, Message: fmt.Sprintf("Could not list Apache modules: %v", err)})
	case loaded:
		results = append(results, CheckResult{Status: checkSuccess, Message: fmt.Sprintf("%s loaded", wsgi.RequiredModule)})
	default:
		results = append(results, CheckResult{Status: checkError, Message: fmt.Sprintf("%s not loaded", wsgi.RequiredModule)})
	}

	return results
}

// checkConfiguration returns the configuration checks and, when the
// parameters are valid, the resolved plan
func checkConfiguration(drv driver.Driver, cfg *config.Config, facts *platform.Facts) ([]CheckResult, *plan) {
	results := []CheckResult{}

	if configExists(configPath) {
		results = append(results, CheckResult{Status: checkSuccess, Message: "Config file exists"})
	} else {
		results = append(results, CheckResult{Status: checkWarning, Message: "Config file not found, using defaults"})
	}

	var p *plan
	if err := cfg.Validate(); err != nil {
		results = append(results, CheckResult{Status: checkError, Message: fmt.Sprintf("Invalid parameters: %v", err)})
	} else {
		in := cfg.Input(facts.HostFacts())
		p = &plan{cfg: cfg, facts: facts, input: in, descriptors: wsgi.Generate(in)}
		results = append(results, CheckResult{Status: checkSuccess, Message: "Parameters valid"})
	}

	if err := drv.Test(); err == nil {
		results = append(results, CheckResult{Status: checkSuccess, Message: "Apache config syntax OK"})
	} else {
		results = append(results, CheckResult{Status: checkError, Message: "Apache config syntax error"})
	}

	return results, p
}

func checkVhosts(drv driver.Driver, p *plan) []VhostCheck {
	checks := []VhostCheck{}
	if p == nil {
		return checks
	}

	declared := make(map[string]wsgi.Descriptor, len(p.descriptors))
	for _, d := range p.descriptors {
		declared[d.Name] = d
	}

	for _, name := range wsgi.ManagedNames() {
		d, isDeclared := declared[name]
		got, readErr := drv.Read(name)
		present := readErr == nil
		if !isDeclared && !present {
			continue
		}

		vc := VhostCheck{Name: name, Checks: []CheckResult{}}
		vc.Enabled, _ = drv.IsEnabled(name)

		if !isDeclared {
			vc.Checks = append(vc.Checks, CheckResult{Status: checkWarning, Message: "present but no longer declared"})
			checks = append(checks, vc)
			continue
		}

		allOK := true
		switch {
		case kerrors.Is(readErr, kerrors.ErrVhostNotFound):
			vc.Checks = append(vc.Checks, CheckResult{Status: checkWarning, Message: "vhost file missing, run apply"})
			allOK = false
		case readErr != nil:
			vc.Checks = append(vc.Checks, CheckResult{Status: checkError, Message: fmt.Sprintf("unreadable: %v", readErr)})
			allOK = false
		default:
			if want, err := renderVhostFile(p, d); err == nil && want != got {
				vc.Checks = append(vc.Checks, CheckResult{Status: checkWarning, Message: "out of sync with parameters"})
				allOK = false
			}
			if !vc.Enabled {
				vc.Checks = append(vc.Checks, CheckResult{Status: checkWarning, Message: "not enabled"})
				allOK = false
			}
		}

		if _, err := os.Stat(d.DocRoot); os.IsNotExist(err) {
			vc.Checks = append(vc.Checks, CheckResult{Status: checkWarning, Message: "docroot missing"})
			allOK = false
		}

		if d.SSL {
			for _, f := range []struct{ label, path string }{
				{"SSL certificate", p.cfg.SSLCert},
				{"SSL key", p.cfg.SSLKey},
			} {
				if f.path == "" {
					continue
				}
				if _, err := os.Stat(f.path); os.IsNotExist(err) {
					vc.Checks = append(vc.Checks, CheckResult{Status: checkError, Message: f.label + " missing"})
					allOK = false
				}
			}
		}

		if allOK {
			vc.Checks = append(vc.Checks, CheckResult{Status: checkSuccess, Message: fmt.Sprintf("port %d, in sync", d.Port)})
		}
		checks = append(checks, vc)
	}

	return checks
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Checking system requirements...")
	for _, check := range report.SystemRequirements {
		displayCheck(check)
	}
	output.Print("")

	output.Print("Checking configuration...")
	for _, check := range report.Configuration {
		displayCheck(check)
	}
	output.Print("")

	if len(report.Vhosts) == 0 {
		output.Print("No Keystone vhosts declared")
		return
	}

	output.Print("Checking vhosts...")
	for _, vc := range report.Vhosts {
		for _, check := range vc.Checks {
			displayCheck(CheckResult{Status: check.Status, Message: vc.Name + " - " + check.Message})
		}
	}
}

func displayCheck(check CheckResult) {
	switch check.Status {
	case checkSuccess:
		output.Success("%s", check.Message)
	case checkWarning:
		output.Warn("%s", check.Message)
	case checkError:
		output.Error("%s", check.Message)
	}
}
