package cli

import (
	"fmt"

	"github.com/ksyq12/keystone-wsgi/internal/driver"
	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
	"github.com/ksyq12/keystone-wsgi/internal/logger"
	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
	"github.com/spf13/cobra"
)

var (
	dryRun          bool
	skipModuleCheck bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Write and enable the Keystone vhosts",
	Long: `Converge the Apache vhosts serving Keystone onto this host.

The descriptors for the current parameters are rendered into complete
vhost files, written, enabled, and any managed vhost no longer declared
is removed. The Apache configuration is then tested and, if the test
fails, the previous vhost files are restored.

Examples:
  sudo keystone-wsgi apply
  sudo keystone-wsgi apply --ssl --ssl-only
  keystone-wsgi apply --dry-run`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	addParamFlags(applyCmd)
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without touching the host")
	applyCmd.Flags().BoolVar(&noReload, "no-reload", false, "Don't reload Apache")
	applyCmd.Flags().BoolVar(&skipModuleCheck, "skip-module-check", false, "Don't check that wsgi_module is loaded")

	rootCmd.AddCommand(applyCmd)
}

// Change actions
const (
	actionCreate    = "create"
	actionUpdate    = "update"
	actionEnable    = "enable"
	actionUnchanged = "unchanged"
	actionRemove    = "remove"
)

// vhostChange is one planned operation on a managed vhost
type vhostChange struct {
	Name    string `json:"name"`
	Port    int    `json:"port,omitempty"`
	SSL     bool   `json:"ssl"`
	Action  string `json:"action"`
	content string
	// previous content, empty when the file did not exist
	previous   string
	existed    bool
	wasEnabled bool
}

// ApplyResult is the JSON result of apply
type ApplyResult struct {
	Success bool          `json:"success"`
	DryRun  bool          `json:"dry_run"`
	Changed bool          `json:"changed"`
	Vhosts  []vhostChange `json:"vhosts"`
}

func runApply(cmd *cobra.Command, args []string) error {
	p, err := buildPlan(cmd.Flags())
	if err != nil {
		return err
	}

	drv, err := newDriver(p.cfg, p.facts)
	if err != nil {
		return err
	}

	changes, err := planChanges(p, drv)
	if err != nil {
		return err
	}

	result := ApplyResult{Success: true, DryRun: dryRun, Vhosts: changes}
	for _, c := range changes {
		if c.Action != actionUnchanged {
			result.Changed = true
		}
	}

	if dryRun {
		return showDryRun(result)
	}

	if err := requireRoot(); err != nil {
		return err
	}

	if !skipModuleCheck {
		loaded, err := drv.ModuleLoaded(wsgi.RequiredModule)
		if err != nil {
			return kerrors.Wrap(kerrors.ErrCodeDriver, "failed to list apache modules", err)
		}
		if !loaded {
			return kerrors.Wrap(kerrors.ErrCodeDriver, fmt.Sprintf("%s is not loaded, enable mod_wsgi first", wsgi.RequiredModule), kerrors.ErrModuleNotLoaded)
		}
	}

	if err := ensureDocroots(p, drv); err != nil {
		return err
	}

	if !result.Changed {
		return outputResult(result, "Keystone vhosts already up to date")
	}

	applied, err := applyChanges(drv, changes)
	rollback := func() error {
		return rollbackChanges(drv, applied)
	}
	if err != nil {
		if rbErr := rollback(); rbErr != nil {
			output.Warn("Rollback failed: %v", rbErr)
		}
		return err
	}

	if err := testAndReload(drv, !noReload, rollback); err != nil {
		return err
	}

	if !jsonOutput {
		for _, c := range changes {
			if c.Action != actionUnchanged {
				output.Info("%s %s", c.Action, c.Name)
			}
		}
	}
	return outputResult(result, "Keystone vhosts applied")
}

// planChanges compares the declared descriptors against the host
func planChanges(p *plan, drv driver.Driver) ([]vhostChange, error) {
	declared := make(map[string]bool, len(p.descriptors))
	changes := make([]vhostChange, 0, len(wsgi.ManagedNames()))

	for _, d := range p.descriptors {
		declared[d.Name] = true

		content, err := renderVhostFile(p, d)
		if err != nil {
			return nil, err
		}

		c := vhostChange{Name: d.Name, Port: d.Port, SSL: d.SSL, content: content}
		existing, err := drv.Read(d.Name)
		switch {
		case kerrors.Is(err, kerrors.ErrVhostNotFound):
			c.Action = actionCreate
		case err != nil:
			return nil, kerrors.WrapVhost(kerrors.ErrCodeDriver, d.Name, "failed to read vhost", err)
		default:
			enabled, err := drv.IsEnabled(d.Name)
			if err != nil {
				return nil, kerrors.WrapVhost(kerrors.ErrCodeDriver, d.Name, "failed to check vhost status", err)
			}
			c.existed = true
			c.previous = existing
			c.wasEnabled = enabled
			c.Action = actionUpdate
			if existing == content {
				c.Action = actionUnchanged
				if !enabled {
					c.Action = actionEnable
				}
			}
		}
		changes = append(changes, c)
	}

	present, err := drv.List()
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeDriver, "failed to list vhosts", err)
	}
	onHost := make(map[string]bool, len(present))
	for _, name := range present {
		onHost[name] = true
	}

	for _, name := range wsgi.ManagedNames() {
		if declared[name] || !onHost[name] {
			continue
		}
		previous, err := drv.Read(name)
		if err != nil {
			return nil, kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to read vhost", err)
		}
		enabled, err := drv.IsEnabled(name)
		if err != nil {
			return nil, kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to check vhost status", err)
		}
		changes = append(changes, vhostChange{
			Name:       name,
			Action:     actionRemove,
			previous:   previous,
			existed:    true,
			wasEnabled: enabled,
		})
	}

	return changes, nil
}

// ensureDocroots creates each distinct docroot owned by the service account
func ensureDocroots(p *plan, drv driver.Driver) error {
	seen := make(map[string]bool)
	for _, d := range p.descriptors {
		if seen[d.DocRoot] {
			continue
		}
		seen[d.DocRoot] = true

		err := drv.EnsureDocroot(d.DocRoot, d.DocRootOwner, d.DocRootGroup)
		if kerrors.Is(err, driver.ErrOwnerUnknown) {
			output.Warn("Docroot %s created but not chowned: %v", d.DocRoot, err)
			continue
		}
		if err != nil {
			return kerrors.WrapVhost(kerrors.ErrCodeDriver, d.Name, "failed to prepare docroot", err)
		}
	}
	return nil
}

// applyChanges performs the planned operations and returns those that
// were started, for rollback
func applyChanges(drv driver.Driver, changes []vhostChange) ([]vhostChange, error) {
	applied := make([]vhostChange, 0, len(changes))
	for _, c := range changes {
		logger.DebugFields("applying vhost change", logger.Fields{"vhost": c.Name, "action": c.Action})

		switch c.Action {
		case actionCreate, actionUpdate:
			applied = append(applied, c)
			if err := drv.Write(c.Name, c.content); err != nil {
				return applied, kerrors.WrapVhost(kerrors.ErrCodeDriver, c.Name, "failed to write vhost", err)
			}
			if err := drv.Enable(c.Name); err != nil {
				return applied, kerrors.WrapVhost(kerrors.ErrCodeDriver, c.Name, "failed to enable vhost", err)
			}
		case actionEnable:
			applied = append(applied, c)
			if err := drv.Enable(c.Name); err != nil {
				return applied, kerrors.WrapVhost(kerrors.ErrCodeDriver, c.Name, "failed to enable vhost", err)
			}
		case actionRemove:
			applied = append(applied, c)
			if err := drv.Remove(c.Name); err != nil {
				return applied, kerrors.WrapVhost(kerrors.ErrCodeDriver, c.Name, "failed to remove stale vhost", err)
			}
		}
	}
	return applied, nil
}

// rollbackChanges restores the previous content and enabled state of the
// given changes
func rollbackChanges(drv driver.Driver, applied []vhostChange) error {
	var firstErr error
	for i := len(applied) - 1; i >= 0; i-- {
		c := applied[i]
		var err error
		if c.existed {
			err = drv.Write(c.Name, c.previous)
			if err == nil {
				if c.wasEnabled {
					err = drv.Enable(c.Name)
				} else {
					err = drv.Disable(c.Name)
				}
			}
		} else {
			err = drv.Remove(c.Name)
			if kerrors.Is(err, kerrors.ErrVhostNotFound) {
				err = nil
			}
		}
		if err != nil {
			logger.LogError(err, "rollback of "+c.Name+" failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func showDryRun(result ApplyResult) error {
	if jsonOutput {
		return output.JSON(result)
	}

	output.Info("Dry run, nothing will be changed")
	rows := make([][]string, 0, len(result.Vhosts))
	for _, c := range result.Vhosts {
		port := ""
		if c.Port != 0 {
			port = fmt.Sprintf("%d", c.Port)
		}
		rows = append(rows, []string{c.Name, port, yesNo(c.SSL), c.Action})
	}
	output.Table([]string{"NAME", "PORT", "SSL", "ACTION"}, rows)

	for _, c := range result.Vhosts {
		if c.Action == actionCreate || c.Action == actionUpdate {
			output.Print("")
			output.Block(c.Name+".conf", c.content)
		}
	}
	return nil
}
