package cli

import (
	"strings"

	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
	"github.com/ksyq12/keystone-wsgi/internal/input"
	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
	"github.com/spf13/cobra"
)

var (
	forceRemove bool
)

var removeCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"rm"},
	Short:   "Remove the Keystone vhosts",
	Long: `Disable and delete every managed Keystone vhost on this host.

Examples:
  sudo keystone-wsgi remove
  sudo keystone-wsgi rm --force`,
	Args: cobra.NoArgs,
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "Force removal without confirmation")
	removeCmd.Flags().BoolVar(&noReload, "no-reload", false, "Don't reload Apache")

	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	// Require root for system operations
	if err := requireRoot(); err != nil {
		return err
	}

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

	present := make([]string, 0, 2)
	for _, name := range wsgi.ManagedNames() {
		_, err := drv.Read(name)
		if kerrors.Is(err, kerrors.ErrVhostNotFound) {
			continue
		}
		if err != nil {
			return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to read vhost", err)
		}
		present = append(present, name)
	}

	if len(present) == 0 {
		return outputResult(
			map[string]interface{}{
				"success": true,
				"removed": []string{},
			},
			"No Keystone vhosts to remove",
		)
	}

	// Confirm removal if not forced
	if !forceRemove {
		output.Print("Remove %s? [y/N]: ", strings.Join(present, ", "))
		if !input.Confirm(deps.StdinReader) {
			output.Info("Removal cancelled")
			return nil
		}
	}

	for _, name := range present {
		output.Info("Removing %s...", name)
		if err := drv.Remove(name); err != nil {
			return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to remove vhost", err)
		}
	}

	// Test and reload (no rollback for remove)
	if err := testAndReload(drv, !noReload, nil); err != nil {
		output.Warn("Post-removal check failed: %v", err)
	}

	return outputResult(
		map[string]interface{}{
			"success": true,
			"removed": present,
		},
		"Removed %s", strings.Join(present, ", "),
	)
}
