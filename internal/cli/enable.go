package cli

import (
	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable [keystone_wsgi|keystone_wsgi_ssl]",
	Short: "Enable Keystone vhosts",
	Long: `Enable written Keystone vhosts. Without an argument every managed
vhost present on the host is enabled.

Examples:
  sudo keystone-wsgi enable
  sudo keystone-wsgi enable keystone_wsgi_ssl`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnable,
}

func init() {
	enableCmd.Flags().BoolVar(&noReload, "no-reload", false, "Don't reload Apache")

	rootCmd.AddCommand(enableCmd)
}

func runEnable(cmd *cobra.Command, args []string) error {
	return toggleVhosts(args, true)
}

// toggleVhosts enables or disables the targeted vhosts, reverting on a
// failed configuration test
func toggleVhosts(args []string, enable bool) error {
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

	names, err := targetNames(drv, args)
	if err != nil {
		return err
	}

	if !enable && drv.Paths().Shared() {
		output.Warn("Apache loads every file in %s, vhosts cannot be disabled there; use 'keystone-wsgi remove'", drv.Paths().Enabled)
		return nil
	}

	verb, gerund := "disable", "Disabling"
	if enable {
		verb, gerund = "enable", "Enabling"
	}

	toggled := make([]string, 0, len(names))
	changed := make([]string, 0, len(names))
	for _, name := range names {
		was, err := drv.IsEnabled(name)
		if err != nil {
			return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to check vhost status", err)
		}

		output.Info("%s %s...", gerund, name)
		var opErr error
		if enable {
			opErr = drv.Enable(name)
		} else {
			opErr = drv.Disable(name)
		}
		if opErr != nil {
			return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to "+verb+" vhost", opErr)
		}
		toggled = append(toggled, name)
		if was != enable {
			changed = append(changed, name)
		}
	}

	// only vhosts whose state changed are reverted
	rollback := func() error {
		for _, name := range changed {
			var err error
			if enable {
				err = drv.Disable(name)
			} else {
				err = drv.Enable(name)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}

	if err := testAndReload(drv, !noReload, rollback); err != nil {
		return err
	}

	return outputResult(
		map[string]interface{}{
			"success": true,
			"vhosts":  toggled,
			"enabled": enable,
		},
		"%d vhost(s) %sd", len(toggled), verb,
	)
}
