package cli

import (
	"github.com/ksyq12/keystone-wsgi/internal/driver"
	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [keystone_wsgi|keystone_wsgi_ssl]",
	Short: "Show the Keystone vhost files on this host",
	Long: `Print the vhost files as they are on this host. Without an argument
every managed vhost present is shown.

Examples:
  keystone-wsgi show
  keystone-wsgi show keystone_wsgi_ssl --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// showDetail represents one vhost file for output
type showDetail struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Content string `json:"content"`
}

func runShow(cmd *cobra.Command, args []string) error {
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

	details := make([]showDetail, 0, len(names))
	for _, name := range names {
		content, err := drv.Read(name)
		if err != nil {
			return err
		}
		enabled, _ := drv.IsEnabled(name)
		details = append(details, showDetail{Name: name, Enabled: enabled, Content: content})
	}

	if jsonOutput {
		return output.JSON(details)
	}

	for i, d := range details {
		if i > 0 {
			output.Print("")
		}
		status := "disabled"
		if d.Enabled {
			status = "enabled"
		}
		output.Block(d.Name+".conf ("+status+")", d.Content)
	}
	return nil
}

// targetNames returns the vhost named in args, or every managed vhost
// present on the host
func targetNames(drv driver.Driver, args []string) ([]string, error) {
	if len(args) == 1 {
		if !isManagedName(args[0]) {
			return nil, kerrors.Validation("unknown vhost %q (valid: %s, %s)", args[0], wsgi.VhostName, wsgi.SSLVhostName)
		}
		if _, err := drv.Read(args[0]); err != nil {
			return nil, err
		}
		return []string{args[0]}, nil
	}

	names := make([]string, 0, 2)
	for _, name := range wsgi.ManagedNames() {
		_, err := drv.Read(name)
		if kerrors.Is(err, kerrors.ErrVhostNotFound) {
			continue
		}
		if err != nil {
			return nil, kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to read vhost", err)
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, kerrors.Wrap(kerrors.ErrCodeNotFound, "no Keystone vhosts on this host, run apply first", nil)
	}
	return names, nil
}
