package cli

import (
	"github.com/spf13/cobra"
)

var disableCmd = &cobra.Command{
	Use:   "disable [keystone_wsgi|keystone_wsgi_ssl]",
	Short: "Disable Keystone vhosts",
	Long: `Disable Keystone vhosts without deleting their files. Without an
argument every managed vhost present on the host is disabled.

On layouts where Apache includes every file of the vhost directory
(RedHat conf.d) disabling is not possible; use remove instead.

Examples:
  sudo keystone-wsgi disable
  sudo keystone-wsgi disable keystone_wsgi --no-reload`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDisable,
}

func init() {
	disableCmd.Flags().BoolVar(&noReload, "no-reload", false, "Don't reload Apache")

	rootCmd.AddCommand(disableCmd)
}

func runDisable(cmd *cobra.Command, args []string) error {
	return toggleVhosts(args, false)
}
