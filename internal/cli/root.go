package cli

import (
	"os"

	"github.com/ksyq12/keystone-wsgi/internal/logger"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
	configPath string
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "keystone-wsgi",
	Short: "Apache mod_wsgi vhosts for OpenStack Keystone",
	Long: `keystone-wsgi derives the Apache virtual hosts that serve OpenStack Keystone
through mod_wsgi and converges them onto this host.

A plain HTTP vhost (keystone_wsgi) and, with --ssl, an HTTPS vhost
(keystone_wsgi_ssl) are generated from the parameters in the config file,
command-line flags and detected host facts. --ssl-only drops the plain
vhost and requires SSL for the Keystone location.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ~/.config/keystone-wsgi/config.yaml)")
}
