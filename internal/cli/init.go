package cli

import (
	"os"

	"github.com/ksyq12/keystone-wsgi/internal/config"
	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default parameters",
	Long: `Write a config file holding the default Keystone vhost parameters.
Host-dependent values (servername, workers, ssl_directive) are left unset
so they keep following the detected facts.

Examples:
  keystone-wsgi init
  keystone-wsgi init --config /etc/keystone-wsgi.yaml --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")

	rootCmd.AddCommand(initCmd)
}

// configExists reports whether the target config file exists
var configExists = func(path string) bool {
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return false
		}
		path = p
	}
	_, err := os.Stat(path)
	return err == nil
}

func runInit(cmd *cobra.Command, args []string) error {
	target := configPath
	if configExists(target) && !forceInit {
		output.Warn("Config file already exists, use --force to overwrite")
		return nil
	}

	cfg := config.New()
	if err := deps.ConfigLoader.Save(cfg, target); err != nil {
		return err
	}

	if target == "" {
		target, _ = config.ConfigPath()
	}
	return outputResult(
		map[string]interface{}{
			"success": true,
			"path":    target,
		},
		"Config written to %s", target,
	)
}
