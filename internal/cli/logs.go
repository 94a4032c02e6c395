package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
	"github.com/spf13/cobra"
)

var (
	logsAccess bool
	logsError  bool
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:   "logs [keystone_wsgi|keystone_wsgi_ssl]",
	Short: "View Apache logs for a Keystone vhost",
	Long: `View the access and error logs Apache writes for a Keystone vhost.

By default, shows both logs of keystone_wsgi.
Use --access or --error to show only one log type.

Examples:
  keystone-wsgi logs                      # Both logs of keystone_wsgi
  keystone-wsgi logs keystone_wsgi_ssl    # Both logs of the HTTPS vhost
  keystone-wsgi logs --error -f           # Follow the error log
  keystone-wsgi logs -n 50                # Show last 50 lines`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVar(&logsAccess, "access", false, "Show access log only")
	logsCmd.Flags().BoolVar(&logsError, "error", false, "Show error log only")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 20, "Number of lines to show")

	rootCmd.AddCommand(logsCmd)
}

// tailRunner runs tail attached to the terminal (overridable for testing)
var tailRunner = func(path string, args []string) error {
	tailCmd := exec.Command(path, args...)
	tailCmd.Stdin = os.Stdin
	tailCmd.Stdout = os.Stdout
	tailCmd.Stderr = os.Stderr
	return tailCmd.Run()
}

// logPaths returns the access and error log of a managed vhost
func logPaths(logDir, name string) (string, string) {
	return filepath.Join(logDir, name+"_access.log"), filepath.Join(logDir, name+"_error.log")
}

func runLogs(cmd *cobra.Command, args []string) error {
	name := wsgi.VhostName
	if len(args) == 1 {
		name = args[0]
	}
	if !isManagedName(name) {
		return kerrors.Validation("unknown vhost %q (valid: %s, %s)", name, wsgi.VhostName, wsgi.SSLVhostName)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	facts, err := detectFacts()
	if err != nil {
		return err
	}
	accessLog, errorLog := logPaths(logDir(cfg, facts), name)

	// Determine which logs to show
	showAccess := true
	showError := true
	if logsAccess && !logsError {
		showError = false
	} else if logsError && !logsAccess {
		showAccess = false
	}

	var logFiles []string
	if showAccess {
		if _, err := os.Stat(accessLog); err == nil {
			logFiles = append(logFiles, accessLog)
		} else {
			output.Warn("Access log not found: %s", accessLog)
		}
	}
	if showError {
		if _, err := os.Stat(errorLog); err == nil {
			logFiles = append(logFiles, errorLog)
		} else {
			output.Warn("Error log not found: %s", errorLog)
		}
	}

	if len(logFiles) == 0 {
		return kerrors.NotFound(name)
	}

	tailArgs := []string{}
	if logsFollow {
		tailArgs = append(tailArgs, "-f")
	}
	tailArgs = append(tailArgs, "-n", fmt.Sprintf("%d", logsLines))
	tailArgs = append(tailArgs, logFiles...)

	tailPath, err := deps.Executor.LookPath("tail")
	if err != nil {
		return fmt.Errorf("tail command not found")
	}

	if len(logFiles) == 1 {
		output.Info("Showing logs from: %s", logFiles[0])
	} else {
		output.Info("Showing logs from:")
		for _, f := range logFiles {
			output.Print("  - %s", f)
		}
	}
	output.Print("")

	if err := tailRunner(tailPath, tailArgs); err != nil {
		// Check for interrupt signals (130 = SIGINT/Ctrl+C, 143 = SIGTERM)
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode := exitErr.ExitCode()
			if exitCode == 130 || exitCode == 143 {
				return nil
			}
		}
		return fmt.Errorf("failed to read logs: %w", err)
	}

	return nil
}

func isManagedName(name string) bool {
	for _, managed := range wsgi.ManagedNames() {
		if name == managed {
			return true
		}
	}
	return false
}
