package cli

import (
	kerrors "github.com/ksyq12/keystone-wsgi/internal/errors"
	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare the Keystone vhosts on this host with the parameters",
	Long: `Show each managed vhost: whether the current parameters declare it,
whether its file is present and enabled, and whether the file matches
what apply would write.

Examples:
  keystone-wsgi status
  keystone-wsgi status --ssl --json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	addParamFlags(statusCmd)

	rootCmd.AddCommand(statusCmd)
}

type vhostStatus struct {
	Name     string `json:"name"`
	Declared bool   `json:"declared"`
	Present  bool   `json:"present"`
	Enabled  bool   `json:"enabled"`
	InSync   bool   `json:"in_sync"`
}

// StatusResult is the JSON result of status
type StatusResult struct {
	Driver  string        `json:"driver"`
	InSync  bool          `json:"in_sync"`
	Vhosts  []vhostStatus `json:"vhosts"`
	Missing []string      `json:"missing_modules,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	p, err := buildPlan(cmd.Flags())
	if err != nil {
		return err
	}

	drv, err := newDriver(p.cfg, p.facts)
	if err != nil {
		return err
	}

	expected := make(map[string]string, len(p.descriptors))
	for _, d := range p.descriptors {
		content, err := renderVhostFile(p, d)
		if err != nil {
			return err
		}
		expected[d.Name] = content
	}

	result := StatusResult{Driver: drv.Name(), InSync: true}
	for _, name := range wsgi.ManagedNames() {
		want, declared := expected[name]
		st := vhostStatus{Name: name, Declared: declared}

		got, err := drv.Read(name)
		switch {
		case kerrors.Is(err, kerrors.ErrVhostNotFound):
		case err != nil:
			return kerrors.WrapVhost(kerrors.ErrCodeDriver, name, "failed to read vhost", err)
		default:
			st.Present = true
			st.Enabled, _ = drv.IsEnabled(name)
		}

		if declared {
			st.InSync = st.Present && st.Enabled && got == want
		} else {
			st.InSync = !st.Present
		}
		if !st.InSync {
			result.InSync = false
		}
		result.Vhosts = append(result.Vhosts, st)
	}

	if loaded, err := drv.ModuleLoaded(wsgi.RequiredModule); err == nil && !loaded {
		result.Missing = append(result.Missing, wsgi.RequiredModule)
	}

	if jsonOutput {
		return output.JSON(result)
	}

	rows := make([][]string, 0, len(result.Vhosts))
	for _, st := range result.Vhosts {
		rows = append(rows, []string{
			st.Name,
			yesNo(st.Declared),
			yesNo(st.Present),
			yesNo(st.Enabled),
			yesNo(st.InSync),
		})
	}
	output.Table([]string{"NAME", "DECLARED", "PRESENT", "ENABLED", "IN SYNC"}, rows)

	for _, m := range result.Missing {
		output.Warn("%s is not loaded in Apache", m)
	}
	if result.InSync {
		output.Success("Keystone vhosts in sync")
	} else {
		output.Warn("Keystone vhosts out of sync, run 'keystone-wsgi apply'")
	}
	return nil
}
