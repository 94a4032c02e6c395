package cli

import (
	"fmt"

	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/ksyq12/keystone-wsgi/internal/platform"
	"github.com/spf13/cobra"
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Show the detected host facts",
	Long: `Show the host facts the vhost defaults are derived from, and the
Apache layout of the detected OS family.

Examples:
  keystone-wsgi facts
  keystone-wsgi facts --json`,
	Args: cobra.NoArgs,
	RunE: runFacts,
}

func init() {
	rootCmd.AddCommand(factsCmd)
}

// FactsResult is the JSON result of facts
type FactsResult struct {
	*platform.Facts
	SSLDirective string `json:"ssl_directive"`
	Service      string `json:"service"`
	LogDir       string `json:"log_dir"`
	Available    string `json:"sites_available,omitempty"`
	Enabled      string `json:"sites_enabled,omitempty"`
	Platform     string `json:"platform"`
}

func runFacts(cmd *cobra.Command, args []string) error {
	facts, err := detectFacts()
	if err != nil {
		return err
	}

	result := FactsResult{
		Facts:        facts,
		SSLDirective: string(facts.OSFamily.SSLDirective()),
		Service:      facts.OSFamily.ServiceName(),
		LogDir:       facts.OSFamily.LogDir(),
		Platform:     platform.Platform(),
	}
	paths, pathErr := platform.PathsFor(facts.OSFamily)
	if pathErr == nil {
		result.Available = paths.Available
		result.Enabled = paths.Enabled
	}

	if jsonOutput {
		return output.JSON(result)
	}

	rows := [][]string{
		{"fqdn", facts.FQDN},
		{"processorcount", fmt.Sprintf("%d", facts.ProcessorCount)},
		{"osfamily", string(facts.OSFamily)},
		{"operatingsystemrelease", facts.OSRelease},
		{"ssl_directive", result.SSLDirective},
		{"service", result.Service},
		{"log_dir", result.LogDir},
		{"sites_available", result.Available},
		{"sites_enabled", result.Enabled},
		{"platform", result.Platform},
	}
	output.Table([]string{"FACT", "VALUE"}, rows)

	if pathErr != nil {
		output.Warn("%v", pathErr)
	}
	return nil
}
