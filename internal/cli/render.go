package cli

import (
	"fmt"

	"github.com/ksyq12/keystone-wsgi/internal/output"
	"github.com/ksyq12/keystone-wsgi/internal/wsgi"
	"github.com/spf13/cobra"
)

var renderFull bool

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the Keystone vhost descriptors",
	Long: `Print the vhosts that would be declared for the current parameters,
each with its mod_wsgi fragment. Nothing on the host is touched.

Examples:
  keystone-wsgi render
  keystone-wsgi render --ssl --ssl-only
  keystone-wsgi render --base-url /openstack_identity --port 8000 --json
  keystone-wsgi render --full`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	addParamFlags(renderCmd)
	renderCmd.Flags().BoolVar(&renderFull, "full", false, "Print complete vhost files instead of fragments")

	rootCmd.AddCommand(renderCmd)
}

type renderItem struct {
	wsgi.Descriptor
	Content string `json:"content,omitempty"`
}

func runRender(cmd *cobra.Command, args []string) error {
	p, err := buildPlan(cmd.Flags())
	if err != nil {
		return err
	}

	items := make([]renderItem, 0, len(p.descriptors))
	for _, d := range p.descriptors {
		item := renderItem{Descriptor: d}
		if renderFull {
			content, err := renderVhostFile(p, d)
			if err != nil {
				return err
			}
			item.Content = content
		}
		items = append(items, item)
	}

	if jsonOutput {
		return output.JSON(items)
	}

	if len(items) == 0 {
		output.Info("No vhosts to declare")
		return nil
	}

	for i, item := range items {
		if i > 0 {
			output.Print("")
		}
		title := fmt.Sprintf("%s (port %d, ssl %s)", item.Name, item.Port, yesNo(item.SSL))
		if renderFull {
			output.Block(title, item.Content)
		} else {
			output.Block(title, item.Fragment)
		}
	}
	return nil
}
