// Command wizardctl inspects the wizard routing tables offline: which backend
// step codes a position loads, what state a URL encodes and how option codes
// translate.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var defaultCategories = []string{"Aluminium", "Iron and Steel", "Cement", "Fertilisers", "Hydrogen", "Electricity"}

type options struct {
	output     string
	basePath   string
	categories []string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "wizardctl",
		Short:         "Inspect CBAM wizard routing offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unknown output %q, use %s or %s", opts.output, outputJSON, outputYAML)
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputYAML, "output format (yaml, json)")
	root.PersistentFlags().StringVar(&opts.basePath, "base-path", "/new-calculation", "wizard base path")
	root.PersistentFlags().StringSliceVar(&opts.categories, "categories", defaultCategories, "product categories")

	root.AddCommand(
		newResolveCmd(opts),
		newParseCmd(opts),
		newTranslateCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
