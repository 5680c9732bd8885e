package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "papergraph",
		Short: "papergraph - interactive conference paper similarity maps",
		Long: `Papergraph renders a corpus of conference papers as an interactive
2D similarity graph: papers positioned by a precomputed projection or a
force-directed layout, with search, cluster coloring, and hover-driven
neighborhood highlighting.`,
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newPreviewCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newImportCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
