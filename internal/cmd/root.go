package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for datacat
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datacat",
		Short: "Catalog measurement and simulation output into descriptor records",
		Long: `Datacat groups related raw-data, input, and metadata files by naming
convention, computes content-integrity hashes over each member, extracts
provenance from flat key=value and JSON-LD metadata, and emits one
normalized JSON descriptor per complete group.

Incomplete groups are skipped with a diagnostic; they are never
partially emitted.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewCatalogCommand())

	return cmd
}
