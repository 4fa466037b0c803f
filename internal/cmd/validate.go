package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/datacat/internal/config"
	"github.com/harrison/datacat/internal/groups"
	"github.com/harrison/datacat/internal/models"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Resolve file groups and report completeness without writing",
		Long: `Resolve candidate file groups for every configured schema variant and
report which are complete and which would be skipped, without hashing
anything or writing descriptors.

Exit code: 0 always; incomplete groups are reported, not errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			variants, err := cfg.SchemaVariants()
			if err != nil {
				return err
			}
			resolver := &groups.Resolver{
				InputDir:    cfg.InputDir,
				MetadataDir: cfg.MetadataDir,
			}
			return validateGroups(resolver, variants, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", config.DefaultPath, "path to configuration file")
	cmd.Flags().StringVarP(&flags.inputDir, "input", "i", "", "input directory (overrides config)")
	cmd.Flags().StringVarP(&flags.metadataDir, "metadata", "m", "", "metadata directory (overrides config)")
	cmd.Flags().StringArrayVar(&flags.variants, "variant", nil, "schema variant to check (repeatable; overrides config)")

	return cmd
}

func validateGroups(resolver *groups.Resolver, variants []models.SchemaVariant, out io.Writer) error {
	total, dropped := 0, 0
	for _, variant := range variants {
		found, skips, err := resolver.FindGroups(variant)
		if err != nil {
			return err
		}
		for _, group := range found {
			total++
			fmt.Fprintf(out, "ok    %-16s %s\n", group.Variant, group.BaseName)
		}
		for _, skip := range skips {
			dropped++
			fmt.Fprintf(out, "skip  %-16s %s: %v\n", skip.Variant, skip.BaseName, skip.Err)
		}
	}
	fmt.Fprintf(out, "\n%d complete group(s), %d would be skipped\n", total, dropped)
	return nil
}
