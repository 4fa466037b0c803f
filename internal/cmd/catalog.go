package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/datacat/internal/catalog"
	"github.com/harrison/datacat/internal/config"
)

// NewCatalogCommand creates the catalog subcommand
func NewCatalogCommand() *cobra.Command {
	configPath := ""

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List descriptors recorded in the catalog database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg.Catalog.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "catalog is empty")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %-16s %s  (run %s)\n",
					e.WrittenAt.Format("2006-01-02 15:04:05"), e.Variant, e.ID, e.RunID)
			}
			fmt.Fprintf(out, "\n%d descriptor(s) recorded\n", len(entries))
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to configuration file")

	return cmd
}
