package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/datacat/internal/catalog"
	"github.com/harrison/datacat/internal/config"
	"github.com/harrison/datacat/internal/filelock"
	"github.com/harrison/datacat/internal/logger"
	"github.com/harrison/datacat/internal/pipeline"
)

// runFlags holds the CLI overrides applied on top of the config file.
type runFlags struct {
	configPath  string
	inputDir    string
	outputDir   string
	metadataDir string
	variants    []string
	logLevel    string
	noCatalog   bool
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Discover file groups and emit descriptors",
		Long: `Run the cataloging batch: discover complete file groups in the input
directory, hash every member, extract provenance from the metadata
members, and write one descriptor JSON per group to the output
directory.

Configuration is loaded from .datacat/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  datacat run
  datacat run --input ./input --output ./output --metadata ./metadata
  datacat run --variant raw-measurement --variant dual-stream
  datacat run --log-level debug --no-catalog`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, flags)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", config.DefaultPath, "path to configuration file")
	cmd.Flags().StringVarP(&flags.inputDir, "input", "i", "", "input directory (overrides config)")
	cmd.Flags().StringVarP(&flags.outputDir, "output", "o", "", "output directory (overrides config)")
	cmd.Flags().StringVarP(&flags.metadataDir, "metadata", "m", "", "metadata directory (overrides config)")
	cmd.Flags().StringArrayVar(&flags.variants, "variant", nil, "schema variant to process (repeatable; overrides config)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides config)")
	cmd.Flags().BoolVar(&flags.noCatalog, "no-catalog", false, "disable descriptor catalog recording")

	return cmd
}

// loadConfig merges the config file with CLI overrides.
func loadConfig(flags *runFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.inputDir != "" {
		cfg.InputDir = flags.inputDir
	}
	if flags.outputDir != "" {
		cfg.OutputDir = flags.outputDir
	}
	if flags.metadataDir != "" {
		cfg.MetadataDir = flags.metadataDir
	}
	if len(flags.variants) > 0 {
		cfg.Variants = flags.variants
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.noCatalog {
		cfg.Catalog.Enabled = false
	}
	return cfg, nil
}

func runPipeline(cmd *cobra.Command, flags *runFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	variants, err := cfg.SchemaVariants()
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.LogLevel)

	// One batch at a time: concurrent runs would interleave catalog
	// writes and diagnostics.
	lock, err := filelock.NewRunLock(cfg.LockPath)
	if err != nil {
		return err
	}
	acquired, err := lock.TryAcquire()
	if err != nil {
		return err
	}
	if !acquired {
		return errors.New("another datacat run is in progress")
	}
	defer lock.Release()

	var store *catalog.Store
	if cfg.Catalog.Enabled {
		store, err = catalog.Open(cfg.Catalog.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	p := pipeline.New(pipeline.Options{
		InputDir:    cfg.InputDir,
		OutputDir:   cfg.OutputDir,
		MetadataDir: cfg.MetadataDir,
		Variants:    variants,
		Logger:      log,
		Catalog:     store,
	})

	summary, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nRun %s complete:\n", summary.RunID)
	fmt.Fprintf(out, "  Groups found: %d\n", summary.Groups)
	fmt.Fprintf(out, "  Descriptors written: %d\n", summary.Written)
	fmt.Fprintf(out, "  Skipped: %d\n", summary.Skipped)
	return nil
}
