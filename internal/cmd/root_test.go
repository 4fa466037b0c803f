package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/datacat/internal/groups"
	"github.com/harrison/datacat/internal/models"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "datacat" {
		t.Errorf("Use = %q, want datacat", cmd.Use)
	}

	subcommands := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}
	for _, name := range []string{"run", "validate", "catalog"} {
		if !subcommands[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCommandUnknownSubcommand(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"frobnicate"})

	if err := cmd.Execute(); err == nil {
		t.Error("unknown subcommand must fail")
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	flags := &runFlags{
		configPath: filepath.Join(t.TempDir(), "absent.yaml"),
		inputDir:   "/cli/in",
		variants:   []string{"dual-stream"},
		logLevel:   "debug",
		noCatalog:  true,
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.InputDir != "/cli/in" {
		t.Errorf("InputDir = %q, want flag value", cfg.InputDir)
	}
	if cfg.OutputDir != "./output" {
		t.Errorf("OutputDir = %q, want default retained", cfg.OutputDir)
	}
	if len(cfg.Variants) != 1 || cfg.Variants[0] != "dual-stream" {
		t.Errorf("Variants = %v", cfg.Variants)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Catalog.Enabled {
		t.Error("--no-catalog must disable the catalog")
	}
}

func TestValidateGroupsOutput(t *testing.T) {
	inputDir := t.TempDir()
	metadataDir := t.TempDir()
	for _, name := range []string{"run1.dat.bz2", "run1.mtd.bz2", "run2.dat.bz2"} {
		if err := os.WriteFile(filepath.Join(inputDir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	resolver := &groups.Resolver{InputDir: inputDir, MetadataDir: metadataDir}
	var buf bytes.Buffer
	err := validateGroups(resolver, []models.SchemaVariant{models.VariantRawMeasurement}, &buf)
	if err != nil {
		t.Fatalf("validateGroups() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "ok") || !strings.Contains(output, "run1") {
		t.Errorf("output missing complete group line:\n%s", output)
	}
	if !strings.Contains(output, "skip") || !strings.Contains(output, "run2") {
		t.Errorf("output missing skip line:\n%s", output)
	}
	if !strings.Contains(output, "1 complete group(s), 1 would be skipped") {
		t.Errorf("output missing summary line:\n%s", output)
	}
}
