// Package pipeline runs the cataloging batch: group discovery,
// hashing, provenance extraction, descriptor assembly, and
// persistence. Processing is strictly sequential and every failure is
// local to its group; a bad group is logged and skipped, never fatal.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/harrison/datacat/internal/catalog"
	"github.com/harrison/datacat/internal/descriptor"
	"github.com/harrison/datacat/internal/groups"
	"github.com/harrison/datacat/internal/hash"
	"github.com/harrison/datacat/internal/logger"
	"github.com/harrison/datacat/internal/metadata"
	"github.com/harrison/datacat/internal/models"
)

// Options configures a pipeline run.
type Options struct {
	InputDir    string
	OutputDir   string
	MetadataDir string

	// Variants lists the schema variants to process, in order.
	Variants []models.SchemaVariant

	// Logger receives per-group diagnostics. Required.
	Logger logger.Logger

	// Catalog records emitted descriptors when non-nil.
	Catalog *catalog.Store
}

// Summary reports the outcome of one run.
type Summary struct {
	// RunID tags this batch in logs and catalog rows.
	RunID string

	// Groups is the number of complete groups discovered.
	Groups int

	// Written is the number of descriptors emitted.
	Written int

	// Skipped counts dropped candidates and failed groups.
	Skipped int

	// Outputs lists the emitted descriptor paths.
	Outputs []string
}

// Pipeline executes the cataloging batch over a directory pair.
type Pipeline struct {
	opts     Options
	resolver *groups.Resolver
}

// New creates a Pipeline from opts.
func New(opts Options) *Pipeline {
	return &Pipeline{
		opts: opts,
		resolver: &groups.Resolver{
			InputDir:    opts.InputDir,
			MetadataDir: opts.MetadataDir,
		},
	}
}

// Run processes every configured variant. Groups are fully resolved,
// hashed, extracted, and written one at a time. Only an uncreatable
// output directory or an unreadable input directory aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if err := os.MkdirAll(p.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", p.opts.OutputDir, err)
	}

	summary := &Summary{RunID: uuid.NewString()}
	p.opts.Logger.LogDebug(fmt.Sprintf("starting run %s (input=%s output=%s metadata=%s)",
		summary.RunID, p.opts.InputDir, p.opts.OutputDir, p.opts.MetadataDir))

	for _, variant := range p.opts.Variants {
		found, skips, err := p.resolver.FindGroups(variant)
		if err != nil {
			return nil, fmt.Errorf("discover %s groups: %w", variant, err)
		}
		for _, skip := range skips {
			summary.Skipped++
			p.opts.Logger.LogWarn(fmt.Sprintf("skipping group %s (%s): %v", skip.BaseName, skip.Variant, skip.Err))
		}
		summary.Groups += len(found)

		for _, group := range found {
			outputPath, err := p.processGroup(ctx, group, summary.RunID)
			if err != nil {
				summary.Skipped++
				p.opts.Logger.LogWarn(fmt.Sprintf("skipping group %s (%s): %v", group.BaseName, group.Variant, err))
				continue
			}
			summary.Written++
			summary.Outputs = append(summary.Outputs, outputPath)
			p.opts.Logger.LogInfo("generated descriptor: " + outputPath)
		}
	}

	return summary, nil
}

// processGroup takes one complete group through hash, extract,
// assemble, write, and catalog recording. Any error means the group
// is abandoned with nothing written.
func (p *Pipeline) processGroup(ctx context.Context, group models.FileGroup, runID string) (string, error) {
	layout, ok := descriptor.Plan(group.Variant)
	if !ok {
		return "", fmt.Errorf("unknown schema variant %q", group.Variant)
	}

	hashes := make(map[models.Role]string, len(layout.HashModes))
	for role, mode := range layout.HashModes {
		digest, err := hash.File(group.Path(role), mode)
		if err != nil {
			return "", err
		}
		hashes[role] = digest
	}

	prov := make(map[models.Role]*models.ProvenanceRecord, len(layout.Metadata))
	for role, enc := range layout.Metadata {
		record, err := metadata.Extract(group.Path(role), enc)
		if err != nil {
			return "", err
		}
		prov[role] = record
	}

	d, err := descriptor.Assemble(group, hashes, prov)
	if err != nil {
		return "", err
	}

	outputPath, err := descriptor.Write(p.opts.OutputDir, d)
	if err != nil {
		return "", err
	}

	if p.opts.Catalog != nil {
		entry := catalog.Entry{
			ID:             d.ID,
			Variant:        d.Variant,
			OutputPath:     outputPath,
			RunID:          runID,
			GenerationDate: d.GenerationDate,
			WrittenAt:      nowUTC(),
		}
		if err := p.opts.Catalog.Record(ctx, entry); err != nil {
			// The descriptor is already on disk; a catalog failure is
			// not a reason to report the group as skipped.
			p.opts.Logger.LogWarn(fmt.Sprintf("catalog record %s: %v", d.ID, err))
		}
	}

	return outputPath, nil
}
