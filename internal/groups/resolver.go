package groups

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harrison/datacat/internal/fileutil"
	"github.com/harrison/datacat/internal/models"
)

// Filename conventions per variant. The dot prefix on metadata names
// comes from the harvester that writes them; it is part of the
// contract, not a hidden-file accident.
const (
	rawDataSuffix   = ".dat.bz2"
	rawMetaSuffix   = ".mtd.bz2"
	inputSuffix     = ".input"
	rawSuffix       = ".bz2"
	outputSuffix    = ".lst.bz2"
	primarySuffix   = ".pri.bz2"
	secondarySuffix = ".sec.bz2"
	graphSuffix     = ".jsonld"
)

// Skip records a candidate group that was dropped during discovery,
// with the error explaining why.
type Skip struct {
	BaseName string
	Variant  models.SchemaVariant
	Err      error
}

// Resolver discovers file groups under a fixed directory pair. Every
// FindGroups call re-scans from scratch; nothing is cached between
// calls.
type Resolver struct {
	// InputDir holds the data members of every group.
	InputDir string

	// MetadataDir holds the dot-prefixed JSON-LD metadata files used by
	// the simulation and dual-stream variants.
	MetadataDir string
}

// FindGroups enumerates the complete groups of one schema variant.
// Incomplete or malformed candidates are returned as Skips so the
// caller can log a diagnostic per dropped group; only an unreadable
// input directory is an error.
func (r *Resolver) FindGroups(variant models.SchemaVariant) ([]models.FileGroup, []Skip, error) {
	switch variant {
	case models.VariantRawMeasurement:
		return r.rawMeasurementGroups()
	case models.VariantSimulationV1:
		return r.simulationGroups(models.VariantSimulationV1)
	case models.VariantSimulationV2:
		return r.simulationGroups(models.VariantSimulationV2)
	case models.VariantDualStream:
		return r.dualStreamGroups()
	}
	return nil, nil, fmt.Errorf("unknown schema variant %q", variant)
}

// rawMeasurementGroups pairs {base}.dat.bz2 with {base}.mtd.bz2. A
// base name matched by an unexpected number of files is skipped rather
// than guessing which file is authoritative.
func (r *Resolver) rawMeasurementGroups() ([]models.FileGroup, []Skip, error) {
	scan, err := fileutil.ScanDirectory(r.InputDir, fileutil.ScanOptions{
		Suffixes: []string{rawDataSuffix, rawMetaSuffix},
	})
	if err != nil {
		return nil, nil, err
	}

	members := make(map[string][]string)
	var order []string
	for _, name := range scan.Names {
		base := strings.TrimSuffix(strings.TrimSuffix(name, rawDataSuffix), rawMetaSuffix)
		if _, seen := members[base]; !seen {
			order = append(order, base)
		}
		members[base] = append(members[base], name)
	}

	var groups []models.FileGroup
	var skips []Skip
	for _, base := range order {
		if len(members[base]) != 2 {
			skips = append(skips, Skip{
				BaseName: base,
				Variant:  models.VariantRawMeasurement,
				Err:      fmt.Errorf("expected a .dat.bz2/.mtd.bz2 pair, found %d files", len(members[base])),
			})
			continue
		}
		paths := map[models.Role]string{
			models.RoleRawData:  filepath.Join(r.InputDir, base+rawDataSuffix),
			models.RoleMetadata: filepath.Join(r.InputDir, base+rawMetaSuffix),
		}
		group, incomplete := r.gate(base, models.VariantRawMeasurement, paths,
			[]models.Role{models.RoleRawData, models.RoleMetadata})
		if incomplete != nil {
			skips = append(skips, Skip{BaseName: base, Variant: models.VariantRawMeasurement, Err: incomplete})
			continue
		}
		groups = append(groups, group)
	}
	return groups, skips, nil
}

// simulationGroups assembles the six-member simulation groups. The
// two schema versions share the data-member layout and differ only in
// how metadata paths are resolved: V1 uses fixed dotfile names, V2
// picks the latest timestamped version of each.
func (r *Resolver) simulationGroups(variant models.SchemaVariant) ([]models.FileGroup, []Skip, error) {
	scan, err := fileutil.ScanDirectory(r.InputDir, fileutil.ScanOptions{
		Suffixes: []string{inputSuffix},
	})
	if err != nil {
		return nil, nil, err
	}

	var groups []models.FileGroup
	var skips []Skip
	for _, name := range scan.Names {
		base := strings.TrimSuffix(name, inputSuffix)
		// The raw archive is shared by every parameterization of a run,
		// so its name is the base with any "-" qualifier stripped.
		rawBase, _, _ := strings.Cut(base, "-")

		paths := map[models.Role]string{
			models.RoleInputData:  filepath.Join(r.InputDir, base+inputSuffix),
			models.RoleRawData:    filepath.Join(r.InputDir, rawBase+rawSuffix),
			models.RoleOutputData: filepath.Join(r.InputDir, base+outputSuffix),
		}

		metaNames := []struct {
			role models.Role
			name string
		}{
			{models.RoleMetadata, rawBase + rawSuffix},
			{models.RoleInputMetadata, base + inputSuffix},
			{models.RoleOutputMetadata, base + outputSuffix},
		}
		var missingMeta []string
		skipGroup := false
		for _, m := range metaNames {
			if variant == models.VariantSimulationV1 {
				paths[m.role] = filepath.Join(r.MetadataDir, "."+m.name+graphSuffix)
				continue
			}
			resolved, err := ResolveLatest(r.MetadataDir, m.name, graphSuffix)
			if err != nil {
				skips = append(skips, Skip{BaseName: base, Variant: variant, Err: err})
				skipGroup = true
				break
			}
			if resolved == "" {
				missingMeta = append(missingMeta, "."+m.name+graphSuffix+".<timestamp>")
				continue
			}
			paths[m.role] = resolved
		}
		if skipGroup {
			continue
		}
		if len(missingMeta) > 0 {
			skips = append(skips, Skip{
				BaseName: base,
				Variant:  variant,
				Err:      &models.IncompleteGroupError{BaseName: base, Variant: variant, Missing: missingMeta},
			})
			continue
		}

		group, incomplete := r.gate(base, variant, paths, []models.Role{
			models.RoleInputData, models.RoleRawData, models.RoleOutputData,
			models.RoleMetadata, models.RoleInputMetadata, models.RoleOutputMetadata,
		})
		if incomplete != nil {
			skips = append(skips, Skip{BaseName: base, Variant: variant, Err: incomplete})
			continue
		}
		groups = append(groups, group)
	}
	return groups, skips, nil
}

// dualStreamGroups pairs {base}.pri.bz2 with {base}.sec.bz2 plus a
// JSON-LD metadata file per stream.
func (r *Resolver) dualStreamGroups() ([]models.FileGroup, []Skip, error) {
	scan, err := fileutil.ScanDirectory(r.InputDir, fileutil.ScanOptions{
		Suffixes: []string{primarySuffix},
	})
	if err != nil {
		return nil, nil, err
	}

	var groups []models.FileGroup
	var skips []Skip
	for _, name := range scan.Names {
		base := strings.TrimSuffix(name, primarySuffix)
		paths := map[models.Role]string{
			models.RolePrimary:           filepath.Join(r.InputDir, base+primarySuffix),
			models.RoleSecondary:         filepath.Join(r.InputDir, base+secondarySuffix),
			models.RolePrimaryMetadata:   filepath.Join(r.MetadataDir, "."+base+primarySuffix+graphSuffix),
			models.RoleSecondaryMetadata: filepath.Join(r.MetadataDir, "."+base+secondarySuffix+graphSuffix),
		}
		group, incomplete := r.gate(base, models.VariantDualStream, paths, []models.Role{
			models.RolePrimary, models.RoleSecondary,
			models.RolePrimaryMetadata, models.RoleSecondaryMetadata,
		})
		if incomplete != nil {
			skips = append(skips, Skip{BaseName: base, Variant: models.VariantDualStream, Err: incomplete})
			continue
		}
		groups = append(groups, group)
	}
	return groups, skips, nil
}

// gate enforces the completeness invariant: every required role must
// map to an existing regular file or the whole group is dropped.
func (r *Resolver) gate(base string, variant models.SchemaVariant, paths map[models.Role]string, order []models.Role) (models.FileGroup, *models.IncompleteGroupError) {
	var missing []string
	for _, role := range order {
		if !fileutil.Exists(paths[role]) {
			missing = append(missing, paths[role])
		}
	}
	if len(missing) > 0 {
		return models.FileGroup{}, &models.IncompleteGroupError{
			BaseName: base,
			Variant:  variant,
			Missing:  missing,
		}
	}
	return models.FileGroup{BaseName: base, Variant: variant, Paths: paths}, nil
}
