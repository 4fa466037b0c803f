// Package descriptor assembles and persists the normalized JSON
// descriptor records emitted per complete file group.
//
// A single layout table drives everything variant-specific: which
// roles get hashed and in what mode, which members carry metadata and
// in which encoding, and which builder produces the output shape. The
// assembler itself is one pure function over {group, hashes,
// provenance}; adding a variant means adding a table entry, not a new
// code path.
package descriptor

import (
	"github.com/harrison/datacat/internal/hash"
	"github.com/harrison/datacat/internal/metadata"
	"github.com/harrison/datacat/internal/models"
)

// Layout describes how one schema variant is processed.
type Layout struct {
	// HashModes maps every hashed member role to its hashing mode.
	HashModes map[models.Role]hash.Mode

	// Metadata maps the roles whose content is extracted for
	// provenance to their encoding.
	Metadata map[models.Role]metadata.Encoding

	build buildFunc
}

type buildFunc func(group models.FileGroup, hashes map[models.Role]string, prov map[models.Role]*models.ProvenanceRecord) (*Descriptor, error)

var layouts = map[models.SchemaVariant]Layout{
	models.VariantRawMeasurement: {
		HashModes: map[models.Role]hash.Mode{
			models.RoleRawData:  hash.DecompressedBytes,
			models.RoleMetadata: hash.DecompressedBytes,
		},
		Metadata: map[models.Role]metadata.Encoding{
			models.RoleMetadata: metadata.FlatKeyValue,
		},
		build: buildRawMeasurement,
	},
	models.VariantSimulationV1: {
		HashModes: map[models.Role]hash.Mode{
			models.RoleRawData:        hash.DecompressedASCIIFiltered,
			models.RoleOutputData:     hash.DecompressedASCIIFiltered,
			models.RoleInputData:      hash.RawBytes,
			models.RoleMetadata:       hash.RawBytes,
			models.RoleInputMetadata:  hash.RawBytes,
			models.RoleOutputMetadata: hash.RawBytes,
		},
		Metadata: map[models.Role]metadata.Encoding{
			models.RoleMetadata: metadata.GraphDocument,
		},
		build: buildSimulationV1,
	},
	models.VariantSimulationV2: {
		HashModes: map[models.Role]hash.Mode{
			models.RoleRawData:        hash.DecompressedASCIIFiltered,
			models.RoleOutputData:     hash.DecompressedASCIIFiltered,
			models.RoleInputData:      hash.RawBytes,
			models.RoleMetadata:       hash.RawBytes,
			models.RoleInputMetadata:  hash.RawBytes,
			models.RoleOutputMetadata: hash.RawBytes,
		},
		Metadata: map[models.Role]metadata.Encoding{
			models.RoleMetadata:       metadata.GraphDocument,
			models.RoleInputMetadata:  metadata.GraphDocument,
			models.RoleOutputMetadata: metadata.GraphDocument,
		},
		build: buildSimulationV2,
	},
	models.VariantDualStream: {
		HashModes: map[models.Role]hash.Mode{
			models.RolePrimary:           hash.DecompressedBytes,
			models.RoleSecondary:         hash.DecompressedBytes,
			models.RolePrimaryMetadata:   hash.RawBytes,
			models.RoleSecondaryMetadata: hash.RawBytes,
		},
		Metadata: map[models.Role]metadata.Encoding{
			models.RolePrimaryMetadata:   metadata.GraphDocument,
			models.RoleSecondaryMetadata: metadata.GraphDocument,
		},
		build: buildDualStream,
	},
}

// Plan returns the layout for a variant.
func Plan(variant models.SchemaVariant) (Layout, bool) {
	l, ok := layouts[variant]
	return l, ok
}
