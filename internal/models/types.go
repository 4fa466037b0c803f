// Package models defines the domain types shared across the datacat
// pipeline: schema variants, file groups, provenance records, artifact
// references, and the error taxonomy used for per-group failure handling.
package models

// SchemaVariant identifies one of the supported descriptor schemas.
// Each variant carries its own filename conventions, required member
// roles, and output shape.
type SchemaVariant string

const (
	// VariantRawMeasurement pairs a compressed raw-data file with a
	// compressed flat key=value metadata file (L0 measurement data).
	VariantRawMeasurement SchemaVariant = "raw-measurement"

	// VariantSimulationV1 is the legacy simulation descriptor with flat
	// scalar hash fields, retained for compatibility with already
	// published records.
	VariantSimulationV1 SchemaVariant = "simulation-v1"

	// VariantSimulationV2 is the current simulation descriptor with
	// nested {hash, location} objects and timestamp-versioned metadata.
	VariantSimulationV2 SchemaVariant = "simulation-v2"

	// VariantDualStream pairs primary and secondary compressed streams,
	// each with its own JSON-LD metadata.
	VariantDualStream SchemaVariant = "dual-stream"
)

// ParseVariant maps a configuration string to a SchemaVariant.
func ParseVariant(s string) (SchemaVariant, bool) {
	switch SchemaVariant(s) {
	case VariantRawMeasurement, VariantSimulationV1, VariantSimulationV2, VariantDualStream:
		return SchemaVariant(s), true
	}
	return "", false
}

// AllVariants lists every supported variant in processing order.
func AllVariants() []SchemaVariant {
	return []SchemaVariant{
		VariantRawMeasurement,
		VariantSimulationV1,
		VariantSimulationV2,
		VariantDualStream,
	}
}

// Role names a member of a file group. The set of required roles is
// determined by the group's schema variant.
type Role string

const (
	RoleRawData           Role = "rawData"
	RoleMetadata          Role = "metadata"
	RoleInputData         Role = "inputData"
	RoleInputMetadata     Role = "inputMetadata"
	RoleOutputData        Role = "outputData"
	RoleOutputMetadata    Role = "outputMetadata"
	RolePrimary           Role = "primary"
	RoleSecondary         Role = "secondary"
	RolePrimaryMetadata   Role = "primaryMetadata"
	RoleSecondaryMetadata Role = "secondaryMetadata"
)

// FileGroup is one complete processing unit: a base name, its schema
// variant, and the resolved on-disk path for every required role.
// Groups are only constructed complete; the resolver drops anything
// with missing members before it reaches the pipeline.
type FileGroup struct {
	// BaseName is the shared filename prefix that identifies the group.
	BaseName string

	// Variant selects the descriptor schema for this group.
	Variant SchemaVariant

	// Paths maps each required role to an existing file path.
	Paths map[Role]string
}

// Path returns the resolved path for a role, or "" if the role is not
// bound in this group.
func (g FileGroup) Path(role Role) string {
	return g.Paths[role]
}

// ArtifactReference ties a content hash to a location. Location is
// either a logical root-relative path derived from metadata or the
// literal on-disk path, depending on the variant's location rule.
type ArtifactReference struct {
	Hash     string `json:"hash"`
	Location string `json:"location"`
}

// ProvenanceRecord holds the provenance attributes extracted from a
// group's metadata members. Empty strings mean the attribute was not
// present in the source; the assembler renders those as JSON null where
// the schema allows it.
type ProvenanceRecord struct {
	// ID is the dataset or file title.
	ID string

	// Type is the processing-level tag (e.g. "L0", "S0", "S1").
	Type string

	// GenerationDate is an ISO-ish timestamp string.
	GenerationDate string

	// SiteName is the site institution name.
	SiteName string

	// CollaboratorName is the responsible collaborator, when recorded.
	CollaboratorName string

	// Orcid is the responsible party's ORCID identifier.
	Orcid string

	// AccessURL is the public access URL, when the metadata exposes one.
	AccessURL string

	// RootPath is the detector/root identifier from flat metadata, used
	// to synthesize logical locations.
	RootPath string

	// ServesDataset is the canonical content location from a JSON-LD
	// "servesDataset" back-reference, when present.
	ServesDataset string
}
