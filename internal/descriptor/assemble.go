package descriptor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harrison/datacat/internal/models"
)

// rawMeasurementType is the processing-level tag for measurement
// groups. Simulation variants carry their tag in the metadata title;
// measurement metadata does not, so the tag is fixed.
const rawMeasurementType = "L0"

// Descriptor is the assembled output unit for one file group.
type Descriptor struct {
	// ID is the descriptor identity and output filename stem.
	ID string

	// Variant is the schema the payload follows.
	Variant models.SchemaVariant

	// GenerationDate is the record's generation timestamp, "" when the
	// variant allows it to be unknown.
	GenerationDate string

	payload any
}

// Assemble builds the variant-shaped descriptor from a complete group,
// its member hashes, and the provenance extracted from its metadata
// members. It performs no I/O.
func Assemble(group models.FileGroup, hashes map[models.Role]string, prov map[models.Role]*models.ProvenanceRecord) (*Descriptor, error) {
	layout, ok := Plan(group.Variant)
	if !ok {
		return nil, fmt.Errorf("unknown schema variant %q", group.Variant)
	}
	return layout.build(group, hashes, prov)
}

// nullable renders an empty string as JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// rootSegment extracts the first path segment of a servesDataset
// location ("/S1/file" -> "S1").
func rootSegment(location string) string {
	for _, seg := range strings.Split(location, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

type rawMeasurementDescriptor struct {
	ID               string                   `json:"Id"`
	Type             string                   `json:"type"`
	GenerationDate   *string                  `json:"generationDate"`
	Metadata         models.ArtifactReference `json:"metadata"`
	RawData          models.ArtifactReference `json:"rawData"`
	SiteName         string                   `json:"siteName"`
	CollaboratorName *string                  `json:"collaboratorName"`
	Orcid            *string                  `json:"orcid"`
}

func buildRawMeasurement(group models.FileGroup, hashes map[models.Role]string, prov map[models.Role]*models.ProvenanceRecord) (*Descriptor, error) {
	p := prov[models.RoleMetadata]
	generated := measurementDate(group.BaseName)

	payload := rawMeasurementDescriptor{
		ID:             group.BaseName,
		Type:           rawMeasurementType,
		GenerationDate: nullable(generated),
		Metadata: models.ArtifactReference{
			Hash:     hashes[models.RoleMetadata],
			Location: "/" + p.RootPath + "/" + filepath.Base(group.Path(models.RoleMetadata)),
		},
		RawData: models.ArtifactReference{
			Hash:     hashes[models.RoleRawData],
			Location: "/" + p.RootPath + "/" + filepath.Base(group.Path(models.RoleRawData)),
		},
		SiteName:         p.SiteName,
		CollaboratorName: nullable(p.CollaboratorName),
		Orcid:            nullable(p.Orcid),
	}
	return &Descriptor{
		ID:             group.BaseName,
		Variant:        group.Variant,
		GenerationDate: generated,
		payload:        payload,
	}, nil
}

// measurementDate derives the generation date from a measurement base
// name of the form detector_site_YYYYMMDD_HHhMM. Base names with fewer
// segments yield "" (rendered null); the date is a filename
// convenience, not a mandatory provenance field for this variant.
func measurementDate(baseName string) string {
	parts := strings.SplitN(baseName, "_", 4)
	if len(parts) != 4 {
		return ""
	}
	return parts[2] + " " + strings.Replace(parts[3], "h", ":", 1) + ":00"
}

type simulationV1Descriptor struct {
	ID               string  `json:"Id"`
	Type             string  `json:"type"`
	GenerationDate   *string `json:"generationDate"`
	Metadata         string  `json:"metadata"`
	RawData          string  `json:"rawData"`
	InputData        string  `json:"inputData"`
	InputMetadata    string  `json:"inputMetadata"`
	OutputData       string  `json:"outputData"`
	OutputMetadata   string  `json:"outputMetadata"`
	SiteName         string  `json:"siteName"`
	CollaboratorName *string `json:"collaboratorName"`
	Orcid            *string `json:"orcid"`
	AccessURL        *string `json:"accessUrl"`
}

// buildSimulationV1 produces the legacy flat-hash shape. It stays
// byte-compatible with already-published records, which is the only
// reason the shape survives alongside V2.
func buildSimulationV1(group models.FileGroup, hashes map[models.Role]string, prov map[models.Role]*models.ProvenanceRecord) (*Descriptor, error) {
	p := prov[models.RoleMetadata]
	id := strings.TrimSuffix(p.ID, ".bz2")

	payload := simulationV1Descriptor{
		ID:               id,
		Type:             p.Type,
		GenerationDate:   nullable(p.GenerationDate),
		Metadata:         hashes[models.RoleMetadata],
		RawData:          hashes[models.RoleRawData],
		InputData:        hashes[models.RoleInputData],
		InputMetadata:    hashes[models.RoleInputMetadata],
		OutputData:       hashes[models.RoleOutputData],
		OutputMetadata:   hashes[models.RoleOutputMetadata],
		SiteName:         p.SiteName,
		CollaboratorName: nullable(p.CollaboratorName),
		Orcid:            nullable(p.Orcid),
		AccessURL:        nullable(p.AccessURL),
	}
	return &Descriptor{
		ID:             id,
		Variant:        group.Variant,
		GenerationDate: p.GenerationDate,
		payload:        payload,
	}, nil
}

type simulationV2Descriptor struct {
	ID               string                   `json:"Id"`
	Type             string                   `json:"type"`
	GenerationDate   *string                  `json:"generationDate"`
	Metadata         models.ArtifactReference `json:"metadata"`
	RawData          models.ArtifactReference `json:"rawData"`
	InputData        models.ArtifactReference `json:"inputData"`
	InputMetadata    models.ArtifactReference `json:"inputMetadata"`
	OutputData       models.ArtifactReference `json:"outputData"`
	OutputMetadata   models.ArtifactReference `json:"outputMetadata"`
	SiteName         string                   `json:"siteName"`
	CollaboratorName *string                  `json:"collaboratorName"`
	Orcid            *string                  `json:"orcid"`
	AccessURL        *string                  `json:"accessUrl"`
}

func buildSimulationV2(group models.FileGroup, hashes map[models.Role]string, prov map[models.Role]*models.ProvenanceRecord) (*Descriptor, error) {
	p := prov[models.RoleMetadata]
	if p.GenerationDate == "" {
		return nil, &models.MissingFieldError{
			Path:  group.Path(models.RoleMetadata),
			Field: "prov:endedAtTime",
		}
	}

	// The logical root comes from the raw member's canonical location;
	// when no graph node exposes one, fall back to the type tag so
	// synthesized locations stay root-relative.
	rootPath := rootSegment(p.ServesDataset)
	if rootPath == "" {
		rootPath = p.Type
	}

	locate := func(dataRole, metaRole models.Role) (data, meta models.ArtifactReference) {
		dataLocation := prov[metaRole].ServesDataset
		if dataLocation == "" {
			dataLocation = "/" + rootPath + "/" + filepath.Base(group.Path(dataRole))
		}
		data = models.ArtifactReference{Hash: hashes[dataRole], Location: dataLocation}
		meta = models.ArtifactReference{
			Hash:     hashes[metaRole],
			Location: "/" + rootPath + "/" + filepath.Base(group.Path(metaRole)),
		}
		return data, meta
	}

	rawData, rawMeta := locate(models.RoleRawData, models.RoleMetadata)
	inputData, inputMeta := locate(models.RoleInputData, models.RoleInputMetadata)
	outputData, outputMeta := locate(models.RoleOutputData, models.RoleOutputMetadata)

	id := strings.TrimSuffix(p.ID, ".bz2")
	payload := simulationV2Descriptor{
		ID:               id,
		Type:             p.Type,
		GenerationDate:   nullable(p.GenerationDate),
		Metadata:         rawMeta,
		RawData:          rawData,
		InputData:        inputData,
		InputMetadata:    inputMeta,
		OutputData:       outputData,
		OutputMetadata:   outputMeta,
		SiteName:         p.SiteName,
		CollaboratorName: nullable(p.CollaboratorName),
		Orcid:            nullable(p.Orcid),
		AccessURL:        nullable(p.AccessURL),
	}
	return &Descriptor{
		ID:             id,
		Variant:        group.Variant,
		GenerationDate: p.GenerationDate,
		payload:        payload,
	}, nil
}

type streamPair struct {
	Primary   models.ArtifactReference `json:"primary"`
	Secondary models.ArtifactReference `json:"secondary"`
}

type dualStreamDescriptor struct {
	ID               string     `json:"Id"`
	Type             string     `json:"type"`
	GenerationDate   *string    `json:"generationDate"`
	Metadata         streamPair `json:"metadata"`
	RawData          streamPair `json:"rawData"`
	SiteName         string     `json:"siteName"`
	CollaboratorName *string    `json:"collaboratorName"`
	Orcid            *string    `json:"orcid"`
	AccessURL        *string    `json:"accessUrl"`
}

func buildDualStream(group models.FileGroup, hashes map[models.Role]string, prov map[models.Role]*models.ProvenanceRecord) (*Descriptor, error) {
	p := prov[models.RolePrimaryMetadata]
	s := prov[models.RoleSecondaryMetadata]

	if p.GenerationDate == "" {
		return nil, &models.MissingFieldError{
			Path:  group.Path(models.RolePrimaryMetadata),
			Field: "prov:endedAtTime",
		}
	}
	if p.ServesDataset == "" {
		return nil, &models.MissingFieldError{
			Path:  group.Path(models.RolePrimaryMetadata),
			Field: "servesDataset",
		}
	}
	rootPath := rootSegment(p.ServesDataset)

	secondaryLocation := s.ServesDataset
	if secondaryLocation == "" {
		secondaryLocation = "/" + rootPath + "/" + filepath.Base(group.Path(models.RoleSecondary))
	}

	id := strings.TrimSuffix(p.ID, ".pri.bz2")
	payload := dualStreamDescriptor{
		ID:             id,
		Type:           p.Type,
		GenerationDate: nullable(p.GenerationDate),
		Metadata: streamPair{
			Primary: models.ArtifactReference{
				Hash:     hashes[models.RolePrimaryMetadata],
				Location: "/" + rootPath + "/" + filepath.Base(group.Path(models.RolePrimaryMetadata)),
			},
			Secondary: models.ArtifactReference{
				Hash:     hashes[models.RoleSecondaryMetadata],
				Location: "/" + rootPath + "/" + filepath.Base(group.Path(models.RoleSecondaryMetadata)),
			},
		},
		RawData: streamPair{
			Primary: models.ArtifactReference{
				Hash:     hashes[models.RolePrimary],
				Location: p.ServesDataset,
			},
			Secondary: models.ArtifactReference{
				Hash:     hashes[models.RoleSecondary],
				Location: secondaryLocation,
			},
		},
		SiteName:         p.SiteName,
		CollaboratorName: nullable(p.CollaboratorName),
		Orcid:            nullable(p.Orcid),
		AccessURL:        nullable(p.AccessURL),
	}
	return &Descriptor{
		ID:             id,
		Variant:        group.Variant,
		GenerationDate: p.GenerationDate,
		payload:        payload,
	}, nil
}
