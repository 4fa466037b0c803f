package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/datacat/internal/models"
)

func strPtr(s string) *string { return &s }

func rawMeasurementGroup() models.FileGroup {
	return models.FileGroup{
		BaseName: "chimbito_SiteX_20240101_12h30",
		Variant:  models.VariantRawMeasurement,
		Paths: map[models.Role]string{
			models.RoleRawData:  "input/chimbito_SiteX_20240101_12h30.dat.bz2",
			models.RoleMetadata: "input/chimbito_SiteX_20240101_12h30.mtd.bz2",
		},
	}
}

func TestAssembleRawMeasurement(t *testing.T) {
	group := rawMeasurementGroup()
	hashes := map[models.Role]string{
		models.RoleRawData:  "dathash",
		models.RoleMetadata: "mtdhash",
	}
	prov := map[models.Role]*models.ProvenanceRecord{
		models.RoleMetadata: {
			RootPath:         "HALL_A",
			SiteName:         "SiteX",
			CollaboratorName: "A. Collaborator",
			Orcid:            "0000-0001",
		},
	}

	d, err := Assemble(group, hashes, prov)
	require.NoError(t, err)
	assert.Equal(t, "chimbito_SiteX_20240101_12h30", d.ID)
	assert.Equal(t, "20240101 12:30:00", d.GenerationDate)

	payload, ok := d.payload.(rawMeasurementDescriptor)
	require.True(t, ok)
	assert.Equal(t, "L0", payload.Type)
	assert.Equal(t, "/HALL_A/chimbito_SiteX_20240101_12h30.mtd.bz2", payload.Metadata.Location)
	assert.Equal(t, "mtdhash", payload.Metadata.Hash)
	assert.Equal(t, "/HALL_A/chimbito_SiteX_20240101_12h30.dat.bz2", payload.RawData.Location)
	assert.Equal(t, "SiteX", payload.SiteName)
	assert.Equal(t, strPtr("A. Collaborator"), payload.CollaboratorName)
}

func TestAssembleRawMeasurementShortBaseName(t *testing.T) {
	group := rawMeasurementGroup()
	group.BaseName = "run1"
	group.Paths = map[models.Role]string{
		models.RoleRawData:  "input/run1.dat.bz2",
		models.RoleMetadata: "input/run1.mtd.bz2",
	}
	prov := map[models.Role]*models.ProvenanceRecord{
		models.RoleMetadata: {RootPath: "HALL_A", SiteName: "SiteX", Orcid: "0000"},
	}

	d, err := Assemble(group, map[models.Role]string{}, prov)
	require.NoError(t, err)

	payload := d.payload.(rawMeasurementDescriptor)
	// Base names without the det_site_date_time segments carry no
	// derivable date; the field is null, not a failure.
	assert.Nil(t, payload.GenerationDate)
	assert.Equal(t, "/HALL_A/run1.mtd.bz2", payload.Metadata.Location)
}

func simulationGroup(variant models.SchemaVariant) models.FileGroup {
	return models.FileGroup{
		BaseName: "sim_site_run",
		Variant:  variant,
		Paths: map[models.Role]string{
			models.RoleInputData:      "input/sim_site_run.input",
			models.RoleRawData:        "input/sim_site_run.bz2",
			models.RoleOutputData:     "input/sim_site_run.lst.bz2",
			models.RoleMetadata:       "metadata/.sim_site_run.bz2.jsonld",
			models.RoleInputMetadata:  "metadata/.sim_site_run.input.jsonld",
			models.RoleOutputMetadata: "metadata/.sim_site_run.lst.bz2.jsonld",
		},
	}
}

func simulationHashes() map[models.Role]string {
	return map[models.Role]string{
		models.RoleInputData:      "h-input",
		models.RoleRawData:        "h-raw",
		models.RoleOutputData:     "h-output",
		models.RoleMetadata:       "h-md",
		models.RoleInputMetadata:  "h-imd",
		models.RoleOutputMetadata: "h-omd",
	}
}

func TestAssembleSimulationV1FlatHashes(t *testing.T) {
	group := simulationGroup(models.VariantSimulationV1)
	prov := map[models.Role]*models.ProvenanceRecord{
		models.RoleMetadata: {
			ID:             "S0_bga_10_77402.bz2",
			Type:           "S0",
			SiteName:       "bga",
			GenerationDate: "2024-01-02T03:04:05Z",
			Orcid:          "0000-0001",
			AccessURL:      "https://registry.example.org/ds/1",
		},
	}

	d, err := Assemble(group, simulationHashes(), prov)
	require.NoError(t, err)
	assert.Equal(t, "S0_bga_10_77402", d.ID, "trailing .bz2 must be stripped")

	payload, ok := d.payload.(simulationV1Descriptor)
	require.True(t, ok)
	// The legacy shape carries bare hash strings, no nested objects.
	assert.Equal(t, "h-md", payload.Metadata)
	assert.Equal(t, "h-raw", payload.RawData)
	assert.Equal(t, "h-input", payload.InputData)
	assert.Equal(t, "h-imd", payload.InputMetadata)
	assert.Equal(t, "h-output", payload.OutputData)
	assert.Equal(t, "h-omd", payload.OutputMetadata)
	assert.Nil(t, payload.CollaboratorName)
	assert.Equal(t, strPtr("https://registry.example.org/ds/1"), payload.AccessURL)
}

func TestAssembleSimulationV2ServesDatasetLocations(t *testing.T) {
	group := simulationGroup(models.VariantSimulationV2)
	prov := map[models.Role]*models.ProvenanceRecord{
		models.RoleMetadata: {
			ID:             "S1_bga_60.bz2",
			Type:           "S1",
			SiteName:       "bga",
			GenerationDate: "2024-01-02T03:04:05Z",
			ServesDataset:  "/S1/sim_site_run.bz2",
		},
		models.RoleInputMetadata: {
			ID: "S1_bga_60.input", Type: "S1", SiteName: "bga",
			ServesDataset: "/S1/sim_site_run.input",
		},
		models.RoleOutputMetadata: {
			ID: "S1_bga_60.lst.bz2", Type: "S1", SiteName: "bga",
			ServesDataset: "/S1/sim_site_run.lst.bz2",
		},
	}

	d, err := Assemble(group, simulationHashes(), prov)
	require.NoError(t, err)

	payload, ok := d.payload.(simulationV2Descriptor)
	require.True(t, ok)
	assert.Equal(t, models.ArtifactReference{Hash: "h-raw", Location: "/S1/sim_site_run.bz2"}, payload.RawData)
	assert.Equal(t, models.ArtifactReference{Hash: "h-input", Location: "/S1/sim_site_run.input"}, payload.InputData)
	assert.Equal(t, "/S1/.sim_site_run.bz2.jsonld", payload.Metadata.Location)
}

func TestAssembleSimulationV2SynthesizedLocations(t *testing.T) {
	// servesDataset absent everywhere but accessURL present: locations
	// are synthesized from the root path, accessUrl still populated.
	group := simulationGroup(models.VariantSimulationV2)
	prov := map[models.Role]*models.ProvenanceRecord{
		models.RoleMetadata: {
			ID:             "S1_bga_60.bz2",
			Type:           "S1",
			SiteName:       "bga",
			GenerationDate: "2024-01-02T03:04:05Z",
			AccessURL:      "https://registry.example.org/ds/9",
		},
		models.RoleInputMetadata:  {ID: "x_y", Type: "S1", SiteName: "bga"},
		models.RoleOutputMetadata: {ID: "x_y", Type: "S1", SiteName: "bga"},
	}

	d, err := Assemble(group, simulationHashes(), prov)
	require.NoError(t, err)

	payload := d.payload.(simulationV2Descriptor)
	assert.Equal(t, "/S1/sim_site_run.bz2", payload.RawData.Location)
	assert.Equal(t, "/S1/sim_site_run.input", payload.InputData.Location)
	assert.Equal(t, "/S1/sim_site_run.lst.bz2", payload.OutputData.Location)
	assert.Equal(t, strPtr("https://registry.example.org/ds/9"), payload.AccessURL)
}

func TestAssembleSimulationV2RequiresGenerationDate(t *testing.T) {
	group := simulationGroup(models.VariantSimulationV2)
	prov := map[models.Role]*models.ProvenanceRecord{
		models.RoleMetadata:       {ID: "S1_bga.bz2", Type: "S1", SiteName: "bga"},
		models.RoleInputMetadata:  {ID: "x_y", Type: "S1", SiteName: "bga"},
		models.RoleOutputMetadata: {ID: "x_y", Type: "S1", SiteName: "bga"},
	}

	_, err := Assemble(group, simulationHashes(), prov)
	var missing *models.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "prov:endedAtTime", missing.Field)
}

func TestAssembleDualStream(t *testing.T) {
	group := models.FileGroup{
		BaseName: "shower1",
		Variant:  models.VariantDualStream,
		Paths: map[models.Role]string{
			models.RolePrimary:           "input/shower1.pri.bz2",
			models.RoleSecondary:         "input/shower1.sec.bz2",
			models.RolePrimaryMetadata:   "metadata/.shower1.pri.bz2.jsonld",
			models.RoleSecondaryMetadata: "metadata/.shower1.sec.bz2.jsonld",
		},
	}
	hashes := map[models.Role]string{
		models.RolePrimary:           "h-pri",
		models.RoleSecondary:         "h-sec",
		models.RolePrimaryMetadata:   "h-pmd",
		models.RoleSecondaryMetadata: "h-smd",
	}
	prov := map[models.Role]*models.ProvenanceRecord{
		models.RolePrimaryMetadata: {
			ID:             "S1_bga_shower1.pri.bz2",
			Type:           "S1",
			SiteName:       "bga",
			GenerationDate: "2024-01-02T03:04:05Z",
			Orcid:          "0000-0001",
			ServesDataset:  "/S1/shower1.pri.bz2",
		},
		models.RoleSecondaryMetadata: {
			ID: "S1_bga_shower1.sec.bz2", Type: "S1", SiteName: "bga",
			ServesDataset: "/S1/shower1.sec.bz2",
		},
	}

	d, err := Assemble(group, hashes, prov)
	require.NoError(t, err)
	assert.Equal(t, "S1_bga_shower1", d.ID, "trailing .pri.bz2 must be stripped")

	payload, ok := d.payload.(dualStreamDescriptor)
	require.True(t, ok)
	assert.Equal(t, "/S1/shower1.pri.bz2", payload.RawData.Primary.Location)
	assert.Equal(t, "/S1/shower1.sec.bz2", payload.RawData.Secondary.Location)
	assert.Equal(t, "/S1/.shower1.pri.bz2.jsonld", payload.Metadata.Primary.Location)
	assert.Equal(t, "/S1/.shower1.sec.bz2.jsonld", payload.Metadata.Secondary.Location)
	assert.Equal(t, "h-pri", payload.RawData.Primary.Hash)
}

func TestAssembleDualStreamRequiresPrimaryServesDataset(t *testing.T) {
	group := models.FileGroup{
		BaseName: "shower1",
		Variant:  models.VariantDualStream,
		Paths: map[models.Role]string{
			models.RolePrimaryMetadata: "metadata/.shower1.pri.bz2.jsonld",
		},
	}
	prov := map[models.Role]*models.ProvenanceRecord{
		models.RolePrimaryMetadata: {
			ID: "S1_bga_shower1.pri.bz2", Type: "S1", SiteName: "bga",
			GenerationDate: "2024-01-02T03:04:05Z",
		},
		models.RoleSecondaryMetadata: {ID: "x_y", Type: "S1", SiteName: "bga"},
	}

	_, err := Assemble(group, map[models.Role]string{}, prov)
	var missing *models.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "servesDataset", missing.Field)
}

func TestLayoutsCoverAllVariants(t *testing.T) {
	for _, v := range models.AllVariants() {
		layout, ok := Plan(v)
		require.True(t, ok, "variant %s has no layout", v)
		assert.NotEmpty(t, layout.HashModes, "variant %s hashes nothing", v)
		assert.NotEmpty(t, layout.Metadata, "variant %s extracts no metadata", v)
		for role := range layout.Metadata {
			_, hashed := layout.HashModes[role]
			assert.True(t, hashed, "variant %s metadata role %s is not hashed", v, role)
		}
	}
}
