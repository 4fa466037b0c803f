package descriptor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/datacat/internal/models"
)

func TestWriteCreatesOutputDir(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "output")
	d := &Descriptor{
		ID:      "run1",
		Variant: models.VariantRawMeasurement,
		payload: rawMeasurementDescriptor{ID: "run1", Type: "L0", SiteName: "SiteX"},
	}

	path, err := Write(outputDir, d)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outputDir, "run1.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run1", decoded["Id"])
	assert.Equal(t, "L0", decoded["type"])
	// Mandatory-null fields are emitted, not omitted.
	val, present := decoded["generationDate"]
	assert.True(t, present)
	assert.Nil(t, val)
}

func TestWriteIndentedStableOrder(t *testing.T) {
	outputDir := t.TempDir()
	d := &Descriptor{
		ID:      "run1",
		Variant: models.VariantRawMeasurement,
		payload: rawMeasurementDescriptor{ID: "run1", Type: "L0"},
	}

	path, err := Write(outputDir, d)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "{\n    \"Id\": \"run1\""), "output should be indented with Id first:\n%s", text)
	assert.Less(t, strings.Index(text, "\"type\""), strings.Index(text, "\"siteName\""), "key order must follow the schema")
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	outputDir := t.TempDir()
	d := &Descriptor{ID: "run1", Variant: models.VariantRawMeasurement, payload: rawMeasurementDescriptor{ID: "run1"}}

	_, err := Write(outputDir, d)
	require.NoError(t, err)

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "temp file %s left behind", e.Name())
	}
}

func TestWriteOverwrites(t *testing.T) {
	outputDir := t.TempDir()
	first := &Descriptor{ID: "run1", Variant: models.VariantRawMeasurement, payload: rawMeasurementDescriptor{ID: "run1", SiteName: "Old"}}
	second := &Descriptor{ID: "run1", Variant: models.VariantRawMeasurement, payload: rawMeasurementDescriptor{ID: "run1", SiteName: "New"}}

	_, err := Write(outputDir, first)
	require.NoError(t, err)
	path, err := Write(outputDir, second)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "New", "last write wins")
}
