package descriptor

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/harrison/datacat/internal/filelock"
)

// Write persists d as indented JSON at {outputDir}/{Id}.json, creating
// outputDir if absent. Re-running over unchanged inputs rewrites the
// same bytes (last-write-wins, no versioning). The write goes through
// an atomic temp-file rename so readers never observe a truncated
// descriptor.
func Write(outputDir string, d *Descriptor) (string, error) {
	data, err := json.MarshalIndent(d.payload, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal descriptor %s: %w", d.ID, err)
	}
	data = append(data, '\n')

	path := filepath.Join(outputDir, d.ID+".json")
	if err := filelock.AtomicWrite(path, data); err != nil {
		return "", fmt.Errorf("write descriptor %s: %w", d.ID, err)
	}
	return path, nil
}
