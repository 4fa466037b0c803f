// Package groups discovers complete file groups from directory
// listings: it enumerates candidate base names per schema variant,
// resolves timestamp-versioned metadata files, binds member roles to
// paths, and enforces the completeness gate.
package groups

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/harrison/datacat/internal/fileutil"
	"github.com/harrison/datacat/internal/models"
)

// timestampPattern is the fixed lexical form appended to versioned
// metadata files: YYYYMMDDTHHMMSS.ffffffZ. The format sorts correctly
// under plain string comparison, which is what makes lexical-max
// selection equivalent to newest-first.
var timestampPattern = regexp.MustCompile(`^\d{8}T\d{6}\.\d{6}Z$`)

// ResolveLatest finds the most recently timestamped version of a
// metadata file named ".<baseName><suffix>.<timestamp>" in dir.
// Returns "" (not an error) when no version exists yet; that is the
// normal "not yet produced" condition. A directory read failure is
// surfaced as a *models.ReadError.
func ResolveLatest(dir, baseName, suffix string) (string, error) {
	scan, err := fileutil.ScanDirectory(dir, fileutil.ScanOptions{IncludeHidden: true})
	if err != nil {
		return "", &models.ReadError{Path: dir, Err: err}
	}

	prefix := "." + baseName + suffix + "."
	latest := ""
	for _, name := range scan.Names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if !timestampPattern.MatchString(name[len(prefix):]) {
			continue
		}
		if name > latest {
			latest = name
		}
	}

	if latest == "" {
		return "", nil
	}
	return filepath.Join(dir, latest), nil
}
