// Package fileutil provides the directory scanning used by group
// discovery. Scans are flat (one directory level), filterable by
// filename suffix and regex, and return sorted names so every pass
// over the same directory enumerates candidates in the same order.
package fileutil

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// ScanOptions configures a directory scan.
type ScanOptions struct {
	// Suffixes keeps only filenames ending in one of these strings
	// (e.g. ".dat.bz2"). Empty means no suffix filter.
	Suffixes []string

	// Pattern is an optional regex matched against the full filename.
	Pattern string

	// IncludeHidden keeps dotfiles in the result. Metadata files in
	// this corpus are dot-prefixed, so metadata scans set this.
	IncludeHidden bool
}

// ScanResult holds the outcome of a directory scan.
type ScanResult struct {
	// Names contains the matching filenames (not joined with the
	// directory), sorted lexically.
	Names []string
}

// ScanDirectory lists the files of dir matching opts. Subdirectories
// are never descended into; group members always live in a single
// directory level.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var patternRegex *regexp.Regexp
	if opts.Pattern != "" {
		patternRegex, err = regexp.Compile(opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
	}

	result := &ScanResult{Names: make([]string, 0, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if len(opts.Suffixes) > 0 && !hasAnySuffix(name, opts.Suffixes) {
			continue
		}
		if patternRegex != nil && !patternRegex.MatchString(name) {
			continue
		}
		result.Names = append(result.Names, name)
	}

	sort.Strings(result.Names)
	return result, nil
}

func hasAnySuffix(name string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// Exists reports whether path exists and is a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
