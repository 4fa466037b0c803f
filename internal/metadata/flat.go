// Package metadata extracts provenance attributes from the two
// metadata encodings in the corpus: flat key=value text (compressed)
// and JSON-LD graph documents. Both map onto models.ProvenanceRecord.
package metadata

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/harrison/datacat/internal/codec"
	"github.com/harrison/datacat/internal/models"
)

// Encoding identifies a metadata source format.
type Encoding int

const (
	// FlatKeyValue is decompressed plain text, one "key = value" pair
	// per line, values optionally double-quote-wrapped.
	FlatKeyValue Encoding = iota

	// GraphDocument is a JSON-LD file with a top-level creator, title,
	// and a @graph array of loosely typed nodes.
	GraphDocument
)

// FlatMetadata is the parsed form of a flat key=value file. Duplicate
// keys keep the last occurrence.
type FlatMetadata struct {
	path   string
	values map[string]string
}

// ParseFlat reads a (possibly compressed) flat metadata file. Lines
// must have the form "key = value"; a line without a separator is a
// *models.ParseError. Blank lines are ignored. Surrounding double
// quotes on values are stripped.
func ParseFlat(path string) (*FlatMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &models.ReadError{Path: path, Err: err}
	}
	defer f.Close()

	dec, err := codec.Decode(path, f)
	if err != nil {
		return nil, &models.ReadError{Path: path, Err: err}
	}
	defer dec.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(dec)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, &models.ParseError{
				Path: path,
				Err:  fmt.Errorf("line %d: expected key = value, got %q", lineNo, line),
			}
		}
		values[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, &models.ReadError{Path: path, Err: err}
	}

	return &FlatMetadata{path: path, values: values}, nil
}

// unquote strips one pair of surrounding double quotes, if present.
func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

// Lookup returns the value for key and whether it was present.
func (m *FlatMetadata) Lookup(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Get returns the value for a mandatory key. Absence is a
// *models.MissingFieldError, which fails the enclosing group.
func (m *FlatMetadata) Get(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", &models.MissingFieldError{Path: m.path, Field: key}
	}
	return v, nil
}

// Flat metadata keys carrying provenance. The names are fixed by the
// acquisition software that writes the .mtd files.
const (
	flatKeyRootPath     = "detector1Name"
	flatKeySite         = "siteInst"
	flatKeyCollaborator = "siteRespName"
	flatKeyOrcid        = "siteRespId"
)

// ExtractFlat reads a flat metadata file and returns its provenance
// attributes. detector1Name, siteInst, and siteRespId are mandatory;
// siteRespName may be legitimately absent and is left empty.
func ExtractFlat(path string) (*models.ProvenanceRecord, error) {
	m, err := ParseFlat(path)
	if err != nil {
		return nil, err
	}

	rootPath, err := m.Get(flatKeyRootPath)
	if err != nil {
		return nil, err
	}
	site, err := m.Get(flatKeySite)
	if err != nil {
		return nil, err
	}
	orcid, err := m.Get(flatKeyOrcid)
	if err != nil {
		return nil, err
	}
	collaborator, _ := m.Lookup(flatKeyCollaborator)

	return &models.ProvenanceRecord{
		SiteName:         site,
		CollaboratorName: collaborator,
		Orcid:            orcid,
		RootPath:         rootPath,
	}, nil
}
