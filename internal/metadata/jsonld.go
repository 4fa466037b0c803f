package metadata

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/harrison/datacat/internal/models"
)

// graphDocument mirrors the parts of a JSON-LD metadata file the
// extractor reads. Graph nodes are heterogeneous, so they stay as raw
// maps and are indexed by attribute below.
type graphDocument struct {
	Title   string `json:"title"`
	Creator struct {
		ID string `json:"@id"`
	} `json:"creator"`
	Graph []map[string]any `json:"@graph"`
}

// Graph attributes the extractor looks up. accessURL and servesDataset
// may be absent; prov:endedAtTime absence fails the group for variants
// that require a generation date.
const (
	graphAttrAccessURL     = "accessURL"
	graphAttrServesDataset = "servesDataset"
	graphAttrEndedAtTime   = "prov:endedAtTime"
)

// graphIndex maps attribute name to the first string value any graph
// node exposes for it. Built once per document so attribute lookups
// are O(1) instead of re-scanning the node list.
type graphIndex map[string]string

func indexGraph(nodes []map[string]any) graphIndex {
	idx := make(graphIndex)
	for _, node := range nodes {
		for attr, value := range node {
			s, ok := value.(string)
			if !ok {
				continue
			}
			if _, seen := idx[attr]; !seen {
				idx[attr] = s
			}
		}
	}
	return idx
}

// ExtractGraph reads a JSON-LD metadata file and returns its
// provenance attributes. The title is mandatory and must carry at
// least a type tag and a site name as its first two underscore
// separated segments; malformed JSON is a *models.ParseError.
// accessURL, servesDataset, and the generation date are optional here;
// variant-specific requirements are enforced by the assembler.
func ExtractGraph(path string) (*models.ProvenanceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.ReadError{Path: path, Err: err}
	}

	var doc graphDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &models.ParseError{Path: path, Err: err}
	}

	if doc.Title == "" {
		return nil, &models.MissingFieldError{Path: path, Field: "title"}
	}
	segments := strings.Split(doc.Title, "_")
	if len(segments) < 2 {
		return nil, &models.ParseError{
			Path: path,
			Err:  errors.New("title has no type/site segments: " + doc.Title),
		}
	}

	idx := indexGraph(doc.Graph)

	return &models.ProvenanceRecord{
		ID:             doc.Title,
		Type:           segments[0],
		SiteName:       segments[1],
		GenerationDate: idx[graphAttrEndedAtTime],
		Orcid:          doc.Creator.ID,
		AccessURL:      idx[graphAttrAccessURL],
		ServesDataset:  idx[graphAttrServesDataset],
	}, nil
}

// Extract dispatches on the metadata encoding.
func Extract(path string, enc Encoding) (*models.ProvenanceRecord, error) {
	switch enc {
	case FlatKeyValue:
		return ExtractFlat(path)
	case GraphDocument:
		return ExtractGraph(path)
	}
	return nil, errors.New("unknown metadata encoding")
}
