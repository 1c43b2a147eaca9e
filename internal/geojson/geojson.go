package geojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ownerProperty is the parcel attribute carrying the registered owner name.
const ownerProperty = "OWNERNAME"

// document is the subset of GeoJSON decoded for owner extraction. A bare
// Feature document carries its own properties block.
type document struct {
	Type       string         `json:"type"`
	Features   []feature      `json:"features"`
	Properties map[string]any `json:"properties"`
}

type feature struct {
	Properties map[string]any `json:"properties"`
}

// ParseOwners decodes GeoJSON from r and returns the distinct owner names in
// first-appearance order. Features without a usable OWNERNAME string are
// skipped; values are trimmed before deduplication.
func ParseOwners(r io.Reader) ([]string, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	features := doc.Features
	if len(features) == 0 && strings.EqualFold(doc.Type, "Feature") {
		features = []feature{{Properties: doc.Properties}}
	}

	seen := make(map[string]struct{})
	var owners []string
	for _, f := range features {
		owner, ok := f.Properties[ownerProperty].(string)
		if !ok {
			continue
		}
		owner = strings.TrimSpace(owner)
		if owner == "" {
			continue
		}
		if _, dup := seen[owner]; dup {
			continue
		}
		seen[owner] = struct{}{}
		owners = append(owners, owner)
	}
	return owners, nil
}

// LoadOwners reads a GeoJSON file and returns its distinct owner names.
func LoadOwners(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geojson: %w", err)
	}
	defer file.Close()

	owners, err := ParseOwners(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return owners, nil
}
