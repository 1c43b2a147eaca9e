package geojson_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"sleuth/internal/geojson"
)

const parcelCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"OWNERNAME": "JOHN SMITH", "PARCEL": "A-1"}},
    {"type": "Feature", "properties": {"OWNERNAME": "  ACME HOLDINGS LTD  "}},
    {"type": "Feature", "properties": {"OWNERNAME": "JOHN SMITH"}},
    {"type": "Feature", "properties": {"OWNERNAME": ""}},
    {"type": "Feature", "properties": {"PARCEL": "B-2"}},
    {"type": "Feature", "properties": {"OWNERNAME": 42}},
    {"type": "Feature", "properties": {"OWNERNAME": "JANE DOE"}}
  ]
}`

func TestParseOwnersDedupesPreservingOrder(t *testing.T) {
	owners, err := geojson.ParseOwners(strings.NewReader(parcelCollection))
	if err != nil {
		t.Fatalf("ParseOwners failed: %v", err)
	}
	want := []string{"JOHN SMITH", "ACME HOLDINGS LTD", "JANE DOE"}
	if !reflect.DeepEqual(owners, want) {
		t.Fatalf("ParseOwners = %v, want %v", owners, want)
	}
}

func TestParseOwnersSingleFeature(t *testing.T) {
	doc := `{"type": "Feature", "properties": {"OWNERNAME": "MARY JONES"}}`
	owners, err := geojson.ParseOwners(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseOwners failed: %v", err)
	}
	if len(owners) != 1 || owners[0] != "MARY JONES" {
		t.Fatalf("ParseOwners = %v, want [MARY JONES]", owners)
	}
}

func TestParseOwnersRejectsMalformedInput(t *testing.T) {
	if _, err := geojson.ParseOwners(strings.NewReader(`{"type": "FeatureCollection",`)); err == nil {
		t.Fatal("expected parse error for truncated document")
	}
}

func TestLoadOwners(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parcels.geojson")
	if err := os.WriteFile(path, []byte(parcelCollection), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	owners, err := geojson.LoadOwners(path)
	if err != nil {
		t.Fatalf("LoadOwners failed: %v", err)
	}
	if len(owners) != 3 {
		t.Fatalf("expected 3 owners, got %v", owners)
	}

	if _, err := geojson.LoadOwners(filepath.Join(t.TempDir(), "missing.geojson")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSplitPrivate(t *testing.T) {
	private, corporate := geojson.SplitPrivate([]string{
		"JOHN SMITH",
		"ACME HOLDINGS LTD",
		"JANE DOE",
		"123 MAIN ST",
	})
	if !reflect.DeepEqual(private, []string{"JOHN SMITH", "JANE DOE"}) {
		t.Fatalf("unexpected private set: %v", private)
	}
	if !reflect.DeepEqual(corporate, []string{"ACME HOLDINGS LTD", "123 MAIN ST"}) {
		t.Fatalf("unexpected corporate set: %v", corporate)
	}
}
