package markup

import (
	"encoding/json"
	"testing"
)

func TestFieldMapFirstValueWins(t *testing.T) {
	var m FieldMap
	m.Set(FieldStatus, "Active")
	m.Set(FieldStatus, "Inactive")

	if got := m.Value(FieldStatus); got != "Active" {
		t.Errorf("Value(STATUS) = %q, want first value to win", got)
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestFieldMapIgnoresEmpty(t *testing.T) {
	var m FieldMap
	m.Set("", "value")
	m.Set("LABEL", "")
	m.Set("  ", "  ")

	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestFieldMapReplaceKeepsPosition(t *testing.T) {
	var m FieldMap
	m.Set(FieldCompanyName, "ACME LTD (123)")
	m.Set(FieldStatus, "Active")
	m.Replace(FieldCompanyName, "ACME LTD")

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != FieldCompanyName || keys[1] != FieldStatus {
		t.Fatalf("unexpected key order: %v", keys)
	}
	if got := m.Value(FieldCompanyName); got != "ACME LTD" {
		t.Errorf("Value(COMPANY NAME) = %q", got)
	}
}

func TestFieldMapDelete(t *testing.T) {
	var m FieldMap
	m.Set("A", "1")
	m.Set("B", "2")
	m.Set("C", "3")
	m.Delete("B")

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "A" || keys[1] != "C" {
		t.Fatalf("unexpected keys after delete: %v", keys)
	}
	if m.Has("B") {
		t.Error("expected B to be gone")
	}
}

func TestApplyRenames(t *testing.T) {
	var m FieldMap
	m.Set("REGISTRYTYPE", "Corporation")
	m.Set("PREVIOUSLY-KNOWN-AS", "OLD NAME CO")
	m.applyRenames()

	if got := m.Value(FieldRegistryType); got != "Corporation" {
		t.Errorf("REGISTRY TYPE = %q", got)
	}
	if got := m.Value(FieldPreviousNames); got != "OLD NAME CO" {
		t.Errorf("PREVIOUS NAMES = %q", got)
	}
	if m.Has("REGISTRYTYPE") || m.Has("PREVIOUSLY-KNOWN-AS") {
		t.Error("expected variant labels to be removed")
	}
}

func TestApplyRenamesKeepsCanonical(t *testing.T) {
	var m FieldMap
	m.Set(FieldRegistryType, "Corporation")
	m.Set("REGISTRYTYPE", "Something Else")
	m.applyRenames()

	if got := m.Value(FieldRegistryType); got != "Corporation" {
		t.Errorf("REGISTRY TYPE = %q, want canonical value kept", got)
	}
	if !m.Has("REGISTRYTYPE") {
		t.Error("variant should remain when canonical already present")
	}
}

func TestFieldMapJSONRoundTripPreservesOrder(t *testing.T) {
	var m FieldMap
	m.Set("ZULU", "1")
	m.Set("ALPHA", "2")
	m.Set("MIKE", "3")
	m.RawExcerpt = "<div>excerpt</div>"

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"ZULU":"1","ALPHA":"2","MIKE":"3"}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}

	var decoded FieldMap
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	keys := decoded.Keys()
	if len(keys) != 3 || keys[0] != "ZULU" || keys[1] != "ALPHA" || keys[2] != "MIKE" {
		t.Errorf("decoded keys = %v", keys)
	}
	if decoded.RawExcerpt != "" {
		t.Error("raw excerpt should not survive the round trip")
	}
}

func TestSetRawExcerptTruncates(t *testing.T) {
	var m FieldMap
	long := make([]byte, rawExcerptLimit+500)
	for i := range long {
		long[i] = 'a'
	}
	m.setRawExcerpt(string(long))
	if len(m.RawExcerpt) != rawExcerptLimit {
		t.Errorf("excerpt length = %d, want %d", len(m.RawExcerpt), rawExcerptLimit)
	}
}
