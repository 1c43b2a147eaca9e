package markup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Canonical field labels produced by extraction. Labels are uppercase; the
// rename table in applyRenames folds portal spelling variants onto these.
const (
	FieldCompanyName       = "COMPANY NAME"
	FieldCorporationNumber = "CORPORATION NUMBER"
	FieldRegistryType      = "REGISTRY TYPE"
	FieldStatus            = "STATUS"
	FieldAddress           = "ADDRESS"
	FieldPreviousNames     = "PREVIOUS NAMES"
	FieldBusinessType      = "BUSINESS TYPE"
	FieldIncorporationDate = "INCORPORATION DATE"
)

// rawExcerptLimit caps the retained markup excerpt.
const rawExcerptLimit = 2000

// fieldRenames maps portal label variants to canonical labels. A rename only
// applies when the canonical label is still absent.
var fieldRenames = [...]struct{ from, to string }{
	{"INCORPORATION/AMALGAMATION DATE", FieldIncorporationDate},
	{"INCORPORATIONDATE", FieldIncorporationDate},
	{"BUSINESS-TYPE", FieldBusinessType},
	{"REGISTRYTYPE", FieldRegistryType},
	{"REGISTRY-TYPE", FieldRegistryType},
	{"COMPANYNAME", FieldCompanyName},
	{"COMPANY-NAME", FieldCompanyName},
	{"PREVIOUSLYKNOWNAS", FieldPreviousNames},
	{"PREVIOUSLY-KNOWN-AS", FieldPreviousNames},
}

// FieldMap is an ordered mapping of uppercase labels to extracted values.
// Each label holds at most one value; insertion order is preserved for
// reports. RawExcerpt carries the serialized source block for diagnostics
// and is never consulted by matching.
type FieldMap struct {
	keys   []string
	values map[string]string

	RawExcerpt string
}

// Set stores value under label unless the label is already present or either
// argument is empty. The first value extracted for a label wins.
func (m *FieldMap) Set(label, value string) {
	label = strings.TrimSpace(label)
	value = strings.TrimSpace(value)
	if label == "" || value == "" {
		return
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[label]; ok {
		return
	}
	m.values[label] = value
	m.keys = append(m.keys, label)
}

// Replace stores value under label, overwriting any existing value while
// keeping the label's position. Empty values are ignored.
func (m *FieldMap) Replace(label, value string) {
	label = strings.TrimSpace(label)
	value = strings.TrimSpace(value)
	if label == "" || value == "" {
		return
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[label]; !ok {
		m.keys = append(m.keys, label)
	}
	m.values[label] = value
}

// Delete removes label and its value.
func (m *FieldMap) Delete(label string) {
	if m.values == nil {
		return
	}
	if _, ok := m.values[label]; !ok {
		return
	}
	delete(m.values, label)
	for i, k := range m.keys {
		if k == label {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Get returns the value for label and whether it is present.
func (m FieldMap) Get(label string) (string, bool) {
	v, ok := m.values[label]
	return v, ok
}

// Value returns the value for label, or "" when absent.
func (m FieldMap) Value(label string) string {
	return m.values[label]
}

// Has reports whether label is present.
func (m FieldMap) Has(label string) bool {
	_, ok := m.values[label]
	return ok
}

// Len returns the number of labeled fields. RawExcerpt does not count.
func (m FieldMap) Len() int {
	return len(m.keys)
}

// Keys returns the labels in insertion order.
func (m FieldMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// EntityName returns the extracted entity name, or "" when no candidate was
// found. Callers treat an empty name as "no candidate".
func (m FieldMap) EntityName() string {
	return m.values[FieldCompanyName]
}

// applyRenames folds label variants onto canonical labels. The canonical
// label keeps the variant's value only when it was absent.
func (m *FieldMap) applyRenames() {
	for _, r := range fieldRenames {
		v, ok := m.values[r.from]
		if !ok || m.Has(r.to) {
			continue
		}
		m.Delete(r.from)
		m.Set(r.to, v)
	}
}

// setRawExcerpt stores the serialized block, truncated to the excerpt cap.
// Truncation can land mid-rune; ToValidUTF8 scrubs the torn tail.
func (m *FieldMap) setRawExcerpt(serialized string) {
	if len(serialized) > rawExcerptLimit {
		serialized = strings.ToValidUTF8(serialized[:rawExcerptLimit], "")
	}
	m.RawExcerpt = serialized
}

// MarshalJSON encodes the labeled fields as a JSON object in insertion
// order. RawExcerpt is not included.
func (m FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("field map: expected object, got %v", tok)
	}
	m.keys = nil
	m.values = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("field map: expected string key, got %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("field map: value for %q: %w", key, err)
		}
		m.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
