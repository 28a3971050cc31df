package qrz

import (
	"fmt"
	"strings"
)

// Field identifies one labeled value extracted from a directory page
type Field string

const (
	FieldCallsign        Field = "callsign"
	FieldName            Field = "name"
	FieldAddress         Field = "address"
	FieldAddressCombined Field = "address_combined"
	FieldGridLocator     Field = "grid_locator"
	FieldCountry         Field = "country"
	FieldLicenseClass    Field = "license_class"
	FieldEmail           Field = "email"
)

// FieldSet maps field labels to values, remembering the order in which each
// label was first set. Overwriting a label keeps its original position.
type FieldSet struct {
	order  []Field
	values map[Field]string
}

// NewFieldSet creates a field set holding only the callsign
func NewFieldSet(callsign string) *FieldSet {
	fs := &FieldSet{values: make(map[Field]string)}
	fs.Set(FieldCallsign, callsign)
	return fs
}

// Set stores value under field, replacing any earlier value
func (fs *FieldSet) Set(field Field, value string) {
	if _, ok := fs.values[field]; !ok {
		fs.order = append(fs.order, field)
	}
	fs.values[field] = value
}

// Get returns the value for field and whether it is present
func (fs *FieldSet) Get(field Field) (string, bool) {
	v, ok := fs.values[field]
	return v, ok
}

// Value returns the value for field, or "" when absent
func (fs *FieldSet) Value(field Field) string {
	return fs.values[field]
}

// Has reports whether field holds a non-empty value
func (fs *FieldSet) Has(field Field) bool {
	return fs.values[field] != ""
}

// Callsign returns the identifier the set was built for
func (fs *FieldSet) Callsign() string {
	return fs.values[FieldCallsign]
}

// Len returns the number of labels present
func (fs *FieldSet) Len() int {
	return len(fs.order)
}

// Fields returns the labels in first-insertion order
func (fs *FieldSet) Fields() []Field {
	out := make([]Field, len(fs.order))
	copy(out, fs.order)
	return out
}

// merge applies every field of other on top of fs (last write wins)
func (fs *FieldSet) merge(other *FieldSet) {
	for _, f := range other.order {
		fs.Set(f, other.values[f])
	}
}

// String returns a compact representation for logs
func (fs *FieldSet) String() string {
	parts := make([]string, 0, len(fs.order))
	for _, f := range fs.order {
		parts = append(parts, fmt.Sprintf("%s=%q", f, fs.values[f]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
