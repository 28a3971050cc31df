package database

import (
	"fmt"
	"strings"
	"time"
)

// Operator is one registered DMR radio user from the RadioID directory
type Operator struct {
	RadioID   uint32    `gorm:"primarykey;not null" json:"radio_id"`
	Callsign  string    `gorm:"index;size:20" json:"callsign"`
	FirstName string    `gorm:"size:50" json:"first_name"`
	LastName  string    `gorm:"size:50" json:"last_name"`
	City      string    `gorm:"size:50" json:"city"`
	State     string    `gorm:"size:50" json:"state"`
	Country   string    `gorm:"size:50" json:"country"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Operator) TableName() string {
	return "dmr_operators"
}

// FullName joins first and last name
func (o Operator) FullName() string {
	return joinNonEmpty(" ", o.FirstName, o.LastName)
}

// Location joins city, state and country
func (o Operator) Location() string {
	return joinNonEmpty(", ", o.City, o.State, o.Country)
}

// String formats the operator for speech, e.g. "G4KLX (2345001) - Jonathan Naylor [Huddersfield, England]"
func (o Operator) String() string {
	result := fmt.Sprintf("%s (%d)", o.Callsign, o.RadioID)
	if name := o.FullName(); name != "" {
		result += " - " + name
	}
	if loc := o.Location(); loc != "" {
		result += " [" + loc + "]"
	}
	return result
}

// IsValid checks the record has its key fields
func (o Operator) IsValid() bool {
	return o.RadioID > 0 && o.Callsign != ""
}

// Normalize trims every field and upper-cases the callsign
func (o *Operator) Normalize() {
	o.Callsign = NormalizeCallsign(o.Callsign)
	o.FirstName = strings.TrimSpace(o.FirstName)
	o.LastName = strings.TrimSpace(o.LastName)
	o.City = strings.TrimSpace(o.City)
	o.State = strings.TrimSpace(o.State)
	o.Country = strings.TrimSpace(o.Country)
}

// NormalizeCallsign trims and upper-cases a callsign
func NormalizeCallsign(callsign string) string {
	return strings.ToUpper(strings.TrimSpace(callsign))
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
