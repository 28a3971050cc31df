package qrz

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// detailTableID marks the two-column table holding the operator details
const detailTableID = "tabCallsignDetail"

// Strategy extracts a partial field set from a parsed page. current is the
// merged result of every earlier strategy and must not be modified.
type Strategy struct {
	Name  string
	Apply func(doc *html.Node, current *FieldSet) *FieldSet
}

// DefaultStrategies returns the extraction layers in the order they are
// applied. Later layers overwrite values set by earlier ones.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "detail-table", Apply: detailTable},
		{Name: "styled-name", Apply: styledName},
		{Name: "grid-square", Apply: gridSquare},
		{Name: "address-labels", Apply: addressLabels},
	}
}

// Extract runs the default strategies over doc for callsign
func Extract(doc *html.Node, callsign string) *FieldSet {
	return extractWith(doc, callsign, DefaultStrategies())
}

func extractWith(doc *html.Node, callsign string, strategies []Strategy) *FieldSet {
	fs := NewFieldSet(callsign)
	for _, s := range strategies {
		partial := s.Apply(doc, fs)
		if partial == nil {
			continue
		}
		fs.merge(partial)
	}
	return fs
}

func newPartial() *FieldSet {
	return &FieldSet{values: make(map[Field]string)}
}

// detailTable classifies each two-cell row of the detail table by the id
// attribute of its first cell.
func detailTable(doc *html.Node, _ *FieldSet) *FieldSet {
	out := newPartial()
	table := findFirst(doc, func(n *html.Node) bool {
		return isElement(atom.Table)(n) && attr(n, "id") == detailTableID
	})
	if table == nil {
		return out
	}

	for _, row := range findAll(table, isElement(atom.Tr)) {
		cells := childElements(row, atom.Td)
		if len(cells) != 2 {
			continue
		}

		label := strings.ReplaceAll(textOf(cells[0]), ":", "")
		if strings.Contains(strings.ToLower(label), "trust") {
			continue
		}

		id := attr(cells[0], "id")
		value := textOf(cells[1])
		if value == "" {
			continue
		}

		switch {
		case strings.Contains(id, "fname") || strings.Contains(id, "fullname"):
			out.Set(FieldName, value)
		case strings.Contains(id, "addr1"):
			out.Set(FieldAddress, value)
		case strings.Contains(id, "addr2"):
			if line1 := out.Value(FieldAddress); line1 != "" {
				out.Set(FieldAddress, line1+", "+value)
			} else {
				out.Set(FieldAddress, value)
			}
		case strings.Contains(id, "country"):
			out.Set(FieldCountry, value)
		case strings.Contains(id, "grid"):
			out.Set(FieldGridLocator, value)
		case strings.Contains(id, "class"):
			out.Set(FieldLicenseClass, value)
		case strings.Contains(id, "email"):
			out.Set(FieldEmail, value)
		}
	}
	return out
}

// styledName takes the operator name from the large green heading
func styledName(doc *html.Node, _ *FieldSet) *FieldSet {
	out := newPartial()
	font := findFirst(doc, func(n *html.Node) bool {
		return isElement(atom.Font)(n) &&
			attr(n, "size") == "+2" &&
			strings.EqualFold(attr(n, "color"), "green")
	})
	if font != nil {
		if name := textOf(font); name != "" {
			out.Set(FieldName, name)
		}
	}
	return out
}

// gridSquare reads the cell following a "Grid Square" label cell
func gridSquare(doc *html.Node, _ *FieldSet) *FieldSet {
	out := newPartial()
	if value := labeledCell(doc, "Grid Square", nil); value != "" {
		out.Set(FieldGridLocator, value)
	}
	return out
}

var addressLabelSequence = []string{"Address", "City", "State", "Zip Code", "Country"}

// addressLabels collects address parts from label/value cell pairs
func addressLabels(doc *html.Node, current *FieldSet) *FieldSet {
	out := newPartial()
	seen := make(map[*html.Node]bool)
	var parts []string
	for _, label := range addressLabelSequence {
		if part := labeledCell(doc, label, seen); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return out
	}

	if !current.Has(FieldAddress) {
		out.Set(FieldAddressCombined, strings.Join(parts, ", "))
	}
	if !current.Has(FieldCountry) {
		if country := guessCountry(parts); country != "" {
			out.Set(FieldCountry, country)
		}
	}
	return out
}

// labeledCell finds the first td whose single text contains label and
// returns the text of its next td sibling. Label cells already in seen are
// skipped; the matched label cell is added to seen when seen is non-nil.
func labeledCell(doc *html.Node, label string, seen map[*html.Node]bool) string {
	td := findFirst(doc, func(n *html.Node) bool {
		if !isElement(atom.Td)(n) {
			return false
		}
		s, ok := ownString(n)
		return ok && strings.Contains(s, label)
	})
	if td == nil || seen[td] {
		return ""
	}
	if seen != nil {
		seen[td] = true
	}
	if sib := nextSiblingElement(td, atom.Td); sib != nil {
		return textOf(sib)
	}
	return ""
}

// guessCountry picks the first all-uppercase part longer than three
// characters that carries no digits
func guessCountry(parts []string) string {
	for _, p := range parts {
		if utf8.RuneCountInString(p) <= 3 || strings.ToUpper(p) != p {
			continue
		}
		if strings.IndexFunc(p, unicode.IsDigit) >= 0 {
			continue
		}
		if strings.IndexFunc(p, unicode.IsLetter) < 0 {
			continue
		}
		return p
	}
	return ""
}
