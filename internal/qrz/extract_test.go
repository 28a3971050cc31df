package qrz

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parseDoc(t *testing.T, page string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("html.Parse() error = %v", err)
	}
	return doc
}

func detailPage(rows, extra string) string {
	return `<html><head><title>T on QRZ.com</title></head><body><table id="tabCallsignDetail">` +
		rows + `</table>` + extra + `</body></html>`
}

func TestExtract_AddressLinesJoined(t *testing.T) {
	doc := parseDoc(t, detailPage(
		`<tr><td id="addr1">Line 1</td><td>123 Main St</td></tr>`+
			`<tr><td id="addr2">Line 2</td><td>Anytown, FL 33000</td></tr>`, ""))

	fs := Extract(doc, "KF4MD")
	if got, want := fs.Value(FieldAddress), "123 Main St, Anytown, FL 33000"; got != want {
		t.Errorf("address = %q, want %q", got, want)
	}
}

func TestExtract_SecondAddressLineAlone(t *testing.T) {
	doc := parseDoc(t, detailPage(
		`<tr><td id="addr1">Line 1</td><td></td></tr>`+
			`<tr><td id="addr2">Line 2</td><td>Anytown, FL 33000</td></tr>`, ""))

	fs := Extract(doc, "KF4MD")
	if got := fs.Value(FieldAddress); got != "Anytown, FL 33000" {
		t.Errorf("address = %q", got)
	}
}

func TestExtract_StyledNameOverridesTable(t *testing.T) {
	doc := parseDoc(t, detailPage(
		`<tr><td id="fname">Name</td><td>Table Name</td></tr>`,
		`<font size="+2" color="GREEN">Heading Name</font>`))

	fs := Extract(doc, "KF4MD")
	if got := fs.Value(FieldName); got != "Heading Name" {
		t.Errorf("name = %q, want Heading Name", got)
	}
	// overwriting keeps the label where it was first set
	if got := fs.Fields(); len(got) != 2 || got[1] != FieldName {
		t.Errorf("Fields() = %v", got)
	}
}

func TestExtract_OtherFontsIgnored(t *testing.T) {
	doc := parseDoc(t, detailPage(
		`<tr><td id="fname">Name</td><td>Table Name</td></tr>`,
		`<font size="+1" color="green">Small</font><font size="+2" color="red">Red</font>`))

	fs := Extract(doc, "KF4MD")
	if got := fs.Value(FieldName); got != "Table Name" {
		t.Errorf("name = %q, want Table Name", got)
	}
}

func TestExtract_GridSquareOverridesTable(t *testing.T) {
	doc := parseDoc(t, detailPage(
		`<tr><td id="grid">Grid</td><td>EL96aa</td></tr>`,
		`<table><tr><td>Grid Square</td><td>EL96ab</td></tr></table>`))

	fs := Extract(doc, "KF4MD")
	if got := fs.Value(FieldGridLocator); got != "EL96ab" {
		t.Errorf("grid = %q, want EL96ab", got)
	}
}

func TestExtract_TrusteeRowsSkipped(t *testing.T) {
	doc := parseDoc(t, detailPage(
		`<tr><td id="fname">Name</td><td>Alice</td></tr>`+
			`<tr><td id="trustee_fname">Trusteeship:</td><td>Bob</td></tr>`, ""))

	fs := Extract(doc, "W1AW")
	if got := fs.Value(FieldName); got != "Alice" {
		t.Errorf("name = %q, want Alice", got)
	}
}

func TestExtract_RowsWithoutTwoCellsIgnored(t *testing.T) {
	doc := parseDoc(t, detailPage(
		`<tr><td id="fname">Name</td><td>Alice</td><td>extra</td></tr>`+
			`<tr><td id="email">Email</td></tr>`, ""))

	fs := Extract(doc, "W1AW")
	if fs.Len() != 1 {
		t.Errorf("fields = %v, want only the callsign", fs)
	}
}

func TestExtract_NestedCellNotUsedAsLabel(t *testing.T) {
	// the outer cell wraps a whole table, so only the inner label matches
	doc := parseDoc(t, `<html><body><table><tr><td>`+
		`<table><tr><td>Grid Square</td><td>FN31pr</td></tr></table>`+
		`</td><td>outer</td></tr></table></body></html>`)

	fs := Extract(doc, "W1AW")
	if got := fs.Value(FieldGridLocator); got != "FN31pr" {
		t.Errorf("grid = %q, want FN31pr", got)
	}
}

func TestGuessCountry(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"123 Main St", "USA"}, ""},
		{[]string{"123 MAIN ST", "GERMANY"}, "GERMANY"},
		{[]string{"Otherville", "CANADA"}, "CANADA"},
		{[]string{"----", "1234"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := guessCountry(tt.parts); got != tt.want {
			t.Errorf("guessCountry(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestFieldSet_Order(t *testing.T) {
	fs := NewFieldSet("EA7EE")
	fs.Set(FieldName, "a")
	fs.Set(FieldCountry, "b")
	fs.Set(FieldName, "c")

	got := fs.Fields()
	want := []Field{FieldCallsign, FieldName, FieldCountry}
	if len(got) != len(want) {
		t.Fatalf("Fields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Fields()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if fs.Value(FieldName) != "c" {
		t.Errorf("Value(name) = %q, want c", fs.Value(FieldName))
	}
	if fs.Callsign() != "EA7EE" {
		t.Errorf("Callsign() = %q", fs.Callsign())
	}
}
