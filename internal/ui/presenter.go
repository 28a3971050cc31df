package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jpavonabian/AMRadio-Addon/internal/qrz"
)

// Dialog size bounds in pixels, estimated from the text
const (
	minDialogWidth  = 350
	maxDialogWidth  = 600
	minDialogHeight = 200
	maxDialogHeight = 500
	charWidth       = 9
	lineHeight      = 20
)

// Speaker delivers a short spoken message
type Speaker interface {
	Speak(message string)
}

// Viewer shows a modal read-only dialog and returns once it is dismissed
type Viewer interface {
	Show(d Dialog)
}

// Dialog is a rendered lookup result
type Dialog struct {
	Title  string
	Body   string
	Width  int
	Height int
}

// Label turns a field key into display words, e.g. grid_locator -> Grid Locator
func Label(f qrz.Field) string {
	// a Caser keeps state, so each call gets its own
	return cases.Title(language.English).String(strings.ReplaceAll(string(f), "_", " "))
}

// Render lays out every non-empty field as "Label: Value" in field order
func Render(fields *qrz.FieldSet, callsign string) Dialog {
	var b strings.Builder
	if fields != nil {
		for _, f := range fields.Fields() {
			if v := fields.Value(f); v != "" {
				fmt.Fprintf(&b, "%s: %s\n", Label(f), v)
			}
		}
	}

	body := b.String()
	if body == "" {
		body = fmt.Sprintf("No detailed information available for %s.", callsign)
	}

	width, height := dialogSize(body)
	return Dialog{
		Title:  fmt.Sprintf("QRZ.com Data for %s", callsign),
		Body:   body,
		Width:  width,
		Height: height,
	}
}

func dialogSize(body string) (int, int) {
	lines := strings.Split(body, "\n")
	longest := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > longest {
			longest = n
		}
	}
	width := clamp(longest*charWidth, minDialogWidth, maxDialogWidth)
	height := clamp(len(lines)*lineHeight, minDialogHeight, maxDialogHeight)
	return width, height
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Presenter shows lookup results. It touches the speaker and viewer, so it
// must only be called on the foreground goroutine.
type Presenter struct {
	speaker Speaker
	viewer  Viewer
}

func NewPresenter(speaker Speaker, viewer Viewer) *Presenter {
	return &Presenter{speaker: speaker, viewer: viewer}
}

// Present shows fields in a dialog, or announces that nothing was found
// when fields is nil
func (p *Presenter) Present(fields *qrz.FieldSet, callsign string) {
	if fields == nil {
		p.speaker.Speak(fmt.Sprintf("Callsign %s not found or an error occurred while fetching data.", callsign))
		return
	}
	p.viewer.Show(Render(fields, callsign))
}
