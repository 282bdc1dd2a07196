package docforge

import "math"

// Twips is a twentieth of a point: the unit for widths, margins, spacing and indentation.
type Twips int

// HalfPoints is half a typographic point: the unit for font sizes.
type HalfPoints int

// TwipsPerInch is the number of twips in one inch
const TwipsPerInch Twips = 1440

// Points converts typographic points to twips
func Points(pt float64) Twips {
	return Twips(math.Round(pt * 20))
}

// Inches converts inches to twips
func Inches(in float64) Twips {
	return Twips(math.Round(in * float64(TwipsPerInch)))
}

// FontSize converts a point size to half-points
func FontSize(pt float64) HalfPoints {
	return HalfPoints(math.Round(pt * 2))
}

// Margins are the four page margins of a section
type Margins struct {
	Top    Twips
	Right  Twips
	Bottom Twips
	Left   Twips
}

// PageGeometry describes page size and margins of a section
type PageGeometry struct {
	Width   Twips
	Height  Twips
	Margins Margins
	// HeaderDistance and FooterDistance are measured from the page edge
	HeaderDistance Twips
	FooterDistance Twips
}

// LetterPortrait returns US Letter (8.5in x 11in) with one-inch margins
func LetterPortrait() PageGeometry {
	return PageGeometry{
		Width:          12240,
		Height:         15840,
		Margins:        Margins{Top: 1440, Right: 1440, Bottom: 1440, Left: 1440},
		HeaderDistance: 720,
		FooterDistance: 720,
	}
}

// A4Portrait returns ISO A4 (210mm x 297mm) with one-inch margins
func A4Portrait() PageGeometry {
	g := LetterPortrait()
	g.Width = 11906
	g.Height = 16838
	return g
}

// TextWidth is the horizontal space between the left and right margins
func (g PageGeometry) TextWidth() Twips {
	return g.Width - g.Margins.Left - g.Margins.Right
}

// validate checks that every dimension is positive and a text area remains
func (g PageGeometry) validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return NewInvalidValueError("page size", [2]Twips{g.Width, g.Height}, "width and height must be positive")
	}
	m := g.Margins
	if m.Top <= 0 || m.Right <= 0 || m.Bottom <= 0 || m.Left <= 0 {
		return NewInvalidValueError("page margins", m, "margins must be positive")
	}
	if g.HeaderDistance < 0 || g.FooterDistance < 0 {
		return NewInvalidValueError("header/footer distance", [2]Twips{g.HeaderDistance, g.FooterDistance}, "must not be negative")
	}
	if g.TextWidth() <= 0 || g.Height-m.Top-m.Bottom <= 0 {
		return NewInvalidValueError("page margins", m, "margins leave no text area")
	}
	return nil
}
