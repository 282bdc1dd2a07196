package docforge

import (
	"fmt"
	"strings"

	"golang.org/x/image/colornames"
)

// Color is an RGB color written as six upper-case hex digits, e.g. "1B3A5C".
type Color string

// ParseColor accepts "RRGGBB", "#RRGGBB" or an SVG color name ("navy", "darkgreen").
func ParseColor(s string) (Color, error) {
	v := strings.TrimSpace(s)
	if c := Color(strings.ToUpper(strings.TrimPrefix(v, "#"))); c.Valid() {
		return c, nil
	}
	if rgba, ok := colornames.Map[strings.ToLower(v)]; ok {
		return Color(fmt.Sprintf("%02X%02X%02X", rgba.R, rgba.G, rgba.B)), nil
	}
	return "", NewInvalidValueError("color", s, "expected six hex digits or a color name")
}

// MustColor is ParseColor for literals known to be valid; it panics otherwise.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Valid reports whether c is exactly six hex digits
func (c Color) Valid() bool {
	if len(c) != 6 {
		return false
	}
	for i := 0; i < len(c); i++ {
		switch ch := c[i]; {
		case ch >= '0' && ch <= '9', ch >= 'A' && ch <= 'F', ch >= 'a' && ch <= 'f':
		default:
			return false
		}
	}
	return true
}

// hex returns the canonical upper-case form written into the markup
func (c Color) hex() string {
	return strings.ToUpper(string(c))
}

// TextStyle is the resolved (font, size, color, bold, italic) tuple of a run.
type TextStyle struct {
	Font   string
	Size   HalfPoints
	Color  Color
	Bold   bool
	Italic bool
}

// WithBold returns a copy with the bold flag set to b
func (s TextStyle) WithBold(b bool) TextStyle {
	s.Bold = b
	return s
}

// WithItalic returns a copy with the italic flag set to i
func (s TextStyle) WithItalic(i bool) TextStyle {
	s.Italic = i
	return s
}

// WithColor returns a copy using color c
func (s TextStyle) WithColor(c Color) TextStyle {
	s.Color = c
	return s
}

// WithSize returns a copy using size sz
func (s TextStyle) WithSize(sz HalfPoints) TextStyle {
	s.Size = sz
	return s
}

func (s TextStyle) validate() error {
	if s.Size <= 0 {
		return NewInvalidValueError("font size", s.Size, "must be positive")
	}
	if !s.Color.Valid() {
		return NewInvalidValueError("color", s.Color, "expected six hex digits")
	}
	if strings.TrimSpace(s.Font) == "" {
		return NewInvalidValueError("font", s.Font, "font family is required")
	}
	return nil
}

// Palette is the closed set of semantic colors used by the builders.
type Palette struct {
	Primary   Color
	Accent    Color
	Text      Color
	Subtle    Color
	Note      Color
	Muted     Color
	Border    Color
	HeaderFg  Color
	NeutralBg Color
	NeutralFg Color
	SuccessBg Color
	SuccessFg Color
	WarningBg Color
	WarningFg Color
	ErrorBg   Color
	ErrorFg   Color
}

// Presets are the named text styles.
type Presets struct {
	Title       TextStyle
	Subtitle    TextStyle
	Note        TextStyle
	Heading1    TextStyle
	Heading2    TextStyle
	Body        TextStyle
	Caption     TextStyle
	TableHeader TextStyle
	TableCell   TextStyle
	HeaderText  TextStyle
	FooterText  TextStyle
}

// Spacing is paragraph spacing before and after
type Spacing struct {
	Before Twips
	After  Twips
}

// CellMargins are the inner margins of a table cell
type CellMargins struct {
	Top    Twips
	Right  Twips
	Bottom Twips
	Left   Twips
}

// BorderStyle is the line style of a border edge
type BorderStyle string

const (
	BorderNone   BorderStyle = "none"
	BorderSingle BorderStyle = "single"
	BorderDouble BorderStyle = "double"
	BorderDashed BorderStyle = "dashed"
)

// Border is one edge of a cell border. Size is in eighths of a point.
// The zero Border leaves the edge to the table style.
type Border struct {
	Style BorderStyle
	Size  int
	Color Color
}

// Borders is the four edges of a cell
type Borders struct {
	Top    Border
	Bottom Border
	Left   Border
	Right  Border
}

// AllBorders applies b to every edge
func AllBorders(b Border) Borders {
	return Borders{Top: b, Bottom: b, Left: b, Right: b}
}

// Styles is the Style Registry. It is a plain value: builders receive a copy
// and nodes copy the resolved TextStyle, so nothing points back into it.
type Styles struct {
	Palette Palette
	Text    Presets

	DefaultFont string
	DefaultSize HalfPoints

	Heading1Spacing Spacing
	Heading2Spacing Spacing
	TitleSpacing    Spacing
	NoteSpacing     Spacing
	BodyAfter       Twips
	BulletAfter     Twips
	SpacerAfter     Twips

	CellMargins CellMargins
	CellBorder  Border
	TableWidth  Twips
}

// DefaultStyles returns the business report look: Arial, navy headings,
// grey body text and pastel status fills.
func DefaultStyles() Styles {
	p := Palette{
		Primary:   "1B3A5C",
		Accent:    "2E7D32",
		Text:      "333333",
		Subtle:    "555555",
		Note:      "777777",
		Muted:     "999999",
		Border:    "B0BEC5",
		HeaderFg:  "FFFFFF",
		NeutralBg: "F0F4F8",
		NeutralFg: "333333",
		SuccessBg: "E8F5E9",
		SuccessFg: "2E7D32",
		WarningBg: "FFF8E1",
		WarningFg: "F57F17",
		ErrorBg:   "FFEBEE",
		ErrorFg:   "C62828",
	}
	const font = "Arial"

	return Styles{
		Palette: p,
		Text: Presets{
			Title:       TextStyle{Font: font, Size: 44, Color: p.Primary, Bold: true},
			Subtitle:    TextStyle{Font: font, Size: 28, Color: p.Subtle},
			Note:        TextStyle{Font: font, Size: 20, Color: p.Note},
			Heading1:    TextStyle{Font: font, Size: 32, Color: p.Primary, Bold: true},
			Heading2:    TextStyle{Font: font, Size: 26, Color: p.Primary, Bold: true},
			Body:        TextStyle{Font: font, Size: 21, Color: p.Text},
			Caption:     TextStyle{Font: font, Size: 20, Color: p.Muted, Italic: true},
			TableHeader: TextStyle{Font: font, Size: 20, Color: p.HeaderFg, Bold: true},
			TableCell:   TextStyle{Font: font, Size: 20, Color: p.Text},
			HeaderText:  TextStyle{Font: font, Size: 16, Color: p.Muted, Italic: true},
			FooterText:  TextStyle{Font: font, Size: 16, Color: p.Muted},
		},
		DefaultFont:     font,
		DefaultSize:     21,
		Heading1Spacing: Spacing{Before: 360, After: 200},
		Heading2Spacing: Spacing{Before: 280, After: 160},
		TitleSpacing:    Spacing{After: 80},
		NoteSpacing:     Spacing{After: 360},
		BodyAfter:       120,
		BulletAfter:     80,
		SpacerAfter:     40,
		CellMargins:     CellMargins{Top: 80, Right: 120, Bottom: 80, Left: 120},
		CellBorder:      Border{Style: BorderSingle, Size: 1, Color: p.Border},
		TableWidth:      9360,
	}
}

// validate checks every preset and palette entry
func (s Styles) validate() error {
	errs := NewMultiError()
	presets := map[string]TextStyle{
		"title": s.Text.Title, "subtitle": s.Text.Subtitle, "note": s.Text.Note,
		"heading-1": s.Text.Heading1, "heading-2": s.Text.Heading2, "body": s.Text.Body,
		"caption": s.Text.Caption, "table-header": s.Text.TableHeader, "table-cell": s.Text.TableCell,
		"header": s.Text.HeaderText, "footer": s.Text.FooterText,
	}
	for _, name := range sortedKeys(presets) {
		if err := presets[name].validate(); err != nil {
			errs.Add(fmt.Errorf("preset %s: %w", name, err))
		}
	}
	if s.DefaultSize <= 0 {
		errs.Add(NewInvalidValueError("default size", s.DefaultSize, "must be positive"))
	}
	if s.CellBorder.Style != "" && !s.CellBorder.Color.Valid() {
		errs.Add(NewInvalidValueError("cell border color", s.CellBorder.Color, "expected six hex digits"))
	}
	return errs.Err()
}
