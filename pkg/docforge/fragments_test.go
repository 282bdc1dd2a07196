package docforge

import (
	"strings"
	"testing"
)

func TestStylesPart(t *testing.T) {
	b := newTestBuilder(t)
	doc := mustDocument(t, b, b.SectionHeading("Summary"))
	s := partString(t, encodeForTest(t, doc), PartStyles)

	wantInOrder := []string{
		`<w:docDefaults>`,
		`<w:rFonts w:ascii="Arial"`,
		`w:styleId="Normal"`,
		`w:styleId="Heading1"`,
		`<w:basedOn w:val="Normal">`,
		`<w:spacing w:before="360" w:after="200">`,
		`<w:outlineLvl w:val="0">`,
		`w:styleId="Heading2"`,
		`<w:outlineLvl w:val="1">`,
		`w:styleId="TableGrid"`,
		`<w:insideV w:val="single" w:sz="1" w:space="0" w:color="B0BEC5">`,
	}
	pos := 0
	for _, want := range wantInOrder {
		idx := strings.Index(s[pos:], want)
		if idx < 0 {
			t.Fatalf("missing or out of order: %s\nin: %s", want, s)
		}
		pos += idx + len(want)
	}
}

func TestStylesPartWithoutBorders(t *testing.T) {
	styles := DefaultStyles()
	styles.CellBorder = Border{}
	part := stylesPart(styles)

	grid := part.Styles[len(part.Styles)-1]
	if grid.StyleID != "TableGrid" {
		t.Fatalf("last style = %s, want TableGrid", grid.StyleID)
	}
	if v := grid.TableProperties.Borders.Top.Val; v != string(BorderNone) {
		t.Errorf("top border = %q, want %q", v, BorderNone)
	}
}
