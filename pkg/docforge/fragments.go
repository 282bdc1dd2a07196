package docforge

import (
	wml "github.com/benjaminschreck/go-docforge/pkg/docforge/xml"
)

// stylesPart derives word/styles.xml from the registry: document defaults,
// Normal, the two heading styles and the table grid style.
func stylesPart(s Styles) wml.Styles {
	body := s.Text.Body
	heading := func(id, name string, level int, style TextStyle, spacing Spacing) wml.StyleDefinition {
		return wml.StyleDefinition{
			Type:        "paragraph",
			StyleID:     id,
			Name:        &wml.Style{Val: name},
			BasedOn:     &wml.Style{Val: "Normal"},
			Next:        &wml.Style{Val: "Normal"},
			QuickFormat: &wml.Empty{},
			ParagraphProperties: &wml.ParagraphProperties{
				KeepNext:     &wml.Empty{},
				Spacing:      &wml.Spacing{Before: int(spacing.Before), After: int(spacing.After)},
				OutlineLevel: &wml.IntVal{Val: level},
			},
			RunProperties: runProperties(style),
		}
	}

	border := func() *wml.BorderProperties {
		b := s.CellBorder
		if b.Style == "" {
			return &wml.BorderProperties{Val: string(BorderNone)}
		}
		return &wml.BorderProperties{Val: string(b.Style), Sz: b.Size, Color: b.Color.hex()}
	}

	return wml.Styles{
		DocDefaults: &wml.DocDefaults{
			RunProperties: &wml.RunProperties{
				Font:   wml.NewFont(s.DefaultFont),
				Size:   &wml.Size{Val: int(s.DefaultSize)},
				SizeCs: &wml.Size{Val: int(s.DefaultSize)},
			},
			ParagraphProperties: &wml.ParagraphProperties{
				Spacing: &wml.Spacing{},
			},
		},
		Styles: []wml.StyleDefinition{
			{
				Type:          "paragraph",
				StyleID:       "Normal",
				Default:       true,
				Name:          &wml.Style{Val: "Normal"},
				QuickFormat:   &wml.Empty{},
				RunProperties: runProperties(body),
			},
			heading("Heading1", "heading 1", 0, s.Text.Heading1, s.Heading1Spacing),
			heading("Heading2", "heading 2", 1, s.Text.Heading2, s.Heading2Spacing),
			{
				Type:    "table",
				StyleID: "TableGrid",
				Name:    &wml.Style{Val: "Table Grid"},
				TableProperties: &wml.TableProperties{
					Borders: &wml.TableBorders{
						Top: border(), Left: border(), Bottom: border(), Right: border(),
						InsideH: border(), InsideV: border(),
					},
				},
			},
		},
	}
}

// numberingPart writes one abstract definition and one instance per declared
// list, so no two lists share counter state.
func numberingPart(defs []NumberingDefinition) wml.Numbering {
	var n wml.Numbering
	for i, def := range defs {
		multi := "singleLevel"
		if len(def.levels) > 1 {
			multi = "hybridMultilevel"
		}
		an := wml.AbstractNum{ID: i, MultiLevelType: &wml.Style{Val: multi}}
		for li, lvl := range def.levels {
			jc := string(lvl.Alignment)
			if jc == "" {
				jc = string(AlignLeft)
			}
			an.Levels = append(an.Levels, wml.Level{
				ILvl:          li,
				Start:         wml.IntVal{Val: 1},
				NumFmt:        wml.Style{Val: lvl.Format},
				LevelText:     wml.Style{Val: lvl.Text},
				Justification: wml.Style{Val: jc},
				ParagraphProperties: &wml.ParagraphProperties{
					Indentation: &wml.Indentation{Left: int(lvl.Indent), Hanging: int(lvl.Hanging)},
				},
			})
		}
		n.AbstractNums = append(n.AbstractNums, an)
		n.Nums = append(n.Nums, wml.Num{ID: i + 1, AbstractNumID: wml.IntVal{Val: i}})
	}
	return n
}
