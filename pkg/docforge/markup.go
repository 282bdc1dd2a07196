package docforge

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Markup parses inline HTML into a body paragraph. Supported elements are
// b, strong, i, em, br, span with a style color, and font with a color
// attribute. Any other element is rejected.
func (b *Builder) Markup(fragment string) (Paragraph, error) {
	runs, err := b.MarkupRuns(fragment, b.styles.Text.Body)
	if err != nil {
		return Paragraph{}, err
	}
	return newParagraph(ParagraphProps{SpacingAfter: b.styles.BodyAfter}, runs...), nil
}

// MarkupRuns parses inline HTML into runs based on preset
func (b *Builder) MarkupRuns(fragment string, preset TextStyle) ([]TextRun, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, fmt.Errorf("invalid markup: %w", err)
	}

	var runs []TextRun
	for _, n := range nodes {
		if err := collectRuns(n, preset, &runs); err != nil {
			return nil, err
		}
	}
	return mergeRuns(runs), nil
}

func collectRuns(n *html.Node, style TextStyle, runs *[]TextRun) error {
	switch n.Type {
	case html.TextNode:
		if n.Data != "" {
			*runs = append(*runs, TextRun{kind: runText, text: n.Data, style: style})
		}
		return nil
	case html.CommentNode:
		return nil
	case html.ElementNode:
	default:
		return fmt.Errorf("unsupported markup node type %d", n.Type)
	}

	switch n.DataAtom {
	case atom.B, atom.Strong:
		style.Bold = true
	case atom.I, atom.Em:
		style.Italic = true
	case atom.Br:
		*runs = append(*runs, NewLineBreakRun())
		return nil
	case atom.Span:
		if c, ok, err := styleColor(n); err != nil {
			return err
		} else if ok {
			style.Color = c
		}
	case atom.Font:
		if v, ok := attr(n, "color"); ok {
			c, err := ParseColor(v)
			if err != nil {
				return fmt.Errorf("font color: %w", err)
			}
			style.Color = c
		}
	default:
		return fmt.Errorf("unsupported HTML tag: %s", n.Data)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := collectRuns(c, style, runs); err != nil {
			return err
		}
	}
	return nil
}

// styleColor reads the color declaration of an inline style attribute
func styleColor(n *html.Node) (Color, bool, error) {
	v, ok := attr(n, "style")
	if !ok {
		return "", false, nil
	}
	for _, decl := range strings.Split(v, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found || strings.TrimSpace(strings.ToLower(name)) != "color" {
			continue
		}
		c, err := ParseColor(value)
		if err != nil {
			return "", false, fmt.Errorf("span color: %w", err)
		}
		return c, true, nil
	}
	return "", false, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// mergeRuns joins adjacent text runs that share a style
func mergeRuns(runs []TextRun) []TextRun {
	var out []TextRun
	for _, r := range runs {
		if n := len(out); n > 0 && r.kind == runText && out[n-1].kind == runText && out[n-1].style == r.style {
			out[n-1].text += r.text
			continue
		}
		out = append(out, r)
	}
	return out
}
