package docforge

import (
	"fmt"
	"strconv"
	"strings"
)

// ListKind is the marker family of a numbering definition
type ListKind string

const (
	ListBullet  ListKind = "bullet"
	ListDecimal ListKind = "decimal"
)

// MaxListLevels is the deepest nesting a numbering definition may describe
const MaxListLevels = 9

// LevelFormat describes the marker and indentation of one list level.
// Text uses %N placeholders for the counter of level N (1-based), e.g. "%1.".
type LevelFormat struct {
	Format    string // bullet, decimal, lowerLetter, lowerRoman, upperLetter, upperRoman
	Text      string
	Alignment Alignment
	Indent    Twips
	Hanging   Twips
}

// DefaultLevels returns three levels of the given kind indented 720 twips per step
func DefaultLevels(kind ListKind) []LevelFormat {
	switch kind {
	case ListBullet:
		return []LevelFormat{
			{Format: "bullet", Text: "•", Alignment: AlignLeft, Indent: 720, Hanging: 360},
			{Format: "bullet", Text: "◦", Alignment: AlignLeft, Indent: 1440, Hanging: 360},
			{Format: "bullet", Text: "▪", Alignment: AlignLeft, Indent: 2160, Hanging: 360},
		}
	case ListDecimal:
		return []LevelFormat{
			{Format: "decimal", Text: "%1.", Alignment: AlignLeft, Indent: 720, Hanging: 360},
			{Format: "lowerLetter", Text: "%2.", Alignment: AlignLeft, Indent: 1440, Hanging: 360},
			{Format: "lowerRoman", Text: "%3.", Alignment: AlignLeft, Indent: 2160, Hanging: 360},
		}
	}
	return nil
}

// NumberingDefinition is a declared list: its id, kind and per-level formats.
// Each definition carries its own counter state in the output.
type NumberingDefinition struct {
	id     string
	kind   ListKind
	levels []LevelFormat
}

func (d NumberingDefinition) ID() string { return d.id }

func (d NumberingDefinition) Kind() ListKind { return d.kind }

// Levels returns a copy of the level formats
func (d NumberingDefinition) Levels() []LevelFormat {
	out := make([]LevelFormat, len(d.levels))
	copy(out, d.levels)
	return out
}

// NumberingRegistry collects numbering definitions during the build phase.
// It is not safe for concurrent use.
type NumberingRegistry struct {
	defs  []NumberingDefinition
	index map[string]int
	seq   map[ListKind]int
}

// NewNumberingRegistry creates an empty registry
func NewNumberingRegistry() *NumberingRegistry {
	return &NumberingRegistry{
		index: make(map[string]int),
		seq:   make(map[ListKind]int),
	}
}

// Declare registers a definition under id. Without levels the kind's
// DefaultLevels are used.
func (r *NumberingRegistry) Declare(id string, kind ListKind, levels ...LevelFormat) (NumberingDefinition, error) {
	if strings.TrimSpace(id) == "" {
		return NumberingDefinition{}, NewInvalidValueError("numbering id", id, "must not be empty")
	}
	if _, exists := r.index[id]; exists {
		return NumberingDefinition{}, &DuplicateIDError{ID: id}
	}
	if kind != ListBullet && kind != ListDecimal {
		return NumberingDefinition{}, NewInvalidValueError("list kind", kind, "expected bullet or decimal")
	}
	if len(levels) == 0 {
		levels = DefaultLevels(kind)
	}
	if len(levels) > MaxListLevels {
		return NumberingDefinition{}, NewInvalidValueError("list levels", len(levels), fmt.Sprintf("at most %d levels are supported", MaxListLevels))
	}
	for i, lvl := range levels {
		if err := lvl.validate(); err != nil {
			return NumberingDefinition{}, fmt.Errorf("numbering %q level %d: %w", id, i, err)
		}
	}

	def := NumberingDefinition{id: id, kind: kind, levels: append([]LevelFormat(nil), levels...)}
	r.index[id] = len(r.defs)
	r.defs = append(r.defs, def)
	return def, nil
}

// NewList declares a definition with a fresh id such as "bullet-3".
// Each logical list should get its own id so its counter restarts.
func (r *NumberingRegistry) NewList(kind ListKind) (string, error) {
	for {
		r.seq[kind]++
		id := string(kind) + "-" + strconv.Itoa(r.seq[kind])
		if _, taken := r.index[id]; taken {
			continue
		}
		if _, err := r.Declare(id, kind); err != nil {
			return "", err
		}
		return id, nil
	}
}

// Lookup returns the definition declared under id
func (r *NumberingRegistry) Lookup(id string) (NumberingDefinition, bool) {
	i, ok := r.index[id]
	if !ok {
		return NumberingDefinition{}, false
	}
	return r.defs[i], true
}

// Definitions returns the definitions in declaration order
func (r *NumberingRegistry) Definitions() []NumberingDefinition {
	out := make([]NumberingDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Len returns the number of declared definitions
func (r *NumberingRegistry) Len() int {
	return len(r.defs)
}

func (l LevelFormat) validate() error {
	switch l.Format {
	case "bullet", "decimal", "lowerLetter", "lowerRoman", "upperLetter", "upperRoman":
	default:
		return NewInvalidValueError("level format", l.Format, "unsupported marker format")
	}
	if l.Text == "" {
		return NewInvalidValueError("level text", l.Text, "must not be empty")
	}
	if l.Indent < 0 || l.Hanging < 0 {
		return NewInvalidValueError("level indentation", [2]Twips{l.Indent, l.Hanging}, "must not be negative")
	}
	return nil
}

// ListMarker is the label a list paragraph would display
type ListMarker struct {
	ListID string
	Level  int
	Label  string
}

// ListMarkers computes the marker of every numbered paragraph in body order,
// keeping one counter set per definition. A paragraph at a shallower level
// restarts the deeper counters of the same list.
func ListMarkers(doc *Document) []ListMarker {
	defs := make(map[string]NumberingDefinition, len(doc.numbering))
	for _, d := range doc.numbering {
		defs[d.id] = d
	}
	counters := make(map[string][]int)

	var markers []ListMarker
	doc.walkParagraphs(func(p Paragraph, _ string) {
		ref := p.props.Numbering
		if ref == nil {
			return
		}
		def, ok := defs[ref.ListID]
		if !ok || ref.Level < 0 || ref.Level >= len(def.levels) {
			return
		}
		c := counters[ref.ListID]
		if c == nil {
			c = make([]int, len(def.levels))
			counters[ref.ListID] = c
		}
		c[ref.Level]++
		for deeper := ref.Level + 1; deeper < len(c); deeper++ {
			c[deeper] = 0
		}
		markers = append(markers, ListMarker{
			ListID: ref.ListID,
			Level:  ref.Level,
			Label:  formatLabel(def.levels[ref.Level].Text, def.levels, c),
		})
	})
	return markers
}

func formatLabel(text string, levels []LevelFormat, counters []int) string {
	out := text
	for i := len(levels) - 1; i >= 0; i-- {
		placeholder := "%" + strconv.Itoa(i+1)
		if !strings.Contains(out, placeholder) {
			continue
		}
		n := counters[i]
		if n == 0 {
			n = 1
		}
		out = strings.ReplaceAll(out, placeholder, formatCounter(levels[i].Format, n))
	}
	return out
}

func formatCounter(format string, n int) string {
	switch format {
	case "lowerLetter":
		return strings.ToLower(letters(n))
	case "upperLetter":
		return letters(n)
	case "lowerRoman":
		return strings.ToLower(roman(n))
	case "upperRoman":
		return roman(n)
	}
	return strconv.Itoa(n)
}

// letters renders 1..26 as A..Z, then AA, BB, ... as word processors do
func letters(n int) string {
	repeat := (n-1)/26 + 1
	return strings.Repeat(string(rune('A'+(n-1)%26)), repeat)
}

func roman(n int) string {
	values := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	symbols := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}
	var sb strings.Builder
	for i, v := range values {
		for n >= v {
			sb.WriteString(symbols[i])
			n -= v
		}
	}
	return sb.String()
}
