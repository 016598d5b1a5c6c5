// Package text renders formatted interpretations for the terminal.
//
// Words are drawn on the background of the first entity that points at
// them, followed by a dim "+n" when more entities share the word. Frames
// are printed as attribute tables, headed by the frame ID in its entity
// color. Colors degrade gracefully: when the output is not a terminal
// lipgloss drops the escape codes and only the text remains.
package text

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tmrview/pkg/tmr"
)

var (
	colorInk    = lipgloss.Color("0")   // Black - text on entity colors
	colorGray   = lipgloss.Color("245") // Gray - headers
	colorDim    = lipgloss.Color("240") // Dim gray - borders, markers
	colorAccent = lipgloss.Color("36")  // Teal - titles

	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
)

// Group labels, in display order.
const (
	labelRequired  = "required"
	labelOptional  = "optional"
	labelAuxiliary = "auxiliary"
)

// Output renders one interpretation: a title line, the scores, the colored
// sentences and one table per frame.
func Output(out tmr.Output) string {
	var b strings.Builder
	title := fmt.Sprintf("Sentence %s", out.SentenceID)
	if out.SentenceID == "" {
		title = "Sentence"
	}
	b.WriteString(styleTitle.Render(fmt.Sprintf("%s · interpretation %d", title, out.TMRIndex+1)))
	b.WriteString("\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("preference %s · confidence %s",
		score(out.TotalPreference), score(out.TotalConfidence))))
	b.WriteString("\n\n")
	b.WriteString(Sentences(out.Sentences))
	b.WriteString("\n\n")
	b.WriteString(Frames(out.Frames))
	return b.String()
}

// Sentences renders tokenized sentences with their highlights.
func Sentences(sentences []tmr.Sentence) string {
	var b strings.Builder
	for _, s := range sentences {
		for _, w := range s.Words {
			b.WriteString(Word(w))
			b.WriteString(w.Spacing)
		}
		b.WriteString(s.Punct)
		b.WriteString(s.Spacing)
	}
	return strings.TrimRight(b.String(), " \t\n")
}

// Word renders a single token on its first color.
func Word(w tmr.Word) string {
	if len(w.Colors) == 0 {
		return w.Token
	}
	token := swatch(w.Colors[0]).Render(w.Token)
	if extra := len(w.Colors) - 1; extra > 0 {
		token += styleDim.Render(fmt.Sprintf("+%d", extra))
	}
	return token
}

// Frames renders each frame as a titled table, separated by blank lines.
func Frames(frames []*tmr.Frame) string {
	parts := make([]string, 0, len(frames))
	for _, f := range frames {
		parts = append(parts, Frame(f))
	}
	return strings.Join(parts, "\n\n")
}

// Frame renders one frame: its ID on the entity color, the preference
// scores when present, and a Group/Key/Value table.
func Frame(f *tmr.Frame) string {
	var b strings.Builder
	b.WriteString(swatch(f.Color).Bold(true).Render(" " + f.ID + " "))
	if f.Preference != 0 || f.SemPreference != 0 {
		b.WriteString(" ")
		b.WriteString(styleDim.Render(fmt.Sprintf("preference %s · sem %s", score(f.Preference), score(f.SemPreference))))
	}

	rows, colors := frameRows(f)
	if len(rows) == 0 {
		b.WriteString("\n")
		b.WriteString(styleDim.Render("  (no attributes)"))
		return b.String()
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Group", "Key", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 0 {
				return styleDim
			}
			if col == 2 && row >= 0 && row < len(colors) && colors[row] != "" {
				return swatch(colors[row])
			}
			return lipgloss.NewStyle()
		})

	b.WriteString("\n")
	b.WriteString(t.Render())
	return b.String()
}

// frameRows flattens a frame's groups into table rows and the value color
// of each row.
func frameRows(f *tmr.Frame) ([][]string, []string) {
	var (
		rows   [][]string
		colors []string
	)
	groups := []struct {
		label string
		group tmr.Group
	}{
		{labelRequired, f.Attributes.Required},
		{labelOptional, f.Attributes.Optional},
		{labelAuxiliary, f.Attributes.Auxiliary},
	}
	for _, g := range groups {
		for _, k := range g.group.Keys() {
			a := g.group[k]
			rows = append(rows, []string{g.label, k, attributeText(a)})
			colors = append(colors, a.Color)
		}
	}
	return rows, colors
}

// attributeText is the value cell: the display value, then the lexicon
// gloss and constraint record when present.
func attributeText(a *tmr.Attribute) string {
	lines := []string{a.Value}
	if e := a.Lexicon; e != nil {
		gloss := e.Word
		if e.Definition != "" {
			if gloss != "" {
				gloss += ": "
			}
			gloss += e.Definition
		}
		if gloss != "" {
			lines = append(lines, "≈ "+gloss)
		}
	}
	if a.ConstraintInfo != nil {
		if data, err := json.Marshal(a.ConstraintInfo); err == nil {
			lines = append(lines, "constraint "+string(data))
		}
	}
	return strings.Join(lines, "\n")
}

// swatch returns a style drawing text on the opaque equivalent of an
// hsla entity color. Unparseable colors yield a plain style.
func swatch(color string) lipgloss.Style {
	c, ok := tmr.ParseHSLA(color)
	if !ok {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Foreground(colorInk)
}

func score(f float64) string {
	return fmt.Sprintf("%.3g", f)
}
