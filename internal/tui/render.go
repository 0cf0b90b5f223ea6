package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/labeller/internal/field"
	"github.com/harrison/labeller/internal/help"
	"github.com/harrison/labeller/internal/question"
	"github.com/harrison/labeller/internal/session"
)

// Renderer paints the questionnaire screen. Colors are enabled only
// when the output is a terminal.
type Renderer struct {
	out      io.Writer
	header   string
	useColor bool
	showHelp bool

	focusColor *color.Color
	errorColor *color.Color
	dimColor   *color.Color
	matchColor *color.Color
}

// NewRenderer builds a renderer writing to out under the given header
// line.
func NewRenderer(out io.Writer, header string) *Renderer {
	useColor := false
	if f, ok := out.(interface{ Fd() uintptr }); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Renderer{
		out:        out,
		header:     header,
		useColor:   useColor,
		focusColor: color.New(color.FgGreen, color.Bold),
		errorColor: color.New(color.FgRed),
		dimColor:   color.New(color.FgHiBlack),
		matchColor: color.New(color.FgCyan),
	}
}

// ToggleHelp flips the help pane on or off.
func (r *Renderer) ToggleHelp() { r.showHelp = !r.showHelp }

func (r *Renderer) paint(c *color.Color, s string) string {
	if !r.useColor {
		return s
	}
	return c.Sprint(s)
}

// Render clears the screen and paints the whole session state.
func (r *Renderer) Render(s *session.Session) {
	var sb strings.Builder
	sb.WriteString("\x1b[2J\x1b[H")
	sb.WriteString(r.header)
	sb.WriteString("\r\n\r\n")

	for i, entry := range s.Entries() {
		r.renderEntry(&sb, entry, i == s.Focus())
	}

	if r.showHelp {
		r.renderHelp(&sb)
	} else {
		sb.WriteString("\r\n")
		sb.WriteString(r.paint(r.dimColor, "? help / q quit"))
		sb.WriteString("\r\n")
	}
	io.WriteString(r.out, sb.String())
}

func (r *Renderer) renderEntry(sb *strings.Builder, entry *session.Entry, focused bool) {
	marker := "  "
	if focused {
		marker = r.paint(r.focusColor, "> ")
	}

	prompt := entry.Descriptor.Prompt
	if entry.Controller.Errored() {
		prompt = r.paint(r.errorColor, prompt)
	}
	fmt.Fprintf(sb, "%s%s %s\r\n", marker, prompt, entry.Controller.RawText())

	if !focused {
		return
	}
	switch c := entry.Controller.(type) {
	case *field.TextController:
		r.renderSuggestions(sb, c)
	case *field.VerticalController:
		r.renderBatch(sb, c)
	case *field.HorizontalController:
		r.renderToggles(sb, c)
	}
}

// renderSuggestions paints the AI and history panes below a focused
// text field. The no-match sentinel is shown dimmed so the user sees
// the pane is live but empty.
func (r *Renderer) renderSuggestions(sb *strings.Builder, c *field.TextController) {
	panes := []struct {
		label string
		texts []string
	}{
		{"ai", c.AISuggestions()},
		{"history", c.HistorySuggestions()},
	}
	for _, pane := range panes {
		if len(pane.texts) == 0 {
			continue
		}
		line := strings.Join(pane.texts, "  ")
		if question.IsNoMatch(pane.texts) {
			line = r.paint(r.dimColor, line)
		} else {
			line = r.paint(r.matchColor, line)
		}
		fmt.Fprintf(sb, "      %s: %s\r\n", pane.label, line)
	}
}

// renderBatch paints the focused vertical chooser's visible page with
// global indices.
func (r *Renderer) renderBatch(sb *strings.Builder, c *field.VerticalController) {
	start, choices := c.BatchChoices()
	for i, choice := range choices {
		fmt.Fprintf(sb, "      %3d  %s\r\n", start+i, choice)
	}
	total := len(c.Descriptor().Choices)
	if total > len(choices) {
		fmt.Fprintf(sb, "      %s\r\n",
			r.paint(r.dimColor, fmt.Sprintf("page %d/%d, left/right to page", c.Batch()+1, (total+field.BatchSize-1)/field.BatchSize)))
	}
}

// renderToggles paints a horizontal chooser as a row of exclusive
// toggles, bracketing the focused one.
func (r *Renderer) renderToggles(sb *strings.Builder, c *field.HorizontalController) {
	var parts []string
	for i, choice := range c.Descriptor().Choices {
		cell := " " + choice + " "
		if i == c.Focus() {
			cell = "[" + choice + "]"
			cell = r.paint(r.focusColor, cell)
		}
		if i == c.Selected() {
			cell = "*" + cell
		}
		parts = append(parts, cell)
	}
	fmt.Fprintf(sb, "      %s\r\n", strings.Join(parts, " "))
}

func (r *Renderer) renderHelp(sb *strings.Builder) {
	sb.WriteString("\r\n")
	for _, section := range help.Sections() {
		fmt.Fprintf(sb, "%s\r\n", r.paint(r.focusColor, section.Title))
		for _, line := range section.Lines {
			fmt.Fprintf(sb, "  %s\r\n", line)
		}
	}
}
