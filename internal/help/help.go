// Package help parses the embedded key binding reference shown in the
// questionnaire's help pane. The reference is markdown; sections are
// its level-2 headings with their bullet lines flattened to plain
// text.
package help

import (
	_ "embed"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed keys.md
var keysMarkdown []byte

// Section is one help pane section: a heading plus its binding lines.
type Section struct {
	Title string
	Lines []string
}

// Sections parses the embedded key binding reference.
func Sections() []Section {
	return parseSections(keysMarkdown)
}

func parseSections(source []byte) []Section {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var sections []Section
	var current *Section

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 2 {
				sections = append(sections, Section{Title: extractText(node, source)})
				current = &sections[len(sections)-1]
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if current != nil {
				if line := extractText(node, source); line != "" {
					current.Lines = append(current.Lines, line)
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sections
}

// extractText flattens a node's inline text content, including code
// spans, into one space-normalized string.
func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := child.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.CodeSpan:
			for c := t.FirstChild(); c != nil; c = c.NextSibling() {
				if txt, ok := c.(*ast.Text); ok {
					sb.Write(txt.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}
