package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New().Parser()

// renderMarkdown renders lesson content as styled terminal text wrapped to
// width. Markup characters are consumed; raw HTML is dropped.
func renderMarkdown(src string, styles Styles, width int) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}
	source := []byte(src)
	doc := markdownParser.Parse(text.NewReader(source))

	r := &mdRenderer{src: source, styles: styles, width: width}
	// walk never returns an error.
	_ = ast.Walk(doc, r.walk)
	r.flush()

	var b strings.Builder
	for i, blk := range r.blocks {
		if i > 0 {
			if blk.tight {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(blk.text)
	}
	return b.String()
}

type mdBlock struct {
	text  string
	tight bool
}

type mdList struct {
	ordered bool
	tight   bool
	next    int
	first   bool
}

type mdRenderer struct {
	src    []byte
	styles Styles
	width  int

	blocks []mdBlock
	inline strings.Builder

	prefix []string
	lists  []mdList
	marker string

	heading int
	bold    int
	italic  int
	code    int
	link    int
}

func (r *mdRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.heading = node.Level
		} else {
			r.flush()
			r.heading = 0
		}
	case *ast.Paragraph, *ast.TextBlock:
		if !entering {
			r.flush()
		}
	case *ast.ThematicBreak:
		if entering {
			r.emit(r.styles.FaintText.Render(strings.Repeat("─", r.width/2)), false)
		}
	case *ast.CodeBlock:
		if entering {
			r.codeBlock(node.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock:
		if entering {
			r.codeBlock(node.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren, nil
	case *ast.Blockquote:
		if entering {
			r.prefix = append(r.prefix, r.styles.FaintText.Render("│ "))
		} else {
			r.prefix = r.prefix[:len(r.prefix)-1]
		}
	case *ast.List:
		if entering {
			start := node.Start
			if start == 0 {
				start = 1
			}
			r.lists = append(r.lists, mdList{ordered: node.IsOrdered(), tight: node.IsTight, next: start, first: true})
		} else {
			r.lists = r.lists[:len(r.lists)-1]
		}
	case *ast.ListItem:
		if entering {
			l := &r.lists[len(r.lists)-1]
			if l.ordered {
				r.marker = r.styles.AccentText.Render(fmt.Sprintf("%d. ", l.next))
				l.next++
			} else {
				r.marker = r.styles.AccentText.Render("• ")
			}
		}
	case *ast.Emphasis:
		if node.Level >= 2 {
			r.bold += depth(entering)
		} else {
			r.italic += depth(entering)
		}
	case *ast.CodeSpan:
		r.code += depth(entering)
	case *ast.Link:
		r.link += depth(entering)
		if !entering && len(node.Destination) > 0 {
			r.inline.WriteString(r.styles.FaintText.Render(" (" + string(node.Destination) + ")"))
		}
	case *ast.AutoLink:
		if entering {
			r.inline.WriteString(r.styles.AccentText.Underline(true).Render(string(node.URL(r.src))))
		}
		return ast.WalkSkipChildren, nil
	case *ast.Image:
		if entering {
			r.inline.WriteString(r.styles.FaintText.Render("[image: "))
		} else {
			r.inline.WriteString(r.styles.FaintText.Render("]"))
		}
	case *ast.Text:
		if entering {
			r.write(string(node.Segment.Value(r.src)))
			switch {
			case node.HardLineBreak():
				r.inline.WriteString("\n")
			case node.SoftLineBreak():
				r.inline.WriteString(" ")
			}
		}
	case *ast.String:
		if entering {
			r.write(string(node.Value))
		}
	}
	return ast.WalkContinue, nil
}

func depth(entering bool) int {
	if entering {
		return 1
	}
	return -1
}

func (r *mdRenderer) style() lipgloss.Style {
	st := r.styles.Text
	switch {
	case r.code > 0:
		st = r.styles.InfoText
	case r.link > 0:
		st = r.styles.AccentText.Underline(true)
	case r.heading > 0:
		st = r.styles.AccentText.Bold(true)
		if r.heading == 1 {
			st = st.Underline(true)
		}
	}
	if r.bold > 0 {
		st = st.Bold(true)
	}
	if r.italic > 0 {
		st = st.Italic(true)
	}
	return st
}

func (r *mdRenderer) write(s string) {
	if s == "" {
		return
	}
	r.inline.WriteString(r.style().Render(s))
}

// flush turns the pending inline text into a block.
func (r *mdRenderer) flush() {
	body := r.inline.String()
	r.inline.Reset()
	if strings.TrimSpace(ansi.Strip(body)) == "" {
		return
	}
	tight := false
	if len(r.lists) > 0 {
		l := &r.lists[len(r.lists)-1]
		tight = l.tight && !l.first
		l.first = false
	}
	r.emit(body, tight)
}

func (r *mdRenderer) emit(body string, tight bool) {
	indent := strings.Repeat("  ", max(len(r.lists)-1, 0))
	quote := strings.Join(r.prefix, "")
	first := indent + quote + r.marker
	rest := indent + quote + strings.Repeat(" ", ansi.StringWidth(r.marker))
	r.marker = ""

	avail := r.width - ansi.StringWidth(first)
	if avail < 10 {
		avail = 10
	}
	lines := strings.Split(ansi.Wrap(body, avail, ""), "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = first + line
		} else {
			lines[i] = rest + line
		}
	}
	r.blocks = append(r.blocks, mdBlock{text: strings.Join(lines, "\n"), tight: tight})
}

func (r *mdRenderer) codeBlock(lines *text.Segments) {
	r.flush()
	out := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(r.src)), "\n")
		out = append(out, "  "+r.styles.InfoText.Render(line))
	}
	tight := false
	if len(r.lists) > 0 {
		tight = r.lists[len(r.lists)-1].tight
	}
	r.blocks = append(r.blocks, mdBlock{text: strings.Join(out, "\n"), tight: tight})
	r.marker = ""
}
