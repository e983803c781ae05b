// Package markdown renders task descriptions as styled terminal text.
package markdown

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

// minWidth keeps wrapping sane inside deeply nested lists.
const minWidth = 10

const wrapBreakpoints = " ,.;-+|"

var (
	parser     goldmark.Markdown
	parserOnce sync.Once
)

func md() goldmark.Markdown {
	parserOnce.Do(func() {
		parser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return parser
}

// Render parses src as GitHub-flavored markdown and returns it styled with
// the active theme, word-wrapped to width. Soft line breaks reflow into
// spaces. Empty input renders as an empty string.
func Render(src string, width int) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	source := []byte(src)
	doc := md().Parser().Parse(text.NewReader(source))

	lr := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lr.SetColorProfile(termenv.ANSI256)

	r := &termRenderer{
		source: source,
		theme:  styles.GetActiveTheme(),
		width:  width,
		lr:     lr,
	}
	_ = ast.Walk(doc, r.walk)

	return strings.TrimRight(r.out.String(), "\n")
}

// PlainText strips all styling from rendered markdown.
func PlainText(src string, width int) string {
	return ansi.Strip(Render(src, width))
}

type termRenderer struct {
	source []byte
	theme  *styles.ThemedStyles
	width  int
	lr     *lipgloss.Renderer

	out    strings.Builder
	inline strings.Builder

	prefixes    []string
	prefix      string
	prefixWidth int
	bullet      string

	bold, italic, strike int

	lists []listState

	trailing int
}

type listState struct {
	ordered bool
	next    int
	tight   bool
}

func (r *termRenderer) style() lipgloss.Style {
	return r.lr.NewStyle()
}

func (r *termRenderer) available() int {
	w := r.width - r.prefixWidth
	if w < minWidth {
		w = minWidth
	}
	return w
}

func (r *termRenderer) push(p string) {
	r.prefixes = append(r.prefixes, p)
	r.prefix += p
	r.prefixWidth += ansi.StringWidth(p)
}

func (r *termRenderer) pop() {
	if len(r.prefixes) == 0 {
		return
	}
	top := r.prefixes[len(r.prefixes)-1]
	r.prefixes = r.prefixes[:len(r.prefixes)-1]
	r.prefix = r.prefix[:len(r.prefix)-len(top)]
	r.prefixWidth -= ansi.StringWidth(top)
}

func (r *termRenderer) tight() bool {
	return len(r.lists) > 0 && r.lists[len(r.lists)-1].tight
}

func (r *termRenderer) write(s string) {
	if s == "" {
		return
	}
	r.out.WriteString(s)

	n := len(s) - len(strings.TrimRight(s, "\n"))
	if n == len(s) {
		r.trailing += n
	} else {
		r.trailing = n
	}
}

func (r *termRenderer) newline() {
	if r.trailing < 1 {
		r.write("\n")
	}
}

func (r *termRenderer) blank() {
	if r.out.Len() == 0 {
		return
	}
	for r.trailing < 2 {
		r.write("\n")
	}
}

// linePrefix returns the pending list bullet once, then the regular prefix.
func (r *termRenderer) linePrefix() string {
	if r.bullet != "" {
		b := r.bullet
		r.bullet = ""
		return b
	}
	return r.prefix
}

func (r *termRenderer) indent(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = r.linePrefix() + line
		} else {
			lines[i] = r.prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func (r *termRenderer) flush() string {
	content := r.inline.String()
	r.inline.Reset()
	if content == "" {
		return ""
	}
	return r.indent(ansi.Wrap(content, r.available(), wrapBreakpoints))
}

func (r *termRenderer) styled(s string) string {
	st := r.style().Foreground(r.theme.TextColor)
	if r.bold > 0 {
		st = st.Bold(true)
	}
	if r.italic > 0 {
		st = st.Italic(true)
	}
	if r.strike > 0 {
		st = st.Strikethrough(true)
	}
	return st.Render(s)
}

// children renders the inline children of n without disturbing the
// enclosing inline buffer.
func (r *termRenderer) children(n ast.Node) string {
	saved := r.inline.String()
	bold, italic, strike := r.bold, r.italic, r.strike

	r.inline.Reset()
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		_ = ast.Walk(c, r.walk)
	}
	out := r.inline.String()

	r.inline.Reset()
	r.inline.WriteString(saved)
	r.bold, r.italic, r.strike = bold, italic, strike
	return out
}

func (r *termRenderer) lines(n ast.Node) string {
	var b strings.Builder
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(r.source))
	}
	return b.String()
}

func (r *termRenderer) highlight(code, lang string) string {
	plain := r.style().Foreground(r.theme.CodeColor)
	if lang == "" {
		return plain.Render(code)
	}
	var b strings.Builder
	if err := quick.Highlight(&b, code, lang, "terminal256", "monokai"); err != nil {
		return plain.Render(code)
	}
	return b.String()
}

func (r *termRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			r.inline.Reset()
			break
		}
		if out := r.flush(); out != "" {
			r.write(out)
			r.newline()
			if !r.tight() {
				r.blank()
			}
		}

	case ast.KindHeading:
		if entering {
			r.inline.Reset()
			break
		}
		r.heading(n.(*ast.Heading))

	case ast.KindFencedCodeBlock:
		if entering {
			fb := n.(*ast.FencedCodeBlock)
			r.codeBlock(r.highlight(r.lines(fb), string(fb.Language(r.source))))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindCodeBlock:
		if entering {
			r.codeBlock(r.highlight(r.lines(n), ""))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindBlockquote:
		if entering {
			r.push(r.style().Foreground(r.theme.MutedColor).Render("│") + " ")
		} else {
			r.pop()
			r.blank()
		}

	case ast.KindList:
		if entering {
			l := n.(*ast.List)
			r.lists = append(r.lists, listState{ordered: l.IsOrdered(), next: l.Start, tight: l.IsTight})
		} else {
			r.lists = r.lists[:len(r.lists)-1]
			if !r.tight() {
				r.blank()
			}
		}

	case ast.KindListItem:
		if entering {
			r.listItem()
		} else {
			r.pop()
			if r.tight() {
				r.newline()
			} else {
				r.blank()
			}
		}

	case ast.KindThematicBreak:
		if entering {
			rule := r.style().Foreground(r.theme.BorderColor).Render(strings.Repeat("─", r.available()))
			r.blank()
			r.write(r.indent(rule))
			r.newline()
			r.blank()
		}

	case ast.KindHTMLBlock:
		if entering {
			if s := strings.TrimSpace(stripTags(r.lines(n))); s != "" {
				r.write(r.indent(r.style().Foreground(r.theme.MutedColor).Render(s)))
				r.newline()
				r.blank()
			}
		}
		return ast.WalkSkipChildren, nil

	case ast.KindText:
		if entering {
			t := n.(*ast.Text)
			r.inline.WriteString(r.styled(string(t.Segment.Value(r.source))))
			if t.SoftLineBreak() {
				r.inline.WriteString(" ")
			}
			if t.HardLineBreak() {
				r.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			r.inline.WriteString(r.styled(string(n.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		delta := 1
		if !entering {
			delta = -1
		}
		if n.(*ast.Emphasis).Level >= 2 {
			r.bold += delta
		} else {
			r.italic += delta
		}

	case ast.KindCodeSpan:
		if entering {
			r.inline.WriteString(r.style().Foreground(r.theme.CodeColor).Render(r.codeSpan(n)))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindLink:
		if entering {
			link := n.(*ast.Link)
			label := r.children(link)
			r.inline.WriteString(r.style().Underline(true).Foreground(r.theme.LinkColor).Render(ansi.Strip(label)))
			if dest := string(link.Destination); dest != "" && dest != ansi.Strip(label) {
				r.inline.WriteString(" " + r.style().Foreground(r.theme.MutedColor).Render("("+dest+")"))
			}
		}
		return ast.WalkSkipChildren, nil

	case ast.KindAutoLink:
		if entering {
			url := string(n.(*ast.AutoLink).URL(r.source))
			r.inline.WriteString(r.style().Underline(true).Foreground(r.theme.LinkColor).Render(url))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindImage:
		if entering {
			img := n.(*ast.Image)
			muted := r.style().Foreground(r.theme.MutedColor)
			r.inline.WriteString(muted.Render("[" + ansi.Strip(r.children(img)) + "]"))
			if dest := string(img.Destination); dest != "" {
				r.inline.WriteString(" " + muted.Render("("+dest+")"))
			}
		}
		return ast.WalkSkipChildren, nil

	case ast.KindRawHTML:
		if entering {
			raw := n.(*ast.RawHTML)
			var b strings.Builder
			for i := 0; i < raw.Segments.Len(); i++ {
				seg := raw.Segments.At(i)
				b.Write(seg.Value(r.source))
			}
			if s := stripTags(b.String()); s != "" {
				r.inline.WriteString(r.style().Foreground(r.theme.MutedColor).Render(s))
			}
		}

	case extast.KindStrikethrough:
		if entering {
			r.strike++
		} else {
			r.strike--
		}

	case extast.KindTaskCheckBox:
		if entering {
			if n.(*extast.TaskCheckBox).IsChecked {
				r.inline.WriteString(r.style().Foreground(r.theme.StatusCompleted).Render("[x]") + " ")
			} else {
				r.inline.WriteString(r.styled("[ ] "))
			}
		}

	case extast.KindTable:
		if entering {
			r.table(n.(*extast.Table))
		}
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

func (r *termRenderer) heading(h *ast.Heading) {
	content := ansi.Strip(r.inline.String())
	r.inline.Reset()
	if content == "" {
		return
	}

	st := r.style().Bold(true).Foreground(r.theme.HeadingColor)
	if h.Level > 2 {
		st = r.style().Bold(true).Foreground(r.theme.TextColor)
	}
	r.blank()
	r.write(r.indent(ansi.Wrap(st.Render(content), r.available(), wrapBreakpoints)))
	r.newline()
	r.blank()
}

func (r *termRenderer) codeBlock(code string) {
	r.blank()
	for _, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
		r.write(r.linePrefix() + "  " + line)
		r.newline()
	}
	r.blank()
}

func (r *termRenderer) codeSpan(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(r.source))
		case *ast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}

func (r *termRenderer) listItem() {
	if len(r.lists) == 0 {
		return
	}
	top := &r.lists[len(r.lists)-1]

	bullet := "• "
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.next)
		top.next++
	}
	r.bullet = r.prefix + bullet
	r.push(strings.Repeat(" ", ansi.StringWidth(bullet)))
}

func (r *termRenderer) table(t *extast.Table) {
	var header []string
	var rows [][]string
	for c := t.FirstChild(); c != nil; c = c.NextSibling() {
		var cells []string
		for cell := c.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, ansi.Strip(r.children(cell)))
		}
		if c.Kind() == extast.KindTableHeader {
			header = cells
		} else {
			rows = append(rows, cells)
		}
	}
	if len(header) == 0 && len(rows) == 0 {
		return
	}

	width := r.available()
	headerStyle := r.style().Bold(true).Foreground(r.theme.HeadingColor)
	cellStyle := r.style().Foreground(r.theme.TextColor)

	var b strings.Builder
	b.WriteString(headerStyle.Render(strings.Join(header, " │ ")))
	b.WriteString("\n")
	b.WriteString(r.style().Foreground(r.theme.BorderColor).Render(strings.Repeat("─", min(width, ansi.StringWidth(strings.Join(header, " │ "))))))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(cellStyle.Render(ansi.Truncate(strings.Join(row, " │ "), width, "…")))
	}

	r.blank()
	r.write(r.indent(b.String()))
	r.newline()
	r.blank()
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, c := range s {
		switch {
		case c == '<':
			inTag = true
		case c == '>':
			inTag = false
		case !inTag:
			b.WriteRune(c)
		}
	}
	return b.String()
}
