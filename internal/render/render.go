// Package render turns result HTML from the backend into styled terminal text.
package render

import (
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// sanitizer allows the structural markup the backend produces and drops
// everything else, including script and style content.
func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements(
			"h1", "h2", "h3", "h4", "h5", "h6", "p", "br", "hr", "div", "span",
			"section", "article", "header", "footer", "main",
			"ul", "ol", "li", "strong", "b", "em", "i", "code", "pre", "blockquote",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		p.AllowStandardURLs()
		p.AllowAttrs("href").OnElements("a")
		policy = p
	})
	return policy
}

// Sanitize strips unsafe or non-structural markup from html.
func Sanitize(html string) string {
	return strings.TrimSpace(sanitizer().Sanitize(html))
}

// Styles applied to the rendered elements.
type Styles struct {
	Heading  lipgloss.Style
	Strong   lipgloss.Style
	Emphasis lipgloss.Style
	Code     lipgloss.Style
	Link     lipgloss.Style
	Bullet   lipgloss.Style
	Quote    lipgloss.Style
	Rule     lipgloss.Style
}

// PlainStyles renders without any decoration.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Heading: s, Strong: s, Emphasis: s, Code: s, Link: s, Bullet: s, Quote: s, Rule: s}
}

// Renderer converts HTML to wrapped terminal text.
type Renderer struct {
	styles Styles
	width  int
}

// New creates a Renderer wrapping at width columns. Width <= 0 disables wrapping.
func New(styles Styles, width int) *Renderer {
	return &Renderer{styles: styles, width: width}
}

// WithWidth returns a copy of r wrapping at width.
func (r *Renderer) WithWidth(width int) *Renderer {
	return &Renderer{styles: r.styles, width: width}
}

// Render sanitizes html and returns its text form. Headings, paragraphs,
// list items, quotes, tables and preformatted blocks become separate blocks.
// Links keep their target in parentheses.
func (r *Renderer) Render(html string) string {
	clean := Sanitize(html)
	if clean == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return r.wrap(collapseSpace(clean))
	}

	b := &blockWriter{r: r}
	b.walk(doc.Find("body"), r.width)
	b.flush(r.width)
	return strings.Join(b.blocks, "\n\n")
}

type blockWriter struct {
	r       *Renderer
	blocks  []string
	pending strings.Builder
}

// flush emits the buffered inline run as a paragraph.
func (b *blockWriter) flush(width int) {
	text := tidyLines(b.pending.String())
	b.pending.Reset()
	if text != "" {
		b.blocks = append(b.blocks, wrapTo(text, width))
	}
}

func (b *blockWriter) add(block string) {
	if strings.TrimSpace(block) != "" {
		b.blocks = append(b.blocks, block)
	}
}

func (b *blockWriter) walk(s *goquery.Selection, width int) {
	st := b.r.styles
	s.Contents().Each(func(_ int, n *goquery.Selection) {
		switch name := goquery.NodeName(n); name {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			b.flush(width)
			text := tidyLines(b.r.inline(n))
			level, _ := strconv.Atoi(name[1:])
			if level <= 2 {
				text = strings.ToUpper(text)
			}
			b.add(st.Heading.Render(wrapTo(text, width)))
		case "p":
			b.flush(width)
			b.add(wrapTo(tidyLines(b.r.inline(n)), width))
		case "ul", "ol":
			b.flush(width)
			b.add(b.r.list(n, name == "ol", width))
		case "pre":
			b.flush(width)
			b.add(styleLines(st.Code, strings.Trim(n.Text(), "\n")))
		case "blockquote":
			b.flush(width)
			inner := b.r.WithWidth(max(width-2, 0)).blocksOf(n)
			b.add(styleLines(st.Quote, prefixLines(inner, "│ ")))
		case "table":
			b.flush(width)
			b.add(b.r.table(n))
		case "hr":
			b.flush(width)
			w := width
			if w <= 0 {
				w = 40
			}
			b.add(st.Rule.Render(strings.Repeat("─", w)))
		case "div", "section", "article", "header", "footer", "main", "body", "thead", "tbody":
			b.flush(width)
			b.walk(n, width)
		case "#text":
			b.pending.WriteString(collapseSpace(n.Text()))
		case "br":
			b.pending.WriteString("\n")
		default:
			b.pending.WriteString(b.r.inline(n))
		}
	})
}

// blocksOf renders the children of s as standalone blocks.
func (r *Renderer) blocksOf(s *goquery.Selection) string {
	b := &blockWriter{r: r}
	b.walk(s, r.width)
	b.flush(r.width)
	return strings.Join(b.blocks, "\n\n")
}

func (r *Renderer) inline(s *goquery.Selection) string {
	st := r.styles
	var sb strings.Builder
	s.Contents().Each(func(_ int, n *goquery.Selection) {
		switch goquery.NodeName(n) {
		case "#text":
			sb.WriteString(collapseSpace(n.Text()))
		case "br":
			sb.WriteString("\n")
		case "strong", "b":
			sb.WriteString(st.Strong.Render(r.inline(n)))
		case "em", "i":
			sb.WriteString(st.Emphasis.Render(r.inline(n)))
		case "code":
			sb.WriteString(st.Code.Render(n.Text()))
		case "a":
			text := r.inline(n)
			if href, ok := n.Attr("href"); ok && href != "" && href != strings.TrimSpace(text) {
				text = strings.TrimSpace(text) + " (" + href + ")"
			}
			sb.WriteString(st.Link.Render(text))
		default:
			sb.WriteString(r.inline(n))
		}
	})
	return sb.String()
}

func (r *Renderer) list(s *goquery.Selection, ordered bool, width int) string {
	var items []string
	s.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		marker := "•"
		if ordered {
			marker = strconv.Itoa(i+1) + "."
		}
		marker = r.styles.Bullet.Render(marker) + " "
		pad := lipgloss.Width(marker)

		body := r.WithWidth(max(width-pad, 0)).blocksOf(li)
		body = indent.String(body, uint(pad))
		// Replace the indent of the first line with the marker.
		items = append(items, marker+strings.TrimPrefix(body, strings.Repeat(" ", pad)))
	})
	return strings.Join(items, "\n")
}

func (r *Renderer) table(s *goquery.Selection) string {
	var rows []string
	s.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Children().Each(func(_ int, cell *goquery.Selection) {
			text := tidyLines(r.inline(cell))
			if goquery.NodeName(cell) == "th" {
				text = r.styles.Strong.Render(text)
			}
			cells = append(cells, text)
		})
		if len(cells) > 0 {
			rows = append(rows, strings.Join(cells, " │ "))
		}
	})
	return strings.Join(rows, "\n")
}

func (r *Renderer) wrap(s string) string {
	return wrapTo(s, r.width)
}

func wrapTo(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}

// collapseSpace folds whitespace runs to single spaces, keeping one space at
// either edge when the input had one.
func collapseSpace(s string) string {
	if s == "" {
		return s
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if first, _ := utf8.DecodeRuneInString(s); unicode.IsSpace(first) {
		out = " " + out
	}
	if last, _ := utf8.DecodeLastRuneInString(s); unicode.IsSpace(last) {
		out += " "
	}
	return out
}

// tidyLines trims every line and drops leading and trailing blank lines.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// styleLines styles each line separately so lipgloss does not pad the block.
func styleLines(style lipgloss.Style, s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = style.Render(l)
	}
	return strings.Join(lines, "\n")
}
