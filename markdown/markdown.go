// Package markdown renders entry bodies to HTML, either as a templ component
// or as trusted template.HTML for html/template layouts.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Footnote,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
				chromahtml.ClassPrefix("hl-"),
				chromahtml.PreventSurroundingPre(true),
			),
			highlighting.WithWrapperRenderer(codeWrapper),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
		parser.WithAttribute(),
		parser.WithASTTransformers(util.Prioritized(externalLinks{}, 500)),
	),
)

// Markdown returns a templ.Component that renders content as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := RenderMarkdown(&buf, content); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// RenderMarkdown writes the HTML representation of src to buf.
func RenderMarkdown(buf *bytes.Buffer, src string) error {
	if err := md.Convert([]byte(src), buf); err != nil {
		return fmt.Errorf("markdown: %w", err)
	}
	return nil
}

// HTML renders src for use inside html/template layouts. Raw HTML in src is
// dropped by the renderer, so the result is safe to mark as trusted.
func HTML(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := RenderMarkdown(&buf, src); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// PlainText returns the text of src without markup, collapsed to single
// spaces. Used for excerpts when an entry has no description.
func PlainText(src string) string {
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))
	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			sb.Write(node.Segment.Value(source))
			sb.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Excerpt returns at most n runes of the plain text of src, cut on a word
// boundary and followed by an ellipsis when shortened.
func Excerpt(src string, n int) string {
	plain := PlainText(src)
	runes := []rune(plain)
	if len(runes) <= n {
		return plain
	}
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// externalLinks opens absolute http(s) links in a new tab.
type externalLinks struct{}

func (externalLinks) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		link, ok := n.(*ast.Link)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		if isExternal(string(link.Destination)) {
			link.SetAttributeString("target", []byte("_blank"))
			link.SetAttributeString("rel", []byte("noopener noreferrer"))
		}
		return ast.WalkContinue, nil
	})
}

func isExternal(dest string) bool {
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func codeWrapper(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	lang := ""
	if raw, ok := ctx.Language(); ok && len(raw) > 0 {
		lang = html.EscapeString(string(raw))
	}
	if !entering {
		_, _ = w.WriteString("</code></pre>")
		if lang != "" {
			_, _ = w.WriteString("</div>")
		}
		_, _ = w.WriteString("\n")
		return
	}
	if lang == "" {
		_, _ = w.WriteString(`<pre class="code-block"><code>`)
		return
	}
	_, _ = fmt.Fprintf(w, `<div class="code-block-wrapper"><span class="code-lang code-lang-%[1]s">%[1]s</span><pre class="code-block"><code class="language-%[1]s">`, lang)
}

// SafeURL validates a URL taken from frontmatter before it is used in an
// href. Relative paths and http, https, mailto and tel URLs are allowed.
func SafeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "#") {
		return val
	}
	if strings.HasPrefix(val, "/") {
		// "//host" and "/\host" are resolved against another origin.
		if len(val) > 1 && (val[1] == '/' || val[1] == '\\') {
			return ""
		}
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}
