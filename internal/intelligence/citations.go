package intelligence

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/alexanderramin/estudio/internal/domain"
)

var citationParser = goldmark.New(goldmark.WithExtensions(extension.Linkify)).Parser()

// ExtractCitations returns the http(s) links referenced by a markdown
// document, in order of first appearance, deduplicated by URL.
func ExtractCitations(markdown string) []domain.Citation {
	src := []byte(markdown)
	doc := citationParser.Parse(text.NewReader(src))

	seen := map[string]bool{}
	var out []domain.Citation
	add := func(url, title string) {
		url = strings.TrimSpace(url)
		if !isWebURL(url) || seen[url] {
			return
		}
		seen[url] = true
		if strings.TrimSpace(title) == "" {
			title = url
		}
		out = append(out, domain.Citation{Title: strings.TrimSpace(title), URL: url})
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			add(string(node.Destination), nodeText(node, src))
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			add(string(node.URL(src)), string(node.Label(src)))
		}
		return ast.WalkContinue, nil
	})
	return out
}

// nodeText concatenates the literal text beneath n.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
			continue
		}
		b.WriteString(nodeText(c, src))
	}
	return b.String()
}

func isWebURL(u string) bool {
	l := strings.ToLower(u)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
