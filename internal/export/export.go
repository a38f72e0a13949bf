// Package export renders generated content for download.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/estudio/internal/domain"
)

type Format string

const (
	FormatMarkdown    Format = "md"
	FormatText        Format = "txt"
	FormatHTML        Format = "html"
	FormatFrontMatter Format = "md+frontmatter"
)

var Formats = []Format{FormatMarkdown, FormatText, FormatHTML, FormatFrontMatter}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (want md, txt, html or md+frontmatter)", s)
}

// Extension is the file extension written for f.
func (f Format) Extension() string {
	switch f {
	case FormatText:
		return "txt"
	case FormatHTML:
		return "html"
	default:
		return "md"
	}
}

// Filename is conteudo-<date>.<ext>, or conteudo-rascunho for an undated
// strategy.
func Filename(s domain.Strategy, f Format) string {
	stamp := "rascunho"
	if s.HasDate() {
		stamp = s.DateKey()
	}
	return fmt.Sprintf("conteudo-%s.%s", stamp, f.Extension())
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Render converts the content to f.
func Render(f Format, s domain.Strategy, c domain.GeneratedContent) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return []byte(c.Text), nil
	case FormatText:
		return []byte(PlainText(c.Text)), nil
	case FormatHTML:
		return HTML(s, c.Text)
	case FormatFrontMatter:
		return WithFrontMatter(s, c)
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}

// HTML wraps the rendered markdown in a minimal standalone page.
func HTML(s domain.Strategy, markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	title := s.Topic
	if strings.TrimSpace(title) == "" {
		title = "Conteúdo"
	}
	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html lang=\"pt-BR\">\n<head>\n<meta charset=\"utf-8\">\n<title>")
	out.WriteString(htmlEscape(title))
	out.WriteString("</title>\n</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

func htmlEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
}

// PlainText strips markdown markup, keeping one blank line between blocks.
func PlainText(markdown string) string {
	src := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if t := strings.TrimSpace(blockText(n, src)); t != "" {
			blocks = append(blocks, t)
		}
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func blockText(n ast.Node, src []byte) string {
	switch n.Kind() {
	case ast.KindList:
		var items []string
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			items = append(items, "- "+strings.TrimSpace(blockText(c, src)))
		}
		return strings.Join(items, "\n")
	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		var b strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(src))
		}
		return b.String()
	case ast.KindThematicBreak:
		return ""
	}
	if n.Type() == ast.TypeBlock && n.HasChildren() && n.FirstChild().Type() == ast.TypeBlock {
		var parts []string
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			parts = append(parts, strings.TrimSpace(blockText(c, src)))
		}
		return strings.Join(parts, "\n")
	}
	return inlineText(n, src)
}

func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
		case *ast.CodeSpan:
			b.WriteString(inlineText(t, src))
		default:
			b.WriteString(inlineText(c, src))
		}
	}
	return b.String()
}

// Meta is the front matter written ahead of the markdown body.
type Meta struct {
	Date     string            `yaml:"date,omitempty"`
	Status   string            `yaml:"status"`
	Subject  string            `yaml:"subject,omitempty"`
	Topic    string            `yaml:"topic,omitempty"`
	SubTopic string            `yaml:"subtopic,omitempty"`
	Level    string            `yaml:"level,omitempty"`
	Audience string            `yaml:"audience,omitempty"`
	Keywords []string          `yaml:"keywords,omitempty"`
	Sources  []domain.Citation `yaml:"sources,omitempty"`
}

func MetaOf(s domain.Strategy, c domain.GeneratedContent) Meta {
	m := Meta{
		Date:     s.DateKey(),
		Status:   string(s.Status),
		Subject:  s.Subject,
		Topic:    s.Topic,
		SubTopic: s.SelectedSubTopic,
		Level:    string(s.ComplexityLevel),
		Audience: s.Audience,
		Sources:  c.Citations,
	}
	for _, k := range strings.Split(s.Keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			m.Keywords = append(m.Keywords, k)
		}
	}
	return m
}

// WithFrontMatter prefixes the markdown with a YAML metadata block.
func WithFrontMatter(s domain.Strategy, c domain.GeneratedContent) ([]byte, error) {
	head, err := yaml.Marshal(MetaOf(s, c))
	if err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	var out bytes.Buffer
	out.WriteString("---\n")
	out.Write(head)
	out.WriteString("---\n\n")
	out.WriteString(c.Text)
	if !strings.HasSuffix(c.Text, "\n") {
		out.WriteByte('\n')
	}
	return out.Bytes(), nil
}

// ReadFrontMatter splits a document written by WithFrontMatter.
func ReadFrontMatter(doc []byte) (Meta, string, error) {
	var m Meta
	s := string(doc)
	if !strings.HasPrefix(s, "---\n") {
		return m, s, nil
	}
	end := strings.Index(s[4:], "\n---\n")
	if end < 0 {
		return m, s, fmt.Errorf("unterminated front matter")
	}
	if err := yaml.Unmarshal([]byte(s[4:4+end+1]), &m); err != nil {
		return m, s, fmt.Errorf("decoding front matter: %w", err)
	}
	return m, strings.TrimLeft(s[4+end+5:], "\n"), nil
}

// Strategy rebuilds the fields of the strategy the metadata was taken from.
func (m Meta) Strategy() domain.Strategy {
	s := domain.NewStrategy()
	if d, err := domain.ParseDay(m.Date); err == nil {
		s.Date = d
	}
	if m.Status != "" {
		s.Status = domain.NormalizeContentStatus(m.Status)
	}
	s.Subject = m.Subject
	s.Topic = m.Topic
	s.SelectedSubTopic = m.SubTopic
	s.ComplexityLevel = domain.ComplexityLevel(m.Level)
	s.Audience = m.Audience
	s.Keywords = strings.Join(m.Keywords, ", ")
	return s
}

// Content pairs body with the sources listed in the metadata.
func (m Meta) Content(body string) domain.GeneratedContent {
	return domain.GeneratedContent{Text: body, Citations: m.Sources}
}
