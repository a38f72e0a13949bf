package intelligence

import (
	"testing"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestExtractCitations(t *testing.T) {
	md := `# Título

Segundo o [relatório **anual**](https://example.com/a), o setor cresce.
Veja também <https://example.com/b> e [de novo](https://example.com/a).
Um [link interno](#secao) e um [arquivo](ftp://x/y) são ignorados.

` + "```\nhttps://inside.code/block\n```\n"

	got := ExtractCitations(md)
	assert.Equal(t, []domain.Citation{
		{Title: "relatório anual", URL: "https://example.com/a"},
		{Title: "https://example.com/b", URL: "https://example.com/b"},
	}, got)
}

func TestExtractCitations_None(t *testing.T) {
	assert.Empty(t, ExtractCitations("Texto sem links."))
}
