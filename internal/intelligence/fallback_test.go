package intelligence

import (
	"strings"
	"testing"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackSubTopics_TenValidDeterministic(t *testing.T) {
	s := logisticsStrategy()
	first := FallbackSubTopics(s)
	require.Len(t, first, domain.SubTopicCount)
	for _, it := range first {
		assert.True(t, it.Valid(), "%+v", it)
		assert.True(t, strings.Contains(it.Title, "Logística"), "title %q should mention the subject or topic", it.Title)
	}
	assert.Equal(t, first, FallbackSubTopics(s))

	other := s
	other.Tone = "Leve"
	other.Goal = "Gerar leads"
	assert.Equal(t, first, FallbackSubTopics(other), "optional fields do not affect the list")
}

func TestFallbackSubTopics_EmptyStrategyStillValid(t *testing.T) {
	items := FallbackSubTopics(domain.Strategy{})
	require.Len(t, items, 10)
	for _, it := range items {
		assert.True(t, it.Valid())
	}
}

func TestFallbackApproach_PerLevel(t *testing.T) {
	s := logisticsStrategy()
	s.SelectedSubTopic = "ROI e custos de IA na Logística"
	for _, level := range domain.ComplexityLevels {
		out := FallbackApproach(s, level)
		assert.Contains(t, out, "# "+level.Label())
		assert.Contains(t, out, "## 1. Assunto Principal e Contexto")
		assert.Contains(t, out, "## 4. Notas de Direcionamento Editorial")
		assert.Contains(t, out, "Supply")
	}
	assert.NotEqual(t, FallbackApproach(s, domain.LevelBasic), FallbackApproach(s, domain.LevelAdvanced))
}

func TestFallbackArticle(t *testing.T) {
	s := logisticsStrategy()
	s.GeneratedApproach = "# Avançado / Visionário: x\n## 1. Assunto"
	history := []domain.ChatMessage{
		domain.AssistantMessage("Qual o foco?"),
		domain.UserMessage("Roteirização dinâmica"),
	}
	out := FallbackArticle(s, history)
	assert.True(t, strings.HasPrefix(out, "# IA na Logística\n"))
	assert.Contains(t, out, "## Avançado / Visionário: x")
	assert.Contains(t, out, "- Roteirização dinâmica")
	assert.NotContains(t, out, "Qual o foco?")
	assert.Equal(t, 1, strings.Count(out, "\n# ")+boolInt(strings.HasPrefix(out, "# ")), "only one top heading")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestFallbackAgenda_TruncatesRuneSafe(t *testing.T) {
	topic := strings.Repeat("ç", 300)
	out := FallbackAgenda(topic, "Logística", "Supply Chain")
	assert.Equal(t, AgendaMaxRunes, len([]rune(out)))
	assert.True(t, strings.HasPrefix(out, "Pauta: ççç"))
}

func TestDomainKeywords(t *testing.T) {
	s := domain.Strategy{Topic: "IA na Logística", Subject: "Logística", Expertise: "Supply Chain"}
	assert.Equal(t, []string{"IA", "Logística", "Supply", "Chain"}, domainKeywords(s))
}
