package intelligence

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alexanderramin/estudio/internal/domain"
)

// Fixed conversational texts used by the briefing when the model is not
// available or its answer cannot be used.
const (
	OpeningQuestion  = "Estou pronto para discutir seu tópico. Por favor, descreva o ângulo específico que você gostaria de abordar."
	FollowUpQuestion = "Poderia me dizer mais sobre os pontos-chave específicos que você deseja cobrir?"
	ConnectionRetry  = "Estou com problemas de conexão. Poderia repetir, por favor?"
	ReadyStatement   = "Excelente. Tenho informações suficientes para construir um rascunho detalhado. Clique no botão abaixo quando estiver pronto para gerar."
)

// AgendaMaxRunes bounds the detailed agenda length.
const AgendaMaxRunes = 200

// FallbackAgenda is the deterministic detailed agenda for a topic.
func FallbackAgenda(topic, subject, expertise string) string {
	base := fmt.Sprintf("Pauta: %s em %s para %s. Detalhar impactos, métricas e exemplos práticos.",
		strings.TrimSpace(topic), strings.TrimSpace(subject), strings.TrimSpace(expertise))
	return truncateRunes(base, AgendaMaxRunes)
}

// FallbackSubTopics synthesizes ten angles from the strategy. It is a pure
// function of topic, subject and expertise.
func FallbackSubTopics(s domain.Strategy) []domain.SubTopic {
	topic := orDefault(s.Topic, "Tema")
	subject := orDefault(s.Subject, "Assunto")
	area := orDefault(s.Expertise, "Área")

	return []domain.SubTopic{
		{Title: fmt.Sprintf("Benchmark de %s em %s", topic, area), Description: "Comparar líderes, lacunas e oportunidades."},
		{Title: fmt.Sprintf("KPIs essenciais para %s", topic), Description: "Definir métricas, metas e monitoramento."},
		{Title: fmt.Sprintf("Casos reais de %s em %s", topic, area), Description: "Estudos de caso práticos e lições aprendidas."},
		{Title: fmt.Sprintf("ROI e custos de %s", topic), Description: "Estimativas, alavancas de eficiência e payback."},
		{Title: fmt.Sprintf("Riscos e compliance em %s", subject), Description: "Mapear riscos, normas e mitigação."},
		{Title: fmt.Sprintf("Stack e ferramentas para %s", topic), Description: "Tecnologias, integrações e critérios de escolha."},
		{Title: fmt.Sprintf("Roadmap 30/60/90 dias para %s", topic), Description: "Plano de adoção por fases e resultados esperados."},
		{Title: fmt.Sprintf("Erros comuns em %s", topic), Description: "Antipadrões, armadilhas e como evitar."},
		{Title: fmt.Sprintf("Estratégias avançadas de %s", topic), Description: "Técnicas para escala, automação e governança."},
		{Title: fmt.Sprintf("Visão contrarianista sobre %s", subject), Description: "Argumento oposto bem fundamentado para debate."},
	}
}

// FallbackApproach builds an outline for level from the strategy's domain
// keywords.
func FallbackApproach(s domain.Strategy, level domain.ComplexityLevel) string {
	angle := orDefault(s.SelectedSubTopic, orDefault(s.Topic, "Tema"))
	keywords := domainKeywords(s)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s\n\n", level.Label(), angle)
	fmt.Fprintf(&b, "_Perspectiva: %s. Foco em %s._\n\n", level.Persona(), level.Focus())

	b.WriteString("## 1. Assunto Principal e Contexto\n")
	fmt.Fprintf(&b, "- Escopo: %s dentro de %s.\n", orDefault(s.Topic, angle), orDefault(s.Subject, "o assunto"))
	if s.Audience != "" {
		fmt.Fprintf(&b, "- Relevância para %s.\n", s.Audience)
	}
	b.WriteString("\n## 2. Estrutura de Tópicos e Sub-tópicos\n")
	for i, sec := range levelSections(level) {
		fmt.Fprintf(&b, "### 2.%d %s\n", i+1, sec)
	}
	if len(keywords) > 0 {
		fmt.Fprintf(&b, "\nPalavras-chave do domínio: %s.\n", strings.Join(keywords, ", "))
	}
	b.WriteString("\n## 3. Parágrafos Explicativos e Robustos\n")
	for _, sec := range levelSections(level) {
		fmt.Fprintf(&b, "- **%s**: desenvolver com exemplos de %s.\n", sec, orDefault(s.Expertise, "mercado"))
	}
	b.WriteString("\n## 4. Notas de Direcionamento Editorial\n")
	fmt.Fprintf(&b, "- Tom: %s.\n", orDefault(s.Tone, domain.DefaultTone))
	fmt.Fprintf(&b, "- Formato: %s.\n", orDefault(s.Format, domain.DefaultFormat))
	if s.BrandVoice != "" {
		fmt.Fprintf(&b, "- Voz: %s.\n", s.BrandVoice)
	}
	return b.String()
}

func levelSections(level domain.ComplexityLevel) []string {
	switch level {
	case domain.LevelBasic:
		return []string{"O que é e por que importa", "Conceitos e definições essenciais", "Exemplos introdutórios", "Próximos passos para iniciantes"}
	case domain.LevelIntermediate:
		return []string{"Como fazer na prática", "Processos e ferramentas", "Erros comuns e soluções", "Estudo de caso"}
	default:
		return []string{"Tendências e cenário futuro", "Métricas de negócio e governança", "Controvérsias do setor", "Estratégias de inovação"}
	}
}

// FallbackArticle is the article skeleton used when generation fails. The
// topic is always the top heading.
func FallbackArticle(s domain.Strategy, history []domain.ChatMessage) string {
	topic := orDefault(s.Topic, "Tema")

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", topic)
	if s.SelectedSubTopic != "" {
		fmt.Fprintf(&b, "_%s_\n\n", s.SelectedSubTopic)
	}
	b.WriteString("## Introdução\n\n")
	fmt.Fprintf(&b, "%s é um tema central em %s", topic, orDefault(s.Subject, "seu setor"))
	if s.Audience != "" {
		fmt.Fprintf(&b, " para %s", s.Audience)
	}
	b.WriteString(".\n\n")
	if s.DetailedAgenda != "" {
		fmt.Fprintf(&b, "%s\n\n", s.DetailedAgenda)
	}

	if s.GeneratedApproach != "" {
		b.WriteString("## Estrutura Aprovada\n\n")
		b.WriteString(demoteHeadings(s.GeneratedApproach))
		b.WriteString("\n\n")
	} else {
		level := s.ComplexityLevel
		if level == "" {
			level = domain.LevelIntermediate
		}
		for _, sec := range levelSections(level) {
			fmt.Fprintf(&b, "## %s\n\n", sec)
		}
	}

	var notes []string
	for _, m := range history {
		if m.Role == domain.ChatUser && strings.TrimSpace(m.Content) != "" {
			notes = append(notes, strings.TrimSpace(m.Content))
		}
	}
	if len(notes) > 0 {
		b.WriteString("## Pontos do Briefing\n\n")
		for _, n := range notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Conclusão\n\n")
	fmt.Fprintf(&b, "Resumo dos aprendizados sobre %s e próximos passos recomendados.\n", topic)
	return b.String()
}

// demoteHeadings pushes every markdown heading one level down so an embedded
// outline never competes with the article title.
func demoteHeadings(md string) string {
	lines := strings.Split(md, "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, "#") && !strings.HasPrefix(l, "######") {
			lines[i] = "#" + l
		}
	}
	return strings.Join(lines, "\n")
}

var stopwords = map[string]bool{
	"de": true, "da": true, "do": true, "das": true, "dos": true, "e": true,
	"em": true, "na": true, "no": true, "nas": true, "nos": true, "para": true,
	"com": true, "a": true, "o": true, "as": true, "os": true, "um": true, "uma": true,
}

// domainKeywords extracts distinct significant words from topic, subject and
// expertise, in order of appearance.
func domainKeywords(s domain.Strategy) []string {
	seen := map[string]bool{}
	var out []string
	for _, src := range []string{s.Topic, s.Subject, s.Expertise} {
		for _, w := range strings.FieldsFunc(src, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			key := strings.ToLower(w)
			if len([]rune(key)) < 2 || stopwords[key] || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, w)
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
