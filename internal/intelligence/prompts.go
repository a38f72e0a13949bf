package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/estudio/internal/domain"
)

const interviewerSystemPrompt = `Você é um Diretor Editorial experiente.
O usuário JÁ SELECIONOU um sub-tópico e um NÍVEL DE COMPLEXIDADE.
Seu objetivo é obter APENAS os detalhes finais: opiniões polêmicas, dados específicos ou a "voz" única do usuário.

Regras:
1. Seja OBJETIVO. Não enrole.
2. Respeite o Nível de Complexidade escolhido (Básico: seja didático; Avançado: fale de igual para igual).
3. Faça no máximo 1 ou 2 perguntas de alta precisão antes de permitir a geração.
4. Se o usuário der uma resposta curta, aceite e avance.

IDIOMA DE SAÍDA: PORTUGUÊS DO BRASIL.`

const readinessFormat = `

Responda APENAS com um objeto JSON neste formato, sem texto adicional:
{"isReadyToGenerate": false, "questionToUser": "próxima pergunta", "summarySoFar": "resumo do que já foi coletado"}

"isReadyToGenerate" é true quando já há informação suficiente para escrever.
"questionToUser" é obrigatório mesmo quando isReadyToGenerate for true.`

const writerSystemPrompt = `Você é um Criador de Conteúdo de Classe Mundial.
Sua saída deve ser:
- FUNCIONAL: cobertura fiel do tópico dentro da área de atuação.
- CONCRETA: use dados comprovados, exemplos técnicos específicos.
- BEM ESTRUTURADA: use cabeçalhos markdown, marcadores e citações.
- ESTILIZADA: siga estritamente o tom e o público solicitados.

IDIOMA DE SAÍDA: PORTUGUÊS DO BRASIL.`

const searchInstruction = `
Verifique seus fatos e cite as fontes consultadas como links Markdown em uma seção final "## Fontes".`

const subTopicsSystemPrompt = `Atue como um estrategista de conteúdo sênior.
Retorne APENAS um array JSON, sem texto adicional, neste formato:
[{"title": "...", "description": "..."}]`

func agendaPrompt(topic, subject, expertise string) string {
	return fmt.Sprintf(`Atue como um Assistente Editorial Sênior.
Contexto:
- Assunto Macro: %s
- Área de Atuação: %s
- Tópico Principal: %s

Tarefa:
Escreva uma PAUTA DETALHADA (descrição curta e rica) de até %d caracteres para este tópico.
A pauta deve ser específica, técnica e direta, indicando o que deve ser abordado.
Exemplo de Saída: "Explorar o impacto da IA na triagem de pacientes, citando redução de 30%% no tempo de espera e novos protocolos de compliance."

SAÍDA (máx. %d caracteres):`, subject, expertise, topic, AgendaMaxRunes, AgendaMaxRunes)
}

func subTopicsPrompt(s domain.Strategy) string {
	var b strings.Builder
	b.WriteString("Contexto:\n")
	line(&b, "Assunto", s.Subject)
	line(&b, "Tópico Geral", s.Topic)
	line(&b, "Pauta Detalhada/Diretriz", s.DetailedAgenda)
	line(&b, "Área de Atuação", s.Expertise)
	line(&b, "Público", s.Audience)
	fmt.Fprintf(&b, "\nGere exatamente %d sugestões de sub-tópicos (ângulos específicos) derivados desse contexto.\n", domain.SubTopicCount)
	b.WriteString("Para cada sub-tópico, forneça:\n1. Um título chamativo.\n2. Uma descrição curta de até 100 caracteres explicando o viés.")
	return b.String()
}

func approachPrompt(s domain.Strategy, level domain.ComplexityLevel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Você é um %s. Seu foco é %s.\n\n", level.Persona(), level.Focus())
	b.WriteString("Tarefa: Atue como FILTRO EDITORIAL e ARQUITETO DE CONTEÚDO.\n")
	b.WriteString("Entregue uma ESTRATÉGIA DE ABORDAGEM SUGERIDA com informações completas, estruturadas e robustas.\n\n")
	b.WriteString("Contexto:\n")
	line(&b, "Assunto Principal", s.Subject)
	line(&b, "Tópico Base", s.Topic)
	line(&b, "Diretriz/Pauta", s.DetailedAgenda)
	line(&b, "Sub-tópico (Ângulo)", s.SelectedSubTopic)
	line(&b, "Área de Atuação", s.Expertise)
	line(&b, "Público-Alvo", s.Audience)
	line(&b, "Formato Alvo", s.Format)
	line(&b, "Voz/Persona", s.BrandVoice)
	fmt.Fprintf(&b, "\nNível de profundidade: %s.\n\n", level.Label())
	b.WriteString(`ESTRUTURA DE SAÍDA OBRIGATÓRIA (Markdown):
## 1. Assunto Principal e Contexto
## 2. Estrutura de Tópicos e Sub-tópicos
## 3. Parágrafos Explicativos e Robustos
## 4. Notas de Direcionamento Editorial

Não use placeholders. Seja direto, profissional e denso. IDIOMA: Português do Brasil.`)
	return b.String()
}

func initialQuestionPrompt(s domain.Strategy) string {
	var b strings.Builder
	b.WriteString("Contexto:\n")
	line(&b, "O usuário quer escrever sobre", orDefault(s.SelectedSubTopic, s.Topic))
	line(&b, "Pauta Base", s.DetailedAgenda)
	line(&b, "Nível", levelText(s.ComplexityLevel))
	line(&b, "Área", s.Expertise)
	line(&b, "Persona do Autor", s.BrandVoice)
	b.WriteString("\nAtue como um editor objetivo.\n")
	b.WriteString("Com base no nível escolhido, faça A pergunta mais crítica para fechar o conteúdo.\n")
	b.WriteString("Se for Básico: pergunte sobre exemplos e analogias que o público reconhece.\n")
	b.WriteString("Se for Intermediário ou Avançado: pergunte sobre dados proprietários ou visão contrarianista.\n")
	b.WriteString("Responda apenas com a pergunta, em Português do Brasil.")
	return b.String()
}

// briefingContext is the seed turn carrying everything the interviewer knows.
func briefingContext(s domain.Strategy) string {
	var b strings.Builder
	b.WriteString("Contexto da Pauta:\n")
	line(&b, "Assunto Recorrente", s.Subject)
	line(&b, "Área de Atuação/Indústria", s.Expertise)
	line(&b, "Tópico Geral", s.Topic)
	line(&b, "PAUTA DETALHADA", s.DetailedAgenda)
	line(&b, "SUB-TÓPICO SELECIONADO", s.SelectedSubTopic)
	line(&b, "NÍVEL DE COMPLEXIDADE", levelText(s.ComplexityLevel))
	line(&b, "Abordagem Planejada", s.GeneratedApproach)
	line(&b, "Público-Alvo", s.Audience)
	if strings.TrimSpace(s.BrandVoice) != "" {
		fmt.Fprintf(&b, "\nIMPORTANTE - Siga esta Persona/Voz: %s\n", s.BrandVoice)
	}
	return b.String()
}

func finalContentPrompt(s domain.Strategy, briefed bool) string {
	var b strings.Builder
	b.WriteString("Escreva a peça de conteúdo final.\n\nPERFIL DA ESTRATÉGIA:\n")
	line(&b, "Assunto Principal", s.Subject)
	line(&b, "Tópico", s.Topic)
	line(&b, "PAUTA/DIRETRIZ ESPECÍFICA", s.DetailedAgenda)
	line(&b, "SUB-TÓPICO ESPECÍFICO (Foco)", s.SelectedSubTopic)
	line(&b, "NÍVEL DE COMPLEXIDADE", levelText(s.ComplexityLevel))
	line(&b, "Área de Atuação", s.Expertise)
	line(&b, "Público", s.Audience)
	line(&b, "Objetivo", s.Goal)
	line(&b, "Formato", s.Format)
	line(&b, "Tom de Voz", s.Tone)
	line(&b, "PERSONALIDADE/VOZ ESPECÍFICA (MUITO IMPORTANTE)", s.BrandVoice)
	line(&b, "PALAVRAS-CHAVE SEO (incluir organicamente)", s.Keywords)
	if strings.TrimSpace(s.GeneratedApproach) != "" {
		b.WriteString("\nBASEIE-SE NESTA ESTRUTURA APROVADA:\n")
		b.WriteString(s.GeneratedApproach)
		b.WriteString("\n")
	}
	if briefed {
		b.WriteString("\nIncorpore os detalhes refinados discutidos no briefing acima.\n")
	} else {
		b.WriteString("\nO usuário optou por pular o briefing, então confie totalmente na sua base de conhecimento e na estrutura acima.\n")
	}
	fmt.Fprintf(&b, "Comece com o título \"# %s\". Use formatação Markdown. Seja extremamente detalhado. Escreva em Português do Brasil.", s.Topic)
	return b.String()
}

func refinePrompt(text, instruction string) string {
	return fmt.Sprintf(`Você é um Editor Sênior.

INSTRUÇÃO DE EDIÇÃO: "%s"

TEXTO ORIGINAL:
%s

TAREFA:
Reescreva o texto aplicando a instrução acima.
Mantenha a formatação Markdown.
Mantenha a essência e os fatos, apenas ajuste o estilo, tamanho ou gramática conforme pedido.
SAÍDA: Apenas o novo texto em Markdown.`, instruction, text)
}

// line writes "- label: value" when value is not blank.
func line(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, strings.TrimSpace(value))
}

func levelText(l domain.ComplexityLevel) string {
	if l == "" {
		return ""
	}
	return l.Label()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
