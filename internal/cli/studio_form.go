package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/estudio/internal/cli/formatter"
	"github.com/alexanderramin/estudio/internal/domain"
)

// strategyField binds one text input to a strategy field.
type strategyField struct {
	label       string
	placeholder string
	required    bool
	get         func(domain.Strategy) string
	set         func(*domain.Strategy, string)
}

var strategyFields = []strategyField{
	{"Especialidade", "ex: Varejo Farmacêutico", true,
		func(s domain.Strategy) string { return s.Expertise },
		func(s *domain.Strategy, v string) { s.Expertise = v }},
	{"Assunto", "ex: Logística", true,
		func(s domain.Strategy) string { return s.Subject },
		func(s *domain.Strategy, v string) { s.Subject = v }},
	{"Tema", "ex: O impacto da IA na previsão de demanda", true,
		func(s domain.Strategy) string { return s.Topic },
		func(s *domain.Strategy, v string) { s.Topic = v }},
	{"Pauta detalhada", "o que cobrir (ctrl+a rascunha com IA)", false,
		func(s domain.Strategy) string { return s.DetailedAgenda },
		func(s *domain.Strategy, v string) { s.DetailedAgenda = v }},
	{"Público", "ex: Profissionais da Indústria", true,
		func(s domain.Strategy) string { return s.Audience },
		func(s *domain.Strategy, v string) { s.Audience = v }},
	{"Tom", domain.DefaultTone, false,
		func(s domain.Strategy) string { return s.Tone },
		func(s *domain.Strategy, v string) { s.Tone = v }},
	{"Formato", domain.DefaultFormat, false,
		func(s domain.Strategy) string { return s.Format },
		func(s *domain.Strategy, v string) { s.Format = v }},
	{"Objetivo", "ex: Educar, Converter...", false,
		func(s domain.Strategy) string { return s.Goal },
		func(s *domain.Strategy, v string) { s.Goal = v }},
	{"Palavras-chave", "ex: tecnologia, inovação", false,
		func(s domain.Strategy) string { return s.Keywords },
		func(s *domain.Strategy, v string) { s.Keywords = v }},
	{"Voz da marca", "ex: 'Fale como um mentor'", false,
		func(s domain.Strategy) string { return s.BrandVoice },
		func(s *domain.Strategy, v string) { s.BrandVoice = v }},
}

// strategyForm edits the configuration fields of a strategy.
type strategyForm struct {
	inputs []textinput.Model
	focus  int
}

func newStrategyForm() strategyForm {
	f := strategyForm{inputs: make([]textinput.Model, len(strategyFields))}
	for i, field := range strategyFields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = field.placeholder
		in.CharLimit = 2000
		in.Width = 60
		f.inputs[i] = in
	}
	f.inputs[0].Focus()
	return f
}

// load copies the strategy into the inputs.
func (f *strategyForm) load(s domain.Strategy) {
	for i, field := range strategyFields {
		f.inputs[i].SetValue(field.get(s))
	}
}

// apply writes the inputs into s.
func (f strategyForm) apply(s *domain.Strategy) {
	for i, field := range strategyFields {
		field.set(s, f.inputs[i].Value())
	}
}

func (f *strategyForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *strategyForm) last() bool { return f.focus == len(f.inputs)-1 }

func (f *strategyForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f strategyForm) view(s domain.Strategy) string {
	var b strings.Builder
	b.WriteString(formatter.Dim("Data: "+dayLabel(s)) + "   " + formatter.StatusBadge(s.Status))
	if s.UseSearch {
		b.WriteString("   " + formatter.StyleBlue.Render("pesquisa na web"))
	}
	b.WriteString("\n\n")
	for i, field := range strategyFields {
		label := field.label
		if field.required {
			label += " *"
		}
		style := formatter.StyleDim
		if i == f.focus {
			style = formatter.StyleHeader
		}
		b.WriteString(style.Render(label) + "\n  " + f.inputs[i].View() + "\n")
	}
	return b.String()
}

func dayLabel(s domain.Strategy) string {
	if !s.HasDate() {
		return "sem data"
	}
	return s.DateKey()
}

// nextStatus cycles through the content statuses in workflow order.
func nextStatus(s domain.ContentStatus) domain.ContentStatus {
	for i, st := range domain.ValidContentStatuses {
		if st == s {
			return domain.ValidContentStatuses[(i+1)%len(domain.ValidContentStatuses)]
		}
	}
	return domain.StatusIdea
}
