package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/estudio/internal/cli/formatter"
	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/intelligence"
	"github.com/alexanderramin/estudio/internal/workflow"
)

var planningStages = []workflow.Stage{
	workflow.StageConfiguration,
	workflow.StageSubTopicSelection,
	workflow.StageSpecificity,
	workflow.StageBriefing,
	workflow.StageGeneration,
}

func (m studioModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	switch m.snap.Stage {
	case workflow.StageAuth:
		b.WriteString(formatter.Dim("Entrando..."))
	case workflow.StageCalendar:
		b.WriteString(m.calendarView())
	case workflow.StageConfiguration:
		b.WriteString(m.form.view(m.snap.Strategy))
	case workflow.StageSubTopicSelection:
		b.WriteString(m.subTopicView())
	case workflow.StageSpecificity:
		b.WriteString(m.specificityView())
	case workflow.StageBriefing:
		b.WriteString(m.briefingView())
	case workflow.StageGeneration:
		b.WriteString(m.generationView())
	case workflow.StageAdmin:
		b.WriteString(m.adminView())
	}

	b.WriteString("\n\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(formatter.Dim(m.help()))
	return b.String()
}

func (m studioModel) header() string {
	title := formatter.Header("estudio") + "  " + formatter.Dim(m.user.Name)
	if m.snap.Stage.Step() == 0 {
		return title + "  " + formatter.Bold(m.snap.Stage.Label())
	}
	steps := make([]string, len(planningStages))
	for i, st := range planningStages {
		label := fmt.Sprintf("%d %s", st.Step(), st.Label())
		switch {
		case st == m.snap.Stage:
			steps[i] = formatter.StyleHeader.Render(label)
		case st.Step() < m.snap.Stage.Step():
			steps[i] = formatter.StyleGreen.Render(label)
		default:
			steps[i] = formatter.Dim(label)
		}
	}
	return title + "\n" + strings.Join(steps, formatter.Dim(" › "))
}

func (m studioModel) statusLine() string {
	var lines []string
	if m.busy != "" {
		lines = append(lines, m.spin.View()+" "+m.busy+"...")
	}
	if m.snap.Notice != "" {
		lines = append(lines, formatter.StyleYellow.Render(m.snap.Notice))
	}
	if m.errMsg != "" {
		lines = append(lines, formatter.StyleRed.Render(m.errMsg))
	}
	if m.info != "" {
		lines = append(lines, formatter.StyleGreen.Render(m.info))
	}
	return strings.Join(lines, "\n")
}

func (m studioModel) help() string {
	switch m.snap.Stage {
	case workflow.StageCalendar:
		h := "←/→ dia  ↑/↓ semana  [/] mês  . hoje  enter planejar  s sair da conta  q fechar"
		if m.user.IsAdmin() {
			h = "a admin  " + h
		}
		return h
	case workflow.StageConfiguration:
		return "tab campo  ctrl+a pauta com IA  ctrl+t status  ctrl+w pesquisa  ctrl+g definir ângulo  ctrl+s salvar rascunho  esc calendário"
	case workflow.StageSubTopicSelection:
		return "↑/↓ escolher  enter confirmar  r novos ângulos  esc voltar"
	case workflow.StageSpecificity:
		if m.snap.Strategy.LevelConfirmed() {
			return "b refinar via briefing  g gerar agora  pgup/pgdown rolar"
		}
		return "1 básico  2 intermediário  3 avançado  esc voltar"
	case workflow.StageBriefing:
		return "enter responder  ctrl+g gerar  esc voltar"
	case workflow.StageGeneration:
		if m.refining {
			return "enter refinar  esc cancelar"
		}
		return "1-4 refinar  r instrução livre  m/t/h/f exportar  n novo assunto  esc briefing  q fechar"
	case workflow.StageAdmin:
		return "↑/↓ usuário  r alternar papel  d remover  esc calendário"
	}
	return "ctrl+c sair"
}

func (m studioModel) calendarView() string {
	var b strings.Builder
	b.WriteString(formatter.FormatMonth(m.cursor.Year(), m.cursor.Month(), m.snap.Entries, m.cursor))
	b.WriteString("\n")

	today := domain.DayOf(m.app.now())
	day := m.cursor.Format(domain.DateLayout)
	for _, e := range m.snap.Entries {
		if e.DateKey() == day {
			fmt.Fprintf(&b, "%s  %s  %s\n", day, formatter.StatusBadge(e.Status), formatter.Bold(e.Topic))
			if e.Subject != "" {
				b.WriteString(formatter.Dim("  "+e.Subject) + "\n")
			}
			if e.Overdue(today) {
				b.WriteString(formatter.StyleRed.Render("  atrasado") + "\n")
			}
			return b.String()
		}
	}
	fmt.Fprintf(&b, "%s  %s\n", day, formatter.Dim("dia livre, enter para planejar"))
	return b.String()
}

func (m studioModel) subTopicView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", formatter.Bold(m.snap.Strategy.Topic),
		formatter.SourceBadge(m.snap.UsedFallback(intelligence.OpSubTopics)))
	for i, st := range m.snap.SubTopics {
		cursor := "  "
		title := st.Title
		if i == m.subIdx {
			cursor = formatter.StyleHeader.Render("› ")
			title = formatter.StyleHeader.Render(title)
		}
		fmt.Fprintf(&b, "%s%2d. %s\n", cursor, i+1, title)
		if st.Description != "" {
			b.WriteString("      " + formatter.Dim(formatter.Truncate(st.Description, 90)) + "\n")
		}
	}
	return b.String()
}

func (m studioModel) specificityView() string {
	s := m.snap.Strategy
	var b strings.Builder
	b.WriteString(formatter.Dim("Ângulo: ") + formatter.Bold(s.SelectedSubTopic) + "\n\n")
	if !s.LevelConfirmed() {
		for i, l := range domain.ComplexityLevels {
			fmt.Fprintf(&b, "  %d  %s\n     %s\n", i+1, formatter.Bold(l.Label()), formatter.Dim(l.Focus()))
		}
		return b.String()
	}
	fmt.Fprintf(&b, "Nível: %s  %s\n\n", formatter.Bold(s.ComplexityLevel.Label()),
		formatter.SourceBadge(m.snap.UsedFallback(intelligence.OpApproach)))
	b.WriteString(m.out.View())
	return b.String()
}

func (m studioModel) transcript() string {
	var b strings.Builder
	for i, msg := range m.snap.Briefing.History {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.Role == domain.ChatUser {
			b.WriteString(formatter.StyleBlue.Render("Você: ") + msg.Content)
		} else {
			b.WriteString(formatter.StylePurple.Render("Assistente: ") + msg.Content)
		}
	}
	return lipgloss.NewStyle().Width(max(40, m.out.Width-2)).Render(b.String())
}

func (m studioModel) briefingView() string {
	var b strings.Builder
	br := m.snap.Briefing
	switch {
	case br.Restored:
		b.WriteString(formatter.StyleGreen.Render("Briefing retomado. Pronto para gerar.") + "\n\n")
	case br.Ready:
		b.WriteString(formatter.StyleGreen.Render("Pronto para gerar.") + "\n")
		if br.Summary != "" {
			b.WriteString(formatter.Dim(br.Summary) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(m.out.View())
	b.WriteString("\n\n" + m.reply.View())
	return b.String()
}

func (m studioModel) generationView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", formatter.Bold(m.snap.Strategy.Topic),
		formatter.SourceBadge(m.snap.UsedFallback(intelligence.OpFinalContent)))
	b.WriteString(m.out.View())
	if cites := m.snap.Content.Citations; len(cites) > 0 {
		b.WriteString("\n\n" + formatter.Bold("Fontes") + "\n")
		for _, c := range cites {
			fmt.Fprintf(&b, "  %s %s\n", c.Title, formatter.Dim(c.URL))
		}
	}
	if m.refining {
		b.WriteString("\n\n" + m.instr.View())
	} else {
		b.WriteString("\n\n")
		for i, p := range refinePresets {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%d %s", i+1, p.label)
		}
	}
	return b.String()
}

func (m studioModel) adminView() string {
	if len(m.users) == 0 {
		return formatter.Dim("Nenhum usuário.")
	}
	var b strings.Builder
	for i, u := range m.users {
		cursor := "  "
		if i == m.userIdx {
			cursor = formatter.StyleHeader.Render("› ")
		}
		fmt.Fprintf(&b, "%s%-24s %-32s %s\n", cursor, formatter.Truncate(u.Name, 24), u.Email, u.Role)
	}
	return b.String()
}
