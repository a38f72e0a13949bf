package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/estudio/internal/app"
	"github.com/alexanderramin/estudio/internal/cli/formatter"
	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/export"
	"github.com/alexanderramin/estudio/internal/intelligence"
	"github.com/alexanderramin/estudio/internal/workflow"
)

// refinePresets are the one-key rewrites offered on the result screen.
var refinePresets = []struct {
	label       string
	instruction string
}{
	{"Melhorar", "Reescreva para tornar mais impactante e envolvente."},
	{"Encurtar", "Resuma este texto em 50% do tamanho original, mantendo os pontos chave."},
	{"Expandir", "Expanda o conteúdo adicionando mais exemplos e detalhes."},
	{"Gramática", "Corrija qualquer erro gramatical e melhore a fluidez do texto."},
}

var exportKeys = map[string]export.Format{
	"m": export.FormatMarkdown,
	"t": export.FormatText,
	"h": export.FormatHTML,
	"f": export.FormatFrontMatter,
}

// opDoneMsg reports the end of a controller operation started by the model.
type opDoneMsg struct {
	label string
	info  string
	err   error
	quit  bool
}

type usersMsg struct {
	users []*domain.User
	err   error
}

// studioModel is the interactive wizard. It holds no planning state of its
// own: every action goes through the controller and the screen is redrawn
// from the controller's View.
type studioModel struct {
	ctx  context.Context
	app  *App
	ctrl *workflow.Controller
	user domain.User

	snap      workflow.View
	prevStage workflow.Stage
	width     int
	height    int
	quitting  bool

	busy    string
	animate bool
	spin    spinner.Model
	errMsg  string
	info    string

	cursor     time.Time
	startDay   time.Time
	form       strategyForm
	subIdx     int
	reply      textinput.Model
	out        viewport.Model
	outFor     string
	refining   bool
	instr      textinput.Model
	users      []*domain.User
	userIdx    int
	confirmDel string
}

func newStudioModel(ctx context.Context, a *App, ctrl *workflow.Controller, user domain.User) studioModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = formatter.StyleHeader

	reply := textinput.New()
	reply.Placeholder = "Sua resposta (enter envia, vazio gera quando pronto)"
	reply.CharLimit = 4000
	reply.Width = 70

	instr := textinput.New()
	instr.Placeholder = "Como reescrever o texto?"
	instr.CharLimit = 1000
	instr.Width = 70

	vp := viewport.New(80, 18)
	vp.KeyMap = viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}

	return studioModel{
		ctx:     ctx,
		app:     a,
		ctrl:    ctrl,
		user:    user,
		snap:    ctrl.View(),
		animate: true,
		spin:    sp,
		cursor:  domain.DayOf(a.now()),
		form:    newStrategyForm(),
		reply:   reply,
		instr:   instr,
		out:     vp,
	}
}

// withoutAnimation turns off the spinner and cursor blinking, leaving no
// timer-driven Cmds.
func (m studioModel) withoutAnimation() studioModel {
	m.animate = false
	for i := range m.form.inputs {
		m.form.inputs[i].Cursor.SetMode(cursor.CursorStatic)
	}
	m.reply.Cursor.SetMode(cursor.CursorStatic)
	m.instr.Cursor.SetMode(cursor.CursorStatic)
	return m
}

// openingDay makes the studio go straight from sign-in to day.
func (m studioModel) openingDay(day time.Time) studioModel {
	m.startDay = domain.DayOf(day)
	m.cursor = m.startDay
	return m
}

func (m studioModel) Init() tea.Cmd {
	user, day := m.user, m.startDay
	return m.start("Entrando", func(ctx context.Context) (string, error) {
		if err := m.ctrl.SignIn(ctx, user); err != nil {
			return "", err
		}
		if day.IsZero() {
			return "", nil
		}
		return "", m.ctrl.PickDay(ctx, day)
	})
}

// start runs fn off the update loop and marks the model busy until it ends.
func (m *studioModel) start(label string, fn func(ctx context.Context) (string, error)) tea.Cmd {
	m.busy = label
	m.errMsg = ""
	m.info = ""
	ctx := m.ctx
	work := func() tea.Msg {
		info, err := fn(ctx)
		return opDoneMsg{label: label, info: info, err: err}
	}
	if m.animate {
		return tea.Batch(work, m.spin.Tick)
	}
	return work
}

func (m studioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.out.Width = msg.Width
		m.out.Height = max(5, msg.Height-12)
		return m, nil

	case spinner.TickMsg:
		if m.busy == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case opDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.errMsg = m.describe(msg.err)
		}
		m.info = msg.info
		cmd := m.refresh()
		if msg.quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, cmd

	case usersMsg:
		m.busy = ""
		if msg.err != nil {
			m.errMsg = m.describe(msg.err)
			return m, nil
		}
		m.users = msg.users
		if m.userIdx >= len(m.users) {
			m.userIdx = max(0, len(m.users)-1)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.busy != "" {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// refresh takes a new snapshot and prepares the widgets of a newly entered
// stage.
func (m *studioModel) refresh() tea.Cmd {
	m.snap = m.ctrl.View()
	stage := m.snap.Stage
	entered := stage != m.prevStage
	m.prevStage = stage

	switch stage {
	case workflow.StageConfiguration:
		// Operations apply the form before running, so the strategy is
		// always at least as new as the inputs.
		m.form.load(m.snap.Strategy)
	case workflow.StageSubTopicSelection:
		if entered || m.subIdx >= len(m.snap.SubTopics) {
			m.subIdx = 0
		}
	case workflow.StageSpecificity:
		m.setOutput("approach", m.snap.Strategy.GeneratedApproach)
	case workflow.StageBriefing:
		if entered {
			m.reply.SetValue("")
		}
		m.reply.Focus()
		m.setOutput("briefing", m.transcript())
		m.out.GotoBottom()
	case workflow.StageGeneration:
		m.setOutput("content", m.snap.Content.Text)
		if entered {
			m.refining = false
			m.out.GotoTop()
		}
	case workflow.StageAdmin:
		if entered {
			return m.loadUsers()
		}
	}
	if stage != workflow.StageBriefing {
		m.reply.Blur()
	}
	return nil
}

func (m *studioModel) setOutput(kind, content string) {
	if m.outFor == kind+"\x00"+content {
		return
	}
	m.outFor = kind + "\x00" + content
	m.out.SetContent(content)
}

func (m *studioModel) loadUsers() tea.Cmd {
	m.busy = "Carregando usuários"
	ctx, admin, actor := m.ctx, m.app.Admin, m.user
	return func() tea.Msg {
		users, err := admin.ListUsers(ctx, &actor)
		return usersMsg{users: users, err: err}
	}
}

func (m studioModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.snap.Stage {
	case workflow.StageCalendar:
		return m.calendarKey(msg)
	case workflow.StageConfiguration:
		return m.configurationKey(msg)
	case workflow.StageSubTopicSelection:
		return m.subTopicKey(msg)
	case workflow.StageSpecificity:
		return m.specificityKey(msg)
	case workflow.StageBriefing:
		return m.briefingKey(msg)
	case workflow.StageGeneration:
		return m.generationKey(msg)
	case workflow.StageAdmin:
		return m.adminKey(msg)
	}
	if msg.String() == "q" {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m studioModel) calendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.cursor = m.cursor.AddDate(0, 0, -1)
	case "right", "l":
		m.cursor = m.cursor.AddDate(0, 0, 1)
	case "up", "k":
		m.cursor = m.cursor.AddDate(0, 0, -7)
	case "down", "j":
		m.cursor = m.cursor.AddDate(0, 0, 7)
	case "[":
		m.cursor = m.cursor.AddDate(0, -1, 0)
	case "]":
		m.cursor = m.cursor.AddDate(0, 1, 0)
	case ".":
		m.cursor = domain.DayOf(m.app.now())
	case "enter":
		day := m.cursor
		return m, m.start("Abrindo o dia", func(ctx context.Context) (string, error) {
			return "", m.ctrl.PickDay(ctx, day)
		})
	case "a":
		return m, m.start("Abrindo administração", func(ctx context.Context) (string, error) {
			return "", m.ctrl.OpenAdmin(ctx)
		})
	case "s":
		m.busy = "Saindo"
		ctx, ctrl, sess := m.ctx, m.ctrl, m.app.Session
		return m, func() tea.Msg {
			err := ctrl.SignOut(ctx)
			if err == nil {
				err = sess.Clear()
			}
			return opDoneMsg{label: "Saindo", err: err, quit: err == nil}
		}
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m studioModel) configurationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.form.move(1)
		return m, nil
	case "shift+tab", "up":
		m.form.move(-1)
		return m, nil
	case "enter":
		if !m.form.last() {
			m.form.move(1)
			return m, nil
		}
		return m, m.defineAngle()
	case "ctrl+g":
		return m, m.defineAngle()
	case "ctrl+s":
		form := m.form
		return m, m.start("Salvando rascunho", func(ctx context.Context) (string, error) {
			if err := m.ctrl.Edit(form.apply); err != nil {
				return "", err
			}
			return "Rascunho salvo.", m.ctrl.SaveDraft(ctx)
		})
	case "ctrl+a":
		form := m.form
		return m, m.start("Rascunhando pauta", func(ctx context.Context) (string, error) {
			if err := m.ctrl.Edit(form.apply); err != nil {
				return "", err
			}
			src, err := m.ctrl.DraftAgenda(ctx)
			if err != nil {
				return "", err
			}
			return "Pauta " + sourceNote(src == intelligence.SourceFallback), nil
		})
	case "ctrl+t":
		m.editNow(func(s *domain.Strategy) { s.Status = nextStatus(s.Status) })
		return m, nil
	case "ctrl+w":
		m.editNow(func(s *domain.Strategy) { s.UseSearch = !s.UseSearch })
		return m, nil
	case "esc":
		form := m.form
		return m, m.start("Voltando ao calendário", func(ctx context.Context) (string, error) {
			if err := m.ctrl.Edit(form.apply); err != nil {
				return "", err
			}
			return "", m.ctrl.Back(ctx)
		})
	}
	return m, m.form.update(msg)
}

// editNow applies the form and fn synchronously; it is used for toggles that
// need no collaborator call.
func (m *studioModel) editNow(fn func(*domain.Strategy)) {
	form := m.form
	if err := m.ctrl.Edit(func(s *domain.Strategy) {
		form.apply(s)
		fn(s)
	}); err != nil {
		m.errMsg = m.describe(err)
		return
	}
	m.snap = m.ctrl.View()
}

func (m *studioModel) defineAngle() tea.Cmd {
	form := m.form
	return m.start("Buscando ângulos", func(ctx context.Context) (string, error) {
		if err := m.ctrl.Edit(form.apply); err != nil {
			return "", err
		}
		return "", m.ctrl.DefineAngle(ctx)
	})
}

func (m studioModel) subTopicKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.subIdx > 0 {
			m.subIdx--
		}
	case "down", "j":
		if m.subIdx < len(m.snap.SubTopics)-1 {
			m.subIdx++
		}
	case "enter":
		i := m.subIdx
		return m, m.start("Selecionando ângulo", func(ctx context.Context) (string, error) {
			return "", m.ctrl.SelectSubTopic(ctx, i)
		})
	case "r":
		return m, m.start("Gerando novos ângulos", func(ctx context.Context) (string, error) {
			return "", m.ctrl.RegenerateSubTopics(ctx)
		})
	case "esc":
		return m, m.start("Voltando", func(ctx context.Context) (string, error) {
			return "", m.ctrl.Back(ctx)
		})
	}
	return m, nil
}

func (m studioModel) specificityKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch s := msg.String(); s {
	case "1", "2", "3":
		level := domain.ComplexityLevels[s[0]-'1']
		return m, m.start("Montando a abordagem", func(ctx context.Context) (string, error) {
			return "", m.ctrl.ChooseLevel(ctx, level)
		})
	case "b":
		return m, m.start("Preparando o briefing", func(ctx context.Context) (string, error) {
			return "", m.ctrl.RefineViaBriefing(ctx)
		})
	case "g":
		return m, m.start("Escrevendo o conteúdo", func(ctx context.Context) (string, error) {
			return "", m.ctrl.GenerateNow(ctx)
		})
	case "esc":
		return m, m.start("Voltando", func(ctx context.Context) (string, error) {
			return "", m.ctrl.Back(ctx)
		})
	default:
		var cmd tea.Cmd
		m.out, cmd = m.out.Update(msg)
		return m, cmd
	}
}

func (m studioModel) briefingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(m.reply.Value())
		if text == "" {
			return m, m.generateFromBriefing()
		}
		m.reply.SetValue("")
		return m, m.start("Analisando resposta", func(ctx context.Context) (string, error) {
			_, err := m.ctrl.Reply(ctx, text)
			return "", err
		})
	case "ctrl+g":
		return m, m.generateFromBriefing()
	case "esc":
		return m, m.start("Voltando", func(ctx context.Context) (string, error) {
			return "", m.ctrl.Back(ctx)
		})
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.out, cmd = m.out.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.reply, cmd = m.reply.Update(msg)
	return m, cmd
}

func (m *studioModel) generateFromBriefing() tea.Cmd {
	return m.start("Escrevendo o conteúdo", func(ctx context.Context) (string, error) {
		return "", m.ctrl.Generate(ctx)
	})
}

func (m studioModel) generationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.refining {
		switch msg.String() {
		case "enter":
			instruction := strings.TrimSpace(m.instr.Value())
			m.refining = false
			m.instr.Blur()
			m.instr.SetValue("")
			if instruction == "" {
				return m, nil
			}
			return m, m.refine(instruction)
		case "esc":
			m.refining = false
			m.instr.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.instr, cmd = m.instr.Update(msg)
		return m, cmd
	}

	switch s := msg.String(); s {
	case "1", "2", "3", "4":
		return m, m.refine(refinePresets[s[0]-'1'].instruction)
	case "r":
		m.refining = true
		return m, m.instr.Focus()
	case "m", "t", "h", "f":
		path, err := m.export(exportKeys[s])
		if err != nil {
			m.errMsg = m.describe(err)
		} else {
			m.info = "Exportado para " + path
		}
		return m, nil
	case "n":
		return m, m.start("Novo assunto", func(ctx context.Context) (string, error) {
			return "", m.ctrl.NewSubject(ctx)
		})
	case "esc":
		return m, m.start("Voltando ao briefing", func(ctx context.Context) (string, error) {
			return "", m.ctrl.Back(ctx)
		})
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.out, cmd = m.out.Update(msg)
	return m, cmd
}

func (m *studioModel) refine(instruction string) tea.Cmd {
	return m.start("Refinando", func(ctx context.Context) (string, error) {
		src, err := m.ctrl.Refine(ctx, instruction)
		if err != nil {
			return "", err
		}
		if src == intelligence.SourceFallback {
			return "Não foi possível refinar agora; o texto foi mantido.", nil
		}
		return "Texto refinado.", nil
	})
}

// export writes the current content in format f to the export directory.
func (m studioModel) export(f export.Format) (string, error) {
	data, err := export.Render(f, m.snap.Strategy, m.snap.Content)
	if err != nil {
		return "", err
	}
	dir := m.app.ExportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, export.Filename(m.snap.Strategy, f))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}

func (m studioModel) adminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k != "d" {
		m.confirmDel = ""
	}
	switch k {
	case "up", "k":
		if m.userIdx > 0 {
			m.userIdx--
		}
	case "down", "j":
		if m.userIdx < len(m.users)-1 {
			m.userIdx++
		}
	case "r":
		if len(m.users) == 0 {
			return m, nil
		}
		target := *m.users[m.userIdx]
		role := domain.RoleAdmin
		if target.IsAdmin() {
			role = domain.RoleUser
		}
		m.busy = "Alterando papel"
		return m, m.adminOp(func(ctx context.Context, actor *domain.User) error {
			return m.app.Admin.SetRole(ctx, actor, target.ID, role)
		})
	case "d":
		if len(m.users) == 0 {
			return m, nil
		}
		target := *m.users[m.userIdx]
		if m.confirmDel != target.ID {
			m.confirmDel = target.ID
			m.info = fmt.Sprintf("Pressione d novamente para remover %s.", target.Email)
			return m, nil
		}
		m.confirmDel = ""
		m.busy = "Removendo usuário"
		return m, m.adminOp(func(ctx context.Context, actor *domain.User) error {
			return m.app.Admin.RemoveUser(ctx, actor, target.ID)
		})
	case "esc":
		return m, m.start("Voltando ao calendário", func(ctx context.Context) (string, error) {
			return "", m.ctrl.Back(ctx)
		})
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// adminOp runs fn and reloads the user list.
func (m studioModel) adminOp(fn func(ctx context.Context, actor *domain.User) error) tea.Cmd {
	ctx, admin, actor := m.ctx, m.app.Admin, m.user
	return func() tea.Msg {
		if err := fn(ctx, &actor); err != nil {
			return usersMsg{err: err}
		}
		users, err := admin.ListUsers(ctx, &actor)
		return usersMsg{users: users, err: err}
	}
}

// describe turns an operation error into a line for the status area.
func (m studioModel) describe(err error) string {
	switch {
	case errors.Is(err, workflow.ErrIncompleteStrategy):
		return "Preencha os campos obrigatórios: " + strings.Join(fieldLabels(m.ctrl.View().Strategy.MissingRequired()), ", ")
	case errors.Is(err, workflow.ErrLevelLocked):
		return "O nível já foi confirmado para este assunto. Comece um novo assunto para mudá-lo."
	case errors.Is(err, workflow.ErrNotReady):
		return "O briefing ainda não está pronto. Responda à pergunta do assistente."
	case errors.Is(err, workflow.ErrNotAdmin):
		return "Somente administradores podem abrir esta área."
	case errors.Is(err, workflow.ErrAgendaInputs):
		return "Preencha tema e assunto antes de rascunhar a pauta."
	case errors.Is(err, workflow.ErrBusy):
		return "Aguarde a operação em andamento."
	}
	return err.Error()
}

var requiredLabels = map[string]string{
	"topic":     "Tema",
	"subject":   "Assunto",
	"audience":  "Público",
	"expertise": "Especialidade",
}

func fieldLabels(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = requiredLabels[n]
	}
	return out
}

func sourceNote(fallback bool) string {
	if fallback {
		return "preenchida com texto de contingência."
	}
	return "rascunhada pelo modelo."
}

func newStudioController(a *App) *workflow.Controller {
	var rec app.TransitionRecorder
	if a.Metrics != nil {
		rec = a.Metrics
	}
	return workflow.NewController(workflow.Deps{
		Collaborator: a.Collaborator,
		Calendar:     a.Calendar,
		Recorder:     rec,
		Logger:       a.logger(),
		Clock:        a.now,
	})
}
