package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/alexanderramin/estudio/internal/app"
	"github.com/alexanderramin/estudio/internal/briefing"
	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/intelligence"
)

var (
	// ErrBusy is returned when an operation starts while another one of the
	// same controller is still running.
	ErrBusy            = errors.New("workflow: another operation is in progress")
	ErrNotEditable     = fmt.Errorf("%w: strategy can only be edited during configuration", ErrTransitionRejected)
	ErrUnknownSubTopic = fmt.Errorf("%w: no such sub-topic", ErrTransitionRejected)
	ErrAgendaInputs    = errors.New("topic and subject are required to draft an agenda")
)

// Deps are the collaborators a Controller drives.
type Deps struct {
	Collaborator intelligence.Collaborator
	Calendar     app.CalendarStore
	Recorder     app.TransitionRecorder
	Logger       *slog.Logger
	Clock        app.Clock
}

// View is a copy of the session for rendering. Mutating it has no effect on
// the controller.
type View struct {
	Stage     Stage
	User      *domain.User
	Strategy  domain.Strategy
	SubTopics []domain.SubTopic
	Entries   []domain.CalendarEntry
	Briefing  briefing.Snapshot
	Content   domain.GeneratedContent
	Sources   map[string]intelligence.Source
	Notice    string
}

// UsedFallback reports whether the last run of op was served by a fallback.
func (v View) UsedFallback(op string) bool {
	return v.Sources[op] == intelligence.SourceFallback
}

type session struct {
	user      *domain.User
	strategy  domain.Strategy
	subTopics []domain.SubTopic
	entries   []domain.CalendarEntry
	history   []domain.ChatMessage
	content   domain.GeneratedContent
	sources   map[string]intelligence.Source
	notice    string
}

func freshSession(user *domain.User, entries []domain.CalendarEntry) session {
	return session{
		user:     user,
		entries:  entries,
		strategy: domain.NewStrategy(),
		sources:  map[string]intelligence.Source{},
	}
}

// Controller owns one planning session. Every mutation of the strategy, the
// briefing history and the generated content goes through its methods, and
// operations never overlap.
type Controller struct {
	collab   intelligence.Collaborator
	calendar app.CalendarStore
	rec      app.TransitionRecorder
	log      *slog.Logger
	now      app.Clock
	loop     *briefing.Loop
	ops      *semaphore.Weighted

	mu    sync.Mutex
	stage Stage
	sess  session
}

func NewController(d Deps) *Controller {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return &Controller{
		collab:   d.Collaborator,
		calendar: d.Calendar,
		rec:      d.Recorder,
		log:      d.Logger,
		now:      d.Clock,
		loop:     briefing.NewLoop(d.Collaborator, d.Logger),
		ops:      semaphore.NewWeighted(1),
		stage:    StageAuth,
		sess:     freshSession(nil, nil),
	}
}

func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		Stage:     c.stage,
		Strategy:  c.sess.strategy,
		SubTopics: append([]domain.SubTopic(nil), c.sess.subTopics...),
		Entries:   append([]domain.CalendarEntry(nil), c.sess.entries...),
		Briefing:  c.loop.Snapshot(),
		Content:   c.sess.content,
		Sources:   make(map[string]intelligence.Source, len(c.sess.sources)),
		Notice:    c.sess.notice,
	}
	v.Content.Citations = append([]domain.Citation(nil), c.sess.content.Citations...)
	if c.sess.user != nil {
		u := *c.sess.user
		v.User = &u
	}
	for k, s := range c.sess.sources {
		v.Sources[k] = s
	}
	return v
}

// SignIn starts a session for u and shows the calendar.
func (c *Controller) SignIn(ctx context.Context, u domain.User) error {
	return c.run(ctx, EventSignIn, func(s *session) error {
		s.user = &u
		return nil
	}, nil)
}

func (c *Controller) SignOut(ctx context.Context) error {
	return c.run(ctx, EventSignOut, nil, nil)
}

func (c *Controller) ShowCalendar(ctx context.Context) error {
	return c.run(ctx, EventShowCalendar, nil, nil)
}

func (c *Controller) OpenAdmin(ctx context.Context) error {
	return c.run(ctx, EventOpenAdmin, nil, nil)
}

// PickDay opens the configuration for day: the entry saved on that day, or a
// new idea.
func (c *Controller) PickDay(ctx context.Context, day time.Time) error {
	release, err := c.begin()
	if err != nil {
		return err
	}
	defer release()

	c.mu.Lock()
	user, stage := c.sess.user, c.stage
	c.mu.Unlock()

	var picked domain.Strategy
	if user != nil && stage == StageCalendar {
		picked, err = c.calendar.SelectDay(ctx, user.ID, day)
		if err != nil {
			return fmt.Errorf("selecting day: %w", err)
		}
	}
	_, err = c.apply(ctx, EventPickDay, func(s *session) error {
		*s = freshSession(s.user, s.entries)
		s.strategy = picked
		return nil
	}, nil)
	return err
}

// Edit applies fn to the strategy. Only the configuration stage accepts
// edits; the id and the fields owned by later stages are kept.
func (c *Controller) Edit(fn func(*domain.Strategy)) error {
	release, err := c.begin()
	if err != nil {
		return err
	}
	defer release()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != StageConfiguration {
		return ErrNotEditable
	}
	cur := c.sess.strategy
	next := cur
	fn(&next)
	next.ID = cur.ID
	next.SelectedSubTopic = cur.SelectedSubTopic
	next.ComplexityLevel = cur.ComplexityLevel
	next.GeneratedApproach = cur.GeneratedApproach
	c.sess.strategy = next
	return nil
}

// DraftAgenda fills the detailed agenda from topic, subject and expertise.
func (c *Controller) DraftAgenda(ctx context.Context) (intelligence.Source, error) {
	release, err := c.begin()
	if err != nil {
		return "", err
	}
	defer release()

	c.mu.Lock()
	stage, s := c.stage, c.sess.strategy
	c.mu.Unlock()
	if stage != StageConfiguration {
		return "", ErrNotEditable
	}
	if strings.TrimSpace(s.Topic) == "" || strings.TrimSpace(s.Subject) == "" {
		return "", ErrAgendaInputs
	}

	out := c.collab.DetailedAgenda(ctx, s.Topic, s.Subject, s.Expertise)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.strategy.DetailedAgenda = out.Value
	c.sess.sources[intelligence.OpAgenda] = out.Source
	return out.Source, nil
}

// DefineAngle saves the strategy and fetches sub-topics for it.
func (c *Controller) DefineAngle(ctx context.Context) error {
	return c.run(ctx, EventDefineAngle, nil, nil)
}

// SaveDraft saves the strategy and returns to an empty calendar view.
func (c *Controller) SaveDraft(ctx context.Context) error {
	return c.run(ctx, EventSaveDraft, nil, nil)
}

// RegenerateSubTopics asks for a new list of angles.
func (c *Controller) RegenerateSubTopics(ctx context.Context) error {
	release, err := c.begin()
	if err != nil {
		return err
	}
	defer release()
	if c.Stage() != StageSubTopicSelection {
		return fmt.Errorf("%w: sub-topics are only listed during selection", ErrTransitionRejected)
	}
	c.fetchSubTopics(ctx)
	return nil
}

// SelectSubTopic chooses the angle at index i of the current list.
func (c *Controller) SelectSubTopic(ctx context.Context, i int) error {
	return c.run(ctx, EventSelectSubTopic, func(s *session) error {
		if i < 0 || i >= len(s.subTopics) {
			return fmt.Errorf("%w: %d", ErrUnknownSubTopic, i+1)
		}
		s.strategy.SelectedSubTopic = s.subTopics[i].Title
		return nil
	}, nil)
}

// ChooseLevel confirms the complexity level and fetches the approach outline
// for it. Once confirmed, the level cannot change until the session resets.
func (c *Controller) ChooseLevel(ctx context.Context, level domain.ComplexityLevel) error {
	if _, err := domain.ParseComplexityLevel(string(level)); err != nil {
		return fmt.Errorf("%w: %v", ErrTransitionRejected, err)
	}
	return c.run(ctx, EventConfirmLevel, nil, &commandArgs{level: level})
}

func (c *Controller) RefineViaBriefing(ctx context.Context) error {
	return c.run(ctx, EventRefineViaBriefing, nil, nil)
}

func (c *Controller) GenerateNow(ctx context.Context) error {
	return c.run(ctx, EventGenerateNow, nil, nil)
}

// Reply sends the user's text to the briefing.
func (c *Controller) Reply(ctx context.Context, text string) (briefing.Turn, error) {
	release, err := c.begin()
	if err != nil {
		return briefing.Turn{}, err
	}
	defer release()
	if c.Stage() != StageBriefing {
		return briefing.Turn{}, fmt.Errorf("%w: no briefing in progress", ErrTransitionRejected)
	}
	turn, err := c.loop.SubmitReply(ctx, text)
	if err != nil {
		return turn, err
	}
	if turn.Reply != "" {
		c.mu.Lock()
		c.sess.sources[intelligence.OpAnalyzeBriefing] = turn.Source
		c.mu.Unlock()
	}
	return turn, nil
}

// Generate leaves a ready briefing for the result stage.
func (c *Controller) Generate(ctx context.Context) error {
	return c.run(ctx, EventGenerate, nil, nil)
}

// Refine rewrites the generated content following instruction. On failure the
// content is left unchanged.
func (c *Controller) Refine(ctx context.Context, instruction string) (intelligence.Source, error) {
	release, err := c.begin()
	if err != nil {
		return "", err
	}
	defer release()

	c.mu.Lock()
	stage, text := c.stage, c.sess.content.Text
	c.mu.Unlock()
	if stage != StageGeneration {
		return "", fmt.Errorf("%w: nothing to refine", ErrTransitionRejected)
	}

	out := c.collab.Refine(ctx, text, instruction)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.sources[intelligence.OpRefine] = out.Source
	if out.UsedFallback() {
		return out.Source, nil
	}
	c.sess.content.Text = out.Value
	if cites := intelligence.ExtractCitations(out.Value); len(cites) > 0 {
		c.sess.content.Citations = cites
	}
	return out.Source, nil
}

func (c *Controller) Back(ctx context.Context) error {
	return c.run(ctx, EventBack, nil, nil)
}

// NewSubject discards the session and returns to the calendar.
func (c *Controller) NewSubject(ctx context.Context) error {
	return c.run(ctx, EventNewSubject, nil, nil)
}

// DismissNotice clears the last notice.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.notice = ""
}

type commandArgs struct {
	level domain.ComplexityLevel
}

func (c *Controller) begin() (func(), error) {
	if !c.ops.TryAcquire(1) {
		return nil, ErrBusy
	}
	return func() { c.ops.Release(1) }, nil
}

func (c *Controller) run(ctx context.Context, ev Event, propose func(*session) error, args *commandArgs) error {
	release, err := c.begin()
	if err != nil {
		return err
	}
	defer release()
	_, err = c.apply(ctx, ev, propose, args)
	return err
}

// apply evaluates ev against the proposed session. When the transition is
// accepted the proposal is committed and the commands run in order.
func (c *Controller) apply(ctx context.Context, ev Event, propose func(*session) error, args *commandArgs) (Transition, error) {
	c.mu.Lock()
	proposed := c.sess
	if propose != nil {
		if err := propose(&proposed); err != nil {
			c.mu.Unlock()
			return Transition{From: c.stage, To: c.stage, Event: ev}, err
		}
	}
	tr, err := Next(c.stage, ev, c.guards(&proposed))
	if err != nil {
		c.mu.Unlock()
		c.log.Debug("transition rejected", "stage", tr.From, "event", ev, "err", err)
		return tr, err
	}
	c.sess = proposed
	c.stage = tr.To
	c.mu.Unlock()

	c.log.Debug("stage transition", "from", tr.From, "to", tr.To, "event", ev)
	if c.rec != nil {
		c.rec.RecordTransition(string(tr.From), string(tr.To))
	}
	for _, cmd := range tr.Commands {
		c.execute(ctx, cmd, args)
	}
	return tr, nil
}

func (c *Controller) guards(s *session) Guards {
	return Guards{
		Authenticated:    s.user != nil,
		Admin:            s.user != nil && s.user.IsAdmin(),
		StrategyComplete: s.strategy.Complete(),
		SubTopicChosen:   strings.TrimSpace(s.strategy.SelectedSubTopic) != "",
		LevelConfirmed:   s.strategy.LevelConfirmed(),
		BriefingReady:    c.loop.Ready(),
	}
}

func (c *Controller) execute(ctx context.Context, cmd Command, args *commandArgs) {
	switch cmd {
	case CmdLoadCalendar:
		c.loadCalendar(ctx)
	case CmdSaveStrategy:
		c.saveStrategy(ctx)
	case CmdFetchSubTopics:
		c.fetchSubTopics(ctx)
	case CmdFetchApproach:
		if args != nil {
			c.fetchApproach(ctx, args.level)
		}
	case CmdStartBriefing:
		c.startBriefing(ctx)
	case CmdDropBriefing:
		c.loop.Reset()
		c.mu.Lock()
		c.sess.history = nil
		c.mu.Unlock()
	case CmdKeepBriefing:
		h := c.loop.History()
		c.mu.Lock()
		c.sess.history = h
		c.mu.Unlock()
	case CmdGenerate:
		c.generate(ctx)
	case CmdResetSession:
		c.loop.Reset()
		c.mu.Lock()
		c.sess = freshSession(c.sess.user, c.sess.entries)
		c.mu.Unlock()
	case CmdClearUser:
		c.mu.Lock()
		c.sess.user = nil
		c.sess.entries = nil
		c.mu.Unlock()
	default:
		c.log.Error("unknown command", "command", cmd)
	}
}

func (c *Controller) loadCalendar(ctx context.Context) {
	c.mu.Lock()
	user := c.sess.user
	c.mu.Unlock()
	if user == nil {
		return
	}
	entries, err := c.calendar.Entries(ctx, user.ID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Warn("loading calendar", "user", user.ID, "err", err)
		c.sess.notice = fmt.Sprintf("Não foi possível carregar o calendário: %v", err)
		return
	}
	c.sess.entries = entries
}

// saveStrategy persists the strategy when it has a date. Failures are
// reported as a notice and never block the flow.
func (c *Controller) saveStrategy(ctx context.Context) {
	c.mu.Lock()
	user, s := c.sess.user, c.sess.strategy
	c.mu.Unlock()
	if user == nil || !s.HasDate() {
		c.log.Debug("strategy not saved: no date")
		return
	}
	saved, err := c.calendar.SaveStrategy(ctx, user.ID, s)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Warn("saving strategy", "user", user.ID, "date", s.DateKey(), "err", err)
		c.sess.notice = fmt.Sprintf("Não foi possível salvar no calendário: %v", err)
		return
	}
	c.sess.strategy.ID = saved.ID
	c.sess.entries = upsertEntry(c.sess.entries, saved.ToEntry(user.ID))
}

func upsertEntry(entries []domain.CalendarEntry, e domain.CalendarEntry) []domain.CalendarEntry {
	out := append([]domain.CalendarEntry(nil), entries...)
	for i := range out {
		if out[i].ID == e.ID {
			out[i] = e
			return out
		}
	}
	return append(out, e)
}

func (c *Controller) fetchSubTopics(ctx context.Context) {
	c.mu.Lock()
	s := c.sess.strategy
	c.mu.Unlock()

	out := c.collab.SubTopics(ctx, s)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.subTopics = out.Value
	c.sess.sources[intelligence.OpSubTopics] = out.Source
}

func (c *Controller) fetchApproach(ctx context.Context, level domain.ComplexityLevel) {
	c.mu.Lock()
	s := c.sess.strategy
	c.mu.Unlock()

	out := c.collab.Approach(ctx, s, level)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.sources[intelligence.OpApproach] = out.Source
	if out.Aborted() {
		c.log.Info("approach aborted, level left open", "level", level)
		return
	}
	c.sess.strategy.ComplexityLevel = level
	c.sess.strategy.GeneratedApproach = out.Value
}

func (c *Controller) startBriefing(ctx context.Context) {
	c.mu.Lock()
	s, prior := c.sess.strategy, c.sess.history
	c.mu.Unlock()

	turn, err := c.loop.Start(ctx, s, prior)
	if err != nil {
		c.log.Warn("starting briefing", "err", err)
		return
	}
	if len(prior) == 0 {
		c.mu.Lock()
		c.sess.sources[intelligence.OpInitialQuestion] = turn.Source
		c.mu.Unlock()
	}
}

func (c *Controller) generate(ctx context.Context) {
	c.mu.Lock()
	s, history := c.sess.strategy, domain.CloneHistory(c.sess.history)
	c.mu.Unlock()

	out := c.collab.FinalContent(ctx, s, history)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess.content = out.Value
	c.sess.sources[intelligence.OpFinalContent] = out.Source
}
