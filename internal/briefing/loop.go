package briefing

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/intelligence"
)

// ErrBusy is returned when a call is made while another collaborator call of
// the same loop is still outstanding.
var ErrBusy = errors.New("briefing: a collaborator call is already in progress")

// Snapshot is a copy of the loop state safe to hand to a view.
type Snapshot struct {
	History  []domain.ChatMessage
	Ready    bool
	Summary  string
	Busy     bool
	Restored bool
}

// Turn describes the assistant message appended by a loop operation.
type Turn struct {
	Reply  string
	Ready  bool
	Source intelligence.Source
	Cause  error
}

// Loop drives the pre-generation interview. History is append-only; at most
// one collaborator call is in flight at any time.
type Loop struct {
	interviewer Interviewer
	protocol    *Protocol
	inflight    *semaphore.Weighted
	log         *slog.Logger

	mu       sync.Mutex
	strategy domain.Strategy
	history  []domain.ChatMessage
	ready    bool
	summary  string
	busy     bool
	restored bool
}

func NewLoop(i Interviewer, log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		interviewer: i,
		protocol:    NewProtocol(i),
		inflight:    semaphore.NewWeighted(1),
		log:         log,
	}
}

// Start begins a briefing for s. With prior history the conversation is
// restored verbatim and marked ready without asking the interviewer again;
// otherwise one opening question is requested.
func (l *Loop) Start(ctx context.Context, s domain.Strategy, prior []domain.ChatMessage) (Turn, error) {
	if !l.inflight.TryAcquire(1) {
		return Turn{}, ErrBusy
	}
	defer l.inflight.Release(1)

	if len(prior) > 0 {
		l.mu.Lock()
		l.strategy = s
		l.history = domain.CloneHistory(prior)
		l.ready = true
		l.summary = ""
		l.restored = true
		l.mu.Unlock()
		l.log.Debug("briefing restored", "turns", len(prior))
		return Turn{Ready: true, Source: intelligence.SourceModel}, nil
	}

	l.mu.Lock()
	l.strategy = s
	l.history = nil
	l.ready = false
	l.summary = ""
	l.restored = false
	l.busy = true
	l.mu.Unlock()

	out := l.interviewer.InitialQuestion(ctx, s)
	question := strings.TrimSpace(out.Value)
	if question == "" {
		question = intelligence.OpeningQuestion
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.busy = false
	l.history = append(l.history, domain.AssistantMessage(question))
	return Turn{Reply: question, Source: out.Source, Cause: out.Cause}, nil
}

// SubmitReply appends the user's text and the interviewer's answer. Blank
// text is ignored. Any accepted reply revokes readiness until the protocol
// confirms it again.
func (l *Loop) SubmitReply(ctx context.Context, text string) (Turn, error) {
	if strings.TrimSpace(text) == "" {
		l.mu.Lock()
		defer l.mu.Unlock()
		return Turn{Ready: l.ready}, nil
	}
	if !l.inflight.TryAcquire(1) {
		return Turn{}, ErrBusy
	}
	defer l.inflight.Release(1)

	l.mu.Lock()
	l.history = append(l.history, domain.UserMessage(text))
	l.ready = false
	l.restored = false
	l.busy = true
	strategy := l.strategy
	history := domain.CloneHistory(l.history)
	l.mu.Unlock()

	v := l.protocol.Evaluate(ctx, strategy, history)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.busy = false
	l.history = append(l.history, domain.AssistantMessage(v.Reply))
	l.ready = v.Ready
	if v.Summary != "" {
		l.summary = v.Summary
	}
	l.log.Debug("briefing turn", "ready", v.Ready, "source", v.Source, "turns", len(l.history))
	return Turn{Reply: v.Reply, Ready: v.Ready, Source: v.Source, Cause: v.Cause}, nil
}

// UpdateStrategy replaces the context sent with later turns.
func (l *Loop) UpdateStrategy(s domain.Strategy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.strategy = s
}

// Reset clears the conversation.
func (l *Loop) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = nil
	l.ready = false
	l.summary = ""
	l.restored = false
}

func (l *Loop) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

func (l *Loop) History() []domain.ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return domain.CloneHistory(l.history)
}

func (l *Loop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		History:  domain.CloneHistory(l.history),
		Ready:    l.ready,
		Summary:  l.summary,
		Busy:     l.busy,
		Restored: l.restored,
	}
}
