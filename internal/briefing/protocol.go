package briefing

import (
	"context"
	"strings"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/intelligence"
)

// Interviewer is the part of the collaborator the briefing talks to.
type Interviewer interface {
	InitialQuestion(ctx context.Context, s domain.Strategy) intelligence.Outcome[string]
	AnalyzeBriefing(ctx context.Context, s domain.Strategy, history []domain.ChatMessage) intelligence.Outcome[intelligence.Readiness]
}

// Verdict is the interpreted result of one readiness exchange.
type Verdict struct {
	Ready   bool
	Reply   string
	Summary string
	Source  intelligence.Source
	Cause   error
}

// Protocol asks the interviewer whether the conversation holds enough to
// write. The interviewer's flag is the only readiness signal: a ready verdict
// always answers with ReadyStatement and the model's question is discarded.
type Protocol struct {
	interviewer Interviewer
}

func NewProtocol(i Interviewer) *Protocol {
	return &Protocol{interviewer: i}
}

// Evaluate never fails. A malformed or unreachable answer yields a not-ready
// verdict, and a not-ready verdict without a question carries the fixed
// follow-up question.
func (p *Protocol) Evaluate(ctx context.Context, s domain.Strategy, history []domain.ChatMessage) Verdict {
	out := p.interviewer.AnalyzeBriefing(ctx, s, history)
	v := Verdict{Source: out.Source, Cause: out.Cause, Summary: out.Value.Summary}
	if out.Value.Ready && !out.UsedFallback() {
		v.Ready = true
		v.Reply = intelligence.ReadyStatement
		return v
	}
	v.Reply = strings.TrimSpace(out.Value.Question)
	if v.Reply == "" {
		v.Reply = intelligence.FollowUpQuestion
	}
	return v
}
