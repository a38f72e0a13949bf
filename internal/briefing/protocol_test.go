package briefing

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/intelligence"
	"github.com/stretchr/testify/assert"
)

type stubInterviewer struct {
	readiness intelligence.Outcome[intelligence.Readiness]
}

func (s stubInterviewer) InitialQuestion(context.Context, domain.Strategy) intelligence.Outcome[string] {
	return intelligence.Outcome[string]{Value: "?", Source: intelligence.SourceModel}
}

func (s stubInterviewer) AnalyzeBriefing(context.Context, domain.Strategy, []domain.ChatMessage) intelligence.Outcome[intelligence.Readiness] {
	return s.readiness
}

func TestProtocolEvaluate(t *testing.T) {
	cause := errors.New("boom")
	cases := []struct {
		name    string
		outcome intelligence.Outcome[intelligence.Readiness]
		want    Verdict
	}{
		{
			name:    "ready ignores question",
			outcome: intelligence.Outcome[intelligence.Readiness]{Value: intelligence.Readiness{Ready: true, Question: "ignorada", Summary: "s"}, Source: intelligence.SourceModel},
			want:    Verdict{Ready: true, Reply: intelligence.ReadyStatement, Summary: "s", Source: intelligence.SourceModel},
		},
		{
			name:    "not ready asks",
			outcome: intelligence.Outcome[intelligence.Readiness]{Value: intelligence.Readiness{Question: "Qual público?"}, Source: intelligence.SourceModel},
			want:    Verdict{Reply: "Qual público?", Source: intelligence.SourceModel},
		},
		{
			name:    "not ready without question asks follow-up",
			outcome: intelligence.Outcome[intelligence.Readiness]{Value: intelligence.Readiness{Question: "  "}, Source: intelligence.SourceModel},
			want:    Verdict{Reply: intelligence.FollowUpQuestion, Source: intelligence.SourceModel},
		},
		{
			name:    "fallback is never ready",
			outcome: intelligence.Outcome[intelligence.Readiness]{Value: intelligence.Readiness{Ready: true}, Source: intelligence.SourceFallback, Cause: cause},
			want:    Verdict{Reply: intelligence.FollowUpQuestion, Source: intelligence.SourceFallback, Cause: cause},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewProtocol(stubInterviewer{readiness: tc.outcome})
			assert.Equal(t, tc.want, p.Evaluate(context.Background(), domain.Strategy{}, nil))
		})
	}
}
