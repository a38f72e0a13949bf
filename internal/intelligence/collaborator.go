package intelligence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/estudio/internal/domain"
	"github.com/alexanderramin/estudio/internal/llm"
)

// ErrBlankInput is the fallback cause when an operation is asked to work on
// empty input and no model call is made.
var ErrBlankInput = errors.New("blank input")

// Operation names, used in logs and metrics.
const (
	OpAgenda          = "agenda"
	OpSubTopics       = "subtopics"
	OpApproach        = "approach"
	OpInitialQuestion = "initial_question"
	OpAnalyzeBriefing = "analyze_briefing"
	OpFinalContent    = "final_content"
	OpRefine          = "refine"
)

// Readiness is the interviewer's verdict after a user reply.
type Readiness struct {
	Ready    bool
	Question string
	Summary  string
}

// Collaborator is the generative-text port used by the wizard. Every
// operation succeeds: failures are replaced by a deterministic fallback and
// reported through Outcome.
type Collaborator interface {
	DetailedAgenda(ctx context.Context, topic, subject, expertise string) Outcome[string]
	SubTopics(ctx context.Context, s domain.Strategy) Outcome[[]domain.SubTopic]
	Approach(ctx context.Context, s domain.Strategy, level domain.ComplexityLevel) Outcome[string]
	InitialQuestion(ctx context.Context, s domain.Strategy) Outcome[string]
	AnalyzeBriefing(ctx context.Context, s domain.Strategy, history []domain.ChatMessage) Outcome[Readiness]
	FinalContent(ctx context.Context, s domain.Strategy, history []domain.ChatMessage) Outcome[domain.GeneratedContent]
	Refine(ctx context.Context, text, instruction string) Outcome[string]
}

// FallbackRecorder counts fallbacks by operation and reason.
type FallbackRecorder interface {
	RecordFallback(operation, reason string)
}

type Option func(*collaborator)

func WithLogger(l *slog.Logger) Option {
	return func(c *collaborator) {
		if l != nil {
			c.log = l
		}
	}
}

func WithRecorder(r FallbackRecorder) Option {
	return func(c *collaborator) { c.rec = r }
}

type collaborator struct {
	client llm.LLMClient
	log    *slog.Logger
	rec    FallbackRecorder
}

// NewCollaborator creates a Collaborator backed by an LLM client.
func NewCollaborator(client llm.LLMClient, opts ...Option) Collaborator {
	if client == nil {
		client = llm.DisabledClient{}
	}
	c := &collaborator{client: client, log: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *collaborator) DetailedAgenda(ctx context.Context, topic, subject, expertise string) Outcome[string] {
	fallback := FallbackAgenda(topic, subject, expertise)
	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskAgenda,
		UserPrompt: agendaPrompt(topic, subject, expertise),
	})
	if err != nil {
		return noteFallback(c, OpAgenda, fromFallback(fallback, err))
	}
	text := strings.Trim(strings.TrimSpace(resp.Text), `"`)
	if text == "" {
		return noteFallback(c, OpAgenda, fromFallback(fallback, blankReply("agenda")))
	}
	return fromModel(truncateRunes(text, AgendaMaxRunes))
}

func (c *collaborator) SubTopics(ctx context.Context, s domain.Strategy) Outcome[[]domain.SubTopic] {
	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSubTopics,
		SystemPrompt: subTopicsSystemPrompt,
		UserPrompt:   subTopicsPrompt(s),
		JSON:         true,
	})
	if err != nil {
		return noteFallback(c, OpSubTopics, fromFallback(FallbackSubTopics(s), err))
	}
	items, err := llm.ExtractJSONArray[domain.SubTopic](resp.Text, validateSubTopics)
	if err != nil {
		return noteFallback(c, OpSubTopics, fromFallback(FallbackSubTopics(s), err))
	}
	if len(items) > domain.SubTopicCount {
		items = items[:domain.SubTopicCount]
	}
	for i := range items {
		items[i].Title = strings.TrimSpace(items[i].Title)
		items[i].Description = strings.TrimSpace(items[i].Description)
	}
	return fromModel(items)
}

func validateSubTopics(items []domain.SubTopic) error {
	if len(items) == 0 {
		return errors.New("no sub-topics returned")
	}
	for i, it := range items {
		if !it.Valid() {
			return fmt.Errorf("sub-topic %d is missing title or description", i+1)
		}
	}
	return nil
}

func (c *collaborator) Approach(ctx context.Context, s domain.Strategy, level domain.ComplexityLevel) Outcome[string] {
	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskApproach,
		UserPrompt: approachPrompt(s, level),
	})
	if err != nil {
		return noteFallback(c, OpApproach, fromFallback(FallbackApproach(s, level), err))
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return noteFallback(c, OpApproach, fromFallback(FallbackApproach(s, level), blankReply("approach")))
	}
	return fromModel(text)
}

func (c *collaborator) InitialQuestion(ctx context.Context, s domain.Strategy) Outcome[string] {
	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskInitialQuestion,
		UserPrompt: initialQuestionPrompt(s),
	})
	if err != nil {
		return noteFallback(c, OpInitialQuestion, fromFallback(OpeningQuestion, err))
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return noteFallback(c, OpInitialQuestion, fromFallback(OpeningQuestion, blankReply("initial question")))
	}
	return fromModel(text)
}

// readinessResponse mirrors the JSON the interviewer must return. Pointer
// fields distinguish a missing key from a zero value.
type readinessResponse struct {
	IsReadyToGenerate *bool   `json:"isReadyToGenerate"`
	QuestionToUser    *string `json:"questionToUser"`
	SummarySoFar      string  `json:"summarySoFar"`
}

func validateReadiness(r readinessResponse) error {
	if r.IsReadyToGenerate == nil {
		return errors.New("isReadyToGenerate is required")
	}
	if r.QuestionToUser == nil {
		return errors.New("questionToUser is required")
	}
	if !*r.IsReadyToGenerate && strings.TrimSpace(*r.QuestionToUser) == "" {
		return errors.New("questionToUser must not be blank when not ready")
	}
	return nil
}

func (c *collaborator) AnalyzeBriefing(ctx context.Context, s domain.Strategy, history []domain.ChatMessage) Outcome[Readiness] {
	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, llm.Message{Role: "user", Content: briefingContext(s)})
	msgs = append(msgs, toMessages(history)...)

	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskBriefing,
		SystemPrompt: interviewerSystemPrompt + readinessFormat,
		History:      msgs,
		JSON:         true,
	})
	if err != nil {
		return noteFallback(c, OpAnalyzeBriefing, fromFallback(Readiness{Question: followUpFor(err)}, err))
	}
	parsed, err := llm.ExtractJSON[readinessResponse](resp.Text, validateReadiness)
	if err != nil {
		return noteFallback(c, OpAnalyzeBriefing, fromFallback(Readiness{Question: FollowUpQuestion}, err))
	}
	return fromModel(Readiness{
		Ready:    *parsed.IsReadyToGenerate,
		Question: strings.TrimSpace(*parsed.QuestionToUser),
		Summary:  strings.TrimSpace(parsed.SummarySoFar),
	})
}

// followUpFor picks the fixed question for a failed readiness call.
func followUpFor(err error) string {
	switch Reason(err) {
	case "unavailable", "timeout", "request_failed":
		return ConnectionRetry
	default:
		return FollowUpQuestion
	}
}

func (c *collaborator) FinalContent(ctx context.Context, s domain.Strategy, history []domain.ChatMessage) Outcome[domain.GeneratedContent] {
	system := writerSystemPrompt
	if s.UseSearch {
		system += searchInstruction
	}
	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskFinalContent,
		SystemPrompt: system,
		History:      toMessages(history),
		UserPrompt:   finalContentPrompt(s, len(history) > 0),
	})
	if err == nil && strings.TrimSpace(resp.Text) == "" {
		err = blankReply("article")
	}
	if err != nil {
		fallback := domain.GeneratedContent{Text: FallbackArticle(s, history)}
		return noteFallback(c, OpFinalContent, fromFallback(fallback, err))
	}
	text := strings.TrimSpace(resp.Text)
	return fromModel(domain.GeneratedContent{Text: text, Citations: ExtractCitations(text)})
}

func (c *collaborator) Refine(ctx context.Context, text, instruction string) Outcome[string] {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(instruction) == "" {
		return noteFallback(c, OpRefine, fromFallback(text, ErrBlankInput))
	}
	resp, err := c.client.Generate(ctx, llm.GenerateRequest{
		Task:       llm.TaskRefine,
		UserPrompt: refinePrompt(text, strings.TrimSpace(instruction)),
	})
	if err != nil {
		return noteFallback(c, OpRefine, fromFallback(text, err))
	}
	refined := strings.TrimSpace(resp.Text)
	if refined == "" {
		return noteFallback(c, OpRefine, fromFallback(text, blankReply("refinement")))
	}
	return fromModel(refined)
}

func blankReply(what string) error {
	return fmt.Errorf("%w: blank %s", llm.ErrInvalidOutput, what)
}

// noteFallback logs and counts a fallback before handing it back.
func noteFallback[T any](c *collaborator, op string, o Outcome[T]) Outcome[T] {
	reason := Reason(o.Cause)
	c.log.Warn("collaborator fallback", "operation", op, "reason", reason, "err", o.Cause)
	if c.rec != nil {
		c.rec.RecordFallback(op, reason)
	}
	return o
}

func toMessages(history []domain.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == domain.ChatAssistant {
			role = "assistant"
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out
}
